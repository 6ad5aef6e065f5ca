package export

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeZipPayload собирает минимальный zip контейнер для проверки сквозной выгрузки.
func makeZipPayload(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)
	writer, err := archive.Create("word/document.xml")
	require.NoError(t, err)
	_, err = writer.Write([]byte("<w:document/>"))
	require.NoError(t, err)
	require.NoError(t, archive.Close())

	return buf.Bytes()
}

func TestDecodeFile64Passthrough(t *testing.T) {
	payload := makeZipPayload(t)
	encoded := base64.StdEncoding.EncodeToString(payload)

	decoded, err := DecodeFile64(encoded)
	require.NoError(t, err)

	// Байты отдаются как есть, без перекодирования
	assert.Equal(t, len(payload), len(decoded))
	assert.Equal(t, payload, decoded)
}

func TestDecodeFile64MalformedBase64(t *testing.T) {
	_, err := DecodeFile64("это не base64!!!")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeFile64EmptyPayload(t *testing.T) {
	_, err := DecodeFile64("")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeFile64RejectsForeignFormat(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 algo"))
	_, err := DecodeFile64(encoded)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestPrepareHTMLForDocx(t *testing.T) {
	input := `<p style="text-align: justify !important;">Texto</p><strong>Nombre</strong>`
	prepared := PrepareHTMLForDocx(input)

	assert.NotContains(t, prepared, "!important")
	assert.NotContains(t, prepared, "text-align: justify")
	assert.NotContains(t, prepared, "<strong>")
	assert.Contains(t, prepared, "text-align: left")
	assert.Contains(t, prepared, "<b>Nombre</b>")
	assert.Contains(t, prepared, "font-family: Arial")
}

func TestConvertHTMLToDocxProducesValidContainer(t *testing.T) {
	data, err := ConvertHTMLToDocx(`<p style="text-align: justify;">Contenido</p>`)
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := map[string]bool{}
	for _, file := range reader.File {
		names[file.Name] = true
	}
	assert.True(t, names["[Content_Types].xml"])
	assert.True(t, names["_rels/.rels"])
	assert.True(t, names["word/document.xml"])
	assert.True(t, names["word/_rels/document.xml.rels"])
	assert.True(t, names["word/afchunk.html"])

	// HTML часть не содержит justify
	for _, file := range reader.File {
		if file.Name != "word/afchunk.html" {
			continue
		}
		rc, err := file.Open()
		require.NoError(t, err)
		var content bytes.Buffer
		_, err = content.ReadFrom(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.NotContains(t, content.String(), "text-align: justify")
		assert.Contains(t, content.String(), "Contenido")
	}

	// Контейнер сам проходит проверку сквозной выгрузки
	_, err = DecodeFile64(base64.StdEncoding.EncodeToString(data))
	assert.NoError(t, err)
}
