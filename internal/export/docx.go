package export

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// Ошибки экспорта, различаемые обработчиком ошибок.
var (
	// ErrDecode возвращается при повреждённом base64 или чужом формате файла.
	ErrDecode = errors.New("export: не удалось раскодировать документ")
	// ErrConversionUnavailable возвращается, когда внешний конвертер недоступен.
	ErrConversionUnavailable = errors.New("export: конвертер недоступен")
	// ErrConversion возвращается при ошибке самой конвертации.
	ErrConversion = errors.New("export: конвертация не удалась")
)

// MIME тип документа Word.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// DefaultFileName используется, когда имя файла не передали.
const DefaultFileName = "propuesta"

// DecodeFile64 раскодирует base64 полезную нагрузку генератора и проверяет,
// что внутри действительно контейнер DOCX. Байты возвращаются как есть.
func DecodeFile64(file64 string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(file64))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: пустой документ", ErrDecode)
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	// Генератор отдаёт docx; старые версии вебхука отдавали контейнер,
	// который filetype распознаёт как zip.
	if kind != matchers.TypeDocx && kind != matchers.TypeZip {
		return nil, fmt.Errorf("%w: неожиданный формат %q", ErrDecode, kind.Extension)
	}

	return data, nil
}

// документная обёртка с базовой типографикой исходного шаблона
const docxShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Arial, sans-serif; font-size: 11pt; line-height: 1.5; color: #000; }
h1 { text-align: center; }
table { border-collapse: collapse; width: 100%%; }
td, th { border: 1px solid #000; padding: 6px; }
</style>
</head>
<body>%s</body>
</html>`

// PrepareHTMLForDocx готовит HTML предпросмотра к упаковке в DOCX:
// Word не понимает !important и text-align: justify рендерит криво,
// а strong заменяется на b для совместимости со старыми версиями.
func PrepareHTMLForDocx(contentHTML string) string {
	prepared := strings.ReplaceAll(contentHTML, "!important", "")
	prepared = strings.ReplaceAll(prepared, "text-align: justify", "text-align: left")
	prepared = strings.ReplaceAll(prepared, "text-align:justify", "text-align: left")
	prepared = strings.ReplaceAll(prepared, "<strong>", "<b>")
	prepared = strings.ReplaceAll(prepared, "</strong>", "</b>")
	prepared = strings.ReplaceAll(prepared, "<strong ", "<b ")

	return fmt.Sprintf(docxShell, prepared)
}

// Части OPC контейнера. Содержимое документа подкладывается через
// altChunk: Word разворачивает HTML часть при первом открытии.
const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/afchunk.html" ContentType="text/html"/>
</Types>`

const rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
            xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<w:body>
<w:altChunk r:id="htmlChunk"/>
<w:sectPr>
<w:pgSz w:w="12240" w:h="15840"/>
<w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134" w:header="708" w:footer="708" w:gutter="0"/>
</w:sectPr>
</w:body>
</w:document>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="htmlChunk" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/aFChunk" Target="afchunk.html"/>
</Relationships>`

// ConvertHTMLToDocx упаковывает подготовленный HTML в DOCX контейнер.
func ConvertHTMLToDocx(contentHTML string) ([]byte, error) {
	prepared := PrepareHTMLForDocx(contentHTML)

	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"word/document.xml", documentXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/afchunk.html", prepared},
	}

	for _, part := range parts {
		writer, err := archive.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("%w: часть %s: %v", ErrConversion, part.name, err)
		}
		if _, err := writer.Write([]byte(part.body)); err != nil {
			return nil, fmt.Errorf("%w: часть %s: %v", ErrConversion, part.name, err)
		}
	}

	if err := archive.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversion, err)
	}

	return buf.Bytes(), nil
}
