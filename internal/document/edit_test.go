package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBold(t *testing.T) {
	out, err := ApplyBold(`<p>Hola mundo</p>`, Range{Block: 0, Start: 5, End: 10})
	require.NoError(t, err)
	assert.Equal(t, `<p>Hola <strong>mundo</strong></p>`, out)
}

func TestApplyItalicMiddleOfText(t *testing.T) {
	out, err := ApplyItalic(`<p>uno dos tres</p>`, Range{Block: 0, Start: 4, End: 7})
	require.NoError(t, err)
	assert.Equal(t, `<p>uno <em>dos</em> tres</p>`, out)
}

func TestApplyUnderlineSecondBlock(t *testing.T) {
	out, err := ApplyUnderline(`<h1>Título</h1><p>Contenido</p>`, Range{Block: 1, Start: 0, End: 9})
	require.NoError(t, err)
	assert.Contains(t, out, `<p><u>Contenido</u></p>`)
	assert.Contains(t, out, `<h1>Título</h1>`)
}

func TestApplyFontSize(t *testing.T) {
	out, err := ApplyFontSize(`<p>texto</p>`, Range{Block: 0, Start: 0, End: 5}, 14)
	require.NoError(t, err)
	assert.Equal(t, `<p><span style="font-size: 14px;">texto</span></p>`, out)
}

func TestApplyBoldCountsRunes(t *testing.T) {
	out, err := ApplyBold(`<p>Sánchez</p>`, Range{Block: 0, Start: 0, End: 7})
	require.NoError(t, err)
	assert.Equal(t, `<p><strong>Sánchez</strong></p>`, out)
}

func TestApplyBoldAcrossInlineElements(t *testing.T) {
	out, err := ApplyBold(`<p>uno <em>dos</em> tres</p>`, Range{Block: 0, Start: 2, End: 10})
	require.NoError(t, err)
	assert.Equal(t, `<p>un<strong>o </strong><em><strong>dos</strong></em><strong> tr</strong>es</p>`, out)
}

func TestApplyBoldEndExclusive(t *testing.T) {
	// Символ на позиции End не входит в диапазон
	out, err := ApplyBold(`<p>uno dos</p>`, Range{Block: 0, Start: 0, End: 3})
	require.NoError(t, err)
	assert.Equal(t, `<p><strong>uno</strong> dos</p>`, out)
}

func TestApplyBoldRejectsOutOfRange(t *testing.T) {
	_, err := ApplyBold(`<p>corto</p>`, Range{Block: 0, Start: 0, End: 10})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = ApplyBold(`<p>corto</p>`, Range{Block: 3, Start: 0, End: 2})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = ApplyBold(`<p>corto</p>`, Range{Block: 0, Start: 3, End: 3})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestApplyFontSizeRejectsAbsurdSize(t *testing.T) {
	_, err := ApplyFontSize(`<p>texto</p>`, Range{Block: 0, Start: 0, End: 5}, 500)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
