package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeadingsAndParagraphs(t *testing.T) {
	out, err := Normalize(`<h1>Propuesta</h1><h2>Contexto</h2><p>Texto largo.</p><ul><li>Uno</li></ul>`)
	require.NoError(t, err)

	assert.Contains(t, out, `<h1 style="text-align: center;">`)
	assert.Contains(t, out, `<h2 style="text-align: left;">`)
	assert.Contains(t, out, `<p style="text-align: justify;">`)
	assert.Contains(t, out, `<ul style="`+listStyle+`">`)
	assert.Contains(t, out, `<li style="`+listItemStyle+`">`)
}

func TestNormalizePreservesExistingStyleProps(t *testing.T) {
	out, err := Normalize(`<h1 style="color: red;">Propuesta</h1>`)
	require.NoError(t, err)

	assert.Contains(t, out, "color: red")
	assert.Contains(t, out, "text-align: center")
}

func TestNormalizeCurrencyCenteredAtAnyNesting(t *testing.T) {
	out, err := Normalize(`<div><div><p>Inversión: <strong>$1.500 USD</strong></p></div></div>`)
	require.NoError(t, err)

	assert.Contains(t, out, `<p style="text-align: center;">`)
}

func TestNormalizeCompletePackageCentered(t *testing.T) {
	out, err := Normalize(`<h3>  Implementación Completa </h3><p>Implementación Completa y algo más</p>`)
	require.NoError(t, err)

	assert.Contains(t, out, `<h3 style="text-align: center;">`)
	// Абзац с дополнительным текстом не центрируется
	assert.Contains(t, out, `<p style="text-align: justify;">`)
}

func TestNormalizeBoldsAuthorName(t *testing.T) {
	out, err := Normalize(`<p>Atentamente, Alexander Sánchez, a sus órdenes</p>`)
	require.NoError(t, err)

	assert.Contains(t, out, "<strong>Alexander Sánchez</strong>")
	assert.Contains(t, out, "Atentamente, ")
	assert.Contains(t, out, ", a sus órdenes")
}

func TestNormalizePorParteDeExcluded(t *testing.T) {
	out, err := Normalize(`<p>Por parte de Alexander Sánchez y el equipo</p>`)
	require.NoError(t, err)

	assert.NotContains(t, out, "<strong>")
	assert.NotContains(t, out, contactStyle)
}

func TestNormalizeContactBlock(t *testing.T) {
	out, err := Normalize(`<p>Cofundador</p><p>alexander.sanchez@opptima.ai</p><p>0412-5550101</p><p>linkedin.com/in/alexander</p>`)
	require.NoError(t, err)

	assert.Equal(t, 4, strings.Count(out, contactStyle))
}

func TestNormalizeAgencyNameCentered(t *testing.T) {
	out, err := Normalize(`<p> Opptima AI Agency </p><p>Con Opptima AI Agency obtendrá resultados medibles en semanas y un acompañamiento continuo durante todo el proyecto.</p>`)
	require.NoError(t, err)

	// Короткий абзац получает контактный стиль, длинный — нет
	assert.Equal(t, 1, strings.Count(out, contactStyle))
}

func TestNormalizeAsteriskAndConditionHeadings(t *testing.T) {
	out, err := Normalize(`<p>* Aplican condiciones</p><p>Información y Accesos: credenciales</p><p>Disponibilidad y Feedback: semanal</p><p>Participación: activa</p>`)
	require.NoError(t, err)

	assert.Equal(t, 4, strings.Count(out, asteriskStyle))
}

func TestNormalizeNestedLists(t *testing.T) {
	out, err := Normalize(`<ul><li>Uno<ul><li>Anidado</li></ul></li></ul>`)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, listStyle))
	assert.Equal(t, 2, strings.Count(out, listItemStyle))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		`<h1>Propuesta</h1><p>Texto</p>`,
		`<p>Atentamente, Alexander Sánchez</p><p>Cofundador</p>`,
		`<p><strong>$2.000 USD</strong></p>`,
		`<ul><li>Uno</li><li>Dos</li></ul>`,
		`<p>* Nota al pie</p><p>Opptima AI Agency</p>`,
	}

	for _, input := range inputs {
		once, err := Normalize(input)
		require.NoError(t, err)
		twice, err := Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "повторный прогон изменил HTML: %s", input)
	}
}

func TestNormalizeDoesNotNestStrong(t *testing.T) {
	out, err := Normalize(`<p><strong>Alexander Sánchez</strong></p>`)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "<strong>"))
}
