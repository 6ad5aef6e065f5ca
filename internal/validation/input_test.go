package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("sin-arroba"))
	assert.Error(t, ValidateEmail("a@b"))
	assert.Error(t, ValidateEmail("a@@b.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Secreto123"))
	assert.Error(t, ValidatePassword("corto1A"))
	assert.Error(t, ValidatePassword("sinmayusculas1"))
	assert.Error(t, ValidatePassword("SINMINUSCULAS1"))
	assert.Error(t, ValidatePassword("SinNumeros"))
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone(""))
	assert.NoError(t, ValidatePhone("+58 412-555-0101"))
	assert.Error(t, ValidatePhone("abc"))
}

func TestValidatePrice(t *testing.T) {
	value, err := ValidatePrice("1000")
	require.NoError(t, err)
	assert.Equal(t, float64(1000), value)

	value, err = ValidatePrice("1500.50")
	require.NoError(t, err)
	assert.Equal(t, 1500.50, value)

	_, err = ValidatePrice("")
	assert.Error(t, err)
	_, err = ValidatePrice("no-numero")
	assert.Error(t, err)
	_, err = ValidatePrice("0")
	assert.Error(t, err)
	_, err = ValidatePrice("-10")
	assert.Error(t, err)
}

func TestFilterList(t *testing.T) {
	assert.Equal(t, []string{"uno", "dos"}, FilterList([]string{"uno", "  ", "", "dos"}))
	assert.Empty(t, FilterList([]string{"", "   "}))
}

func TestValidateLengthCountsRunes(t *testing.T) {
	// "Búsqueda" — 8 рун, 9 байт
	assert.NoError(t, ValidateLength("поле", "Búsqueda", 8, 8))
}
