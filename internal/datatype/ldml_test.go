package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLDMLNumberSimplePattern(t *testing.T) {
	d, perr := ParseLDMLNumber("1234.56", "#,##0.00", ',', '.')
	require.Nil(t, perr)
	assert.Equal(t, "1234.56", d.String())
}

func TestParseLDMLNumberEuropeanSeparators(t *testing.T) {
	d, perr := ParseLDMLNumber("1.234,56", "#.##0,00", '.', ',')
	require.Nil(t, perr)
	assert.Equal(t, "1234.56", d.String())
}

func TestParseLDMLNumberRejectsMismatch(t *testing.T) {
	_, perr := ParseLDMLNumber("abc", "#,##0.00", ',', '.')
	require.NotNil(t, perr)
}
