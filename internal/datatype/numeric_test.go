package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	parse, _, _ := Lookup(URI("decimal"))
	require.NotNil(t, parse)

	v, perr := parse("3.140", nil)
	require.Nil(t, perr)
	assert.Equal(t, KindDecimal, v.Kind)
	assert.Equal(t, "3.14", v.String())

	_, perr = parse("not-a-number", nil)
	require.NotNil(t, perr)
}

func TestParseDecimalGroupedFormat(t *testing.T) {
	parse, _, _ := Lookup(URI("decimal"))
	format := &FormatInfo{GroupChar: '.', DecimalChar: ','}

	v, perr := parse("1.234,56", format)
	require.Nil(t, perr)
	assert.Equal(t, "1234.56", v.String())
}

func TestSignedIntegerRangeEnforced(t *testing.T) {
	parse, _, _ := Lookup(URI("byte"))

	_, perr := parse("127", nil)
	assert.Nil(t, perr)

	_, perr = parse("128", nil)
	require.NotNil(t, perr)
}

func TestIntegerTruncationRejected(t *testing.T) {
	parse, _, _ := Lookup(URI("integer"))

	_, perr := parse("3.5", nil)
	require.NotNil(t, perr)
}

func TestBoundedIntegerFamily(t *testing.T) {
	parse, _, _ := Lookup(URI("nonNegativeInteger"))

	_, perr := parse("-1", nil)
	require.NotNil(t, perr)

	v, perr := parse("0", nil)
	require.Nil(t, perr)
	assert.Equal(t, "0", v.String())
}

func TestFloatSpecialValues(t *testing.T) {
	parse, _, _ := Lookup(URI("double"))

	v, perr := parse("INF", nil)
	require.Nil(t, perr)
	assert.True(t, v.Float > 0)

	v, perr = parse("-INF", nil)
	require.Nil(t, perr)
	assert.True(t, v.Float < 0)

	v, perr = parse("NaN", nil)
	require.Nil(t, perr)
	assert.True(t, v.Float != v.Float) // NaN != NaN
}
