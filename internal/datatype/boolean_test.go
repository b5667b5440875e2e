package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBooleanNoFormat(t *testing.T) {
	v, perr := parseBoolean("true", nil)
	require.Nil(t, perr)
	assert.True(t, v.Bool)

	v, perr = parseBoolean("0", nil)
	require.Nil(t, perr)
	assert.False(t, v.Bool)

	_, perr = parseBoolean("yes", nil)
	require.NotNil(t, perr)
}

func TestParseBooleanWithFormat(t *testing.T) {
	format := &FormatInfo{Pattern: "Y|N"}
	v, perr := parseBoolean("Y", format)
	require.Nil(t, perr)
	assert.True(t, v.Bool)

	v, perr = parseBoolean("N", format)
	require.Nil(t, perr)
	assert.False(t, v.Bool)

	_, perr = parseBoolean("true", format)
	require.NotNil(t, perr)
}
