package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateDefaultLayout(t *testing.T) {
	parse, _, _ := Lookup(URI("date"))
	v, perr := parse("2021-03-04", nil)
	require.Nil(t, perr)
	assert.Equal(t, KindDateTime, v.Kind)
}

func TestParseDateTimeWithZone(t *testing.T) {
	parse, _, _ := Lookup(URI("dateTime"))
	v, perr := parse("2021-03-04T10:00:00Z", nil)
	require.Nil(t, perr)
	assert.Equal(t, 2021, v.Time.Year())
}

func TestParseDateTimeInvalid(t *testing.T) {
	parse, _, _ := Lookup(URI("dateTime"))
	_, perr := parse("not-a-date", nil)
	require.NotNil(t, perr)
}

func TestParseDateTimeWithLDMLPattern(t *testing.T) {
	parse, _, _ := Lookup(URI("dateTime"))
	format := &FormatInfo{Pattern: "dd/MM/yyyy HH:mm:ss"}
	v, perr := parse("04/03/2021 10:00:00", format)
	require.Nil(t, perr)
	assert.Equal(t, 2021, v.Time.Year())
	assert.Equal(t, 3, int(v.Time.Month()))
}

func TestDurationFamily(t *testing.T) {
	parse, _, _ := Lookup(URI("duration"))

	v, perr := parse("P1Y2M3DT4H5M6S", nil)
	require.Nil(t, perr)
	assert.Equal(t, "P1Y2M3DT4H5M6S", v.String())

	_, perr = parse("not-a-duration", nil)
	require.NotNil(t, perr)
}

func TestYearMonthDurationRejectsDayComponent(t *testing.T) {
	parse, _, _ := Lookup(URI("yearMonthDuration"))
	_, perr := parse("P1Y2D", nil)
	require.NotNil(t, perr)
}
