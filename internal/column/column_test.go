package column

import (
	"testing"

	"csvw/internal/datatype"
	"csvw/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intCol() *schema.Column {
	return &schema.Column{
		Ordinal:      1,
		Name:         "age",
		BaseDatatype: datatype.URI("integer"),
		NullTokens:   []string{""},
	}
}

func TestValidateRequiredOnNull(t *testing.T) {
	col := intCol()
	col.Required = true
	v, err := New(col)
	require.NoError(t, err)

	errs, values := v.Validate(2, "")
	require.Len(t, errs, 1)
	assert.Equal(t, schema.ErrRequired, errs[0].Type)
	assert.Nil(t, values)
}

func TestValidateSkipsInvalidItemFromParsedValues(t *testing.T) {
	col := intCol()
	v, err := New(col)
	require.NoError(t, err)

	errs, values := v.Validate(3, "not-a-number")
	require.Len(t, errs, 1)
	assert.Equal(t, schema.ErrInvalidInteger, errs[0].Type)
	assert.Empty(t, values)
}

func TestValidateListValuedColumn(t *testing.T) {
	col := intCol()
	col.Separator = ";"
	v, err := New(col)
	require.NoError(t, err)

	errs, values := v.Validate(4, "1;2;3")
	assert.Empty(t, errs)
	require.Len(t, values, 3)
	assert.Equal(t, "2", values[1].String())
}

func TestValidateLengthRestriction(t *testing.T) {
	col := &schema.Column{
		Ordinal:      1,
		Name:         "code",
		BaseDatatype: datatype.URI("string"),
		NullTokens:   []string{""},
		Restrictions: schema.Restrictions{Length: intPtr(3)},
	}
	v, err := New(col)
	require.NoError(t, err)

	errs, _ := v.Validate(1, "abcd")
	require.Len(t, errs, 1)
	assert.Equal(t, schema.ErrLength, errs[0].Type)

	errs, values := v.Validate(2, "abc")
	assert.Empty(t, errs)
	require.Len(t, values, 1)
}

func TestValidateRangeRestriction(t *testing.T) {
	col := intCol()
	col.Restrictions = schema.Restrictions{MinInclusive: "0", MaxInclusive: "10"}
	v, err := New(col)
	require.NoError(t, err)

	errs, _ := v.Validate(1, "11")
	require.Len(t, errs, 1)
	assert.Equal(t, schema.ErrMaxInclusive, errs[0].Type)

	errs, values := v.Validate(2, "5")
	assert.Empty(t, errs)
	require.Len(t, values, 1)
}

func TestLanguageMatch(t *testing.T) {
	assert.True(t, LanguageMatch("und", "en"))
	assert.True(t, LanguageMatch("en", "en-GB"))
	assert.True(t, LanguageMatch("en-GB", "en"))
	assert.False(t, LanguageMatch("en", "fr"))
	assert.True(t, LanguageMatch("en", "en"))
}

func TestValidateHeaderMismatch(t *testing.T) {
	col := intCol()
	col.Titles = map[string][]string{"en": {"Age"}}
	col.Lang = "en"
	v, err := New(col)
	require.NoError(t, err)

	assert.Nil(t, v.ValidateHeader(1, "Age"))
	assert.NotNil(t, v.ValidateHeader(1, "Years"))
}

func intPtr(i int) *int { return &i }
