package column

import (
	"fmt"
	"strings"

	"csvw/internal/datatype"
	"csvw/internal/schema"
)

// checkLength runs the §4.2 length restrictions against the string form of
// one item, applying the base64Binary/hexBinary special-case byte-length
// computation.
func (v *Validator) checkLength(row int, item string, _ datatype.Value) (schema.Entry, bool) {
	r := v.col.Restrictions
	if r.Length == nil && r.MinLength == nil && r.MaxLength == nil {
		return schema.Entry{}, false
	}

	n := effectiveLength(v.col.BaseDatatype, item)

	if r.Length != nil && n != *r.Length {
		return v.lengthEntry(row, schema.ErrLength, item, n, *r.Length), true
	}
	if r.MinLength != nil && n < *r.MinLength {
		return v.lengthEntry(row, schema.ErrMinLength, item, n, *r.MinLength), true
	}
	if r.MaxLength != nil && n > *r.MaxLength {
		return v.lengthEntry(row, schema.ErrMaxLength, item, n, *r.MaxLength), true
	}
	return schema.Entry{}, false
}

func (v *Validator) lengthEntry(row int, errType, item string, actual, want int) schema.Entry {
	return schema.Entry{
		Type:     errType,
		Category: schema.CategorySchema,
		Row:      row,
		Column:   v.col.Ordinal,
		Content:  fmt.Sprintf("'%s' has length %d, expected %s %d", item, actual, errType, want),
		Extra:    fmt.Sprintf("required => %v", v.col.Required),
	}
}

func effectiveLength(datatypeURI, item string) int {
	switch datatype.LocalNameFromURI(datatypeURI) {
	case "base64Binary":
		stripped := strings.TrimRight(item, "=")
		return len(stripped) * 3 / 4
	case "hexBinary":
		return len(item) / 2
	default:
		return len([]rune(item))
	}
}
