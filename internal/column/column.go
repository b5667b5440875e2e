// Package column implements the CSV-W column validator: converting one raw
// cell string into parsed values plus a list of errors, per SPEC_FULL.md
// §4.2. It owns lazy range-bound parsing and header/language-tag matching.
package column

import (
	"fmt"
	"strings"

	"csvw/internal/datatype"
	"csvw/internal/schema"

	"golang.org/x/text/language"
)

// Validator wraps a schema.Column with the datatype parser it resolves to
// and the (lazily parsed, cached) range bounds declared on it.
type Validator struct {
	col            *schema.Column
	parse          datatype.ParseFunc
	formatValidate datatype.FormatValidateFunc
	stringLike     bool

	rangeParsed bool
	minIncl     *datatype.Value
	maxIncl     *datatype.Value
	minExcl     *datatype.Value
	maxExcl     *datatype.Value
	rangeErr    error
}

// New builds a Validator for col. It errors if col's datatype URI is not in
// the registry — a metadata-stage condition, not a per-row one.
func New(col *schema.Column) (*Validator, error) {
	parse, fv, stringLike := datatype.Lookup(col.BaseDatatype)
	if parse == nil {
		return nil, fmt.Errorf("column %q: unknown datatype %q", col.Name, col.BaseDatatype)
	}
	return &Validator{col: col, parse: parse, formatValidate: fv, stringLike: stringLike}, nil
}

func (v *Validator) format() *datatype.FormatInfo {
	if v.col.Format == nil {
		return nil
	}
	return &datatype.FormatInfo{
		Pattern:     v.col.Format.Pattern,
		GroupChar:   v.col.Format.GroupChar,
		DecimalChar: v.col.Format.DecimalChar,
	}
}

// Validate runs the §4.2 algorithm against one raw cell string, returning
// the accumulated errors (in emission order: length -> range -> required ->
// format per item) and the list of successfully parsed values.
func (v *Validator) Validate(row int, cell string) ([]schema.Entry, []datatype.Value) {
	col := v.col

	if isNullToken(cell, col.NullTokens) {
		var errs []schema.Entry
		if col.Required {
			errs = append(errs, v.requiredError(row, ""))
		}
		return errs, nil
	}

	var items []string
	if col.IsListValued() {
		items = strings.Split(cell, col.Separator)
	} else {
		items = []string{cell}
	}

	var errs []schema.Entry
	var values []datatype.Value

	for _, item := range items {
		val, parseErr := v.parse(item, v.format())
		if parseErr != nil {
			errs = append(errs, schema.Entry{
				Type:     errorTypeFor(col.BaseDatatype),
				Category: schema.CategorySchema,
				Row:      row,
				Column:   col.Ordinal,
				Content:  parseErr.Error(),
				Extra:    fmt.Sprintf("required => %v", col.Required),
			})
			// Per the resolved open question (a) in SPEC_FULL.md/DESIGN.md,
			// invalid items are skipped from the parsed-value list rather
			// than carried forward as a sentinel into key assembly.
			continue
		}

		itemOK := true

		if lenErr, ok := v.checkLength(row, item, val); ok {
			errs = append(errs, lenErr)
			itemOK = false
		}

		if rngErr, ok := v.checkRange(row, val); ok {
			errs = append(errs, rngErr)
			itemOK = false
		}

		if col.Required && item == "" {
			errs = append(errs, v.requiredError(row, item))
			itemOK = false
		}

		if v.stringLike && col.Format != nil && col.Format.Pattern != "" {
			if !v.formatValidate(item, col.Format.Pattern) {
				errs = append(errs, schema.Entry{
					Type:     schema.ErrFormat,
					Category: schema.CategorySchema,
					Row:      row,
					Column:   col.Ordinal,
					Content:  fmt.Sprintf("'%s' does not match format %q", item, col.Format.Pattern),
					Extra:    fmt.Sprintf("required => %v", col.Required),
				})
				itemOK = false
			}
		}

		if itemOK {
			values = append(values, val)
		}
	}

	return errs, values
}

func (v *Validator) requiredError(row int, item string) schema.Entry {
	return schema.Entry{
		Type:     schema.ErrRequired,
		Category: schema.CategorySchema,
		Row:      row,
		Column:   v.col.Ordinal,
		Content:  fmt.Sprintf("column %q requires a value", v.col.Name),
		Extra:    "required => true",
	}
}

func isNullToken(cell string, tokens []string) bool {
	for _, t := range tokens {
		if cell == t {
			return true
		}
	}
	return false
}

func patternOrNone(col *schema.Column) string {
	if col.Format != nil && col.Format.Pattern != "" {
		return col.Format.Pattern
	}
	return "no format provided"
}

func errorTypeFor(datatypeURI string) string {
	local := datatype.LocalNameFromURI(datatypeURI)
	switch local {
	case "gMonthDay":
		return schema.ErrInvalidGMonthDay // preserves the source typo, see DESIGN.md
	case "dateTime":
		return schema.ErrInvalidDatetime
	default:
		return "invalid_" + local
	}
}

// ValidateHeader checks an observed header string against col's titles,
// matching any declared title under any language tag that matches col.Lang.
// A column that declares no titles accepts any header.
func (v *Validator) ValidateHeader(row int, observed string) *schema.Entry {
	col := v.col
	if len(col.Titles) == 0 {
		return nil
	}
	for lang, titles := range col.Titles {
		if !LanguageMatch(col.Lang, lang) {
			continue
		}
		for _, t := range titles {
			if t == observed {
				return nil
			}
		}
	}
	return &schema.Entry{
		Type:     schema.ErrInvalidHeader,
		Category: schema.CategorySchema,
		Row:      row,
		Column:   col.Ordinal,
		Content:  observed,
	}
}

// LanguageMatch implements §4.2's language-tag matching rule using
// golang.org/x/text/language for BCP-47 parsing: tags match iff equal,
// either is "und" or empty, or one is a hyphen-prefixed subtag of the
// other. Tags that fail to parse match only case-insensitively equal tags.
func LanguageMatch(a, b string) bool {
	if a == b {
		return true
	}
	if a == "und" || b == "und" || a == "" || b == "" {
		return true
	}
	ta, errA := language.Parse(a)
	tb, errB := language.Parse(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(a, b)
	}
	return isSubtagOf(ta, tb) || isSubtagOf(tb, ta)
}

// isSubtagOf reports whether shorter equals longer or is a prefix of it
// ending at a subtag boundary, i.e. longer == shorter plus extra subtags
// ("en" is a subtag-prefix of "en-GB").
func isSubtagOf(shorter, longer language.Tag) bool {
	if shorter == longer {
		return true
	}
	shortStr := shorter.String()
	longStr := longer.String()
	return strings.HasPrefix(longStr, shortStr+"-")
}
