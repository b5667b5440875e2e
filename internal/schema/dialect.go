package schema

// Dialect is the CSV parser configuration for a table or table group.
// Zero-value construction does not apply defaults; use DefaultDialect.
type Dialect struct {
	Delimiter      rune
	QuoteChar      rune
	DoubleQuote    bool // true: doubled quote char escapes; false: backslash escapes
	SkipRows       int
	SkipBlankRows  bool
	Header         bool
	Encoding       string
	Trim           bool
}

// DefaultDialect returns the CSV-W default dialect: comma-delimited,
// double-quote, UTF-8, header row present, blank rows skipped.
func DefaultDialect() Dialect {
	return Dialect{
		Delimiter:     ',',
		QuoteChar:     '"',
		DoubleQuote:   true,
		SkipRows:      0,
		SkipBlankRows: true,
		Header:        true,
		Encoding:      "UTF-8",
		Trim:          true,
	}
}
