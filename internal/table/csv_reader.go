package table

import (
	"encoding/csv"
	"io"
	"strings"

	"csvw/internal/schema"
)

// newCSVReader configures a stdlib csv.Reader from a Dialect: delimiter,
// lazy quote handling when double_quote is false, and variable field
// counts (ragged rows are an engine-level concern, not a parser error).
// The quote character is always '"'; backslash escapes are not
// interpreted.
func newCSVReader(r io.Reader, d schema.Dialect) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = d.Delimiter
	cr.FieldsPerRecord = -1 // ragged rows are handled by the pipeline, not the parser
	cr.LazyQuotes = !d.DoubleQuote
	cr.ReuseRecord = false
	return cr
}

// applyTrim returns a copy of record with every field trimmed when the
// dialect requests it, or record unchanged otherwise.
func applyTrim(record []string, trim bool) []string {
	if !trim {
		return record
	}
	out := make([]string, len(record))
	for i, f := range record {
		out[i] = strings.TrimSpace(f)
	}
	return out
}

// isBlankRecord reports whether every field in record is empty.
func isBlankRecord(record []string) bool {
	for _, f := range record {
		if f != "" {
			return false
		}
	}
	return true
}
