// Package datatype implements the CSV-W datatype parser registry: one pure
// parse function per XML Schema-derived datatype URI, plus the LDML number
// pattern parser and the zoned date/time parser that format-driven columns
// use. Every parser here is pure and side-effect free; it returns a Value or
// a *ParseError.
package datatype

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags the dynamic type carried by a Value.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindDecimal // also backs all integer families; decimal.Decimal is arbitrary precision
	KindFloat   // double/float (IEEE-754, including +Inf/-Inf/NaN)
	KindDateTime
	KindInvalid // sentinel for a per-item parse failure that still occupies a slot
)

// Value is the heterogeneous parsed result of one column-validator item: a
// tagged sum of Bool | Decimal | Float | DateTime | Str | InvalidSentinel,
// as called for in SPEC_FULL.md / the design notes.
type Value struct {
	Kind  Kind
	Str   string          // KindString, KindInvalid (raw or trimmed text)
	Bool  bool            // KindBool
	Dec   decimal.Decimal // KindDecimal
	Float float64         // KindFloat
	Time  time.Time       // KindDateTime, always UTC-normalised
}

func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func DecimalValue(d decimal.Decimal) Value { return Value{Kind: KindDecimal, Dec: d} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func DateTimeValue(t time.Time) Value { return Value{Kind: KindDateTime, Time: t.UTC()} }

// InvalidValue builds the sentinel recorded for a failed per-item parse:
// "invalid - <raw>", per §4.2. It still participates in the parsed-value
// list unless the caller has chosen the "skip invalid items" open-question
// resolution (see internal/column and DESIGN.md).
func InvalidValue(raw string) Value {
	return Value{Kind: KindInvalid, Str: fmt.Sprintf("invalid - %s", raw)}
}

// String renders the canonical string form used for length checks, key
// assembly, and key equality. Decimals use their canonical (trimmed) form;
// datetimes use their UTC instant; everything else is the raw/trimmed text.
func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindDecimal:
		return v.Dec.String()
	case KindFloat:
		return formatFloat(v.Float)
	case KindDateTime:
		return v.Time.UTC().Format(time.RFC3339Nano)
	default:
		return v.Str
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	case math.IsNaN(f):
		return "NaN"
	default:
		return decimal.NewFromFloat(f).String()
	}
}

// ParseError is returned by a datatype parser on a malformed value. For the
// parsers in the registry, Message is already the full
// "'<item>' - <reason> (<pattern or "no format provided">)" text, which
// internal/column uses as the <datatype>_invalid error content as-is.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string { return e.Message }

func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}
