package datatype

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	decimalRe = regexp.MustCompile(`^(\+|-)?([0-9]+(\.[0-9]*)?|\.[0-9]+)$`)
	integerRe = regexp.MustCompile(`^[\-+]?[0-9]+$`)
	floatRe   = regexp.MustCompile(`^(\+|-)?([0-9]+(\.[0-9]*)?|\.[0-9]+)([Ee](\+|-)?[0-9]+)?$|^(\+|-)?INF$|^NaN$`)
)

// standardise applies §4.1's three-step textual normalisation used when no
// format.pattern is present: strip a trailing %/‰, drop group-char
// occurrences sitting strictly between two digits, and replace the
// decimal-char occurrence between two digits with '.'.
func standardise(raw string, groupChar, decimalChar rune) string {
	s := strings.TrimSuffix(strings.TrimSuffix(raw, "%"), "‰")

	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r == groupChar && i > 0 && i < len(runes)-1 && isDigit(runes[i-1]) && isDigit(runes[i+1]) {
			continue
		}
		if r == decimalChar && decimalChar != '.' && i > 0 && i < len(runes)-1 && isDigit(runes[i-1]) && isDigit(runes[i+1]) {
			b.WriteRune('.')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func groupChar(f *FormatInfo) rune {
	if f != nil && f.GroupChar != 0 {
		return f.GroupChar
	}
	return ','
}

func decimalChar(f *FormatInfo) rune {
	if f != nil && f.DecimalChar != 0 {
		return f.DecimalChar
	}
	return '.'
}

// numericString resolves a cell item to its numeric string form, either via
// the LDML pattern parser (format.pattern present) or via standardisation.
func numericString(raw string, f *FormatInfo) (string, *ParseError) {
	if f != nil && f.Pattern != "" {
		d, err := ParseLDMLNumber(raw, f.Pattern, groupChar(f), decimalChar(f))
		if err != nil {
			return "", err
		}
		return d.String(), nil
	}
	return standardise(raw, groupChar(f), decimalChar(f)), nil
}

func parseDecimal(raw string, format *FormatInfo) (Value, *ParseError) {
	s, perr := numericString(raw, format)
	if perr != nil {
		return Value{}, parseErrorf("'%s' - %s (%s)", raw, perr.Message, patternOrNone(format))
	}
	if !decimalRe.MatchString(s) {
		return Value{}, parseErrorf("'%s' - not a valid decimal (%s)", raw, patternOrNone(format))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Value{}, parseErrorf("'%s' - %s (%s)", raw, err.Error(), patternOrNone(format))
	}
	return DecimalValue(d), nil
}

type intRange struct {
	min, max *decimal.Decimal // nil = unbounded on that side
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

var signedRanges = map[string]intRange{
	"byte":    {ptr(mustDec("-128")), ptr(mustDec("127"))},
	"short":   {ptr(mustDec("-32768")), ptr(mustDec("32767"))},
	"int":     {ptr(mustDec("-2147483648")), ptr(mustDec("2147483647"))},
	"long":    {ptr(mustDec("-9223372036854775808")), ptr(mustDec("9223372036854775807"))},
	"integer": {nil, nil},
}

var boundedRanges = map[string]intRange{
	"nonNegativeInteger": {ptr(mustDec("0")), nil},
	"positiveInteger":    {ptr(mustDec("1")), nil},
	"unsignedByte":       {ptr(mustDec("0")), ptr(mustDec("255"))},
	"unsignedShort":      {ptr(mustDec("0")), ptr(mustDec("65535"))},
	"unsignedInt":        {ptr(mustDec("0")), ptr(mustDec("4294967295"))},
	"unsignedLong":       {ptr(mustDec("0")), ptr(mustDec("18446744073709551615"))},
	"nonPositiveInteger": {nil, ptr(mustDec("0"))},
	"negativeInteger":    {nil, ptr(mustDec("-1"))},
}

func signedIntParser(local string) ParseFunc {
	rng := signedRanges[local]
	errType := "invalid_" + local
	return integerParserFor(rng, errType)
}

func boundedIntParser(local string) ParseFunc {
	rng := boundedRanges[local]
	errType := "invalid_" + local
	return integerParserFor(rng, errType)
}

func integerParserFor(rng intRange, errType string) ParseFunc {
	return func(raw string, format *FormatInfo) (Value, *ParseError) {
		var s string
		var perr *ParseError
		if format != nil && format.Pattern != "" {
			d, err := ParseLDMLNumber(raw, format.Pattern, groupChar(format), decimalChar(format))
			if err != nil {
				return Value{}, parseErrorf("'%s' - %s (%s)", raw, err.Message, patternOrNone(format))
			}
			s = d.String()
		} else {
			s = standardise(raw, groupChar(format), decimalChar(format))
			if !integerRe.MatchString(s) {
				return Value{}, parseErrorf("'%s' - not a valid integer (%s)", raw, patternOrNone(format))
			}
		}
		_ = perr
		d, err := decimal.NewFromString(s)
		if err != nil || !d.Equal(d.Truncate(0)) {
			return Value{}, parseErrorf("'%s' - not a valid integer (%s)", raw, patternOrNone(format))
		}
		if rng.min != nil && d.LessThan(*rng.min) {
			return Value{}, parseErrorf("'%s' - out of range (%s)", raw, patternOrNone(format))
		}
		if rng.max != nil && d.GreaterThan(*rng.max) {
			return Value{}, parseErrorf("'%s' - out of range (%s)", raw, patternOrNone(format))
		}
		return DecimalValue(d), nil
	}
}

func floatParser(local string) ParseFunc {
	return func(raw string, format *FormatInfo) (Value, *ParseError) {
		s := raw
		if format != nil && format.Pattern != "" {
			d, err := ParseLDMLNumber(raw, format.Pattern, groupChar(format), decimalChar(format))
			if err != nil {
				return Value{}, parseErrorf("'%s' - %s (%s)", raw, err.Message, patternOrNone(format))
			}
			s = d.String()
		} else {
			s = standardise(raw, groupChar(format), decimalChar(format))
		}
		normalised := s
		if normalised == "INF" {
			normalised = "+INF"
		}
		if !floatRe.MatchString(normalised) {
			return Value{}, parseErrorf("'%s' - not a valid %s (%s)", raw, local, patternOrNone(format))
		}
		f, err := parseSpecialFloat(s)
		if err != nil {
			return Value{}, parseErrorf("'%s' - %s (%s)", raw, err.Error(), patternOrNone(format))
		}
		return FloatValue(f), nil
	}
}

func patternOrNone(f *FormatInfo) string {
	if f != nil && f.Pattern != "" {
		return f.Pattern
	}
	return "no format provided"
}
