package datatype

import (
	"strings"
	"time"
)

// defaultLayouts lists the XSD-lexical-space Go reference layouts tried, in
// order, for each datatype local name when no format.pattern is supplied.
// Each entry is tried with and without a trailing zone/fraction via
// layoutVariants.
var defaultLayouts = map[string][]string{
	"date":          {"2006-01-02"},
	"dateTime":      {"2006-01-02T15:04:05", "2006-01-02T15:04"},
	"dateTimeStamp": {"2006-01-02T15:04:05", "2006-01-02T15:04"},
	"time":          {"15:04:05", "15:04"},
	"gDay":          {"---02"},
	"gMonth":        {"--01"},
	"gMonthDay":     {"--01-02"},
	"gYear":         {"2006"},
	"gYearMonth":    {"2006-01"},
}

// layoutVariants expands a base layout with the optional fractional-second
// and timezone-offset suffixes XSD date/time lexical forms allow.
func layoutVariants(base string) []string {
	fractions := []string{"", ".999999999"}
	zones := []string{"", "Z07:00", "-07:00", "Z0700", "-0700", "Z"}
	var out []string
	for _, f := range fractions {
		for _, z := range zones {
			out = append(out, base+f+z)
		}
	}
	return out
}

func tryLayouts(raw string, layouts []string) (time.Time, error) {
	var lastErr error
	for _, l := range layouts {
		if t, err := time.Parse(l, raw); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// translateLDMLDateLayout converts an LDML date/time pattern into a Go
// reference-time layout. Quoted literal runs pass through verbatim;
// recognised letter runs (y, M, d, H, h, m, s, S, X, Z, z, a) translate to
// their Go equivalents; anything else is copied as a literal.
func translateLDMLDateLayout(pattern string) string {
	var out strings.Builder
	runes := []rune(pattern)
	inQuote := false
	for i := 0; i < len(runes); {
		r := runes[i]
		if r == '\'' {
			if inQuote && i+1 < len(runes) && runes[i+1] == '\'' {
				out.WriteRune('\'')
				i += 2
				continue
			}
			inQuote = !inQuote
			i++
			continue
		}
		if inQuote {
			out.WriteRune(r)
			i++
			continue
		}
		if isDateLetter(r) {
			j := i
			for j < len(runes) && runes[j] == r {
				j++
			}
			out.WriteString(translateDateRun(r, j-i))
			i = j
			continue
		}
		out.WriteRune(r)
		i++
	}
	return out.String()
}

func isDateLetter(r rune) bool {
	return strings.ContainsRune("yMdHhmsSXZza", r)
}

func translateDateRun(letter rune, n int) string {
	switch letter {
	case 'y':
		if n == 2 {
			return "06"
		}
		return "2006"
	case 'M':
		switch {
		case n >= 4:
			return "January"
		case n == 3:
			return "Jan"
		case n == 2:
			return "01"
		default:
			return "1"
		}
	case 'd':
		if n >= 2 {
			return "02"
		}
		return "2"
	case 'H':
		return "15"
	case 'h':
		if n >= 2 {
			return "03"
		}
		return "3"
	case 'm':
		if n >= 2 {
			return "04"
		}
		return "4"
	case 's':
		if n >= 2 {
			return "05"
		}
		return "5"
	case 'S':
		return "." + strings.Repeat("0", n)
	case 'X':
		switch n {
		case 1:
			return "Z07"
		case 2:
			return "Z0700"
		default:
			return "Z07:00"
		}
	case 'Z':
		return "-0700"
	case 'z':
		return "MST"
	case 'a':
		return "PM"
	default:
		return strings.Repeat(string(letter), n)
	}
}

// dateTimeParser builds the parser for one zoned date/time datatype. Two
// values compare equal for primary-key purposes iff their UTC-normalised
// instants match, which Value.String() (RFC3339Nano in UTC) guarantees.
func dateTimeParser(local string) ParseFunc {
	errType := "invalid_" + local
	return func(raw string, format *FormatInfo) (Value, *ParseError) {
		var t time.Time
		var err error
		if format != nil && format.Pattern != "" {
			layout := translateLDMLDateLayout(format.Pattern)
			t, err = time.Parse(layout, raw)
		} else {
			layouts := defaultLayouts[local]
			var all []string
			for _, l := range layouts {
				all = append(all, layoutVariants(l)...)
			}
			t, err = tryLayouts(raw, all)
		}
		if err != nil {
			return Value{}, parseErrorf("'%s' - %s (%s)", raw, errType, patternOrNone(format))
		}
		return DateTimeValue(t), nil
	}
}
