package datatype

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ldmlPattern is the parsed skeleton of an LDML number pattern: literal
// prefix/suffix (already unquoted), whether a sign placeholder appears in
// the prefix, whether grouping is declared, the expected size of the
// right-most group, and whether an exponent section is present.
type ldmlPattern struct {
	prefix       string
	suffix       string
	signInPrefix bool
	grouped      bool
	groupSize    int
	hasFraction  bool
	hasExponent  bool
}

const numericPatternChars = "#0,.E+-"

// parseLDMLPattern splits a raw LDML pattern string into its literal and
// numeric-skeleton parts. Text inside single quotes is literal even if it
// contains pattern metacharacters; '' is a literal single quote.
func parseLDMLPattern(pattern string) ldmlPattern {
	var literal strings.Builder
	var numeric strings.Builder
	inQuote := false
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\'' {
			if inQuote && i+1 < len(runes) && runes[i+1] == '\'' {
				literal.WriteRune('\'')
				i++
				continue
			}
			inQuote = !inQuote
			continue
		}
		if inQuote {
			literal.WriteRune(r)
			continue
		}
		if strings.ContainsRune(numericPatternChars, r) {
			numeric.WriteRune(r)
		} else {
			literal.WriteRune(r)
		}
	}

	numSkeleton := numeric.String()
	// Locate prefix/suffix by where the numeric skeleton starts/ends within
	// the original (requoted away) text order; since quoted runs are
	// already folded into `literal` in original relative order this is an
	// approximation good enough for the prefix/suffix literals CSV-W
	// patterns actually use (currency-less numeric formats).
	prefix, suffix := splitLiteral(pattern, numSkeleton)

	p := ldmlPattern{
		prefix: prefix,
		suffix: suffix,
	}
	p.signInPrefix = strings.ContainsAny(prefix, "+-")

	core := numSkeleton
	hasExp := strings.ContainsRune(core, 'E')
	if hasExp {
		parts := strings.SplitN(core, "E", 2)
		core = parts[0]
		p.hasExponent = true
	}
	intPart := core
	if idx := strings.IndexRune(core, '.'); idx >= 0 {
		intPart = core[:idx]
		p.hasFraction = true
	}
	if strings.ContainsRune(intPart, ',') {
		p.grouped = true
		segs := strings.Split(intPart, ",")
		p.groupSize = len(segs[len(segs)-1])
	}
	return p
}

// splitLiteral recovers the literal prefix/suffix around the numeric
// skeleton by stripping pattern metacharacters and quote markers from the
// raw pattern text outside the first/last digit-placeholder run.
func splitLiteral(pattern, numSkeleton string) (prefix, suffix string) {
	runes := []rune(pattern)
	firstNumeric, lastNumeric := -1, -1
	inQuote := false
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\'' {
			if inQuote && i+1 < len(runes) && runes[i+1] == '\'' {
				i++
				continue
			}
			inQuote = !inQuote
			continue
		}
		if !inQuote && strings.ContainsRune(numericPatternChars, r) {
			if firstNumeric == -1 {
				firstNumeric = i
			}
			lastNumeric = i
		}
	}
	if firstNumeric == -1 {
		return stripQuotes(pattern), ""
	}
	prefix = stripQuotes(string(runes[:firstNumeric]))
	suffix = stripQuotes(string(runes[lastNumeric+1:]))
	return prefix, suffix
}

func stripQuotes(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r != '\'' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseLDMLNumber parses raw against an LDML-style number pattern, honoring
// the column's group/decimal separator characters. It strips the literal
// prefix/suffix, an optional sign, group-character occurrences, and
// converts the decimal character to '.', then parses the result as an
// arbitrary-precision decimal.
func ParseLDMLNumber(raw, pattern string, group, decimal_ rune) (decimal.Decimal, *ParseError) {
	p := parseLDMLPattern(pattern)

	s := raw
	sign := ""
	if p.prefix != "" {
		if !strings.HasPrefix(s, p.prefix) {
			// allow an optional sign between the prefix and the digits,
			// e.g. prefix "$" matching "$-5".
			if p.signInPrefix {
				trimmed := strings.TrimLeft(s, "+-")
				if strings.HasPrefix(trimmed, p.prefix) {
					sign = s[:len(s)-len(trimmed)]
					s = strings.TrimPrefix(trimmed, p.prefix)
				} else {
					return decimal.Decimal{}, parseErrorf("does not match prefix %q", p.prefix)
				}
			} else {
				return decimal.Decimal{}, parseErrorf("does not match prefix %q", p.prefix)
			}
		} else {
			s = strings.TrimPrefix(s, p.prefix)
		}
	}
	if p.suffix != "" {
		if !strings.HasSuffix(s, p.suffix) {
			return decimal.Decimal{}, parseErrorf("does not match suffix %q", p.suffix)
		}
		s = strings.TrimSuffix(s, p.suffix)
	}
	if sign == "" && len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		sign = string(s[0])
		s = s[1:]
	}

	s = standardise(s, group, decimal_)
	if sign != "" && !strings.HasPrefix(s, "+") && !strings.HasPrefix(s, "-") {
		s = sign + s
	}

	if !decimalRe.MatchString(s) && !integerRe.MatchString(s) {
		return decimal.Decimal{}, parseErrorf("'%s' does not match pattern %q", raw, pattern)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, parseErrorf("'%s' is not a valid number under pattern %q", raw, pattern)
	}
	return d, nil
}
