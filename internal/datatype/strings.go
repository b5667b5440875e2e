package datatype

import (
	"regexp"
	"strings"
	"sync"
)

// stringParser builds the parser for the plain-string and
// trimmed-string datatype families (§4.1 table, first two rows).
func stringParser(trim bool) ParseFunc {
	return func(raw string, _ *FormatInfo) (Value, *ParseError) {
		if trim {
			return StringValue(strings.TrimSpace(raw)), nil
		}
		return StringValue(raw), nil
	}
}

var (
	formatRegexCacheMu sync.Mutex
	formatRegexCache    = map[string]*regexp.Regexp{}
)

func compileFormatPattern(pattern string) (*regexp.Regexp, error) {
	formatRegexCacheMu.Lock()
	defer formatRegexCacheMu.Unlock()
	if re, ok := formatRegexCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	formatRegexCache[pattern] = re
	return re, nil
}

// regexFormatValidate runs format.pattern as a regular expression against
// raw, for the string-like datatype family.
func regexFormatValidate(raw, pattern string) bool {
	re, err := compileFormatPattern(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(raw)
}
