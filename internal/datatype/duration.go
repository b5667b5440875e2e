package datatype

import "regexp"

// Duration datatypes are opaque strings validated by datatype-specific
// regexes (§4.1); no decomposition is needed since the engine never does
// duration arithmetic.
var durationRegexes = map[string]*regexp.Regexp{
	"duration": regexp.MustCompile(
		`^-?P(?:[0-9]+Y)?(?:[0-9]+M)?(?:[0-9]+D)?(?:T(?:[0-9]+H)?(?:[0-9]+M)?(?:[0-9]+(?:\.[0-9]+)?S)?)?$`),
	"dayTimeDuration": regexp.MustCompile(
		`^-?P(?:[0-9]+D)?(?:T(?:[0-9]+H)?(?:[0-9]+M)?(?:[0-9]+(?:\.[0-9]+)?S)?)?$`),
	"yearMonthDuration": regexp.MustCompile(`^-?P(?:[0-9]+Y)?(?:[0-9]+M)?$`),
}

func durationParser(local string) ParseFunc {
	re := durationRegexes[local]
	errType := "invalid_" + local
	return func(raw string, format *FormatInfo) (Value, *ParseError) {
		if raw == "P" || raw == "-P" || !re.MatchString(raw) {
			return Value{}, parseErrorf("'%s' - %s (%s)", raw, errType, patternOrNone(format))
		}
		return StringValue(raw), nil
	}
}
