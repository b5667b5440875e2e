package datatype

import (
	"math"
	"strconv"
)

// parseSpecialFloat converts the XSD special tokens (INF, -INF, NaN,
// case-sensitive) to IEEE-754 values before falling back to strconv, per
// §4.1's "convert INF -> positive infinity before numeric parse" rule.
func parseSpecialFloat(s string) (float64, error) {
	switch s {
	case "INF", "+INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	case "NaN":
		return math.NaN(), nil
	default:
		return strconv.ParseFloat(s, 64)
	}
}
