package datatype

import "strings"

// parseBoolean implements the boolean parse rules in §4.1: without a
// format, {true,1} => true and {false,0} => false (case-sensitive, no
// trimming beyond exact match); with a format "T|F" pattern, the left side
// of "|" is true and the right is false.
func parseBoolean(raw string, format *FormatInfo) (Value, *ParseError) {
	if format != nil && format.Pattern != "" {
		parts := strings.SplitN(format.Pattern, "|", 2)
		if len(parts) != 2 {
			return Value{}, parseErrorf("'%s' - invalid boolean format pattern (%s)", raw, format.Pattern)
		}
		trueToken, falseToken := parts[0], parts[1]
		switch raw {
		case trueToken:
			return BoolValue(true), nil
		case falseToken:
			return BoolValue(false), nil
		default:
			return Value{}, parseErrorf("'%s' - invalid boolean (%s)", raw, format.Pattern)
		}
	}

	switch raw {
	case "true", "1":
		return BoolValue(true), nil
	case "false", "0":
		return BoolValue(false), nil
	default:
		return Value{}, parseErrorf("'%s' - invalid boolean (no format provided)", raw)
	}
}
