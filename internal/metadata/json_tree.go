package metadata

// Small accessors over the generic map[string]any tree produced by
// encoding/json, mirroring the teacher's internal/parser/toml "walk a
// generic tree, apply defaults" approach but for JSON.

import "strconv"

func intToString(i int64) string   { return strconv.FormatInt(i, 10) }
func floatToString(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func getMap(obj map[string]any, key string) (map[string]any, bool) {
	v, ok := obj[key]
	if !ok {
		return nil, false
	}
	return asMap(v)
}

func getSlice(obj map[string]any, key string) ([]any, bool) {
	v, ok := obj[key]
	if !ok {
		return nil, false
	}
	return asSlice(v)
}

func getString(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func getBool(obj map[string]any, key string, def bool) bool {
	v, ok := obj[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

func getInt(obj map[string]any, key string, def int) int {
	v, ok := obj[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return def
	}
}

func getRune(obj map[string]any, key string, def rune) rune {
	s, ok := getString(obj, key)
	if !ok || s == "" {
		return def
	}
	return []rune(s)[0]
}

// stringSlice coerces a JSON value that is either a single string or an
// array of strings into a []string, per the normaliser's job of expanding
// shorthand forms (§4.6) — defensive here in case upstream left a
// shorthand in place.
func stringSlice(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return []string{x}
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func getStringSlice(obj map[string]any, key string) []string {
	v, ok := obj[key]
	if !ok {
		return nil
	}
	return stringSlice(v)
}

func getFloatPtr(obj map[string]any, key string) *int {
	v, ok := obj[key]
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		i := int(n)
		return &i
	}
	return nil
}

func getRawString(obj map[string]any, key string) string {
	v, ok := obj[key]
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return formatNumber(s)
	}
	return ""
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return intToString(int64(f))
	}
	return floatToString(f)
}
