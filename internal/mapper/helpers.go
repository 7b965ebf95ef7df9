package mapper

import "strings"

// asMap returns v as an object node, or nil.
func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// asSlice returns v as an array node, or nil.
func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// str returns v as a string, or "" for nulls and non-strings.
func str(v any) string {
	s, _ := v.(string)
	return s
}

// asInt64 converts a decoded JSON number to int64. Decoding into a generic
// tree yields float64 for all numbers.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

// normalizeCurrency trims whitespace and collapses blank values to "", the
// "no currency" marker.
func normalizeCurrency(s string) string {
	return strings.TrimSpace(s)
}

// currencyMatches compares two currency codes case-insensitively after
// normalization. Two "no currency" values match each other.
func currencyMatches(a, b string) bool {
	return strings.EqualFold(normalizeCurrency(a), normalizeCurrency(b))
}

// scheduleCurrencyMatches reports whether a price schedule node exists and
// its currency matches the wanted one.
func scheduleCurrencyMatches(schedule any, want string) bool {
	m := asMap(schedule)
	if m == nil {
		return false
	}
	return currencyMatches(str(m["currency"]), want)
}
