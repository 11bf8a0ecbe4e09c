package utils

import (
	"strconv"
	"strings"
)

// ParseValue types a raw text cell: blank -> nil, numeric -> float64,
// anything else -> the trimmed string.
func ParseValue(s string) interface{} {
	// Trim whitespace first
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// try int
	if i, err := strconv.Atoi(s); err == nil {
		return float64(i)
	}
	// try float, but never let "NaN"/"Inf" words pass as numbers
	if f, err := strconv.ParseFloat(s, 64); err == nil && !isSpecialFloat(s) {
		return f
	}
	return s
}

func isSpecialFloat(s string) bool {
	l := strings.ToLower(strings.TrimLeft(s, "+-"))
	return strings.HasPrefix(l, "inf") || strings.HasPrefix(l, "nan")
}

// CleanHeader trims whitespace and removes all quotes from a header cell
func CleanHeader(h string) string {
	h = strings.TrimSpace(h)
	h = strings.ReplaceAll(h, `"`, "")
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.TrimSpace(h)
}

// FileStem returns the base name of path without its extension
func FileStem(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
