package domain

import "strings"

const (
	AxisSize  = "size"
	AxisColor = "color"
)

// EqualAxis compares option axis names case-insensitively, treating
// "colour" as "color".
func EqualAxis(a, b string) bool {
	return canonicalAxis(a) == canonicalAxis(b)
}

func canonicalAxis(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "colour" {
		return AxisColor
	}
	return n
}
