package utils

import "strings"

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// SingleLine collapses every run of whitespace, including line breaks, into a single space.
// Values that end up in mail headers or one-line log fields go through it.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
