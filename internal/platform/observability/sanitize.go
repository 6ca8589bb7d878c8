package observability

import (
	"strings"
	"unicode"
)

const (
	maxPathLength      = 180
	maxMethodLength    = 10
	maxProductIDLength = 128
)

// logSafe drops control characters and truncates to limit runes.
func logSafe(value string, limit int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
	if runes := []rune(cleaned); len(runes) > limit {
		cleaned = string(runes[:limit])
	}
	return cleaned
}

func safePath(path string) string {
	if path == "" {
		return "/"
	}
	return logSafe(path, maxPathLength)
}

func safeMethod(method string) string {
	return logSafe(method, maxMethodLength)
}
