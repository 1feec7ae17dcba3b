package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/PolarWolf314/whisper/internal/ui"
)

// FormatPaths formats a slice of paths into a readable string.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, path := range paths {
		b.WriteString("    - ")
		b.WriteString(ui.Path.Sprint(path))
		b.WriteString("\n")
	}
	return b.String()
}

// Abbreviate shortens s to at most n runes, marking the cut with an ellipsis.
func Abbreviate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

// Wrap breaks s into lines of at most width runes. It is used for long
// base64 ciphertexts, which decrypt accepts back with the breaks in place.
func Wrap(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	var b strings.Builder
	for len(runes) > width {
		b.WriteString(string(runes[:width]))
		b.WriteString("\n")
		runes = runes[width:]
	}
	b.WriteString(string(runes))
	return b.String()
}
