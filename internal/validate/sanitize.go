package validate

import (
	"strings"
	"unicode"
)

// SanitizeName trims a single-line name and removes control characters.
func SanitizeName(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}

// SanitizeNote cleans a note for storage.
func SanitizeNote(note string) string {
	note = strings.TrimSpace(note)

	// Remove null bytes
	note = strings.ReplaceAll(note, "\x00", "")

	// Normalize line endings
	note = strings.ReplaceAll(note, "\r\n", "\n")
	note = strings.ReplaceAll(note, "\r", "\n")

	return note
}

// TruncateString truncates a string to the given length, adding "..." if truncated.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
