// Package textutil provides text helpers for filenames and display strings:
// sanitizing uploaded filenames for safe filesystem use, deriving a human
// course title from a filename, and truncating values for table output.
package textutil

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// SanitizeFilename strips path separators and any character outside a
// conservative allow-list so uploads cannot escape their target directory.
// Returns an empty string when nothing usable remains.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}

// TitleFromFilename derives a display title from an uploaded filename:
// the extension is dropped, separators become spaces, and words are
// title-cased.
func TitleFromFilename(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	stem = strings.Join(strings.Fields(stem), " ")
	if stem == "" {
		return "Untitled Video"
	}
	return titleCaser.String(stem)
}

// Truncate shortens value to max bytes, appending an ellipsis when trimmed.
func Truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}
