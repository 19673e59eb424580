package utils

import (
	"strings"
	"unicode"
)

// Slugify turns a package title into a lowercase, hyphen-separated URL key.
// Characters outside [a-z0-9 -] are dropped, whitespace runs collapse to a
// single hyphen, repeated hyphens collapse and leading/trailing hyphens are
// trimmed.
func Slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-':
			b.WriteRune('-')
		}
	}
	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '-' })
	return strings.Join(parts, "-")
}
