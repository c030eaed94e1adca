package guidebook

import (
	"strings"
	"unicode"
)

// Slugify derives a URL-safe heading id from text. Lower-cases the input,
// keeps alphanumerics, '-' and '_', maps whitespace to '-', drops all other
// ASCII punctuation, and preserves non-ASCII characters so Japanese headings
// keep working. Runs of '-' collapse to one; leading/trailing '-' are
// trimmed. Deterministic: the same text always yields the same slug.
func Slugify(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('-')
		case r > unicode.MaxASCII:
			b.WriteRune(r)
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}

	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '-' })
	return strings.Join(parts, "-")
}
