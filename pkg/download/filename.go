package download

import (
	"net/url"
	"strings"
	"unicode"
)

// SafeFilename turns a raw URL path segment into a filesystem-safe file
// name stem. The segment is percent-decoded first; Unicode letters and
// digits plus '_' and '-' pass through, every other character becomes '_'.
// Returns "" for an empty segment so callers can fall back to a page ID.
func SafeFilename(segment string) string {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		decoded = segment
	}

	var b strings.Builder
	b.Grow(len(decoded))
	for _, r := range decoded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	return b.String()
}
