package migrate

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugStripper decomposes to NFD, drops combining marks, and recomposes, so
// "Qué" slugs to "que" instead of "qu".
var slugStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify turns an arbitrary title or filename into a URL-safe slug:
// lowercase ASCII letters, digits, and single hyphens.
func Slugify(s string) string {
	if stripped, _, err := transform.String(slugStripper, s); err == nil {
		s = stripped
	}
	s = strings.ToLower(s)

	var sb strings.Builder
	sb.Grow(len(s))
	lastHyphen := true // suppress leading hyphens
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				sb.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
