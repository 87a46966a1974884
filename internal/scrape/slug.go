package scrape

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// PlayerSlug derives the profile-URL slug from a display name:
// diacritics folded, lowercased, spaces to hyphens, everything outside
// [a-z0-9-] dropped.
func PlayerSlug(name string) string {
	folded, _, err := transform.String(deaccent, name)
	if err != nil {
		folded = name
	}

	s := strings.ReplaceAll(strings.ToLower(folded), " ", "-")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
