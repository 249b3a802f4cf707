package core

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	slugSpacing  = regexp.MustCompile(`[-\s]+`)
)

// CreateSlug turns a title into a lowercase, hyphen-joined ASCII slug.
// Accents are folded ("Café" becomes "cafe") and other punctuation is dropped.
func CreateSlug(title string) string {
	folding := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	slug, _, err := transform.String(folding, title)
	if err != nil {
		slug = title
	}

	slug = nonSlugChars.ReplaceAllString(strings.ToLower(slug), "")
	slug = slugSpacing.ReplaceAllString(strings.TrimSpace(slug), "-")

	return strings.Trim(slug, "-_")
}
