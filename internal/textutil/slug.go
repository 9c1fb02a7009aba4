package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalid    = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators = regexp.MustCompile(`[-\s]+`)
)

func asciiFold() transform.Transformer {
	return transform.Chain(
		norm.NFKD,
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
}

// Slugify converts value into a URL-safe, whitespace-normalized slug.
//
// The text is compatibility-decomposed and reduced to ASCII, lowercased,
// stripped of everything except letters, digits, underscores, whitespace and
// hyphens, and runs of whitespace or hyphens collapse to a single hyphen.
// Leading and trailing hyphens and underscores are trimmed, so the result may
// be empty for titles written entirely in non-Latin scripts.
func Slugify(value string) string {
	folded, _, err := transform.String(asciiFold(), value)
	if err != nil {
		folded = value
	}
	folded = strings.ToLower(folded)
	folded = slugInvalid.ReplaceAllString(folded, "")
	folded = slugSeparators.ReplaceAllString(folded, "-")
	return strings.Trim(folded, "-_")
}
