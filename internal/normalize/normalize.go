// Package normalize canonicalizes raw product text into a comparable form.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var superscripts = strings.NewReplacer("²", "2", "³", "3")

// unitTokens are units of measure dropped when they stand alone.
var unitTokens = map[string]struct{}{
	"MM": {}, "CM": {}, "M": {}, "KG": {}, "G": {}, "L": {}, "ML": {},
	"M2": {}, "M3": {},
}

// Normalize folds accents, uppercases text, turns punctuation into spaces,
// drops standalone unit tokens and collapses whitespace.
// Normalize(Normalize(x)) == Normalize(x) for every x.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// Folding first: some letters only gain an uppercase form once their
	// marks are stripped (ǰ -> j).
	upper := strings.ToUpper(foldAccents(superscripts.Replace(text)))

	fields := strings.FieldsFunc(upper, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	kept := fields[:0]
	for _, f := range fields {
		if _, unit := unitTokens[f]; unit {
			continue
		}
		kept = append(kept, f)
	}

	return strings.Join(kept, " ")
}

// foldAccents strips combining marks (É -> E).
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}
