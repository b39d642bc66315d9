// Package normalize provides text normalization helpers for comparing
// Spanish-language names coming from the LMS and the quality taxonomy.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes characters and strips combining marks, so that
// "Formación" and "formacion" fold to the same string.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s, strips diacritics and collapses runs of whitespace
// into single spaces.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		// Transformation only fails on malformed UTF-8; fall back to the
		// raw string so comparisons still behave case-insensitively.
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// EqualFold reports whether a and b are equal after folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// ContainsFold reports whether substr occurs in s after folding both.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// Words returns the set of folded words in s.
func Words(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(Fold(s)) {
		set[w] = struct{}{}
	}
	return set
}

// WordOverlap returns the fraction of name's words that are present in
// text's word set. An empty name yields 0.
func WordOverlap(name, text string) float64 {
	nameWords := Words(name)
	if len(nameWords) == 0 {
		return 0
	}
	textWords := Words(text)
	matched := 0
	for w := range nameWords {
		if _, ok := textWords[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(nameWords))
}
