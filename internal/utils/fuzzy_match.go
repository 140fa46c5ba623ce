package utils

import (
	"shopassist/internal/vocab"
)

// FuzzyMatchAttribute reports whether a catalog attribute value satisfies a
// wanted value. Known vocabulary terms match through their synonyms ("Sofa"
// satisfies "canapé"); unknown wanted values fall back to an accent- and
// case-insensitive substring test.
func FuzzyMatchAttribute(v *vocab.Vocabulary, wanted, value string) bool {
	if vocab.Normalize(value) == "" || vocab.Normalize(wanted) == "" {
		return false
	}
	if v != nil {
		if canonical, ok := v.Canonical(wanted); ok {
			if v.Matches(value, canonical) {
				return true
			}
		}
	}
	return vocab.ContainsFold(value, wanted)
}

// FuzzyMatchAny reports whether value satisfies at least one wanted value
func FuzzyMatchAny(v *vocab.Vocabulary, wanted []string, value string) bool {
	for _, w := range wanted {
		if FuzzyMatchAttribute(v, w, value) {
			return true
		}
	}
	return false
}

// CountMatches counts the wanted values that value satisfies
func CountMatches(v *vocab.Vocabulary, wanted []string, value string) int {
	n := 0
	for _, w := range wanted {
		if FuzzyMatchAttribute(v, w, value) {
			n++
		}
	}
	return n
}
