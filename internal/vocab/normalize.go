// Package vocab holds the closed furniture vocabularies shared by intent
// extraction, filtering and scoring.
package vocab

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s and strips diacritics, keeping punctuation
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// Normalize folds s and replaces every non-alphanumeric rune with a single space.
func Normalize(s string) string {
	folded := Fold(s)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens returns the normalized words of s
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}

// ContainsPhrase reports whether the normalized phrase occurs in the
// normalized text on word boundaries. Both arguments must already be normalized.
func ContainsPhrase(text, phrase string) bool {
	if phrase == "" || text == "" {
		return false
	}
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}

// RemovePhrase drops the first word-bounded occurrence of phrase from text.
// Both arguments must already be normalized.
func RemovePhrase(text, phrase string) string {
	if phrase == "" {
		return text
	}
	return strings.TrimSpace(strings.Replace(" "+text+" ", " "+phrase+" ", " ", 1))
}

// ContainsFold reports whether needle is a substring of haystack after
// normalization of both.
func ContainsFold(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), n)
}
