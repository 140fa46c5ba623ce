package vocab

import (
	"sort"
	"strings"
)

// Term is one canonical vocabulary entry and the phrases that denote it
type Term struct {
	Canonical string
	Synonyms  []string
	// Parent is the canonical category of a subcategory
	Parent string
}

// Vocabulary is a closed set of terms with phrase lookup
type Vocabulary struct {
	terms   []Term
	phrases []phraseEntry // longest phrase first
	byForm  map[string]string
}

type phraseEntry struct {
	phrase    string
	canonical string
}

// NewVocabulary indexes the given terms. The canonical form is always one of
// its own synonyms.
func NewVocabulary(terms []Term) *Vocabulary {
	v := &Vocabulary{terms: terms, byForm: make(map[string]string)}
	for _, t := range terms {
		forms := append([]string{t.Canonical}, t.Synonyms...)
		for _, f := range forms {
			n := Normalize(f)
			if n == "" {
				continue
			}
			if _, dup := v.byForm[n]; dup {
				continue
			}
			v.byForm[n] = t.Canonical
			v.phrases = append(v.phrases, phraseEntry{phrase: n, canonical: t.Canonical})
		}
	}
	sort.SliceStable(v.phrases, func(i, j int) bool {
		return len(strings.Fields(v.phrases[i].phrase)) > len(strings.Fields(v.phrases[j].phrase))
	})
	return v
}

// Canonical maps any known form to its canonical term
func (v *Vocabulary) Canonical(s string) (string, bool) {
	c, ok := v.byForm[Normalize(s)]
	return c, ok
}

// Term returns the entry for a canonical value
func (v *Vocabulary) Term(canonical string) (Term, bool) {
	for _, t := range v.terms {
		if t.Canonical == canonical {
			return t, true
		}
	}
	return Term{}, false
}

// Find returns every canonical term whose phrase occurs in the normalized
// text, in order of first discovery, without duplicates.
func (v *Vocabulary) Find(normalizedText string) []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range v.phrases {
		if seen[p.canonical] {
			continue
		}
		if containsForm(normalizedText, p.phrase) {
			seen[p.canonical] = true
			out = append(out, p.canonical)
		}
	}
	return out
}

// FindFirst returns the canonical term of the longest phrase found in text
func (v *Vocabulary) FindFirst(normalizedText string) (string, bool) {
	canonical, _, ok := v.FindPhrase(normalizedText)
	return canonical, ok
}

// FindPhrase is FindFirst that also returns the form as it occurs in text
func (v *Vocabulary) FindPhrase(normalizedText string) (canonical, form string, ok bool) {
	for _, p := range v.phrases {
		if f, found := matchedForm(normalizedText, p.phrase); found {
			return p.canonical, f, true
		}
	}
	return "", "", false
}

// Matches reports whether the free-form attribute value denotes the canonical
// term through its canonical form or one of its synonyms, on word boundaries.
func (v *Vocabulary) Matches(value, canonical string) bool {
	nv := Normalize(value)
	if nv == "" {
		return false
	}
	if containsForm(nv, Normalize(canonical)) {
		return true
	}
	t, ok := v.Term(canonical)
	if !ok {
		return false
	}
	for _, s := range t.Synonyms {
		if containsForm(nv, Normalize(s)) {
			return true
		}
	}
	return false
}

// CanonicalSet maps a list of raw values onto sorted, de-duplicated
// canonical terms. Unknown values are dropped.
func (v *Vocabulary) CanonicalSet(values []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, raw := range values {
		c, ok := v.Canonical(raw)
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Canonicals lists every canonical term, for prompts
func (v *Vocabulary) Canonicals() []string {
	out := make([]string, 0, len(v.terms))
	for _, t := range v.terms {
		out = append(out, t.Canonical)
	}
	return out
}

// containsForm matches a phrase or its plain plural (s/x suffix)
func containsForm(text, phrase string) bool {
	_, ok := matchedForm(text, phrase)
	return ok
}

// matchedForm accepts the phrase and its plural in s or x
func matchedForm(text, phrase string) (string, bool) {
	for _, f := range [...]string{phrase, phrase + "s", phrase + "x"} {
		if ContainsPhrase(text, f) {
			return f, true
		}
	}
	return "", false
}
