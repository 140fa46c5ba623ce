package service

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"shopassist/internal/model"
	"shopassist/internal/vocab"
)

const (
	fallbackBaseConfidence  = 30
	fallbackFieldConfidence = 15
	greetingConfidence      = 90
)

// amount matches "900", "1 200", "1,200", "899,99", "1.5" with an optional k suffix
const amount = `(?:€|\$|eur\s*)?\s*((?:\d{1,3}(?:[ \x{00a0},.]\d{3})+\b|\d+)(?:[.,]\d{1,2})?)\s*(k\b)?`

var (
	thousandsRe  = regexp.MustCompile(`^\d{1,3}(?:[ \x{00a0},.]\d{3})+$`)
	priceRangeRe = regexp.MustCompile(`\b(?:between|entre|from)\s+` + amount + `\s*(?:€|eur(?:os)?)?\s*(?:and|et|to|a|-)\s*` + amount)
	priceMaxRe   = regexp.MustCompile(`(?:\b(?:under|below|less than|cheaper than|max(?:imum)?|sous|moins de|en dessous de|inferieur a|jusqu'?\s?a|pas plus de|budget(?: de| max(?:imum)?)?|up to)|<=?)\s*` + amount)
	priceMinRe   = regexp.MustCompile(`(?:\b(?:over|above|more than|at least|min(?:imum)?|plus de|au moins|a partir de|superieur a)|>=?)\s*` + amount)
)

// KeywordExtractor is the deterministic, network-free intent path
type KeywordExtractor struct{}

// NewKeywordExtractor creates the fallback extractor
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

// Extract builds an intent from keyword and regex matching only.
// Identical input always yields an identical intent.
func (k *KeywordExtractor) Extract(message string, turns []model.ConversationTurn) model.SearchIntent {
	text := vocab.Normalize(message)

	if isGreeting(text) {
		return chatIntent(model.SourceFallback)
	}

	intent := model.SearchIntent{
		TargetColors:    vocab.Colors.CanonicalSet(vocab.Colors.Find(text)),
		TargetMaterials: vocab.Materials.CanonicalSet(vocab.Materials.Find(text)),
		TargetStyles:    vocab.Styles.CanonicalSet(vocab.Styles.Find(text)),
		SpecialFeatures: vocab.Features.CanonicalSet(vocab.Features.Find(text)),
		Source:          model.SourceFallback,
	}
	intent.TargetCategory, intent.TargetSubcategory = findCategory(text)
	if room, ok := vocab.Rooms.FindFirst(text); ok {
		intent.TargetRoom = room
	}
	intent.PriceConstraint = extractPrice(vocab.Fold(message))

	// a follow-up like "et en bleu ?" keeps the category of the previous request
	if intent.TargetCategory == "" {
		intent.TargetCategory, intent.TargetSubcategory = inheritCategory(turns)
	}

	intent.IntentType = classifyIntentType(text, &intent)
	intent.ShouldSearch = intent.IntentType.Searches()
	intent.Confidence = fallbackConfidence(&intent)
	return intent
}

// isGreeting reports whether every token is a greeting or pleasantry and at
// least one is a real greeting
func isGreeting(text string) bool {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return false
	}
	greeted := false
	for _, t := range tokens {
		switch {
		case vocab.Greetings[t]:
			greeted = true
		case vocab.Pleasantries[t]:
		default:
			return false
		}
	}
	return greeted
}

func chatIntent(source model.IntentSource) model.SearchIntent {
	return model.SearchIntent{
		IntentType:      model.IntentChat,
		ShouldSearch:    false,
		TargetColors:    []string{},
		TargetMaterials: []string{},
		TargetStyles:    []string{},
		SpecialFeatures: []string{},
		Confidence:      greetingConfidence,
		Source:          source,
	}
}

// findCategory looks for a subcategory first so "table basse" wins over "table".
// A category named outside the subcategory phrase overrides a subcategory of
// another parent: "lampe de chevet" is a luminaire, not a table de chevet.
func findCategory(text string) (category, subcategory string) {
	if sub, form, ok := vocab.Subcategories.FindPhrase(text); ok {
		term, _ := vocab.Subcategories.Term(sub)
		rest := vocab.RemovePhrase(text, form)
		if named := vocab.Categories.Find(rest); len(named) > 0 && !slices.Contains(named, term.Parent) {
			cat, _ := vocab.Categories.FindFirst(rest)
			return cat, ""
		}
		return term.Parent, sub
	}
	if cat, ok := vocab.Categories.FindFirst(text); ok {
		return cat, ""
	}
	return "", ""
}

// inheritCategory returns the category of the most recent user turn that names one
func inheritCategory(turns []model.ConversationTurn) (string, string) {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == "assistant" {
			continue
		}
		if cat, sub := findCategory(vocab.Normalize(turns[i].Content)); cat != "" {
			return cat, sub
		}
	}
	return "", ""
}

// extractPrice reads a price range, ceiling or floor from accent-folded text
func extractPrice(folded string) *model.PriceConstraint {
	pc := &model.PriceConstraint{}

	if m := priceRangeRe.FindStringSubmatch(folded); m != nil {
		lo, okLo := parseAmount(m[1], m[2])
		hi, okHi := parseAmount(m[3], m[4])
		if okLo && okHi {
			if lo > hi {
				lo, hi = hi, lo
			}
			pc.Min, pc.Max = &lo, &hi
			return pc
		}
	}
	maxSpan := priceMaxRe.FindStringSubmatchIndex(folded)
	if maxSpan != nil {
		if v, ok := parseAmount(submatch(folded, maxSpan, 1), submatch(folded, maxSpan, 2)); ok {
			pc.Max = &v
		}
	}
	// "pas plus de 500" is a ceiling, not a floor
	if minSpan := priceMinRe.FindStringSubmatchIndex(folded); minSpan != nil &&
		(maxSpan == nil || minSpan[0] >= maxSpan[1] || minSpan[1] <= maxSpan[0]) {
		if v, ok := parseAmount(submatch(folded, minSpan, 1), submatch(folded, minSpan, 2)); ok {
			pc.Min = &v
		}
	}
	if pc.Min != nil && pc.Max != nil && *pc.Min > *pc.Max {
		pc.Min = nil
	}
	if pc.IsEmpty() {
		return nil
	}
	return pc
}

func submatch(s string, idx []int, n int) string {
	if 2*n+1 >= len(idx) || idx[2*n] < 0 {
		return ""
	}
	return s[idx[2*n]:idx[2*n+1]]
}

func parseAmount(number, suffix string) (float64, bool) {
	var s string
	if thousandsRe.MatchString(number) {
		s = strings.NewReplacer(" ", "", "\u00a0", "", ",", "", ".", "").Replace(number)
	} else {
		s = strings.Replace(number, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	if suffix == "k" {
		v *= 1000
	}
	return v, true
}

// classifyIntentType applies the keyword rules; a named product keeps a faq
// keyword from disabling the search ("livraison canapé" searches sofas).
func classifyIntentType(text string, intent *model.SearchIntent) model.IntentType {
	hasProduct := intent.TargetCategory != ""
	switch {
	case !hasProduct && containsAny(text, vocab.FAQKeywords):
		return model.IntentFAQ
	case containsAny(text, vocab.RoomPlanningKeywords):
		return model.IntentRoomPlanning
	case containsAny(text, vocab.StyleAdviceKeywords):
		return model.IntentStyleAdvice
	default:
		return model.IntentProductSearch
	}
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if vocab.ContainsPhrase(text, vocab.Normalize(p)) {
			return true
		}
	}
	return false
}

// fallbackConfidence is the baseline plus a fixed step per populated field
func fallbackConfidence(i *model.SearchIntent) int {
	fields := []bool{
		i.TargetCategory != "",
		i.TargetSubcategory != "",
		len(i.TargetColors) > 0,
		len(i.TargetMaterials) > 0,
		len(i.TargetStyles) > 0,
		i.TargetRoom != "",
		!i.PriceConstraint.IsEmpty(),
		len(i.SpecialFeatures) > 0,
	}
	c := fallbackBaseConfidence
	for _, set := range fields {
		if set {
			c += fallbackFieldConfidence
		}
	}
	if c > 100 {
		c = 100
	}
	return c
}
