package service

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"shopassist/internal/config"
	"shopassist/internal/model"
	"shopassist/internal/utils"
	"shopassist/internal/vocab"
)

// Matched attribute tags, in the order they are reported
const (
	TagCategory = "category"
	TagColor    = "color"
	TagMaterial = "material"
	TagStyle    = "style"
	TagPrice    = "price"
	TagRoom     = "room"
	TagFeatures = "features"
	TagKeywords = "keywords"
	TagQuality  = "quality"
)

const (
	reasoningSeparator = " · "
	reasonGeneralMatch = "Correspondance générale"
	reasonFiltered     = "Hors des filtres demandés"
	minLexicalTokenLen = 3
)

// Weights are the additive relevance weights
type Weights struct {
	Category      float64
	Color         float64 // per matched color
	Material      float64 // per matched material
	Style         float64 // per matched style
	PriceWithin   float64
	Room          float64
	Feature       float64 // per matched feature
	LexicalToken  float64 // per message token found in title or description
	QualityFactor float64 // multiplied by the record's confidence_score
}

// DefaultWeights is the starting configuration: 40/25/20/15/15/10/10/2 and 0.1
func DefaultWeights() Weights {
	return Weights{
		Category:      40,
		Color:         25,
		Material:      20,
		Style:         15,
		PriceWithin:   15,
		Room:          10,
		Feature:       10,
		LexicalToken:  2,
		QualityFactor: 0.1,
	}
}

// WeightsFromConfig copies the ranking section of the configuration
func WeightsFromConfig(c config.RankingConfig) Weights {
	return Weights(c)
}

// Ranker scores and orders filtered candidates
type Ranker struct {
	weights Weights
}

// NewRanker creates a new ranker with specified weights
func NewRanker(w Weights) *Ranker {
	return &Ranker{weights: w}
}

// Score rates every candidate independently and returns the matches sorted
// by descending score. Equal scores keep their input order. Candidates that
// violate an explicit filter score 0.
func (r *Ranker) Score(candidates []model.ProductRecord, intent model.SearchIntent, message string, explicit *model.Filters) []model.ScoredMatch {
	tokens := lexicalTokens(message)

	// Order on the unrounded, unclamped total so the quality bonus still
	// separates candidates whose reported score saturates or rounds equal.
	type keyed struct {
		match model.ScoredMatch
		raw   float64
	}
	scored := make([]keyed, 0, len(candidates))
	for i := range candidates {
		m, raw := r.scoreOne(&candidates[i], &intent, tokens, explicit)
		scored = append(scored, keyed{match: m, raw: raw})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].raw > scored[j].raw
	})

	matches := make([]model.ScoredMatch, 0, len(scored))
	for _, k := range scored {
		matches = append(matches, k.match)
	}
	return matches
}

// scoreOne returns the match and its raw total used as the sort key
func (r *Ranker) scoreOne(p *model.ProductRecord, intent *model.SearchIntent, tokens []string, explicit *model.Filters) (model.ScoredMatch, float64) {
	w := r.weights
	var (
		total   float64
		tags    = []string{}
		reasons []string
	)
	fire := func(tag string, points float64, reason string) {
		total += points
		tags = append(tags, tag)
		reasons = append(reasons, reason)
	}

	if categoryHit(p, intent) {
		label := intent.TargetCategory
		if intent.TargetSubcategory != "" {
			label = intent.TargetSubcategory
		}
		fire(TagCategory, w.Category, fmt.Sprintf("Catégorie %s", label))
	}
	if n := utils.CountMatches(vocab.Colors, intent.TargetColors, p.Color); n > 0 {
		fire(TagColor, w.Color*float64(n), fmt.Sprintf("Couleur %s", strings.ToLower(p.Color)))
	}
	if n := utils.CountMatches(vocab.Materials, intent.TargetMaterials, p.Material); n > 0 {
		fire(TagMaterial, w.Material*float64(n), fmt.Sprintf("Matière %s", strings.ToLower(p.Material)))
	}
	if n := utils.CountMatches(vocab.Styles, intent.TargetStyles, p.Style); n > 0 {
		fire(TagStyle, w.Style*float64(n), fmt.Sprintf("Style %s", strings.ToLower(p.Style)))
	}
	if pc := intent.PriceConstraint; pc != nil && pc.Max != nil && p.Price <= *pc.Max {
		fire(TagPrice, w.PriceWithin, fmt.Sprintf("Prix %s dans le budget (max %s)", formatEuros(p.Price), formatEuros(*pc.Max)))
	}
	if intent.TargetRoom != "" && utils.FuzzyMatchAttribute(vocab.Rooms, intent.TargetRoom, p.Room) {
		fire(TagRoom, w.Room, fmt.Sprintf("Pièce %s", intent.TargetRoom))
	}
	if matched := matchedFeatures(p, intent.SpecialFeatures); len(matched) > 0 {
		fire(TagFeatures, w.Feature*float64(len(matched)), fmt.Sprintf("Fonctions %s", strings.Join(matched, ", ")))
	}
	if found := foundTokens(p, tokens); len(found) > 0 {
		fire(TagKeywords, w.LexicalToken*float64(len(found)), fmt.Sprintf("Mots-clés %s", strings.Join(found, ", ")))
	}
	if p.ConfidenceScore > 0 && w.QualityFactor > 0 {
		fire(TagQuality, float64(p.ConfidenceScore)*w.QualityFactor, fmt.Sprintf("Fiche enrichie à %d%%", p.ConfidenceScore))
	}

	score := clampScore(total)
	if !matchesExplicit(p, explicit) {
		score, total = 0, 0
		reasons = append(reasons, reasonFiltered)
	}
	if len(reasons) == 0 {
		reasons = append(reasons, reasonGeneralMatch)
	}

	return model.ScoredMatch{
		Product:           p,
		RelevanceScore:    score,
		MatchedAttributes: tags,
		Reasoning:         strings.Join(reasons, reasoningSeparator),
	}, total
}

func categoryHit(p *model.ProductRecord, intent *model.SearchIntent) bool {
	if intent.TargetSubcategory != "" {
		return utils.FuzzyMatchAttribute(vocab.Subcategories, intent.TargetSubcategory, p.Subcategory) ||
			utils.FuzzyMatchAttribute(vocab.Subcategories, intent.TargetSubcategory, p.Title)
	}
	return intent.TargetCategory != "" && categoryMatches(p, intent.TargetCategory)
}

// matchedFeatures lists the wanted features declared by the record
func matchedFeatures(p *model.ProductRecord, wanted []string) []string {
	if len(wanted) == 0 {
		return nil
	}
	text := p.FeatureText() + " " + p.Title + " " + p.Description
	var out []string
	for _, f := range wanted {
		if vocab.Features.Matches(text, f) {
			out = append(out, f)
		}
	}
	return out
}

// lexicalTokens keeps distinct message words of at least three letters that are not stop-words
func lexicalTokens(message string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range vocab.Tokens(message) {
		if utf8.RuneCountInString(t) < minLexicalTokenLen || vocab.StopWords[t] || isNumeric(t) || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func foundTokens(p *model.ProductRecord, tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	text := vocab.Normalize(p.Title + " " + p.Description)
	var out []string
	for _, t := range tokens {
		if vocab.ContainsPhrase(text, t) {
			out = append(out, t)
		}
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func clampScore(total float64) int {
	s := int(math.Round(total))
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// formatEuros renders 799 as "799 €" and 899.5 as "899,50 €"
func formatEuros(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f €", v)
	}
	return strings.Replace(fmt.Sprintf("%.2f €", v), ".", ",", 1)
}
