package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/config"
	"shopassist/internal/model"
)

func TestRanker_SofaBeigeUnder900(t *testing.T) {
	msg := "canapé beige sous 900€"
	intent := NewKeywordExtractor().Extract(msg, nil)
	candidates := []model.ProductRecord{sofa("sofa-beige", "beige", 799)}

	got := NewRanker(DefaultWeights()).Score(candidates, intent, msg, nil)
	require.Len(t, got, 1)

	m := got[0]
	assert.GreaterOrEqual(t, m.RelevanceScore, 80)
	// 40 + 25 + 15, plus "canape" and "beige" found in the title
	assert.Equal(t, 84, m.RelevanceScore)
	assert.Equal(t, []string{TagCategory, TagColor, TagPrice, TagKeywords}, m.MatchedAttributes)
	assert.Contains(t, m.Reasoning, "Catégorie canapé")
	assert.Contains(t, m.Reasoning, "Couleur beige")
	assert.Contains(t, m.Reasoning, "Prix 799 € dans le budget (max 900 €)")
}

func TestRanker_ConfidenceBreaksTies(t *testing.T) {
	low := sofa("low", "beige", 799)
	low.ConfidenceScore = 40
	high := sofa("high", "beige", 799)
	high.ConfidenceScore = 90
	intent := model.SearchIntent{TargetCategory: "canapé", TargetColors: []string{"beige"}}

	got := NewRanker(DefaultWeights()).Score([]model.ProductRecord{low, high}, intent, "", nil)
	require.Len(t, got, 2)
	assert.Equal(t, "high", got[0].Product.ID)
	assert.Greater(t, got[0].RelevanceScore, got[1].RelevanceScore)
	assert.Equal(t, 74, got[0].RelevanceScore)
	assert.Equal(t, 69, got[1].RelevanceScore)
}

func TestRanker_ConfidenceBreaksSaturatedTies(t *testing.T) {
	low := sofa("low40", "beige", 799)
	low.ConfidenceScore = 40
	high := sofa("high90", "beige", 799)
	high.ConfidenceScore = 90
	intent := model.SearchIntent{
		TargetCategory:  "canapé",
		TargetColors:    []string{"beige"},
		TargetMaterials: []string{"tissu"},
		TargetStyles:    []string{"moderne"},
		TargetRoom:      "salon",
	}

	got := NewRanker(DefaultWeights()).Score([]model.ProductRecord{low, high}, intent, "", nil)
	require.Len(t, got, 2)
	assert.Equal(t, 100, got[0].RelevanceScore)
	assert.Equal(t, 100, got[1].RelevanceScore)
	assert.Equal(t, "high90", got[0].Product.ID)
	assert.Equal(t, "low40", got[1].Product.ID)
}

func TestRanker_ConfidenceBreaksRoundedTies(t *testing.T) {
	c40 := sofa("c40", "beige", 799)
	c40.ConfidenceScore = 40
	c44 := sofa("c44", "beige", 799)
	c44.ConfidenceScore = 44
	intent := model.SearchIntent{TargetColors: []string{"beige"}}

	got := NewRanker(DefaultWeights()).Score([]model.ProductRecord{c40, c44}, intent, "", nil)
	require.Len(t, got, 2)
	// 29.0 and 29.4 both report 29
	assert.Equal(t, got[0].RelevanceScore, got[1].RelevanceScore)
	assert.Equal(t, "c44", got[0].Product.ID)
}

func TestRanker_EqualScoresKeepInputOrder(t *testing.T) {
	candidates := []model.ProductRecord{
		sofa("a", "gris", 500),
		sofa("b", "gris", 500),
		sofa("c", "beige", 500),
		sofa("d", "gris", 500),
	}
	intent := model.SearchIntent{TargetColors: []string{"gris"}}

	got := NewRanker(DefaultWeights()).Score(candidates, intent, "", nil)
	order := make([]string, 0, len(got))
	for _, m := range got {
		order = append(order, m.Product.ID)
	}
	assert.Equal(t, []string{"a", "b", "d", "c"}, order)
}

func TestRanker_Deterministic(t *testing.T) {
	intent := model.SearchIntent{TargetCategory: "canapé", TargetColors: []string{"beige", "gris"}}
	r := NewRanker(DefaultWeights())
	first := r.Score(testCatalog(), intent, "canapé gris", nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Score(testCatalog(), intent, "canapé gris", nil))
	}
}

func TestRanker_MatchingAttributeNeverLowersScore(t *testing.T) {
	plain := sofa("plain", "rouge", 500)
	plain.Material = "cuir"
	better := plain
	better.ID = "better"
	better.Material = "velours"
	intent := model.SearchIntent{TargetCategory: "canapé", TargetMaterials: []string{"velours"}}

	got := NewRanker(DefaultWeights()).Score([]model.ProductRecord{plain, better}, intent, "", nil)
	require.Len(t, got, 2)
	assert.Equal(t, "better", got[0].Product.ID)
	assert.Equal(t, got[1].RelevanceScore+20, got[0].RelevanceScore)
}

func TestRanker_ClampsTo100(t *testing.T) {
	p := model.ProductRecord{
		ID: "full", Title: "Canapé", Category: "Canapé", Color: "beige", Material: "velours",
		Style: "scandinave", Room: "salon", Price: 500, StockQuantity: 1, ConfidenceScore: 100,
	}
	intent := model.SearchIntent{
		TargetCategory:  "canapé",
		TargetColors:    []string{"beige"},
		TargetMaterials: []string{"velours"},
		TargetStyles:    []string{"scandinave"},
		TargetRoom:      "salon",
		PriceConstraint: &model.PriceConstraint{Max: ptr(900.0)},
	}
	got := NewRanker(DefaultWeights()).Score([]model.ProductRecord{p}, intent, "", nil)
	assert.Equal(t, 100, got[0].RelevanceScore)
	assert.Contains(t, got[0].MatchedAttributes, TagRoom)
	assert.Contains(t, got[0].Reasoning, "Pièce salon")
}

func TestRanker_ExplicitFilterViolationScoresZero(t *testing.T) {
	p := sofa("expensive", "beige", 1450)
	intent := model.SearchIntent{TargetCategory: "canapé", TargetColors: []string{"beige"}}
	explicit := &model.Filters{PriceMax: ptr(1000.0)}

	got := NewRanker(DefaultWeights()).Score([]model.ProductRecord{p}, intent, "", explicit)
	assert.Equal(t, 0, got[0].RelevanceScore)
	assert.Contains(t, got[0].Reasoning, "Hors des filtres demandés")
}

func TestRanker_NoMatchHasGeneralReason(t *testing.T) {
	p := sofa("x", "rouge", 500)
	got := NewRanker(DefaultWeights()).Score([]model.ProductRecord{p}, model.SearchIntent{}, "", nil)

	assert.Equal(t, 0, got[0].RelevanceScore)
	assert.NotNil(t, got[0].MatchedAttributes)
	assert.Empty(t, got[0].MatchedAttributes)
	assert.Equal(t, "Correspondance générale", got[0].Reasoning)
}

func TestRanker_FeaturesFromExtras(t *testing.T) {
	p := sofa("conv", "gris", 700)
	p.ExtraAttributes = model.JSONMap{model.ExtraFeatures: []interface{}{"convertible", "coffre de rangement"}}
	intent := model.SearchIntent{SpecialFeatures: []string{"convertible", "storage", "reclining"}}

	got := NewRanker(DefaultWeights()).Score([]model.ProductRecord{p}, intent, "", nil)
	assert.Equal(t, 20, got[0].RelevanceScore)
	assert.Equal(t, []string{TagFeatures}, got[0].MatchedAttributes)
	assert.Equal(t, "Fonctions convertible, storage", got[0].Reasoning)
}

func TestRanker_ConfiguredWeights(t *testing.T) {
	cfg := config.RankingConfig{Category: 10, Color: 1}
	intent := model.SearchIntent{TargetCategory: "canapé", TargetColors: []string{"beige"}}

	got := NewRanker(WeightsFromConfig(cfg)).Score([]model.ProductRecord{sofa("s", "beige", 1)}, intent, "", nil)
	assert.Equal(t, 11, got[0].RelevanceScore)
}

func TestRanker_EmptyCandidates(t *testing.T) {
	got := NewRanker(DefaultWeights()).Score(nil, model.SearchIntent{}, "canapé", nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLexicalTokens(t *testing.T) {
	assert.Equal(t, []string{"canape", "angle", "places"}, lexicalTokens("Je cherche un canapé d'angle, canapé! 3 places 900"))
	assert.Empty(t, lexicalTokens("je veux un"))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-5))
	assert.Equal(t, 74, clampScore(73.5))
	assert.Equal(t, 100, clampScore(140))
}

func TestFormatEuros(t *testing.T) {
	assert.Equal(t, "799 €", formatEuros(799))
	assert.Equal(t, "899,50 €", formatEuros(899.5))
}
