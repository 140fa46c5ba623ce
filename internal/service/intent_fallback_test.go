package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/model"
)

func TestKeywordExtractor_SofaBeigeUnder900(t *testing.T) {
	intent := NewKeywordExtractor().Extract("canapé beige sous 900€", nil)

	assert.Equal(t, model.IntentProductSearch, intent.IntentType)
	assert.True(t, intent.ShouldSearch)
	assert.Equal(t, "canapé", intent.TargetCategory)
	assert.Equal(t, []string{"beige"}, intent.TargetColors)
	require.NotNil(t, intent.PriceConstraint)
	require.NotNil(t, intent.PriceConstraint.Max)
	assert.Equal(t, 900.0, *intent.PriceConstraint.Max)
	assert.Nil(t, intent.PriceConstraint.Min)
	assert.Equal(t, model.SourceFallback, intent.Source)
	// baseline + category + color + price
	assert.Equal(t, 75, intent.Confidence)
}

func TestKeywordExtractor_Greetings(t *testing.T) {
	for _, msg := range []string{"bonjour", "Bonjour !", "salut, ça va ?", "hello there", "merci beaucoup"} {
		t.Run(msg, func(t *testing.T) {
			intent := NewKeywordExtractor().Extract(msg, nil)
			assert.Equal(t, model.IntentChat, intent.IntentType)
			assert.False(t, intent.ShouldSearch)
			assert.Empty(t, intent.TargetCategory)
			assert.Empty(t, intent.TargetColors)
			assert.Equal(t, 90, intent.Confidence)
		})
	}
}

func TestKeywordExtractor_GreetingWithRequestSearches(t *testing.T) {
	intent := NewKeywordExtractor().Extract("bonjour, je cherche un lit", nil)
	assert.Equal(t, model.IntentProductSearch, intent.IntentType)
	assert.Equal(t, "lit", intent.TargetCategory)
}

func TestKeywordExtractor_NamedCategoryOverridesForeignSubcategory(t *testing.T) {
	tests := []struct {
		msg     string
		wantCat string
		wantSub string
	}{
		{"lampe de chevet", "luminaire", ""},
		{"une lampe pour ma table de chevet", "luminaire", ""},
		{"table de chevet en chêne", "table", "table de chevet"},
		{"un chevet blanc", "table", "table de chevet"},
		{"canapé lit gris", "canapé", "canapé convertible"},
		{"fauteuil de bureau ergonomique", "chaise", "chaise de bureau"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			intent := NewKeywordExtractor().Extract(tt.msg, nil)
			assert.Equal(t, model.IntentProductSearch, intent.IntentType)
			assert.Equal(t, tt.wantCat, intent.TargetCategory)
			assert.Equal(t, tt.wantSub, intent.TargetSubcategory)
		})
	}
}

func TestKeywordExtractor_Attributes(t *testing.T) {
	intent := NewKeywordExtractor().Extract(
		"Une table basse scandinave en chêne et métal noir pour le salon, extensible", nil)

	assert.Equal(t, "table", intent.TargetCategory)
	assert.Equal(t, "table basse", intent.TargetSubcategory)
	assert.Equal(t, []string{"noir"}, intent.TargetColors)
	assert.Equal(t, []string{"chêne", "métal"}, intent.TargetMaterials)
	assert.Equal(t, []string{"scandinave"}, intent.TargetStyles)
	assert.Equal(t, "salon", intent.TargetRoom)
	assert.Equal(t, []string{"extendable"}, intent.SpecialFeatures)
	assert.Equal(t, 100, intent.Confidence)
}

func TestExtractPrice(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		msg     string
		wantMin *float64
		wantMax *float64
	}{
		{"canapé sous 900€", nil, f(900)},
		{"sofa under $1,200", nil, f(1200)},
		{"lit max 1 200 €", nil, f(1200)},
		{"budget 1,5k", nil, f(1500)},
		{"table moins de 349,99 euros", nil, f(349.99)},
		{"jusqu'à 600€", nil, f(600)},
		{"fauteuil entre 300 et 500€", f(300), f(500)},
		{"between 800 and 400", f(400), f(800)},
		{"au moins 200€", f(200), nil},
		{"pas plus de 500", nil, f(500)},
		{"un canapé 3 places", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			intent := NewKeywordExtractor().Extract(tt.msg, nil)
			if tt.wantMin == nil && tt.wantMax == nil {
				assert.Nil(t, intent.PriceConstraint)
				return
			}
			require.NotNil(t, intent.PriceConstraint)
			assert.Equal(t, tt.wantMin, intent.PriceConstraint.Min)
			assert.Equal(t, tt.wantMax, intent.PriceConstraint.Max)
		})
	}
}

func TestKeywordExtractor_IntentTypes(t *testing.T) {
	tests := []struct {
		msg          string
		want         model.IntentType
		shouldSearch bool
	}{
		{"quels sont les délais de livraison ?", model.IntentFAQ, false},
		{"comment faire un retour", model.IntentFAQ, false},
		{"livraison d'un canapé rouge", model.IntentProductSearch, true},
		{"des idées pour un salon bohème", model.IntentStyleAdvice, true},
		{"je veux aménager ma chambre", model.IntentRoomPlanning, true},
		{"je cherche un lit", model.IntentProductSearch, true},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			intent := NewKeywordExtractor().Extract(tt.msg, nil)
			assert.Equal(t, tt.want, intent.IntentType)
			assert.Equal(t, tt.shouldSearch, intent.ShouldSearch)
		})
	}
}

func TestKeywordExtractor_InheritsCategoryFromContext(t *testing.T) {
	turns := []model.ConversationTurn{
		{Role: "user", Content: "je cherche un canapé d'angle"},
		{Role: "assistant", Content: "Voici nos tables et canapés"},
	}
	intent := NewKeywordExtractor().Extract("et en bleu ?", turns)

	assert.Equal(t, "canapé", intent.TargetCategory)
	assert.Equal(t, "canapé d'angle", intent.TargetSubcategory)
	assert.Equal(t, []string{"bleu"}, intent.TargetColors)
}

func TestKeywordExtractor_OwnCategoryWinsOverContext(t *testing.T) {
	turns := []model.ConversationTurn{{Role: "user", Content: "un canapé"}}
	intent := NewKeywordExtractor().Extract("plutôt une chaise", turns)
	assert.Equal(t, "chaise", intent.TargetCategory)
}

func TestKeywordExtractor_Deterministic(t *testing.T) {
	k := NewKeywordExtractor()
	msg := "canapé convertible gris en velours moderne sous 1200€ pour le salon"
	first := k.Extract(msg, nil)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, k.Extract(msg, nil))
	}
}

func TestKeywordExtractor_Unconstrained(t *testing.T) {
	intent := NewKeywordExtractor().Extract("montrez-moi vos nouveautés", nil)
	assert.Equal(t, model.IntentProductSearch, intent.IntentType)
	assert.False(t, intent.HasConstraints())
	assert.Equal(t, 30, intent.Confidence)
}
