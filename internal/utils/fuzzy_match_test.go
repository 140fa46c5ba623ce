package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shopassist/internal/vocab"
)

func TestFuzzyMatchAttribute(t *testing.T) {
	tests := []struct {
		name   string
		v      *vocab.Vocabulary
		wanted string
		value  string
		want   bool
	}{
		{"canonical equal, accents and case", vocab.Categories, "canapé", "Canape", true},
		{"synonym in catalog value", vocab.Categories, "canapé", "Sofa 3 places", true},
		{"synonym in wanted value", vocab.Colors, "navy", "Bleu nuit", true},
		{"different color", vocab.Colors, "blanc", "Beige", false},
		{"unknown wanted falls back to substring", vocab.Colors, "fuchsia", "Rose fuchsia", true},
		{"empty value", vocab.Colors, "gris", "", false},
		{"nil vocabulary", nil, "salon", "Salon / séjour", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FuzzyMatchAttribute(tt.v, tt.wanted, tt.value))
		})
	}
}

func TestCountMatches(t *testing.T) {
	assert.Equal(t, 2, CountMatches(vocab.Materials, []string{"chêne", "métal", "verre"}, "Chêne massif et acier"))
	assert.Equal(t, 0, CountMatches(vocab.Materials, nil, "Chêne"))
	assert.True(t, FuzzyMatchAny(vocab.Styles, []string{"vintage", "scandinave"}, "Scandinavian"))
}
