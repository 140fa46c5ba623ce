package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Canapé BEIGE sous 900€", "canape beige sous 900"},
		{"  table   à manger ", "table a manger"},
		{"chambre d'enfant", "chambre d enfant"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestFold_KeepsPunctuation(t *testing.T) {
	assert.Equal(t, "jusqu'a 1 200,50 €", Fold("Jusqu'à 1 200,50 €"))
}

func TestContainsPhrase_WordBoundary(t *testing.T) {
	assert.True(t, ContainsPhrase("un canape noir", "noir"))
	assert.False(t, ContainsPhrase("un canape noir", "oir"))
	assert.True(t, ContainsPhrase("table basse en chene", "table basse"))
	assert.False(t, ContainsPhrase("", "table"))
}

func TestCategories_Synonyms(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"je cherche un sofa", "canapé"},
		{"canapé beige", "canapé"},
		{"a wooden bed", "lit"},
		{"des lampes pour le salon", "luminaire"},
		{"une bibliotheque", "rangement"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			got, ok := Categories.FindFirst(Normalize(tt.msg))
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubcategories_CarryParent(t *testing.T) {
	sub, ok := Subcategories.FindFirst(Normalize("une Table Basse en chêne"))
	assert.True(t, ok)
	assert.Equal(t, "table basse", sub)

	term, ok := Subcategories.Term(sub)
	assert.True(t, ok)
	assert.Equal(t, "table", term.Parent)
}

func TestColors_NoFalseSubstring(t *testing.T) {
	// whole words only: "rose" must not match inside "arrosoir"
	assert.Equal(t, []string{"noir"}, Colors.Find(Normalize("un fauteuil noir")))
	assert.Empty(t, Colors.Find(Normalize("un arrosoir")))
}

func TestFind_PluralForms(t *testing.T) {
	assert.Equal(t, []string{"bleu"}, Colors.Find(Normalize("coussins bleus")))
	assert.Equal(t, []string{"métal", "verre"}, Materials.Find(Normalize("pieds en métal et plateaux en verre")))
}

func TestMatches(t *testing.T) {
	assert.True(t, Colors.Matches("Gris anthracite", "gris"))
	assert.True(t, Colors.Matches("Navy", "bleu"))
	assert.False(t, Colors.Matches("Beige", "blanc"))
	assert.True(t, Materials.Matches("Solid Oak", "chêne"))
	assert.True(t, Categories.Matches("Sofa", "canapé"))
	assert.False(t, Categories.Matches("", "canapé"))
}

func TestCanonicalSet(t *testing.T) {
	got := Colors.CanonicalSet([]string{"Grey", "gris", "white", "fuchsia-ish"})
	assert.Equal(t, []string{"blanc", "gris"}, got)

	assert.Equal(t, []string{}, Styles.CanonicalSet(nil))
}

func TestCanonical(t *testing.T) {
	c, ok := Styles.Canonical("Scandinavian")
	assert.True(t, ok)
	assert.Equal(t, "scandinave", c)

	_, ok = Styles.Canonical("cyberpunk")
	assert.False(t, ok)
}
