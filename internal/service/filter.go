package service

import (
	"shopassist/internal/model"
	"shopassist/internal/utils"
	"shopassist/internal/vocab"
)

// Filter narrows a catalog snapshot to the in-stock records satisfying every
// intent predicate and every explicit filter. The input slice is not modified;
// the returned slice is new.
func Filter(catalog []model.ProductRecord, intent model.SearchIntent, explicit *model.Filters) []model.ProductRecord {
	out := make([]model.ProductRecord, 0, len(catalog))
	for i := range catalog {
		p := &catalog[i]
		if !p.InStock() {
			continue
		}
		if !matchesIntent(p, &intent) || !matchesExplicit(p, explicit) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

func matchesIntent(p *model.ProductRecord, intent *model.SearchIntent) bool {
	if intent.TargetSubcategory != "" {
		if !utils.FuzzyMatchAttribute(vocab.Subcategories, intent.TargetSubcategory, p.Subcategory) &&
			!utils.FuzzyMatchAttribute(vocab.Subcategories, intent.TargetSubcategory, p.Title) {
			return false
		}
	} else if intent.TargetCategory != "" && !categoryMatches(p, intent.TargetCategory) {
		return false
	}

	if len(intent.TargetColors) > 0 && !utils.FuzzyMatchAny(vocab.Colors, intent.TargetColors, p.Color) {
		return false
	}
	if len(intent.TargetMaterials) > 0 && !utils.FuzzyMatchAny(vocab.Materials, intent.TargetMaterials, p.Material) {
		return false
	}
	if len(intent.TargetStyles) > 0 && !utils.FuzzyMatchAny(vocab.Styles, intent.TargetStyles, p.Style) {
		return false
	}
	if intent.TargetRoom != "" && !utils.FuzzyMatchAttribute(vocab.Rooms, intent.TargetRoom, p.Room) {
		return false
	}
	return withinPrice(p.Price, intent.PriceConstraint)
}

// categoryMatches accepts the category, or a subcategory that belongs to it
func categoryMatches(p *model.ProductRecord, category string) bool {
	if utils.FuzzyMatchAttribute(vocab.Categories, category, p.Category) {
		return true
	}
	if sub, ok := vocab.Subcategories.Canonical(p.Subcategory); ok {
		term, _ := vocab.Subcategories.Term(sub)
		return term.Parent == category
	}
	return false
}

// matchesExplicit applies caller-supplied filters; nil or empty accepts everything
func matchesExplicit(p *model.ProductRecord, f *model.Filters) bool {
	if f.IsEmpty() {
		return true
	}
	if f.Category != nil && *f.Category != "" && !categoryMatches(p, canonicalOr(vocab.Categories, *f.Category)) {
		return false
	}
	if f.Color != nil && *f.Color != "" && !utils.FuzzyMatchAttribute(vocab.Colors, *f.Color, p.Color) {
		return false
	}
	if f.Material != nil && *f.Material != "" && !utils.FuzzyMatchAttribute(vocab.Materials, *f.Material, p.Material) {
		return false
	}
	if f.Style != nil && *f.Style != "" && !utils.FuzzyMatchAttribute(vocab.Styles, *f.Style, p.Style) {
		return false
	}
	if f.Room != nil && *f.Room != "" && !utils.FuzzyMatchAttribute(vocab.Rooms, *f.Room, p.Room) {
		return false
	}
	return withinPrice(p.Price, &model.PriceConstraint{Min: f.PriceMin, Max: f.PriceMax})
}

func withinPrice(price float64, pc *model.PriceConstraint) bool {
	if pc == nil {
		return true
	}
	if pc.Max != nil && price > *pc.Max {
		return false
	}
	if pc.Min != nil && price < *pc.Min {
		return false
	}
	return true
}

func canonicalOr(v *vocab.Vocabulary, s string) string {
	if c, ok := v.Canonical(s); ok {
		return c
	}
	return s
}
