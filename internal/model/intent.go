package model

// IntentType classifies what the shopper is asking for
type IntentType string

const (
	IntentProductSearch IntentType = "product_search"
	IntentStyleAdvice   IntentType = "style_advice"
	IntentRoomPlanning  IntentType = "room_planning"
	IntentFAQ           IntentType = "faq"
	IntentChat          IntentType = "chat"
)

// Searches reports whether this intent type ever leads to catalog ranking
func (t IntentType) Searches() bool {
	switch t {
	case IntentProductSearch, IntentStyleAdvice, IntentRoomPlanning:
		return true
	}
	return false
}

// IntentSource tells which extraction tier produced an intent
type IntentSource string

const (
	SourceLLM      IntentSource = "llm"
	SourceFallback IntentSource = "fallback"
	SourceCache    IntentSource = "cache"
)

// PriceConstraint bounds the acceptable price, in the catalog's currency unit
type PriceConstraint struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// IsEmpty reports whether neither bound is set
func (p *PriceConstraint) IsEmpty() bool {
	return p == nil || (p.Min == nil && p.Max == nil)
}

// SearchIntent is the structured interpretation of one shopping message.
// It is built once per request and only read afterwards.
type SearchIntent struct {
	IntentType        IntentType       `json:"intent_type"`
	ShouldSearch      bool             `json:"should_search_products"`
	TargetCategory    string           `json:"target_category,omitempty"`
	TargetSubcategory string           `json:"target_subcategory,omitempty"`
	TargetColors      []string         `json:"target_colors"`
	TargetMaterials   []string         `json:"target_materials"`
	TargetStyles      []string         `json:"target_styles"`
	TargetRoom        string           `json:"target_room,omitempty"`
	PriceConstraint   *PriceConstraint `json:"price_constraint,omitempty"`
	SpecialFeatures   []string         `json:"special_features"`
	Confidence        int              `json:"confidence"`
	Source            IntentSource     `json:"source"`
}

// HasConstraints reports whether any attribute narrows the catalog
func (i *SearchIntent) HasConstraints() bool {
	return i.TargetCategory != "" ||
		i.TargetSubcategory != "" ||
		len(i.TargetColors) > 0 ||
		len(i.TargetMaterials) > 0 ||
		len(i.TargetStyles) > 0 ||
		i.TargetRoom != "" ||
		!i.PriceConstraint.IsEmpty()
}

// ConversationTurn is one prior message of the chat
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
