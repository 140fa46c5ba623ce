package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
)

// Extra attribute keys accepted on a product record
const (
	ExtraDimensions       = "dimensions"
	ExtraFeatures         = "features"
	ExtraBrand            = "brand"
	ExtraAssemblyRequired = "assembly_required"
	ExtraWarranty         = "warranty"
)

var allowedExtraKeys = map[string]bool{
	ExtraDimensions:       true,
	ExtraFeatures:         true,
	ExtraBrand:            true,
	ExtraAssemblyRequired: true,
	ExtraWarranty:         true,
}

// ProductRecord is the read-only projection of a catalog entry used for ranking
type ProductRecord struct {
	ID              string          `json:"id" db:"id" yaml:"id"`
	RetailerID      string          `json:"retailer_id" db:"retailer_id" yaml:"retailer_id"`
	Title           string          `json:"title" db:"title" yaml:"title"`
	Description     string          `json:"description" db:"description" yaml:"description"`
	Price           float64         `json:"price" db:"price" yaml:"price"`
	Category        string          `json:"category" db:"category" yaml:"category"`
	Subcategory     string          `json:"subcategory" db:"subcategory" yaml:"subcategory"`
	Color           string          `json:"color" db:"color" yaml:"color"`
	Material        string          `json:"material" db:"material" yaml:"material"`
	Style           string          `json:"style" db:"style" yaml:"style"`
	Room            string          `json:"room" db:"room" yaml:"room"`
	StockQuantity   int             `json:"stock_quantity" db:"stock_quantity" yaml:"stock_quantity"`
	ConfidenceScore int             `json:"confidence_score" db:"confidence_score" yaml:"confidence_score"`
	ImageURL        *string         `json:"image_url,omitempty" db:"image_url" yaml:"image_url"`
	ProductURL      *string         `json:"product_url,omitempty" db:"product_url" yaml:"product_url"`
	ExtraAttributes JSONMap         `json:"extra_attributes,omitempty" db:"extra_attributes" yaml:"extra_attributes"`
	Embedding       pgvector.Vector `json:"-" db:"embedding" yaml:"-"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at" yaml:"updated_at"`
}

// InStock reports whether the product is eligible for ranking
func (p *ProductRecord) InStock() bool {
	return p.StockQuantity > 0
}

// FeatureText returns the declared features from extra attributes, if any
func (p *ProductRecord) FeatureText() string {
	if p.ExtraAttributes == nil {
		return ""
	}
	switch v := p.ExtraAttributes[ExtraFeatures].(type) {
	case string:
		return v
	case []interface{}:
		out := ""
		for _, item := range v {
			if s, ok := item.(string); ok {
				out += " " + s
			}
		}
		return out
	}
	return ""
}

// SanitizeExtras drops extra attributes outside the documented key set
func (p *ProductRecord) SanitizeExtras() {
	for k := range p.ExtraAttributes {
		if !allowedExtraKeys[k] {
			delete(p.ExtraAttributes, k)
		}
	}
}

// ScoredMatch is one ranked candidate for a query
type ScoredMatch struct {
	Product           *ProductRecord `json:"product"`
	RelevanceScore    int            `json:"relevance_score"`
	MatchedAttributes []string       `json:"matched_attributes"`
	Reasoning         string         `json:"reasoning"`
}

// RankedProduct is the wire shape of a scored match: the product fields plus its score
type RankedProduct struct {
	ProductRecord
	RelevanceScore    int      `json:"relevance_score"`
	MatchedAttributes []string `json:"matched_attributes"`
	Reasoning         string   `json:"reasoning"`
}

// ToRankedProducts flattens matches for the response payload
func ToRankedProducts(matches []ScoredMatch) []RankedProduct {
	out := make([]RankedProduct, 0, len(matches))
	for _, m := range matches {
		out = append(out, RankedProduct{
			ProductRecord:     *m.Product,
			RelevanceScore:    m.RelevanceScore,
			MatchedAttributes: m.MatchedAttributes,
			Reasoning:         m.Reasoning,
		})
	}
	return out
}

// JSONMap is a jsonb column decoded into a map
type JSONMap map[string]any

// Value implements driver.Valuer
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner for jsonb delivered as bytes or text
func (j *JSONMap) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("extra_attributes: unsupported column type %T", value)
	}
	return json.Unmarshal(raw, j)
}
