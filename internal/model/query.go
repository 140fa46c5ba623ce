package model

// ChatRequest represents a shopping assistant request
type ChatRequest struct {
	Message             string             `json:"message"`
	RetailerID          string             `json:"retailer_id"`
	ConversationContext []ConversationTurn `json:"conversation_context,omitempty"`
	Filters             *Filters           `json:"filters,omitempty"`
	Limit               int                `json:"limit,omitempty"`
}

// Filters are caller-supplied constraints that bypass intent extraction
type Filters struct {
	PriceMax *float64 `json:"price_max,omitempty"`
	PriceMin *float64 `json:"price_min,omitempty"`
	Category *string  `json:"category,omitempty"`
	Color    *string  `json:"color,omitempty"`
	Material *string  `json:"material,omitempty"`
	Style    *string  `json:"style,omitempty"`
	Room     *string  `json:"room,omitempty"`
}

// IsEmpty reports whether no explicit filter is set
func (f *Filters) IsEmpty() bool {
	return f == nil || (f.PriceMax == nil && f.PriceMin == nil && f.Category == nil &&
		f.Color == nil && f.Material == nil && f.Style == nil && f.Room == nil)
}

// ChatResponse represents the assistant reply
type ChatResponse struct {
	Message      string          `json:"message"`
	Products     []RankedProduct `json:"products"`
	SearchIntent *SearchIntent   `json:"search_intent,omitempty"`
	TotalFound   int             `json:"total_found"`
	SearchTime   string          `json:"search_time"`
	SearchID     string          `json:"search_id,omitempty"`
	Took         int64           `json:"took_ms"`
	Error        bool            `json:"error,omitempty"`
}

// EmbeddingBatchRequest represents a batch embedding update request
type EmbeddingBatchRequest struct {
	RetailerID string          `json:"retailer_id" binding:"required"`
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem represents a single embedding with product info
type EmbeddingItem struct {
	ProductID string    `json:"product_id" binding:"required"`
	Embedding []float32 `json:"embedding" binding:"required"`
	Text      string    `json:"text,omitempty"`
}

// EmbeddingBatchResponse represents the response for batch embedding update
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// FeedbackRequest represents a shopper action on a ranked product
type FeedbackRequest struct {
	SearchID  string `json:"search_id" binding:"required"`
	ProductID string `json:"product_id" binding:"required"`
	Action    string `json:"action" binding:"required,oneof=click add_to_cart view_details"`
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SearchLogEntry is what gets persisted for each answered chat message
type SearchLogEntry struct {
	SearchID    string
	RetailerID  string
	Query       string
	Intent      *SearchIntent
	ResultCount int
	ProductIDs  []string
	TookMs      int
}
