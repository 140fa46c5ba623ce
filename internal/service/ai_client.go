package service

import (
	"context"
	"errors"

	"shopassist/internal/model"
)

var (
	// ErrEmptyMessage is returned for a chat request without text
	ErrEmptyMessage = errors.New("message is required")

	// ErrClassifierDisabled means no language model is configured
	ErrClassifierDisabled = errors.New("language model is not enabled (missing API key)")

	// ErrEmptyCompletion means the model answered with no choice or no content
	ErrEmptyCompletion = errors.New("empty completion from language model")
)

// ClassifyRequest is one low-temperature, JSON-only completion
type ClassifyRequest struct {
	System      string
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
}

// TextClassifier turns a prompt into raw JSON text
type TextClassifier interface {
	Classify(ctx context.Context, req ClassifyRequest) (string, error)
}

// Composer writes the shopper-facing reply for ranked matches
type Composer interface {
	Compose(ctx context.Context, message string, matches []model.ScoredMatch, intent model.SearchIntent) (string, error)
}

// StreamingComposer can also emit the reply incrementally
type StreamingComposer interface {
	Composer
	ComposeStream(ctx context.Context, message string, matches []model.ScoredMatch, intent model.SearchIntent, onDelta func(delta string) error) (string, error)
}

// CatalogReader returns a retailer's in-stock, enriched records
type CatalogReader interface {
	GetCandidates(ctx context.Context, retailerID string) ([]model.ProductRecord, error)
}

// ProductStore covers the catalog operations outside ranking
type ProductStore interface {
	GetProduct(ctx context.Context, retailerID, productID string) (*model.ProductRecord, error)
	BatchUpdateEmbeddings(ctx context.Context, retailerID string, items []model.EmbeddingItem) (int, []string)
}

// SearchLogger persists searches and shopper feedback
type SearchLogger interface {
	LogSearch(ctx context.Context, entry model.SearchLogEntry) error
	LogFeedback(ctx context.Context, searchID, productID, action string) error
}

// StreamChunk is one provider-neutral piece of a streamed completion
type StreamChunk struct {
	Content string

	// Reasoning text some providers stream separately (DeepSeek on NVIDIA)
	ThinkingContent string

	Role string
	Done bool
}
