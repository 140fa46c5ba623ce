package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"shopassist/internal/cache"
	"shopassist/internal/metrics"
	"shopassist/internal/model"
	"shopassist/internal/utils"
	"shopassist/internal/vocab"
)

// ExtractorConfig tunes the language model path
type ExtractorConfig struct {
	Timeout         time.Duration
	MaxContextTurns int
	MaxTokens       int
	Temperature     float64
	CacheTTL        time.Duration
}

// IntentExtractor turns a message into a SearchIntent. The language model is
// tried first when configured; any failure falls back to keyword matching.
type IntentExtractor struct {
	classifier TextClassifier
	fallback   *KeywordExtractor
	validate   *validator.Validate
	store      cache.Store
	cfg        ExtractorConfig
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

// NewIntentExtractor creates an extractor. classifier and store may be nil.
func NewIntentExtractor(classifier TextClassifier, store cache.Store, cfg ExtractorConfig, logger zerolog.Logger, m *metrics.Metrics) *IntentExtractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 4 * time.Second
	}
	if cfg.MaxContextTurns <= 0 {
		cfg.MaxContextTurns = 3
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 400
	}
	return &IntentExtractor{
		classifier: classifier,
		fallback:   NewKeywordExtractor(),
		validate:   validator.New(),
		store:      store,
		cfg:        cfg,
		logger:     logger.With().Str("component", "intent").Logger(),
		metrics:    m,
	}
}

// llmIntent is the JSON contract of the language model reply
type llmIntent struct {
	IntentType        string       `json:"intent_type" validate:"required,oneof=product_search style_advice room_planning faq chat"`
	ShouldSearch      *bool        `json:"should_search_products"`
	TargetCategory    *string      `json:"target_category"`
	TargetSubcategory *string      `json:"target_subcategory"`
	TargetColors      []string     `json:"target_colors" validate:"max=10"`
	TargetMaterials   []string     `json:"target_materials" validate:"max=10"`
	TargetStyles      []string     `json:"target_styles" validate:"max=10"`
	TargetRoom        *string      `json:"target_room"`
	PriceConstraint   *llmPriceRng `json:"price_constraint"`
	SpecialFeatures   []string     `json:"special_features" validate:"max=10"`
	Confidence        int          `json:"confidence" validate:"gte=0,lte=100"`
}

type llmPriceRng struct {
	Min *float64 `json:"min" validate:"omitempty,gte=0"`
	Max *float64 `json:"max" validate:"omitempty,gte=0"`
}

// Extract never fails: it returns a valid intent for any input
func (e *IntentExtractor) Extract(ctx context.Context, message string, turns []model.ConversationTurn) model.SearchIntent {
	message = strings.TrimSpace(message)

	// greetings never need the model
	if isGreeting(vocab.Normalize(message)) {
		e.metrics.ObserveExtraction(string(model.SourceFallback))
		return chatIntent(model.SourceFallback)
	}

	if e.classifier == nil {
		return e.runFallback(message, turns, "disabled")
	}

	recent := lastTurns(turns, e.cfg.MaxContextTurns)
	key := cacheKey(message, recent)
	if intent, ok := e.fromCache(ctx, key); ok {
		e.metrics.ObserveExtraction(string(model.SourceCache))
		return intent
	}

	intent, err := e.extractWithModel(ctx, message, recent)
	if err != nil {
		return e.runFallback(message, turns, fallbackReason(err))
	}

	e.metrics.ObserveExtraction(string(model.SourceLLM))
	e.toCache(ctx, key, intent)
	return intent
}

// ExtractFallback runs only the deterministic path
func (e *IntentExtractor) ExtractFallback(message string, turns []model.ConversationTurn) model.SearchIntent {
	return e.fallback.Extract(message, turns)
}

func (e *IntentExtractor) runFallback(message string, turns []model.ConversationTurn, reason string) model.SearchIntent {
	if reason != "disabled" {
		e.logger.Warn().Str("reason", reason).Msg("language model extraction failed, using keyword fallback")
		e.metrics.ObserveFallback(reason)
	}
	e.metrics.ObserveExtraction(string(model.SourceFallback))
	return e.fallback.Extract(message, turns)
}

func (e *IntentExtractor) extractWithModel(ctx context.Context, message string, recent []model.ConversationTurn) (model.SearchIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	req := BuildIntentPrompt(message, recent, e.cfg.MaxContextTurns, e.cfg.Temperature, e.cfg.MaxTokens)
	raw, err := e.classifier.Classify(ctx, req)
	if err != nil {
		return model.SearchIntent{}, err
	}

	var parsed llmIntent
	if err := utils.ParseAIJSON(raw, &parsed); err != nil {
		return model.SearchIntent{}, err
	}
	if err := e.validate.Struct(&parsed); err != nil {
		return model.SearchIntent{}, fmt.Errorf("intent schema: %w", err)
	}
	if p := parsed.PriceConstraint; p != nil && p.Min != nil && p.Max != nil && *p.Min > *p.Max {
		return model.SearchIntent{}, fmt.Errorf("intent schema: price min %.2f above max %.2f", *p.Min, *p.Max)
	}

	e.logger.Debug().
		Str("intent_type", parsed.IntentType).
		Int("confidence", parsed.Confidence).
		Msg("language model intent parsed")
	return canonicalize(parsed), nil
}

// canonicalize maps model output onto the closed vocabularies, dropping unknown values
func canonicalize(p llmIntent) model.SearchIntent {
	intent := model.SearchIntent{
		IntentType:      model.IntentType(p.IntentType),
		TargetColors:    vocab.Colors.CanonicalSet(p.TargetColors),
		TargetMaterials: vocab.Materials.CanonicalSet(p.TargetMaterials),
		TargetStyles:    vocab.Styles.CanonicalSet(p.TargetStyles),
		SpecialFeatures: vocab.Features.CanonicalSet(p.SpecialFeatures),
		Confidence:      p.Confidence,
		Source:          model.SourceLLM,
	}

	if p.TargetSubcategory != nil {
		if sub, ok := vocab.Subcategories.Canonical(*p.TargetSubcategory); ok {
			term, _ := vocab.Subcategories.Term(sub)
			intent.TargetSubcategory = sub
			intent.TargetCategory = term.Parent
		}
	}
	if p.TargetCategory != nil {
		if cat, ok := vocab.Categories.Canonical(*p.TargetCategory); ok {
			intent.TargetCategory = cat
		} else if sub, ok := vocab.Subcategories.Canonical(*p.TargetCategory); ok && intent.TargetSubcategory == "" {
			term, _ := vocab.Subcategories.Term(sub)
			intent.TargetSubcategory = sub
			intent.TargetCategory = term.Parent
		}
	}
	if p.TargetRoom != nil {
		if room, ok := vocab.Rooms.Canonical(*p.TargetRoom); ok {
			intent.TargetRoom = room
		}
	}
	if p.PriceConstraint != nil && (p.PriceConstraint.Min != nil || p.PriceConstraint.Max != nil) {
		intent.PriceConstraint = &model.PriceConstraint{Min: p.PriceConstraint.Min, Max: p.PriceConstraint.Max}
	}

	intent.ShouldSearch = intent.IntentType.Searches()
	if p.ShouldSearch != nil && !*p.ShouldSearch {
		intent.ShouldSearch = false
	}
	return intent
}

func (e *IntentExtractor) fromCache(ctx context.Context, key string) (model.SearchIntent, bool) {
	if e.store == nil {
		return model.SearchIntent{}, false
	}
	raw, err := e.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			e.logger.Debug().Err(err).Msg("intent cache read failed")
		}
		return model.SearchIntent{}, false
	}
	var intent model.SearchIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return model.SearchIntent{}, false
	}
	intent.Source = model.SourceCache
	return intent, true
}

func (e *IntentExtractor) toCache(ctx context.Context, key string, intent model.SearchIntent) {
	if e.store == nil {
		return
	}
	raw, err := json.Marshal(intent)
	if err != nil {
		return
	}
	if err := e.store.Set(ctx, key, raw, e.cfg.CacheTTL); err != nil {
		e.logger.Debug().Err(err).Msg("intent cache write failed")
	}
}

// cacheKey hashes the message with the turns the model saw
func cacheKey(message string, turns []model.ConversationTurn) string {
	h := sha256.New()
	h.Write([]byte("intent:v1\n"))
	for _, t := range turns {
		h.Write([]byte(t.Role + "\x1f" + t.Content + "\x1e"))
	}
	h.Write([]byte(message))
	return "intent:" + hex.EncodeToString(h.Sum(nil))
}

// fallbackReason buckets an extraction error for metrics and logs
func fallbackReason(err error) string {
	var statusErr *StatusError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrClassifierDisabled):
		return "disabled"
	case errors.As(err, &statusErr):
		return "status"
	case errors.Is(err, utils.ErrNoJSON), errors.Is(err, ErrEmptyCompletion):
		return "parse"
	case errors.As(err, &validationErrs), strings.HasPrefix(err.Error(), "intent schema"):
		return "schema"
	default:
		return "transport"
	}
}
