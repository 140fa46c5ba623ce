package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shopassist/internal/metrics"
	"shopassist/internal/model"
)

// SearchService runs the chat pipeline: extract, filter, score, compose
type SearchService struct {
	catalog  CatalogReader
	products ProductStore
	logs     SearchLogger
	intent   *IntentExtractor
	ranker   *Ranker
	composer Composer
	topN     int
	maxLimit int
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// SearchOptions holds the optional collaborators and limits
type SearchOptions struct {
	Products ProductStore
	Logs     SearchLogger
	TopN     int
	MaxLimit int
	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
}

// NewSearchService creates a new search service
func NewSearchService(catalog CatalogReader, intent *IntentExtractor, ranker *Ranker, composer Composer, opts SearchOptions) *SearchService {
	if opts.TopN <= 0 {
		opts.TopN = 5
	}
	if opts.MaxLimit < opts.TopN {
		opts.MaxLimit = opts.TopN
	}
	if composer == nil {
		composer = NewTemplateComposer()
	}
	return &SearchService{
		catalog:  catalog,
		products: opts.Products,
		logs:     opts.Logs,
		intent:   intent,
		ranker:   ranker,
		composer: composer,
		topN:     opts.TopN,
		maxLimit: opts.MaxLimit,
		logger:   opts.Logger.With().Str("component", "search").Logger(),
		metrics:  opts.Metrics,
		now:      time.Now,
	}
}

// SearchEventCallback is called for streaming search events
type SearchEventCallback func(event string, data any) error

// Stream event names
const (
	EventParsing   = "parsing"
	EventIntent    = "intent"
	EventSearching = "searching"
	EventResults   = "results"
	EventMessage   = "message"
	EventDone      = "done"
)

// Chat answers one message. It never fails: collaborator errors yield the
// degraded response shape. ErrEmptyMessage is returned alongside the
// response so the transport can pick a client error status.
func (s *SearchService) Chat(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	return s.run(ctx, req, nil)
}

// ChatStream is Chat with progress events; the reply text is streamed in
// "message" events when the composer supports it.
func (s *SearchService) ChatStream(ctx context.Context, req *model.ChatRequest, callback SearchEventCallback) (*model.ChatResponse, error) {
	if callback == nil {
		return nil, errors.New("nil stream callback")
	}
	return s.run(ctx, req, callback)
}

func (s *SearchService) run(ctx context.Context, req *model.ChatRequest, emit SearchEventCallback) (*model.ChatResponse, error) {
	start := s.now()
	streaming := emit != nil
	if emit == nil {
		emit = func(string, any) error { return nil }
	}

	if req == nil || strings.TrimSpace(req.Message) == "" {
		return s.degraded(start, EmptyInputReply, "empty_message"), ErrEmptyMessage
	}

	log := s.logger.With().Str("retailer_id", req.RetailerID).Logger()

	if err := emit(EventParsing, map[string]any{"status": "Analyse de votre demande..."}); err != nil {
		return nil, err
	}
	intent := s.intent.Extract(ctx, req.Message, req.ConversationContext)
	if err := emit(EventIntent, intent); err != nil {
		return nil, err
	}

	matches := []model.ScoredMatch{}
	total := 0
	if intent.ShouldSearch {
		if err := emit(EventSearching, map[string]any{"status": "Recherche dans le catalogue..."}); err != nil {
			return nil, err
		}

		catalog, err := s.catalog.GetCandidates(ctx, req.RetailerID)
		if err != nil {
			log.Error().Err(err).Msg("catalog read failed")
			resp := s.degraded(start, DegradedMessage, "catalog")
			resp.SearchIntent = &intent
			return resp, nil
		}

		filtered := Filter(catalog, intent, req.Filters)
		s.metrics.ObserveFiltered(len(filtered))
		scored := s.ranker.Score(filtered, intent, req.Message, req.Filters)
		total = len(scored)
		matches = scored
		if n := s.limit(req.Limit); len(matches) > n {
			matches = matches[:n]
		}

		if err := emit(EventResults, map[string]any{
			"products":    model.ToRankedProducts(matches),
			"total_found": total,
		}); err != nil {
			return nil, err
		}
	}

	reply, err := s.compose(ctx, req.Message, matches, intent, streaming, emit)
	if err != nil {
		return nil, err
	}

	took := s.now().Sub(start)
	resp := &model.ChatResponse{
		Message:      reply,
		Products:     model.ToRankedProducts(matches),
		SearchIntent: &intent,
		TotalFound:   total,
		SearchTime:   start.UTC().Format(time.RFC3339),
		SearchID:     uuid.NewString(),
		Took:         took.Milliseconds(),
	}
	s.metrics.ObserveChat(string(intent.IntentType), took.Seconds())

	log.Info().
		Str("search_id", resp.SearchID).
		Str("intent_type", string(intent.IntentType)).
		Str("intent_source", string(intent.Source)).
		Int("total_found", total).
		Int64("took_ms", resp.Took).
		Msg("chat answered")

	s.logSearchAsync(req, &intent, resp)

	if err := emit(EventDone, map[string]any{"search_id": resp.SearchID, "took_ms": resp.Took}); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *SearchService) compose(ctx context.Context, message string, matches []model.ScoredMatch, intent model.SearchIntent, streaming bool, emit SearchEventCallback) (string, error) {
	if sc, ok := s.composer.(StreamingComposer); ok && streaming {
		var streamErr error
		reply, err := sc.ComposeStream(ctx, message, matches, intent, func(delta string) error {
			if e := emit(EventMessage, map[string]any{"delta": delta}); e != nil {
				streamErr = e
				return e
			}
			return nil
		})
		if streamErr != nil {
			return "", streamErr
		}
		if err == nil {
			return reply, nil
		}
		s.logger.Warn().Err(err).Msg("reply composition failed")
		return noResultsOrDegraded(matches), nil
	}

	reply, err := s.composer.Compose(ctx, message, matches, intent)
	if err != nil {
		s.logger.Warn().Err(err).Msg("reply composition failed")
		reply = noResultsOrDegraded(matches)
	}
	if err := emit(EventMessage, map[string]any{"delta": reply}); err != nil {
		return "", err
	}
	return reply, nil
}

func noResultsOrDegraded(matches []model.ScoredMatch) string {
	if len(matches) == 0 {
		return noResultsReply
	}
	return DegradedMessage
}

// degraded builds the fixed-shape error reply
func (s *SearchService) degraded(start time.Time, message, cause string) *model.ChatResponse {
	s.metrics.ObserveDegraded(cause)
	return &model.ChatResponse{
		Message:    message,
		Products:   []model.RankedProduct{},
		TotalFound: 0,
		SearchTime: start.UTC().Format(time.RFC3339),
		Took:       s.now().Sub(start).Milliseconds(),
		Error:      true,
	}
}

func (s *SearchService) limit(requested int) int {
	if requested <= 0 {
		return s.topN
	}
	if requested > s.maxLimit {
		return s.maxLimit
	}
	return requested
}

// logSearchAsync persists the search without delaying the reply
func (s *SearchService) logSearchAsync(req *model.ChatRequest, intent *model.SearchIntent, resp *model.ChatResponse) {
	if s.logs == nil {
		return
	}
	entry := model.SearchLogEntry{
		SearchID:    resp.SearchID,
		RetailerID:  req.RetailerID,
		Query:       req.Message,
		Intent:      intent,
		ResultCount: resp.TotalFound,
		ProductIDs:  make([]string, 0, len(resp.Products)),
		TookMs:      int(resp.Took),
	}
	for _, p := range resp.Products {
		entry.ProductIDs = append(entry.ProductIDs, p.ID)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.logs.LogSearch(ctx, entry); err != nil {
			s.logger.Warn().Err(err).Str("search_id", entry.SearchID).Msg("search log write failed")
		}
	}()
}

// GetProduct retrieves a single product of a retailer
func (s *SearchService) GetProduct(ctx context.Context, retailerID, productID string) (*model.ProductRecord, error) {
	if s.products == nil {
		return nil, errors.New("product store not configured")
	}
	return s.products.GetProduct(ctx, retailerID, productID)
}

// UpdateEmbeddings stores product embeddings and drops the cached catalog
func (s *SearchService) UpdateEmbeddings(ctx context.Context, retailerID string, items []model.EmbeddingItem) (int, []string) {
	if s.products == nil {
		return 0, []string{"product store not configured"}
	}
	success, errs := s.products.BatchUpdateEmbeddings(ctx, retailerID, items)
	if inv, ok := s.catalog.(interface{ Invalidate(string) }); ok && success > 0 {
		inv.Invalidate(retailerID)
	}
	return success, errs
}

// LogFeedback logs user feedback/action
func (s *SearchService) LogFeedback(ctx context.Context, searchID, productID, action string) error {
	if s.logs == nil {
		return nil
	}
	return s.logs.LogFeedback(ctx, searchID, productID, action)
}
