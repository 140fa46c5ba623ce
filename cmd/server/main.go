package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"shopassist/internal/cache"
	"shopassist/internal/config"
	"shopassist/internal/handler"
	"shopassist/internal/logger"
	"shopassist/internal/metrics"
	"shopassist/internal/repository"
	"shopassist/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := logger.Init("shopassist", cfg.Logging.Level, cfg.Logging.Format)
	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting shopping assistant")
	handler.Version = Version

	gin.SetMode(cfg.Server.GinMode)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	db, err := repository.Open(cfg.GetPostgreSQLDSN(), cfg.PostgreSQL.MaxConnections, cfg.PostgreSQL.MaxIdleConnections)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	repo := repository.NewPostgresRepository(db, cfg.OpenAI.EmbeddingDimensions, logger)
	defer repo.Close()
	logger.Info().Str("host", cfg.PostgreSQL.Host).Msg("connected to PostgreSQL")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := repo.EnsureSchema(rootCtx); err != nil {
		// Managed databases often forbid CREATE EXTENSION; the schema may already exist.
		logger.Warn().Err(err).Msg("schema bootstrap failed, continuing with the existing schema")
	}

	catalogCache, err := cache.NewCatalogCache(cfg.Cache.CatalogSize, cfg.Cache.CatalogTTL, time.Now)
	if err != nil {
		return fmt.Errorf("catalog cache: %w", err)
	}
	catalog := cache.NewCachedCatalog(repo, catalogCache, m)

	store := intentStore(rootCtx, cfg, logger)
	if closer, ok := store.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	var (
		classifier service.TextClassifier
		composer   service.Composer = service.NewTemplateComposer()
	)
	if cfg.OpenAI.Enabled {
		client := service.NewOpenAIClient(&cfg.OpenAI, logger)
		classifier = client
		composer = service.NewLLMComposer(client, cfg.OpenAI.ComposerModel, cfg.OpenAI.ComposerTemperature, cfg.OpenAI.ComposerMaxTokens, logger)
		logger.Info().
			Str("api_base", cfg.OpenAI.APIBase).
			Str("chat_model", cfg.OpenAI.ChatModel).
			Str("composer_model", cfg.OpenAI.ComposerModel).
			Msg("language model enabled")
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set, intent extraction uses keyword matching only")
	}

	extractor := service.NewIntentExtractor(classifier, store, service.ExtractorConfig{
		Timeout:         cfg.Extraction.Timeout,
		MaxContextTurns: cfg.Extraction.MaxContextTurns,
		MaxTokens:       cfg.Extraction.MaxTokens,
		Temperature:     cfg.Extraction.Temperature,
		CacheTTL:        cfg.Cache.IntentTTL,
	}, logger, m)
	ranker := service.NewRanker(service.WeightsFromConfig(cfg.Ranking))

	searchService := service.NewSearchService(catalog, extractor, ranker, composer, service.SearchOptions{
		Products: repo,
		Logs:     repo,
		TopN:     cfg.Search.TopN,
		MaxLimit: cfg.Search.MaxLimit,
		Logger:   logger,
		Metrics:  m,
	})

	var limiter *handler.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = handler.NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.Burst)
	}

	router := handler.NewRouter(handler.RouterOptions{
		Search:              searchService,
		Logger:              logger,
		Gatherer:            reg,
		Database:            repo,
		RateLimiter:         limiter,
		EmbeddingDimensions: cfg.OpenAI.EmbeddingDimensions,
		AllowedOrigins:      cfg.Server.AllowedOrigins,
		AllowedMethods:      cfg.Server.AllowedMethods,
		AllowedHeaders:      cfg.Server.AllowedHeaders,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-rootCtx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

// intentStore prefers Redis so extraction results are shared between replicas
func intentStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) cache.Store {
	if cfg.Redis.Enabled {
		store, err := cache.NewRedisStore(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err == nil {
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("intent cache backed by Redis")
			return store
		}
		logger.Warn().Err(err).Msg("redis unavailable, using in-process intent cache")
	}
	return cache.NewMemoryStore(1024, cfg.Cache.IntentTTL)
}
