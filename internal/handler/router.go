package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"shopassist/internal/service"
)

// Version is set at build time with -ldflags
var Version = "dev"

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterOptions wires the HTTP surface
type RouterOptions struct {
	Search              *service.SearchService
	Logger              zerolog.Logger
	Gatherer            prometheus.Gatherer // nil disables /metrics
	Database            Pinger              // nil skips the health check of the database
	RateLimiter         *RateLimiter        // nil disables rate limiting
	EmbeddingDimensions int
	AllowedOrigins      string
	AllowedMethods      string
	AllowedHeaders      string
}

// NewRouter builds the gin engine with every route
func NewRouter(opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(opts.Logger))
	router.Use(cors.New(corsConfig(opts)))

	router.GET("/health", health(opts.Database))
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": Version})
	})
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	chatHandler := NewChatHandler(opts.Search, opts.Logger)
	embeddingHandler := NewEmbeddingHandler(opts.Search, opts.EmbeddingDimensions, opts.Logger)
	feedbackHandler := NewFeedbackHandler(opts.Search, opts.Logger)

	api := router.Group("/api/v1")
	if opts.RateLimiter != nil {
		api.Use(opts.RateLimiter.Middleware())
	}
	{
		api.POST("/chat", chatHandler.Chat)
		api.POST("/chat/stream", chatHandler.ChatStream)
		api.GET("/retailers/:retailer_id/products/:id", chatHandler.GetProduct)
		api.POST("/embeddings/batch", embeddingHandler.BatchUpdate)
		api.POST("/feedback", feedbackHandler.Submit)
	}
	return router
}

func health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func corsConfig(opts RouterOptions) cors.Config {
	cfg := cors.DefaultConfig()
	origins := splitList(opts.AllowedOrigins)
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	if methods := splitList(opts.AllowedMethods); len(methods) > 0 {
		cfg.AllowMethods = methods
	}
	if headers := splitList(opts.AllowedHeaders); len(headers) > 0 {
		cfg.AllowHeaders = headers
	}
	cfg.ExposeHeaders = []string{requestIDHeader}
	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
