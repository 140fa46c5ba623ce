package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	PostgreSQL  PostgreSQLConfig
	Server      ServerConfig
	Search      SearchConfig
	Ranking     RankingConfig
	Extraction  ExtractionConfig
	Logging     LoggingConfig
	OpenAI      OpenAIConfig
	Redis       RedisConfig
	Cache       CacheConfig
	RateLimit   RateLimitConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, used when set
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// SearchConfig holds search-related configuration
type SearchConfig struct {
	TopN     int // products returned per reply
	MaxLimit int
}

// RankingConfig holds the additive relevance weights
type RankingConfig struct {
	Category      float64
	Color         float64
	Material      float64
	Style         float64
	PriceWithin   float64
	Room          float64
	Feature       float64
	LexicalToken  float64
	QualityFactor float64
}

// ExtractionConfig tunes the LLM intent path
type ExtractionConfig struct {
	Timeout         time.Duration
	MaxContextTurns int
	MaxTokens       int
	Temperature     float64
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// OpenAIConfig holds OpenAI-compatible API configuration
type OpenAIConfig struct {
	APIKey              string
	APIBase             string
	ChatModel           string
	ComposerModel       string
	ComposerTemperature float64
	ComposerMaxTokens   int
	ChatExtraBody       string // JSON merged into every chat request body
	EmbeddingDimensions int
	Timeout             time.Duration
	Enabled             bool
}

// RedisConfig holds the intent cache connection
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	Enabled  bool
}

// CacheConfig sizes the in-process caches
type CacheConfig struct {
	CatalogTTL  time.Duration
	CatalogSize int
	IntentTTL   time.Duration
}

// RateLimitConfig limits chat requests per retailer
type RateLimitConfig struct {
	RequestsPerMin int
	Burst          int
	Enabled        bool
}

// Load reads configuration from .env, an optional config.yaml and the environment.
// Environment variables win; keys map to upper-case with dots replaced by underscores
// (ranking.category -> RANKING_CATEGORY).
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "production")

	v.SetDefault("pg.host", "localhost")
	v.SetDefault("pg.port", 5432)
	v.SetDefault("pg.user", "postgres")
	v.SetDefault("pg.password", "")
	v.SetDefault("pg.database", "shopassist")
	v.SetDefault("pg.sslmode", "disable")
	v.SetDefault("pg.max_connections", 25)
	v.SetDefault("pg.max_idle_connections", 5)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("gin.mode", "release")
	v.SetDefault("cors.allowed_origins", "*")
	v.SetDefault("cors.allowed_methods", "GET,POST,OPTIONS")
	v.SetDefault("cors.allowed_headers", "Content-Type,Authorization,X-Request-ID")

	v.SetDefault("search.top_n", 5)
	v.SetDefault("search.max_limit", 50)

	v.SetDefault("ranking.category", 40)
	v.SetDefault("ranking.color", 25)
	v.SetDefault("ranking.material", 20)
	v.SetDefault("ranking.style", 15)
	v.SetDefault("ranking.price_within", 15)
	v.SetDefault("ranking.room", 10)
	v.SetDefault("ranking.feature", 10)
	v.SetDefault("ranking.lexical_token", 2)
	v.SetDefault("ranking.quality_factor", 0.1)

	v.SetDefault("extraction.timeout", "4s")
	v.SetDefault("extraction.max_context_turns", 3)
	v.SetDefault("extraction.max_tokens", 400)
	v.SetDefault("extraction.temperature", 0.1)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.api_base", "https://api.openai.com/v1")
	v.SetDefault("openai.chat_model", "gpt-4o-mini")
	v.SetDefault("openai.composer_model", "")
	v.SetDefault("openai.composer_temperature", 0.7)
	v.SetDefault("openai.composer_max_tokens", 600)
	v.SetDefault("openai.chat_extra_body", "")
	v.SetDefault("openai.embedding_dimensions", 1536)
	v.SetDefault("openai.timeout", "20s")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "shopassist:")

	v.SetDefault("cache.catalog_ttl", "2m")
	v.SetDefault("cache.catalog_size", 256)
	v.SetDefault("cache.intent_ttl", "1h")

	v.SetDefault("ratelimit.requests_per_min", 120)
	v.SetDefault("ratelimit.burst", 20)
	v.SetDefault("ratelimit.enabled", true)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("environment"),
		PostgreSQL: PostgreSQLConfig{
			DSN:                firstNonEmpty(v.GetString("database_url"), v.GetString("pg.dsn")),
			Host:               v.GetString("pg.host"),
			Port:               v.GetInt("pg.port"),
			User:               v.GetString("pg.user"),
			Password:           v.GetString("pg.password"),
			Database:           v.GetString("pg.database"),
			SSLMode:            v.GetString("pg.sslmode"),
			MaxConnections:     v.GetInt("pg.max_connections"),
			MaxIdleConnections: v.GetInt("pg.max_idle_connections"),
		},
		Server: ServerConfig{
			Port:           v.GetInt("server.port"),
			Host:           v.GetString("server.host"),
			GinMode:        v.GetString("gin.mode"),
			AllowedOrigins: v.GetString("cors.allowed_origins"),
			AllowedMethods: v.GetString("cors.allowed_methods"),
			AllowedHeaders: v.GetString("cors.allowed_headers"),
		},
		Search: SearchConfig{
			TopN:     v.GetInt("search.top_n"),
			MaxLimit: v.GetInt("search.max_limit"),
		},
		Ranking: RankingConfig{
			Category:      v.GetFloat64("ranking.category"),
			Color:         v.GetFloat64("ranking.color"),
			Material:      v.GetFloat64("ranking.material"),
			Style:         v.GetFloat64("ranking.style"),
			PriceWithin:   v.GetFloat64("ranking.price_within"),
			Room:          v.GetFloat64("ranking.room"),
			Feature:       v.GetFloat64("ranking.feature"),
			LexicalToken:  v.GetFloat64("ranking.lexical_token"),
			QualityFactor: v.GetFloat64("ranking.quality_factor"),
		},
		Extraction: ExtractionConfig{
			Timeout:         v.GetDuration("extraction.timeout"),
			MaxContextTurns: v.GetInt("extraction.max_context_turns"),
			MaxTokens:       v.GetInt("extraction.max_tokens"),
			Temperature:     v.GetFloat64("extraction.temperature"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		OpenAI: OpenAIConfig{
			APIKey:              v.GetString("openai.api_key"),
			APIBase:             strings.TrimRight(v.GetString("openai.api_base"), "/"),
			ChatModel:           v.GetString("openai.chat_model"),
			ComposerModel:       v.GetString("openai.composer_model"),
			ComposerTemperature: v.GetFloat64("openai.composer_temperature"),
			ComposerMaxTokens:   v.GetInt("openai.composer_max_tokens"),
			ChatExtraBody:       v.GetString("openai.chat_extra_body"),
			EmbeddingDimensions: v.GetInt("openai.embedding_dimensions"),
			Timeout:             v.GetDuration("openai.timeout"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			Prefix:   v.GetString("redis.prefix"),
		},
		Cache: CacheConfig{
			CatalogTTL:  v.GetDuration("cache.catalog_ttl"),
			CatalogSize: v.GetInt("cache.catalog_size"),
			IntentTTL:   v.GetDuration("cache.intent_ttl"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMin: v.GetInt("ratelimit.requests_per_min"),
			Burst:          v.GetInt("ratelimit.burst"),
			Enabled:        v.GetBool("ratelimit.enabled"),
		},
	}
	cfg.OpenAI.Enabled = cfg.OpenAI.APIKey != ""
	if cfg.OpenAI.ComposerModel == "" {
		cfg.OpenAI.ComposerModel = cfg.OpenAI.ChatModel
	}
	cfg.Redis.Enabled = cfg.Redis.Addr != ""

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with
func (c *Config) Validate() error {
	if c.Search.TopN <= 0 {
		return fmt.Errorf("search.top_n must be positive, got %d", c.Search.TopN)
	}
	if c.Search.MaxLimit < c.Search.TopN {
		return fmt.Errorf("search.max_limit (%d) must be >= search.top_n (%d)", c.Search.MaxLimit, c.Search.TopN)
	}
	if c.Extraction.Timeout <= 0 {
		return fmt.Errorf("extraction.timeout must be positive")
	}
	w := c.Ranking
	for name, val := range map[string]float64{
		"category": w.Category, "color": w.Color, "material": w.Material, "style": w.Style,
		"price_within": w.PriceWithin, "room": w.Room, "feature": w.Feature,
		"lexical_token": w.LexicalToken, "quality_factor": w.QualityFactor,
	} {
		if val < 0 {
			return fmt.Errorf("ranking.%s must not be negative", name)
		}
	}
	return nil
}

// IsDevelopment reports whether console logging and debug gin mode are wanted
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}
