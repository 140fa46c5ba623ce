package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog"

	"shopassist/internal/model"
)

const (
	productsTable   = "products"
	searchLogsTable = "search_logs"
)

var productColumns = []interface{}{
	"id", "retailer_id", "title", "description", "price", "category", "subcategory",
	"color", "material", "style", "room", "stock_quantity", "confidence_score",
	"image_url", "product_url", "extra_attributes", "updated_at",
}

// Schema creates the tables the service reads and writes
const Schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS products (
	id               TEXT NOT NULL,
	retailer_id      TEXT NOT NULL,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	price            NUMERIC(12,2) NOT NULL,
	category         TEXT NOT NULL DEFAULT '',
	subcategory      TEXT NOT NULL DEFAULT '',
	color            TEXT NOT NULL DEFAULT '',
	material         TEXT NOT NULL DEFAULT '',
	style            TEXT NOT NULL DEFAULT '',
	room             TEXT NOT NULL DEFAULT '',
	stock_quantity   INTEGER NOT NULL DEFAULT 0,
	confidence_score INTEGER NOT NULL DEFAULT 0 CHECK (confidence_score BETWEEN 0 AND 100),
	image_url        TEXT,
	product_url      TEXT,
	extra_attributes JSONB,
	embedding        vector,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (retailer_id, id)
);

CREATE INDEX IF NOT EXISTS products_in_stock_idx ON products (retailer_id) WHERE stock_quantity > 0;

CREATE TABLE IF NOT EXISTS search_logs (
	search_id            UUID PRIMARY KEY,
	retailer_id          TEXT NOT NULL,
	query                TEXT NOT NULL,
	intent               JSONB,
	result_count         INTEGER NOT NULL,
	returned_product_ids TEXT[],
	response_time_ms     INTEGER NOT NULL,
	clicked_product_id   TEXT,
	action               TEXT,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db            *sqlx.DB
	dialect       goqu.DialectWrapper
	embeddingDims int
	logger        zerolog.Logger
}

// Open connects to PostgreSQL and sizes the pool
func Open(dsn string, maxConn, maxIdleConn int) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// NewPostgresRepository creates a new PostgreSQL repository. A positive
// embeddingDims rejects vectors of any other length.
func NewPostgresRepository(db *sqlx.DB, embeddingDims int, logger zerolog.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:            db,
		dialect:       goqu.Dialect("postgres"),
		embeddingDims: embeddingDims,
		logger:        logger.With().Str("component", "repository").Logger(),
	}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates missing tables
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Ping checks the connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// GetCandidates returns the in-stock records of a retailer, ordered by id
func (r *PostgresRepository) GetCandidates(ctx context.Context, retailerID string) ([]model.ProductRecord, error) {
	query, args, err := r.dialect.From(productsTable).Prepared(true).
		Select(productColumns...).
		Where(
			goqu.C("retailer_id").Eq(retailerID),
			goqu.C("stock_quantity").Gt(0),
		).
		Order(goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build candidates query: %w", err)
	}

	products := []model.ProductRecord{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}
	for i := range products {
		products[i].SanitizeExtras()
	}
	return products, nil
}

// GetProduct retrieves a single product; a missing product is (nil, nil)
func (r *PostgresRepository) GetProduct(ctx context.Context, retailerID, productID string) (*model.ProductRecord, error) {
	query, args, err := r.dialect.From(productsTable).Prepared(true).
		Select(productColumns...).
		Where(
			goqu.C("retailer_id").Eq(retailerID),
			goqu.C("id").Eq(productID),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build product query: %w", err)
	}

	var product model.ProductRecord
	if err := r.db.GetContext(ctx, &product, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	product.SanitizeExtras()
	return &product, nil
}

// BatchUpdateEmbeddings stores embeddings in one transaction. Items that fail
// are reported and skipped; the rest are committed together.
func (r *PostgresRepository) BatchUpdateEmbeddings(ctx context.Context, retailerID string, items []model.EmbeddingItem) (int, []string) {
	success := 0
	var errs []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, []string{fmt.Sprintf("failed to start transaction: %v", err)}
	}
	defer tx.Rollback()

	for _, item := range items {
		if r.embeddingDims > 0 && len(item.Embedding) != r.embeddingDims {
			errs = append(errs, fmt.Sprintf("product_id %s: embedding has %d dimensions, want %d",
				item.ProductID, len(item.Embedding), r.embeddingDims))
			continue
		}

		query, args, err := r.dialect.Update(productsTable).Prepared(true).
			Set(goqu.Record{
				"embedding":  pgvector.NewVector(item.Embedding),
				"updated_at": goqu.L("NOW()"),
			}).
			Where(
				goqu.C("id").Eq(item.ProductID),
				goqu.C("retailer_id").Eq(retailerID),
			).
			ToSQL()
		if err != nil {
			errs = append(errs, fmt.Sprintf("product_id %s: %v", item.ProductID, err))
			continue
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			errs = append(errs, fmt.Sprintf("product_id %s: %v", item.ProductID, err))
			continue
		}
		if n, _ := res.RowsAffected(); n == 0 {
			errs = append(errs, fmt.Sprintf("product_id %s: not found", item.ProductID))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		return 0, append(errs, fmt.Sprintf("failed to commit transaction: %v", err))
	}

	r.logger.Info().
		Str("retailer_id", retailerID).
		Int("updated", success).
		Int("failed", len(errs)).
		Msg("embeddings updated")
	return success, errs
}

// LogSearch persists one answered chat message
func (r *PostgresRepository) LogSearch(ctx context.Context, entry model.SearchLogEntry) error {
	var intent interface{}
	if entry.Intent != nil {
		raw, err := json.Marshal(entry.Intent)
		if err != nil {
			return fmt.Errorf("failed to encode intent: %w", err)
		}
		intent = string(raw)
	}

	query, args, err := r.dialect.Insert(searchLogsTable).Prepared(true).
		Rows(goqu.Record{
			"search_id":            entry.SearchID,
			"retailer_id":          entry.RetailerID,
			"query":                entry.Query,
			"intent":               intent,
			"result_count":         entry.ResultCount,
			"returned_product_ids": pq.Array(entry.ProductIDs),
			"response_time_ms":     entry.TookMs,
		}).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build search log insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// LogFeedback records the shopper action on a logged search
func (r *PostgresRepository) LogFeedback(ctx context.Context, searchID, productID, action string) error {
	query, args, err := r.dialect.Update(searchLogsTable).Prepared(true).
		Set(goqu.Record{
			"clicked_product_id": productID,
			"action":             action,
		}).
		Where(goqu.C("search_id").Eq(searchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build feedback update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	return nil
}
