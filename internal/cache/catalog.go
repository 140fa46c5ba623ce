// Package cache provides the catalog snapshot cache and the intent result store.
package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"shopassist/internal/metrics"
	"shopassist/internal/model"
)

// Clock returns the current time
type Clock func() time.Time

// CatalogSource loads a retailer's in-stock catalog
type CatalogSource interface {
	GetCandidates(ctx context.Context, retailerID string) ([]model.ProductRecord, error)
}

type catalogEntry struct {
	products  []model.ProductRecord
	fetchedAt time.Time
}

// CatalogCache keeps per-retailer catalog snapshots for a bounded time.
// Snapshots are shared between requests and must be treated as read-only.
type CatalogCache struct {
	entries *lru.Cache[string, catalogEntry]
	ttl     time.Duration
	now     Clock
}

// NewCatalogCache creates a cache holding up to size retailers. A nil clock means time.Now.
func NewCatalogCache(size int, ttl time.Duration, now Clock) (*CatalogCache, error) {
	if size <= 0 {
		size = 1
	}
	entries, err := lru.New[string, catalogEntry](size)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &CatalogCache{entries: entries, ttl: ttl, now: now}, nil
}

// Get returns the snapshot for a retailer when present and fresh
func (c *CatalogCache) Get(retailerID string) ([]model.ProductRecord, bool) {
	e, ok := c.entries.Get(retailerID)
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(e.fetchedAt) >= c.ttl {
		c.entries.Remove(retailerID)
		return nil, false
	}
	return e.products, true
}

// Put stores a snapshot, replacing any previous one
func (c *CatalogCache) Put(retailerID string, products []model.ProductRecord) {
	c.entries.Add(retailerID, catalogEntry{products: products, fetchedAt: c.now()})
}

// Invalidate drops a retailer's snapshot, e.g. after an embedding update
func (c *CatalogCache) Invalidate(retailerID string) {
	c.entries.Remove(retailerID)
}

// Len reports the number of cached retailers
func (c *CatalogCache) Len() int {
	return c.entries.Len()
}

// catalogLoadTimeout bounds a shared load that no caller can cancel
const catalogLoadTimeout = 30 * time.Second

// CachedCatalog serves GetCandidates from a CatalogCache and falls through to
// the source on a miss. Concurrent misses for one retailer share a single
// load; misses for different retailers load independently.
type CachedCatalog struct {
	source  CatalogSource
	cache   *CatalogCache
	metrics *metrics.Metrics
	loads   singleflight.Group
}

// NewCachedCatalog wraps source with cache
func NewCachedCatalog(source CatalogSource, cache *CatalogCache, m *metrics.Metrics) *CachedCatalog {
	return &CachedCatalog{source: source, cache: cache, metrics: m}
}

// GetCandidates implements the catalog read collaborator. A caller waiting on
// a load returns as soon as its own ctx is done; the load itself completes
// and fills the cache for the next request.
func (c *CachedCatalog) GetCandidates(ctx context.Context, retailerID string) ([]model.ProductRecord, error) {
	if products, ok := c.cache.Get(retailerID); ok {
		c.metrics.ObserveCatalogCache(true)
		return products, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.loads.DoChan(retailerID, func() (any, error) {
		// another load may have finished between the miss and this call
		if products, ok := c.cache.Get(retailerID); ok {
			c.metrics.ObserveCatalogCache(true)
			return products, nil
		}
		c.metrics.ObserveCatalogCache(false)

		lctx, cancel := context.WithTimeout(loadCtx, catalogLoadTimeout)
		defer cancel()
		products, err := c.source.GetCandidates(lctx, retailerID)
		if err != nil {
			return nil, err
		}
		c.cache.Put(retailerID, products)
		return products, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]model.ProductRecord), nil
	}
}

// Invalidate drops a retailer's snapshot
func (c *CachedCatalog) Invalidate(retailerID string) {
	c.cache.Invalidate(retailerID)
}
