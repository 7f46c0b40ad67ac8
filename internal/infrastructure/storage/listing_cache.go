package storage

import (
	"context"
	"sync"
	"time"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
	"github.com/liveplace/liveplace-bot/internal/domain/repository"
	"github.com/liveplace/liveplace-bot/pkg/logger"
)

const defaultListingTTL = 120 * time.Second

// ListingCache holds the latest listing snapshot in front of the sheet
// source. The snapshot is replaced wholesale on refresh; readers get the
// shared slice and must not mutate it. Source failures degrade to the
// previous snapshot (or an empty list) and are never surfaced to callers.
type ListingCache struct {
	src repository.ListingProvider
	ttl time.Duration

	mu        sync.RWMutex
	rows      []entity.Listing
	fetchedAt time.Time
}

// NewListingCache builds a cache over a listing source.
func NewListingCache(src repository.ListingProvider, ttl time.Duration) *ListingCache {
	if ttl <= 0 {
		ttl = defaultListingTTL
	}
	return &ListingCache{src: src, ttl: ttl}
}

// Get returns the current snapshot, refreshing it first when forced, empty
// or older than the TTL.
func (c *ListingCache) Get(ctx context.Context, force bool) []entity.Listing {
	c.mu.RLock()
	rows, fetchedAt := c.rows, c.fetchedAt
	c.mu.RUnlock()

	if !force && rows != nil && time.Since(fetchedAt) < c.ttl {
		return rows
	}
	return c.refresh(ctx, rows)
}

func (c *ListingCache) refresh(ctx context.Context, stale []entity.Listing) []entity.Listing {
	if c.src == nil {
		return stale
	}
	fresh, err := c.src.Load(ctx)
	if err != nil {
		logger.ErrorLogger.Printf("❌ Failed to load rows from Sheets: %v", err)
		if stale == nil {
			return []entity.Listing{}
		}
		return stale
	}

	c.mu.Lock()
	c.rows = fresh
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	logger.InfoLogger.Printf("📦 Cache updated: %d rows", len(fresh))
	return fresh
}

// Size returns the number of cached rows.
func (c *ListingCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}

// Age returns the time since the last successful fetch.
func (c *ListingCache) Age() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetchedAt.IsZero() {
		return 0
	}
	return time.Since(c.fetchedAt)
}

// AutoRefresh re-fetches the snapshot every TTL until the context ends.
func (c *ListingCache) AutoRefresh(ctx context.Context) {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.InfoLogger.Println("🔄 Auto-refresh: loading data from Google Sheets...")
			rows := c.Get(ctx, true)
			logger.InfoLogger.Printf("✅ Auto-refresh complete: %d rows in cache", len(rows))
		}
	}
}

// Heartbeat logs a liveness line every interval until the context ends.
func (c *ListingCache) Heartbeat(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.InfoLogger.Printf("💓 Heartbeat OK | Cache: %d rows | Age: %ds",
				c.Size(), int(c.Age().Seconds()))
		}
	}
}
