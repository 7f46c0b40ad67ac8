package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
)

type stubProvider struct {
	rows  []entity.Listing
	err   error
	calls int
}

func (p *stubProvider) Load(ctx context.Context) ([]entity.Listing, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.rows, nil
}

func TestListingCacheServesSnapshotWithinTTL(t *testing.T) {
	src := &stubProvider{rows: []entity.Listing{{City: "Tbilisi"}}}
	cache := NewListingCache(src, time.Minute)

	first := cache.Get(context.Background(), false)
	second := cache.Get(context.Background(), false)

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected 1 row, got %d and %d", len(first), len(second))
	}
	if src.calls != 1 {
		t.Errorf("expected a single fetch within TTL, got %d", src.calls)
	}
}

func TestListingCacheForceRefetches(t *testing.T) {
	src := &stubProvider{rows: []entity.Listing{{City: "Tbilisi"}}}
	cache := NewListingCache(src, time.Minute)

	cache.Get(context.Background(), false)
	src.rows = append(src.rows, entity.Listing{City: "Batumi"})
	rows := cache.Get(context.Background(), true)

	if len(rows) != 2 {
		t.Fatalf("expected forced refresh to see 2 rows, got %d", len(rows))
	}
	if src.calls != 2 {
		t.Errorf("expected 2 fetches, got %d", src.calls)
	}
}

func TestListingCacheDegradesToStaleOnError(t *testing.T) {
	src := &stubProvider{rows: []entity.Listing{{City: "Tbilisi"}}}
	cache := NewListingCache(src, time.Minute)

	cache.Get(context.Background(), false)
	src.err = errors.New("sheets unreachable")

	rows := cache.Get(context.Background(), true)
	if len(rows) != 1 || rows[0].City != "Tbilisi" {
		t.Fatalf("expected stale snapshot on error, got %v", rows)
	}
}

func TestListingCacheEmptyOnFirstError(t *testing.T) {
	src := &stubProvider{err: errors.New("no credentials")}
	cache := NewListingCache(src, time.Minute)

	rows := cache.Get(context.Background(), false)
	if rows == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}
