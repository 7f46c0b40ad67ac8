package storage

import (
	"testing"
	"time"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
)

func TestMemorySessionStoreRoundTrip(t *testing.T) {
	store := NewMemorySessionStore(0)

	if _, ok := store.Get(42); ok {
		t.Fatal("expected no session before Put")
	}

	store.Put(entity.NewSession(42, "ru"))
	sess, ok := store.Get(42)
	if !ok {
		t.Fatal("expected session after Put")
	}
	if sess.Lang != "ru" || sess.UserID != 42 {
		t.Errorf("unexpected session: %+v", sess)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 session, got %d", store.Len())
	}
}

func TestMemorySessionStoreEvictsIdle(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)

	stale := entity.NewSession(1, "ru")
	store.Put(stale)
	stale.LastSeen = time.Now().Add(-2 * time.Hour)

	fresh := entity.NewSession(2, "en")
	store.Put(fresh)

	store.evictIdle()

	if _, ok := store.Get(1); ok {
		t.Error("expected idle session to be evicted")
	}
	if _, ok := store.Get(2); !ok {
		t.Error("expected fresh session to survive")
	}
}
