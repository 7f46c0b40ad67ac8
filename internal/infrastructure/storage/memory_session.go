package storage

import (
	"context"
	"sync"
	"time"

	"github.com/liveplace/liveplace-bot/internal/domain/entity"
	"github.com/liveplace/liveplace-bot/pkg/logger"
)

// MemorySessionStore keeps sessions in a mutex-guarded map. With a zero TTL
// sessions live for the process lifetime; a positive TTL enables periodic
// eviction of idle sessions via Cleanup.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*entity.Session
	ttl      time.Duration
}

// NewMemorySessionStore builds an in-memory session store.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[int64]*entity.Session),
		ttl:      ttl,
	}
}

// Get returns the session for a user, if present, touching its LastSeen.
func (s *MemorySessionStore) Get(userID int64) (*entity.Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		sess.LastSeen = time.Now()
	}
	return sess, ok
}

// Put stores (or replaces) a session.
func (s *MemorySessionStore) Put(sess *entity.Session) {
	if sess == nil {
		return
	}
	sess.LastSeen = time.Now()
	s.mu.Lock()
	s.sessions[sess.UserID] = sess
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup evicts idle sessions every ttl until the context ends. No-op when
// the store was built without a TTL.
func (s *MemorySessionStore) Cleanup(ctx context.Context) {
	if s.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictIdle()
		}
	}
}

func (s *MemorySessionStore) evictIdle() {
	cutoff := time.Now().Add(-s.ttl)
	var evicted int
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.LastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	s.mu.Unlock()
	if evicted > 0 {
		logger.InfoLogger.Printf("🧹 Evicted %d idle sessions", evicted)
	}
}
