// Package cache provides a small read-through TTL cache for derived tables
// that are expensive to rebuild but tolerate short staleness.
package cache

import (
	"context"
	"sync"
	"time"
)

// Clock returns the current time. Injectable for tests.
type Clock func() time.Time

// Store is a keyed read-through cache. Loaders run outside the lock, so a
// refresh does not block concurrent readers; if two goroutines refresh the
// same key the last writer wins, which is acceptable for the derived tables
// cached here.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     Clock
}

type entry struct {
	value     any
	expiresAt time.Time
}

// New creates a Store. A nil clock defaults to time.Now.
func New(now Clock) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{entries: make(map[string]entry), now: now}
}

// GetOrRefresh returns the cached value for key if it has not expired,
// otherwise calls loader and caches the result for ttl. A loader error is
// returned as-is and nothing is cached.
func (s *Store) GetOrRefresh(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) (any, error)) (any, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if ok && s.now().Before(e.expiresAt) {
		return e.value, nil
	}

	value, err := loader(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return value, nil
}

// Invalidate drops one key. Used after writes that make a cached derivation
// stale beyond doubt (e.g. re-importing the external statistics table).
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}
