// Package memory provides the reference in-memory session store backend.
//
// It implements the full store contract including TTL refresh and
// introspection, making it the default backend for tests and single-process
// deployments. Entries expire lazily on access; call Cleanup periodically (or
// run Run in a goroutine) to reclaim memory from sessions that are never
// touched again.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/sessionkit/sessionkit/core/session"
)

type entry struct {
	data      session.Data
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Store is a thread-safe in-memory session store.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

var (
	_ session.Store            = (*Store)(nil)
	_ session.TouchStore       = (*Store)(nil)
	_ session.InspectableStore = (*Store)(nil)
)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{entries: make(map[string]entry)}
}

// Get returns the live entry under id. Expired entries are treated as absent
// and reclaimed.
func (s *Store) Get(ctx context.Context, id string) (session.Data, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if e.expired(time.Now()) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return nil, false, nil
	}

	return maps.Clone(e.data), true, nil
}

// Set writes data under id. A non-positive ttl stores the entry without
// expiry.
func (s *Store) Set(ctx context.Context, id string, data session.Data, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[id] = entry{data: maps.Clone(data), expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}

// Destroy removes the entry under id. Destroying an absent id is a no-op.
func (s *Store) Destroy(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// Touch refreshes the TTL of a live entry without rewriting its data.
// Touching an absent or expired entry is a no-op.
func (s *Store) Touch(ctx context.Context, id string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.expired(time.Now()) {
		return nil
	}

	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	} else {
		e.expiresAt = time.Time{}
	}
	s.entries[id] = e
	return nil
}

// All returns a snapshot of every live session keyed by id.
func (s *Store) All(ctx context.Context) (map[string]session.Data, error) {
	now := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]session.Data, len(s.entries))
	for id, e := range s.entries {
		if e.expired(now) {
			continue
		}
		out[id] = maps.Clone(e.data)
	}
	return out, nil
}

// Len returns the number of live sessions.
func (s *Store) Len(ctx context.Context) (int, error) {
	now := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.entries {
		if !e.expired(now) {
			n++
		}
	}
	return n, nil
}

// Cleanup removes expired entries and returns the count of removed sessions.
func (s *Store) Cleanup() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired entries every interval until ctx is cancelled. Blocking;
// run it in a goroutine or under an errgroup.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Cleanup()
		}
	}
}
