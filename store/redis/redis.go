// Package redis provides a Redis-backed session store.
//
// Session payloads are stored as JSON strings under prefixed keys with native
// Redis TTLs, so expiry needs no sweeper. The package also carries the
// connection bootstrap: Connect validates the URL, retries the initial ping
// and verifies reachability before returning a client, and Healthcheck
// produces a probe for readiness endpoints.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sessionkit/sessionkit/core/session"
)

// Store is a Redis-backed session store.
type Store struct {
	client        *redis.Client
	prefix        string
	scanBatchSize int
}

var (
	_ session.Store            = (*Store)(nil)
	_ session.TouchStore       = (*Store)(nil)
	_ session.InspectableStore = (*Store)(nil)
)

// NewStore creates a session store on an existing client. The prefix
// namespaces session keys; scanBatchSize tunes SCAN-based introspection.
func NewStore(client *redis.Client, prefix string, scanBatchSize int) *Store {
	if prefix == "" {
		prefix = "session:"
	}
	if scanBatchSize <= 0 {
		scanBatchSize = 1000
	}
	return &Store{client: client, prefix: prefix, scanBatchSize: scanBatchSize}
}

// New connects to Redis per cfg and returns a ready session store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewStore(client, cfg.KeyPrefix, cfg.ScanBatchSize), nil
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

// Get returns the data stored under id. A missing or expired key reads as
// absent, never as an error.
func (s *Store) Get(ctx context.Context, id string) (session.Data, bool, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var data session.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return data, true, nil
}

// Set writes data under id with a native Redis TTL.
func (s *Store) Set(ctx context.Context, id string, data session.Data, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	return s.client.Set(ctx, s.key(id), raw, ttl).Err()
}

// Destroy removes the entry under id. Removing an absent key is a no-op.
func (s *Store) Destroy(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Touch refreshes the key's TTL without rewriting the payload. Touching an
// absent key is a no-op.
func (s *Store) Touch(ctx context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return s.client.Persist(ctx, s.key(id)).Err()
	}
	return s.client.Expire(ctx, s.key(id), ttl).Err()
}

// All returns every live session keyed by id, scanning in batches to avoid
// blocking Redis on large keyspaces.
func (s *Store) All(ctx context.Context) (map[string]session.Data, error) {
	out := make(map[string]session.Data)

	iter := s.client.Scan(ctx, 0, s.prefix+"*", int64(s.scanBatchSize)).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		id := key[len(s.prefix):]

		data, found, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if found {
			out[id] = data
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Len returns the number of live sessions.
func (s *Store) Len(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, s.prefix+"*", int64(s.scanBatchSize)).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	return n, nil
}

// Close releases the underlying client connection.
func (s *Store) Close() error {
	return s.client.Close()
}
