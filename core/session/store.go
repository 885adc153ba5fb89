package session

import (
	"context"
	"time"
)

// Store defines the persistence contract consumed by the lifecycle: a minimal
// key/value interface with per-entry TTL. Implementations must handle
// concurrent access safely and must copy the data they receive rather than
// retain the caller's map. Every operation must be independently safe to
// retry; two writers racing on the same id resolve last-write-wins.
type Store interface {
	// Get returns the data stored under id. The second result is false when
	// no live entry exists; that is a normal outcome, not an error.
	Get(ctx context.Context, id string) (Data, bool, error)

	// Set writes data under id with the given time-to-live.
	Set(ctx context.Context, id string, data Data, ttl time.Duration) error

	// Destroy removes the entry under id. Destroying an absent id is a no-op.
	Destroy(ctx context.Context, id string) error
}

// TouchStore is an optional extension for backends that can refresh an
// entry's TTL without rewriting its data.
type TouchStore interface {
	Touch(ctx context.Context, id string, ttl time.Duration) error
}

// InspectableStore is an optional extension for backends that support
// enumeration, used for diagnostics and tests.
type InspectableStore interface {
	All(ctx context.Context) (map[string]Data, error)
	Len(ctx context.Context) (int, error)
}
