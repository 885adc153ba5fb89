// Package bbolt provides a file-backed session store on a BBolt database,
// suitable for single-node deployments that need sessions to survive
// restarts without running Redis.
//
// Entries carry their expiry timestamp in the stored record; expired entries
// read as absent and are reclaimed lazily or by Cleanup.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/sessionkit/sessionkit/core/session"
)

var bucketName = []byte("sessions")

type record struct {
	Data      session.Data `json:"data"`
	ExpiresAt time.Time    `json:"expires_at,omitzero"`
}

func (r record) expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

// Store implements the session store contract backed by a BBolt database.
type Store struct {
	db *bbolt.DB
}

var (
	_ session.Store            = (*Store)(nil)
	_ session.TouchStore       = (*Store)(nil)
	_ session.InspectableStore = (*Store)(nil)
)

// NewStore wraps an already opened BBolt database, creating the sessions
// bucket if needed.
func NewStore(db *bbolt.DB) (*Store, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating sessions bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// New opens a BBolt database at path and returns a ready session store.
func New(path string, options *bbolt.Options) (*Store, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewStore(db)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the live entry under id. Expired entries read as absent and
// are removed on the spot.
func (s *Store) Get(ctx context.Context, id string) (session.Data, bool, error) {
	var rec record
	found := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketName).Get([]byte(id))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("decode session %s: %w", id, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if !found {
		return nil, false, nil
	}
	if rec.expired(time.Now()) {
		// Reclaim eagerly so introspection stays honest.
		if err := s.Destroy(ctx, id); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}

	return rec.Data, true, nil
}

// Set writes data under id. A non-positive ttl stores the entry without
// expiry.
func (s *Store) Set(ctx context.Context, id string, data session.Data, ttl time.Duration) error {
	rec := record{Data: data}
	if ttl > 0 {
		rec.ExpiresAt = time.Now().Add(ttl)
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(id), raw)
	})
}

// Destroy removes the entry under id. Removing an absent id is a no-op.
func (s *Store) Destroy(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(id))
	})
}

// Touch rewrites the entry's expiry without changing its data. Touching an
// absent or expired entry is a no-op.
func (s *Store) Touch(ctx context.Context, id string, ttl time.Duration) error {
	now := time.Now()

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		raw := b.Get([]byte(id))
		if raw == nil {
			return nil
		}

		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("decode session %s: %w", id, err)
		}
		if rec.expired(now) {
			return nil
		}

		if ttl > 0 {
			rec.ExpiresAt = now.Add(ttl)
		} else {
			rec.ExpiresAt = time.Time{}
		}

		updated, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode session %s: %w", id, err)
		}
		return b.Put([]byte(id), updated)
	})
}

// All returns a snapshot of every live session keyed by id.
func (s *Store) All(ctx context.Context) (map[string]session.Data, error) {
	now := time.Now()
	out := make(map[string]session.Data)

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(k, v []byte) error {
			var rec record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode session %s: %w", k, err)
			}
			if !rec.expired(now) {
				out[string(k)] = rec.Data
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Len returns the number of live sessions.
func (s *Store) Len(ctx context.Context) (int, error) {
	all, err := s.All(ctx)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

// Cleanup removes expired entries and returns the count of removed sessions.
func (s *Store) Cleanup(ctx context.Context) (int, error) {
	now := time.Now()
	removed := 0

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var rec record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode session %s: %w", k, err)
			}
			if rec.expired(now) {
				if err := c.Delete(); err != nil {
					return err
				}
				removed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
