// Package postgres provides a PostgreSQL-backed session store on pgx.
//
// Payloads live in a jsonb column; expiry is an expires_at timestamp filtered
// on every read, so a stale row is invisible the instant it lapses. Run
// DeleteExpired periodically to reclaim storage; correctness does not depend
// on the sweep.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sessionkit/sessionkit/core/session"
)

// Schema is the sessions table DDL applied by Migrate. The %s placeholder is
// the table name.
const Schema = `
CREATE TABLE IF NOT EXISTS %s (
	id         text PRIMARY KEY,
	data       jsonb NOT NULL DEFAULT '{}'::jsonb,
	expires_at timestamptz,
	updated_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS %s_expires_at_idx ON %s (expires_at);
`

// Store is a PostgreSQL-backed session store.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

var (
	_ session.Store            = (*Store)(nil)
	_ session.TouchStore       = (*Store)(nil)
	_ session.InspectableStore = (*Store)(nil)
)

// NewStore creates a session store on an existing pool.
func NewStore(pool *pgxpool.Pool, table string) *Store {
	if table == "" {
		table = "sessions"
	}
	return &Store{pool: pool, table: table}
}

// New connects to PostgreSQL per cfg, applies the schema and returns a ready
// session store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := NewStore(pool, cfg.Table)
	if err := store.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// Migrate applies the sessions table schema. Idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(Schema, s.table, s.table, s.table))
	if err != nil {
		return fmt.Errorf("migrate sessions table %s: %w", s.table, err)
	}
	return nil
}

// Get returns the live row under id; rows past expires_at read as absent.
func (s *Store) Get(ctx context.Context, id string) (session.Data, bool, error) {
	var raw []byte
	query := fmt.Sprintf(
		`SELECT data FROM %s WHERE id = $1 AND (expires_at IS NULL OR expires_at > now())`, s.table)

	err := s.pool.QueryRow(ctx, query, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
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

// Set upserts the row under id. A non-positive ttl stores it without expiry.
func (s *Store) Set(ctx context.Context, id string, data session.Data, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}

	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, data, expires_at, updated_at) VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET data = $2, expires_at = $3, updated_at = now()`, s.table)

	_, err = s.pool.Exec(ctx, query, id, raw, expiresAt)
	return err
}

// Destroy removes the row under id. Removing an absent row is a no-op.
func (s *Store) Destroy(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table), id)
	return err
}

// Touch pushes out expires_at without rewriting the payload. Touching an
// absent or expired row is a no-op.
func (s *Store) Touch(ctx context.Context, id string, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}

	query := fmt.Sprintf(`
		UPDATE %s SET expires_at = $2, updated_at = now()
		WHERE id = $1 AND (expires_at IS NULL OR expires_at > now())`, s.table)

	_, err := s.pool.Exec(ctx, query, id, expiresAt)
	return err
}

// All returns every live session keyed by id.
func (s *Store) All(ctx context.Context) (map[string]session.Data, error) {
	query := fmt.Sprintf(
		`SELECT id, data FROM %s WHERE expires_at IS NULL OR expires_at > now()`, s.table)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]session.Data)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}

		var data session.Data
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", id, err)
		}
		out[id] = data
	}
	return out, rows.Err()
}

// Len returns the number of live sessions.
func (s *Store) Len(ctx context.Context) (int, error) {
	query := fmt.Sprintf(
		`SELECT count(*) FROM %s WHERE expires_at IS NULL OR expires_at > now()`, s.table)

	var n int
	if err := s.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteExpired removes lapsed rows and returns the count of deleted sessions.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE expires_at IS NOT NULL AND expires_at <= now()`, s.table))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
