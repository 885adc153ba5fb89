package session

import (
	"log/slog"
	"time"

	"github.com/sessionkit/sessionkit/core/logger"
)

// DefaultTTL is the fallback idle lifetime for stored sessions.
const DefaultTTL = 24 * time.Hour

// Config holds lifecycle configuration. Store and at least one secret are
// required; everything else has working defaults. Secrets and store are
// process-wide and immutable once serving begins.
type Config struct {
	// Store is the persistence backend (required).
	Store Store

	// Secrets is the ordered secret set. Index 0 signs new tokens; all
	// entries are tried during verification, enabling key rotation.
	Secrets []string

	// TTL is the fixed time-to-live for stored entries (default DefaultTTL).
	TTL time.Duration

	// TTLFor, when set, derives the TTL from the data being stored and takes
	// precedence over TTL. Useful for giving anonymous sessions a shorter
	// lifetime than authenticated ones.
	TTLFor func(Data) time.Duration

	// NewID mints session identifiers (default: random UUID). Identifiers
	// must not contain the token separator ".".
	NewID func() string

	// Seed produces the initial data for newly generated sessions
	// (default: empty map).
	Seed func() Data

	// Logger for structured logging (default: slog with io.Discard).
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.NewID == nil {
		c.NewID = defaultNewID
	}
	if c.Seed == nil {
		c.Seed = func() Data { return Data{} }
	}
	if c.Logger == nil {
		c.Logger = logger.Discard()
	}
	return c
}
