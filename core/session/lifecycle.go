package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sessionkit/sessionkit/core/cookie"
	"github.com/sessionkit/sessionkit/core/logger"
	"github.com/sessionkit/sessionkit/core/signer"
)

// defaultNewID mints a random UUID, which satisfies the id contract: opaque,
// CSPRNG-sourced, and free of the token separator.
func defaultNewID() string {
	return uuid.NewString()
}

// Lifecycle drives session states through their transitions. The pure
// transitions (Read, Update, Replace) live on State; Lifecycle owns the ones
// with side effects: Initialize, Persist, Reload, Destroy, Regenerate and
// Touch. A Lifecycle is safe for concurrent use; individual State values are
// confined to one request's control flow.
type Lifecycle struct {
	store   Store
	secrets []string
	ttl     time.Duration
	ttlFor  func(Data) time.Duration
	newID   func() string
	seed    func() Data
	logger  *slog.Logger
}

// New validates cfg and creates a Lifecycle. Configuration problems surface
// here, once, before any request is served.
func New(cfg Config) (*Lifecycle, error) {
	if cfg.Store == nil {
		return nil, ErrMissingStore
	}
	if len(cfg.Secrets) == 0 {
		return nil, ErrMissingSecret
	}
	for _, s := range cfg.Secrets {
		if s == "" {
			return nil, ErrMissingSecret
		}
	}

	cfg = cfg.withDefaults()
	return &Lifecycle{
		store:   cfg.Store,
		secrets: cfg.Secrets,
		ttl:     cfg.TTL,
		ttlFor:  cfg.TTLFor,
		newID:   cfg.NewID,
		seed:    cfg.Seed,
		logger:  cfg.Logger,
	}, nil
}

// Initialize resolves the inbound cookie token to a session state:
//
//   - verified id with stored data: LOADED with that data
//   - verified id without stored data: NEW, keeping the verified id and
//     seeding fresh data (avoids needless cookie churn; the id was authentic)
//   - absent, malformed or forged token: NEW with a fresh id and seed data
//
// Verification failure is the normal anonymous-session path, never an error.
// Only storage I/O failures return one.
func (l *Lifecycle) Initialize(ctx context.Context, token string) (State, error) {
	id, ok := signer.Verify(token, l.secrets)
	if !ok {
		return State{id: l.newID(), status: StatusNew, data: cloneData(l.seed())}, nil
	}

	data, found, err := l.store.Get(ctx, id)
	if err != nil {
		return State{}, errors.Join(ErrStorage, err)
	}
	if !found {
		l.logger.LogAttrs(ctx, slog.LevelDebug, "verified session id has no stored data, reseeding", logger.SessionID(id))
		return State{id: id, status: StatusNew, data: cloneData(l.seed())}, nil
	}

	return State{id: id, status: StatusLoaded, data: cloneData(data)}, nil
}

// Token signs the state's id with the active secret, producing the cookie
// value for this session.
func (l *Lifecycle) Token(s State) string {
	return signer.Sign(s.id, l.secrets[0])
}

// TTLFor resolves the time-to-live for the given payload.
func (l *Lifecycle) TTLFor(data Data) time.Duration {
	if l.ttlFor != nil {
		if ttl := l.ttlFor(data); ttl > 0 {
			return ttl
		}
	}
	return l.ttl
}

// Persist writes the state's data to the store under its id.
func (l *Lifecycle) Persist(ctx context.Context, s State) error {
	if s.IsDestroyed() {
		return ErrInvalidSession
	}

	if err := l.store.Set(ctx, s.id, s.data, l.TTLFor(s.data)); err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

// Reload re-reads the state's entry from the store. A hit yields LOADED with
// the stored data; a miss keeps the id, reseeds the data and returns to NEW.
func (l *Lifecycle) Reload(ctx context.Context, s State) (State, error) {
	if s.IsDestroyed() {
		return State{}, ErrInvalidSession
	}

	data, found, err := l.store.Get(ctx, s.id)
	if err != nil {
		return State{}, errors.Join(ErrStorage, err)
	}
	if !found {
		return State{id: s.id, status: StatusNew, data: cloneData(l.seed())}, nil
	}

	return State{id: s.id, status: StatusLoaded, data: cloneData(data)}, nil
}

// Destroy removes the store entry and expires the cookie through the sink.
// The returned state is terminal: all further transitions fail with
// ErrInvalidSession.
func (l *Lifecycle) Destroy(ctx context.Context, s State, sink cookie.Sink) (State, error) {
	if s.IsDestroyed() {
		return State{}, ErrInvalidSession
	}

	if err := l.store.Destroy(ctx, s.id); err != nil {
		return State{}, errors.Join(ErrStorage, err)
	}
	if err := sink.Expire(); err != nil {
		return State{}, errors.Join(ErrCookie, err)
	}

	return State{id: s.id, status: StatusDestroyed}, nil
}

// Regenerate mints a new id, carries the data forward, and issues a fresh
// signed cookie. The new entry is persisted BEFORE the old one is deleted so
// a persistence failure cannot lose the session. Use at privilege boundaries
// (e.g. right after login) to defeat session fixation.
func (l *Lifecycle) Regenerate(ctx context.Context, s State, sink cookie.Sink) (State, error) {
	if s.IsDestroyed() {
		return State{}, ErrInvalidSession
	}

	next := State{id: l.newID(), status: StatusLoaded, data: cloneData(s.data)}

	if err := l.store.Set(ctx, next.id, next.data, l.TTLFor(next.data)); err != nil {
		return State{}, errors.Join(ErrStorage, err)
	}
	if err := l.store.Destroy(ctx, s.id); err != nil {
		return State{}, errors.Join(ErrStorage, err)
	}
	if err := sink.Refresh(l.Token(next)); err != nil {
		return State{}, errors.Join(ErrCookie, err)
	}

	return next, nil
}

// Touch refreshes the entry's TTL, using the store's native Touch when
// available and a full rewrite otherwise. Callers may treat a Touch failure
// as non-fatal.
func (l *Lifecycle) Touch(ctx context.Context, s State) error {
	if s.IsDestroyed() {
		return ErrInvalidSession
	}

	ttl := l.TTLFor(s.data)
	if ts, ok := l.store.(TouchStore); ok {
		if err := ts.Touch(ctx, s.id, ttl); err != nil {
			return errors.Join(ErrStorage, err)
		}
		return nil
	}

	if err := l.store.Set(ctx, s.id, s.data, ttl); err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}
