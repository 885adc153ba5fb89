package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sessionkit/sessionkit/core/cookie"
	"github.com/sessionkit/sessionkit/core/logger"
	"github.com/sessionkit/sessionkit/core/session"
)

type sessionKey struct{}

// Middleware orchestrates the session lifecycle for each request: cookie
// extraction, verification, state initialization, request-scoped API
// exposure, and end-of-request persistence with cookie refresh.
type Middleware struct {
	lc     *session.Lifecycle
	name   string
	opts   cookie.Options
	logger *slog.Logger
}

// New validates cfg and creates the middleware. Missing store or secrets
// surface here, once, before any request is served.
func New(cfg Config) (*Middleware, error) {
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}

	lc, err := session.New(session.Config{
		Store:   cfg.Store,
		Secrets: cfg.Secrets,
		TTL:     cfg.TTL,
		TTLFor:  cfg.TTLFor,
		Seed:    cfg.Generate,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		name = DefaultCookieName
	}

	return &Middleware{
		lc:     lc,
		name:   name,
		opts:   cookie.Apply(cookie.Defaults(), cfg.CookieOptions),
		logger: cfg.Logger,
	}, nil
}

// Handler wraps next with session management. It is idempotent: a request
// that already carries a session handle passes through untouched.
//
// The session is committed lazily, immediately before the first byte of the
// response, so Set-Cookie headers always make it out. Handlers that need the
// session persisted earlier call Handle.Save explicitly.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}

		token, _ := cookie.Token(r, m.name)
		state, err := m.lc.Initialize(r.Context(), token)
		if err != nil {
			m.logger.ErrorContext(r.Context(), "session initialization failed", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		h := &Handle{mw: m, w: w, state: state}
		sw := &sessionWriter{ResponseWriter: w, handle: h, ctx: r.Context()}
		h.w = sw

		next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), sessionKey{}, h)))

		// Handlers that produce no body still need their session committed.
		sw.commit()
	})
}

// FromContext retrieves the request's session handle.
func FromContext(ctx context.Context) (*Handle, bool) {
	h, ok := ctx.Value(sessionKey{}).(*Handle)
	return h, ok
}

// MustFromContext retrieves the session handle or panics. Use in handlers
// that are guaranteed to run behind the middleware.
func MustFromContext(ctx context.Context) *Handle {
	h, ok := FromContext(ctx)
	if !ok {
		panic("session handle not found in context")
	}
	return h
}

// sessionWriter defers session persistence until the response is about to be
// written, keeping Set-Cookie ahead of the first body byte.
type sessionWriter struct {
	http.ResponseWriter
	handle    *Handle
	ctx       context.Context
	committed bool
}

func (w *sessionWriter) WriteHeader(code int) {
	w.commit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

// Unwrap supports http.ResponseController passthrough.
func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *sessionWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true

	if err := w.handle.commit(w.ctx); err != nil {
		w.handle.mw.logger.ErrorContext(w.ctx, "session commit failed", logger.Error(err))
		http.Error(w.ResponseWriter, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Handle is the request-scoped session API. It is confined to one request's
// control flow and is not safe for concurrent use.
type Handle struct {
	mw        *Middleware
	w         http.ResponseWriter
	state     session.State
	dirty     bool
	persisted bool
	cookieSet bool
}

// ID returns the active session id.
func (h *Handle) ID() string {
	return h.state.ID()
}

// State returns the current immutable session snapshot.
func (h *Handle) State() session.State {
	return h.state
}

// Get returns a copy of the session data.
func (h *Handle) Get() session.Data {
	return h.state.Read()
}

// Update shallow-merges the updater's change set into the session data.
// The write lands in the store at commit time, or earlier via Save.
func (h *Handle) Update(fn session.Updater) error {
	next, err := h.state.Update(fn)
	if err != nil {
		return err
	}
	h.state = next
	h.dirty = true
	return nil
}

// Replace swaps the session data wholesale.
func (h *Handle) Replace(data session.Data) error {
	next, err := h.state.Replace(data)
	if err != nil {
		return err
	}
	h.state = next
	h.dirty = true
	return nil
}

// Save persists the session and refreshes the cookie immediately instead of
// waiting for the response commit.
func (h *Handle) Save(ctx context.Context) error {
	if err := h.mw.lc.Persist(ctx, h.state); err != nil {
		return err
	}
	h.dirty = false
	h.persisted = true

	if err := h.refreshCookie(); err != nil {
		return err
	}
	return nil
}

// Reload re-reads the session from the store, discarding unpersisted changes.
func (h *Handle) Reload(ctx context.Context) error {
	next, err := h.mw.lc.Reload(ctx, h.state)
	if err != nil {
		return err
	}
	h.state = next
	h.dirty = false
	return nil
}

// Destroy deletes the store entry and expires the cookie. The handle is
// terminal afterwards; any further call fails with session.ErrInvalidSession.
func (h *Handle) Destroy(ctx context.Context) error {
	next, err := h.mw.lc.Destroy(ctx, h.state, h.sink())
	if err != nil {
		return err
	}
	h.state = next
	h.dirty = false
	h.cookieSet = true
	return nil
}

// Regenerate swaps the session id keeping the data, persists the new entry
// before removing the old one, and issues a fresh signed cookie. Call at
// privilege boundaries (e.g. right after login) to defeat session fixation.
func (h *Handle) Regenerate(ctx context.Context) error {
	next, err := h.mw.lc.Regenerate(ctx, h.state, h.sink())
	if err != nil {
		return err
	}
	h.state = next
	h.dirty = false
	h.persisted = true
	h.cookieSet = true
	return nil
}

// commit flushes the session at response time: new or modified sessions are
// persisted and get a fresh cookie; loaded, untouched sessions get a
// best-effort TTL refresh that never fails the request.
func (h *Handle) commit(ctx context.Context) error {
	if h.state.IsDestroyed() {
		return nil
	}

	if h.dirty || (h.state.IsNew() && !h.persisted) {
		if err := h.mw.lc.Persist(ctx, h.state); err != nil {
			return err
		}
		h.dirty = false
		h.persisted = true
		return h.refreshCookie()
	}

	if h.state.IsLoaded() {
		if err := h.mw.lc.Touch(ctx, h.state); err != nil {
			h.mw.logger.WarnContext(ctx, "session touch failed",
				logger.SessionID(h.state.ID()), logger.Error(err))
		}
	}
	return nil
}

func (h *Handle) sink() cookie.Sink {
	return cookie.NewResponseSink(h.w, h.mw.name, h.cookieOptions())
}

func (h *Handle) refreshCookie() error {
	if h.cookieSet {
		return nil
	}
	if err := h.sink().Refresh(h.mw.lc.Token(h.state)); err != nil {
		return err
	}
	h.cookieSet = true
	return nil
}

// cookieOptions derives the outbound attribute set, keeping Max-Age in step
// with the store TTL unless the configuration pins it.
func (h *Handle) cookieOptions() cookie.Options {
	opts := h.mw.opts
	if opts.MaxAge == 0 {
		opts.MaxAge = int(h.mw.lc.TTLFor(h.state.Read()).Seconds())
	}
	return opts
}
