package cookie

import (
	"errors"
	"net/http"
	"time"
)

// MaxCookieSize is the maximum size for a serialized cookie header (4KB).
const MaxCookieSize = 4096

// Sink is the outbound half of cookie transport. The session lifecycle calls
// Refresh whenever the session id or cookie attributes change and Expire when
// the session is destroyed. Implementations are request-scoped.
type Sink interface {
	// Refresh writes the signed token as the cookie value with the sink's
	// configured attributes.
	Refresh(token string) error

	// Expire overwrites the cookie with an immediately expiring one,
	// instructing the client to drop it.
	Expire() error
}

// ResponseSink writes session cookies to an http.ResponseWriter.
type ResponseSink struct {
	w       http.ResponseWriter
	name    string
	opts    Options
	maxSize int
}

// NewResponseSink creates a sink bound to a single response.
func NewResponseSink(w http.ResponseWriter, name string, opts Options) *ResponseSink {
	return &ResponseSink{
		w:       w,
		name:    name,
		opts:    opts,
		maxSize: MaxCookieSize,
	}
}

// Refresh writes the signed token with the configured attributes.
func (s *ResponseSink) Refresh(token string) error {
	c := &http.Cookie{
		Name:     s.name,
		Value:    token,
		Path:     s.opts.Path,
		Domain:   s.opts.Domain,
		MaxAge:   s.opts.MaxAge,
		Secure:   s.opts.Secure,
		HttpOnly: s.opts.HttpOnly,
		SameSite: s.opts.SameSite,
	}

	if err := c.Valid(); err != nil {
		return errors.Join(ErrInvalidCookie, err)
	}

	header := c.String()
	if len(header) > s.maxSize {
		return ErrCookieTooLarge{Name: s.name, Size: len(header), Max: s.maxSize}
	}

	http.SetCookie(s.w, c)
	return nil
}

// Expire writes an empty cookie with MaxAge -1 and an epoch Expires timestamp,
// the portable way to make clients discard the cookie immediately.
func (s *ResponseSink) Expire() error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     s.opts.Path,
		Domain:   s.opts.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   s.opts.Secure,
		HttpOnly: s.opts.HttpOnly,
		SameSite: s.opts.SameSite,
	})
	return nil
}

// Token extracts the raw session token from the inbound cookie header.
// Returns false when the request carries no cookie under name.
func Token(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
