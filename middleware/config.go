package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sessionkit/sessionkit/core/cookie"
	"github.com/sessionkit/sessionkit/core/session"
)

// DefaultCookieName is the session cookie name used when none is configured.
const DefaultCookieName = "connect.sid"

// Config holds session middleware configuration. Store and Secrets are
// required; everything else has working defaults.
type Config struct {
	// Store is the session persistence backend (required).
	Store session.Store

	// Secrets is the ordered signing secret set: index 0 signs, all verify.
	// Use Secret for the single-secret case.
	Secrets []string

	// Name is the session cookie name (default "connect.sid").
	Name string

	// TTL is the fixed session lifetime (default session.DefaultTTL).
	TTL time.Duration

	// TTLFor derives the lifetime from the session data and takes precedence
	// over TTL when set.
	TTLFor func(session.Data) time.Duration

	// Generate produces seed data for newly created sessions.
	Generate func() session.Data

	// CookieOptions override the outbound cookie attributes (path, domain,
	// secure, http-only, same-site, max-age).
	CookieOptions []cookie.Option

	// Logger for structured logging (default: slog with io.Discard).
	Logger *slog.Logger
}

// Secret returns a single-element secret set, for configs with no rotation.
func Secret(secret string) []string {
	if secret == "" {
		return nil
	}
	return []string{secret}
}

// EnvConfig provides environment-based middleware configuration.
type EnvConfig struct {
	// Secrets holds comma-separated signing secrets, newest first.
	Secrets string `env:"SESSION_SECRETS,required"`

	Name string        `env:"SESSION_COOKIE_NAME" envDefault:"connect.sid"`
	TTL  time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	CookiePath     string        `env:"SESSION_COOKIE_PATH" envDefault:"/"`
	CookieDomain   string        `env:"SESSION_COOKIE_DOMAIN" envDefault:""`
	CookieSecure   bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	CookieHTTPOnly bool          `env:"SESSION_COOKIE_HTTP_ONLY" envDefault:"true"`
	CookieSameSite http.SameSite `env:"SESSION_COOKIE_SAME_SITE" envDefault:"2"` // SameSiteLaxMode
}

// parseSecrets splits comma-separated secrets for key rotation support.
// Empty segments are filtered out.
func (c EnvConfig) parseSecrets() []string {
	parts := strings.Split(c.Secrets, ",")
	secrets := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			secrets = append(secrets, s)
		}
	}
	return secrets
}

// NewFromConfig creates the middleware from environment configuration. The
// store must be provided by the caller.
func NewFromConfig(cfg EnvConfig, store session.Store, logger *slog.Logger) (*Middleware, error) {
	return New(Config{
		Store:   store,
		Secrets: cfg.parseSecrets(),
		Name:    cfg.Name,
		TTL:     cfg.TTL,
		CookieOptions: []cookie.Option{
			cookie.WithPath(cfg.CookiePath),
			cookie.WithDomain(cfg.CookieDomain),
			cookie.WithSecure(cfg.CookieSecure),
			cookie.WithHTTPOnly(cfg.CookieHTTPOnly),
			cookie.WithSameSite(cfg.CookieSameSite),
		},
		Logger: logger,
	})
}
