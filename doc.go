// Package sessionkit provides cookie-backed HTTP session management with
// signed session ids, an immutable lifecycle state machine, and pluggable
// storage backends.
//
// # Package Organization
//
//   - Core: signing, cookie handling, and the session lifecycle
//   - Middleware: net/http integration
//   - Stores: persistence backends implementing the session.Store contract
//
// # Core Packages
//
//   - github.com/sessionkit/sessionkit/core/signer - HMAC-SHA256 token
//     signing and verification with secret rotation
//   - github.com/sessionkit/sessionkit/core/cookie - outbound cookie sink
//     and inbound token extraction
//   - github.com/sessionkit/sessionkit/core/session - immutable session
//     states, lifecycle transitions, and the Store contract
//   - github.com/sessionkit/sessionkit/core/logger - shared slog attribute
//     helpers
//
// # Middleware
//
//   - github.com/sessionkit/sessionkit/middleware - net/http session
//     middleware with lazy end-of-request persistence
//
// # Stores
//
//   - github.com/sessionkit/sessionkit/store/memory - in-memory reference
//     backend with optional background cleanup
//   - github.com/sessionkit/sessionkit/store/redis - Redis backend with
//     native TTL handling
//   - github.com/sessionkit/sessionkit/store/postgres - PostgreSQL backend
//     on pgx with jsonb payloads
//   - github.com/sessionkit/sessionkit/store/bbolt - embedded file-based
//     backend on bbolt
//
// # Utilities
//
//   - github.com/sessionkit/sessionkit/config - cached environment
//     configuration loading
package sessionkit
