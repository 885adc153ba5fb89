// Package cookie provides the outbound cookie transport for sessions.
//
// The package deliberately separates reading from writing. Inbound, Token
// extracts the raw signed token from a request; verification belongs to the
// signer package. Outbound, a Sink owns the cookie name and attribute set for
// one response and is driven explicitly by the session lifecycle: Refresh
// whenever the session id or attributes change, Expire on destroy. There is no
// implicit write-on-mutation; every Set-Cookie is an explicit call.
//
//	sink := cookie.NewResponseSink(w, "connect.sid", cookie.Apply(cookie.Defaults(),
//		[]cookie.Option{cookie.WithSecure(true), cookie.WithMaxAge(86400)},
//	))
//
//	if err := sink.Refresh(token); err != nil { ... }
//
// Attributes default to Path "/", HttpOnly and SameSite Lax. Serialized
// cookies over 4KB are rejected with ErrCookieTooLarge since browsers truncate
// or drop them silently.
package cookie
