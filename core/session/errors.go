package session

import "errors"

var (
	// ErrMissingStore is returned at setup when no store is configured.
	ErrMissingStore = errors.New("session store is required")
	// ErrMissingSecret is returned at setup when the signing secret set is empty.
	ErrMissingSecret = errors.New("at least one signing secret is required")
	// ErrInvalidSession is returned when a transition is attempted on a
	// destroyed session handle.
	ErrInvalidSession = errors.New("session has been destroyed")
	// ErrStorage wraps backend I/O failures surfaced by the store.
	ErrStorage = errors.New("session storage failure")
	// ErrCookie wraps failures writing the outbound session cookie.
	ErrCookie = errors.New("session cookie write failure")
)
