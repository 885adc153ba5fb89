// Package session implements an immutable session-state lifecycle over a
// pluggable key/value store.
//
// A session is server-held data bound to a client through an opaque id
// delivered in a signed cookie. The package models the session as a tagged
// immutable State (new, loaded, destroyed) plus transition functions: every
// logical change returns a fresh State value and never mutates the one it
// started from, which makes each transition independently testable and rules
// out hidden aliasing between request handlers.
//
// # States and transitions
//
// Pure transitions live on State and are synchronous:
//
//   - Read returns a copy of the data
//   - Update shallow-merges a change set over the current data
//   - Replace swaps the data wholesale
//
// Effectful transitions live on Lifecycle and take a context because they
// touch the store or the cookie sink:
//
//   - Initialize: cookie token -> LOADED (store hit), NEW keeping the
//     verified id (store miss), or NEW with a fresh id (no/invalid token)
//   - Persist: write data under the state's id with the resolved TTL
//   - Reload: re-read from the store, falling back to seed data on miss
//   - Destroy: delete the entry and expire the cookie; terminal
//   - Regenerate: new id, same data, new cookie; the new entry is written
//     before the old one is removed
//   - Touch: refresh the TTL, best-effort
//
// # Usage
//
//	lc, err := session.New(session.Config{
//		Store:   memory.New(),
//		Secrets: []string{os.Getenv("SESSION_SECRET")},
//		TTL:     12 * time.Hour,
//		Seed:    func() session.Data { return session.Data{"visits": 0} },
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	state, err := lc.Initialize(ctx, tokenFromCookie)
//	if err != nil { ... }
//
//	state, err = state.Update(func(d session.Data) session.Data {
//		return session.Data{"visits": d["visits"].(int) + 1}
//	})
//	if err != nil { ... }
//
//	if err := lc.Persist(ctx, state); err != nil { ... }
//
// # Concurrency
//
// Lifecycle is safe for concurrent use. A State value belongs to a single
// request's control flow. Two requests sharing one session id race at the
// store with last-write-wins semantics; compare-and-swap belongs to a richer
// Store implementation, not this core.
package session
