// Package middleware provides net/http session middleware over the session
// lifecycle.
//
// The middleware runs one orchestration per request: extract the cookie by
// its configured name, verify and resolve it to a session state, expose a
// request-scoped Handle through the context, and flush the session back out
// when the response starts. Configuration problems (missing store, missing
// secret) fail at construction, never per request.
//
//	mw, err := middleware.New(middleware.Config{
//		Store:   memory.New(),
//		Secrets: middleware.Secret(os.Getenv("SESSION_SECRET")),
//		TTL:     12 * time.Hour,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
//		sess := middleware.MustFromContext(r.Context())
//
//		_ = sess.Update(func(d session.Data) session.Data {
//			visits, _ := d["visits"].(float64)
//			return session.Data{"visits": visits + 1}
//		})
//
//		fmt.Fprintf(w, "session %s", sess.ID())
//	})
//
//	http.ListenAndServe(":8080", mw.Handler(mux))
//
// # Persistence model
//
// Mutations accumulate on the request's Handle and land in the store right
// before the first response byte, which keeps the Set-Cookie header valid.
// Call Save to persist mid-request, Destroy to end the session (store entry
// deleted, cookie expired), and Regenerate at privilege boundaries such as
// login to swap the session id while keeping its data.
//
// Sessions that were loaded and never modified are not rewritten; they get a
// best-effort TTL touch that logs failures and lets the request succeed.
package middleware
