package session

import "maps"

// Data is the application-defined session payload: a JSON-serializable
// key/value map. Insertion order is irrelevant. Data is always cloned at API
// boundaries so no two states ever share a map.
type Data map[string]any

// Status tags a session state within its lifecycle.
type Status int

const (
	// StatusNew marks a freshly generated session not yet matched to stored
	// data: either no valid cookie arrived, or a verified id had no entry in
	// the store.
	StatusNew Status = iota

	// StatusLoaded marks a session whose verified id was found in the store.
	StatusLoaded

	// StatusDestroyed is terminal. Every transition on a destroyed state
	// fails with ErrInvalidSession.
	StatusDestroyed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusLoaded:
		return "loaded"
	case StatusDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// State is an immutable session snapshot. Every logical change produces a new
// State value; the data map held by an existing State is never mutated in
// place. The zero value is unusable; states are minted by Lifecycle.
type State struct {
	id     string
	status Status
	data   Data
}

// ID returns the opaque session identifier used as the storage key and
// embedded in the signed cookie.
func (s State) ID() string {
	return s.id
}

// Status returns the lifecycle tag of this snapshot.
func (s State) Status() Status {
	return s.status
}

// IsNew reports whether the state was generated this request rather than
// loaded from the store.
func (s State) IsNew() bool {
	return s.status == StatusNew
}

// IsLoaded reports whether the state was read from the store.
func (s State) IsLoaded() bool {
	return s.status == StatusLoaded
}

// IsDestroyed reports whether the state is terminal.
func (s State) IsDestroyed() bool {
	return s.status == StatusDestroyed
}

// Read returns a copy of the session data. Mutating the returned map has no
// effect on the state.
func (s State) Read() Data {
	return cloneData(s.data)
}

// Updater computes a partial change set from the current data. The argument
// is a copy; mutating it does not affect the originating state.
type Updater func(Data) Data

// Update shallow-merges the updater's result over the current data and
// returns the new state. Keys absent from the change set keep their current
// values. The prior state is left untouched.
func (s State) Update(fn Updater) (State, error) {
	if s.status == StatusDestroyed {
		return State{}, ErrInvalidSession
	}

	merged := cloneData(s.data)
	if fn != nil {
		for k, v := range fn(cloneData(s.data)) {
			merged[k] = v
		}
	}

	return State{id: s.id, status: s.status, data: merged}, nil
}

// Replace swaps the session data wholesale, without merging, and returns the
// new state.
func (s State) Replace(data Data) (State, error) {
	if s.status == StatusDestroyed {
		return State{}, ErrInvalidSession
	}

	return State{id: s.id, status: s.status, data: cloneData(data)}, nil
}

// cloneData copies d one level deep. Nested reference values are shared;
// session payloads are expected to be flat JSON-style maps.
func cloneData(d Data) Data {
	if d == nil {
		return Data{}
	}
	return maps.Clone(d)
}
