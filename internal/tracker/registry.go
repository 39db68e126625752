package tracker

import "sync"

// Registry maps participant ids to their session trackers. Everything is
// in-memory; records die with the process by design.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Tracker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Tracker)}
}

// Put registers a tracker under its participant id.
func (r *Registry) Put(participantID string, t *Tracker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[participantID] = t
}

// Get looks up the tracker for a participant.
func (r *Registry) Get(participantID string) (*Tracker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.sessions[participantID]
	return t, ok
}
