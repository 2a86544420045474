package chat

import "sync"

// Session is a connection's current (display name, room) association.
type Session struct {
	Name string
	Room string
}

// Registry maps live connection IDs to their session. It is per-process
// state only: connections re-join after a restart, and room membership
// itself lives in the presence store.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session // connID -> session
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[string]Session{}}
}

// Associate records the mapping, replacing any prior association.
// The caller is responsible for cleaning up the prior room first.
func (r *Registry) Associate(connID, name, room string) {
	r.mu.Lock()
	r.sessions[connID] = Session{Name: name, Room: room}
	r.mu.Unlock()
}

// Lookup returns the session for a connection, if any.
func (r *Registry) Lookup(connID string) (Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[connID]
	r.mu.RUnlock()
	return s, ok
}

// Clear removes the mapping. Clearing an unknown connection is a no-op.
func (r *Registry) Clear(connID string) {
	r.mu.Lock()
	delete(r.sessions, connID)
	r.mu.Unlock()
}

// Len reports how many connections currently hold a session.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
