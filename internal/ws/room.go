package ws

import "sync"

// Room is the local broadcast group for one room code: the set of
// connections on this process subscribed to it.
type Room struct {
	mu      sync.RWMutex
	clients map[*Conn]struct{} // active connections in this room
}

// NewRoom creates an empty room
func NewRoom() *Room { return &Room{clients: map[*Conn]struct{}{}} }

// Join adds a connection to the room
func (r *Room) Join(c *Conn) {
	r.mu.Lock()
	r.clients[c] = struct{}{}
	r.mu.Unlock()
}

// Leave removes a connection and reports how many remain.
func (r *Room) Leave(c *Conn) int {
	r.mu.Lock()
	delete(r.clients, c)
	n := len(r.clients)
	r.mu.Unlock()
	return n
}

// Len returns the number of subscribed connections.
func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Broadcast sends a message to all connections without blocking
func (r *Room) Broadcast(b []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for c := range r.clients {
		c.queue(b)
	}
}
