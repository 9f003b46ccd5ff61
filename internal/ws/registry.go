package ws

import "sync"

// Registry maintains the set of live push connections per user. A user may
// own any number of simultaneous connections (multi-device).
type Registry struct {
	mu     sync.RWMutex
	conns  map[int]map[Conn]struct{}
	owners map[Conn]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[int]map[Conn]struct{}),
		owners: make(map[Conn]int),
	}
}

// Register adds a connection to the user's set, creating the set if absent.
func (r *Registry) Register(userID int, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[userID]; !ok {
		r.conns[userID] = make(map[Conn]struct{})
	}
	r.conns[userID][conn] = struct{}{}
	r.owners[conn] = userID
}

// Unregister removes a connection from whichever user's set contains it.
// The close event may race other registrations, so lookup is by connection,
// not by user. Unknown connections are a no-op. An emptied set is removed
// entirely so no dangling entries remain.
func (r *Registry) Unregister(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.owners[conn]
	if !ok {
		return
	}
	delete(r.owners, conn)
	if set, ok := r.conns[userID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(r.conns, userID)
		}
	}
}

// ConnectionsFor returns a snapshot of the user's live connections.
func (r *Registry) ConnectionsFor(userID int) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.conns[userID]
	if !ok {
		return nil
	}
	conns := make([]Conn, 0, len(set))
	for conn := range set {
		conns = append(conns, conn)
	}
	return conns
}

// Identities returns every user id with at least one registered connection.
func (r *Registry) Identities() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	return ids
}
