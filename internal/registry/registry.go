// Package registry maps user identities to their live real-time connection.
package registry

import "sync"

// ConnectionRegistry holds at most one connection id per user. It is
// process-local and starts empty; safe for concurrent use.
type ConnectionRegistry struct {
	mu     sync.RWMutex
	byUser map[string]string // key: userID -> value: connectionID
}

// NewConnectionRegistry creates an empty registry
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		byUser: make(map[string]string),
	}
}

// Register maps userID to connectionID, replacing any previous mapping
// for that user. Last register wins.
func (r *ConnectionRegistry) Register(userID, connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[userID] = connectionID
}

// Unregister removes every entry whose value is connectionID and returns
// the users that were detached. A stale connection that was already
// replaced by a newer register removes nothing.
//
// There is no reverse index, so this is O(n) in registered users.
func (r *ConnectionRegistry) Unregister(connectionID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	for userID, connID := range r.byUser {
		if connID == connectionID {
			delete(r.byUser, userID)
			removed = append(removed, userID)
		}
	}
	return removed
}

// Lookup returns the live connection id for userID, if any
func (r *ConnectionRegistry) Lookup(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.byUser[userID]
	return connID, ok
}

// Len returns the number of users with a live connection
func (r *ConnectionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
