package ws

import "sync"

// Presence maps a user id to its single live connection. The mapping is
// last-write-wins: registering again for the same user supersedes the
// previous handle without closing it. Unregister is compare-and-delete
// so a late disconnect of a superseded handle can never evict a newer
// registration for the same user.
type Presence struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewPresence creates an empty registry.
func NewPresence() *Presence {
	return &Presence{clients: make(map[string]*Client)}
}

// Register binds the client to the user id and returns the handle it
// displaced, if any.
func (p *Presence) Register(userID string, client *Client) *Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev := p.clients[userID]
	p.clients[userID] = client
	if prev == client {
		return nil
	}
	return prev
}

// Lookup returns the current connection for the user, or nil.
func (p *Presence) Lookup(userID string) *Client {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clients[userID]
}

// Unregister removes the binding only while it still points at this
// exact client. Reports whether an entry was removed.
func (p *Presence) Unregister(userID string, client *Client) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clients[userID] != client {
		return false
	}
	delete(p.clients, userID)
	return true
}

// Online reports whether the user has a live connection.
func (p *Presence) Online(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.clients[userID]
	return ok
}
