package hub

import (
	"sync"

	"github.com/omk2207/TestChat/pkg/log"
)

// Hub is the in-memory registry of live connections, keyed by user
// identity. A user may hold several connections at once (tabs,
// devices). The hub is the single source of truth for "is this user
// currently reachable"; it is constructor-provided to its consumers,
// never a package-level singleton, so tests can run isolated instances.
type Hub struct {
	mu    sync.RWMutex
	conns map[uint]map[*Client]struct{} // userID -> connection set
}

// NewHub creates an empty registry.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[uint]map[*Client]struct{}),
	}
}

// Register adds the connection to its user's set, creating the set if
// absent. The connection becomes a fan-out target immediately.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	set, ok := h.conns[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.conns[c.UserID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	log.L().Debug().
		Str(log.FieldConnectionID, c.ID).
		Uint(log.FieldUserID, c.UserID).
		Msg("connection registered")
}

// Unregister removes the connection and drops the user's entry when its
// set becomes empty. Unregistering an absent connection is a no-op; the
// send channel is closed exactly once either way.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set, ok := h.conns[c.UserID]; ok {
		if _, registered := set[c]; registered {
			delete(set, c)
			if len(set) == 0 {
				delete(h.conns, c.UserID)
			}
		}
	}
	h.mu.Unlock()

	c.closeSend()

	log.L().Debug().
		Str(log.FieldConnectionID, c.ID).
		Uint(log.FieldUserID, c.UserID).
		Msg("connection unregistered")
}

// ConnectionsFor returns a snapshot of the user's live connections.
// The slice is a copy; concurrent register/unregister cannot corrupt an
// iteration over it.
func (h *Hub) ConnectionsFor(userID uint) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	set, ok := h.conns[userID]
	if !ok {
		return nil
	}
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	return clients
}

// Connections returns a snapshot of every live connection.
func (h *Hub) Connections() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var clients []*Client
	for _, set := range h.conns {
		for c := range set {
			clients = append(clients, c)
		}
	}
	return clients
}

// UserCount returns the number of distinct users with at least one
// live connection.
func (h *Hub) UserCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
