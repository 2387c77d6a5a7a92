package realtime

import (
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/rudro-dev/loopgram/backend/pkg/logger"
)

// Registry tracks which users currently hold an open websocket. Each
// user owns at most one slot; a new connection for an already-present
// user evicts the previous one (last socket wins).
type Registry struct {
	mu      sync.RWMutex
	clients map[uint]*Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[uint]*Client)}
}

// Register claims the user's slot for c, closing any client that held
// it before.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	prev := r.clients[c.UserID]
	r.clients[c.UserID] = c
	r.mu.Unlock()

	switch {
	case prev == nil:
		activeConnections.Inc()
	case prev != c:
		prev.Close(websocket.StatusPolicyViolation, "superseded by newer connection")
		logger.Log.Info("websocket client superseded",
			zap.Uint("user_id", c.UserID),
			zap.String("user_name", c.UserName))
	}
	totalConnections.Inc()

	logger.Log.Info("websocket client registered",
		zap.Uint("user_id", c.UserID),
		zap.String("user_name", c.UserName))
}

// Unregister releases the user's slot, but only if it still points at
// c. A stale unregister from an evicted connection is a no-op, so the
// call is idempotent and safe against reconnect races.
func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	current, ok := r.clients[c.UserID]
	if ok && current == c {
		delete(r.clients, c.UserID)
	} else {
		ok = false
	}
	r.mu.Unlock()

	if ok {
		activeConnections.Dec()
		logger.Log.Info("websocket client unregistered",
			zap.Uint("user_id", c.UserID),
			zap.Duration("session", time.Since(c.ConnectedAt)))
	}
}

// Lookup returns the client registered for userID, if any.
func (r *Registry) Lookup(userID uint) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[userID]
	return c, ok
}

// IsOnline reports whether userID has a registered connection.
func (r *Registry) IsOnline(userID uint) bool {
	_, ok := r.Lookup(userID)
	return ok
}

// Snapshot returns all registered clients. Used for broadcast fan-out;
// delivery happens outside the lock.
func (r *Registry) Snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	return out
}

// Count returns the number of registered clients.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
