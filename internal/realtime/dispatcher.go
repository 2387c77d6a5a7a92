package realtime

import (
	"encoding/json"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/rudro-dev/loopgram/backend/pkg/logger"
)

// Dispatcher pushes events to connected clients through the registry.
// Delivery is best effort: offline users are skipped silently and a
// client whose buffer cannot accept the frame is pruned.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// SendToUser delivers an event to one user. A user without an open
// connection is a no-op, not an error.
func (d *Dispatcher) SendToUser(userID uint, event string, payload interface{}) {
	client, ok := d.registry.Lookup(userID)
	if !ok {
		return
	}
	data, err := json.Marshal(NewEvent(event, payload))
	if err != nil {
		logger.Log.Error("failed to encode event",
			zap.String("event", event), zap.Error(err))
		return
	}
	d.deliver(client, event, data, "targeted")
}

// Broadcast delivers an event to every connected client.
func (d *Dispatcher) Broadcast(event string, payload interface{}) {
	clients := d.registry.Snapshot()
	if len(clients) == 0 {
		return
	}
	data, err := json.Marshal(NewEvent(event, payload))
	if err != nil {
		logger.Log.Error("failed to encode event",
			zap.String("event", event), zap.Error(err))
		return
	}
	for _, client := range clients {
		d.deliver(client, event, data, "broadcast")
	}
}

func (d *Dispatcher) deliver(client *Client, event string, data []byte, mode string) {
	if client.enqueue(data) {
		eventsSent.WithLabelValues(event, mode).Inc()
		return
	}
	deliveryDropped.Inc()
	clientsPruned.Inc()
	d.registry.Unregister(client)
	client.Close(websocket.StatusPolicyViolation, "send buffer overflow")
	logger.Log.Warn("pruned unresponsive websocket client",
		zap.Uint("user_id", client.UserID),
		zap.String("event", event))
}
