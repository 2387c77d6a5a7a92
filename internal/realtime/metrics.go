package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "loopgram_ws_active_connections",
		Help: "Number of currently registered websocket clients",
	})

	totalConnections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loopgram_ws_connections_total",
		Help: "Total websocket connections accepted since start",
	})

	eventsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loopgram_ws_events_sent_total",
		Help: "Real-time events handed to client send buffers",
	}, []string{"event", "mode"})

	deliveryDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loopgram_ws_delivery_dropped_total",
		Help: "Events dropped because the client buffer was full or closed",
	})

	clientsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loopgram_ws_clients_pruned_total",
		Help: "Clients evicted after a failed delivery",
	})
)
