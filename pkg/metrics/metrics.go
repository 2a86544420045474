package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsActive counts currently open websocket connections.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connections_active",
		Help: "Open websocket connections on this process.",
	})

	// RoomsActive counts rooms with at least one local subscriber.
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_rooms_active",
		Help: "Rooms with at least one local subscriber.",
	})

	// Joins counts successful room joins.
	Joins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_joins_total",
		Help: "Successful room joins.",
	})

	// Messages counts chat messages broadcast to rooms.
	Messages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Chat messages broadcast to rooms.",
	})

	// StoreErrors counts failed presence store operations.
	StoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_store_errors_total",
		Help: "Failed presence store operations.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
