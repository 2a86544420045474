package httpx

import (
	"net/http"

	"log/slog"

	"room-chat/internal/app"
	"room-chat/internal/ws"
	"room-chat/pkg/metrics"
)

// NewRouter wires up all HTTP routes, middleware, and handlers
func NewRouter(cfg app.Config, logger *slog.Logger, hub *ws.Hub) http.Handler {
	mw := NewMiddleware(cfg)
	rooms := &RoomsAPI{}

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket endpoint
	mux.Handle("/ws", http.HandlerFunc(hub.ServeWS))

	// Room code minting
	mux.Handle("/api/room-code", http.HandlerFunc(rooms.NewCode))

	return mw.Wrap(mux) // CORS + rate limit applied globally
}
