package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskport/worker-match-system/internal/adapter/http/middleware"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	// System Health
	mux.HandleFunc("/health", routes.health.HealthCheck)
	mux.Handle("/metrics", promhttp.Handler())

	// Discovery
	mux.Handle("POST /search", m.RequireAuth(routes.search.SearchWorkers))             // Resolve a location and rank nearby workers
	mux.Handle("POST /locations/resolve", m.RequireAuth(routes.location.Resolve))      // Preview a location resolution
	mux.HandleFunc("GET /ws/requesters/{requester_id}", routes.requesterWS.HandleWebSocket) // Device session for geolocation

	// Dispatch
	mux.Handle("POST /dispatch", m.RequireAuth(routes.dispatch.DispatchBatch)) // Send the request to selected workers
}
