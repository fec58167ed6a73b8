package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-interview-client/internal/middleware"
	"go-interview-client/internal/websocket"
)

// NewMirror serves the live session feed next to the terminal client:
// websocket events at /ws, client metrics at /metrics.
func NewMirror(hub *websocket.Hub, gatherer prometheus.Gatherer, checkOrigin func(*http.Request) bool) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", websocket.ServeWS(hub, checkOrigin))

	return r
}
