package httpapi

import (
	"context"
	"net/http"

	"github.com/kvshard/kvshard/internal/metric"
)

// Server is the HTTP server exposing /metrics and /healthz.
type Server struct {
	httpServer *http.Server
}

// New creates a new HTTP server bound to addr, serving metrics from
// registry.
func New(addr string, registry *metric.Registry) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.Handle("GET /metrics", registry.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// ListenAndServe starts the HTTP server. It returns http.ErrServerClosed
// on graceful shutdown.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
