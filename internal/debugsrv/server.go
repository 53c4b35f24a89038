// Package debugsrv serves the watcher's Prometheus metrics and a JSON snapshot
// of the browsed directory for inspecting a running instance.
package debugsrv

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"browsd/internal/log"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Entry is one listed child in a snapshot.
type Entry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	Selected bool   `json:"selected,omitempty"`
}

// State is what /state reports.
type State struct {
	Session          string    `json:"session"`
	Directory        string    `json:"directory"`
	Entries          []Entry   `json:"entries"`
	Pending          int       `json:"pending"`
	ChangesProcessed int       `json:"changes_processed"`
	LastActivity     time.Time `json:"last_activity,omitempty"`
}

// StateFunc produces a consistent snapshot; it is called per request.
type StateFunc func() State

// Server is the debug HTTP endpoint.
type Server struct {
	router   chi.Router
	registry *prometheus.Registry
	state    StateFunc
	srv      *http.Server
}

// New builds a server exposing cs next to the Go runtime collectors.
func New(state StateFunc, cs ...prometheus.Collector) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(cs...)

	s := &Server{
		registry: registry,
		state:    state,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	s.RegisterRoutes(r)
	s.router = r
	return s
}

// RegisterRoutes registers the debug routes on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", s.Health)
	r.Get("/state", s.GetState)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Health reports liveness.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetState returns the current snapshot.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	if s.state == nil {
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no state"})
		return
	}
	s.respondJSON(w, http.StatusOK, s.state())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.LogWithFields(log.F("error", err)).Warn("failed to encode response")
	}
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.srv = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.LogWithFields(log.F("addr", ln.Addr().String())).Info("debug server listening")
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}
