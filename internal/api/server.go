// Package api exposes the HTTP surface of the render service.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voxcut/voxcut-go/internal/config"
	"github.com/voxcut/voxcut-go/internal/metrics"
	"github.com/voxcut/voxcut-go/internal/queue"
)

// Server handles HTTP API requests.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	queue   *queue.Queue
	metrics *metrics.Metrics
}

// New creates a new API server. The metrics argument may be nil.
func New(cfg *config.Config, logger *slog.Logger, q *queue.Queue, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		queue:   q,
		metrics: m,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/healthz", s.handleHealthz)
	mux.HandleFunc("POST /v1/render", s.instrument("/v1/render", s.withAuth(s.handleRender)))
	mux.HandleFunc("POST /v1/process", s.instrument("/v1/process", s.withAuth(s.handleProcess)))
	mux.Handle("GET /metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
