// Package server exposes the currency agent over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"fxagent/internal/agent"
	"fxagent/internal/logger"
	"fxagent/internal/metrics"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// QueryProcessor answers natural-language currency questions
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, q string) <-chan *agent.QueryResult
	ProcessQuerySync(ctx context.Context, q string) *agent.QueryResult
	Provider() string
}

type Server struct {
	router  chi.Router
	agent   QueryProcessor
	metrics *metrics.Metrics
	log     *logger.Logger
}

// New wires the routes. metrics may be nil, in which case /metrics is not served.
func New(processor QueryProcessor, m *metrics.Metrics, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		router:  chi.NewRouter(),
		agent:   processor,
		metrics: m,
		log:     log,
	}

	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(RequestLogger(log))
	if m != nil {
		s.router.Use(Instrument(m))
		s.router.Method(http.MethodGet, "/metrics", m.Handler())
	}

	s.router.Get("/", s.handleRoot)
	s.router.Get("/healthcheck", s.handleHealthcheck)
	s.router.Post("/query", s.handleQuery)
	s.router.Post("/query-sync", s.handleQuerySync)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests
// for at most shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "http server")
		}
		return nil
	case <-ctx.Done():
		s.log.Info("Shutdown signal received, stopping HTTP server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http server shutdown")
	}
	s.log.Info("HTTP server stopped")
	return nil
}
