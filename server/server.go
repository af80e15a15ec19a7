// Package server assembles the summary handler, middleware and operational
// endpoints into an http.Handler and runs it as a standalone HTTP server.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/teilomillet/summaryproxy/config"
	"github.com/teilomillet/summaryproxy/errors"
	"github.com/teilomillet/summaryproxy/server/metrics"
	"github.com/teilomillet/summaryproxy/server/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SummaryPath is the explicit route of the summary handler. The handler is
// also mounted at the root so the function URL itself works as the endpoint.
const SummaryPath = "/summarize"

// Router handles HTTP routing
type Router struct {
	router chi.Router
	logger *zap.Logger
}

// NewRouter creates the chi router serving summary requests.
//
// Middleware runs in this order: CORS first so preflights never reach the
// handler, then request ID, panic recovery, access logging and, when m is
// non-nil, Prometheus metrics.
func NewRouter(cfg *config.Config, summary http.Handler, m *metrics.Metrics, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	if m != nil {
		r.Use(middleware.PrometheusMetrics(m))
	}

	router := &Router{
		router: r,
		logger: logger,
	}

	// The handler owns method checking, so it is mounted for every method.
	r.Handle("/", summary)
	r.Handle(SummaryPath, summary)

	r.Get("/health", router.handleHealth)

	if m != nil && cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, m.Handler())
	}

	return router
}

func (r *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		r.logger.Error("Failed to encode health response", zap.Error(err))
	}
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// NewServer creates a new server instance
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = errors.DefaultLogger
	}
	return &Server{
		httpServer: &http.Server{
			Addr:           fmt.Sprintf(":%d", cfg.Port),
			Handler:        handler,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			MaxHeaderBytes: cfg.MaxHeaderBytes,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves until ctx is cancelled or the listener fails. On cancellation
// in-flight requests get up to the configured shutdown timeout to finish.
func (s *Server) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Server started", zap.String("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.logger.Info("Shutting down server", zap.Duration("timeout", s.shutdownTimeout))
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error during server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
