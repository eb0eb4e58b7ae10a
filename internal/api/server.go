// Package api serves the derived views of one dataset over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/pable/go-quiz-metrics/internal/aggregator"
	"github.com/pable/go-quiz-metrics/internal/model"
	"github.com/pable/go-quiz-metrics/pkg/logger"
	"github.com/pable/go-quiz-metrics/pkg/metrics"
)

// Server answers read-only queries against a single immutable Dataset.
type Server struct {
	ds      model.Dataset
	limits  Limits
	log     logger.Logger
	metrics *metrics.Manager
	router  chi.Router
}

// Limits bounds the query parameters the server accepts.
type Limits struct {
	DefaultLimit int
	MaxLimit     int
	MinSamples   int
	RecentWindow int
}

// DefaultLimits mirrors the configuration defaults.
func DefaultLimits() Limits {
	return Limits{
		DefaultLimit: aggregator.DefaultLimit,
		MaxLimit:     100,
		MinSamples:   aggregator.DefaultMinSamples,
		RecentWindow: aggregator.DefaultRecentWindow,
	}
}

// Option configures a Server.
type Option func(*Server)

// WithLimits overrides the default query limits.
func WithLimits(l Limits) Option {
	return func(s *Server) { s.limits = l }
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics records request metrics on m and exposes it at /metrics.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Server) { s.metrics = m }
}

// New builds a server over ds.
func New(ds model.Dataset, opts ...Option) *Server {
	s := &Server{
		ds:     ds,
		limits: DefaultLimits(),
		log:    logger.Named("api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewManager()
	}
	s.metrics.SetDataset(ds)
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/speed", s.handleSpeed)
		r.Get("/accuracy", s.handleAccuracy)
		r.Get("/difficulty", s.handleDifficulty)
		r.Get("/overview", s.handleOverview)
		r.Get("/players", s.handlePlayers)
		r.Get("/players/{name}", s.handlePlayer)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "listening", logger.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info(ctx, "shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
