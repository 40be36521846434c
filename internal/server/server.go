// Package server provides the kondate HTTP API and MCP tool endpoint.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/kondate/internal/config"
	"github.com/hyperjump/kondate/internal/indexer"
	"github.com/hyperjump/kondate/internal/planner"
	"github.com/hyperjump/kondate/internal/search"
	"github.com/hyperjump/kondate/internal/storage"
	"go.uber.org/zap"
)

// WatchService manages the watched corpus directories (e.g. *watcher.Watcher).
type WatchService interface {
	Directories() []string
	AddDirectory(path string, syncExisting bool) error
	RemoveDirectory(path string) error
}

// Server is the HTTP server for the kondate API.
type Server struct {
	planner   planner.Service
	engine    *search.Engine
	indexer   *indexer.Indexer
	storage   storage.Storage
	config    *config.Config
	logger    *zap.Logger
	validator *Validator
	limiter   *ipRateLimiter
	version   string

	watch      WatchService
	configPath string
	configMu   sync.Mutex

	server *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithWatch enables the watch directory endpoints. When configPath is set,
// changes to the watch list are saved to that config file.
func WithWatch(watch WatchService, configPath string) Option {
	return func(s *Server) {
		s.watch = watch
		s.configPath = configPath
	}
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer creates a server with the given dependencies.
func NewServer(
	svc planner.Service,
	engine *search.Engine,
	idx *indexer.Indexer,
	store storage.Storage,
	cfg *config.Config,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		planner:   svc,
		engine:    engine,
		indexer:   idx,
		storage:   store,
		config:    cfg,
		logger:    logger,
		validator: NewValidator(),
		limiter:   newIPRateLimiter(cfg.Server.RateLimitPerMinute, cfg.Server.RateLimitBurst),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the HTTP handler with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(s.rateLimit).Post("/meal-plan", s.handleMealPlan)
		r.Post("/user-profile", s.handleUserProfile)
		r.Post("/allocate", s.handleAllocate)

		r.Post("/foods", s.handleIndexFood)
		r.Post("/foods/search", s.handleSearch)
		r.Get("/foods/{id}", s.handleGetFood)
		r.Delete("/foods/{id}", s.handleDeleteFood)

		r.Get("/status", s.handleStatus)

		r.Get("/watch/directories", s.handleWatchDirectoriesList)
		r.Post("/watch/directories", s.handleWatchDirectoriesAdd)
		r.Delete("/watch/directories", s.handleWatchDirectoriesRemove)
	})

	r.With(s.rateLimit).Post("/mcp", s.handleMCP)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
