// Package server wires the HTTP API that backs the browser UI: catalog
// browsing and filtering, recommendations, profile and favorites.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/voluntree/voluntree/internal/catalog"
	"github.com/voluntree/voluntree/internal/ranking"
	"github.com/voluntree/voluntree/internal/state"
	"github.com/voluntree/voluntree/internal/tags"
)

// Config holds the server settings.
type Config struct {
	Port int
}

// Deps aggregates the components the handlers work against. Tags may be nil
// when the quiz service is not configured.
type Deps struct {
	Catalog *catalog.Catalog
	Session *state.Session
	Engine  *ranking.Engine
	Tags    *tags.Client
}

// Server is the HTTP API surface.
type Server struct {
	router *chi.Mux
	config Config
	logger *zap.Logger
	deps   Deps
}

// New assembles the router with all routes and middleware.
func New(cfg Config, deps Deps, logger *zap.Logger) (*Server, error) {
	if deps.Catalog == nil || deps.Session == nil || deps.Engine == nil {
		return nil, fmt.Errorf("catalog, session and engine are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		deps:   deps,
	}
	s.routes()

	return s, nil
}

func (s *Server) routes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(requestLogger(s.logger))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/opportunities", s.handleOpportunities)
		r.Get("/opportunities/{id}", s.handleOpportunity)
		r.Get("/facets", s.handleFacets)
		r.Get("/recommendations", s.handleRecommendations)
		r.Get("/profile", s.handleProfileGet)
		r.Put("/profile", s.handleProfilePut)
		r.Get("/favorites", s.handleFavorites)
		r.Post("/favorites/{id}", s.handleToggleFavorite)
		r.Post("/quiz", s.handleQuiz)
	})

	// The app shell answers the home route; unrecognized paths fall back to
	// it instead of a 404 page.
	s.router.Get("/", s.handleHome)
	s.router.NotFound(s.handleHome)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until a shutdown signal arrives, then drains
// in-flight requests.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			zap.Int("port", s.config.Port),
			zap.Int("catalog_size", s.deps.Catalog.Len()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		s.logger.Info("server stopped")
	}

	return nil
}
