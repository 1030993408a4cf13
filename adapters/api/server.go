// Package api exposes the aggregate result tables over HTTP for the
// reporting layer. Read-only: no endpoint mutates the store.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cycleshare/app"
	"cycleshare/internal"
	"cycleshare/ports"
)

// Server is the reporting API server.
type Server struct {
	router     *chi.Mux
	aggregates *app.AggregateService
	store      ports.TripStore
	logger     *internal.Logger
}

// Config holds API server configuration
type Config struct {
	Port string
}

// NewServer creates the reporting API server.
func NewServer(aggregates *app.AggregateService, store ports.TripStore, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	s := &Server{
		router:     chi.NewRouter(),
		aggregates: aggregates,
		store:      store,
		logger:     logger,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/aggregates", s.handleAllAggregates)
	s.router.Get("/aggregates/stations", s.handleStations)
	s.router.Get("/aggregates/temporal", s.handleTemporal)
	s.router.Get("/aggregates/types", s.handleRideTypes)
	s.router.Get("/aggregates/summary", s.handleSummary)
}

// Start runs the server on the configured port, blocking until it stops.
func (s *Server) Start(config Config) error {
	addr := fmt.Sprintf(":%s", config.Port)
	s.logger.Info("reporting API listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
