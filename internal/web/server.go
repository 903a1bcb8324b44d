// Package web provides the HTTP server and JSON handlers for the
// participant roster engine. Rendering, routing between views, and
// spreadsheet decoding belong to the frontend; this layer only exposes the
// engine's operations.
package web

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/certeo/roster/internal/config"
	"github.com/certeo/roster/internal/roster"
	"github.com/certeo/roster/internal/snapshot"
)

// Server is the HTTP server for the roster service.
//
// The roster core is single-writer: all store and selection mutation
// happens under mu, which serializes handlers the way a single-threaded
// caller would.
type Server struct {
	cfg    *config.Config
	router *chi.Mux
	server *http.Server

	mu        sync.Mutex
	store     *roster.Store
	selection *roster.Selection
	projector *roster.Projector
	saver     snapshot.Saver
}

// NewServer creates a new Server around an existing roster store.
func NewServer(cfg *config.Config, store *roster.Store, saver snapshot.Saver) *Server {
	s := &Server{
		cfg:       cfg,
		router:    chi.NewRouter(),
		store:     store,
		selection: roster.NewSelection(),
		projector: roster.NewProjector(cfg.View.Locale),
		saver:     saver,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Route("/roster", func(r chi.Router) {
			r.Get("/", s.handleListRoster)
			r.Post("/upload", s.handleUpload)
			r.Post("/sheet", s.handleIngestSheet)
			r.Post("/delete", s.handleBulkDelete)
			r.Get("/export", s.handleExport)
			r.Post("/save", s.handleSave)
			r.Put("/{id}", s.handleUpdateRecord)
			r.Delete("/{id}", s.handleDeleteRecord)
		})

		r.Route("/selection", func(r chi.Router) {
			r.Get("/", s.handleGetSelection)
			r.Post("/toggle", s.handleToggleSelection)
			r.Post("/all", s.handleSelectAllVisible)
			r.Post("/clear", s.handleClearSelection)
		})
	})
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
