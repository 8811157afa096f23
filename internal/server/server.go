// Package server provides the local HTTP API for the reader.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/vulgata/internal/bookmarks"
	"github.com/hyperjump/vulgata/internal/config"
	"github.com/hyperjump/vulgata/internal/content"
	"github.com/hyperjump/vulgata/internal/dictionary"
	"github.com/hyperjump/vulgata/internal/keyword"
	"github.com/hyperjump/vulgata/internal/prayers"
	"github.com/hyperjump/vulgata/internal/search"
	"github.com/hyperjump/vulgata/internal/settings"
	"go.uber.org/zap"
)

// WatchService reports the directories watched for content changes.
type WatchService interface {
	Directories() []string
}

// Dependencies are the components the API serves. Index, Prayers, Dictionary and Watch
// are optional.
type Dependencies struct {
	Library    *content.Library
	Engine     *search.Engine
	Index      keyword.VerseIndex
	Bookmarks  *bookmarks.Store
	Settings   *settings.Store
	Prayers    *prayers.Collection
	Dictionary *dictionary.Dictionary
	Watch      WatchService
	// Config is reported by the status endpoint.
	Config *config.Config
}

// Server is the HTTP server for the reader API.
type Server struct {
	deps   Dependencies
	config *config.ServerConfig
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(deps Dependencies, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{deps: deps, config: cfg, logger: logger}
}

// Routes returns the API router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/content/reload", s.handleReload)

		r.Get("/books", s.handleListBooks)
		r.Get("/books/{book}", s.handleGetBook)
		r.Get("/books/{book}/chapters/{chapter}", s.handleGetChapter)

		r.Post("/search", s.handleSearch)
		r.Get("/search/fulltext", s.handleFullText)

		r.Get("/bookmarks", s.handleListBookmarks)
		r.Post("/bookmarks", s.handleAddBookmark)
		r.Put("/bookmarks/{id}", s.handleUpdateBookmark)
		r.Delete("/bookmarks/{id}", s.handleDeleteBookmark)

		r.Get("/dictionary/{word}", s.handleDefine)
		r.Get("/prayers", s.handleListPrayers)
		r.Get("/prayers/{id}", s.handleGetPrayer)

		r.Get("/reader/{book}/{chapter}", s.handleReader)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
