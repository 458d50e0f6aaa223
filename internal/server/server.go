// Package server provides the HTTP API for vectord.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/canopyhq/vectord/internal/config"
	"github.com/canopyhq/vectord/internal/embedding"
	"github.com/canopyhq/vectord/internal/extract"
	"github.com/canopyhq/vectord/internal/indexer"
	"github.com/canopyhq/vectord/internal/search"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Server is the HTTP server for the vectord API.
type Server struct {
	engine    *search.Engine
	indexer   *indexer.Indexer
	extractor *extract.Extractor
	embedder  embedding.Embedder
	index     *config.IndexConfig
	config    *config.ServerConfig
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	idx *indexer.Indexer,
	extractor *extract.Extractor,
	embedder embedding.Embedder,
	indexCfg *config.IndexConfig,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:    engine,
		indexer:   idx,
		extractor: extractor,
		embedder:  embedder,
		index:     indexCfg,
		config:    cfg,
		logger:    logger,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Post("/api/v1/documents", s.handleIngestDocument)
	r.Delete("/api/v1/documents/{id}", s.handleDeleteDocument)
	r.Post("/api/v1/query", s.handleQuery)
	r.Post("/api/v1/extract", s.handleExtract)
	r.Post("/api/v1/embed", s.handleEmbed)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
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
