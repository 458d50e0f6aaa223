// Package search answers similarity queries against the vector store, turning
// query text into an embedding when the caller does not supply a vector.
package search

import (
	"context"
	"fmt"

	"github.com/canopyhq/vectord/internal/config"
	"github.com/canopyhq/vectord/internal/embedding"
	"github.com/canopyhq/vectord/internal/indexer"
	"github.com/canopyhq/vectord/internal/models"
	"github.com/canopyhq/vectord/internal/vectorstore"
	"go.uber.org/zap"
)

// Engine executes similarity queries. It validates the request shape before
// touching the embedder or the store, so malformed requests cost nothing
// upstream.
type Engine struct {
	store    vectorstore.Store
	embedder embedding.Embedder
	index    *config.IndexConfig
	search   *config.SearchConfig
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(
	store vectorstore.Store,
	embedder embedding.Embedder,
	indexCfg *config.IndexConfig,
	searchCfg *config.SearchConfig,
	opts ...Option,
) *Engine {
	e := &Engine{
		store:    store,
		embedder: embedder,
		index:    indexCfg,
		search:   searchCfg,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Query runs a similarity query. Text queries are normalized and embedded at
// the index dimension; vector queries are checked against it. TopK falls back
// to the configured default when unset and is capped at the configured
// maximum. Matches come back in the store's order, best first.
func (e *Engine) Query(ctx context.Context, req *models.QueryRequest) (*models.QueryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ns := req.Namespace
	if ns == "" {
		ns = e.index.Namespace
	}
	topK := req.TopK
	if topK <= 0 {
		topK = e.search.DefaultTopK
	}
	if topK > e.search.MaxTopK {
		topK = e.search.MaxTopK
	}

	vector := req.Vector
	if req.Text != "" {
		embedded, err := e.embedder.Embed(ctx, indexer.Preprocess(req.Text))
		if err != nil {
			return nil, fmt.Errorf("embed query: %w", err)
		}
		vector = embedded
	}
	if err := embedding.CheckDimension(e.index.EmbedDim, vector); err != nil {
		return nil, err
	}

	matches, err := e.store.Query(ctx, ns, vector, topK, vectorstore.Filter(req.Filter))
	if err != nil {
		return nil, err
	}
	if e.logger != nil {
		e.logger.Debug("query executed",
			zap.String("namespace", ns),
			zap.Int("top_k", topK),
			zap.Int("matches", len(matches)))
	}
	return &models.QueryResponse{Namespace: ns, Matches: matches}, nil
}
