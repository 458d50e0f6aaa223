package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"
)

const queryCacheSize = 1024

// OpenAIConfig configures the OpenAI-compatible embeddings provider.
type OpenAIConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	Dimensions        int
	BatchSize         int
	RequestsPerSecond float64
}

// OpenAIEmbedder produces embeddings through the OpenAI embeddings API.
// Every request carries the configured dimension so the index contract cannot
// drift with provider-side model defaults.
type OpenAIEmbedder struct {
	client     openai.Client
	model      string
	dimensions int
	batchSize  int
	limiter    *rate.Limiter
	cache      *Cache
}

// NewOpenAIEmbedder creates the provider. APIKey and Dimensions are required.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai embedder: API key is required")
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("openai embedder: dimensions must be positive, got %d", cfg.Dimensions)
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.EmbeddingModelTextEmbedding3Small)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &OpenAIEmbedder{
		client:     openai.NewClient(opts...),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		batchSize:  cfg.BatchSize,
		limiter:    rate.NewLimiter(limit, 1),
		cache:      NewCache(queryCacheSize),
	}, nil
}

// Embed returns the embedding for a single text. Query-path embeds repeat
// often, so results are cached by text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := e.cache.Get(text); ok {
		return vec, nil
	}
	vecs, err := e.request(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	e.cache.Set(text, vecs[0])
	return vecs[0], nil
}

// EmbedBatch embeds texts in provider-sized batches, preserving input order.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := e.request(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *OpenAIEmbedder) request(ctx context.Context, texts []string) ([][]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model:      openai.EmbeddingModel(e.model),
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Dimensions: openai.Int(int64(e.dimensions)),
	})
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	if len(resp.Data) != len(texts) {
		return nil, &ProviderError{Err: fmt.Errorf("got %d embeddings for %d inputs", len(resp.Data), len(texts))}
	}
	vecs := make([][]float32, len(texts))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vecs[d.Index] = vec
	}
	for i, vec := range vecs {
		if err := CheckDimension(e.dimensions, vec); err != nil {
			return nil, fmt.Errorf("embedding %d: %w", i, err)
		}
	}
	return vecs, nil
}

// Dimensions returns the configured embedding dimension.
func (e *OpenAIEmbedder) Dimensions() int { return e.dimensions }

// Close is a no-op for the remote provider.
func (e *OpenAIEmbedder) Close() error { return nil }
