package embedding

import (
	"context"
	"hash/fnv"
	"math"
)

// MockEmbedder is a deterministic embedder for tests and offline runs. The
// same text always maps to the same unit-length vector, so similarity between
// identical texts is maximal without any network dependency.
type MockEmbedder struct {
	dimensions int
}

// NewMockEmbedder returns a deterministic embedder of the given dimension.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 512
	}
	return &MockEmbedder{dimensions: dimensions}
}

// Embed returns a deterministic embedding derived from the text hash,
// normalized to unit length for cosine similarity.
func (e *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, e.dimensions)
	var sum float64
	for i := range vec {
		v := math.Sin(float64(seed%100003) * float64(i+1))
		vec[i] = float32(v)
		sum += v * v
	}
	if sum > 0 {
		norm := float32(1.0 / math.Sqrt(sum))
		for i := range vec {
			vec[i] *= norm
		}
	}
	return vec, nil
}

// EmbedBatch embeds each text independently, preserving order.
func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vecs[i] = vec
	}
	return vecs, nil
}

// Dimensions returns the embedding dimension.
func (e *MockEmbedder) Dimensions() int { return e.dimensions }

// Close is a no-op.
func (e *MockEmbedder) Close() error { return nil }
