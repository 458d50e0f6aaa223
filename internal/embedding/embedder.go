// Package embedding provides text embedding via remote providers, plus the
// dimension contract checks shared by the ingest and query paths.
package embedding

import (
	"context"
	"fmt"
)

// Embedder produces fixed-dimension vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns one embedding per input text, in input order.
	// Implementations split oversized inputs into provider-sized batches
	// internally; splitting never surfaces as an error.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// DimensionError reports a vector whose length violates the configured
// embedding dimension. Mixing dimensions within one namespace corrupts
// similarity scores, so every write and query fails fast on mismatch.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// CheckDimension returns a DimensionError when vec does not have want components.
func CheckDimension(want int, vec []float32) error {
	if len(vec) != want {
		return &DimensionError{Want: want, Got: len(vec)}
	}
	return nil
}

// ProviderError wraps an upstream embedding-provider failure. Unlike
// bad-input errors, provider errors are safe to retry.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
