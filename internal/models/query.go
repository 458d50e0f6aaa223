package models

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery is returned for a malformed query request shape.
var ErrInvalidQuery = errors.New("invalid query")

// QueryRequest is a similarity query. Exactly one of Text or Vector must be
// set: Text is embedded with the index dimension, Vector is used as-is.
type QueryRequest struct {
	Namespace string         `json:"namespace,omitempty"`
	Text      string         `json:"text,omitempty"`
	Vector    []float32      `json:"vector,omitempty"`
	TopK      int            `json:"topK,omitempty"`
	Filter    map[string]any `json:"filter,omitempty"`
}

// Validate checks the request shape. Both-present and neither-present fail;
// TopK normalization is left to the engine, which knows the configured bounds.
func (q *QueryRequest) Validate() error {
	hasText := q.Text != ""
	hasVector := len(q.Vector) > 0
	if hasText && hasVector {
		return fmt.Errorf("%w: text and vector are mutually exclusive", ErrInvalidQuery)
	}
	if !hasText && !hasVector {
		return fmt.Errorf("%w: provide text or vector", ErrInvalidQuery)
	}
	return nil
}

// QueryMatch is a single similarity hit. Score is the store's native
// similarity, unmodified (cosine similarity for the bundled stores).
type QueryMatch struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// QueryResponse holds the matches for a similarity query, ranked by
// descending score in the order the store returned them.
type QueryResponse struct {
	Namespace string        `json:"namespace"`
	Matches   []*QueryMatch `json:"matches"`
}
