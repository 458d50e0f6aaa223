// Package vectorstore defines the remote vector store contract and the
// backends that implement it.
package vectorstore

import (
	"context"
	"fmt"

	"github.com/canopyhq/vectord/internal/models"
)

// Filter constrains matches by metadata. Values are either scalars (implicit
// equality) or operator maps in the store's syntax, e.g. {"$eq": v}.
type Filter map[string]any

// ByDocument returns a filter selecting every chunk of one document.
func ByDocument(documentID string) Filter {
	return Filter{"document_id": documentID}
}

// Point is one stored vector with its id and metadata.
type Point struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Store is a namespaced vector store. Namespaces partition ids and queries:
// they are created implicitly on first upsert and results never cross
// namespace boundaries. Upsert is insert-or-overwrite by id.
type Store interface {
	Upsert(ctx context.Context, namespace string, points []*Point) error
	// Query returns up to topK matches ranked by the store's native
	// similarity, best first. Scores are returned unmodified.
	Query(ctx context.Context, namespace string, vector []float32, topK int, filter Filter) ([]*models.QueryMatch, error)
	// ListIDs enumerates ids matching filter one page at a time. The second
	// return value is the token for the next page, or "" when no further
	// pages exist. Pages hold at most PageSize ids.
	ListIDs(ctx context.Context, namespace string, filter Filter, pageToken string) ([]string, string, error)
	// DeleteByIDs removes the given ids; missing ids are ignored, so the
	// operation is idempotent per id.
	DeleteByIDs(ctx context.Context, namespace string, ids []string) error
	// PageSize is the maximum page length ListIDs returns.
	PageSize() int
	Close() error
}

// StoreError wraps an upstream vector-store failure. Unlike bad-input errors,
// store errors are safe to retry.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("vector store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
