// Package models defines core data structures for chunks, ingestion, and queries.
package models

// Chunk is the unit of embedding and storage: a bounded text segment plus its
// embedding vector and metadata. Chunk ids are unique within a namespace and
// derived from the owning document id plus a sequence index.
type Chunk struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"document_id"`
	Text       string         `json:"text"`
	Embedding  []float32      `json:"-"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// IngestInput is the input for ingesting a document from plain text.
// DocumentID is caller-supplied and unique within a namespace; when empty a
// UUID is generated. An empty Namespace falls back to the configured default.
type IngestInput struct {
	DocumentID string         `json:"document_id,omitempty"`
	Namespace  string         `json:"namespace,omitempty"`
	Title      string         `json:"title,omitempty"`
	Text       string         `json:"text"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// IngestResult reports what an ingestion wrote.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	Namespace  string `json:"namespace"`
	ChunkCount int    `json:"chunks"`
}

// DeleteResult reports how many chunks a delete-by-document removed.
type DeleteResult struct {
	DocumentID string `json:"document_id"`
	Namespace  string `json:"namespace"`
	Deleted    int    `json:"deleted"`
}
