package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/canopyhq/vectord/internal/config"
	"github.com/canopyhq/vectord/internal/embedding"
	"github.com/canopyhq/vectord/internal/extract"
	"github.com/canopyhq/vectord/internal/fileid"
	"github.com/canopyhq/vectord/internal/models"
	"github.com/canopyhq/vectord/internal/vectorstore"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PartialDeleteError reports a delete-by-document loop interrupted by a store
// failure. Deleted is the number of chunks already removed; the operation is
// idempotent per id, so retrying after a PartialDeleteError is safe.
type PartialDeleteError struct {
	DocumentID string
	Deleted    int
	Err        error
}

func (e *PartialDeleteError) Error() string {
	return fmt.Sprintf("partial delete of document %s: %d chunks removed: %v", e.DocumentID, e.Deleted, e.Err)
}

func (e *PartialDeleteError) Unwrap() error { return e.Err }

// Indexer orchestrates ingestion: normalize, chunk, embed, and upsert into
// the vector store, plus the paginated delete-by-document protocol. It holds
// no cross-request state beyond configuration, so concurrent ingests of
// different documents are independent.
type Indexer struct {
	store     vectorstore.Store
	embedder  embedding.Embedder
	extractor *extract.Extractor
	chunker   *Chunker
	index     *config.IndexConfig
	logger    *zap.Logger // optional; when set, logs debug events
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer with the given dependencies.
func NewIndexer(
	store vectorstore.Store,
	embedder embedding.Embedder,
	extractor *extract.Extractor,
	indexCfg *config.IndexConfig,
	chunkingCfg *config.ChunkingConfig,
	opts ...Option,
) *Indexer {
	idx := &Indexer{
		store:     store,
		embedder:  embedder,
		extractor: extractor,
		chunker:   NewChunker(chunkingCfg.Size, chunkingCfg.Overlap, chunkingCfg.Lookback),
		index:     indexCfg,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IngestDocument normalizes, chunks, embeds, and upserts input.Text.
// Chunk ids derive from the document id, so re-ingesting the same document
// overwrites prior vectors id by id (last write wins). Chunks from an earlier
// ingestion that no longer exist after re-chunking are NOT removed; callers
// that re-ingest a shrinking document should DeleteByDocument first.
// Nothing is written unless every chunk embeds at the configured dimension.
func (idx *Indexer) IngestDocument(ctx context.Context, input *models.IngestInput) (*models.IngestResult, error) {
	docID := input.DocumentID
	if docID == "" {
		docID = uuid.New().String()
	}
	ns := idx.namespaceOrDefault(input.Namespace)

	if got := idx.embedder.Dimensions(); got != idx.index.EmbedDim {
		return nil, &embedding.DimensionError{Want: idx.index.EmbedDim, Got: got}
	}

	chunks := idx.chunker.Chunk(docID, Preprocess(input.Text))
	if len(chunks) == 0 {
		return &models.IngestResult{DocumentID: docID, Namespace: ns}, nil
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	embeddings, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}
	if len(embeddings) != len(chunks) {
		return nil, &embedding.ProviderError{
			Err: fmt.Errorf("got %d embeddings for %d chunks", len(embeddings), len(chunks)),
		}
	}

	points := make([]*vectorstore.Point, len(chunks))
	for i, ch := range chunks {
		if err := embedding.CheckDimension(idx.index.EmbedDim, embeddings[i]); err != nil {
			return nil, fmt.Errorf("chunk %s: %w", ch.ID, err)
		}
		metadata := make(map[string]any, len(input.Metadata)+4)
		for k, v := range input.Metadata {
			metadata[k] = v
		}
		metadata["document_id"] = docID
		metadata["chunk_index"] = i
		metadata["text"] = ch.Text
		if input.Title != "" {
			metadata["title"] = input.Title
		}
		points[i] = &vectorstore.Point{ID: ch.ID, Values: embeddings[i], Metadata: metadata}
	}
	if err := idx.store.Upsert(ctx, ns, points); err != nil {
		return nil, err
	}
	if idx.logger != nil {
		idx.logger.Debug("document ingested",
			zap.String("document_id", docID),
			zap.String("namespace", ns),
			zap.Int("chunks", len(points)))
	}
	return &models.IngestResult{DocumentID: docID, Namespace: ns, ChunkCount: len(points)}, nil
}

// IngestRaw extracts text from raw bytes of the given kind, then ingests it.
func (idx *Indexer) IngestRaw(ctx context.Context, input *models.IngestInput, raw []byte, kind extract.Kind) (*models.IngestResult, error) {
	text, err := idx.extractor.Extract(raw, kind)
	if err != nil {
		return nil, err
	}
	input.Text = text
	return idx.IngestDocument(ctx, input)
}

// IngestFile reads and ingests a file. The document id derives from the
// absolute path so re-ingesting a path updates the same document, and the
// kind is sniffed from the extension (falling back to content sniffing).
func (idx *Indexer) IngestFile(ctx context.Context, path, namespace string) (*models.IngestResult, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var text string
	if kind, ok := extract.DetectKind("", absPath); ok {
		text, err = idx.extractor.Extract(raw, kind)
	} else {
		text, err = idx.extractor.ExtractSniffed(raw)
	}
	if err != nil {
		return nil, err
	}
	return idx.IngestDocument(ctx, &models.IngestInput{
		DocumentID: fileid.FileDocID(absPath),
		Namespace:  namespace,
		Title:      filepath.Base(absPath),
		Text:       text,
		Metadata:   map[string]any{"source": absPath},
	})
}

// DeleteByDocument removes every chunk whose metadata document_id matches,
// however many store pages they span: it lists the first page of matching
// ids, deletes that page, and repeats until a page comes back shorter than
// the store's page size. An explicit loop rather than recursion keeps stack
// depth bounded and makes partial-progress reporting straightforward.
func (idx *Indexer) DeleteByDocument(ctx context.Context, namespace, documentID string) (int, error) {
	ns := idx.namespaceOrDefault(namespace)
	filter := vectorstore.ByDocument(documentID)
	pageSize := idx.store.PageSize()
	deleted := 0
	for {
		ids, _, err := idx.store.ListIDs(ctx, ns, filter, "")
		if err != nil {
			return deleted, &PartialDeleteError{DocumentID: documentID, Deleted: deleted, Err: err}
		}
		if len(ids) == 0 {
			break
		}
		if err := idx.store.DeleteByIDs(ctx, ns, ids); err != nil {
			return deleted, &PartialDeleteError{DocumentID: documentID, Deleted: deleted, Err: err}
		}
		deleted += len(ids)
		if len(ids) < pageSize {
			break
		}
	}
	if idx.logger != nil {
		idx.logger.Debug("document deleted",
			zap.String("document_id", documentID),
			zap.String("namespace", ns),
			zap.Int("chunks", deleted))
	}
	return deleted, nil
}

func (idx *Indexer) namespaceOrDefault(namespace string) string {
	if ns := strings.TrimSpace(namespace); ns != "" {
		return ns
	}
	return idx.index.Namespace
}
