package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/canopyhq/vectord/internal/embedding"
	"github.com/canopyhq/vectord/internal/extract"
	"github.com/canopyhq/vectord/internal/indexer"
	"github.com/canopyhq/vectord/internal/models"
	"github.com/canopyhq/vectord/internal/vectorstore"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxUploadBytes = 32 << 20

// handleIngestDocument accepts either a JSON IngestInput body or a multipart
// upload with a "file" part plus optional document_id, namespace, and title
// fields. Uploaded files are extracted by detected kind before ingestion.
func (s *Server) handleIngestDocument(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		s.handleIngestUpload(w, r)
		return
	}

	var input models.IngestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("ingest request",
		zap.String("document_id", input.DocumentID),
		zap.String("namespace", input.Namespace))
	result, err := s.indexer.IngestDocument(r.Context(), &input)
	if err != nil {
		s.logger.Error("ingest failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleIngestUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()
	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read file part")
		return
	}

	input := &models.IngestInput{
		DocumentID: r.FormValue("document_id"),
		Namespace:  r.FormValue("namespace"),
		Title:      r.FormValue("title"),
	}
	if input.Title == "" {
		input.Title = header.Filename
	}
	s.logger.Debug("ingest upload request",
		zap.String("filename", header.Filename),
		zap.String("document_id", input.DocumentID))

	var result *models.IngestResult
	if kind, ok := extract.DetectKind(header.Header.Get("Content-Type"), header.Filename); ok {
		result, err = s.indexer.IngestRaw(r.Context(), input, raw, kind)
	} else {
		text, exErr := s.extractor.ExtractSniffed(raw)
		if exErr != nil {
			err = exErr
		} else {
			input.Text = text
			result, err = s.indexer.IngestDocument(r.Context(), input)
		}
	}
	if err != nil {
		s.logger.Error("ingest upload failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	namespace := r.URL.Query().Get("namespace")
	s.logger.Debug("delete document request",
		zap.String("document_id", id),
		zap.String("namespace", namespace))
	deleted, err := s.indexer.DeleteByDocument(r.Context(), namespace, id)
	if err != nil {
		s.logger.Error("deletion failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	if namespace == "" {
		namespace = s.index.Namespace
	}
	s.respondJSON(w, http.StatusOK, &models.DeleteResult{
		DocumentID: id,
		Namespace:  namespace,
		Deleted:    deleted,
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("query request",
		zap.String("namespace", req.Namespace),
		zap.Int("top_k", req.TopK))
	response, err := s.engine.Query(r.Context(), &req)
	if err != nil {
		s.logger.Error("query failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

// handleExtract extracts text from an uploaded file without indexing it.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()
	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read file part")
		return
	}

	var text string
	if kind, ok := extract.DetectKind(header.Header.Get("Content-Type"), header.Filename); ok {
		text, err = s.extractor.Extract(raw, kind)
	} else {
		text, err = s.extractor.ExtractSniffed(raw)
	}
	if err != nil {
		s.logger.Error("extraction failed", zap.Error(err), zap.String("filename", header.Filename))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"filename": header.Filename,
		"text":     text,
	})
}

type embedRequest struct {
	Texts []string `json:"texts"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Dim        int         `json:"dim"`
}

// handleEmbed embeds raw texts without storing anything, for clients that
// manage their own vectors.
func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	var req embedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Texts) == 0 {
		s.respondError(w, http.StatusBadRequest, "texts is required")
		return
	}
	embeddings, err := s.embedder.EmbedBatch(r.Context(), req.Texts)
	if err != nil {
		s.logger.Error("embedding failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, &embedResponse{
		Embeddings: embeddings,
		Dim:        s.embedder.Dimensions(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"index":     s.index.Name,
		"namespace": s.index.Namespace,
		"embed_dim": s.index.EmbedDim,
	})
}

// statusForError maps domain errors to HTTP statuses: malformed input is a
// client error, upstream provider and store failures surface as bad gateway.
func statusForError(err error) int {
	var extractionErr *extract.ExtractionError
	var dimensionErr *embedding.DimensionError
	var providerErr *embedding.ProviderError
	var storeErr *vectorstore.StoreError
	var partialErr *indexer.PartialDeleteError
	switch {
	case errors.Is(err, models.ErrInvalidQuery),
		errors.Is(err, extract.ErrUnsupportedKind),
		errors.As(err, &extractionErr),
		errors.As(err, &dimensionErr):
		return http.StatusBadRequest
	case errors.As(err, &providerErr),
		errors.As(err, &storeErr),
		errors.As(err, &partialErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
