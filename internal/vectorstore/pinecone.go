package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/canopyhq/vectord/internal/models"
)

// PineconeConfig configures the Pinecone data-plane client.
type PineconeConfig struct {
	Endpoint string // index host, e.g. https://rag-main-abc123.svc.pinecone.io
	APIKey   string
	PageSize int
	Timeout  time.Duration
}

// Pinecone is a minimal REST client for the Pinecone serverless data plane.
// Serverless indexes do not support delete-by-metadata-filter, so removing a
// document means draining pages of ids via ListIDs + DeleteByIDs. The list
// endpoint is id-prefix based; chunk ids embed their document id as
// "<document_id>:<n>", which is what makes the document_id filter mappable
// onto a prefix.
type Pinecone struct {
	endpoint string
	apiKey   string
	pageSize int
	client   *http.Client
}

// NewPinecone creates a client for the given index endpoint.
func NewPinecone(cfg PineconeConfig) (*Pinecone, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("pinecone: endpoint is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: API key is required")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Pinecone{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		pageSize: cfg.PageSize,
		client:   &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Upsert writes points into the namespace, overwriting existing ids.
func (p *Pinecone) Upsert(ctx context.Context, namespace string, points []*Point) error {
	body := map[string]any{
		"vectors":   points,
		"namespace": namespace,
	}
	if err := p.postJSON(ctx, "/vectors/upsert", body, nil); err != nil {
		return &StoreError{Op: "upsert", Err: err}
	}
	return nil
}

// Query runs a similarity query and returns matches in Pinecone's ranking
// order with scores unmodified.
func (p *Pinecone) Query(ctx context.Context, namespace string, vector []float32, topK int, filter Filter) ([]*models.QueryMatch, error) {
	body := map[string]any{
		"namespace":       namespace,
		"vector":          vector,
		"topK":            topK,
		"includeMetadata": true,
		"includeValues":   false,
	}
	if len(filter) > 0 {
		body["filter"] = filter
	}
	var resp struct {
		Matches []struct {
			ID       string         `json:"id"`
			Score    float32        `json:"score"`
			Metadata map[string]any `json:"metadata"`
		} `json:"matches"`
	}
	if err := p.postJSON(ctx, "/query", body, &resp); err != nil {
		return nil, &StoreError{Op: "query", Err: err}
	}
	matches := make([]*models.QueryMatch, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, &models.QueryMatch{ID: m.ID, Score: m.Score, Metadata: m.Metadata})
	}
	return matches, nil
}

// ListIDs enumerates ids for the filter's document_id one page at a time,
// mapped onto Pinecone's prefix-based list endpoint. Filters other than
// document_id equality are not supported by the serverless list API.
func (p *Pinecone) ListIDs(ctx context.Context, namespace string, filter Filter, pageToken string) ([]string, string, error) {
	docID, ok := filterDocumentID(filter)
	if !ok {
		return nil, "", &StoreError{Op: "list", Err: fmt.Errorf("only document_id filters are supported, got %v", filter)}
	}
	params := url.Values{}
	params.Set("namespace", namespace)
	params.Set("prefix", docID+":")
	params.Set("limit", strconv.Itoa(p.pageSize))
	if pageToken != "" {
		params.Set("paginationToken", pageToken)
	}
	var resp struct {
		Vectors []struct {
			ID string `json:"id"`
		} `json:"vectors"`
		Pagination struct {
			Next string `json:"next"`
		} `json:"pagination"`
	}
	if err := p.getJSON(ctx, "/vectors/list?"+params.Encode(), &resp); err != nil {
		return nil, "", &StoreError{Op: "list", Err: err}
	}
	ids := make([]string, 0, len(resp.Vectors))
	for _, v := range resp.Vectors {
		ids = append(ids, v.ID)
	}
	return ids, resp.Pagination.Next, nil
}

// DeleteByIDs removes the given ids; ids not present are ignored upstream.
func (p *Pinecone) DeleteByIDs(ctx context.Context, namespace string, ids []string) error {
	body := map[string]any{
		"ids":       ids,
		"namespace": namespace,
	}
	if err := p.postJSON(ctx, "/vectors/delete", body, nil); err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	return nil
}

// PageSize returns the configured list page size.
func (p *Pinecone) PageSize() int { return p.pageSize }

// Close is a no-op; the underlying http.Client needs no teardown.
func (p *Pinecone) Close() error { return nil }

// filterDocumentID extracts a document_id equality constraint, accepting both
// the scalar and the {"$eq": v} operator forms.
func filterDocumentID(filter Filter) (string, bool) {
	v, ok := filter["document_id"]
	if !ok {
		return "", false
	}
	if op, ok := v.(map[string]any); ok {
		v = op["$eq"]
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func (p *Pinecone) postJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return p.do(req, out)
}

func (p *Pinecone) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+path, nil)
	if err != nil {
		return err
	}
	return p.do(req, out)
}

func (p *Pinecone) do(req *http.Request, out any) error {
	req.Header.Set("Api-Key", p.apiKey)
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: %s: %s", req.Method, req.URL.Path, resp.Status, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
