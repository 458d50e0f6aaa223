package vectorstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakePinecone implements just enough of the data-plane API for the client tests.
type fakePinecone struct {
	t        *testing.T
	upserts  []map[string]any
	deleted  [][]string
	listResp map[string]any // returned by /vectors/list, keyed off paginationToken
	fail     bool
}

// handleMethod registers pattern on mux, accepting only the given method.
// Equivalent to the go1.22+ "METHOD /path" mux patterns, but works on go1.21.
func handleMethod(mux *http.ServeMux, method, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	})
}

func (f *fakePinecone) handler() http.Handler {
	mux := http.NewServeMux()
	handleMethod(mux, http.MethodPost, "/vectors/upsert", func(w http.ResponseWriter, r *http.Request) {
		if f.fail {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.upserts = append(f.upserts, body)
		_ = json.NewEncoder(w).Encode(map[string]int{"upsertedCount": 1})
	})
	handleMethod(mux, http.MethodPost, "/query", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["includeMetadata"] != true {
			f.t.Error("query should request metadata")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"matches": []map[string]any{
				{"id": "doc:0", "score": 0.93, "metadata": map[string]any{"document_id": "doc"}},
				{"id": "doc:4", "score": 0.81, "metadata": map[string]any{"document_id": "doc"}},
			},
		})
	})
	handleMethod(mux, http.MethodGet, "/vectors/list", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("prefix") != "doc:" {
			f.t.Errorf("prefix = %q", r.URL.Query().Get("prefix"))
		}
		token := r.URL.Query().Get("paginationToken")
		resp, ok := f.listResp[token]
		if !ok {
			f.t.Errorf("unexpected pagination token %q", token)
			resp = map[string]any{"vectors": []any{}}
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	handleMethod(mux, http.MethodPost, "/vectors/delete", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			IDs []string `json:"ids"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.deleted = append(f.deleted, body.IDs)
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})
	return mux
}

func newTestClient(t *testing.T, f *fakePinecone) *Pinecone {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	p, err := NewPinecone(PineconeConfig{Endpoint: srv.URL, APIKey: "test-key", PageSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPinecone_Upsert(t *testing.T) {
	f := &fakePinecone{t: t}
	p := newTestClient(t, f)
	err := p.Upsert(context.Background(), "ns", []*Point{
		{ID: "doc:0", Values: []float32{0.1, 0.2}, Metadata: map[string]any{"document_id": "doc"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(f.upserts) != 1 {
		t.Fatalf("got %d upsert calls", len(f.upserts))
	}
	if f.upserts[0]["namespace"] != "ns" {
		t.Errorf("namespace = %v", f.upserts[0]["namespace"])
	}
}

func TestPinecone_UpsertError(t *testing.T) {
	f := &fakePinecone{t: t, fail: true}
	p := newTestClient(t, f)
	err := p.Upsert(context.Background(), "ns", []*Point{{ID: "x"}})
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if storeErr.Op != "upsert" {
		t.Errorf("Op = %q", storeErr.Op)
	}
}

func TestPinecone_Query(t *testing.T) {
	f := &fakePinecone{t: t}
	p := newTestClient(t, f)
	matches, err := p.Query(context.Background(), "ns", []float32{1, 0}, 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches", len(matches))
	}
	if matches[0].ID != "doc:0" || matches[0].Score != 0.93 {
		t.Errorf("first match = %+v", matches[0])
	}
}

func TestPinecone_ListIDsPagination(t *testing.T) {
	f := &fakePinecone{t: t, listResp: map[string]any{
		"": map[string]any{
			"vectors":    []map[string]string{{"id": "doc:0"}, {"id": "doc:1"}},
			"pagination": map[string]string{"next": "tok-1"},
		},
		"tok-1": map[string]any{
			"vectors": []map[string]string{{"id": "doc:2"}},
		},
	}}
	p := newTestClient(t, f)

	ids, next, err := p.ListIDs(context.Background(), "ns", ByDocument("doc"), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || next != "tok-1" {
		t.Fatalf("first page = %v, next = %q", ids, next)
	}
	ids, next, err = p.ListIDs(context.Background(), "ns", ByDocument("doc"), next)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || next != "" {
		t.Fatalf("second page = %v, next = %q", ids, next)
	}
}

func TestPinecone_ListIDsRequiresDocumentFilter(t *testing.T) {
	f := &fakePinecone{t: t}
	p := newTestClient(t, f)
	_, _, err := p.ListIDs(context.Background(), "ns", Filter{"lang": "en"}, "")
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
}

func TestPinecone_DeleteByIDs(t *testing.T) {
	f := &fakePinecone{t: t}
	p := newTestClient(t, f)
	if err := p.DeleteByIDs(context.Background(), "ns", []string{"doc:0", "doc:1"}); err != nil {
		t.Fatal(err)
	}
	if len(f.deleted) != 1 || len(f.deleted[0]) != 2 {
		t.Errorf("deleted = %v", f.deleted)
	}
}

func TestFilterDocumentID(t *testing.T) {
	if id, ok := filterDocumentID(ByDocument("d1")); !ok || id != "d1" {
		t.Errorf("scalar form: %q, %v", id, ok)
	}
	if id, ok := filterDocumentID(Filter{"document_id": map[string]any{"$eq": "d2"}}); !ok || id != "d2" {
		t.Errorf("operator form: %q, %v", id, ok)
	}
	if _, ok := filterDocumentID(Filter{"lang": "en"}); ok {
		t.Error("missing document_id should not match")
	}
}
