package vectorstore

import (
	"context"
	"sort"
	"sync"

	"github.com/canopyhq/vectord/internal/models"
)

// Memory is an in-memory Store with cosine similarity. It backs tests and
// single-process deployments. ListIDs paginates exactly like a remote store
// so the delete-drain loop behaves identically against either backend.
type Memory struct {
	mu         sync.RWMutex
	pageSize   int
	namespaces map[string]map[string]*Point
}

// NewMemory creates an in-memory store whose ListIDs pages hold up to
// pageSize ids.
func NewMemory(pageSize int) *Memory {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Memory{
		pageSize:   pageSize,
		namespaces: make(map[string]map[string]*Point),
	}
}

// Upsert inserts or overwrites points by id, creating the namespace on first write.
func (m *Memory) Upsert(ctx context.Context, namespace string, points []*Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.namespaces[namespace]
	if !ok {
		ns = make(map[string]*Point)
		m.namespaces[namespace] = ns
	}
	for _, p := range points {
		values := make([]float32, len(p.Values))
		copy(values, p.Values)
		metadata := make(map[string]any, len(p.Metadata))
		for k, v := range p.Metadata {
			metadata[k] = v
		}
		ns[p.ID] = &Point{ID: p.ID, Values: values, Metadata: metadata}
	}
	return nil
}

// Query ranks the namespace's points by cosine similarity to vector,
// descending, and returns at most topK matches.
func (m *Memory) Query(ctx context.Context, namespace string, vector []float32, topK int, filter Filter) ([]*models.QueryMatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matches := make([]*models.QueryMatch, 0)
	for _, p := range m.namespaces[namespace] {
		if !matchesFilter(p.Metadata, filter) {
			continue
		}
		matches = append(matches, &models.QueryMatch{
			ID:       p.ID,
			Score:    Cosine(vector, p.Values),
			Metadata: p.Metadata,
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// ListIDs returns matching ids in lexicographic order, one page at a time.
// The page token is the last id of the previous page; enumeration is safe
// across interleaved deletions because the token is a watermark, not an offset.
func (m *Memory) ListIDs(ctx context.Context, namespace string, filter Filter, pageToken string) ([]string, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]string, 0)
	for id, p := range m.namespaces[namespace] {
		if pageToken != "" && id <= pageToken {
			continue
		}
		if !matchesFilter(p.Metadata, filter) {
			continue
		}
		all = append(all, id)
	}
	sort.Strings(all)
	if len(all) <= m.pageSize {
		return all, "", nil
	}
	page := all[:m.pageSize]
	return page, page[len(page)-1], nil
}

// DeleteByIDs removes ids from the namespace; unknown ids are ignored.
func (m *Memory) DeleteByIDs(ctx context.Context, namespace string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns := m.namespaces[namespace]
	for _, id := range ids {
		delete(ns, id)
	}
	return nil
}

// PageSize returns the maximum ListIDs page length.
func (m *Memory) PageSize() int { return m.pageSize }

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// matchesFilter reports whether metadata satisfies every filter entry.
// Values compare by scalar equality; {"$eq": v} operator maps are unwrapped.
func matchesFilter(metadata map[string]any, filter Filter) bool {
	for key, want := range filter {
		if op, ok := want.(map[string]any); ok {
			if eq, ok := op["$eq"]; ok {
				want = eq
			}
		}
		if !scalarEqual(metadata[key], want) {
			return false
		}
	}
	return true
}

// scalarEqual compares metadata scalars, treating all numeric types as equal
// when their values match (JSON decoding yields float64 for every number).
func scalarEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
