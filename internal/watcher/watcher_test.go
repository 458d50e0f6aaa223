package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu       sync.Mutex
	ingested []string
	removed  []string
}

func (r *recorder) onIngest(path string) {
	r.mu.Lock()
	r.ingested = append(r.ingested, path)
	r.mu.Unlock()
}

func (r *recorder) onRemove(path string) {
	r.mu.Lock()
	r.removed = append(r.removed, path)
	r.mu.Unlock()
}

func (r *recorder) ingestedPaths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ingested...)
}

func (r *recorder) removedPaths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.removed...)
}

func TestWatcher_IngestsOnWrite(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	w := NewWatcher([]string{dir}, []string{".txt"}, true, rec.onIngest, rec.onRemove)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(600 * time.Millisecond)
	if got := rec.ingestedPaths(); len(got) < 1 {
		t.Errorf("expected at least one ingest callback, got %v", got)
	}
}

func TestWatcher_ExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	w := NewWatcher([]string{dir}, []string{".txt", ".md"}, true, rec.onIngest, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "keep.md"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "skip.xyz"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(600 * time.Millisecond)
	for _, p := range rec.ingestedPaths() {
		if strings.HasSuffix(p, "skip.xyz") {
			t.Errorf("filtered file was ingested: %v", rec.ingestedPaths())
		}
	}
}

func TestWatcher_RemoveTriggersCallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doomed.txt")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	w := NewWatcher([]string{dir}, []string{".txt"}, true, rec.onIngest, rec.onRemove)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	time.Sleep(600 * time.Millisecond)
	found := false
	for _, p := range rec.removedPaths() {
		if strings.HasSuffix(p, "doomed.txt") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected remove callback for doomed.txt, got %v", rec.removedPaths())
	}
}

func TestWatcher_NewDirectoryAdopted(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	w := NewWatcher([]string{dir}, []string{".txt"}, true, rec.onIngest, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	nested := filepath.Join(dir, "incoming", "batch")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nested, "deep.txt"), []byte("deep"), 0o600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(800 * time.Millisecond)

	found := false
	for _, p := range rec.ingestedPaths() {
		if strings.HasSuffix(p, "deep.txt") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected deep.txt to be ingested, got %v", rec.ingestedPaths())
	}
}

func TestWatcher_SyncExisting(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.bin"), []byte("b"), 0o600); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	w := NewWatcher([]string{dir}, []string{".txt"}, true, rec.onIngest, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	w.SyncExisting()
	got := rec.ingestedPaths()
	if len(got) != 1 || !strings.HasSuffix(got[0], "a.txt") {
		t.Errorf("expected only a.txt, got %v", got)
	}
}

func TestWatcher_StartCreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "watch", "inbox")
	w := NewWatcher([]string{root}, nil, true, nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(root); err != nil {
		t.Errorf("root should exist after Start: %v", err)
	}
}

func TestWantsFile(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/a/b.txt", []string{".txt"}, true},
		{"/a/b.TXT", []string{"txt"}, true},
		{"/a/b.md", []string{".txt"}, false},
		{"/a/b", nil, true},
	}
	for _, tt := range tests {
		w := NewWatcher(nil, tt.extensions, true, nil, nil)
		if got := w.wantsFile(tt.path); got != tt.want {
			t.Errorf("wantsFile(%q) with %v = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}
