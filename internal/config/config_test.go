package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Index.EmbedDim != 512 {
		t.Errorf("EmbedDim = %d", cfg.Index.EmbedDim)
	}
	if cfg.Index.Name != "rag-main" || cfg.Index.Namespace != "default" {
		t.Errorf("index defaults = %q/%q", cfg.Index.Name, cfg.Index.Namespace)
	}
	if cfg.Store.Provider != "memory" || cfg.Store.PageSize != 100 {
		t.Errorf("store defaults = %q/%d", cfg.Store.Provider, cfg.Store.PageSize)
	}
	if cfg.Search.DefaultTopK != 10 || cfg.Search.MaxTopK != 100 {
		t.Errorf("search defaults = %d/%d", cfg.Search.DefaultTopK, cfg.Search.MaxTopK)
	}
}

func TestLoad_ParsesAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
index:
  name: docs-prod
  embed_dim: 1536
embedding:
  provider: openai
store:
  provider: pinecone
  endpoint: https://docs-prod-abc.svc.pinecone.io
watch:
  directories: ["/srv/docs"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Index.Name != "docs-prod" || cfg.Index.EmbedDim != 1536 {
		t.Errorf("index = %+v", cfg.Index)
	}
	if cfg.Index.Namespace != "default" {
		t.Errorf("namespace default not applied: %q", cfg.Index.Namespace)
	}
	if cfg.Embedding.BatchSize != 32 || cfg.Embedding.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("embedding defaults = %+v", cfg.Embedding)
	}
	if !cfg.Watch.RecursiveOrDefault() {
		t.Error("watch should default to recursive when directories are set")
	}
	if cfg.Watch.Namespace != "default" {
		t.Errorf("watch namespace = %q", cfg.Watch.Namespace)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("index: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
