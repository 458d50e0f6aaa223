// Package config provides configuration loading and structs for the vectord service.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the service. The embedding dimension,
// index name, default namespace, and chunk sizing live here and are threaded
// explicitly into the orchestrators at construction, never read from globals.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Index     IndexConfig     `yaml:"index"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Store     StoreConfig     `yaml:"store"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Search    SearchConfig    `yaml:"search"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// IndexConfig identifies the remote index and fixes the embedding dimension
// contract. Every vector written to or queried against the index must have
// exactly EmbedDim components.
type IndexConfig struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace"`
	EmbedDim  int    `yaml:"embed_dim"`
}

// EmbeddingConfig selects and configures the embedding provider.
// API keys are referenced by environment variable name, never stored inline.
type EmbeddingConfig struct {
	Provider          string  `yaml:"provider"` // "openai" or "mock"
	Model             string  `yaml:"model"`
	BaseURL           string  `yaml:"base_url"`
	APIKeyEnv         string  `yaml:"api_key_env"`
	BatchSize         int     `yaml:"batch_size"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// StoreConfig selects and configures the vector store backend.
type StoreConfig struct {
	Provider    string `yaml:"provider"` // "pinecone" or "memory"
	Endpoint    string `yaml:"endpoint"` // index host for pinecone
	APIKeyEnv   string `yaml:"api_key_env"`
	PageSize    int    `yaml:"page_size"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ChunkingConfig configures how normalized text is split into segments.
// All values are in words.
type ChunkingConfig struct {
	Size     int `yaml:"size"`
	Overlap  int `yaml:"overlap"`
	Lookback int `yaml:"lookback"`
}

// SearchConfig holds query-time settings.
type SearchConfig struct {
	DefaultTopK int `yaml:"default_top_k"`
	MaxTopK     int `yaml:"max_top_k"`
}

// WatchConfig holds directory watch settings: watched files are ingested into
// Namespace on change and deleted on removal.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Namespace   string   `yaml:"namespace"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// Load reads and parses the config file at path and applies defaults.
// A missing file is not an error: defaults alone describe a runnable service
// (memory store plus mock embedder).
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}
