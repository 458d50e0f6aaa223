package embedding

import (
	"fmt"
	"os"

	"github.com/canopyhq/vectord/internal/config"
)

// New builds the configured Embedder. dimensions is the service-wide
// embedding dimension from the index config; the provider is always invoked
// with it so writes and reads agree.
func New(cfg *config.EmbeddingConfig, dimensions int) (Embedder, error) {
	switch cfg.Provider {
	case "openai":
		key := os.Getenv(cfg.APIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
		}
		return NewOpenAIEmbedder(OpenAIConfig{
			APIKey:            key,
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			Dimensions:        dimensions,
			BatchSize:         cfg.BatchSize,
			RequestsPerSecond: cfg.RequestsPerSecond,
		})
	case "mock":
		return NewMockEmbedder(dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
