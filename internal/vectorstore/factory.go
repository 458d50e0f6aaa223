package vectorstore

import (
	"fmt"
	"os"
	"time"

	"github.com/canopyhq/vectord/internal/config"
)

// New builds the configured Store.
func New(cfg *config.StoreConfig) (Store, error) {
	switch cfg.Provider {
	case "pinecone":
		key := os.Getenv(cfg.APIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
		}
		return NewPinecone(PineconeConfig{
			Endpoint: cfg.Endpoint,
			APIKey:   key,
			PageSize: cfg.PageSize,
			Timeout:  time.Duration(cfg.TimeoutSecs) * time.Second,
		})
	case "memory":
		return NewMemory(cfg.PageSize), nil
	default:
		return nil, fmt.Errorf("unknown vector store provider %q", cfg.Provider)
	}
}
