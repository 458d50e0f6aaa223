package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Index.Name == "" {
		cfg.Index.Name = "rag-main"
	}
	if cfg.Index.Namespace == "" {
		cfg.Index.Namespace = "default"
	}
	if cfg.Index.EmbedDim == 0 {
		cfg.Index.EmbedDim = 512
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "mock"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 32
	}
	if cfg.Store.Provider == "" {
		cfg.Store.Provider = "memory"
	}
	if cfg.Store.APIKeyEnv == "" {
		cfg.Store.APIKeyEnv = "PINECONE_API_KEY"
	}
	if cfg.Store.PageSize == 0 {
		cfg.Store.PageSize = 100
	}
	if cfg.Store.TimeoutSecs == 0 {
		cfg.Store.TimeoutSecs = 15
	}
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = 200
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = 20
	}
	if cfg.Chunking.Lookback == 0 {
		cfg.Chunking.Lookback = 30
	}
	if cfg.Search.DefaultTopK == 0 {
		cfg.Search.DefaultTopK = 10
	}
	if cfg.Search.MaxTopK == 0 {
		cfg.Search.MaxTopK = 100
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".txt", ".md", ".rst", ".pdf", ".docx"}
	}
	if cfg.Watch.Namespace == "" {
		cfg.Watch.Namespace = cfg.Index.Namespace
	}
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
