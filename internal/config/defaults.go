package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerMinute > 0 && cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/kondate/data/db/foods.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "/usr/local/var/kondate/data/indices/bleve"
	}
	if cfg.Storage.VectorIndexPath == "" {
		cfg.Storage.VectorIndexPath = "/usr/local/var/kondate/data/indices/vectors.bin"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/kondate/data/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 128
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.TopKCandidates == 0 {
		cfg.Search.TopKCandidates = 50
	}
	if cfg.Search.KeywordTitleBoost == 0 {
		cfg.Search.KeywordTitleBoost = 3.0
	}
	if cfg.Search.KeywordWeight == 0 && cfg.Search.SemanticWeight == 0 {
		cfg.Search.KeywordWeight = 0.4
		cfg.Search.SemanticWeight = 0.6
	}
	if cfg.Planner.RetrievalK == 0 {
		cfg.Planner.RetrievalK = 10
	}
	if cfg.Planner.MaxCandidatesPerMeal == 0 {
		cfg.Planner.MaxCandidatesPerMeal = 6
	}
	if cfg.Planner.FlexibilityFactor == 0 {
		cfg.Planner.FlexibilityFactor = 1.5
	}
	if cfg.Planner.PromptCandidates == 0 {
		cfg.Planner.PromptCandidates = 4
	}
	if cfg.Planner.SearchTimeout == 0 {
		cfg.Planner.SearchTimeout = 5 * time.Second
	}
	if cfg.Planner.GenerateTimeout == 0 {
		cfg.Planner.GenerateTimeout = 120 * time.Second
	}
	if cfg.Generator.Provider == "" {
		cfg.Generator.Provider = "ollama"
	}
	if cfg.Generator.Timeout == 0 {
		cfg.Generator.Timeout = cfg.Planner.GenerateTimeout
	}
	if cfg.Corpus.Extensions == nil {
		cfg.Corpus.Extensions = []string{".csv", ".xlsx", ".pdf", ".docx", ".txt", ".md"}
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Corpus.Directories) > 0 && cfg.Corpus.Recursive == nil {
		t := true
		cfg.Corpus.Recursive = &t
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "kondate"
	}
}
