// Package config provides configuration loading and structs for the kondate server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Planner   PlannerConfig   `yaml:"planner"`
	Generator GeneratorConfig `yaml:"generator"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CorpusConfig lists where food corpus files come from.
type CorpusConfig struct {
	// Directories are watched and re-ingested on change.
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
	// Sources are ingested once at startup; s3://bucket/key URIs are fetched from S3.
	Sources []string `yaml:"sources"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (c *CorpusConfig) RecursiveOrDefault() bool {
	if c.Recursive != nil {
		return *c.Recursive
	}
	return true
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// RateLimitPerMinute bounds meal plan requests per client IP. Zero disables the limit.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
	RateLimitBurst     int `yaml:"rate_limit_burst"`
}

// StorageConfig holds paths for the food database and indices.
type StorageConfig struct {
	DatabasePath    string `yaml:"database_path"`
	BleveIndexPath  string `yaml:"bleve_index_path"`
	VectorIndexPath string `yaml:"vector_index_path"`
}

// EmbeddingConfig holds ONNX embedder settings.
type EmbeddingConfig struct {
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// SearchConfig holds corpus search settings.
type SearchConfig struct {
	DefaultLimit      int     `yaml:"default_limit"`
	MaxLimit          int     `yaml:"max_limit"`
	TopKCandidates    int     `yaml:"top_k_candidates"`
	KeywordTitleBoost float64 `yaml:"keyword_title_boost"`
	KeywordWeight     float64 `yaml:"keyword_weight"`
	SemanticWeight    float64 `yaml:"semantic_weight"`
}

// PlannerConfig tunes candidate retrieval and plan assembly.
type PlannerConfig struct {
	RetrievalK           int           `yaml:"retrieval_k"`
	MaxCandidatesPerMeal int           `yaml:"max_candidates_per_meal"`
	FlexibilityFactor    float64       `yaml:"flexibility_factor"`
	PromptCandidates     int           `yaml:"prompt_candidates"`
	SearchTimeout        time.Duration `yaml:"search_timeout"`
	GenerateTimeout      time.Duration `yaml:"generate_timeout"`
}

// GeneratorConfig selects and configures the text generation backend.
type GeneratorConfig struct {
	// Provider is one of ollama, bedrock, openai, groq, mock.
	Provider           string        `yaml:"provider"`
	Endpoint           string        `yaml:"endpoint"`
	Model              string        `yaml:"model"`
	APIKey             string        `yaml:"api_key"`
	Temperature        float64       `yaml:"temperature"`
	MaxTokens          int           `yaml:"max_tokens"`
	Region             string        `yaml:"region"`
	Timeout            time.Duration `yaml:"timeout"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute"`
	RateLimitBurst     int           `yaml:"rate_limit_burst"`
}

// TelemetryConfig toggles OpenTelemetry export. Exporters read the standard OTEL_* variables.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Load reads and parses the config file at path, applies environment
// overrides and defaults, and expands paths.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	expandPaths(&cfg, filepath.Dir(path))
	return &cfg, nil
}

// Default returns a config built from defaults and the environment only.
func Default() (*Config, error) {
	var cfg Config
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	wd, _ := os.Getwd()
	expandPaths(&cfg, wd)
	return &cfg, nil
}

// Save writes the config to path. Used for persisting corpus directory changes.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func expandPaths(cfg *Config, configDir string) {
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	cfg.Storage.VectorIndexPath = expandPath(cfg.Storage.VectorIndexPath, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	for i := range cfg.Corpus.Directories {
		cfg.Corpus.Directories[i] = expandPath(cfg.Corpus.Directories[i], configDir)
	}
	for i, src := range cfg.Corpus.Sources {
		if !strings.Contains(src, "://") {
			cfg.Corpus.Sources[i] = expandPath(src, configDir)
		}
	}
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
