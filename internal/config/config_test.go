package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "foods.db"
planner:
  flexibility_factor: 1.25
  search_timeout: 2s
generator:
  provider: bedrock
  model: us.anthropic.claude-3-5-haiku-20241022-v1:0
  region: us-east-1
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("database_path should be set")
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
	if cfg.Planner.FlexibilityFactor != 1.25 {
		t.Errorf("flexibility_factor = %v", cfg.Planner.FlexibilityFactor)
	}
	if cfg.Planner.SearchTimeout != 2*time.Second {
		t.Errorf("search_timeout = %v", cfg.Planner.SearchTimeout)
	}
	if cfg.Planner.GenerateTimeout != 120*time.Second {
		t.Errorf("generate_timeout default = %v", cfg.Planner.GenerateTimeout)
	}
	if cfg.Generator.Provider != "bedrock" || cfg.Generator.Region != "us-east-1" {
		t.Errorf("unexpected generator config: %+v", cfg.Generator)
	}
}

func TestLoad_debugTrue(t *testing.T) {
	path := writeConfig(t, `
debug: true
storage:
  database_path: "foods.db"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_invalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected read error")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	path := writeConfig(t, `
storage:
  database_path: "./data/db/foods.db"
corpus:
  directories: ["./corpus"]
  sources: ["./seed/meal_data.csv", "s3://food-bucket/meal_data.csv"]
`)
	dir := filepath.Dir(path)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantDB := filepath.Join(dir, "data", "db", "foods.db")
	if cfg.Storage.DatabasePath != wantDB {
		t.Errorf("database_path = %s, want %s", cfg.Storage.DatabasePath, wantDB)
	}
	if len(cfg.Corpus.Directories) != 1 || cfg.Corpus.Directories[0] != filepath.Join(dir, "corpus") {
		t.Errorf("corpus directories = %v", cfg.Corpus.Directories)
	}
	if cfg.Corpus.Sources[0] != filepath.Join(dir, "seed", "meal_data.csv") {
		t.Errorf("local source = %s", cfg.Corpus.Sources[0])
	}
	if cfg.Corpus.Sources[1] != "s3://food-bucket/meal_data.csv" {
		t.Errorf("s3 source should be untouched, got %s", cfg.Corpus.Sources[1])
	}
}

func TestLoad_envOverrides(t *testing.T) {
	t.Setenv("KONDATE_SERVER_PORT", "9911")
	t.Setenv("KONDATE_GENERATOR_PROVIDER", "groq")
	t.Setenv("KONDATE_GENERATOR_API_KEY", "gsk_test")
	t.Setenv("KONDATE_DEBUG", "true")
	path := writeConfig(t, `
server:
  port: 9000
generator:
  provider: ollama
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9911 {
		t.Errorf("port = %d, want env override 9911", cfg.Server.Port)
	}
	if cfg.Generator.Provider != "groq" || cfg.Generator.APIKey != "gsk_test" {
		t.Errorf("generator = %+v", cfg.Generator)
	}
	if !cfg.Debug {
		t.Error("debug should be enabled by KONDATE_DEBUG")
	}
}

func TestLoad_envFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envPath, []byte("KONDATE_GENERATOR_MODEL=llama3.1:8b\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", envPath)
	// godotenv.Load sets process variables; make sure the test cleans up after itself.
	t.Setenv("KONDATE_GENERATOR_MODEL", "")
	os.Unsetenv("KONDATE_GENERATOR_MODEL")

	cfg, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Generator.Model != "llama3.1:8b" {
		t.Errorf("model = %q, want value from env file", cfg.Generator.Model)
	}
}

func TestApplyEnv_invalidBool(t *testing.T) {
	t.Setenv("KONDATE_DEBUG", "sometimes")
	if err := ApplyEnv(&Config{}); err == nil {
		t.Fatal("expected error for invalid bool")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Search.DefaultLimit != 10 {
		t.Errorf("default limit: got %d", cfg.Search.DefaultLimit)
	}
	if cfg.Search.KeywordWeight != 0.4 || cfg.Search.SemanticWeight != 0.6 {
		t.Errorf("default weights: %v/%v", cfg.Search.KeywordWeight, cfg.Search.SemanticWeight)
	}
	p := cfg.Planner
	if p.RetrievalK != 10 || p.MaxCandidatesPerMeal != 6 || p.FlexibilityFactor != 1.5 || p.PromptCandidates != 4 {
		t.Errorf("planner defaults: %+v", p)
	}
	if p.SearchTimeout == p.GenerateTimeout {
		t.Error("search and generation timeouts should differ by default")
	}
	if cfg.Generator.Provider != "ollama" || cfg.Generator.Timeout != p.GenerateTimeout {
		t.Errorf("generator defaults: %+v", cfg.Generator)
	}
	if len(cfg.Corpus.Extensions) != 6 || cfg.Corpus.Extensions[0] != ".csv" {
		t.Errorf("corpus extensions: got %v", cfg.Corpus.Extensions)
	}
	if cfg.Server.RateLimitBurst != 0 {
		t.Error("burst should stay unset while rate limiting is off")
	}
}

func TestApplyDefaults_CorpusRecursiveWhenDirectoriesSet(t *testing.T) {
	cfg := &Config{Corpus: CorpusConfig{Directories: []string{"/tmp/foods"}}}
	ApplyDefaults(cfg)
	if cfg.Corpus.Recursive == nil || !*cfg.Corpus.Recursive {
		t.Error("recursive should default to true when directories are set")
	}
}

func TestCorpusConfig_RecursiveOrDefault(t *testing.T) {
	t.Run("nil_returns_true", func(t *testing.T) {
		c := &CorpusConfig{}
		if got := c.RecursiveOrDefault(); !got {
			t.Errorf("RecursiveOrDefault() = %v, want true", got)
		}
	})
	t.Run("false_returns_false", func(t *testing.T) {
		f := false
		c := &CorpusConfig{Recursive: &f}
		if got := c.RecursiveOrDefault(); got {
			t.Errorf("RecursiveOrDefault() = %v, want false", got)
		}
	})
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := &Config{
		Server:  ServerConfig{Host: "localhost", Port: 9090},
		Storage: StorageConfig{DatabasePath: "/tmp/db"},
		Planner: PlannerConfig{GenerateTimeout: 45 * time.Second},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
	if loaded.Planner.GenerateTimeout != 45*time.Second {
		t.Errorf("loaded generate_timeout: got %v", loaded.Planner.GenerateTimeout)
	}
}
