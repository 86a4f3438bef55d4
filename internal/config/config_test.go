package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderGoogle {
		t.Errorf("expected default provider %q, got %q", ProviderGoogle, cfg.Provider)
	}
	if cfg.EmbeddingProvider != ProviderHash {
		t.Errorf("expected default embedding provider %q, got %q", ProviderHash, cfg.EmbeddingProvider)
	}
	if cfg.ChunkSize != 3 {
		t.Errorf("expected default chunk_size 3, got %d", cfg.ChunkSize)
	}
	if cfg.MaxResults != 8 || cfg.MaxContextChars != 2000 {
		t.Errorf("unexpected retrieval defaults: %d/%d", cfg.MaxResults, cfg.MaxContextChars)
	}
	if cfg.KeywordBonus != 0 {
		t.Errorf("keyword bonus should be off by default, got %f", cfg.KeywordBonus)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", FileName)

	original := DefaultConfig()
	original.Provider = ProviderOpenAI
	original.Model = "gpt-4o"
	original.Quality = QualityMax
	original.EmbeddingProvider = ProviderOpenAI
	original.EmbeddingDimensions = 512
	original.KeywordBonus = 0.05
	original.GenerationTimeout = 90 * time.Second
	original.Server.Port = 9090
	original.Server.AllowAll = true

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.Quality != original.Quality {
		t.Errorf("quality: got %q, want %q", loaded.Quality, original.Quality)
	}
	if loaded.EmbeddingDimensions != 512 {
		t.Errorf("embedding_dimensions: got %d, want 512", loaded.EmbeddingDimensions)
	}
	if loaded.KeywordBonus != original.KeywordBonus {
		t.Errorf("keyword_bonus: got %f, want %f", loaded.KeywordBonus, original.KeywordBonus)
	}
	if loaded.GenerationTimeout != original.GenerationTimeout {
		t.Errorf("generation_timeout: got %s, want %s", loaded.GenerationTimeout, original.GenerationTimeout)
	}
	if loaded.Server != original.Server {
		t.Errorf("server: got %+v, want %+v", loaded.Server, original.Server)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Provider != ProviderGoogle {
		t.Errorf("expected default provider, got %q", cfg.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("GITAGUIDE_PROVIDER", "ollama")
	t.Setenv("GITAGUIDE_MAX_RESULTS", "5")
	t.Setenv("GITAGUIDE_SERVER__PORT", "7070")
	t.Setenv("GITAGUIDE_EMBEDDING_TIMEOUT", "5s")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Provider != ProviderOllama {
		t.Errorf("env override failed: got %q, want %q", loaded.Provider, ProviderOllama)
	}
	if loaded.MaxResults != 5 {
		t.Errorf("max_results: got %d, want 5", loaded.MaxResults)
	}
	if loaded.Server.Port != 7070 {
		t.Errorf("server.port: got %d, want 7070", loaded.Server.Port)
	}
	if loaded.EmbeddingTimeout != 5*time.Second {
		t.Errorf("embedding_timeout: got %s, want 5s", loaded.EmbeddingTimeout)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("provider: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"no generation", func(c *Config) { c.Provider = ProviderNone; c.Model = "" }, false},
		{"invalid provider", func(c *Config) { c.Provider = "invalid" }, true},
		{"empty provider", func(c *Config) { c.Provider = "" }, true},
		{"empty model", func(c *Config) { c.Model = "" }, true},
		{"hash is not a generator", func(c *Config) { c.Provider = ProviderHash }, true},
		{"invalid embedding provider", func(c *Config) { c.EmbeddingProvider = "anthropic" }, true},
		{"invalid quality", func(c *Config) { c.Quality = "ultra" }, true},
		{"empty corpus path", func(c *Config) { c.CorpusPath = "" }, true},
		{"empty index dir", func(c *Config) { c.IndexDir = "" }, true},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, true},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, true},
		{"zero max results", func(c *Config) { c.MaxResults = 0 }, true},
		{"zero context budget", func(c *Config) { c.MaxContextChars = 0 }, true},
		{"negative keyword bonus", func(c *Config) { c.KeywordBonus = -1 }, true},
		{"negative rpm", func(c *Config) { c.RequestsPerMinute = -1 }, true},
		{"negative timeout", func(c *Config) { c.GenerationTimeout = -time.Second }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset(ProviderAnthropic, QualityLite)
	if p.Model != "claude-haiku-4-5-20251001" {
		t.Errorf("expected haiku model, got %q", p.Model)
	}

	p = GetPreset(ProviderGoogle, QualityNormal)
	if p.Model != "gemini-2.5-flash" {
		t.Errorf("expected gemini-2.5-flash, got %q", p.Model)
	}

	p = GetPreset("unknown", QualityLite)
	if p.Model != "gemini-2.5-flash" {
		t.Errorf("expected fallback to gemini-2.5-flash, got %q", p.Model)
	}
}

func TestResolvedEmbeddingModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmbeddingProvider = ProviderOpenAI
	if got := cfg.ResolvedEmbeddingModel(); got != "text-embedding-3-small" {
		t.Errorf("got %q, want provider default", got)
	}
	cfg.EmbeddingModel = "text-embedding-3-large"
	if got := cfg.ResolvedEmbeddingModel(); got != "text-embedding-3-large" {
		t.Errorf("got %q, want explicit model", got)
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderOpenRouter, "OPENROUTER_API_KEY"},
		{ProviderGoogle, "GOOGLE_API_KEY"},
		{ProviderOllama, ""},
		{ProviderHash, ""},
	}
	for _, tt := range tests {
		got := APIKeyEnvVar(tt.provider)
		if got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestFromAnswers(t *testing.T) {
	cfg := FromAnswers(WizardAnswers{
		Provider:          ProviderAnthropic,
		Quality:           QualityMax,
		EmbeddingProvider: ProviderOllama,
		CorpusPath:        "gita/*.json",
	})
	if cfg.Model != "claude-opus-4-6" {
		t.Errorf("model = %q", cfg.Model)
	}
	if cfg.EmbeddingModel != "nomic-embed-text" {
		t.Errorf("embedding model = %q", cfg.EmbeddingModel)
	}
	if cfg.CorpusPath != "gita/*.json" {
		t.Errorf("corpus path = %q", cfg.CorpusPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("wizard config should validate: %v", err)
	}

	none := FromAnswers(WizardAnswers{Provider: ProviderNone, Quality: QualityNormal, EmbeddingProvider: ProviderHash})
	if none.Model != "" {
		t.Errorf("model should be empty without a provider, got %q", none.Model)
	}
	if err := none.Validate(); err != nil {
		t.Errorf("retrieval-only config should validate: %v", err)
	}
}

func TestNotBlank(t *testing.T) {
	if notBlank("  ") == nil {
		t.Error("expected error for blank input")
	}
	if notBlank("data/gita.json") != nil {
		t.Error("unexpected error for non-blank input")
	}
}
