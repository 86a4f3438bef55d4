package config

import "time"

// QualityPreset names the generation model for a provider and tier.
type QualityPreset struct {
	Model string
}

var qualityPresets = map[ProviderType]map[QualityTier]QualityPreset{
	ProviderAnthropic: {
		QualityLite:   {Model: "claude-haiku-4-5-20251001"},
		QualityNormal: {Model: "claude-sonnet-4-5-20250929"},
		QualityMax:    {Model: "claude-opus-4-6"},
	},
	ProviderOpenAI: {
		QualityLite:   {Model: "gpt-4o-mini"},
		QualityNormal: {Model: "gpt-4o"},
		QualityMax:    {Model: "gpt-4o"},
	},
	ProviderOpenRouter: {
		QualityLite:   {Model: "google/gemini-2.5-flash"},
		QualityNormal: {Model: "anthropic/claude-sonnet-4.5"},
		QualityMax:    {Model: "anthropic/claude-opus-4.1"},
	},
	ProviderGoogle: {
		QualityLite:   {Model: "gemini-2.0-flash"},
		QualityNormal: {Model: "gemini-2.5-flash"},
		QualityMax:    {Model: "gemini-2.5-pro"},
	},
	ProviderOllama: {
		QualityLite:   {Model: "llama3"},
		QualityNormal: {Model: "llama3"},
		QualityMax:    {Model: "llama3:70b"},
	},
}

// defaultEmbeddingModels is used when embedding_model is left empty.
var defaultEmbeddingModels = map[ProviderType]string{
	ProviderOpenAI: "text-embedding-3-small",
	ProviderGoogle: "text-embedding-004",
	ProviderOllama: "nomic-embed-text",
}

// DefaultConfig returns a Config that works offline: hashed embeddings and
// Gemini for generation once GOOGLE_API_KEY is set.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderGoogle,
		Model:             "gemini-2.5-flash",
		Quality:           QualityNormal,
		EmbeddingProvider: ProviderHash,
		CorpusPath:        "data/*.json",
		ProcessedPath:     "data/processed/gita_processed.json",
		IndexDir:          ".gitaguide/index",
		HistoryDB:         ".gitaguide/history.db",
		ChunkSize:         3,
		BatchSize:         100,
		MaxResults:        8,
		MaxContextChars:   2000,
		RequestsPerMinute: 60,
		GenerationTimeout: 60 * time.Second,
		EmbeddingTimeout:  30 * time.Second,
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// GetPreset returns the preset for provider and tier, falling back to the
// normal Google preset.
func GetPreset(provider ProviderType, tier QualityTier) QualityPreset {
	if tiers, ok := qualityPresets[provider]; ok {
		if preset, ok := tiers[tier]; ok {
			return preset
		}
	}
	return qualityPresets[ProviderGoogle][QualityNormal]
}

// ResolvedEmbeddingModel returns the configured embedding model or the
// provider default.
func (c *Config) ResolvedEmbeddingModel() string {
	if c.EmbeddingModel != "" {
		return c.EmbeddingModel
	}
	return defaultEmbeddingModels[c.EmbeddingProvider]
}
