package config

import "time"

// QualityTier trades answer quality against latency and cost.
type QualityTier string

const (
	QualityLite   QualityTier = "lite"
	QualityNormal QualityTier = "normal"
	QualityMax    QualityTier = "max"
)

// ProviderType identifies a generation or embedding backend.
type ProviderType string

const (
	ProviderAnthropic  ProviderType = "anthropic"
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderGoogle     ProviderType = "google"
	ProviderOllama     ProviderType = "ollama"
	// ProviderNone disables generation; retrieval still works.
	ProviderNone ProviderType = "none"
	// ProviderHash selects the offline hashing embedder.
	ProviderHash ProviderType = "hash"
)

// Config is the top-level gitaguide configuration, corresponding to .gitaguide.yml.
type Config struct {
	Provider            ProviderType `yaml:"provider" koanf:"provider"`
	Model               string       `yaml:"model" koanf:"model"`
	Quality             QualityTier  `yaml:"quality" koanf:"quality"`
	EmbeddingProvider   ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel      string       `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDimensions int          `yaml:"embedding_dimensions" koanf:"embedding_dimensions"`

	CorpusPath    string `yaml:"corpus_path" koanf:"corpus_path"`
	ProcessedPath string `yaml:"processed_path" koanf:"processed_path"`
	IndexDir      string `yaml:"index_dir" koanf:"index_dir"`
	HistoryDB     string `yaml:"history_db" koanf:"history_db"`

	ChunkSize       int     `yaml:"chunk_size" koanf:"chunk_size"`
	BatchSize       int     `yaml:"batch_size" koanf:"batch_size"`
	MaxResults      int     `yaml:"max_results" koanf:"max_results"`
	MaxContextChars int     `yaml:"max_context_chars" koanf:"max_context_chars"`
	KeywordBonus    float64 `yaml:"keyword_bonus" koanf:"keyword_bonus"`

	RequestsPerMinute int           `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	GenerationTimeout time.Duration `yaml:"generation_timeout" koanf:"generation_timeout"`
	EmbeddingTimeout  time.Duration `yaml:"embedding_timeout" koanf:"embedding_timeout"`

	Server ServerConfig `yaml:"server" koanf:"server"`
}

// ServerConfig holds settings for `gitaguide serve`.
type ServerConfig struct {
	Port int `yaml:"port" koanf:"port"`
	// AllowAll enables CORS for every origin.
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"`
}
