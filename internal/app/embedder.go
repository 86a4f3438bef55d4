package app

import (
	"fmt"
	"os"

	"github.com/ziadkadry99/gitaguide/internal/config"
	"github.com/ziadkadry99/gitaguide/internal/embeddings"
	"github.com/ziadkadry99/gitaguide/internal/llm"
)

// nomic-embed-text, the default Ollama embedding model, returns 768 floats.
const defaultOllamaDimensions = 768

// NewEmbedder builds the embedder selected by cfg. Remote embedders need
// their API key in the environment.
func NewEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	model := cfg.ResolvedEmbeddingModel()

	switch cfg.EmbeddingProvider {
	case config.ProviderHash, "":
		return embeddings.NewHashEmbedder(cfg.EmbeddingDimensions), nil

	case config.ProviderOpenAI:
		key := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if key == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is required for openai embeddings", llm.ErrNotConfigured)
		}
		return embeddings.NewOpenAIEmbedder(key, embeddings.OpenAIModel(model), cfg.EmbeddingDimensions), nil

	case config.ProviderGoogle:
		key := os.Getenv(config.APIKeyEnvVar(config.ProviderGoogle))
		if key == "" {
			return nil, fmt.Errorf("%w: GOOGLE_API_KEY is required for google embeddings", llm.ErrNotConfigured)
		}
		return embeddings.NewGoogleEmbedder(key, embeddings.GoogleModel(model)), nil

	case config.ProviderOllama:
		dims := cfg.EmbeddingDimensions
		if dims == 0 {
			dims = defaultOllamaDimensions
		}
		return embeddings.NewOllamaEmbedder(model, dims, os.Getenv("OLLAMA_HOST")), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.EmbeddingProvider)
	}
}

// NewProvider builds the rate limited generation provider. A missing API
// key is not fatal: it returns nil and the caller runs retrieval only.
func NewProvider(cfg *config.Config) (llm.Provider, error) {
	p, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	return llm.NewRateLimitedProvider(p, cfg.RequestsPerMinute), nil
}
