package llm

import (
	"fmt"
	"os"
)

// NewProvider creates a provider by name, reading API keys from the
// environment. A missing key or the "none" provider yields an error
// wrapping ErrNotConfigured so callers can fall back to retrieval only.
// Supported: "anthropic", "openai", "openrouter", "google", "ollama".
func NewProvider(providerType string, model string) (Provider, error) {
	switch providerType {
	case "anthropic":
		apiKey, err := requireKey("ANTHROPIC_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewAnthropicProvider(apiKey, model), nil

	case "openai":
		apiKey, err := requireKey("OPENAI_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewOpenAIProvider(apiKey, model), nil

	case "openrouter":
		apiKey, err := requireKey("OPENROUTER_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewOpenAICompatibleProvider("openrouter", apiKey, openRouterBaseURL, model), nil

	case "google":
		apiKey, err := requireKey("GOOGLE_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewGoogleProvider(apiKey, model), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = DefaultOllamaHost
		}
		return NewOllamaProvider(host, model), nil

	case "none", "":
		return nil, ErrNotConfigured

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

func requireKey(envVar string) (string, error) {
	key := os.Getenv(envVar)
	if key == "" {
		return "", fmt.Errorf("%w: %s environment variable is not set", ErrNotConfigured, envVar)
	}
	return key, nil
}
