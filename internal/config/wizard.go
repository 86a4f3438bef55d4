package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// WizardAnswers are the choices collected by RunWizard.
type WizardAnswers struct {
	Provider          ProviderType
	Quality           QualityTier
	EmbeddingProvider ProviderType
	CorpusPath        string
}

// FromAnswers builds a Config from wizard answers on top of the defaults.
func FromAnswers(a WizardAnswers) *Config {
	cfg := DefaultConfig()
	cfg.Provider = a.Provider
	cfg.Quality = a.Quality
	cfg.Model = ""
	if a.Provider != ProviderNone {
		cfg.Model = GetPreset(a.Provider, a.Quality).Model
	}
	cfg.EmbeddingProvider = a.EmbeddingProvider
	cfg.EmbeddingModel = defaultEmbeddingModels[a.EmbeddingProvider]
	if a.CorpusPath != "" {
		cfg.CorpusPath = a.CorpusPath
	}
	return cfg
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("value is required")
	}
	return nil
}

// RunWizard asks for the provider, quality, embedding backend and corpus
// location, then saves the result to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to gitaguide! Let's set up your guide.")
	fmt.Println()

	providerPrompt := promptui.Select{
		Label: "Select the model provider that writes answers",
		Items: []string{"google", "openai", "anthropic", "openrouter", "ollama", "none"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}

	quality := QualityNormal
	if ProviderType(providerStr) != ProviderNone {
		qualityPrompt := promptui.Select{
			Label: "Select quality tier",
			Items: []string{
				"lite: fastest and cheapest",
				"normal: balanced",
				"max: most thoughtful answers",
			},
			CursorPos: 1,
		}
		idx, _, err := qualityPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("quality selection: %w", err)
		}
		quality = []QualityTier{QualityLite, QualityNormal, QualityMax}[idx]
	}

	embeddingPrompt := promptui.Select{
		Label: "Select embeddings (hash works offline)",
		Items: []string{"hash", "openai", "google", "ollama"},
	}
	_, embeddingStr, err := embeddingPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding selection: %w", err)
	}

	corpusPrompt := promptui.Prompt{
		Label:    "Corpus JSON file or glob",
		Default:  DefaultConfig().CorpusPath,
		Validate: notBlank,
	}
	corpus, err := corpusPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("corpus path: %w", err)
	}

	cfg := FromAnswers(WizardAnswers{
		Provider:          ProviderType(providerStr),
		Quality:           quality,
		EmbeddingProvider: ProviderType(embeddingStr),
		CorpusPath:        strings.TrimSpace(corpus),
	})

	for _, p := range []ProviderType{cfg.Provider, cfg.EmbeddingProvider} {
		if envVar := APIKeyEnvVar(p); envVar != "" && os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: set %s in your environment or .env before running gitaguide.\n", envVar)
		}
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
