package cmd

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ziadkadry99/gitaguide/internal/app"
	"github.com/ziadkadry99/gitaguide/internal/config"
	"github.com/ziadkadry99/gitaguide/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `gitaguide init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openApp loads config and builds the App. With needIndex the persisted
// index is loaded too.
func openApp(ctx context.Context, opts app.Options, needIndex bool) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a, err := app.New(cfg, opts)
	if err != nil {
		return nil, err
	}
	if needIndex {
		if err := a.LoadIndex(ctx); err != nil {
			a.Close()
			if errors.Is(err, vectordb.ErrEmbeddingMismatch) {
				return nil, fmt.Errorf("%w\nRun `gitaguide index --reset` to rebuild it", err)
			}
			return nil, err
		}
	}
	return a, nil
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
