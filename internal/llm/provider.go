package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned when no generation provider is available,
// usually because its API key is missing.
var ErrNotConfigured = errors.New("generation provider is not configured")

const (
	// DefaultMaxTokens bounds a single guidance answer.
	DefaultMaxTokens = 1024
	// DefaultTemperature matches the tone the prompts were tuned for.
	DefaultTemperature = 0.7
)

// Provider defines the interface for LLM providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

// GenerationError reports a failed or empty model call.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generate sends prompt as a single user turn and returns the model's
// answer. A nil provider yields ErrNotConfigured. There are no retries.
func Generate(ctx context.Context, p Provider, prompt string) (*CompletionResponse, error) {
	if p == nil {
		return nil, ErrNotConfigured
	}

	resp, err := p.Complete(ctx, CompletionRequest{
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	})
	if err != nil {
		return nil, &GenerationError{Provider: p.Name(), Err: err}
	}
	if strings.TrimSpace(resp.Content) == "" {
		return nil, &GenerationError{Provider: p.Name(), Err: errors.New("empty response")}
	}
	return resp, nil
}
