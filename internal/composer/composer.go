// Package composer turns a question and its verse context into an answer
// from the configured model. It never returns an error: failures become a
// Result with Error set and a message that is safe to show the user.
package composer

import (
	"context"
	"errors"
	"time"

	"github.com/ziadkadry99/gitaguide/internal/llm"
	"github.com/ziadkadry99/gitaguide/internal/logger"
	"github.com/ziadkadry99/gitaguide/internal/retrieval"
	"github.com/ziadkadry99/gitaguide/internal/themes"
)

const (
	notConfiguredMessage = "I apologize, but the AI service is not properly configured. Please check your API keys."
	failureMessage       = "I encountered a difficulty in providing guidance. Please try again in a moment."
)

// Result is the outcome of Compose.
type Result struct {
	Response     string          `json:"response"`
	UsedVerses   []retrieval.Hit `json:"used_verses"`
	Themes       []themes.Theme  `json:"themes"`
	Kind         QuestionKind    `json:"kind"`
	Disclaimer   bool            `json:"disclaimer"`
	Error        bool            `json:"error"`
	Model        string          `json:"model,omitempty"`
	InputTokens  int             `json:"input_tokens,omitempty"`
	OutputTokens int             `json:"output_tokens,omitempty"`
	CostUSD      float64         `json:"cost_usd,omitempty"`
}

// Composer generates answers with a provider. A nil provider is allowed
// and produces not-configured results.
type Composer struct {
	provider llm.Provider
	timeout  time.Duration
}

// New returns a Composer. timeout <= 0 leaves the caller's context as the
// only bound on the model call.
func New(provider llm.Provider, timeout time.Duration) *Composer {
	return &Composer{provider: provider, timeout: timeout}
}

// Configured reports whether a provider is available.
func (c *Composer) Configured() bool {
	return c.provider != nil
}

// Compose answers query. Guidance questions use qc as context; factual
// questions are answered without it. The crisis disclaimer is appended
// after a successful model call whichever prompt was used.
func (c *Composer) Compose(ctx context.Context, query string, qc *retrieval.QueryContext) Result {
	res := Result{Kind: Classify(query)}
	if qc != nil {
		res.UsedVerses = qc.UsedVerses
		res.Themes = qc.QueryThemes
	}

	var prompt string
	if res.Kind == Factual {
		prompt = FactualPrompt(query)
	} else {
		prompt = GuidancePrompt(query, qc)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := llm.Generate(ctx, c.provider, prompt)
	if err != nil {
		res.Error = true
		if errors.Is(err, llm.ErrNotConfigured) {
			res.Response = notConfiguredMessage
		} else {
			logger.Warn("generation failed: %v", err)
			res.Response = failureMessage
		}
		return res
	}
	logger.Debug("%s answered %s question in %s", c.provider.Name(), res.Kind, time.Since(start).Round(time.Millisecond))

	res.Response = resp.Content
	if NeedsDisclaimer(query) {
		res.Response += Disclaimer
		res.Disclaimer = true
	}

	res.Model = resp.Model
	res.InputTokens, res.OutputTokens = llm.Usage(prompt, resp)
	res.CostUSD = llm.EstimateCost(resp.Model, res.InputTokens, res.OutputTokens)
	return res
}
