// Package history keeps a local log of asked questions and their answers.
// It is a listing only; past questions are never fed back to the model.
package history

import "time"

// Entry is one asked question.
type Entry struct {
	ID           string    `json:"id"`
	AskedAt      time.Time `json:"asked_at"`
	Question     string    `json:"question"`
	Kind         string    `json:"kind"`
	Themes       []string  `json:"themes"`
	VerseIDs     []string  `json:"verse_ids"`
	Response     string    `json:"response"`
	Error        bool      `json:"error"`
	Disclaimer   bool      `json:"disclaimer"`
	Provider     string    `json:"provider,omitempty"`
	Model        string    `json:"model,omitempty"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	CostUSD      float64   `json:"cost_usd"`
}

// Summary aggregates the history.
type Summary struct {
	Questions    int     `json:"questions"`
	Errors       int     `json:"errors"`
	Disclaimers  int     `json:"disclaimers"`
	TotalCostUSD float64 `json:"total_cost_usd"`
}
