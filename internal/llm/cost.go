package llm

// modelPricing holds per-model pricing in USD per 1M tokens.
type modelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

var priceTable = map[string]modelPricing{
	"claude-haiku-4-5-20251001":  {InputPerMillion: 0.80, OutputPerMillion: 4.00},
	"claude-sonnet-4-5-20250929": {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"claude-opus-4-6":            {InputPerMillion: 15.00, OutputPerMillion: 75.00},

	"gpt-4o":        {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"gpt-4o-mini":   {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"gpt-3.5-turbo": {InputPerMillion: 0.50, OutputPerMillion: 1.50},

	"gemini-2.0-flash": {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	"gemini-2.5-flash": {InputPerMillion: 0.30, OutputPerMillion: 2.50},
	"gemini-2.5-pro":   {InputPerMillion: 1.25, OutputPerMillion: 10.00},
}

// EstimateCost returns the estimated cost in USD for the given model and
// token counts, or 0 for models without a known price (including local ones).
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := priceTable[model]
	if !ok {
		return 0
	}
	return float64(inputTokens)/1_000_000.0*pricing.InputPerMillion +
		float64(outputTokens)/1_000_000.0*pricing.OutputPerMillion
}

// EstimateTokens approximates a token count at 4 characters per token.
// Used when a provider does not report usage.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n == 0 && len(text) > 0 {
		return 1
	}
	return n
}

// Usage returns the token counts of resp, estimating any the provider
// left at zero from prompt and the response text.
func Usage(prompt string, resp *CompletionResponse) (input, output int) {
	input, output = resp.InputTokens, resp.OutputTokens
	if input == 0 {
		input = EstimateTokens(prompt)
	}
	if output == 0 {
		output = EstimateTokens(resp.Content)
	}
	return input, output
}
