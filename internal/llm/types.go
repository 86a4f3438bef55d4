package llm

// Role is the author of a message in a completion request.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// CompletionRequest is a provider-neutral chat completion request. Zero
// values fall back to the provider defaults.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// CompletionResponse is the generated text plus the usage reported by the
// provider.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// systemAndTurns splits a request into the concatenated system prompt and
// the remaining conversation turns.
func systemAndTurns(msgs []Message) (string, []Message) {
	var system string
	var turns []Message
	for _, m := range msgs {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		turns = append(turns, m)
	}
	return system, turns
}
