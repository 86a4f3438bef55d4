package composer

import "strings"

// QuestionKind selects the prompt used for a question.
type QuestionKind string

const (
	// Guidance questions get verse context and a compassionate answer.
	Guidance QuestionKind = "guidance"
	// Factual questions about the text itself get a context-free prompt.
	Factual QuestionKind = "factual"
)

type kindRule struct {
	kind     QuestionKind
	keywords []string
}

// kindRules are checked in order; the first rule with a matching keyword wins.
var kindRules = []kindRule{
	{Guidance, []string{"should i", "how do i", "how can i", "help", "feel", "i am", "i'm", "struggling", "advice", "guide me"}},
	{Factual, []string{"what is", "who is", "who was", "when was", "how many", "which chapter", "define", "meaning of", "what does"}},
}

// Classify returns the kind of question q is. Anything that matches no
// rule is treated as a request for guidance.
func Classify(q string) QuestionKind {
	lower := strings.ToLower(q)
	for _, r := range kindRules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.kind
			}
		}
	}
	return Guidance
}

// crisisKeywords trigger the professional-help disclaimer.
var crisisKeywords = []string{
	"suicide",
	"kill myself",
	"end my life",
	"depression",
	"severely depressed",
	"hopeless",
	"can't go on",
	"worthless",
	"want to die",
	"self harm",
}

// Disclaimer is appended to answers for questions that mention a crisis.
const Disclaimer = "\n\n*Note: While spiritual wisdom provides great comfort, if you're experiencing persistent distress, please also consider speaking with a mental health professional or counselor.*"

// NeedsDisclaimer reports whether q contains a crisis keyword.
func NeedsDisclaimer(q string) bool {
	lower := strings.ToLower(q)
	// Match typographic apostrophes too.
	lower = strings.ReplaceAll(lower, "’", "'")
	for _, kw := range crisisKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
