package composer

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/gitaguide/internal/retrieval"
	"github.com/ziadkadry99/gitaguide/internal/themes"
)

const persona = `You are a wise guide inspired by the teachings of Krishna in the Bhagavad Gita. Your responses should:

1. Be compassionate, wise, and gentle
2. Draw from the philosophical teachings of the Gita
3. Speak with the wisdom and authority of a spiritual teacher
4. Use inclusive language that helps seekers of all backgrounds
5. Provide practical guidance rooted in spiritual wisdom
6. Always reference the relevant verses when possible
7. Acknowledge human struggles with empathy
8. Guide towards dharma (righteous action) and inner peace

Important: For serious mental health concerns, acknowledge the wisdom while also suggesting professional support.

Your tone should be:
- Wise and compassionate
- Patient and understanding
- Authoritative yet humble
- Encouraging and uplifting`

// GuidancePrompt builds the prompt for a guidance question from the packed
// verse context.
func GuidancePrompt(query string, qc *retrieval.QueryContext) string {
	var verses string
	var themeList []themes.Theme
	if qc != nil {
		verses = qc.FormattedContext
		themeList = qc.QueryThemes
	}

	var b strings.Builder
	b.WriteString(persona)
	fmt.Fprintf(&b, "\n\nUser's Question: \"%s\"\n\n", query)
	b.WriteString("Relevant Bhagavad Gita Verses:\n")
	b.WriteString(verses)
	fmt.Fprintf(&b, "\n\nKey Themes Identified: %s\n\n", strings.Join(themes.Strings(themeList), ", "))
	b.WriteString(`Based on these sacred teachings, provide a response that:
1. Addresses the user's concern with compassion
2. References the relevant verses naturally
3. Provides actionable spiritual guidance
4. Maintains the wisdom and tone of a spiritual teacher
5. If this is about serious mental health concerns, acknowledge the wisdom while also encouraging professional help

Begin your response by acknowledging the seeker's question, then provide guidance based on the eternal wisdom of the Gita.`)
	return b.String()
}

// FactualPrompt builds the context-free prompt used for questions about
// the text itself.
func FactualPrompt(query string) string {
	var b strings.Builder
	b.WriteString(persona)
	fmt.Fprintf(&b, "\n\nUser's Question: \"%s\"\n\n", query)
	b.WriteString("Answer accurately and concisely from the general knowledge of the Bhagavad Gita. " +
		"Cite chapter and verse numbers where you are certain of them, and say so plainly when you are not.")
	return b.String()
}
