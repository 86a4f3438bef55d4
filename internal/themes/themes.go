// Package themes maps free text onto the fixed vocabulary of verse themes.
//
// Two hand-authored keyword tables drive it: one labels verses at index
// time, the other expands the topic words of a user question into related
// themes at query time. Matching is plain lowercase substring search and
// the first matching rule wins.
package themes

import "strings"

// Theme is one of the nine topical labels a verse or query can carry.
type Theme string

const (
	Duty       Theme = "duty"
	Detachment Theme = "detachment"
	Knowledge  Theme = "knowledge"
	Devotion   Theme = "devotion"
	Action     Theme = "action"
	Soul       Theme = "soul"
	Peace      Theme = "peace"
	Meditation Theme = "meditation"
	General    Theme = "general"
)

var allThemes = []Theme{Duty, Detachment, Knowledge, Devotion, Action, Soul, Peace, Meditation, General}

// All returns every theme in table order, General last.
func All() []Theme {
	out := make([]Theme, len(allThemes))
	copy(out, allThemes)
	return out
}

// Valid reports whether t belongs to the closed theme set.
func Valid(t Theme) bool {
	for _, known := range allThemes {
		if t == known {
			return true
		}
	}
	return false
}

// Parse converts s into a Theme, falling back to General for unknown labels.
func Parse(s string) Theme {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if Valid(t) {
		return t
	}
	return General
}

// rule pairs a theme with the keyword substrings that select it.
type rule struct {
	theme    Theme
	keywords []string
}

// verseRules is evaluated in order; "surrender" appears under both
// detachment and devotion and therefore always resolves to detachment.
var verseRules = []rule{
	{Duty, []string{"duty", "dharma", "righteous", "obligation"}},
	{Detachment, []string{"attachment", "detachment", "renunciation", "surrender"}},
	{Knowledge, []string{"knowledge", "wisdom", "understand", "realize"}},
	{Devotion, []string{"devotion", "worship", "love", "surrender"}},
	{Action, []string{"action", "work", "perform", "activity"}},
	{Soul, []string{"soul", "self", "atman", "eternal"}},
	{Peace, []string{"peace", "tranquil", "calm", "serenity"}},
	{Meditation, []string{"meditation", "yoga", "mind", "concentration"}},
}

// ClassifyVerse labels a verse with the first theme whose keywords occur in
// its lowercased text, or General when none do.
func ClassifyVerse(text string) Theme {
	lower := strings.ToLower(text)
	for _, r := range verseRules {
		if containsAny(lower, r.keywords) {
			return r.theme
		}
	}
	return General
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Strings renders a theme list for prompts and JSON output.
func Strings(ts []Theme) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}
