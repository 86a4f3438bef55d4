package themes

import "strings"

// topic maps a word a seeker might use onto the themes that address it.
type topic struct {
	word   string
	themes []Theme
}

var topicTable = []topic{
	{"stress", []Theme{Peace, Meditation, Detachment}},
	{"depression", []Theme{Peace, Knowledge, Soul}},
	{"anxiety", []Theme{Peace, Meditation, Detachment}},
	{"fear", []Theme{Peace, Knowledge, Soul}},
	{"anger", []Theme{Peace, Detachment, Duty}},
	{"confusion", []Theme{Knowledge, Duty, Action}},
	{"purpose", []Theme{Duty, Action, Devotion}},
	{"death", []Theme{Soul, Knowledge, Detachment}},
	{"suffering", []Theme{Peace, Detachment, Knowledge}},
	{"relationships", []Theme{Detachment, Devotion, Duty}},
	{"work", []Theme{Action, Duty, Detachment}},
	{"success", []Theme{Action, Detachment, Duty}},
	{"failure", []Theme{Peace, Detachment, Action}},
}

// expansions are applied in order, each to the output of the previous one.
var expansions = []struct{ from, to string }{
	{"i'm", "I am"},
	{"can't", "cannot"},
	{"won't", "will not"},
	{"don't", "do not"},
	{"what should i do", "how should I act"},
	{"help me", "guide me"},
	{"i feel", "I am experiencing"},
}

// NormalizeQuery lowercases and trims q, then expands a fixed set of
// contractions and informal phrases.
func NormalizeQuery(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	for _, e := range expansions {
		q = strings.ReplaceAll(q, e.from, e.to)
	}
	return q
}

// QueryThemes returns the themes related to every topic word found in q,
// in topic-table order with duplicates removed. A query matching no topic
// yields [General].
func QueryThemes(q string) []Theme {
	lower := strings.ToLower(q)
	var out []Theme
	seen := make(map[Theme]bool)
	for _, tp := range topicTable {
		if !strings.Contains(lower, tp.word) {
			continue
		}
		for _, t := range tp.themes {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	if len(out) == 0 {
		return []Theme{General}
	}
	return out
}

// Topics lists the recognised topic words in table order.
func Topics() []string {
	out := make([]string, len(topicTable))
	for i, tp := range topicTable {
		out[i] = tp.word
	}
	return out
}
