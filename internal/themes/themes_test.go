package themes

import (
	"reflect"
	"testing"
)

func TestClassifyVerse(t *testing.T) {
	tests := []struct {
		text string
		want Theme
	}{
		{"Perform your prescribed duty", Duty},
		{"Without attachment to the fruits", Detachment},
		{"Surrender unto me in love", Detachment},
		{"Those who worship me", Devotion},
		{"The wise realize the truth", Knowledge},
		{"The Self is never born", Soul},
		{"He attains tranquil peace", Peace},
		{"Control the restless Mind", Meditation},
		{"Arjuna looked upon the armies", General},
		{"", General},
	}
	for _, tt := range tests {
		if got := ClassifyVerse(tt.text); got != tt.want {
			t.Errorf("ClassifyVerse(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestClassifyVerseClosure(t *testing.T) {
	inputs := []string{"duty", "random words", "YOGA", "fruit of work", "eternal soul", "ÅÄÖ"}
	for _, in := range inputs {
		if got := ClassifyVerse(in); !Valid(got) {
			t.Errorf("ClassifyVerse(%q) returned out-of-vocabulary theme %q", in, got)
		}
	}
}

func TestQueryThemesStressAtWork(t *testing.T) {
	got := QueryThemes(NormalizeQuery("I am feeling stressed at work"))
	want := []Theme{Peace, Meditation, Detachment, Action, Duty}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("QueryThemes = %v, want %v", got, want)
	}
}

func TestQueryThemesDefaultsToGeneral(t *testing.T) {
	got := QueryThemes("tell me a story")
	if !reflect.DeepEqual(got, []Theme{General}) {
		t.Errorf("QueryThemes = %v, want [general]", got)
	}
}

func TestQueryThemesNeverOutOfVocabulary(t *testing.T) {
	for _, word := range Topics() {
		for _, th := range QueryThemes(word) {
			if !Valid(th) {
				t.Errorf("topic %q produced invalid theme %q", word, th)
			}
		}
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  I'm LOST  ", "I am lost"},
		{"I can't sleep", "i cannot sleep"},
		{"What should I do now?", "how should I act now?"},
		{"Please help me", "please guide me"},
		{"I feel empty", "I am experiencing empty"},
	}
	for _, tt := range tests {
		if got := NormalizeQuery(tt.in); got != tt.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	if Parse(" Peace ") != Peace {
		t.Error("expected Parse to accept padded, capitalised theme")
	}
	if Parse("bogus") != General {
		t.Error("expected unknown theme to fall back to general")
	}
}
