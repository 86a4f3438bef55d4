package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestLineReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &LineReporter{Out: &buf}

	onBatch := BatchFunc(r, "Indexing")
	onBatch(100, 250)
	onBatch(200, 250)
	onBatch(250, 250)
	r.Finish()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"Indexing: 250 units",
		"[100/250] Indexing",
		"[200/250] Indexing",
		"[250/250] Indexing",
		"Indexing complete",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestNewReporterUnderCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*LineReporter); !ok {
		t.Error("expected LineReporter when CI is set")
	}
}
