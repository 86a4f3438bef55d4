package db

import (
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM questions").Scan(&count); err != nil {
		t.Fatalf("questions table: %v", err)
	}
	if count != 0 {
		t.Errorf("fresh database has %d questions", count)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "history.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if d.Path() != path {
		t.Errorf("Path() = %q, want %q", d.Path(), path)
	}
	if _, err := d.Exec(`INSERT INTO questions (id, asked_at, question, kind) VALUES ('q1', '2026-01-01T00:00:00.000000Z', 'who is arjuna', 'factual')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	d.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	var n int
	if err := reopened.QueryRow("SELECT COUNT(*) FROM questions").Scan(&n); err != nil || n != 1 {
		t.Errorf("count after reopen = %d, err %v", n, err)
	}
}

func TestKindConstraint(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	_, err = d.Exec(`INSERT INTO questions (id, asked_at, question, kind) VALUES ('q1', 'now', 'x', 'smalltalk')`)
	if err == nil {
		t.Error("expected CHECK constraint failure for unknown kind")
	}
}
