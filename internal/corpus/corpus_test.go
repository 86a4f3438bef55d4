package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/gitaguide/internal/themes"
)

func sampleRaw() []RawVerse {
	return []RawVerse{
		NewRawVerse(2, 47, "You have a right to perform your prescribed duty, but not to the fruits."),
		NewRawVerse(2, 48, "Be steadfast in yoga, abandoning attachment."),
		NewRawVerse(2, 66, "For one not united there is no peace."),
		NewRawVerse(6, 35, "The mind is restless, but it is controlled by practice."),
		NewRawVerse(18, 66, "Abandon all varieties of dharma and surrender unto Me."),
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Duty   is\tsacred!!!  ", "Duty is sacred!"},
		{"  He said: \"act\" @ once  ", "He said: act  once"},
		{"कर्मण्येवाधिकारस्ते  मा", "कर्मण्येवाधिकारस्ते मा"},
		{"why?! (really)", "why?! (really)"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProcess(t *testing.T) {
	verses, chunks, err := Process(sampleRaw(), Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(verses) != 5 {
		t.Fatalf("verses: got %d, want 5", len(verses))
	}
	if len(chunks) != 2 {
		t.Fatalf("chunks: got %d, want 2", len(chunks))
	}

	v := verses[0]
	if v.VerseID != "Chapter 2, Verse 47" {
		t.Errorf("VerseID = %q", v.VerseID)
	}
	if v.Theme != themes.Duty {
		t.Errorf("theme = %q, want duty", v.Theme)
	}
	if v.WordCount != 14 {
		t.Errorf("WordCount = %d, want 14", v.WordCount)
	}
	if v.ContentType != ContentVerse {
		t.Errorf("ContentType = %q", v.ContentType)
	}

	c := chunks[0]
	if c.ChunkID != "chunk_1" || c.ChapterRange != "2-2" || c.VerseRange != "47-66" {
		t.Errorf("chunk ids: %q %q %q", c.ChunkID, c.ChapterRange, c.VerseRange)
	}
	if c.Theme != verses[0].Theme {
		t.Errorf("chunk theme = %q, want first member theme %q", c.Theme, verses[0].Theme)
	}
	last := chunks[1]
	if last.ChapterRange != "6-18" || len(last.Verses) != 2 {
		t.Errorf("last chunk: range %q, %d members", last.ChapterRange, len(last.Verses))
	}
	if c.Text != verses[0].Text+" "+verses[1].Text+" "+verses[2].Text {
		t.Errorf("chunk text not joined with single spaces: %q", c.Text)
	}
}

func TestChunkRoundTrip(t *testing.T) {
	raw := make([]RawVerse, 0, 10)
	for i := 1; i <= 10; i++ {
		raw = append(raw, NewRawVerse(1, i, "verse text"))
	}
	for _, size := range []int{1, 2, 3, 4, 10, 11} {
		verses, chunks, err := Process(raw, Options{ChunkSize: size})
		if err != nil {
			t.Fatalf("Process(size=%d): %v", size, err)
		}
		want := (len(verses) + size - 1) / size
		if len(chunks) != want {
			t.Errorf("size %d: got %d chunks, want %d", size, len(chunks), want)
		}
		var rebuilt []VerseRecord
		for _, c := range chunks {
			rebuilt = append(rebuilt, c.Verses...)
		}
		if len(rebuilt) != len(verses) {
			t.Fatalf("size %d: rebuilt %d verses, want %d", size, len(rebuilt), len(verses))
		}
		for i := range verses {
			if rebuilt[i] != verses[i] {
				t.Errorf("size %d: verse %d differs after round trip", size, i)
			}
		}
	}
}

func TestProcessEmpty(t *testing.T) {
	verses, chunks, err := Process(nil, Options{})
	if err != nil {
		t.Fatalf("Process(nil): %v", err)
	}
	if len(verses) != 0 || len(chunks) != 0 {
		t.Errorf("expected empty output, got %d verses, %d chunks", len(verses), len(chunks))
	}
}

func TestProcessMalformed(t *testing.T) {
	ch, vs := 1, 2
	text := "text"
	tests := []struct {
		name  string
		raw   RawVerse
		field string
	}{
		{"missing chapter", RawVerse{Verse: &vs, Text: &text}, "chapter"},
		{"missing verse", RawVerse{Chapter: &ch, Text: &text}, "verse"},
		{"missing text", RawVerse{Chapter: &ch, Verse: &vs}, "text"},
		{"zero chapter", NewRawVerse(0, 1, "x"), "chapter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := append(sampleRaw(), tt.raw)
			verses, chunks, err := Process(raw, Options{})
			var mErr *MalformedInputError
			if !errors.As(err, &mErr) {
				t.Fatalf("expected MalformedInputError, got %v", err)
			}
			if mErr.Field != tt.field || mErr.Index != 5 {
				t.Errorf("error = %+v, want field %q at index 5", mErr, tt.field)
			}
			if verses != nil || chunks != nil {
				t.Error("expected no partial output on failure")
			}
		})
	}
}

func TestThemeClosure(t *testing.T) {
	verses, chunks, err := Process(sampleRaw(), Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	for _, v := range verses {
		if !themes.Valid(v.Theme) {
			t.Errorf("verse %s has invalid theme %q", v.VerseID, v.Theme)
		}
	}
	for _, c := range chunks {
		if !themes.Valid(c.Theme) {
			t.Errorf("chunk %s has invalid theme %q", c.ChunkID, c.Theme)
		}
	}
}

func TestSaveAndLoadProcessed(t *testing.T) {
	verses, chunks, err := Process(sampleRaw(), Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out", "processed.json")
	if err := SaveProcessed(path, Combined(verses, chunks)); err != nil {
		t.Fatalf("SaveProcessed: %v", err)
	}

	entries, err := LoadProcessed(path)
	if err != nil {
		t.Fatalf("LoadProcessed: %v", err)
	}
	gotVerses, gotChunks := Split(entries)
	if len(gotVerses) != len(verses) || len(gotChunks) != len(chunks) {
		t.Fatalf("got %d verses / %d chunks, want %d / %d", len(gotVerses), len(gotChunks), len(verses), len(chunks))
	}
	if gotChunks[0].ChunkID != "chunk_1" || len(gotChunks[0].Verses) != 3 {
		t.Errorf("chunk not restored: %+v", gotChunks[0])
	}
	if gotVerses[4].VerseID != verses[4].VerseID {
		t.Errorf("verse order changed: %q", gotVerses[4].VerseID)
	}
}

func TestLoadRawGlob(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a/ch1.json": `[{"chapter":1,"verse":1,"text":"first"}]`,
		"b/ch2.json": `[{"chapter":2,"verse":1,"text":"second"},{"chapter":2,"verse":2,"text":"third"}]`,
	}
	for name, body := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	raw, err := LoadRaw(filepath.Join(dir, "**", "*.json"))
	if err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	if len(raw) != 3 {
		t.Fatalf("got %d verses, want 3", len(raw))
	}
	if *raw[0].Text != "first" || *raw[2].Text != "third" {
		t.Errorf("unexpected order: %q ... %q", *raw[0].Text, *raw[2].Text)
	}

	if _, err := LoadRaw(filepath.Join(dir, "missing", "*.json")); err == nil {
		t.Error("expected error for pattern with no matches")
	}
}

func TestLoadRawMissingField(t *testing.T) {
	p := filepath.Join(t.TempDir(), "corpus.json")
	if err := os.WriteFile(p, []byte(`[{"chapter":1,"text":"no verse number"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	raw, err := LoadRaw(p)
	if err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	_, _, err = Process(raw, Options{})
	var mErr *MalformedInputError
	if !errors.As(err, &mErr) || mErr.Field != "verse" {
		t.Errorf("expected missing verse error, got %v", err)
	}
}

func TestStats(t *testing.T) {
	verses, chunks, err := Process(sampleRaw(), Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	st := Stats(verses, chunks)
	if st.TotalVerses != 5 || st.TotalChunks != 2 || st.TotalChapters != 18 {
		t.Errorf("unexpected stats: %+v", st)
	}
	if st.AvgWordsPerVerse <= 0 {
		t.Errorf("AvgWordsPerVerse = %f", st.AvgWordsPerVerse)
	}
	if len(st.Themes) == 0 {
		t.Error("expected at least one theme")
	}
}
