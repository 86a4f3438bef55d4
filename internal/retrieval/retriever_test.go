package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ziadkadry99/gitaguide/internal/corpus"
	"github.com/ziadkadry99/gitaguide/internal/embeddings"
	"github.com/ziadkadry99/gitaguide/internal/themes"
	"github.com/ziadkadry99/gitaguide/internal/vectordb"
)

type queryCall struct {
	k      int
	filter string
}

// fakeSearcher returns canned results keyed by filter value ("" for an
// unfiltered query) and records every call.
type fakeSearcher struct {
	results map[string][]vectordb.Result
	err     error
	calls   []queryCall
}

func (f *fakeSearcher) Query(_ context.Context, _ string, k int, filter *vectordb.Filter) ([]vectordb.Result, error) {
	key := ""
	if filter != nil {
		key = filter.Value
	}
	f.calls = append(f.calls, queryCall{k: k, filter: key})
	if f.err != nil {
		return nil, f.err
	}
	return f.results[key], nil
}

func verse(chapter, v int, sim float32, text string) vectordb.Result {
	return vectordb.Result{
		Unit: vectordb.Unit{
			Content: text,
			Metadata: vectordb.Metadata{
				Chapter:     chapter,
				Verse:       v,
				VerseID:     corpus.VerseID(chapter, v),
				ContentType: corpus.ContentVerse,
				Theme:       themes.Peace,
			},
		},
		Similarity: sim,
	}
}

func chunk(id string, sim float32) vectordb.Result {
	return vectordb.Result{
		Unit: vectordb.Unit{
			Content: "chunk " + id,
			Metadata: vectordb.Metadata{
				ContentType:  corpus.ContentChunk,
				Theme:        themes.Peace,
				ChunkID:      id,
				ChapterRange: "2-2",
				VerseRange:   "1-3",
			},
		},
		Similarity: sim,
	}
}

func stressFixture() *fakeSearcher {
	return &fakeSearcher{results: map[string][]vectordb.Result{
		string(themes.Peace): {
			verse(2, 47, 0.9, "duty without attachment"),
			verse(2, 48, 0.5, "equanimity in success and failure"),
		},
		string(themes.Meditation): {
			verse(2, 47, 0.9, "duty without attachment"),
			verse(6, 35, 0.7, "the restless mind"),
		},
		"": {
			chunk("chunk_0", 0.8),
			chunk("chunk_1", 0.8),
			verse(2, 48, 0.5, "equanimity in success and failure"),
		},
	}}
}

func TestRetrieveQueryPlan(t *testing.T) {
	idx := stressFixture()
	r := New(idx, Options{})

	if _, err := r.Retrieve(context.Background(), "I am feeling stressed at work", 0); err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	want := []queryCall{
		{k: 3, filter: "peace"},
		{k: 3, filter: "meditation"},
		{k: 5, filter: ""},
	}
	if len(idx.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", idx.calls, want)
	}
	for i := range want {
		if idx.calls[i] != want[i] {
			t.Errorf("call %d = %+v, want %+v", i, idx.calls[i], want[i])
		}
	}
}

func TestRetrieveDedupAndStableOrder(t *testing.T) {
	r := New(stressFixture(), Options{})

	hits, err := r.Retrieve(context.Background(), "I am feeling stressed at work", 8)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	want := []string{
		corpus.VerseID(2, 47),
		"chunk_0",
		"chunk_1",
		corpus.VerseID(6, 35),
		corpus.VerseID(2, 48),
	}
	if len(hits) != len(want) {
		t.Fatalf("got %d hits, want %d", len(hits), len(want))
	}
	seen := make(map[string]bool)
	for i, h := range hits {
		id := h.VerseID
		if id == "" {
			id = strings.TrimPrefix(h.Text, "chunk ")
		}
		if id != want[i] {
			t.Errorf("hit %d = %s, want %s", i, id, want[i])
		}
		if h.VerseID != "" {
			if seen[h.VerseID] {
				t.Errorf("duplicate verse id %s", h.VerseID)
			}
			seen[h.VerseID] = true
		}
	}
}

func TestRetrieveTruncates(t *testing.T) {
	r := New(stressFixture(), Options{})

	hits, err := r.Retrieve(context.Background(), "I am feeling stressed at work", 2)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].RelevanceScore < hits[1].RelevanceScore {
		t.Error("hits not sorted by relevance")
	}
}

func TestRetrievePropagatesIndexUnavailable(t *testing.T) {
	r := New(&fakeSearcher{err: vectordb.ErrIndexUnavailable}, Options{})

	_, err := r.Retrieve(context.Background(), "what is dharma", 0)
	if !errors.Is(err, vectordb.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestKeywordBonusReordersHits(t *testing.T) {
	idx := &fakeSearcher{results: map[string][]vectordb.Result{
		"": {
			verse(3, 8, 0.60, "perform prescribed action"),
			verse(3, 9, 0.55, "work done as sacrifice releases from bondage"),
		},
	}}

	plain, err := New(idx, Options{}).Retrieve(context.Background(), "sacrifice", 0)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if plain[0].Verse != 8 {
		t.Fatalf("without bonus top verse = %d, want 8", plain[0].Verse)
	}

	boosted, err := New(idx, Options{KeywordBonus: 0.1}).Retrieve(context.Background(), "sacrifice", 0)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if boosted[0].Verse != 9 {
		t.Errorf("with bonus top verse = %d, want 9", boosted[0].Verse)
	}
}

func TestPackBudgetIsPrefix(t *testing.T) {
	hits := []Hit{
		{Chapter: 1, Verse: 1, Text: strings.Repeat("a", 30)},
		{Chapter: 1, Verse: 2, Text: strings.Repeat("b", 30)},
		{Chapter: 1, Verse: 3, Text: "c"},
	}
	// Each of the first two items is 50 characters ("Chapter 1, Verse N: " + 30).
	qc := Pack(hits, 101)

	if qc.TotalVerses != 1 {
		t.Fatalf("TotalVerses = %d, want 1 (second item plus separator overflows)", qc.TotalVerses)
	}
	if utf8.RuneCountInString(qc.FormattedContext) > 101 {
		t.Errorf("context exceeds budget: %d", len(qc.FormattedContext))
	}
	if qc.UsedVerses[0].Verse != 1 {
		t.Error("UsedVerses is not a prefix of the hits")
	}

	qc = Pack(hits, 102)
	if qc.TotalVerses != 2 {
		t.Errorf("TotalVerses = %d, want 2", qc.TotalVerses)
	}
	if !strings.Contains(qc.FormattedContext, "\n\nChapter 1, Verse 2: ") {
		t.Errorf("unexpected context %q", qc.FormattedContext)
	}

	qc = Pack(hits, 10)
	if qc.TotalVerses != 0 || qc.FormattedContext != "" {
		t.Errorf("expected empty context, got %+v", qc)
	}
}

func TestBuildContextChunkLabel(t *testing.T) {
	idx := &fakeSearcher{results: map[string][]vectordb.Result{"": {chunk("chunk_0", 0.9)}}}

	qc, err := New(idx, Options{}).BuildContext(context.Background(), "anything", 0)
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	if qc.FormattedContext != "Chapter 0, Verse 0: chunk chunk_0" {
		t.Errorf("FormattedContext = %q", qc.FormattedContext)
	}
	if got := qc.UsedVerses[0].Label(); got != "Chapter 2-2, Verse 1-3" {
		t.Errorf("Label = %q", got)
	}
	if len(qc.QueryThemes) != 1 || qc.QueryThemes[0] != themes.General {
		t.Errorf("QueryThemes = %v, want [general]", qc.QueryThemes)
	}
}

func buildIndex(t *testing.T, raw []corpus.RawVerse) *vectordb.ChromemStore {
	t.Helper()
	verses, chunks, err := corpus.Process(raw, corpus.Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	store := vectordb.NewChromemStore(embeddings.NewHashEmbedder(256), vectordb.Options{})
	units := vectordb.UnitsFromEntries(corpus.Combined(verses, chunks))
	if err := store.ReindexAll(context.Background(), units); err != nil {
		t.Fatalf("ReindexAll: %v", err)
	}
	return store
}

func gitaSample() []corpus.RawVerse {
	return []corpus.RawVerse{
		corpus.NewRawVerse(2, 47, "You have a right to perform your prescribed duty, but not to the fruits of action."),
		corpus.NewRawVerse(2, 48, "Perform your duty equipoised, abandoning all attachment to success or failure."),
		corpus.NewRawVerse(2, 49, "Seek refuge in wisdom and knowledge of the self."),
		corpus.NewRawVerse(6, 34, "The mind is restless, turbulent, obstinate and very strong."),
		corpus.NewRawVerse(6, 35, "The mind is restless but controlled by practice and detachment."),
		corpus.NewRawVerse(12, 13, "One who is not envious, a kind friend to all, finds peace."),
	}
}

func TestRetrieveDeterministic(t *testing.T) {
	r := New(buildIndex(t, gitaSample()), Options{})
	ctx := context.Background()

	first, err := r.Retrieve(ctx, "I am feeling stressed at work", 0)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("expected hits")
	}
	for i := 0; i < 30; i++ {
		again, err := r.Retrieve(ctx, "I am feeling stressed at work", 0)
		if err != nil {
			t.Fatalf("Retrieve: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d returned %d hits, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j].Label() != first[j].Label() || again[j].Text != first[j].Text || again[j].RelevanceScore != first[j].RelevanceScore {
				t.Fatalf("run %d differs at %d", i, j)
			}
		}
	}
}

func TestSearchChapter(t *testing.T) {
	r := New(buildIndex(t, gitaSample()), Options{})

	hits, err := r.SearchChapter(context.Background(), "restless mind", 6, 0)
	if err != nil {
		t.Fatalf("SearchChapter: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want both verses of chapter 6", len(hits))
	}
	for _, h := range hits {
		if h.Chapter != 6 || h.ContentType != corpus.ContentVerse {
			t.Errorf("unexpected hit %s", h.Label())
		}
	}

	hits, err = r.SearchChapter(context.Background(), "restless mind", 9, 0)
	if err != nil {
		t.Fatalf("SearchChapter on missing chapter: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits for chapter 9, got %d", len(hits))
	}
}

func TestRetrieveEmptyIndex(t *testing.T) {
	r := New(buildIndex(t, nil), Options{})

	hits, err := r.Retrieve(context.Background(), "what is the self", 0)
	if err != nil {
		t.Fatalf("Retrieve on empty index: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}

	qc, err := r.BuildContext(context.Background(), "what is the self", 0)
	if err != nil {
		t.Fatalf("BuildContext on empty index: %v", err)
	}
	if qc.FormattedContext != "" || qc.TotalVerses != 0 {
		t.Errorf("expected empty context, got %+v", qc)
	}
}

func TestRetrieveUnbuiltIndex(t *testing.T) {
	store := vectordb.NewChromemStore(embeddings.NewHashEmbedder(64), vectordb.Options{})

	_, err := New(store, Options{}).Retrieve(context.Background(), "duty", 0)
	if !errors.Is(err, vectordb.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestContextualVerses(t *testing.T) {
	r := New(buildIndex(t, gitaSample()), Options{})

	hits, err := r.ContextualVerses(context.Background(), 2, 48, 2)
	if err != nil {
		t.Fatalf("ContextualVerses: %v", err)
	}
	got := make([]int, len(hits))
	for i, h := range hits {
		got[i] = h.Verse
		if h.Chapter != 2 {
			t.Errorf("hit from chapter %d", h.Chapter)
		}
	}
	want := []int{47, 48, 49}
	if len(got) != len(want) {
		t.Fatalf("verses = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("verses = %v, want %v", got, want)
			break
		}
	}
}
