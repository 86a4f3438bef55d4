// Package retrieval turns a question into a ranked, deduplicated set of
// verses and packs them into a length-bounded context for the model.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ziadkadry99/gitaguide/internal/corpus"
	"github.com/ziadkadry99/gitaguide/internal/logger"
	"github.com/ziadkadry99/gitaguide/internal/themes"
	"github.com/ziadkadry99/gitaguide/internal/vectordb"
)

const (
	DefaultMaxResults = 8
	DefaultMaxChars   = 2000

	maxQueryThemes  = 2
	perThemeResults = 3
	generalResults  = 5
)

// Hit is one ranked verse or chunk returned by Retrieve.
type Hit struct {
	Text           string             `json:"text"`
	Chapter        int                `json:"chapter"`
	Verse          int                `json:"verse"`
	VerseID        string             `json:"verse_id"`
	Theme          themes.Theme       `json:"theme"`
	ContentType    corpus.ContentType `json:"content_type"`
	ChapterRange   string             `json:"chapter_range,omitempty"`
	VerseRange     string             `json:"verse_range,omitempty"`
	Distance       float64            `json:"distance"`
	RelevanceScore float64            `json:"relevance_score"`
}

// Label names the hit for display. Chunks use their chapter and verse
// ranges.
func (h Hit) Label() string {
	if h.ContentType == corpus.ContentChunk {
		return fmt.Sprintf("Chapter %s, Verse %s", h.ChapterRange, h.VerseRange)
	}
	return fmt.Sprintf("Chapter %d, Verse %d", h.Chapter, h.Verse)
}

// formatted is the hit as it appears in the model context. Chunks carry no
// single chapter or verse and print as Chapter 0, Verse 0.
func (h Hit) formatted() string {
	return fmt.Sprintf("Chapter %d, Verse %d: %s", h.Chapter, h.Verse, h.Text)
}

func hitFromResult(r vectordb.Result) Hit {
	md := r.Unit.Metadata
	d := r.Distance()
	return Hit{
		Text:           r.Unit.Content,
		Chapter:        md.Chapter,
		Verse:          md.Verse,
		VerseID:        md.VerseID,
		Theme:          md.Theme,
		ContentType:    md.ContentType,
		ChapterRange:   md.ChapterRange,
		VerseRange:     md.VerseRange,
		Distance:       d,
		RelevanceScore: 1 - d,
	}
}

// QueryContext is the packed context handed to the composer.
type QueryContext struct {
	FormattedContext string         `json:"formatted_context"`
	UsedVerses       []Hit          `json:"used_verses"`
	QueryThemes      []themes.Theme `json:"query_themes"`
	TotalVerses      int            `json:"total_verses"`
}

// Options tunes a Retriever.
type Options struct {
	// KeywordBonus, when positive, adds KeywordBonus per distinct query word
	// found in a hit's text before ranking. Zero disables it.
	KeywordBonus float64
}

// Retriever runs theme-filtered and unfiltered searches against an index.
// It holds no mutable state and is safe for concurrent use.
type Retriever struct {
	index vectordb.Searcher
	opts  Options
}

func New(index vectordb.Searcher, opts Options) *Retriever {
	return &Retriever{index: index, opts: opts}
}

// Retrieve returns up to maxResults hits for query, ranked by relevance.
// maxResults <= 0 selects DefaultMaxResults. An empty index yields no hits
// and no error; an index that was never built yields
// vectordb.ErrIndexUnavailable.
func (r *Retriever) Retrieve(ctx context.Context, query string, maxResults int) ([]Hit, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	normalized := themes.NormalizeQuery(query)
	queryThemes := themes.QueryThemes(normalized)
	if len(queryThemes) > maxQueryThemes {
		queryThemes = queryThemes[:maxQueryThemes]
	}
	logger.Debug("retrieve %q themes=%v", normalized, queryThemes)

	var all []Hit
	for _, t := range queryThemes {
		results, err := r.index.Query(ctx, normalized, perThemeResults, vectordb.ByTheme(t))
		if err != nil {
			return nil, fmt.Errorf("theme search %s: %w", t, err)
		}
		all = appendResults(all, results)
	}

	results, err := r.index.Query(ctx, normalized, generalResults, nil)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	all = appendResults(all, results)

	hits := dedup(all)
	if r.opts.KeywordBonus > 0 {
		applyKeywordBonus(hits, normalized, r.opts.KeywordBonus)
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].RelevanceScore > hits[j].RelevanceScore
	})

	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}
	logger.Debug("retrieve %q: %d candidates, %d returned", normalized, len(all), len(hits))
	return hits, nil
}

func appendResults(hits []Hit, results []vectordb.Result) []Hit {
	for _, res := range results {
		hits = append(hits, hitFromResult(res))
	}
	return hits
}

// dedup keeps the first hit per non-empty VerseID. Hits without a VerseID
// (chunks, malformed metadata) are all kept.
func dedup(hits []Hit) []Hit {
	seen := make(map[string]bool, len(hits))
	out := make([]Hit, 0, len(hits))
	for _, h := range hits {
		if h.VerseID != "" {
			if seen[h.VerseID] {
				continue
			}
			seen[h.VerseID] = true
		}
		out = append(out, h)
	}
	return out
}

// applyKeywordBonus raises the score of hits whose text contains query
// words of four or more letters.
func applyKeywordBonus(hits []Hit, query string, weight float64) {
	words := make(map[string]bool)
	for _, w := range strings.Fields(query) {
		w = strings.Trim(w, ".,;:!?()\"'")
		if utf8.RuneCountInString(w) >= 4 {
			words[w] = true
		}
	}
	if len(words) == 0 {
		return
	}
	for i := range hits {
		text := strings.ToLower(hits[i].Text)
		overlap := 0
		for w := range words {
			if strings.Contains(text, w) {
				overlap++
			}
		}
		hits[i].RelevanceScore += weight * float64(overlap)
	}
}

// BuildContext retrieves hits for query and joins as many of them as fit
// within maxChars characters, separators included. It stops at the first
// hit that would overflow, so UsedVerses is always a prefix of the ranked
// hits. maxChars <= 0 selects DefaultMaxChars.
func (r *Retriever) BuildContext(ctx context.Context, query string, maxChars int) (*QueryContext, error) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	hits, err := r.Retrieve(ctx, query, DefaultMaxResults)
	if err != nil {
		return nil, err
	}

	qc := Pack(hits, maxChars)
	qc.QueryThemes = themes.QueryThemes(query)
	return qc, nil
}

// Pack joins formatted hits with blank lines while the total stays within
// maxChars characters.
func Pack(hits []Hit, maxChars int) *QueryContext {
	const sep = "\n\n"

	var parts []string
	used := make([]Hit, 0, len(hits))
	total := 0
	for _, h := range hits {
		item := h.formatted()
		n := utf8.RuneCountInString(item)
		if len(parts) > 0 {
			n += len(sep)
		}
		if total+n > maxChars {
			break
		}
		parts = append(parts, item)
		used = append(used, h)
		total += n
	}

	return &QueryContext{
		FormattedContext: strings.Join(parts, sep),
		UsedVerses:       used,
		TotalVerses:      len(used),
	}
}

// SearchChapter returns up to limit verses from chapter nearest to query.
// Chunks span chapters and are never matched. limit <= 0 selects
// DefaultMaxResults.
func (r *Retriever) SearchChapter(ctx context.Context, query string, chapter, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	normalized := themes.NormalizeQuery(query)
	results, err := r.index.Query(ctx, normalized, limit, vectordb.ByChapter(chapter))
	if err != nil {
		return nil, fmt.Errorf("chapter %d search: %w", chapter, err)
	}
	return appendResults(nil, results), nil
}

// ContextualVerses returns the verses of chapter within radius of verse,
// in verse order. Verses missing from the index are skipped.
func (r *Retriever) ContextualVerses(ctx context.Context, chapter, verse, radius int) ([]Hit, error) {
	if radius < 0 {
		radius = 0
	}

	var out []Hit
	for v := max(1, verse-radius); v <= verse+radius; v++ {
		id := corpus.VerseID(chapter, v)
		results, err := r.index.Query(ctx, id, 1, vectordb.ByVerseID(id))
		if err != nil {
			return nil, fmt.Errorf("looking up %s: %w", id, err)
		}
		out = appendResults(out, results)
	}
	return out, nil
}
