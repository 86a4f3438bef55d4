// Package corpus turns the raw verse collection into cleaned verse records
// and fixed-size verse chunks ready for indexing.
package corpus

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ziadkadry99/gitaguide/internal/themes"
)

// DefaultChunkSize is the number of consecutive verses grouped per chunk.
const DefaultChunkSize = 3

// Options controls corpus processing.
type Options struct {
	ChunkSize int
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Word characters, whitespace, Devanagari and a small punctuation set.
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s\x{0900}-\x{097F}.,;:!?()\-]`)
)

// CleanText normalizes verse text: whitespace runs collapse to one space,
// characters outside the allowed set are dropped, a run of one repeated
// punctuation mark collapses to a single mark, and the ends are trimmed.
func CleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = disallowedRe.ReplaceAllString(text, "")
	text = collapsePunctuation(text)
	return strings.TrimSpace(text)
}

// collapsePunctuation turns "!!!" into "!" while "?!" and "))" survive.
func collapsePunctuation(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	var prev rune
	for _, r := range text {
		if r == prev && strings.ContainsRune(".,;:!?-", r) {
			continue
		}
		sb.WriteRune(r)
		prev = r
	}
	return sb.String()
}

// Process validates and cleans raw verses, assigns themes and builds chunks.
// A record missing a required field fails the whole batch.
func Process(raw []RawVerse, opts Options) ([]VerseRecord, []ChunkRecord, error) {
	size := opts.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}

	verses := make([]VerseRecord, 0, len(raw))
	for i, rv := range raw {
		v, err := processVerse(i, rv)
		if err != nil {
			return nil, nil, err
		}
		verses = append(verses, v)
	}

	return verses, Chunk(verses, size), nil
}

func processVerse(i int, rv RawVerse) (VerseRecord, error) {
	switch {
	case rv.Chapter == nil:
		return VerseRecord{}, &MalformedInputError{Index: i, Field: "chapter"}
	case rv.Verse == nil:
		return VerseRecord{}, &MalformedInputError{Index: i, Field: "verse"}
	case rv.Text == nil:
		return VerseRecord{}, &MalformedInputError{Index: i, Field: "text"}
	case *rv.Chapter < 1:
		return VerseRecord{}, &MalformedInputError{Index: i, Field: "chapter", Reason: fmt.Sprintf("must be >= 1, got %d", *rv.Chapter)}
	case *rv.Verse < 1:
		return VerseRecord{}, &MalformedInputError{Index: i, Field: "verse", Reason: fmt.Sprintf("must be >= 1, got %d", *rv.Verse)}
	}

	original := *rv.Text
	return VerseRecord{
		Chapter:     *rv.Chapter,
		Verse:       *rv.Verse,
		Text:        CleanText(original),
		VerseID:     VerseID(*rv.Chapter, *rv.Verse),
		ContentType: ContentVerse,
		WordCount:   len(strings.Fields(original)),
		Theme:       themes.ClassifyVerse(original),
	}, nil
}

// Chunk partitions verses into contiguous groups of size in input order.
// The final group may be shorter. Each chunk takes its theme from its first
// verse.
func Chunk(verses []VerseRecord, size int) []ChunkRecord {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([]ChunkRecord, 0, (len(verses)+size-1)/size)
	for start := 0; start < len(verses); start += size {
		end := min(start+size, len(verses))
		members := verses[start:end]

		texts := make([]string, len(members))
		for i, m := range members {
			texts[i] = m.Text
		}

		first, last := members[0], members[len(members)-1]
		chunks = append(chunks, ChunkRecord{
			ChunkID:      fmt.Sprintf("chunk_%d", start/size+1),
			ChapterRange: fmt.Sprintf("%d-%d", first.Chapter, last.Chapter),
			VerseRange:   fmt.Sprintf("%d-%d", first.Verse, last.Verse),
			Text:         strings.Join(texts, " "),
			Verses:       append([]VerseRecord(nil), members...),
			ContentType:  ContentChunk,
			Theme:        first.Theme,
		})
	}
	return chunks
}

// Combined returns all verses followed by all chunks, the order used as an
// indexing batch.
func Combined(verses []VerseRecord, chunks []ChunkRecord) []Entry {
	entries := make([]Entry, 0, len(verses)+len(chunks))
	for i := range verses {
		entries = append(entries, Entry{Verse: &verses[i]})
	}
	for i := range chunks {
		entries = append(entries, Entry{Chunk: &chunks[i]})
	}
	return entries
}
