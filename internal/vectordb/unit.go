package vectordb

import (
	"strconv"

	"github.com/ziadkadry99/gitaguide/internal/corpus"
	"github.com/ziadkadry99/gitaguide/internal/themes"
)

// Unit is one retrievable record stored in the index.
type Unit struct {
	ID        string
	Content   string
	Embedding []float32
	Metadata  Metadata
}

// Metadata holds the typed attributes of a unit. Chunks have no single
// chapter or verse, so those fields and VerseID stay zero for them.
type Metadata struct {
	Chapter      int
	Verse        int
	VerseID      string
	ContentType  corpus.ContentType
	Theme        themes.Theme
	ChunkID      string
	ChapterRange string
	VerseRange   string
}

// Result pairs a unit with its cosine similarity to the query.
type Result struct {
	Unit       Unit
	Similarity float32
}

// Distance is the cosine distance of the result, 1 - similarity.
func (r Result) Distance() float64 {
	return 1 - float64(r.Similarity)
}

// Metadata keys as stored in the collection.
const (
	keyChapter      = "chapter"
	keyVerse        = "verse"
	keyVerseID      = "verse_id"
	keyContentType  = "content_type"
	keyTheme        = "theme"
	keyChunkID      = "chunk_id"
	keyChapterRange = "chapter_range"
	keyVerseRange   = "verse_range"
)

// metadataToMap converts Metadata to the flat map[string]string chromem
// stores. Every value is a string, including the numeric ones.
func metadataToMap(m Metadata) map[string]string {
	md := map[string]string{
		keyChapter:     itoaOrEmpty(m.Chapter),
		keyVerse:       itoaOrEmpty(m.Verse),
		keyVerseID:     m.VerseID,
		keyContentType: string(m.ContentType),
		keyTheme:       string(m.Theme),
	}
	if m.ContentType == corpus.ContentChunk {
		md[keyChunkID] = m.ChunkID
		md[keyChapterRange] = m.ChapterRange
		md[keyVerseRange] = m.VerseRange
	}
	return md
}

// mapToMetadata converts a flat map back to Metadata. Unparseable numbers
// become 0 and a missing theme becomes general.
func mapToMetadata(md map[string]string) Metadata {
	chapter, _ := strconv.Atoi(md[keyChapter])
	verse, _ := strconv.Atoi(md[keyVerse])

	ct := corpus.ContentType(md[keyContentType])
	if ct == "" {
		ct = corpus.ContentVerse
	}

	return Metadata{
		Chapter:      chapter,
		Verse:        verse,
		VerseID:      md[keyVerseID],
		ContentType:  ct,
		Theme:        themes.Parse(md[keyTheme]),
		ChunkID:      md[keyChunkID],
		ChapterRange: md[keyChapterRange],
		VerseRange:   md[keyVerseRange],
	}
}

func itoaOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// UnitsFromEntries builds index units from processed corpus entries. IDs
// are left empty; the index assigns them on insert.
func UnitsFromEntries(entries []corpus.Entry) []Unit {
	units := make([]Unit, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.Verse != nil:
			v := e.Verse
			units = append(units, Unit{
				Content: v.Text,
				Metadata: Metadata{
					Chapter:     v.Chapter,
					Verse:       v.Verse,
					VerseID:     v.VerseID,
					ContentType: corpus.ContentVerse,
					Theme:       v.Theme,
				},
			})
		case e.Chunk != nil:
			c := e.Chunk
			units = append(units, Unit{
				Content: c.Text,
				Metadata: Metadata{
					ContentType:  corpus.ContentChunk,
					Theme:        c.Theme,
					ChunkID:      c.ChunkID,
					ChapterRange: c.ChapterRange,
					VerseRange:   c.VerseRange,
				},
			})
		}
	}
	return units
}
