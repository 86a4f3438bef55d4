package corpus

import (
	"fmt"

	"github.com/ziadkadry99/gitaguide/internal/themes"
)

// ContentType distinguishes single verses from verse groups.
type ContentType string

const (
	ContentVerse ContentType = "verse"
	ContentChunk ContentType = "chunk"
)

// RawVerse is one entry of the source corpus as decoded from JSON.
// Pointer fields let Process tell a missing field from a zero value.
type RawVerse struct {
	Chapter *int    `json:"chapter"`
	Verse   *int    `json:"verse"`
	Text    *string `json:"text"`
}

// NewRawVerse builds a fully populated RawVerse.
func NewRawVerse(chapter, verse int, text string) RawVerse {
	return RawVerse{Chapter: &chapter, Verse: &verse, Text: &text}
}

// VerseRecord is a single cleaned, theme-tagged verse.
type VerseRecord struct {
	Chapter     int          `json:"chapter"`
	Verse       int          `json:"verse"`
	Text        string       `json:"text"`
	VerseID     string       `json:"verse_id"`
	ContentType ContentType  `json:"content_type"`
	WordCount   int          `json:"word_count"`
	Theme       themes.Theme `json:"theme"`
}

// ChunkRecord groups a run of consecutive verses into one retrievable unit.
type ChunkRecord struct {
	ChunkID      string        `json:"chunk_id"`
	ChapterRange string        `json:"chapter_range"`
	VerseRange   string        `json:"verse_range"`
	Text         string        `json:"text"`
	Verses       []VerseRecord `json:"verses"`
	ContentType  ContentType   `json:"content_type"`
	Theme        themes.Theme  `json:"theme"`
}

// VerseID formats the identity of a verse.
func VerseID(chapter, verse int) string {
	return fmt.Sprintf("Chapter %d, Verse %d", chapter, verse)
}

// Entry is one element of the processed interchange format: either a verse
// or a chunk, never both.
type Entry struct {
	Verse *VerseRecord
	Chunk *ChunkRecord
}

// Text returns the retrievable text of the entry.
func (e Entry) Text() string {
	if e.Chunk != nil {
		return e.Chunk.Text
	}
	if e.Verse != nil {
		return e.Verse.Text
	}
	return ""
}

// MalformedInputError reports a corpus record missing a required field or
// carrying an invalid value.
type MalformedInputError struct {
	Index  int
	Field  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "missing"
	}
	return fmt.Sprintf("corpus record %d: field %q %s", e.Index, e.Field, reason)
}
