package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// LoadRaw reads the raw corpus from a JSON array file. The pattern may be a
// plain path or a doublestar glob such as "data/**/*.json"; matched files
// are read in sorted order and concatenated.
func LoadRaw(pattern string) ([]RawVerse, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("matching corpus pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no corpus files match %q", pattern)
	}
	sort.Strings(paths)

	var all []RawVerse
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading corpus %s: %w", p, err)
		}
		var batch []RawVerse
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("decoding corpus %s: %w", p, err)
		}
		all = append(all, batch...)
	}
	return all, nil
}

// MarshalJSON writes the entry as the bare verse or chunk object.
func (e Entry) MarshalJSON() ([]byte, error) {
	switch {
	case e.Chunk != nil:
		return json.Marshal(e.Chunk)
	case e.Verse != nil:
		return json.Marshal(e.Verse)
	default:
		return nil, fmt.Errorf("empty corpus entry")
	}
}

// UnmarshalJSON decodes a verse or a chunk based on its content_type.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var probe struct {
		ContentType ContentType `json:"content_type"`
		ChunkID     string      `json:"chunk_id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.ContentType == ContentChunk || probe.ChunkID != "" {
		var c ChunkRecord
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		e.Chunk, e.Verse = &c, nil
		return nil
	}
	var v VerseRecord
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	e.Verse, e.Chunk = &v, nil
	return nil
}

// SaveProcessed writes the combined verse and chunk list to path as
// indented JSON. It is a reuse cache, not a stable format.
func SaveProcessed(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding processed corpus: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing processed corpus to %s: %w", path, err)
	}
	return nil
}

// LoadProcessed reads a file written by SaveProcessed.
func LoadProcessed(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading processed corpus %s: %w", path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding processed corpus %s: %w", path, err)
	}
	return entries, nil
}

// Split separates entries back into verse and chunk records.
func Split(entries []Entry) ([]VerseRecord, []ChunkRecord) {
	var verses []VerseRecord
	var chunks []ChunkRecord
	for _, e := range entries {
		switch {
		case e.Verse != nil:
			verses = append(verses, *e.Verse)
		case e.Chunk != nil:
			chunks = append(chunks, *e.Chunk)
		}
	}
	return verses, chunks
}
