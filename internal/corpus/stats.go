package corpus

import (
	"sort"

	"github.com/ziadkadry99/gitaguide/internal/themes"
)

// Statistics summarizes a processed corpus.
type Statistics struct {
	TotalVerses      int            `json:"total_verses"`
	TotalChunks      int            `json:"total_chunks"`
	TotalChapters    int            `json:"total_chapters"`
	AvgWordsPerVerse float64        `json:"avg_words_per_verse"`
	Themes           []themes.Theme `json:"themes"`
	ThemeCounts      map[string]int `json:"theme_counts"`
}

// Stats computes dataset statistics, mirroring what `gitaguide stats` prints.
func Stats(verses []VerseRecord, chunks []ChunkRecord) Statistics {
	if len(verses) == 0 {
		return Statistics{TotalChunks: len(chunks)}
	}

	st := Statistics{
		TotalVerses: len(verses),
		TotalChunks: len(chunks),
		ThemeCounts: make(map[string]int),
	}
	words := 0
	for _, v := range verses {
		words += v.WordCount
		st.TotalChapters = max(st.TotalChapters, v.Chapter)
		st.ThemeCounts[string(v.Theme)]++
	}
	st.AvgWordsPerVerse = float64(words) / float64(len(verses))

	for name := range st.ThemeCounts {
		st.Themes = append(st.Themes, themes.Theme(name))
	}
	sort.Slice(st.Themes, func(i, j int) bool { return st.Themes[i] < st.Themes[j] })
	return st
}
