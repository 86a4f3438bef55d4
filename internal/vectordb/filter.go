package vectordb

import (
	"strconv"

	"github.com/ziadkadry99/gitaguide/internal/corpus"
	"github.com/ziadkadry99/gitaguide/internal/themes"
)

// Field names a metadata attribute a query can be filtered on.
type Field string

const (
	FieldTheme       Field = keyTheme
	FieldChapter     Field = keyChapter
	FieldContentType Field = keyContentType
	FieldVerseID     Field = keyVerseID
)

// Filter restricts a query to units whose Field equals Value exactly.
// Only single-field equality is supported. Use the constructors so that
// numeric fields are encoded the same way they are stored.
type Filter struct {
	Field Field
	Value string
}

// ByTheme matches units tagged with theme t.
func ByTheme(t themes.Theme) *Filter {
	return &Filter{Field: FieldTheme, Value: string(t)}
}

// ByChapter matches verse units from the given chapter.
func ByChapter(chapter int) *Filter {
	return &Filter{Field: FieldChapter, Value: strconv.Itoa(chapter)}
}

// ByContentType matches only verses or only chunks.
func ByContentType(ct corpus.ContentType) *Filter {
	return &Filter{Field: FieldContentType, Value: string(ct)}
}

// ByVerseID matches the unit for a single verse.
func ByVerseID(id string) *Filter {
	return &Filter{Field: FieldVerseID, Value: id}
}

// where converts the filter to a chromem where clause.
func (f *Filter) where() map[string]string {
	if f == nil || f.Field == "" {
		return nil
	}
	return map[string]string{string(f.Field): f.Value}
}
