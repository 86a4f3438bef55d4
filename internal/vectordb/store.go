package vectordb

import (
	"context"
	"errors"
)

// ErrIndexUnavailable is returned by queries issued before the index has
// been built or loaded. An index that was built from an empty corpus is
// available and simply returns no results.
var ErrIndexUnavailable = errors.New("vector index is not built or loaded")

// ErrEmbeddingMismatch is returned when a persisted index was built with a
// different embedding model than the one configured now.
var ErrEmbeddingMismatch = errors.New("persisted index uses a different embedding model")

// Searcher is the read side of the index.
type Searcher interface {
	// Query embeds text and returns up to k nearest units, optionally
	// restricted to units matching filter.
	Query(ctx context.Context, text string, k int, filter *Filter) ([]Result, error)
}

// Index defines the interface for storing and searching verse units by embeddings.
type Index interface {
	Searcher

	// UpsertBatch embeds and adds units in batches. Each batch is committed
	// only if its embedding call succeeded.
	UpsertBatch(ctx context.Context, units []Unit) error

	// ReindexAll replaces the whole collection with units. The previous
	// contents stay queryable until the new generation is complete.
	ReindexAll(ctx context.Context, units []Unit) error

	// Stats reports the size and state of the index.
	Stats() Stats
}

// Persister saves and restores an index.
type Persister interface {
	Persist(ctx context.Context, dir string) error
	Load(ctx context.Context, dir string) error
}

// Stats describes the live generation of the index.
type Stats struct {
	UnitCount      int            `json:"unit_count"`
	Generation     int            `json:"generation"`
	EmbeddingModel string         `json:"embedding_model"`
	Ready          bool           `json:"ready"`
	ThemeCounts    map[string]int `json:"theme_counts,omitempty"`
}
