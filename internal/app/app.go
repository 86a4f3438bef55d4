// Package app wires the configured components into one object built at
// startup. Commands, the HTTP server and the MCP server all work through it.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ziadkadry99/gitaguide/internal/composer"
	"github.com/ziadkadry99/gitaguide/internal/config"
	"github.com/ziadkadry99/gitaguide/internal/corpus"
	"github.com/ziadkadry99/gitaguide/internal/db"
	"github.com/ziadkadry99/gitaguide/internal/embeddings"
	"github.com/ziadkadry99/gitaguide/internal/history"
	"github.com/ziadkadry99/gitaguide/internal/llm"
	"github.com/ziadkadry99/gitaguide/internal/logger"
	"github.com/ziadkadry99/gitaguide/internal/retrieval"
	"github.com/ziadkadry99/gitaguide/internal/themes"
	"github.com/ziadkadry99/gitaguide/internal/vectordb"
)

// Options adjusts how New builds the App.
type Options struct {
	// OnBatch receives indexing progress.
	OnBatch func(done, total int)
	// NoHistory skips opening the history database.
	NoHistory bool
	// Embedder overrides the configured embedder.
	Embedder embeddings.Embedder
	// Provider overrides the configured generation provider.
	Provider llm.Provider
}

// App holds everything a request needs.
type App struct {
	Config    *config.Config
	Embedder  embeddings.Embedder
	Index     *vectordb.ChromemStore
	Retriever *retrieval.Retriever
	Composer  *composer.Composer
	// History is nil when disabled.
	History *history.Store

	provider llm.Provider
	db       *db.DB
}

// New builds an App from cfg. The index starts empty; call LoadIndex or
// BuildIndex before querying.
func New(cfg *config.Config, opts Options) (*App, error) {
	embedder := opts.Embedder
	if embedder == nil {
		var err error
		embedder, err = NewEmbedder(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating embedder: %w", err)
		}
	}

	provider := opts.Provider
	if provider == nil {
		p, err := NewProvider(cfg)
		switch {
		case errors.Is(err, llm.ErrNotConfigured):
			logger.Debug("generation disabled: %v", err)
		case err != nil:
			return nil, fmt.Errorf("creating provider: %w", err)
		default:
			provider = p
		}
	}

	index := vectordb.NewChromemStore(embedder, vectordb.Options{
		BatchSize: cfg.BatchSize,
		OnBatch:   opts.OnBatch,
	})

	a := &App{
		Config:    cfg,
		Embedder:  embedder,
		Index:     index,
		Retriever: retrieval.New(index, retrieval.Options{KeywordBonus: cfg.KeywordBonus}),
		Composer:  composer.New(provider, cfg.GenerationTimeout),
		provider:  provider,
	}

	if !opts.NoHistory && cfg.HistoryDB != "" {
		database, err := db.Open(cfg.HistoryDB)
		if err != nil {
			return nil, fmt.Errorf("opening history: %w", err)
		}
		a.db = database
		a.History = history.NewStore(database)
	}
	return a, nil
}

// Close releases the history database.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// ProviderName is the generation provider in use, or "" when generation
// is disabled.
func (a *App) ProviderName() string {
	if a.provider == nil {
		return ""
	}
	return a.provider.Name()
}

// IngestResult describes a processed corpus.
type IngestResult struct {
	Verses  []corpus.VerseRecord
	Chunks  []corpus.ChunkRecord
	Entries []corpus.Entry
	Stats   corpus.Statistics
}

// Ingest reads the raw corpus, processes it and writes the processed cache
// when a cache path is configured.
func (a *App) Ingest() (*IngestResult, error) {
	start := time.Now()
	raw, err := corpus.LoadRaw(a.Config.CorpusPath)
	if err != nil {
		return nil, err
	}
	verses, chunks, err := corpus.Process(raw, corpus.Options{ChunkSize: a.Config.ChunkSize})
	if err != nil {
		return nil, err
	}
	entries := corpus.Combined(verses, chunks)

	if a.Config.ProcessedPath != "" {
		if err := corpus.SaveProcessed(a.Config.ProcessedPath, entries); err != nil {
			return nil, err
		}
	}
	logger.Elapsed("ingest", start)

	return &IngestResult{
		Verses:  verses,
		Chunks:  chunks,
		Entries: entries,
		Stats:   corpus.Stats(verses, chunks),
	}, nil
}

// Entries returns the processed corpus, from the cache when present.
func (a *App) Entries() ([]corpus.Entry, error) {
	if p := a.Config.ProcessedPath; p != "" {
		if _, err := os.Stat(p); err == nil {
			logger.Debug("using processed corpus %s", p)
			return corpus.LoadProcessed(p)
		}
	}
	res, err := a.Ingest()
	if err != nil {
		return nil, err
	}
	return res.Entries, nil
}

// BuildIndex embeds the processed corpus into a new index generation and
// persists it. reset removes the persisted index first.
func (a *App) BuildIndex(ctx context.Context, reset bool) (vectordb.Stats, error) {
	if reset {
		if err := vectordb.Reset(a.Config.IndexDir); err != nil {
			return vectordb.Stats{}, err
		}
		logger.Info("removed index in %s", a.Config.IndexDir)
	}

	entries, err := a.Entries()
	if err != nil {
		return vectordb.Stats{}, err
	}

	start := time.Now()
	if err := a.Index.ReindexAll(ctx, vectordb.UnitsFromEntries(entries)); err != nil {
		return vectordb.Stats{}, err
	}
	logger.Elapsed("indexing", start)

	if err := a.Index.Persist(ctx, a.Config.IndexDir); err != nil {
		return vectordb.Stats{}, err
	}
	return a.Index.Stats(), nil
}

// LoadIndex loads the persisted index. It returns an error wrapping
// vectordb.ErrIndexUnavailable when nothing has been built yet.
func (a *App) LoadIndex(ctx context.Context) error {
	if !vectordb.Exists(a.Config.IndexDir) {
		return fmt.Errorf("%w: run `gitaguide index` first", vectordb.ErrIndexUnavailable)
	}
	start := time.Now()
	if err := a.Index.Load(ctx, a.Config.IndexDir); err != nil {
		return err
	}
	logger.Elapsed("index load", start)
	return nil
}

// embeddingContext bounds a query embedding call.
func (a *App) embeddingContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.Config.EmbeddingTimeout > 0 {
		return context.WithTimeout(ctx, a.Config.EmbeddingTimeout)
	}
	return context.WithCancel(ctx)
}

// Retrieve runs the retrieval pipeline. maxResults <= 0 uses the configured
// default.
func (a *App) Retrieve(ctx context.Context, query string, maxResults int) ([]retrieval.Hit, error) {
	if maxResults <= 0 {
		maxResults = a.Config.MaxResults
	}
	ctx, cancel := a.embeddingContext(ctx)
	defer cancel()
	return a.Retriever.Retrieve(ctx, query, maxResults)
}

// SearchChapter ranks the verses of one chapter against query.
func (a *App) SearchChapter(ctx context.Context, query string, chapter, maxResults int) ([]retrieval.Hit, error) {
	if maxResults <= 0 {
		maxResults = a.Config.MaxResults
	}
	ctx, cancel := a.embeddingContext(ctx)
	defer cancel()
	return a.Retriever.SearchChapter(ctx, query, chapter, maxResults)
}

// BuildContext retrieves and packs context for query. maxChars <= 0 uses
// the configured default.
func (a *App) BuildContext(ctx context.Context, query string, maxChars int) (*retrieval.QueryContext, error) {
	if maxChars <= 0 {
		maxChars = a.Config.MaxContextChars
	}
	ctx, cancel := a.embeddingContext(ctx)
	defer cancel()

	hits, err := a.Retriever.Retrieve(ctx, query, a.Config.MaxResults)
	if err != nil {
		return nil, err
	}
	qc := retrieval.Pack(hits, maxChars)
	qc.QueryThemes = themes.QueryThemes(query)
	return qc, nil
}

// Ask answers query and records it in the history. Retrieval errors are
// returned; generation failures come back inside the Result.
func (a *App) Ask(ctx context.Context, query string) (composer.Result, error) {
	qc, err := a.BuildContext(ctx, query, 0)
	if err != nil {
		return composer.Result{}, err
	}
	res := a.Composer.Compose(ctx, query, qc)

	if a.History != nil {
		if _, err := a.History.Record(ctx, a.entryFor(query, res)); err != nil {
			logger.Warn("recording history: %v", err)
		}
	}
	return res, nil
}

func (a *App) entryFor(query string, res composer.Result) history.Entry {
	labels := make([]string, len(res.UsedVerses))
	for i, h := range res.UsedVerses {
		labels[i] = h.Label()
	}
	return history.Entry{
		Question:     query,
		Kind:         string(res.Kind),
		Themes:       themes.Strings(res.Themes),
		VerseIDs:     labels,
		Response:     res.Response,
		Error:        res.Error,
		Disclaimer:   res.Disclaimer,
		Provider:     a.ProviderName(),
		Model:        res.Model,
		InputTokens:  res.InputTokens,
		OutputTokens: res.OutputTokens,
		CostUSD:      res.CostUSD,
	}
}

// ContextualVerses returns the neighbors of a verse within radius.
func (a *App) ContextualVerses(ctx context.Context, chapter, verse, radius int) ([]retrieval.Hit, error) {
	ctx, cancel := a.embeddingContext(ctx)
	defer cancel()
	return a.Retriever.ContextualVerses(ctx, chapter, verse, radius)
}

// IndexStats reports the live index generation.
func (a *App) IndexStats() vectordb.Stats {
	return a.Index.Stats()
}
