package vectordb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/gitaguide/internal/embeddings"
)

const (
	collectionName   = "gita_wisdom"
	indexFileName    = "chromem.gob.gz"
	manifestFileName = "manifest.json"

	// DefaultBatchSize is the number of units embedded per backend call.
	DefaultBatchSize = 100
)

// indexedFields are the metadata fields whose value populations are
// tracked so queries never ask chromem for more results than exist.
var indexedFields = []Field{FieldTheme, FieldChapter, FieldContentType, FieldVerseID}

// Options configures a ChromemStore.
type Options struct {
	// BatchSize is the number of units embedded per call. Defaults to 100.
	BatchSize int
	// OnBatch, if set, is called after each committed batch.
	OnBatch func(done, total int)
}

// generation is one complete build of the collection. Generations are
// swapped as a whole by ReindexAll and Load.
type generation struct {
	id     int
	db     *chromem.DB
	col    *chromem.Collection
	total  int
	counts map[Field]map[string]int
}

func newGeneration(id int, ef chromem.EmbeddingFunc) (*generation, error) {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &generation{id: id, db: db, col: col, counts: newCounts()}, nil
}

func newCounts() map[Field]map[string]int {
	counts := make(map[Field]map[string]int, len(indexedFields))
	for _, f := range indexedFields {
		counts[f] = make(map[string]int)
	}
	return counts
}

func (g *generation) record(md map[string]string) {
	g.total++
	for _, f := range indexedFields {
		if v := md[string(f)]; v != "" {
			g.counts[f][v]++
		}
	}
}

// population is the number of units a query with filter can match.
func (g *generation) population(filter *Filter) int {
	if filter == nil || filter.Field == "" {
		return g.total
	}
	if byValue, ok := g.counts[filter.Field]; ok {
		return byValue[filter.Value]
	}
	// Untracked field: fall back to the whole collection and let chromem filter.
	return g.total
}

// ChromemStore implements Index using chromem-go.
//
// Queries only take a read lock on the live generation. Writers are
// serialized by writeMu; ReindexAll and Load build a new generation off to
// the side and swap it in, so readers never see a half-built index.
type ChromemStore struct {
	embedder  embeddings.Embedder
	embedFunc chromem.EmbeddingFunc
	opts      Options

	writeMu sync.Mutex

	mu  sync.RWMutex
	gen *generation // nil until built or loaded
}

// NewChromemStore creates an empty, not yet built ChromemStore.
func NewChromemStore(embedder embeddings.Embedder, opts Options) *ChromemStore {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &ChromemStore{
		embedder:  embedder,
		embedFunc: embeddings.ToChromemFunc(embedder),
		opts:      opts,
	}
}

// UpsertBatch adds units to the live generation, creating it if the index
// has never been built. Every unit receives a fresh ID.
func (s *ChromemStore) UpsertBatch(ctx context.Context, units []Unit) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.gen == nil {
		g, err := newGeneration(1, s.embedFunc)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		s.gen = g
	}
	g := s.gen
	s.mu.Unlock()

	return s.addBatches(ctx, g, units, true)
}

// ReindexAll builds a new generation from units and swaps it in. On error
// the previous generation stays live.
func (s *ChromemStore) ReindexAll(ctx context.Context, units []Unit) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	next := 1
	if s.gen != nil {
		next = s.gen.id + 1
	}
	s.mu.RUnlock()

	g, err := newGeneration(next, s.embedFunc)
	if err != nil {
		return err
	}
	if err := s.addBatches(ctx, g, units, false); err != nil {
		return fmt.Errorf("reindex generation %d: %w", next, err)
	}

	s.mu.Lock()
	s.gen = g
	s.mu.Unlock()
	return nil
}

// addBatches embeds and inserts units batch by batch. live reports whether
// g is already visible to readers and therefore needs the write lock.
func (s *ChromemStore) addBatches(ctx context.Context, g *generation, units []Unit, live bool) error {
	total := len(units)
	for start := 0; start < total; start += s.opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stopped before batch %d: %w", start, err)
		}
		end := min(start+s.opts.BatchSize, total)
		batch := units[start:end]

		texts := make([]string, len(batch))
		for i, u := range batch {
			texts[i] = u.Content
		}
		vecs, err := embeddings.EmbedChecked(ctx, s.embedder, texts)
		if err != nil {
			return fmt.Errorf("embedding batch %d-%d: %w", start, end, err)
		}

		docs := make([]chromem.Document, len(batch))
		for i, u := range batch {
			docs[i] = chromem.Document{
				ID:        uuid.NewString(),
				Content:   u.Content,
				Embedding: vecs[i],
				Metadata:  metadataToMap(u.Metadata),
			}
		}

		if live {
			s.mu.Lock()
		}
		err = commitBatch(ctx, g, docs)
		if live {
			s.mu.Unlock()
		}
		if err != nil {
			return fmt.Errorf("adding batch %d-%d: %w", start, end, err)
		}

		if s.opts.OnBatch != nil {
			s.opts.OnBatch(end, total)
		}
	}
	return nil
}

// commitBatch inserts docs whose embeddings are already computed. Once
// embedding has succeeded the insert is not cut short by cancellation, and
// a failed insert is rolled back so the collection and counts agree.
func commitBatch(ctx context.Context, g *generation, docs []chromem.Document) error {
	ctx = context.WithoutCancel(ctx)
	if err := g.col.AddDocuments(ctx, docs, 1); err != nil {
		ids := make([]string, len(docs))
		for i, d := range docs {
			ids[i] = d.ID
		}
		if delErr := g.col.Delete(ctx, nil, nil, ids...); delErr != nil {
			return errors.Join(err, fmt.Errorf("rolling back batch: %w", delErr))
		}
		return err
	}
	for _, d := range docs {
		g.record(d.Metadata)
	}
	return nil
}

// Query returns up to k units nearest to text.
func (s *ChromemStore) Query(ctx context.Context, text string, k int, filter *Filter) ([]Result, error) {
	if k <= 0 {
		k = 10
	}

	s.mu.RLock()
	ready := s.gen != nil
	s.mu.RUnlock()
	if !ready {
		return nil, ErrIndexUnavailable
	}

	vecs, err := embeddings.EmbedChecked(ctx, s.embedder, []string{text})
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	g := s.gen

	// chromem-go ranks concurrently and breaks ties arbitrarily, so fetch
	// every candidate and cut to k after a stable ordering.
	n := g.population(filter)
	if n == 0 {
		return nil, nil
	}

	results, err := g.col.QueryEmbedding(ctx, vecs[0], n, filter.where(), nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = Result{
			Unit: Unit{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: mapToMetadata(r.Metadata),
			},
			Similarity: r.Similarity,
		}
	}
	sortResults(out)
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// sortResults orders by similarity, then by verse ID, chunk ID, content
// and unit ID, so equal scores always rank the same way.
func sortResults(rs []Result) {
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := rs[i], rs[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if a.Unit.Metadata.VerseID != b.Unit.Metadata.VerseID {
			return a.Unit.Metadata.VerseID < b.Unit.Metadata.VerseID
		}
		if a.Unit.Metadata.ChunkID != b.Unit.Metadata.ChunkID {
			return a.Unit.Metadata.ChunkID < b.Unit.Metadata.ChunkID
		}
		if a.Unit.Content != b.Unit.Content {
			return a.Unit.Content < b.Unit.Content
		}
		return a.Unit.ID < b.Unit.ID
	})
}

// Stats reports the live generation.
func (s *ChromemStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{EmbeddingModel: s.embedder.Name()}
	if s.gen == nil {
		return st
	}
	st.Ready = true
	st.UnitCount = s.gen.col.Count()
	st.Generation = s.gen.id
	st.ThemeCounts = make(map[string]int, len(s.gen.counts[FieldTheme]))
	for theme, n := range s.gen.counts[FieldTheme] {
		st.ThemeCounts[theme] = n
	}
	return st
}

// Count returns the number of units in the live generation.
func (s *ChromemStore) Count() int {
	return s.Stats().UnitCount
}

// manifest is written next to the chromem export. It records the
// embedding model so a later Load can refuse a mismatched space.
type manifest struct {
	EmbeddingModel string                    `json:"embedding_model"`
	Dimensions     int                       `json:"dimensions"`
	Generation     int                       `json:"generation"`
	Total          int                       `json:"total"`
	Counts         map[Field]map[string]int `json:"counts"`
}

// Persist writes the live generation to dir.
func (s *ChromemStore) Persist(ctx context.Context, dir string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.gen == nil {
		return ErrIndexUnavailable
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index dir %s: %w", dir, err)
	}
	if err := s.gen.db.ExportToFile(filepath.Join(dir, indexFileName), true, ""); err != nil {
		return fmt.Errorf("export to file: %w", err)
	}

	data, err := json.MarshalIndent(manifest{
		EmbeddingModel: s.embedder.Name(),
		Dimensions:     s.embedder.Dimensions(),
		Generation:     s.gen.id,
		Total:          s.gen.total,
		Counts:         s.gen.counts,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFileName), data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Load replaces the live generation with the one persisted in dir.
func (s *ChromemStore) Load(ctx context.Context, dir string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	data, err := os.ReadFile(filepath.Join(dir, manifestFileName))
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decoding manifest: %w", err)
	}
	if m.EmbeddingModel != s.embedder.Name() {
		return fmt.Errorf("%w: index built with %q, configured %q", ErrEmbeddingMismatch, m.EmbeddingModel, s.embedder.Name())
	}

	db := chromem.NewDB()
	if err := db.ImportFromFile(filepath.Join(dir, indexFileName), ""); err != nil {
		return fmt.Errorf("import from file: %w", err)
	}
	col := db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}

	g := &generation{id: m.Generation, db: db, col: col, total: m.Total, counts: newCounts()}
	for f, byValue := range m.Counts {
		if _, ok := g.counts[f]; !ok {
			continue
		}
		for v, n := range byValue {
			g.counts[f][v] = n
		}
	}
	if g.total != col.Count() {
		return fmt.Errorf("manifest lists %d units but index holds %d", g.total, col.Count())
	}

	s.mu.Lock()
	s.gen = g
	s.mu.Unlock()
	return nil
}

// Reset removes a persisted index from dir. A missing index is not an error.
func Reset(dir string) error {
	for _, name := range []string{indexFileName, manifestFileName} {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", name, err)
		}
	}
	return nil
}

// Exists reports whether dir holds a persisted index.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, manifestFileName))
	return err == nil
}
