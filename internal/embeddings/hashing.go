package embeddings

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// DefaultHashDimensions matches the MiniLM vector size the corpus was
// originally indexed with.
const DefaultHashDimensions = 384

var hashTokenPattern = regexp.MustCompile(`[\p{L}\p{N}\x{0900}-\x{097F}]+`)

// HashEmbedder is an offline, deterministic embedder based on feature
// hashing of lowercased word unigrams and bigrams. It needs no corpus
// preparation and no network, which makes it the default for tests and
// for running without an API key. Relevance is lexical, not semantic.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder creates a hashing embedder producing dims-sized vectors.
// dims <= 0 selects DefaultHashDimensions.
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = DefaultHashDimensions
	}
	return &HashEmbedder{dims: dims}
}

func (e *HashEmbedder) Name() string {
	return fmt.Sprintf("hash-%d", e.dims)
}

func (e *HashEmbedder) Dimensions() int {
	return e.dims
}

func (e *HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *HashEmbedder) vector(text string) []float32 {
	vec := make([]float32, e.dims)
	tokens := hashTokenPattern.FindAllString(strings.ToLower(text), -1)
	for i, tok := range tokens {
		e.add(vec, tok, 1.0)
		if i > 0 {
			e.add(vec, tokens[i-1]+" "+tok, 0.5)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		// chromem rejects zero vectors; give empty text a fixed direction.
		vec[0] = 1
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

// add hashes feature into a bucket and uses a second hash bit as the sign
// so that collisions tend to cancel rather than accumulate.
func (e *HashEmbedder) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(e.dims))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[idx] += weight
}
