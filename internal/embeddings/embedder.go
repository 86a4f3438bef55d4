package embeddings

import (
	"context"
	"fmt"
)

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates one embedding per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model. Vectors from
	// embedders with different names live in different spaces.
	Name() string
}

// ServiceError reports that the embedding backend failed or returned an
// unusable response. Callers may retry; nothing in this module does.
type ServiceError struct {
	Embedder string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("embedding service %s: %v", e.Embedder, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// EmbedChecked calls e.Embed and verifies that exactly one vector came back
// per text, wrapping any failure in a ServiceError.
func EmbedChecked(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	vecs, err := e.Embed(ctx, texts)
	if err != nil {
		return nil, &ServiceError{Embedder: e.Name(), Err: err}
	}
	if len(vecs) != len(texts) {
		return nil, &ServiceError{
			Embedder: e.Name(),
			Err:      fmt.Errorf("got %d embeddings for %d texts", len(vecs), len(texts)),
		}
	}
	for i, v := range vecs {
		if len(v) == 0 {
			return nil, &ServiceError{Embedder: e.Name(), Err: fmt.Errorf("empty embedding at position %d", i)}
		}
	}
	return vecs, nil
}
