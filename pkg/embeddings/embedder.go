// Package embeddings defines the text-embedding client used to vectorize
// pet personality descriptions and adopter preference summaries for
// similarity retrieval.
package embeddings

import (
	"context"
	"errors"
)

// ErrEmbedding is returned when embedding generation fails.
var ErrEmbedding = errors.New("embedding failed")

// Embedder provides text embedding capabilities.
//
// An empty vector means "no vector available", never a zero vector;
// callers must not hand an empty result to a similarity search.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
