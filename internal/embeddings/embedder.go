package embeddings

import "context"

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates embeddings for one or more texts, order preserving.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates the embedding for a single query string.
	// Equivalent to Embed with a one-element batch, without requiring the
	// caller to wrap and unwrap a slice.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}
