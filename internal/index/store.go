// Package index stores chunk texts with their embeddings and answers
// nearest-neighbor queries over them. A store is either empty or fully
// loaded; snapshots round-trip exactly through Persist and Load.
package index

import (
	"context"
	"fmt"

	"github.com/docchat/docchat/internal/embeddings"
)

// Backend identifies a store implementation.
type Backend string

const (
	BackendFlat    Backend = "flat"
	BackendChromem Backend = "chromem"
)

// Result is a single search hit.
type Result struct {
	Text       string  `json:"text"`
	Similarity float32 `json:"similarity"`
}

// Store holds chunk texts and their embeddings.
//
// Add and Persist must not be called concurrently with each other or with
// Search on the same store; the owning orchestrator serializes mutations.
// Search calls may interleave freely with each other.
type Store interface {
	// Add embeds the given chunk texts and appends them, preserving all
	// previously stored chunks.
	Add(ctx context.Context, texts []string) error

	// Search returns up to k chunks ordered by descending cosine similarity
	// to the query text. Ties are broken by insertion order.
	Search(ctx context.Context, query string, k int) ([]Result, error)

	// Count returns the number of stored chunks.
	Count() int

	// Persist writes a snapshot of the full store to dir. The snapshot
	// replaces any prior one atomically; a reader never observes a
	// half-written file.
	Persist(dir string) error

	// Load restores a snapshot from dir. It returns false with a nil error
	// when no snapshot exists; a snapshot that exists but cannot be read is
	// an error the caller may degrade to an empty store.
	Load(dir string) (bool, error)
}

// New creates an empty store using the given backend.
func New(backend Backend, embedder embeddings.Embedder) (Store, error) {
	switch backend {
	case BackendFlat, "":
		return NewFlatStore(embedder), nil
	case BackendChromem:
		return NewChromemStore(embedder)
	default:
		return nil, fmt.Errorf("unknown index backend %q", backend)
	}
}
