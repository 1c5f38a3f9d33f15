package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	chromem "github.com/philippgille/chromem-go"

	"github.com/docchat/docchat/internal/embeddings"
)

const (
	collectionName      = "knowledge_base"
	chromemSnapshotFile = "chromem.gob.gz"
)

// ChromemStore implements Store using chromem-go. It computes the same exact
// cosine similarity as FlatStore, but the relative order of chunks with equal
// similarity is not defined by chromem.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// NewChromemStore creates a new in-memory ChromemStore.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemStore{
		db:         db,
		collection: col,
		embedFunc:  ef,
	}, nil
}

func (s *ChromemStore) Add(ctx context.Context, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	offset := s.collection.Count()
	docs := make([]chromem.Document, len(texts))
	for i, text := range texts {
		docs[i] = chromem.Document{
			ID:      fmt.Sprintf("chunk-%08d", offset+i),
			Content: text,
		}
	}

	return s.collection.AddDocuments(ctx, docs, 1)
}

func (s *ChromemStore) Search(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}

	// chromem-go requires nResults <= collection size.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := s.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = Result{Text: r.Content, Similarity: r.Similarity}
	}
	return out, nil
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

func (s *ChromemStore) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	// Export to a temp path, then rename into place so readers never see a
	// partial snapshot.
	tmp := filepath.Join(dir, chromemSnapshotFile+".tmp")
	if err := s.db.ExportToFile(tmp, true, ""); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("exporting snapshot: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, chromemSnapshotFile)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

func (s *ChromemStore) Load(dir string) (bool, error) {
	path := filepath.Join(dir, chromemSnapshotFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	if err := s.db.ImportFromFile(path, ""); err != nil {
		return false, fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire collection reference after import.
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return false, fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col
	return true, nil
}
