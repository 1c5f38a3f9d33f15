package index

import (
	"compress/gzip"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/docchat/docchat/internal/embeddings"
)

const flatSnapshotFile = "index.gob.gz"

// FlatStore is an exact brute-force store: every search scores the query
// against all stored vectors. Exactness keeps the ordering contract trivially
// correct at the scale this system targets (thousands of chunks).
type FlatStore struct {
	mu       sync.RWMutex
	embedder embeddings.Embedder
	dim      int
	texts    []string
	vectors  [][]float32
}

// flatSnapshot is the on-disk form of a FlatStore.
type flatSnapshot struct {
	Model   string
	Dim     int
	Texts   []string
	Vectors [][]float32
}

// NewFlatStore creates an empty FlatStore backed by the given embedder.
func NewFlatStore(embedder embeddings.Embedder) *FlatStore {
	return &FlatStore{embedder: embedder}
}

func (s *FlatStore) Add(ctx context.Context, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	vecs, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d chunks: %w", len(texts), err)
	}
	if len(vecs) != len(texts) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vecs), len(texts))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dim == 0 {
		s.dim = len(vecs[0])
	}
	for i, v := range vecs {
		if len(v) != s.dim {
			return fmt.Errorf("vector %d has dimension %d, index has %d", i, len(v), s.dim)
		}
	}

	s.texts = append(s.texts, texts...)
	s.vectors = append(s.vectors, vecs...)
	return nil
}

func (s *FlatStore) Search(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}

	qv, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.texts) == 0 {
		return nil, nil
	}

	scores := make([]float32, len(s.vectors))
	for i, v := range s.vectors {
		scores[i] = cosine(qv, v)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	// Stable sort keeps insertion order among equal scores.
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	results := make([]Result, 0, k)
	for _, idx := range order[:k] {
		results = append(results, Result{Text: s.texts[idx], Similarity: scores[idx]})
	}
	return results, nil
}

func (s *FlatStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.texts)
}

func (s *FlatStore) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	s.mu.RLock()
	snap := flatSnapshot{
		Model:   s.embedder.Name(),
		Dim:     s.dim,
		Texts:   s.texts,
		Vectors: s.vectors,
	}
	s.mu.RUnlock()

	// Write to a temp file in the same directory, then rename over the
	// snapshot so readers never see a partial write.
	tmp, err := os.CreateTemp(dir, flatSnapshotFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	zw := gzip.NewWriter(tmp)
	if err := gob.NewEncoder(zw).Encode(snap); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(dir, flatSnapshotFile)); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

func (s *FlatStore) Load(dir string) (bool, error) {
	path := filepath.Join(dir, flatSnapshotFile)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return false, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	defer zr.Close()

	var snap flatSnapshot
	if err := gob.NewDecoder(zr).Decode(&snap); err != nil {
		return false, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}

	// Mixing vectors from different embedding models is unsupported.
	if snap.Model != s.embedder.Name() {
		return false, fmt.Errorf("snapshot was built with embedding model %q, configured model is %q", snap.Model, s.embedder.Name())
	}
	if len(snap.Texts) != len(snap.Vectors) {
		return false, fmt.Errorf("snapshot %s is inconsistent: %d texts, %d vectors", path, len(snap.Texts), len(snap.Vectors))
	}

	s.mu.Lock()
	s.dim = snap.Dim
	s.texts = snap.Texts
	s.vectors = snap.Vectors
	s.mu.Unlock()
	return true, nil
}

func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
