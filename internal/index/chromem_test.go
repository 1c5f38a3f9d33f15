package index

import (
	"context"
	"testing"
)

func TestChromemStoreAddAndSearch(t *testing.T) {
	ctx := context.Background()
	s, err := NewChromemStore(newMockEmbedder(64))
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	chunks := []string{
		"Paris is the capital of France.",
		"Photosynthesis converts light into chemical energy.",
	}
	if err := s.Add(ctx, chunks); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if s.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", s.Count())
	}

	results, err := s.Search(ctx, "capital of France", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Text != chunks[0] {
		t.Errorf("top result = %q, want %q", results[0].Text, chunks[0])
	}
}

func TestChromemStoreSearchClampsK(t *testing.T) {
	ctx := context.Background()
	s, err := NewChromemStore(newMockEmbedder(32))
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	if err := s.Add(ctx, []string{"only one chunk"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	results, err := s.Search(ctx, "chunk", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestChromemStorePersistLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	embedder := newMockEmbedder(48)

	s, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	if err := s.Add(ctx, []string{"alpha", "beta", "gamma"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Persist(dir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	restored, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	found, err := restored.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !found {
		t.Fatal("expected snapshot to be found")
	}
	if restored.Count() != 3 {
		t.Errorf("restored Count() = %d, want 3", restored.Count())
	}
}

func TestChromemStoreLoadAbsent(t *testing.T) {
	s, err := NewChromemStore(newMockEmbedder(16))
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	found, err := s.Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load on empty dir: %v", err)
	}
	if found {
		t.Error("expected absent snapshot, got found")
	}
}
