package rag

import (
	"context"
	"fmt"
	"log"

	"github.com/docchat/docchat/internal/chunker"
)

// SourceFile is one uploaded document to ingest.
type SourceFile struct {
	Name string // original filename, used for registry records
	Path string // readable path on disk
}

// IngestResult is the structured outcome of an ingest batch.
type IngestResult struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	AddedChunks int    `json:"added_chunks,omitempty"`
	TotalDocs   int    `json:"total_docs,omitempty"`
}

// Ingest extracts, chunks, and indexes a batch of documents, then persists a
// snapshot before reporting success. A document whose text cannot be
// extracted contributes zero chunks and never aborts the batch; a batch that
// yields no chunks at all is a structured failure and leaves the index
// untouched.
func (e *Engine) Ingest(ctx context.Context, files []SourceFile) IngestResult {
	e.ensureInitialized()

	var allChunks []string
	chunksPerFile := make([]int, len(files))
	for i, f := range files {
		text, err := e.extractor.Extract(f.Path)
		if err != nil {
			log.Printf("extracting %s: %v", f.Name, err)
			text = ""
		}
		chunks := chunker.Split(text, e.chunkSize, e.chunkOverlap)
		chunksPerFile[i] = len(chunks)
		allChunks = append(allChunks, chunks...)
	}

	if len(allChunks) == 0 {
		// The documents still get registry records so an all-empty upload is
		// visible in the listing, each with status empty.
		e.recordDocuments(ctx, files, chunksPerFile)
		return IngestResult{Status: "error", Message: "No text extracted from PDFs."}
	}

	// Single writer: mutation and persistence happen under the write lock,
	// so searches never observe the index mid-update and a reported success
	// always corresponds to a durable snapshot.
	e.mu.Lock()
	if e.store == nil {
		store, err := e.newStore()
		if err != nil {
			e.mu.Unlock()
			return IngestResult{Status: "error", Message: fmt.Sprintf("creating index: %v", err)}
		}
		e.store = store
	}

	if err := e.store.Add(ctx, allChunks); err != nil {
		e.mu.Unlock()
		log.Printf("indexing %d chunks: %v", len(allChunks), err)
		return IngestResult{Status: "error", Message: fmt.Sprintf("indexing failed: %v", err)}
	}

	if err := e.store.Persist(e.indexDir); err != nil {
		e.mu.Unlock()
		log.Printf("persisting index to %s: %v", e.indexDir, err)
		return IngestResult{Status: "error", Message: fmt.Sprintf("saving index failed: %v", err)}
	}
	e.mu.Unlock()

	e.recordDocuments(ctx, files, chunksPerFile)

	return IngestResult{
		Status:      "ok",
		AddedChunks: len(allChunks),
		TotalDocs:   len(files),
	}
}

func (e *Engine) recordDocuments(ctx context.Context, files []SourceFile, chunksPerFile []int) {
	if e.registry == nil {
		return
	}
	for i, f := range files {
		if _, err := e.registry.Record(ctx, f.Name, chunksPerFile[i]); err != nil {
			log.Printf("recording document %s: %v", f.Name, err)
		}
	}
}
