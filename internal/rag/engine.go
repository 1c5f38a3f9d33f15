// Package rag orchestrates the retrieval pipeline: ingestion of uploaded
// documents into the vector index, and question answering by retrieving
// relevant chunks and prompting a generation backend with them.
package rag

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/docchat/docchat/internal/extract"
	"github.com/docchat/docchat/internal/generate"
	"github.com/docchat/docchat/internal/index"
	"github.com/docchat/docchat/internal/registry"
)

// State describes the knowledge base as seen by clients.
type State string

const (
	StateEmpty  State = "Empty"
	StateLoaded State = "Loaded"
)

// EmptyKnowledgeBaseAnswer is returned for any question while no content has
// been ingested. No generation call is made in that case.
const EmptyKnowledgeBaseAnswer = "The knowledge base is empty. Ask the admin to upload PDFs."

// promptTemplate frames retrieved context and the user's question for the
// generation backend.
const promptTemplate = "Use the following pieces of context to answer the question at the end. " +
	"If you don't know the answer, just say that you don't know, don't try to make up an answer.\n\n" +
	"%s\n\nQuestion: %s\nHelpful Answer:"

// Params wires an Engine's collaborators.
type Params struct {
	// IndexDir is where index snapshots live.
	IndexDir string

	// NewStore creates an empty index store. Called once during lazy
	// initialization and again if a corrupt snapshot forces a reset.
	NewStore func() (index.Store, error)

	Generator generate.Generator
	Extractor extract.Extractor

	// Registry records ingested documents. May be nil.
	Registry *registry.Store

	ChunkSize    int
	ChunkOverlap int
	TopK         int
}

// Engine owns the shared vector index and serializes mutations on it.
// Searches proceed concurrently with each other but wait out an in-flight
// ingest; the snapshot load happens at most once, on first use.
type Engine struct {
	mu          sync.RWMutex
	initialized bool
	store       index.Store

	indexDir     string
	newStore     func() (index.Store, error)
	generator    generate.Generator
	extractor    extract.Extractor
	registry     *registry.Store
	chunkSize    int
	chunkOverlap int
	topK         int
}

// New creates an Engine. The index is not loaded here; the first question,
// ingest, or status request triggers the one-time snapshot load so process
// startup never blocks on a large snapshot.
func New(p Params) *Engine {
	if p.TopK <= 0 {
		p.TopK = 3
	}
	if p.ChunkSize <= 0 {
		p.ChunkSize = 1000
	}
	return &Engine{
		indexDir:     p.IndexDir,
		newStore:     p.NewStore,
		generator:    p.Generator,
		extractor:    p.Extractor,
		registry:     p.Registry,
		chunkSize:    p.ChunkSize,
		chunkOverlap: p.ChunkOverlap,
		topK:         p.TopK,
	}
}

// ensureInitialized performs the Uninitialized -> {Empty, Loaded} transition
// exactly once, even under concurrent first requests. A missing snapshot is
// the normal empty state; a corrupt one is logged and degraded to empty.
func (e *Engine) ensureInitialized() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return
	}
	e.initialized = true

	store, err := e.newStore()
	if err != nil {
		log.Printf("creating index store: %v", err)
		return
	}

	found, err := store.Load(e.indexDir)
	if err != nil {
		log.Printf("loading index snapshot from %s: %v (continuing with empty index)", e.indexDir, err)
		// The failed load may have left the store partially populated.
		if fresh, ferr := e.newStore(); ferr == nil {
			store = fresh
		}
	} else if found {
		log.Printf("loaded index snapshot from %s (%d chunks)", e.indexDir, store.Count())
	}

	e.store = store
}

// Status reports whether the knowledge base holds any searchable content.
func (e *Engine) Status() State {
	e.ensureInitialized()

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.store == nil || e.store.Count() == 0 {
		return StateEmpty
	}
	return StateLoaded
}

// Answer retrieves the chunks most relevant to question, assembles the
// prompt, and returns the generation backend's output verbatim — including
// its diagnostic strings. Internal failures are converted into an error
// answer; Answer never fails outright.
func (e *Engine) Answer(ctx context.Context, question string) string {
	e.ensureInitialized()

	e.mu.RLock()
	store := e.store
	if store == nil || store.Count() == 0 {
		e.mu.RUnlock()
		return EmptyKnowledgeBaseAnswer
	}

	results, err := store.Search(ctx, question, e.topK)
	e.mu.RUnlock()
	if err != nil {
		log.Printf("searching index: %v", err)
		return fmt.Sprintf("Error processing request: %v", err)
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	prompt := fmt.Sprintf(promptTemplate, strings.Join(texts, "\n"), question)

	return e.generator.Generate(ctx, prompt)
}
