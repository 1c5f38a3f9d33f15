package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/docchat/docchat/internal/config"
	"github.com/docchat/docchat/internal/db"
	"github.com/docchat/docchat/internal/embeddings"
	"github.com/docchat/docchat/internal/extract"
	"github.com/docchat/docchat/internal/generate"
	"github.com/docchat/docchat/internal/index"
	"github.com/docchat/docchat/internal/rag"
	"github.com/docchat/docchat/internal/registry"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docchat init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
// Construction verifies the model is usable, so a misconfigured embedding
// backend fails here rather than on the first request.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.Embedding.Provider {
	case config.EmbeddingOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.Embedding.Model))
	case config.EmbeddingOllama:
		return embeddings.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.Dimensions, cfg.Embedding.BaseURL)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}

// createGeneratorFromConfig creates a generate.Generator based on config.
// A missing credential is not fatal here; the generator reports it as a
// diagnostic answer per call.
func createGeneratorFromConfig(cfg *config.Config) (generate.Generator, error) {
	token := os.Getenv(config.APITokenEnvVar(cfg.Generation.Provider))
	timeout := time.Duration(cfg.Generation.TimeoutSeconds) * time.Second

	switch cfg.Generation.Provider {
	case config.GenerationHuggingFace:
		endpoint := cfg.Generation.Endpoint
		if endpoint == "" && cfg.Generation.Model != "" {
			endpoint = "https://api-inference.huggingface.co/models/" + cfg.Generation.Model
		}
		return generate.NewHuggingFaceClient(endpoint, token, cfg.Generation.MaxLength, cfg.Generation.Temperature, timeout), nil
	case config.GenerationOpenAI:
		return generate.NewOpenAIClient(cfg.Generation.Endpoint, token, cfg.Generation.Model, cfg.Generation.MaxLength, cfg.Generation.Temperature), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Generation.Provider)
	}
}

// buildEngine wires the full retrieval pipeline from config. The returned
// cleanup closes the registry database.
func buildEngine(cfg *config.Config) (*rag.Engine, *registry.Store, func(), error) {
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating embedder: %w", err)
	}

	generator, err := createGeneratorFromConfig(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating generator: %w", err)
	}

	database, err := db.Open(filepath.Join(cfg.DataDir, "docchat.db"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening registry database: %w", err)
	}
	reg := registry.NewStore(database)

	engine := rag.New(rag.Params{
		IndexDir: filepath.Join(cfg.DataDir, "index"),
		NewStore: func() (index.Store, error) {
			return index.New(index.Backend(cfg.Index.Backend), embedder)
		},
		Generator:    generator,
		Extractor:    extract.New(),
		Registry:     reg,
		ChunkSize:    cfg.Chunking.Size,
		ChunkOverlap: cfg.Chunking.Overlap,
		TopK:         cfg.Retrieval.TopK,
	})

	return engine, reg, func() { database.Close() }, nil
}
