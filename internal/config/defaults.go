package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:    8000,
		DataDir: "data",
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 200,
		},
		Retrieval: RetrievalConfig{
			TopK: 3,
		},
		Index: IndexConfig{
			Backend: "flat",
		},
		Embedding: EmbeddingConfig{
			Provider: EmbeddingOllama,
			Model:    "nomic-embed-text",
		},
		Generation: GenerationConfig{
			Provider:       GenerationHuggingFace,
			Model:          "google/flan-t5-large",
			MaxLength:      512,
			Temperature:    0.5,
			TimeoutSeconds: 30,
		},
	}
}
