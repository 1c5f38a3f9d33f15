package config

// EmbeddingProvider identifies an embedding backend.
type EmbeddingProvider string

const (
	EmbeddingOllama EmbeddingProvider = "ollama"
	EmbeddingOpenAI EmbeddingProvider = "openai"
)

// GenerationProvider identifies a text-generation backend.
type GenerationProvider string

const (
	GenerationHuggingFace GenerationProvider = "huggingface"
	GenerationOpenAI      GenerationProvider = "openai"
)

// Config is the top-level docchat configuration, corresponding to .docchat.yml.
type Config struct {
	Port            int    `yaml:"port" koanf:"port"`
	DataDir         string `yaml:"data_dir" koanf:"data_dir"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`

	Chunking   ChunkingConfig   `yaml:"chunking" koanf:"chunking"`
	Retrieval  RetrievalConfig  `yaml:"retrieval" koanf:"retrieval"`
	Index      IndexConfig      `yaml:"index" koanf:"index"`
	Embedding  EmbeddingConfig  `yaml:"embedding" koanf:"embedding"`
	Generation GenerationConfig `yaml:"generation" koanf:"generation"`
}

// ChunkingConfig controls how extracted text is windowed. Changing these
// values does not re-chunk content already in the index.
type ChunkingConfig struct {
	Size    int `yaml:"size" koanf:"size"`
	Overlap int `yaml:"overlap" koanf:"overlap"`
}

// RetrievalConfig controls how many chunks are pulled into each prompt.
type RetrievalConfig struct {
	TopK int `yaml:"top_k" koanf:"top_k"`
}

// IndexConfig selects the vector index backend.
type IndexConfig struct {
	Backend string `yaml:"backend" koanf:"backend"`
}

// EmbeddingConfig selects and parameterizes the embedding model.
type EmbeddingConfig struct {
	Provider   EmbeddingProvider `yaml:"provider" koanf:"provider"`
	Model      string            `yaml:"model" koanf:"model"`
	Dimensions int               `yaml:"dimensions" koanf:"dimensions"`
	BaseURL    string            `yaml:"base_url" koanf:"base_url"`
}

// GenerationConfig selects and parameterizes the generation service.
// Credentials are read from the environment (HUGGINGFACEHUB_API_TOKEN or
// OPENAI_API_KEY), never from this file.
type GenerationConfig struct {
	Provider       GenerationProvider `yaml:"provider" koanf:"provider"`
	Model          string             `yaml:"model" koanf:"model"`
	Endpoint       string             `yaml:"endpoint" koanf:"endpoint"`
	MaxLength      int                `yaml:"max_length" koanf:"max_length"`
	Temperature    float64            `yaml:"temperature" koanf:"temperature"`
	TimeoutSeconds int                `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}
