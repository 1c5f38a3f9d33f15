package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCCHAT_*). Nested keys use a double
// underscore: DOCCHAT_EMBEDDING__MODEL overrides embedding.model.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables.
	if err := k.Load(env.Provider("DOCCHAT_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "DOCCHAT_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validEmbeddingProviders is the set of recognized embedding provider values.
var validEmbeddingProviders = map[EmbeddingProvider]bool{
	EmbeddingOllama: true,
	EmbeddingOpenAI: true,
}

// validGenerationProviders is the set of recognized generation provider values.
var validGenerationProviders = map[GenerationProvider]bool{
	GenerationHuggingFace: true,
	GenerationOpenAI:      true,
}

// validIndexBackends is the set of recognized index backend values.
var validIndexBackends = map[string]bool{
	"flat":    true,
	"chromem": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking.size must be positive")
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking.overlap must be non-negative and smaller than chunking.size")
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive")
	}

	if !validIndexBackends[c.Index.Backend] {
		return fmt.Errorf("invalid index backend %q: must be one of flat, chromem", c.Index.Backend)
	}
	if !validEmbeddingProviders[c.Embedding.Provider] {
		return fmt.Errorf("invalid embedding provider %q: must be one of ollama, openai", c.Embedding.Provider)
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if !validGenerationProviders[c.Generation.Provider] {
		return fmt.Errorf("invalid generation provider %q: must be one of huggingface, openai", c.Generation.Provider)
	}
	if c.Generation.MaxLength <= 0 {
		return fmt.Errorf("generation.max_length must be positive")
	}
	if c.Generation.TimeoutSeconds <= 0 {
		return fmt.Errorf("generation.timeout_seconds must be positive")
	}

	return nil
}

// APITokenEnvVar returns the conventional environment variable name for the
// credential of the given generation provider.
func APITokenEnvVar(provider GenerationProvider) string {
	switch provider {
	case GenerationHuggingFace:
		return "HUGGINGFACEHUB_API_TOKEN"
	case GenerationOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
