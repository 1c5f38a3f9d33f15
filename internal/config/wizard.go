package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .docchat.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to docchat! Let's configure your knowledge base.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Embedding provider.
	embedPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{"ollama", "openai"},
	}
	_, embedStr, err := embedPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding provider selection: %w", err)
	}
	cfg.Embedding.Provider = EmbeddingProvider(embedStr)
	if cfg.Embedding.Provider == EmbeddingOpenAI {
		cfg.Embedding.Model = "text-embedding-3-small"
	}

	// 2. Generation provider.
	genPrompt := promptui.Select{
		Label: "Select generation provider",
		Items: []string{
			"huggingface — hosted inference API (flan-t5-large)",
			"openai      — chat completions",
		},
	}
	genIdx, _, err := genPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("generation provider selection: %w", err)
	}
	if genIdx == 1 {
		cfg.Generation.Provider = GenerationOpenAI
		cfg.Generation.Model = "gpt-4o-mini"
	}

	// 3. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (uploads, index, registry)",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data directory prompt: %w", err)
	}
	cfg.DataDir = dataDir

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port prompt: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(".docchat.yml"); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println("Configuration saved to .docchat.yml")
	fmt.Printf("Set %s before starting the server.\n", APITokenEnvVar(cfg.Generation.Provider))
	return cfg, nil
}
