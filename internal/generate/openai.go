package generate

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient generates text via an OpenAI-compatible chat completion API.
// It follows the same never-fail contract as HuggingFaceClient.
type OpenAIClient struct {
	client      *openai.Client
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

// NewOpenAIClient creates an OpenAI-compatible generation client. baseURL may
// be empty for the default OpenAI endpoint.
func NewOpenAIClient(baseURL, apiKey, model string, maxTokens int, temperature float64) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		apiKey:      apiKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

func (c *OpenAIClient) Name() string { return "openai" }

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) string {
	if c.apiKey == "" {
		return "Error: API Token missing in backend"
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: float32(c.temperature),
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return fmt.Sprintf("API Error (%d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return fmt.Sprintf("Request Failed: %v", err)
	}

	if len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Message.Content
}
