package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultHFEndpoint = "https://api-inference.huggingface.co/models/google/flan-t5-large"

// HuggingFaceClient generates text via the Hugging Face Inference API.
type HuggingFaceClient struct {
	endpoint    string
	apiToken    string
	maxLength   int
	temperature float64
	httpClient  *http.Client
}

// NewHuggingFaceClient creates a Hugging Face generation client. The endpoint
// defaults to the hosted flan-t5-large model if empty. An empty apiToken is
// tolerated at construction; each Generate call reports it as a diagnostic
// instead of calling upstream.
func NewHuggingFaceClient(endpoint, apiToken string, maxLength int, temperature float64, timeout time.Duration) *HuggingFaceClient {
	if endpoint == "" {
		endpoint = defaultHFEndpoint
	}
	if maxLength <= 0 {
		maxLength = 512
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HuggingFaceClient{
		endpoint:    endpoint,
		apiToken:    apiToken,
		maxLength:   maxLength,
		temperature: temperature,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

func (c *HuggingFaceClient) Name() string { return "huggingface" }

type hfParameters struct {
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

func (c *HuggingFaceClient) Generate(ctx context.Context, prompt string) string {
	if c.apiToken == "" {
		return "Error: API Token missing in backend"
	}

	body, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxLength:   c.maxLength,
			Temperature: c.temperature,
		},
	})
	if err != nil {
		return fmt.Sprintf("Request Failed: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Sprintf("Request Failed: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("Request Failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("Request Failed: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("HF API Error (%d): %s", resp.StatusCode, string(respBody))
	}

	// Success is a list whose first element carries generated_text; failures
	// come back as an object with an error field. Handle both.
	var listResult []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(respBody, &listResult); err == nil {
		if len(listResult) == 0 {
			return ""
		}
		return listResult[0].GeneratedText
	}

	var errResult struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(respBody, &errResult); err == nil && errResult.Error != "" {
		return fmt.Sprintf("HF API Error: %s", errResult.Error)
	}

	return string(respBody)
}
