// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package oracle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/pdiddy/movie-recommender/internal/httputil"
)

// openAIAPIURL is the chat completions endpoint. Package-level var for test substitution.
var openAIAPIURL = "https://api.openai.com/v1/chat/completions"

const (
	DefaultOpenAIModel = "gpt-4.1-mini"

	// DefaultTemperature is the configured default. Backends send their
	// Temperature as given, so zero means deterministic sampling.
	DefaultTemperature = 0.3
)

// OpenAIBackend ranks candidates through the OpenAI chat completions API.
type OpenAIBackend struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxRetries  int

	// BaseURL overrides openAIAPIURL when set.
	BaseURL string
	Client  *http.Client
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

// Invoke sends prompt as a single user message and returns the first
// choice's content.
func (o *OpenAIBackend) Invoke(ctx context.Context, prompt string) (string, error) {
	model := o.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	bodyBytes, err := json.Marshal(openAIRequest{
		Model:       model,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		Temperature: o.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := openAIAPIURL
	if o.BaseURL != "" {
		url = o.BaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, o.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("%w: calling OpenAI API: %w", ErrInvocation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: OpenAI API returned %d: %s", ErrInvocation, resp.StatusCode, string(body))
	}

	var oResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return "", fmt.Errorf("%w: decoding OpenAI response: %w", ErrInvocation, err)
	}
	if len(oResp.Choices) == 0 {
		return "", fmt.Errorf("%w: OpenAI API returned no choices", ErrInvocation)
	}
	return oResp.Choices[0].Message.Content, nil
}
