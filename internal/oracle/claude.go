// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package oracle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/pdiddy/movie-recommender/internal/httputil"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const (
	DefaultClaudeModel = "claude-sonnet-4-5"

	// claudeMaxTokens bounds the reply; a ranked id list is short.
	claudeMaxTokens = 512
)

// ClaudeBackend ranks candidates through the Claude Messages API.
type ClaudeBackend struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxRetries  int

	// BaseURL overrides claudeAPIURL when set.
	BaseURL string
	Client  *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Invoke calls the Claude API with prompt and returns the concatenated text
// blocks of the reply.
func (c *ClaudeBackend) Invoke(ctx context.Context, prompt string) (string, error) {
	model := c.Model
	if model == "" {
		model = DefaultClaudeModel
	}
	bodyBytes, err := json.Marshal(claudeRequest{
		Model:       model,
		MaxTokens:   claudeMaxTokens,
		Temperature: c.Temperature,
		Messages:    []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := claudeAPIURL
	if c.BaseURL != "" {
		url = c.BaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("%w: calling Claude API: %w", ErrInvocation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: Claude API returned %d: %s", ErrInvocation, resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("%w: decoding Claude response: %w", ErrInvocation, err)
	}

	var sb strings.Builder
	for _, block := range cResp.Content {
		if block.Type != "text" {
			continue
		}
		sb.WriteString(block.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: no text content in Claude API response", ErrInvocation)
	}
	return sb.String(), nil
}
