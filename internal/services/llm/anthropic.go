package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Anthropic messages API defaults.
const (
	AnthropicAPIURL     = "https://api.anthropic.com/v1/messages"
	AnthropicAPIVersion = "2023-06-01"

	defaultAnthropicMaxTokens = 4096
)

// AnthropicClient calls the Anthropic messages API over HTTP.
type AnthropicClient struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

// NewAnthropicClient creates an Anthropic client. An empty url uses the public endpoint.
// The HTTP client has no timeout of its own; the request context bounds each call.
func NewAnthropicClient(apiKey, url string) *AnthropicClient {
	if url == "" {
		url = AnthropicAPIURL
	}
	return &AnthropicClient{apiKey: apiKey, url: url, httpClient: &http.Client{}}
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type anthropicError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Name returns the provider name.
func (c *AnthropicClient) Name() string {
	return ProviderAnthropic
}

// Complete sends one message and returns the concatenated text blocks.
func (c *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	body, err := json.Marshal(anthropicRequest{
		Model:       req.Model,
		MaxTokens:   maxTokens,
		System:      req.System,
		Temperature: req.Temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Prompt}},
	})
	if err != nil {
		return "", generationError(ProviderAnthropic, req.Model, fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", generationError(ProviderAnthropic, req.Model, fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", AnthropicAPIVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", generationError(ProviderAnthropic, req.Model, fmt.Errorf("failed to send request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", generationError(ProviderAnthropic, req.Model, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr anthropicError
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			return "", generationError(ProviderAnthropic, req.Model,
				fmt.Errorf("status %d: %s - %s", resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message))
		}
		return "", generationError(ProviderAnthropic, req.Model, fmt.Errorf("status %d: %s", resp.StatusCode, string(data)))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", generationError(ProviderAnthropic, req.Model, fmt.Errorf("failed to unmarshal response: %w", err))
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", generationError(ProviderAnthropic, req.Model, errors.New("response has no text"))
	}
	return text.String(), nil
}
