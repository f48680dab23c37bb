package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/lacylights-mcp/internal/lighting"
)

func TestGenerationError_Is(t *testing.T) {
	cause := errors.New("connection reset")
	err := generationError(ProviderOpenAI, "gpt-4o", cause)

	assert.ErrorIs(t, err, lighting.ErrGenerationFailed)
	assert.ErrorIs(t, err, cause)

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, ProviderOpenAI, genErr.Provider)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestProviderForModel(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"gpt-4o", ProviderOpenAI},
		{"o3-mini", ProviderOpenAI},
		{"gemini-2.5-flash", ProviderGemini},
		{"claude-sonnet-4", ProviderAnthropic},
		{"", ProviderOpenAI},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, providerForModel(tt.model))
		})
	}
}

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	c, err := NewClient(ctx, Options{Model: "gpt-4o", OpenAIAPIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, c.Name())

	c, err = NewClient(ctx, Options{Provider: "Anthropic", Model: "x", AnthropicAPIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, c.Name())

	c, err = NewClient(ctx, Options{Model: "gemini-2.5-flash", GeminiAPIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, c.Name())

	_, err = NewClient(ctx, Options{Model: "gpt-4o"})
	assert.Error(t, err)

	_, err = NewClient(ctx, Options{Provider: "llama"})
	assert.Error(t, err)
}

func TestOpenAIClient_Complete(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"name\":\"Dawn\"}"}}]
		}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", srv.URL+"/")
	text, err := c.Complete(context.Background(), Request{
		System: "sys", Prompt: "make a look", Model: "gpt-4o", MaxTokens: 100, Temperature: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Dawn"}`, text)

	assert.Equal(t, "gpt-4o", got["model"])
	assert.EqualValues(t, 100, got["max_completion_tokens"])
	messages, ok := got["messages"].([]interface{})
	require.True(t, ok)
	assert.Len(t, messages, 2)
}

func TestOpenAIClient_ErrorNoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "overloaded", "type": "server_error"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", srv.URL+"/")
	_, err := c.Complete(context.Background(), Request{Prompt: "x", Model: "gpt-4o"})

	require.Error(t, err)
	assert.ErrorIs(t, err, lighting.ErrGenerationFailed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIClient_EmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-2", "object": "chat.completion", "created": 1, "model": "gpt-4o",
			"choices": [{"index": 0, "finish_reason": "length",
				"message": {"role": "assistant", "content": ""}}]
		}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", srv.URL+"/")
	text, err := c.Complete(context.Background(), Request{Prompt: "x", Model: "gpt-4o"})

	require.Error(t, err)
	assert.Empty(t, text)
	assert.ErrorIs(t, err, lighting.ErrGenerationFailed)
	assert.Contains(t, err.Error(), "response has no text")
}

func TestAnthropicClient_Complete(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, AnthropicAPIVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content": [
			{"type": "text", "text": "Here you go: "},
			{"type": "text", "text": "{\"a\":1}"}
		], "stop_reason": "end_turn"}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient("test-key", srv.URL)
	text, err := c.Complete(context.Background(), Request{System: "sys", Prompt: "hi", Model: "claude-x"})
	require.NoError(t, err)

	assert.Equal(t, `Here you go: {"a":1}`, text)
	assert.Equal(t, "claude-x", got.Model)
	assert.Equal(t, defaultAnthropicMaxTokens, got.MaxTokens)
	assert.Equal(t, "sys", got.System)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hi", got.Messages[0].Content)
}

func TestAnthropicClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"api error", http.StatusTooManyRequests, `{"error": {"type": "rate_limit_error", "message": "slow down"}}`, "slow down"},
		{"raw error", http.StatusBadGateway, `upstream down`, "upstream down"},
		{"no text", http.StatusOK, `{"content": []}`, "no text"},
		{"bad json", http.StatusOK, `{`, "unmarshal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewAnthropicClient("k", srv.URL).Complete(context.Background(), Request{Prompt: "x", Model: "m"})
			require.Error(t, err)
			assert.ErrorIs(t, err, lighting.ErrGenerationFailed)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAnthropicClient_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnthropicClient("k", srv.URL).Complete(ctx, Request{Prompt: "x", Model: "m"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, lighting.ErrGenerationFailed)
}
