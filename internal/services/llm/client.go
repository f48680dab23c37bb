// Package llm invokes language-model completion services and returns raw text.
// Clients never retry; callers own cancellation through the context.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/bbernstein/lacylights-mcp/internal/lighting"
)

// Provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Request is a single completion request.
type Request struct {
	System      string
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Client produces completions.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// GenerationError is returned for every failed completion.
// It matches lighting.ErrGenerationFailed under errors.Is.
type GenerationError struct {
	Provider string
	Model    string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s (%s/%s): %v", lighting.ErrGenerationFailed, e.Provider, e.Model, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	return []error{lighting.ErrGenerationFailed, e.Err}
}

func generationError(provider, model string, err error) error {
	return &GenerationError{Provider: provider, Model: model, Err: err}
}

// Options selects and configures a provider.
type Options struct {
	Provider string // empty infers from Model
	Model    string

	OpenAIAPIKey    string
	OpenAIBaseURL   string
	GeminiAPIKey    string
	AnthropicAPIKey string
	AnthropicURL    string
}

// NewClient returns the client for the explicit provider, or infers one from
// the model name when no provider is given. Unknown models default to OpenAI.
func NewClient(ctx context.Context, opts Options) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = providerForModel(opts.Model)
	}

	switch provider {
	case ProviderOpenAI:
		if opts.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai API key not configured")
		}
		return NewOpenAIClient(opts.OpenAIAPIKey, opts.OpenAIBaseURL), nil
	case ProviderGemini:
		if opts.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini API key not configured")
		}
		return NewGeminiClient(ctx, opts.GeminiAPIKey)
	case ProviderAnthropic:
		if opts.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic API key not configured")
		}
		return NewAnthropicClient(opts.AnthropicAPIKey, opts.AnthropicURL), nil
	}
	return nil, fmt.Errorf("unknown provider: %s (allowed: openai, gemini, anthropic)", opts.Provider)
}

func providerForModel(model string) string {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "gemini"):
		return ProviderGemini
	case strings.HasPrefix(m, "claude"):
		return ProviderAnthropic
	}
	return ProviderOpenAI
}
