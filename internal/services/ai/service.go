// Package ai orchestrates the lighting generation pipeline: recommendation
// retrieval, prompt construction, model completion, structured-output
// extraction and reconciliation against the real fixture inventory.
//
// Every entry point is request scoped. The caller's context flows unchanged
// into each network call and nothing is retried.
package ai

import (
	"context"
	"time"

	"github.com/bbernstein/lacylights-mcp/internal/logger"
	"github.com/bbernstein/lacylights-mcp/internal/services/backend"
	"github.com/bbernstein/lacylights-mcp/internal/services/llm"
	"github.com/bbernstein/lacylights-mcp/internal/services/patterns"
	"github.com/bbernstein/lacylights-mcp/internal/services/prompt"
	"github.com/bbernstein/lacylights-mcp/internal/services/rag"
	"github.com/bbernstein/lacylights-mcp/internal/services/recorder"
)

// Operation names, shared with the tool surface and generation records.
const (
	OpGenerateLook        = "generate_look"
	OpAnalyzeScript       = "analyze_script"
	OpGenerateCueSequence = "generate_cue_sequence"
	OpOptimizeLook        = "optimize_look_for_fixtures"
	OpSuggestFixtureUsage = "suggest_fixture_usage"
)

// Indexer stores saved looks as patterns for later retrieval.
type Indexer interface {
	Add(ctx context.Context, p patterns.Pattern) error
}

// Options configures a Service.
type Options struct {
	Backend   backend.Backend
	LLM       llm.Client
	Retriever *rag.Retriever
	Prompts   *prompt.Builder
	Recorder  recorder.Recorder
	Logger    *logger.Logger

	// Indexer is optional; when set, persisted looks become user patterns.
	Indexer Indexer

	Model       string
	MaxTokens   int
	Temperature float64
}

// Service runs the pipeline entry points.
type Service struct {
	backend   backend.Backend
	llm       llm.Client
	retriever *rag.Retriever
	prompts   *prompt.Builder
	recorder  recorder.Recorder
	indexer   Indexer
	log       *logger.Logger

	model       string
	maxTokens   int
	temperature float64
}

// NewService creates a Service. Missing optional collaborators get inert defaults.
func NewService(opts Options) *Service {
	s := &Service{
		backend:     opts.Backend,
		llm:         opts.LLM,
		retriever:   opts.Retriever,
		prompts:     opts.Prompts,
		recorder:    opts.Recorder,
		indexer:     opts.Indexer,
		log:         opts.Logger,
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}
	if s.retriever == nil {
		s.retriever = rag.NewRetriever(nil, 0, opts.Logger)
	}
	if s.prompts == nil {
		s.prompts = prompt.NewBuilder(prompt.Limits{})
	}
	if s.recorder == nil {
		s.recorder = recorder.Nop{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

// complete runs one model call. The returned record is filled in except for
// the parse outcome; on error it has already been recorded.
func (s *Service) complete(ctx context.Context, op string, p prompt.Prompt) (string, recorder.Record, error) {
	rec := recorder.Record{
		Operation: op,
		Provider:  s.llm.Name(),
		Model:     s.model,
		System:    p.System,
		Prompt:    p.User,
		Started:   time.Now(),
	}

	s.log.Debug("🤖 Calling language model", logger.Fields{
		"operation": op,
		"provider":  rec.Provider,
		"model":     s.model,
		"omitted":   p.Omitted,
	})

	text, err := s.llm.Complete(ctx, llm.Request{
		System:      p.System,
		Prompt:      p.User,
		Model:       s.model,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	rec.Duration = time.Since(rec.Started)
	rec.Output = text

	if err != nil {
		rec.Err = err
		s.recorder.Record(ctx, rec)
		s.log.Error("Language model call failed", err, logger.Fields{
			"operation": op,
			"model":     s.model,
		})
		return "", rec, err
	}

	s.log.Info("⏱️  Language model call completed", logger.Fields{
		"operation":  op,
		"durationMs": rec.Duration.Milliseconds(),
	})
	return text, rec, nil
}
