package recorder

import (
	"context"

	langfuse "github.com/henomis/langfuse-go"
	"github.com/henomis/langfuse-go/model"

	"github.com/bbernstein/lacylights-mcp/internal/logger"
)

// LangfuseRecorder sends one trace with one generation per record.
// Credentials and host come from LANGFUSE_PUBLIC_KEY, LANGFUSE_SECRET_KEY
// and LANGFUSE_HOST.
type LangfuseRecorder struct {
	client *langfuse.Langfuse
	ctx    context.Context
	log    *logger.Logger
}

// NewLangfuseRecorder creates a LangfuseRecorder. ctx bounds the client's
// background sender and is used for the final flush.
func NewLangfuseRecorder(ctx context.Context, log *logger.Logger) *LangfuseRecorder {
	if log == nil {
		log = logger.Nop()
	}
	return &LangfuseRecorder{client: langfuse.New(ctx), ctx: ctx, log: log}
}

// Record queues a trace and a completed generation.
func (r *LangfuseRecorder) Record(_ context.Context, rec Record) {
	metadata := map[string]interface{}{
		"provider":     rec.Provider,
		"parseOutcome": rec.ParseOutcome,
		"durationMs":   rec.Duration.Milliseconds(),
	}
	if rec.Err != nil {
		metadata["error"] = rec.Err.Error()
	}

	trace, err := r.client.Trace(&model.Trace{
		Name:     rec.Operation,
		Metadata: metadata,
	})
	if err != nil {
		r.log.Warn("⚠️  Failed to create Langfuse trace", logger.Fields{"error": err.Error()})
		return
	}

	start := rec.Started
	end := start.Add(rec.Duration)
	gen := &model.Generation{
		TraceID:   trace.ID,
		Name:      rec.Operation,
		StartTime: &start,
		EndTime:   &end,
		Model:     rec.Model,
		Input: []map[string]interface{}{
			{"role": "system", "content": rec.System},
			{"role": "user", "content": rec.Prompt},
		},
		Output:   rec.Output,
		Metadata: metadata,
	}
	if rec.Err != nil {
		gen.Level = model.ObservationLevel("ERROR")
	}
	if _, err := r.client.Generation(gen, nil); err != nil {
		r.log.Warn("⚠️  Failed to create Langfuse generation", logger.Fields{"error": err.Error()})
	}
}

// Close flushes queued events.
func (r *LangfuseRecorder) Close() error {
	r.client.Flush(r.ctx)
	return nil
}
