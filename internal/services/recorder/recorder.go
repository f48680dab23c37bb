// Package recorder records model generations for later inspection.
// Recording is best effort: failures are logged and never reach the caller.
package recorder

import (
	"context"
	"errors"
	"time"

	"github.com/bbernstein/lacylights-mcp/internal/database/models"
	"github.com/bbernstein/lacylights-mcp/internal/database/repositories"
	"github.com/bbernstein/lacylights-mcp/internal/logger"
)

// Record describes one model call and how its output was interpreted.
type Record struct {
	Operation    string
	Provider     string
	Model        string
	System       string
	Prompt       string
	Output       string
	ParseOutcome string
	Started      time.Time
	Duration     time.Duration
	Err          error
}

// Recorder receives generation records. Close releases resources and
// flushes anything buffered.
type Recorder interface {
	Record(ctx context.Context, rec Record)
	Close() error
}

// Nop discards records.
type Nop struct{}

// Record does nothing.
func (Nop) Record(context.Context, Record) {}

// Close does nothing.
func (Nop) Close() error { return nil }

// Multi fans records out to several recorders.
type Multi []Recorder

// Record forwards to every recorder.
func (m Multi) Record(ctx context.Context, rec Record) {
	for _, r := range m {
		r.Record(ctx, rec)
	}
}

// Close closes every recorder and joins their errors.
func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DBRecorder stores records in the generation_records table.
type DBRecorder struct {
	repo *repositories.GenerationRepository
	log  *logger.Logger
}

// NewDBRecorder creates a DBRecorder.
func NewDBRecorder(repo *repositories.GenerationRepository, log *logger.Logger) *DBRecorder {
	if log == nil {
		log = logger.Nop()
	}
	return &DBRecorder{repo: repo, log: log}
}

// Record stores the record. The write is detached from request cancellation.
func (r *DBRecorder) Record(ctx context.Context, rec Record) {
	row := &models.GenerationRecord{
		Operation:    rec.Operation,
		Provider:     rec.Provider,
		Model:        rec.Model,
		Prompt:       rec.Prompt,
		Output:       rec.Output,
		ParseOutcome: rec.ParseOutcome,
		DurationMs:   rec.Duration.Milliseconds(),
	}
	if rec.Err != nil {
		msg := rec.Err.Error()
		row.Error = &msg
	}
	if err := r.repo.Create(context.WithoutCancel(ctx), row); err != nil {
		r.log.Warn("⚠️  Failed to record generation", logger.Fields{
			"operation": rec.Operation,
			"error":     err.Error(),
		})
	}
}

// Close does nothing; the database is owned by the caller.
func (r *DBRecorder) Close() error { return nil }
