package ai

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/bbernstein/lacylights-mcp/internal/lighting"
	"github.com/bbernstein/lacylights-mcp/internal/logger"
	"github.com/bbernstein/lacylights-mcp/internal/services/extract"
	"github.com/bbernstein/lacylights-mcp/internal/services/prompt"
	"github.com/bbernstein/lacylights-mcp/internal/services/reconcile"
)

// Optimization goals accepted by OptimizeLook.
const (
	GoalEnergyEfficiency    = "energy_efficiency"
	GoalColorAccuracy       = "color_accuracy"
	GoalDramaticImpact      = "dramatic_impact"
	GoalTechnicalSimplicity = "technical_simplicity"
	GoalSmoothTransitions   = "smooth_transitions"
)

// OptimizeRequest asks for an existing look to be refined.
type OptimizeRequest struct {
	ProjectID string
	LookID    string
	Goals     []string
	Persist   bool
}

// OptimizeResult holds the refined look next to the original.
type OptimizeResult struct {
	Original    lighting.Look          `json:"original"`
	Look        lighting.GeneratedLook `json:"look"`
	Adjustments reconcile.Stats        `json:"adjustments"`
	Persisted   bool                   `json:"persisted"`
}

// OptimizeLook refines a look's channel values toward the goals. Channels
// the model does not mention keep their current values.
func (s *Service) OptimizeLook(ctx context.Context, req OptimizeRequest) (*OptimizeResult, error) {
	var (
		original *lighting.Look
		fixtures []lighting.FixtureInstance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l, err := s.backend.Look(gctx, req.LookID)
		if err != nil {
			return fmt.Errorf("failed to load look: %w", err)
		}
		original = l
		return nil
	})
	g.Go(func() error {
		f, err := s.backend.ProjectFixtures(gctx, req.ProjectID)
		if err != nil {
			return fmt.Errorf("failed to load fixtures: %w", err)
		}
		fixtures = f
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(fixtures) == 0 {
		return nil, fmt.Errorf("%w: project %s has no fixtures", lighting.ErrNoFixtures, req.ProjectID)
	}

	goals := req.Goals
	if len(goals) == 0 {
		goals = []string{GoalDramaticImpact}
	}

	p := s.prompts.OptimizePrompt(prompt.OptimizeInput{
		Look:     *original,
		Fixtures: fixtures,
		Goals:    goals,
	})

	text, rec, err := s.complete(ctx, OpOptimizeLook, p)
	if err != nil {
		return nil, err
	}

	raw, report := extract.DecodeLook(text, original.Name)
	rec.ParseOutcome = string(report.Outcome)
	s.recorder.Record(ctx, rec)

	current, _ := reconcile.Look(lighting.GeneratedLook{FixtureValues: original.FixtureValues}, fixtures)
	optimized, stats := reconcile.Look(raw, fixtures)
	s.logAdjustments(OpOptimizeLook, report, stats)

	look := optimized
	look.LookID = original.ID
	look.Scope = lighting.ScopeFull
	look.ParseOutcome = string(report.Outcome)
	look.Name = original.Name
	if look.Description == "" {
		look.Description = original.Description
	}

	result := &OptimizeResult{Original: *original, Adjustments: stats}

	if report.Outcome == extract.OutcomeUnparsed {
		look.FixtureValues = current.FixtureValues
		result.Look = look
		s.log.Warn("⚠️  Model output could not be parsed, keeping current values", logger.Fields{
			"operation": OpOptimizeLook,
			"lookId":    original.ID,
			"error":     errString(report.Err),
		})
		return result, nil
	}

	look.FixtureValues = reconcile.MergeAdditive(current.FixtureValues, optimized.FixtureValues)
	result.Look = look

	if req.Persist {
		if err := s.persistLook(ctx, req.ProjectID, &result.Look); err != nil {
			return nil, err
		}
		result.Persisted = true
	}
	return result, nil
}
