package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/bbernstein/lacylights-mcp/internal/lighting"
	"github.com/bbernstein/lacylights-mcp/internal/logger"
	"github.com/bbernstein/lacylights-mcp/internal/services/extract"
	"github.com/bbernstein/lacylights-mcp/internal/services/patterns"
	"github.com/bbernstein/lacylights-mcp/internal/services/prompt"
	"github.com/bbernstein/lacylights-mcp/internal/services/rag"
	"github.com/bbernstein/lacylights-mcp/internal/services/reconcile"
)

// LookRequest asks for a generated look.
type LookRequest struct {
	ProjectID     string
	Description   string
	ScriptContext string
	Preferences   *lighting.DesignPreferences
	Filter        *lighting.FixtureFilter
	Scope         lighting.Scope
	// BaseLookID, for additive scope, names an existing look the result is
	// merged into.
	BaseLookID string
	Persist    bool
}

// LookResult is a reconciled look plus the guidance that shaped it.
type LookResult struct {
	Look            lighting.GeneratedLook        `json:"look"`
	Recommendations lighting.RecommendationBundle `json:"recommendations"`
	Adjustments     reconcile.Stats               `json:"adjustments"`
	Persisted       bool                          `json:"persisted"`
}

// GenerateLook produces a look for the request. Additive scope without a
// fixture filter fails with lighting.ErrInvalidScope before any network call.
func (s *Service) GenerateLook(ctx context.Context, req LookRequest) (*LookResult, error) {
	scope := req.Scope
	if scope == "" {
		scope = lighting.ScopeFull
	}
	if err := lighting.ValidateScope(scope, req.Filter); err != nil {
		return nil, err
	}
	if req.BaseLookID != "" && scope != lighting.ScopeAdditive {
		return nil, fmt.Errorf("%w: baseLookId requires additive scope", lighting.ErrInvalidScope)
	}

	fixtures, err := s.backend.ProjectFixtures(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}

	targets, rest := req.Filter.Partition(fixtures)
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: %d fixtures in project, none selected", lighting.ErrNoFixtures, len(fixtures))
	}
	var contextFixtures []lighting.FixtureInstance
	if scope == lighting.ScopeAdditive {
		contextFixtures = rest
	}

	var mood string
	if req.Preferences != nil {
		mood = req.Preferences.Mood
	}
	recs := s.retriever.Recommend(ctx, rag.Request{
		Description:  req.Description,
		Mood:         mood,
		FixtureTypes: lighting.FixtureTypes(targets),
	})

	p, err := s.prompts.LookPrompt(prompt.LookInput{
		Description:     req.Description,
		ScriptContext:   req.ScriptContext,
		Preferences:     req.Preferences,
		Scope:           scope,
		Filter:          req.Filter,
		Targets:         targets,
		Context:         contextFixtures,
		Recommendations: recs,
	})
	if err != nil {
		return nil, err
	}

	text, rec, err := s.complete(ctx, OpGenerateLook, p)
	if err != nil {
		return nil, err
	}

	raw, report := extract.DecodeLook(text, req.Description)
	rec.ParseOutcome = string(report.Outcome)
	s.recorder.Record(ctx, rec)

	look, stats := reconcile.Look(raw, targets)
	look.Scope = scope
	look.ParseOutcome = string(report.Outcome)
	if scope == lighting.ScopeFull {
		look.MissingFixtureIDs = reconcile.MissingFixtures(look, targets)
	}
	s.logAdjustments(OpGenerateLook, report, stats)

	result := &LookResult{Look: look, Recommendations: recs, Adjustments: stats}

	if report.Outcome == extract.OutcomeUnparsed {
		s.log.Warn("⚠️  Model output could not be parsed, returning fallback look", logger.Fields{
			"operation": OpGenerateLook,
			"error":     errString(report.Err),
		})
		return result, nil
	}

	if req.BaseLookID != "" {
		base, err := s.backend.Look(ctx, req.BaseLookID)
		if err != nil {
			return nil, fmt.Errorf("failed to load base look: %w", err)
		}
		// The stored look may reference fixtures or channels that have since
		// changed, so it is checked against the whole inventory first.
		current, baseStats := reconcile.Look(lighting.GeneratedLook{FixtureValues: base.FixtureValues}, fixtures)
		if baseStats.Changed() {
			s.logAdjustments(OpGenerateLook, extract.Report{}, baseStats)
		}
		result.Look.LookID = base.ID
		result.Look.FixtureValues = reconcile.MergeAdditive(current.FixtureValues, look.FixtureValues)
	}

	if req.Persist {
		if err := s.persistLook(ctx, req.ProjectID, &result.Look); err != nil {
			return nil, err
		}
		result.Persisted = true
		s.indexLook(ctx, result.Look, req.Preferences, targets)
	}
	return result, nil
}

// indexLook adds a saved look to the pattern store so later requests can be
// guided by it. Failures are logged; the look is already saved.
func (s *Service) indexLook(ctx context.Context, look lighting.GeneratedLook, prefs *lighting.DesignPreferences, targets []lighting.FixtureInstance) {
	if s.indexer == nil {
		return
	}
	p := patterns.Pattern{
		Name:        look.Name,
		Description: look.Description,
		Reasoning:   look.Reasoning,
	}
	for _, t := range lighting.FixtureTypes(targets) {
		p.FixtureTypes = append(p.FixtureTypes, string(t))
	}
	if prefs != nil {
		p.Mood = prefs.Mood
		p.Colors = prefs.ColorPalette
		p.FocusAreas = prefs.FocusAreas
	}
	if err := s.indexer.Add(ctx, p); err != nil {
		s.log.Warn("⚠️  Failed to index saved look as a pattern", logger.Fields{
			"lookId": look.LookID,
			"error":  err.Error(),
		})
	}
}

// persistLook updates the look when it has an id and creates it otherwise.
func (s *Service) persistLook(ctx context.Context, projectID string, look *lighting.GeneratedLook) error {
	if look.LookID != "" {
		if err := s.backend.UpdateLook(ctx, look.LookID, *look); err != nil {
			return fmt.Errorf("failed to update look: %w", err)
		}
		return nil
	}
	id, err := s.backend.CreateLook(ctx, projectID, *look)
	if err != nil {
		return fmt.Errorf("failed to create look: %w", err)
	}
	look.LookID = id
	s.log.Info("💾 Look saved", logger.Fields{"lookId": id, "name": look.Name})
	return nil
}

func (s *Service) logAdjustments(op string, report extract.Report, stats reconcile.Stats) {
	if !stats.Changed() && report.Skipped == 0 {
		return
	}
	s.log.Debug("Reconciled model output", logger.Fields{
		"operation":         op,
		"skipped":           report.Skipped,
		"unknownFixtures":   stats.UnknownFixtures,
		"duplicateFixtures": stats.DuplicateFixtures,
		"unknownOffsets":    stats.UnknownOffsets,
		"duplicateOffsets":  stats.DuplicateOffsets,
		"clampedValues":     stats.ClampedValues,
		"unknownLooks":      stats.UnknownLooks,
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimSpace(err.Error())
}
