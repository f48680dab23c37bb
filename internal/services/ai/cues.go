package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/bbernstein/lacylights-mcp/internal/lighting"
	"github.com/bbernstein/lacylights-mcp/internal/logger"
	"github.com/bbernstein/lacylights-mcp/internal/services/extract"
	"github.com/bbernstein/lacylights-mcp/internal/services/prompt"
	"github.com/bbernstein/lacylights-mcp/internal/services/reconcile"
	"github.com/bbernstein/lacylights-mcp/internal/services/script"
)

// CueSequenceRequest asks for a cue sequence over existing looks.
type CueSequenceRequest struct {
	ProjectID   string
	Name        string
	Description string
	// LookIDs restricts and orders the looks offered to the model. Empty
	// means every look in the project.
	LookIDs     []string
	Script      string
	Transitions *lighting.TransitionPreferences
	Persist     bool
}

// CueSequenceResult is a reconciled cue sequence.
type CueSequenceResult struct {
	Sequence    lighting.GeneratedCueSequence `json:"sequence"`
	Adjustments reconcile.Stats               `json:"adjustments"`
	Persisted   bool                          `json:"persisted"`
}

// GenerateCueSequence orders existing looks into timed cues. Cues never
// reference a look outside the set loaded for the request.
func (s *Service) GenerateCueSequence(ctx context.Context, req CueSequenceRequest) (*CueSequenceResult, error) {
	all, err := s.backend.ProjectLooks(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load looks: %w", err)
	}
	looks := selectLooks(all, req.LookIDs)
	if len(looks) == 0 {
		return nil, fmt.Errorf("%w: project %s", lighting.ErrNoLooks, req.ProjectID)
	}

	prefs := lighting.DefaultTransitions()
	if req.Transitions != nil {
		prefs = *req.Transitions
	}

	var analysis *lighting.ScriptAnalysis
	if strings.TrimSpace(req.Script) != "" {
		a := script.Analyze(req.Script)
		analysis = &a
	}

	p := s.prompts.CueSequencePrompt(prompt.CueInput{
		Name:        req.Name,
		Description: req.Description,
		Looks:       looks,
		Script:      analysis,
		Transitions: prefs,
	})

	text, rec, err := s.complete(ctx, OpGenerateCueSequence, p)
	if err != nil {
		return nil, err
	}

	raw, report := extract.DecodeCueSequence(text)
	rec.ParseOutcome = string(report.Outcome)
	s.recorder.Record(ctx, rec)

	seq, stats := reconcile.CueSequence(raw, looks, prefs)
	seq.ParseOutcome = string(report.Outcome)
	if req.Name != "" && report.Outcome != extract.OutcomeUnparsed {
		seq.Name = req.Name
	}
	if seq.Description == "" {
		seq.Description = req.Description
	}
	s.logAdjustments(OpGenerateCueSequence, report, stats)

	result := &CueSequenceResult{Sequence: seq, Adjustments: stats}

	if report.Outcome == extract.OutcomeUnparsed {
		s.log.Warn("⚠️  Model output could not be parsed, returning fallback cue sequence", logger.Fields{
			"operation": OpGenerateCueSequence,
			"error":     errString(report.Err),
		})
		return result, nil
	}

	if req.Persist && len(seq.Cues) > 0 {
		if err := s.persistCueSequence(ctx, req.ProjectID, &result.Sequence); err != nil {
			return nil, err
		}
		result.Persisted = true
	}
	return result, nil
}

func (s *Service) persistCueSequence(ctx context.Context, projectID string, seq *lighting.GeneratedCueSequence) error {
	id, err := s.backend.CreateCueList(ctx, projectID, seq.Name, seq.Description)
	if err != nil {
		return fmt.Errorf("failed to create cue list: %w", err)
	}
	seq.CueListID = id
	for i, cue := range seq.Cues {
		if _, err := s.backend.CreateCue(ctx, id, cue); err != nil {
			// Cues before i were saved; the id lets the caller clean up.
			return fmt.Errorf("failed to create cue %q in cue list %s (%d of %d cues saved): %w",
				cue.Name, id, i, len(seq.Cues), err)
		}
	}
	s.log.Info("💾 Cue list saved", logger.Fields{"cueListId": id, "cues": len(seq.Cues)})
	return nil
}

// selectLooks returns the looks named by ids in that order, or all looks
// when ids is empty. Unknown ids are ignored.
func selectLooks(all []lighting.Look, ids []string) []lighting.Look {
	if len(ids) == 0 {
		return all
	}
	byID := make(map[string]lighting.Look, len(all))
	for _, l := range all {
		byID[l.ID] = l
	}
	out := make([]lighting.Look, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		l, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, l)
	}
	return out
}
