package tools

import (
	"github.com/bbernstein/lacylights-mcp/internal/lighting"
)

// LookInput is the argument object of generate_look.
type LookInput struct {
	ProjectID     string                      `json:"projectId" validate:"required"`
	Description   string                      `json:"description" validate:"required,max=2000"`
	ScriptContext string                      `json:"scriptContext,omitempty"`
	Preferences   *lighting.DesignPreferences `json:"designPreferences,omitempty"`
	Filter        *FilterInput                `json:"fixtureFilter,omitempty"`
	Scope         string                      `json:"scope,omitempty" validate:"omitempty,oneof=full additive"`
	BaseLookID    string                      `json:"baseLookId,omitempty"`
	Persist       *bool                       `json:"persist,omitempty"`
}

// FilterInput mirrors lighting.FixtureFilter with validated type names.
type FilterInput struct {
	IncludeTypes []string `json:"includeTypes,omitempty" validate:"omitempty,dive,oneof=LED_PAR MOVING_HEAD STROBE DIMMER OTHER"`
	ExcludeTypes []string `json:"excludeTypes,omitempty" validate:"omitempty,dive,oneof=LED_PAR MOVING_HEAD STROBE DIMMER OTHER"`
	IncludeTags  []string `json:"includeTags,omitempty" validate:"omitempty,dive,required"`
}

func (f *FilterInput) toFilter() *lighting.FixtureFilter {
	if f == nil {
		return nil
	}
	return &lighting.FixtureFilter{
		IncludeTypes: fixtureTypes(f.IncludeTypes),
		ExcludeTypes: fixtureTypes(f.ExcludeTypes),
		IncludeTags:  f.IncludeTags,
	}
}

// ScriptInput is the argument object of analyze_script.
type ScriptInput struct {
	ScriptText              string   `json:"scriptText" validate:"required"`
	SuggestLookDescriptions bool     `json:"suggestLookDescriptions,omitempty"`
	FixtureTypes            []string `json:"fixtureTypes,omitempty" validate:"omitempty,dive,oneof=LED_PAR MOVING_HEAD STROBE DIMMER OTHER"`
}

// CueSequenceInput is the argument object of generate_cue_sequence.
type CueSequenceInput struct {
	ProjectID   string                          `json:"projectId" validate:"required"`
	Name        string                          `json:"name,omitempty" validate:"max=200"`
	Description string                          `json:"description,omitempty"`
	LookIDs     []string                        `json:"lookIds,omitempty" validate:"omitempty,dive,required"`
	ScriptText  string                          `json:"scriptText,omitempty"`
	Transitions *lighting.TransitionPreferences `json:"transitionPreferences,omitempty"`
	Persist     *bool                           `json:"persist,omitempty"`
}

// OptimizeInput is the argument object of optimize_look_for_fixtures.
type OptimizeInput struct {
	ProjectID string   `json:"projectId" validate:"required"`
	LookID    string   `json:"lookId" validate:"required"`
	Goals     []string `json:"optimizationGoals,omitempty" validate:"omitempty,dive,oneof=energy_efficiency color_accuracy dramatic_impact technical_simplicity smooth_transitions"`
	Persist   bool     `json:"persist,omitempty"`
}

// UsageInput is the argument object of suggest_fixture_usage.
type UsageInput struct {
	ProjectID   string `json:"projectId" validate:"required"`
	Description string `json:"description,omitempty"`
	Mood        string `json:"mood,omitempty"`
}

func fixtureTypes(names []string) []lighting.FixtureType {
	if len(names) == 0 {
		return nil
	}
	out := make([]lighting.FixtureType, 0, len(names))
	for _, n := range names {
		out = append(out, lighting.FixtureType(n))
	}
	return out
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
