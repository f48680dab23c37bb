package ai

import (
	"context"
	"fmt"

	"github.com/bbernstein/lacylights-mcp/internal/lighting"
	"github.com/bbernstein/lacylights-mcp/internal/services/rag"
)

// Fixture capabilities inferred from channel types.
const (
	CapColorMixing = "color_mixing"
	CapWhite       = "white"
	CapMovement    = "movement"
	CapIntensity   = "intensity"
	CapStrobe      = "strobe"
	CapGobo        = "gobo"
	CapBeamShaping = "beam_shaping"
	CapColorWheel  = "color_wheel"
)

// Fixture roles in a design.
const (
	RoleKey     = "key"
	RoleWash    = "wash"
	RoleAccent  = "accent"
	RoleEffect  = "effect"
	RoleUtility = "utility"
)

// UsageRequest asks how a project's fixtures could be used.
type UsageRequest struct {
	ProjectID   string
	Description string
	Mood        string
}

// FixtureGroup is every fixture of one type with shared capabilities.
type FixtureGroup struct {
	Type         lighting.FixtureType `json:"type"`
	Count        int                  `json:"count"`
	FixtureIDs   []string             `json:"fixtureIds"`
	Capabilities []string             `json:"capabilities"`
	Role         string               `json:"role"`
	Suggestion   string               `json:"suggestion"`
}

// UsageResult describes suggested roles per fixture group.
type UsageResult struct {
	Groups          []FixtureGroup                `json:"groups"`
	Recommendations lighting.RecommendationBundle `json:"recommendations"`
}

// SuggestFixtureUsage groups the project's fixtures by type, infers what
// each group can do, and assigns a design role. It does not call the model.
func (s *Service) SuggestFixtureUsage(ctx context.Context, req UsageRequest) (*UsageResult, error) {
	fixtures, err := s.backend.ProjectFixtures(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}
	if len(fixtures) == 0 {
		return nil, fmt.Errorf("%w: project %s has no fixtures", lighting.ErrNoFixtures, req.ProjectID)
	}

	index := map[lighting.FixtureType]int{}
	var groups []FixtureGroup
	for _, fx := range fixtures {
		i, ok := index[fx.Type]
		if !ok {
			i = len(groups)
			index[fx.Type] = i
			groups = append(groups, FixtureGroup{Type: fx.Type, Capabilities: []string{}})
		}
		g := &groups[i]
		g.Count++
		g.FixtureIDs = append(g.FixtureIDs, fx.ID)
		g.Capabilities = mergeCapabilities(g.Capabilities, capabilities(fx))
	}
	for i := range groups {
		groups[i].Role = role(groups[i].Type, groups[i].Capabilities)
		groups[i].Suggestion = suggestion(groups[i])
	}

	description := req.Description
	if description == "" {
		description = "general stage lighting"
	}
	recs := s.retriever.Recommend(ctx, rag.Request{
		Description:  description,
		Mood:         req.Mood,
		FixtureTypes: lighting.FixtureTypes(fixtures),
	})

	return &UsageResult{Groups: groups, Recommendations: recs}, nil
}

func capabilities(fx lighting.FixtureInstance) []string {
	var caps []string
	has := fx.HasChannelType
	if has(lighting.ChannelRed) && has(lighting.ChannelGreen) && has(lighting.ChannelBlue) {
		caps = append(caps, CapColorMixing)
	}
	if has(lighting.ChannelWhite) || has(lighting.ChannelAmber) {
		caps = append(caps, CapWhite)
	}
	if has(lighting.ChannelColorWheel) {
		caps = append(caps, CapColorWheel)
	}
	if has(lighting.ChannelPan) || has(lighting.ChannelTilt) {
		caps = append(caps, CapMovement)
	}
	if has(lighting.ChannelIntensity) {
		caps = append(caps, CapIntensity)
	}
	if has(lighting.ChannelStrobe) || fx.Type == lighting.FixtureStrobe {
		caps = append(caps, CapStrobe)
	}
	if has(lighting.ChannelGobo) {
		caps = append(caps, CapGobo)
	}
	if has(lighting.ChannelZoom) || has(lighting.ChannelFocus) || has(lighting.ChannelIris) {
		caps = append(caps, CapBeamShaping)
	}
	return caps
}

func mergeCapabilities(into, caps []string) []string {
	for _, c := range caps {
		if !contains(into, c) {
			into = append(into, c)
		}
	}
	return into
}

func role(t lighting.FixtureType, caps []string) string {
	switch {
	case t == lighting.FixtureStrobe:
		return RoleEffect
	case contains(caps, CapMovement):
		return RoleAccent
	case contains(caps, CapColorMixing):
		return RoleWash
	case contains(caps, CapIntensity) || t == lighting.FixtureDimmer:
		return RoleKey
	case contains(caps, CapStrobe):
		return RoleEffect
	}
	return RoleUtility
}

func suggestion(g FixtureGroup) string {
	switch g.Role {
	case RoleEffect:
		return fmt.Sprintf("Reserve the %d %s fixture(s) for punctuation such as lightning, impacts and transitions.", g.Count, g.Type)
	case RoleAccent:
		return fmt.Sprintf("Use the %d %s fixture(s) for specials, moving focus and texture on key moments.", g.Count, g.Type)
	case RoleWash:
		return fmt.Sprintf("Use the %d %s fixture(s) for color washes that set the mood of each scene.", g.Count, g.Type)
	case RoleKey:
		return fmt.Sprintf("Use the %d %s fixture(s) as key light to keep performers visible.", g.Count, g.Type)
	}
	return fmt.Sprintf("Use the %d %s fixture(s) as practicals or atmospheric support.", g.Count, g.Type)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
