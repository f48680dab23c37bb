// Package prompt serializes request context into bounded model prompts.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bbernstein/lacylights-mcp/internal/lighting"
)

// Default limits.
const (
	DefaultMaxFixtures        = 40
	DefaultMaxContextFixtures = 20
	DefaultMaxScriptChars     = 4000
)

// Limits bounds the size of generated prompts.
type Limits struct {
	MaxFixtures        int
	MaxContextFixtures int
	MaxScriptChars     int
}

func (l Limits) withDefaults() Limits {
	if l.MaxFixtures <= 0 {
		l.MaxFixtures = DefaultMaxFixtures
	}
	if l.MaxContextFixtures <= 0 {
		l.MaxContextFixtures = DefaultMaxContextFixtures
	}
	if l.MaxScriptChars <= 0 {
		l.MaxScriptChars = DefaultMaxScriptChars
	}
	return l
}

// Prompt is a system/user message pair. Omitted counts how many fixtures were
// left out of the listing.
type Prompt struct {
	System  string
	User    string
	Omitted int
}

// Builder builds prompts. It is stateless and safe for concurrent use.
type Builder struct {
	limits Limits
}

// NewBuilder creates a Builder. Zero limits take the defaults.
func NewBuilder(limits Limits) *Builder {
	return &Builder{limits: limits.withDefaults()}
}

// Limits returns the effective limits.
func (b *Builder) Limits() Limits {
	return b.limits
}

// LookInput is everything a look prompt is built from.
type LookInput struct {
	Description     string
	ScriptContext   string
	Preferences     *lighting.DesignPreferences
	Scope           lighting.Scope
	Filter          *lighting.FixtureFilter
	Targets         []lighting.FixtureInstance
	Context         []lighting.FixtureInstance
	Recommendations lighting.RecommendationBundle
}

// LookPrompt builds the prompt for generating a look. Additive scope without
// a fixture filter is rejected with lighting.ErrInvalidScope.
func (b *Builder) LookPrompt(in LookInput) (Prompt, error) {
	scope := in.Scope
	if scope == "" {
		scope = lighting.ScopeFull
	}
	if err := lighting.ValidateScope(scope, in.Filter); err != nil {
		return Prompt{}, err
	}

	var sb strings.Builder
	p := Prompt{System: lookSystemPrompt}

	fmt.Fprintf(&sb, "Create a lighting look for: %s\n", strings.TrimSpace(in.Description))

	if ctx := strings.TrimSpace(in.ScriptContext); ctx != "" {
		sb.WriteString("\nScript context:\n")
		sb.WriteString(truncateRunes(ctx, b.limits.MaxScriptChars))
		sb.WriteString("\n")
	}

	writePreferences(&sb, in.Preferences)
	writeRecommendations(&sb, in.Recommendations)

	switch scope {
	case lighting.ScopeAdditive:
		sb.WriteString("\nScope: ADDITIVE. Modify only the fixtures listed under \"Fixtures to set\". ")
		sb.WriteString("Every other fixture keeps its current state; do not include them in fixtureValues.\n")

		sb.WriteString("\nFixtures to set:\n")
		for _, fx := range in.Targets {
			writeFixture(&sb, fx)
		}

		if len(in.Context) > 0 {
			sb.WriteString("\nLeave unchanged (context only):\n")
			shown := in.Context
			if len(shown) > b.limits.MaxContextFixtures {
				shown = shown[:b.limits.MaxContextFixtures]
			}
			for _, fx := range shown {
				fmt.Fprintf(&sb, "- %s (%s, %s)\n", fx.ID, fx.Name, fx.Type)
			}
			if omitted := len(in.Context) - len(shown); omitted > 0 {
				fmt.Fprintf(&sb, "... %d more fixtures omitted\n", omitted)
				p.Omitted = omitted
			}
		}
	default:
		sb.WriteString("\nScope: FULL. Set values for every fixture listed below; this look replaces the whole stage.\n")

		sb.WriteString("\nAvailable fixtures:\n")
		shown := in.Targets
		if len(shown) > b.limits.MaxFixtures {
			shown = shown[:b.limits.MaxFixtures]
		}
		for _, fx := range shown {
			writeFixture(&sb, fx)
		}
		if omitted := len(in.Targets) - len(shown); omitted > 0 {
			fmt.Fprintf(&sb, "... %d more fixtures omitted\n", omitted)
			p.Omitted = omitted
		}
	}

	sb.WriteString("\n")
	sb.WriteString(lookOutputFormat)
	p.User = sb.String()
	return p, nil
}

// CueInput is everything a cue-sequence prompt is built from.
type CueInput struct {
	Name        string
	Description string
	Looks       []lighting.Look
	Script      *lighting.ScriptAnalysis
	Transitions lighting.TransitionPreferences
}

// CueSequencePrompt builds the prompt for ordering looks into cues.
func (b *Builder) CueSequencePrompt(in CueInput) Prompt {
	var sb strings.Builder

	sb.WriteString("Create a cue sequence")
	if in.Name != "" {
		fmt.Fprintf(&sb, " named %q", in.Name)
	}
	sb.WriteString(".\n")
	if d := strings.TrimSpace(in.Description); d != "" {
		fmt.Fprintf(&sb, "Description: %s\n", d)
	}

	sb.WriteString("\nAvailable looks:\n")
	for _, l := range in.Looks {
		if l.Description != "" {
			fmt.Fprintf(&sb, "- %s: %s (%s)\n", l.ID, l.Name, l.Description)
		} else {
			fmt.Fprintf(&sb, "- %s: %s\n", l.ID, l.Name)
		}
	}

	if in.Script != nil && len(in.Script.Scenes) > 0 {
		sb.WriteString("\nScript structure:\n")
		var budget strings.Builder
		for _, sc := range in.Script.Scenes {
			fmt.Fprintf(&budget, "Scene %s: %s (mood: %s)", sc.SceneNumber, sc.Title, sc.Mood)
			if sc.TimeOfDay != nil {
				fmt.Fprintf(&budget, ", %s", *sc.TimeOfDay)
			}
			budget.WriteString("\n")
			for _, cue := range sc.LightingCues {
				fmt.Fprintf(&budget, "  lighting: %s\n", cue)
			}
		}
		sb.WriteString(truncateRunes(budget.String(), b.limits.MaxScriptChars))
		if in.Script.OverallMood != "" {
			fmt.Fprintf(&sb, "\nOverall mood: %s\n", in.Script.OverallMood)
		}
	}

	t := in.Transitions
	fmt.Fprintf(&sb, "\nTransitions: default fade in %gs, default fade out %gs.", t.DefaultFadeIn, t.DefaultFadeOut)
	if t.FollowCues {
		sb.WriteString(" Use followTime so cues run on automatically where it suits the action.")
	}
	if t.AutoAdvance {
		sb.WriteString(" The sequence should auto-advance.")
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Valid easing types: %s\n", strings.Join(lighting.EasingNames(), ", "))

	sb.WriteString("\n")
	sb.WriteString(cueOutputFormat)
	return Prompt{System: cueSystemPrompt, User: sb.String()}
}

// OptimizeInput is everything an optimize prompt is built from.
type OptimizeInput struct {
	Look     lighting.Look
	Fixtures []lighting.FixtureInstance
	Goals    []string
}

// OptimizePrompt builds the prompt for refining an existing look.
func (b *Builder) OptimizePrompt(in OptimizeInput) Prompt {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Optimize the look %q", in.Look.Name)
	if in.Look.Description != "" {
		fmt.Fprintf(&sb, " (%s)", in.Look.Description)
	}
	sb.WriteString(".\n")
	if len(in.Goals) > 0 {
		fmt.Fprintf(&sb, "Goals: %s\n", strings.Join(in.Goals, ", "))
	}

	byID := make(map[string]lighting.FixtureInstance, len(in.Fixtures))
	for _, fx := range in.Fixtures {
		byID[fx.ID] = fx
	}

	sb.WriteString("\nCurrent values:\n")
	for _, fv := range in.Look.FixtureValues {
		fx, ok := byID[fv.FixtureID]
		if !ok {
			continue
		}
		pairs := make([]string, 0, len(fv.Channels))
		for _, cv := range fv.Channels {
			pairs = append(pairs, fmt.Sprintf("%d=%d", cv.Offset, cv.Value))
		}
		fmt.Fprintf(&sb, "- %s (%s): %s\n", fx.ID, fx.Name, strings.Join(pairs, " "))
	}

	sb.WriteString("\nFixtures:\n")
	shown := in.Fixtures
	omitted := 0
	if len(shown) > b.limits.MaxFixtures {
		omitted = len(shown) - b.limits.MaxFixtures
		shown = shown[:b.limits.MaxFixtures]
	}
	for _, fx := range shown {
		writeFixture(&sb, fx)
	}
	if omitted > 0 {
		fmt.Fprintf(&sb, "... %d more fixtures omitted\n", omitted)
	}

	sb.WriteString("\n")
	sb.WriteString(lookOutputFormat)
	return Prompt{System: optimizeSystemPrompt, User: sb.String(), Omitted: omitted}
}

func writePreferences(sb *strings.Builder, prefs *lighting.DesignPreferences) {
	if prefs == nil {
		return
	}
	var lines []string
	if len(prefs.ColorPalette) > 0 {
		lines = append(lines, "Color palette: "+strings.Join(prefs.ColorPalette, ", "))
	}
	if prefs.Mood != "" {
		lines = append(lines, "Mood: "+prefs.Mood)
	}
	if prefs.Intensity != "" {
		lines = append(lines, "Overall intensity: "+string(prefs.Intensity))
	}
	if len(prefs.FocusAreas) > 0 {
		lines = append(lines, "Focus areas: "+strings.Join(prefs.FocusAreas, ", "))
	}
	if len(lines) == 0 {
		return
	}
	sb.WriteString("\nDesign preferences:\n")
	for _, l := range lines {
		sb.WriteString("- ")
		sb.WriteString(l)
		sb.WriteString("\n")
	}
}

func writeRecommendations(sb *strings.Builder, rec lighting.RecommendationBundle) {
	if rec.IsEmpty() {
		return
	}
	sb.WriteString("\nDesign recommendations (advisory):\n")
	if len(rec.ColorSuggestions) > 0 {
		fmt.Fprintf(sb, "- Colors: %s\n", strings.Join(rec.ColorSuggestions, ", "))
	}
	if len(rec.IntensityLevels) > 0 {
		bands := make([]string, 0, len(rec.IntensityLevels))
		for band := range rec.IntensityLevels {
			bands = append(bands, band)
		}
		sort.Strings(bands)
		levels := make([]string, len(bands))
		for i, band := range bands {
			levels[i] = fmt.Sprintf("%s %d%%", band, rec.IntensityLevels[band])
		}
		fmt.Fprintf(sb, "- Intensity: %s\n", strings.Join(levels, ", "))
	}
	if len(rec.FocusAreas) > 0 {
		fmt.Fprintf(sb, "- Focus: %s\n", strings.Join(rec.FocusAreas, ", "))
	}
	if rec.Reasoning != "" {
		fmt.Fprintf(sb, "- Notes: %s\n", rec.Reasoning)
	}
}

// writeFixture writes one inventory line: id, name, type, model and the
// channel schema as offset:TYPE[min-max].
func writeFixture(sb *strings.Builder, fx lighting.FixtureInstance) {
	fmt.Fprintf(sb, "- id=%s name=%q type=%s", fx.ID, fx.Name, fx.Type)
	if fx.Manufacturer != "" || fx.Model != "" {
		fmt.Fprintf(sb, " model=%q", strings.TrimSpace(fx.Manufacturer+" "+fx.Model))
	}
	if fx.ModeName != "" {
		fmt.Fprintf(sb, " mode=%q", fx.ModeName)
	}
	if len(fx.Tags) > 0 {
		fmt.Fprintf(sb, " tags=%s", strings.Join(fx.Tags, ","))
	}
	sb.WriteString(" channels=")
	parts := make([]string, len(fx.Channels))
	for i, ch := range fx.Channels {
		lo, hi := ch.Range()
		parts[i] = fmt.Sprintf("%d:%s[%d-%d]", ch.Offset, ch.Type, lo, hi)
	}
	sb.WriteString(strings.Join(parts, " "))
	sb.WriteString("\n")
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "\n[truncated]"
}
