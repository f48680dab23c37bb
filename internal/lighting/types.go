// Package lighting contains the domain types shared by the generation pipeline:
// fixture inventory, sparse channel values, generated looks and cue sequences,
// design preferences and script analysis results.
package lighting

import "strings"

// FixtureType is the closed set of fixture categories the backend reports.
type FixtureType string

const (
	FixtureLEDPar     FixtureType = "LED_PAR"
	FixtureMovingHead FixtureType = "MOVING_HEAD"
	FixtureStrobe     FixtureType = "STROBE"
	FixtureDimmer     FixtureType = "DIMMER"
	FixtureOther      FixtureType = "OTHER"
)

// ChannelType describes what a DMX channel controls.
type ChannelType string

const (
	ChannelIntensity  ChannelType = "INTENSITY"
	ChannelRed        ChannelType = "RED"
	ChannelGreen      ChannelType = "GREEN"
	ChannelBlue       ChannelType = "BLUE"
	ChannelWhite      ChannelType = "WHITE"
	ChannelAmber      ChannelType = "AMBER"
	ChannelUV         ChannelType = "UV"
	ChannelPan        ChannelType = "PAN"
	ChannelTilt       ChannelType = "TILT"
	ChannelZoom       ChannelType = "ZOOM"
	ChannelFocus      ChannelType = "FOCUS"
	ChannelIris       ChannelType = "IRIS"
	ChannelGobo       ChannelType = "GOBO"
	ChannelColorWheel ChannelType = "COLOR_WHEEL"
	ChannelEffect     ChannelType = "EFFECT"
	ChannelStrobe     ChannelType = "STROBE"
	ChannelMacro      ChannelType = "MACRO"
	ChannelOther      ChannelType = "OTHER"
)

// DMX bounds used when a channel does not declare its own range.
const (
	DMXMin = 0
	DMXMax = 255
)

// Channel is one channel of a fixture's active mode.
type Channel struct {
	Offset       int         `json:"offset"`
	Name         string      `json:"name"`
	Type         ChannelType `json:"type"`
	MinValue     int         `json:"minValue"`
	MaxValue     int         `json:"maxValue"`
	DefaultValue int         `json:"defaultValue"`
}

// Range returns the inclusive value range of the channel. A zero max is
// unset and means DMXMax, so an unspecified range is the full DMX range.
// Declared bounds in the wrong order are swapped.
func (c Channel) Range() (int, int) {
	lo, hi := c.MinValue, c.MaxValue
	if hi == 0 {
		hi = DMXMax
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return Clamp(lo, DMXMin, DMXMax), Clamp(hi, DMXMin, DMXMax)
}

// FixtureInstance is a patched fixture in a project. It is read-only reference data.
type FixtureInstance struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Manufacturer string      `json:"manufacturer,omitempty"`
	Model        string      `json:"model,omitempty"`
	Type         FixtureType `json:"type"`
	ModeName     string      `json:"modeName,omitempty"`
	Channels     []Channel   `json:"channels"`
	Universe     int         `json:"universe"`
	StartChannel int         `json:"startChannel"`
	Tags         []string    `json:"tags,omitempty"`
}

// Channel returns the channel at the given offset.
func (f FixtureInstance) Channel(offset int) (Channel, bool) {
	for _, ch := range f.Channels {
		if ch.Offset == offset {
			return ch, true
		}
	}
	return Channel{}, false
}

// HasTag reports whether the fixture carries the tag (case-insensitive).
func (f FixtureInstance) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// HasChannelType reports whether any channel has the given type.
func (f FixtureInstance) HasChannelType(ct ChannelType) bool {
	for _, ch := range f.Channels {
		if ch.Type == ct {
			return true
		}
	}
	return false
}

// ChannelValue is a single (offset, value) pair in a sparse fixture entry.
type ChannelValue struct {
	Offset int `json:"offset"`
	Value  int `json:"value"`
}

// FixtureValues holds the sparse channel values for one fixture in a look.
// Channels that are absent are left unchanged on the fixture.
type FixtureValues struct {
	FixtureID string         `json:"fixtureId"`
	Channels  []ChannelValue `json:"channels"`
	Order     *int           `json:"lookOrder,omitempty"`
}

// GeneratedLook is a reconciled lighting state ready to be persisted.
type GeneratedLook struct {
	LookID            string          `json:"lookId,omitempty"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Scope             Scope           `json:"scope"`
	FixtureValues     []FixtureValues `json:"fixtureValues"`
	Reasoning         string          `json:"reasoning"`
	MissingFixtureIDs []string        `json:"missingFixtureIds,omitempty"`
	ParseOutcome      string          `json:"parseOutcome"`
}

// FixtureIDs returns the fixture ids touched by the look, in order.
func (l GeneratedLook) FixtureIDs() []string {
	ids := make([]string, 0, len(l.FixtureValues))
	for _, fv := range l.FixtureValues {
		ids = append(ids, fv.FixtureID)
	}
	return ids
}

// Look is an existing look as stored by the backend.
type Look struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	FixtureValues []FixtureValues `json:"fixtureValues,omitempty"`
}

// RecommendationBundle is advisory design guidance retrieved from prior patterns.
type RecommendationBundle struct {
	ColorSuggestions []string       `json:"colorSuggestions"`
	IntensityLevels  map[string]int `json:"intensityLevels"`
	FocusAreas       []string       `json:"focusAreas"`
	Reasoning        string         `json:"reasoning"`
}

// IsEmpty reports whether the bundle carries no suggestions.
func (b RecommendationBundle) IsEmpty() bool {
	return len(b.ColorSuggestions) == 0 && len(b.IntensityLevels) == 0 && len(b.FocusAreas) == 0
}

// Intensity is the requested overall intensity of a design.
type Intensity string

const (
	IntensitySubtle   Intensity = "subtle"
	IntensityModerate Intensity = "moderate"
	IntensityDramatic Intensity = "dramatic"
)

// DesignPreferences are optional caller hints for a generated look.
type DesignPreferences struct {
	ColorPalette []string  `json:"colorPalette,omitempty"`
	Mood         string    `json:"mood,omitempty"`
	Intensity    Intensity `json:"intensity,omitempty" validate:"omitempty,oneof=subtle moderate dramatic"`
	FocusAreas   []string  `json:"focusAreas,omitempty"`
}

// GeneratedCue is one timed transition to a look.
type GeneratedCue struct {
	Name        string   `json:"name"`
	CueNumber   float64  `json:"cueNumber"`
	LookID      string   `json:"lookId"`
	FadeInTime  float64  `json:"fadeInTime"`
	FadeOutTime float64  `json:"fadeOutTime"`
	FollowTime  *float64 `json:"followTime,omitempty"`
	EasingType  *string  `json:"easingType,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

// GeneratedCueSequence is an ordered list of cues.
type GeneratedCueSequence struct {
	CueListID    string         `json:"cueListId,omitempty"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Cues         []GeneratedCue `json:"cues"`
	Reasoning    string         `json:"reasoning"`
	ParseOutcome string         `json:"parseOutcome"`
}

// TransitionPreferences controls default cue timing.
type TransitionPreferences struct {
	DefaultFadeIn  float64 `json:"defaultFadeIn" validate:"gte=0"`
	DefaultFadeOut float64 `json:"defaultFadeOut" validate:"gte=0"`
	FollowCues     bool    `json:"followCues"`
	AutoAdvance    bool    `json:"autoAdvance"`
}

// DefaultTransitions returns the timing used when the caller gives none.
func DefaultTransitions() TransitionPreferences {
	return TransitionPreferences{DefaultFadeIn: 3, DefaultFadeOut: 3}
}
