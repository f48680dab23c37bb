package reconcile

import (
	"math"
	"strconv"

	"github.com/bbernstein/lacylights-mcp/internal/lighting"
	"github.com/bbernstein/lacylights-mcp/internal/services/extract"
)

// CueSequence turns a decoded cue sequence into a valid one:
//   - cues referencing a look outside the supplied set are dropped
//   - absent fade times take the transition defaults, negative ones become 0
//   - a negative or absent follow time is omitted
//   - a missing or non-increasing cue number becomes the previous number + 1
//   - unknown easing names are dropped
//
// Cue order is the model's order.
func CueSequence(raw extract.RawCueSequence, looks []lighting.Look, prefs lighting.TransitionPreferences) (lighting.GeneratedCueSequence, Stats) {
	var stats Stats
	known := make(map[string]bool, len(looks))
	for _, l := range looks {
		known[l.ID] = true
	}

	seq := lighting.GeneratedCueSequence{
		Name:        raw.Name,
		Description: raw.Description,
		Reasoning:   raw.Reasoning,
		Cues:        []lighting.GeneratedCue{},
	}

	prev := 0.0
	for _, rc := range raw.Cues {
		if !known[rc.LookID] {
			stats.UnknownLooks++
			continue
		}

		cue := lighting.GeneratedCue{
			Name:        rc.Name,
			LookID:      rc.LookID,
			FadeInTime:  fadeTime(rc.FadeInTime, prefs.DefaultFadeIn),
			FadeOutTime: fadeTime(rc.FadeOutTime, prefs.DefaultFadeOut),
			Notes:       rc.Notes,
		}

		if rc.CueNumber != nil && *rc.CueNumber > prev && !math.IsInf(*rc.CueNumber, 0) {
			cue.CueNumber = *rc.CueNumber
		} else {
			cue.CueNumber = math.Floor(prev) + 1
		}
		prev = cue.CueNumber

		if rc.FollowTime != nil && *rc.FollowTime >= 0 {
			ft := *rc.FollowTime
			cue.FollowTime = &ft
		}
		if rc.EasingType != nil {
			if e, ok := lighting.ParseEasing(*rc.EasingType); ok {
				name := string(e)
				cue.EasingType = &name
			}
		}
		if cue.Name == "" {
			cue.Name = "Cue " + formatCueNumber(cue.CueNumber)
		}
		seq.Cues = append(seq.Cues, cue)
	}
	return seq, stats
}

func fadeTime(v *float64, def float64) float64 {
	if v == nil {
		return math.Max(def, 0)
	}
	return math.Max(*v, 0)
}

func formatCueNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
