// Package reconcile validates generated lighting data against the real
// fixture inventory and the set of existing looks.
package reconcile

import (
	"github.com/bbernstein/lacylights-mcp/internal/lighting"
)

// Stats counts what reconciliation removed or adjusted.
type Stats struct {
	UnknownFixtures   int `json:"unknownFixtures"`
	DuplicateFixtures int `json:"duplicateFixtures"`
	UnknownOffsets    int `json:"unknownOffsets"`
	DuplicateOffsets  int `json:"duplicateOffsets"`
	ClampedValues     int `json:"clampedValues"`
	UnknownLooks      int `json:"unknownLooks"`
}

// Changed reports whether anything was dropped or adjusted.
func (s Stats) Changed() bool {
	return s != Stats{}
}

// Look reconciles a generated look against the available fixtures:
//   - entries whose fixture id is not available are dropped
//   - channel entries whose offset does not exist on the fixture are dropped
//   - values are clamped into the channel's range (default 0-255)
//   - later duplicates of a fixture or offset are dropped
//
// Order and sparseness are preserved. Look is idempotent.
func Look(look lighting.GeneratedLook, available []lighting.FixtureInstance) (lighting.GeneratedLook, Stats) {
	var stats Stats
	byID := indexFixtures(available)

	out := look
	out.FixtureValues = make([]lighting.FixtureValues, 0, len(look.FixtureValues))
	seen := make(map[string]bool, len(look.FixtureValues))

	for _, fv := range look.FixtureValues {
		fixture, ok := byID[fv.FixtureID]
		if !ok {
			stats.UnknownFixtures++
			continue
		}
		if seen[fv.FixtureID] {
			stats.DuplicateFixtures++
			continue
		}
		seen[fv.FixtureID] = true

		channels, s := reconcileChannels(fv.Channels, fixture)
		stats.UnknownOffsets += s.UnknownOffsets
		stats.DuplicateOffsets += s.DuplicateOffsets
		stats.ClampedValues += s.ClampedValues

		entry := lighting.FixtureValues{FixtureID: fv.FixtureID, Channels: channels}
		if fv.Order != nil {
			order := *fv.Order
			entry.Order = &order
		}
		out.FixtureValues = append(out.FixtureValues, entry)
	}
	return out, stats
}

func reconcileChannels(values []lighting.ChannelValue, fixture lighting.FixtureInstance) ([]lighting.ChannelValue, Stats) {
	var stats Stats
	out := make([]lighting.ChannelValue, 0, len(values))
	seen := make(map[int]bool, len(values))

	for _, cv := range values {
		ch, ok := fixture.Channel(cv.Offset)
		if !ok {
			stats.UnknownOffsets++
			continue
		}
		if seen[cv.Offset] {
			stats.DuplicateOffsets++
			continue
		}
		seen[cv.Offset] = true

		lo, hi := ch.Range()
		v := lighting.Clamp(cv.Value, lo, hi)
		if v != cv.Value {
			stats.ClampedValues++
		}
		out = append(out, lighting.ChannelValue{Offset: cv.Offset, Value: v})
	}
	return out, stats
}

// MissingFixtures returns the ids of available fixtures that the look does not
// set, in inventory order. Used to report incomplete full-scope looks.
func MissingFixtures(look lighting.GeneratedLook, available []lighting.FixtureInstance) []string {
	present := make(map[string]bool, len(look.FixtureValues))
	for _, id := range look.FixtureIDs() {
		present[id] = true
	}
	var missing []string
	for _, f := range available {
		if !present[f.ID] {
			missing = append(missing, f.ID)
		}
	}
	return missing
}

// MergeAdditive overlays additive fixture values on an existing look's values.
// For fixtures present in both, offsets in the addition override the base and
// new offsets are appended. Fixtures only in the addition are appended.
func MergeAdditive(base, additions []lighting.FixtureValues) []lighting.FixtureValues {
	merged := make([]lighting.FixtureValues, 0, len(base)+len(additions))
	index := make(map[string]int, len(base))

	for _, fv := range base {
		index[fv.FixtureID] = len(merged)
		merged = append(merged, copyValues(fv))
	}

	for _, add := range additions {
		i, ok := index[add.FixtureID]
		if !ok {
			index[add.FixtureID] = len(merged)
			merged = append(merged, copyValues(add))
			continue
		}
		target := &merged[i]
		pos := make(map[int]int, len(target.Channels))
		for j, cv := range target.Channels {
			pos[cv.Offset] = j
		}
		for _, cv := range add.Channels {
			if j, ok := pos[cv.Offset]; ok {
				target.Channels[j].Value = cv.Value
				continue
			}
			pos[cv.Offset] = len(target.Channels)
			target.Channels = append(target.Channels, cv)
		}
	}
	return merged
}

func copyValues(fv lighting.FixtureValues) lighting.FixtureValues {
	out := lighting.FixtureValues{
		FixtureID: fv.FixtureID,
		Channels:  append([]lighting.ChannelValue(nil), fv.Channels...),
	}
	if out.Channels == nil {
		out.Channels = []lighting.ChannelValue{}
	}
	if fv.Order != nil {
		order := *fv.Order
		out.Order = &order
	}
	return out
}

func indexFixtures(fixtures []lighting.FixtureInstance) map[string]lighting.FixtureInstance {
	byID := make(map[string]lighting.FixtureInstance, len(fixtures))
	for _, f := range fixtures {
		byID[f.ID] = f
	}
	return byID
}
