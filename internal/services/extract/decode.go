package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bbernstein/lacylights-mcp/internal/lighting"
)

// Fallback names used when model output cannot be parsed.
const (
	FallbackLookName        = "Generated Look"
	FallbackCueSequenceName = "Generated Cue Sequence"
	fallbackNameLength      = 50
	// valueLimit bounds decoded numbers before integer conversion.
	valueLimit = 1 << 20
)

// Report summarizes a typed decode.
type Report struct {
	Outcome Outcome
	Skipped int // malformed entries dropped during decoding
	Err     error
}

// RawCue is a cue as emitted by the model. Nil fields were absent.
type RawCue struct {
	Name        string
	CueNumber   *float64
	LookID      string
	FadeInTime  *float64
	FadeOutTime *float64
	FollowTime  *float64
	EasingType  *string
	Notes       *string
}

// RawCueSequence is a cue sequence as emitted by the model.
type RawCueSequence struct {
	Name        string
	Description string
	Reasoning   string
	Cues        []RawCue
}

// DecodeLook extracts a look from model output. Channel values are not yet
// validated against the inventory. On failure the documented fallback look is
// returned: a name derived from the description, no fixture values, and a
// reasoning string naming the parse failure.
func DecodeLook(text, description string) (lighting.GeneratedLook, Report) {
	res := Extract(text)
	if !res.Parsed() {
		return fallbackLook(description, res.Err), Report{Outcome: res.Outcome, Err: res.Err}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(res.JSON, &obj); err != nil {
		err = fmt.Errorf("%w: %v", ErrMalformed, err)
		return fallbackLook(description, err), Report{Outcome: OutcomeUnparsed, Err: err}
	}

	look := lighting.GeneratedLook{
		Name:          stringField(obj, "name"),
		Description:   stringField(obj, "description"),
		Reasoning:     stringField(obj, "reasoning"),
		FixtureValues: []lighting.FixtureValues{},
		ParseOutcome:  string(res.Outcome),
	}
	if look.Name == "" {
		look.Name = fallbackName(description)
	}
	if look.Description == "" {
		look.Description = description
	}

	report := Report{Outcome: res.Outcome}
	for _, entry := range arrayField(obj, "fixtureValues") {
		fv, ok := decodeFixtureValues(entry)
		if !ok {
			report.Skipped++
			continue
		}
		look.FixtureValues = append(look.FixtureValues, fv)
	}
	return look, report
}

// DecodeCueSequence extracts a cue sequence from model output. On failure the
// documented fallback sequence is returned: a fixed name, no cues, and a
// reasoning string naming the parse failure.
func DecodeCueSequence(text string) (RawCueSequence, Report) {
	res := Extract(text)
	if !res.Parsed() {
		return fallbackCueSequence(res.Err), Report{Outcome: res.Outcome, Err: res.Err}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(res.JSON, &obj); err != nil {
		err = fmt.Errorf("%w: %v", ErrMalformed, err)
		return fallbackCueSequence(err), Report{Outcome: OutcomeUnparsed, Err: err}
	}

	seq := RawCueSequence{
		Name:        stringField(obj, "name"),
		Description: stringField(obj, "description"),
		Reasoning:   stringField(obj, "reasoning"),
	}
	if seq.Name == "" {
		seq.Name = FallbackCueSequenceName
	}

	report := Report{Outcome: res.Outcome}
	for _, entry := range arrayField(obj, "cues") {
		cue, ok := decodeCue(entry)
		if !ok {
			report.Skipped++
			continue
		}
		seq.Cues = append(seq.Cues, cue)
	}
	return seq, report
}

// ParseFailureReasoning is the reasoning attached to fallback results.
func ParseFailureReasoning(err error) string {
	if err == nil {
		err = ErrNoObject
	}
	return "Failed to parse AI response: " + err.Error()
}

func fallbackLook(description string, err error) lighting.GeneratedLook {
	return lighting.GeneratedLook{
		Name:          fallbackName(description),
		Description:   description,
		FixtureValues: []lighting.FixtureValues{},
		Reasoning:     ParseFailureReasoning(err),
		ParseOutcome:  string(OutcomeUnparsed),
	}
}

func fallbackCueSequence(err error) RawCueSequence {
	return RawCueSequence{
		Name:      FallbackCueSequenceName,
		Reasoning: ParseFailureReasoning(err),
	}
}

func fallbackName(description string) string {
	d := strings.TrimSpace(description)
	if d == "" {
		return FallbackLookName
	}
	runes := []rune(d)
	if len(runes) > fallbackNameLength {
		return strings.TrimSpace(string(runes[:fallbackNameLength])) + "..."
	}
	return d
}

func decodeFixtureValues(raw json.RawMessage) (lighting.FixtureValues, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return lighting.FixtureValues{}, false
	}

	id := idField(obj, "fixtureId")
	if id == "" {
		return lighting.FixtureValues{}, false
	}

	fv := lighting.FixtureValues{FixtureID: id, Channels: []lighting.ChannelValue{}}

	if entries, ok := obj["channels"]; ok {
		var list []json.RawMessage
		if err := json.Unmarshal(entries, &list); err == nil {
			for _, item := range list {
				if cv, ok := decodeChannelValue(item); ok {
					fv.Channels = append(fv.Channels, cv)
				}
			}
		}
	} else if dense, ok := obj["channelValues"]; ok {
		fv.Channels = lighting.SparseFromDense(decodeDense(dense))
		if fv.Channels == nil {
			fv.Channels = []lighting.ChannelValue{}
		}
	}

	for _, key := range []string{"lookOrder", "sceneOrder", "order"} {
		if f, ok := numberField(obj, key); ok {
			order := toInt(f)
			fv.Order = &order
			break
		}
	}
	return fv, true
}

func decodeChannelValue(raw json.RawMessage) (lighting.ChannelValue, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return lighting.ChannelValue{}, false
	}
	offset, ok := numberField(obj, "offset")
	if !ok || offset != math.Trunc(offset) {
		return lighting.ChannelValue{}, false
	}
	value, ok := numberField(obj, "value")
	if !ok {
		return lighting.ChannelValue{}, false
	}
	return lighting.ChannelValue{Offset: toInt(offset), Value: toInt(value)}, true
}

// decodeDense reads a legacy value array. Non-numeric items become 0 so that
// later indices keep their offsets.
func decodeDense(raw json.RawMessage) []int {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	values := make([]int, len(list))
	for i, item := range list {
		if f, ok := asNumber(item); ok {
			values[i] = toInt(f)
		}
	}
	return values
}

func decodeCue(raw json.RawMessage) (RawCue, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return RawCue{}, false
	}
	cue := RawCue{
		Name:   stringField(obj, "name"),
		LookID: idField(obj, "lookId"),
	}
	if cue.LookID == "" {
		cue.LookID = idField(obj, "sceneId")
	}
	if cue.LookID == "" {
		return RawCue{}, false
	}
	cue.CueNumber = optionalNumber(obj, "cueNumber")
	cue.FadeInTime = optionalNumber(obj, "fadeInTime")
	cue.FadeOutTime = optionalNumber(obj, "fadeOutTime")
	cue.FollowTime = optionalNumber(obj, "followTime")
	if s := stringField(obj, "easingType"); s != "" {
		cue.EasingType = &s
	}
	if s := stringField(obj, "notes"); s != "" {
		cue.Notes = &s
	}
	return cue, true
}

func optionalNumber(obj map[string]json.RawMessage, key string) *float64 {
	if f, ok := numberField(obj, key); ok {
		return &f
	}
	return nil
}

func stringField(obj map[string]json.RawMessage, key string) string {
	raw, ok := obj[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// idField accepts string or numeric identifiers.
func idField(obj map[string]json.RawMessage, key string) string {
	if s := stringField(obj, key); s != "" {
		return s
	}
	if f, ok := numberField(obj, key); ok && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return ""
}

func arrayField(obj map[string]json.RawMessage, key string) []json.RawMessage {
	raw, ok := obj[key]
	if !ok {
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

func numberField(obj map[string]json.RawMessage, key string) (float64, bool) {
	raw, ok := obj[key]
	if !ok {
		return 0, false
	}
	return asNumber(raw)
}

// asNumber accepts JSON numbers and numeric strings.
func asNumber(raw json.RawMessage) (float64, bool) {
	if strings.TrimSpace(string(raw)) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, true
		}
	}
	return 0, false
}

// toInt rounds to the nearest integer, bounded to keep conversion defined.
func toInt(f float64) int {
	if f > valueLimit {
		return valueLimit
	}
	if f < -valueLimit {
		return -valueLimit
	}
	return int(math.Round(f))
}
