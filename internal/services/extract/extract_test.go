package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/lacylights-mcp/internal/lighting"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		outcome Outcome
		json    string
		err     error
	}{
		{
			name:    "whole text is an object",
			text:    `  {"name":"Dawn"}  `,
			outcome: OutcomeDirect,
			json:    `{"name":"Dawn"}`,
		},
		{
			name:    "object wrapped in prose",
			text:    "Here is your look:\n{\"name\":\"Dawn\",\"fixtureValues\":[]}\nEnjoy!",
			outcome: OutcomeEmbedded,
			json:    `{"name":"Dawn","fixtureValues":[]}`,
		},
		{
			name:    "code fence",
			text:    "```json\n{\"a\":{\"b\":1}}\n```",
			outcome: OutcomeEmbedded,
			json:    `{"a":{"b":1}}`,
		},
		{
			name:    "braces inside strings are ignored",
			text:    `Result: {"reasoning":"use a } here and a \"{\" there","n":1} trailing }`,
			outcome: OutcomeEmbedded,
			json:    `{"reasoning":"use a } here and a \"{\" there","n":1}`,
		},
		{
			name:    "no object at all",
			text:    "Sorry, I can't help",
			outcome: OutcomeUnparsed,
			err:     ErrNoObject,
		},
		{
			name:    "unterminated",
			text:    `Here: {"name": "Dawn"`,
			outcome: OutcomeUnparsed,
			err:     ErrUnterminated,
		},
		{
			name:    "malformed embedded object",
			text:    `Here: {name: Dawn}`,
			outcome: OutcomeUnparsed,
			err:     ErrMalformed,
		},
		{
			name:    "json array",
			text:    `[1,2,3]`,
			outcome: OutcomeUnparsed,
			err:     ErrNotObject,
		},
		{
			name:    "empty",
			text:    "   ",
			outcome: OutcomeUnparsed,
			err:     ErrNoObject,
		},
		{
			name:    "only the first opening brace is scanned",
			text:    `see {placeholder} then {"name":"Dawn"}`,
			outcome: OutcomeUnparsed,
			err:     ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Extract(tt.text)
			assert.Equal(t, tt.outcome, res.Outcome)
			if tt.json != "" {
				assert.JSONEq(t, tt.json, string(res.JSON))
			}
			if tt.err != nil {
				assert.ErrorIs(t, res.Err, tt.err)
			} else {
				assert.NoError(t, res.Err)
			}
		})
	}
}

// An object embedded anywhere in prose (without braces in the prose)
// round-trips to an equal value.
func TestExtract_EmbeddedRoundTrip(t *testing.T) {
	payload := map[string]interface{}{
		"name": "Storm",
		"fixtureValues": []interface{}{
			map[string]interface{}{"fixtureId": "f1", "channels": []interface{}{
				map[string]interface{}{"offset": 0.0, "value": 255.0},
			}},
		},
		"reasoning": "quote \" and brace } inside",
	}
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)

	prefixes := []string{"", "Sure!\n", "Here's the design (as requested):\n\n"}
	suffixes := []string{"", "\nLet me know.", " -- done."}
	for _, p := range prefixes {
		for _, s := range suffixes {
			res := Extract(p + string(encoded) + s)
			require.True(t, res.Parsed(), "prefix %q suffix %q", p, s)

			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(res.JSON, &got))
			assert.Equal(t, payload, got)
		}
	}
}

func TestDecodeLook_Unparsed(t *testing.T) {
	look, report := DecodeLook("Sorry, I can't help", "A warm sunrise over the harbor")

	assert.Equal(t, OutcomeUnparsed, report.Outcome)
	assert.Equal(t, "A warm sunrise over the harbor", look.Name)
	assert.NotNil(t, look.FixtureValues)
	assert.Empty(t, look.FixtureValues)
	assert.Contains(t, look.Reasoning, "Failed to parse AI response")
	assert.Equal(t, string(OutcomeUnparsed), look.ParseOutcome)
}

func TestDecodeLook_FallbackNameTruncated(t *testing.T) {
	desc := "An extremely long description of a stormy night scene with flickering lightning"
	look, _ := DecodeLook("nope", desc)
	assert.Equal(t, "An extremely long description of a stormy night sc...", look.Name)

	look, _ = DecodeLook("nope", "")
	assert.Equal(t, FallbackLookName, look.Name)
}

func TestDecodeLook_TolerantEntries(t *testing.T) {
	text := `Here you go:
{
  "name": "Moonlight",
  "fixtureValues": [
    {"fixtureId": "f1", "channels": [{"offset": 0, "value": 300}, {"offset": "1", "value": "12.6"}, {"offset": 2, "value": "bright"}, {"offset": 1.5, "value": 3}]},
    {"channels": [{"offset": 0, "value": 1}]},
    {"fixtureId": "f2", "channelValues": [10, 20, 30], "sceneOrder": 2},
    "garbage"
  ],
  "reasoning": "cool blue wash"
}`
	look, report := DecodeLook(text, "moonlight")

	assert.Equal(t, OutcomeEmbedded, report.Outcome)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, "Moonlight", look.Name)
	assert.Equal(t, "moonlight", look.Description)
	require.Len(t, look.FixtureValues, 2)

	assert.Equal(t, "f1", look.FixtureValues[0].FixtureID)
	assert.Equal(t, []lighting.ChannelValue{{Offset: 0, Value: 300}, {Offset: 1, Value: 13}}, look.FixtureValues[0].Channels)

	assert.Equal(t, "f2", look.FixtureValues[1].FixtureID)
	assert.Equal(t, []lighting.ChannelValue{{Offset: 0, Value: 10}, {Offset: 1, Value: 20}, {Offset: 2, Value: 30}}, look.FixtureValues[1].Channels)
	require.NotNil(t, look.FixtureValues[1].Order)
	assert.Equal(t, 2, *look.FixtureValues[1].Order)
}

func TestDecodeCueSequence(t *testing.T) {
	text := `{"name":"Act One","cues":[
		{"name":"Opening","cueNumber":1,"lookId":"l1","fadeInTime":5,"fadeOutTime":2,"followTime":null},
		{"name":"Storm","sceneId":"l2","easingType":"S_CURVE","notes":"thunder"},
		{"name":"Orphan","fadeInTime":1}
	],"reasoning":"builds tension"}`

	seq, report := DecodeCueSequence(text)
	assert.Equal(t, OutcomeDirect, report.Outcome)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, "Act One", seq.Name)
	require.Len(t, seq.Cues, 2)

	first := seq.Cues[0]
	assert.Equal(t, "l1", first.LookID)
	require.NotNil(t, first.CueNumber)
	assert.Equal(t, 1.0, *first.CueNumber)
	assert.Nil(t, first.FollowTime)

	second := seq.Cues[1]
	assert.Equal(t, "l2", second.LookID)
	assert.Nil(t, second.CueNumber)
	assert.Nil(t, second.FadeInTime)
	require.NotNil(t, second.EasingType)
	assert.Equal(t, "S_CURVE", *second.EasingType)
	require.NotNil(t, second.Notes)
	assert.Equal(t, "thunder", *second.Notes)
}

func TestDecodeCueSequence_Unparsed(t *testing.T) {
	seq, report := DecodeCueSequence("I cannot do that.")
	assert.Equal(t, OutcomeUnparsed, report.Outcome)
	assert.Equal(t, FallbackCueSequenceName, seq.Name)
	assert.Empty(t, seq.Cues)
	assert.Contains(t, seq.Reasoning, "Failed to parse AI response")
}

func TestToInt_Bounds(t *testing.T) {
	assert.Equal(t, valueLimit, toInt(1e300))
	assert.Equal(t, -valueLimit, toInt(-1e300))
	assert.Equal(t, 128, toInt(127.5))
}
