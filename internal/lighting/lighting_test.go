package lighting

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelRange(t *testing.T) {
	tests := []struct {
		name   string
		ch     Channel
		lo, hi int
	}{
		{"unspecified", Channel{}, 0, 255},
		{"declared", Channel{MinValue: 10, MaxValue: 200}, 10, 200},
		{"upper only", Channel{MaxValue: 100}, 0, 100},
		{"inverted", Channel{MinValue: 200, MaxValue: 10}, 10, 200},
		{"lower only", Channel{MinValue: 10}, 10, 255},
		{"beyond dmx", Channel{MinValue: -5, MaxValue: 300}, 0, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := tt.ch.Range()
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestSparseFromDense(t *testing.T) {
	assert.Nil(t, SparseFromDense(nil))
	assert.Equal(t, []ChannelValue{{0, 255}, {1, 0}, {2, 128}}, SparseFromDense([]int{255, 0, 128}))
}

func TestParseScope(t *testing.T) {
	s, err := ParseScope("")
	require.NoError(t, err)
	assert.Equal(t, ScopeFull, s)

	s, err = ParseScope("Additive")
	require.NoError(t, err)
	assert.Equal(t, ScopeAdditive, s)

	_, err = ParseScope("partial")
	assert.True(t, errors.Is(err, ErrInvalidScope))
}

func TestValidateScope(t *testing.T) {
	assert.NoError(t, ValidateScope(ScopeFull, nil))
	assert.ErrorIs(t, ValidateScope(ScopeAdditive, nil), ErrInvalidScope)
	assert.ErrorIs(t, ValidateScope(ScopeAdditive, &FixtureFilter{}), ErrInvalidScope)
	assert.NoError(t, ValidateScope(ScopeAdditive, &FixtureFilter{IncludeTags: []string{"lamp"}}))
	assert.ErrorIs(t, ValidateScope(Scope("bogus"), nil), ErrInvalidScope)
}

func TestFixtureFilter_Partition(t *testing.T) {
	fixtures := []FixtureInstance{
		{ID: "a", Type: FixtureLEDPar, Tags: []string{"front"}},
		{ID: "b", Type: FixtureMovingHead, Tags: []string{"Lamp"}},
		{ID: "c", Type: FixtureStrobe},
		{ID: "d", Type: FixtureLEDPar, Tags: []string{"lamp"}},
	}

	t.Run("tags are case-insensitive", func(t *testing.T) {
		f := &FixtureFilter{IncludeTags: []string{"lamp"}}
		matched, rest := f.Partition(fixtures)
		assert.Equal(t, []string{"b", "d"}, ids(matched))
		assert.Equal(t, []string{"a", "c"}, ids(rest))
	})

	t.Run("types and tags union", func(t *testing.T) {
		f := &FixtureFilter{IncludeTypes: []FixtureType{FixtureStrobe}, IncludeTags: []string{"front"}}
		matched, _ := f.Partition(fixtures)
		assert.Equal(t, []string{"a", "c"}, ids(matched))
	})

	t.Run("exclusion wins", func(t *testing.T) {
		f := &FixtureFilter{ExcludeTypes: []FixtureType{FixtureLEDPar}, IncludeTags: []string{"lamp"}}
		matched, _ := f.Partition(fixtures)
		assert.Equal(t, []string{"b"}, ids(matched))
	})

	t.Run("nil filter matches all", func(t *testing.T) {
		var f *FixtureFilter
		matched, rest := f.Partition(fixtures)
		assert.Len(t, matched, 4)
		assert.Empty(t, rest)
	})
}

func TestParseEasing(t *testing.T) {
	e, ok := ParseEasing("ease-in-out sine")
	assert.True(t, ok)
	assert.Equal(t, EasingInOutSine, e)

	e, ok = ParseEasing("ease_in_out_sine")
	assert.True(t, ok)
	assert.Equal(t, EasingInOutSine, e)

	e, ok = ParseEasing("s-curve")
	assert.True(t, ok)
	assert.Equal(t, EasingSCurve, e)

	_, ok = ParseEasing("bounce")
	assert.False(t, ok)
}

func TestFixtureTypes(t *testing.T) {
	types := FixtureTypes([]FixtureInstance{
		{Type: FixtureLEDPar}, {Type: FixtureDimmer}, {Type: FixtureLEDPar},
	})
	assert.Equal(t, []FixtureType{FixtureLEDPar, FixtureDimmer}, types)
}

func ids(fixtures []FixtureInstance) []string {
	out := make([]string, len(fixtures))
	for i, f := range fixtures {
		out[i] = f.ID
	}
	return out
}
