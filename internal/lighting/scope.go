package lighting

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors surfaced by the pipeline.
var (
	// ErrInvalidScope is returned when a request's scope cannot be honored,
	// e.g. additive generation without a fixture filter.
	ErrInvalidScope = errors.New("invalid scope")
	// ErrGenerationFailed wraps transport or service failures of the model call.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrNoFixtures is returned when the filter selects no fixtures.
	ErrNoFixtures = errors.New("no fixtures match the request")
	// ErrNoLooks is returned when a cue sequence has no looks to reference.
	ErrNoLooks = errors.New("no looks available")
)

// Scope selects whether a look replaces the whole stage or only adds to it.
type Scope string

const (
	ScopeFull     Scope = "full"
	ScopeAdditive Scope = "additive"
)

// ParseScope parses a scope name. The empty string means full.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeFull:
		return ScopeFull, nil
	case ScopeAdditive:
		return ScopeAdditive, nil
	}
	return "", fmt.Errorf("%w: unknown scope %q", ErrInvalidScope, s)
}

// FixtureFilter selects a subset of the inventory.
type FixtureFilter struct {
	IncludeTypes []FixtureType `json:"includeTypes,omitempty"`
	ExcludeTypes []FixtureType `json:"excludeTypes,omitempty"`
	IncludeTags  []string      `json:"includeTags,omitempty"`
}

// IsEmpty reports whether the filter has no criteria at all.
func (f *FixtureFilter) IsEmpty() bool {
	return f == nil || (len(f.IncludeTypes) == 0 && len(f.ExcludeTypes) == 0 && len(f.IncludeTags) == 0)
}

// Matches reports whether a fixture is selected by the filter.
// Include criteria are a union; exclusions win over inclusions.
func (f *FixtureFilter) Matches(fx FixtureInstance) bool {
	if f == nil {
		return true
	}
	for _, t := range f.ExcludeTypes {
		if strings.EqualFold(string(t), string(fx.Type)) {
			return false
		}
	}
	if len(f.IncludeTypes) == 0 && len(f.IncludeTags) == 0 {
		return true
	}
	for _, t := range f.IncludeTypes {
		if strings.EqualFold(string(t), string(fx.Type)) {
			return true
		}
	}
	for _, tag := range f.IncludeTags {
		if fx.HasTag(tag) {
			return true
		}
	}
	return false
}

// Partition splits fixtures into those matched by the filter and the rest,
// preserving inventory order.
func (f *FixtureFilter) Partition(fixtures []FixtureInstance) (matched, rest []FixtureInstance) {
	for _, fx := range fixtures {
		if f.Matches(fx) {
			matched = append(matched, fx)
		} else {
			rest = append(rest, fx)
		}
	}
	return matched, rest
}

// ValidateScope checks that a scope and filter combination can be honored.
func ValidateScope(scope Scope, filter *FixtureFilter) error {
	switch scope {
	case ScopeFull:
		return nil
	case ScopeAdditive:
		if filter.IsEmpty() {
			return fmt.Errorf("%w: additive scope requires a fixture filter", ErrInvalidScope)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown scope %q", ErrInvalidScope, scope)
}

// FixtureTypes returns the distinct fixture types in inventory order.
func FixtureTypes(fixtures []FixtureInstance) []FixtureType {
	seen := make(map[FixtureType]bool)
	var types []FixtureType
	for _, fx := range fixtures {
		if !seen[fx.Type] {
			seen[fx.Type] = true
			types = append(types, fx.Type)
		}
	}
	return types
}
