// Package rag retrieves advisory design recommendations from prior lighting
// patterns. Retrieval failures never propagate: the caller always receives a
// bundle, possibly empty, with reasoning that explains the fallback.
package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/bbernstein/lacylights-mcp/internal/lighting"
	"github.com/bbernstein/lacylights-mcp/internal/logger"
	"github.com/bbernstein/lacylights-mcp/internal/services/patterns"
)

const (
	maxColors     = 6
	maxFocusAreas = 5
	defaultTopK   = 3
)

// Fallback reasoning strings.
const (
	ReasonNoStore   = "No design pattern store is available; recommendations are based on the description alone."
	ReasonNoMatches = "No similar design patterns were found; recommendations are based on the description alone."
)

// Searcher is the pattern similarity query the retriever depends on.
type Searcher interface {
	Query(ctx context.Context, text string, k int) ([]patterns.Match, error)
}

// Request describes what to retrieve recommendations for.
type Request struct {
	Description  string
	Mood         string
	FixtureTypes []lighting.FixtureType
}

// Retriever turns descriptions into recommendation bundles.
type Retriever struct {
	store Searcher
	topK  int
	log   *logger.Logger
}

// NewRetriever creates a Retriever. A nil store is allowed and yields
// fallback bundles.
func NewRetriever(store Searcher, topK int, log *logger.Logger) *Retriever {
	if topK <= 0 {
		topK = defaultTopK
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Retriever{store: store, topK: topK, log: log}
}

// Recommend returns a bundle for the request. It never fails.
func (r *Retriever) Recommend(ctx context.Context, req Request) lighting.RecommendationBundle {
	if r == nil || r.store == nil {
		return emptyBundle(ReasonNoStore)
	}

	query := strings.TrimSpace(req.Description)
	if req.Mood != "" {
		query = strings.TrimSpace(query + " " + req.Mood)
	}
	if query == "" {
		return emptyBundle(ReasonNoMatches)
	}

	matches, err := r.store.Query(ctx, query, r.topK*2)
	if err != nil {
		r.log.Warn("⚠️  Pattern retrieval failed, continuing without recommendations", logger.Fields{"error": err.Error()})
		return emptyBundle(ReasonNoStore)
	}

	matches = filterByFixtureTypes(matches, req.FixtureTypes)
	if len(matches) > r.topK {
		matches = matches[:r.topK]
	}
	if len(matches) == 0 {
		return emptyBundle(ReasonNoMatches)
	}
	return aggregate(matches)
}

func emptyBundle(reason string) lighting.RecommendationBundle {
	return lighting.RecommendationBundle{
		ColorSuggestions: []string{},
		IntensityLevels:  map[string]int{},
		FocusAreas:       []string{},
		Reasoning:        reason,
	}
}

// filterByFixtureTypes drops patterns that declare fixture types disjoint from
// the requested ones. Either list being empty keeps everything.
func filterByFixtureTypes(matches []patterns.Match, types []lighting.FixtureType) []patterns.Match {
	if len(types) == 0 {
		return matches
	}
	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[strings.ToUpper(string(t))] = true
	}
	out := make([]patterns.Match, 0, len(matches))
	for _, m := range matches {
		if len(m.Pattern.FixtureTypes) == 0 {
			out = append(out, m)
			continue
		}
		for _, t := range m.Pattern.FixtureTypes {
			if want[strings.ToUpper(t)] {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

func aggregate(matches []patterns.Match) lighting.RecommendationBundle {
	bundle := emptyBundle("")

	seenColor := map[string]bool{}
	seenFocus := map[string]bool{}
	weighted := map[string]float64{}
	weights := map[string]float64{}
	names := make([]string, 0, len(matches))

	for _, m := range matches {
		names = append(names, fmt.Sprintf("%s (%s, %.0f%% match)", m.Pattern.Name, m.Pattern.Mood, m.Score*100))

		for _, c := range m.Pattern.Colors {
			key := strings.ToLower(c)
			if !seenColor[key] && len(bundle.ColorSuggestions) < maxColors {
				seenColor[key] = true
				bundle.ColorSuggestions = append(bundle.ColorSuggestions, c)
			}
		}
		for _, f := range m.Pattern.FocusAreas {
			key := strings.ToLower(f)
			if !seenFocus[key] && len(bundle.FocusAreas) < maxFocusAreas {
				seenFocus[key] = true
				bundle.FocusAreas = append(bundle.FocusAreas, f)
			}
		}
		for band, level := range m.Pattern.Intensities {
			weighted[band] += float64(level) * m.Score
			weights[band] += m.Score
		}
	}

	bands := make([]string, 0, len(weighted))
	for band := range weighted {
		bands = append(bands, band)
	}
	sort.Strings(bands)
	for _, band := range bands {
		if weights[band] <= 0 {
			continue
		}
		level := int(math.Round(weighted[band] / weights[band]))
		bundle.IntensityLevels[band] = lighting.Clamp(level, 0, 100)
	}

	var reasoning strings.Builder
	reasoning.WriteString("Based on similar designs: ")
	reasoning.WriteString(strings.Join(names, "; "))
	reasoning.WriteString(".")
	if top := matches[0].Pattern.Reasoning; top != "" {
		reasoning.WriteString(" ")
		reasoning.WriteString(top)
	}
	bundle.Reasoning = reasoning.String()
	return bundle
}
