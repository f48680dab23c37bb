package ai

import (
	"context"
	"strings"

	"github.com/bbernstein/lacylights-mcp/internal/lighting"
	"github.com/bbernstein/lacylights-mcp/internal/services/rag"
	"github.com/bbernstein/lacylights-mcp/internal/services/script"
)

// ScriptRequest asks for a script analysis.
type ScriptRequest struct {
	Text                string
	WithRecommendations bool
	FixtureTypes        []lighting.FixtureType
}

// SceneRecommendation pairs a scene with retrieved design guidance.
type SceneRecommendation struct {
	SceneNumber     string                        `json:"sceneNumber"`
	Title           string                        `json:"title"`
	Recommendations lighting.RecommendationBundle `json:"recommendations"`
}

// ScriptResult is a script analysis with optional per-scene guidance.
type ScriptResult struct {
	Analysis        lighting.ScriptAnalysis `json:"analysis"`
	Recommendations []SceneRecommendation   `json:"recommendations,omitempty"`
}

// AnalyzeScript segments a script into scenes and optionally retrieves
// recommendations for each. It does not call the language model.
func (s *Service) AnalyzeScript(ctx context.Context, req ScriptRequest) *ScriptResult {
	result := &ScriptResult{Analysis: script.Analyze(req.Text)}
	if !req.WithRecommendations {
		return result
	}

	for _, sc := range result.Analysis.Scenes {
		result.Recommendations = append(result.Recommendations, SceneRecommendation{
			SceneNumber: sc.SceneNumber,
			Title:       sc.Title,
			Recommendations: s.retriever.Recommend(ctx, rag.Request{
				Description:  sceneQuery(sc),
				Mood:         sc.Mood,
				FixtureTypes: req.FixtureTypes,
			}),
		})
	}
	return result
}

// sceneQuery is the retrieval text for a scene: its title, setting and
// lighting cues.
func sceneQuery(sc lighting.ScriptScene) string {
	parts := []string{sc.Title}
	if sc.Location != nil {
		parts = append(parts, *sc.Location)
	}
	if sc.TimeOfDay != nil {
		parts = append(parts, *sc.TimeOfDay)
	}
	parts = append(parts, sc.LightingCues...)
	return strings.TrimSpace(strings.Join(parts, " "))
}
