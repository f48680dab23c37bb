package lighting

// ScriptScene is one segment of an analyzed script.
type ScriptScene struct {
	SceneNumber     string   `json:"sceneNumber"`
	Title           string   `json:"title,omitempty"`
	Content         string   `json:"content"`
	Mood            string   `json:"mood"`
	Characters      []string `json:"characters"`
	StageDirections []string `json:"stageDirections"`
	LightingCues    []string `json:"lightingCues"`
	TimeOfDay       *string  `json:"timeOfDay,omitempty"`
	Location        *string  `json:"location,omitempty"`
}

// ScriptAnalysis is the structured reading of a theatrical script.
type ScriptAnalysis struct {
	Scenes      []ScriptScene `json:"scenes"`
	Characters  []string      `json:"characters"`
	Settings    []string      `json:"settings"`
	OverallMood string        `json:"overallMood"`
	Themes      []string      `json:"themes"`
}
