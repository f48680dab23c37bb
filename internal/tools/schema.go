package tools

// Schema is a JSON Schema object describing a tool's arguments.
type Schema map[string]interface{}

var fixtureTypeEnum = []string{"LED_PAR", "MOVING_HEAD", "STROBE", "DIMMER", "OTHER"}

var goalEnum = []string{
	"energy_efficiency",
	"color_accuracy",
	"dramatic_impact",
	"technical_simplicity",
	"smooth_transitions",
}

func object(props Schema, required ...string) Schema {
	s := Schema{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func str(desc string) Schema {
	return Schema{"type": "string", "description": desc}
}

func strArray(desc string) Schema {
	return Schema{"type": "array", "items": Schema{"type": "string"}, "description": desc}
}

func enumArray(desc string, values []string) Schema {
	return Schema{"type": "array", "items": Schema{"type": "string", "enum": values}, "description": desc}
}

var lookSchema = object(Schema{
	"projectId":     str("Project to generate the look for"),
	"description":   Schema{"type": "string", "maxLength": 2000, "description": "What the look should convey"},
	"scriptContext": str("Script excerpt giving dramatic context"),
	"designPreferences": object(Schema{
		"colorPalette": strArray("Preferred colors"),
		"mood":         str("Mood of the look"),
		"intensity":    Schema{"type": "string", "enum": []string{"subtle", "moderate", "dramatic"}},
		"focusAreas":   strArray("Stage areas to emphasize"),
	}),
	"fixtureFilter": object(Schema{
		"includeTypes": enumArray("Only these fixture types", fixtureTypeEnum),
		"excludeTypes": enumArray("Never these fixture types", fixtureTypeEnum),
		"includeTags":  strArray("Fixtures carrying any of these tags"),
	}),
	"scope": Schema{
		"type":        "string",
		"enum":        []string{"full", "additive"},
		"default":     "full",
		"description": "full sets every fixture; additive only the filtered fixtures and requires fixtureFilter",
	},
	"baseLookId": str("Existing look to merge an additive result into"),
	"persist":    Schema{"type": "boolean", "default": true, "description": "Save the look to the project"},
}, "projectId", "description")

var scriptSchema = object(Schema{
	"scriptText":              str("Full script text"),
	"suggestLookDescriptions": Schema{"type": "boolean", "default": false, "description": "Attach design recommendations to each scene"},
	"fixtureTypes":            enumArray("Fixture types available for recommendations", fixtureTypeEnum),
}, "scriptText")

var cueSequenceSchema = object(Schema{
	"projectId":   str("Project holding the looks"),
	"name":        Schema{"type": "string", "maxLength": 200, "description": "Cue list name"},
	"description": str("What the sequence is for"),
	"lookIds":     strArray("Looks to use, in order; all project looks when omitted"),
	"scriptText":  str("Script the sequence follows"),
	"transitionPreferences": object(Schema{
		"defaultFadeIn":  Schema{"type": "number", "minimum": 0, "default": 3},
		"defaultFadeOut": Schema{"type": "number", "minimum": 0, "default": 3},
		"followCues":     Schema{"type": "boolean", "default": false},
		"autoAdvance":    Schema{"type": "boolean", "default": false},
	}),
	"persist": Schema{"type": "boolean", "default": true, "description": "Save the cue list to the project"},
}, "projectId")

var optimizeSchema = object(Schema{
	"projectId":         str("Project holding the look"),
	"lookId":            str("Look to optimize"),
	"optimizationGoals": enumArray("Goals, dramatic_impact when omitted", goalEnum),
	"persist":           Schema{"type": "boolean", "default": false, "description": "Save the optimized values over the look"},
}, "projectId", "lookId")

var usageSchema = object(Schema{
	"projectId":   str("Project whose fixtures are analyzed"),
	"description": str("Production or scene the fixtures will serve"),
	"mood":        str("Overall mood"),
}, "projectId")
