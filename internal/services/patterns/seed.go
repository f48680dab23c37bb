package patterns

// SeedVersion is bumped whenever the built-in patterns change.
const SeedVersion = 1

// Intensity bands used by patterns and recommendations.
const (
	BandKey     = "key"
	BandFill    = "fill"
	BandBack    = "back"
	BandAmbient = "ambient"
)

// seedPatterns is the built-in design vocabulary.
var seedPatterns = []Pattern{
	{
		Name:         "Warm Sunrise",
		Description:  "Early morning dawn light rising slowly, warm amber and soft gold, hopeful new beginning",
		Mood:         "hopeful",
		FixtureTypes: []string{"LED_PAR", "DIMMER"},
		Colors:       []string{"amber", "soft gold", "pale pink"},
		Intensities:  map[string]int{BandKey: 60, BandFill: 40, BandBack: 70, BandAmbient: 35},
		FocusAreas:   []string{"upstage cyclorama", "center stage"},
		Reasoning:    "Low-angle warm backlight reads as sunrise; keep fill soft so faces emerge gradually.",
	},
	{
		Name:         "Moonlit Night",
		Description:  "Cool blue night scene with silvery moonlight, quiet and still, romantic or mysterious",
		Mood:         "romantic",
		FixtureTypes: []string{"LED_PAR", "MOVING_HEAD"},
		Colors:       []string{"steel blue", "lavender", "silver white"},
		Intensities:  map[string]int{BandKey: 45, BandFill: 20, BandBack: 55, BandAmbient: 15},
		FocusAreas:   []string{"downstage center", "window or balcony"},
		Reasoning:    "A single cool key from a high side angle sells moonlight; keep ambient low for depth.",
	},
	{
		Name:         "Thunderstorm",
		Description:  "Violent storm with lightning flashes, dark stormy sky, tension and danger",
		Mood:         "tense",
		FixtureTypes: []string{"STROBE", "LED_PAR", "MOVING_HEAD"},
		Colors:       []string{"deep blue", "cold white", "desaturated purple"},
		Intensities:  map[string]int{BandKey: 35, BandFill: 10, BandBack: 40, BandAmbient: 10},
		FocusAreas:   []string{"full stage", "upstage sky"},
		Reasoning:    "Strobes provide lightning against a dim cold wash; contrast is what reads as danger.",
	},
	{
		Name:         "Candlelit Interior",
		Description:  "Intimate candle light in a small room at night, flickering warm glow, close and tender",
		Mood:         "romantic",
		FixtureTypes: []string{"DIMMER", "LED_PAR"},
		Colors:       []string{"candle orange", "warm amber", "deep red"},
		Intensities:  map[string]int{BandKey: 50, BandFill: 25, BandBack: 20, BandAmbient: 20},
		FocusAreas:   []string{"table or practical", "actor faces"},
		Reasoning:    "Tight pools of warm light around practicals; let the edges fall off into shadow.",
	},
	{
		Name:         "Haunted Fog",
		Description:  "Eerie ghostly scene with fog and shadows, strange green tint, mysterious secret",
		Mood:         "mysterious",
		FixtureTypes: []string{"MOVING_HEAD", "LED_PAR"},
		Colors:       []string{"sickly green", "cold cyan", "deep violet"},
		Intensities:  map[string]int{BandKey: 30, BandFill: 10, BandBack: 60, BandAmbient: 10},
		FocusAreas:   []string{"upstage haze", "entrances"},
		Reasoning:    "Strong backlight through haze and low fill creates silhouettes and unease.",
	},
	{
		Name:         "Celebration",
		Description:  "Joyful party or wedding, bright saturated colors, dancing and laughter, festive energy",
		Mood:         "joyful",
		FixtureTypes: []string{"LED_PAR", "MOVING_HEAD", "STROBE"},
		Colors:       []string{"magenta", "gold", "cyan", "warm white"},
		Intensities:  map[string]int{BandKey: 85, BandFill: 70, BandBack: 75, BandAmbient: 60},
		FocusAreas:   []string{"full stage", "dance floor"},
		Reasoning:    "High overall intensity with saturated accents; movers can sweep for energy.",
	},
	{
		Name:         "Grief and Loss",
		Description:  "Melancholy funeral or mourning scene, sorrow and tears, lonely isolated figure",
		Mood:         "melancholy",
		FixtureTypes: []string{"DIMMER", "LED_PAR"},
		Colors:       []string{"pale blue", "grey", "cool lavender"},
		Intensities:  map[string]int{BandKey: 40, BandFill: 15, BandBack: 30, BandAmbient: 15},
		FocusAreas:   []string{"isolated special", "downstage left"},
		Reasoning:    "Isolate the figure in a narrow special; desaturated cool tones read as sorrow.",
	},
	{
		Name:         "Battle Fury",
		Description:  "Dramatic battle or confrontation, rage and blood, red fire and smoke, war",
		Mood:         "dramatic",
		FixtureTypes: []string{"MOVING_HEAD", "STROBE", "LED_PAR"},
		Colors:       []string{"blood red", "fire orange", "harsh white"},
		Intensities:  map[string]int{BandKey: 90, BandFill: 30, BandBack: 80, BandAmbient: 25},
		FocusAreas:   []string{"center stage", "diagonal cross"},
		Reasoning:    "Hard side light in reds with aggressive movement; keep fill low for hard shadows.",
	},
	{
		Name:         "Peaceful Garden",
		Description:  "Calm sunny afternoon garden, gentle breeze, serene natural daylight, rest",
		Mood:         "peaceful",
		FixtureTypes: []string{"LED_PAR", "DIMMER"},
		Colors:       []string{"daylight white", "leaf green", "soft yellow"},
		Intensities:  map[string]int{BandKey: 70, BandFill: 55, BandBack: 50, BandAmbient: 50},
		FocusAreas:   []string{"full stage", "garden bench"},
		Reasoning:    "Even, bright, slightly warm daylight with a green break-up texture for foliage.",
	},
	{
		Name:         "Noir Interrogation",
		Description:  "Tense interrogation under a single harsh overhead lamp, hard shadows, suspicion",
		Mood:         "tense",
		FixtureTypes: []string{"DIMMER", "MOVING_HEAD"},
		Colors:       []string{"no color", "cold white"},
		Intensities:  map[string]int{BandKey: 80, BandFill: 5, BandBack: 15, BandAmbient: 5},
		FocusAreas:   []string{"table", "center special"},
		Reasoning:    "One steep top light and almost no fill creates the classic noir pressure.",
	},
	{
		Name:         "Evening Dusk",
		Description:  "Sunset fading into evening twilight, orange to deep blue sky, reflective transition",
		Mood:         "melancholy",
		FixtureTypes: []string{"LED_PAR"},
		Colors:       []string{"sunset orange", "rose", "twilight blue"},
		Intensities:  map[string]int{BandKey: 50, BandFill: 30, BandBack: 60, BandAmbient: 30},
		FocusAreas:   []string{"cyclorama", "upstage horizon"},
		Reasoning:    "Split the cyc warm-low and blue-high; fade the warm side over the scene.",
	},
	{
		Name:         "Concert Energy",
		Description:  "Rock concert energy with sweeping beams, flashing strobes, saturated color chases",
		Mood:         "joyful",
		FixtureTypes: []string{"MOVING_HEAD", "STROBE", "LED_PAR"},
		Colors:       []string{"red", "blue", "white", "amber"},
		Intensities:  map[string]int{BandKey: 95, BandFill: 60, BandBack: 90, BandAmbient: 40},
		FocusAreas:   []string{"performers", "audience sweep"},
		Reasoning:    "Beams and strobes carry the rhythm; keep the key on performers bright.",
	},
}

// SeedPatterns returns a copy of the built-in patterns.
func SeedPatterns() []Pattern {
	out := make([]Pattern, len(seedPatterns))
	copy(out, seedPatterns)
	return out
}
