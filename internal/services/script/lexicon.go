package script

// moodLexicon maps a mood to the words that suggest it. Order breaks ties.
var moodLexicon = []struct {
	mood  string
	words []string
}{
	{"tense", []string{"fear", "afraid", "danger", "threat", "nervous", "tense", "suspicio", "scream", "gun", "knife", "chase", "panic", "trap"}},
	{"dramatic", []string{"rage", "fury", "battle", "war", "thunder", "betray", "confront", "kill", "death", "blood", "storm", "murder"}},
	{"romantic", []string{"love", "kiss", "embrace", "tender", "heart", "darling", "romance", "beloved", "caress"}},
	{"melancholy", []string{"grief", "tears", "cry", "weep", "mourn", "alone", "lonely", "sorrow", "funeral", "loss", "sad", "regret"}},
	{"mysterious", []string{"shadow", "secret", "whisper", "mystery", "ghost", "fog", "mist", "strange", "hidden", "eerie"}},
	{"joyful", []string{"laugh", "joy", "happy", "celebrat", "dance", "smile", "party", "cheer", "wedding", "delight"}},
	{"peaceful", []string{"calm", "quiet", "gentle", "peace", "serene", "still", "garden", "rest", "breeze"}},
}

var themeLexicon = []struct {
	theme string
	words []string
}{
	{"love", []string{"love", "beloved", "heart", "marry", "kiss"}},
	{"death", []string{"death", "dead", "die", "grave", "funeral", "kill"}},
	{"power", []string{"king", "queen", "crown", "throne", "power", "rule", "command"}},
	{"betrayal", []string{"betray", "traitor", "deceive", "lie", "treason"}},
	{"revenge", []string{"revenge", "vengeance", "avenge", "repay"}},
	{"family", []string{"father", "mother", "brother", "sister", "son", "daughter", "family"}},
	{"freedom", []string{"free", "escape", "prison", "chains", "liberty"}},
	{"madness", []string{"mad", "insane", "madness", "lunatic", "dream"}},
	{"war", []string{"war", "battle", "soldier", "army", "sword"}},
	{"nature", []string{"forest", "sea", "river", "mountain", "storm", "garden"}},
}

// lightingWords mark a sentence as a lighting cue.
var lightingWords = []string{
	"light", "lights", "lit", "lamp", "candle", "candlelight", "sunlight", "moonlight", "lantern",
	"glow", "glows", "dark", "darkness", "blackout", "spotlight", "spot", "shadow", "shadows",
	"dim", "dims", "bright", "flash", "flashes", "lightning", "fade", "fades", "sunset",
	"sunrise", "dawn", "dusk", "fire", "torch", "flicker", "flickers",
}

// timeOfDayWords maps words to a canonical time of day.
var timeOfDayWords = []struct {
	word string
	time string
}{
	{"dawn", "dawn"},
	{"sunrise", "dawn"},
	{"daybreak", "dawn"},
	{"morning", "morning"},
	{"noon", "afternoon"},
	{"midday", "afternoon"},
	{"afternoon", "afternoon"},
	{"day", "day"},
	{"dusk", "evening"},
	{"sunset", "evening"},
	{"twilight", "evening"},
	{"evening", "evening"},
	{"night", "night"},
	{"midnight", "night"},
}

// nonCharacterCaps are all-caps lines that are not character names.
var nonCharacterCaps = map[string]bool{
	"CUT TO": true, "FADE IN": true, "FADE OUT": true, "FADE TO BLACK": true,
	"BLACKOUT": true, "LIGHTS UP": true, "LIGHTS DOWN": true, "CURTAIN": true,
	"END": true, "THE END": true, "INTERMISSION": true, "CONTINUED": true,
	"DISSOLVE TO": true, "SMASH CUT TO": true, "END OF ACT": true, "END OF SCENE": true,
}

// labelWords are "Word:" prefixes that are not dialogue.
var labelWords = map[string]bool{
	"SETTING": true, "LOCATION": true, "TIME": true, "NOTE": true, "NOTES": true,
	"LIGHTING": true, "LIGHTS": true, "SOUND": true, "AT RISE": true, "PLACE": true,
}
