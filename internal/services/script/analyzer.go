// Package script provides a heuristic reader for theatrical scripts and
// screenplays. It segments a script into scenes and extracts mood,
// characters, stage directions and lighting cues for each.
package script

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/bbernstein/lacylights-mcp/internal/lighting"
)

const defaultMood = "neutral"

var (
	actRe        = regexp.MustCompile(`(?i)^ACT\s+([IVXLC]+|\d+)\s*[.:]?\s*$`)
	sceneRe      = regexp.MustCompile(`(?i)^(?:ACT\s+([IVXLC]+|\d+)\s*[,.:\-]?\s*)?SCENE\s+([IVXLC]+|\d+)\b[\s.:,\-]*(.*)$`)
	sluglineRe   = regexp.MustCompile(`^(INT\./EXT|EXT\./INT|INT|EXT|I/E)[.\s]\s*(.+?)(?:\s+[-\x{2013}\x{2014}]+\s+(.+))?$`)
	labelRe      = regexp.MustCompile(`(?i)^(setting|location|place|time)\s*:\s*(.+)$`)
	dialogueRe   = regexp.MustCompile(`^([A-Z][A-Za-z.'\-]*(?:\s[A-Z][A-Za-z.'\-]*){0,2})\s*:\s*\S`)
	parentheticR = regexp.MustCompile(`\(([^)]*)\)|\[([^\]]*)\]`)
	sentenceRe   = regexp.MustCompile(`[^.!?]+[.!?]*`)
	extensionRe  = regexp.MustCompile(`\s*\((?:V\.O\.|O\.S\.|O\.C\.|CONT'D|CONT)\)\s*$`)
)

type sceneBuilder struct {
	number       string
	title        string
	location     *string
	timeOfDay    *string
	fromAct      bool
	lines        []string
	characters   []string
	directions   []string
	lightingCues []string
	narrative    []string
}

// Analyze reads a script and returns its structured analysis. It never fails;
// a script without recognizable headings is treated as a single scene.
func Analyze(text string) lighting.ScriptAnalysis {
	scenes := segment(text)

	analysis := lighting.ScriptAnalysis{
		Scenes:     make([]lighting.ScriptScene, 0, len(scenes)),
		Characters: []string{},
		Settings:   []string{},
		Themes:     []string{},
	}

	seenChar := map[string]bool{}
	seenSetting := map[string]bool{}
	var moods []string

	for _, b := range scenes {
		scene := b.build()
		analysis.Scenes = append(analysis.Scenes, scene)
		moods = append(moods, scene.Mood)

		for _, c := range scene.Characters {
			if !seenChar[c] {
				seenChar[c] = true
				analysis.Characters = append(analysis.Characters, c)
			}
		}
		if scene.Location != nil {
			key := strings.ToLower(*scene.Location)
			if !seenSetting[key] {
				seenSetting[key] = true
				analysis.Settings = append(analysis.Settings, *scene.Location)
			}
		}
	}

	analysis.OverallMood = overallMood(moods)
	analysis.Themes = themes(text)
	return analysis
}

// segment splits the script into scene builders.
func segment(text string) []*sceneBuilder {
	var scenes []*sceneBuilder
	var current *sceneBuilder
	act := ""
	inDialogue := false

	open := func(b *sceneBuilder) {
		if current != nil && current.fromAct && len(current.lines) == 0 {
			scenes = scenes[:len(scenes)-1]
		}
		current = b
		scenes = append(scenes, b)
		inDialogue = false
	}

	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)

		if m := actRe.FindStringSubmatch(line); m != nil {
			act = strings.ToUpper(m[1])
			open(&sceneBuilder{number: act, title: "Act " + act, fromAct: true})
			continue
		}
		if m := sceneRe.FindStringSubmatch(line); m != nil {
			if m[1] != "" {
				act = strings.ToUpper(m[1])
			}
			number := strings.ToUpper(m[2])
			if act != "" {
				number = act + "." + number
			}
			b := &sceneBuilder{number: number, title: strings.TrimSpace(m[3])}
			if b.title == "" {
				b.title = "Scene " + strings.ToUpper(m[2])
			}
			open(b)
			continue
		}
		if m := sluglineRe.FindStringSubmatch(line); m != nil {
			b := &sceneBuilder{number: strconv.Itoa(len(scenes) + 1), title: line}
			loc := strings.TrimSpace(m[2])
			b.location = &loc
			if t := canonicalTime(m[3]); t != "" {
				b.timeOfDay = &t
			}
			open(b)
			continue
		}

		if current == nil {
			if line == "" {
				continue
			}
			open(&sceneBuilder{number: "1"})
		}
		if line == "" {
			inDialogue = false
			continue
		}
		current.lines = append(current.lines, line)
		inDialogue = current.classify(line, inDialogue)
	}

	if current != nil && current.fromAct && len(current.lines) == 0 && len(scenes) > 1 {
		scenes = scenes[:len(scenes)-1]
	}
	for i, s := range scenes {
		if s.number == "" {
			s.number = strconv.Itoa(i + 1)
		}
	}
	return scenes
}

// classify records a non-blank line and returns whether the next line is dialogue.
func (b *sceneBuilder) classify(line string, inDialogue bool) bool {
	if m := labelRe.FindStringSubmatch(line); m != nil {
		value := strings.TrimSpace(m[2])
		switch strings.ToLower(m[1]) {
		case "time":
			if t := canonicalTime(value); t != "" && b.timeOfDay == nil {
				b.timeOfDay = &t
			}
		default:
			if b.location == nil {
				loc := strings.TrimRight(value, ".")
				b.location = &loc
			}
			if t := canonicalTime(value); t != "" && b.timeOfDay == nil {
				b.timeOfDay = &t
			}
		}
		b.narrative = append(b.narrative, value)
		return false
	}

	if isDirection(line) {
		dir := strings.TrimSpace(strings.Trim(line, "()[] "))
		if dir != "" {
			b.directions = append(b.directions, dir)
			b.narrative = append(b.narrative, dir)
		}
		return inDialogue
	}

	if name, ok := characterCue(line); ok {
		b.addCharacter(name)
		return true
	}

	if m := dialogueRe.FindStringSubmatch(line); m != nil && !labelWords[strings.ToUpper(m[1])] {
		b.addCharacter(strings.ToUpper(m[1]))
		b.inlineDirections(line)
		return false
	}

	if inDialogue {
		b.inlineDirections(line)
		return true
	}

	b.narrative = append(b.narrative, line)
	return false
}

func (b *sceneBuilder) inlineDirections(line string) {
	for _, m := range parentheticR.FindAllStringSubmatch(line, -1) {
		dir := strings.TrimSpace(m[1] + m[2])
		if len(strings.Fields(dir)) >= 2 {
			b.directions = append(b.directions, dir)
			b.narrative = append(b.narrative, dir)
		}
	}
}

func (b *sceneBuilder) addCharacter(name string) {
	for _, c := range b.characters {
		if c == name {
			return
		}
	}
	b.characters = append(b.characters, name)
}

func (b *sceneBuilder) build() lighting.ScriptScene {
	scene := lighting.ScriptScene{
		SceneNumber:     b.number,
		Title:           b.title,
		Content:         strings.Join(b.lines, "\n"),
		Mood:            mood(strings.Join(b.lines, " ")),
		Characters:      append([]string{}, b.characters...),
		StageDirections: append([]string{}, b.directions...),
		LightingCues:    lightingCues(b.narrative),
		Location:        b.location,
		TimeOfDay:       b.timeOfDay,
	}
	if scene.TimeOfDay == nil {
		if t := canonicalTime(strings.Join(b.narrative, " ")); t != "" {
			scene.TimeOfDay = &t
		}
	}
	return scene
}

func isDirection(line string) bool {
	return (strings.HasPrefix(line, "(") && strings.HasSuffix(line, ")")) ||
		(strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"))
}

// characterCue recognizes a screenplay-style character line: a short all-caps name.
func characterCue(line string) (string, bool) {
	name := extensionRe.ReplaceAllString(line, "")
	name = strings.TrimRight(strings.TrimSpace(name), ".:")
	if len(name) < 2 || len(name) > 30 || nonCharacterCaps[name] {
		return "", false
	}
	letters := 0
	for _, r := range name {
		switch {
		case unicode.IsUpper(r):
			letters++
		case r == ' ' || r == '.' || r == '\'' || r == '-':
		default:
			return "", false
		}
	}
	if letters < 2 || len(strings.Fields(name)) > 3 {
		return "", false
	}
	return name, true
}

func lightingCues(lines []string) []string {
	cues := []string{}
	seen := map[string]bool{}
	for _, line := range lines {
		for _, sentence := range sentenceRe.FindAllString(line, -1) {
			s := strings.TrimSpace(sentence)
			if s == "" || seen[s] {
				continue
			}
			for _, tok := range tokens(s) {
				if containsWord(lightingWords, tok) {
					seen[s] = true
					cues = append(cues, s)
					break
				}
			}
		}
	}
	return cues
}

func mood(text string) string {
	toks := tokens(text)
	best, bestScore := defaultMood, 0
	for _, entry := range moodLexicon {
		score := 0
		for _, tok := range toks {
			if matchesAny(entry.words, tok) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = entry.mood, score
		}
	}
	return best
}

// overallMood is the most common non-neutral scene mood, earliest on ties.
func overallMood(moods []string) string {
	counts := map[string]int{}
	best, bestCount := defaultMood, 0
	for _, m := range moods {
		if m == defaultMood {
			continue
		}
		counts[m]++
		if counts[m] > bestCount {
			best, bestCount = m, counts[m]
		}
	}
	return best
}

func themes(text string) []string {
	toks := tokens(text)
	type scored struct {
		theme string
		score int
		rank  int
	}
	var found []scored
	for i, entry := range themeLexicon {
		score := 0
		for _, tok := range toks {
			if containsWord(entry.words, tok) {
				score++
			}
		}
		if score >= 2 {
			found = append(found, scored{entry.theme, score, i})
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].score != found[j].score {
			return found[i].score > found[j].score
		}
		return found[i].rank < found[j].rank
	})
	out := make([]string, 0, len(found))
	for _, f := range found {
		out = append(out, f.theme)
	}
	return out
}

func canonicalTime(text string) string {
	toks := tokens(text)
	for _, tw := range timeOfDayWords {
		for _, tok := range toks {
			if tok == tw.word {
				return tw.time
			}
		}
	}
	return ""
}

func tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func containsWord(words []string, tok string) bool {
	for _, w := range words {
		if w == tok {
			return true
		}
	}
	return false
}

// matchesAny matches whole words, or prefixes for stems of four letters or more.
func matchesAny(words []string, tok string) bool {
	for _, w := range words {
		if tok == w || (len(w) >= 4 && strings.HasPrefix(tok, w)) {
			return true
		}
	}
	return false
}
