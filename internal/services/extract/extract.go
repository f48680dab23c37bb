// Package extract locates and decodes a JSON object in free-form model output.
//
// Model output is treated as an untrusted tagged union: the whole text is a
// JSON object, the object is embedded in prose, or nothing usable exists.
// Extraction never fails; callers branch on Outcome.
package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Outcome describes how a JSON object was obtained from model output.
type Outcome string

const (
	// OutcomeDirect means the whole text parsed as a JSON object.
	OutcomeDirect Outcome = "direct"
	// OutcomeEmbedded means the object was found inside surrounding prose.
	OutcomeEmbedded Outcome = "embedded"
	// OutcomeUnparsed means no JSON object could be recovered.
	OutcomeUnparsed Outcome = "unparsed"
)

// Parse failure reasons.
var (
	ErrNoObject     = errors.New("no JSON object found in model output")
	ErrUnterminated = errors.New("unterminated JSON object in model output")
	ErrMalformed    = errors.New("malformed JSON object in model output")
	ErrNotObject    = errors.New("model output is JSON but not an object")
)

// Result is the outcome of Extract.
type Result struct {
	Outcome Outcome
	JSON    json.RawMessage
	Err     error
}

// Parsed reports whether an object was recovered.
func (r Result) Parsed() bool {
	return r.Outcome != OutcomeUnparsed
}

// Extract finds a single JSON object in text.
//
// The whole text is tried first. Otherwise the text is scanned from the first
// '{', tracking string literals and escapes, to its matching '}'. Only the
// first opening brace is considered.
func Extract(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{Outcome: OutcomeUnparsed, Err: ErrNoObject}
	}

	if json.Valid([]byte(trimmed)) {
		if trimmed[0] == '{' {
			return Result{Outcome: OutcomeDirect, JSON: json.RawMessage(trimmed)}
		}
		if trimmed[0] != '"' {
			return Result{Outcome: OutcomeUnparsed, Err: ErrNotObject}
		}
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return Result{Outcome: OutcomeUnparsed, Err: ErrNoObject}
	}
	end := matchBrace(text, start)
	if end < 0 {
		return Result{Outcome: OutcomeUnparsed, Err: ErrUnterminated}
	}

	candidate := []byte(text[start : end+1])
	if !json.Valid(candidate) {
		return Result{Outcome: OutcomeUnparsed, Err: ErrMalformed}
	}
	return Result{Outcome: OutcomeEmbedded, JSON: json.RawMessage(bytes.Clone(candidate))}
}

// matchBrace returns the index of the '}' closing the '{' at start, or -1.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
