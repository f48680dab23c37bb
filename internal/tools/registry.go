// Package tools exposes the generation pipeline as named operations with
// declared input schemas, over HTTP and WebSocket.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bbernstein/lacylights-mcp/internal/lighting"
	"github.com/bbernstein/lacylights-mcp/internal/logger"
	"github.com/bbernstein/lacylights-mcp/internal/services/ai"
	"github.com/bbernstein/lacylights-mcp/internal/services/pubsub"
)

var (
	// ErrInvalidInput is returned when arguments fail to decode or validate.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownTool is returned for a tool name that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
)

// Pipeline is the set of entry points the tools dispatch to.
type Pipeline interface {
	GenerateLook(ctx context.Context, req ai.LookRequest) (*ai.LookResult, error)
	AnalyzeScript(ctx context.Context, req ai.ScriptRequest) *ai.ScriptResult
	GenerateCueSequence(ctx context.Context, req ai.CueSequenceRequest) (*ai.CueSequenceResult, error)
	OptimizeLook(ctx context.Context, req ai.OptimizeRequest) (*ai.OptimizeResult, error)
	SuggestFixtureUsage(ctx context.Context, req ai.UsageRequest) (*ai.UsageResult, error)
}

// Handler runs a tool with raw JSON arguments.
type Handler func(ctx context.Context, args json.RawMessage) (interface{}, error)

// Tool is a named operation with a declared input schema.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema Schema `json:"inputSchema"`

	handler Handler
}

// Registry holds the tools in declaration order.
type Registry struct {
	pipeline Pipeline
	events   *pubsub.PubSub
	validate *validator.Validate
	log      *logger.Logger

	tools map[string]*Tool
	order []string
}

// NewRegistry creates a registry with every pipeline tool registered.
// events may be nil.
func NewRegistry(p Pipeline, events *pubsub.PubSub, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	r := &Registry{
		pipeline: p,
		events:   events,
		validate: newValidator(),
		log:      log,
		tools:    make(map[string]*Tool),
	}

	r.register(Tool{
		Name:        ai.OpGenerateLook,
		Description: "Generate a look for the project's fixtures from a description, with optional script context, design preferences and fixture filter. Additive scope only sets the filtered fixtures.",
		InputSchema: lookSchema,
		handler:     r.generateLook,
	})
	r.register(Tool{
		Name:        ai.OpAnalyzeScript,
		Description: "Split a script into scenes and extract moods, characters, settings and lighting cues.",
		InputSchema: scriptSchema,
		handler:     r.analyzeScript,
	})
	r.register(Tool{
		Name:        ai.OpGenerateCueSequence,
		Description: "Order existing looks into a timed cue sequence, optionally following a script.",
		InputSchema: cueSequenceSchema,
		handler:     r.generateCueSequence,
	})
	r.register(Tool{
		Name:        ai.OpOptimizeLook,
		Description: "Refine an existing look's channel values toward optimization goals.",
		InputSchema: optimizeSchema,
		handler:     r.optimizeLook,
	})
	r.register(Tool{
		Name:        ai.OpSuggestFixtureUsage,
		Description: "Group the project's fixtures by type and suggest a design role for each group.",
		InputSchema: usageSchema,
		handler:     r.suggestFixtureUsage,
	})
	return r
}

func (r *Registry) register(t Tool) {
	r.tools[t.Name] = &t
	r.order = append(r.order, t.Name)
}

// Tools returns the registered tools in declaration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.tools[name])
	}
	return out
}

// Call runs the named tool.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	r.log.Debug("🔧 Tool call", logger.Fields{"tool": name})
	return t.handler(ctx, args)
}

func (r *Registry) generateLook(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in LookInput
	if err := r.decode(args, &in); err != nil {
		return nil, err
	}
	scope, err := lighting.ParseScope(in.Scope)
	if err != nil {
		return nil, err
	}

	res, err := r.pipeline.GenerateLook(ctx, ai.LookRequest{
		ProjectID:     in.ProjectID,
		Description:   in.Description,
		ScriptContext: in.ScriptContext,
		Preferences:   in.Preferences,
		Filter:        in.Filter.toFilter(),
		Scope:         scope,
		BaseLookID:    in.BaseLookID,
		Persist:       boolOr(in.Persist, true),
	})
	if err != nil {
		return nil, err
	}
	r.publish(pubsub.TopicLookGenerated, in.ProjectID, res)
	return res, nil
}

func (r *Registry) analyzeScript(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in ScriptInput
	if err := r.decode(args, &in); err != nil {
		return nil, err
	}
	res := r.pipeline.AnalyzeScript(ctx, ai.ScriptRequest{
		Text:                in.ScriptText,
		WithRecommendations: in.SuggestLookDescriptions,
		FixtureTypes:        fixtureTypes(in.FixtureTypes),
	})
	r.publish(pubsub.TopicScriptAnalyzed, "", res)
	return res, nil
}

func (r *Registry) generateCueSequence(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in CueSequenceInput
	if err := r.decode(args, &in); err != nil {
		return nil, err
	}
	res, err := r.pipeline.GenerateCueSequence(ctx, ai.CueSequenceRequest{
		ProjectID:   in.ProjectID,
		Name:        in.Name,
		Description: in.Description,
		LookIDs:     in.LookIDs,
		Script:      in.ScriptText,
		Transitions: in.Transitions,
		Persist:     boolOr(in.Persist, true),
	})
	if err != nil {
		return nil, err
	}
	r.publish(pubsub.TopicCueSequenceGenerated, in.ProjectID, res)
	return res, nil
}

func (r *Registry) optimizeLook(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in OptimizeInput
	if err := r.decode(args, &in); err != nil {
		return nil, err
	}
	res, err := r.pipeline.OptimizeLook(ctx, ai.OptimizeRequest{
		ProjectID: in.ProjectID,
		LookID:    in.LookID,
		Goals:     in.Goals,
		Persist:   in.Persist,
	})
	if err != nil {
		return nil, err
	}
	r.publish(pubsub.TopicLookOptimized, in.ProjectID, res)
	return res, nil
}

func (r *Registry) suggestFixtureUsage(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in UsageInput
	if err := r.decode(args, &in); err != nil {
		return nil, err
	}
	res, err := r.pipeline.SuggestFixtureUsage(ctx, ai.UsageRequest{
		ProjectID:   in.ProjectID,
		Description: in.Description,
		Mood:        in.Mood,
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Registry) publish(topic pubsub.Topic, projectID string, payload interface{}) {
	if r.events == nil {
		return
	}
	r.events.Publish(topic, projectID, payload)
}

// decode unmarshals args into v and validates it. Missing arguments decode
// as an empty object so required fields are reported by name.
func (r *Registry) decode(args json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(args)) == 0 || bytes.Equal(bytes.TrimSpace(args), []byte("null")) {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := r.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", ErrInvalidInput, describe(verrs))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func describe(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s long", field, fe.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
