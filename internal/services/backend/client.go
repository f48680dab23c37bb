// Package backend is a GraphQL client for the LacyLights lighting-control service.
// Fixture inventory and looks are read from it; generated looks and cues are
// persisted through it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/bbernstein/lacylights-mcp/internal/lighting"
)

// ErrBackend matches every error returned by Client.
var ErrBackend = errors.New("lighting backend request failed")

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Error describes a failed backend operation.
type Error struct {
	Operation  string
	StatusCode int
	Errors     gqlerror.List
	Err        error
}

func (e *Error) Error() string {
	switch {
	case len(e.Errors) > 0:
		return fmt.Sprintf("%s: %s: %s", ErrBackend, e.Operation, e.Errors.Error())
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: %s: status %d: %v", ErrBackend, e.Operation, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", ErrBackend, e.Operation, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrBackend, e.Operation)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrBackend}
	}
	return []error{ErrBackend, e.Err}
}

// Backend is the set of lighting-control operations the pipeline uses.
type Backend interface {
	ProjectFixtures(ctx context.Context, projectID string) ([]lighting.FixtureInstance, error)
	ProjectLooks(ctx context.Context, projectID string) ([]lighting.Look, error)
	Look(ctx context.Context, lookID string) (*lighting.Look, error)
	CreateLook(ctx context.Context, projectID string, look lighting.GeneratedLook) (string, error)
	UpdateLook(ctx context.Context, lookID string, look lighting.GeneratedLook) error
	CreateCueList(ctx context.Context, projectID, name, description string) (string, error)
	CreateCue(ctx context.Context, cueListID string, cue lighting.GeneratedCue) (string, error)
}

// Client talks GraphQL over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a Client for the given GraphQL endpoint. A nil httpClient
// uses a client without its own timeout; request contexts bound each call.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors gqlerror.List   `json:"errors"`
}

// do posts one operation and decodes its data into out.
func (c *Client) do(ctx context.Context, doc document, vars map[string]any, out any) error {
	body, err := json.Marshal(graphql.RawParams{
		Query:         doc.query,
		OperationName: doc.name,
		Variables:     vars,
	})
	if err != nil {
		return &Error{Operation: doc.name, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &Error{Operation: doc.name, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Operation: doc.name, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Operation: doc.name, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var parsed response
	decodeErr := json.Unmarshal(data, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && len(parsed.Errors) > 0 {
			return &Error{Operation: doc.name, StatusCode: resp.StatusCode, Errors: parsed.Errors}
		}
		return &Error{Operation: doc.name, StatusCode: resp.StatusCode, Err: errors.New(strings.TrimSpace(string(data)))}
	}
	if decodeErr != nil {
		return &Error{Operation: doc.name, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", decodeErr)}
	}
	if len(parsed.Errors) > 0 {
		return &Error{Operation: doc.name, StatusCode: resp.StatusCode, Errors: parsed.Errors}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(parsed.Data, out); err != nil {
		return &Error{Operation: doc.name, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode data: %w", err)}
	}
	return nil
}

// ProjectFixtures returns the project's fixture inventory in backend order.
func (c *Client) ProjectFixtures(ctx context.Context, projectID string) ([]lighting.FixtureInstance, error) {
	var data struct {
		Project *struct {
			Fixtures []wireFixture `json:"fixtures"`
		} `json:"project"`
	}
	if err := c.do(ctx, projectFixturesQuery, map[string]any{"projectId": projectID}, &data); err != nil {
		return nil, err
	}
	if data.Project == nil {
		return nil, &Error{Operation: projectFixturesQuery.name, Err: fmt.Errorf("project %s: %w", projectID, ErrNotFound)}
	}
	fixtures := make([]lighting.FixtureInstance, len(data.Project.Fixtures))
	for i, f := range data.Project.Fixtures {
		fixtures[i] = f.toFixture()
	}
	return fixtures, nil
}

// ProjectLooks returns the project's looks without their values.
func (c *Client) ProjectLooks(ctx context.Context, projectID string) ([]lighting.Look, error) {
	var data struct {
		Project *struct {
			Scenes []wireLook `json:"scenes"`
		} `json:"project"`
	}
	if err := c.do(ctx, projectLooksQuery, map[string]any{"projectId": projectID}, &data); err != nil {
		return nil, err
	}
	if data.Project == nil {
		return nil, &Error{Operation: projectLooksQuery.name, Err: fmt.Errorf("project %s: %w", projectID, ErrNotFound)}
	}
	looks := make([]lighting.Look, len(data.Project.Scenes))
	for i, s := range data.Project.Scenes {
		looks[i] = s.toLook()
	}
	return looks, nil
}

// Look returns one look with its sparse fixture values.
func (c *Client) Look(ctx context.Context, lookID string) (*lighting.Look, error) {
	var data struct {
		Scene *wireLook `json:"scene"`
	}
	if err := c.do(ctx, lookQuery, map[string]any{"id": lookID}, &data); err != nil {
		return nil, err
	}
	if data.Scene == nil {
		return nil, &Error{Operation: lookQuery.name, Err: fmt.Errorf("look %s: %w", lookID, ErrNotFound)}
	}
	look := data.Scene.toLook()
	return &look, nil
}

// CreateLook persists a generated look and returns its id.
func (c *Client) CreateLook(ctx context.Context, projectID string, look lighting.GeneratedLook) (string, error) {
	input := map[string]any{
		"projectId":     projectID,
		"name":          look.Name,
		"description":   look.Description,
		"fixtureValues": fixtureValuesInput(look.FixtureValues),
	}
	var data struct {
		CreateScene struct {
			ID string `json:"id"`
		} `json:"createScene"`
	}
	if err := c.do(ctx, createLookMutation, map[string]any{"input": input}, &data); err != nil {
		return "", err
	}
	return data.CreateScene.ID, nil
}

// UpdateLook replaces a look's name, description and fixture values.
func (c *Client) UpdateLook(ctx context.Context, lookID string, look lighting.GeneratedLook) error {
	input := map[string]any{
		"name":          look.Name,
		"description":   look.Description,
		"fixtureValues": fixtureValuesInput(look.FixtureValues),
	}
	return c.do(ctx, updateLookMutation, map[string]any{"id": lookID, "input": input}, nil)
}

// CreateCueList creates an empty cue list and returns its id.
func (c *Client) CreateCueList(ctx context.Context, projectID, name, description string) (string, error) {
	input := map[string]any{
		"projectId":   projectID,
		"name":        name,
		"description": description,
	}
	var data struct {
		CreateCueList struct {
			ID string `json:"id"`
		} `json:"createCueList"`
	}
	if err := c.do(ctx, createCueListMutation, map[string]any{"input": input}, &data); err != nil {
		return "", err
	}
	return data.CreateCueList.ID, nil
}

// CreateCue appends a cue to a cue list and returns its id.
func (c *Client) CreateCue(ctx context.Context, cueListID string, cue lighting.GeneratedCue) (string, error) {
	input := map[string]any{
		"cueListId":   cueListID,
		"name":        cue.Name,
		"cueNumber":   cue.CueNumber,
		"sceneId":     cue.LookID,
		"fadeInTime":  cue.FadeInTime,
		"fadeOutTime": cue.FadeOutTime,
	}
	if cue.FollowTime != nil {
		input["followTime"] = *cue.FollowTime
	}
	if cue.EasingType != nil {
		input["easingType"] = *cue.EasingType
	}
	if cue.Notes != nil {
		input["notes"] = *cue.Notes
	}
	var data struct {
		CreateCue struct {
			ID string `json:"id"`
		} `json:"createCue"`
	}
	if err := c.do(ctx, createCueMutation, map[string]any{"input": input}, &data); err != nil {
		return "", err
	}
	return data.CreateCue.ID, nil
}

var _ Backend = (*Client)(nil)
