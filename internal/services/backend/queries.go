package backend

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// document is a parsed GraphQL operation.
type document struct {
	name  string
	query string
}

// mustParse parses a single named operation and panics on syntax errors.
func mustParse(query string) document {
	doc, err := parser.ParseQuery(&ast.Source{Name: "backend", Input: query})
	if err != nil {
		panic(fmt.Sprintf("backend: invalid GraphQL document: %v", err))
	}
	if len(doc.Operations) != 1 || doc.Operations[0].Name == "" {
		panic("backend: GraphQL document must contain exactly one named operation")
	}
	return document{name: doc.Operations[0].Name, query: query}
}

const fixtureFields = `
	id
	name
	manufacturer
	model
	type
	modeName
	universe
	startChannel
	tags
	channels { offset name type minValue maxValue defaultValue }
`

var (
	projectFixturesQuery = mustParse(`query ProjectFixtures($projectId: ID!) {
	project(id: $projectId) {
		id
		fixtures {` + fixtureFields + `}
	}
}`)

	projectLooksQuery = mustParse(`query ProjectLooks($projectId: ID!) {
	project(id: $projectId) {
		id
		scenes { id name description }
	}
}`)

	lookQuery = mustParse(`query Look($id: ID!) {
	scene(id: $id) {
		id
		name
		description
		fixtureValues {
			fixture { id }
			channels { offset value }
			sceneOrder
		}
	}
}`)

	createLookMutation = mustParse(`mutation CreateLook($input: CreateSceneInput!) {
	createScene(input: $input) { id }
}`)

	updateLookMutation = mustParse(`mutation UpdateLook($id: ID!, $input: UpdateSceneInput!) {
	updateScene(id: $id, input: $input) { id }
}`)

	createCueListMutation = mustParse(`mutation CreateCueList($input: CreateCueListInput!) {
	createCueList(input: $input) { id }
}`)

	createCueMutation = mustParse(`mutation CreateCue($input: CreateCueInput!) {
	createCue(input: $input) { id }
}`)
)
