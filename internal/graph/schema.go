package graph

import (
	_ "embed"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphql
var schemaSDL string

// Names with custom handling.
const (
	scalarUUID    = "UUID"
	typenameField = "__typename"
)

// LoadSchema parses the embedded schema definition.
func LoadSchema() *ast.Schema {
	return gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSDL})
}
