package graphql

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// Schema is a parsed SDL document with its root fields indexed by operation.
type Schema struct {
	ast   *ast.Schema
	roots map[ast.Operation]map[string]*ast.FieldDefinition
}

// ParseSchema parses sdl. The schema must define at least one query field.
func ParseSchema(sdl string) (*Schema, error) {
	parsed, err := gqlparser.LoadSchema(&ast.Source{Name: "schema", Input: sdl})
	if err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL schema: %w", err)
	}

	s := &Schema{
		ast: parsed,
		roots: map[ast.Operation]map[string]*ast.FieldDefinition{
			ast.Query:    indexFields(parsed.Query),
			ast.Mutation: indexFields(parsed.Mutation),
		},
	}
	if len(s.roots[ast.Query]) == 0 {
		return nil, errors.New("schema must define a Query type with at least one field")
	}
	return s, nil
}

// indexFields maps the fields of a root type by name, skipping the built-in
// __schema and __type fields.
func indexFields(def *ast.Definition) map[string]*ast.FieldDefinition {
	fields := make(map[string]*ast.FieldDefinition)
	if def == nil {
		return fields
	}
	for _, f := range def.Fields {
		if !strings.HasPrefix(f.Name, "__") {
			fields[f.Name] = f
		}
	}
	return fields
}

// isIntrospectionField reports whether name is a built-in introspection field.
func isIntrospectionField(name string) bool {
	return strings.HasPrefix(name, "__")
}

// AST returns the underlying gqlparser AST schema.
func (s *Schema) AST() *ast.Schema {
	return s.ast
}

// RootField returns the definition of a Query or Mutation field, or nil.
func (s *Schema) RootField(op ast.Operation, name string) *ast.FieldDefinition {
	return s.roots[op][name]
}

// RootFields lists the field names of a root type in sorted order.
func (s *Schema) RootFields(op ast.Operation) []string {
	names := make([]string, 0, len(s.roots[op]))
	for name := range s.roots[op] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
