package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/getmockd/castlepact/pkg/stateful"
)

// Executor executes GraphQL operations against registered resolvers.
type Executor struct {
	schema    *Schema
	config    *GraphQLConfig
	resolvers map[string]ResolverFunc // "Query.getRuler" -> resolver

	introspectOnce sync.Once
	introspection  map[string]any
}

// NewExecutor creates a new GraphQL executor with the given schema and configuration.
func NewExecutor(schema *Schema, config *GraphQLConfig) *Executor {
	if config == nil {
		config = &GraphQLConfig{Path: DefaultPath}
	}
	return &Executor{
		schema:    schema,
		config:    config,
		resolvers: make(map[string]ResolverFunc),
	}
}

// Resolve registers fn for a root field path such as "Query.listRulers".
// The path must name a field of the schema's Query or Mutation type.
func (e *Executor) Resolve(path string, fn ResolverFunc) error {
	fp := ParseFieldPath(path)
	var def *ast.FieldDefinition
	switch fp.TypeName {
	case "Query":
		def = e.schema.RootField(ast.Query, fp.FieldName)
	case "Mutation":
		def = e.schema.RootField(ast.Mutation, fp.FieldName)
	}
	if def == nil {
		return fmt.Errorf("graphql: %s is not a root field of the schema", path)
	}
	e.resolvers[fp.String()] = fn
	return nil
}

// Schema returns the executor's schema.
func (e *Executor) Schema() *Schema {
	return e.schema
}

// Execute executes a GraphQL request and returns a response.
func (e *Executor) Execute(ctx context.Context, req *GraphQLRequest) *GraphQLResponse {
	if req == nil || req.Query == "" {
		return errorResponse(GraphQLError{
			Message:    "query is required",
			Extensions: map[string]any{"code": CodeParseFailed},
		})
	}

	doc, gqlErr := e.parseQuery(req.Query)
	if gqlErr != nil {
		return errorResponse(*gqlErr)
	}

	op, gqlErr := selectOperation(doc, req.OperationName)
	if gqlErr != nil {
		return errorResponse(*gqlErr)
	}

	vars, err := validator.VariableValues(e.schema.AST(), op, req.Variables)
	if err != nil {
		return errorResponse(fromGQLError(err, CodeBadUserInput))
	}

	data, errs := e.executeOperation(ctx, op, vars)
	// A nil map still encodes as "data": null.
	resp := &GraphQLResponse{Data: data}
	if len(errs) > 0 {
		resp.Errors = errs
	}
	return resp
}

func errorResponse(errs ...GraphQLError) *GraphQLResponse {
	return &GraphQLResponse{Errors: errs}
}

// parseQuery parses and validates a GraphQL query against the schema.
func (e *Executor) parseQuery(query string) (*ast.QueryDocument, *GraphQLError) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "query", Input: query})
	if err != nil {
		gqlErr := fromGQLError(err, CodeParseFailed)
		return nil, &gqlErr
	}

	if errs := validator.Validate(e.schema.AST(), doc); len(errs) > 0 {
		gqlErr := fromGQLError(errs[0], CodeValidationFailed)
		return nil, &gqlErr
	}

	return doc, nil
}

func selectOperation(doc *ast.QueryDocument, name string) (*ast.OperationDefinition, *GraphQLError) {
	if name != "" {
		if op := doc.Operations.ForName(name); op != nil {
			return op, nil
		}
		return nil, &GraphQLError{
			Message:    fmt.Sprintf("operation %q not found", name),
			Extensions: map[string]any{"code": CodeBadUserInput},
		}
	}
	switch len(doc.Operations) {
	case 0:
		return nil, &GraphQLError{Message: "no operation found in query"}
	case 1:
		return doc.Operations[0], nil
	default:
		return nil, &GraphQLError{
			Message:    "operationName is required when the document has several operations",
			Extensions: map[string]any{"code": CodeBadUserInput},
		}
	}
}

// executeOperation executes a single GraphQL operation. Root fields run in
// document order.
func (e *Executor) executeOperation(ctx context.Context, op *ast.OperationDefinition, vars map[string]any) (map[string]any, []GraphQLError) {
	var opType string
	switch op.Operation {
	case ast.Query:
		opType = "Query"
	case ast.Mutation:
		opType = "Mutation"
	default:
		return nil, []GraphQLError{{Message: fmt.Sprintf("unsupported operation type %q", op.Operation)}}
	}

	result := make(map[string]any)
	var errs []GraphQLError
	nullData := false

	for _, field := range collectFields(op.SelectionSet, vars) {
		alias := responseKey(field)

		value, err := e.resolveRootField(ctx, opType, field, vars)
		if err != nil {
			gqlErr := e.fieldError(err, field)
			errs = append(errs, gqlErr)
			result[alias] = nil
			// A null non-null root field propagates to data itself.
			if field.Definition != nil && field.Definition.Type.NonNull {
				nullData = true
			}
			continue
		}
		result[alias] = value
	}

	if nullData {
		return nil, errs
	}
	return result, errs
}

func (e *Executor) resolveRootField(ctx context.Context, opType string, field *ast.Field, vars map[string]any) (any, error) {
	switch field.Name {
	case "__typename":
		return opType, nil
	case "__schema", "__type":
		if !e.config.Introspection {
			return nil, &GraphQLError{
				Message:    "introspection is disabled",
				Extensions: map[string]any{"code": CodeValidationFailed},
			}
		}
		return e.resolveIntrospection(field, vars), nil
	}

	fn, ok := e.resolvers[opType+"."+field.Name]
	if !ok {
		return nil, nil
	}

	raw, err := fn(ctx, field.ArgumentMap(vars))
	if err != nil {
		return nil, err
	}

	value, err := normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("serialize %s.%s: %w", opType, field.Name, err)
	}
	return complete(value, field, vars), nil
}

// fieldError converts a resolver error into a response error located at field.
func (e *Executor) fieldError(err error, field *ast.Field) GraphQLError {
	var out GraphQLError
	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) {
		out = *gqlErr
	} else {
		out = GraphQLError{
			Message:    err.Error(),
			Extensions: map[string]any{"code": codeFor(err)},
		}
		var he stateful.HintError
		if errors.As(err, &he) && he.Hint() != "" {
			out.Extensions["hint"] = he.Hint()
		}
	}
	out.Path = []any{responseKey(field)}
	if field.Position != nil {
		out.Locations = []GraphQLErrorLocation{{Line: field.Position.Line, Column: field.Position.Column}}
	}
	return out
}

func codeFor(err error) string {
	switch stateful.Kind(err) {
	case stateful.KindNotFound:
		return CodeNotFound
	case stateful.KindValidation:
		return CodeBadUserInput
	default:
		return CodeInternal
	}
}

func fromGQLError(err error, code string) GraphQLError {
	out := GraphQLError{
		Message:    err.Error(),
		Extensions: map[string]any{"code": code},
	}
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		out.Message = gqlErr.Message
		for _, loc := range gqlErr.Locations {
			out.Locations = append(out.Locations, GraphQLErrorLocation{Line: loc.Line, Column: loc.Column})
		}
	}
	return out
}

// normalize turns a resolver result into the generic JSON value tree that
// selection sets are applied to.
func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// complete applies field's selection set to value.
func complete(value any, field *ast.Field, vars map[string]any) any {
	if value == nil || len(field.SelectionSet) == 0 {
		return value
	}

	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = complete(item, field, vars)
		}
		return out
	case map[string]any:
		return selectFields(v, field.SelectionSet, vars)
	default:
		return value
	}
}

func selectFields(obj map[string]any, set ast.SelectionSet, vars map[string]any) map[string]any {
	out := make(map[string]any)
	for _, field := range collectFields(set, vars) {
		key := responseKey(field)
		if field.Name == "__typename" {
			if field.ObjectDefinition != nil {
				out[key] = field.ObjectDefinition.Name
			}
			continue
		}
		out[key] = complete(obj[field.Name], field, vars)
	}
	return out
}

// collectFields flattens fragments and applies @skip and @include. Fields
// sharing a response key are merged into one field whose selection set is
// the union of theirs.
func collectFields(set ast.SelectionSet, vars map[string]any) []*ast.Field {
	var fields []*ast.Field
	index := make(map[string]int)

	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch s := sel.(type) {
			case *ast.Field:
				if !included(s.Directives, vars) {
					continue
				}
				key := responseKey(s)
				if i, ok := index[key]; ok {
					merged := *fields[i]
					merged.SelectionSet = append(append(ast.SelectionSet{}, merged.SelectionSet...), s.SelectionSet...)
					fields[i] = &merged
					continue
				}
				index[key] = len(fields)
				fields = append(fields, s)
			case *ast.InlineFragment:
				if included(s.Directives, vars) {
					walk(s.SelectionSet)
				}
			case *ast.FragmentSpread:
				if s.Definition != nil && included(s.Directives, vars) {
					walk(s.Definition.SelectionSet)
				}
			}
		}
	}
	walk(set)

	return fields
}

func included(directives ast.DirectiveList, vars map[string]any) bool {
	if d := directives.ForName("skip"); d != nil {
		if skip, _ := d.ArgumentMap(vars)["if"].(bool); skip {
			return false
		}
	}
	if d := directives.ForName("include"); d != nil {
		if include, _ := d.ArgumentMap(vars)["if"].(bool); !include {
			return false
		}
	}
	return true
}

func responseKey(field *ast.Field) string {
	if field.Alias != "" {
		return field.Alias
	}
	return field.Name
}
