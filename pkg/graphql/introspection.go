package graphql

import (
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
)

// resolveIntrospection answers __schema and __type by projecting a generic
// description of the schema through the requested selection set.
func (e *Executor) resolveIntrospection(field *ast.Field, vars map[string]any) any {
	e.introspectOnce.Do(func() {
		e.introspection = buildIntrospection(e.schema.AST())
	})

	switch field.Name {
	case "__schema":
		return complete(e.introspection, field, vars)
	case "__type":
		name, _ := field.ArgumentMap(vars)["name"].(string)
		types, _ := e.introspection["types"].([]any)
		for _, t := range types {
			if m := t.(map[string]any); m["name"] == name {
				return complete(m, field, vars)
			}
		}
	}
	return nil
}

func buildIntrospection(schema *ast.Schema) map[string]any {
	names := make([]string, 0, len(schema.Types))
	for name := range schema.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	types := make([]any, 0, len(names))
	for _, name := range names {
		types = append(types, describeType(schema, schema.Types[name]))
	}

	directives := make([]any, 0, len(schema.Directives))
	for _, name := range sortedDirectiveNames(schema) {
		d := schema.Directives[name]
		locations := make([]any, len(d.Locations))
		for i, loc := range d.Locations {
			locations[i] = string(loc)
		}
		directives = append(directives, map[string]any{
			"name":         d.Name,
			"description":  nullable(d.Description),
			"locations":    locations,
			"args":         describeArgs(schema, d.Arguments),
			"isRepeatable": d.IsRepeatable,
		})
	}

	return map[string]any{
		"description":      nil,
		"queryType":        typeName(schema.Query),
		"mutationType":     typeName(schema.Mutation),
		"subscriptionType": typeName(schema.Subscription),
		"types":            types,
		"directives":       directives,
	}
}

func sortedDirectiveNames(schema *ast.Schema) []string {
	names := make([]string, 0, len(schema.Directives))
	for name := range schema.Directives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func typeName(def *ast.Definition) any {
	if def == nil {
		return nil
	}
	return map[string]any{"name": def.Name, "kind": kindOf(def)}
}

func kindOf(def *ast.Definition) string {
	switch def.Kind {
	case ast.Scalar:
		return "SCALAR"
	case ast.Object:
		return "OBJECT"
	case ast.Interface:
		return "INTERFACE"
	case ast.Union:
		return "UNION"
	case ast.Enum:
		return "ENUM"
	case ast.InputObject:
		return "INPUT_OBJECT"
	default:
		return string(def.Kind)
	}
}

func describeType(schema *ast.Schema, def *ast.Definition) map[string]any {
	t := map[string]any{
		"kind":          kindOf(def),
		"name":          def.Name,
		"description":   nullable(def.Description),
		"fields":        nil,
		"inputFields":   nil,
		"interfaces":    nil,
		"possibleTypes": nil,
		"enumValues":    nil,
		"ofType":        nil,
	}

	switch def.Kind {
	case ast.Object, ast.Interface:
		fields := make([]any, 0, len(def.Fields))
		for _, f := range def.Fields {
			if isIntrospectionField(f.Name) {
				continue
			}
			fields = append(fields, map[string]any{
				"name":              f.Name,
				"description":       nullable(f.Description),
				"args":              describeArgs(schema, f.Arguments),
				"type":              typeRef(schema, f.Type),
				"isDeprecated":      f.Directives.ForName("deprecated") != nil,
				"deprecationReason": nil,
			})
		}
		t["fields"] = fields
		interfaces := make([]any, 0, len(def.Interfaces))
		for _, name := range def.Interfaces {
			interfaces = append(interfaces, typeName(schema.Types[name]))
		}
		t["interfaces"] = interfaces
	case ast.InputObject:
		inputs := make([]any, 0, len(def.Fields))
		for _, f := range def.Fields {
			inputs = append(inputs, map[string]any{
				"name":         f.Name,
				"description":  nullable(f.Description),
				"type":         typeRef(schema, f.Type),
				"defaultValue": defaultValue(f.DefaultValue),
			})
		}
		t["inputFields"] = inputs
	case ast.Enum:
		values := make([]any, 0, len(def.EnumValues))
		for _, v := range def.EnumValues {
			values = append(values, map[string]any{
				"name":              v.Name,
				"description":       nullable(v.Description),
				"isDeprecated":      v.Directives.ForName("deprecated") != nil,
				"deprecationReason": nil,
			})
		}
		t["enumValues"] = values
	case ast.Union:
		possible := make([]any, 0, len(def.Types))
		for _, name := range def.Types {
			possible = append(possible, typeName(schema.Types[name]))
		}
		t["possibleTypes"] = possible
	}

	return t
}

func describeArgs(schema *ast.Schema, args ast.ArgumentDefinitionList) []any {
	out := make([]any, 0, len(args))
	for _, a := range args {
		out = append(out, map[string]any{
			"name":         a.Name,
			"description":  nullable(a.Description),
			"type":         typeRef(schema, a.Type),
			"defaultValue": defaultValue(a.DefaultValue),
		})
	}
	return out
}

// typeRef describes a possibly wrapped type as nested NON_NULL and LIST refs.
func typeRef(schema *ast.Schema, t *ast.Type) map[string]any {
	if t == nil {
		return nil
	}
	if t.NonNull {
		inner := *t
		inner.NonNull = false
		return map[string]any{"kind": "NON_NULL", "name": nil, "ofType": typeRef(schema, &inner)}
	}
	if t.Elem != nil {
		return map[string]any{"kind": "LIST", "name": nil, "ofType": typeRef(schema, t.Elem)}
	}

	kind := "SCALAR"
	if schema != nil {
		if def := schema.Types[t.NamedType]; def != nil {
			kind = kindOf(def)
		}
	}
	return map[string]any{"kind": kind, "name": t.NamedType, "ofType": nil}
}

func defaultValue(v *ast.Value) any {
	if v == nil {
		return nil
	}
	return v.String()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
