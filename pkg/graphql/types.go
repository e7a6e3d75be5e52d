package graphql

import "context"

// GraphQLConfig represents a GraphQL endpoint configuration.
type GraphQLConfig struct {
	// Path is the URL path where this GraphQL endpoint is served.
	Path string `json:"path" yaml:"path"`
	// Introspection enables the __schema and __type introspection fields.
	Introspection bool `json:"introspection" yaml:"introspection"`
}

// DefaultPath is the endpoint path used when GraphQLConfig.Path is empty.
const DefaultPath = "/graphql"

// ResolverFunc resolves a root field. args holds the coerced argument values
// keyed by argument name. The returned value is serialized through its JSON
// form before the selection set is applied, so struct results need json tags
// that match the schema's field names.
type ResolverFunc func(ctx context.Context, args map[string]any) (any, error)

// Error codes placed in GraphQLError.Extensions["code"].
const (
	CodeParseFailed      = "GRAPHQL_PARSE_FAILED"
	CodeValidationFailed = "GRAPHQL_VALIDATION_FAILED"
	CodeBadUserInput     = "BAD_USER_INPUT"
	CodeNotFound         = "NOT_FOUND"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
)

// GraphQLError represents a GraphQL error in the response format.
type GraphQLError struct {
	// Message is the error message.
	Message string `json:"message"`
	// Locations indicates where in the query the error occurred.
	Locations []GraphQLErrorLocation `json:"locations,omitempty"`
	// Path is the response field path where the error occurred.
	Path []any `json:"path,omitempty"`
	// Extensions contains additional error metadata.
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Error implements error.
func (e *GraphQLError) Error() string {
	return e.Message
}

// Code returns the extensions code, or "" when none is set.
func (e *GraphQLError) Code() string {
	code, _ := e.Extensions["code"].(string)
	return code
}

// GraphQLErrorLocation represents a location in the GraphQL query where an error occurred.
type GraphQLErrorLocation struct {
	// Line is the line number (1-indexed).
	Line int `json:"line"`
	// Column is the column number (1-indexed).
	Column int `json:"column"`
}

// GraphQLRequest represents an incoming GraphQL request.
type GraphQLRequest struct {
	// Query is the GraphQL query string.
	Query string `json:"query"`
	// OperationName is the name of the operation to execute (for multi-operation documents).
	OperationName string `json:"operationName,omitempty"`
	// Variables are the variable values for the query.
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL response.
type GraphQLResponse struct {
	// Data contains the result of the query execution.
	Data any `json:"data,omitempty"`
	// Errors contains any errors that occurred during execution.
	Errors []GraphQLError `json:"errors,omitempty"`
}

// FieldPath represents a path to a root field (e.g., "Query.getRuler").
type FieldPath struct {
	// TypeName is the parent type name (e.g., "Query", "Mutation").
	TypeName string
	// FieldName is the field name.
	FieldName string
}

// String returns the string representation of the field path.
func (fp FieldPath) String() string {
	return fp.TypeName + "." + fp.FieldName
}

// ParseFieldPath parses a field path string (e.g., "Query.user") into a FieldPath.
func ParseFieldPath(path string) FieldPath {
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			return FieldPath{
				TypeName:  path[:i],
				FieldName: path[i+1:],
			}
		}
	}
	// No dot found, treat the whole string as a field name
	return FieldPath{FieldName: path}
}
