// Package graphql serves the ruler catalog over GraphQL.
//
// It is a small execution engine on top of gqlparser. Queries are parsed and
// validated against a Schema, root fields are dispatched to Go resolver
// functions registered by path ("Query.getRuler", "Mutation.createRuler"),
// and each resolver result is projected through the selection set, honoring
// aliases, fragments, __typename, @skip and @include. __schema and __type are
// answered from the schema when introspection is enabled.
//
// Resolver errors become GraphQL errors whose extensions.code reflects the
// failure: NOT_FOUND for a missing record, BAD_USER_INPUT for rejected input.
//
// Basic usage:
//
//	store := stateful.NewRulerStore()
//	handler, err := graphql.NewRulerEndpoint(store, &graphql.GraphQLConfig{
//	    Path:          "/graphql",
//	    Introspection: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	mux.Handle(handler.Pattern(), handler)
package graphql
