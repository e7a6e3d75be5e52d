// Package config holds the castlepact server configuration.
//
// Values are resolved in three layers: built-in defaults, an optional YAML
// file, then CASTLEPACT_* environment variables.
//
//	rest:
//	  addr: ":8080"
//	graphql:
//	  addr: ":4000"
//	  path: /graphql
//	  introspection: true
//	log:
//	  level: info
//	  format: text
//	fixtures:
//	  file: fixtures/loire.yaml
//	relation:
//	  rulersUrl: http://localhost:4000/graphql
//	  timeout: 2s
//
// The same settings as environment variables:
//
//	CASTLEPACT_REST_ADDR=:8080
//	CASTLEPACT_GRAPHQL_INTROSPECTION=false
//	CASTLEPACT_FIXTURES_FILE=fixtures/loire.yaml
//	CASTLEPACT_RELATION_RULERS_URL=http://rulers:4000/graphql
package config
