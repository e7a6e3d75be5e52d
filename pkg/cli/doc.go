// Package cli provides the command-line interface for castlepact.
//
// Commands:
//   - serve: run the castle REST server and the ruler GraphQL server
//   - fixtures check: validate a fixture file and print what it installs
//   - version: show the castlepact version
//
// Every command reads the configuration named by --config, falling back to
// the built-in defaults, and applies CASTLEPACT_* environment overrides.
package cli
