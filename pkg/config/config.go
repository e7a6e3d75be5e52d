package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/getmockd/castlepact/internal/id"
)

// Default values.
const (
	DefaultRESTAddr        = ":8080"
	DefaultGraphQLAddr     = ":4000"
	DefaultGraphQLPath     = "/graphql"
	DefaultMetricsPath     = "/metrics"
	DefaultRelationTimeout = 2 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CASTLEPACT_"

// Config is the complete server configuration.
type Config struct {
	REST       RESTConfig       `yaml:"rest" envPrefix:"REST_"`
	GraphQL    GraphQLConfig    `yaml:"graphql" envPrefix:"GRAPHQL_"`
	Log        LogConfig        `yaml:"log" envPrefix:"LOG_"`
	Fixtures   FixturesConfig   `yaml:"fixtures" envPrefix:"FIXTURES_"`
	Validation ValidationConfig `yaml:"validation" envPrefix:"VALIDATION_"`
	Metrics    MetricsConfig    `yaml:"metrics" envPrefix:"METRICS_"`
	Relation   RelationConfig   `yaml:"relation" envPrefix:"RELATION_"`
	ID         IDConfig         `yaml:"id" envPrefix:"ID_"`
}

// RESTConfig configures the castle REST server.
type RESTConfig struct {
	Addr string `yaml:"addr" env:"ADDR"`
}

// GraphQLConfig configures the ruler GraphQL server.
type GraphQLConfig struct {
	Addr          string `yaml:"addr" env:"ADDR"`
	Path          string `yaml:"path" env:"PATH"`
	Introspection bool   `yaml:"introspection" env:"INTROSPECTION"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
	File   string `yaml:"file" env:"FILE"`
}

// FixturesConfig names the fixture installed at startup. When File is empty
// the stores keep their seed data.
type FixturesConfig struct {
	File string `yaml:"file" env:"FILE"`
}

// ValidationConfig toggles request validation on the REST surface.
type ValidationConfig struct {
	OpenAPI bool `yaml:"openapi" env:"OPENAPI"`
}

// MetricsConfig configures the Prometheus endpoint. It is served on the REST
// listener.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Path    string `yaml:"path" env:"PATH"`
}

// RelationConfig configures how the castle service reaches rulers. An empty
// RulersURL reads the in-process ruler store.
type RelationConfig struct {
	RulersURL string        `yaml:"rulersUrl" env:"RULERS_URL"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// IDConfig selects how created castles and rulers are identified: "ulid"
// or "uuid".
type IDConfig struct {
	Strategy string `yaml:"strategy" env:"STRATEGY"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		REST: RESTConfig{Addr: DefaultRESTAddr},
		GraphQL: GraphQLConfig{
			Addr:          DefaultGraphQLAddr,
			Path:          DefaultGraphQLPath,
			Introspection: true,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Validation: ValidationConfig{OpenAPI: true},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
		Relation: RelationConfig{Timeout: DefaultRelationTimeout},
		ID:       IDConfig{Strategy: id.StrategyULID},
	}
}

// ValidationError describes an invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for values the server cannot start with.
func (c *Config) Validate() error {
	if err := validateAddr(c.REST.Addr, "rest.addr"); err != nil {
		return err
	}
	if err := validateAddr(c.GraphQL.Addr, "graphql.addr"); err != nil {
		return err
	}
	if c.REST.Addr == c.GraphQL.Addr {
		return &ValidationError{
			Field:   "graphql.addr",
			Message: fmt.Sprintf("conflicts with rest.addr (both are %q)", c.REST.Addr),
		}
	}

	if !strings.HasPrefix(c.GraphQL.Path, "/") {
		return &ValidationError{Field: "graphql.path", Message: "must start with /"}
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return &ValidationError{Field: "metrics.path", Message: "must start with /"}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return &ValidationError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}

	if c.Relation.Timeout <= 0 {
		return &ValidationError{Field: "relation.timeout", Message: "must be > 0"}
	}
	if c.Relation.RulersURL != "" &&
		!strings.HasPrefix(c.Relation.RulersURL, "http://") &&
		!strings.HasPrefix(c.Relation.RulersURL, "https://") {
		return &ValidationError{Field: "relation.rulersUrl", Message: "must be an http or https URL"}
	}
	if _, err := id.ForStrategy(c.ID.Strategy); err != nil {
		return &ValidationError{Field: "id.strategy", Message: err.Error()}
	}
	return nil
}

func validateAddr(addr, field string) error {
	if addr == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return &ValidationError{Field: field, Message: fmt.Sprintf("invalid address %q: %v", addr, err)}
	}
	return nil
}
