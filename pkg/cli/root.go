package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/castlepact/pkg/config"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

type rootOptions struct {
	configFile string
	jsonOutput bool
}

// NewRootCommand builds the castlepact command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "castlepact",
		Short: "castlepact serves castle and ruler fixtures for contract verification",
		Long: `castlepact runs two in-memory services for consumer-driven contract tests:
a castle REST API and a ruler GraphQL API. Both stores can be reset to a
fixture between scenarios through the /_fixtures endpoints.

Configuration comes from an optional YAML file (--config) and CASTLEPACT_*
environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to a YAML configuration file")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output command results in JSON format")

	cmd.AddCommand(
		newServeCommand(opts),
		newFixturesCommand(opts),
		newVersionCommand(opts),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.Load(o.configFile)
}
