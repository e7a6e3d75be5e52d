package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/castlepact/pkg/logging"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var (
		restAddr    string
		graphqlAddr string
		fixtureFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the castle REST and ruler GraphQL servers",
		Example: `  castlepact serve
  castlepact serve --rest-addr :8080 --graphql-addr :4000 --fixtures fixtures/loire.yaml
  CASTLEPACT_RELATION_RULERS_URL=http://rulers:4000/graphql castlepact serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("rest-addr") {
				cfg.REST.Addr = restAddr
			}
			if cmd.Flags().Changed("graphql-addr") {
				cfg.GraphQL.Addr = graphqlAddr
			}
			if cmd.Flags().Changed("fixtures") {
				cfg.Fixtures.File = fixtureFile
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, closer, err := logging.Open(logging.Config{
				Level:  logging.ParseLevel(cfg.Log.Level),
				Format: logging.ParseFormat(cfg.Log.Format),
				Output: os.Stderr,
				File:   cfg.Log.File,
			})
			if err != nil {
				return err
			}
			defer closeQuietly(logger, closer, "log file")

			srv, err := NewServer(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&restAddr, "rest-addr", "", "Castle REST listen address (overrides rest.addr)")
	cmd.Flags().StringVar(&graphqlAddr, "graphql-addr", "", "Ruler GraphQL listen address (overrides graphql.addr)")
	cmd.Flags().StringVar(&fixtureFile, "fixtures", "", "Fixture file installed at startup (overrides fixtures.file)")
	return cmd
}

// contextOrBackground returns ctx, or context.Background when ctx is nil.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
