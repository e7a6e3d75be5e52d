package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/castlepact/pkg/cli/internal/output"
	"github.com/getmockd/castlepact/pkg/fixture"
)

func newFixturesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Work with fixture files",
	}
	cmd.AddCommand(newFixturesCheckCommand(opts))
	return cmd
}

type fixtureReport struct {
	File           string   `json:"file"`
	Castles        int      `json:"castles"`
	Rulers         int      `json:"rulers"`
	Interactions   int      `json:"interactions"`
	ProviderStates []string `json:"providerStates"`
}

func newFixturesCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file|->",
		Short: "Validate a fixture file and show the records it installs",
		Long:  "Validate a fixture file and show the records it installs. A file of - reads the fixture from stdin.",
		Example: `  castlepact fixtures check fixtures/loire.yaml
  castlepact fixtures check --json fixtures/loire.json
  curl -s $FIXTURE_URL | castlepact fixtures check -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				doc *fixture.Document
				err error
			)
			if args[0] == "-" {
				doc, err = fixture.ParseReader(cmd.InOrStdin())
				if err != nil {
					err = fmt.Errorf("stdin: %w", err)
				}
			} else {
				doc, err = fixture.LoadFile(args[0])
			}
			if err != nil {
				return err
			}
			recs, err := doc.Records()
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			report := fixtureReport{
				File:           args[0],
				Castles:        len(recs.Castles),
				Rulers:         len(recs.Rulers),
				Interactions:   len(doc.Interactions),
				ProviderStates: doc.ProviderStates(),
			}
			if opts.jsonOutput {
				return output.JSON(cmd.OutOrStdout(), report)
			}

			tw := output.Table(cmd.OutOrStdout())
			fmt.Fprintf(tw, "FILE\t%s\n", report.File)
			fmt.Fprintf(tw, "CASTLES\t%d\n", report.Castles)
			fmt.Fprintf(tw, "RULERS\t%d\n", report.Rulers)
			fmt.Fprintf(tw, "INTERACTIONS\t%d\n", report.Interactions)
			for _, s := range report.ProviderStates {
				fmt.Fprintf(tw, "STATE\t%s\n", s)
			}
			return tw.Flush()
		},
	}
}
