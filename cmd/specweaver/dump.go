package main

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"specweaver/internal/config"
)

func newDumpCmd(flags *globalFlags) *cobra.Command {
	var withReport bool

	cmd := &cobra.Command{
		Use:   "dump [dir]",
		Short: "Dump the entity specs of a run for debugging",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := run(cmd, args, flags)
			if err != nil {
				return err
			}

			cs := spew.ConfigState{
				Indent:                  "  ",
				DisablePointerAddresses: true,
				DisableCapacities:       true,
				SortKeys:                true,
			}

			cs.Fdump(cmd.OutOrStdout(), res.Entities)

			if withReport {
				cs.Fdump(cmd.OutOrStdout(), res.Report)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&withReport, "report", false, "also dump the report")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(config.Schema())
			return err
		},
	}
}
