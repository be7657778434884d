package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"specweaver/internal/export"
)

func newStoreCmd(flags *globalFlags) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "store [dir]",
		Short: "Append the run to a SQLite database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, cfg, err := run(cmd, args, flags)
			if err != nil {
				return err
			}

			s, err := export.Open(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			cyclic, err := s.SaveRun(commandContext(cmd), res)
			if err != nil {
				return err
			}

			if len(cyclic) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: inheritance cycle between %s\n", strings.Join(cyclic, ", "))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "stored run %s (%d entities) in %s\n", res.RunID, len(res.Entities), dbPath)

			if res.Failed(cfg) {
				return errRunFailed
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", ".specweaver/runs.db", "SQLite database path")

	return cmd
}
