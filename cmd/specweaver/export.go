package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"specweaver/internal/export"
)

func newExportCmd(flags *globalFlags) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [dir]",
		Short: "Write entities and the report as JSON, YAML or MessagePack",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			res, cfg, err := run(cmd, args, flags)
			if err != nil {
				return err
			}

			bundle := export.NewBundle(res)

			if output == "" || output == "-" {
				err = export.Write(cmd.OutOrStdout(), f, bundle)
			} else {
				err = export.WriteFile(output, f, bundle)
			}

			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			if res.Failed(cfg) {
				return errRunFailed
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatJSON), "output format (json|yaml|msgpack)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
