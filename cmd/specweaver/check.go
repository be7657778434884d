package main

import (
	"github.com/spf13/cobra"

	"specweaver/internal/console"
)

func newCheckCmd(flags *globalFlags) *cobra.Command {
	var (
		showResolved bool
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Report diagnostics and unresolved references",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := console.ParseColorMode(flags.color)
			if err != nil {
				return err
			}

			res, cfg, err := run(cmd, args, flags)
			if err != nil {
				return err
			}

			console.New(cmd.OutOrStdout(), console.Options{
				Color:    mode,
				Resolved: showResolved,
				Quiet:    quiet,
			}).PrintResult(res)

			if res.Failed(cfg) {
				return errRunFailed
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showResolved, "resolved", false, "also list resolved references")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the summary line")

	return cmd
}
