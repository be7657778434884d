package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"specweaver/internal/config"
	"specweaver/internal/pipeline"
)

// errRunFailed is returned when a run completed but found errors (or
// unresolved references under --fail-on-unresolved). It is already reported.
var errRunFailed = errors.New("run failed")

// configNames are looked up in the scan root when --config is not given.
var configNames = []string{
	"specweaver.yaml",
	"specweaver.yml",
	"specweaver.toml",
	"specweaver.jsonc",
	"specweaver.json",
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath       string
	jobs             int
	failOnUnresolved bool
	verbose          bool
	debug            bool
	color            string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "specweaver",
		Short:         "Check class diagrams in Markdown design documents",
		Long:          `specweaver extracts mermaid class diagrams from Markdown documents, builds an entity registry and reports references to undefined types.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "configuration file (yaml, toml or jsonc); default: specweaver.* in the scan root")
	pf.IntVar(&flags.jobs, "jobs", -1, "max parallel extraction workers (0=auto, default from config)")
	pf.BoolVar(&flags.failOnUnresolved, "fail-on-unresolved", false, "exit non-zero when references stay unresolved")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log run phases")
	pf.BoolVar(&flags.debug, "debug", false, "log per-document details")
	pf.StringVar(&flags.color, "color", "auto", "colorize output (auto|on|off)")

	root.AddCommand(
		newCheckCmd(flags),
		newExportCmd(flags),
		newStoreCmd(flags),
		newDumpCmd(flags),
		newSchemaCmd(),
	)

	return root
}

// version is overridden at build time via -ldflags.
var version = "0.1.0-dev"

// newLogger builds the stderr logger selected by --verbose and --debug.
func newLogger(w io.Writer, flags *globalFlags) *slog.Logger {
	level := slog.LevelWarn

	switch {
	case flags.debug:
		level = slog.LevelDebug
	case flags.verbose:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads --config, or the first specweaver.* file in root, or
// falls back to the defaults. Command-line flags override the file.
func loadConfig(cmd *cobra.Command, root string, flags *globalFlags) (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		for _, name := range configNames {
			candidate := filepath.Join(root, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	cfg := config.Default()

	if path != "" {
		var err error

		cfg, err = config.LoadFile(path)
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = flags.jobs
	}

	if flags.failOnUnresolved {
		cfg.FailOnUnresolved = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// run loads the configuration for the scan root in args and runs the pipeline.
func run(cmd *cobra.Command, args []string, flags *globalFlags) (*pipeline.Result, *config.Config, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("scan root: %w", err)
	}

	if !info.IsDir() {
		return nil, nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	cfg, err := loadConfig(cmd, root, flags)
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cmd.ErrOrStderr(), flags)

	res, err := pipeline.RunDir(commandContext(cmd), root, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	return res, cfg, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
