// Package main provides the CLI entry point for exgrid-go.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/config"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/logging"
)

var (
	configPath string
	logLevel   string

	cfg config.Config
	log zerolog.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "exgrid",
		Short: "Derive grid views from tabular data and export them",
		Long: `exgrid-go reads rows from JSON or Excel files, applies formatting rules,
filters and sorting, and exports the result as CSV, XLSX or PDF.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (.toml, .yaml, .json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newExportCmd(), newColumnsCmd(), newPrefsCmd())
	return rootCmd
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	cfg = loaded
	log = logging.InitWithWriter(cfg.Log, cmd.ErrOrStderr())
	return nil
}
