// Package commands assembles the csvfang command tree.
package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/csvfang/internal/config"
	"github.com/Sumatoshi-tech/csvfang/pkg/version"
)

// RootOptions carries the persistent flags shared by every subcommand.
type RootOptions struct {
	// ConfigPath points at an explicit config file. When empty the
	// loader searches the working directory and the home directory.
	ConfigPath string

	// Verbose lowers the log level to debug.
	Verbose bool

	// Quiet raises the log level to error and suppresses progress
	// output.
	Quiet bool

	// NoColor disables ANSI color in rendered summaries.
	NoColor bool
}

// LoadConfig reads the effective configuration for the options.
func (o *RootOptions) LoadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// Logger builds a text logger writing to w at the level selected by the
// configuration and the verbosity flags.
func (o *RootOptions) Logger(w io.Writer, cfg *config.Config) *slog.Logger {
	level := cfg.SlogLevel()

	switch {
	case o.Verbose:
		level = slog.LevelDebug
	case o.Quiet:
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewRootCommand creates the root csvfang command with all subcommands
// attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	rootCmd := &cobra.Command{
		Use:   "csvfang",
		Short: "Quote-aware CSV splitting toolkit",
		Long: `csvfang splits large CSV files into smaller ones without breaking
records apart: line feeds inside quoted fields never end a record, so
every split file starts and ends on a true record boundary.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.NoColor {
				color.NoColor = true //nolint:reassign // intentional override of library global.
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config file (default searches .csvfang.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress progress output and non-error logs")
	rootCmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(NewSplitCommand(opts))
	rootCmd.AddCommand(NewCountCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "csvfang %s\n", version.String())
		},
	}
}
