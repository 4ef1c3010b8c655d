package commands

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/csvfang/internal/config"
	"github.com/Sumatoshi-tech/csvfang/internal/report"
	"github.com/Sumatoshi-tech/csvfang/internal/split"
)

// countExecutor runs a scan-only pass. Injected for testing.
type countExecutor func(ctx context.Context, opts split.CountOptions) (split.CountResult, error)

// CountCommand holds the flag state for the count subcommand.
type CountCommand struct {
	rootOpts *RootOptions
	execute  countExecutor

	readBuffer string
	format     string
}

// NewCountCommand creates the count subcommand.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return newCountCommandWithDeps(rootOpts, split.Count)
}

// newCountCommandWithDeps creates the count subcommand with an injected
// executor.
func newCountCommandWithDeps(rootOpts *RootOptions, execute countExecutor) *cobra.Command {
	cc := &CountCommand{rootOpts: rootOpts, execute: execute}

	cmd := &cobra.Command{
		Use:   "count <input>",
		Short: "Count records without writing anything",
		Long: `Run only the quote-aware scanner over the input and report how many
records it holds. Nothing is written; use this as a dry run before
splitting a very large file.`,
		Args: cobra.ExactArgs(1),
		RunE: cc.run,
	}

	cmd.Flags().StringVar(&cc.readBuffer, "read-buffer", config.DefaultReadBuffer,
		"input chunk size, e.g. 1MiB")
	cmd.Flags().StringVarP(&cc.format, "format", "f", report.FormatText,
		fmt.Sprintf("summary format, one of: %v", report.Formats()))

	return cmd
}

func (cc *CountCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := cc.rootOpts.LoadConfig()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("read-buffer") {
		cfg.Split.ReadBuffer = cc.readBuffer
	}

	if err = cfg.Validate(); err != nil {
		return err
	}

	if !slices.Contains(report.Formats(), cc.format) {
		return fmt.Errorf("%w: %s", report.ErrUnknownFormat, cc.format)
	}

	readBuffer, err := cfg.ReadBufferBytes()
	if err != nil {
		return err
	}

	inputPath := args[0]

	res, err := cc.execute(cmd.Context(), split.CountOptions{
		InputPath:      inputPath,
		ReadBufferSize: readBuffer,
		Logger:         cc.rootOpts.Logger(cmd.ErrOrStderr(), cfg),
	})
	if err != nil {
		return fmt.Errorf("count %s: %w", inputPath, err)
	}

	return report.RenderCount(cmd.OutOrStdout(), cc.format, report.CountSummary{
		Input:   inputPath,
		Records: res.Records,
		Bytes:   res.Bytes,
		Elapsed: res.Elapsed.Round(time.Millisecond).String(),
	})
}
