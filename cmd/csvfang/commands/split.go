package commands

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/csvfang/internal/config"
	"github.com/Sumatoshi-tech/csvfang/internal/report"
	"github.com/Sumatoshi-tech/csvfang/internal/split"
)

// splitExecutor runs a splitting pass. Injected for testing.
type splitExecutor func(ctx context.Context, opts split.Options) (split.Result, error)

// SplitCommand holds the flag state for the split subcommand.
type SplitCommand struct {
	rootOpts *RootOptions
	execute  splitExecutor

	numPerSplit int64
	outputDir   string
	indexPath   string
	readBuffer  string
	compress    bool
	format      string
}

// NewSplitCommand creates the split subcommand.
func NewSplitCommand(rootOpts *RootOptions) *cobra.Command {
	return newSplitCommandWithDeps(rootOpts, split.Run)
}

// newSplitCommandWithDeps creates the split subcommand with an injected
// executor.
func newSplitCommandWithDeps(rootOpts *RootOptions, execute splitExecutor) *cobra.Command {
	sc := &SplitCommand{rootOpts: rootOpts, execute: execute}

	cmd := &cobra.Command{
		Use:   "split <input>",
		Short: "Split a CSV file into record-aligned pieces",
		Long: `Split the input file into numbered pieces of a fixed record count.

Records are detected with a quote-aware scanner, so line feeds inside
quoted fields never split a record across files. Concatenating the
pieces reproduces the input byte for byte. Existing files are never
overwritten; name collisions get a numeric suffix instead.

An input with a .lz4 extension is decompressed on the fly, and
--compress writes each piece as an LZ4 frame.`,
		Args: cobra.ExactArgs(1),
		RunE: sc.run,
	}

	cmd.Flags().Int64VarP(&sc.numPerSplit, "num-per-split", "n", config.DefaultNumPerSplit,
		"number of records per split file")
	cmd.Flags().StringVarP(&sc.outputDir, "output-dir", "o", config.DefaultOutputDir,
		"directory for split files (defaults to the input's directory)")
	cmd.Flags().StringVarP(&sc.indexPath, "generate-index", "x", "",
		"write a record number and byte offset index to this file")
	cmd.Flags().StringVar(&sc.readBuffer, "read-buffer", config.DefaultReadBuffer,
		"input chunk size, e.g. 1MiB")
	cmd.Flags().BoolVar(&sc.compress, "compress", config.DefaultCompress,
		"write split files as LZ4 frames")
	cmd.Flags().StringVarP(&sc.format, "format", "f", report.FormatText,
		fmt.Sprintf("summary format, one of: %v", report.Formats()))

	return cmd
}

func (sc *SplitCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := sc.rootOpts.LoadConfig()
	if err != nil {
		return err
	}

	sc.applyFlagOverrides(cmd, cfg)

	if err = cfg.Validate(); err != nil {
		return err
	}

	if !slices.Contains(report.Formats(), sc.format) {
		return fmt.Errorf("%w: %s", report.ErrUnknownFormat, sc.format)
	}

	readBuffer, err := cfg.ReadBufferBytes()
	if err != nil {
		return err
	}

	inputPath := args[0]

	res, err := sc.execute(cmd.Context(), split.Options{
		InputPath:      inputPath,
		RecordsPerFile: cfg.Split.NumPerSplit,
		OutputDir:      cfg.Split.OutputDir,
		IndexPath:      sc.indexPath,
		ReadBufferSize: readBuffer,
		Compress:       cfg.Split.Compress,
		Progress:       sc.progress(cmd),
		Logger:         sc.rootOpts.Logger(cmd.ErrOrStderr(), cfg),
	})
	if err != nil {
		return fmt.Errorf("split %s: %w", inputPath, err)
	}

	return report.Render(cmd.OutOrStdout(), sc.format, newSummary(inputPath, sc.indexPath, res))
}

// applyFlagOverrides lets explicitly set flags take precedence over the
// loaded configuration.
func (sc *SplitCommand) applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("num-per-split") {
		cfg.Split.NumPerSplit = sc.numPerSplit
	}

	if flags.Changed("output-dir") {
		cfg.Split.OutputDir = sc.outputDir
	}

	if flags.Changed("read-buffer") {
		cfg.Split.ReadBuffer = sc.readBuffer
	}

	if flags.Changed("compress") {
		cfg.Split.Compress = sc.compress
	}
}

// progress returns the destination for the reading banner, or nil when
// progress output is suppressed.
func (sc *SplitCommand) progress(cmd *cobra.Command) io.Writer {
	if sc.rootOpts.Quiet {
		return nil
	}

	return cmd.ErrOrStderr()
}

// newSummary converts a run result into its renderable form. The index
// fields stay empty when no index was requested or nothing was written.
func newSummary(inputPath, indexPath string, res split.Result) report.Summary {
	s := report.Summary{
		Input:    inputPath,
		Records:  res.Records,
		Files:    res.Files,
		BytesIn:  res.BytesIn,
		BytesOut: res.BytesOut,
		Elapsed:  res.Elapsed.Round(time.Millisecond).String(),
	}

	if indexPath != "" && res.Files > 0 {
		s.IndexPath = indexPath
		s.IndexEntries = res.IndexEntries
	}

	return s
}
