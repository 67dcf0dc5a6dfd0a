package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/colgrid/pkg/export"
	"github.com/matzehuels/colgrid/pkg/pipeline"
)

type layoutFlags struct {
	output    string
	format    string
	precision int
	maxPasses int
	refresh   bool
}

// layoutCommand creates the layout command, which runs scenario files.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout <scenario.toml>...",
		Short: "Run scenario files and report the column widths after each step",
		Long: `Run scenario files and report the column widths after each step.

Each scenario builds a grid from its [[columns]], settles the initial layout,
then applies its steps in order (resize, move, hide, scroll, ...). The widths,
offsets and realized columns after every step are written as a text table or
as JSON.

Several scenarios run concurrently. Results are cached by file content, so
rerunning an unchanged scenario is instant; use --refresh to recompute.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), args, f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&f.format, "format", "f", pipeline.DefaultFormat, "output format: text, json")
	cmd.Flags().IntVar(&f.precision, "precision", export.DefaultPrecision, "decimals in widths and offsets")
	cmd.Flags().IntVar(&f.maxPasses, "max-passes", pipeline.DefaultMaxPasses, "layout passes to settle each step")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute cached results")

	return cmd
}

// runLayout runs every scenario, then writes the exports in argument order.
func (c *CLI) runLayout(ctx context.Context, w io.Writer, paths []string, f layoutFlags) error {
	if f.output != "" && len(paths) > 1 {
		return fmt.Errorf("--output takes a single scenario, got %d", len(paths))
	}
	if err := export.ValidateFormat(f.format); err != nil {
		return err
	}
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := make([]pipeline.Options, len(paths))
	for i, p := range paths {
		opts[i] = pipeline.Options{
			Path:      p,
			MaxPasses: f.maxPasses,
			Format:    f.format,
			Precision: f.precision,
			Refresh:   f.refresh,
			Logger:    logger,
		}
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Running %d scenario(s)...", len(paths)))
	spinner.Start()

	results, err := runner.RunAll(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	var out bytes.Buffer
	for i, res := range results {
		data, _, err := runner.Export(ctx, res, opts[i])
		if err != nil {
			return fmt.Errorf("export %s: %w", paths[i], err)
		}
		out.Write(data)
	}

	if f.output == "" {
		if _, err := w.Write(out.Bytes()); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(f.output, out.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", f.output, err)
		}
		printSuccess("Layout complete")
		printFile(f.output)
	}

	for i, res := range results {
		printDetail("%s", paths[i])
		printStats(len(res.Final().Widths), len(res.Steps)-1, res.Stats.Passes, res.CacheHit)
	}
	prog.done(fmt.Sprintf("Ran %d scenario(s)", len(results)))
	return nil
}
