package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/engrave/pkg/layout"
	"github.com/matzehuels/engrave/pkg/pipeline"
)

// layoutCommand creates the layout command for computing placements
// without drawing anything.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{
		AlignRests: true,
		AutoBeam:   true,
	}

	cmd := &cobra.Command{
		Use:   "layout [score.toml]",
		Short: "Compute horizontal placements for a score",
		Long: `Compute horizontal placements for a score.

The layout command runs the parse and justification stages and writes
the resulting placements as JSON (same format as 'render -f json').
Nothing is drawn; use this to feed placements into another renderer or
to diff layout changes.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "frame width")
	cmd.Flags().BoolVar(&opts.AlignRests, "align-rests", opts.AlignRests, "move rests toward neighboring note lines")
	cmd.Flags().BoolVar(&opts.AutoBeam, "auto-beam", opts.AutoBeam, "beam runs of eighth and shorter notes")

	return cmd
}

// runLayout parses the score, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	score, err := readScore(input)
	if err != nil {
		return fmt.Errorf("read score %s: %w", input, err)
	}
	opts.Score = score

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, err := runner.Parse(ctx, opts)
	if err != nil {
		return fmt.Errorf("parse score: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	l, _, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		if input == "-" {
			base = "score"
		}
		outputPath = base + ".layout.json"
	}

	if err := layout.WriteFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(doc.Staves), doc.NoteCount(), cacheHit)
	printDetail("Minimum width: %.1f px across %d tick contexts", l.MinWidth, len(l.Ticks))
	printNewline()
	printNextStep("Render", "engrave render "+input)

	return nil
}
