package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/engrave/pkg/pipeline"
)

// renderCommand creates the render command for engraving scores.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	opts := pipeline.Options{
		AlignRests: true,
		AutoBeam:   true,
	}

	cmd := &cobra.Command{
		Use:   "render [score.toml]",
		Short: "Engrave a score to SVG, PNG, PDF, or layout JSON",
		Long: `Engrave a score document.

The render command parses a score file (TOML or JSON), computes the
justified horizontal layout, and writes the requested output formats.
Use "-" to read the score from stdin.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "frame width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "frame height (default: derived from stave count)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG resolution multiplier")
	cmd.Flags().StringVar(&opts.Background, "background", "", "background color (default: transparent)")
	cmd.Flags().BoolVar(&opts.AlignRests, "align-rests", opts.AlignRests, "move rests toward neighboring note lines")
	cmd.Flags().BoolVar(&opts.AutoBeam, "auto-beam", opts.AutoBeam, "beam runs of eighth and shorter notes")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the document cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender executes the full pipeline and writes each artifact to disk.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
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

	spinner := newSpinnerWithContext(ctx, "Engraving score...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Engraving failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := basePath(output, input)
	printSuccess("Engraved %s", displayTitle(result))
	for _, format := range opts.Formats {
		path := base + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.StaveCount, result.Stats.NoteCount, result.CacheInfo.RenderHit)

	return nil
}

// displayTitle returns the document title, or a placeholder when the
// score is untitled.
func displayTitle(result *pipeline.Result) string {
	if result.Document != nil && result.Document.Title != "" {
		return fmt.Sprintf("%q", result.Document.Title)
	}
	return "score"
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "score"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
