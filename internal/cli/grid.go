package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/engrave/pkg/pipeline"
	"github.com/matzehuels/engrave/pkg/render/gridviz"
)

// gridCommand creates the grid debug command for visualizing tick grids.
func (c *CLI) gridCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
		width    float64
	)

	cmd := &cobra.Command{
		Use:   "grid [score.toml]",
		Short: "Visualize the tick grid of a score",
		Long: `Visualize the tick grid of a score.

The grid command runs the layout stage and emits the formatter's tick
grid as Graphviz DOT, SVG, or PNG. Each node is one tick context with
its offset, x position, and width; dashed nodes carry only elements
that take no rhythmic space (barlines, clefs).

This is a debugging tool for layout work.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGrid(cmd.Context(), args[0], output, format, detailed, width)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout for dot if empty)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot (default), svg, png")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include x positions and widths in node labels")
	cmd.Flags().Float64Var(&width, "width", 0, "justification width (default: pipeline default)")

	return cmd
}

// runGrid builds the system and renders its tick grid.
func (c *CLI) runGrid(ctx context.Context, input, output, format string, detailed bool, width float64) error {
	score, err := readScore(input)
	if err != nil {
		return fmt.Errorf("read score %s: %w", input, err)
	}

	opts := pipeline.Options{Score: score, Width: width}
	if err := opts.ValidateForParse(); err != nil {
		return err
	}
	opts.Logger = c.Logger

	doc, err := pipeline.Parse(ctx, opts)
	if err != nil {
		return err
	}
	sys, err := pipeline.BuildSystem(doc, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	minWidth, err := sys.Formatter.MinTotalWidth()
	if err == nil {
		printDetail("Minimum total width: %.1f px", minWidth)
	}

	dot := gridviz.ToDOT(sys.Formatter.TickContexts(), gridviz.Options{Detailed: detailed})

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = gridviz.RenderSVG(dot)
	case "png":
		data, err = gridviz.RenderPNG(dot, 2.0)
	default:
		return fmt.Errorf("unknown format: %s (must be 'dot', 'svg', or 'png')", format)
	}
	if err != nil {
		return fmt.Errorf("render grid %s: %w", format, err)
	}

	if output == "" && format == "dot" {
		fmt.Print(string(data))
		return nil
	}
	if output == "" {
		output = "grid." + format
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Grid rendered")
	printFile(output)
	return nil
}
