package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/engrave/pkg/pipeline"
)

// inspectCommand creates the interactive tick-grid browser.
func (c *CLI) inspectCommand() *cobra.Command {
	var width float64
	cmd := &cobra.Command{
		Use:   "inspect [score.toml]",
		Short: "Browse a score's tick contexts interactively",
		Long: `Browse a score's tick contexts interactively.

The inspect command computes the layout and opens a terminal browser
over the tick grid: one row per tick context, with offset, beat, final
x position, width, and modifier extras. The detail pane lists the notes
sharing the selected context.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], width)
		},
	}

	cmd.Flags().Float64Var(&width, "width", 0, "justification width (default: pipeline default)")
	return cmd
}

// runInspect builds the system and hands its grid to the TUI.
func (c *CLI) runInspect(ctx context.Context, input string, width float64) error {
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

	model := NewGridModel(doc.Title, sys.Formatter.TickContexts())
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}
