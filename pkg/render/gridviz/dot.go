// Package gridviz renders a tick-alignment grid as a node-link diagram
// for debugging spacing decisions. Each alignment group becomes a node
// labeled with its offset, position, and width; edges chain consecutive
// offsets.
package gridviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/engrave/pkg/engrave"
	"github.com/matzehuels/engrave/pkg/render/svg"
)

// Options configures grid diagram rendering.
type Options struct {
	// Detailed includes x position, width, and modifier reservations in
	// node labels. When false, only the offset is shown.
	Detailed bool
}

// ToDOT converts a tick grid to Graphviz DOT format. The resulting DOT
// string can be rendered with [RenderSVG] or [RenderPNG].
//
// Ignore-tick groups (barlines, clefs) are rendered with dashed outlines
// and grey fill to distinguish them from note-bearing groups.
func ToDOT(grid *engrave.Grid[*engrave.TickContext], opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, offset := range grid.List {
		ctx := grid.Map[offset]
		label := fmtLabel(offset, ctx, opts.Detailed)
		attrs := fmtAttrs(ctx, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(offset), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := 1; i < len(grid.List); i++ {
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(grid.List[i-1]), nodeID(grid.List[i]))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(offset int64) string {
	return fmt.Sprintf("tick-%d", offset)
}

func fmtLabel(offset int64, ctx *engrave.TickContext, detailed bool) string {
	if !detailed {
		return strconv.FormatInt(offset, 10)
	}

	m := ctx.Metrics()
	parts := []string{
		fmt.Sprintf("x: %.1f", ctx.X()),
		fmt.Sprintf("width: %.1f", ctx.Width()),
	}
	if m.ExtraLeftPx > 0 || m.ExtraRightPx > 0 {
		parts = append(parts, fmt.Sprintf("extras: %.1f/%.1f", m.ExtraLeftPx, m.ExtraRightPx))
	}

	return strconv.FormatInt(offset, 10) + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(ctx *engrave.TickContext, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if ctx.ShouldIgnoreTicks() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(data []byte) []byte {
	match := viewBoxRe.FindSubmatch(data)
	if match == nil {
		return data
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return data
	}

	newTag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(data, []byte(newTag))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	out, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return svg.ToPNG(out, scale)
}
