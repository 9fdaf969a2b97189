package pipeline

import (
	"fmt"

	"github.com/matzehuels/engrave/pkg/layout"
	"github.com/matzehuels/engrave/pkg/render"
	"github.com/matzehuels/engrave/pkg/render/svg"
)

// drawer is anything a formatted system can paint onto a context.
// Notes, rests, barlines, and clefs all satisfy it.
type drawer interface {
	Draw(render.Context)
}

// Render generates the requested artifacts from a formatted system.
// PNG and PDF are derived from the SVG via librsvg.
func Render(sys *System, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svgBytes []byte

	needSVG := func() []byte {
		if svgBytes == nil {
			svgBytes = RenderSVG(sys, opts)
		}
		return svgBytes
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			artifacts[FormatSVG] = needSVG()
		case FormatJSON:
			data, err := layout.Marshal(sys.Layout)
			if err != nil {
				return nil, fmt.Errorf("serialize layout: %w", err)
			}
			artifacts[FormatJSON] = data
		case FormatPNG:
			data, err := svg.ToPNG(needSVG(), opts.Scale)
			if err != nil {
				return nil, fmt.Errorf("render png: %w", err)
			}
			artifacts[FormatPNG] = data
		case FormatPDF:
			data, err := svg.ToPDF(needSVG())
			if err != nil {
				return nil, fmt.Errorf("render pdf: %w", err)
			}
			artifacts[FormatPDF] = data
		default:
			return nil, ValidateFormat(format)
		}
	}
	return artifacts, nil
}

// RenderSVG draws the system onto a fresh SVG context.
func RenderSVG(sys *System, opts Options) []byte {
	height := opts.FrameHeight(len(sys.Staves))

	var ctxOpts []svg.Option
	if opts.Background != "" {
		ctxOpts = append(ctxOpts, svg.WithBackground(opts.Background))
	}
	c := svg.NewContext(opts.Width, height, ctxOpts...)

	for _, st := range sys.Staves {
		st.Draw(c)
	}
	for _, voices := range sys.Voices {
		for _, v := range voices {
			for _, t := range v.Tickables() {
				if d, ok := t.(drawer); ok {
					d.Draw(c)
				}
			}
		}
	}
	for _, b := range sys.Beams {
		b.Draw(c)
	}
	return c.Bytes()
}
