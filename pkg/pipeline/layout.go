package pipeline

import (
	"fmt"

	"github.com/matzehuels/engrave/pkg/engrave"
	"github.com/matzehuels/engrave/pkg/layout"
	"github.com/matzehuels/engrave/pkg/score"
)

// System holds everything one formatting run produced: the staves with
// their bound voices and beams, plus the serializable layout. Rendering
// draws from the system; caching stores only the layout.
type System struct {
	Doc       *score.Document
	Formatter *engrave.Formatter
	Staves    []*score.Stave
	Voices    [][]*score.Voice
	Beams     []*score.Beam
	Layout    layout.Layout
}

// BuildSystem runs the layout stage: materialize the document's voices,
// optionally beam and align, and justify everything onto stacked staves.
// All staves share one tick grid, so simultaneous notes align vertically
// across staves.
func BuildSystem(doc *score.Document, opts Options) (*System, error) {
	opts.SetLayoutDefaults()

	stavesVoices, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("build voices: %w", err)
	}

	f := engrave.New()
	sys := &System{Doc: doc, Formatter: f, Voices: stavesVoices}

	var all []*score.Voice
	for i, voices := range stavesVoices {
		st := score.NewStave(0, staveTop+float64(i)*staveGap, opts.Width)
		sys.Staves = append(sys.Staves, st)

		if err := f.JoinVoices(voices...); err != nil {
			return nil, fmt.Errorf("join stave %d: %w", i, err)
		}
		for _, v := range voices {
			v.SetStave(st).PreFormat()
			if opts.AutoBeam {
				sys.Beams = append(sys.Beams, score.GenerateBeams(v.Notes())...)
			}
		}
		all = append(all, voices...)
	}

	if opts.AlignRests {
		for _, v := range all {
			engrave.AlignRests(v.Notes(), true, false)
		}
	}

	if _, err := f.PreCalculateMinTotalWidth(all); err != nil {
		return nil, fmt.Errorf("minimum width: %w", err)
	}

	// One grid across every stave; justify into the first stave's
	// interior (all staves share x geometry).
	first := sys.Staves[0]
	justifyWidth := first.NoteEndX() - first.NoteStartX() - 10
	if _, err := f.CreateTickContexts(all); err != nil {
		return nil, fmt.Errorf("tick grid: %w", err)
	}
	if err := f.PreFormat(justifyWidth, nil, nil, nil); err != nil {
		return nil, fmt.Errorf("justify: %w", err)
	}
	f.PostFormat()

	sys.Layout = layout.Build(f, stavesVoices, justifyWidth)
	sys.Layout.Title = doc.Title
	sys.Layout.Time = doc.Time
	sys.Layout.Width = opts.Width
	sys.Layout.Height = opts.FrameHeight(len(sys.Staves))
	return sys, nil
}

// GenerateLayout runs the layout stage and returns only the serializable
// result.
func GenerateLayout(doc *score.Document, opts Options) (layout.Layout, error) {
	sys, err := BuildSystem(doc, opts)
	if err != nil {
		return layout.Layout{}, err
	}
	return sys.Layout, nil
}
