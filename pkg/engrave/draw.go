package engrave

import (
	"github.com/matzehuels/engrave/pkg/render"
	"github.com/matzehuels/engrave/pkg/score"
)

// DrawOptions configures [FormatAndDraw].
type DrawOptions struct {
	// AutoBeam groups beamable runs before formatting, which also makes
	// beamed rests eligible for alignment.
	AutoBeam bool

	// AlignRests enables rest alignment over the whole sequence.
	AlignRests bool
}

// FormatAndDraw formats an ad-hoc tickable sequence onto a stave and
// draws it. The sequence is wrapped in a soft 4/4 voice, so completeness
// is not enforced. Returns the beams that were generated so callers can
// extend them later.
func FormatAndDraw(rc render.Context, stave *score.Stave, tickables []score.Tickable, opts *DrawOptions) ([]*score.Beam, error) {
	if opts == nil {
		opts = &DrawOptions{}
	}

	voice := score.NewVoice(4, 4).SetMode(score.Soft)
	if err := voice.AddTickables(tickables...); err != nil {
		return nil, err
	}

	var beams []*score.Beam
	if opts.AutoBeam {
		beams = score.GenerateBeams(voice.Notes())
	}

	f := New()
	if err := f.JoinVoices(voice); err != nil {
		return nil, err
	}
	if err := f.FormatToStave([]*score.Voice{voice}, stave, &FormatOptions{
		AlignRests: opts.AlignRests,
		Context:    rc,
	}); err != nil {
		return nil, err
	}

	if rc != nil {
		stave.Draw(rc)
		for _, t := range tickables {
			if d, ok := t.(interface{ Draw(render.Context) }); ok {
				d.Draw(rc)
			}
		}
		for _, b := range beams {
			b.Draw(rc)
		}
	}
	return beams, nil
}
