package score

import (
	"fmt"

	"github.com/matzehuels/engrave/pkg/render"
)

// Beam joins two or more consecutive short notes with a straight beam.
// Beyond drawing, a beam matters to layout because beamed rests are
// eligible for rest alignment even when align-all is off.
type Beam struct {
	notes []*Note
}

// NewBeam beams the given notes. At least two notes are required and all
// must be beamable (shorter than a quarter note).
func NewBeam(notes []*Note) (*Beam, error) {
	if len(notes) < 2 {
		return nil, fmt.Errorf("beam needs at least 2 notes, got %d", len(notes))
	}
	for _, n := range notes {
		if !beamable(n) {
			return nil, fmt.Errorf("note of duration %q cannot be beamed", n.Duration())
		}
	}
	b := &Beam{notes: notes}
	for _, n := range notes {
		n.beam = b
	}
	return b, nil
}

// Notes returns the beamed notes in order.
func (b *Beam) Notes() []*Note { return b.notes }

func beamable(n *Note) bool {
	switch n.Duration() {
	case "8", "16", "32", "64":
		return true
	}
	return false
}

// GenerateBeams beams maximal runs of two or more consecutive beamable
// notes. Rests inside a run are beamed over; a run breaks at quarter
// notes and longer, and at bar elements.
func GenerateBeams(notes []*Note) []*Beam {
	var beams []*Beam
	var run []*Note
	flush := func() {
		if len(run) >= 2 {
			if b, err := NewBeam(run); err == nil {
				beams = append(beams, b)
			}
		}
		run = nil
	}
	for _, n := range notes {
		if beamable(n) {
			run = append(run, n)
			continue
		}
		flush()
	}
	flush()
	return beams
}

// Draw renders a straight beam over the notes' stems.
func (b *Beam) Draw(rc render.Context) {
	first, last := b.notes[0], b.notes[len(b.notes)-1]
	st := first.stave
	if st == nil {
		return
	}
	y1 := st.YForLine(first.KeyProps()[len(first.KeyProps())-1].Line) - stemHeight
	y2 := st.YForLine(last.KeyProps()[len(last.KeyProps())-1].Line) - stemHeight
	rc.Line(first.absoluteX()+first.Width(), y1, last.absoluteX()+last.Width(), y2, 4)
}
