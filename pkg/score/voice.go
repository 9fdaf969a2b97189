package score

import (
	"fmt"

	"github.com/matzehuels/engrave/pkg/fraction"
)

// Mode controls how strictly a voice's declared duration is enforced.
type Mode int

const (
	// Strict voices must be filled to exactly their declared duration
	// before they can be formatted.
	Strict Mode = iota
	// Soft voices may be under-filled; used by the convenience helpers
	// that format ad-hoc note lists.
	Soft
)

func (m Mode) String() string {
	if m == Soft {
		return "soft"
	}
	return "strict"
}

// Voice is an ordered sequence of tickables with a declared total
// duration. All voices formatted together must declare the same total.
//
// Voice is not safe for concurrent use.
type Voice struct {
	numBeats  int
	beatValue int

	mode                 Mode
	totalTicks           fraction.Fraction
	ticksUsed            fraction.Fraction
	resolutionMultiplier int64
	tickables            []Tickable
	stave                *Stave
}

// NewVoice creates a strict voice with a numBeats/beatValue time
// signature (4, 4 declares one bar of common time).
func NewVoice(numBeats, beatValue int) *Voice {
	return &Voice{
		numBeats:             numBeats,
		beatValue:            beatValue,
		mode:                 Strict,
		totalTicks:           fraction.New(int64(numBeats)*Resolution, int64(beatValue)).Simplify(),
		ticksUsed:            fraction.Zero(),
		resolutionMultiplier: 1,
	}
}

// SetMode switches the completeness mode and returns the voice for
// chaining.
func (v *Voice) SetMode(m Mode) *Voice {
	v.mode = m
	return v
}

// Mode returns the completeness mode.
func (v *Voice) Mode() Mode { return v.mode }

// TotalTicks returns the declared total duration.
func (v *Voice) TotalTicks() fraction.Fraction { return v.totalTicks }

// TicksUsed returns the duration consumed by the added tickables.
func (v *Voice) TicksUsed() fraction.Fraction { return v.ticksUsed }

// ResolutionMultiplier returns the integer scale that makes every
// fractional tick value in this voice an integer: the least common
// multiple of the denominators of all added durations.
func (v *Voice) ResolutionMultiplier() int64 { return v.resolutionMultiplier }

// Tickables returns the voice's elements in order. The slice is owned by
// the voice.
func (v *Voice) Tickables() []Tickable { return v.tickables }

// AddTickable appends t, updating the tick accounting. A strict voice
// rejects elements that would overflow its declared duration.
func (v *Voice) AddTickable(t Tickable) error {
	if !t.ShouldIgnoreTicks() {
		ticks := t.Ticks().Simplify()
		used := v.ticksUsed.Add(ticks)
		if v.mode == Strict && used.GreaterThan(v.totalTicks) {
			return fmt.Errorf("voice overfull: %s used of %s declared", used.Simplify(), v.totalTicks)
		}
		v.ticksUsed = used
		v.resolutionMultiplier = fraction.LCM(v.resolutionMultiplier, ticks.Denominator)
	}
	v.tickables = append(v.tickables, t)
	return nil
}

// AddTickables appends every element, stopping at the first error.
func (v *Voice) AddTickables(ts ...Tickable) error {
	for _, t := range ts {
		if err := v.AddTickable(t); err != nil {
			return err
		}
	}
	return nil
}

// IsComplete reports whether the voice satisfies its completeness mode.
func (v *Voice) IsComplete() bool {
	if v.mode == Soft {
		return true
	}
	return v.ticksUsed.Equals(v.totalTicks)
}

// SetStave binds the voice (and all of its tickables) to a stave.
func (v *Voice) SetStave(st *Stave) *Voice {
	v.stave = st
	for _, t := range v.tickables {
		t.SetStave(st)
	}
	return v
}

// Stave returns the bound stave, or nil.
func (v *Voice) Stave() *Stave { return v.stave }

// PreFormat runs the voice's own vertical pre-layout. Pitch placement can
// influence horizontal width (a moved rest changes glyph), so this runs
// before the engine measures anything.
func (v *Voice) PreFormat() {
	if v.stave == nil {
		return
	}
	for _, t := range v.tickables {
		t.SetStave(v.stave)
	}
}

// Notes returns the voice's elements that are stave notes, in order. Bar
// elements are skipped; the rest aligner works on this sequence.
func (v *Voice) Notes() []*Note {
	notes := make([]*Note, 0, len(v.tickables))
	for _, t := range v.tickables {
		if n, ok := t.(*Note); ok {
			notes = append(notes, n)
		}
	}
	return notes
}
