package engrave

import (
	"math"

	"github.com/matzehuels/engrave/pkg/score"
)

// AlignRests moves qualifying rests vertically so they sit near the
// pitches around them. Only rests still on a default rest position are
// candidates; a candidate moves when alignAll is set or when it is
// beamed. Tuplet rests are skipped unless alignTuplets is set.
//
// This runs before any width computation: moving a rest can change its
// glyph and therefore the width its alignment group requires.
func AlignRests(notes []*score.Note, alignAll, alignTuplets bool) {
	for i, note := range notes {
		if !note.IsRest() {
			continue
		}
		if note.InTuplet() && !alignTuplets {
			continue
		}
		if !note.OnDefaultRestLine() {
			continue
		}
		if !alignAll && !note.HasBeam() {
			continue
		}

		var line float64
		switch {
		case i == 0:
			// Leading rest: adopt the next pitched note's reference line.
			line = lookAhead(notes, i, note.Line())
		case notes[i-1].IsRest():
			// Chains of rests propagate one value.
			line = notes[i-1].Line()
		default:
			// Between two notes: keep the previous note's reference line,
			// or split the difference when the next note disagrees.
			prevLine := notes[i-1].LineForRest()
			nextLine := lookAhead(notes, i, prevLine)
			if nextLine != prevLine {
				line = midLine(prevLine, nextLine)
			} else {
				line = prevLine
			}
		}
		note.SetKeyLine(0, line)
	}
}

// lookAhead scans forward from index for the next pitched note and
// returns its rest-reference line; fallback is returned when none
// follows. Rests and non-duration elements are skipped.
func lookAhead(notes []*score.Note, index int, fallback float64) float64 {
	for i := index + 1; i < len(notes); i++ {
		n := notes[i]
		if n.IsRest() || n.ShouldIgnoreTicks() {
			continue
		}
		return n.LineForRest()
	}
	return fallback
}

// midLine returns the midpoint of two stave lines, rounded to the nearest
// half line.
func midLine(a, b float64) float64 {
	return math.Round(a+b) / 2
}
