package engrave

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/engrave/pkg/score"
)

func TestAlignRestsLeadingRestAdoptsNextNote(t *testing.T) {
	rest := mustRest(t, "q")
	notes := []*score.Note{
		rest,
		mustNote(t, "c/5", "q"),
	}

	AlignRests(notes, true, false)

	assert.InDelta(t, 1.5, rest.Line(), 1e-9)
}

func TestAlignRestsBetweenNotesTakesMidpoint(t *testing.T) {
	rest := mustRest(t, "q")
	notes := []*score.Note{
		mustNote(t, "c/5", "q"), // line 1.5
		rest,
		mustNote(t, "e/4", "q"), // line 4
	}

	AlignRests(notes, true, false)

	// Midpoint of 1.5 and 4, rounded to the nearest half line.
	assert.InDelta(t, 3, rest.Line(), 1e-9)
}

func TestAlignRestsBetweenEqualNotesKeepsLine(t *testing.T) {
	rest := mustRest(t, "q")
	notes := []*score.Note{
		mustNote(t, "g/4", "q"), // line 3
		rest,
		mustNote(t, "g/4", "q"),
	}

	AlignRests(notes, true, false)

	assert.InDelta(t, 3, rest.Line(), 1e-9)
}

func TestAlignRestsChainedRestsShareLine(t *testing.T) {
	first := mustRest(t, "q")
	second := mustRest(t, "q")
	notes := []*score.Note{
		mustNote(t, "g/4", "q"),
		first,
		second,
	}

	AlignRests(notes, true, false)

	assert.InDelta(t, 3, first.Line(), 1e-9)
	assert.InDelta(t, 3, second.Line(), 1e-9)
}

func TestAlignRestsSkipsPinnedRest(t *testing.T) {
	pinned := mustRest(t, "q", score.WithLine(0.5))
	notes := []*score.Note{
		mustNote(t, "c/5", "q"),
		pinned,
		mustNote(t, "e/4", "q"),
	}

	AlignRests(notes, true, false)

	assert.InDelta(t, 0.5, pinned.Line(), 1e-9)
}

func TestAlignRestsSkipsTupletRestByDefault(t *testing.T) {
	rest := mustRest(t, "8", score.WithTuplet(2, 3))
	notes := []*score.Note{
		mustNote(t, "c/5", "8", score.WithTuplet(2, 3)),
		rest,
		mustNote(t, "c/5", "8", score.WithTuplet(2, 3)),
	}

	AlignRests(notes, true, false)
	assert.InDelta(t, float64(score.DefaultRestLine), rest.Line(), 1e-9)

	AlignRests(notes, true, true)
	assert.InDelta(t, 1.5, rest.Line(), 1e-9)
}

func TestAlignRestsOnlyBeamedWithoutAlignAll(t *testing.T) {
	loose := mustRest(t, "q")
	beamed := mustRest(t, "8")
	notes := []*score.Note{
		mustNote(t, "c/5", "q"),
		loose,
		mustNote(t, "c/5", "8"),
		beamed,
		mustNote(t, "c/5", "8"),
	}
	score.GenerateBeams(notes)

	AlignRests(notes, false, false)

	assert.InDelta(t, float64(score.DefaultRestLine), loose.Line(), 1e-9)
	assert.InDelta(t, 1.5, beamed.Line(), 1e-9)
}
