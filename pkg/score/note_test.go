package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/engrave/pkg/fraction"
)

func TestNewNote(t *testing.T) {
	n, err := NewNote([]string{"c/5"}, "q")
	require.NoError(t, err)

	assert.True(t, n.Ticks().Equals(fraction.New(4096, 1)))
	assert.False(t, n.IsRest())
	assert.False(t, n.ShouldIgnoreTicks())
	assert.InDelta(t, 1.5, n.Line(), 1e-9)
}

func TestNewNoteErrors(t *testing.T) {
	_, err := NewNote(nil, "q")
	assert.Error(t, err)

	_, err = NewNote([]string{"c/5"}, "128")
	assert.Error(t, err)

	_, err = NewNote([]string{"x/5"}, "q")
	assert.Error(t, err)
}

func TestNoteDottedTicks(t *testing.T) {
	n, err := NewNote([]string{"c/5"}, "q", WithDots(1))
	require.NoError(t, err)

	assert.True(t, n.Ticks().Equals(fraction.New(6144, 1)))
	require.Len(t, n.Modifiers(), 1)
	assert.Equal(t, ModifierRight, n.Modifiers()[0].Position())
}

func TestNoteTupletTicks(t *testing.T) {
	n, err := NewNote([]string{"c/5"}, "8", WithTuplet(2, 3))
	require.NoError(t, err)

	assert.True(t, n.Ticks().Equals(fraction.New(4096, 3)))
	assert.True(t, n.InTuplet())
}

func TestNoteDottedTupletTicks(t *testing.T) {
	// Dots scale on top of the tuplet ratio: 2048 * 2/3 * 3/2 = 2048.
	n, err := NewNote([]string{"c/5"}, "8", WithTuplet(2, 3), WithDots(1))
	require.NoError(t, err)

	assert.True(t, n.Ticks().Equals(fraction.New(2048, 1)))
}

func TestNoteAccidentalModifier(t *testing.T) {
	n, err := NewNote([]string{"f/5"}, "q", WithAccidental("#"))
	require.NoError(t, err)

	require.Len(t, n.Modifiers(), 1)
	assert.Equal(t, ModifierLeft, n.Modifiers()[0].Position())
	assert.InDelta(t, 12, n.Modifiers()[0].Width(), 1e-9)
}

func TestNoteLineForRestChord(t *testing.T) {
	single, err := NewNote([]string{"g/4"}, "q")
	require.NoError(t, err)
	assert.InDelta(t, 3, single.LineForRest(), 1e-9)

	// Chord c/4 (line 5) to c/5 (line 1.5): midpoint rounded to the
	// nearest half line.
	chord, err := NewNote([]string{"c/4", "e/4", "c/5"}, "q")
	require.NoError(t, err)
	assert.InDelta(t, 3.5, chord.LineForRest(), 1e-9)
}

func TestRestDefaults(t *testing.T) {
	r, err := NewRest("q")
	require.NoError(t, err)
	assert.True(t, r.IsRest())
	assert.InDelta(t, float64(DefaultRestLine), r.Line(), 1e-9)
	assert.True(t, r.OnDefaultRestLine())

	w, err := NewRest("w")
	require.NoError(t, err)
	assert.InDelta(t, float64(DefaultWholeRestLine), w.Line(), 1e-9)
	assert.True(t, w.OnDefaultRestLine())
}

func TestRestPinnedLine(t *testing.T) {
	r, err := NewRest("q", WithLine(0.5))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, r.Line(), 1e-9)
	assert.False(t, r.OnDefaultRestLine())
}

func TestNotePreFormatWidths(t *testing.T) {
	n, err := NewNote([]string{"c/5"}, "q")
	require.NoError(t, err)
	n.PreFormat()
	assert.InDelta(t, 10.5, n.Width(), 1e-9)

	r, err := NewRest("q")
	require.NoError(t, err)
	r.PreFormat()
	assert.InDelta(t, 8.5, r.Width(), 1e-9)

	b := NewBarNote()
	b.PreFormat()
	assert.InDelta(t, 1, b.Width(), 1e-9)

	c := NewClefNote("treble")
	c.PreFormat()
	assert.InDelta(t, 26, c.Width(), 1e-9)
}

func TestBarAndClefIgnoreTicks(t *testing.T) {
	b := NewBarNote()
	assert.True(t, b.ShouldIgnoreTicks())
	assert.True(t, b.Ticks().IsZero())

	c := NewClefNote("treble")
	assert.True(t, c.ShouldIgnoreTicks())
	assert.True(t, c.Ticks().IsZero())
}
