package engrave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/engrave/pkg/score"
)

// countingContext records primitive calls so tests can assert drawing
// happened without a real backend.
type countingContext struct {
	lines, rects, ellipses, texts int
}

func (c *countingContext) Line(x1, y1, x2, y2, strokeWidth float64)     { c.lines++ }
func (c *countingContext) FillRect(x, y, w, h float64)                  { c.rects++ }
func (c *countingContext) FillEllipse(cx, cy, rx, ry, rotation float64) { c.ellipses++ }
func (c *countingContext) Text(x, y float64, s string)                  { c.texts++ }

func TestFormatAndDraw(t *testing.T) {
	rest := mustRest(t, "8")
	tickables := []score.Tickable{
		mustNote(t, "c/5", "8"),
		rest,
		mustNote(t, "d/5", "8"),
		mustNote(t, "e/5", "q"),
	}
	stave := score.NewStave(0, 40, 500)
	rc := &countingContext{}

	beams, err := FormatAndDraw(rc, stave, tickables, &DrawOptions{
		AutoBeam:   true,
		AlignRests: true,
	})
	require.NoError(t, err)

	// The three eighths (rest included) beam as one run.
	require.Len(t, beams, 1)
	assert.Len(t, beams[0].Notes(), 3)

	// The beamed rest was aligned onto its neighbors' line.
	assert.InDelta(t, 1.5, rest.Line(), 1e-9)

	// Stave, noteheads, stems and beam all hit the context.
	assert.Greater(t, rc.lines, 5)
	assert.Greater(t, rc.ellipses, 0)

	// Positions are non-decreasing along the sequence.
	prev := -1.0
	for _, tk := range tickables {
		assert.GreaterOrEqual(t, tk.X(), prev)
		prev = tk.X()
	}
}

func TestFormatAndDrawNilContext(t *testing.T) {
	tickables := []score.Tickable{mustNote(t, "c/5", "q")}
	stave := score.NewStave(0, 40, 200)

	beams, err := FormatAndDraw(nil, stave, tickables, nil)
	require.NoError(t, err)
	assert.Empty(t, beams)
}
