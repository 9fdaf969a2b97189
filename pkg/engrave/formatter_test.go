package engrave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/engrave/pkg/score"
)

// barVoice is two quarter notes and a trailing barline in 2/4: minimum
// widths 10.5 + 10.5 + 1.
func barVoice(t *testing.T) *score.Voice {
	t.Helper()
	return mustVoice(t, 2, 4,
		mustNote(t, "c/5", "q"),
		mustNote(t, "d/5", "q"),
		score.NewBarNote(),
	)
}

func TestPreCalculateMinTotalWidth(t *testing.T) {
	f := New()
	v := barVoice(t)

	_, err := f.MinTotalWidth()
	assert.ErrorIs(t, err, ErrNoMinWidth)

	got, err := f.PreCalculateMinTotalWidth([]*score.Voice{v})
	require.NoError(t, err)
	assert.InDelta(t, 22, got, 1e-9)

	cached, err := f.MinTotalWidth()
	require.NoError(t, err)
	assert.InDelta(t, 22, cached, 1e-9)
}

func TestJoinVoicesInvalidatesMinWidth(t *testing.T) {
	f := New()
	v := barVoice(t)

	_, err := f.PreCalculateMinTotalWidth([]*score.Voice{v})
	require.NoError(t, err)

	require.NoError(t, f.JoinVoices(v))
	_, err = f.MinTotalWidth()
	assert.ErrorIs(t, err, ErrNoMinWidth)
}

func TestPreFormatZeroWidthPacksAtMinimum(t *testing.T) {
	f := New()
	v := barVoice(t)
	grid, err := f.CreateTickContexts([]*score.Voice{v})
	require.NoError(t, err)

	require.NoError(t, f.PreFormat(0, nil, nil, nil))

	xs := make([]float64, 0, len(grid.List))
	for _, offset := range grid.List {
		xs = append(xs, grid.Map[offset].X())
	}
	require.Len(t, xs, 3)
	assert.InDelta(t, 0, xs[0], 1e-9)
	assert.InDelta(t, 10.5, xs[1], 1e-9)
	assert.InDelta(t, 21, xs[2], 1e-9)

	// Total span equals the minimum width.
	last := grid.Map[grid.List[2]]
	assert.InDelta(t, 22, last.X()+last.Width(), 1e-9)
}

func TestPreFormatJustifiedFillsWidth(t *testing.T) {
	f := New()
	v := barVoice(t)
	grid, err := f.CreateTickContexts([]*score.Voice{v})
	require.NoError(t, err)

	require.NoError(t, f.PreFormat(400, nil, nil, nil))

	assert.InDelta(t, 0, grid.Map[0].X(), 1e-6)
	assert.InDelta(t, 199, grid.Map[4096].X(), 1e-6)
	assert.InDelta(t, 399, grid.Map[8192].X(), 1e-6)

	// The trailing barline lands flush with the right edge.
	last := grid.Map[8192]
	assert.InDelta(t, 400, last.X()+last.Width(), 1e-6)

	// x is non-decreasing and written back onto the tickables.
	prev := -1.0
	for _, offset := range grid.List {
		ctx := grid.Map[offset]
		assert.GreaterOrEqual(t, ctx.X(), prev)
		prev = ctx.X()
		for _, tick := range ctx.Tickables() {
			assert.InDelta(t, ctx.X(), tick.X(), 1e-9)
		}
	}
}

func TestPreFormatIgnoreTickGroupsPack(t *testing.T) {
	for _, width := range []float64{0, 150, 400} {
		f := New()
		v := barVoice(t)
		grid, err := f.CreateTickContexts([]*score.Voice{v})
		require.NoError(t, err)
		require.NoError(t, f.PreFormat(width, nil, nil, nil))

		// Before pass 2, the barline sits immediately after the second
		// note; pass 2 shifts both by the same accumulated amount when the
		// elapsed ticks between them are equal, so the final gap is the
		// leftover for the last quarter plus the packed distance.
		bar := grid.Map[8192]
		note := grid.Map[4096]
		if width == 0 {
			assert.InDelta(t, note.X()+note.Width(), bar.X(), 1e-9)
		} else {
			assert.Greater(t, bar.X(), note.X()+note.Width()-1e-9)
		}
	}
}

func TestPreFormatIdempotent(t *testing.T) {
	f := New()
	v := barVoice(t)
	grid, err := f.CreateTickContexts([]*score.Voice{v})
	require.NoError(t, err)

	require.NoError(t, f.PreFormat(400, nil, nil, nil))
	first := make([]float64, 0, len(grid.List))
	for _, offset := range grid.List {
		first = append(first, grid.Map[offset].X())
	}

	require.NoError(t, f.PreFormat(400, nil, nil, nil))
	for i, offset := range grid.List {
		assert.InDelta(t, first[i], grid.Map[offset].X(), 1e-9)
	}
}

func TestPreFormatWithoutGrid(t *testing.T) {
	f := New()
	err := f.PreFormat(100, nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoTickContexts)
}

func TestPreFormatReservesModifierSpace(t *testing.T) {
	v1 := mustVoice(t, 2, 4,
		mustNote(t, "c/5", "q", score.WithAccidental("#")),
		mustNote(t, "d/5", "q"),
	)
	v2 := mustVoice(t, 2, 4,
		mustNote(t, "e/4", "q", score.WithAccidental("#")),
		mustNote(t, "f/4", "q"),
	)
	voices := []*score.Voice{v1, v2}

	f := New()
	require.NoError(t, f.JoinVoices(voices...))
	grid, err := f.CreateTickContexts(voices)
	require.NoError(t, err)
	require.NoError(t, f.PreFormat(0, nil, nil, nil))

	// Two simultaneous sharps stack: 2 x (10+2) pushed onto both notes,
	// and the downbeat group starts past the reservation.
	assert.InDelta(t, 24, grid.Map[0].Metrics().ExtraLeftPx, 1e-9)
	assert.InDelta(t, 24, grid.Map[0].X(), 1e-9)
	for _, tick := range grid.Map[0].Tickables() {
		assert.InDelta(t, 24, tick.ExtraLeftPx(), 1e-9)
	}
}

func TestFormatCenterAlignedRest(t *testing.T) {
	rest := mustRest(t, "w", score.WithCenterAlign())
	v := mustVoice(t, 4, 4, rest)

	f := New()
	require.NoError(t, f.Format([]*score.Voice{v}, 400, nil))

	assert.InDelta(t, 0, rest.X(), 1e-9)
	assert.InDelta(t, 200, rest.CenterXShift(), 1e-9)
}

func TestFormatEmptyVoiceList(t *testing.T) {
	f := New()
	err := f.Format(nil, 400, nil)
	assert.ErrorIs(t, err, ErrNoVoices)
}

func TestFormatAlignsRests(t *testing.T) {
	rest := mustRest(t, "q")
	v := mustVoice(t, 2, 4,
		rest,
		mustNote(t, "c/5", "q"),
	)

	f := New()
	require.NoError(t, f.Format([]*score.Voice{v}, 0, &FormatOptions{AlignRests: true}))

	// The leading rest adopts c/5's reference line.
	assert.InDelta(t, 1.5, rest.Line(), 1e-9)
}

func TestFormatToStaveUsesInteriorWidth(t *testing.T) {
	v := barVoice(t)
	stave := score.NewStave(0, 40, 300)

	f := New()
	require.NoError(t, f.JoinVoices(v))
	require.NoError(t, f.FormatToStave([]*score.Voice{v}, stave, nil))

	// Interior width: 300 total - 10 start offset - 10 margin = 280. The
	// trailing barline fills it exactly.
	grid := f.TickContexts()
	require.NotNil(t, grid)
	last := grid.Map[grid.List[len(grid.List)-1]]
	assert.InDelta(t, 280, last.X()+last.Width(), 1e-6)
}
