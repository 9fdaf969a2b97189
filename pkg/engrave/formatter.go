package engrave

import (
	"math"

	"github.com/matzehuels/engrave/pkg/fraction"
	"github.com/matzehuels/engrave/pkg/render"
	"github.com/matzehuels/engrave/pkg/score"
)

// stavePadding is the fixed margin FormatToStave subtracts from the
// stave's usable interior width.
const stavePadding = 10

// widthState is the explicit validity marker for the cached minimum
// width. Any call that changes voice membership moves it back to stale.
type widthState int

const (
	widthStale widthState = iota
	widthReady
)

// Formatter is the engine facade. It owns the alignment grids and the
// cached minimum width for one formatting session and writes final x
// positions back onto the formatted tickables.
//
// A Formatter is not safe for concurrent use. Grids are rebuilt, never
// incrementally updated, on every grid-construction call.
type Formatter struct {
	minTotalWidth float64
	widthState    widthState

	pixelsPerTick float64
	totalTicks    fraction.Fraction

	tickContexts     *Grid[*TickContext]
	modifierContexts []*Grid[*ModifierContext]
}

// New creates an empty formatter.
func New() *Formatter {
	return &Formatter{totalTicks: fraction.Zero()}
}

// FormatOptions configures [Formatter.Format].
type FormatOptions struct {
	// AlignRests runs rest alignment over every voice before the grid is
	// built.
	AlignRests bool

	// Context is the rendering collaborator handed through to drawing;
	// layout itself never draws.
	Context render.Context

	// Stave binds every voice for vertical pre-layout and enables the
	// finalize step.
	Stave *score.Stave
}

// JoinVoices builds the modifier-alignment grid for a set of voices meant
// to share a stave. Call once per stave to register several staves'
// voices under one formatter for cross-stave alignment. Any join
// invalidates the cached minimum width.
func (f *Formatter) JoinVoices(voices ...*score.Voice) error {
	grid, err := createModifierContexts(voices)
	if err != nil {
		return err
	}
	f.modifierContexts = append(f.modifierContexts, grid)
	f.widthState = widthStale
	return nil
}

// CreateTickContexts builds the tick-alignment grid and records the total
// duration from the first voice. The previous grid is discarded.
func (f *Formatter) CreateTickContexts(voices []*score.Voice) (*Grid[*TickContext], error) {
	grid, err := createTickContexts(voices)
	if err != nil {
		return nil, err
	}
	f.tickContexts = grid
	f.totalTicks = voices[0].TotalTicks()
	return grid, nil
}

// TickContexts returns the current tick grid, or nil before any build.
func (f *Formatter) TickContexts() *Grid[*TickContext] { return f.tickContexts }

// PreCalculateMinTotalWidth computes and caches the minimum width the
// voices require without justification, building the tick grid first if
// absent. Idempotent once cached.
func (f *Formatter) PreCalculateMinTotalWidth(voices []*score.Voice) (float64, error) {
	if f.widthState == widthReady {
		return f.minTotalWidth, nil
	}
	if f.tickContexts == nil {
		if _, err := f.CreateTickContexts(voices); err != nil {
			return 0, err
		}
	}

	f.minTotalWidth = 0
	for _, tick := range f.tickContexts.List {
		ctx := f.tickContexts.Map[tick]
		ctx.PreFormat()
		f.minTotalWidth += ctx.Width()
	}
	f.widthState = widthReady
	return f.minTotalWidth, nil
}

// MinTotalWidth returns the cached minimum width. It is an error to query
// it before PreCalculateMinTotalWidth has run (or after a join made it
// stale).
func (f *Formatter) MinTotalWidth() (float64, error) {
	if f.widthState != widthReady {
		return 0, ErrNoMinWidth
	}
	return f.minTotalWidth, nil
}

// PreFormat runs the two-pass justification over the tick grid and
// assigns every group - and every member tickable - its final x.
//
// justifyWidth 0 means no stretch: groups pack at minimum widths. When a
// stave is given, each voice is bound to it and runs its own vertical
// pre-layout first, since pitch placement can influence width.
func (f *Formatter) PreFormat(justifyWidth float64, rc render.Context, voices []*score.Voice, stave *score.Stave) error {
	if voices != nil && stave != nil {
		for _, v := range voices {
			v.SetStave(stave).PreFormat()
		}
	}
	if f.tickContexts == nil {
		if voices == nil {
			return ErrNoTickContexts
		}
		if _, err := f.CreateTickContexts(voices); err != nil {
			return err
		}
	}
	grid := f.tickContexts
	if len(grid.List) == 0 {
		return nil
	}

	totalScaledTicks := f.totalTicks.Value() * float64(grid.ResolutionMultiplier)
	f.pixelsPerTick = 0
	if justifyWidth > 0 && totalScaledTicks > 0 {
		f.pixelsPerTick = justifyWidth / totalScaledTicks
	}

	// Pass 1: place every group at its minimum position, reserving room
	// for the previous group's side modifiers.
	var (
		x              float64
		prevTick       int64
		prevWidth      float64
		prevMetrics    Metrics
		remainingWidth = justifyWidth
	)
	for _, tick := range grid.List {
		ctx := grid.Map[tick]
		ctx.PreFormat()

		width := ctx.Width()
		metrics := ctx.Metrics()

		// Ideal tick-proportional gap, bounded by the group's own width so
		// pre-justification placement never overshoots.
		idealGap := math.Min(float64(tick-prevTick)*f.pixelsPerTick, width)
		setX := x + idealGap

		// The previous group's right side (net of its left-modifier
		// reservation) is the closest this group may come.
		minX := x + prevWidth - prevMetrics.ExtraLeftPx

		if ctx.ShouldIgnoreTicks() {
			// Non-duration elements pack immediately after the previous
			// group and shrink the justification budget; the proportional
			// rate is recomputed against the reduced budget right away, so
			// consecutive zero-tick groups compound in order.
			setX = minX + width
			remainingWidth -= width
			if remainingWidth > 0 && totalScaledTicks > 0 {
				f.pixelsPerTick = remainingWidth / totalScaledTicks
			} else {
				f.pixelsPerTick = 0
			}
		} else {
			setX = math.Max(setX, minX)
		}

		// White space already opened between the groups absorbs part or
		// all of this group's own left-modifier offset.
		leftPx := metrics.ExtraLeftPx
		if whiteSpace := setX - minX; whiteSpace >= leftPx {
			leftPx = 0
		} else {
			leftPx -= whiteSpace
		}
		if leftPx < 0 {
			leftPx = 0
		}
		setX += leftPx
		ctx.SetX(setX)

		x = setX
		prevTick = tick
		prevWidth = width
		prevMetrics = metrics
	}

	// Pass 2: distribute leftover width proportionally to elapsed ticks.
	if justifyWidth > 0 {
		last := grid.Map[grid.List[len(grid.List)-1]]
		leftover := justifyWidth - (x + last.Width())
		leftoverPerTick := 0.0
		if totalScaledTicks > 0 {
			leftoverPerTick = leftover / totalScaledTicks
		}
		centerX := justifyWidth / 2

		accumulated := 0.0
		prevTick = 0
		for _, tick := range grid.List {
			ctx := grid.Map[tick]
			if leftoverPerTick > 0 {
				accumulated += float64(tick-prevTick) * leftoverPerTick
				ctx.SetX(ctx.X() + accumulated)
			}
			prevTick = tick

			for _, t := range ctx.CenterAlignedTickables() {
				t.SetCenterXShift(centerX - ctx.X())
			}
		}
	}

	// Write the final coordinates back onto the callers' tickables.
	for _, tick := range grid.List {
		ctx := grid.Map[tick]
		for _, t := range ctx.Tickables() {
			t.SetX(ctx.X())
		}
	}
	return nil
}

// PostFormat finalizes every modifier- and tick-alignment group after x
// and y are both set.
func (f *Formatter) PostFormat() {
	for _, grid := range f.modifierContexts {
		for _, ctx := range grid.Contexts {
			ctx.PostFormat()
		}
	}
	if f.tickContexts != nil {
		for _, ctx := range f.tickContexts.Contexts {
			ctx.PostFormat()
		}
	}
}

// Format orchestrates one full pass: rest alignment, grid construction,
// justification, and - when a stave is involved - finalization.
func (f *Formatter) Format(voices []*score.Voice, justifyWidth float64, opts *FormatOptions) error {
	if opts == nil {
		opts = &FormatOptions{}
	}
	if len(voices) == 0 {
		return ErrNoVoices
	}
	if opts.AlignRests {
		for _, v := range voices {
			AlignRests(v.Notes(), true, false)
		}
	}
	if _, err := f.CreateTickContexts(voices); err != nil {
		return err
	}
	if err := f.PreFormat(justifyWidth, opts.Context, voices, opts.Stave); err != nil {
		return err
	}
	if opts.Stave != nil {
		f.PostFormat()
	}
	return nil
}

// FormatToStave formats the voices into the stave's usable interior
// width, minus a fixed margin.
func (f *Formatter) FormatToStave(voices []*score.Voice, stave *score.Stave, opts *FormatOptions) error {
	if opts == nil {
		opts = &FormatOptions{}
	}
	opts.Stave = stave
	width := stave.NoteEndX() - stave.NoteStartX() - stavePadding
	return f.Format(voices, width, opts)
}
