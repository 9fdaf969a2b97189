package score

import (
	"fmt"
	"math"

	"github.com/matzehuels/engrave/pkg/fraction"
	"github.com/matzehuels/engrave/pkg/render"
)

// Tickable is anything that consumes musical time on a voice: notes,
// rests, and the zero-duration bar elements. The engine positions
// tickables purely through this surface and writes the final x back with
// SetX.
type Tickable interface {
	// Ticks is the exact duration. Zero for bar elements.
	Ticks() fraction.Fraction

	// ShouldIgnoreTicks reports whether the element is excluded from tick
	// accounting (barlines, clefs, time signatures).
	ShouldIgnoreTicks() bool

	// IsRest reports whether the element is a rest.
	IsRest() bool

	// PreFormat computes width and metrics. Called once per formatting
	// pass, before any x is assigned.
	PreFormat()

	// PostFormat runs after both x and y are final.
	PostFormat()

	Width() float64
	ExtraLeftPx() float64
	ExtraRightPx() float64
	SetExtraLeftPx(px float64)
	SetExtraRightPx(px float64)

	X() float64
	SetX(x float64)

	// IsCenterAligned marks elements centered on the justification width
	// independent of their tick position (e.g. whole-bar rests).
	IsCenterAligned() bool
	SetCenterXShift(shift float64)

	// Modifiers lists attached side symbols; AttachModifierGroup hands the
	// element its space-negotiation group when voices are joined.
	Modifiers() []Modifier
	AttachModifierGroup(g ModifierGroup)

	SetStave(st *Stave)
}

// tickableBase carries the state every tickable shares.
type tickableBase struct {
	ticks        fraction.Fraction
	width        float64
	extraLeftPx  float64
	extraRightPx float64
	x            float64
	centerXShift float64
	centerAlign  bool
	stave        *Stave
	modGroup     ModifierGroup
}

func (b *tickableBase) Ticks() fraction.Fraction        { return b.ticks }
func (b *tickableBase) Width() float64                  { return b.width }
func (b *tickableBase) ExtraLeftPx() float64            { return b.extraLeftPx }
func (b *tickableBase) ExtraRightPx() float64           { return b.extraRightPx }
func (b *tickableBase) SetExtraLeftPx(px float64)       { b.extraLeftPx = px }
func (b *tickableBase) SetExtraRightPx(px float64)      { b.extraRightPx = px }
func (b *tickableBase) X() float64                      { return b.x }
func (b *tickableBase) SetX(x float64)                  { b.x = x }
func (b *tickableBase) IsCenterAligned() bool           { return b.centerAlign }
func (b *tickableBase) SetCenterXShift(shift float64)   { b.centerXShift = shift }
func (b *tickableBase) CenterXShift() float64           { return b.centerXShift }
func (b *tickableBase) AttachModifierGroup(g ModifierGroup) { b.modGroup = g }
func (b *tickableBase) SetStave(st *Stave)              { b.stave = st }
func (b *tickableBase) Stave() *Stave                   { return b.stave }
func (b *tickableBase) PostFormat()                     {}

// absoluteX is the drawing position: grid x relative to the stave's note
// start, plus any center shift.
func (b *tickableBase) absoluteX() float64 {
	x := b.x + b.centerXShift
	if b.stave != nil {
		x += b.stave.NoteStartX()
	}
	return x
}

// KeyProps carries the per-key pitch placement of a note. Line is the
// stave line (0 = top line, half-line steps, increasing downward).
type KeyProps struct {
	Key  string
	Line float64
}

// Note is a pitched stave note or a rest.
type Note struct {
	tickableBase

	keys      []string
	keyProps  []KeyProps
	duration  string
	dots      int
	rest      bool
	tuplet    bool
	beam      *Beam
	modifiers []Modifier
}

// NoteOption configures a Note at construction.
type NoteOption func(*Note)

// WithDots adds augmentation dots; each dot also attaches a Dot modifier.
func WithDots(n int) NoteOption {
	return func(note *Note) { note.dots = n }
}

// WithTuplet scales the duration by num/den (a triplet is 2/3) and marks
// the note as belonging to a tuplet.
func WithTuplet(num, den int64) NoteOption {
	return func(note *Note) {
		note.tuplet = true
		note.ticks = note.ticks.Multiply(fraction.New(num, den))
	}
}

// WithAccidental attaches an accidental modifier.
func WithAccidental(sign string) NoteOption {
	return func(note *Note) { note.modifiers = append(note.modifiers, NewAccidental(sign)) }
}

// WithCenterAlign centers the note on the justification width instead of
// its tick position. Used for whole-bar rests.
func WithCenterAlign() NoteOption {
	return func(note *Note) { note.centerAlign = true }
}

// WithLine pins a rest to a specific stave line, which also removes it
// from the set of rests the aligner may move.
func WithLine(line float64) NoteOption {
	return func(note *Note) {
		for i := range note.keyProps {
			note.keyProps[i].Line = line
		}
	}
}

// NewNote creates a pitched note. Keys are "letter[accidental]/octave"
// strings such as "c/4" or "f#/5", lowest first.
func NewNote(keys []string, duration string, opts ...NoteOption) (*Note, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("note needs at least one key")
	}
	ticks, err := DurationTicks(duration, 0)
	if err != nil {
		return nil, err
	}
	n := &Note{
		keys:     keys,
		duration: duration,
	}
	n.ticks = ticks
	for _, key := range keys {
		line, err := LineForKey(key)
		if err != nil {
			return nil, err
		}
		n.keyProps = append(n.keyProps, KeyProps{Key: key, Line: line})
	}
	n.apply(opts)
	return n, nil
}

// NewRest creates a rest on its default line for the duration.
func NewRest(duration string, opts ...NoteOption) (*Note, error) {
	ticks, err := DurationTicks(duration, 0)
	if err != nil {
		return nil, err
	}
	n := &Note{
		duration: duration,
		rest:     true,
		keyProps: []KeyProps{{Key: "rest", Line: defaultRestLine(duration)}},
	}
	n.ticks = ticks
	n.apply(opts)
	return n, nil
}

func (n *Note) apply(opts []NoteOption) {
	for _, opt := range opts {
		opt(n)
	}
	if n.dots > 0 {
		// Re-derive ticks including dots, preserving any tuplet scaling
		// already applied.
		base, _ := DurationTicks(n.duration, 0)
		dotted, _ := DurationTicks(n.duration, n.dots)
		n.ticks = n.ticks.Multiply(dotted.Divide(base))
		for i := 0; i < n.dots; i++ {
			n.modifiers = append(n.modifiers, NewDot())
		}
	}
}

func (n *Note) IsRest() bool            { return n.rest }
func (n *Note) ShouldIgnoreTicks() bool { return false }
func (n *Note) Modifiers() []Modifier   { return n.modifiers }

// Keys returns the note's key strings.
func (n *Note) Keys() []string { return n.keys }

// Duration returns the duration code.
func (n *Note) Duration() string { return n.duration }

// Dots returns the augmentation dot count.
func (n *Note) Dots() int { return n.dots }

// InTuplet reports whether the note belongs to a tuplet.
func (n *Note) InTuplet() bool { return n.tuplet }

// HasBeam reports whether the note is attached to a beam.
func (n *Note) HasBeam() bool { return n.beam != nil }

// KeyProps returns the per-key placements. The slice is live: the rest
// aligner writes lines through it.
func (n *Note) KeyProps() []KeyProps { return n.keyProps }

// Line returns the primary (first) key line.
func (n *Note) Line() float64 { return n.keyProps[0].Line }

// SetKeyLine moves the key at index to the given line.
func (n *Note) SetKeyLine(index int, line float64) {
	if index >= 0 && index < len(n.keyProps) {
		n.keyProps[index].Line = line
	}
}

// LineForRest returns the line a neighboring rest should reference: the
// single key's line, or the midpoint of the outer keys of a chord.
func (n *Note) LineForRest() float64 {
	first := n.keyProps[0].Line
	if len(n.keyProps) == 1 {
		return first
	}
	last := n.keyProps[len(n.keyProps)-1].Line
	return midLine(first, last)
}

// OnDefaultRestLine reports whether a rest still sits on one of the two
// default rest positions. Only such rests are candidates for alignment.
func (n *Note) OnDefaultRestLine() bool {
	if !n.rest {
		return false
	}
	line := n.Line()
	return line == DefaultRestLine || line == DefaultWholeRestLine
}

// PreFormat computes the note's own width from the metrics table. Extra
// left/right pixels are owned by the modifier group and left untouched
// here; a note that was never joined keeps zero extras.
func (n *Note) PreFormat() {
	if n.modGroup != nil {
		n.modGroup.PreFormat()
	}
	if n.rest {
		n.width = restGlyphWidth(n.duration)
		return
	}
	n.width = glyphWidths["notehead"]
}

// midLine returns the midpoint of two stave lines, rounded to the nearest
// half line.
func midLine(a, b float64) float64 {
	return math.Round(a+b) / 2
}

// Draw renders the note or rest onto rc. The note must have been
// formatted with a stave.
func (n *Note) Draw(rc render.Context) {
	if n.stave == nil {
		return
	}
	x := n.absoluteX()
	if n.rest {
		n.drawRest(rc, x)
		return
	}
	top := n.stave.YForLine(n.keyProps[len(n.keyProps)-1].Line)
	for _, kp := range n.keyProps {
		y := n.stave.YForLine(kp.Line)
		rc.FillEllipse(x+n.width/2, y, n.width/2, n.width/3, -20)
	}
	// Straight stem up from the highest notehead; whole notes have none.
	if n.duration != "w" {
		bottom := n.stave.YForLine(n.keyProps[0].Line)
		rc.Line(x+n.width, bottom, x+n.width, top-stemHeight, 1.3)
	}
	left := x
	for _, m := range n.modifiers {
		if m.Position() != ModifierLeft {
			continue
		}
		left -= m.Width()
		if a, ok := m.(*Accidental); ok {
			rc.Text(left, n.stave.YForLine(n.keyProps[0].Line)+4, a.Sign)
		}
	}
	right := x + n.width + 3
	for _, m := range n.modifiers {
		if m.Position() != ModifierRight {
			continue
		}
		rc.FillEllipse(right+2, n.stave.YForLine(n.keyProps[0].Line)-2, 2, 2, 0)
		right += m.Width()
	}
}

func (n *Note) drawRest(rc render.Context, x float64) {
	y := n.stave.YForLine(n.Line())
	switch n.duration {
	case "w":
		rc.FillRect(x, y, n.width, n.stave.LineSpacing()/2)
	case "h":
		rc.FillRect(x, y-n.stave.LineSpacing()/2, n.width, n.stave.LineSpacing()/2)
	default:
		rc.Line(x+n.width/2, y-n.stave.LineSpacing(), x+n.width/4, y+n.stave.LineSpacing(), 1.8)
	}
}

const stemHeight = 35

// BarNote is a zero-duration barline embedded in a voice.
type BarNote struct {
	tickableBase
}

// NewBarNote creates a barline element.
func NewBarNote() *BarNote {
	b := &BarNote{}
	b.ticks = fraction.Zero()
	return b
}

func (b *BarNote) ShouldIgnoreTicks() bool { return true }
func (b *BarNote) IsRest() bool            { return false }
func (b *BarNote) Modifiers() []Modifier   { return nil }

func (b *BarNote) PreFormat() { b.width = glyphWidths["barline"] }

// Draw renders the barline across the stave.
func (b *BarNote) Draw(rc render.Context) {
	if b.stave == nil {
		return
	}
	x := b.absoluteX()
	rc.Line(x, b.stave.YForLine(0), x, b.stave.YForLine(4), 1)
}

// ClefNote is a zero-duration clef change embedded in a voice.
type ClefNote struct {
	tickableBase
	clef string
}

// NewClefNote creates a clef element ("treble" is the only clef the
// renderer knows how to draw, but any name is positioned).
func NewClefNote(clef string) *ClefNote {
	c := &ClefNote{clef: clef}
	c.ticks = fraction.Zero()
	return c
}

func (c *ClefNote) ShouldIgnoreTicks() bool { return true }
func (c *ClefNote) IsRest() bool            { return false }
func (c *ClefNote) Modifiers() []Modifier   { return nil }

func (c *ClefNote) PreFormat() { c.width = glyphWidths["clef"] }

// Draw renders a text stand-in for the clef glyph.
func (c *ClefNote) Draw(rc render.Context) {
	if c.stave == nil {
		return
	}
	rc.Text(c.absoluteX(), c.stave.YForLine(3), "𝄞")
}
