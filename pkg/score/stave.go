package score

import "github.com/matzehuels/engrave/pkg/render"

// Stave is a five-line staff with a horizontal extent. It answers the two
// questions the engine asks (where notes may start and end) and the one
// question notes ask (where a line sits vertically).
type Stave struct {
	x, y  float64
	width float64

	lineSpacing float64
	startOffset float64
	endOffset   float64
}

// StaveOption configures a Stave.
type StaveOption func(*Stave)

// WithLineSpacing overrides the default 10px distance between lines.
func WithLineSpacing(px float64) StaveOption {
	return func(s *Stave) { s.lineSpacing = px }
}

// WithStartOffset reserves space at the left edge for clef and signature
// glyphs drawn outside the note area.
func WithStartOffset(px float64) StaveOption {
	return func(s *Stave) { s.startOffset = px }
}

// NewStave creates a stave at (x, y) with the given total width.
func NewStave(x, y, width float64, opts ...StaveOption) *Stave {
	s := &Stave{
		x:           x,
		y:           y,
		width:       width,
		lineSpacing: 10,
		startOffset: 10,
		endOffset:   0,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// X returns the stave's left edge.
func (s *Stave) X() float64 { return s.x }

// Y returns the y of the top stave line.
func (s *Stave) Y() float64 { return s.y }

// Width returns the stave's total width.
func (s *Stave) Width() float64 { return s.width }

// NoteStartX returns the interior x where the first note may sit.
func (s *Stave) NoteStartX() float64 { return s.x + s.startOffset }

// NoteEndX returns the interior x past which notes may not extend.
func (s *Stave) NoteEndX() float64 { return s.x + s.width - s.endOffset }

// LineSpacing returns the distance between adjacent stave lines.
func (s *Stave) LineSpacing() float64 { return s.lineSpacing }

// YForLine maps a stave line (0 = top line, half-line steps, increasing
// downward) to a y coordinate.
func (s *Stave) YForLine(line float64) float64 {
	return s.y + line*s.lineSpacing
}

// Draw renders the five stave lines and the end barlines.
func (s *Stave) Draw(rc render.Context) {
	for line := 0; line <= 4; line++ {
		y := s.YForLine(float64(line))
		rc.Line(s.x, y, s.x+s.width, y, 1)
	}
	rc.Line(s.x, s.YForLine(0), s.x, s.YForLine(4), 1)
	rc.Line(s.x+s.width, s.YForLine(0), s.x+s.width, s.YForLine(4), 1)
}
