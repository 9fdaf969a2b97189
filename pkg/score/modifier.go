package score

// ModifierPosition says on which side of its note a modifier draws.
type ModifierPosition int

const (
	// ModifierLeft modifiers (accidentals) draw before the notehead.
	ModifierLeft ModifierPosition = iota
	// ModifierRight modifiers (dots) draw after the notehead.
	ModifierRight
)

// Modifier is a side symbol attached to a note. Modifiers do not consume
// musical time; they only claim horizontal space, negotiated per stave
// moment by the engine's modifier groups.
type Modifier interface {
	Width() float64
	Position() ModifierPosition
}

// ModifierGroup is the engine-side alignment group a tickable is attached
// to when voices are joined. The note triggers the group's space
// negotiation from its own pre-format step.
type ModifierGroup interface {
	PreFormat()
}

// Accidental is a sharp, flat, or natural sign drawn left of the notehead.
type Accidental struct {
	Sign string // "#", "b", or "n"
}

// NewAccidental creates an accidental modifier. Unknown signs get the
// natural glyph width.
func NewAccidental(sign string) *Accidental { return &Accidental{Sign: sign} }

func (a *Accidental) Width() float64 {
	if w, ok := glyphWidths["accidental/"+a.Sign]; ok {
		return w + modifierPadding
	}
	return glyphWidths["accidental/n"] + modifierPadding
}

func (a *Accidental) Position() ModifierPosition { return ModifierLeft }

// Dot is an augmentation dot drawn right of the notehead.
type Dot struct{}

// NewDot creates a dot modifier.
func NewDot() *Dot { return &Dot{} }

func (d *Dot) Width() float64             { return glyphWidths["dot"] + modifierPadding }
func (d *Dot) Position() ModifierPosition { return ModifierRight }

// modifierPadding separates a modifier from its neighbor.
const modifierPadding = 2
