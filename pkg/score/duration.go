// Package score models the musical input of the layout engine: notes,
// rests, voices, staves, and beams, plus the TOML/JSON score document
// format. The engrave package consumes these types through the Tickable
// interface and writes final horizontal positions back onto them.
package score

import (
	"fmt"
	"strings"

	"github.com/matzehuels/engrave/pkg/fraction"
)

// Resolution is the number of ticks in a whole note. All durations are
// exact fractions of this value.
const Resolution = 16384

// durationTicks maps duration codes to their tick value.
var durationTicks = map[string]int64{
	"w":  Resolution,
	"h":  Resolution / 2,
	"q":  Resolution / 4,
	"8":  Resolution / 8,
	"16": Resolution / 16,
	"32": Resolution / 32,
	"64": Resolution / 64,
}

// glyphWidths is the fixed width metrics table, in pixels. Real glyph
// measurement lives in the rendering backend; the engine only needs a
// stable minimum-width figure per symbol.
var glyphWidths = map[string]float64{
	"notehead":  10.5,
	"rest/w":    12.5,
	"rest/h":    12.5,
	"rest/q":    8.5,
	"rest/8":    10,
	"rest/16":   11,
	"rest/32":   12,
	"rest/64":   14,
	"barline":   1,
	"clef":      26,
	"timesig":   18,
	"accidental/#": 10,
	"accidental/b": 8.5,
	"accidental/n": 8,
	"dot":       4,
}

// DurationTicks returns the exact tick value of a duration code with the
// given number of dots, reduced to lowest terms. Each dot extends the
// value by half of the previous extension.
func DurationTicks(code string, dots int) (fraction.Fraction, error) {
	base, ok := durationTicks[code]
	if !ok {
		return fraction.Fraction{}, fmt.Errorf("unknown duration code %q", code)
	}
	if dots < 0 || dots > 3 {
		return fraction.Fraction{}, fmt.Errorf("unsupported dot count %d", dots)
	}
	// base * (2^(dots+1) - 1) / 2^dots
	num := base * (int64(1)<<(dots+1) - 1)
	den := int64(1) << dots
	return fraction.New(num, den).Simplify(), nil
}

// noteIndex returns the diatonic index of a key such as "c/4" or "f#/5":
// letter steps from C plus seven per octave. The accidental, if any, does
// not affect the index.
func noteIndex(key string) (int, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(key)), "/")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed key %q: want letter/octave", key)
	}
	// The letter is always the first rune; anything after it ("#", "b",
	// "n") is an accidental.
	letter := parts[0]
	if len(letter) > 1 {
		letter = letter[:1]
	}
	steps := map[string]int{"c": 0, "d": 1, "e": 2, "f": 3, "g": 4, "a": 5, "b": 6}
	step, ok := steps[letter]
	if !ok {
		return 0, fmt.Errorf("unknown note letter %q in key %q", letter, key)
	}
	var octave int
	if _, err := fmt.Sscanf(parts[1], "%d", &octave); err != nil {
		return 0, fmt.Errorf("bad octave in key %q: %w", key, err)
	}
	return step + 7*octave, nil
}

// trebleTopIndex is the diatonic index of F5, the top line of a treble
// stave. Lines count downward from 0 (top line) in half-line steps.
const trebleTopIndex = 3 + 7*5

// LineForKey maps a key to its stave line for the treble clef. Line 0 is
// the top stave line, line 4 the bottom; each diatonic step moves half a
// line, increasing downward.
func LineForKey(key string) (float64, error) {
	idx, err := noteIndex(key)
	if err != nil {
		return 0, err
	}
	return float64(trebleTopIndex-idx) / 2, nil
}

// Default rest lines: rests sit on the middle line unless moved, except
// whole rests which hang from the line above.
const (
	DefaultRestLine      = 2
	DefaultWholeRestLine = 1
)

// defaultRestLine returns the default line for a rest of the given
// duration code.
func defaultRestLine(code string) float64 {
	if code == "w" {
		return DefaultWholeRestLine
	}
	return DefaultRestLine
}

// restGlyphWidth returns the rest glyph width for a duration code.
func restGlyphWidth(code string) float64 {
	if w, ok := glyphWidths["rest/"+code]; ok {
		return w
	}
	return glyphWidths["rest/q"]
}
