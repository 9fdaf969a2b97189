// Package engrave computes the horizontal placement of musical symbols
// along a shared time axis.
//
// Voices are merged onto one tick grid: every tickable lands in the
// alignment group (tick context) for its exact scaled tick offset, so
// simultaneous events across voices and staves share an x position. The
// Formatter then runs a two-pass justification over the grid: pass one
// lays groups out at their minimum widths while avoiding collisions with
// neighboring groups' side modifiers, pass two distributes leftover width
// proportionally to elapsed tick duration.
//
// A Formatter owns its grids and cached minimum width; it is not safe for
// concurrent use. It does not own the voices it formats - it writes x
// positions (and, for aligned rests, stave lines) back onto the caller's
// tickables and returns.
package engrave
