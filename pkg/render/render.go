// Package render defines the drawing contract between the layout engine
// and its rendering backends.
//
// The engine itself never draws; it only positions. Anything that can draw
// lines, rectangles, ellipses, and text can display a formatted score, so
// the contract is kept to those primitives. The svg subpackage provides the
// default backend.
package render

// Context is a minimal 2D drawing surface. Coordinates are in user units
// (pixels in the SVG backend), origin top-left, y growing downward.
type Context interface {
	// Line draws a stroked line of the given width.
	Line(x1, y1, x2, y2, strokeWidth float64)

	// FillRect fills an axis-aligned rectangle.
	FillRect(x, y, w, h float64)

	// FillEllipse fills an ellipse centered at (cx, cy). Noteheads pass a
	// non-zero rotation in degrees.
	FillEllipse(cx, cy, rx, ry, rotation float64)

	// Text draws s with its baseline at (x, y).
	Text(x, y float64, s string)
}
