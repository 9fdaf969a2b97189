// Package svg implements the drawing context on plain SVG text. No SVG
// library is involved: the element vocabulary the engraver needs (lines,
// rectangles, ellipses, text) is small enough to write directly.
package svg

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/engrave/pkg/render"
)

// Context accumulates SVG elements and implements [render.Context].
type Context struct {
	buf    bytes.Buffer
	width  float64
	height float64
}

// Option configures a Context.
type Option func(*Context)

// WithBackground fills the frame with a color before any element.
func WithBackground(color string) Option {
	return func(c *Context) {
		fmt.Fprintf(&c.buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			c.width, c.height, color)
	}
}

// NewContext creates a drawing surface of the given frame size.
func NewContext(width, height float64, opts ...Option) *Context {
	c := &Context{width: width, height: height}
	fmt.Fprintf(&c.buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Line draws a stroked line.
func (c *Context) Line(x1, y1, x2, y2, strokeWidth float64) {
	fmt.Fprintf(&c.buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="black" stroke-width="%.2f"/>`+"\n",
		x1, y1, x2, y2, strokeWidth)
}

// FillRect draws a filled rectangle.
func (c *Context) FillRect(x, y, w, h float64) {
	fmt.Fprintf(&c.buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="black"/>`+"\n",
		x, y, w, h)
}

// FillEllipse draws a filled ellipse, rotated around its own center.
// Noteheads use a slight negative rotation.
func (c *Context) FillEllipse(cx, cy, rx, ry, rotation float64) {
	if rotation != 0 {
		fmt.Fprintf(&c.buf, `  <ellipse cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" fill="black" transform="rotate(%.1f %.2f %.2f)"/>`+"\n",
			cx, cy, rx, ry, rotation, cx, cy)
		return
	}
	fmt.Fprintf(&c.buf, `  <ellipse cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" fill="black"/>`+"\n",
		cx, cy, rx, ry)
}

// Text draws a text glyph at the baseline position.
func (c *Context) Text(x, y float64, s string) {
	fmt.Fprintf(&c.buf, `  <text x="%.2f" y="%.2f" font-size="24">%s</text>`+"\n",
		x, y, escape(s))
}

// Bytes closes the document and returns the SVG. The context must not be
// drawn to afterwards.
func (c *Context) Bytes() []byte {
	out := make([]byte, 0, c.buf.Len()+8)
	out = append(out, c.buf.Bytes()...)
	return append(out, []byte("</svg>\n")...)
}

// Width returns the frame width.
func (c *Context) Width() float64 { return c.width }

// Height returns the frame height.
func (c *Context) Height() float64 { return c.height }

func escape(s string) string {
	var out bytes.Buffer
	for _, r := range s {
		switch r {
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		case '&':
			out.WriteString("&amp;")
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

var _ render.Context = (*Context)(nil)
