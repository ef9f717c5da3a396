package canvas

import (
	"portfolio-motion/internal/host"
)

// Box is the element a canvas is laid over.
type Box interface {
	BoundingRect() (host.Rect, bool)
}

type Circle struct {
	X, Y   float64
	Radius float64
	Alpha  float64
}

// Canvas records the circles drawn on it each frame; the renderer replays
// the list inside the canvas bounds.
type Canvas struct {
	box Box

	// width/height override the element size after a Resize.
	width, height float64
	resized       bool

	circles []Circle
	clears  uint64
}

func New(box Box) *Canvas {
	return &Canvas{box: box}
}

// Bounds is the viewport-relative canvas box. A detached element reports
// an empty box at the origin.
func (c *Canvas) Bounds() host.Rect {
	r, ok := c.box.BoundingRect()
	if !ok {
		r = host.Rect{}
	}
	if c.resized {
		r.Width, r.Height = c.width, c.height
	}
	return r
}

func (c *Canvas) Resize(width, height float64) {
	c.width, c.height = width, height
	c.resized = true
}

func (c *Canvas) Clear() {
	c.circles = c.circles[:0]
	c.clears++
}

func (c *Canvas) FillCircle(x, y, radius, alpha float64) {
	c.circles = append(c.circles, Circle{X: x, Y: y, Radius: radius, Alpha: alpha})
}

// Circles returns the current frame's display list. The slice is reused on
// the next Clear.
func (c *Canvas) Circles() []Circle { return c.circles }

// Clears counts frames drawn so far.
func (c *Canvas) Clears() uint64 { return c.clears }
