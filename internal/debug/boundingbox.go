package debug

import (
	"portfolio-motion/internal/page"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	parallaxBoxColor  = rl.NewColor(0, 255, 0, 255)
	revealBoxColor    = rl.NewColor(0, 255, 255, 150)
	clickableBoxColor = rl.NewColor(255, 255, 0, 255)
	layoutBoxColor    = rl.NewColor(255, 255, 255, 60)
)

// boxColor picks the outline for an element; the first matching role wins.
func boxColor(el *page.Element) rl.Color {
	switch {
	case el.Clickable():
		return clickableBoxColor
	case el.HasClass("parallax"):
		return parallaxBoxColor
	case el.HasClass("reveal"):
		return revealBoxColor
	}
	return layoutBoxColor
}

func (d *DebugOverlay) drawElementBoundingBoxes(doc *page.Document) {
	for _, el := range doc.Elements() {
		if el.Detached() || el.Section == nil {
			continue
		}

		// Red marks the corner of the box the animations measure.
		if el.HasClass("parallax") {
			if measured, ok := el.BoundingRect(); ok {
				rl.DrawRectangle(int32(measured.X-2), int32(measured.Y-2), 4, 4, rl.Red)
			}
		}

		box := el.VisualRect()
		rl.DrawRectangleLines(int32(box.X), int32(box.Y), int32(box.Width), int32(box.Height), boxColor(el))
	}
}
