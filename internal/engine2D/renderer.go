package engine2D

import (
	"math"
	"os"
	"strings"

	"portfolio-motion/internal/engine2D/canvas"
	"portfolio-motion/internal/engine2D/cursor"
	"portfolio-motion/internal/page"
	"portfolio-motion/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var fontPaths = []string{
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
}

// Renderer draws the page, the particle canvas and the cursor.
type Renderer struct {
	Theme Theme
	font  rl.Font
}

// NewRenderer loads a font from the assets path or the system, falling back
// to raylib's built-in font. Must be called after the window is open.
func NewRenderer(theme Theme) *Renderer {
	r := &Renderer{Theme: theme}

	candidates := append([]string{utils.ResolveAssetPath("fonts/default.ttf")}, fontPaths...)
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			r.font = rl.LoadFontEx(path, 64, nil, 0)
			rl.SetTextureFilter(r.font.Texture, rl.FilterBilinear)
			utils.Debug("Renderer: using font %s", path)
			break
		}
	}
	if r.font.BaseSize == 0 {
		r.font = rl.GetFontDefault()
	}
	return r
}

func (r *Renderer) Unload() {
	if r.font.BaseSize > 0 && r.font.Texture.ID != rl.GetFontDefault().Texture.ID {
		rl.UnloadFont(r.font)
	}
}

// Render draws one frame. surface and cur may be nil.
func (r *Renderer) Render(doc *page.Document, surface *canvas.Canvas, cur *cursor.Cursor) {
	rl.ClearBackground(r.Theme.Background)

	screenH := doc.ViewportHeight()

	for i, section := range doc.Sections() {
		box, ok := section.BoundingRect()
		if !ok || box.Bottom() < 0 || box.Y > screenH {
			continue
		}
		if i%2 == 1 {
			rl.DrawRectangle(int32(box.X), int32(box.Y), int32(box.Width), int32(math.Ceil(box.Height)), r.Theme.Band)
		}
	}

	if surface != nil {
		r.drawCanvas(surface)
	}

	for _, el := range doc.Elements() {
		if el.Section == nil || el.Detached() || el.Container() || el.Tag == "canvas" || el.Text == "" {
			continue
		}
		r.drawElement(el, screenH)
	}

	if cur != nil && cur.Enabled() {
		r.drawCursor(cur)
	}
}

func (r *Renderer) drawCanvas(surface *canvas.Canvas) {
	bounds := surface.Bounds()
	if bounds.Empty() {
		return
	}

	rl.BeginScissorMode(int32(bounds.X), int32(bounds.Y), int32(bounds.Width), int32(bounds.Height))
	for _, c := range surface.Circles() {
		center := rl.NewVector2(float32(bounds.X+c.X), float32(bounds.Y+c.Y))
		rl.DrawCircleV(center, float32(c.Radius), fade(r.Theme.Particle, c.Alpha))
	}
	rl.EndScissorMode()
}

func (r *Renderer) drawElement(el *page.Element, screenH float64) {
	box := el.VisualRect()
	if box.Bottom() < 0 || box.Y > screenH {
		return
	}
	opacity := el.Opacity()
	if opacity <= 0 {
		return
	}

	style := r.Theme.styleFor(el.Tag)
	color := fade(style.Color, opacity)

	if style.Boxed {
		width := r.measure(el.Text, style.Size) + 32
		rect := rl.NewRectangle(float32(box.X), float32(box.Y), width, float32(box.Height))
		rl.DrawRectangleLinesEx(rect, 1.5, fade(r.Theme.Accent, opacity))
		r.drawText(el.Text, float32(box.X)+16, float32(box.Y)+(float32(box.Height)-style.Size)/2, style.Size, color)
		return
	}

	lines := wrap(style.Prefix+el.Text, box.Width, func(s string) float64 {
		return float64(r.measure(s, style.Size))
	})
	y := float32(box.Y)
	for _, line := range lines {
		if float64(y) > box.Bottom() {
			break
		}
		r.drawText(line, float32(box.X), y, style.Size, color)
		y += style.Size * 1.3
	}
}

func (r *Renderer) drawCursor(cur *cursor.Cursor) {
	ring := cur.Ring()
	if ring.Opacity > 0 && ring.Scale > 0 {
		cx, cy := ring.Center()
		radius := float32(ring.Size * ring.Scale / 2)
		center := rl.NewVector2(float32(cx), float32(cy))
		if ring.Filled {
			rl.DrawCircleV(center, radius, fade(r.Theme.Text, ring.Opacity))
		} else {
			rl.DrawRing(center, radius-1.5, radius, 0, 360, 48, fade(r.Theme.Text, ring.Opacity))
		}
	}

	dot := cur.Dot()
	if dot.Opacity > 0 && dot.Scale > 0 {
		cx, cy := dot.Center()
		rl.DrawCircleV(rl.NewVector2(float32(cx), float32(cy)), float32(dot.Size*dot.Scale/2), fade(r.Theme.Text, dot.Opacity))
	}
}

func (r *Renderer) drawText(text string, x, y, size float32, color rl.Color) {
	rl.DrawTextEx(r.font, text, rl.NewVector2(x, y), size, 1, color)
}

func (r *Renderer) measure(text string, size float32) float32 {
	return rl.MeasureTextEx(r.font, text, size, 1).X
}

// wrap breaks text into lines no wider than maxWidth. A single word wider
// than maxWidth gets a line of its own.
func wrap(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if measure(candidate) > maxWidth {
			lines = append(lines, line)
			line = w
			continue
		}
		line = candidate
	}
	return append(lines, line)
}

// fade scales the alpha channel by opacity.
func fade(c rl.Color, opacity float64) rl.Color {
	opacity = math.Max(0, math.Min(1, opacity))
	c.A = uint8(math.Round(float64(c.A) * opacity))
	return c
}
