package debug

import (
	"math"
	"os"
	"runtime"
	"time"

	"portfolio-motion/internal/page"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DebugOverlay is the F8 sidebar: timing, memory, animation state and
// optional element bounding boxes.
type DebugOverlay struct {
	ShowBoundingBoxes bool

	// UI State
	fontHeight   int
	lineHeight   int
	sidebarWidth int
	uiScale      float64
	font         rl.Font

	// Input State
	prevLeftMouseButton bool
	mouseX              int
	mouseY              int
	clicked             bool

	// Performance Monitoring
	lastUpdateTime time.Time
	frameCount     int
	fps            float64
	memStats       runtime.MemStats
}

func NewDebugOverlay() *DebugOverlay {
	d := &DebugOverlay{lastUpdateTime: time.Now()}
	d.updateLayout()

	fontPaths := []string{
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/liberation/LiberationSans-Regular.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	}
	for _, path := range fontPaths {
		if _, err := os.Stat(path); err == nil {
			d.font = rl.LoadFontEx(path, 64, nil, 0)
			rl.SetTextureFilter(d.font.Texture, rl.FilterBilinear)
			break
		}
	}
	return d
}

// Unload releases the overlay font, if one was loaded.
func (d *DebugOverlay) Unload() {
	if d.font.BaseSize > 0 {
		rl.UnloadFont(d.font)
		d.font = rl.Font{}
	}
}

func (d *DebugOverlay) updateLayout() {
	monitorHeight := rl.GetMonitorHeight(rl.GetCurrentMonitor())
	scale := math.Max(1.0, float64(monitorHeight)/1080.0)
	d.fontHeight = int(16 * scale)
	d.lineHeight = int(24 * scale)
	d.sidebarWidth = int(360 * scale)
	d.uiScale = scale
}

func (d *DebugOverlay) Update() {
	d.updateLayout()

	d.frameCount++
	now := time.Now()
	if now.Sub(d.lastUpdateTime) >= time.Second {
		d.fps = float64(d.frameCount) / now.Sub(d.lastUpdateTime).Seconds()
		d.frameCount = 0
		d.lastUpdateTime = now
		runtime.ReadMemStats(&d.memStats)
	}

	mPos := rl.GetMousePosition()
	d.mouseX = int(mPos.X)
	d.mouseY = int(mPos.Y)

	leftPressed := rl.IsMouseButtonDown(rl.MouseLeftButton)
	d.clicked = leftPressed && !d.prevLeftMouseButton
	d.prevLeftMouseButton = leftPressed
}

// Captures reports whether the pointer is over the sidebar, so the page
// should not receive it.
func (d *DebugOverlay) Captures(x, y float64) bool {
	return x < float64(d.sidebarWidth)
}

func (d *DebugOverlay) Draw(doc *page.Document, stats Stats) {
	if d.ShowBoundingBoxes {
		d.drawElementBoundingBoxes(doc)
	}

	sh := rl.GetScreenHeight()
	rl.DrawRectangle(0, 0, int32(d.sidebarWidth), int32(sh), rl.NewColor(0, 0, 0, 200))

	ui := NewUIContext(10, 10, d.lineHeight, d.fontHeight, d.font, d.mouseX, d.mouseY, d.clicked)
	if ui.Checkbox("Show Bounding Boxes", d.ShowBoundingBoxes) {
		d.ShowBoundingBoxes = !d.ShowBoundingBoxes
	}
	ui.Separator()
	d.drawPerformance(ui)
	ui.Separator()
	for _, section := range stats.Sections() {
		ui.Header(section.Title + ":")
		for _, line := range section.Lines {
			ui.IndentLabel(line, 10)
		}
		ui.Separator()
	}
}
