package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func (d *DebugOverlay) drawPerformance(ui *UIContext) {
	ui.Header("Timing:")
	ui.IndentLabel(fmt.Sprintf("FPS: %.1f", float64(rl.GetFPS())), 10)
	ui.IndentLabel(fmt.Sprintf("Frame Time: %.2f ms", rl.GetFrameTime()*1000), 10)

	ui.Separator()

	ui.Header("Memory Usage:")
	ui.IndentLabel(fmt.Sprintf("Allocated: %.2f MB", float64(d.memStats.Alloc)/1024/1024), 10)
	ui.IndentLabel(fmt.Sprintf("Process Total: %.2f MB", float64(d.memStats.Sys)/1024/1024), 10)
	ui.IndentLabel(fmt.Sprintf("Goroutines: %d", runtime.NumGoroutine()), 10)

	ui.Separator()

	ui.Header("Window:")
	ui.IndentLabel(fmt.Sprintf("Size: %dx%d", rl.GetScreenWidth(), rl.GetScreenHeight()), 10)
	ui.IndentLabel(fmt.Sprintf("UI Scale: %.2fx", d.uiScale), 10)
}
