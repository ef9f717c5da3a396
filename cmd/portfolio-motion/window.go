package main

import (
	"math"
	"math/rand"
	"time"

	"portfolio-motion/internal/config"
	"portfolio-motion/internal/debug"
	"portfolio-motion/internal/engine2D"
	"portfolio-motion/internal/engine2D/canvas"
	"portfolio-motion/internal/engine2D/cursor"
	"portfolio-motion/internal/engine2D/parallax"
	"portfolio-motion/internal/engine2D/particle"
	"portfolio-motion/internal/engine2D/reveal"
	"portfolio-motion/internal/host"
	"portfolio-motion/internal/page"
	"portfolio-motion/internal/trace"
	"portfolio-motion/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	wheelStep       = 80.0
	arrowStep       = 40.0
	scrollSmoothing = 0.25
)

// Window hosts the page: it turns raylib input into host events, runs the
// frame queue once per display frame and draws the result.
type Window struct {
	cfg    config.Config
	doc    *page.Document
	events *host.EventBus
	frames *host.FrameQueue

	surface   *canvas.Canvas
	parallax  *parallax.Engine
	particles *particle.Simulation
	reveal    *reveal.Watcher
	cursor    *cursor.Cursor
	recorder  *trace.Recorder

	renderer     *engine2D.Renderer
	debugOverlay *debug.DebugOverlay

	startTime     time.Time
	lastFrameTime time.Time
	width, height int

	scrollTarget   float64
	pointerInside  bool
	pointerX       float64
	pointerY       float64
	hovering       bool
	globalMouseErr bool
}

func NewWindow(cfg config.Config, doc *page.Document, recorder *trace.Recorder) *Window {
	window := &Window{
		cfg:           cfg,
		doc:           doc,
		events:        host.NewEventBus(),
		frames:        host.NewFrameQueue(),
		recorder:      recorder,
		renderer:      engine2D.NewRenderer(engine2D.DefaultTheme()),
		debugOverlay:  debug.NewDebugOverlay(),
		startTime:     time.Now(),
		lastFrameTime: time.Now(),
		width:         rl.GetScreenWidth(),
		height:        rl.GetScreenHeight(),
		pointerX:      -1,
		pointerY:      -1,
	}
	doc.SetViewport(float64(window.width), float64(window.height))

	window.parallax = parallax.Attach(doc, window.events, window.frames, parallax.Options{})
	window.particles = window.attachParticles()
	window.reveal = reveal.Attach(doc, window.events, window.frames, reveal.Options{})
	window.cursor = cursor.Attach(window.events, window.frames, cursor.Options{
		FPS:    cfg.FPS,
		Coarse: cfg.Coarse,
	})
	if window.cursor.Enabled() {
		rl.HideCursor()
	}

	if cfg.GlobalMouse {
		if err := utils.InitX11(); err != nil {
			utils.Warn("Global mouse unavailable, using window events: %v", err)
			window.globalMouseErr = true
		}
	}

	utils.Debug("Window: %d listeners, %d pending frames after attach", window.events.Count(), window.frames.Pending())
	return window
}

func (window *Window) attachParticles() *particle.Simulation {
	opts := particle.Options{
		Count:          window.cfg.Particles,
		Density:        window.cfg.Density,
		FollowViewport: window.cfg.FollowViewport,
	}
	if window.cfg.Seed != 0 {
		opts.Rand = rand.New(rand.NewSource(window.cfg.Seed))
	}

	var surface particle.Surface
	if el := window.doc.Canvas(); el != nil {
		window.surface = canvas.New(el)
		if window.cfg.FollowViewport {
			window.surface.Resize(float64(window.width), float64(window.height))
		}
		surface = window.surface
	}

	var sim *particle.Simulation
	if window.recorder != nil {
		opts.OnFrame = func(frame uint64, particles []particle.Particle) {
			w, h := sim.Size()
			window.recorder.Observe(frame, w, h, particles)
		}
	}
	sim = particle.Attach(surface, window.events, window.frames, opts)
	return sim
}

func (window *Window) Run() {
	rl.SetTargetFPS(int32(window.cfg.FPS))

	for !rl.WindowShouldClose() {
		window.Update()

		rl.BeginDrawing()
		window.Draw()
		rl.EndDrawing()
	}
}

func (window *Window) Update() {
	currentTime := time.Now()
	deltaTime := currentTime.Sub(window.lastFrameTime).Seconds()
	window.lastFrameTime = currentTime

	if rl.IsKeyPressed(rl.KeyF8) {
		utils.ShowDebugUI = !utils.ShowDebugUI
	}

	window.updateViewport()
	scrolled := window.updateScroll()
	window.updatePointer(scrolled)

	window.frames.RunFrame(time.Since(window.startTime))
	window.doc.Advance(deltaTime)

	if utils.ShowDebugUI {
		window.debugOverlay.Update()
	}
}

func (window *Window) updateViewport() {
	if !rl.IsWindowResized() {
		return
	}
	width, height := rl.GetScreenWidth(), rl.GetScreenHeight()
	if width == window.width && height == window.height {
		return
	}
	window.width, window.height = width, height

	window.doc.SetViewport(float64(width), float64(height))
	window.scrollTarget = math.Min(window.scrollTarget, window.doc.MaxScroll())
	window.events.Dispatch(host.Event{
		Type:   host.EventResize,
		Width:  float64(width),
		Height: float64(height),
	})
	utils.Debug("Window: resized to %dx%d", width, height)
}

// updateScroll eases the page towards the scroll target and reports whether
// the position changed this frame.
func (window *Window) updateScroll() bool {
	delta := 0.0
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		overOverlay := utils.ShowDebugUI && window.debugOverlay.Captures(window.pointerX, window.pointerY)
		if !overOverlay {
			delta -= float64(wheel) * wheelStep
		}
	}

	pageStep := float64(window.height) * 0.9
	switch {
	case rl.IsKeyDown(rl.KeyDown):
		delta += arrowStep
	case rl.IsKeyDown(rl.KeyUp):
		delta -= arrowStep
	case rl.IsKeyPressed(rl.KeyPageDown), rl.IsKeyPressed(rl.KeySpace):
		delta += pageStep
	case rl.IsKeyPressed(rl.KeyPageUp):
		delta -= pageStep
	case rl.IsKeyPressed(rl.KeyHome):
		delta = -window.scrollTarget
	case rl.IsKeyPressed(rl.KeyEnd):
		delta = window.doc.MaxScroll() - window.scrollTarget
	}
	window.scrollTarget = math.Max(0, math.Min(window.scrollTarget+delta, window.doc.MaxScroll()))

	current := window.doc.ScrollY()
	diff := window.scrollTarget - current
	if diff == 0 {
		return false
	}
	next := current + diff*scrollSmoothing
	if math.Abs(diff) < 0.5 {
		next = window.scrollTarget
	}
	if !window.doc.ScrollTo(next) {
		return false
	}
	window.events.Dispatch(host.Event{Type: host.EventScroll, ScrollY: window.doc.ScrollY()})
	return true
}

func (window *Window) pointer() (float64, float64, bool) {
	if window.cfg.GlobalMouse && !window.globalMouseErr {
		gx, gy, err := utils.GetGlobalMousePosition()
		if err == nil {
			pos := rl.GetWindowPosition()
			return utils.WindowLocalPointer(gx, gy, int(pos.X), int(pos.Y), window.width, window.height)
		}
		utils.Warn("Global mouse query failed, using window events: %v", err)
		window.globalMouseErr = true
	}

	pos := rl.GetMousePosition()
	return float64(pos.X), float64(pos.Y), rl.IsCursorOnScreen()
}

// updatePointer emits enter/leave on boundary crossings, move when the
// pointer moved and over when the clickable state under it changed.
func (window *Window) updatePointer(scrolled bool) {
	x, y, inside := window.pointer()

	if !inside {
		if window.pointerInside {
			window.pointerInside = false
			window.events.Dispatch(host.Event{Type: host.EventPointerLeave, X: x, Y: y})
		}
		return
	}
	if !window.pointerInside {
		window.pointerInside = true
		window.events.Dispatch(host.Event{Type: host.EventPointerEnter, X: x, Y: y})
	}

	moved := x != window.pointerX || y != window.pointerY
	window.pointerX, window.pointerY = x, y
	if moved {
		window.events.Dispatch(host.Event{Type: host.EventPointerMove, X: x, Y: y})
	}

	if moved || scrolled {
		clickable := window.doc.ClickableAt(x, y)
		if clickable != window.hovering {
			window.hovering = clickable
			window.events.Dispatch(host.Event{Type: host.EventPointerOver, X: x, Y: y, Clickable: clickable})
		}
	}
}

func (window *Window) Draw() {
	window.renderer.Render(window.doc, window.surface, window.cursor)

	if utils.ShowDebugUI {
		window.debugOverlay.Draw(window.doc, window.stats())
	}
}

func (window *Window) stats() debug.Stats {
	revealed := 0
	for i := 0; i < window.reveal.Len(); i++ {
		if window.reveal.InView(i) {
			revealed++
		}
	}

	return debug.Stats{
		Listeners:        window.events.Count(),
		PendingFrames:    window.frames.Pending(),
		Frames:           window.frames.Frames(),
		ScrollY:          window.doc.ScrollY(),
		MaxScroll:        window.doc.MaxScroll(),
		ParallaxElements: window.parallax.Len(),
		ParallaxPasses:   window.parallax.Passes(),
		ParticleState:    window.particles.State().String(),
		Particles:        len(window.particles.Particles()),
		ParticleFrame:    window.particles.Frame(),
		RevealTargets:    window.reveal.Len(),
		Revealed:         revealed,
		CursorEnabled:    window.cursor.Enabled(),
		Recording:        window.recorder != nil,
	}
}

// Close detaches every subsystem and releases window resources.
func (window *Window) Close() {
	window.cursor.Detach()
	window.reveal.Detach()
	window.particles.Detach()
	window.parallax.Detach()

	if n := window.events.Count(); n != 0 {
		utils.Warn("Window: %d listeners still registered after teardown", n)
	}

	window.renderer.Unload()
	window.debugOverlay.Unload()
	rl.ShowCursor()
	utils.CloseX11()
}
