package parallax

import (
	"math"
	"strconv"
	"strings"
	"time"

	"portfolio-motion/internal/host"
	"portfolio-motion/internal/utils"
)

const (
	DefaultMarker    = "parallax"
	DefaultSpeedAttr = "data-speed"
	DefaultSpeed     = 0.15
)

// Element is a node opted into the engine.
type Element interface {
	// BoundingRect returns the current viewport-relative box. connected is
	// false once the node has left the document.
	BoundingRect() (rect host.Rect, connected bool)
	Attr(name string) (string, bool)
	// SetTranslateY sets the vertical visual offset, leaving everything else alone.
	SetTranslateY(y float64)
}

// Document supplies tracked elements and viewport geometry.
type Document interface {
	QueryAll(marker string) []Element
	ViewportHeight() float64
}

type Options struct {
	Marker    string
	SpeedAttr string
	// DefaultSpeed applies to elements without a usable speed attribute.
	// Nil selects DefaultSpeed; Speed(0) keeps such elements still.
	DefaultSpeed *float64
}

// Speed returns a pointer for Options.DefaultSpeed.
func Speed(v float64) *float64 { return &v }

func (o Options) withDefaults() Options {
	if o.Marker == "" {
		o.Marker = DefaultMarker
	}
	if o.SpeedAttr == "" {
		o.SpeedAttr = DefaultSpeedAttr
	}
	if o.DefaultSpeed == nil || !finite(*o.DefaultSpeed) {
		o.DefaultSpeed = Speed(DefaultSpeed)
	}
	return o
}

// Engine maps each tracked element's distance from the viewport centre to a
// vertical offset, once per frame at most.
type Engine struct {
	doc    Document
	events host.EventTarget
	frames host.FrameScheduler
	opts   Options

	elements  []Element
	listeners []host.ListenerID

	pending bool
	frameID host.FrameID
	passes  int
	closed  bool
}

// Attach snapshots the matching elements and subscribes to scroll and
// resize. With no matching elements it registers nothing.
func Attach(doc Document, events host.EventTarget, frames host.FrameScheduler, opts Options) *Engine {
	e := &Engine{
		doc:    doc,
		events: events,
		frames: frames,
		opts:   opts.withDefaults(),
	}

	e.elements = doc.QueryAll(e.opts.Marker)
	if len(e.elements) == 0 {
		utils.Debug("Parallax: no .%s elements, engine idle", e.opts.Marker)
		return e
	}

	e.subscribe()
	e.schedule()

	utils.Debug("Parallax: tracking %d elements", len(e.elements))
	return e
}

func (e *Engine) subscribe() {
	onChange := func(host.Event) { e.schedule() }
	e.listeners = append(e.listeners,
		e.events.AddListener(host.EventScroll, onChange),
		e.events.AddListener(host.EventResize, onChange),
	)
}

// schedule requests a recomputation unless one is already pending.
func (e *Engine) schedule() {
	if e.closed || e.pending {
		return
	}
	e.pending = true
	e.frameID = e.frames.RequestFrame(e.onFrame)
}

func (e *Engine) onFrame(time.Duration) {
	e.pending = false
	e.frameID = 0
	e.Update()
}

// Update runs one recomputation pass immediately.
func (e *Engine) Update() {
	viewportHeight := e.doc.ViewportHeight()
	for _, el := range e.elements {
		e.apply(el, viewportHeight)
	}
	e.passes++
}

func (e *Engine) apply(el Element, viewportHeight float64) {
	defer func() {
		if r := recover(); r != nil {
			utils.Error("Parallax: skipping element after panic: %v", r)
		}
	}()

	rect, connected := el.BoundingRect()
	if !connected {
		return
	}

	speed := e.speedOf(el)
	el.SetTranslateY(TranslateY(rect.Top(), rect.Height, viewportHeight, speed))
}

func (e *Engine) speedOf(el Element) float64 {
	fallback := *e.opts.DefaultSpeed
	raw, ok := el.Attr(e.opts.SpeedAttr)
	if !ok {
		return fallback
	}
	speed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !finite(speed) {
		return fallback
	}
	return speed
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// TranslateY is the vertical offset for an element whose box starts at top
// with the given height, in a viewport of viewportHeight.
func TranslateY(top, height, viewportHeight, speed float64) float64 {
	offsetFromCenter := top + height/2 - viewportHeight/2
	return -offsetFromCenter * speed
}

// Refresh re-scans the document for tracked elements. Listeners are added or
// removed when the set becomes non-empty or empty.
func (e *Engine) Refresh() {
	if e.closed {
		return
	}

	e.elements = e.doc.QueryAll(e.opts.Marker)
	switch {
	case len(e.elements) == 0 && len(e.listeners) > 0:
		e.release()
	case len(e.elements) > 0 && len(e.listeners) == 0:
		e.subscribe()
	}
	if len(e.elements) > 0 {
		e.schedule()
	}
}

// Detach cancels any pending pass and unsubscribes. Safe to call twice.
func (e *Engine) Detach() {
	if e.closed {
		return
	}
	e.release()
	e.elements = nil
	e.closed = true
}

func (e *Engine) release() {
	if e.pending {
		e.frames.CancelFrame(e.frameID)
		e.pending = false
		e.frameID = 0
	}
	for _, id := range e.listeners {
		e.events.RemoveListener(id)
	}
	e.listeners = nil
}

func (e *Engine) Len() int       { return len(e.elements) }
func (e *Engine) Pending() bool  { return e.pending }
func (e *Engine) Passes() int    { return e.passes }
func (e *Engine) Listeners() int { return len(e.listeners) }
