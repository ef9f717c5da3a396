package reveal

import (
	"math"
	"time"

	"portfolio-motion/internal/host"
	"portfolio-motion/internal/utils"
)

const (
	DefaultMarker    = "reveal"
	DefaultThreshold = 0.3
)

type Element interface {
	BoundingRect() (rect host.Rect, connected bool)
	SetRevealed(revealed bool)
}

type Document interface {
	RevealTargets(marker string) []Element
	ViewportHeight() float64
	ScrollY() float64
}

type Options struct {
	Marker    string
	Threshold float64
}

func (o Options) withDefaults() Options {
	if o.Marker == "" {
		o.Marker = DefaultMarker
	}
	if o.Threshold <= 0 || o.Threshold > 1 {
		o.Threshold = DefaultThreshold
	}
	return o
}

// VisibleRatio is the fraction of rect's height inside a viewport of the
// given height. A zero-height rect counts as fully visible when its top is
// on screen.
func VisibleRatio(rect host.Rect, viewportHeight float64) float64 {
	if rect.Height <= 0 {
		if rect.Top() >= 0 && rect.Top() < viewportHeight {
			return 1
		}
		return 0
	}
	visible := math.Min(rect.Bottom(), viewportHeight) - math.Max(rect.Top(), 0)
	if visible <= 0 {
		return 0
	}
	return visible / rect.Height
}

// trigger replays a show-once-per-downward-pass animation for one element.
type trigger struct {
	el           Element
	observed     bool
	intersecting bool
	inView       bool
	hasAnimated  bool
	lastScrollY  float64
}

// observe handles an intersection change the way an intersection observer
// callback would.
func (t *trigger) observe(intersecting bool, scrollY float64) {
	scrollingDown := scrollY > t.lastScrollY

	if intersecting && scrollingDown && !t.hasAnimated {
		t.inView = true
		t.hasAnimated = true
		t.el.SetRevealed(true)
	} else if !intersecting && scrollingDown {
		t.hasAnimated = false
		t.inView = false
		t.el.SetRevealed(false)
	}

	t.lastScrollY = scrollY
}

// Watcher reveals marked elements as they scroll into view going down.
type Watcher struct {
	doc    Document
	events host.EventTarget
	frames host.FrameScheduler
	opts   Options

	triggers  []*trigger
	listeners []host.ListenerID
	pending   bool
	frameID   host.FrameID
	closed    bool
}

// Attach snapshots the marked elements. With none it registers nothing.
func Attach(doc Document, events host.EventTarget, frames host.FrameScheduler, opts Options) *Watcher {
	w := &Watcher{
		doc:    doc,
		events: events,
		frames: frames,
		opts:   opts.withDefaults(),
	}

	for _, el := range doc.RevealTargets(w.opts.Marker) {
		w.triggers = append(w.triggers, &trigger{el: el})
	}
	if len(w.triggers) == 0 {
		return w
	}

	schedule := func(host.Event) { w.schedule() }
	w.listeners = []host.ListenerID{
		events.AddListener(host.EventScroll, schedule),
		events.AddListener(host.EventResize, schedule),
	}
	w.schedule()

	utils.Debug("Reveal: watching %d elements (threshold %.2f)", len(w.triggers), w.opts.Threshold)
	return w
}

func (w *Watcher) schedule() {
	if w.closed || w.pending {
		return
	}
	w.pending = true
	w.frameID = w.frames.RequestFrame(func(time.Duration) {
		w.pending = false
		w.frameID = 0
		w.Update()
	})
}

// Update recomputes intersections and notifies triggers whose state changed.
// The first pass after attach notifies every trigger.
func (w *Watcher) Update() {
	viewportHeight := w.doc.ViewportHeight()
	scrollY := w.doc.ScrollY()

	for _, t := range w.triggers {
		rect, connected := t.el.BoundingRect()
		if !connected {
			continue
		}
		intersecting := VisibleRatio(rect, viewportHeight) >= w.opts.Threshold
		if t.observed && intersecting == t.intersecting {
			continue
		}
		t.observed = true
		t.intersecting = intersecting
		t.observe(intersecting, scrollY)
	}
}

// InView reports the revealed state of the i-th watched element.
func (w *Watcher) InView(i int) bool {
	if i < 0 || i >= len(w.triggers) {
		return false
	}
	return w.triggers[i].inView
}

func (w *Watcher) Len() int { return len(w.triggers) }

func (w *Watcher) Detach() {
	if w.closed {
		return
	}
	w.closed = true
	if w.pending {
		w.frames.CancelFrame(w.frameID)
		w.pending = false
	}
	for _, id := range w.listeners {
		w.events.RemoveListener(id)
	}
	w.listeners = nil
	w.triggers = nil
}
