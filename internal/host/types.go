package host

import "time"

// Rect is a viewport-relative rectangle, like a DOM client rect.
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }
func (r Rect) Right() float64  { return r.X + r.Width }

// Empty reports a degenerate rectangle (what a detached node reports).
func (r Rect) Empty() bool { return r.Width <= 0 && r.Height <= 0 }

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

type EventType int

const (
	EventScroll EventType = iota
	EventResize
	EventPointerMove
	EventPointerLeave
	EventPointerEnter
	EventPointerOver
)

func (t EventType) String() string {
	switch t {
	case EventScroll:
		return "scroll"
	case EventResize:
		return "resize"
	case EventPointerMove:
		return "pointermove"
	case EventPointerLeave:
		return "pointerleave"
	case EventPointerEnter:
		return "pointerenter"
	case EventPointerOver:
		return "pointerover"
	}
	return "unknown"
}

// Event carries the payload of every host event. Fields not meaningful for a
// given type are zero.
type Event struct {
	Type EventType

	// Pointer position in viewport coordinates.
	X, Y float64

	// Viewport size, set on resize.
	Width, Height float64

	// Document scroll position, set on scroll.
	ScrollY float64

	// Set on pointerover when the target is a link, button or .clickable.
	Clickable bool
}

// Listener is a passive event handler: it cannot cancel or block dispatch.
type Listener func(Event)

type ListenerID uint64

// EventTarget is the window/document event surface the animation engines
// subscribe to.
type EventTarget interface {
	AddListener(eventType EventType, listener Listener) ListenerID
	RemoveListener(id ListenerID)
}

type FrameID uint64

// FrameCallback receives the frame timestamp (time since the host started).
type FrameCallback func(now time.Duration)

// FrameScheduler is the per-frame redraw capability (requestAnimationFrame).
type FrameScheduler interface {
	RequestFrame(callback FrameCallback) FrameID
	CancelFrame(id FrameID)
}
