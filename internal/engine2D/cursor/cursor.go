package cursor

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"portfolio-motion/internal/host"
	"portfolio-motion/internal/utils"
)

const (
	DotSize  = 12.0
	RingSize = 32.0

	hoverRingScale   = 1.5
	hoverRingOpacity = 0.2
)

// SpringConfig describes a damped spring the way motion libraries do.
type SpringConfig struct {
	Stiffness float64
	Damping   float64
	Mass      float64
}

var (
	DefaultDotSpring  = SpringConfig{Stiffness: 500, Damping: 28, Mass: 0.5}
	DefaultRingSpring = SpringConfig{Stiffness: 250, Damping: 20, Mass: 0.8}
)

// AngularFrequency returns sqrt(k/m).
func (c SpringConfig) AngularFrequency() float64 {
	return math.Sqrt(c.Stiffness / c.Mass)
}

// DampingRatio returns c / (2*sqrt(k*m)).
func (c SpringConfig) DampingRatio() float64 {
	return c.Damping / (2 * math.Sqrt(c.Stiffness*c.Mass))
}

type Options struct {
	FPS  int
	Dot  SpringConfig
	Ring SpringConfig
	// Coarse disables the cursor on touch-only hosts.
	Coarse bool
}

func (o Options) withDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = 60
	}
	if o.Dot == (SpringConfig{}) {
		o.Dot = DefaultDotSpring
	}
	if o.Ring == (SpringConfig{}) {
		o.Ring = DefaultRingSpring
	}
	return o
}

// Shape is the drawable state of the dot or the ring. X and Y are the
// top-left corner of the unscaled box.
type Shape struct {
	X, Y    float64
	Size    float64
	Scale   float64
	Opacity float64
	Filled  bool
}

// Center returns the centre of the shape.
func (s Shape) Center() (float64, float64) {
	return s.X + s.Size/2, s.Y + s.Size/2
}

type axis struct {
	pos, vel float64
}

func (a *axis) step(spring harmonica.Spring, target float64) {
	a.pos, a.vel = spring.Update(a.pos, a.vel, target)
}

func (a *axis) settled(target float64) bool {
	return math.Abs(a.pos-target) < 0.01 && math.Abs(a.vel) < 0.01
}

type follower struct {
	spring  harmonica.Spring
	size    float64
	x, y    axis
	scale   axis
	opacity axis
}

func newFollower(cfg SpringConfig, fps int, size float64) follower {
	f := follower{
		spring: harmonica.NewSpring(harmonica.FPS(fps), cfg.AngularFrequency(), cfg.DampingRatio()),
		size:   size,
	}
	f.x.pos = -size / 2
	f.y.pos = -size / 2
	f.scale.pos = 1
	return f
}

func (f *follower) step(t target) {
	f.x.step(f.spring, t.x)
	f.y.step(f.spring, t.y)
	f.scale.step(f.spring, t.scale)
	f.opacity.step(f.spring, t.opacity)
}

func (f *follower) settled(t target) bool {
	return f.x.settled(t.x) && f.y.settled(t.y) && f.scale.settled(t.scale) && f.opacity.settled(t.opacity)
}

type target struct {
	x, y, scale, opacity float64
}

// Cursor is a dot and a trailing ring that chase the pointer on springs.
type Cursor struct {
	events host.EventTarget
	frames host.FrameScheduler
	opts   Options

	dot  follower
	ring follower

	mouseX, mouseY float64
	hovering       bool
	inViewport     bool
	moved          bool

	active    bool
	listeners []host.ListenerID
	frameID   host.FrameID
}

// Attach starts the cursor. With Coarse set it registers nothing.
func Attach(events host.EventTarget, frames host.FrameScheduler, opts Options) *Cursor {
	opts = opts.withDefaults()
	c := &Cursor{
		events:     events,
		frames:     frames,
		opts:       opts,
		dot:        newFollower(opts.Dot, opts.FPS, DotSize),
		ring:       newFollower(opts.Ring, opts.FPS, RingSize),
		inViewport: true,
	}

	if opts.Coarse {
		utils.Debug("Cursor: coarse pointer, custom cursor disabled")
		return c
	}

	c.listeners = []host.ListenerID{
		events.AddListener(host.EventPointerMove, c.onMove),
		events.AddListener(host.EventPointerOver, c.onOver),
		events.AddListener(host.EventPointerEnter, func(host.Event) { c.inViewport = true }),
		events.AddListener(host.EventPointerLeave, func(host.Event) { c.inViewport = false }),
	}
	c.active = true
	c.frameID = frames.RequestFrame(c.onFrame)
	return c
}

func (c *Cursor) onMove(event host.Event) {
	c.mouseX = event.X
	c.mouseY = event.Y
	c.moved = true
}

func (c *Cursor) onOver(event host.Event) {
	c.hovering = event.Clickable
}

func (c *Cursor) onFrame(time.Duration) {
	c.frameID = 0
	if !c.active {
		return
	}
	c.Step()
	c.frameID = c.frames.RequestFrame(c.onFrame)
}

func (c *Cursor) visible() bool {
	return c.moved && c.inViewport
}

func (c *Cursor) dotTarget() target {
	t := target{x: c.mouseX - DotSize/2, y: c.mouseY - DotSize/2, scale: 1}
	if c.hovering {
		t.scale = 0
	}
	if c.visible() {
		t.opacity = 1
	}
	return t
}

func (c *Cursor) ringTarget() target {
	t := target{x: c.mouseX - RingSize/2, y: c.mouseY - RingSize/2, scale: 1}
	if c.hovering {
		t.scale = hoverRingScale
	}
	if c.visible() {
		t.opacity = 1
		if c.hovering {
			t.opacity = hoverRingOpacity
		}
	}
	return t
}

// Step advances both springs by one frame.
func (c *Cursor) Step() {
	c.dot.step(c.dotTarget())
	c.ring.step(c.ringTarget())
}

// Settled reports whether both shapes have come to rest on their targets.
func (c *Cursor) Settled() bool {
	return c.dot.settled(c.dotTarget()) && c.ring.settled(c.ringTarget())
}

func (c *Cursor) Dot() Shape {
	return Shape{
		X:       c.dot.x.pos,
		Y:       c.dot.y.pos,
		Size:    DotSize,
		Scale:   math.Max(0, c.dot.scale.pos),
		Opacity: clamp01(c.dot.opacity.pos),
	}
}

func (c *Cursor) Ring() Shape {
	return Shape{
		X:       c.ring.x.pos,
		Y:       c.ring.y.pos,
		Size:    RingSize,
		Scale:   math.Max(0, c.ring.scale.pos),
		Opacity: clamp01(c.ring.opacity.pos),
		Filled:  c.hovering,
	}
}

func (c *Cursor) Enabled() bool { return c.active }

// Detach cancels the pending frame and removes every listener.
func (c *Cursor) Detach() {
	if !c.active {
		return
	}
	c.active = false
	if c.frameID != 0 {
		c.frames.CancelFrame(c.frameID)
		c.frameID = 0
	}
	for _, id := range c.listeners {
		c.events.RemoveListener(id)
	}
	c.listeners = nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
