package particle

import (
	"math/rand"
	"time"

	"portfolio-motion/internal/host"
	"portfolio-motion/internal/utils"
)

// Simulation advances a fixed population of drifting particles on a surface
// once per frame, bouncing them off the walls and away from the pointer.
type Simulation struct {
	surface Surface
	events  host.EventTarget
	frames  host.FrameScheduler
	opts    Options
	rng     Rand

	state     State
	particles []Particle
	width     float64
	height    float64

	mouseX, mouseY float64

	listeners []host.ListenerID
	frameID   host.FrameID
	frame     uint64
}

// Attach starts the simulation on surface. A nil surface leaves the
// simulation Uninitialized: nothing is registered and no frame is requested.
func Attach(surface Surface, events host.EventTarget, frames host.FrameScheduler, opts Options) *Simulation {
	s := &Simulation{
		surface: surface,
		events:  events,
		frames:  frames,
		opts:    opts.withDefaults(),
		state:   StateUninitialized,
		mouseX:  PointerSentinel[0],
		mouseY:  PointerSentinel[1],
	}

	if surface == nil {
		utils.Debug("Particles: no drawing surface, simulation disabled")
		return s
	}

	s.rng = s.opts.Rand
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s.seed()

	s.listeners = append(s.listeners,
		events.AddListener(host.EventPointerMove, s.onPointerMove),
		events.AddListener(host.EventPointerLeave, s.onPointerLeave),
	)
	if s.opts.FollowViewport {
		s.listeners = append(s.listeners, events.AddListener(host.EventResize, s.onResize))
	}

	s.state = StateRunning
	s.frameID = frames.RequestFrame(s.onFrame)

	utils.Debug("Particles: running with %d particles on %.0fx%.0f", len(s.particles), s.width, s.height)
	return s
}

func (s *Simulation) onPointerMove(event host.Event) {
	bounds := s.surface.Bounds()
	s.mouseX = event.X - bounds.X
	s.mouseY = event.Y - bounds.Y
}

func (s *Simulation) onPointerLeave(host.Event) {
	s.mouseX = PointerSentinel[0]
	s.mouseY = PointerSentinel[1]
}

func (s *Simulation) onResize(event host.Event) {
	if event.Width <= 0 || event.Height <= 0 {
		return
	}
	s.surface.Resize(event.Width, event.Height)
	s.seed()
	utils.Debug("Particles: re-seeded %d particles for %.0fx%.0f", len(s.particles), s.width, s.height)
}

func (s *Simulation) onFrame(time.Duration) {
	s.frameID = 0
	if s.state != StateRunning {
		return
	}

	defer func() {
		if s.state == StateRunning {
			s.frameID = s.frames.RequestFrame(s.onFrame)
		}
	}()

	s.Step()
}

// Step runs one frame of the simulation: clear, repel, draw, advance,
// reflect. A panic is logged and swallowed so the loop survives it.
func (s *Simulation) Step() {
	defer func() {
		if r := recover(); r != nil {
			utils.Error("Particles: frame %d aborted: %v", s.frame, r)
		}
	}()

	s.surface.Clear()

	for i := range s.particles {
		p := &s.particles[i]

		repel(p, s.mouseX, s.mouseY, s.opts.RepelRadius, s.opts.RepelStrength)
		s.surface.FillCircle(p.X, p.Y, p.Radius, s.opts.Alpha)
		advance(p)
		reflect(p, s.width, s.height)
	}

	s.frame++
	if s.opts.OnFrame != nil {
		s.opts.OnFrame(s.frame, s.particles)
	}
}

// Detach stops the loop, cancels the in-flight frame and removes listeners.
func (s *Simulation) Detach() {
	if s.state != StateRunning {
		return
	}

	if s.frameID != 0 {
		s.frames.CancelFrame(s.frameID)
		s.frameID = 0
	}
	for _, id := range s.listeners {
		s.events.RemoveListener(id)
	}
	s.listeners = nil
	s.particles = nil
	s.state = StateStopped
}

func (s *Simulation) State() State { return s.state }

// Frame returns how many steps have run.
func (s *Simulation) Frame() uint64 { return s.frame }

// Particles returns a copy of the current population.
func (s *Simulation) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// Pointer returns the tracked pointer in surface coordinates.
func (s *Simulation) Pointer() (float64, float64) {
	return s.mouseX, s.mouseY
}

func (s *Simulation) Size() (float64, float64) {
	return s.width, s.height
}
