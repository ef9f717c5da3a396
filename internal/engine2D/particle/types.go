package particle

import (
	"math"

	"portfolio-motion/internal/host"
)

type Particle struct {
	X, Y   float64
	Radius float64
	DX, DY float64
}

// Surface is the drawing target of the simulation (the hero canvas).
type Surface interface {
	// Bounds is the surface's viewport-relative box; its size is the
	// simulation area.
	Bounds() host.Rect
	Resize(width, height float64)
	Clear()
	FillCircle(x, y, radius, alpha float64)
}

// Rand is the random source used for seeding. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

type State int

const (
	StateUninitialized State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

const (
	DefaultDensity       = 15000.0
	DefaultFixedCount    = 40
	DefaultRepelRadius   = 100.0
	DefaultRepelStrength = 5.0
	DefaultAlpha         = 0.5

	// MaxParticles caps any population, derived or overridden.
	MaxParticles = 1 << 20
	// MinDensity is the smallest area per particle Attach accepts.
	MinDensity = 1.0
)

// PointerSentinel is where the pointer parks while outside the viewport.
var PointerSentinel = [2]float64{-1000, -1000}

type Options struct {
	// Count overrides the population size when > 0.
	Count int
	// Density is canvas area per particle. Zero uses DefaultDensity; a
	// negative value selects the fixed-size population instead.
	Density float64
	// FixedCount is the population when Density < 0.
	FixedCount int

	RepelRadius   float64
	RepelStrength float64
	Alpha         float64

	// FollowViewport resizes the surface to the viewport and re-seeds on
	// every resize event.
	FollowViewport bool

	// Rand seeds particles. Nil uses a time-seeded source.
	Rand Rand

	// OnFrame observes the population after every step.
	OnFrame func(frame uint64, particles []Particle)
}

func (o Options) withDefaults() Options {
	if o.Density == 0 || math.IsNaN(o.Density) || math.IsInf(o.Density, 0) {
		o.Density = DefaultDensity
	} else if o.Density > 0 && o.Density < MinDensity {
		o.Density = MinDensity
	}
	if o.FixedCount <= 0 {
		o.FixedCount = DefaultFixedCount
	}
	if o.RepelRadius <= 0 {
		o.RepelRadius = DefaultRepelRadius
	}
	if o.RepelStrength == 0 {
		o.RepelStrength = DefaultRepelStrength
	}
	if o.Alpha <= 0 {
		o.Alpha = DefaultAlpha
	}
	return o
}
