package particle

import (
	"math"
)

// populationSize returns how many particles a surface of the given size holds.
func (o Options) populationSize(width, height float64) int {
	if o.Count > 0 {
		return min(o.Count, MaxParticles)
	}
	if o.Density < 0 {
		return min(o.FixedCount, MaxParticles)
	}
	n := math.Floor(width * height / o.Density)
	if !(n > 0) {
		return 0
	}
	return int(math.Min(n, MaxParticles))
}

// spawnParticle draws one particle uniformly inside the surface.
func spawnParticle(rng Rand, width, height float64) Particle {
	return Particle{
		X:      rng.Float64() * width,
		Y:      rng.Float64() * height,
		Radius: rng.Float64()*2 + 1,
		DX:     rng.Float64() - 0.5,
		DY:     rng.Float64() - 0.5,
	}
}

// seed replaces the whole population, discarding prior state.
func (s *Simulation) seed() {
	bounds := s.surface.Bounds()
	n := s.opts.populationSize(bounds.Width, bounds.Height)

	s.particles = make([]Particle, n)
	for i := range s.particles {
		s.particles[i] = spawnParticle(s.rng, bounds.Width, bounds.Height)
	}
	s.width = bounds.Width
	s.height = bounds.Height
}
