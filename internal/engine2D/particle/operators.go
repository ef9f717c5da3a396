package particle

import (
	"math"
)

// RepelForce is the displacement scale for a particle at distance d from the
// pointer: (R-d)/R inside the radius, zero outside it and at d == 0.
func RepelForce(d, radius float64) float64 {
	if d <= 0 || d >= radius {
		return 0
	}
	return (radius - d) / radius
}

// repel pushes p directly away from the pointer. The displacement is
// positional only; the drift velocity is untouched.
func repel(p *Particle, mx, my, radius, strength float64) {
	dx := p.X - mx
	dy := p.Y - my
	d := math.Hypot(dx, dy)

	force := RepelForce(d, radius)
	if force == 0 {
		return
	}

	p.X += dx / d * force * strength
	p.Y += dy / d * force * strength
}

// advance moves p by its velocity.
func advance(p *Particle) {
	p.X += p.DX
	p.Y += p.DY
}

// reflect bounces p off the surface walls. Positions past a wall are clamped
// onto it and the velocity component is pointed back inside.
func reflect(p *Particle, width, height float64) {
	if p.X < 0 {
		p.X = 0
		p.DX = math.Abs(p.DX)
	} else if p.X > width {
		p.X = width
		p.DX = -math.Abs(p.DX)
	}

	if p.Y < 0 {
		p.Y = 0
		p.DY = math.Abs(p.DY)
	} else if p.Y > height {
		p.Y = height
		p.DY = -math.Abs(p.DY)
	}
}
