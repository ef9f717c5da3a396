package debug

import "fmt"

// Stats is a snapshot of the animation subsystems for the overlay.
type Stats struct {
	Listeners     int
	PendingFrames int
	Frames        uint64

	ScrollY   float64
	MaxScroll float64

	ParallaxElements int
	ParallaxPasses   int

	ParticleState string
	Particles     int
	ParticleFrame uint64

	RevealTargets int
	Revealed      int

	CursorEnabled bool
	Recording     bool
}

type StatSection struct {
	Title string
	Lines []string
}

// Sections groups the snapshot into labelled blocks.
func (s Stats) Sections() []StatSection {
	cursor := "disabled"
	if s.CursorEnabled {
		cursor = "enabled"
	}

	particles := []string{
		fmt.Sprintf("State: %s", s.ParticleState),
		fmt.Sprintf("Particles: %d", s.Particles),
		fmt.Sprintf("Steps: %d", s.ParticleFrame),
	}
	if s.Recording {
		particles = append(particles, "Recording trace")
	}

	return []StatSection{
		{"Host", []string{
			fmt.Sprintf("Listeners: %d", s.Listeners),
			fmt.Sprintf("Pending Frames: %d", s.PendingFrames),
			fmt.Sprintf("Frames Run: %d", s.Frames),
			fmt.Sprintf("Scroll: %.0f / %.0f", s.ScrollY, s.MaxScroll),
		}},
		{"Parallax", []string{
			fmt.Sprintf("Elements: %d", s.ParallaxElements),
			fmt.Sprintf("Passes: %d", s.ParallaxPasses),
		}},
		{"Particles", particles},
		{"Reveal", []string{
			fmt.Sprintf("Revealed: %d / %d", s.Revealed, s.RevealTargets),
		}},
		{"Cursor", []string{cursor}},
	}
}
