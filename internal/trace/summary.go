package trace

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// Summary describes a whole trace.
type Summary struct {
	Frames     int
	FirstFrame uint64
	LastFrame  uint64
	MinCount   int
	MaxCount   int

	// OutOfBounds counts particles found outside their frame's area.
	OutOfBounds int
	// MaxSpeed is the largest |velocity| component seen.
	MaxSpeed float64
}

// Summarize reads every remaining frame of r.
func Summarize(r *Reader) (Summary, error) {
	var s Summary
	for {
		frame, err := r.Next()
		if errors.Is(err, io.EOF) {
			return s, nil
		}
		if err != nil {
			return s, err
		}

		n := len(frame.Particles)
		if s.Frames == 0 {
			s.FirstFrame = frame.Index
			s.MinCount, s.MaxCount = n, n
		}
		s.Frames++
		s.LastFrame = frame.Index
		s.MinCount = min(s.MinCount, n)
		s.MaxCount = max(s.MaxCount, n)

		for _, p := range frame.Particles {
			if p.X < 0 || p.X > frame.Width || p.Y < 0 || p.Y > frame.Height {
				s.OutOfBounds++
			}
			s.MaxSpeed = math.Max(s.MaxSpeed, math.Max(math.Abs(p.DX), math.Abs(p.DY)))
		}
	}
}

func (s Summary) String() string {
	if s.Frames == 0 {
		return "empty trace"
	}
	return fmt.Sprintf("frames %d..%d (%d recorded), %d-%d particles, max speed %.3f, %d out of bounds",
		s.FirstFrame, s.LastFrame, s.Frames, s.MinCount, s.MaxCount, s.MaxSpeed, s.OutOfBounds)
}
