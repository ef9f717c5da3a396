package trace

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"portfolio-motion/internal/engine2D/particle"
	"portfolio-motion/internal/host"
)

type fakeSurface struct{ w, h float64 }

func (s *fakeSurface) Bounds() host.Rect             { return host.Rect{Width: s.w, Height: s.h} }
func (s *fakeSurface) Resize(w, h float64)           { s.w, s.h = w, h }
func (s *fakeSurface) Clear()                        {}
func (s *fakeSurface) FillCircle(_, _, _, _ float64) {}

func TestRecordSimulation(t *testing.T) {
	var buf bytes.Buffer
	rec, err := NewRecorder(&buf)
	if err != nil {
		t.Fatalf("NewRecorder failed: %v", err)
	}

	bus := host.NewEventBus()
	frames := host.NewFrameQueue()
	var sim *particle.Simulation
	sim = particle.Attach(&fakeSurface{w: 600, h: 500}, bus, frames, particle.Options{
		Rand: rand.New(rand.NewSource(7)),
		OnFrame: func(frame uint64, ps []particle.Particle) {
			w, h := sim.Size()
			rec.Observe(frame, w, h, ps)
		},
	})
	bus.Dispatch(host.Event{Type: host.EventPointerMove, X: 300, Y: 250})
	for i := 0; i < 120; i++ {
		frames.RunFrame(0)
	}
	last := sim.Particles()
	sim.Detach()

	if err := rec.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if rec.Frames() != 120 {
		t.Fatalf("Expected 120 recorded frames, got %d", rec.Frames())
	}

	r, err := NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	var final Frame
	for {
		frame, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		final = frame
	}

	if final.Index != 120 || final.Width != 600 || final.Height != 500 {
		t.Errorf("Unexpected last frame header: %d %vx%v", final.Index, final.Width, final.Height)
	}
	if len(final.Particles) != len(last) {
		t.Fatalf("Expected %d particles, got %d", len(last), len(final.Particles))
	}
	for i := range last {
		if final.Particles[i] != last[i] {
			t.Fatalf("Particle %d differs: %+v vs %+v", i, final.Particles[i], last[i])
		}
	}
}

func TestSummarize(t *testing.T) {
	var buf bytes.Buffer
	rec, _ := NewRecorder(&buf)

	inside := []particle.Particle{{X: 10, Y: 10, Radius: 2, DX: 0.5, DY: -0.25}}
	outside := []particle.Particle{
		{X: 10, Y: 10, Radius: 2, DX: 0.1},
		{X: 120, Y: 10, Radius: 2, DY: -2},
	}
	rec.Record(5, 100, 100, inside)
	rec.Record(6, 100, 100, outside)
	rec.Record(7, 100, 100, nil)
	rec.Close()

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	s, err := Summarize(r)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	want := Summary{Frames: 3, FirstFrame: 5, LastFrame: 7, MinCount: 0, MaxCount: 2, OutOfBounds: 1, MaxSpeed: 2}
	if s != want {
		t.Errorf("Summary = %+v, want %+v", s, want)
	}
	if !strings.Contains(s.String(), "1 out of bounds") {
		t.Errorf("Unexpected summary text %q", s.String())
	}
	if (Summary{}).String() != "empty trace" {
		t.Errorf("Unexpected empty summary text %q", (Summary{}).String())
	}
}

func TestRepetitiveFramesCompress(t *testing.T) {
	var buf bytes.Buffer
	rec, _ := NewRecorder(&buf)

	ps := make([]particle.Particle, 200)
	for i := range ps {
		ps[i] = particle.Particle{X: 1, Y: 1, Radius: 1}
	}
	rec.Record(1, 10, 10, ps)
	rec.Close()

	raw := headerSize + frameHeaderSize + len(ps)*particleSize
	if buf.Len() >= raw {
		t.Errorf("Expected compressed frame, got %d bytes for %d raw", buf.Len(), raw)
	}
}

func TestReaderRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad magic", []byte("NOPE\x01\x00\x00\x00"), ErrBadMagic},
		{"future version", []byte("PMTR\x09\x00\x00\x00"), ErrVersion},
		{"short header", []byte("PM"), io.ErrUnexpectedEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRecordRejectsOversizedFrame(t *testing.T) {
	var buf bytes.Buffer
	rec, err := NewRecorder(&buf)
	if err != nil {
		t.Fatalf("NewRecorder failed: %v", err)
	}

	err = rec.Record(0, 10, 10, make([]particle.Particle, particle.MaxParticles+1))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Expected ErrTooLarge, got %v", err)
	}
	if err := rec.Record(1, 10, 10, nil); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected the recorder to stay failed, got %v", err)
	}
	if rec.Frames() != 0 {
		t.Errorf("Expected no recorded frames, got %d", rec.Frames())
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Whatever was written must still read back.
	r, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

func TestTruncatedFrame(t *testing.T) {
	var buf bytes.Buffer
	rec, _ := NewRecorder(&buf)
	rec.Record(1, 10, 10, []particle.Particle{{X: 1, Y: 2, Radius: 1}})
	rec.Close()

	data := buf.Bytes()[:buf.Len()-3]
	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if _, err := r.Next(); err == nil || errors.Is(err, io.EOF) {
		t.Errorf("Expected a truncation error, got %v", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.pmtr")

	rec, err := Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	rec.Record(1, 10, 10, []particle.Particle{{X: 1, Y: 2, Radius: 1, DX: 0.1, DY: 0.2}})
	if err := rec.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()
	s, err := Summarize(r)
	if err != nil || s.Frames != 1 {
		t.Errorf("Expected one frame, got %+v (err=%v)", s, err)
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected an error for a missing trace")
	}
}
