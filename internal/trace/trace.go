package trace

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pierrec/lz4/v4"

	"portfolio-motion/internal/engine2D/particle"
	"portfolio-motion/internal/utils"
)

const (
	Magic   = "PMTR"
	Version = uint16(1)

	headerSize      = 8
	frameHeaderSize = 8 + 8 + 8 + 4 + 4 + 4
	particleSize    = 5 * 8

	// maxParticles bounds a frame on both sides of the file.
	maxParticles = particle.MaxParticles
)

var (
	ErrBadMagic = errors.New("not a particle trace")
	ErrVersion  = errors.New("unsupported trace version")
	ErrTooLarge = errors.New("frame exceeds the particle limit")
)

// Frame is one recorded simulation step.
type Frame struct {
	Index         uint64
	Width, Height float64
	Particles     []particle.Particle
}

// Recorder appends simulation frames to a trace. Every frame is stored as
// a fixed header followed by an lz4 block of little-endian float64 values.
type Recorder struct {
	w      *bufio.Writer
	closer io.Closer

	raw    []byte
	packed []byte

	frames uint64
	err    error
}

// Create opens path for writing and writes the trace header.
func Create(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace: %w", err)
	}
	r, err := NewRecorder(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

func NewRecorder(w io.Writer) (*Recorder, error) {
	r := &Recorder{w: bufio.NewWriter(w)}

	header := make([]byte, headerSize)
	copy(header, Magic)
	binary.LittleEndian.PutUint16(header[4:6], Version)
	if _, err := r.w.Write(header); err != nil {
		return nil, fmt.Errorf("write trace header: %w", err)
	}
	return r, nil
}

// Record writes one frame.
func (r *Recorder) Record(index uint64, width, height float64, particles []particle.Particle) error {
	if r.err != nil {
		return r.err
	}
	if len(particles) > maxParticles {
		r.err = fmt.Errorf("frame %d: %d particles: %w", index, len(particles), ErrTooLarge)
		return r.err
	}

	size := len(particles) * particleSize
	if cap(r.raw) < size {
		r.raw = make([]byte, size)
	}
	raw := r.raw[:size]
	for i, p := range particles {
		off := i * particleSize
		putFloat(raw[off:], p.X)
		putFloat(raw[off+8:], p.Y)
		putFloat(raw[off+16:], p.Radius)
		putFloat(raw[off+24:], p.DX)
		putFloat(raw[off+32:], p.DY)
	}

	bound := lz4.CompressBlockBound(size)
	if cap(r.packed) < bound {
		r.packed = make([]byte, bound)
	}
	payload := raw
	n, err := lz4.CompressBlock(raw, r.packed[:bound], nil)
	if err == nil && n > 0 && n < size {
		payload = r.packed[:n]
	}

	header := make([]byte, frameHeaderSize)
	binary.LittleEndian.PutUint64(header[0:8], index)
	putFloat(header[8:16], width)
	putFloat(header[16:24], height)
	binary.LittleEndian.PutUint32(header[24:28], uint32(len(particles)))
	binary.LittleEndian.PutUint32(header[28:32], uint32(size))
	binary.LittleEndian.PutUint32(header[32:36], uint32(len(payload)))

	if _, err := r.w.Write(header); err != nil {
		r.err = fmt.Errorf("write frame %d: %w", index, err)
		return r.err
	}
	if _, err := r.w.Write(payload); err != nil {
		r.err = fmt.Errorf("write frame %d: %w", index, err)
		return r.err
	}
	r.frames++
	return nil
}

// Observe records a frame from the simulation's per-frame hook. Only the
// first write error is logged; later frames are dropped.
func (r *Recorder) Observe(index uint64, width, height float64, particles []particle.Particle) {
	if r.err != nil {
		return
	}
	if err := r.Record(index, width, height, particles); err != nil {
		utils.Error("Trace: %v, recording stopped", err)
	}
}

func (r *Recorder) Frames() uint64 { return r.frames }

// Close flushes buffered frames and closes the underlying file, if any.
func (r *Recorder) Close() error {
	err := r.w.Flush()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
		r.closer = nil
	}
	if err != nil {
		return fmt.Errorf("close trace: %w", err)
	}
	return nil
}

// Reader decodes frames written by a Recorder.
type Reader struct {
	r      *bufio.Reader
	closer io.Closer

	Version uint16

	packed []byte
}

func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

func NewReader(rd io.Reader) (*Reader, error) {
	r := &Reader{r: bufio.NewReader(rd)}

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r.r, header); err != nil {
		return nil, fmt.Errorf("read trace header: %w", err)
	}
	if string(header[:4]) != Magic {
		return nil, ErrBadMagic
	}
	r.Version = binary.LittleEndian.Uint16(header[4:6])
	if r.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, r.Version)
	}
	return r, nil
}

// Next returns the next frame, or io.EOF after the last one.
func (r *Reader) Next() (Frame, error) {
	header := make([]byte, frameHeaderSize)
	if _, err := io.ReadFull(r.r, header); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("read frame header: %w", err)
	}

	frame := Frame{
		Index:  binary.LittleEndian.Uint64(header[0:8]),
		Width:  getFloat(header[8:16]),
		Height: getFloat(header[16:24]),
	}
	count := binary.LittleEndian.Uint32(header[24:28])
	size := binary.LittleEndian.Uint32(header[28:32])
	packedSize := binary.LittleEndian.Uint32(header[32:36])

	if count > maxParticles || int(size) != int(count)*particleSize || packedSize > size {
		return Frame{}, fmt.Errorf("frame %d: corrupt header (count=%d size=%d packed=%d)", frame.Index, count, size, packedSize)
	}

	if cap(r.packed) < int(packedSize) {
		r.packed = make([]byte, packedSize)
	}
	packed := r.packed[:packedSize]
	if _, err := io.ReadFull(r.r, packed); err != nil {
		return Frame{}, fmt.Errorf("read frame %d: %w", frame.Index, err)
	}

	raw := packed
	if packedSize < size {
		raw = make([]byte, size)
		n, err := lz4.UncompressBlock(packed, raw)
		if err != nil {
			return Frame{}, fmt.Errorf("decompress frame %d: %w", frame.Index, err)
		}
		if n != int(size) {
			return Frame{}, fmt.Errorf("decompress frame %d: got %d bytes, want %d", frame.Index, n, size)
		}
	}

	frame.Particles = make([]particle.Particle, count)
	for i := range frame.Particles {
		off := i * particleSize
		frame.Particles[i] = particle.Particle{
			X:      getFloat(raw[off:]),
			Y:      getFloat(raw[off+8:]),
			Radius: getFloat(raw[off+16:]),
			DX:     getFloat(raw[off+24:]),
			DY:     getFloat(raw[off+32:]),
		}
	}
	return frame, nil
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

func putFloat(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}

func getFloat(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}
