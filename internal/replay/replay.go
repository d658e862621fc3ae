// Package replay records particle trajectories as a msgpack stream and
// compares recordings, which is how headless runs check determinism.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"

	"softbody/internal/physics"
)

// FormatVersion is written into every header.
const FormatVersion = 1

// ErrFormat reports a stream that is not a recording this package can read.
var ErrFormat = errors.New("replay: unrecognised recording")

// Header opens every recording.
type Header struct {
	Version int     `msgpack:"v"`
	Scene   string  `msgpack:"scene"`
	Seed    int64   `msgpack:"seed"`
	Hz      float64 `msgpack:"hz"`
	Dt      float64 `msgpack:"dt"`
}

// Frame is the state of a world after one Advance. Positions holds x,y
// pairs in handle order; disabled particles are recorded as NaN.
type Frame struct {
	Index     int       `msgpack:"i"`
	Time      float64   `msgpack:"t"`
	Positions []float32 `msgpack:"p"`
	Substeps  int       `msgpack:"n"`
	Contacts  int       `msgpack:"c"`
}

// Capture copies the world state into dst, reusing its buffer.
func Capture(w *physics.World, index int, t float64, dst *Frame) {
	s := w.Store()
	dst.Index = index
	dst.Time = t
	dst.Positions = dst.Positions[:0]
	for h := physics.Handle(0); int(h) < s.Len(); h++ {
		if !s.IsEnabled(h) {
			nan := float32(math.NaN())
			dst.Positions = append(dst.Positions, nan, nan)
			continue
		}
		p := s.Position(h)
		dst.Positions = append(dst.Positions, p[0], p[1])
	}
	stats := w.Stats()
	dst.Substeps = stats.Substeps
	dst.Contacts = stats.Contacts
}

// Recorder appends frames to a stream.
type Recorder struct {
	buf    *bufio.Writer
	enc    *msgpack.Encoder
	frames int
}

// NewRecorder writes h to w and returns a recorder for the frames that
// follow. Call Flush when done.
func NewRecorder(w io.Writer, h Header) (*Recorder, error) {
	buf := bufio.NewWriter(w)
	r := &Recorder{buf: buf, enc: msgpack.NewEncoder(buf)}
	h.Version = FormatVersion
	if err := r.enc.Encode(&h); err != nil {
		return nil, fmt.Errorf("replay: write header: %w", err)
	}
	return r, nil
}

// Record appends one frame.
func (r *Recorder) Record(f *Frame) error {
	if err := r.enc.Encode(f); err != nil {
		return fmt.Errorf("replay: write frame %d: %w", f.Index, err)
	}
	r.frames++
	return nil
}

// Frames returns how many frames were recorded.
func (r *Recorder) Frames() int { return r.frames }

// Flush writes buffered frames to the underlying writer.
func (r *Recorder) Flush() error {
	if err := r.buf.Flush(); err != nil {
		return fmt.Errorf("replay: flush: %w", err)
	}
	return nil
}

// ReadFrames decodes a whole recording.
func ReadFrames(r io.Reader) (Header, []Frame, error) {
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	var h Header
	if err := dec.Decode(&h); err != nil {
		if errors.Is(err, io.EOF) {
			return h, nil, fmt.Errorf("%w: empty stream", ErrFormat)
		}
		return h, nil, fmt.Errorf("replay: read header: %w", err)
	}
	if h.Version != FormatVersion {
		return h, nil, fmt.Errorf("%w: version %d", ErrFormat, h.Version)
	}
	var frames []Frame
	for {
		var f Frame
		err := dec.Decode(&f)
		if errors.Is(err, io.EOF) {
			return h, frames, nil
		}
		if err != nil {
			return h, frames, fmt.Errorf("replay: read frame %d: %w", len(frames), err)
		}
		frames = append(frames, f)
	}
}

// Diff describes the first divergence between two recordings.
type Diff struct {
	Frame    int
	Handle   physics.Handle
	Distance float32
	// Reason is set for structural mismatches (frame or particle counts).
	Reason string
}

func (d Diff) String() string {
	if d.Reason != "" {
		return fmt.Sprintf("frame %d: %s", d.Frame, d.Reason)
	}
	return fmt.Sprintf("frame %d: particle %d off by %g", d.Frame, d.Handle, d.Distance)
}

// Compare walks both recordings and reports the first frame where a particle
// differs by more than tol. A tol of 0 demands bit-identical positions.
func Compare(a, b []Frame, tol float32) (Diff, bool) {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		pa, pb := a[i].Positions, b[i].Positions
		if len(pa) != len(pb) {
			return Diff{Frame: i, Reason: fmt.Sprintf("%d vs %d particles", len(pa)/2, len(pb)/2)}, false
		}
		for j := 0; j+1 < len(pa); j += 2 {
			d, ok := distance(pa[j:j+2], pb[j:j+2])
			if !ok {
				return Diff{Frame: i, Handle: physics.Handle(j / 2), Reason: "enabled in only one recording"}, false
			}
			if d > tol {
				return Diff{Frame: i, Handle: physics.Handle(j / 2), Distance: d}, false
			}
		}
	}
	if len(a) != len(b) {
		return Diff{Frame: n, Reason: fmt.Sprintf("%d vs %d frames", len(a), len(b))}, false
	}
	return Diff{}, true
}

// distance compares two x,y pairs. Disabled (NaN) entries only match each
// other.
func distance(a, b []float32) (float32, bool) {
	na := a[0] != a[0]
	nb := b[0] != b[0]
	if na || nb {
		return 0, na == nb
	}
	dx, dy := a[0]-b[0], a[1]-b[1]
	return float32(math.Sqrt(float64(dx*dx + dy*dy))), true
}
