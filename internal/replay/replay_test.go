package replay

import (
	"bytes"
	"errors"
	"image/color"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/vmihailenco/msgpack/v5"

	"softbody/internal/physics"
)

func fallingWorld() *physics.World {
	w := physics.New(physics.DefaultConfig(), physics.WithLogger(log.New(io.Discard)))
	w.Create(mgl32.Vec2{0, 2}, 1, 1, true, color.RGBA{A: 255})
	for i := 0; i < 5; i++ {
		w.Create(mgl32.Vec2{float32(i) * 0.5, -float32(i)}, 0.2, 1, false, color.RGBA{A: 255})
	}
	w.NotifyStaticTopologyChanged()
	return w
}

func record(t *testing.T, frames int, disable bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	rec, err := NewRecorder(&buf, Header{Scene: "test", Seed: 3, Hz: 240, Dt: 1.0 / 60})
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	w := fallingWorld()
	if disable {
		w.SetEnabled(3, false)
	}
	var f Frame
	for i := 0; i < frames; i++ {
		w.Advance(1.0 / 60)
		Capture(w, i, float64(i+1)/60, &f)
		if err := rec.Record(&f); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := rec.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if rec.Frames() != frames {
		t.Fatalf("recorded %d frames", rec.Frames())
	}
	return buf.Bytes()
}

func TestRecordAndRead(t *testing.T) {
	data := record(t, 30, true)
	h, frames, err := ReadFrames(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadFrames: %v", err)
	}
	if h.Version != FormatVersion || h.Scene != "test" || h.Seed != 3 {
		t.Fatalf("header %+v", h)
	}
	if len(frames) != 30 {
		t.Fatalf("read %d frames", len(frames))
	}
	last := frames[29]
	if len(last.Positions) != 12 || last.Substeps != 4 {
		t.Fatalf("frame %+v", last)
	}
	if !math.IsNaN(float64(last.Positions[6])) {
		t.Fatal("disabled particle must be recorded as NaN")
	}
	if last.Positions[0] != 0 || last.Positions[1] != 2 {
		t.Fatalf("static particle recorded at %v,%v", last.Positions[0], last.Positions[1])
	}
}

func TestCompareIdenticalRuns(t *testing.T) {
	_, a, _ := ReadFrames(bytes.NewReader(record(t, 20, true)))
	_, b, _ := ReadFrames(bytes.NewReader(record(t, 20, true)))
	if d, ok := Compare(a, b, 0); !ok {
		t.Fatalf("identical runs diverged: %v", d)
	}
}

func TestCompareReportsDivergence(t *testing.T) {
	_, a, _ := ReadFrames(bytes.NewReader(record(t, 10, false)))
	_, b, _ := ReadFrames(bytes.NewReader(record(t, 10, false)))
	b[4].Positions[5] += 0.5

	d, ok := Compare(a, b, 1e-3)
	if ok || d.Frame != 4 || d.Handle != 2 {
		t.Fatalf("diff %+v ok=%v", d, ok)
	}
	if d.Distance < 0.49 || !strings.Contains(d.String(), "particle 2") {
		t.Fatalf("diff %v", d)
	}
	if _, ok := Compare(a, b, 1); !ok {
		t.Fatal("tolerance must absorb the change")
	}

	_, c, _ := ReadFrames(bytes.NewReader(record(t, 10, true)))
	if d, ok := Compare(a, c, 1); ok || d.Reason == "" {
		t.Fatalf("enabled mismatch not reported: %+v", d)
	}
	if d, ok := Compare(a, a[:5], 0); ok || d.Frame != 5 {
		t.Fatalf("length mismatch not reported: %+v", d)
	}
}

func TestReadFramesRejectsForeignStreams(t *testing.T) {
	if _, _, err := ReadFrames(bytes.NewReader(nil)); !errors.Is(err, ErrFormat) {
		t.Fatalf("empty stream: %v", err)
	}
	data, err := msgpack.Marshal(&Header{Version: 99})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadFrames(bytes.NewReader(data)); !errors.Is(err, ErrFormat) {
		t.Fatalf("wrong version: %v", err)
	}
}
