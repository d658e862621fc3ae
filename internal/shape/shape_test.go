package shape

import (
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"

	"softbody/internal/physics"
)

var ball = Template{Radius: 0.25, Mass: 1}

func newWorld() *physics.World {
	cfg := physics.DefaultConfig()
	cfg.Gravity = mgl32.Vec2{}
	return physics.New(cfg, physics.WithLogger(log.New(io.Discard)))
}

func TestChainLinksNeighbours(t *testing.T) {
	w := newWorld()
	b := New(w)
	hs := b.Chain(mgl32.Vec2{0, 0}, mgl32.Vec2{3, 0}, 4, ball, 1)
	if len(hs) != 4 {
		t.Fatalf("chain has %d particles", len(hs))
	}
	if got := w.Position(hs[3]); got != (mgl32.Vec2{3, 0}) {
		t.Fatalf("last link at %v", got)
	}
	if w.Sticks().Len() != 3 {
		t.Fatalf("chain has %d sticks, want 3", w.Sticks().Len())
	}
	for _, s := range w.Sticks().All() {
		if math.Abs(float64(s.Rest-1)) > 1e-6 {
			t.Fatalf("rest length %v, want 1", s.Rest)
		}
	}
	if p, s := b.Counts(); p != 4 || s != 3 {
		t.Fatalf("counts %d/%d", p, s)
	}
	if b.Chain(mgl32.Vec2{}, mgl32.Vec2{1, 1}, 0, ball, 1) != nil {
		t.Fatal("empty chain must return nil")
	}
}

func TestGridWithShearAndPins(t *testing.T) {
	w := newWorld()
	m := New(w).Grid(mgl32.Vec2{1, 1}, 3, 2, 0.5, ball, GridOptions{
		Stiffness:      1,
		Shear:          true,
		ShearStiffness: 0.5,
		Pin:            func(c, r int) bool { return r == 0 && c == 0 },
	})
	if len(m.Handles) != 6 {
		t.Fatalf("grid has %d particles", len(m.Handles))
	}
	if got := w.Position(m.At(2, 1)); got != (mgl32.Vec2{2, 1.5}) {
		t.Fatalf("corner at %v", got)
	}
	// 2 rows x 2 horizontal + 3 vertical + 2 cells x 2 diagonals
	if n := w.Sticks().Len(); n != 4+3+4 {
		t.Fatalf("grid has %d sticks", n)
	}
	if !w.Store().IsStatic(m.At(0, 0)) || w.Store().IsStatic(m.At(1, 0)) {
		t.Fatal("only the pinned node may be static")
	}
}

func TestRingWithHubAndBraces(t *testing.T) {
	w := newWorld()
	b := New(w)
	wheel := b.Ring(mgl32.Vec2{0, 0}, 2, 8, ball, RingOptions{Stiffness: 1, Hub: true, SpokeStiffness: 0.5})
	if !wheel.HasHub || len(wheel.Rim) != 8 {
		t.Fatalf("wheel %+v", wheel)
	}
	if w.Sticks().Len() != 16 {
		t.Fatalf("hub wheel has %d sticks, want 16", w.Sticks().Len())
	}
	for _, h := range wheel.Rim {
		if d := w.Position(h).Len(); math.Abs(float64(d-2)) > 1e-5 {
			t.Fatalf("rim particle %d at distance %v", h, d)
		}
	}

	w2 := newWorld()
	braced := New(w2).Ring(mgl32.Vec2{0, 0}, 2, 8, ball, RingOptions{Stiffness: 1, SpokeStiffness: 1})
	if braced.HasHub || w2.Sticks().Len() != 12 {
		t.Fatalf("braced wheel: hub=%v sticks=%d", braced.HasHub, w2.Sticks().Len())
	}
	if got := New(w2).Ring(mgl32.Vec2{}, 1, 2, ball, RingOptions{}); got.Rim != nil {
		t.Fatal("degenerate ring must be empty")
	}
}

func TestSegmentParticlesTouch(t *testing.T) {
	w := newWorld()
	hs := New(w).Segment(mgl32.Vec2{0, 0}, mgl32.Vec2{4, 0}, ball.Pinned())
	if len(hs) != 9 {
		t.Fatalf("segment has %d particles, want 9", len(hs))
	}
	for i := 1; i < len(hs); i++ {
		gap := w.Position(hs[i]).Sub(w.Position(hs[i-1])).Len()
		if gap > 2*ball.Radius+1e-5 {
			t.Fatalf("gap %v between %d and %d", gap, i-1, i)
		}
		if !w.Store().IsStatic(hs[i]) {
			t.Fatal("segment template is static")
		}
	}
}

func TestArcSpansAngles(t *testing.T) {
	w := newWorld()
	hs := New(w).Arc(mgl32.Vec2{0, 0}, 3, 0, math.Pi, ball)
	if len(hs) < 2 {
		t.Fatalf("arc too short: %d", len(hs))
	}
	first, last := w.Position(hs[0]), w.Position(hs[len(hs)-1])
	if math.Abs(float64(first[0]-3)) > 1e-5 || math.Abs(float64(last[0]+3)) > 1e-4 {
		t.Fatalf("arc from %v to %v", first, last)
	}
	for i := 1; i < len(hs); i++ {
		if gap := w.Position(hs[i]).Sub(w.Position(hs[i-1])).Len(); gap > 2*ball.Radius+1e-4 {
			t.Fatalf("arc gap %v", gap)
		}
	}
}
