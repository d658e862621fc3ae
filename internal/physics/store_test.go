package physics

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func dynamicAt(x, y float32) Particle {
	return Particle{Position: mgl32.Vec2{x, y}, Radius: 0.5, Mass: 1}
}

func staticAt(x, y float32) Particle {
	return Particle{Position: mgl32.Vec2{x, y}, Radius: 0.5, Mass: 1, Static: true}
}

func TestStoreHandlesAreDense(t *testing.T) {
	s := NewStore()
	for i := 0; i < 10; i++ {
		p := dynamicAt(float32(i), 0)
		p.Static = i%3 == 0
		if h := s.Add(p); h != Handle(i) {
			t.Fatalf("handle %d returned for particle %d", h, i)
		}
	}
	if s.Len() != 10 {
		t.Fatalf("expected 10 particles, got %d", s.Len())
	}
	if got := s.Subset(SubsetStatic).Len(); got != 4 {
		t.Fatalf("expected 4 static particles, got %d", got)
	}
	if got := s.Subset(SubsetDynamic).Len(); got != 6 {
		t.Fatalf("expected 6 dynamic particles, got %d", got)
	}
	for i := 0; i < 10; i++ {
		if got := s.Position(Handle(i)); got[0] != float32(i) {
			t.Fatalf("handle %d moved to %v after later adds", i, got)
		}
	}
}

func TestStoreColumnsStayLanePadded(t *testing.T) {
	s := NewStore()
	for i := 0; i < 37; i++ {
		s.Add(dynamicAt(float32(i), 1))
		c := s.Subset(SubsetDynamic)
		if c.padded()%LaneWidth != 0 {
			t.Fatalf("padded length %d not a multiple of %d", c.padded(), LaneWidth)
		}
		for _, col := range [][]float32{c.Y, c.PrevX, c.PrevY, c.ForceX, c.ForceY, c.Radius, c.Mass, c.InvMass} {
			if len(col) != c.padded() {
				t.Fatalf("column length %d differs from %d", len(col), c.padded())
			}
		}
	}
}

func TestStoreSetEnabledKeepsHandlesStable(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		s.Add(dynamicAt(float32(i)+1, 0))
	}
	s.SetEnabled(1, false)

	if s.IsEnabled(1) {
		t.Fatal("handle 1 should be disabled")
	}
	if sub, _ := s.Location(1); sub != SubsetDisabled {
		t.Fatalf("handle 1 lives in %v, want disabled", sub)
	}
	dyn := s.Subset(SubsetDynamic)
	if dyn.Len() != 4 {
		t.Fatalf("expected 4 dynamic particles, got %d", dyn.Len())
	}
	if sub, slot := s.Location(4); sub != SubsetDynamic || slot != 1 {
		t.Fatalf("handle 4 expected in dynamic slot 1, got %v slot %d", sub, slot)
	}
	for i := 0; i < 5; i++ {
		if got := s.Position(Handle(i)); got[0] != float32(i)+1 {
			t.Fatalf("handle %d position %v changed by disable", i, got)
		}
	}
	if dyn.X[4] != 0 || dyn.InvMass[4] != 0 || dyn.Radius[4] != 0 {
		t.Fatal("vacated slot must be reset to inert padding")
	}

	s.SetEnabled(1, true)
	if sub, slot := s.Location(1); sub != SubsetDynamic || slot != 4 {
		t.Fatalf("re-enabled handle expected in dynamic slot 4, got %v slot %d", sub, slot)
	}
	if got := s.Position(1); got[0] != 2 {
		t.Fatalf("re-enabled handle lost its position: %v", got)
	}
}

func TestStoreStaticVersion(t *testing.T) {
	s := NewStore()
	s.Add(dynamicAt(0, 0))
	if s.StaticVersion() != 0 {
		t.Fatal("dynamic particles must not change the static version")
	}
	h := s.Add(staticAt(0, 0))
	v := s.StaticVersion()
	if v == 0 {
		t.Fatal("adding a static particle must bump the static version")
	}
	s.SetPosition(h, mgl32.Vec2{1, 1})
	if s.StaticVersion() == v {
		t.Fatal("moving a static particle must bump the static version")
	}
	v = s.StaticVersion()
	s.SetEnabled(h, false)
	if s.StaticVersion() == v {
		t.Fatal("disabling a static particle must bump the static version")
	}
	if !s.IsStatic(h) {
		t.Fatal("disabled particle must remember it is static")
	}
	s.SetEnabled(h, true)
	if sub, _ := s.Location(h); sub != SubsetStatic {
		t.Fatalf("re-enabled static particle landed in %v", sub)
	}
}

func expectPanic(t *testing.T, contains string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", contains)
		}
		msg, _ := r.(string)
		if !strings.Contains(msg, contains) {
			t.Fatalf("panic %v does not mention %q", r, contains)
		}
	}()
	fn()
}

func TestStoreInvalidHandlePanics(t *testing.T) {
	s := NewStore()
	s.Add(dynamicAt(0, 0))
	expectPanic(t, "out of range", func() { s.Position(1) })
	expectPanic(t, "out of range", func() { s.SetEnabled(-1, false) })
}

func TestStoreRejectsDegenerateTemplates(t *testing.T) {
	s := NewStore()
	expectPanic(t, "radius", func() { s.Add(Particle{Radius: 0, Mass: 1}) })
	expectPanic(t, "mass", func() { s.Add(Particle{Radius: 1, Mass: -2}) })
}

func TestStoreBounds(t *testing.T) {
	s := NewStore()
	if _, ok := s.Bounds(); ok {
		t.Fatal("empty store has no bounds")
	}
	s.Add(dynamicAt(-2, 0))
	s.Add(staticAt(3, 4))
	b, ok := s.Bounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	want := AABB{Min: mgl32.Vec2{-2.5, -0.5}, Max: mgl32.Vec2{3.5, 4.5}}
	if b != want {
		t.Fatalf("bounds %v, want %v", b, want)
	}
}
