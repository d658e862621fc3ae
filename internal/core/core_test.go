package core

import (
	"slices"
	"testing"
	"time"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Fatalf("Clamp int = %d", got)
	}
	if got := Clamp(-0.5, 0.0, 1.0); got != 0 {
		t.Fatalf("Clamp float = %v", got)
	}
	if got := Clamp(2*time.Second, 0, time.Second); got != time.Second {
		t.Fatalf("Clamp duration = %v", got)
	}
}

func TestParameterControlBound(t *testing.T) {
	c := ParameterControl{Min: 1, HasMin: true}
	if got := c.Bound(-4); got != 1 {
		t.Fatalf("lower bound ignored: %v", got)
	}
	if got := c.Bound(1e9); got != 1e9 {
		t.Fatalf("missing upper bound applied: %v", got)
	}
	c.Max, c.HasMax = 2, true
	if got := c.Bound(3); got != 2 {
		t.Fatalf("upper bound ignored: %v", got)
	}
}

func TestFrameClockClampsAndScales(t *testing.T) {
	now := time.Unix(100, 0)
	c := NewFrameClock(100 * time.Millisecond)
	c.now = func() time.Time { return now }

	if got := c.Tick(); got != 0 {
		t.Fatalf("first tick = %v, want 0", got)
	}
	now = now.Add(16 * time.Millisecond)
	if got := c.Tick(); got != 0.016 {
		t.Fatalf("tick = %v, want 0.016", got)
	}
	now = now.Add(5 * time.Second)
	if got := c.Tick(); got != 0.1 {
		t.Fatalf("stall tick = %v, want clamp to 0.1", got)
	}
	c.SetScale(0.5)
	now = now.Add(20 * time.Millisecond)
	if got := c.Tick(); got != 0.01 {
		t.Fatalf("scaled tick = %v", got)
	}
	now = now.Add(-time.Second)
	if got := c.Tick(); got != 0 {
		t.Fatalf("clock going backwards gave %v", got)
	}
	c.Reset()
	now = now.Add(time.Hour)
	if got := c.Tick(); got != 0 {
		t.Fatalf("tick after reset = %v", got)
	}
}

func TestRNGIsDeterministic(t *testing.T) {
	draw := func() []float32 {
		r := NewRNG(42)
		var out []float32
		for i := 0; i < 16; i++ {
			out = append(out, r.Jitter(0.5))
		}
		return out
	}
	a, b := draw(), draw()
	if !slices.Equal(a, b) {
		t.Fatal("same seed produced different sequences")
	}
	for _, v := range a {
		if v < -0.5 || v >= 0.5 {
			t.Fatalf("jitter %v out of range", v)
		}
	}
	if NewRNG(1).IntN(0) != 0 {
		t.Fatal("IntN(0) must return 0")
	}
}

type stubScene struct{ Scene }

func TestRegistry(t *testing.T) {
	Register("", func(map[string]string) Scene { return stubScene{} })
	Register("zz-test", nil)
	if _, ok := Scenes()["zz-test"]; ok {
		t.Fatal("nil factory registered")
	}
	Register("zz-test", func(map[string]string) Scene { return stubScene{} })
	defer delete(scenes, "zz-test")

	names := SceneNames()
	if !slices.Contains(names, "zz-test") || slices.Contains(names, "") {
		t.Fatalf("names %v", names)
	}
	if !slices.IsSorted(names) {
		t.Fatalf("names not sorted: %v", names)
	}
}
