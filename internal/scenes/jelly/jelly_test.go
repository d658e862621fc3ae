package jelly

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"softbody/internal/core"
)

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{
		"hills":     "3",
		"softness":  "-2",
		"wheel_rim": "4",
		"drive":     "-1.5",
		"w":         "5",
	})
	if c.Hills != 3 || c.Softness != 0 || c.Drive != -1.5 {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.WheelRim != DefaultConfig().WheelRim || c.Length != DefaultConfig().Length {
		t.Fatalf("out-of-range values accepted: %+v", c)
	}
}

func TestTerrainIsSeeded(t *testing.T) {
	a, b := New(DefaultConfig()), New(DefaultConfig())
	a.Reset(11)
	b.Reset(12)
	ga, gb := a.Ground(), b.Ground()
	if len(ga) != DefaultConfig().Hills*4+1 || len(ga) != len(gb) {
		t.Fatalf("control points %d / %d", len(ga), len(gb))
	}
	same := true
	for i := range ga {
		if ga[i] != gb[i] {
			same = false
		}
	}
	if same {
		t.Fatal("different seeds produced identical terrain")
	}
	if got := a.GroundAt(-10); got != ga[0][1] {
		t.Fatalf("left of the terrain = %v", got)
	}
	mid := (ga[1][0] + ga[2][0]) / 2
	want := (ga[1][1] + ga[2][1]) / 2
	if got := a.GroundAt(mid); math.Abs(float64(got-want)) > 1e-4 {
		t.Fatalf("GroundAt(%v) = %v, want %v", mid, got, want)
	}
}

func TestBodiesSpawnClearOfTerrain(t *testing.T) {
	j := New(DefaultConfig())
	j.Reset(4)
	w := j.World()
	w.Advance(1.0 / 60)
	if c := w.Stats().Contacts; c != 0 {
		t.Fatalf("bodies spawned overlapping: %d contacts", c)
	}
	if len(j.Boxes()) != DefaultConfig().Boxes {
		t.Fatalf("built %d boxes", len(j.Boxes()))
	}
	if h, ok := j.Focus(); !ok || w.Store().IsStatic(h) {
		t.Fatal("focus must be the dynamic wheel hub")
	}
}

func TestWheelRollsDownhill(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Amplitude = 0
	cfg.Boxes = 0
	j := New(cfg)
	j.Reset(1)
	hub, _ := j.Focus()
	start := j.World().Position(hub)

	for i := 0; i < 180; i++ {
		j.Advance(1.0 / 60)
	}
	got := j.World().Position(hub)
	if got[0]-start[0] < 1 {
		t.Fatalf("wheel did not travel: %v -> %v", start, got)
	}
	if y := j.GroundAt(got[0]); got[1] > y {
		t.Fatalf("hub below the terrain: %v (ground %v)", got, y)
	}
	w := j.World()
	for _, s := range w.Sticks().All() {
		if d := w.Position(s.B).Sub(w.Position(s.A)).Len(); math.Abs(float64(d-s.Rest)) > 0.25*s.Rest {
			t.Fatalf("wheel deformed: stick %d-%d at %v (rest %v)", s.A, s.B, d, s.Rest)
		}
	}
}

func TestDriveDoesNotBuildUpWithoutSubsteps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Amplitude = 0
	cfg.Boxes = 0
	cfg.Physics.Gravity = mgl32.Vec2{}
	cfg.Physics.TargetHz = 64
	j := New(cfg)
	j.Reset(1)
	w := j.World()
	rim := j.Wheel().Rim
	start := make([]mgl32.Vec2, len(rim))
	for i, h := range rim {
		start[i] = w.Position(h)
	}

	j.Advance(0)
	j.Advance(0.5 / 64)
	for i, h := range rim {
		if w.Position(h) != start[i] {
			t.Fatalf("rim node %d moved without a substep", i)
		}
	}

	j.Advance(1.0 / 64)
	want := float64(cfg.Drive) / (64 * 64)
	for i, h := range rim {
		v := w.Store().Velocity(h).Len()
		if math.Abs(float64(v)-want) > 1e-5 {
			t.Fatalf("rim node %d moved %v in one substep, want %v", i, v, want)
		}
	}
}

func TestDriveIsLiveAndSoftnessRebuilds(t *testing.T) {
	j := New(DefaultConfig())
	j.Reset(1)
	before := j.World()
	if !j.SetFloatParameter("drive", 50) || j.cfg.Drive != 20 {
		t.Fatalf("drive %v, want clamp to 20", j.cfg.Drive)
	}
	if j.World() != before {
		t.Fatal("changing the drive must not rebuild the world")
	}
	j.SetFloatParameter("softness", 0.25)
	if j.World() == before {
		t.Fatal("changing the softness must rebuild the world")
	}
	if !j.SetIntParameter("boxes", 1) || len(j.Boxes()) != 1 {
		t.Fatalf("boxes %d after setter", len(j.Boxes()))
	}
}

func TestRegisteredSceneFocuses(t *testing.T) {
	s := core.Scenes()["jelly"](nil)
	f, ok := s.(core.Focuser)
	if !ok {
		t.Fatal("jelly must expose a focus particle")
	}
	if _, ok := f.Focus(); !ok {
		t.Fatal("no focus after reset")
	}
}
