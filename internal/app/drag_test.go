package app

import (
	"image/color"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"

	"softbody/internal/physics"
)

func dragWorld(n int) *physics.World {
	cfg := physics.DefaultConfig()
	cfg.Gravity = mgl32.Vec2{}
	w := physics.New(cfg, physics.WithLogger(log.New(io.Discard)))
	w.Create(mgl32.Vec2{-5, 0}, 0.5, 1, true, color.RGBA{A: 255})
	for i := 1; i < n; i++ {
		w.Create(mgl32.Vec2{float32(i) * 2, 0}, 0.5, 1, false, color.RGBA{A: 255})
	}
	w.NotifyStaticTopologyChanged()
	return w
}

func TestDraggerMovesGrabbedParticle(t *testing.T) {
	w := dragWorld(5)
	var d dragger
	if d.grab(w, mgl32.Vec2{-5, 0.2}, 1) {
		t.Fatal("static particles must not be grabbed")
	}
	if !d.grab(w, mgl32.Vec2{8.1, 0}, 1) || d.handle != 4 {
		t.Fatalf("grabbed %d", d.handle)
	}
	if !d.move(w, mgl32.Vec2{3, 3}) || w.Position(4) != (mgl32.Vec2{3, 3}) {
		t.Fatalf("particle at %v", w.Position(4))
	}
	if v := w.Store().Velocity(4); v != (mgl32.Vec2{}) {
		t.Fatalf("drag left velocity %v", v)
	}
	d.release()
	if d.move(w, mgl32.Vec2{0, 0}) {
		t.Fatal("released drag still moves the particle")
	}
}

func TestDraggerDropsGrabAcrossRebuild(t *testing.T) {
	old := dragWorld(5)
	var d dragger
	if !d.grab(old, mgl32.Vec2{8, 0}, 1) {
		t.Fatal("grab failed")
	}
	rebuilt := dragWorld(2)
	if d.move(rebuilt, mgl32.Vec2{1, 1}) {
		t.Fatal("a grab from the previous world moved a particle")
	}
	if d.active {
		t.Fatal("grab must be dropped after a rebuild")
	}

	if !d.grab(rebuilt, mgl32.Vec2{2, 0}, 1) {
		t.Fatal("grab in the new world failed")
	}
	rebuilt.SetEnabled(d.handle, false)
	if d.move(rebuilt, mgl32.Vec2{1, 1}) {
		t.Fatal("disabled particle was dragged")
	}
}
