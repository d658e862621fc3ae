package app

import (
	"github.com/go-gl/mathgl/mgl32"

	"softbody/internal/physics"
)

// dragger pins one dynamic particle to the cursor. The grab belongs to the
// world it was made in; a scene rebuild drops it.
type dragger struct {
	world  *physics.World
	handle physics.Handle
	active bool
}

// grab picks the nearest dynamic particle within radius of p.
func (d *dragger) grab(w *physics.World, p mgl32.Vec2, radius float32) bool {
	h, ok := w.Nearest(p, radius)
	d.world, d.handle = w, h
	d.active = ok && !w.Store().IsStatic(h)
	return d.active
}

func (d *dragger) release() { d.active = false }

// move places the grabbed particle at p with no velocity. It reports false
// and lets go when the particle is gone.
func (d *dragger) move(w *physics.World, p mgl32.Vec2) bool {
	if !d.active {
		return false
	}
	if w != d.world || int(d.handle) >= w.Store().Len() || !w.Store().IsEnabled(d.handle) {
		d.active = false
		return false
	}
	w.SetPosition(d.handle, p)
	w.SetPrevPosition(d.handle, p)
	return true
}
