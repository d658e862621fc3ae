package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"softbody/internal/physics"
)

// Transform maps world coordinates to screen pixels: screen = world*Scale +
// Offset. World y points down, like the screen.
type Transform struct {
	Scale  float32
	Offset mgl32.Vec2
}

// FitView returns the transform that shows view centered in a w x h screen,
// preserving the aspect ratio.
func FitView(view physics.AABB, w, h int) Transform {
	size := view.Size()
	if size[0] <= 0 || size[1] <= 0 || w <= 0 || h <= 0 {
		return Transform{Scale: 1}
	}
	scale := min(float32(w)/size[0], float32(h)/size[1])
	return LookAt(view.Center(), scale, w, h)
}

// LookAt returns the transform that puts center in the middle of a w x h
// screen at the given pixels-per-unit scale.
func LookAt(center mgl32.Vec2, scale float32, w, h int) Transform {
	return Transform{
		Scale:  scale,
		Offset: mgl32.Vec2{float32(w)/2 - center[0]*scale, float32(h)/2 - center[1]*scale},
	}
}

// ToScreen converts a world point to pixels.
func (t Transform) ToScreen(p mgl32.Vec2) (float32, float32) {
	return p[0]*t.Scale + t.Offset[0], p[1]*t.Scale + t.Offset[1]
}

// ToWorld converts a pixel position to world coordinates.
func (t Transform) ToWorld(x, y float32) mgl32.Vec2 {
	if t.Scale == 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{(x - t.Offset[0]) / t.Scale, (y - t.Offset[1]) / t.Scale}
}

// Len converts a world length to pixels.
func (t Transform) Len(v float32) float32 { return v * t.Scale }

// Visible returns the world-space rectangle covered by a w x h screen.
func (t Transform) Visible(w, h int) physics.AABB {
	return physics.AABB{Min: t.ToWorld(0, 0), Max: t.ToWorld(float32(w), float32(h))}
}
