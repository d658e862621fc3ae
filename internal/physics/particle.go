// Package physics implements a 2D Verlet particle engine: column-wise particle
// storage, spatial hashing, circle collision and distance constraints driven by
// a fixed-rate substep loop.
package physics

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Handle identifies a particle for the lifetime of its Store. Handles are
// dense, start at zero and are never reused; nothing is ever deleted, so a
// handle stays valid forever.
type Handle int32

// StickHandle identifies a distance constraint.
type StickHandle int32

// Subset names the parallel array a particle currently lives in.
type Subset uint8

const (
	SubsetStatic Subset = iota
	SubsetDynamic
	SubsetDisabled

	subsetCount = 3
)

func (s Subset) String() string {
	switch s {
	case SubsetStatic:
		return "static"
	case SubsetDynamic:
		return "dynamic"
	case SubsetDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Particle is the template a particle is created from.
type Particle struct {
	Position mgl32.Vec2
	Radius   float32
	Mass     float32
	Static   bool
	Color    color.RGBA
}

// AABB is an axis-aligned bounding box in world units.
type AABB struct {
	Min, Max mgl32.Vec2
}

// CircleAABB returns the bounds of a circle.
func CircleAABB(x, y, r float32) AABB {
	return AABB{
		Min: mgl32.Vec2{x - r, y - r},
		Max: mgl32.Vec2{x + r, y + r},
	}
}

// Expand grows the box by margin on every side.
func (b AABB) Expand(margin float32) AABB {
	return AABB{
		Min: mgl32.Vec2{b.Min[0] - margin, b.Min[1] - margin},
		Max: mgl32.Vec2{b.Max[0] + margin, b.Max[1] + margin},
	}
}

// Overlaps reports whether the two boxes intersect (touching counts).
func (b AABB) Overlaps(o AABB) bool {
	return b.Min[0] <= o.Max[0] && b.Max[0] >= o.Min[0] &&
		b.Min[1] <= o.Max[1] && b.Max[1] >= o.Min[1]
}

// Union returns the smallest box containing both.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: mgl32.Vec2{min(b.Min[0], o.Min[0]), min(b.Min[1], o.Min[1])},
		Max: mgl32.Vec2{max(b.Max[0], o.Max[0]), max(b.Max[1], o.Max[1])},
	}
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec2 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the width and height of the box.
func (b AABB) Size() mgl32.Vec2 {
	return b.Max.Sub(b.Min)
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
