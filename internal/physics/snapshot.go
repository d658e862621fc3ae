package physics

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Snapshot is a copy of everything a renderer needs. Static particles come
// first, then dynamic ones; disabled particles are left out.
type Snapshot struct {
	Positions []mgl32.Vec2
	Radii     []float32
	Colors    []color.RGBA
	Handles   []Handle
	Static    int

	// Sticks holds the endpoints of every enabled stick between enabled
	// particles.
	Sticks [][2]mgl32.Vec2

	Stats Stats
}

// Len returns the number of particles in the snapshot.
func (s *Snapshot) Len() int { return len(s.Positions) }

// Snapshot copies the world into dst, reusing its buffers.
func (w *World) Snapshot(dst *Snapshot) {
	dst.Positions = dst.Positions[:0]
	dst.Radii = dst.Radii[:0]
	dst.Colors = dst.Colors[:0]
	dst.Handles = dst.Handles[:0]
	dst.Sticks = dst.Sticks[:0]

	for _, k := range [...]Subset{SubsetStatic, SubsetDynamic} {
		c := w.store.Subset(k)
		for i := 0; i < c.Len(); i++ {
			dst.Positions = append(dst.Positions, mgl32.Vec2{c.X[i], c.Y[i]})
			dst.Radii = append(dst.Radii, c.Radius[i])
			dst.Colors = append(dst.Colors, c.Color[i])
			dst.Handles = append(dst.Handles, c.Owner[i])
		}
		if k == SubsetStatic {
			dst.Static = c.Len()
		}
	}

	for _, st := range w.sticks.All() {
		if !st.Enabled || !w.store.IsEnabled(st.A) || !w.store.IsEnabled(st.B) {
			continue
		}
		dst.Sticks = append(dst.Sticks, [2]mgl32.Vec2{w.store.Position(st.A), w.store.Position(st.B)})
	}
	dst.Stats = w.stats
}
