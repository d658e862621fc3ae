// Package shape assembles common soft bodies out of particles and sticks:
// ropes, cloth grids, wheels and static terrain strips.
package shape

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"softbody/internal/physics"
)

// Target is the part of the world a Builder writes to. *physics.World
// satisfies it.
type Target interface {
	Add(p physics.Particle) physics.Handle
	CreateStick(a, b physics.Handle, rest, stiffness float32) physics.StickHandle
	Position(h physics.Handle) mgl32.Vec2
}

// Template describes the particles a builder call creates.
type Template struct {
	Radius float32
	Mass   float32
	Static bool
	Color  color.RGBA
}

func (t Template) at(pos mgl32.Vec2) physics.Particle {
	return physics.Particle{Position: pos, Radius: t.Radius, Mass: t.Mass, Static: t.Static, Color: t.Color}
}

// Pinned returns a copy of t marked static.
func (t Template) Pinned() Template {
	t.Static = true
	return t
}

// Builder creates particles and sticks on a Target.
type Builder struct {
	t Target

	particles int
	sticks    int
}

// New returns a builder writing to t.
func New(t Target) *Builder { return &Builder{t: t} }

// Counts reports how many particles and sticks the builder has created.
func (b *Builder) Counts() (particles, sticks int) { return b.particles, b.sticks }

// Particle adds a single particle.
func (b *Builder) Particle(pos mgl32.Vec2, tmpl Template) physics.Handle {
	b.particles++
	return b.t.Add(tmpl.at(pos))
}

// Link joins two particles at their current distance.
func (b *Builder) Link(a, c physics.Handle, stiffness float32) physics.StickHandle {
	rest := b.t.Position(c).Sub(b.t.Position(a)).Len()
	b.sticks++
	return b.t.CreateStick(a, c, rest, stiffness)
}

// Chain lays n particles evenly from `from` to `to` and links neighbours.
func (b *Builder) Chain(from, to mgl32.Vec2, n int, tmpl Template, stiffness float32) []physics.Handle {
	if n <= 0 {
		return nil
	}
	out := make([]physics.Handle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, b.Particle(lerp(from, to, n, i), tmpl))
		if i > 0 {
			b.Link(out[i-1], out[i], stiffness)
		}
	}
	return out
}

// GridOptions tunes Grid.
type GridOptions struct {
	Stiffness float32
	// Shear adds both diagonals of every cell, turning cloth into a soft box.
	Shear          bool
	ShearStiffness float32
	// Pin marks individual nodes static.
	Pin func(col, row int) bool
	// PinColor overrides the color of pinned nodes when non-zero.
	PinColor color.RGBA
}

// Mesh is a grid of handles in row-major order.
type Mesh struct {
	Cols, Rows int
	Handles    []physics.Handle
}

// At returns the handle at col, row.
func (m Mesh) At(col, row int) physics.Handle { return m.Handles[row*m.Cols+col] }

// Grid builds cols x rows particles spaced `spacing` apart starting at
// origin, linked horizontally and vertically.
func (b *Builder) Grid(origin mgl32.Vec2, cols, rows int, spacing float32, tmpl Template, opt GridOptions) Mesh {
	m := Mesh{Cols: cols, Rows: rows}
	if cols <= 0 || rows <= 0 {
		m.Cols, m.Rows = 0, 0
		return m
	}
	m.Handles = make([]physics.Handle, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			t := tmpl
			if opt.Pin != nil && opt.Pin(c, r) {
				t = t.Pinned()
				if opt.PinColor.A != 0 {
					t.Color = opt.PinColor
				}
			}
			pos := origin.Add(mgl32.Vec2{float32(c) * spacing, float32(r) * spacing})
			m.Handles = append(m.Handles, b.Particle(pos, t))
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c+1 < cols {
				b.Link(m.At(c, r), m.At(c+1, r), opt.Stiffness)
			}
			if r+1 < rows {
				b.Link(m.At(c, r), m.At(c, r+1), opt.Stiffness)
			}
			if opt.Shear && c+1 < cols && r+1 < rows {
				b.Link(m.At(c, r), m.At(c+1, r+1), opt.ShearStiffness)
				b.Link(m.At(c+1, r), m.At(c, r+1), opt.ShearStiffness)
			}
		}
	}
	return m
}

// RingOptions tunes Ring.
type RingOptions struct {
	Stiffness float32
	// Hub adds a centre particle linked to every rim particle. Without a hub
	// opposite rim particles are braced instead.
	Hub            bool
	HubTemplate    Template
	SpokeStiffness float32
}

// Wheel is the result of Ring.
type Wheel struct {
	Rim    []physics.Handle
	Hub    physics.Handle
	HasHub bool
}

// Ring places n particles on a circle around center and links them into a
// closed loop.
func (b *Builder) Ring(center mgl32.Vec2, radius float32, n int, tmpl Template, opt RingOptions) Wheel {
	var w Wheel
	if n < 3 {
		return w
	}
	w.Rim = make([]physics.Handle, 0, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		off := mgl32.Vec2{radius * float32(math.Cos(a)), radius * float32(math.Sin(a))}
		w.Rim = append(w.Rim, b.Particle(center.Add(off), tmpl))
	}
	for i := range w.Rim {
		b.Link(w.Rim[i], w.Rim[(i+1)%n], opt.Stiffness)
	}
	if opt.Hub {
		hub := opt.HubTemplate
		if hub.Radius <= 0 {
			hub = tmpl
		}
		w.Hub, w.HasHub = b.Particle(center, hub), true
		for _, h := range w.Rim {
			b.Link(w.Hub, h, opt.SpokeStiffness)
		}
		return w
	}
	for i := 0; i < n/2; i++ {
		b.Link(w.Rim[i], w.Rim[i+n/2], opt.SpokeStiffness)
	}
	return w
}

// Segment fills the line from `from` to `to` with touching particles. It is
// mostly used with a static template for terrain.
func (b *Builder) Segment(from, to mgl32.Vec2, tmpl Template) []physics.Handle {
	n := touching(to.Sub(from).Len(), tmpl.Radius)
	out := make([]physics.Handle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, b.Particle(lerp(from, to, n, i), tmpl))
	}
	return out
}

// Arc fills a circular arc between the start and end angles (radians) with
// touching particles.
func (b *Builder) Arc(center mgl32.Vec2, radius, start, end float32, tmpl Template) []physics.Handle {
	sweep := end - start
	n := touching(float32(math.Abs(float64(sweep*radius))), tmpl.Radius)
	out := make([]physics.Handle, 0, n)
	for i := 0; i < n; i++ {
		a := float64(start)
		if n > 1 {
			a += float64(sweep) * float64(i) / float64(n-1)
		}
		off := mgl32.Vec2{radius * float32(math.Cos(a)), radius * float32(math.Sin(a))}
		out = append(out, b.Particle(center.Add(off), tmpl))
	}
	return out
}

// touching returns how many particles of radius r cover length with
// neighbours no further than 2r apart.
func touching(length, r float32) int {
	if r <= 0 {
		return 1
	}
	return int(math.Ceil(float64(length/(2*r)))) + 1
}

func lerp(from, to mgl32.Vec2, n, i int) mgl32.Vec2 {
	if n <= 1 {
		return from
	}
	t := float32(i) / float32(n-1)
	return from.Add(to.Sub(from).Mul(t))
}
