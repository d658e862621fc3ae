package physics

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

type location struct {
	subset Subset
	slot   int32
}

// Store holds every particle, split into static, dynamic and disabled
// column sets. Handles map to (subset, slot) through a location table, so
// moving a particle between subsets never invalidates its handle.
//
// Adding particles does not touch any spatial hash. Changes to static
// geometry bump StaticVersion; the World compares it with the version its
// static hash was built from.
type Store struct {
	sets          [subsetCount]Columns
	loc           []location
	staticVersion uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Len returns the number of particles ever added.
func (s *Store) Len() int { return len(s.loc) }

// StaticVersion changes whenever static geometry is added, moved, enabled or
// disabled.
func (s *Store) StaticVersion() uint64 { return s.staticVersion }

// Add stores a particle and returns its handle. A non-positive radius or mass
// is a programming error and panics.
func (s *Store) Add(p Particle) Handle {
	if !(p.Radius > 0) {
		panic(fmt.Sprintf("physics: particle radius must be positive, got %v", p.Radius))
	}
	if !(p.Mass > 0) {
		panic(fmt.Sprintf("physics: particle mass must be positive, got %v", p.Mass))
	}
	h := Handle(len(s.loc))
	subset := SubsetDynamic
	if p.Static {
		subset = SubsetStatic
		s.staticVersion++
	}
	slot := s.sets[subset].push(h, p, p.Position[0], p.Position[1])
	s.loc = append(s.loc, location{subset: subset, slot: int32(slot)})
	return h
}

// Subset exposes the columns of one subset for bulk reads. Callers must not
// append to the returned slices.
func (s *Store) Subset(k Subset) *Columns { return &s.sets[k] }

// Location returns the subset and slot currently holding h.
func (s *Store) Location(h Handle) (Subset, int) {
	l := s.lookup(h)
	return l.subset, int(l.slot)
}

func (s *Store) lookup(h Handle) location {
	if h < 0 || int(h) >= len(s.loc) {
		panic(fmt.Sprintf("physics: handle %d out of range (%d particles)", h, len(s.loc)))
	}
	return s.loc[h]
}

func (s *Store) columns(h Handle) (*Columns, int) {
	l := s.lookup(h)
	return &s.sets[l.subset], int(l.slot)
}

// Position returns the current position of h.
func (s *Store) Position(h Handle) mgl32.Vec2 {
	c, i := s.columns(h)
	return mgl32.Vec2{c.X[i], c.Y[i]}
}

// SetPosition moves h without touching its previous position, which injects
// velocity on the next integration.
func (s *Store) SetPosition(h Handle, v mgl32.Vec2) {
	c, i := s.columns(h)
	c.X[i], c.Y[i] = v[0], v[1]
	if c.Static[i] {
		s.staticVersion++
	}
}

// PrevPosition returns the position h had before the last integration.
func (s *Store) PrevPosition(h Handle) mgl32.Vec2 {
	c, i := s.columns(h)
	return mgl32.Vec2{c.PrevX[i], c.PrevY[i]}
}

// SetPrevPosition rewrites the Verlet history of h.
func (s *Store) SetPrevPosition(h Handle, v mgl32.Vec2) {
	c, i := s.columns(h)
	c.PrevX[i], c.PrevY[i] = v[0], v[1]
}

// Velocity returns the per-substep displacement of h.
func (s *Store) Velocity(h Handle) mgl32.Vec2 {
	c, i := s.columns(h)
	return mgl32.Vec2{c.X[i] - c.PrevX[i], c.Y[i] - c.PrevY[i]}
}

// AddForce accumulates f on h until the next integration consumes it.
func (s *Store) AddForce(h Handle, f mgl32.Vec2) {
	c, i := s.columns(h)
	c.ForceX[i] += f[0]
	c.ForceY[i] += f[1]
}

// Radius returns the collision radius of h.
func (s *Store) Radius(h Handle) float32 {
	c, i := s.columns(h)
	return c.Radius[i]
}

// Mass returns the mass of h.
func (s *Store) Mass(h Handle) float32 {
	c, i := s.columns(h)
	return c.Mass[i]
}

// Color returns the draw color of h.
func (s *Store) Color(h Handle) color.RGBA {
	c, i := s.columns(h)
	return c.Color[i]
}

// IsStatic reports whether h is static geometry, enabled or not.
func (s *Store) IsStatic(h Handle) bool {
	c, i := s.columns(h)
	return c.Static[i]
}

// IsEnabled reports whether h takes part in the simulation.
func (s *Store) IsEnabled(h Handle) bool {
	return s.lookup(h).subset != SubsetDisabled
}

// SetEnabled moves h into or out of the disabled subset. Disabled particles
// neither collide nor integrate and their sticks go slack.
func (s *Store) SetEnabled(h Handle, enabled bool) {
	l := s.lookup(h)
	if (l.subset != SubsetDisabled) == enabled {
		return
	}
	src := &s.sets[l.subset]
	static := src.Static[l.slot]
	var dst Subset
	switch {
	case !enabled:
		dst = SubsetDisabled
	case static:
		dst = SubsetStatic
	default:
		dst = SubsetDynamic
	}
	s.move(h, l, dst)
	if static {
		s.staticVersion++
	}
}

func (s *Store) move(h Handle, from location, to Subset) {
	src := &s.sets[from.subset]
	i := int(from.slot)
	p := Particle{
		Position: mgl32.Vec2{src.X[i], src.Y[i]},
		Radius:   src.Radius[i],
		Mass:     src.Mass[i],
		Static:   src.Static[i],
		Color:    src.Color[i],
	}
	prevX, prevY := src.PrevX[i], src.PrevY[i]
	fx, fy := src.ForceX[i], src.ForceY[i]

	if moved := src.swapRemove(i); moved >= 0 {
		s.loc[moved].slot = int32(i)
	}
	dst := &s.sets[to]
	slot := dst.push(h, p, prevX, prevY)
	dst.ForceX[slot], dst.ForceY[slot] = fx, fy
	s.loc[h] = location{subset: to, slot: int32(slot)}
}

// Bounds returns the box containing every enabled particle, and false when
// there is none.
func (s *Store) Bounds() (AABB, bool) {
	var out AABB
	found := false
	for _, k := range [...]Subset{SubsetStatic, SubsetDynamic} {
		c := &s.sets[k]
		for i := 0; i < c.n; i++ {
			b := c.AABB(i)
			if !found {
				out, found = b, true
				continue
			}
			out = out.Union(b)
		}
	}
	return out, found
}
