package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Stick is a distance constraint between two particles. A stiffness of 1
// corrects the full error every relaxation; lower values scale the
// correction by dt*stiffness and behave like a spring.
type Stick struct {
	A, B      Handle
	Rest      float32
	Stiffness float32
	Enabled   bool
}

// Sticks is the constraint list. Sticks are never removed, only disabled.
type Sticks struct {
	items []Stick
}

// Add appends an enabled stick. Stiffness is clamped to [0, 1].
func (c *Sticks) Add(a, b Handle, rest, stiffness float32) StickHandle {
	stiffness = min(max(stiffness, 0), 1)
	c.items = append(c.items, Stick{A: a, B: b, Rest: rest, Stiffness: stiffness, Enabled: true})
	return StickHandle(len(c.items) - 1)
}

// Len returns the number of sticks ever added.
func (c *Sticks) Len() int { return len(c.items) }

// Get returns a copy of the stick.
func (c *Sticks) Get(h StickHandle) Stick { return c.items[c.check(h)] }

// All exposes the stick list for reading.
func (c *Sticks) All() []Stick { return c.items }

// SetEnabled enables or disables the stick.
func (c *Sticks) SetEnabled(h StickHandle, enabled bool) {
	c.items[c.check(h)].Enabled = enabled
}

func (c *Sticks) check(h StickHandle) int {
	if h < 0 || int(h) >= len(c.items) {
		panic(fmt.Sprintf("physics: stick %d out of range (%d sticks)", h, len(c.items)))
	}
	return int(h)
}

// Relax applies one correction to every enabled stick whose endpoints are
// both enabled and returns how many sticks were corrected.
func (c *Sticks) Relax(s *Store, dt float32) int {
	relaxed := 0
	for i := range c.items {
		st := &c.items[i]
		if !st.Enabled {
			continue
		}
		la, lb := s.lookup(st.A), s.lookup(st.B)
		if la.subset == SubsetDisabled || lb.subset == SubsetDisabled {
			continue
		}
		ca, ia := &s.sets[la.subset], int(la.slot)
		cb, ib := &s.sets[lb.subset], int(lb.slot)
		wa, wb := movementWeights(ca.Static[ia], cb.Static[ib])
		if wa == 0 && wb == 0 {
			continue
		}
		dx := cb.X[ib] - ca.X[ia]
		dy := cb.Y[ib] - ca.Y[ia]
		cur := sqrt32(dx*dx + dy*dy)
		if cur == 0 {
			continue
		}
		frac := (st.Rest - cur) / cur * 0.5
		if st.Stiffness != 1 {
			frac *= dt * st.Stiffness
		}
		ca.X[ia] -= dx * frac * wa
		ca.Y[ia] -= dy * frac * wa
		cb.X[ib] += dx * frac * wb
		cb.Y[ib] += dy * frac * wb
		relaxed++
	}
	return relaxed
}

// Cut disables every enabled stick whose segment passes within radius of p
// and returns how many were cut.
func (c *Sticks) Cut(s *Store, p mgl32.Vec2, radius float32) int {
	cut := 0
	r2 := radius * radius
	for i := range c.items {
		st := &c.items[i]
		if !st.Enabled {
			continue
		}
		if segmentDistSq(p, s.Position(st.A), s.Position(st.B)) <= r2 {
			st.Enabled = false
			cut++
		}
	}
	return cut
}

func segmentDistSq(p, a, b mgl32.Vec2) float32 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	t := float32(0)
	if lenSq > 0 {
		t = min(max(p.Sub(a).Dot(ab)/lenSq, 0), 1)
	}
	d := p.Sub(a.Add(ab.Mul(t)))
	return d.Dot(d)
}
