package physics

import "image/color"

// LaneWidth is the number of particles processed together by the lane loops.
// Column lengths are always a multiple of it.
const LaneWidth = 4

// Columns stores one particle subset as parallel arrays. Only the first Len()
// slots hold particles; the remaining slots up to the padded length are inert
// padding (zero position, zero force, zero inverse mass).
type Columns struct {
	X, Y         []float32
	PrevX, PrevY []float32
	ForceX       []float32
	ForceY       []float32
	Radius       []float32
	Mass         []float32
	InvMass      []float32
	Color        []color.RGBA
	Static       []bool
	Owner        []Handle

	n int
}

// Len returns the number of live particles in the subset.
func (c *Columns) Len() int { return c.n }

// padded returns the length every column shares.
func (c *Columns) padded() int { return len(c.X) }

// push appends a particle and returns its slot. Columns grow a whole lane at
// a time so the padding invariant holds after every push.
func (c *Columns) push(h Handle, p Particle, prevX, prevY float32) int {
	if c.n == c.padded() {
		c.grow()
	}
	i := c.n
	c.X[i], c.Y[i] = p.Position[0], p.Position[1]
	c.PrevX[i], c.PrevY[i] = prevX, prevY
	c.ForceX[i], c.ForceY[i] = 0, 0
	c.Radius[i] = p.Radius
	c.Mass[i] = p.Mass
	c.InvMass[i] = 1 / p.Mass
	c.Color[i] = p.Color
	c.Static[i] = p.Static
	c.Owner[i] = h
	c.n++
	return i
}

func (c *Columns) grow() {
	size := c.padded() * 2
	if size < LaneWidth*4 {
		size = LaneWidth * 4
	}
	c.X = growFloats(c.X, size)
	c.Y = growFloats(c.Y, size)
	c.PrevX = growFloats(c.PrevX, size)
	c.PrevY = growFloats(c.PrevY, size)
	c.ForceX = growFloats(c.ForceX, size)
	c.ForceY = growFloats(c.ForceY, size)
	c.Radius = growFloats(c.Radius, size)
	c.Mass = growFloats(c.Mass, size)
	c.InvMass = growFloats(c.InvMass, size)

	colors := make([]color.RGBA, size)
	copy(colors, c.Color)
	c.Color = colors
	static := make([]bool, size)
	copy(static, c.Static)
	c.Static = static
	owner := make([]Handle, size)
	copy(owner, c.Owner)
	c.Owner = owner
}

func growFloats(s []float32, size int) []float32 {
	out := make([]float32, size)
	copy(out, s)
	return out
}

// swapRemove removes slot i by moving the last live particle into it. It
// returns the handle that now occupies slot i, or -1 if i was the last slot.
// The vacated slot is reset to inert padding.
func (c *Columns) swapRemove(i int) Handle {
	last := c.n - 1
	moved := Handle(-1)
	if i != last {
		c.X[i], c.Y[i] = c.X[last], c.Y[last]
		c.PrevX[i], c.PrevY[i] = c.PrevX[last], c.PrevY[last]
		c.ForceX[i], c.ForceY[i] = c.ForceX[last], c.ForceY[last]
		c.Radius[i] = c.Radius[last]
		c.Mass[i] = c.Mass[last]
		c.InvMass[i] = c.InvMass[last]
		c.Color[i] = c.Color[last]
		c.Static[i] = c.Static[last]
		c.Owner[i] = c.Owner[last]
		moved = c.Owner[i]
	}
	c.X[last], c.Y[last] = 0, 0
	c.PrevX[last], c.PrevY[last] = 0, 0
	c.ForceX[last], c.ForceY[last] = 0, 0
	c.Radius[last] = 0
	c.Mass[last] = 0
	c.InvMass[last] = 0
	c.Color[last] = color.RGBA{}
	c.Static[last] = false
	c.Owner[last] = 0
	c.n--
	return moved
}

// AABB returns the bounds of the particle in slot i.
func (c *Columns) AABB(i int) AABB {
	return CircleAABB(c.X[i], c.Y[i], c.Radius[i])
}

// addGravity accumulates mass*g into the force columns, one lane at a time.
func (c *Columns) addGravity(gx, gy float32) {
	n := c.padded()
	for i := 0; i < n; i += LaneWidth {
		m := (*[LaneWidth]float32)(c.Mass[i:])
		fx := (*[LaneWidth]float32)(c.ForceX[i:])
		fy := (*[LaneWidth]float32)(c.ForceY[i:])
		for l := 0; l < LaneWidth; l++ {
			fx[l] += m[l] * gx
			fy[l] += m[l] * gy
		}
	}
}

// integrate advances every slot with position Verlet and consumes the
// accumulated force. Padding slots stay at rest because their position,
// previous position and inverse mass are all zero.
func (c *Columns) integrate(dt float32) {
	dt2 := dt * dt
	n := c.padded()
	for i := 0; i < n; i += LaneWidth {
		x := (*[LaneWidth]float32)(c.X[i:])
		y := (*[LaneWidth]float32)(c.Y[i:])
		px := (*[LaneWidth]float32)(c.PrevX[i:])
		py := (*[LaneWidth]float32)(c.PrevY[i:])
		fx := (*[LaneWidth]float32)(c.ForceX[i:])
		fy := (*[LaneWidth]float32)(c.ForceY[i:])
		im := (*[LaneWidth]float32)(c.InvMass[i:])
		for l := 0; l < LaneWidth; l++ {
			nx := x[l] + (x[l] - px[l]) + fx[l]*im[l]*dt2
			ny := y[l] + (y[l] - py[l]) + fy[l]*im[l]*dt2
			px[l], py[l] = x[l], y[l]
			x[l], y[l] = nx, ny
			fx[l], fy[l] = 0, 0
		}
	}
}
