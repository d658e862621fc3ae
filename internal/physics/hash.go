package physics

import "math"

// Cell is an integer grid coordinate: floor(position / tile).
type Cell struct {
	X, Y int32
}

// SpatialHash maps grid cells to the ids whose bounding box overlaps them.
// An id whose box spans K cells is stored K times and Query returns it once
// per shared cell; callers de-duplicate.
type SpatialHash interface {
	InsertAABB(box AABB, id int32)
	Query(box AABB) Cursor
	Clear()
	SoftClear()
	TileSize() float32
	Cells() int
	VisitCells(fn func(c Cell, n int))
}

type bucketSource interface {
	bucket(c Cell) []int32
}

// CellRange returns the inclusive cell range covered by box:
// floor(min/tile) through ceil(max/tile).
func CellRange(box AABB, tile float32) (lo, hi Cell) {
	lo = Cell{
		X: int32(math.Floor(float64(box.Min[0] / tile))),
		Y: int32(math.Floor(float64(box.Min[1] / tile))),
	}
	hi = Cell{
		X: int32(math.Ceil(float64(box.Max[0] / tile))),
		Y: int32(math.Ceil(float64(box.Max[1] / tile))),
	}
	return lo, hi
}

// Cursor walks the ids stored in a cell range. It is lazy, finite and cannot
// be restarted; call Query again for a fresh walk. The zero Cursor is empty.
type Cursor struct {
	src    bucketSource
	lo, hi Cell
	at     Cell
	ids    []int32
	done   bool
}

func newCursor(src bucketSource, box AABB, tile float32) Cursor {
	lo, hi := CellRange(box, tile)
	return Cursor{
		src:  src,
		lo:   lo,
		hi:   hi,
		at:   lo,
		done: lo.X > hi.X || lo.Y > hi.Y,
	}
}

// Next returns the next id, or false once the range is exhausted.
func (c *Cursor) Next() (int32, bool) {
	for {
		if len(c.ids) > 0 {
			id := c.ids[0]
			c.ids = c.ids[1:]
			return id, true
		}
		if c.done || c.src == nil {
			return 0, false
		}
		c.ids = c.src.bucket(c.at)
		c.at.X++
		if c.at.X > c.hi.X {
			c.at.X = c.lo.X
			c.at.Y++
			if c.at.Y > c.hi.Y {
				c.done = true
			}
		}
	}
}

// Collect drains the cursor into dst and returns it.
func (c *Cursor) Collect(dst []int32) []int32 {
	for id, ok := c.Next(); ok; id, ok = c.Next() {
		dst = append(dst, id)
	}
	return dst
}
