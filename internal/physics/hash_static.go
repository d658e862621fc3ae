package physics

// StaticHash indexes geometry that rarely changes. It is filled once per
// topology change and only read while solving.
type StaticHash struct {
	tile  float32
	cells map[Cell][]int32
}

// NewStaticHash returns an empty hash with the given tile size.
func NewStaticHash(tile float32) *StaticHash {
	if !(tile > 0) {
		tile = 1
	}
	return &StaticHash{tile: tile, cells: make(map[Cell][]int32)}
}

// TileSize returns the cell edge length.
func (h *StaticHash) TileSize() float32 { return h.tile }

// InsertAABB appends id to every cell in the box's range.
func (h *StaticHash) InsertAABB(box AABB, id int32) {
	lo, hi := CellRange(box, h.tile)
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			c := Cell{X: x, Y: y}
			h.cells[c] = append(h.cells[c], id)
		}
	}
}

// Query returns a cursor over every id stored in the box's cell range.
func (h *StaticHash) Query(box AABB) Cursor {
	return newCursor(h, box, h.tile)
}

func (h *StaticHash) bucket(c Cell) []int32 { return h.cells[c] }

// Clear drops every cell.
func (h *StaticHash) Clear() { clear(h.cells) }

// SoftClear empties every cell but keeps the cells and their capacity.
func (h *StaticHash) SoftClear() {
	for c, ids := range h.cells {
		h.cells[c] = ids[:0]
	}
}

// Cells returns the number of cells currently mapped.
func (h *StaticHash) Cells() int { return len(h.cells) }

// VisitCells calls fn for every non-empty cell.
func (h *StaticHash) VisitCells(fn func(c Cell, n int)) {
	for c, ids := range h.cells {
		if len(ids) > 0 {
			fn(c, len(ids))
		}
	}
}
