package physics

// DynamicHash is rebuilt every substep. Cells map to slots in a pool of
// buckets; SoftClear truncates the buckets but keeps both the cell index and
// the bucket capacity, so a steady-state rebuild does not allocate.
type DynamicHash struct {
	tile    float32
	index   map[Cell]int32
	buckets [][]int32
	cells   []Cell
}

// NewDynamicHash returns an empty hash with the given tile size.
func NewDynamicHash(tile float32) *DynamicHash {
	if !(tile > 0) {
		tile = 1
	}
	return &DynamicHash{tile: tile, index: make(map[Cell]int32)}
}

// TileSize returns the cell edge length.
func (h *DynamicHash) TileSize() float32 { return h.tile }

// InsertAABB appends id to every cell in the box's range.
func (h *DynamicHash) InsertAABB(box AABB, id int32) {
	lo, hi := CellRange(box, h.tile)
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			c := Cell{X: x, Y: y}
			slot, ok := h.index[c]
			if !ok {
				slot = int32(len(h.cells))
				h.index[c] = slot
				h.cells = append(h.cells, c)
				if int(slot) < len(h.buckets) {
					h.buckets[slot] = h.buckets[slot][:0]
				} else {
					h.buckets = append(h.buckets, make([]int32, 0, 8))
				}
			}
			h.buckets[slot] = append(h.buckets[slot], id)
		}
	}
}

// Query returns a cursor over every id stored in the box's cell range.
func (h *DynamicHash) Query(box AABB) Cursor {
	return newCursor(h, box, h.tile)
}

func (h *DynamicHash) bucket(c Cell) []int32 {
	slot, ok := h.index[c]
	if !ok {
		return nil
	}
	return h.buckets[slot]
}

// Clear forgets every cell. Bucket storage is kept for reuse.
func (h *DynamicHash) Clear() {
	clear(h.index)
	h.cells = h.cells[:0]
}

// SoftClear empties every bucket but keeps the cell index.
func (h *DynamicHash) SoftClear() {
	for i := range h.cells {
		h.buckets[i] = h.buckets[i][:0]
	}
}

// Cells returns the number of cells currently mapped, empty ones included.
func (h *DynamicHash) Cells() int { return len(h.cells) }

// VisitCells calls fn for every non-empty cell.
func (h *DynamicHash) VisitCells(fn func(c Cell, n int)) {
	for i, c := range h.cells {
		if n := len(h.buckets[i]); n > 0 {
			fn(c, n)
		}
	}
}
