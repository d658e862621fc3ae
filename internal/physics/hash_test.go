package physics

import (
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func box(x0, y0, x1, y1 float32) AABB {
	return AABB{Min: mgl32.Vec2{x0, y0}, Max: mgl32.Vec2{x1, y1}}
}

func TestCellRangeFloorsMinAndCeilsMax(t *testing.T) {
	lo, hi := CellRange(box(-0.5, -1.5, 0.5, 0.25), 1)
	if lo != (Cell{X: -1, Y: -2}) || hi != (Cell{X: 1, Y: 1}) {
		t.Fatalf("range %v..%v", lo, hi)
	}
	lo, hi = CellRange(box(2, 2, 3, 3), 1)
	if lo != (Cell{X: 2, Y: 2}) || hi != (Cell{X: 3, Y: 3}) {
		t.Fatalf("aligned range %v..%v", lo, hi)
	}
	lo, hi = CellRange(box(1, 1, 3, 3), 2)
	if lo != (Cell{X: 0, Y: 0}) || hi != (Cell{X: 2, Y: 2}) {
		t.Fatalf("tile 2 range %v..%v", lo, hi)
	}
}

func hashes() map[string]SpatialHash {
	return map[string]SpatialHash{
		"static":  NewStaticHash(1),
		"dynamic": NewDynamicHash(1),
	}
}

func TestHashQueryReturnsDuplicates(t *testing.T) {
	for name, h := range hashes() {
		h.InsertAABB(box(0.2, 0.2, 1.8, 0.8), 7)

		cur := h.Query(box(0.2, 0.2, 1.8, 0.8))
		got := cur.Collect(nil)
		if len(got) != 6 {
			t.Fatalf("%s: expected id once per covered cell (6), got %v", name, got)
		}
		for _, id := range got {
			if id != 7 {
				t.Fatalf("%s: unexpected id %d", name, id)
			}
		}

		cur = h.Query(box(0.1, 0.1, 0.2, 0.2))
		if got := cur.Collect(nil); len(got) != 4 {
			t.Fatalf("%s: small query expected 4 copies, got %v", name, got)
		}

		cur = h.Query(box(10, 10, 10.5, 10.5))
		if _, ok := cur.Next(); ok {
			t.Fatalf("%s: far query must be empty", name)
		}
	}
}

func TestHashCursorIsNotRestartable(t *testing.T) {
	h := NewDynamicHash(1)
	h.InsertAABB(box(0.1, 0.1, 0.4, 0.4), 1)
	cur := h.Query(box(0.1, 0.1, 0.4, 0.4))
	if got := cur.Collect(nil); len(got) == 0 {
		t.Fatal("expected ids on first walk")
	}
	if _, ok := cur.Next(); ok {
		t.Fatal("exhausted cursor must stay exhausted")
	}
	var zero Cursor
	if _, ok := zero.Next(); ok {
		t.Fatal("zero cursor must be empty")
	}
}

func TestHashVariantsAgree(t *testing.T) {
	st, dy := NewStaticHash(1), NewDynamicHash(1)
	for i := 0; i < 50; i++ {
		x := float32(i%10)*0.7 - 3
		y := float32(i/10)*0.9 - 2
		b := CircleAABB(x, y, 0.4)
		st.InsertAABB(b, int32(i))
		dy.InsertAABB(b, int32(i))
	}
	for _, q := range []AABB{box(-3, -2, -2, -1), box(0, 0, 0.5, 0.5), box(-5, -5, 5, 5)} {
		a := st.Query(q)
		b := dy.Query(q)
		ga, gb := a.Collect(nil), b.Collect(nil)
		slices.Sort(ga)
		slices.Sort(gb)
		if !slices.Equal(ga, gb) {
			t.Fatalf("query %v: static %v dynamic %v", q, ga, gb)
		}
	}
}

func TestHashSoftClearKeepsCells(t *testing.T) {
	for name, h := range hashes() {
		h.InsertAABB(box(0.1, 0.1, 2.5, 0.5), 3)
		cells := h.Cells()
		if cells == 0 {
			t.Fatalf("%s: expected mapped cells", name)
		}
		h.SoftClear()
		if h.Cells() != cells {
			t.Fatalf("%s: soft clear changed cell count %d -> %d", name, cells, h.Cells())
		}
		cur := h.Query(box(0.1, 0.1, 2.5, 0.5))
		if _, ok := cur.Next(); ok {
			t.Fatalf("%s: soft-cleared hash must return nothing", name)
		}
		visited := 0
		h.VisitCells(func(Cell, int) { visited++ })
		if visited != 0 {
			t.Fatalf("%s: VisitCells reported %d empty cells", name, visited)
		}

		h.InsertAABB(box(0.1, 0.1, 0.2, 0.2), 9)
		cur = h.Query(box(0.1, 0.1, 0.2, 0.2))
		if got := cur.Collect(nil); len(got) != 4 || got[0] != 9 {
			t.Fatalf("%s: reinsert after soft clear got %v", name, got)
		}

		h.Clear()
		if h.Cells() != 0 {
			t.Fatalf("%s: clear left %d cells", name, h.Cells())
		}
	}
}

func TestDynamicHashSteadyStateDoesNotAllocate(t *testing.T) {
	h := NewDynamicHash(1)
	fill := func() {
		h.SoftClear()
		for i := 0; i < 64; i++ {
			h.InsertAABB(CircleAABB(float32(i%8), float32(i/8), 0.45), int32(i))
		}
	}
	fill()
	if allocs := testing.AllocsPerRun(20, fill); allocs != 0 {
		t.Fatalf("rebuild allocated %.1f times per run", allocs)
	}
}
