package physics

var (
	_ SpatialHash     = (*StaticHash)(nil)
	_ SpatialHash     = (*DynamicHash)(nil)
	_ CollisionSolver = (*GridSolver)(nil)
)

const (
	// staticResponse pushes a dynamic particle all the way out of static
	// geometry.
	staticResponse = 1.0
	// pairResponse scales the penetration shared by two dynamic particles.
	pairResponse = 0.5

	// staleCellFactor bounds how many mapped cells the dynamic hash may
	// carry per live particle before it is fully cleared.
	staleCellFactor = 16
)

// SolveStats counts the work done by one solve pass. The counters are
// diagnostics only.
type SolveStats struct {
	Checks   int
	Contacts int
}

// Add accumulates o into s.
func (s *SolveStats) Add(o SolveStats) {
	s.Checks += o.Checks
	s.Contacts += o.Contacts
}

// CollisionSolver resolves particle overlaps for one substep.
type CollisionSolver interface {
	// RebuildStatic re-indexes the static subset.
	RebuildStatic(s *Store)
	// Solve runs one pass over the store and writes corrected positions.
	Solve(s *Store) SolveStats
}

// GridSolver resolves collisions with a static and a dynamic spatial hash.
type GridSolver struct {
	margin  float32
	static  *StaticHash
	dynamic *DynamicHash

	// last[b] holds the index of the particle b was last checked against in
	// the current phase; -1 means not yet checked.
	lastStatic  []int32
	lastDynamic []int32
}

// NewGridSolver returns a solver with the given tile size and dynamic hash
// margin.
func NewGridSolver(tile, margin float32) *GridSolver {
	return &GridSolver{
		margin:  margin,
		static:  NewStaticHash(tile),
		dynamic: NewDynamicHash(tile),
	}
}

// StaticHash exposes the static index for debugging overlays.
func (g *GridSolver) StaticHash() SpatialHash { return g.static }

// DynamicHash exposes the dynamic index for debugging overlays.
func (g *GridSolver) DynamicHash() SpatialHash { return g.dynamic }

// RebuildStatic clears the static hash and indexes every static particle.
func (g *GridSolver) RebuildStatic(s *Store) {
	g.static.Clear()
	st := s.Subset(SubsetStatic)
	for i := 0; i < st.Len(); i++ {
		g.static.InsertAABB(st.AABB(i), int32(i))
	}
}

func (g *GridSolver) rebuildDynamic(dyn *Columns) {
	n := dyn.Len()
	if g.dynamic.Cells() > staleCellFactor*max(n, 64) {
		g.dynamic.Clear()
	} else {
		g.dynamic.SoftClear()
	}
	for i := 0; i < n; i++ {
		g.dynamic.InsertAABB(dyn.AABB(i).Expand(g.margin), int32(i))
	}
}

func resetLast(buf []int32, n int) []int32 {
	if cap(buf) < n {
		buf = make([]int32, n)
	}
	buf = buf[:n]
	for i := range buf {
		buf[i] = -1
	}
	return buf
}

// Solve runs the dynamic-static phase, rebuilds the dynamic hash and runs the
// dynamic-dynamic phase.
func (g *GridSolver) Solve(s *Store) SolveStats {
	var stats SolveStats
	dyn := s.Subset(SubsetDynamic)
	st := s.Subset(SubsetStatic)
	n := dyn.Len()

	g.lastStatic = resetLast(g.lastStatic, st.Len())
	for a := 0; a < n; a++ {
		cur := g.static.Query(dyn.AABB(a))
		for b, ok := cur.Next(); ok; b, ok = cur.Next() {
			// Ids past the end come from a hash built before statics were
			// disabled; they no longer name a particle.
			if int(b) >= st.Len() || g.lastStatic[b] == int32(a) {
				continue
			}
			g.lastStatic[b] = int32(a)
			stats.Checks++
			if resolveStatic(dyn, a, st, int(b)) {
				stats.Contacts++
			}
		}
	}

	g.rebuildDynamic(dyn)

	g.lastDynamic = resetLast(g.lastDynamic, n)
	for a := 0; a < n; a++ {
		cur := g.dynamic.Query(dyn.AABB(a).Expand(g.margin))
		for b, ok := cur.Next(); ok; b, ok = cur.Next() {
			if int(b) <= a || g.lastDynamic[b] == int32(a) {
				continue
			}
			g.lastDynamic[b] = int32(a)
			stats.Checks++
			if resolvePair(dyn, a, int(b)) {
				stats.Contacts++
			}
		}
	}
	return stats
}

// movementWeights returns the share of a correction each participant takes.
func movementWeights(aStatic, bStatic bool) (wa, wb float32) {
	switch {
	case aStatic && bStatic:
		return 0, 0
	case aStatic:
		return 0, 1
	case bStatic:
		return 1, 0
	default:
		return 0.5, 0.5
	}
}

// penetration tests two circles and returns the unit axis from a to b and the
// overlap depth. Coincident centers yield a zero axis: the squared minimum
// distance stands in for the zero divisor, and a pair whose minimum distance
// is also zero is skipped.
func penetration(dx, dy, minDist float32) (nx, ny, depth float32, ok bool) {
	distSq := dx*dx + dy*dy
	minSq := minDist * minDist
	if distSq >= minSq {
		return 0, 0, 0, false
	}
	dist := sqrt32(distSq)
	depth = minDist - dist
	if dist == 0 {
		if minSq == 0 {
			return 0, 0, 0, false
		}
		dist = minSq
	}
	return dx / dist, dy / dist, depth, true
}

func resolveStatic(dyn *Columns, a int, st *Columns, b int) bool {
	dx := st.X[b] - dyn.X[a]
	dy := st.Y[b] - dyn.Y[a]
	nx, ny, depth, ok := penetration(dx, dy, dyn.Radius[a]+st.Radius[b])
	if !ok {
		return false
	}
	wa, _ := movementWeights(false, true)
	move := depth * staticResponse * wa
	dyn.X[a] -= nx * move
	dyn.Y[a] -= ny * move
	return true
}

func resolvePair(dyn *Columns, a, b int) bool {
	dx := dyn.X[b] - dyn.X[a]
	dy := dyn.Y[b] - dyn.Y[a]
	nx, ny, depth, ok := penetration(dx, dy, dyn.Radius[a]+dyn.Radius[b])
	if !ok {
		return false
	}
	wa, wb := movementWeights(dyn.Static[a], dyn.Static[b])
	delta := depth * pairResponse
	dyn.X[a] -= nx * delta * wa
	dyn.Y[a] -= ny * delta * wa
	dyn.X[b] += nx * delta * wb
	dyn.Y[b] += ny * delta * wb
	return true
}
