package physics

import (
	"image/color"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
)

// Stats describes the most recent Advance call.
type Stats struct {
	Particles int
	Static    int
	Dynamic   int
	Disabled  int
	Sticks    int

	Substeps int
	Relaxed  int
	SolveStats

	// StaticHashStale is set when Advance ran against a static hash older
	// than the current static geometry.
	StaticHashStale bool
}

// Option customises a World.
type Option func(*World)

// WithLogger routes world diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(w *World) { w.log = l }
}

// WithSolver replaces the collision solver.
func WithSolver(s CollisionSolver) Option {
	return func(w *World) { w.solver = s }
}

// ForceFunc applies forces that act for as long as it is installed. It runs
// at the start of every substep after gravity, so its forces are consumed
// by that substep's integration and never pile up across frames.
type ForceFunc func(w *World)

// World owns a particle store, its sticks and the collision solver, and
// advances them in fixed substeps. It is not safe for concurrent use; hand
// other goroutines a Snapshot instead.
type World struct {
	cfg    Config
	store  *Store
	sticks Sticks
	solver CollisionSolver
	log    *log.Logger
	forces ForceFunc

	staticBuilt  uint64
	staticWarned uint64
	remainder    float64
	stats        Stats
}

// New returns an empty world. An invalid config is a programming error and
// panics; call Config.Validate first when the values come from users.
func New(cfg Config, opts ...Option) *World {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	w := &World{cfg: cfg, store: NewStore()}
	for _, opt := range opts {
		opt(w)
	}
	if w.solver == nil {
		w.solver = NewGridSolver(cfg.TileSize, cfg.HashMargin)
	}
	if w.log == nil {
		w.log = log.NewWithOptions(os.Stderr, log.Options{Prefix: "physics", Level: log.WarnLevel})
	}
	return w
}

// SetForces installs fn as the world's persistent force field. Nil removes
// it.
func (w *World) SetForces(fn ForceFunc) { w.forces = fn }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// SetGravity replaces the gravity vector.
func (w *World) SetGravity(g mgl32.Vec2) { w.cfg.Gravity = g }

// SetTargetHz changes the substep frequency. Non-positive values are ignored.
func (w *World) SetTargetHz(hz float64) {
	if hz > 0 {
		w.cfg.TargetHz = hz
	}
}

// Store exposes the particle store for bulk reads.
func (w *World) Store() *Store { return w.store }

// Sticks exposes the constraint list.
func (w *World) Sticks() *Sticks { return &w.sticks }

// Solver returns the collision solver.
func (w *World) Solver() CollisionSolver { return w.solver }

// Stats returns counters for the last Advance.
func (w *World) Stats() Stats { return w.stats }

// Create adds a particle. Static particles only take part in collisions after
// NotifyStaticTopologyChanged.
func (w *World) Create(pos mgl32.Vec2, radius, mass float32, static bool, c color.RGBA) Handle {
	return w.store.Add(Particle{Position: pos, Radius: radius, Mass: mass, Static: static, Color: c})
}

// Add adds a particle from a template.
func (w *World) Add(p Particle) Handle { return w.store.Add(p) }

// CreateStick links a and b with the given rest length.
func (w *World) CreateStick(a, b Handle, rest, stiffness float32) StickHandle {
	w.store.lookup(a)
	w.store.lookup(b)
	return w.sticks.Add(a, b, rest, stiffness)
}

// Link links a and b at their current distance.
func (w *World) Link(a, b Handle, stiffness float32) StickHandle {
	rest := w.store.Position(b).Sub(w.store.Position(a)).Len()
	return w.CreateStick(a, b, rest, stiffness)
}

// NotifyStaticTopologyChanged rebuilds the static hash. Call it after a batch
// of static particles has been created, moved or toggled and before the next
// Advance.
func (w *World) NotifyStaticTopologyChanged() {
	w.solver.RebuildStatic(w.store)
	w.staticBuilt = w.store.StaticVersion()
	w.staticWarned = w.staticBuilt
}

// Position returns the current position of h.
func (w *World) Position(h Handle) mgl32.Vec2 { return w.store.Position(h) }

// SetPosition moves h, keeping its history.
func (w *World) SetPosition(h Handle, v mgl32.Vec2) { w.store.SetPosition(h, v) }

// SetPrevPosition rewrites the history of h, injecting velocity.
func (w *World) SetPrevPosition(h Handle, v mgl32.Vec2) { w.store.SetPrevPosition(h, v) }

// SetEnabled toggles h.
func (w *World) SetEnabled(h Handle, enabled bool) { w.store.SetEnabled(h, enabled) }

// SetStickEnabled toggles a stick.
func (w *World) SetStickEnabled(s StickHandle, enabled bool) { w.sticks.SetEnabled(s, enabled) }

// ApplyForce queues a force on h for the next substep.
func (w *World) ApplyForce(h Handle, f mgl32.Vec2) { w.store.AddForce(h, f) }

// CutSticks disables every stick passing within radius of p.
func (w *World) CutSticks(p mgl32.Vec2, radius float32) int {
	return w.sticks.Cut(w.store, p, radius)
}

// Nearest returns the enabled particle whose center is closest to p, ignoring
// particles further than maxDist.
func (w *World) Nearest(p mgl32.Vec2, maxDist float32) (Handle, bool) {
	best := Handle(-1)
	bestSq := maxDist * maxDist
	for _, k := range [...]Subset{SubsetDynamic, SubsetStatic} {
		c := w.store.Subset(k)
		for i := 0; i < c.Len(); i++ {
			dx, dy := c.X[i]-p[0], c.Y[i]-p[1]
			if d := dx*dx + dy*dy; d <= bestSq {
				best, bestSq = c.Owner[i], d
			}
		}
	}
	return best, best >= 0
}

// Substeps returns how many substeps Advance(dt) would run, and the
// fractional remainder it would leave.
func (w *World) Substeps(dt float64) (int, float64) {
	total := dt * w.cfg.TargetHz
	if w.cfg.CarryRemainder {
		total += w.remainder
	}
	if !(total > 0) {
		return 0, 0
	}
	n := math.Floor(total)
	return int(n), total - n
}

// Advance moves the simulation forward by dt seconds in substeps of
// 1/TargetHz and returns the number of substeps run. The fractional
// remainder is dropped unless CarryRemainder is set.
func (w *World) Advance(dt float64) int {
	n, rest := w.Substeps(dt)
	if w.cfg.CarryRemainder {
		w.remainder = rest
	}

	w.checkStatic()
	h := float32(1 / w.cfg.TargetHz)
	dyn := w.store.Subset(SubsetDynamic)

	var solved SolveStats
	relaxed := 0
	for i := 0; i < n; i++ {
		dyn.addGravity(w.cfg.Gravity[0], w.cfg.Gravity[1])
		if w.forces != nil {
			w.forces(w)
		}
		solved.Add(w.solver.Solve(w.store))
		relaxed += w.sticks.Relax(w.store, h)
		dyn.integrate(h)
	}

	w.stats = Stats{
		Particles:       w.store.Len(),
		Static:          w.store.Subset(SubsetStatic).Len(),
		Dynamic:         dyn.Len(),
		Disabled:        w.store.Subset(SubsetDisabled).Len(),
		Sticks:          w.sticks.Len(),
		Substeps:        n,
		Relaxed:         relaxed,
		SolveStats:      solved,
		StaticHashStale: w.store.StaticVersion() != w.staticBuilt,
	}
	return n
}

func (w *World) checkStatic() {
	v := w.store.StaticVersion()
	if v == w.staticBuilt || v == w.staticWarned {
		return
	}
	w.staticWarned = v
	w.log.Warn("advancing with a stale static hash; call NotifyStaticTopologyChanged after changing static particles",
		"static", w.store.Subset(SubsetStatic).Len(),
		"built", w.staticBuilt,
		"current", v)
}
