// Package scenes holds the pieces shared by the sandbox levels. The levels
// themselves live in subpackages and register with core on import.
package scenes

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"

	"softbody/internal/core"
	"softbody/internal/physics"
	"softbody/internal/shape"
)

// minHz keeps at least one substep per frame at 60 frames per second.
const (
	minHz = 60
	maxHz = 960
)

// BuildFunc populates a fresh world.
type BuildFunc func(w *physics.World, b *shape.Builder, rng *core.RNG)

// Base owns a scene's world and rebuilds it on Reset. Scenes embed it and
// supply a BuildFunc.
type Base struct {
	name  string
	view  physics.AABB
	phys  physics.Config
	build BuildFunc
	log   *log.Logger

	world   *physics.World
	seed    int64
	frames  int
	time    float64
	stalled bool
}

// NewBase returns a Base. Reset must be called before the world is used.
func NewBase(name string, view physics.AABB, phys physics.Config, build BuildFunc) Base {
	if phys.Validate() != nil {
		phys = physics.DefaultConfig()
	}
	return Base{
		name:  name,
		view:  view,
		phys:  phys,
		build: build,
		log:   log.NewWithOptions(io.Discard, log.Options{}),
	}
}

// SetLogger routes world diagnostics of future resets to l.
func (b *Base) SetLogger(l *log.Logger) {
	if l != nil {
		b.log = l
	}
}

// Name identifies the scene.
func (b *Base) Name() string { return b.name }

// View returns the world-space region the scene is laid out in.
func (b *Base) View() physics.AABB { return b.view }

// World returns the live world.
func (b *Base) World() *physics.World { return b.world }

// Seed returns the seed of the last Reset.
func (b *Base) Seed() int64 { return b.seed }

// Frames returns how many times Advance ran since the last Reset.
func (b *Base) Frames() int { return b.frames }

// Elapsed returns the simulated seconds since the last Reset.
func (b *Base) Elapsed() float64 { return b.time }

// PhysicsConfig returns the configuration new worlds are created with.
func (b *Base) PhysicsConfig() physics.Config { return b.phys }

// Reset discards the world and builds a new one from seed.
func (b *Base) Reset(seed int64) {
	b.seed = seed
	b.frames = 0
	b.time = 0
	b.stalled = false
	b.world = physics.New(b.phys, physics.WithLogger(b.log))
	b.build(b.world, shape.New(b.world), core.NewRNG(seed))
	b.world.NotifyStaticTopologyChanged()
}

// Advance steps the world by dt seconds.
func (b *Base) Advance(dt float64) {
	if b.world == nil {
		b.Reset(b.seed)
	}
	if n := b.world.Advance(dt); n == 0 && dt > 0 && !b.stalled {
		b.stalled = true
		b.log.Warn("frame ran no substeps; raise hz or the frame time",
			"scene", b.name, "dt", dt, "hz", b.phys.TargetHz)
	}
	b.frames++
	b.time += dt
}

// Parameters reports the physics tunables and live counters.
func (b *Base) Parameters() core.ParameterSnapshot {
	stats := physics.Stats{}
	if b.world != nil {
		stats = b.world.Stats()
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Physics",
			Params: []core.Parameter{
				core.IntParam("hz", "Substep Hz", int(b.phys.TargetHz), "substeps per simulated second"),
				core.FloatParam("gravity_y", "Gravity", float64(b.phys.Gravity[1]), "downward acceleration"),
				core.FloatParam("tile", "Hash tile", float64(b.phys.TileSize), "spatial hash cell size"),
				core.FloatParam("margin", "Hash margin", float64(b.phys.HashMargin), "dynamic AABB padding"),
			},
		},
		{
			Name: "Stats",
			Params: []core.Parameter{
				core.IntParam("particles", "Particles", stats.Particles, ""),
				core.IntParam("sticks", "Sticks", stats.Sticks, ""),
				core.IntParam("substeps", "Substeps", stats.Substeps, "last frame"),
				core.IntParam("checks", "Checks", stats.Checks, "narrow phase tests last frame"),
				core.IntParam("contacts", "Contacts", stats.Contacts, "overlaps resolved last frame"),
			},
		},
	}}
}

// ParameterControls lists the physics controls shown on the HUD.
func (b *Base) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "hz", Label: "Substep Hz", Type: core.ParamTypeInt, Step: 30, Min: minHz, Max: maxHz, HasMin: true, HasMax: true},
		{Key: "gravity_y", Label: "Gravity", Type: core.ParamTypeFloat, Step: 0.5, Min: -30, Max: 30, HasMin: true, HasMax: true},
	}
}

// SetIntParameter updates an integer physics tunable.
func (b *Base) SetIntParameter(key string, value int) bool {
	switch key {
	case "hz":
		b.phys.TargetHz = float64(core.Clamp(value, minHz, maxHz))
		if b.world != nil {
			b.world.SetTargetHz(b.phys.TargetHz)
		}
		return true
	}
	return false
}

// SetFloatParameter updates a float physics tunable.
func (b *Base) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "gravity_y":
		b.phys.Gravity[1] = float32(core.Clamp(value, -30, 30))
		if b.world != nil {
			b.world.SetGravity(b.phys.Gravity)
		}
		return true
	}
	return false
}

// MergeParameters appends scene-specific groups to the base snapshot.
func (b *Base) MergeParameters(groups ...core.ParameterGroup) core.ParameterSnapshot {
	snap := b.Parameters()
	snap.Groups = append(groups, snap.Groups...)
	return snap
}

// ViewBox returns a view rectangle of the given size centered on the origin.
func ViewBox(w, h float32) physics.AABB {
	return physics.AABB{Min: mgl32.Vec2{-w / 2, -h / 2}, Max: mgl32.Vec2{w / 2, h / 2}}
}
