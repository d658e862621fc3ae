// Package pile drops a jittered heap of loose particles into a static bowl.
package pile

import (
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"softbody/internal/core"
	"softbody/internal/physics"
	"softbody/internal/scenes"
	"softbody/internal/shape"
)

// Config controls the pile layout.
type Config struct {
	Width  float32
	Height float32
	Seed   int64

	Count     int
	RadiusMin float32
	RadiusMax float32

	Physics physics.Config
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:     24,
		Height:    16,
		Seed:      1337,
		Count:     200,
		RadiusMin: 0.2,
		RadiusMax: 0.4,
		Physics:   physics.DefaultConfig(),
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.Physics = physics.FromMap(cfg)
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed >= 4 {
			c.Width = float32(parsed)
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed >= 4 {
			c.Height = float32(parsed)
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["count"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Count = parsed
		}
	}
	if v, ok := cfg["radius_min"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed > 0 {
			c.RadiusMin = float32(parsed)
		}
	}
	if v, ok := cfg["radius_max"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed > 0 {
			c.RadiusMax = float32(parsed)
		}
	}
	if c.RadiusMax < c.RadiusMin {
		c.RadiusMax = c.RadiusMin
	}
	return c
}

// Pile is the bowl-and-heap scene.
type Pile struct {
	scenes.Base
	cfg Config

	placed int
}

// New creates a pile scene. Call Reset before advancing it.
func New(cfg Config) *Pile {
	p := &Pile{cfg: cfg}
	view := scenes.ViewBox(cfg.Width+2, cfg.Height+2)
	p.Base = scenes.NewBase("pile", view, cfg.Physics, p.build)
	return p
}

// Placed returns how many loose particles the last Reset created.
func (p *Pile) Placed() int { return p.placed }

func (p *Pile) build(w *physics.World, b *shape.Builder, rng *core.RNG) {
	hw, hh := p.cfg.Width/2, p.cfg.Height/2
	wall := shape.Template{Radius: 0.5, Mass: 1, Static: true, Color: scenes.Stone}

	b.Segment(mgl32.Vec2{-hw, hh}, mgl32.Vec2{hw, hh}, wall)
	b.Segment(mgl32.Vec2{-hw, -hh}, mgl32.Vec2{-hw, hh}, wall)
	b.Segment(mgl32.Vec2{hw, -hh}, mgl32.Vec2{hw, hh}, wall)
	bowl := p.cfg.Width / 5
	b.Arc(mgl32.Vec2{0, hh - bowl}, bowl, math.Pi/6, 5*math.Pi/6, wall)

	// Loose particles start on a jittered lattice in the upper part of the
	// container so none of them overlap.
	cell := 2*p.cfg.RadiusMax + 0.05
	cols := int((p.cfg.Width - 2) / cell)
	rows := int((p.cfg.Height * 0.5) / cell)
	limit := min(p.cfg.Count, cols*rows)
	left := -float32(cols) * cell / 2
	top := -hh + 1

	p.placed = 0
	for i := 0; i < limit; i++ {
		r := rng.Range(p.cfg.RadiusMin, p.cfg.RadiusMax)
		slack := cell/2 - r
		pos := mgl32.Vec2{
			left + (float32(i%cols)+0.5)*cell + rng.Jitter(slack),
			top + (float32(i/cols)+0.5)*cell + rng.Jitter(slack),
		}
		b.Particle(pos, shape.Template{Radius: r, Mass: r * r * 4, Color: scenes.Shade(scenes.Sand, rng, 24)})
		p.placed++
	}
}

// Parameters reports the scene and physics tunables.
func (p *Pile) Parameters() core.ParameterSnapshot {
	return p.MergeParameters(core.ParameterGroup{
		Name: "Pile",
		Params: []core.Parameter{
			core.IntParam("count", "Particles", p.cfg.Count, "loose particles per reset"),
			core.FloatParam("radius_min", "Radius min", float64(p.cfg.RadiusMin), ""),
			core.FloatParam("radius_max", "Radius max", float64(p.cfg.RadiusMax), ""),
			core.IntParam("seed", "Seed", int(p.Seed()), ""),
		},
	})
}

// ParameterControls adds the heap size to the physics controls.
func (p *Pile) ParameterControls() []core.ParameterControl {
	return append([]core.ParameterControl{
		{Key: "count", Label: "Particles", Type: core.ParamTypeInt, Step: 50, Min: 0, Max: 5000, HasMin: true, HasMax: true},
	}, p.Base.ParameterControls()...)
}

// SetIntParameter updates the heap size and rebuilds the scene.
func (p *Pile) SetIntParameter(key string, value int) bool {
	if key == "count" {
		p.cfg.Count = core.Clamp(value, 0, 5000)
		p.Reset(p.Seed())
		return true
	}
	return p.Base.SetIntParameter(key, value)
}

func init() {
	core.Register("pile", func(cfg map[string]string) core.Scene {
		c := FromMap(cfg)
		p := New(c)
		p.Reset(c.Seed)
		return p
	})
}
