// Package cloth hangs a cuttable sheet from pinned particles over a static
// obstacle.
package cloth

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"softbody/internal/core"
	"softbody/internal/physics"
	"softbody/internal/scenes"
	"softbody/internal/shape"
)

// Config controls the sheet.
type Config struct {
	Cols int
	Rows int
	Seed int64

	Spacing   float32
	Radius    float32
	Stiffness float32
	// PinEvery pins every n-th node of the top row; the corners are always
	// pinned.
	PinEvery int
	Obstacle bool

	Physics physics.Config
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Cols:      36,
		Rows:      24,
		Seed:      1337,
		Spacing:   0.5,
		Radius:    0.12,
		Stiffness: 1,
		PinEvery:  5,
		Obstacle:  true,
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
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 1 {
			c.Cols = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 1 {
			c.Rows = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["spacing"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed > 0 {
			c.Spacing = float32(parsed)
		}
	}
	if v, ok := cfg["radius"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed > 0 {
			c.Radius = float32(parsed)
		}
	}
	if c.Radius*2 > c.Spacing {
		c.Radius = c.Spacing / 2
	}
	if v, ok := cfg["stiffness"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			c.Stiffness = core.Clamp(float32(parsed), 0, 1)
		}
	}
	if v, ok := cfg["pin_every"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.PinEvery = parsed
		}
	}
	if v, ok := cfg["obstacle"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Obstacle = parsed
		}
	}
	return c
}

// Cloth is the hanging sheet scene.
type Cloth struct {
	scenes.Base
	cfg  Config
	mesh shape.Mesh
}

// New creates a cloth scene. Call Reset before advancing it.
func New(cfg Config) *Cloth {
	c := &Cloth{cfg: cfg}
	width := float32(cfg.Cols-1) * cfg.Spacing
	height := float32(cfg.Rows-1) * cfg.Spacing
	c.Base = scenes.NewBase("cloth", scenes.ViewBox(width*1.6, height*2.2), cfg.Physics, c.build)
	return c
}

// Mesh returns the sheet built by the last Reset.
func (c *Cloth) Mesh() shape.Mesh { return c.mesh }

// Pinned reports whether the node at col, row of the top edge is pinned.
func (c *Cloth) Pinned(col, row int) bool {
	if row != 0 {
		return false
	}
	return col == 0 || col == c.cfg.Cols-1 || col%c.cfg.PinEvery == 0
}

func (c *Cloth) build(_ *physics.World, b *shape.Builder, rng *core.RNG) {
	width := float32(c.cfg.Cols-1) * c.cfg.Spacing
	height := float32(c.cfg.Rows-1) * c.cfg.Spacing
	origin := mgl32.Vec2{-width / 2, -height}
	node := shape.Template{Radius: c.cfg.Radius, Mass: 1, Color: scenes.Cloth}

	c.mesh = b.Grid(origin, c.cfg.Cols, c.cfg.Rows, c.cfg.Spacing, node, shape.GridOptions{
		Stiffness: c.cfg.Stiffness,
		Pin:       c.Pinned,
		PinColor:  scenes.Pin,
	})
	if c.cfg.Obstacle {
		r := width / 6
		b.Particle(mgl32.Vec2{rng.Jitter(width / 8), height * 0.4}, shape.Template{Radius: r, Mass: 1, Static: true, Color: scenes.Stone})
	}
}

// Parameters reports the sheet and physics tunables.
func (c *Cloth) Parameters() core.ParameterSnapshot {
	return c.MergeParameters(core.ParameterGroup{
		Name: "Cloth",
		Params: []core.Parameter{
			core.IntParam("w", "Columns", c.cfg.Cols, ""),
			core.IntParam("h", "Rows", c.cfg.Rows, ""),
			core.FloatParam("stiffness", "Stiffness", float64(c.cfg.Stiffness), "1 is rigid; softer sticks relax over time"),
			core.IntParam("pin_every", "Pin every", c.cfg.PinEvery, "top row pin interval"),
		},
	})
}

// ParameterControls adds the sheet controls to the physics controls.
func (c *Cloth) ParameterControls() []core.ParameterControl {
	return append([]core.ParameterControl{
		{Key: "stiffness", Label: "Stiffness", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "pin_every", Label: "Pin every", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 64, HasMin: true, HasMax: true},
	}, c.Base.ParameterControls()...)
}

// SetFloatParameter updates the stick stiffness and rebuilds the sheet.
func (c *Cloth) SetFloatParameter(key string, value float64) bool {
	if key != "stiffness" {
		return c.Base.SetFloatParameter(key, value)
	}
	c.cfg.Stiffness = core.Clamp(float32(value), 0, 1)
	c.Reset(c.Seed())
	return true
}

// SetIntParameter updates the pin interval and rebuilds the sheet.
func (c *Cloth) SetIntParameter(key string, value int) bool {
	if key != "pin_every" {
		return c.Base.SetIntParameter(key, value)
	}
	c.cfg.PinEvery = core.Clamp(value, 1, 64)
	c.Reset(c.Seed())
	return true
}

func init() {
	core.Register("cloth", func(cfg map[string]string) core.Scene {
		conf := FromMap(cfg)
		c := New(conf)
		c.Reset(conf.Seed)
		return c
	})
}
