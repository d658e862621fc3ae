// Package jelly rolls a soft wheel down generated hilly terrain past a row of
// jelly boxes. It doubles as a driving prototype: the wheel can be driven
// with a tangential force on its rim.
package jelly

import (
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"softbody/internal/core"
	"softbody/internal/physics"
	"softbody/internal/scenes"
	"softbody/internal/shape"
)

// Config controls the terrain, boxes and wheel.
type Config struct {
	Length float32
	Seed   int64

	Hills     int
	Amplitude float32
	Slope     float32

	Boxes     int
	BoxNodes  int
	Softness  float32
	WheelSize float32
	WheelRim  int
	Drive     float32

	Physics physics.Config
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Length:    60,
		Seed:      1337,
		Hills:     8,
		Amplitude: 1.5,
		Slope:     0.12,
		Boxes:     3,
		BoxNodes:  4,
		Softness:  0.5,
		WheelSize: 1.5,
		WheelRim:  16,
		Drive:     4,
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
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed >= 10 {
			c.Length = float32(parsed)
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["hills"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Hills = parsed
		}
	}
	if v, ok := cfg["amplitude"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed >= 0 {
			c.Amplitude = float32(parsed)
		}
	}
	if v, ok := cfg["slope"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			c.Slope = float32(parsed)
		}
	}
	if v, ok := cfg["boxes"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Boxes = parsed
		}
	}
	if v, ok := cfg["box_nodes"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 2 {
			c.BoxNodes = parsed
		}
	}
	if v, ok := cfg["softness"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			c.Softness = core.Clamp(float32(parsed), 0, 1)
		}
	}
	if v, ok := cfg["wheel_size"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed >= 0.5 {
			c.WheelSize = float32(parsed)
		}
	}
	if v, ok := cfg["wheel_rim"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 6 {
			c.WheelRim = parsed
		}
	}
	if v, ok := cfg["drive"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			c.Drive = float32(parsed)
		}
	}
	return c
}

const (
	groundRadius = 0.3
	nodeRadius   = 0.2
	boxSpacing   = 0.5
	// dropHeight is the gap left between spawned bodies and the terrain.
	dropHeight = 1.5
)

// Jelly is the terrain and wheel scene.
type Jelly struct {
	scenes.Base
	cfg Config

	ground []mgl32.Vec2
	wheel  shape.Wheel
	boxes  []shape.Mesh
}

// New creates a jelly scene. Call Reset before advancing it.
func New(cfg Config) *Jelly {
	j := &Jelly{cfg: cfg}
	view := physics.AABB{
		Min: mgl32.Vec2{-4, -8},
		Max: mgl32.Vec2{cfg.Length + 4, cfg.Length*cfg.Slope + cfg.Amplitude + 4},
	}
	j.Base = scenes.NewBase("jelly", view, cfg.Physics, j.build)
	return j
}

// Focus returns the wheel hub so the camera can follow it.
func (j *Jelly) Focus() (physics.Handle, bool) { return j.wheel.Hub, j.wheel.HasHub }

// Wheel returns the wheel built by the last Reset.
func (j *Jelly) Wheel() shape.Wheel { return j.wheel }

// Boxes returns the jelly boxes built by the last Reset.
func (j *Jelly) Boxes() []shape.Mesh { return j.boxes }

// Ground returns the terrain control points, left to right.
func (j *Jelly) Ground() []mgl32.Vec2 { return j.ground }

// GroundAt returns the interpolated terrain height at x.
func (j *Jelly) GroundAt(x float32) float32 {
	g := j.ground
	if len(g) == 0 {
		return 0
	}
	if x <= g[0][0] {
		return g[0][1]
	}
	for i := 1; i < len(g); i++ {
		if x <= g[i][0] {
			t := (x - g[i-1][0]) / (g[i][0] - g[i-1][0])
			return g[i-1][1] + t*(g[i][1]-g[i-1][1])
		}
	}
	return g[len(g)-1][1]
}

// drive pushes every rim particle along the rolling direction; a positive
// drive rolls the wheel towards +x with y pointing down. It is installed as
// the world's force field and runs once per substep.
func (j *Jelly) drive(w *physics.World) {
	if !j.wheel.HasHub || j.cfg.Drive == 0 {
		return
	}
	hub := w.Position(j.wheel.Hub)
	for _, h := range j.wheel.Rim {
		r := w.Position(h).Sub(hub)
		l := r.Len()
		if l == 0 {
			continue
		}
		tangent := mgl32.Vec2{-r[1] / l, r[0] / l}
		w.ApplyForce(h, tangent.Mul(j.cfg.Drive*w.Store().Mass(h)))
	}
}

func (j *Jelly) build(w *physics.World, b *shape.Builder, rng *core.RNG) {
	w.SetForces(j.drive)
	j.ground = j.terrain(rng)
	ground := shape.Template{Radius: groundRadius, Mass: 1, Static: true, Color: scenes.Stone}
	for i := 1; i < len(j.ground); i++ {
		b.Segment(j.ground[i-1], j.ground[i], ground)
	}

	start := j.ground[0][0] + j.cfg.WheelSize + 1
	hubY := j.GroundAt(start) - j.cfg.WheelSize - groundRadius - nodeRadius - dropHeight
	tire := shape.Template{Radius: nodeRadius, Mass: 1, Color: scenes.Rubber}
	j.wheel = b.Ring(mgl32.Vec2{start, hubY}, j.cfg.WheelSize, j.cfg.WheelRim, tire, shape.RingOptions{
		Stiffness:      1,
		Hub:            true,
		HubTemplate:    shape.Template{Radius: nodeRadius, Mass: 2, Color: scenes.Pin},
		SpokeStiffness: 1,
	})

	j.boxes = j.boxes[:0]
	side := float32(j.cfg.BoxNodes-1) * boxSpacing
	for i := 0; i < j.cfg.Boxes; i++ {
		x := j.cfg.Length * float32(i+1) / float32(j.cfg.Boxes+1)
		top := j.GroundAt(x) - side - groundRadius - nodeRadius - dropHeight
		node := shape.Template{Radius: nodeRadius, Mass: 0.5, Color: scenes.Shade(scenes.Jelly, rng, 30)}
		j.boxes = append(j.boxes, b.Grid(mgl32.Vec2{x - side/2, top}, j.cfg.BoxNodes, j.cfg.BoxNodes, boxSpacing, node, shape.GridOptions{
			Stiffness:      1,
			Shear:          true,
			ShearStiffness: j.cfg.Softness,
		}))
	}
}

// terrain returns control points from x=0 to Length, descending by Slope
// with a seeded sum of hills on top.
func (j *Jelly) terrain(rng *core.RNG) []mgl32.Vec2 {
	steps := max(j.cfg.Hills*4, 2)
	phase := rng.Range(0, 2*math.Pi)
	pts := make([]mgl32.Vec2, 0, steps+1)
	for i := 0; i <= steps; i++ {
		x := j.cfg.Length * float32(i) / float32(steps)
		hill := math.Sin(float64(phase) + 2*math.Pi*float64(j.cfg.Hills)*float64(i)/float64(steps))
		y := x*j.cfg.Slope + j.cfg.Amplitude*float32(hill)*0.5 + rng.Jitter(j.cfg.Amplitude*0.1)
		pts = append(pts, mgl32.Vec2{x, y})
	}
	return pts
}

// Parameters reports the scene and physics tunables.
func (j *Jelly) Parameters() core.ParameterSnapshot {
	return j.MergeParameters(core.ParameterGroup{
		Name: "Jelly",
		Params: []core.Parameter{
			core.FloatParam("drive", "Drive", float64(j.cfg.Drive), "tangential rim acceleration"),
			core.FloatParam("softness", "Softness", float64(j.cfg.Softness), "shear stiffness of the boxes"),
			core.IntParam("boxes", "Boxes", j.cfg.Boxes, ""),
			core.IntParam("hills", "Hills", j.cfg.Hills, ""),
		},
	})
}

// ParameterControls adds the drive and box controls to the physics controls.
func (j *Jelly) ParameterControls() []core.ParameterControl {
	return append([]core.ParameterControl{
		{Key: "drive", Label: "Drive", Type: core.ParamTypeFloat, Step: 0.5, Min: -20, Max: 20, HasMin: true, HasMax: true},
		{Key: "softness", Label: "Softness", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "boxes", Label: "Boxes", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 12, HasMin: true, HasMax: true},
	}, j.Base.ParameterControls()...)
}

// SetFloatParameter updates the drive live; softness rebuilds the scene.
func (j *Jelly) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "drive":
		j.cfg.Drive = core.Clamp(float32(value), -20, 20)
		return true
	case "softness":
		j.cfg.Softness = core.Clamp(float32(value), 0, 1)
		j.Reset(j.Seed())
		return true
	}
	return j.Base.SetFloatParameter(key, value)
}

// SetIntParameter updates the box count and rebuilds the scene.
func (j *Jelly) SetIntParameter(key string, value int) bool {
	if key != "boxes" {
		return j.Base.SetIntParameter(key, value)
	}
	j.cfg.Boxes = core.Clamp(value, 0, 12)
	j.Reset(j.Seed())
	return true
}

func init() {
	core.Register("jelly", func(cfg map[string]string) core.Scene {
		c := FromMap(cfg)
		j := New(c)
		j.Reset(c.Seed)
		return j
	})
}
