//go:build ebiten

package ui

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"softbody/internal/physics"
	"softbody/internal/render"
)

// hashProvider is implemented by solvers that expose their broad phase.
type hashProvider interface {
	StaticHash() physics.SpatialHash
	DynamicHash() physics.SpatialHash
}

// Overlay draws optional debugging visuals on top of the scene:
// 1 toggles hash cells, 2 stick tension, 3 particle AABBs.
type Overlay struct {
	showCells   bool
	showTension bool
	showAABBs   bool
}

// NewOverlay constructs a new overlay instance.
func NewOverlay() *Overlay { return &Overlay{} }

// Update toggles the layers.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showCells = !o.showCells
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showTension = !o.showTension
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showAABBs = !o.showAABBs
	}
}

// Draw renders the enabled layers for w.
func (o *Overlay) Draw(screen *ebiten.Image, w *physics.World, t render.Transform) {
	if w == nil {
		return
	}
	if o.showCells {
		if hp, ok := w.Solver().(hashProvider); ok {
			o.drawCells(screen, hp.StaticHash(), t, color.RGBA{R: 90, G: 90, B: 200, A: 255})
			o.drawCells(screen, hp.DynamicHash(), t, color.RGBA{R: 230, G: 140, B: 40, A: 255})
		}
	}
	if o.showTension {
		o.drawTension(screen, w, t)
	}
	if o.showAABBs {
		o.drawAABBs(screen, w.Store().Subset(physics.SubsetDynamic), t)
	}
}

func (o *Overlay) drawCells(screen *ebiten.Image, h physics.SpatialHash, t render.Transform, tint color.RGBA) {
	peak := 0
	h.VisitCells(func(_ physics.Cell, n int) { peak = max(peak, n) })
	size := t.Len(h.TileSize())
	h.VisitCells(func(c physics.Cell, n int) {
		x, y := t.ToScreen(cellOrigin(c, h.TileSize()))
		vector.DrawFilledRect(screen, x, y, size, size, render.Heat(tint, n, peak), false)
	})
}

func cellOrigin(c physics.Cell, tile float32) mgl32.Vec2 {
	return mgl32.Vec2{float32(c.X) * tile, float32(c.Y) * tile}
}

// drawTension colors sticks by strain: blue when compressed, red when
// stretched.
func (o *Overlay) drawTension(screen *ebiten.Image, w *physics.World, t render.Transform) {
	s := w.Store()
	for _, st := range w.Sticks().All() {
		if !st.Enabled || !s.IsEnabled(st.A) || !s.IsEnabled(st.B) || st.Rest == 0 {
			continue
		}
		a, b := s.Position(st.A), s.Position(st.B)
		strain := (b.Sub(a).Len() - st.Rest) / st.Rest
		x0, y0 := t.ToScreen(a)
		x1, y1 := t.ToScreen(b)
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, strainColor(strain), true)
	}
}

func strainColor(strain float32) color.RGBA {
	k := min(max(strain*10, -1), 1)
	if k >= 0 {
		return color.RGBA{R: 255, G: uint8(255 * (1 - k)), B: uint8(255 * (1 - k)), A: 255}
	}
	return color.RGBA{R: uint8(255 * (1 + k)), G: uint8(255 * (1 + k)), B: 255, A: 255}
}

func (o *Overlay) drawAABBs(screen *ebiten.Image, c *physics.Columns, t render.Transform) {
	for i := 0; i < c.Len(); i++ {
		box := c.AABB(i)
		x, y := t.ToScreen(box.Min)
		size := box.Size()
		vector.StrokeRect(screen, x, y, t.Len(size[0]), t.Len(size[1]), 1, color.RGBA{R: 80, G: 220, B: 120, A: 160}, false)
	}
}
