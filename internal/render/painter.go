//go:build ebiten

package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"softbody/internal/physics"
)

// Painter draws snapshots with batched DrawTriangles calls.
type Painter struct {
	discs *Discs
	white *ebiten.Image
	verts []ebiten.Vertex
	segs  []Segment

	StickColor color.RGBA
	StickWidth float32
}

// NewPainter constructs a painter.
func NewPainter() *Painter {
	base := ebiten.NewImage(3, 3)
	base.Fill(color.White)
	return &Painter{
		discs:      NewDiscs(16),
		white:      base.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
		StickColor: color.RGBA{R: 150, G: 150, B: 165, A: 255},
		StickWidth: 1,
	}
}

// Draw paints the sticks, then the particles of snap.
func (p *Painter) Draw(dst *ebiten.Image, snap *physics.Snapshot, t Transform) {
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()

	p.segs = StickSegments(p.segs, snap.Sticks, t, w, h)
	for _, s := range p.segs {
		vector.StrokeLine(dst, s.X0, s.Y0, s.X1, s.Y1, p.StickWidth, p.StickColor, true)
	}

	op := &ebiten.DrawTrianglesOptions{}
	for _, b := range p.discs.Build(snap, t, w, h) {
		p.verts = p.verts[:0]
		for _, v := range b.Vertices {
			p.verts = append(p.verts, ebiten.Vertex{
				DstX: v.DstX, DstY: v.DstY,
				SrcX: v.SrcX, SrcY: v.SrcY,
				ColorR: v.ColorR, ColorG: v.ColorG, ColorB: v.ColorB, ColorA: v.ColorA,
			})
		}
		dst.DrawTriangles(p.verts, b.Indices, p.white, op)
	}
}
