package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"softbody/internal/physics"
)

// Vertex mirrors ebiten.Vertex so geometry can be built and tested without a
// graphics context.
type Vertex struct {
	DstX, DstY float32
	SrcX, SrcY float32

	ColorR, ColorG, ColorB, ColorA float32
}

// maxVertices keeps every batch addressable by uint16 indices.
const maxVertices = math.MaxUint16

// Batch is one DrawTriangles call.
type Batch struct {
	Vertices []Vertex
	Indices  []uint16
}

// Discs turns particles into triangle fans. Particles smaller than a pixel
// are drawn as a single quad; off-screen particles are skipped.
type Discs struct {
	// Segments is the fan resolution for large particles.
	Segments int

	batches []Batch
	used    int
	unit    [][2]float32
}

// NewDiscs returns a disc builder with the given fan resolution.
func NewDiscs(segments int) *Discs {
	d := &Discs{}
	d.setSegments(max(segments, 6))
	return d
}

func (d *Discs) setSegments(n int) {
	d.Segments = n
	d.unit = d.unit[:0]
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		d.unit = append(d.unit, [2]float32{float32(math.Cos(a)), float32(math.Sin(a))})
	}
}

// Build fills the batches from snap. The returned slice is reused by the
// next call.
func (d *Discs) Build(snap *physics.Snapshot, t Transform, screenW, screenH int) []Batch {
	if d.Segments != len(d.unit) {
		d.setSegments(max(d.Segments, 6))
	}
	for i := range d.batches {
		d.batches[i].Vertices = d.batches[i].Vertices[:0]
		d.batches[i].Indices = d.batches[i].Indices[:0]
	}
	d.used = 0

	for i, p := range snap.Positions {
		x, y := t.ToScreen(p)
		r := t.Len(snap.Radii[i])
		if x+r < 0 || y+r < 0 || x-r > float32(screenW) || y-r > float32(screenH) {
			continue
		}
		cr, cg, cb, ca := premultiplied(snap.Colors[i])
		if r < 1.5 {
			d.quad(x, y, max(r, 0.5), cr, cg, cb, ca)
			continue
		}
		d.fan(x, y, r, cr, cg, cb, ca)
	}
	return d.batches[:d.used]
}

// batch returns a batch with room for n more vertices.
func (d *Discs) batch(n int) *Batch {
	if d.used > 0 && len(d.batches[d.used-1].Vertices)+n <= maxVertices {
		return &d.batches[d.used-1]
	}
	if d.used == len(d.batches) {
		d.batches = append(d.batches, Batch{})
	}
	d.used++
	return &d.batches[d.used-1]
}

func (d *Discs) quad(x, y, r, cr, cg, cb, ca float32) {
	b := d.batch(4)
	base := uint16(len(b.Vertices))
	for _, c := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
		b.Vertices = append(b.Vertices, Vertex{DstX: x + c[0]*r, DstY: y + c[1]*r, SrcX: 1, SrcY: 1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca})
	}
	b.Indices = append(b.Indices, base, base+1, base+2, base, base+2, base+3)
}

func (d *Discs) fan(x, y, r, cr, cg, cb, ca float32) {
	n := len(d.unit)
	b := d.batch(n + 1)
	center := uint16(len(b.Vertices))
	b.Vertices = append(b.Vertices, Vertex{DstX: x, DstY: y, SrcX: 1, SrcY: 1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca})
	for _, u := range d.unit {
		b.Vertices = append(b.Vertices, Vertex{DstX: x + u[0]*r, DstY: y + u[1]*r, SrcX: 1, SrcY: 1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca})
	}
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		b.Indices = append(b.Indices, center, center+1+uint16(i), center+1+uint16(next))
	}
}

// Segment is a line in screen space.
type Segment struct {
	X0, Y0, X1, Y1 float32
}

// StickSegments converts stick endpoints to screen space, dropping lines
// entirely outside the screen.
func StickSegments(dst []Segment, sticks [][2]mgl32.Vec2, t Transform, screenW, screenH int) []Segment {
	dst = dst[:0]
	w, h := float32(screenW), float32(screenH)
	for _, s := range sticks {
		x0, y0 := t.ToScreen(s[0])
		x1, y1 := t.ToScreen(s[1])
		if max(x0, x1) < 0 || max(y0, y1) < 0 || min(x0, x1) > w || min(y0, y1) > h {
			continue
		}
		dst = append(dst, Segment{X0: x0, Y0: y0, X1: x1, Y1: y1})
	}
	return dst
}
