package render

import "image/color"

// premultiplied converts c to the premultiplied [0,1] components ebiten
// vertices expect.
func premultiplied(c color.RGBA) (r, g, b, a float32) {
	a = float32(c.A) / 255
	return float32(c.R) / 255 * a, float32(c.G) / 255 * a, float32(c.B) / 255 * a, a
}

// Heat returns tint with an alpha that grows with n relative to peak, for
// occupancy overlays. Empty cells are fully transparent.
func Heat(tint color.RGBA, n, peak int) color.RGBA {
	if n <= 0 || peak <= 0 {
		return color.RGBA{}
	}
	const (
		minAlpha = 40.0
		maxAlpha = 170.0
	)
	t := min(float64(n)/float64(peak), 1)
	alpha := minAlpha + (maxAlpha-minAlpha)*t
	// premultiply so the result composes correctly with ebiten's blending
	scale := alpha / 255
	return color.RGBA{
		R: uint8(float64(tint.R) * scale),
		G: uint8(float64(tint.G) * scale),
		B: uint8(float64(tint.B) * scale),
		A: uint8(alpha),
	}
}
