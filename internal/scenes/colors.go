package scenes

import (
	"image/color"

	"softbody/internal/core"
)

// Shared palette.
var (
	Stone  = color.RGBA{R: 96, G: 98, B: 110, A: 255}
	Pin    = color.RGBA{R: 230, G: 70, B: 60, A: 255}
	Cloth  = color.RGBA{R: 200, G: 200, B: 215, A: 255}
	Jelly  = color.RGBA{R: 90, G: 200, B: 140, A: 255}
	Rubber = color.RGBA{R: 50, G: 50, B: 56, A: 255}
	Sand   = color.RGBA{R: 222, G: 184, B: 110, A: 255}
)

// Shade returns c with each channel shifted by up to ±spread.
func Shade(c color.RGBA, rng *core.RNG, spread int) color.RGBA {
	shift := func(v uint8) uint8 {
		return uint8(core.Clamp(int(v)+rng.IntN(2*spread+1)-spread, 0, 255))
	}
	return color.RGBA{R: shift(c.R), G: shift(c.G), B: shift(c.B), A: c.A}
}
