package glpipe

import (
	"image/color"
	"math/rand/v2"
)

// RGBA is a non-premultiplied color with components in [0, 1], the form
// GL clear colors and vec4 color uniforms take.
type RGBA struct {
	R, G, B, A float32
}

// Color converts c to a color.NRGBA.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: unitToByte(c.R),
		G: unitToByte(c.G),
		B: unitToByte(c.B),
		A: unitToByte(c.A),
	}
}

// FromColor converts any color.Color to non-premultiplied RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: float32(n.R) / 255,
		G: float32(n.G) / 255,
		B: float32(n.B) / 255,
		A: float32(n.A) / 255,
	}
}

// RGB creates an opaque color.
func RGB(r, g, b float32) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// RandomOpaque returns a color with red, green and blue drawn uniformly
// from [0, 1) and alpha fixed at 1.
func RandomOpaque(rng *rand.Rand) RGBA {
	return RGB(rng.Float32(), rng.Float32(), rng.Float32())
}

// Transparent is transparent black, the default clear color.
var Transparent = RGBA{}

func unitToByte(x float32) uint8 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 255
	}
	return uint8(x*255 + 0.5)
}
