package soft

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/gogpu/glpipe"
)

// Framebuffer is the color buffer of a soft canvas: non-premultiplied
// RGBA8, 4 bytes per pixel, stored top row first like image.NRGBA.
//
// Pixel accessors use image coordinates (origin top-left). The device
// writes through SetWindowPixel, which takes GL window coordinates
// (origin bottom-left).
type Framebuffer struct {
	width  int
	height int
	data   []uint8
}

// NewFramebuffer creates a transparent framebuffer of the given size.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the framebuffer.
func (f *Framebuffer) Width() int {
	return f.width
}

// Height returns the height of the framebuffer.
func (f *Framebuffer) Height() int {
	return f.height
}

// Data returns the raw pixel data.
func (f *Framebuffer) Data() []uint8 {
	return f.data
}

// SetPixel sets the color of a single pixel.
func (f *Framebuffer) SetPixel(x, y int, c color.NRGBA) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	i := (y*f.width + x) * 4
	f.data[i+0] = c.R
	f.data[i+1] = c.G
	f.data[i+2] = c.B
	f.data[i+3] = c.A
}

// SetWindowPixel sets a pixel addressed in GL window coordinates.
func (f *Framebuffer) SetWindowPixel(x, y int, c color.NRGBA) {
	f.SetPixel(x, f.height-1-y, c)
}

// Pixel returns the color of a single pixel.
func (f *Framebuffer) Pixel(x, y int) color.NRGBA {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return color.NRGBA{}
	}
	i := (y*f.width + x) * 4
	return color.NRGBA{R: f.data[i+0], G: f.data[i+1], B: f.data[i+2], A: f.data[i+3]}
}

// Clear fills the entire framebuffer with a color.
func (f *Framebuffer) Clear(c glpipe.RGBA) {
	n := c.Color().(color.NRGBA)
	for i := 0; i < len(f.data); i += 4 {
		f.data[i+0] = n.R
		f.data[i+1] = n.G
		f.data[i+2] = n.B
		f.data[i+3] = n.A
	}
}

// Blank reports whether every pixel is transparent black.
func (f *Framebuffer) Blank() bool {
	for _, b := range f.data {
		if b != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of pixels equal to c.
func (f *Framebuffer) Count(c color.NRGBA) int {
	n := 0
	for i := 0; i < len(f.data); i += 4 {
		if f.data[i] == c.R && f.data[i+1] == c.G && f.data[i+2] == c.B && f.data[i+3] == c.A {
			n++
		}
	}
	return n
}

// ToImage copies the framebuffer into an image.NRGBA.
func (f *Framebuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.width, f.height))
	copy(img.Pix, f.data)
	return img
}

// SavePNG saves the framebuffer to a PNG file.
func (f *Framebuffer) SavePNG(path string) error {
	out, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(out, f.ToImage()); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// At implements the image.Image interface.
func (f *Framebuffer) At(x, y int) color.Color {
	return f.Pixel(x, y)
}

// Bounds implements the image.Image interface.
func (f *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

// ColorModel implements the image.Image interface.
func (f *Framebuffer) ColorModel() color.Model {
	return color.NRGBAModel
}
