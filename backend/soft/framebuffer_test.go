package soft

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/glpipe"
)

func TestFramebufferWindowCoordinates(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	c := color.NRGBA{R: 1, G: 2, B: 3, A: 4}
	fb.SetWindowPixel(0, 0, c)
	if got := fb.Pixel(0, 1); got != c {
		t.Errorf("window (0,0) landed at %v, want bottom-left", got)
	}
	if got := fb.Pixel(0, 0); got != (color.NRGBA{}) {
		t.Errorf("Pixel(0,0) = %v, want transparent", got)
	}
}

func TestFramebufferOutOfBounds(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.SetPixel(-1, 0, color.NRGBA{A: 255})
	fb.SetPixel(0, 2, color.NRGBA{A: 255})
	if !fb.Blank() {
		t.Error("out of bounds SetPixel wrote data")
	}
	if got := fb.Pixel(5, 5); got != (color.NRGBA{}) {
		t.Errorf("Pixel(5,5) = %v, want zero", got)
	}
}

func TestFramebufferClearAndCount(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	fb.Clear(glpipe.RGB(0, 1, 0))
	green := color.NRGBA{G: 255, A: 255}
	if got := fb.Count(green); got != 12 {
		t.Errorf("Count(green) = %d, want 12", got)
	}
	fb.Clear(glpipe.Transparent)
	if !fb.Blank() {
		t.Error("Clear(Transparent) left data")
	}
}

func TestFramebufferSavePNG(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	c := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	fb.SetPixel(1, 0, c)

	path := filepath.Join(t.TempDir(), "out.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if got := color.NRGBAModel.Convert(img.At(1, 0)); got != c {
		t.Errorf("decoded pixel = %v, want %v", got, c)
	}
}

func TestCanvasResizeClears(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Framebuffer().Clear(glpipe.RGB(1, 1, 1))
	c.SetSize(5, 4)
	if w, h := c.Size(); w != 5 || h != 4 {
		t.Errorf("Size() = %dx%d, want 5x4", w, h)
	}
	if !c.Framebuffer().Blank() {
		t.Error("resized canvas is not transparent")
	}
	if c.Resizes() != 1 {
		t.Errorf("Resizes() = %d, want 1", c.Resizes())
	}
}
