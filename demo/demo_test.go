package demo_test

import (
	"errors"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/glpipe"
	"github.com/gogpu/glpipe/backend/soft"
	"github.com/gogpu/glpipe/demo"
)

var pink = color.NRGBA{R: 255, G: 77, B: 128, A: 255}

func runSoft(t *testing.T, d demo.Demo, opts ...soft.Option) *soft.Device {
	t.Helper()
	dev := soft.New(soft.NewCanvas(1, 1), opts...)
	if _, err := demo.Run(dev, dev.Canvas(), d); err != nil {
		t.Fatalf("Run(%s) error = %v", d.Name, err)
	}
	if code := dev.Err(); code != soft.NoError {
		t.Fatalf("Run(%s) left GL error %v", d.Name, code)
	}
	return dev
}

func TestHelloWorld(t *testing.T) {
	dev := runSoft(t, demo.HelloWorld())
	fb := dev.Framebuffer()
	if fb.Width() != demo.DefaultWidth || fb.Height() != demo.DefaultHeight {
		t.Fatalf("canvas = %dx%d, want %dx%d", fb.Width(), fb.Height(), demo.DefaultWidth, demo.DefaultHeight)
	}
	// Clip (0,0)-(0.7,0)-(0,0.5) covers window x in [200, 340), y in [150, 225).
	if got := fb.Pixel(210, 299-160); got != pink {
		t.Errorf("inside pixel = %v, want %v", got, pink)
	}
	if got := fb.Pixel(10, 10); got != (color.NRGBA{}) {
		t.Errorf("outside pixel = %v, want transparent", got)
	}
	n := fb.Count(pink)
	if n < 5000 || n > 5500 {
		t.Errorf("pink pixels = %d, want about 5250", n)
	}
}

func TestTwoRectangles(t *testing.T) {
	fb := runSoft(t, demo.TwoRectangles()).Framebuffer()
	if got := fb.Count(pink); got != 70*10 {
		t.Errorf("pink pixels = %d, want %d", got, 70*10)
	}
	if fb.Pixel(10, 20) != pink || fb.Pixel(79, 29) != pink {
		t.Error("rectangle corners not drawn")
	}
	if fb.Pixel(80, 20) == pink || fb.Pixel(10, 30) == pink {
		t.Error("rectangle drawn past its right or bottom edge")
	}
}

func TestTranslationPlacesOrigin(t *testing.T) {
	dev := runSoft(t, demo.Translation(rand.New(rand.NewPCG(1, 2)), 150, 78))
	fb := dev.Framebuffer()

	got := fb.Pixel(150, 78)
	if got.A != 255 {
		t.Fatalf("Pixel(150, 78) = %v, want an opaque color", got)
	}
	none := color.NRGBA{}
	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{149, 78, none},
		{150, 77, none},
		// left column, top rung and middle rung end at x 180, 250 and 217
		{179, 227, got},
		{180, 227, none},
		{249, 78, got},
		{250, 78, none},
		{216, 138, got},
		{217, 138, none},
		// gap between the rungs
		{200, 118, none},
	}
	for _, tt := range tests {
		if p := fb.Pixel(tt.x, tt.y); p != tt.want {
			t.Errorf("Pixel(%d, %d) = %v, want %v", tt.x, tt.y, p, tt.want)
		}
	}
	// 30×150 + 70×30 + 37×30
	if n, want := fb.Count(got), 4500+2100+1110; n != want {
		t.Errorf("F covers %d pixels, want %d", n, want)
	}
}

func TestRandomRectanglesDrawSequence(t *testing.T) {
	const n = 50
	dev := runSoft(t, demo.RandomRectangles(rand.New(rand.NewPCG(3, 4)), n), soft.WithTrace())

	draws := 0
	uploaded, colored := false, false
	started := false
	for _, c := range dev.Calls() {
		switch c.Name {
		case "Clear":
			started = true
		case "BufferData":
			uploaded = true
			if started {
				if got := c.Args[1].(int); got != 12 {
					t.Errorf("BufferData uploaded %d floats, want 12", got)
				}
			}
		case "Uniform4f":
			colored = true
			for i := range 3 {
				if v := c.Args[i].(float32); v < 0 || v > 1 {
					t.Errorf("color component %d = %v, want [0, 1]", i, v)
				}
			}
			if a := c.Args[3].(float32); a != 1 {
				t.Errorf("alpha = %v, want 1", a)
			}
		case "DrawArrays":
			if !started {
				t.Fatal("DrawArrays before Clear")
			}
			draws++
			if !uploaded || !colored {
				t.Errorf("draw %d not preceded by a fresh upload and color", draws)
			}
			uploaded, colored = false, false
		}
	}
	if draws != n {
		t.Errorf("draws = %d, want %d", draws, n)
	}
	if dev.DrawCalls() != n {
		t.Errorf("DrawCalls() = %d, want %d", dev.DrawCalls(), n)
	}
}

func TestRandomRectanglesResolvesUniformsOnce(t *testing.T) {
	dev := runSoft(t, demo.RandomRectangles(rand.New(rand.NewPCG(5, 6)), 20))
	// u_resolution at link time and u_color on the first frame.
	if got := dev.UniformLookups(); got != 2 {
		t.Errorf("UniformLookups() = %d, want 2", got)
	}
}

func TestRandomRectanglesDeterministic(t *testing.T) {
	a := runSoft(t, demo.RandomRectangles(rand.New(rand.NewPCG(9, 9)), 10)).Framebuffer()
	b := runSoft(t, demo.RandomRectangles(rand.New(rand.NewPCG(9, 9)), 10)).Framebuffer()
	for i, v := range a.Data() {
		if b.Data()[i] != v {
			t.Fatalf("byte %d differs between runs with the same seed", i)
		}
	}
	if a.Blank() {
		t.Error("random rectangles drew nothing")
	}
}

func TestCompileFailureLeavesCanvasBlank(t *testing.T) {
	d := demo.TwoRectangles()
	d.Fragment = "#version 300 es\nout vec4 o_color;\nvoid main() { o_color = vec4(1); }\n"

	dev := soft.New(soft.NewCanvas(400, 300))
	p, err := demo.Run(dev, dev.Canvas(), d)
	var cerr *glpipe.CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("Run() error = %v, want *glpipe.CompileError", err)
	}
	if cerr.Stage != glpipe.StageFragment {
		t.Errorf("CompileError.Stage = %v, want fragment", cerr.Stage)
	}
	if p.State() != glpipe.StateUnconfigured {
		t.Errorf("State() = %v, want %v", p.State(), glpipe.StateUnconfigured)
	}
	if !dev.Framebuffer().Blank() {
		t.Error("canvas is not blank after a failed compile")
	}
	if dev.DrawCalls() != 0 {
		t.Errorf("DrawCalls() = %d, want 0", dev.DrawCalls())
	}
}

func TestLinkFailureLeavesCanvasBlank(t *testing.T) {
	d := demo.TwoRectangles()
	d.Fragment = "#version 300 es\nprecision highp float;\nin vec4 v_color;\nout vec4 o_color;\nvoid main() { o_color = v_color; }\n"

	dev := soft.New(soft.NewCanvas(400, 300))
	_, err := demo.Run(dev, dev.Canvas(), d)
	var lerr *glpipe.LinkError
	if !errors.As(err, &lerr) {
		t.Fatalf("Run() error = %v, want *glpipe.LinkError", err)
	}
	if !dev.Framebuffer().Blank() {
		t.Error("canvas is not blank after a failed link")
	}
	if dev.LivePrograms() != 0 {
		t.Errorf("LivePrograms() = %d, want 0", dev.LivePrograms())
	}
}

func TestRandomInt(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	for range 1000 {
		if v := demo.RandomInt(rng, 300); v < 0 || v >= 300 {
			t.Fatalf("RandomInt(300) = %d", v)
		}
	}
	if v := demo.RandomInt(rng, 0); v != 0 {
		t.Errorf("RandomInt(0) = %d, want 0", v)
	}
}

func TestLetterF(t *testing.T) {
	f := demo.LetterF()
	if len(f) != 36 {
		t.Fatalf("len(LetterF()) = %d, want 36", len(f))
	}
	want := []float32{0, 0, 30, 0, 0, 150, 0, 150, 30, 0, 30, 150}
	for i, v := range want {
		if f[i] != v {
			t.Errorf("LetterF()[%d] = %v, want %v", i, f[i], v)
		}
	}
}
