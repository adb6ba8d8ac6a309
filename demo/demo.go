// Package demo holds the four WebGL2 fundamentals demos as configurations
// of one glpipe.Pipeline: hello-world, two-rectangles, random-rectangles
// and translation.
//
// Every demo is a Demo value: shader sources, the geometry uploaded at
// setup and a draw callback run once per frame. Run drives it on any
// glpipe.Device.
package demo

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/glpipe"
)

// Canvas size used by every demo.
const (
	DefaultWidth  = 400
	DefaultHeight = 300
)

// PositionAttribute is the vertex input all demos feed.
const PositionAttribute = "a_position"

// Demo names accepted by Lookup.
const (
	NameHelloWorld       = "hello-world"
	NameTwoRectangles    = "two-rectangles"
	NameRandomRectangles = "random-rectangles"
	NameTranslation      = "translation"
)

// ErrUnknownDemo is returned by Lookup for names it does not know.
var ErrUnknownDemo = errors.New("demo: unknown demo")

// Demo is one single-frame rendering scenario.
type Demo struct {
	Name     string
	Vertex   string
	Fragment string

	// Components is the number of floats per vertex of PositionAttribute.
	Components int
	// Geometry is uploaded once at setup. It may be nil when Draw uploads
	// its own vertices.
	Geometry []float32

	// Draw pushes per-frame uniforms and issues the draw calls.
	Draw func(f *glpipe.Frame) error
}

// Names returns the demo names in presentation order.
func Names() []string {
	return []string{NameHelloWorld, NameTwoRectangles, NameRandomRectangles, NameTranslation}
}

// HelloWorld draws one pink triangle given directly in clip space.
func HelloWorld() Demo {
	return Demo{
		Name:       NameHelloWorld,
		Vertex:     clipVS,
		Fragment:   pinkFS,
		Components: 2,
		Geometry: []float32{
			0, 0,
			0, 0.5,
			0.7, 0,
		},
		Draw: func(f *glpipe.Frame) error {
			return f.DrawTriangles(0, 3)
		},
	}
}

// TwoRectangles draws a pink 70×10 rectangle at pixel (10, 20), given in
// pixel coordinates as the two triangles of RectangleTriangles.
func TwoRectangles() Demo {
	return Demo{
		Name:       NameTwoRectangles,
		Vertex:     pixelVS,
		Fragment:   pinkFS,
		Components: 2,
		Geometry:   glpipe.RectangleTriangles(10, 20, 70, 10),
		Draw: func(f *glpipe.Frame) error {
			return f.DrawTriangles(0, 6)
		},
	}
}

// RandomRectangles draws n rectangles with random position, size and
// opaque color. The vertex buffer is re-uploaded before every draw.
func RandomRectangles(rng *rand.Rand, n int) Demo {
	return Demo{
		Name:       NameRandomRectangles,
		Vertex:     pixelVS,
		Fragment:   colorFS,
		Components: 2,
		Draw: func(f *glpipe.Frame) error {
			color := f.Uniform("u_color")
			for range n {
				f.Upload(glpipe.RectangleTriangles(
					float32(RandomInt(rng, 300)), float32(RandomInt(rng, 300)),
					float32(RandomInt(rng, 300)), float32(RandomInt(rng, 300)),
				))
				color.SetColor(glpipe.RandomOpaque(rng))
				if err := f.DrawTriangles(0, 6); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// Translation draws the letter F moved by (tx, ty) pixels in a random
// opaque color.
func Translation(rng *rand.Rand, tx, ty float32) Demo {
	return Demo{
		Name:       NameTranslation,
		Vertex:     translateVS,
		Fragment:   colorFS,
		Components: 2,
		Geometry:   LetterF(),
		Draw: func(f *glpipe.Frame) error {
			f.Uniform("u_color").SetColor(glpipe.RandomOpaque(rng))
			f.Uniform("u_translation").SetVec2(f32.Vec2{tx, ty})
			return f.DrawTriangles(0, 18)
		},
	}
}

// LetterF returns the 18 vertices of a 100×150 pixel letter F with its
// top-left corner at the origin: the left column, the top rung and the
// middle rung.
func LetterF() []float32 {
	v := make([]float32, 0, 36)
	v = glpipe.AppendRectangle(v, 0, 0, 30, 150)
	v = glpipe.AppendRectangle(v, 30, 0, 70, 30)
	v = glpipe.AppendRectangle(v, 30, 60, 37, 30)
	return v
}

// RandomInt returns a uniform integer in [0, n), or 0 when n <= 0.
func RandomInt(rng *rand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return rng.IntN(n)
}

// Run sets up a pipeline for d on dev and renders one frame onto canvas.
// The canvas is sized DefaultWidth×DefaultHeight unless opts say
// otherwise. A compile or link failure stops the run before anything is
// drawn and is returned; the canvas is left untouched.
func Run(dev glpipe.Device, canvas glpipe.Canvas, d Demo, opts ...glpipe.Option) (*glpipe.Pipeline, error) {
	opts = append([]glpipe.Option{glpipe.WithCanvasSize(DefaultWidth, DefaultHeight)}, opts...)
	p := glpipe.NewPipeline(dev, canvas, opts...)
	log := glpipe.Logger().With("demo", d.Name, "backend", dev.Name())

	if err := p.Compile(glpipe.VertexSource(d.Vertex), glpipe.FragmentSource(d.Fragment)); err != nil {
		return p, fmt.Errorf("demo %s: %w", d.Name, err)
	}
	if err := p.Link(); err != nil {
		return p, fmt.Errorf("demo %s: %w", d.Name, err)
	}
	if err := p.BindGeometry(d.Geometry); err != nil {
		return p, fmt.Errorf("demo %s: %w", d.Name, err)
	}
	comps := d.Components
	if comps == 0 {
		comps = 2
	}
	if err := p.BindAttribute(PositionAttribute, glpipe.PackedLayout(0, comps)); err != nil {
		return p, fmt.Errorf("demo %s: %w", d.Name, err)
	}
	if err := p.Render(d.Draw); err != nil {
		return p, fmt.Errorf("demo %s: %w", d.Name, err)
	}
	w, h := canvas.Size()
	log.Info("demo rendered", "width", w, "height", h)
	return p, nil
}
