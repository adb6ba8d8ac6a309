// Package scan rasterizes clip-space triangles into window pixels with
// the OpenGL ES sampling rules: a pixel is covered when its center lies
// inside the triangle, pixels on an edge shared by two triangles belong
// to exactly one of them, and varyings are interpolated with
// perspective correction.
//
// Window coordinates follow OpenGL: the origin is the bottom-left corner
// and y grows upwards.
package scan

import (
	"image"
	"math"

	"golang.org/x/image/math/f32"
)

// guardBand bounds window coordinates (in pixels) so that edge functions
// cannot overflow.
const guardBand = 1 << 20

// Vertex is the output of a vertex shader invocation.
type Vertex struct {
	// Pos is the clip-space position (gl_Position).
	Pos      f32.Vec4
	Varyings []f32.Vec4
}

// Viewport maps normalized device coordinates to window coordinates.
type Viewport struct {
	X, Y, Width, Height int
}

// Rect returns the window rectangle covered by the viewport.
func (v Viewport) Rect() image.Rectangle {
	return image.Rect(v.X, v.Y, v.X+v.Width, v.Y+v.Height)
}

// Fragment is one covered pixel.
type Fragment struct {
	X, Y int
	// Coord is gl_FragCoord: the pixel center, window depth and 1/w.
	Coord    f32.Vec4
	Varyings []f32.Vec4
}

// Rasterizer converts triangles to fragments inside a viewport and a
// framebuffer of fixed size.
type Rasterizer struct {
	vp   Viewport
	clip image.Rectangle
	frag Fragment
}

// NewRasterizer returns a rasterizer for a width×height framebuffer.
func NewRasterizer(vp Viewport, width, height int) *Rasterizer {
	return &Rasterizer{
		vp:   vp,
		clip: vp.Rect().Intersect(image.Rect(0, 0, width, height)),
	}
}

type winVertex struct {
	x, y FDot8
	z    float64
	invW float64
	vary []f32.Vec4
}

func (r *Rasterizer) project(v *Vertex) (winVertex, bool) {
	w := float64(v.Pos[3])
	if !(w > 0) {
		return winVertex{}, false
	}
	nx := float64(v.Pos[0]) / w
	ny := float64(v.Pos[1]) / w
	nz := float64(v.Pos[2]) / w
	x := (nx+1)*float64(r.vp.Width)/2 + float64(r.vp.X)
	y := (ny+1)*float64(r.vp.Height)/2 + float64(r.vp.Y)
	if math.IsNaN(x) || math.IsNaN(y) {
		return winVertex{}, false
	}
	return winVertex{
		x:    FloatToFDot8(clampGuard(x)),
		y:    FloatToFDot8(clampGuard(y)),
		z:    (nz + 1) / 2,
		invW: 1 / w,
		vary: v.Varyings,
	}, true
}

func clampGuard(v float64) float64 {
	return math.Max(-guardBand, math.Min(guardBand, v))
}

// orient is twice the signed area of (a, b, (px, py)); positive when the
// point lies to the left of a→b.
func orient(a, b *winVertex, px, py FDot8) int64 {
	return int64(b.x-a.x)*int64(py-a.y) - int64(b.y-a.y)*int64(px-a.x)
}

// ownsTies reports whether pixel centers exactly on edge a→b of a
// counter-clockwise triangle are inside. Left edges run downwards and
// top edges run right to left.
func ownsTies(a, b *winVertex) bool {
	dy := b.y - a.y
	return dy < 0 || (dy == 0 && b.x < a.x)
}

func inside(e int64, owned bool) bool {
	return e > 0 || (e == 0 && owned)
}

// Triangle rasterizes one triangle and calls emit for every covered
// pixel. The Fragment passed to emit is reused between calls. Triangles
// with a vertex behind the eye (w <= 0) are discarded, as are fragments
// whose depth falls outside [0, 1]. It returns the number of fragments
// emitted.
func (r *Rasterizer) Triangle(a, b, c *Vertex, emit func(*Fragment)) int {
	if r.clip.Empty() {
		return 0
	}
	v0, ok0 := r.project(a)
	v1, ok1 := r.project(b)
	v2, ok2 := r.project(c)
	if !ok0 || !ok1 || !ok2 {
		return 0
	}
	area := orient(&v0, &v1, v2.x, v2.y)
	if area == 0 {
		return 0
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	own0 := ownsTies(&v1, &v2)
	own1 := ownsTies(&v2, &v0)
	own2 := ownsTies(&v0, &v1)

	minX := max(FDot8Floor(min(v0.x, v1.x, v2.x)), r.clip.Min.X)
	maxX := min(FDot8Ceil(max(v0.x, v1.x, v2.x)), r.clip.Max.X)
	minY := max(FDot8Floor(min(v0.y, v1.y, v2.y)), r.clip.Min.Y)
	maxY := min(FDot8Ceil(max(v0.y, v1.y, v2.y)), r.clip.Max.Y)

	nvary := min(len(v0.vary), len(v1.vary), len(v2.vary))
	if cap(r.frag.Varyings) < nvary {
		r.frag.Varyings = make([]f32.Vec4, nvary)
	}
	r.frag.Varyings = r.frag.Varyings[:nvary]

	fa := float64(area)
	n := 0
	for py := minY; py < maxY; py++ {
		cy := PixelCenter(py)
		for px := minX; px < maxX; px++ {
			cx := PixelCenter(px)
			e0 := orient(&v1, &v2, cx, cy)
			e1 := orient(&v2, &v0, cx, cy)
			e2 := orient(&v0, &v1, cx, cy)
			if !inside(e0, own0) || !inside(e1, own1) || !inside(e2, own2) {
				continue
			}
			l0, l1, l2 := float64(e0)/fa, float64(e1)/fa, float64(e2)/fa
			z := l0*v0.z + l1*v1.z + l2*v2.z
			if z < 0 || z > 1 {
				continue
			}
			invW := l0*v0.invW + l1*v1.invW + l2*v2.invW
			p0, p1, p2 := l0*v0.invW/invW, l1*v1.invW/invW, l2*v2.invW/invW
			for k := range nvary {
				for j := range 4 {
					r.frag.Varyings[k][j] = float32(p0*float64(v0.vary[k][j]) + p1*float64(v1.vary[k][j]) + p2*float64(v2.vary[k][j]))
				}
			}
			r.frag.X, r.frag.Y = px, py
			r.frag.Coord = f32.Vec4{
				float32(FDot8ToFloat(cx)),
				float32(FDot8ToFloat(cy)),
				float32(z),
				float32(invW),
			}
			emit(&r.frag)
			n++
		}
	}
	return n
}
