package soft

import (
	"image/color"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/glpipe"
	"github.com/gogpu/glpipe/internal/glsl"
	"github.com/gogpu/glpipe/internal/scan"
)

// DrawArrays runs the current program over vertices [first, first+count)
// of the bound vertex array and writes the shaded fragments. Only
// glpipe.Triangles is supported; a trailing partial triangle is ignored.
func (d *Device) DrawArrays(mode glpipe.Primitive, first, count int) {
	d.record("DrawArrays", mode, first, count)
	const call = "DrawArrays"
	if mode != glpipe.Triangles {
		d.setError(InvalidEnum, call, "mode %#x", uint32(mode))
		return
	}
	if first < 0 || count < 0 {
		d.setError(InvalidValue, call, "first %d count %d", first, count)
		return
	}
	prog := d.current
	if prog == nil {
		d.setError(InvalidOperation, call, "no program in use")
		return
	}
	if count == 0 {
		return
	}
	if !d.checkRanges(prog, first+count) {
		d.setError(InvalidOperation, call, "attribute reads past the end of its buffer")
		return
	}
	d.drawCalls++
	if count < 3 {
		return
	}

	fb := d.canvas.Framebuffer()
	vp := scan.Viewport{
		X:      d.viewport.Min.X,
		Y:      d.viewport.Min.Y,
		Width:  d.viewport.Dx(),
		Height: d.viewport.Dy(),
	}
	r := scan.NewRasterizer(vp, fb.Width(), fb.Height())

	attribs := make([]f32.Vec4, glsl.MaxVertexAttribs)
	var tri [3]scan.Vertex
	emit := func(f *scan.Fragment) {
		c := prog.inv.Fragment(f.Coord, f.Varyings, prog.uniforms)
		fb.SetWindowPixel(f.X, f.Y, toNRGBA(c))
	}
	for i := range count - count%3 {
		v := &tri[i%3]
		d.fetch(prog, first+i, attribs)
		pos, vary := prog.inv.Vertex(attribs, prog.uniforms)
		v.Pos = pos
		v.Varyings = append(v.Varyings[:0], vary...)
		if i%3 == 2 {
			d.fragments += r.Triangle(&tri[0], &tri[1], &tri[2], emit)
		}
	}
	glpipe.Logger().Debug("soft: draw", "first", first, "count", count, "fragments", d.fragments)
}

// checkRanges reports whether every enabled attribute the program reads
// can fetch n vertices.
func (d *Device) checkRanges(prog *programObject, n int) bool {
	if n == 0 {
		return true
	}
	for _, a := range prog.linked.Attributes {
		p := d.vao.attribs[a.Location]
		if !p.Enabled {
			continue
		}
		buf, ok := p.Buffer.V.(*bufferObject)
		if !ok {
			return false
		}
		stride := p.Stride
		if stride == 0 {
			stride = p.Size * p.Type.Size()
		}
		end := p.Offset + (n-1)*stride + p.Size*p.Type.Size()
		if end > len(buf.data)*4 {
			return false
		}
	}
	return true
}

// fetch gathers the attribute values of vertex i. Disabled slots read the
// default (0, 0, 0, 1).
func (d *Device) fetch(prog *programObject, i int, out []f32.Vec4) {
	for _, a := range prog.linked.Attributes {
		v := f32.Vec4{0, 0, 0, 1}
		p := d.vao.attribs[a.Location]
		if p.Enabled {
			buf := p.Buffer.V.(*bufferObject)
			stride := p.Stride
			if stride == 0 {
				stride = p.Size * p.Type.Size()
			}
			base := (p.Offset + i*stride) / 4
			copy(v[:p.Size], buf.data[base:base+p.Size])
		}
		out[a.Location] = v
	}
}

func toNRGBA(c f32.Vec4) color.NRGBA {
	return glpipe.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}.Color().(color.NRGBA)
}
