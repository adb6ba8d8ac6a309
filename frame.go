package glpipe

import "fmt"

// Frame is the per-frame view of a Pipeline handed to Render callbacks.
// The program and vertex array are already bound.
type Frame struct {
	// Viewport is the canvas area being drawn.
	Viewport Viewport

	p     *Pipeline
	draws int
}

// Uniform returns the cached binding for name.
func (f *Frame) Uniform(name string) *Uniform {
	return f.p.program.Uniform(name)
}

// Upload replaces the pipeline's vertex data. The attribute layouts keep
// pointing at the same buffer, so only values change.
func (f *Frame) Upload(vertices []float32) {
	f.p.buffer.Upload(vertices)
}

// DrawTriangles issues a triangle-list draw of count vertices starting at
// vertex first.
func (f *Frame) DrawTriangles(first, count int) error {
	if first < 0 || count < 0 {
		return fmt.Errorf("glpipe: invalid draw range first=%d count=%d", first, count)
	}
	f.p.dev.DrawArrays(Triangles, first, count)
	f.draws++
	return nil
}

// Draws returns the number of draw calls issued so far in this frame.
func (f *Frame) Draws() int {
	return f.draws
}
