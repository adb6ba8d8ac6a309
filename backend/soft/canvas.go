package soft

// Canvas is an off-screen glpipe.Canvas backed by a Framebuffer.
// Resizing replaces the framebuffer with a transparent one, as a browser
// does when a canvas's width or height attribute changes.
type Canvas struct {
	fb      *Framebuffer
	resizes int
}

// NewCanvas returns a transparent width×height canvas.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{fb: NewFramebuffer(max(width, 0), max(height, 0))}
}

// Size returns the drawing-buffer size in pixels.
func (c *Canvas) Size() (width, height int) {
	return c.fb.Width(), c.fb.Height()
}

// SetSize reallocates the drawing buffer.
func (c *Canvas) SetSize(width, height int) {
	c.fb = NewFramebuffer(max(width, 0), max(height, 0))
	c.resizes++
}

// Framebuffer returns the current color buffer.
func (c *Canvas) Framebuffer() *Framebuffer {
	return c.fb
}

// Resizes returns how many times SetSize was called.
func (c *Canvas) Resizes() int {
	return c.resizes
}
