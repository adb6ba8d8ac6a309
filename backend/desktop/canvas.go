//go:build glfw && !js

package desktop

// Canvas is the off-screen color buffer of a Device.
type Canvas struct {
	dev           *Device
	width, height int
}

// Size returns the color buffer size in pixels.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// SetSize reallocates the color buffer. Its contents become transparent.
func (c *Canvas) SetSize(width, height int) {
	c.width, c.height = max(width, 0), max(height, 0)
	c.dev.allocColorBuffer(c.width, c.height)
}
