package glpipe

// Canvas is the surface a Device draws into.
type Canvas interface {
	// Size returns the drawing-buffer size in pixels.
	Size() (width, height int)

	// SetSize sets the drawing-buffer size and, for on-screen canvases,
	// the displayed size.
	SetSize(width, height int)
}

// Viewport is a pixel rectangle anchored at the origin.
type Viewport struct {
	Width, Height int
}

// CanvasViewport returns the viewport covering all of c.
func CanvasViewport(c Canvas) Viewport {
	w, h := c.Size()
	return Viewport{Width: w, Height: h}
}

// Resize sets the canvas to width×height pixels and reports whether the
// size changed. Non-positive dimensions are ignored.
func Resize(c Canvas, width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	w, h := c.Size()
	if w == width && h == height {
		return false
	}
	c.SetSize(width, height)
	return true
}
