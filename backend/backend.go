package backend

import (
	"errors"
	"image"

	"github.com/gogpu/glpipe"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrClosed is returned when a closed backend is used.
	ErrClosed = errors.New("backend: closed")
)

// Backend name constants.
const (
	// BackendSoft is the pure Go GLSL interpreter and rasterizer.
	BackendSoft = "soft"
	// BackendGL33 is desktop OpenGL 3.3 core through GLFW.
	BackendGL33 = "gl33"
	// BackendWebGL2 is the browser WebGL2 context (js/wasm only).
	BackendWebGL2 = "webgl2"
)

// Backend is a glpipe.Device bundled with the canvas it draws into.
//
// Backends must be registered via Register() and are opened via
// Open() or Default().
type Backend interface {
	glpipe.Device

	// Canvas returns the drawing surface.
	Canvas() glpipe.Canvas

	// Snapshot reads back the color buffer. Row 0 is the top of the
	// canvas, as in any image.Image.
	Snapshot() (*image.NRGBA, error)

	// Close releases the context. The backend must not be used afterwards.
	Close() error
}
