//go:build !glfw || js

package desktop

import (
	"fmt"

	"github.com/gogpu/glpipe/backend"
)

// init registers a factory that always fails when the glfw tag is not set,
// so that backend.Default falls through to the next backend.
func init() {
	backend.Register(backend.BackendGL33, func(int, int) (backend.Backend, error) {
		return nil, fmt.Errorf("%w: %s needs the glfw build tag", backend.ErrBackendNotAvailable, backend.BackendGL33)
	})
}
