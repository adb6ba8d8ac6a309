// Package backend provides the registry of glpipe drivers.
//
// A backend bundles a glpipe.Device with the canvas it renders into and a
// way to read the result back. Backends register themselves from init()
// functions, so importing a backend package is enough to make it
// selectable:
//
//	import _ "github.com/gogpu/glpipe/backend/soft"
//
// # Backend Selection
//
// Use Default() to open the best available backend, or Open() to request
// one by name:
//
//	b, err := backend.Open(backend.BackendSoft, 400, 300)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
// # Available Backends
//
//   - "soft": pure Go GLSL ES 3.00 interpreter and rasterizer (always available)
//   - "gl33": OpenGL 3.3 core through GLFW (build tag glfw)
//   - "webgl2": browser WebGL2 context (GOOS=js GOARCH=wasm)
package backend
