// Package webgl implements glpipe.Device on a browser WebGL2 context
// through syscall/js.
//
// The package only has code under GOOS=js GOARCH=wasm. Importing it for
// its side effect registers the "webgl2" backend, which renders into a
// canvas element created on first use:
//
//	import _ "github.com/gogpu/glpipe/backend/webgl"
//
// Use FindCanvas to draw into an existing <canvas id="c">.
package webgl
