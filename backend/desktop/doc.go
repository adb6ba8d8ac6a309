// Package desktop implements glpipe.Device on desktop OpenGL 3.3 core,
// using go-gl for the API and GLFW for an invisible window that owns the
// context.
//
// The driver is only compiled with the glfw build tag, since it needs
// cgo and the GLFW/OpenGL development headers:
//
//	go build -tags glfw ./cmd/glpipe-desktop
//
// Rendering goes to an off-screen framebuffer object the size of the
// canvas. Shader sources written for GLSL ES 3.00 are accepted as is: the
// "#version 300 es" line is rewritten to "#version 330 core" before
// compilation.
//
// Without the tag, the "gl33" backend is still registered but fails to
// open with backend.ErrBackendNotAvailable.
package desktop
