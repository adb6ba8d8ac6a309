// Package soft implements glpipe.Device in pure Go.
//
// Shaders are compiled by a GLSL ES 3.00 subset compiler, so compile and
// link failures produce info logs just like a browser would, and every
// draw call is executed by an interpreter feeding a triangle rasterizer.
// The result lands in a Framebuffer that can be inspected pixel by pixel
// or written out as PNG.
//
// The device also records GL errors (see Device.Err) and, with
// WithTrace, the sequence of driver calls, which makes it the reference
// backend for tests.
//
// Importing the package registers it as backend "soft".
package soft
