// Package glpipe is the shader-compilation, program-linking and
// buffer/attribute binding pipeline behind a set of WebGL2 demos.
//
// # Overview
//
// Every WebGL2 program repeats the same setup before it can draw: compile
// a vertex and a fragment shader, link them into a program, upload vertex
// floats into a buffer, describe how an attribute reads that buffer, push
// uniforms, then clear and draw. glpipe packages that sequence once, with
// explicit errors for the steps that can fail, and runs it against any
// driver implementing Device.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/glpipe"
//		"github.com/gogpu/glpipe/backend/soft"
//	)
//
//	dev := soft.New(soft.NewCanvas(400, 300))
//	p := glpipe.NewPipeline(dev, dev.Canvas())
//	if err := p.Compile(glpipe.VertexSource(vs), glpipe.FragmentSource(fs)); err != nil {
//		return err // *glpipe.CompileError carries the info log
//	}
//	if err := p.Link(); err != nil {
//		return err // *glpipe.LinkError
//	}
//	_ = p.BindGeometry(glpipe.RectangleTriangles(10, 20, 70, 10))
//	_ = p.BindAttribute("a_position", glpipe.PackedLayout(0, 2))
//	_ = p.Render(func(f *glpipe.Frame) error {
//		f.Uniform("u_color").SetColor(glpipe.RGB(1, 0.3, 0.5))
//		return f.DrawTriangles(0, 6)
//	})
//	_ = dev.Framebuffer().SavePNG("out.png")
//
// # Building Blocks
//
// The Pipeline is built from standalone steps that can be used directly:
//   - CompileShader: source text to a driver shader, or *CompileError
//   - LinkProgram: two shaders to a *LinkedProgram, or *LinkError
//   - VertexBuffer.Upload: replace buffer contents (STATIC_DRAW)
//   - BindAttribute: enable a slot and declare its AttributeLayout
//   - LinkedProgram.Uniform: resolve a uniform once, push values many times
//
// # Backends
//
// Device is a WebGL2-shaped driver surface. Implementations live under
// backend/: soft (pure Go GLSL interpreter and rasterizer), webgl (browser,
// js/wasm) and desktop (OpenGL 3.3 core through GLFW, build tag glfw).
//
// # Coordinate System
//
// Geometry given to the demos is in canvas pixels with the origin at the
// top-left; the vertex shaders map it to clip space and flip y. Device
// viewport and window coordinates follow GL, with the origin at the
// bottom-left.
//
// # Logging
//
// glpipe is silent by default. SetLogger installs a *slog.Logger shared by
// the pipeline and all backends.
package glpipe
