//go:build glfw && !js

package desktop

import (
	"fmt"
	"image"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/glpipe"
	"github.com/gogpu/glpipe/backend"
)

const (
	esVersion   = "#version 300 es"
	coreVersion = "#version 330 core"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()

	backend.Register(backend.BackendGL33, func(width, height int) (backend.Backend, error) {
		return New(width, height)
	})
}

// Device is a glpipe.Device on an OpenGL 3.3 core context.
//
// Handles carry GL object names (uint32) and uniform locations (int32).
// A Device must be used from the thread that created it.
type Device struct {
	window *glfw.Window
	canvas *Canvas

	fbo, rbo uint32
	closed   bool
}

var _ backend.Backend = (*Device)(nil)

// New creates a hidden GLFW window with an OpenGL 3.3 core context and a
// width×height off-screen canvas. Failure to obtain the context returns
// an error wrapping glpipe.ErrMissingContext.
func New(width, height int) (*Device, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("%w: glfw: %w", glpipe.ErrMissingContext, err)
	}
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(max(width, 1), max(height, 1), "glpipe", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("%w: %w", glpipe.ErrMissingContext, err)
	}
	win.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("%w: gl: %w", glpipe.ErrMissingContext, err)
	}
	glpipe.Logger().Debug("opengl context created", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	d := &Device{window: win}
	d.canvas = &Canvas{dev: d, width: max(width, 0), height: max(height, 0)}
	gl.GenFramebuffers(1, &d.fbo)
	gl.GenRenderbuffers(1, &d.rbo)
	d.storage(d.canvas.width, d.canvas.height)
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.fbo)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, d.rbo)
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		_ = d.Close()
		return nil, fmt.Errorf("%w: framebuffer status %#x", glpipe.ErrMissingContext, status)
	}
	d.clearTransparent()
	return d, nil
}

func (d *Device) storage(width, height int) {
	gl.BindRenderbuffer(gl.RENDERBUFFER, d.rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.RGBA8, int32(max(width, 1)), int32(max(height, 1)))
}

func (d *Device) clearTransparent() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.fbo)
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Device) allocColorBuffer(width, height int) {
	d.storage(width, height)
	d.clearTransparent()
}

// Name returns "gl33".
func (d *Device) Name() string {
	return backend.BackendGL33
}

// Canvas returns the off-screen canvas.
func (d *Device) Canvas() glpipe.Canvas {
	return d.canvas
}

// Snapshot reads the color buffer back, flipping GL's bottom-up rows.
func (d *Device) Snapshot() (*image.NRGBA, error) {
	if d.closed {
		return nil, backend.ErrClosed
	}
	w, h := d.canvas.Size()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return img, nil
	}
	raw := make([]byte, w*h*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, d.fbo)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(raw))
	stride := w * 4
	for y := range h {
		copy(img.Pix[y*stride:(y+1)*stride], raw[(h-1-y)*stride:(h-y)*stride])
	}
	return img, nil
}

// Close deletes the framebuffer and destroys the window.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	gl.DeleteRenderbuffers(1, &d.rbo)
	gl.DeleteFramebuffers(1, &d.fbo)
	d.window.Destroy()
	glfw.Terminate()
	return nil
}

// translateSource rewrites the GLSL ES 3.00 version line for a core
// profile compiler.
func translateSource(src string) string {
	trimmed := strings.TrimLeft(src, " \t\r\n")
	if rest, ok := strings.CutPrefix(trimmed, esVersion); ok {
		return coreVersion + rest
	}
	return src
}

func name(v any) uint32 {
	n, _ := v.(uint32)
	return n
}

func wrapName(n uint32) any {
	if n == 0 {
		return nil
	}
	return n
}

func infoLog(length int32, read func(int32, *uint8)) string {
	if length <= 0 {
		return ""
	}
	buf := strings.Repeat("\x00", int(length+1))
	read(length, gl.Str(buf))
	return strings.TrimRight(buf, "\x00")
}

func (d *Device) CreateShader(stage glpipe.ShaderStage) glpipe.Shader {
	typ := uint32(gl.VERTEX_SHADER)
	if stage == glpipe.StageFragment {
		typ = gl.FRAGMENT_SHADER
	}
	return glpipe.Shader{V: wrapName(gl.CreateShader(typ))}
}

func (d *Device) ShaderSource(s glpipe.Shader, src string) {
	csources, free := gl.Strs(translateSource(src) + "\x00")
	gl.ShaderSource(name(s.V), 1, csources, nil)
	free()
}

func (d *Device) CompileShader(s glpipe.Shader) {
	gl.CompileShader(name(s.V))
}

func (d *Device) ShaderCompiled(s glpipe.Shader) bool {
	var status int32
	gl.GetShaderiv(name(s.V), gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (d *Device) ShaderInfoLog(s glpipe.Shader) string {
	var n int32
	gl.GetShaderiv(name(s.V), gl.INFO_LOG_LENGTH, &n)
	return infoLog(n, func(n int32, buf *uint8) {
		gl.GetShaderInfoLog(name(s.V), n, nil, buf)
	})
}

func (d *Device) DeleteShader(s glpipe.Shader) {
	gl.DeleteShader(name(s.V))
}

func (d *Device) CreateProgram() glpipe.Program {
	return glpipe.Program{V: wrapName(gl.CreateProgram())}
}

func (d *Device) AttachShader(p glpipe.Program, s glpipe.Shader) {
	gl.AttachShader(name(p.V), name(s.V))
}

func (d *Device) DetachShader(p glpipe.Program, s glpipe.Shader) {
	gl.DetachShader(name(p.V), name(s.V))
}

func (d *Device) LinkProgram(p glpipe.Program) {
	gl.LinkProgram(name(p.V))
}

func (d *Device) ProgramLinked(p glpipe.Program) bool {
	var status int32
	gl.GetProgramiv(name(p.V), gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (d *Device) ProgramInfoLog(p glpipe.Program) string {
	var n int32
	gl.GetProgramiv(name(p.V), gl.INFO_LOG_LENGTH, &n)
	return infoLog(n, func(n int32, buf *uint8) {
		gl.GetProgramInfoLog(name(p.V), n, nil, buf)
	})
}

func (d *Device) DeleteProgram(p glpipe.Program) {
	gl.DeleteProgram(name(p.V))
}

func (d *Device) UseProgram(p glpipe.Program) {
	gl.UseProgram(name(p.V))
}

func (d *Device) AttribLocation(p glpipe.Program, attr string) int {
	return int(gl.GetAttribLocation(name(p.V), gl.Str(attr+"\x00")))
}

func (d *Device) UniformLocation(p glpipe.Program, uniform string) glpipe.UniformLocation {
	loc := gl.GetUniformLocation(name(p.V), gl.Str(uniform+"\x00"))
	if loc < 0 {
		return glpipe.UniformLocation{}
	}
	return glpipe.UniformLocation{V: loc}
}

func location(l glpipe.UniformLocation) int32 {
	if loc, ok := l.V.(int32); ok {
		return loc
	}
	return -1
}

func (d *Device) CreateBuffer() glpipe.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return glpipe.Buffer{V: wrapName(b)}
}

func (d *Device) BindBuffer(target glpipe.BufferTarget, b glpipe.Buffer) {
	gl.BindBuffer(uint32(target), name(b.V))
}

func (d *Device) BufferData(target glpipe.BufferTarget, data []float32, usage glpipe.BufferUsage) {
	if len(data) == 0 {
		gl.BufferData(uint32(target), 0, nil, uint32(usage))
		return
	}
	gl.BufferData(uint32(target), len(data)*4, gl.Ptr(data), uint32(usage))
}

func (d *Device) CreateVertexArray() glpipe.VertexArray {
	var a uint32
	gl.GenVertexArrays(1, &a)
	return glpipe.VertexArray{V: wrapName(a)}
}

func (d *Device) BindVertexArray(a glpipe.VertexArray) {
	gl.BindVertexArray(name(a.V))
}

func (d *Device) EnableVertexAttribArray(slot int) {
	gl.EnableVertexAttribArray(uint32(slot))
}

func (d *Device) VertexAttribPointer(slot, size int, typ glpipe.ElementType, normalize bool, stride, offset int) {
	gl.VertexAttribPointerWithOffset(uint32(slot), int32(size), uint32(typ), normalize, int32(stride), uintptr(offset))
}

func (d *Device) Uniform1f(l glpipe.UniformLocation, x float32) {
	gl.Uniform1f(location(l), x)
}

func (d *Device) Uniform2f(l glpipe.UniformLocation, x, y float32) {
	gl.Uniform2f(location(l), x, y)
}

func (d *Device) Uniform4f(l glpipe.UniformLocation, x, y, z, w float32) {
	gl.Uniform4f(location(l), x, y, z, w)
}

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Device) Clear(mask glpipe.ClearMask) {
	gl.Clear(uint32(mask))
}

func (d *Device) DrawArrays(mode glpipe.Primitive, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}
