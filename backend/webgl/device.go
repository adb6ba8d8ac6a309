//go:build js && wasm

package webgl

import (
	"image"
	"syscall/js"
	"unsafe"

	"github.com/gogpu/glpipe"
	"github.com/gogpu/glpipe/backend"
)

func init() {
	backend.Register(backend.BackendWebGL2, func(width, height int) (backend.Backend, error) {
		return New(CreateCanvas(width, height))
	})
}

type glConsts struct {
	vertexShader   int
	fragmentShader int
	compileStatus  int
	linkStatus     int
}

// Device is a glpipe.Device backed by a WebGL2RenderingContext.
//
// Handles carry js.Value objects. A Device is not safe for concurrent use
// and must only be used from the goroutine that owns the JS event loop.
type Device struct {
	canvas *Canvas
	gl     js.Value
	consts glConsts
}

var _ backend.Backend = (*Device)(nil)

// New obtains a "webgl2" context for canvas. It returns
// glpipe.ErrMissingContext when the browser cannot provide one.
func New(canvas *Canvas) (*Device, error) {
	attrs := js.Global().Get("Object").New()
	attrs.Set("preserveDrawingBuffer", true)
	gl := canvas.el.Call("getContext", "webgl2", attrs)
	if gl.IsNull() || gl.IsUndefined() {
		glpipe.Logger().Error("webgl2 context unavailable")
		return nil, glpipe.ErrMissingContext
	}
	d := &Device{canvas: canvas, gl: gl}
	d.consts = glConsts{
		vertexShader:   gl.Get("VERTEX_SHADER").Int(),
		fragmentShader: gl.Get("FRAGMENT_SHADER").Int(),
		compileStatus:  gl.Get("COMPILE_STATUS").Int(),
		linkStatus:     gl.Get("LINK_STATUS").Int(),
	}
	glpipe.Logger().Debug("webgl2 context created", "version", gl.Call("getParameter", gl.Get("VERSION")).String())
	return d, nil
}

// Name returns "webgl2".
func (d *Device) Name() string {
	return backend.BackendWebGL2
}

// Canvas returns the canvas the context draws into.
func (d *Device) Canvas() glpipe.Canvas {
	return d.canvas
}

// Context returns the underlying WebGL2RenderingContext.
func (d *Device) Context() js.Value {
	return d.gl
}

// Snapshot reads the drawing buffer back into top-down NRGBA rows.
func (d *Device) Snapshot() (*image.NRGBA, error) {
	w, h := d.canvas.Size()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return img, nil
	}
	buf := js.Global().Get("Uint8Array").New(w * h * 4)
	d.gl.Call("readPixels", 0, 0, w, h, d.gl.Get("RGBA"), d.gl.Get("UNSIGNED_BYTE"), buf)
	raw := make([]byte, w*h*4)
	js.CopyBytesToGo(raw, buf)
	stride := w * 4
	for y := range h {
		copy(img.Pix[y*stride:(y+1)*stride], raw[(h-1-y)*stride:(h-y)*stride])
	}
	return img, nil
}

// Close asks the browser to release the context.
func (d *Device) Close() error {
	ext := d.gl.Call("getExtension", "WEBGL_lose_context")
	if ext.Truthy() {
		ext.Call("loseContext")
	}
	return nil
}

func handle(v any) js.Value {
	if jv, ok := v.(js.Value); ok {
		return jv
	}
	return js.Null()
}

func wrap(v js.Value) any {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return v
}

func (d *Device) stage(s glpipe.ShaderStage) int {
	if s == glpipe.StageFragment {
		return d.consts.fragmentShader
	}
	return d.consts.vertexShader
}

func (d *Device) CreateShader(stage glpipe.ShaderStage) glpipe.Shader {
	return glpipe.Shader{V: wrap(d.gl.Call("createShader", d.stage(stage)))}
}

func (d *Device) ShaderSource(s glpipe.Shader, src string) {
	d.gl.Call("shaderSource", handle(s.V), src)
}

func (d *Device) CompileShader(s glpipe.Shader) {
	d.gl.Call("compileShader", handle(s.V))
}

func (d *Device) ShaderCompiled(s glpipe.Shader) bool {
	return d.gl.Call("getShaderParameter", handle(s.V), d.consts.compileStatus).Truthy()
}

func (d *Device) ShaderInfoLog(s glpipe.Shader) string {
	v := d.gl.Call("getShaderInfoLog", handle(s.V))
	if v.IsNull() {
		return ""
	}
	return v.String()
}

func (d *Device) DeleteShader(s glpipe.Shader) {
	d.gl.Call("deleteShader", handle(s.V))
}

func (d *Device) CreateProgram() glpipe.Program {
	return glpipe.Program{V: wrap(d.gl.Call("createProgram"))}
}

func (d *Device) AttachShader(p glpipe.Program, s glpipe.Shader) {
	d.gl.Call("attachShader", handle(p.V), handle(s.V))
}

func (d *Device) DetachShader(p glpipe.Program, s glpipe.Shader) {
	d.gl.Call("detachShader", handle(p.V), handle(s.V))
}

func (d *Device) LinkProgram(p glpipe.Program) {
	d.gl.Call("linkProgram", handle(p.V))
}

func (d *Device) ProgramLinked(p glpipe.Program) bool {
	return d.gl.Call("getProgramParameter", handle(p.V), d.consts.linkStatus).Truthy()
}

func (d *Device) ProgramInfoLog(p glpipe.Program) string {
	v := d.gl.Call("getProgramInfoLog", handle(p.V))
	if v.IsNull() {
		return ""
	}
	return v.String()
}

func (d *Device) DeleteProgram(p glpipe.Program) {
	d.gl.Call("deleteProgram", handle(p.V))
}

func (d *Device) UseProgram(p glpipe.Program) {
	d.gl.Call("useProgram", handle(p.V))
}

func (d *Device) AttribLocation(p glpipe.Program, name string) int {
	return d.gl.Call("getAttribLocation", handle(p.V), name).Int()
}

func (d *Device) UniformLocation(p glpipe.Program, name string) glpipe.UniformLocation {
	return glpipe.UniformLocation{V: wrap(d.gl.Call("getUniformLocation", handle(p.V), name))}
}

func (d *Device) CreateBuffer() glpipe.Buffer {
	return glpipe.Buffer{V: wrap(d.gl.Call("createBuffer"))}
}

func (d *Device) BindBuffer(target glpipe.BufferTarget, b glpipe.Buffer) {
	d.gl.Call("bindBuffer", int(target), handle(b.V))
}

func (d *Device) BufferData(target glpipe.BufferTarget, data []float32, usage glpipe.BufferUsage) {
	d.gl.Call("bufferData", int(target), float32Array(data), int(usage))
}

func (d *Device) CreateVertexArray() glpipe.VertexArray {
	return glpipe.VertexArray{V: wrap(d.gl.Call("createVertexArray"))}
}

func (d *Device) BindVertexArray(a glpipe.VertexArray) {
	d.gl.Call("bindVertexArray", handle(a.V))
}

func (d *Device) EnableVertexAttribArray(slot int) {
	d.gl.Call("enableVertexAttribArray", slot)
}

func (d *Device) VertexAttribPointer(slot, size int, typ glpipe.ElementType, normalize bool, stride, offset int) {
	d.gl.Call("vertexAttribPointer", slot, size, int(typ), normalize, stride, offset)
}

func (d *Device) Uniform1f(l glpipe.UniformLocation, x float32) {
	d.gl.Call("uniform1f", handle(l.V), x)
}

func (d *Device) Uniform2f(l glpipe.UniformLocation, x, y float32) {
	d.gl.Call("uniform2f", handle(l.V), x, y)
}

func (d *Device) Uniform4f(l glpipe.UniformLocation, x, y, z, w float32) {
	d.gl.Call("uniform4f", handle(l.V), x, y, z, w)
}

func (d *Device) Viewport(x, y, width, height int) {
	d.gl.Call("viewport", x, y, width, height)
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.gl.Call("clearColor", r, g, b, a)
}

func (d *Device) Clear(mask glpipe.ClearMask) {
	d.gl.Call("clear", int(mask))
}

func (d *Device) DrawArrays(mode glpipe.Primitive, first, count int) {
	d.gl.Call("drawArrays", int(mode), first, count)
}

// float32Array copies data into a new Float32Array.
func float32Array(data []float32) js.Value {
	arr := js.Global().Get("Float32Array").New(len(data))
	if len(data) == 0 {
		return arr
	}
	view := js.Global().Get("Uint8Array").New(arr.Get("buffer"), arr.Get("byteOffset"), arr.Get("byteLength"))
	js.CopyBytesToJS(view, unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4))
	return arr
}
