package soft

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/gogpu/glpipe"
	"github.com/gogpu/glpipe/backend"
	"github.com/gogpu/glpipe/internal/glsl"
)

func init() {
	backend.Register(backend.BackendSoft, func(width, height int) (backend.Backend, error) {
		return New(NewCanvas(width, height)), nil
	})
}

// Call is one recorded driver call.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprint(a)
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}

// Option configures a Device.
type Option func(*Device)

// WithTrace records every driver call; see Device.Calls.
func WithTrace() Option {
	return func(d *Device) {
		d.trace = true
	}
}

type shaderObject struct {
	id      int
	stage   glpipe.ShaderStage
	source  string
	shader  *glsl.Shader
	status  bool
	log     string
	deleted bool
	// refs counts programs the shader is attached to.
	refs int
}

type programObject struct {
	id       int
	vertex   *shaderObject
	fragment *shaderObject
	linked   *glsl.Program
	status   bool
	log      string
	deleted  bool
	uniforms []glsl.Value
	inv      *glsl.Invocation
}

type bufferObject struct {
	id   int
	data []float32
}

// AttribPointer is the state of one generic vertex attribute slot of a
// vertex array.
type AttribPointer struct {
	Enabled   bool
	Size      int
	Type      glpipe.ElementType
	Normalize bool
	Stride    int
	Offset    int
	Buffer    glpipe.Buffer
}

type vertexArrayObject struct {
	id      int
	attribs [glsl.MaxVertexAttribs]AttribPointer
}

type uniformLocation struct {
	prog  *programObject
	index int
}

// Device is a software glpipe.Device drawing into a Canvas.
//
// A Device is not safe for concurrent use.
type Device struct {
	canvas *Canvas

	nextID      int
	shaders     map[int]*shaderObject
	programs    map[int]*programObject
	current     *programObject
	arrayBuffer *bufferObject
	defaultVAO  *vertexArrayObject
	vao         *vertexArrayObject

	viewport   image.Rectangle
	clearColor glpipe.RGBA

	err   ErrorCode
	trace bool
	calls []Call

	uniformLookups int
	drawCalls      int
	fragments      int
}

// New returns a device drawing into canvas.
func New(canvas *Canvas, opts ...Option) *Device {
	w, h := canvas.Size()
	d := &Device{
		canvas:   canvas,
		shaders:  make(map[int]*shaderObject),
		programs: make(map[int]*programObject),
		viewport: image.Rect(0, 0, w, h),
	}
	d.defaultVAO = &vertexArrayObject{}
	d.vao = d.defaultVAO
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns "soft".
func (d *Device) Name() string {
	return backend.BackendSoft
}

// Canvas returns the canvas the device draws into.
func (d *Device) Canvas() glpipe.Canvas {
	return d.canvas
}

// Framebuffer returns the current color buffer of the canvas.
func (d *Device) Framebuffer() *Framebuffer {
	return d.canvas.Framebuffer()
}

// Snapshot copies the color buffer.
func (d *Device) Snapshot() (*image.NRGBA, error) {
	return d.canvas.Framebuffer().ToImage(), nil
}

// Close is a no-op; software objects are garbage collected.
func (d *Device) Close() error {
	return nil
}

// Err returns and clears the first GL error recorded since the last
// call, like glGetError.
func (d *Device) Err() ErrorCode {
	e := d.err
	d.err = NoError
	return e
}

func (d *Device) setError(code ErrorCode, call string, format string, args ...any) {
	glpipe.Logger().Warn("soft: GL error", "call", call, "error", code, "detail", fmt.Sprintf(format, args...))
	if d.err == NoError {
		d.err = code
	}
}

func (d *Device) record(name string, args ...any) {
	if d.trace {
		d.calls = append(d.calls, Call{Name: name, Args: args})
	}
}

// Calls returns the calls recorded since the device was created or the
// trace was last reset. It is empty unless WithTrace was given.
func (d *Device) Calls() []Call {
	return d.calls
}

// ResetTrace discards the recorded calls.
func (d *Device) ResetTrace() {
	d.calls = d.calls[:0]
}

// LiveShaders returns the number of shader objects not yet deleted.
func (d *Device) LiveShaders() int {
	return len(d.shaders)
}

// LivePrograms returns the number of program objects not yet deleted.
func (d *Device) LivePrograms() int {
	return len(d.programs)
}

// UniformLookups returns how many times UniformLocation was called.
func (d *Device) UniformLookups() int {
	return d.uniformLookups
}

// DrawCalls returns how many DrawArrays calls were executed.
func (d *Device) DrawCalls() int {
	return d.drawCalls
}

// Fragments returns the total number of fragments shaded.
func (d *Device) Fragments() int {
	return d.fragments
}

// Attrib returns the state of a vertex attribute slot of the currently
// bound vertex array.
func (d *Device) Attrib(slot int) AttribPointer {
	if slot < 0 || slot >= glsl.MaxVertexAttribs {
		return AttribPointer{}
	}
	return d.vao.attribs[slot]
}

func (d *Device) newID() int {
	d.nextID++
	return d.nextID
}

func toGLSLStage(s glpipe.ShaderStage) (glsl.Stage, bool) {
	switch s {
	case glpipe.StageVertex:
		return glsl.StageVertex, true
	case glpipe.StageFragment:
		return glsl.StageFragment, true
	}
	return 0, false
}

func (d *Device) shader(call string, s glpipe.Shader) *shaderObject {
	obj, ok := s.V.(*shaderObject)
	if !ok || obj.deleted && obj.refs == 0 {
		d.setError(InvalidValue, call, "not a shader")
		return nil
	}
	return obj
}

func (d *Device) program(call string, p glpipe.Program) *programObject {
	obj, ok := p.V.(*programObject)
	if !ok || obj.deleted && obj != d.current {
		d.setError(InvalidValue, call, "not a program")
		return nil
	}
	return obj
}

// CreateShader creates an empty shader object.
func (d *Device) CreateShader(stage glpipe.ShaderStage) glpipe.Shader {
	d.record("CreateShader", stage)
	if _, ok := toGLSLStage(stage); !ok {
		d.setError(InvalidEnum, "CreateShader", "stage %d", stage)
		return glpipe.Shader{}
	}
	obj := &shaderObject{id: d.newID(), stage: stage}
	d.shaders[obj.id] = obj
	return glpipe.Shader{V: obj}
}

// ShaderSource replaces the source of s.
func (d *Device) ShaderSource(s glpipe.Shader, src string) {
	d.record("ShaderSource", s.V)
	if obj := d.shader("ShaderSource", s); obj != nil {
		obj.source = src
	}
}

// CompileShader compiles the source of s; the outcome is queried with
// ShaderCompiled and ShaderInfoLog.
func (d *Device) CompileShader(s glpipe.Shader) {
	d.record("CompileShader", s.V)
	obj := d.shader("CompileShader", s)
	if obj == nil {
		return
	}
	stage, _ := toGLSLStage(obj.stage)
	sh, err := glsl.Compile(stage, obj.source)
	if err != nil {
		obj.shader, obj.status, obj.log = nil, false, infoLog(err)
		return
	}
	obj.shader, obj.status, obj.log = sh, true, ""
}

func infoLog(err error) string {
	var gerr *glsl.Error
	if errors.As(err, &gerr) {
		return gerr.InfoLog()
	}
	return "ERROR: " + err.Error() + "\n"
}

// ShaderCompiled reports COMPILE_STATUS.
func (d *Device) ShaderCompiled(s glpipe.Shader) bool {
	obj := d.shader("ShaderCompiled", s)
	return obj != nil && obj.status
}

// ShaderInfoLog returns the compile log of s.
func (d *Device) ShaderInfoLog(s glpipe.Shader) string {
	if obj := d.shader("ShaderInfoLog", s); obj != nil {
		return obj.log
	}
	return ""
}

// DeleteShader flags s for deletion. An attached shader is freed when the
// last program it is attached to is deleted.
func (d *Device) DeleteShader(s glpipe.Shader) {
	d.record("DeleteShader", s.V)
	obj, ok := s.V.(*shaderObject)
	if !ok || obj.deleted {
		return
	}
	obj.deleted = true
	d.releaseShader(obj)
}

func (d *Device) releaseShader(obj *shaderObject) {
	if obj.deleted && obj.refs == 0 {
		delete(d.shaders, obj.id)
	}
}

// CreateProgram creates an empty program object.
func (d *Device) CreateProgram() glpipe.Program {
	d.record("CreateProgram")
	obj := &programObject{id: d.newID()}
	d.programs[obj.id] = obj
	return glpipe.Program{V: obj}
}

// AttachShader attaches s to p. Each program holds at most one shader
// per stage.
func (d *Device) AttachShader(p glpipe.Program, s glpipe.Shader) {
	d.record("AttachShader", p.V, s.V)
	prog := d.program("AttachShader", p)
	sh := d.shader("AttachShader", s)
	if prog == nil || sh == nil {
		return
	}
	slot := &prog.vertex
	if sh.stage == glpipe.StageFragment {
		slot = &prog.fragment
	}
	if *slot != nil {
		d.setError(InvalidOperation, "AttachShader", "a %s shader is already attached", sh.stage)
		return
	}
	*slot = sh
	sh.refs++
}

// DetachShader detaches s from p. A shader already flagged for deletion is
// freed once no program holds it. The program keeps its last link result.
func (d *Device) DetachShader(p glpipe.Program, s glpipe.Shader) {
	d.record("DetachShader", p.V, s.V)
	prog := d.program("DetachShader", p)
	sh := d.shader("DetachShader", s)
	if prog == nil || sh == nil {
		return
	}
	slot := &prog.vertex
	if sh.stage == glpipe.StageFragment {
		slot = &prog.fragment
	}
	if *slot != sh {
		d.setError(InvalidOperation, "DetachShader", "shader is not attached to the program")
		return
	}
	*slot = nil
	sh.refs--
	d.releaseShader(sh)
}

// LinkProgram links the attached shaders.
func (d *Device) LinkProgram(p glpipe.Program) {
	d.record("LinkProgram", p.V)
	prog := d.program("LinkProgram", p)
	if prog == nil {
		return
	}
	prog.status, prog.linked, prog.inv = false, nil, nil
	switch {
	case prog.vertex == nil || prog.fragment == nil:
		prog.log = "ERROR: Missing vertex or fragment shader.\n"
		return
	case !prog.vertex.status || !prog.fragment.status:
		prog.log = "ERROR: Attached shader is not compiled.\n"
		return
	}
	linked, err := glsl.Link(prog.vertex.shader, prog.fragment.shader)
	if err != nil {
		prog.log = infoLog(err)
		return
	}
	prog.linked = linked
	prog.status = true
	prog.log = ""
	prog.uniforms = make([]glsl.Value, len(linked.Uniforms))
	for i, u := range linked.Uniforms {
		prog.uniforms[i] = glsl.Value{T: u.Type}
	}
	prog.inv = linked.NewInvocation()
}

// ProgramLinked reports LINK_STATUS.
func (d *Device) ProgramLinked(p glpipe.Program) bool {
	prog := d.program("ProgramLinked", p)
	return prog != nil && prog.status
}

// ProgramInfoLog returns the link log of p.
func (d *Device) ProgramInfoLog(p glpipe.Program) string {
	if prog := d.program("ProgramInfoLog", p); prog != nil {
		return prog.log
	}
	return ""
}

// DeleteProgram flags p for deletion; the program in use is freed when it
// stops being current. Attached shaders are detached.
func (d *Device) DeleteProgram(p glpipe.Program) {
	d.record("DeleteProgram", p.V)
	prog, ok := p.V.(*programObject)
	if !ok || prog.deleted {
		return
	}
	prog.deleted = true
	if prog != d.current {
		d.freeProgram(prog)
	}
}

func (d *Device) freeProgram(prog *programObject) {
	for _, sh := range []*shaderObject{prog.vertex, prog.fragment} {
		if sh != nil {
			sh.refs--
			d.releaseShader(sh)
		}
	}
	prog.vertex, prog.fragment = nil, nil
	delete(d.programs, prog.id)
}

// UseProgram makes p current. Passing the zero Program unbinds.
func (d *Device) UseProgram(p glpipe.Program) {
	d.record("UseProgram", p.V)
	var prog *programObject
	if p.Valid() {
		prog = d.program("UseProgram", p)
		if prog == nil {
			return
		}
		if !prog.status {
			d.setError(InvalidOperation, "UseProgram", "program %d is not linked", prog.id)
			return
		}
	}
	if old := d.current; old != nil && old != prog && old.deleted {
		d.current = nil
		d.freeProgram(old)
	}
	d.current = prog
}

// AttribLocation returns the location of an active vertex input, or -1.
func (d *Device) AttribLocation(p glpipe.Program, name string) int {
	d.record("AttribLocation", p.V, name)
	prog := d.program("AttribLocation", p)
	if prog == nil {
		return -1
	}
	if !prog.status {
		d.setError(InvalidOperation, "AttribLocation", "program %d is not linked", prog.id)
		return -1
	}
	return prog.linked.AttributeLocation(name)
}

// UniformLocation returns the location of an active uniform; the zero
// location when name is not active.
func (d *Device) UniformLocation(p glpipe.Program, name string) glpipe.UniformLocation {
	d.record("UniformLocation", p.V, name)
	d.uniformLookups++
	prog := d.program("UniformLocation", p)
	if prog == nil {
		return glpipe.UniformLocation{}
	}
	if !prog.status {
		d.setError(InvalidOperation, "UniformLocation", "program %d is not linked", prog.id)
		return glpipe.UniformLocation{}
	}
	i := prog.linked.UniformLocation(name)
	if i < 0 {
		return glpipe.UniformLocation{}
	}
	return glpipe.UniformLocation{V: uniformLocation{prog: prog, index: i}}
}

// CreateBuffer creates a buffer object.
func (d *Device) CreateBuffer() glpipe.Buffer {
	d.record("CreateBuffer")
	return glpipe.Buffer{V: &bufferObject{id: d.newID()}}
}

// BindBuffer binds b to target. The zero Buffer unbinds.
func (d *Device) BindBuffer(target glpipe.BufferTarget, b glpipe.Buffer) {
	d.record("BindBuffer", target, b.V)
	if target != glpipe.ArrayBuffer {
		d.setError(InvalidEnum, "BindBuffer", "target %#x", uint32(target))
		return
	}
	if !b.Valid() {
		d.arrayBuffer = nil
		return
	}
	obj, ok := b.V.(*bufferObject)
	if !ok {
		d.setError(InvalidOperation, "BindBuffer", "not a buffer")
		return
	}
	d.arrayBuffer = obj
}

// BufferData replaces the contents of the buffer bound to target.
func (d *Device) BufferData(target glpipe.BufferTarget, data []float32, usage glpipe.BufferUsage) {
	d.record("BufferData", target, len(data), usage)
	if target != glpipe.ArrayBuffer {
		d.setError(InvalidEnum, "BufferData", "target %#x", uint32(target))
		return
	}
	if d.arrayBuffer == nil {
		d.setError(InvalidOperation, "BufferData", "no buffer bound")
		return
	}
	d.arrayBuffer.data = append(d.arrayBuffer.data[:0], data...)
}

// CreateVertexArray creates a vertex array object.
func (d *Device) CreateVertexArray() glpipe.VertexArray {
	d.record("CreateVertexArray")
	return glpipe.VertexArray{V: &vertexArrayObject{id: d.newID()}}
}

// BindVertexArray makes a current. The zero VertexArray selects the
// default vertex array.
func (d *Device) BindVertexArray(a glpipe.VertexArray) {
	d.record("BindVertexArray", a.V)
	if !a.Valid() {
		d.vao = d.defaultVAO
		return
	}
	obj, ok := a.V.(*vertexArrayObject)
	if !ok {
		d.setError(InvalidOperation, "BindVertexArray", "not a vertex array")
		return
	}
	d.vao = obj
}

// EnableVertexAttribArray enables array fetching for slot.
func (d *Device) EnableVertexAttribArray(slot int) {
	d.record("EnableVertexAttribArray", slot)
	if slot < 0 || slot >= glsl.MaxVertexAttribs {
		d.setError(InvalidValue, "EnableVertexAttribArray", "slot %d", slot)
		return
	}
	d.vao.attribs[slot].Enabled = true
}

// VertexAttribPointer describes how slot reads from the bound ARRAY_BUFFER.
func (d *Device) VertexAttribPointer(slot, size int, typ glpipe.ElementType, normalize bool, stride, offset int) {
	d.record("VertexAttribPointer", slot, size, typ, normalize, stride, offset)
	const call = "VertexAttribPointer"
	switch {
	case slot < 0 || slot >= glsl.MaxVertexAttribs:
		d.setError(InvalidValue, call, "slot %d", slot)
	case size < 1 || size > 4:
		d.setError(InvalidValue, call, "size %d", size)
	case typ != glpipe.Float32:
		d.setError(InvalidEnum, call, "type %#x", uint32(typ))
	case stride < 0 || stride > 255 || offset < 0:
		d.setError(InvalidValue, call, "stride %d offset %d", stride, offset)
	case stride%4 != 0 || offset%4 != 0:
		d.setError(InvalidOperation, call, "stride %d and offset %d must be multiples of 4", stride, offset)
	case d.arrayBuffer == nil:
		d.setError(InvalidOperation, call, "no ARRAY_BUFFER bound")
	default:
		a := &d.vao.attribs[slot]
		a.Size, a.Type, a.Normalize = size, typ, normalize
		a.Stride, a.Offset = stride, offset
		a.Buffer = glpipe.Buffer{V: d.arrayBuffer}
	}
}

func (d *Device) uniform(call string, l glpipe.UniformLocation, t glsl.Type) *glsl.Value {
	if !l.Valid() {
		return nil
	}
	loc, ok := l.V.(uniformLocation)
	if !ok {
		d.setError(InvalidOperation, call, "foreign location")
		return nil
	}
	if loc.prog != d.current {
		d.setError(InvalidOperation, call, "location does not belong to the current program")
		return nil
	}
	u := loc.prog.linked.Uniforms[loc.index]
	if u.Type != t {
		d.setError(InvalidOperation, call, "uniform %s is %s, not %s", u.Name, u.Type, t)
		return nil
	}
	return &loc.prog.uniforms[loc.index]
}

// Uniform1f sets a float uniform of the current program.
func (d *Device) Uniform1f(l glpipe.UniformLocation, x float32) {
	d.record("Uniform1f", x)
	if v := d.uniform("Uniform1f", l, glsl.TypeFloat); v != nil {
		*v = glsl.Float(x)
	}
}

// Uniform2f sets a vec2 uniform of the current program.
func (d *Device) Uniform2f(l glpipe.UniformLocation, x, y float32) {
	d.record("Uniform2f", x, y)
	if v := d.uniform("Uniform2f", l, glsl.TypeVec2); v != nil {
		*v = glsl.Vec2(x, y)
	}
}

// Uniform4f sets a vec4 uniform of the current program.
func (d *Device) Uniform4f(l glpipe.UniformLocation, x, y, z, w float32) {
	d.record("Uniform4f", x, y, z, w)
	if v := d.uniform("Uniform4f", l, glsl.TypeVec4); v != nil {
		*v = glsl.Vec4(x, y, z, w)
	}
}

// Viewport sets the NDC to window mapping.
func (d *Device) Viewport(x, y, width, height int) {
	d.record("Viewport", x, y, width, height)
	if width < 0 || height < 0 {
		d.setError(InvalidValue, "Viewport", "%dx%d", width, height)
		return
	}
	d.viewport = image.Rect(x, y, x+width, y+height)
}

// ClearColor sets the color used by Clear.
func (d *Device) ClearColor(r, g, b, a float32) {
	d.record("ClearColor", r, g, b, a)
	d.clearColor = glpipe.RGBA{R: r, G: g, B: b, A: a}
}

// Clear fills the whole color buffer with the clear color. The viewport
// does not restrict clearing.
func (d *Device) Clear(mask glpipe.ClearMask) {
	d.record("Clear", mask)
	if mask&^glpipe.ColorBufferBit != 0 {
		d.setError(InvalidValue, "Clear", "mask %#x", uint32(mask))
		return
	}
	if mask&glpipe.ColorBufferBit != 0 {
		d.canvas.Framebuffer().Clear(d.clearColor)
	}
}
