package glpipe

// ShaderStage identifies the programmable stage a shader is compiled for.
type ShaderStage uint8

const (
	// StageVertex is the vertex processing stage.
	StageVertex ShaderStage = iota + 1

	// StageFragment is the fragment processing stage.
	StageFragment
)

// String returns the stage name as used in driver diagnostics.
func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// BufferTarget is a binding point for buffer objects.
type BufferTarget uint32

// ArrayBuffer is the vertex attribute data binding point (ARRAY_BUFFER).
const ArrayBuffer BufferTarget = 0x8892

// BufferUsage hints how often buffer contents change.
type BufferUsage uint32

// StaticDraw marks data that is written once and drawn many times (STATIC_DRAW).
const StaticDraw BufferUsage = 0x88E4

// ElementType is the component type of a vertex attribute.
type ElementType uint32

// Float32 is the 32-bit IEEE float component type (FLOAT).
const Float32 ElementType = 0x1406

// Size returns the component size in bytes.
func (t ElementType) Size() int {
	if t == Float32 {
		return 4
	}
	return 0
}

// Primitive is a draw mode.
type Primitive uint32

// Triangles draws independent triangles from each group of three vertices (TRIANGLES).
const Triangles Primitive = 0x0004

// ClearMask selects the buffers cleared by Device.Clear.
type ClearMask uint32

// ColorBufferBit selects the color buffer (COLOR_BUFFER_BIT).
const ColorBufferBit ClearMask = 0x4000

// Opaque driver objects. V holds the backend's native handle
// (js.Value, uint32 name, or a software object id); the zero value is "absent".
type (
	Shader          struct{ V any }
	Program         struct{ V any }
	Buffer          struct{ V any }
	VertexArray     struct{ V any }
	UniformLocation struct{ V any }
)

// Valid reports whether the handle refers to a driver object.
func (s Shader) Valid() bool { return s.V != nil }

// Valid reports whether the handle refers to a driver object.
func (p Program) Valid() bool { return p.V != nil }

// Valid reports whether the handle refers to a driver object.
func (b Buffer) Valid() bool { return b.V != nil }

// Valid reports whether the handle refers to a driver object.
func (a VertexArray) Valid() bool { return a.V != nil }

// Valid reports whether the location names an active uniform.
func (l UniformLocation) Valid() bool { return l.V != nil }

// Device is the WebGL2 driver surface used by the pipeline.
//
// Methods follow WebGL2 semantics: state-setting calls never fail, driver
// errors are reported through the status and info-log queries.
// Implementations live in backend/soft (pure Go), backend/webgl (browser)
// and backend/desktop (OpenGL 3.3 core through GLFW).
//
// A Device is not safe for concurrent use.
type Device interface {
	// Name returns the backend name (e.g. "soft", "webgl2", "gl33").
	Name() string

	CreateShader(stage ShaderStage) Shader
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	// ShaderCompiled reports the COMPILE_STATUS of s.
	ShaderCompiled(s Shader) bool
	ShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	DetachShader(p Program, s Shader)
	LinkProgram(p Program)
	// ProgramLinked reports the LINK_STATUS of p.
	ProgramLinked(p Program) bool
	ProgramInfoLog(p Program) string
	DeleteProgram(p Program)
	UseProgram(p Program)

	// AttribLocation returns the slot of an active vertex input, or -1.
	AttribLocation(p Program, name string) int
	// UniformLocation returns the location of an active uniform. The
	// returned location is invalid when the program has no such uniform.
	UniformLocation(p Program, name string) UniformLocation

	CreateBuffer() Buffer
	BindBuffer(target BufferTarget, b Buffer)
	BufferData(target BufferTarget, data []float32, usage BufferUsage)

	CreateVertexArray() VertexArray
	BindVertexArray(a VertexArray)
	EnableVertexAttribArray(slot int)
	VertexAttribPointer(slot, size int, typ ElementType, normalize bool, stride, offset int)

	Uniform1f(l UniformLocation, x float32)
	Uniform2f(l UniformLocation, x, y float32)
	Uniform4f(l UniformLocation, x, y, z, w float32)

	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	DrawArrays(mode Primitive, first, count int)
}
