package glpipe

import "fmt"

// State is the setup progress of a Pipeline.
type State uint8

const (
	// StateUnconfigured is a new pipeline with nothing compiled.
	StateUnconfigured State = iota
	// StateShadersCompiled holds a compiled vertex and fragment shader.
	StateShadersCompiled
	// StateProgramLinked holds a linked program.
	StateProgramLinked
	// StateGeometryBound has vertex data uploaded to its buffer.
	StateGeometryBound
	// StateReady has an attribute bound and accepts Render.
	StateReady
	// StateDrawing is inside a Render callback.
	StateDrawing
)

var stateNames = [...]string{
	StateUnconfigured:    "unconfigured",
	StateShadersCompiled: "shaders-compiled",
	StateProgramLinked:   "program-linked",
	StateGeometryBound:   "geometry-bound",
	StateReady:           "ready",
	StateDrawing:         "drawing",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Pipeline sequences one shader program, one vertex buffer and one vertex
// array into draw calls on a canvas.
//
// Setup is strictly ordered:
//
//	Compile -> Link -> BindGeometry -> BindAttribute -> Render...
//
// Calls out of order return a *StateError and change nothing. A compile or
// link failure leaves the pipeline where it was; the demo is then expected
// to give up, leaving the canvas blank.
//
// GPU objects created by a Pipeline live as long as the Device; there is no
// teardown.
type Pipeline struct {
	dev    Device
	canvas Canvas
	opts   options
	state  State

	vs, fs  CompiledShader
	program *LinkedProgram
	buffer  *VertexBuffer
	vao     VertexArray
}

// NewPipeline returns an unconfigured pipeline drawing through dev onto canvas.
func NewPipeline(dev Device, canvas Canvas, opts ...Option) *Pipeline {
	return &Pipeline{
		dev:    dev,
		canvas: canvas,
		opts:   buildOptions(opts),
	}
}

// State returns the current setup state.
func (p *Pipeline) State() State {
	return p.state
}

// Device returns the driver the pipeline draws through.
func (p *Pipeline) Device() Device {
	return p.dev
}

// Program returns the linked program, or nil before Link succeeds.
func (p *Pipeline) Program() *LinkedProgram {
	return p.program
}

// Buffer returns the vertex buffer, or nil before BindGeometry.
func (p *Pipeline) Buffer() *VertexBuffer {
	return p.buffer
}

func (p *Pipeline) require(op string, want State) error {
	if p.state != want {
		return &StateError{Op: op, Have: p.state, Want: want}
	}
	return nil
}

func (p *Pipeline) advance(to State) {
	Logger().Debug("pipeline state", "from", p.state, "to", to)
	p.state = to
}

// Compile compiles the vertex and fragment sources.
func (p *Pipeline) Compile(vertex, fragment ShaderSource) error {
	if err := p.require("Compile", StateUnconfigured); err != nil {
		return err
	}
	if vertex.Stage != StageVertex || fragment.Stage != StageFragment {
		return fmt.Errorf("%w: Compile wants (vertex, fragment), got (%s, %s)", ErrInvalidShader, vertex.Stage, fragment.Stage)
	}
	vs, err := CompileShader(p.dev, vertex)
	if err != nil {
		return err
	}
	fs, err := CompileShader(p.dev, fragment)
	if err != nil {
		p.dev.DeleteShader(vs.Handle)
		return err
	}
	p.vs, p.fs = vs, fs
	p.advance(StateShadersCompiled)
	return nil
}

// Link links the compiled shaders into the pipeline's program.
func (p *Pipeline) Link() error {
	if err := p.require("Link", StateShadersCompiled); err != nil {
		return err
	}
	prog, err := LinkProgram(p.dev, p.vs, p.fs, func(o *options) { *o = p.opts })
	if err != nil {
		return err
	}
	p.program = prog
	p.vs, p.fs = CompiledShader{}, CompiledShader{}
	if name := p.opts.resolutionUniform; name != "" {
		prog.Uniform(name)
	}
	p.advance(StateProgramLinked)
	return nil
}

// Uniform resolves a uniform of the linked program. Resolution happens once
// per name; the returned binding is reused by every later frame.
func (p *Pipeline) Uniform(name string) (*Uniform, error) {
	if p.state < StateProgramLinked {
		return nil, &StateError{Op: "Uniform", Have: p.state, Want: StateProgramLinked}
	}
	return p.program.Uniform(name), nil
}

// BindGeometry creates the vertex array and the vertex buffer, makes both
// current and uploads vertices (which may be empty when geometry is only
// known per draw).
func (p *Pipeline) BindGeometry(vertices []float32) error {
	if err := p.require("BindGeometry", StateProgramLinked); err != nil {
		return err
	}
	p.vao = p.dev.CreateVertexArray()
	p.dev.BindVertexArray(p.vao)
	p.buffer = NewVertexBuffer(p.dev)
	if len(vertices) > 0 {
		p.buffer.Upload(vertices)
	} else {
		p.buffer.Bind()
	}
	p.advance(StateGeometryBound)
	return nil
}

// BindAttribute resolves the named vertex input and declares layout for it
// against the pipeline's buffer. layout.Slot is replaced by the resolved
// slot. It may be called again once Ready to describe further inputs.
func (p *Pipeline) BindAttribute(name string, layout AttributeLayout) error {
	if p.state != StateGeometryBound && p.state != StateReady {
		return &StateError{Op: "BindAttribute", Have: p.state, Want: StateGeometryBound}
	}
	slot, err := p.program.Attribute(name)
	if err != nil {
		return err
	}
	layout.Slot = slot
	p.dev.BindVertexArray(p.vao)
	p.buffer.Bind()
	if err := BindAttribute(p.dev, layout); err != nil {
		return err
	}
	if p.state != StateReady {
		p.advance(StateReady)
	}
	return nil
}

// Render draws one frame: it resizes the canvas when a size was configured,
// sets the viewport to the canvas, clears it, binds the program and vertex
// array, pushes the resolution uniform and then hands over to draw, which
// pushes the remaining uniforms and issues draw calls through the Frame.
func (p *Pipeline) Render(draw func(f *Frame) error) error {
	if err := p.require("Render", StateReady); err != nil {
		return err
	}
	p.advance(StateDrawing)
	defer p.advance(StateReady)

	Resize(p.canvas, p.opts.width, p.opts.height)
	vp := CanvasViewport(p.canvas)
	p.dev.Viewport(0, 0, vp.Width, vp.Height)

	c := p.opts.clearColor
	p.dev.ClearColor(c.R, c.G, c.B, c.A)
	p.dev.Clear(ColorBufferBit)

	p.program.Use()
	p.dev.BindVertexArray(p.vao)
	if name := p.opts.resolutionUniform; name != "" {
		p.program.Uniform(name).Set2f(float32(vp.Width), float32(vp.Height))
	}

	f := &Frame{p: p, Viewport: vp}
	if draw == nil {
		return nil
	}
	if err := draw(f); err != nil {
		return err
	}
	Logger().Debug("frame rendered", "backend", p.dev.Name(), "draws", f.draws)
	return nil
}
