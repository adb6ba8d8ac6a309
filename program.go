package glpipe

import "fmt"

// LinkedProgram is an executable driver program together with the
// name-to-location caches resolved against it. Lookups go to the driver
// once per name; later calls reuse the cached result.
type LinkedProgram struct {
	dev      Device
	handle   Program
	attribs  map[string]int
	uniforms map[string]*Uniform
}

// LinkProgram attaches vs and fs to a new program object and links it.
//
// Exactly one vertex and one fragment shader are required; an invalid
// handle or a stage mismatch returns ErrInvalidShader without touching the
// driver. On link failure the info log is logged, the program object is
// deleted and a *LinkError is returned. On success the shader objects are
// detached and deleted unless WithShaderRelease(false) is given.
func LinkProgram(dev Device, vs, fs CompiledShader, opts ...Option) (*LinkedProgram, error) {
	o := buildOptions(opts)
	if !vs.Valid() || vs.Stage != StageVertex {
		return nil, fmt.Errorf("%w: vertex slot holds %s shader (valid=%t)", ErrInvalidShader, vs.Stage, vs.Valid())
	}
	if !fs.Valid() || fs.Stage != StageFragment {
		return nil, fmt.Errorf("%w: fragment slot holds %s shader (valid=%t)", ErrInvalidShader, fs.Stage, fs.Valid())
	}

	p := dev.CreateProgram()
	dev.AttachShader(p, vs.Handle)
	dev.AttachShader(p, fs.Handle)
	dev.LinkProgram(p)

	if !dev.ProgramLinked(p) {
		infoLog := dev.ProgramInfoLog(p)
		Logger().Error("program link failed", "backend", dev.Name(), "log", infoLog)
		dev.DeleteProgram(p)
		return nil, &LinkError{Log: infoLog}
	}

	if o.releaseShaders {
		dev.DetachShader(p, vs.Handle)
		dev.DetachShader(p, fs.Handle)
		dev.DeleteShader(vs.Handle)
		dev.DeleteShader(fs.Handle)
	}
	Logger().Debug("program linked", "backend", dev.Name())
	return &LinkedProgram{
		dev:      dev,
		handle:   p,
		attribs:  make(map[string]int),
		uniforms: make(map[string]*Uniform),
	}, nil
}

// Handle returns the driver program object.
func (lp *LinkedProgram) Handle() Program {
	return lp.handle
}

// Use makes lp the current program.
func (lp *LinkedProgram) Use() {
	lp.dev.UseProgram(lp.handle)
}

// Attribute returns the vertex input slot for name.
// It returns -1 and ErrUnknownAttribute when the program has no active
// input with that name.
func (lp *LinkedProgram) Attribute(name string) (int, error) {
	slot, ok := lp.attribs[name]
	if !ok {
		slot = lp.dev.AttribLocation(lp.handle, name)
		lp.attribs[name] = slot
	}
	if slot < 0 {
		return -1, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	return slot, nil
}

// Uniform returns the binding for the named uniform, resolving its
// location on first use. A name the program does not declare yields an
// inactive binding whose setters do nothing.
func (lp *LinkedProgram) Uniform(name string) *Uniform {
	if u, ok := lp.uniforms[name]; ok {
		return u
	}
	u := &Uniform{
		Name: name,
		dev:  lp.dev,
		loc:  lp.dev.UniformLocation(lp.handle, name),
	}
	if !u.Active() {
		Logger().Debug("uniform not active in program", "name", name)
	}
	lp.uniforms[name] = u
	return u
}
