package glpipe

// ShaderSource is shader text tagged with the stage it is written for.
type ShaderSource struct {
	Stage ShaderStage
	Text  string
}

// VertexSource returns a vertex-stage ShaderSource.
func VertexSource(text string) ShaderSource {
	return ShaderSource{Stage: StageVertex, Text: text}
}

// FragmentSource returns a fragment-stage ShaderSource.
func FragmentSource(text string) ShaderSource {
	return ShaderSource{Stage: StageFragment, Text: text}
}

// CompiledShader is a successfully compiled driver shader object.
// It stays owned by the caller until it is linked into a program.
type CompiledShader struct {
	Stage  ShaderStage
	Handle Shader
}

// Valid reports whether c holds a driver shader.
func (c CompiledShader) Valid() bool {
	return c.Handle.Valid()
}

// CompileShader creates a shader object for src.Stage, uploads the source
// text and compiles it.
//
// On failure the driver's info log is logged at error level, the partially
// created shader object is deleted, and a *CompileError is returned.
func CompileShader(dev Device, src ShaderSource) (CompiledShader, error) {
	if src.Stage != StageVertex && src.Stage != StageFragment {
		return CompiledShader{}, &CompileError{Stage: src.Stage, Log: "unknown shader stage"}
	}
	s := dev.CreateShader(src.Stage)
	dev.ShaderSource(s, src.Text)
	dev.CompileShader(s)

	if dev.ShaderCompiled(s) {
		Logger().Debug("shader compiled", "backend", dev.Name(), "stage", src.Stage)
		return CompiledShader{Stage: src.Stage, Handle: s}, nil
	}

	infoLog := dev.ShaderInfoLog(s)
	Logger().Error("shader compile failed", "backend", dev.Name(), "stage", src.Stage, "log", infoLog)
	dev.DeleteShader(s)
	return CompiledShader{}, &CompileError{Stage: src.Stage, Log: infoLog}
}
