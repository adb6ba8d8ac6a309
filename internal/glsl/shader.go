// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package glsl compiles and interprets the subset of GLSL ES 3.00 used by
// simple WebGL2 programs: float and vector arithmetic over attributes,
// uniforms and varyings, written out through gl_Position and one fragment
// output.
//
// Diagnostics mimic browser info logs ("ERROR: 0:<line>: ...") so callers
// can surface them the same way as driver output.
package glsl

// Stage is the shader stage a source is compiled for.
type Stage uint8

const (
	StageVertex Stage = iota + 1
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "VERTEX"
	case StageFragment:
		return "FRAGMENT"
	}
	return "UNKNOWN"
}

// Var is an interface variable (in, out or uniform) of a shader.
type Var struct {
	Name string
	Type Type
	// Location is the layout(location = N) value, or -1.
	Location int
	// Active reports whether main reads or writes the variable.
	Active bool

	slot int
}

// Shader is a compiled shader stage.
type Shader struct {
	Stage    Stage
	Inputs   []Var
	Outputs  []Var
	Uniforms []Var

	main block
	// types holds the static type of every slot.
	types []Type
	// builtin is the slot of gl_Position (vertex) or gl_FragCoord (fragment).
	builtin int
}

// Compile parses and type-checks src for stage. The returned error is
// an *Error whose text is suitable as a shader info log.
func Compile(stage Stage, src string) (*Shader, error) {
	text, perr := preprocess(src)
	if perr != nil {
		return nil, perr
	}
	toks, terr := tokenize(text)
	if terr != nil {
		return nil, terr
	}
	p := newParser(stage, toks)
	sh, err := p.parse()
	if err != nil {
		return nil, err
	}
	return sh, nil
}

// Input returns the named input variable.
func (s *Shader) Input(name string) (Var, bool) {
	return findVar(s.Inputs, name)
}

// Output returns the named output variable.
func (s *Shader) Output(name string) (Var, bool) {
	return findVar(s.Outputs, name)
}

// Uniform returns the named uniform variable.
func (s *Shader) Uniform(name string) (Var, bool) {
	return findVar(s.Uniforms, name)
}

func findVar(vars []Var, name string) (Var, bool) {
	for _, v := range vars {
		if v.Name == name {
			return v, true
		}
	}
	return Var{}, false
}
