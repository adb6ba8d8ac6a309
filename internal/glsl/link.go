// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"errors"

	"golang.org/x/image/math/f32"
)

// MaxVertexAttribs is the number of generic vertex attribute slots.
const MaxVertexAttribs = 16

// Varying carries one vertex output to the fragment stage.
type Varying struct {
	Name string
	Type Type

	vslot int
	// fslot is -1 when the fragment shader does not read the varying.
	fslot int
}

// Uniform is an active uniform of a linked program. Its index in
// Program.Uniforms is its location.
type Uniform struct {
	Name string
	Type Type

	vslot, fslot int
}

// Program is a linked vertex/fragment pair.
type Program struct {
	Vertex   *Shader
	Fragment *Shader

	// Attributes lists the active vertex inputs with their assigned
	// locations.
	Attributes []Var
	Uniforms   []Uniform
	Varyings   []Varying

	// output is the fragment output slot, or -1 if none is declared.
	output int
}

var errNilShader = errors.New("glsl: nil shader")

// Link checks the interface between vs and fs and assigns attribute and
// uniform locations. The returned error is an *Error whose text is
// suitable as a program info log.
func Link(vs, fs *Shader) (*Program, error) {
	if vs == nil || fs == nil {
		return nil, errNilShader
	}
	if vs.Stage != StageVertex {
		return nil, errorf(0, "Shader attached as VERTEX was compiled as %s.", vs.Stage)
	}
	if fs.Stage != StageFragment {
		return nil, errorf(0, "Shader attached as FRAGMENT was compiled as %s.", fs.Stage)
	}

	prog := &Program{Vertex: vs, Fragment: fs, output: -1}
	if err := prog.linkVaryings(); err != nil {
		return nil, err
	}
	if err := prog.linkUniforms(); err != nil {
		return nil, err
	}
	if err := prog.assignAttributes(); err != nil {
		return nil, err
	}
	for _, o := range fs.Outputs {
		if o.Location <= 0 {
			prog.output = o.slot
			break
		}
	}
	return prog, nil
}

func (p *Program) linkVaryings() *Error {
	for _, out := range p.Vertex.Outputs {
		p.Varyings = append(p.Varyings, Varying{Name: out.Name, Type: out.Type, vslot: out.slot, fslot: -1})
	}
	for _, in := range p.Fragment.Inputs {
		i := p.varying(in.Name)
		if i < 0 {
			if !in.Active {
				continue
			}
			return errorf(0, "Input varying '%s' is not declared in the vertex shader.", in.Name)
		}
		if p.Varyings[i].Type != in.Type {
			return errorf(0, "Types of varying '%s' differ between VERTEX and FRAGMENT shaders.", in.Name)
		}
		p.Varyings[i].fslot = in.slot
	}
	return nil
}

func (p *Program) varying(name string) int {
	for i, v := range p.Varyings {
		if v.Name == name {
			return i
		}
	}
	return -1
}

func (p *Program) linkUniforms() *Error {
	for _, u := range p.Vertex.Uniforms {
		if fu, ok := p.Fragment.Uniform(u.Name); ok && fu.Type != u.Type {
			return errorf(0, "Types of uniform '%s' differ between VERTEX and FRAGMENT shaders.", u.Name)
		}
	}
	add := func(v Var, stage Stage) {
		if !v.Active {
			return
		}
		i := p.UniformLocation(v.Name)
		if i < 0 {
			p.Uniforms = append(p.Uniforms, Uniform{Name: v.Name, Type: v.Type, vslot: -1, fslot: -1})
			i = len(p.Uniforms) - 1
		}
		if stage == StageVertex {
			p.Uniforms[i].vslot = v.slot
		} else {
			p.Uniforms[i].fslot = v.slot
		}
	}
	for _, u := range p.Vertex.Uniforms {
		add(u, StageVertex)
	}
	for _, u := range p.Fragment.Uniforms {
		add(u, StageFragment)
	}
	return nil
}

func (p *Program) assignAttributes() *Error {
	var used [MaxVertexAttribs]string
	var pending []Var
	for _, in := range p.Vertex.Inputs {
		if !in.Active {
			continue
		}
		if in.Location < 0 {
			pending = append(pending, in)
			continue
		}
		if in.Location >= MaxVertexAttribs {
			return errorf(0, "Attribute '%s' location %d exceeds the maximum of %d.", in.Name, in.Location, MaxVertexAttribs-1)
		}
		if prev := used[in.Location]; prev != "" {
			return errorf(0, "Attributes '%s' and '%s' are bound to the same location.", prev, in.Name)
		}
		used[in.Location] = in.Name
		p.Attributes = append(p.Attributes, in)
	}
	next := 0
	for _, in := range pending {
		for next < MaxVertexAttribs && used[next] != "" {
			next++
		}
		if next == MaxVertexAttribs {
			return errorf(0, "Too many active attributes.")
		}
		in.Location = next
		used[next] = in.Name
		p.Attributes = append(p.Attributes, in)
	}
	return nil
}

// AttributeLocation returns the location of an active vertex input, or -1.
func (p *Program) AttributeLocation(name string) int {
	for _, a := range p.Attributes {
		if a.Name == name {
			return a.Location
		}
	}
	return -1
}

// UniformLocation returns the location of an active uniform, or -1.
func (p *Program) UniformLocation(name string) int {
	for i, u := range p.Uniforms {
		if u.Name == name {
			return i
		}
	}
	return -1
}

// HasOutput reports whether the fragment shader declares a color output.
func (p *Program) HasOutput() bool {
	return p.output >= 0
}

// Invocation runs the shaders of a program. It owns scratch registers
// and must not be shared between goroutines.
type Invocation struct {
	prog     *Program
	vm, fm   machine
	varyings []f32.Vec4
}

// NewInvocation returns an invocation with freshly allocated registers.
func (p *Program) NewInvocation() *Invocation {
	return &Invocation{
		prog:     p,
		vm:       machine{slots: make([]Value, len(p.Vertex.types))},
		fm:       machine{slots: make([]Value, len(p.Fragment.types))},
		varyings: make([]f32.Vec4, len(p.Varyings)),
	}
}

func (m *machine) reset(types []Type) {
	for i, t := range types {
		m.slots[i] = Value{T: t}
	}
}

// Vertex runs the vertex shader. attribs is indexed by attribute
// location; missing components take the defaults (0, 0, 0, 1). uniforms
// is indexed by uniform location. The returned varyings slice is reused
// by the next call.
func (inv *Invocation) Vertex(attribs []f32.Vec4, uniforms []Value) (f32.Vec4, []f32.Vec4) {
	p := inv.prog
	m := &inv.vm
	m.reset(p.Vertex.types)
	for _, a := range p.Attributes {
		if a.Location < len(attribs) {
			m.slots[a.slot] = FromComponents(a.Type, attribs[a.Location])
		}
	}
	for i, u := range p.Uniforms {
		if u.vslot >= 0 && i < len(uniforms) {
			m.slots[u.vslot] = FromComponents(u.Type, uniforms[i].V)
		}
	}
	p.Vertex.main.exec(m)
	for i, v := range p.Varyings {
		inv.varyings[i] = m.slots[v.vslot].V
	}
	return m.slots[p.Vertex.builtin].V, inv.varyings
}

// Fragment runs the fragment shader for one pixel and returns the value
// written to the color output.
func (inv *Invocation) Fragment(fragCoord f32.Vec4, varyings []f32.Vec4, uniforms []Value) f32.Vec4 {
	p := inv.prog
	m := &inv.fm
	m.reset(p.Fragment.types)
	m.slots[p.Fragment.builtin] = Value{T: TypeVec4, V: fragCoord}
	for i, v := range p.Varyings {
		if v.fslot >= 0 && i < len(varyings) {
			m.slots[v.fslot] = FromComponents(v.Type, varyings[i])
		}
	}
	for i, u := range p.Uniforms {
		if u.fslot >= 0 && i < len(uniforms) {
			m.slots[u.fslot] = FromComponents(u.Type, uniforms[i].V)
		}
	}
	p.Fragment.main.exec(m)
	if p.output < 0 {
		return f32.Vec4{}
	}
	return m.slots[p.output].V
}
