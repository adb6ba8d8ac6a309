// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"errors"
	"math"
	"strings"
	"testing"

	"golang.org/x/image/math/f32"
)

const resolutionVS = `#version 300 es
in vec2 a_position;
uniform vec2 u_resolution;
void main() {
  vec2 zeroToOne = a_position / u_resolution;
  vec2 zeroToTwo = zeroToOne * 2.0;
  vec2 clipSpace = zeroToTwo - 1.0;
  gl_Position = vec4(clipSpace * vec2(1, -1), 0, 1);
}
`

const colorFS = `#version 300 es
precision highp float;
uniform vec4 u_color;
out vec4 outColor;
void main() {
  outColor = u_color;
}
`

func mustCompile(t *testing.T, stage Stage, src string) *Shader {
	t.Helper()
	sh, err := Compile(stage, src)
	if err != nil {
		t.Fatalf("Compile(%v) failed: %v", stage, err)
	}
	return sh
}

func mustLink(t *testing.T, vs, fs string) *Program {
	t.Helper()
	prog, err := Link(mustCompile(t, StageVertex, vs), mustCompile(t, StageFragment, fs))
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	return prog
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestCompileInterface(t *testing.T) {
	sh := mustCompile(t, StageVertex, resolutionVS)
	in, ok := sh.Input("a_position")
	if !ok || in.Type != TypeVec2 || !in.Active {
		t.Errorf("Input(a_position) = %+v, %v", in, ok)
	}
	u, ok := sh.Uniform("u_resolution")
	if !ok || u.Type != TypeVec2 {
		t.Errorf("Uniform(u_resolution) = %+v, %v", u, ok)
	}
	if _, ok := sh.Uniform("u_color"); ok {
		t.Error("Uniform(u_color) found in vertex shader")
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		stage Stage
		src   string
		want  string
	}{
		{"no version", StageVertex, "void main() {}\n", "version directive required"},
		{"wrong version", StageVertex, "#version 100\nvoid main() {}\n", "unsupported shader version"},
		{"missing main", StageVertex, "#version 300 es\nin vec4 a;\n", "Missing main()"},
		{"no precision", StageFragment, "#version 300 es\nout vec4 c;\nvoid main() { c = vec4(1); }\n", "No precision specified for (float)"},
		{"undeclared", StageVertex, "#version 300 es\nvoid main() {\n  gl_Position = foo;\n}\n", "0:3: 'foo' : undeclared identifier"},
		{"type mismatch", StageVertex, "#version 300 es\nvoid main() {\n  gl_Position = vec2(1.0);\n}\n", "cannot convert from 'vec2' to 'vec4'"},
		{"int plus float", StageVertex, "#version 300 es\nvoid main() {\n  float x = 1 + 1.0;\n}\n", "wrong operand types"},
		{"assign uniform", StageVertex, "#version 300 es\nuniform float u;\nvoid main() { u = 1.0; }\n", "l-value required"},
		{"bad swizzle", StageVertex, "#version 300 es\nin vec2 a;\nvoid main() { gl_Position = vec4(a.z, 0, 0, 1); }\n", "vector field selection out of range"},
		{"mixed swizzle", StageVertex, "#version 300 es\nin vec4 a;\nvoid main() { gl_Position = a.xg; }\n", "illegal vector field selection"},
		{"unknown function", StageVertex, "#version 300 es\nvoid main() { gl_Position = mix(1.0); }\n", "no matching overloaded function found"},
		{"redefinition", StageVertex, "#version 300 es\nin vec4 a;\nin vec4 a;\nvoid main() {}\n", "'a' : redefinition"},
		{"too few args", StageVertex, "#version 300 es\nvoid main() { gl_Position = vec4(1.0, 2.0); }\n", "not enough data"},
		{"gl_Position in fragment", StageFragment, "#version 300 es\nprecision mediump float;\nvoid main() { gl_Position = vec4(1); }\n", "undeclared identifier"},
		{"syntax", StageVertex, "#version 300 es\nvoid main() { gl_Position = vec4(1) }\n", "syntax error"},
		{"const without init", StageVertex, "#version 300 es\nvoid main() { const float x; }\n", "must be initialized"},
		{"global variable", StageVertex, "#version 300 es\nfloat x;\nvoid main() {}\n", "global variables"},
		{"int varying", StageVertex, "#version 300 es\nout int v;\nvoid main() {}\n", "flat"},
		{"layout on uniform", StageVertex, "#version 300 es\nlayout(location = 1) uniform float u;\nvoid main() {}\n", "invalid layout qualifier"},
		{"stray directive", StageVertex, "#version 300 es\n#define X 1\nvoid main() {}\n", "unsupported preprocessor directive"},
		{"control flow", StageVertex, "#version 300 es\nvoid main() { if (1) {} }\n", "unsupported language feature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.stage, tt.src)
			if err == nil {
				t.Fatal("Compile() succeeded, want error")
			}
			var gerr *Error
			if !errors.As(err, &gerr) {
				t.Fatalf("Compile() error %T is not *Error", err)
			}
			if !strings.HasPrefix(err.Error(), "ERROR: ") {
				t.Errorf("error %q lacks ERROR prefix", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Compile() error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestErrorInfoLog(t *testing.T) {
	e := errorf(7, "'x' : undeclared identifier")
	if got, want := e.InfoLog(), "ERROR: 0:7: 'x' : undeclared identifier\n"; got != want {
		t.Errorf("InfoLog() = %q, want %q", got, want)
	}
	e = errorf(0, "link failed")
	if got, want := e.Error(), "ERROR: link failed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestVertexResolutionTransform(t *testing.T) {
	prog := mustLink(t, resolutionVS, colorFS)
	loc := prog.AttributeLocation("a_position")
	if loc != 0 {
		t.Fatalf("AttributeLocation(a_position) = %d, want 0", loc)
	}
	res := prog.UniformLocation("u_resolution")
	if res < 0 {
		t.Fatal("u_resolution is not active")
	}

	uniforms := make([]Value, len(prog.Uniforms))
	uniforms[res] = Vec2(400, 300)
	inv := prog.NewInvocation()

	tests := []struct {
		in   f32.Vec4
		want f32.Vec4
	}{
		{f32.Vec4{0, 0, 0, 1}, f32.Vec4{-1, 1, 0, 1}},
		{f32.Vec4{30, 0, 0, 1}, f32.Vec4{-0.85, 1, 0, 1}},
		{f32.Vec4{400, 300, 0, 1}, f32.Vec4{1, -1, 0, 1}},
		{f32.Vec4{200, 150, 0, 1}, f32.Vec4{0, 0, 0, 1}},
	}
	attribs := make([]f32.Vec4, MaxVertexAttribs)
	for _, tt := range tests {
		attribs[loc] = tt.in
		got, _ := inv.Vertex(attribs, uniforms)
		for i := range got {
			if !near(got[i], tt.want[i]) {
				t.Errorf("Vertex(%v) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}

func TestFragmentUniformColor(t *testing.T) {
	prog := mustLink(t, resolutionVS, colorFS)
	uniforms := make([]Value, len(prog.Uniforms))
	uniforms[prog.UniformLocation("u_color")] = Vec4(0.25, 0.5, 0.75, 1)
	got := prog.NewInvocation().Fragment(f32.Vec4{0.5, 0.5, 0, 1}, nil, uniforms)
	if want := (f32.Vec4{0.25, 0.5, 0.75, 1}); got != want {
		t.Errorf("Fragment() = %v, want %v", got, want)
	}
}

func TestExpressions(t *testing.T) {
	const vs = `#version 300 es
in vec4 a;
out vec4 v;
void main() {
  const float half = 0.5;
  vec4 p = a;
  p.xy *= 2.0;
  p.w = 1.0;
  v = vec4(p.yx, -half, float(7 / 2));
  v.z += 1.0;
  gl_Position = p;
  return;
  gl_Position = vec4(0);
}
`
	const fs = `#version 300 es
precision mediump float;
in vec4 v;
out vec4 color;
void main() {
  color = v.bgra;
}
`
	prog := mustLink(t, vs, fs)
	inv := prog.NewInvocation()
	attribs := []f32.Vec4{{1, 2, 3, 9}}
	pos, vary := inv.Vertex(attribs, nil)
	if want := (f32.Vec4{2, 4, 3, 1}); pos != want {
		t.Errorf("gl_Position = %v, want %v", pos, want)
	}
	if want := (f32.Vec4{4, 2, 0.5, 3}); vary[0] != want {
		t.Errorf("varying v = %v, want %v", vary[0], want)
	}
	got := inv.Fragment(f32.Vec4{}, vary, nil)
	if want := (f32.Vec4{0.5, 2, 4, 3}); got != want {
		t.Errorf("Fragment() = %v, want %v", got, want)
	}
}

func TestLocalsResetBetweenInvocations(t *testing.T) {
	const vs = `#version 300 es
in float a;
void main() {
  float acc;
  acc += a;
  gl_Position = vec4(acc);
}
`
	const fs = `#version 300 es
precision highp float;
out vec4 c;
void main() { c = vec4(1); }
`
	inv := mustLink(t, vs, fs).NewInvocation()
	attribs := []f32.Vec4{{3, 0, 0, 1}}
	inv.Vertex(attribs, nil)
	pos, _ := inv.Vertex(attribs, nil)
	if pos[0] != 3 {
		t.Errorf("second invocation gl_Position.x = %v, want 3", pos[0])
	}
}

func TestInactiveVariables(t *testing.T) {
	const vs = `#version 300 es
in vec2 a_position;
in vec2 a_unused;
uniform vec2 u_unused;
void main() {
  gl_Position = vec4(a_position, 0, 1);
}
`
	prog := mustLink(t, vs, colorFS)
	if got := prog.AttributeLocation("a_unused"); got != -1 {
		t.Errorf("AttributeLocation(a_unused) = %d, want -1", got)
	}
	if got := prog.UniformLocation("u_unused"); got != -1 {
		t.Errorf("UniformLocation(u_unused) = %d, want -1", got)
	}
	if got := prog.UniformLocation("u_color"); got != 0 {
		t.Errorf("UniformLocation(u_color) = %d, want 0", got)
	}
}

func TestAttributeLocations(t *testing.T) {
	const vs = `#version 300 es
in vec4 a;
layout(location = 0) in vec4 b;
in vec4 c;
void main() {
  gl_Position = a + b + c;
}
`
	prog := mustLink(t, vs, colorFS)
	want := map[string]int{"b": 0, "a": 1, "c": 2}
	for name, loc := range want {
		if got := prog.AttributeLocation(name); got != loc {
			t.Errorf("AttributeLocation(%s) = %d, want %d", name, got, loc)
		}
	}
}

func TestLinkErrors(t *testing.T) {
	tests := []struct {
		name   string
		vs, fs string
		want   string
	}{
		{
			name: "missing varying",
			vs:   "#version 300 es\nvoid main() {}\n",
			fs:   "#version 300 es\nprecision highp float;\nin vec4 v;\nout vec4 c;\nvoid main() { c = v; }\n",
			want: "'v' is not declared in the vertex shader",
		},
		{
			name: "varying type",
			vs:   "#version 300 es\nout vec2 v;\nvoid main() { v = vec2(0); }\n",
			fs:   "#version 300 es\nprecision highp float;\nin vec4 v;\nout vec4 c;\nvoid main() { c = v; }\n",
			want: "Types of varying 'v' differ",
		},
		{
			name: "uniform type",
			vs:   "#version 300 es\nuniform vec4 u;\nvoid main() { gl_Position = u; }\n",
			fs:   "#version 300 es\nprecision highp float;\nuniform vec2 u;\nout vec4 c;\nvoid main() { c = vec4(u, 0, 1); }\n",
			want: "Types of uniform 'u' differ",
		},
		{
			name: "location conflict",
			vs:   "#version 300 es\nlayout(location = 2) in vec4 a;\nlayout(location = 2) in vec4 b;\nvoid main() { gl_Position = a + b; }\n",
			fs:   colorFS,
			want: "bound to the same location",
		},
		{
			name: "location range",
			vs:   "#version 300 es\nlayout(location = 16) in vec4 a;\nvoid main() { gl_Position = a; }\n",
			fs:   colorFS,
			want: "exceeds the maximum",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Link(mustCompile(t, StageVertex, tt.vs), mustCompile(t, StageFragment, tt.fs))
			if err == nil {
				t.Fatal("Link() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Link() error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestLinkStageMismatch(t *testing.T) {
	vs := mustCompile(t, StageVertex, resolutionVS)
	if _, err := Link(vs, vs); err == nil {
		t.Error("Link(vs, vs) succeeded, want error")
	}
	if _, err := Link(nil, vs); err == nil {
		t.Error("Link(nil, vs) succeeded, want error")
	}
}
