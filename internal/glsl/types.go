// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"

	"golang.org/x/image/math/f32"
)

// Type is a GLSL ES value type supported by the interpreter.
type Type uint8

const (
	TypeVoid Type = iota
	TypeFloat
	TypeInt
	TypeVec2
	TypeVec3
	TypeVec4
)

var typeNames = [...]string{
	TypeVoid:  "void",
	TypeFloat: "float",
	TypeInt:   "int",
	TypeVec2:  "vec2",
	TypeVec3:  "vec3",
	TypeVec4:  "vec4",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Size returns the number of components.
func (t Type) Size() int {
	switch t {
	case TypeFloat, TypeInt:
		return 1
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4:
		return 4
	}
	return 0
}

// IsVector reports whether t is vec2, vec3 or vec4.
func (t Type) IsVector() bool {
	return t == TypeVec2 || t == TypeVec3 || t == TypeVec4
}

// IsScalar reports whether t is float or int.
func (t Type) IsScalar() bool {
	return t == TypeFloat || t == TypeInt
}

// IsFloatBased reports whether t stores floating-point components and
// therefore needs a precision in fragment shaders.
func (t Type) IsFloatBased() bool {
	return t == TypeFloat || t.IsVector()
}

func vecType(n int) Type {
	switch n {
	case 1:
		return TypeFloat
	case 2:
		return TypeVec2
	case 3:
		return TypeVec3
	case 4:
		return TypeVec4
	}
	return TypeVoid
}

func typeByName(name string) (Type, bool) {
	switch name {
	case "float":
		return TypeFloat, true
	case "int":
		return TypeInt, true
	case "vec2":
		return TypeVec2, true
	case "vec3":
		return TypeVec3, true
	case "vec4":
		return TypeVec4, true
	}
	return TypeVoid, false
}

// Value is a typed register. Scalars live in V[0]; ints are stored as
// whole floats.
type Value struct {
	T Type
	V f32.Vec4
}

// Float returns a float value.
func Float(x float32) Value { return Value{T: TypeFloat, V: f32.Vec4{x}} }

// Vec2 returns a vec2 value.
func Vec2(x, y float32) Value { return Value{T: TypeVec2, V: f32.Vec4{x, y}} }

// Vec4 returns a vec4 value.
func Vec4(x, y, z, w float32) Value { return Value{T: TypeVec4, V: f32.Vec4{x, y, z, w}} }

// FromComponents builds a value of type t from the first t.Size() entries of v.
func FromComponents(t Type, v f32.Vec4) Value {
	out := Value{T: t}
	copy(out.V[:t.Size()], v[:t.Size()])
	return out
}
