// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glsl

import "math"

// machine is the register file of one shader invocation. Every variable
// (interface, uniform, built-in and local) owns one slot.
type machine struct {
	slots []Value
}

type expr interface {
	typ() Type
	eval(m *machine) Value
}

type stmt interface {
	// exec runs the statement and reports whether execution continues.
	exec(m *machine) bool
}

type literal struct {
	v Value
}

func (e *literal) typ() Type           { return e.v.T }
func (e *literal) eval(*machine) Value { return e.v }

type varRef struct {
	slot int
	t    Type
}

func (e *varRef) typ() Type             { return e.t }
func (e *varRef) eval(m *machine) Value { return m.slots[e.slot] }

type negate struct {
	x expr
}

func (e *negate) typ() Type { return e.x.typ() }

func (e *negate) eval(m *machine) Value {
	v := e.x.eval(m)
	for i := range v.T.Size() {
		v.V[i] = -v.V[i]
	}
	return v
}

type binary struct {
	op   byte
	l, r expr
	t    Type
}

func (e *binary) typ() Type { return e.t }

func (e *binary) eval(m *machine) Value {
	return applyBinary(e.op, e.l.eval(m), e.r.eval(m), e.t)
}

// applyBinary evaluates a component-wise arithmetic operator. A scalar
// operand is broadcast across the vector operand.
func applyBinary(op byte, a, b Value, t Type) Value {
	out := Value{T: t}
	for i := range t.Size() {
		x, y := a.V[0], b.V[0]
		if a.T.IsVector() {
			x = a.V[i]
		}
		if b.T.IsVector() {
			y = b.V[i]
		}
		switch op {
		case '+':
			out.V[i] = x + y
		case '-':
			out.V[i] = x - y
		case '*':
			out.V[i] = x * y
		case '/':
			if t == TypeInt {
				if y == 0 {
					out.V[i] = 0
				} else {
					out.V[i] = float32(math.Trunc(float64(x / y)))
				}
			} else {
				out.V[i] = x / y
			}
		}
	}
	return out
}

type construct struct {
	t    Type
	args []expr
}

func (e *construct) typ() Type { return e.t }

func (e *construct) eval(m *machine) Value {
	out := Value{T: e.t}
	n := e.t.Size()
	if len(e.args) == 1 && e.args[0].typ().IsScalar() {
		x := e.args[0].eval(m).V[0]
		if e.t == TypeInt {
			x = float32(math.Trunc(float64(x)))
		}
		for i := range n {
			out.V[i] = x
		}
		return out
	}
	k := 0
	for _, a := range e.args {
		v := a.eval(m)
		for i := 0; i < v.T.Size() && k < n; i++ {
			out.V[k] = v.V[i]
			k++
		}
	}
	if e.t == TypeInt {
		out.V[0] = float32(math.Trunc(float64(out.V[0])))
	}
	return out
}

type swizzle struct {
	x   expr
	idx []uint8
	t   Type
}

func (e *swizzle) typ() Type { return e.t }

func (e *swizzle) eval(m *machine) Value {
	v := e.x.eval(m)
	out := Value{T: e.t}
	for i, c := range e.idx {
		out.V[i] = v.V[c]
	}
	return out
}

type assign struct {
	slot int
	// mask selects written components; nil writes the whole variable.
	mask []uint8
	// op is '=' or the arithmetic operator of a compound assignment.
	op  byte
	t   Type
	rhs expr
}

func (s *assign) exec(m *machine) bool {
	v := s.rhs.eval(m)
	dst := &m.slots[s.slot]
	if s.op != '=' {
		cur := *dst
		if s.mask != nil {
			cur = Value{T: s.t}
			for i, c := range s.mask {
				cur.V[i] = dst.V[c]
			}
		}
		v = applyBinary(s.op, cur, v, s.t)
	}
	if s.mask == nil {
		*dst = v
		return true
	}
	for i, c := range s.mask {
		dst.V[c] = v.V[i]
	}
	return true
}

type returnStmt struct{}

func (returnStmt) exec(*machine) bool { return false }

type block []stmt

func (b block) exec(m *machine) bool {
	for _, s := range b {
		if !s.exec(m) {
			return false
		}
	}
	return true
}
