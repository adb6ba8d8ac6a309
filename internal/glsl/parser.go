// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strconv"
	"strings"
)

type symKind uint8

const (
	symIn symKind = iota
	symOut
	symUniform
	symLocal
	symConst
	symBuiltinIn
	symBuiltinOut
)

type symbol struct {
	name string
	t    Type
	kind symKind
	slot int
	loc  int
	line int
	used bool
}

// keywords that can never name a variable. Some are reserved only so
// that programs using unsupported features fail loudly.
var keywords = map[string]bool{
	"in": true, "out": true, "inout": true, "uniform": true, "layout": true,
	"precision": true, "lowp": true, "mediump": true, "highp": true,
	"const": true, "void": true, "return": true, "float": true, "int": true,
	"vec2": true, "vec3": true, "vec4": true, "bool": true, "uint": true,
	"mat2": true, "mat3": true, "mat4": true, "struct": true,
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"discard": true, "break": true, "continue": true, "flat": true, "smooth": true,
	"true": true, "false": true, "sampler2D": true,
}

var unsupportedStatements = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"discard": true, "break": true, "continue": true, "bool": true,
	"uint": true, "mat2": true, "mat3": true, "mat4": true, "struct": true,
}

func isPrecision(s string) bool {
	return s == "lowp" || s == "mediump" || s == "highp"
}

type bailout struct{}

type parser struct {
	stage Stage
	toks  []token
	pos   int

	scopes  []map[string]*symbol
	globals []*symbol
	types   []Type

	floatPrecision bool
	hasMain        bool
	main           block
	builtin        *symbol

	err *Error
}

func newParser(stage Stage, toks []token) *parser {
	p := &parser{
		stage:  stage,
		toks:   toks,
		scopes: []map[string]*symbol{{}},
	}
	switch stage {
	case StageVertex:
		p.builtin = p.declare(token{text: "gl_Position"}, TypeVec4, symBuiltinOut, -1)
	case StageFragment:
		p.builtin = p.declare(token{text: "gl_FragCoord"}, TypeVec4, symBuiltinIn, -1)
	}
	return p
}

func (p *parser) fail(line int, format string, args ...any) {
	p.err = errorf(line, format, args...)
	panic(bailout{})
}

func (p *parser) syntaxError(t token) {
	if t.kind == tokEOF {
		p.fail(t.line, "'' : syntax error: unexpected end of file")
	}
	p.fail(t.line, "'%s' : syntax error", t.text)
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(text string) token {
	t := p.next()
	if !t.is(text) {
		p.syntaxError(t)
	}
	return t
}

func (p *parser) ident() token {
	t := p.next()
	if t.kind != tokIdent || keywords[t.text] {
		p.syntaxError(t)
	}
	return t
}

func (p *parser) lookup(name string) *symbol {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if s, ok := p.scopes[i][name]; ok {
			return s
		}
	}
	return nil
}

func (p *parser) declare(name token, t Type, kind symKind, loc int) *symbol {
	scope := p.scopes[len(p.scopes)-1]
	if _, dup := scope[name.text]; dup {
		p.fail(name.line, "'%s' : redefinition", name.text)
	}
	if kind != symBuiltinIn && kind != symBuiltinOut && strings.HasPrefix(name.text, "gl_") {
		p.fail(name.line, "'%s' : identifiers starting with \"gl_\" are reserved", name.text)
	}
	s := &symbol{name: name.text, t: t, kind: kind, slot: len(p.types), loc: loc, line: name.line}
	p.types = append(p.types, t)
	scope[name.text] = s
	if kind == symIn || kind == symOut || kind == symUniform {
		p.globals = append(p.globals, s)
	}
	return s
}

func (p *parser) parse() (sh *Shader, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			sh, err = nil, p.err
		}
	}()

	for p.peek().kind != tokEOF {
		p.parseGlobal()
	}
	if !p.hasMain {
		p.fail(p.peek().line, "'' : Missing main()")
	}
	p.checkFragmentOutputs()
	return p.build(), nil
}

func (p *parser) build() *Shader {
	sh := &Shader{
		Stage:   p.stage,
		main:    p.main,
		types:   p.types,
		builtin: p.builtin.slot,
	}
	for _, s := range p.globals {
		v := Var{Name: s.name, Type: s.t, Location: s.loc, Active: s.used, slot: s.slot}
		switch s.kind {
		case symIn:
			sh.Inputs = append(sh.Inputs, v)
		case symOut:
			sh.Outputs = append(sh.Outputs, v)
		case symUniform:
			sh.Uniforms = append(sh.Uniforms, v)
		}
	}
	return sh
}

func (p *parser) checkFragmentOutputs() {
	if p.stage != StageFragment {
		return
	}
	var outs []*symbol
	for _, s := range p.globals {
		if s.kind == symOut {
			outs = append(outs, s)
		}
	}
	if len(outs) < 2 {
		return
	}
	for _, s := range outs {
		if s.loc < 0 {
			p.fail(s.line, "'%s' : must explicitly specify all locations when using multiple fragment outputs", s.name)
		}
	}
}

func (p *parser) parseGlobal() {
	t := p.peek()
	switch {
	case t.is(";"):
		p.next()
	case t.is("precision"):
		p.parsePrecision()
	case t.is("layout"), t.is("in"), t.is("out"), t.is("uniform"):
		p.parseInterface()
	case t.is("void"):
		p.parseFunction()
	case t.kind == tokIdent:
		if _, ok := typeByName(t.text); ok || isPrecision(t.text) || t.is("const") {
			p.fail(t.line, "'%s' : global variables must be declared 'in', 'out' or 'uniform'", t.text)
		}
		p.syntaxError(t)
	default:
		p.syntaxError(t)
	}
}

func (p *parser) parsePrecision() {
	p.expect("precision")
	q := p.next()
	if !isPrecision(q.text) {
		p.syntaxError(q)
	}
	t := p.next()
	switch t.text {
	case "float":
		p.floatPrecision = true
	case "int":
	default:
		p.fail(t.line, "'%s' : illegal type argument for default precision qualifier", t.text)
	}
	p.expect(";")
}

func (p *parser) parseInterface() {
	loc := -1
	first := p.peek()
	if p.peek().is("layout") {
		p.next()
		p.expect("(")
		q := p.next()
		if !q.is("location") {
			p.fail(q.line, "'%s' : invalid layout qualifier", q.text)
		}
		p.expect("=")
		n := p.next()
		if n.kind != tokInt {
			p.syntaxError(n)
		}
		v, err := strconv.ParseInt(n.text, 0, 32)
		if err != nil || v < 0 {
			p.fail(n.line, "'%s' : invalid location", n.text)
		}
		loc = int(v)
		p.expect(")")
	}

	storage := p.next()
	var kind symKind
	switch storage.text {
	case "in":
		kind = symIn
	case "out":
		kind = symOut
	case "uniform":
		kind = symUniform
	default:
		p.syntaxError(storage)
	}
	if loc >= 0 {
		vertexIn := p.stage == StageVertex && kind == symIn
		fragmentOut := p.stage == StageFragment && kind == symOut
		if !vertexIn && !fragmentOut {
			p.fail(first.line, "'location' : invalid layout qualifier: only valid on vertex inputs and fragment outputs")
		}
	}

	prec := ""
	if isPrecision(p.peek().text) {
		prec = p.next().text
	}
	tt := p.next()
	t, ok := typeByName(tt.text)
	if !ok {
		p.fail(tt.line, "'%s' : unsupported type", tt.text)
	}
	name := p.ident()
	if p.peek().is("[") {
		p.fail(p.peek().line, "'%s' : arrays are not supported", name.text)
	}
	p.expect(";")

	p.checkPrecision(tt, t, prec)
	varying := (p.stage == StageVertex && kind == symOut) || (p.stage == StageFragment && kind == symIn)
	if varying && t == TypeInt {
		p.fail(name.line, "'%s' : must use 'flat' interpolation here", name.text)
	}
	if p.stage == StageFragment && kind == symOut && !t.IsFloatBased() {
		p.fail(name.line, "'%s' : fragment outputs must be float or vector types", name.text)
	}
	p.declare(name, t, kind, loc)
}

func (p *parser) checkPrecision(at token, t Type, prec string) {
	if p.stage == StageFragment && t.IsFloatBased() && prec == "" && !p.floatPrecision {
		p.fail(at.line, "'%s' : No precision specified for (float)", at.text)
	}
}

func (p *parser) parseFunction() {
	p.expect("void")
	name := p.ident()
	p.expect("(")
	if p.peek().is("void") {
		p.next()
	}
	if !p.peek().is(")") {
		p.fail(p.peek().line, "'%s' : function parameters are not supported", name.text)
	}
	p.expect(")")
	if p.peek().is(";") {
		p.fail(name.line, "'%s' : function prototypes are not supported", name.text)
	}
	if name.text != "main" {
		p.fail(name.line, "'%s' : only main() may be defined", name.text)
	}
	if p.hasMain {
		p.fail(name.line, "'main' : function already has a body")
	}
	p.hasMain = true
	p.main = p.parseBlock()
}

func (p *parser) parseBlock() block {
	p.expect("{")
	p.scopes = append(p.scopes, map[string]*symbol{})
	var b block
	for !p.peek().is("}") {
		if p.peek().kind == tokEOF {
			p.syntaxError(p.peek())
		}
		if s := p.parseStatement(); s != nil {
			b = append(b, s)
		}
	}
	p.next()
	p.scopes = p.scopes[:len(p.scopes)-1]
	return b
}

func (p *parser) parseStatement() stmt {
	t := p.peek()
	switch {
	case t.is("{"):
		return p.parseBlock()
	case t.is(";"):
		p.next()
		return nil
	case t.is("return"):
		p.next()
		if !p.peek().is(";") {
			p.fail(t.line, "'return' : void function cannot return a value")
		}
		p.next()
		return returnStmt{}
	case t.kind != tokIdent:
		p.syntaxError(t)
	case unsupportedStatements[t.text]:
		p.fail(t.line, "'%s' : unsupported language feature", t.text)
	case t.is("const") || isPrecision(t.text):
		return p.parseDeclaration()
	}
	if _, ok := typeByName(t.text); ok {
		return p.parseDeclaration()
	}
	if keywords[t.text] {
		p.syntaxError(t)
	}
	return p.parseAssignment()
}

func (p *parser) parseDeclaration() stmt {
	kind := symLocal
	if p.peek().is("const") {
		p.next()
		kind = symConst
	}
	prec := ""
	if isPrecision(p.peek().text) {
		prec = p.next().text
	}
	tt := p.next()
	t, ok := typeByName(tt.text)
	if !ok {
		p.fail(tt.line, "'%s' : unsupported type", tt.text)
	}
	name := p.ident()
	p.checkPrecision(tt, t, prec)

	var init expr
	if p.peek().is("=") {
		eq := p.next()
		init = p.parseExpr()
		if init.typ() != t {
			p.fail(eq.line, "'=' : cannot convert from '%s' to '%s'", init.typ(), t)
		}
	} else if kind == symConst {
		p.fail(name.line, "'%s' : variables with qualifier 'const' must be initialized", name.text)
	}
	p.expect(";")

	s := p.declare(name, t, kind, -1)
	if init == nil {
		return nil
	}
	return &assign{slot: s.slot, op: '=', t: t, rhs: init}
}

func (p *parser) parseAssignment() stmt {
	name := p.next()
	s := p.lookup(name.text)
	if s == nil {
		p.fail(name.line, "'%s' : undeclared identifier", name.text)
	}
	switch s.kind {
	case symIn, symBuiltinIn:
		p.fail(name.line, "'%s' : l-value required (can't modify an input)", name.text)
	case symUniform:
		p.fail(name.line, "'%s' : l-value required (can't modify a uniform)", name.text)
	case symConst:
		p.fail(name.line, "'%s' : l-value required (can't modify a const)", name.text)
	}
	s.used = true

	target := s.t
	var mask []uint8
	if p.peek().is(".") {
		p.next()
		field := p.next()
		mask = p.swizzleIndices(field, s.t)
		seen := map[uint8]bool{}
		for _, c := range mask {
			if seen[c] {
				p.fail(field.line, "'%s' : l-value of swizzle cannot have duplicate components", field.text)
			}
			seen[c] = true
		}
		target = vecType(len(mask))
	}

	opTok := p.next()
	var op byte
	switch {
	case opTok.kind == tokPunct && opTok.text == "=":
		op = '='
	case opTok.kind == tokAssignOp:
		op = opTok.text[0]
	default:
		p.syntaxError(opTok)
	}
	rhs := p.parseExpr()
	if op == '=' {
		if rhs.typ() != target {
			p.fail(opTok.line, "'=' : cannot convert from '%s' to '%s'", rhs.typ(), target)
		}
	} else if rt, ok := binaryResult(target, rhs.typ()); !ok || rt != target {
		p.fail(opTok.line, "'%s' : wrong operand types - no operation '%s' exists that takes a left-hand operand of type '%s' and a right operand of type '%s' (or there is no acceptable conversion)",
			opTok.text, opTok.text, target, rhs.typ())
	}
	p.expect(";")
	return &assign{slot: s.slot, mask: mask, op: op, t: target, rhs: rhs}
}

func (p *parser) parseExpr() expr {
	return p.parseAdditive()
}

func (p *parser) parseAdditive() expr {
	l := p.parseMultiplicative()
	for t := p.peek(); t.kind == tokPunct && (t.text == "+" || t.text == "-"); t = p.peek() {
		p.next()
		r := p.parseMultiplicative()
		l = p.makeBinary(t, l, r)
	}
	return l
}

func (p *parser) parseMultiplicative() expr {
	l := p.parseUnary()
	for t := p.peek(); t.kind == tokPunct && (t.text == "*" || t.text == "/"); t = p.peek() {
		p.next()
		r := p.parseUnary()
		l = p.makeBinary(t, l, r)
	}
	return l
}

func binaryResult(a, b Type) (Type, bool) {
	switch {
	case a == b && a != TypeVoid:
		return a, true
	case a == TypeFloat && b.IsVector():
		return b, true
	case b == TypeFloat && a.IsVector():
		return a, true
	}
	return TypeVoid, false
}

func (p *parser) makeBinary(op token, l, r expr) expr {
	t, ok := binaryResult(l.typ(), r.typ())
	if !ok {
		p.fail(op.line, "'%s' : wrong operand types - no operation '%s' exists that takes a left-hand operand of type '%s' and a right operand of type '%s' (or there is no acceptable conversion)",
			op.text, op.text, l.typ(), r.typ())
	}
	if lit, ok := foldBinary(op.text[0], l, r, t); ok {
		return lit
	}
	return &binary{op: op.text[0], l: l, r: r, t: t}
}

// foldBinary evaluates operators whose operands are both literals.
func foldBinary(op byte, l, r expr, t Type) (expr, bool) {
	ll, ok1 := l.(*literal)
	rl, ok2 := r.(*literal)
	if !ok1 || !ok2 {
		return nil, false
	}
	return &literal{v: applyBinary(op, ll.v, rl.v, t)}, true
}

func (p *parser) parseUnary() expr {
	t := p.peek()
	if t.kind == tokPunct && (t.text == "-" || t.text == "+") {
		p.next()
		x := p.parseUnary()
		if x.typ() == TypeVoid {
			p.fail(t.line, "'%s' : wrong operand type", t.text)
		}
		if t.text == "+" {
			return x
		}
		if lit, ok := x.(*literal); ok {
			return &literal{v: (&negate{x: lit}).eval(nil)}
		}
		return &negate{x: x}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() expr {
	e := p.parsePrimary()
	for p.peek().is(".") {
		p.next()
		field := p.next()
		if field.kind != tokIdent {
			p.syntaxError(field)
		}
		idx := p.swizzleIndices(field, e.typ())
		e = &swizzle{x: e, idx: idx, t: vecType(len(idx))}
	}
	return e
}

var swizzleSets = [...]string{"xyzw", "rgba", "stpq"}

func (p *parser) swizzleIndices(field token, base Type) []uint8 {
	if base != TypeFloat && !base.IsVector() {
		p.fail(field.line, "'%s' : field selection requires structure or vector on left hand side", field.text)
	}
	if len(field.text) == 0 || len(field.text) > 4 {
		p.fail(field.line, "'%s' : illegal vector field selection", field.text)
	}
	set := -1
	for i, s := range swizzleSets {
		if strings.IndexByte(s, field.text[0]) >= 0 {
			set = i
			break
		}
	}
	if set < 0 {
		p.fail(field.line, "'%s' : illegal vector field selection", field.text)
	}
	idx := make([]uint8, len(field.text))
	for i := range len(field.text) {
		c := strings.IndexByte(swizzleSets[set], field.text[i])
		if c < 0 {
			p.fail(field.line, "'%s' : illegal vector field selection", field.text)
		}
		if c >= base.Size() {
			p.fail(field.line, "'%s' : vector field selection out of range", field.text)
		}
		idx[i] = uint8(c)
	}
	return idx
}

func (p *parser) parsePrimary() expr {
	t := p.next()
	switch t.kind {
	case tokInt:
		v, err := strconv.ParseInt(t.text, 0, 32)
		if err != nil {
			p.fail(t.line, "'%s' : integer constant overflow", t.text)
		}
		return &literal{v: Value{T: TypeInt, V: [4]float32{float32(v)}}}
	case tokFloat:
		v, err := strconv.ParseFloat(t.text, 32)
		if err != nil {
			p.fail(t.line, "'%s' : float constant overflow", t.text)
		}
		return &literal{v: Float(float32(v))}
	case tokPunct:
		if t.text == "(" {
			e := p.parseExpr()
			p.expect(")")
			return e
		}
		p.syntaxError(t)
	case tokIdent:
		if ct, ok := typeByName(t.text); ok {
			return p.parseConstructor(t, ct)
		}
		if keywords[t.text] {
			p.syntaxError(t)
		}
		if p.peek().is("(") {
			p.fail(t.line, "'%s' : no matching overloaded function found", t.text)
		}
		s := p.lookup(t.text)
		if s == nil {
			p.fail(t.line, "'%s' : undeclared identifier", t.text)
		}
		s.used = true
		return &varRef{slot: s.slot, t: s.t}
	}
	p.syntaxError(t)
	return nil
}

func (p *parser) parseConstructor(name token, t Type) expr {
	p.expect("(")
	var args []expr
	if !p.peek().is(")") {
		for {
			a := p.parseExpr()
			if a.typ() == TypeVoid {
				p.fail(name.line, "'%s' : cannot construct from void", name.text)
			}
			args = append(args, a)
			if !p.peek().is(",") {
				break
			}
			p.next()
		}
	}
	p.expect(")")

	if len(args) == 0 {
		p.fail(name.line, "'%s' : constructor does not have any arguments", name.text)
	}
	n := t.Size()
	if t.IsScalar() && len(args) > 1 {
		p.fail(name.line, "'%s' : too many arguments", name.text)
	}
	if t.IsVector() && !(len(args) == 1 && args[0].typ().IsScalar()) {
		have := 0
		for _, a := range args {
			if have >= n {
				p.fail(name.line, "'%s' : too many arguments", name.text)
			}
			have += a.typ().Size()
		}
		if have < n {
			p.fail(name.line, "'%s' : not enough data provided for construction", name.text)
		}
	}

	c := &construct{t: t, args: args}
	for _, a := range args {
		if _, ok := a.(*literal); !ok {
			return c
		}
	}
	return &literal{v: c.eval(nil)}
}
