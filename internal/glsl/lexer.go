// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"
	"text/scanner"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokFloat
	tokPunct    // single-character operator or delimiter
	tokAssignOp // +=, -=, *=, /=
)

type token struct {
	kind tokenKind
	text string
	line int
}

func (t token) is(text string) bool {
	return (t.kind == tokPunct || t.kind == tokIdent || t.kind == tokAssignOp) && t.text == text
}

// preprocess validates the version line and blanks out directive lines so
// the scanner sees only declarations while line numbers stay intact.
func preprocess(src string) (string, *Error) {
	lines := strings.Split(src, "\n")
	first := strings.Fields(lines[0])
	if len(first) == 0 || first[0] != "#version" {
		return "", errorf(1, "'' : version directive required: #version 300 es")
	}
	if len(first) != 3 || first[1] != "300" || first[2] != "es" {
		return "", errorf(1, "'%s' : unsupported shader version", strings.Join(first[1:], " "))
	}
	lines[0] = ""
	for i := 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		directive := strings.Fields(strings.TrimPrefix(trimmed, "#"))
		switch {
		case len(directive) == 0:
			// null directive
		case directive[0] == "version":
			return "", errorf(i+1, "'#version' : #version directive must occur on the first line of the shader")
		default:
			return "", errorf(i+1, "'#%s' : unsupported preprocessor directive", directive[0])
		}
		lines[i] = ""
	}
	return strings.Join(lines, "\n"), nil
}

func tokenize(src string) ([]token, *Error) {
	var (
		s       scanner.Scanner
		scanErr *Error
	)
	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanComments | scanner.SkipComments
	s.Error = func(s *scanner.Scanner, msg string) {
		if scanErr == nil {
			scanErr = errorf(s.Pos().Line, "'' : %s", msg)
		}
	}

	var toks []token
	for r := s.Scan(); r != scanner.EOF; r = s.Scan() {
		line := s.Position.Line
		switch r {
		case scanner.Ident:
			toks = append(toks, token{kind: tokIdent, text: s.TokenText(), line: line})
		case scanner.Int:
			toks = append(toks, token{kind: tokInt, text: s.TokenText(), line: line})
		case scanner.Float:
			toks = append(toks, token{kind: tokFloat, text: s.TokenText(), line: line})
		default:
			text := string(r)
			if strings.ContainsRune("+-*/", r) && s.Peek() == '=' {
				s.Next()
				toks = append(toks, token{kind: tokAssignOp, text: text + "=", line: line})
				continue
			}
			toks = append(toks, token{kind: tokPunct, text: text, line: line})
		}
		if scanErr != nil {
			return nil, scanErr
		}
	}
	if scanErr != nil {
		return nil, scanErr
	}
	toks = append(toks, token{kind: tokEOF, line: s.Pos().Line})
	return toks, nil
}
