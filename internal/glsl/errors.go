// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glsl

import "fmt"

// Error is a compile or link diagnostic. Its text follows the info-log
// format of WebGL implementations: "ERROR: 0:<line>: <message>".
type Error struct {
	// Line is the 1-based source line, or 0 for link diagnostics.
	Line int
	Msg  string
}

func errorf(line int, format string, args ...any) *Error {
	return &Error{Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return "ERROR: " + e.Msg
	}
	return fmt.Sprintf("ERROR: 0:%d: %s", e.Line, e.Msg)
}

// InfoLog returns the diagnostic as a driver info log (newline terminated).
func (e *Error) InfoLog() string {
	return e.Error() + "\n"
}
