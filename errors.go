package glpipe

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingContext indicates no WebGL2/OpenGL context could be
	// obtained for the canvas.
	ErrMissingContext = errors.New("glpipe: no GPU context available")

	// ErrInvalidShader indicates an absent shader or a shader of the wrong
	// stage was passed to LinkProgram.
	ErrInvalidShader = errors.New("glpipe: invalid shader")

	// ErrUnknownAttribute indicates a vertex input name that the linked
	// program does not declare (or does not use).
	ErrUnknownAttribute = errors.New("glpipe: unknown vertex attribute")
)

// CompileError reports a shader that failed to compile.
// Log holds the driver's info log verbatim.
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("glpipe: %s shader compile failed: %s", e.Stage, strings.TrimSpace(e.Log))
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "glpipe: program link failed: " + strings.TrimSpace(e.Log)
}

// StateError reports a pipeline operation issued out of order.
type StateError struct {
	Op   string
	Have State
	Want State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("glpipe: %s requires state %s, pipeline is %s", e.Op, e.Want, e.Have)
}
