package interpreter

import (
	"fmt"

	"minic/interpreter-go/pkg/ast"
)

// ErrorKind classifies a runtime failure.
type ErrorKind string

const (
	NameError           ErrorKind = "NameError"
	ArithmeticError     ErrorKind = "ArithmeticError"
	ArityError          ErrorKind = "ArityError"
	TypeError           ErrorKind = "TypeError"
	SignalEscapeError   ErrorKind = "SignalEscapeError"
	StackExhaustedError ErrorKind = "StackExhaustedError"
)

// RuntimeError is the failure surfaced when execution cannot continue.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
	Line    int
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("runtime: line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("runtime: %s", e.Message)
}

func newRuntimeError(kind ErrorKind, node ast.Node, format string, args ...any) *RuntimeError {
	err := &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
	if node != nil {
		err.Line = node.Line()
	}
	return err
}
