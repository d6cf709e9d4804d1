package interpreter

import (
	"minic/interpreter-go/pkg/runtime"
)

type signalKind int

const (
	signalNormal signalKind = iota
	signalBreak
	signalContinue
	signalReturn
)

func (k signalKind) String() string {
	switch k {
	case signalBreak:
		return "break"
	case signalContinue:
		return "continue"
	case signalReturn:
		return "return"
	default:
		return "normal"
	}
}

// signal is the outcome of executing a statement. Anything but normal stops
// the enclosing sequence and travels outwards until a loop or call consumes
// it.
type signal struct {
	kind  signalKind
	value runtime.Value
	line  int
}

var normal = signal{kind: signalNormal}

func (s signal) isNormal() bool { return s.kind == signalNormal }

// escapeError reports a signal that reached a boundary it may not cross.
func (s signal) escapeError() *RuntimeError {
	msg := "'return' outside a function"
	if s.kind != signalReturn {
		msg = "'" + s.kind.String() + "' outside a loop"
	}
	return &RuntimeError{Kind: SignalEscapeError, Message: msg, Line: s.line}
}
