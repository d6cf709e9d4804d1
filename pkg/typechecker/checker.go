package typechecker

import (
	"fmt"

	"go.uber.org/zap"

	"minic/interpreter-go/pkg/ast"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "Warning"
	default:
		return "Error"
	}
}

// Diagnostic represents a type-checking error or warning.
type Diagnostic struct {
	Severity Severity
	Message  string
	Line     int
	Node     ast.Node
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: line %d", d.Severity, d.Message, d.Line)
}

func (d Diagnostic) IsError() bool { return d.Severity == SeverityError }

// Option configures a Checker.
type Option func(*Checker)

// WithReporter registers a callback that receives each diagnostic as soon as
// it is discovered.
func WithReporter(report func(Diagnostic)) Option {
	return func(c *Checker) {
		c.reporter = report
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Checker traverses AST nodes and records diagnostics.
type Checker struct {
	root            *Scope
	currentFunction *FunctionSymbol
	inLoop          bool
	reporter        func(Diagnostic)
	logger          *zap.Logger
}

// New returns a checker instance.
func New(opts ...Option) *Checker {
	c := &Checker{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckProgram typechecks a whole program and returns every diagnostic in
// the order it was found. Checking never stops early.
func (c *Checker) CheckProgram(program *ast.Program) ([]Diagnostic, error) {
	if program == nil {
		return nil, fmt.Errorf("typechecker: program is nil")
	}
	c.root = NewScope("root", nil)
	c.currentFunction = nil
	c.inLoop = false

	var diagnostics []Diagnostic
	for _, block := range program.Body {
		diagnostics = append(diagnostics, c.checkBlock(c.root, block)...)
	}
	c.logger.Debug("typecheck finished", zap.Int("diagnostics", len(diagnostics)))
	return diagnostics, nil
}

// Root exposes the global scope of the most recent CheckProgram run.
func (c *Checker) Root() *Scope { return c.root }

func (c *Checker) errorf(node ast.Node, format string, args ...any) Diagnostic {
	return c.emit(SeverityError, node, format, args...)
}

func (c *Checker) warnf(node ast.Node, format string, args ...any) Diagnostic {
	return c.emit(SeverityWarning, node, format, args...)
}

func (c *Checker) emit(severity Severity, node ast.Node, format string, args ...any) Diagnostic {
	diag := Diagnostic{
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
		Node:     node,
	}
	if node != nil {
		diag.Line = node.Line()
	}
	c.logger.Debug("diagnostic",
		zap.Stringer("severity", severity),
		zap.String("message", diag.Message),
		zap.Int("line", diag.Line))
	if c.reporter != nil {
		c.reporter(diag)
	}
	return diag
}
