package interpreter

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"minic/interpreter-go/pkg/ast"
	"minic/interpreter-go/pkg/runtime"
)

// DefaultMaxCallDepth bounds recursion when no other limit is configured.
const DefaultMaxCallDepth = 10000

// MaxCallDepthLimit is the highest accepted ceiling. Each interpreted call
// nests several Go frames, so deeper recursion would exhaust the goroutine
// stack before the ceiling could report it.
const MaxCallDepthLimit = 100000

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput redirects print output. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) {
		if w != nil {
			i.out = w
		}
	}
}

// WithMaxCallDepth sets the call-depth ceiling. Values below 1 keep the
// default; values above MaxCallDepthLimit are clamped to it.
func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth > MaxCallDepthLimit {
			depth = MaxCallDepthLimit
		}
		if depth > 0 {
			i.maxCallDepth = depth
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// Interpreter executes programs by walking their AST.
type Interpreter struct {
	stack        *runtime.MemoryStack
	functions    *runtime.FunctionTable
	out          io.Writer
	maxCallDepth int
	logger       *zap.Logger
}

// New returns an interpreter with an empty global frame and function table.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		stack:        runtime.NewMemoryStack(),
		functions:    runtime.NewFunctionTable(),
		out:          os.Stdout,
		maxCallDepth: DefaultMaxCallDepth,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Stack exposes the variable frames.
func (i *Interpreter) Stack() *runtime.MemoryStack { return i.stack }

// Functions exposes the global function table.
func (i *Interpreter) Functions() *runtime.FunctionTable { return i.functions }

// EvaluateProgram executes the program's top-level blocks in order. State
// persists across calls, so a program can be fed in several pieces.
func (i *Interpreter) EvaluateProgram(program *ast.Program) error {
	if program == nil {
		return fmt.Errorf("interpreter: program is nil")
	}
	for _, block := range program.Body {
		sig, err := i.executeBlock(block)
		if err != nil {
			i.logFailure(err)
			return err
		}
		if !sig.isNormal() {
			err := sig.escapeError()
			i.logFailure(err)
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeBlock(block ast.Block) (signal, error) {
	switch b := block.(type) {
	case *ast.Declaration:
		return normal, i.executeDeclaration(b)
	case *ast.FunctionDefinition:
		return normal, i.defineFunction(b)
	case ast.Statement:
		return i.executeStatement(b)
	case nil:
		return normal, nil
	default:
		return normal, fmt.Errorf("interpreter: unsupported block %s", block.NodeType())
	}
}

func (i *Interpreter) defineFunction(def *ast.FunctionDefinition) error {
	if err := i.functions.Define(def); err != nil {
		return newRuntimeError(NameError, def, "function '%s' already defined", def.Name)
	}
	i.logger.Debug("function registered", zap.String("function", def.Name), zap.Int("params", len(def.Params)))
	return nil
}

func (i *Interpreter) logFailure(err error) {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		i.logger.Debug("runtime failure",
			zap.String("kind", string(rtErr.Kind)),
			zap.Int("line", rtErr.Line),
			zap.String("message", rtErr.Message))
		return
	}
	i.logger.Debug("evaluation failed", zap.Error(err))
}
