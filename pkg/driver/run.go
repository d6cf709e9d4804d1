package driver

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"minic/interpreter-go/pkg/ast"
	"minic/interpreter-go/pkg/interpreter"
	"minic/interpreter-go/pkg/typechecker"
)

// ErrTypecheckFailed is wrapped by Run when error diagnostics stop a strict run.
var ErrTypecheckFailed = errors.New("typecheck failed")

// DiagnosticError carries one error-severity diagnostic as an error.
type DiagnosticError struct {
	Diagnostic typechecker.Diagnostic
}

func (e *DiagnosticError) Error() string { return e.Diagnostic.String() }

// CheckResult holds the diagnostics from one checker pass.
type CheckResult struct {
	Diagnostics []typechecker.Diagnostic
}

func (r CheckResult) Errors() []typechecker.Diagnostic {
	return r.filter(true)
}

func (r CheckResult) Warnings() []typechecker.Diagnostic {
	return r.filter(false)
}

func (r CheckResult) filter(errs bool) []typechecker.Diagnostic {
	var out []typechecker.Diagnostic
	for _, diag := range r.Diagnostics {
		if diag.IsError() == errs {
			out = append(out, diag)
		}
	}
	return out
}

// Err combines every error diagnostic, or returns nil when there are none.
func (r CheckResult) Err() error {
	var err error
	for _, diag := range r.Errors() {
		err = multierr.Append(err, &DiagnosticError{Diagnostic: diag})
	}
	return err
}

// Check type-checks program.
func Check(program *ast.Program, logger *zap.Logger) (CheckResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("typecheck started")
	diags, err := typechecker.New(typechecker.WithLogger(logger)).CheckProgram(program)
	if err != nil {
		return CheckResult{}, fmt.Errorf("typecheck: %w", err)
	}
	result := CheckResult{Diagnostics: diags}
	logger.Info("typecheck finished",
		zap.Int("errors", len(result.Errors())),
		zap.Int("warnings", len(result.Warnings())))
	return result, nil
}

// RunOptions configures Run.
type RunOptions struct {
	Typecheck    TypecheckMode
	MaxCallDepth int
	// Output receives print output.
	Output io.Writer
	// Diagnostics receives one line per checker diagnostic. Nil discards them.
	Diagnostics io.Writer
	Logger      *zap.Logger
}

// Run checks program according to opts.Typecheck and then interprets it.
// In strict mode any error diagnostic stops the run before execution.
func Run(program *ast.Program, opts RunOptions) (CheckResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mode := opts.Typecheck
	if mode == "" {
		mode = TypecheckStrict
	}
	if !mode.IsValid() {
		return CheckResult{}, fmt.Errorf("run: unknown typecheck mode %q", mode)
	}
	if opts.MaxCallDepth > MaxCallDepthLimit {
		return CheckResult{}, fmt.Errorf("run: max call depth %d exceeds the limit of %d", opts.MaxCallDepth, MaxCallDepthLimit)
	}

	var result CheckResult
	if mode != TypecheckOff {
		var err error
		result, err = Check(program, logger)
		if err != nil {
			return result, err
		}
		if err := WriteDiagnostics(opts.Diagnostics, result.Diagnostics); err != nil {
			return result, fmt.Errorf("write diagnostics: %w", err)
		}
		if mode == TypecheckStrict {
			if err := result.Err(); err != nil {
				return result, fmt.Errorf("%w: %w", ErrTypecheckFailed, err)
			}
		}
	}

	interpOpts := []interpreter.Option{interpreter.WithLogger(logger)}
	if opts.Output != nil {
		interpOpts = append(interpOpts, interpreter.WithOutput(opts.Output))
	}
	if opts.MaxCallDepth > 0 {
		interpOpts = append(interpOpts, interpreter.WithMaxCallDepth(opts.MaxCallDepth))
	}
	logger.Info("execution started", zap.String("typecheck", string(mode)))
	if err := interpreter.New(interpOpts...).EvaluateProgram(program); err != nil {
		return result, fmt.Errorf("execute: %w", err)
	}
	logger.Info("execution finished")
	return result, nil
}

// WriteDiagnostics prints one diagnostic per line. A nil writer is a no-op.
func WriteDiagnostics(w io.Writer, diags []typechecker.Diagnostic) error {
	if w == nil {
		return nil
	}
	for _, diag := range diags {
		if _, err := fmt.Fprintln(w, diag.String()); err != nil {
			return err
		}
	}
	return nil
}
