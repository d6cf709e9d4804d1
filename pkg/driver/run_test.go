package driver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"minic/interpreter-go/pkg/ast"
	"minic/interpreter-go/pkg/interpreter"
)

// narrowingProgram warns on line 2 and prints 2.
func narrowingProgram() *ast.Program {
	return ast.Prog(
		ast.At(1, ast.Decl("int", ast.At(1, ast.Init("x", ast.Int(1))))),
		ast.At(2, ast.Assign("x", ast.Flt(2.5))),
		ast.At(3, ast.Print(ast.Var("x"))),
	)
}

// brokenProgram has two checker errors and would still print at runtime.
func brokenProgram() *ast.Program {
	return ast.Prog(
		ast.At(1, ast.Print(ast.Str("before"))),
		ast.At(2, ast.Decl("int", ast.At(2, ast.Init("s", ast.Str("text"))))),
		ast.At(3, ast.Print(ast.At(3, ast.Var("missing")))),
	)
}

func TestCheckResultSplitsSeverities(t *testing.T) {
	result, err := Check(narrowingProgram(), nil)
	require.NoError(t, err)
	require.Len(t, result.Warnings(), 1)
	require.Empty(t, result.Errors())
	require.NoError(t, result.Err())

	result, err = Check(brokenProgram(), nil)
	require.NoError(t, err)
	require.Len(t, result.Errors(), 2)
	errs := multierr.Errors(result.Err())
	require.Len(t, errs, 2)
	require.EqualError(t, errs[0], "Error: Assignment of 'string' to 'int': line 2")
	require.EqualError(t, errs[1], "Error: Usage of undeclared variable 'missing': line 3")
}

func TestCheckNilProgram(t *testing.T) {
	_, err := Check(nil, nil)
	require.ErrorContains(t, err, "typecheck")
}

func TestRunStrictBlocksOnErrors(t *testing.T) {
	var out, diags bytes.Buffer
	_, err := Run(brokenProgram(), RunOptions{Output: &out, Diagnostics: &diags})
	require.ErrorIs(t, err, ErrTypecheckFailed)
	require.Empty(t, out.String())
	require.Equal(t, 2, strings.Count(diags.String(), "\n"))

	var diagErr *DiagnosticError
	require.ErrorAs(t, err, &diagErr)
	require.Equal(t, 2, diagErr.Diagnostic.Line)
}

func TestRunStrictAllowsWarnings(t *testing.T) {
	var out, diags bytes.Buffer
	result, err := Run(narrowingProgram(), RunOptions{Typecheck: TypecheckStrict, Output: &out, Diagnostics: &diags})
	require.NoError(t, err)
	require.Len(t, result.Warnings(), 1)
	require.Equal(t, "2\n", out.String())
	require.Contains(t, diags.String(), "Warning: Assignment of 'float' to 'int' may cause loss of precision: line 2")
}

func TestRunWarnModeExecutesDespiteErrors(t *testing.T) {
	var out bytes.Buffer
	result, err := Run(brokenProgram(), RunOptions{Typecheck: TypecheckWarn, Output: &out})
	require.Len(t, result.Errors(), 2)
	require.Equal(t, "before\n", out.String())

	var rtErr *interpreter.RuntimeError
	require.ErrorAs(t, err, &rtErr)
	require.Equal(t, interpreter.TypeError, rtErr.Kind)
	require.Equal(t, 2, rtErr.Line)
}

func TestRunOffModeSkipsChecker(t *testing.T) {
	var out bytes.Buffer
	result, err := Run(narrowingProgram(), RunOptions{Typecheck: TypecheckOff, Output: &out})
	require.NoError(t, err)
	require.Empty(t, result.Diagnostics)
	require.Equal(t, "2\n", out.String())
}

func TestRunAppliesCallDepth(t *testing.T) {
	loop := ast.Prog(
		ast.Fn("int", "down", ast.Params("int", "n"), ast.Braces(
			ast.Ret(ast.Call("down", ast.Var("n"))),
		)),
		ast.At(4, ast.Call("down", ast.Int(1))),
	)
	_, err := Run(loop, RunOptions{MaxCallDepth: 8})
	var rtErr *interpreter.RuntimeError
	require.ErrorAs(t, err, &rtErr)
	require.Equal(t, interpreter.StackExhaustedError, rtErr.Kind)
}

func TestRunRejectsUnknownMode(t *testing.T) {
	_, err := Run(narrowingProgram(), RunOptions{Typecheck: "loose"})
	require.ErrorContains(t, err, `unknown typecheck mode "loose"`)
}

func TestRunLogsPhases(t *testing.T) {
	var logs bytes.Buffer
	_, err := Run(narrowingProgram(), RunOptions{Output: &bytes.Buffer{}, Logger: NewLogger(&logs, zapcore.InfoLevel)})
	require.NoError(t, err)
	require.Contains(t, logs.String(), "typecheck finished")
	require.Contains(t, logs.String(), "execution finished")
	require.NotContains(t, logs.String(), "may cause loss of precision")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, zapcore.InfoLevel, level)

	level, err = ParseLevel("debug")
	require.NoError(t, err)
	require.Equal(t, zapcore.DebugLevel, level)

	_, err = ParseLevel("chatty")
	require.ErrorContains(t, err, "invalid log level")
}

func TestRunRejectsCallDepthAboveLimit(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(narrowingProgram(), RunOptions{MaxCallDepth: MaxCallDepthLimit + 1, Output: &out})
	require.ErrorContains(t, err, "exceeds the limit of 100000")
	require.Empty(t, out.String())
}
