package interpreter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"minic/interpreter-go/pkg/ast"
)

func run(t *testing.T, program *ast.Program, opts ...Option) (string, *Interpreter, error) {
	t.Helper()
	var out bytes.Buffer
	interp := New(append(opts, WithOutput(&out))...)
	err := interp.EvaluateProgram(program)
	return out.String(), interp, err
}

func mustRun(t *testing.T, program *ast.Program, opts ...Option) string {
	t.Helper()
	out, _, err := run(t, program, opts...)
	require.NoError(t, err)
	return out
}

func requireRuntimeError(t *testing.T, err error, kind ErrorKind, line int) *RuntimeError {
	t.Helper()
	require.Error(t, err)
	var rtErr *RuntimeError
	require.True(t, errors.As(err, &rtErr), "expected *RuntimeError, got %T: %v", err, err)
	require.Equal(t, kind, rtErr.Kind, rtErr.Error())
	require.Equal(t, line, rtErr.Line, rtErr.Error())
	return rtErr
}

func decl(typeName, name string, value ast.Expression) *ast.Declaration {
	return ast.Decl(typeName, ast.Init(name, value))
}

func inc(name string) *ast.Assignment {
	return ast.Assign(name, ast.Bin("+", ast.Var(name), ast.Int(1)))
}

func factorialDefinition() *ast.FunctionDefinition {
	return ast.Fn("int", "fact", ast.Params("int", "n"), ast.Braces(
		ast.If(ast.Bin("<=", ast.Var("n"), ast.Int(1)), ast.Ret(ast.Int(1))),
		ast.Ret(ast.Bin("*", ast.Var("n"),
			ast.Call("fact", ast.Bin("-", ast.Var("n"), ast.Int(1))))),
	))
}
