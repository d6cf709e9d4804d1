package typechecker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"minic/interpreter-go/pkg/ast"
)

func checkProgram(t *testing.T, program *ast.Program) []string {
	t.Helper()
	diags, err := New().CheckProgram(program)
	require.NoError(t, err)
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.String())
	}
	return out
}

func expectDiagnostics(t *testing.T, program *ast.Program, want ...string) {
	t.Helper()
	got := checkProgram(t, program)
	if want == nil {
		want = []string{}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func declare(line int, typeName, name string, value ast.Expression) *ast.Declaration {
	return ast.At(line, ast.Decl(typeName, ast.At(line, ast.Init(name, value))))
}

func TestCheckerNilProgram(t *testing.T) {
	_, err := New().CheckProgram(nil)
	require.Error(t, err)
}

func TestCheckerBlockScopedVariableIsUnreachableAfterBlock(t *testing.T) {
	program := ast.Prog(
		ast.At(1, ast.Compound(
			[]*ast.Declaration{declare(2, "int", "x", ast.Int(1))},
			ast.At(3, ast.Print(ast.At(3, ast.Var("x")))),
		)),
		ast.At(5, ast.Print(ast.At(5, ast.Var("x")))),
	)
	expectDiagnostics(t, program, "Error: Usage of undeclared variable 'x': line 5")
}

func TestCheckerShadowingInNestedScope(t *testing.T) {
	program := ast.Prog(
		declare(1, "int", "x", ast.Int(1)),
		ast.At(2, ast.Compound(
			[]*ast.Declaration{declare(3, "string", "x", ast.Str("inner"))},
			ast.At(4, ast.Assign("x", ast.Bin("+", ast.Var("x"), ast.Str("!")))),
		)),
		ast.At(6, ast.Assign("x", ast.Bin("*", ast.Var("x"), ast.Int(2)))),
	)
	expectDiagnostics(t, program)
}

func TestCheckerRedeclarationInSameScope(t *testing.T) {
	program := ast.Prog(
		declare(1, "int", "x", ast.Int(1)),
		declare(2, "float", "x", ast.Flt(2)),
		ast.At(3, ast.Compound([]*ast.Declaration{declare(4, "int", "x", ast.Int(3))})),
	)
	expectDiagnostics(t, program, "Error: Variable 'x' already declared: line 2")
}

func TestCheckerDeclarationTypes(t *testing.T) {
	program := ast.Prog(
		declare(1, "int", "a", ast.Flt(1.5)),
		declare(2, "float", "b", ast.Int(2)),
		declare(3, "string", "c", ast.Int(3)),
		declare(4, "int", "d", ast.Str("four")),
		ast.At(5, ast.Print(ast.At(5, ast.Var("c")))),
	)
	expectDiagnostics(t, program,
		"Error: Assignment of 'int' to 'string': line 3",
		"Error: Assignment of 'string' to 'int': line 4",
		"Error: Usage of undeclared variable 'c': line 5",
	)
}

func TestCheckerIntToFloatDeclarationIsSilent(t *testing.T) {
	program := ast.Prog(
		declare(1, "int", "x", ast.Int(5)),
		declare(2, "float", "y", ast.Var("x")),
		ast.At(3, ast.Print(ast.Var("y"))),
	)
	expectDiagnostics(t, program)
}

func TestCheckerAssignmentAsymmetry(t *testing.T) {
	program := ast.Prog(
		declare(1, "int", "i", ast.Int(0)),
		declare(2, "float", "f", ast.Flt(0)),
		ast.At(3, ast.Assign("i", ast.Flt(1.5))),
		ast.At(4, ast.Assign("f", ast.Int(2))),
		ast.At(5, ast.Assign("i", ast.Str("s"))),
		ast.At(6, ast.Assign("missing", ast.Int(1))),
	)
	expectDiagnostics(t, program,
		"Warning: Assignment of 'float' to 'int' may cause loss of precision: line 3",
		"Error: Assignment of 'string' to 'int': line 5",
		"Error: Variable 'missing' undefined in current scope: line 6",
	)
}

func TestCheckerIllegalOperationCascades(t *testing.T) {
	program := ast.Prog(
		declare(1, "int", "x", ast.At(1, ast.Bin("+",
			ast.At(1, ast.Bin("-", ast.Str("a"), ast.Str("b"))),
			ast.Int(1),
		))),
	)
	expectDiagnostics(t, program,
		"Error: Illegal operation, 'string - string': line 1",
		"Error: Illegal operation, 'undefined + int': line 1",
		"Error: Assignment of 'undefined' to 'int': line 1",
	)
}

func TestCheckerStringOperators(t *testing.T) {
	program := ast.Prog(
		declare(1, "string", "s", ast.Bin("+", ast.Str("a"), ast.Str("b"))),
		declare(2, "string", "r", ast.Bin("*", ast.Var("s"), ast.Int(3))),
		declare(3, "int", "lt", ast.Bin("<", ast.Var("s"), ast.Var("r"))),
		ast.At(4, ast.Print(ast.At(4, ast.Bin("*", ast.Int(3), ast.Var("s"))))),
	)
	expectDiagnostics(t, program, "Error: Illegal operation, 'int * string': line 4")
}

func TestCheckerRejectsLogicalOperators(t *testing.T) {
	program := ast.Prog(
		ast.At(1, ast.Print(ast.At(1, ast.Bin("&&", ast.Int(1), ast.Int(2))))),
		declare(2, "int", "x", ast.At(2, ast.Bin("||", ast.Int(0), ast.Int(1)))),
	)
	expectDiagnostics(t, program,
		"Error: Illegal operation, 'int && int': line 1",
		"Error: Illegal operation, 'int || int': line 2",
		"Error: Assignment of 'undefined' to 'int': line 2",
	)
}

func TestCheckerLoopContext(t *testing.T) {
	program := ast.Prog(
		ast.At(1, ast.Break()),
		ast.At(2, ast.Continue()),
		ast.At(3, ast.If(ast.Int(1), ast.At(3, ast.Break()))),
		ast.At(4, ast.IfElse(ast.Int(1), ast.Braces(), ast.At(4, ast.Continue()))),
		ast.At(5, ast.While(ast.Int(1), ast.Braces(ast.At(5, ast.Break())))),
		ast.At(6, ast.Repeat(ast.Int(1), ast.At(6, ast.Continue()))),
		ast.At(7, ast.Break()),
	)
	expectDiagnostics(t, program,
		"Error: break instruction outside a loop: line 1",
		"Error: continue instruction outside a loop: line 2",
		"Error: break instruction outside a loop: line 7",
	)
}

func TestCheckerNestedIfRestoresEnclosingLoopContext(t *testing.T) {
	program := ast.Prog(
		ast.At(1, ast.While(ast.Int(1), ast.Braces(
			ast.At(2, ast.If(ast.Int(1), ast.Braces())),
			ast.At(3, ast.Break()),
		))),
	)
	expectDiagnostics(t, program)
}

func TestCheckerReturnRules(t *testing.T) {
	program := ast.Prog(
		ast.At(1, ast.Ret(ast.Int(0))),
		ast.At(2, ast.Fn("float", "half", ast.Params("int", "n"), ast.Braces(
			ast.At(3, ast.If(ast.Bin("==", ast.Var("n"), ast.Int(0)), ast.At(3, ast.Ret(ast.Int(0))))),
			ast.At(4, ast.Ret(ast.Bin("/", ast.Var("n"), ast.Flt(2)))),
		))),
		ast.At(5, ast.Fn("int", "whole", nil, ast.Braces(
			ast.At(6, ast.Ret(ast.Flt(1.5))),
		))),
		ast.At(7, ast.Fn("string", "name", nil, ast.Braces(
			ast.At(8, ast.Ret(ast.Int(1))),
		))),
	)
	expectDiagnostics(t, program,
		"Error: return instruction outside a function: line 1",
		"Error: Improper returned type, expected int, got float: line 6",
		"Error: Improper returned type, expected string, got int: line 8",
	)
}

func TestCheckerBreakInsideFunctionBodyNeedsLoop(t *testing.T) {
	program := ast.Prog(
		ast.At(1, ast.Fn("int", "f", nil, ast.Braces(
			ast.At(2, ast.Break()),
			ast.At(3, ast.Ret(ast.Int(0))),
		))),
	)
	expectDiagnostics(t, program, "Error: break instruction outside a loop: line 2")
}

func TestCheckerFunctionDefinitions(t *testing.T) {
	program := ast.Prog(
		ast.At(1, ast.Fn("int", "f", []*ast.Parameter{
			ast.At(1, ast.Param("int", "a")),
			ast.At(1, ast.Param("float", "a")),
		}, ast.Braces(
			ast.At(2, ast.Ret(ast.Var("a"))),
		))),
		ast.At(3, ast.Fn("int", "f", nil, ast.Braces())),
		declare(4, "int", "g", ast.Int(1)),
		ast.At(5, ast.Fn("int", "g", nil, ast.Braces())),
	)
	expectDiagnostics(t, program,
		"Error: Variable 'a' already declared: line 1",
		"Error: Redefinition of function 'f': line 3",
		"Error: Redefinition of function 'g': line 5",
	)
}

func TestCheckerLocalsMayShadowParameters(t *testing.T) {
	program := ast.Prog(
		ast.At(1, ast.Fn("string", "f", ast.Params("int", "n"), ast.Compound(
			[]*ast.Declaration{declare(2, "string", "n", ast.Str("local"))},
			ast.At(3, ast.Ret(ast.Var("n"))),
		))),
	)
	expectDiagnostics(t, program)
}

func TestCheckerFunctionsSeeGlobals(t *testing.T) {
	program := ast.Prog(
		declare(1, "int", "counter", ast.Int(0)),
		ast.At(2, ast.Fn("int", "bump", nil, ast.Braces(
			ast.At(3, ast.Assign("counter", ast.Bin("+", ast.Var("counter"), ast.Int(1)))),
			ast.At(4, ast.Ret(ast.Var("counter"))),
		))),
	)
	expectDiagnostics(t, program)
}

func TestCheckerFunctionCalls(t *testing.T) {
	program := ast.Prog(
		ast.At(1, ast.Fn("int", "f", ast.Params("int", "a", "float", "b"), ast.Braces(
			ast.At(2, ast.Ret(ast.Var("a"))),
		))),
		ast.At(3, ast.Call("f", ast.Int(1), ast.Int(2))),
		ast.At(4, ast.Call("foo", ast.Int(1), ast.Int(2))),
		ast.At(5, ast.Call("f", ast.Int(1))),
		declare(6, "string", "s", ast.At(6, ast.Call("f", ast.Str("x"), ast.Flt(1)))),
		ast.At(7, ast.Call("f", ast.At(7, ast.Var("nope")), ast.Flt(1))),
	)
	expectDiagnostics(t, program,
		"Error: Call of undefined fun: 'foo': line 4",
		"Error: Improper number of args in 'f' call: line 5",
		"Error: Improper type of args in f call: line 6",
		"Error: Assignment of 'int' to 'string': line 6",
		"Error: Usage of undeclared variable 'nope': line 7",
		"Error: Improper type of args in f call: line 7",
	)
}

func TestCheckerVariableIsNotCallable(t *testing.T) {
	program := ast.Prog(
		declare(1, "int", "x", ast.Int(1)),
		ast.At(2, ast.Call("x")),
		ast.At(3, ast.Fn("int", "f", nil, ast.Braces(ast.At(3, ast.Ret(ast.Int(1)))))),
		ast.At(4, ast.Print(ast.At(4, ast.Var("f")))),
	)
	expectDiagnostics(t, program,
		"Error: Call of undefined fun: 'x': line 2",
		"Error: Usage of undeclared variable 'f': line 4",
	)
}

func TestCheckerRecursiveFactorial(t *testing.T) {
	program := ast.Prog(
		ast.At(1, ast.Fn("int", "fact", ast.Params("int", "n"), ast.Braces(
			ast.At(2, ast.If(
				ast.Bin("<=", ast.Var("n"), ast.Int(1)),
				ast.At(3, ast.Ret(ast.Int(1))),
			)),
			ast.At(4, ast.Ret(ast.Bin("*", ast.Var("n"),
				ast.Call("fact", ast.Bin("-", ast.Var("n"), ast.Int(1)))))),
		))),
		ast.At(5, ast.Print(ast.Call("fact", ast.Int(5)))),
	)
	expectDiagnostics(t, program)
}

func TestCheckerReporterSeesDiagnosticsInOrder(t *testing.T) {
	var reported []Diagnostic
	checker := New(WithReporter(func(d Diagnostic) {
		reported = append(reported, d)
	}))
	program := ast.Prog(
		ast.At(1, ast.Print(ast.At(1, ast.Var("a")))),
		ast.At(2, ast.Break()),
		declare(3, "int", "i", ast.Int(0)),
		ast.At(4, ast.Assign("i", ast.Flt(1))),
	)
	diags, err := checker.CheckProgram(program)
	require.NoError(t, err)
	require.Len(t, diags, 3)
	require.Equal(t, diags, reported)
	require.True(t, diags[0].IsError())
	require.Equal(t, SeverityWarning, diags[2].Severity)
	require.Equal(t, 4, diags[2].Line)
}

func TestCheckerResetsBetweenRuns(t *testing.T) {
	checker := New()
	program := ast.Prog(declare(1, "int", "x", ast.Int(1)))
	for i := 0; i < 2; i++ {
		diags, err := checker.CheckProgram(program)
		require.NoError(t, err)
		require.Empty(t, diags)
	}
	_, ok := checker.Root().Get("x")
	require.True(t, ok)
}
