package typechecker

import (
	"minic/interpreter-go/pkg/ast"
)

func (c *Checker) checkExpression(scope *Scope, expr ast.Expression) ([]Diagnostic, Type) {
	switch e := expr.(type) {
	case nil:
		return nil, UnknownType{}
	case *ast.IntegerConstant:
		return nil, intType
	case *ast.FloatConstant:
		return nil, floatType
	case *ast.StringConstant:
		return nil, stringType
	case *ast.Variable:
		symbol, found := scope.GetGlobal(e.Name)
		variable, isVariable := symbol.(*VariableSymbol)
		if !found || !isVariable {
			return []Diagnostic{c.errorf(e, "Usage of undeclared variable '%s'", e.Name)}, UnknownType{}
		}
		return nil, variable.Type
	case *ast.BinaryExpression:
		return c.checkBinaryExpression(scope, e)
	case *ast.FunctionCall:
		return c.checkFunctionCall(scope, e)
	default:
		return []Diagnostic{c.errorf(expr, "unsupported expression %s", expr.NodeType())}, UnknownType{}
	}
}

func (c *Checker) checkBinaryExpression(scope *Scope, expr *ast.BinaryExpression) ([]Diagnostic, Type) {
	leftDiags, leftType := c.checkExpression(scope, expr.Left)
	rightDiags, rightType := c.checkExpression(scope, expr.Right)

	var diags []Diagnostic
	diags = append(diags, leftDiags...)
	diags = append(diags, rightDiags...)

	result, ok := ResultType(expr.Operator, leftType, rightType)
	if !ok {
		diags = append(diags, c.errorf(expr, "Illegal operation, '%s %s %s'", typeName(leftType), expr.Operator, typeName(rightType)))
		return diags, UnknownType{}
	}
	return diags, result
}

func (c *Checker) checkFunctionCall(scope *Scope, call *ast.FunctionCall) ([]Diagnostic, Type) {
	var diags []Diagnostic
	argTypes := make([]Type, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		argDiags, argType := c.checkExpression(scope, arg)
		diags = append(diags, argDiags...)
		argTypes = append(argTypes, argType)
	}

	symbol, found := scope.GetGlobal(call.Name)
	fn, isFunction := symbol.(*FunctionSymbol)
	if !found || !isFunction {
		return append(diags, c.errorf(call, "Call of undefined fun: '%s'", call.Name)), UnknownType{}
	}
	if len(argTypes) != len(fn.Params) {
		return append(diags, c.errorf(call, "Improper number of args in '%s' call", fn.Name)), fn.ReturnType
	}
	for idx, argType := range argTypes {
		if !widens(argType, fn.Params[idx]) {
			diags = append(diags, c.errorf(call, "Improper type of args in %s call", fn.Name))
		}
	}
	return diags, fn.ReturnType
}
