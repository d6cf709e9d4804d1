package interpreter

import (
	"strings"

	"minic/interpreter-go/pkg/ast"
	"minic/interpreter-go/pkg/runtime"
)

func applyBinaryOperator(expr *ast.BinaryExpression, left, right runtime.Value) (runtime.Value, error) {
	switch l := left.(type) {
	case runtime.IntegerValue:
		switch r := right.(type) {
		case runtime.IntegerValue:
			return applyIntegerOperator(expr, l.Val, r.Val)
		case runtime.FloatValue:
			return applyFloatOperator(expr, float64(l.Val), r.Val, left, right)
		case runtime.StringValue:
			if expr.Operator == "*" {
				return repeatString(expr, r.Val, l.Val)
			}
		}
	case runtime.FloatValue:
		switch r := right.(type) {
		case runtime.IntegerValue:
			return applyFloatOperator(expr, l.Val, float64(r.Val), left, right)
		case runtime.FloatValue:
			return applyFloatOperator(expr, l.Val, r.Val, left, right)
		}
	case runtime.StringValue:
		switch r := right.(type) {
		case runtime.StringValue:
			return applyStringOperator(expr, l.Val, r.Val, left, right)
		case runtime.IntegerValue:
			if expr.Operator == "*" {
				return repeatString(expr, l.Val, r.Val)
			}
		}
	}
	return nil, unsupportedOperands(expr, left, right)
}

func applyIntegerOperator(expr *ast.BinaryExpression, l, r int64) (runtime.Value, error) {
	switch expr.Operator {
	case "+":
		return runtime.IntegerValue{Val: l + r}, nil
	case "-":
		return runtime.IntegerValue{Val: l - r}, nil
	case "*":
		return runtime.IntegerValue{Val: l * r}, nil
	case "/":
		if r == 0 {
			return nil, newRuntimeError(ArithmeticError, expr, "division by zero")
		}
		return runtime.IntegerValue{Val: l / r}, nil
	case "%":
		if r == 0 {
			return nil, newRuntimeError(ArithmeticError, expr, "modulo by zero")
		}
		return runtime.IntegerValue{Val: l % r}, nil
	case "<<":
		if r < 0 {
			return nil, newRuntimeError(ArithmeticError, expr, "negative shift count %d", r)
		}
		return runtime.IntegerValue{Val: l << uint64(r)}, nil
	case ">>":
		if r < 0 {
			return nil, newRuntimeError(ArithmeticError, expr, "negative shift count %d", r)
		}
		return runtime.IntegerValue{Val: l >> uint64(r)}, nil
	case "|":
		return runtime.IntegerValue{Val: l | r}, nil
	case "&":
		return runtime.IntegerValue{Val: l & r}, nil
	case "^":
		return runtime.IntegerValue{Val: l ^ r}, nil
	case "&&":
		return runtime.IntegerValue{Val: l & r}, nil
	case "||":
		return runtime.IntegerValue{Val: l | r}, nil
	case "<":
		return runtime.Bool(l < r), nil
	case ">":
		return runtime.Bool(l > r), nil
	case "<=":
		return runtime.Bool(l <= r), nil
	case ">=":
		return runtime.Bool(l >= r), nil
	case "==":
		return runtime.Bool(l == r), nil
	case "!=":
		return runtime.Bool(l != r), nil
	}
	return nil, newRuntimeError(TypeError, expr, "unsupported operator '%s'", expr.Operator)
}

func applyFloatOperator(expr *ast.BinaryExpression, l, r float64, left, right runtime.Value) (runtime.Value, error) {
	switch expr.Operator {
	case "+":
		return runtime.FloatValue{Val: l + r}, nil
	case "-":
		return runtime.FloatValue{Val: l - r}, nil
	case "*":
		return runtime.FloatValue{Val: l * r}, nil
	case "/":
		if r == 0 {
			return nil, newRuntimeError(ArithmeticError, expr, "division by zero")
		}
		return runtime.FloatValue{Val: l / r}, nil
	case "<":
		return runtime.Bool(l < r), nil
	case ">":
		return runtime.Bool(l > r), nil
	case "<=":
		return runtime.Bool(l <= r), nil
	case ">=":
		return runtime.Bool(l >= r), nil
	case "==":
		return runtime.Bool(l == r), nil
	case "!=":
		return runtime.Bool(l != r), nil
	}
	return nil, unsupportedOperands(expr, left, right)
}

func applyStringOperator(expr *ast.BinaryExpression, l, r string, left, right runtime.Value) (runtime.Value, error) {
	switch expr.Operator {
	case "+":
		return runtime.StringValue{Val: l + r}, nil
	case "<":
		return runtime.Bool(l < r), nil
	case ">":
		return runtime.Bool(l > r), nil
	case "<=":
		return runtime.Bool(l <= r), nil
	case ">=":
		return runtime.Bool(l >= r), nil
	case "==":
		return runtime.Bool(l == r), nil
	case "!=":
		return runtime.Bool(l != r), nil
	}
	return nil, unsupportedOperands(expr, left, right)
}

// maxRepeatBytes caps the size of a repeated string.
const maxRepeatBytes = 1 << 30

func repeatString(expr *ast.BinaryExpression, s string, count int64) (runtime.Value, error) {
	if count <= 0 || s == "" {
		return runtime.StringValue{}, nil
	}
	if count > maxRepeatBytes/int64(len(s)) {
		return nil, newRuntimeError(ArithmeticError, expr, "string repetition of %d exceeds %d bytes", count, maxRepeatBytes)
	}
	return runtime.StringValue{Val: strings.Repeat(s, int(count))}, nil
}

func unsupportedOperands(expr *ast.BinaryExpression, left, right runtime.Value) error {
	return newRuntimeError(TypeError, expr, "unsupported operands for '%s': %s and %s", expr.Operator, left.Kind(), right.Kind())
}
