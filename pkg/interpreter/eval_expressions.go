package interpreter

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"minic/interpreter-go/pkg/ast"
	"minic/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerConstant:
		val, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, newRuntimeError(ArithmeticError, n, "integer literal %s out of range", n.Value)
			}
			return nil, newRuntimeError(TypeError, n, "malformed integer literal %q", n.Value)
		}
		return runtime.IntegerValue{Val: val}, nil
	case *ast.FloatConstant:
		val, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, newRuntimeError(TypeError, n, "malformed float literal %q", n.Value)
		}
		return runtime.FloatValue{Val: val}, nil
	case *ast.StringConstant:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.Variable:
		val, err := i.stack.Get(n.Name)
		if err != nil {
			return nil, newRuntimeError(NameError, n, "undefined variable '%s'", n.Name)
		}
		return val, nil
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n)
	case nil:
		return nil, fmt.Errorf("interpreter: missing expression")
	default:
		return nil, fmt.Errorf("interpreter: unsupported expression %s", node.NodeType())
	}
}

// evaluateBinaryExpression evaluates both operands, left first, before
// applying the operator. No operator short-circuits.
func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right)
	if err != nil {
		return nil, err
	}
	return applyBinaryOperator(expr, left, right)
}

func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall) (runtime.Value, error) {
	def, ok := i.functions.Lookup(call.Name)
	if !ok {
		return nil, newRuntimeError(NameError, call, "undefined function '%s'", call.Name)
	}
	if len(call.Arguments) != len(def.Params) {
		return nil, newRuntimeError(ArityError, call, "function '%s' expects %d arguments, got %d", def.Name, len(def.Params), len(call.Arguments))
	}

	frame := runtime.NewMemory(def.Name)
	for idx, arg := range call.Arguments {
		val, err := i.evaluateExpression(arg)
		if err != nil {
			return nil, err
		}
		param := def.Params[idx]
		coerced, ok := runtime.CoerceToType(val, param.TypeName)
		if !ok {
			return nil, newRuntimeError(TypeError, call, "argument '%s' of '%s' expects %s, got %s", param.Name, def.Name, param.TypeName, val.Kind())
		}
		frame.Put(param.Name, coerced)
	}

	if i.stack.CallDepth() >= i.maxCallDepth {
		return nil, newRuntimeError(StackExhaustedError, call, "maximum call depth %d exceeded in '%s'", i.maxCallDepth, def.Name)
	}
	i.stack.PushCall(frame)
	defer i.stack.PopCall()
	i.logger.Debug("call", zap.String("function", def.Name), zap.Int("depth", i.stack.CallDepth()))

	var sig signal
	if def.Body != nil {
		var err error
		sig, err = i.executeCompound(def.Body)
		if err != nil {
			return nil, err
		}
	}
	switch sig.kind {
	case signalReturn:
		result, ok := runtime.CoerceToType(sig.value, def.ReturnType)
		if !ok {
			return nil, &RuntimeError{
				Kind:    TypeError,
				Message: fmt.Sprintf("function '%s' must return %s, got %s", def.Name, def.ReturnType, sig.value.Kind()),
				Line:    sig.line,
			}
		}
		return result, nil
	case signalBreak, signalContinue:
		return nil, sig.escapeError()
	}
	zero, ok := runtime.ZeroValue(def.ReturnType)
	if !ok {
		return nil, newRuntimeError(TypeError, def, "unknown return type '%s'", def.ReturnType)
	}
	return zero, nil
}
