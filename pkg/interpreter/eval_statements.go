package interpreter

import (
	"fmt"
	"io"
	"strings"

	"minic/interpreter-go/pkg/ast"
	"minic/interpreter-go/pkg/runtime"
)

func (i *Interpreter) executeStatement(node ast.Statement) (signal, error) {
	switch n := node.(type) {
	case nil:
		return normal, nil
	case *ast.PrintInstruction:
		return normal, i.executePrint(n)
	case *ast.Assignment:
		return normal, i.executeAssignment(n)
	case *ast.IfInstruction:
		return i.executeIf(n)
	case *ast.WhileInstruction:
		return i.executeWhile(n)
	case *ast.RepeatInstruction:
		return i.executeRepeat(n)
	case *ast.ReturnInstruction:
		val, err := i.evaluateExpression(n.Value)
		if err != nil {
			return normal, err
		}
		return signal{kind: signalReturn, value: val, line: n.Line()}, nil
	case *ast.ContinueInstruction:
		return signal{kind: signalContinue, line: n.Line()}, nil
	case *ast.BreakInstruction:
		return signal{kind: signalBreak, line: n.Line()}, nil
	case *ast.CompoundInstruction:
		return i.executeCompound(n)
	case ast.Expression:
		_, err := i.evaluateExpression(n)
		return normal, err
	default:
		return normal, fmt.Errorf("interpreter: unsupported statement %s", node.NodeType())
	}
}

func (i *Interpreter) executeInstructions(list *ast.InstructionList) (signal, error) {
	if list == nil {
		return normal, nil
	}
	for _, instruction := range list.Instructions {
		sig, err := i.executeStatement(instruction)
		if err != nil || !sig.isNormal() {
			return sig, err
		}
	}
	return normal, nil
}

func (i *Interpreter) executeCompound(block *ast.CompoundInstruction) (signal, error) {
	i.stack.Push(runtime.NewMemory("block"))
	defer i.stack.Pop()
	if block.Declarations != nil {
		for _, decl := range block.Declarations.Declarations {
			if err := i.executeDeclaration(decl); err != nil {
				return normal, err
			}
		}
	}
	return i.executeInstructions(block.Instructions)
}

func (i *Interpreter) executeDeclaration(decl *ast.Declaration) error {
	if decl == nil {
		return nil
	}
	kind, ok := runtime.KindForType(decl.TypeName)
	if !ok {
		return newRuntimeError(TypeError, decl, "unknown type '%s'", decl.TypeName)
	}
	for _, init := range decl.Inits {
		val, err := i.evaluateExpression(init.Value)
		if err != nil {
			return err
		}
		coerced, ok := runtime.Coerce(val, kind)
		if !ok {
			return newRuntimeError(TypeError, init, "cannot initialise %s '%s' with %s", kind, init.Name, val.Kind())
		}
		i.stack.Insert(init.Name, coerced)
	}
	return nil
}

func (i *Interpreter) executePrint(stmt *ast.PrintInstruction) error {
	var sb strings.Builder
	for _, expr := range stmt.Values {
		val, err := i.evaluateExpression(expr)
		if err != nil {
			return err
		}
		sb.WriteString(runtime.Format(val))
	}
	sb.WriteByte('\n')
	if _, err := io.WriteString(i.out, sb.String()); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}

// executeAssignment keeps the variable's declared kind: the stored value
// already carries it, so the new value is coerced to match.
func (i *Interpreter) executeAssignment(assign *ast.Assignment) error {
	val, err := i.evaluateExpression(assign.Value)
	if err != nil {
		return err
	}
	frame, ok := i.stack.Lookup(assign.Name)
	if !ok {
		return newRuntimeError(NameError, assign, "undefined variable '%s'", assign.Name)
	}
	current, _ := frame.Get(assign.Name)
	coerced, ok := runtime.Coerce(val, current.Kind())
	if !ok {
		return newRuntimeError(TypeError, assign, "cannot assign %s to %s '%s'", val.Kind(), current.Kind(), assign.Name)
	}
	frame.Put(assign.Name, coerced)
	return nil
}

func (i *Interpreter) executeIf(stmt *ast.IfInstruction) (signal, error) {
	cond, err := i.evaluateExpression(stmt.Condition)
	if err != nil {
		return normal, err
	}
	if runtime.Truthy(cond) {
		return i.executeStatement(stmt.Then)
	}
	if stmt.Else != nil {
		return i.executeStatement(stmt.Else)
	}
	return normal, nil
}

func (i *Interpreter) executeWhile(loop *ast.WhileInstruction) (signal, error) {
	for {
		cond, err := i.evaluateExpression(loop.Condition)
		if err != nil {
			return normal, err
		}
		if !runtime.Truthy(cond) {
			return normal, nil
		}
		sig, err := i.executeStatement(loop.Body)
		if err != nil {
			return normal, err
		}
		switch sig.kind {
		case signalBreak:
			return normal, nil
		case signalReturn:
			return sig, nil
		}
	}
}

// executeRepeat runs the body at least once; after each pass, including one
// cut short by continue, the until-condition decides whether to stop.
func (i *Interpreter) executeRepeat(loop *ast.RepeatInstruction) (signal, error) {
	for {
		sig, err := i.executeInstructions(loop.Body)
		if err != nil {
			return normal, err
		}
		switch sig.kind {
		case signalBreak:
			return normal, nil
		case signalReturn:
			return sig, nil
		}
		cond, err := i.evaluateExpression(loop.Condition)
		if err != nil {
			return normal, err
		}
		if runtime.Truthy(cond) {
			return normal, nil
		}
	}
}
