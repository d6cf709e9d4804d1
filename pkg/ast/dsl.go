package ast

import (
	"strconv"
	"strings"
)

// Builders without source positions; wrap with At to attach a line.

func (n *nodeImpl) setLine(line int) { n.SourceLine = line }

type lineSetter interface {
	setLine(line int)
}

// At stamps a source line onto a freshly built node and returns it.
func At[T Node](line int, node T) T {
	if setter, ok := any(node).(lineSetter); ok {
		setter.setLine(line)
	}
	return node
}

// Program and block helpers.

func Prog(blocks ...Block) *Program {
	return NewProgram(blocks)
}

func Decl(typeName string, inits ...*Initializer) *Declaration {
	return NewDeclaration(typeName, inits, 0)
}

func Init(name string, value Expression) *Initializer {
	return NewInitializer(name, value, 0)
}

func Decls(decls ...*Declaration) *DeclarationList {
	return NewDeclarationList(decls)
}

func Instrs(instructions ...Statement) *InstructionList {
	return NewInstructionList(instructions)
}

// Constant helpers.

func Int(value int64) *IntegerConstant {
	return NewIntegerConstant(strconv.FormatInt(value, 10), 0)
}

func Flt(value float64) *FloatConstant {
	text := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return NewFloatConstant(text, 0)
}

func Str(value string) *StringConstant {
	return NewStringConstant(value, 0)
}

// Expression helpers.

func Var(name string) *Variable {
	return NewVariable(name, 0)
}

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right, 0)
}

func Call(name string, args ...Expression) *FunctionCall {
	return NewFunctionCall(name, args, 0)
}

// Statement helpers.

func Print(values ...Expression) *PrintInstruction {
	return NewPrintInstruction(values, 0)
}

func Assign(name string, value Expression) *Assignment {
	return NewAssignment(name, value, 0)
}

func If(condition Expression, then Statement) *IfInstruction {
	return NewIfInstruction(condition, then, nil, 0)
}

func IfElse(condition Expression, then, els Statement) *IfInstruction {
	return NewIfInstruction(condition, then, els, 0)
}

func While(condition Expression, body Statement) *WhileInstruction {
	return NewWhileInstruction(condition, body, 0)
}

func Repeat(condition Expression, body ...Statement) *RepeatInstruction {
	return NewRepeatInstruction(Instrs(body...), condition, 0)
}

func Ret(value Expression) *ReturnInstruction {
	return NewReturnInstruction(value, 0)
}

func Continue() *ContinueInstruction {
	return NewContinueInstruction(0)
}

func Break() *BreakInstruction {
	return NewBreakInstruction(0)
}

func Compound(decls []*Declaration, instructions ...Statement) *CompoundInstruction {
	return NewCompoundInstruction(Decls(decls...), Instrs(instructions...), 0)
}

// Braces wraps instructions in a compound block with no declarations.
func Braces(instructions ...Statement) *CompoundInstruction {
	return Compound(nil, instructions...)
}

// Function helpers.

func Param(typeName, name string) *Parameter {
	return NewParameter(typeName, name, 0)
}

func Params(pairs ...string) []*Parameter {
	if len(pairs)%2 != 0 {
		panic("ast: Params expects type/name pairs")
	}
	out := make([]*Parameter, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, Param(pairs[i], pairs[i+1]))
	}
	return out
}

func Fn(returnType, name string, params []*Parameter, body *CompoundInstruction) *FunctionDefinition {
	return NewFunctionDefinition(returnType, name, params, body, 0)
}
