package ast

import "regexp"

type NodeType string

const (
	NodeProgram             NodeType = "Program"
	NodeDeclarationList     NodeType = "DeclarationList"
	NodeDeclaration         NodeType = "Declaration"
	NodeInitializer         NodeType = "Initializer"
	NodeInstructionList     NodeType = "InstructionList"
	NodePrintInstruction    NodeType = "PrintInstruction"
	NodeAssignment          NodeType = "Assignment"
	NodeIfInstruction       NodeType = "IfInstruction"
	NodeWhileInstruction    NodeType = "WhileInstruction"
	NodeRepeatInstruction   NodeType = "RepeatInstruction"
	NodeReturnInstruction   NodeType = "ReturnInstruction"
	NodeContinueInstruction NodeType = "ContinueInstruction"
	NodeBreakInstruction    NodeType = "BreakInstruction"
	NodeCompoundInstruction NodeType = "CompoundInstruction"
	NodeBinaryExpression    NodeType = "BinaryExpression"
	NodeIntegerConstant     NodeType = "IntegerConstant"
	NodeFloatConstant       NodeType = "FloatConstant"
	NodeStringConstant      NodeType = "StringConstant"
	NodeVariable            NodeType = "Variable"
	NodeFunctionCall        NodeType = "FunctionCall"
	NodeFunctionDefinition  NodeType = "FunctionDefinition"
	NodeParameter           NodeType = "Parameter"
)

type Node interface {
	NodeType() NodeType
	// Line is the 1-based source line, or 0 for list wrappers.
	Line() int
	isNode()
}

type nodeImpl struct {
	Type       NodeType `json:"type"`
	SourceLine int      `json:"line,omitempty"`
}

func newNodeImpl(kind NodeType, line int) nodeImpl {
	return nodeImpl{Type: kind, SourceLine: line}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Line() int          { return n.SourceLine }
func (nodeImpl) isNode()              {}

// Marker interfaces.

// Block is anything allowed at the top level of a program.
type Block interface {
	Node
	blockNode()
}

type blockMarker struct{}

func (blockMarker) blockNode() {}

type Statement interface {
	Node
	Block
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Expression values double as statements (`f(1);`).
type Expression interface {
	Node
	Statement
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Constant interface {
	Expression
	// Literal returns the token text the constant was built from.
	Literal() string
}

// Program

type Program struct {
	nodeImpl

	Body []Block `json:"body"`
}

func NewProgram(body []Block) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram, 0), Body: body}
}

// Declarations

type DeclarationList struct {
	nodeImpl

	Declarations []*Declaration `json:"declarations"`
}

func NewDeclarationList(decls []*Declaration) *DeclarationList {
	return &DeclarationList{nodeImpl: newNodeImpl(NodeDeclarationList, 0), Declarations: decls}
}

type Declaration struct {
	nodeImpl
	blockMarker

	TypeName string         `json:"typeName"`
	Inits    []*Initializer `json:"inits"`
}

func NewDeclaration(typeName string, inits []*Initializer, line int) *Declaration {
	return &Declaration{nodeImpl: newNodeImpl(NodeDeclaration, line), TypeName: typeName, Inits: inits}
}

type Initializer struct {
	nodeImpl

	Name  string     `json:"name"`
	Value Expression `json:"value"`
}

func NewInitializer(name string, value Expression, line int) *Initializer {
	return &Initializer{nodeImpl: newNodeImpl(NodeInitializer, line), Name: name, Value: value}
}

// Instructions

type InstructionList struct {
	nodeImpl

	Instructions []Statement `json:"instructions"`
}

func NewInstructionList(instructions []Statement) *InstructionList {
	return &InstructionList{nodeImpl: newNodeImpl(NodeInstructionList, 0), Instructions: instructions}
}

type PrintInstruction struct {
	nodeImpl
	blockMarker
	statementMarker

	Values []Expression `json:"values"`
}

func NewPrintInstruction(values []Expression, line int) *PrintInstruction {
	return &PrintInstruction{nodeImpl: newNodeImpl(NodePrintInstruction, line), Values: values}
}

type Assignment struct {
	nodeImpl
	blockMarker
	statementMarker

	Name  string     `json:"name"`
	Value Expression `json:"value"`
}

func NewAssignment(name string, value Expression, line int) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment, line), Name: name, Value: value}
}

type IfInstruction struct {
	nodeImpl
	blockMarker
	statementMarker

	Condition Expression `json:"condition"`
	Then      Statement  `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIfInstruction(condition Expression, then, els Statement, line int) *IfInstruction {
	return &IfInstruction{nodeImpl: newNodeImpl(NodeIfInstruction, line), Condition: condition, Then: then, Else: els}
}

type WhileInstruction struct {
	nodeImpl
	blockMarker
	statementMarker

	Condition Expression `json:"condition"`
	Body      Statement  `json:"body"`
}

func NewWhileInstruction(condition Expression, body Statement, line int) *WhileInstruction {
	return &WhileInstruction{nodeImpl: newNodeImpl(NodeWhileInstruction, line), Condition: condition, Body: body}
}

// RepeatInstruction runs Body until Condition holds; Body always runs once.
type RepeatInstruction struct {
	nodeImpl
	blockMarker
	statementMarker

	Body      *InstructionList `json:"body"`
	Condition Expression       `json:"condition"`
}

func NewRepeatInstruction(body *InstructionList, condition Expression, line int) *RepeatInstruction {
	return &RepeatInstruction{nodeImpl: newNodeImpl(NodeRepeatInstruction, line), Body: body, Condition: condition}
}

type ReturnInstruction struct {
	nodeImpl
	blockMarker
	statementMarker

	Value Expression `json:"value"`
}

func NewReturnInstruction(value Expression, line int) *ReturnInstruction {
	return &ReturnInstruction{nodeImpl: newNodeImpl(NodeReturnInstruction, line), Value: value}
}

type ContinueInstruction struct {
	nodeImpl
	blockMarker
	statementMarker
}

func NewContinueInstruction(line int) *ContinueInstruction {
	return &ContinueInstruction{nodeImpl: newNodeImpl(NodeContinueInstruction, line)}
}

type BreakInstruction struct {
	nodeImpl
	blockMarker
	statementMarker
}

func NewBreakInstruction(line int) *BreakInstruction {
	return &BreakInstruction{nodeImpl: newNodeImpl(NodeBreakInstruction, line)}
}

// CompoundInstruction is a braced block with its own scope.
type CompoundInstruction struct {
	nodeImpl
	blockMarker
	statementMarker

	Declarations *DeclarationList `json:"declarations"`
	Instructions *InstructionList `json:"instructions"`
}

func NewCompoundInstruction(decls *DeclarationList, instructions *InstructionList, line int) *CompoundInstruction {
	if decls == nil {
		decls = NewDeclarationList(nil)
	}
	if instructions == nil {
		instructions = NewInstructionList(nil)
	}
	return &CompoundInstruction{nodeImpl: newNodeImpl(NodeCompoundInstruction, line), Declarations: decls, Instructions: instructions}
}

// Expressions

type BinaryExpression struct {
	nodeImpl
	blockMarker
	statementMarker
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression, line int) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression, line), Operator: operator, Left: left, Right: right}
}

type IntegerConstant struct {
	nodeImpl
	blockMarker
	statementMarker
	expressionMarker

	Value string `json:"value"`
}

func NewIntegerConstant(value string, line int) *IntegerConstant {
	return &IntegerConstant{nodeImpl: newNodeImpl(NodeIntegerConstant, line), Value: value}
}

func (c *IntegerConstant) Literal() string { return c.Value }

type FloatConstant struct {
	nodeImpl
	blockMarker
	statementMarker
	expressionMarker

	Value string `json:"value"`
}

func NewFloatConstant(value string, line int) *FloatConstant {
	return &FloatConstant{nodeImpl: newNodeImpl(NodeFloatConstant, line), Value: value}
}

func (c *FloatConstant) Literal() string { return c.Value }

type StringConstant struct {
	nodeImpl
	blockMarker
	statementMarker
	expressionMarker

	Value string `json:"value"`
}

func NewStringConstant(value string, line int) *StringConstant {
	return &StringConstant{nodeImpl: newNodeImpl(NodeStringConstant, line), Value: value}
}

func (c *StringConstant) Literal() string { return c.Value }

var (
	floatLiteralPattern   = regexp.MustCompile(`^(\d+\.\d*|\.\d+)`)
	integerLiteralPattern = regexp.MustCompile(`^\d+`)
)

// NewConstant classifies a literal token by its form: a decimal point makes
// a float, bare digits an integer, anything else is string text.
func NewConstant(token string, line int) Constant {
	switch {
	case floatLiteralPattern.MatchString(token):
		return NewFloatConstant(token, line)
	case integerLiteralPattern.MatchString(token):
		return NewIntegerConstant(token, line)
	default:
		return NewStringConstant(token, line)
	}
}

type Variable struct {
	nodeImpl
	blockMarker
	statementMarker
	expressionMarker

	Name string `json:"name"`
}

func NewVariable(name string, line int) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable, line), Name: name}
}

type FunctionCall struct {
	nodeImpl
	blockMarker
	statementMarker
	expressionMarker

	Name      string       `json:"name"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(name string, args []Expression, line int) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall, line), Name: name, Arguments: args}
}

// Functions

type Parameter struct {
	nodeImpl

	TypeName string `json:"typeName"`
	Name     string `json:"name"`
}

func NewParameter(typeName, name string, line int) *Parameter {
	return &Parameter{nodeImpl: newNodeImpl(NodeParameter, line), TypeName: typeName, Name: name}
}

type FunctionDefinition struct {
	nodeImpl
	blockMarker

	ReturnType string               `json:"returnType"`
	Name       string               `json:"name"`
	Params     []*Parameter         `json:"params"`
	Body       *CompoundInstruction `json:"body"`
}

func NewFunctionDefinition(returnType, name string, params []*Parameter, body *CompoundInstruction, line int) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition, line), ReturnType: returnType, Name: name, Params: params, Body: body}
}
