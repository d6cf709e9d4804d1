package driver

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"minic/interpreter-go/pkg/ast"
)

// DecodeError reports a malformed AST document, naming the node path.
type DecodeError struct {
	Path   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %s", e.Path, e.Reason)
}

// LoadProgram reads an AST document from disk.
func LoadProgram(path string) (*ast.Program, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load program: %w", err)
	}
	defer file.Close()
	program, err := DecodeProgram(file)
	if err != nil {
		return nil, fmt.Errorf("load program %s: %w", path, err)
	}
	return program, nil
}

// DecodeProgram decodes a YAML (or JSON) AST document into a program.
func DecodeProgram(r io.Reader) (*ast.Program, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DecodeError{Path: "$", Reason: "empty document"}
		}
		return nil, fmt.Errorf("parse AST document: %w", err)
	}
	node, err := decodeNode(raw, "$")
	if err != nil {
		return nil, err
	}
	program, ok := node.(*ast.Program)
	if !ok {
		return nil, &DecodeError{Path: "$", Reason: fmt.Sprintf("expected Program, got %s", node.NodeType())}
	}
	return program, nil
}

func decodeNode(node map[string]any, path string) (ast.Node, error) {
	typ, _ := node["type"].(string)
	line, err := decodeLine(node, path)
	if err != nil {
		return nil, err
	}
	switch ast.NodeType(typ) {
	case ast.NodeProgram:
		items, err := listField(node, "body", path)
		if err != nil {
			return nil, err
		}
		body := make([]ast.Block, 0, len(items))
		for idx, raw := range items {
			childPath := fmt.Sprintf("%s.body[%d]", path, idx)
			child, err := decodeChild(raw, childPath)
			if err != nil {
				return nil, err
			}
			block, ok := child.(ast.Block)
			if !ok {
				return nil, &DecodeError{Path: childPath, Reason: fmt.Sprintf("%s is not allowed at top level", child.NodeType())}
			}
			body = append(body, block)
		}
		return ast.NewProgram(body), nil
	case ast.NodeDeclarationList:
		decls, err := decodeDeclarations(node, "declarations", path)
		if err != nil {
			return nil, err
		}
		return ast.NewDeclarationList(decls), nil
	case ast.NodeDeclaration:
		typeName, err := stringField(node, "typeName", path)
		if err != nil {
			return nil, err
		}
		items, err := listField(node, "inits", path)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, &DecodeError{Path: path, Reason: "declaration needs at least one initializer"}
		}
		inits := make([]*ast.Initializer, 0, len(items))
		for idx, raw := range items {
			childPath := fmt.Sprintf("%s.inits[%d]", path, idx)
			child, err := decodeChild(raw, childPath)
			if err != nil {
				return nil, err
			}
			init, ok := child.(*ast.Initializer)
			if !ok {
				return nil, &DecodeError{Path: childPath, Reason: fmt.Sprintf("expected Initializer, got %s", child.NodeType())}
			}
			inits = append(inits, init)
		}
		return ast.NewDeclaration(typeName, inits, line), nil
	case ast.NodeInitializer:
		name, err := stringField(node, "name", path)
		if err != nil {
			return nil, err
		}
		value, err := expressionField(node, "value", path)
		if err != nil {
			return nil, err
		}
		return ast.NewInitializer(name, value, line), nil
	case ast.NodeInstructionList:
		instructions, err := decodeStatements(node, "instructions", path)
		if err != nil {
			return nil, err
		}
		return ast.NewInstructionList(instructions), nil
	case ast.NodePrintInstruction:
		values, err := decodeExpressions(node, "values", path)
		if err != nil {
			return nil, err
		}
		return ast.NewPrintInstruction(values, line), nil
	case ast.NodeAssignment:
		name, err := stringField(node, "name", path)
		if err != nil {
			return nil, err
		}
		value, err := expressionField(node, "value", path)
		if err != nil {
			return nil, err
		}
		return ast.NewAssignment(name, value, line), nil
	case ast.NodeIfInstruction:
		cond, err := expressionField(node, "condition", path)
		if err != nil {
			return nil, err
		}
		then, err := statementField(node, "then", path)
		if err != nil {
			return nil, err
		}
		var els ast.Statement
		if _, ok := node["else"]; ok && node["else"] != nil {
			els, err = statementField(node, "else", path)
			if err != nil {
				return nil, err
			}
		}
		return ast.NewIfInstruction(cond, then, els, line), nil
	case ast.NodeWhileInstruction:
		cond, err := expressionField(node, "condition", path)
		if err != nil {
			return nil, err
		}
		body, err := statementField(node, "body", path)
		if err != nil {
			return nil, err
		}
		return ast.NewWhileInstruction(cond, body, line), nil
	case ast.NodeRepeatInstruction:
		body, err := decodeInstructionList(node, "body", path)
		if err != nil {
			return nil, err
		}
		cond, err := expressionField(node, "condition", path)
		if err != nil {
			return nil, err
		}
		return ast.NewRepeatInstruction(body, cond, line), nil
	case ast.NodeReturnInstruction:
		value, err := expressionField(node, "value", path)
		if err != nil {
			return nil, err
		}
		return ast.NewReturnInstruction(value, line), nil
	case ast.NodeContinueInstruction:
		return ast.NewContinueInstruction(line), nil
	case ast.NodeBreakInstruction:
		return ast.NewBreakInstruction(line), nil
	case ast.NodeCompoundInstruction:
		return decodeCompound(node, path, line)
	case ast.NodeBinaryExpression:
		op, err := stringField(node, "operator", path)
		if err != nil {
			return nil, err
		}
		left, err := expressionField(node, "left", path)
		if err != nil {
			return nil, err
		}
		right, err := expressionField(node, "right", path)
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryExpression(op, left, right, line), nil
	case ast.NodeIntegerConstant:
		text, err := literalField(node, path)
		if err != nil {
			return nil, err
		}
		return ast.NewIntegerConstant(text, line), nil
	case ast.NodeFloatConstant:
		text, err := literalField(node, path)
		if err != nil {
			return nil, err
		}
		if !strings.ContainsAny(text, ".eE") {
			text += ".0"
		}
		return ast.NewFloatConstant(text, line), nil
	case ast.NodeStringConstant:
		text, err := literalField(node, path)
		if err != nil {
			return nil, err
		}
		return ast.NewStringConstant(text, line), nil
	case "Constant":
		text, err := literalField(node, path)
		if err != nil {
			return nil, err
		}
		return ast.NewConstant(text, line), nil
	case ast.NodeVariable:
		name, err := stringField(node, "name", path)
		if err != nil {
			return nil, err
		}
		return ast.NewVariable(name, line), nil
	case ast.NodeFunctionCall:
		name, err := stringField(node, "name", path)
		if err != nil {
			return nil, err
		}
		args, err := decodeExpressions(node, "arguments", path)
		if err != nil {
			return nil, err
		}
		return ast.NewFunctionCall(name, args, line), nil
	case ast.NodeFunctionDefinition:
		returnType, err := stringField(node, "returnType", path)
		if err != nil {
			return nil, err
		}
		name, err := stringField(node, "name", path)
		if err != nil {
			return nil, err
		}
		items, err := listField(node, "params", path)
		if err != nil {
			return nil, err
		}
		params := make([]*ast.Parameter, 0, len(items))
		for idx, raw := range items {
			childPath := fmt.Sprintf("%s.params[%d]", path, idx)
			child, err := decodeChild(raw, childPath)
			if err != nil {
				return nil, err
			}
			param, ok := child.(*ast.Parameter)
			if !ok {
				return nil, &DecodeError{Path: childPath, Reason: fmt.Sprintf("expected Parameter, got %s", child.NodeType())}
			}
			params = append(params, param)
		}
		raw, ok := node["body"].(map[string]any)
		if !ok {
			return nil, &DecodeError{Path: path, Reason: "missing 'body'"}
		}
		body, err := decodeChild(raw, path+".body")
		if err != nil {
			return nil, err
		}
		compound, ok := body.(*ast.CompoundInstruction)
		if !ok {
			return nil, &DecodeError{Path: path + ".body", Reason: fmt.Sprintf("expected CompoundInstruction, got %s", body.NodeType())}
		}
		return ast.NewFunctionDefinition(returnType, name, params, compound, line), nil
	case ast.NodeParameter:
		typeName, err := stringField(node, "typeName", path)
		if err != nil {
			return nil, err
		}
		name, err := stringField(node, "name", path)
		if err != nil {
			return nil, err
		}
		return ast.NewParameter(typeName, name, line), nil
	case "":
		return nil, &DecodeError{Path: path, Reason: "missing 'type'"}
	default:
		return nil, &DecodeError{Path: path, Reason: fmt.Sprintf("unknown node type %q", typ)}
	}
}

func decodeChild(raw any, path string) (ast.Node, error) {
	child, ok := raw.(map[string]any)
	if !ok {
		return nil, &DecodeError{Path: path, Reason: fmt.Sprintf("expected a node mapping, got %T", raw)}
	}
	return decodeNode(child, path)
}

func decodeCompound(node map[string]any, path string, line int) (*ast.CompoundInstruction, error) {
	var decls []*ast.Declaration
	switch raw := node["declarations"].(type) {
	case nil:
	case []any:
		var err error
		decls, err = decodeDeclarations(node, "declarations", path)
		if err != nil {
			return nil, err
		}
	case map[string]any:
		child, err := decodeNode(raw, path+".declarations")
		if err != nil {
			return nil, err
		}
		list, ok := child.(*ast.DeclarationList)
		if !ok {
			return nil, &DecodeError{Path: path + ".declarations", Reason: fmt.Sprintf("expected DeclarationList, got %s", child.NodeType())}
		}
		decls = list.Declarations
	default:
		return nil, &DecodeError{Path: path + ".declarations", Reason: fmt.Sprintf("expected a list, got %T", raw)}
	}
	instructions, err := decodeInstructionList(node, "instructions", path)
	if err != nil {
		return nil, err
	}
	return ast.NewCompoundInstruction(ast.NewDeclarationList(decls), instructions, line), nil
}

// decodeInstructionList accepts either a bare list of statements or an
// InstructionList node under key.
func decodeInstructionList(node map[string]any, key, path string) (*ast.InstructionList, error) {
	switch raw := node[key].(type) {
	case nil:
		return ast.NewInstructionList(nil), nil
	case map[string]any:
		child, err := decodeNode(raw, path+"."+key)
		if err != nil {
			return nil, err
		}
		list, ok := child.(*ast.InstructionList)
		if !ok {
			return nil, &DecodeError{Path: path + "." + key, Reason: fmt.Sprintf("expected InstructionList, got %s", child.NodeType())}
		}
		return list, nil
	default:
		instructions, err := decodeStatements(node, key, path)
		if err != nil {
			return nil, err
		}
		return ast.NewInstructionList(instructions), nil
	}
}

func decodeDeclarations(node map[string]any, key, path string) ([]*ast.Declaration, error) {
	items, err := listField(node, key, path)
	if err != nil {
		return nil, err
	}
	decls := make([]*ast.Declaration, 0, len(items))
	for idx, raw := range items {
		childPath := fmt.Sprintf("%s.%s[%d]", path, key, idx)
		child, err := decodeChild(raw, childPath)
		if err != nil {
			return nil, err
		}
		decl, ok := child.(*ast.Declaration)
		if !ok {
			return nil, &DecodeError{Path: childPath, Reason: fmt.Sprintf("expected Declaration, got %s", child.NodeType())}
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func decodeStatements(node map[string]any, key, path string) ([]ast.Statement, error) {
	items, err := listField(node, key, path)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Statement, 0, len(items))
	for idx, raw := range items {
		childPath := fmt.Sprintf("%s.%s[%d]", path, key, idx)
		child, err := decodeChild(raw, childPath)
		if err != nil {
			return nil, err
		}
		stmt, ok := child.(ast.Statement)
		if !ok {
			return nil, &DecodeError{Path: childPath, Reason: fmt.Sprintf("%s is not an instruction", child.NodeType())}
		}
		out = append(out, stmt)
	}
	return out, nil
}

func decodeExpressions(node map[string]any, key, path string) ([]ast.Expression, error) {
	items, err := listField(node, key, path)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Expression, 0, len(items))
	for idx, raw := range items {
		childPath := fmt.Sprintf("%s.%s[%d]", path, key, idx)
		child, err := decodeChild(raw, childPath)
		if err != nil {
			return nil, err
		}
		expr, ok := child.(ast.Expression)
		if !ok {
			return nil, &DecodeError{Path: childPath, Reason: fmt.Sprintf("%s is not an expression", child.NodeType())}
		}
		out = append(out, expr)
	}
	return out, nil
}

func expressionField(node map[string]any, key, path string) (ast.Expression, error) {
	raw, ok := node[key]
	if !ok || raw == nil {
		return nil, &DecodeError{Path: path, Reason: fmt.Sprintf("missing '%s'", key)}
	}
	child, err := decodeChild(raw, path+"."+key)
	if err != nil {
		return nil, err
	}
	expr, ok := child.(ast.Expression)
	if !ok {
		return nil, &DecodeError{Path: path + "." + key, Reason: fmt.Sprintf("%s is not an expression", child.NodeType())}
	}
	return expr, nil
}

func statementField(node map[string]any, key, path string) (ast.Statement, error) {
	raw, ok := node[key]
	if !ok || raw == nil {
		return nil, &DecodeError{Path: path, Reason: fmt.Sprintf("missing '%s'", key)}
	}
	child, err := decodeChild(raw, path+"."+key)
	if err != nil {
		return nil, err
	}
	stmt, ok := child.(ast.Statement)
	if !ok {
		return nil, &DecodeError{Path: path + "." + key, Reason: fmt.Sprintf("%s is not an instruction", child.NodeType())}
	}
	return stmt, nil
}

// listField returns the list under key; a missing key is an empty list.
func listField(node map[string]any, key, path string) ([]any, error) {
	raw, ok := node[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, &DecodeError{Path: path + "." + key, Reason: fmt.Sprintf("expected a list, got %T", raw)}
	}
	return items, nil
}

func stringField(node map[string]any, key, path string) (string, error) {
	raw, ok := node[key]
	if !ok || raw == nil {
		return "", &DecodeError{Path: path, Reason: fmt.Sprintf("missing '%s'", key)}
	}
	str, ok := raw.(string)
	if !ok || str == "" {
		return "", &DecodeError{Path: path + "." + key, Reason: fmt.Sprintf("expected a non-empty string, got %v", raw)}
	}
	return str, nil
}

// literalField renders the constant's value as literal text. Scalars that
// YAML typed as numbers or booleans are turned back into their token form.
func literalField(node map[string]any, path string) (string, error) {
	raw, ok := node["value"]
	if !ok || raw == nil {
		return "", &DecodeError{Path: path, Reason: "missing 'value'"}
	}
	switch v := raw.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return "", &DecodeError{Path: path + ".value", Reason: fmt.Sprintf("unsupported literal %v", v)}
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", &DecodeError{Path: path + ".value", Reason: fmt.Sprintf("unsupported literal %T", raw)}
	}
}

func decodeLine(node map[string]any, path string) (int, error) {
	raw, ok := node["line"]
	if !ok || raw == nil {
		return 0, nil
	}
	switch v := raw.(type) {
	case int:
		if v >= 0 {
			return v, nil
		}
	case int64:
		if v >= 0 && v <= math.MaxInt32 {
			return int(v), nil
		}
	case uint64:
		if v <= math.MaxInt32 {
			return int(v), nil
		}
	case float64:
		if v >= 0 && v == math.Trunc(v) && v <= math.MaxInt32 {
			return int(v), nil
		}
	}
	return 0, &DecodeError{Path: path + ".line", Reason: fmt.Sprintf("expected a non-negative integer, got %v", raw)}
}
