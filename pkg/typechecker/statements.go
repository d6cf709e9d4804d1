package typechecker

import (
	"minic/interpreter-go/pkg/ast"
)

func (c *Checker) checkBlock(scope *Scope, block ast.Block) []Diagnostic {
	switch b := block.(type) {
	case nil:
		return nil
	case *ast.Declaration:
		return c.checkDeclaration(scope, b)
	case *ast.FunctionDefinition:
		return c.checkFunctionDefinition(scope, b)
	case ast.Statement:
		return c.checkStatement(scope, b)
	default:
		return []Diagnostic{c.errorf(block, "unsupported node %s", block.NodeType())}
	}
}

func (c *Checker) checkStatement(scope *Scope, stmt ast.Statement) []Diagnostic {
	switch s := stmt.(type) {
	case nil:
		return nil
	case *ast.PrintInstruction:
		var diags []Diagnostic
		for _, value := range s.Values {
			valueDiags, _ := c.checkExpression(scope, value)
			diags = append(diags, valueDiags...)
		}
		return diags
	case *ast.Assignment:
		return c.checkAssignment(scope, s)
	case *ast.IfInstruction:
		diags, _ := c.checkExpression(scope, s.Condition)
		prev := c.enterLoopContext()
		diags = append(diags, c.checkStatement(scope, s.Then)...)
		c.restoreLoopContext(prev)
		if s.Else != nil {
			prev = c.enterLoopContext()
			diags = append(diags, c.checkStatement(scope, s.Else)...)
			c.restoreLoopContext(prev)
		}
		return diags
	case *ast.WhileInstruction:
		diags, _ := c.checkExpression(scope, s.Condition)
		prev := c.enterLoopContext()
		diags = append(diags, c.checkStatement(scope, s.Body)...)
		c.restoreLoopContext(prev)
		return diags
	case *ast.RepeatInstruction:
		prev := c.enterLoopContext()
		diags := c.checkInstructions(scope, s.Body)
		c.restoreLoopContext(prev)
		condDiags, _ := c.checkExpression(scope, s.Condition)
		return append(diags, condDiags...)
	case *ast.ReturnInstruction:
		return c.checkReturn(scope, s)
	case *ast.ContinueInstruction:
		if !c.inLoopContext() {
			return []Diagnostic{c.errorf(s, "continue instruction outside a loop")}
		}
		return nil
	case *ast.BreakInstruction:
		if !c.inLoopContext() {
			return []Diagnostic{c.errorf(s, "break instruction outside a loop")}
		}
		return nil
	case *ast.CompoundInstruction:
		return c.checkCompound(scope.Extend("inner"), s)
	case ast.Expression:
		diags, _ := c.checkExpression(scope, s)
		return diags
	default:
		return []Diagnostic{c.errorf(stmt, "unsupported statement %s", stmt.NodeType())}
	}
}

func (c *Checker) checkInstructions(scope *Scope, list *ast.InstructionList) []Diagnostic {
	if list == nil {
		return nil
	}
	var diags []Diagnostic
	for _, instruction := range list.Instructions {
		diags = append(diags, c.checkStatement(scope, instruction)...)
	}
	return diags
}

// checkCompound checks a block's declarations and instructions inside the
// given (already fresh) scope.
func (c *Checker) checkCompound(scope *Scope, block *ast.CompoundInstruction) []Diagnostic {
	var diags []Diagnostic
	if block.Declarations != nil {
		for _, decl := range block.Declarations.Declarations {
			diags = append(diags, c.checkDeclaration(scope, decl)...)
		}
	}
	return append(diags, c.checkInstructions(scope, block.Instructions)...)
}

func (c *Checker) checkDeclaration(scope *Scope, decl *ast.Declaration) []Diagnostic {
	if decl == nil {
		return nil
	}
	declared := ParseType(decl.TypeName)
	var diags []Diagnostic
	for _, init := range decl.Inits {
		if init == nil {
			continue
		}
		valueDiags, valueType := c.checkExpression(scope, init.Value)
		diags = append(diags, valueDiags...)
		if !initializable(valueType, declared) {
			diags = append(diags, c.errorf(init, "Assignment of '%s' to '%s'", typeName(valueType), decl.TypeName))
			continue
		}
		if _, exists := scope.Get(init.Name); exists {
			diags = append(diags, c.errorf(init, "Variable '%s' already declared", init.Name))
			continue
		}
		scope.Put(init.Name, &VariableSymbol{Name: init.Name, Type: declared})
	}
	return diags
}

func (c *Checker) checkAssignment(scope *Scope, assign *ast.Assignment) []Diagnostic {
	symbol, found := scope.GetGlobal(assign.Name)
	diags, valueType := c.checkExpression(scope, assign.Value)
	variable, isVariable := symbol.(*VariableSymbol)
	if !found || !isVariable {
		return append(diags, c.errorf(assign, "Variable '%s' undefined in current scope", assign.Name))
	}
	declared := variable.Type
	switch {
	case isKind(declared, PrimitiveInt) && isKind(valueType, PrimitiveFloat):
		diags = append(diags, c.warnf(assign, "Assignment of '%s' to '%s' may cause loss of precision", typeName(valueType), typeName(declared)))
	case isKind(declared, PrimitiveFloat) && isKind(valueType, PrimitiveInt):
	case !sameType(valueType, declared):
		diags = append(diags, c.errorf(assign, "Assignment of '%s' to '%s'", typeName(valueType), typeName(declared)))
	}
	return diags
}

func (c *Checker) checkReturn(scope *Scope, ret *ast.ReturnInstruction) []Diagnostic {
	expected, ok := c.currentReturnType()
	if !ok {
		return []Diagnostic{c.errorf(ret, "return instruction outside a function")}
	}
	diags, actual := c.checkExpression(scope, ret.Value)
	if !widens(actual, expected) {
		diags = append(diags, c.errorf(ret, "Improper returned type, expected %s, got %s", typeName(expected), typeName(actual)))
	}
	return diags
}

func (c *Checker) checkFunctionDefinition(scope *Scope, def *ast.FunctionDefinition) []Diagnostic {
	if _, exists := scope.Get(def.Name); exists {
		return []Diagnostic{c.errorf(def, "Redefinition of function '%s'", def.Name)}
	}
	fn := &FunctionSymbol{
		Name:       def.Name,
		ReturnType: ParseType(def.ReturnType),
		Params:     make([]Type, 0, len(def.Params)),
		Scope:      scope.Extend(def.Name),
	}
	scope.Put(def.Name, fn)

	var diags []Diagnostic
	for _, param := range def.Params {
		paramType := ParseType(param.TypeName)
		fn.Params = append(fn.Params, paramType)
		if _, exists := fn.Scope.Get(param.Name); exists {
			diags = append(diags, c.errorf(param, "Variable '%s' already declared", param.Name))
			continue
		}
		fn.Scope.Put(param.Name, &VariableSymbol{Name: param.Name, Type: paramType})
	}

	c.enterFunction(fn)
	if def.Body != nil {
		diags = append(diags, c.checkCompound(fn.Scope.Extend("body"), def.Body)...)
	}
	c.exitFunction()
	return diags
}
