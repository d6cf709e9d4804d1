package typechecker

// enterLoopContext marks break/continue as legal and returns the previous
// state for restoreLoopContext.
func (c *Checker) enterLoopContext() bool {
	prev := c.inLoop
	c.inLoop = true
	return prev
}

func (c *Checker) restoreLoopContext(prev bool) {
	c.inLoop = prev
}

func (c *Checker) inLoopContext() bool {
	return c.inLoop
}

// enterFunction records fn as the function whose body is being checked.
// Loop context does not cross a function boundary.
func (c *Checker) enterFunction(fn *FunctionSymbol) {
	c.currentFunction = fn
	c.inLoop = false
}

func (c *Checker) exitFunction() {
	c.currentFunction = nil
	c.inLoop = false
}

// currentReturnType returns the active function's declared return type.
func (c *Checker) currentReturnType() (Type, bool) {
	if c.currentFunction == nil {
		return nil, false
	}
	return c.currentFunction.ReturnType, true
}
