package typechecker

// Symbol is a name bound in a scope table.
type Symbol interface {
	SymbolName() string
	SymbolType() Type
}

type VariableSymbol struct {
	Name string
	Type Type
}

func (v *VariableSymbol) SymbolName() string { return v.Name }
func (v *VariableSymbol) SymbolType() Type   { return v.Type }

// FunctionSymbol records a function signature together with the scope that
// holds its parameters.
type FunctionSymbol struct {
	Name       string
	ReturnType Type
	Params     []Type
	Scope      *Scope
}

func (f *FunctionSymbol) SymbolName() string { return f.Name }
func (f *FunctionSymbol) SymbolType() Type   { return f.ReturnType }

// Scope represents a lexical symbol table used during typechecking.
type Scope struct {
	name    string
	parent  *Scope
	symbols map[string]Symbol
}

// NewScope creates a new scope with an optional parent.
func NewScope(name string, parent *Scope) *Scope {
	return &Scope{
		name:    name,
		parent:  parent,
		symbols: make(map[string]Symbol),
	}
}

func (s *Scope) Name() string   { return s.name }
func (s *Scope) Parent() *Scope { return s.parent }

// Put binds a symbol in the current scope, replacing any previous binding.
func (s *Scope) Put(name string, symbol Symbol) {
	s.symbols[name] = symbol
}

// Get looks the name up in this scope only.
func (s *Scope) Get(name string) (Symbol, bool) {
	symbol, ok := s.symbols[name]
	return symbol, ok
}

// GetGlobal searches the scope chain from this scope outwards.
func (s *Scope) GetGlobal(name string) (Symbol, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if symbol, ok := scope.symbols[name]; ok {
			return symbol, true
		}
	}
	return nil, false
}

// Extend returns a child scope.
func (s *Scope) Extend(name string) *Scope {
	return NewScope(name, s)
}
