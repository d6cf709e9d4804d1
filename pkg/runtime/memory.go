package runtime

import (
	"errors"
	"fmt"
	"sort"

	"minic/interpreter-go/pkg/ast"
)

// ErrUndefined is returned when no visible frame defines a name.
var ErrUndefined = errors.New("undefined name")

// Memory is a single name to value frame.
type Memory struct {
	name   string
	values map[string]Value
}

func NewMemory(name string) *Memory {
	return &Memory{name: name, values: make(map[string]Value)}
}

func (m *Memory) Name() string { return m.name }

func (m *Memory) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

func (m *Memory) Get(name string) (Value, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Put inserts or replaces a binding in this frame.
func (m *Memory) Put(name string, value Value) {
	m.values[name] = value
}

// Keys returns the bindings in sorted order.
func (m *Memory) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the current bindings.
func (m *Memory) Snapshot() map[string]Value {
	out := make(map[string]Value, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// MemoryStack holds the variable frames of a running program. The bottom
// frame is global. A call frame hides every frame beneath it except the
// global one, so callees never see their caller's locals.
type MemoryStack struct {
	frames []*Memory
	bases  []int
}

func NewMemoryStack() *MemoryStack {
	return &MemoryStack{frames: []*Memory{NewMemory("global")}}
}

// Global returns the bottom frame.
func (s *MemoryStack) Global() *Memory { return s.frames[0] }

// Top returns the innermost frame.
func (s *MemoryStack) Top() *Memory { return s.frames[len(s.frames)-1] }

// Depth reports the number of frames including the global one.
func (s *MemoryStack) Depth() int { return len(s.frames) }

// CallDepth reports how many call frames are active.
func (s *MemoryStack) CallDepth() int { return len(s.bases) }

// Push adds a block frame visible together with the frames below it.
func (s *MemoryStack) Push(m *Memory) {
	s.frames = append(s.frames, m)
}

// PushCall adds a call frame that starts a new visibility window.
func (s *MemoryStack) PushCall(m *Memory) {
	s.bases = append(s.bases, len(s.frames))
	s.frames = append(s.frames, m)
}

// Pop removes the innermost block frame. The global frame is never removed.
func (s *MemoryStack) Pop() *Memory {
	if len(s.frames) <= 1 {
		return nil
	}
	if n := len(s.bases); n > 0 && s.bases[n-1] == len(s.frames)-1 {
		return nil
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top
}

// PopCall unwinds every frame of the innermost call, including any block
// frames left above it.
func (s *MemoryStack) PopCall() *Memory {
	n := len(s.bases)
	if n == 0 {
		return nil
	}
	base := s.bases[n-1]
	s.bases = s.bases[:n-1]
	frame := s.frames[base]
	s.frames = s.frames[:base]
	return frame
}

// Insert binds a name in the innermost frame.
func (s *MemoryStack) Insert(name string, value Value) {
	s.Top().Put(name, value)
}

// Get resolves a name through the visible frames, innermost first.
func (s *MemoryStack) Get(name string) (Value, error) {
	frame := s.lookup(name)
	if frame == nil {
		return nil, fmt.Errorf("%w '%s'", ErrUndefined, name)
	}
	v, _ := frame.Get(name)
	return v, nil
}

// Lookup returns the frame that currently binds name.
func (s *MemoryStack) Lookup(name string) (*Memory, bool) {
	frame := s.lookup(name)
	return frame, frame != nil
}

// Set replaces the binding in the first visible frame defining name.
func (s *MemoryStack) Set(name string, value Value) error {
	frame := s.lookup(name)
	if frame == nil {
		return fmt.Errorf("%w '%s'", ErrUndefined, name)
	}
	frame.Put(name, value)
	return nil
}

func (s *MemoryStack) lookup(name string) *Memory {
	floor := 1
	if n := len(s.bases); n > 0 {
		floor = s.bases[n-1]
	}
	for i := len(s.frames) - 1; i >= floor; i-- {
		if s.frames[i].Has(name) {
			return s.frames[i]
		}
	}
	if s.frames[0].Has(name) {
		return s.frames[0]
	}
	return nil
}

// FunctionTable is the global registry of function definitions.
type FunctionTable struct {
	defs map[string]*ast.FunctionDefinition
}

func NewFunctionTable() *FunctionTable {
	return &FunctionTable{defs: make(map[string]*ast.FunctionDefinition)}
}

// Define registers a function. A name can be defined only once.
func (t *FunctionTable) Define(def *ast.FunctionDefinition) error {
	if def == nil {
		return fmt.Errorf("nil function definition")
	}
	if _, exists := t.defs[def.Name]; exists {
		return fmt.Errorf("function '%s' already defined", def.Name)
	}
	t.defs[def.Name] = def
	return nil
}

func (t *FunctionTable) Lookup(name string) (*ast.FunctionDefinition, bool) {
	def, ok := t.defs[name]
	return def, ok
}

// Names returns the registered function names in sorted order.
func (t *FunctionTable) Names() []string {
	names := make([]string, 0, len(t.defs))
	for name := range t.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
