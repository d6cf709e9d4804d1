package typechecker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopeLookup(t *testing.T) {
	root := NewScope("root", nil)
	root.Put("x", &VariableSymbol{Name: "x", Type: intType})
	inner := root.Extend("inner")
	inner.Put("y", &VariableSymbol{Name: "y", Type: stringType})

	_, ok := inner.Get("x")
	require.False(t, ok, "Get must not consult parents")

	sym, ok := inner.GetGlobal("x")
	require.True(t, ok)
	require.Equal(t, intType, sym.SymbolType())

	_, ok = root.GetGlobal("y")
	require.False(t, ok)
	require.Same(t, root, inner.Parent())
	require.Equal(t, "inner", inner.Name())
}

func TestScopeShadowing(t *testing.T) {
	root := NewScope("root", nil)
	root.Put("x", &VariableSymbol{Name: "x", Type: intType})
	inner := root.Extend("inner")
	inner.Put("x", &VariableSymbol{Name: "x", Type: floatType})

	sym, ok := inner.GetGlobal("x")
	require.True(t, ok)
	require.Equal(t, floatType, sym.SymbolType())

	sym, ok = root.GetGlobal("x")
	require.True(t, ok)
	require.Equal(t, intType, sym.SymbolType())
}
