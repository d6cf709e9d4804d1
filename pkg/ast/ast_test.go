package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConstantClassifiesTokens(t *testing.T) {
	cases := []struct {
		token string
		want  NodeType
	}{
		{"42", NodeIntegerConstant},
		{"0", NodeIntegerConstant},
		{"3.14", NodeFloatConstant},
		{"2.", NodeFloatConstant},
		{".5", NodeFloatConstant},
		{"hello", NodeStringConstant},
		{"", NodeStringConstant},
	}
	for _, tc := range cases {
		got := NewConstant(tc.token, 7)
		require.Equal(t, tc.want, got.NodeType(), tc.token)
		require.Equal(t, tc.token, got.Literal())
		require.Equal(t, 7, got.Line())
	}
}

func TestCompoundDefaultsToEmptyLists(t *testing.T) {
	block := NewCompoundInstruction(nil, nil, 3)
	require.NotNil(t, block.Declarations)
	require.NotNil(t, block.Instructions)
	require.Empty(t, block.Instructions.Instructions)
}

func TestAtStampsLine(t *testing.T) {
	call := At(9, Call("f", At(9, Int(1))))
	require.Equal(t, 9, call.Line())
	require.Equal(t, 9, call.Arguments[0].Line())
	require.Equal(t, "1", call.Arguments[0].(*IntegerConstant).Value)
}

func TestDSLLiteralForms(t *testing.T) {
	require.Equal(t, "2.0", Flt(2).Value)
	require.Equal(t, "2.5", Flt(2.5).Value)
	require.Equal(t, []*Parameter{Param("int", "a"), Param("float", "b")}, Params("int", "a", "float", "b"))
	require.Panics(t, func() { Params("int") })
}
