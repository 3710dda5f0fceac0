package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(LoadLiteral)
	require.Equal(t, "LOAD_LITERAL", info.Name)
	require.Equal(t, ShapeAImm, info.Shape)
	require.Equal(t, LoadLiteral, info.Code)
}

func TestGetInfoAllOpcodes(t *testing.T) {
	tests := []struct {
		code  Code
		name  string
		shape Shape
	}{
		{Add, "ADD", ShapeABC},
		{Subtract, "SUBTRACT", ShapeABC},
		{Multiply, "MULTIPLY", ShapeABC},
		{Divide, "DIVIDE", ShapeABC},
		{Power, "POWER", ShapeABC},
		{Equal, "EQUAL", ShapeABC},
		{NotEqual, "NOT_EQUAL", ShapeABC},
		{GreaterThan, "GREATER_THAN", ShapeABC},
		{GreaterThanEqual, "GREATER_THAN_EQUAL", ShapeABC},
		{LessThan, "LESS_THAN", ShapeABC},
		{LessThanEqual, "LESS_THAN_EQUAL", ShapeABC},
		{LoadLiteral, "LOAD_LITERAL", ShapeAImm},
		{CopyRegister, "COPY_REGISTER", ShapeAB},
		{CopyConstant, "COPY_CONSTANT", ShapeAB},
		{JumpIfFalseRelative, "JUMP_IF_FALSE_RELATIVE", ShapeAImm},
		{JumpIfTrueRelative, "JUMP_IF_TRUE_RELATIVE", ShapeAImm},
		{ArrayGet, "ARRAY_GET", ShapeABC},
		{ArrayAssignment, "ARRAY_ASSIGNMENT", ShapeABC},
		{SysCall, "SYSCALL", ShapeAImm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.shape, info.Shape)
			require.True(t, tt.code.IsValid())
			require.Equal(t, tt.name, tt.code.String())
		})
	}
}

func TestInvalidOpcode(t *testing.T) {
	require.False(t, Invalid.IsValid())
	require.False(t, Code(200).IsValid())
	require.Equal(t, "INVALID", Code(200).String())
}

func TestBinaryClassification(t *testing.T) {
	require.True(t, GetInfo(Power).IsBinary())
	require.True(t, GetInfo(LessThanEqual).IsBinary())
	require.False(t, GetInfo(CopyRegister).IsBinary())
	require.True(t, Add.IsArithmetic())
	require.False(t, Equal.IsArithmetic())
	require.True(t, NotEqual.IsComparison())
	require.False(t, ArrayGet.IsComparison())
}

func TestSymbol(t *testing.T) {
	require.Equal(t, "^", Power.Symbol())
	require.Equal(t, ">=", GreaterThanEqual.Symbol())
	require.Equal(t, "", SysCall.Symbol())
}
