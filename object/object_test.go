package object

import (
	"errors"
	"math"
	"testing"

	"github.com/kevs-vm/kevs/op"
	"github.com/stretchr/testify/require"
)

func TestDisplay(t *testing.T) {
	tests := []struct {
		obj      Object
		expected string
	}{
		{NewNumber(14), "14"},
		{NewNumber(0.5), "0.5"},
		{NewNumber(-3), "-3"},
		{NewNumber(1e21), "1000000000000000000000"},
		{NewNumber(math.Inf(1)), "inf"},
		{NewNumber(math.Inf(-1)), "-inf"},
		{NewNumber(math.NaN()), "NaN"},
		{NewCharacter('x'), "x"},
		{True, "true"},
		{False, "false"},
		{NewString("abcd"), "abcd"},
		{NewArray([]Object{NewCharacter('a'), NewNumber(1), True}), "a1true"},
		{NewArray(nil), ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, tt.obj.Display())
	}
}

func TestInspect(t *testing.T) {
	require.Equal(t, `"hi"`, NewString("hi").Inspect())
	require.Equal(t, `[1, 'a', true]`, NewArray([]Object{NewNumber(1), NewCharacter('a'), True}).Inspect())
	require.Equal(t, "[]", NewArray(nil).Inspect())
	require.Equal(t, "'z'", NewCharacter('z').Inspect())
}

func TestInterface(t *testing.T) {
	require.Equal(t, 2.5, NewNumber(2.5).Interface())
	require.Equal(t, 'q', NewCharacter('q').Interface())
	require.Equal(t, true, True.Interface())
	require.Equal(t, []any{'a', 1.0}, NewArray([]Object{NewCharacter('a'), NewNumber(1)}).Interface())
}

func TestArrayGetSet(t *testing.T) {
	arr := NewString("abc")
	require.Equal(t, 3, arr.Len())
	item, err := arr.Get(1)
	require.Nil(t, err)
	require.Equal(t, "b", item.Display())

	require.Nil(t, arr.Set(0, NewCharacter('z')))
	require.Equal(t, "zbc", arr.Display())

	err = arr.Set(3, NewCharacter('!'))
	require.True(t, errors.Is(err, ErrIndexOutOfRange))
	require.Equal(t, 3, arr.Len())

	_, err = arr.Get(-1)
	require.True(t, errors.Is(err, ErrIndexOutOfRange))
}

func TestArrayAliasing(t *testing.T) {
	original := NewString("ab")
	alias := original
	require.Nil(t, alias.Set(0, NewCharacter('x')))
	require.Equal(t, "xb", original.Display())

	clone := original.Clone()
	require.Nil(t, clone.Set(1, NewCharacter('y')))
	require.Equal(t, "xb", original.Display())
	require.Equal(t, "xy", clone.Display())
}

func TestArraySetNeverCreatesCycles(t *testing.T) {
	a := NewString("xy")
	require.Nil(t, a.Set(0, a))
	require.Equal(t, "xyy", a.Display())
	require.Equal(t, `["xy", 'y']`, a.Inspect())
	stored, err := a.Get(0)
	require.Nil(t, err)
	require.NotSame(t, a, stored)

	// A cycle through a second array is broken the same way.
	b := NewString("cd")
	c := NewString("ab")
	require.Nil(t, b.Set(0, c))
	require.Nil(t, c.Set(0, b))
	require.Equal(t, "abdb", c.Display())
	require.Equal(t, "abdbd", b.Display())
	cmp, ok := compare(c, c)
	require.True(t, ok)
	require.Equal(t, 0, cmp)

	// Storing an unrelated array keeps sharing the handle.
	d := NewString("zz")
	require.Nil(t, a.Set(1, d))
	got, err := a.Get(1)
	require.Nil(t, err)
	require.Same(t, d, got)
}

func TestArrayCloneIsDeep(t *testing.T) {
	inner := NewString("in")
	outer := NewArray([]Object{inner})
	clone := outer.Clone()
	nested, err := clone.Get(0)
	require.Nil(t, err)
	require.Nil(t, nested.(*Array).Set(0, NewCharacter('X')))
	require.Equal(t, "in", inner.Display())
}

func TestArithmeticNumbers(t *testing.T) {
	tests := []struct {
		code     op.Code
		x, y     float64
		expected float64
	}{
		{op.Add, 2, 3, 5},
		{op.Subtract, 2, 3, -1},
		{op.Multiply, 2, 3, 6},
		{op.Divide, 3, 2, 1.5},
		{op.Power, 2, 10, 1024},
	}
	for _, tt := range tests {
		result, err := Arithmetic(tt.code, NewNumber(tt.x), NewNumber(tt.y))
		require.Nil(t, err)
		require.Equal(t, tt.expected, result.(*Number).Value())
	}
	result, err := Arithmetic(op.Divide, NewNumber(1), NewNumber(0))
	require.Nil(t, err)
	require.True(t, math.IsInf(result.(*Number).Value(), 1))
}

func TestArithmeticAddArrays(t *testing.T) {
	left := NewString("ab")
	right := NewString("cd")
	result, err := Arithmetic(op.Add, left, right)
	require.Nil(t, err)
	require.Equal(t, "abcd", result.Display())
	require.Equal(t, "ab", left.Display())
	require.NotSame(t, left, result)

	result, err = Arithmetic(op.Add, left, NewNumber(1))
	require.Nil(t, err)
	require.Equal(t, "ab1", result.Display())

	result, err = Arithmetic(op.Add, NewNumber(1), left)
	require.Nil(t, err)
	require.Equal(t, "1ab", result.Display())
}

func TestArithmeticTypeErrors(t *testing.T) {
	_, err := Arithmetic(op.Subtract, NewString("a"), NewNumber(1))
	require.True(t, errors.Is(err, ErrTypeMismatch))
	_, err = Arithmetic(op.Multiply, NewNumber(1), True)
	require.True(t, errors.Is(err, ErrTypeMismatch))
	_, err = Arithmetic(op.Add, True, NewNumber(1))
	require.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestComparison(t *testing.T) {
	tests := []struct {
		code        op.Code
		left, right Object
		expected    bool
	}{
		{op.Equal, NewNumber(1), NewNumber(1), true},
		{op.NotEqual, NewNumber(1), NewNumber(2), true},
		{op.LessThan, NewNumber(1), NewNumber(2), true},
		{op.LessThanEqual, NewNumber(2), NewNumber(2), true},
		{op.GreaterThan, NewNumber(3), NewNumber(2), true},
		{op.GreaterThanEqual, NewNumber(1), NewNumber(2), false},
		{op.LessThan, NewCharacter('a'), NewCharacter('b'), true},
		{op.GreaterThan, True, False, true},
		{op.Equal, NewString("abc"), NewString("abc"), true},
		{op.LessThan, NewString("ab"), NewString("abc"), true},
		{op.LessThan, NewString("abd"), NewString("abc"), false},
		{op.Equal, NewNumber(math.NaN()), NewNumber(math.NaN()), false},
		{op.NotEqual, NewNumber(math.NaN()), NewNumber(math.NaN()), true},
		{op.LessThan, NewNumber(math.NaN()), NewNumber(1), false},
		{op.GreaterThanEqual, NewNumber(math.NaN()), NewNumber(1), false},
		{op.Equal, NewArray([]Object{NewNumber(1)}), NewString("a"), false},
		{op.LessThan, NewArray([]Object{NewNumber(1)}), NewString("a"), true},
	}
	for _, tt := range tests {
		result, err := Comparison(tt.code, tt.left, tt.right)
		require.Nil(t, err)
		require.Equal(t, tt.expected, result.Value(), "%s %s %s", tt.left.Inspect(), tt.code.Symbol(), tt.right.Inspect())
	}
}

func TestComparisonAcrossKindsIsError(t *testing.T) {
	_, err := Comparison(op.Equal, NewNumber(1), True)
	require.True(t, errors.Is(err, ErrTypeMismatch))
	_, err = Comparison(op.LessThan, NewCharacter('a'), NewString("a"))
	require.True(t, errors.Is(err, ErrTypeMismatch))
}
