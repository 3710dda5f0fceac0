package object

import (
	"fmt"
	"math"

	"github.com/kevs-vm/kevs/op"
)

// Arithmetic applies an arithmetic opcode to two values.
//
// Add is overloaded: two numbers are summed, while an array on either side
// produces a new array holding the concatenation (both arrays) or the array
// with the other value appended or prepended. Every other operation requires
// two numbers.
func Arithmetic(code op.Code, left, right Object) (Object, error) {
	if code == op.Add {
		leftArr, leftIsArr := left.(*Array)
		rightArr, rightIsArr := right.(*Array)
		switch {
		case leftIsArr && rightIsArr:
			return leftArr.Concat(rightArr), nil
		case leftIsArr:
			return leftArr.Append(right), nil
		case rightIsArr:
			return rightArr.Prepend(left), nil
		}
	}
	x, ok := left.(*Number)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported operand for %s: %s (first operand)",
			ErrTypeMismatch, code.Symbol(), left.Type())
	}
	y, ok := right.(*Number)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported operand for %s: %s (second operand)",
			ErrTypeMismatch, code.Symbol(), right.Type())
	}
	switch code {
	case op.Add:
		return NewNumber(x.value + y.value), nil
	case op.Subtract:
		return NewNumber(x.value - y.value), nil
	case op.Multiply:
		return NewNumber(x.value * y.value), nil
	case op.Divide:
		return NewNumber(x.value / y.value), nil
	case op.Power:
		return NewNumber(math.Pow(x.value, y.value)), nil
	}
	return nil, fmt.Errorf("%s is not an arithmetic operation", code)
}

// Comparison applies a comparison opcode to two values of the same kind.
func Comparison(code op.Code, left, right Object) (*Bool, error) {
	switch code {
	case op.Equal, op.NotEqual:
		eq, err := Equals(left, right)
		if err != nil {
			return nil, err
		}
		return NewBool(eq == (code == op.Equal)), nil
	}
	cmp, ordered, err := Compare(left, right)
	if err != nil {
		return nil, err
	}
	if !ordered {
		return False, nil
	}
	switch code {
	case op.GreaterThan:
		return NewBool(cmp > 0), nil
	case op.GreaterThanEqual:
		return NewBool(cmp >= 0), nil
	case op.LessThan:
		return NewBool(cmp < 0), nil
	case op.LessThanEqual:
		return NewBool(cmp <= 0), nil
	}
	return nil, fmt.Errorf("%s is not a comparison", code)
}
