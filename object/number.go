package object

import (
	"math"
	"strconv"
)

// Number wraps a float64. It is the only numeric type in kevs.
type Number struct {
	value float64
}

// NewNumber returns a Number holding the given value.
func NewNumber(value float64) *Number {
	return &Number{value: value}
}

func (n *Number) Type() Type {
	return NUMBER
}

func (n *Number) Value() float64 {
	return n.value
}

func (n *Number) Display() string {
	switch {
	case math.IsInf(n.value, 1):
		return "inf"
	case math.IsInf(n.value, -1):
		return "-inf"
	case math.IsNaN(n.value):
		return "NaN"
	}
	return strconv.FormatFloat(n.value, 'f', -1, 64)
}

func (n *Number) Inspect() string {
	return n.Display()
}

func (n *Number) Interface() any {
	return n.value
}

func (n *Number) String() string {
	return n.Inspect()
}
