package object

import (
	"fmt"
	"math"
)

// Equals reports whether a and b hold structurally equal values. Both must
// be of the same kind; comparing values of different kinds is a type error.
// Within arrays, elements of different kinds are simply unequal.
func Equals(a, b Object) (bool, error) {
	if a.Type() != b.Type() {
		return false, fmt.Errorf("%w: cannot compare %s and %s", ErrTypeMismatch, a.Type(), b.Type())
	}
	return equal(a, b), nil
}

func equal(a, b Object) bool {
	switch a := a.(type) {
	case *Number:
		b, ok := b.(*Number)
		return ok && a.value == b.value
	case *Character:
		b, ok := b.(*Character)
		return ok && a.value == b.value
	case *Bool:
		b, ok := b.(*Bool)
		return ok && a.value == b.value
	case *Array:
		b, ok := b.(*Array)
		if !ok || len(a.items) != len(b.items) {
			return false
		}
		if a == b {
			return true
		}
		for i := range a.items {
			if !equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare orders a relative to b, returning -1, 0 or 1. The ordered result
// is false when the values have no ordering, which happens when a NaN is
// involved. Both values must be of the same kind; arrays compare
// lexicographically. Comparing values of different kinds is a type error.
func Compare(a, b Object) (cmp int, ordered bool, err error) {
	if a.Type() != b.Type() {
		return 0, false, fmt.Errorf("%w: cannot compare %s and %s", ErrTypeMismatch, a.Type(), b.Type())
	}
	cmp, ordered = compare(a, b)
	return cmp, ordered, nil
}

func compare(a, b Object) (int, bool) {
	if ra, rb := typeRank(a), typeRank(b); ra != rb {
		return sign(ra - rb), true
	}
	switch a := a.(type) {
	case *Number:
		return compareFloats(a.value, b.(*Number).value)
	case *Character:
		return sign(int(a.value) - int(b.(*Character).value)), true
	case *Bool:
		x, y := 0, 0
		if a.value {
			x = 1
		}
		if b.(*Bool).value {
			y = 1
		}
		return sign(x - y), true
	case *Array:
		other := b.(*Array)
		for i := 0; i < len(a.items) && i < len(other.items); i++ {
			c, ok := compare(a.items[i], other.items[i])
			if !ok {
				return 0, false
			}
			if c != 0 {
				return c, true
			}
		}
		return sign(len(a.items) - len(other.items)), true
	}
	return 0, false
}

func compareFloats(x, y float64) (int, bool) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, false
	}
	switch {
	case x < y:
		return -1, true
	case x > y:
		return 1, true
	default:
		return 0, true
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
