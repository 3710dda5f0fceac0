// Package object provides the runtime values of the kevs virtual machine.
//
// A value is one of four kinds:
//
//	switch obj := obj.(type) {
//	case *object.Number:
//	case *object.Character:
//	case *object.Bool:
//	case *object.Array:
//	}
//
// Numbers, characters and booleans are immutable. Arrays are shared by
// reference: copying an *Array between registers or out of the constant pool
// copies the handle, so a mutation through one handle is visible through all
// of them. Operations that build arrays (Concat, Append, Prepend, Clone)
// always return a new array.
package object

// Type of an object as a string.
type Type string

// Type constants
const (
	NUMBER    Type = "number"
	CHARACTER Type = "character"
	BOOL      Type = "bool"
	ARRAY     Type = "array"
)

var (
	Zero  = NewNumber(0)
	True  = &Bool{value: true}
	False = &Bool{value: false}
)

// Object is the interface implemented by every kevs value.
type Object interface {
	// Type of the object.
	Type() Type

	// Display returns the form written by the Print builtins. Arrays display
	// as the concatenation of their elements, so an array of characters
	// displays as a string.
	Display() string

	// Inspect returns a debugging representation of the object, as used by
	// instruction traces and error messages.
	Inspect() string

	// Interface converts the object to a native Go value.
	Interface() any
}

// typeRank orders the value kinds. It is only consulted when comparing the
// elements of two arrays that hold values of different kinds.
func typeRank(obj Object) int {
	switch obj.(type) {
	case *Number:
		return 0
	case *Character:
		return 1
	case *Bool:
		return 2
	case *Array:
		return 3
	default:
		return 4
	}
}
