package object

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIndexOutOfRange is returned for an index outside the array.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrTypeMismatch is returned when values of different kinds meet in
	// an operation that requires the same kind.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Array is an ordered sequence of values shared by reference. Its length is
// fixed once constructed; Set replaces elements in place.
type Array struct {
	items []Object
}

// NewArray returns an array that takes ownership of the given items.
func NewArray(items []Object) *Array {
	return &Array{items: items}
}

// NewString returns an array of characters, one per rune of s.
func NewString(s string) *Array {
	items := make([]Object, 0, len(s))
	for _, r := range s {
		items = append(items, NewCharacter(r))
	}
	return &Array{items: items}
}

func (a *Array) Type() Type {
	return ARRAY
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.items)
}

// Get returns the element at index i.
func (a *Array) Get(i int) (Object, error) {
	if i < 0 || i >= len(a.items) {
		return nil, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, i, len(a.items))
	}
	return a.items[i], nil
}

// Set replaces the element at index i. The array never grows.
//
// Arrays never contain themselves: when value is a or holds a at any depth,
// a deep copy of value taken before the store is written instead, so
// a[0] = a; leaves a holding its own previous contents.
func (a *Array) Set(i int, value Object) error {
	if i < 0 || i >= len(a.items) {
		return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, i, len(a.items))
	}
	if nested, ok := value.(*Array); ok && nested.reaches(a) {
		value = nested.Clone()
	}
	a.items[i] = value
	return nil
}

// reaches reports whether target is a or is nested anywhere inside a.
func (a *Array) reaches(target *Array) bool {
	if a == target {
		return true
	}
	for _, item := range a.items {
		if nested, ok := item.(*Array); ok && nested.reaches(target) {
			return true
		}
	}
	return false
}

// Items returns a copy of the element slice. Nested arrays are shared.
func (a *Array) Items() []Object {
	items := make([]Object, len(a.items))
	copy(items, a.items)
	return items
}

// Concat returns a new array holding the elements of a followed by those
// of other.
func (a *Array) Concat(other *Array) *Array {
	items := make([]Object, 0, len(a.items)+len(other.items))
	items = append(items, a.items...)
	items = append(items, other.items...)
	return &Array{items: items}
}

// Append returns a new array holding the elements of a followed by value.
func (a *Array) Append(value Object) *Array {
	items := make([]Object, 0, len(a.items)+1)
	items = append(items, a.items...)
	items = append(items, value)
	return &Array{items: items}
}

// Prepend returns a new array holding value followed by the elements of a.
func (a *Array) Prepend(value Object) *Array {
	items := make([]Object, 0, len(a.items)+1)
	items = append(items, value)
	items = append(items, a.items...)
	return &Array{items: items}
}

// Clone returns a deep copy: nested arrays are copied too, so no handle is
// shared between the original and the clone.
func (a *Array) Clone() *Array {
	items := make([]Object, len(a.items))
	for i, item := range a.items {
		if nested, ok := item.(*Array); ok {
			items[i] = nested.Clone()
		} else {
			items[i] = item
		}
	}
	return &Array{items: items}
}

func (a *Array) Display() string {
	var sb strings.Builder
	for _, item := range a.items {
		sb.WriteString(item.Display())
	}
	return sb.String()
}

// IsString returns true if every element is a Character. The empty array
// is not considered a string.
func (a *Array) IsString() bool {
	if len(a.items) == 0 {
		return false
	}
	for _, item := range a.items {
		if _, ok := item.(*Character); !ok {
			return false
		}
	}
	return true
}

func (a *Array) Inspect() string {
	if a.IsString() {
		return fmt.Sprintf("%q", a.Display())
	}
	parts := make([]string, len(a.items))
	for i, item := range a.items {
		parts[i] = item.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (a *Array) Interface() any {
	items := make([]any, len(a.items))
	for i, item := range a.items {
		items[i] = item.Interface()
	}
	return items
}

func (a *Array) String() string {
	return a.Inspect()
}
