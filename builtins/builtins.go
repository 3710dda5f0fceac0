// Package builtins defines the native functions reachable through SysCall.
package builtins

import (
	"context"
	"fmt"
	"io"

	"github.com/kevs-vm/kevs/object"
)

// Ids of the default native functions. They follow registration order in
// Default and are part of the compiled program format.
const (
	PrintID   int16 = 0
	PrintlnID int16 = 1
	LenID     int16 = 2
)

// Print writes the display form of its argument, without a newline.
func Print(ctx context.Context, args uint8, state State) error {
	if _, err := io.WriteString(state.Stdout(), state.Register(args).Display()); err != nil {
		return fmt.Errorf("Print: %w", err)
	}
	return nil
}

// Println writes the display form of its argument followed by a newline.
func Println(ctx context.Context, args uint8, state State) error {
	if _, err := io.WriteString(state.Stdout(), state.Register(args).Display()+"\n"); err != nil {
		return fmt.Errorf("Println: %w", err)
	}
	return nil
}

// Len stores the length of the array in the second window slot into the
// first window slot.
func Len(ctx context.Context, args uint8, state State) error {
	if args == 255 {
		return fmt.Errorf("%w: Len: argument window at r%d runs past the register file",
			object.ErrIndexOutOfRange, args)
	}
	arg := state.Register(args + 1)
	arr, ok := arg.(*object.Array)
	if !ok {
		return fmt.Errorf("%w: Len: expected an array argument (%s given)",
			object.ErrTypeMismatch, arg.Type())
	}
	state.SetRegister(args, object.NewNumber(float64(arr.Len())))
	return nil
}

// Default returns a new registry holding Print, Println and Len.
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(FuncSpec{
		Name:    "Print",
		Doc:     "Write a value to standard output",
		Args:    []string{"value"},
		Example: `Print("hello");`,
	}, Print)
	r.MustRegister(FuncSpec{
		Name:    "Println",
		Doc:     "Write a value to standard output followed by a newline",
		Args:    []string{"value"},
		Example: `Println(x);`,
	}, Println)
	r.MustRegister(FuncSpec{
		Name:    "Len",
		Doc:     "Store the length of an array in dest",
		Args:    []string{"dest", "array"},
		Example: `Len(n, "abc");`,
	}, Len)
	return r
}
