// Package kevs compiles and runs kevs scripts.
//
// A script is compiled once into an immutable *bytecode.Program, which may
// then be run any number of times, concurrently if needed:
//
//	program, err := kevs.Compile(`x = 2 + 3 * 4; Println(x);`)
//	if err != nil {
//		return err
//	}
//	machine, err := kevs.Run(ctx, program)
//
// Eval combines the two steps.
package kevs

import (
	"context"

	"github.com/kevs-vm/kevs/bytecode"
	"github.com/kevs-vm/kevs/compiler"
	"github.com/kevs-vm/kevs/parser"
	"github.com/kevs-vm/kevs/vm"
)

// Compile parses and compiles source code into an executable program.
// The returned Program is immutable and safe for concurrent use.
func Compile(source string, opts ...Option) (*bytecode.Program, error) {
	return CompileContext(context.Background(), source, opts...)
}

// CompileContext is like Compile but stops early when ctx is cancelled.
func CompileContext(ctx context.Context, source string, opts ...Option) (*bytecode.Program, error) {
	o := collectOptions(opts...)

	var parserOpts []parser.Option
	if o.filename != "" {
		parserOpts = append(parserOpts, parser.WithFilename(o.filename))
	}
	tree, err := parser.Parse(ctx, source, parserOpts...)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(ctx, tree, o.compilerConfig(source))
}

// Run executes a compiled program on a fresh virtual machine and returns
// the machine, so the final values of variables can be read with Get. The
// machine is returned even when the run fails.
func Run(ctx context.Context, program *bytecode.Program, opts ...Option) (*vm.VirtualMachine, error) {
	o := collectOptions(opts...)
	return vm.Run(ctx, program, o.vmOpts()...)
}

// Eval is a convenience function that compiles and runs source code.
// It is equivalent to Compile() followed by Run().
func Eval(ctx context.Context, source string, opts ...Option) (*vm.VirtualMachine, error) {
	program, err := CompileContext(ctx, source, opts...)
	if err != nil {
		return nil, err
	}
	return Run(ctx, program, opts...)
}
