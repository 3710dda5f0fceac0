package vm

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/kevs-vm/kevs/builtins"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithSyscalls sets the native function table. It must assign the same ids
// as the table the program was compiled against. Defaults to
// builtins.Default().
func WithSyscalls(registry *builtins.Registry) Option {
	return func(vm *VirtualMachine) {
		vm.syscalls = registry
	}
}

// WithStdout sets the writer used by Print and Println. Defaults to
// os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.stdout = w
	}
}

// WithLogger sets the logger for run start and finish events.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.log = logger
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution, in instructions. A value of 0 disables deterministic checking,
// relying only on the background goroutine that monitors the context.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for VM execution events.
//
// Observer methods are called synchronously during execution, so
// implementations should be fast. Returning false from any observer method
// halts execution immediately.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}
