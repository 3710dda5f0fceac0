package kevs

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/kevs-vm/kevs/builtins"
	"github.com/kevs-vm/kevs/compiler"
	"github.com/kevs-vm/kevs/vm"
)

// Option configures a kevs compilation or execution.
type Option func(*options)

type options struct {
	filename string
	stdout   io.Writer
	loader   compiler.Loader
	observer vm.Observer
	logger   zerolog.Logger
	syscalls *builtins.Registry
}

func collectOptions(opts ...Option) *options {
	o := &options{
		logger:   zerolog.Nop(),
		syscalls: builtins.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) compilerConfig(source string) *compiler.Config {
	return &compiler.Config{
		Syscalls: o.syscalls.Names(),
		Filename: o.filename,
		Source:   source,
		Loader:   o.loader,
		Logger:   o.logger,
	}
}

func (o *options) vmOpts() []vm.Option {
	opts := []vm.Option{
		vm.WithSyscalls(o.syscalls),
		vm.WithLogger(o.logger),
	}
	if o.stdout != nil {
		opts = append(opts, vm.WithStdout(o.stdout))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	return opts
}

// WithFilename sets the filename for the source code being compiled. It is
// used in error messages and, unless WithLoader is given, load statements
// resolve files relative to its directory.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithStdout sets the writer that Print and Println write to.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithLoader sets the loader used to resolve load statements.
func WithLoader(loader compiler.Loader) Option {
	return func(o *options) {
		o.loader = loader
	}
}

// WithObserver sets an observer for VM execution events.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithLogger sets the logger used by both the compiler and the VM.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSyscalls replaces the native function table. The same registry is
// used to resolve names at compile time and ids at run time.
func WithSyscalls(registry *builtins.Registry) Option {
	return func(o *options) {
		if registry != nil {
			o.syscalls = registry
		}
	}
}
