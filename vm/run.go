package vm

import (
	"context"
	"fmt"
	"io"

	"github.com/kevs-vm/kevs/bytecode"
)

// Run the given program in a new Virtual Machine and return it, so the
// final register state can be inspected.
func Run(ctx context.Context, program *bytecode.Program, options ...Option) (*VirtualMachine, error) {
	machine := New(program, options...)
	if err := machine.Run(ctx); err != nil {
		return machine, err
	}
	return machine, nil
}

// Tracer is an Observer that writes one line per executed instruction: the
// instruction index, two spaces and the instruction.
type Tracer struct {
	NoOpObserver
	w io.Writer
}

// NewTracer returns a Tracer writing to w.
func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

func (t *Tracer) OnStep(event StepEvent) bool {
	fmt.Fprintf(t.w, "%d  %s\n", event.IP, event.Instruction)
	return true
}
