// Package vm provides a VirtualMachine that executes compiled kevs programs.
//
// The machine has a fixed file of 256 registers and a private copy of the
// program's constant pool. It runs instructions in order until the
// instruction pointer passes the end of the program. After every
// instruction, including a taken jump, the instruction pointer is
// incremented, so a jump's effective displacement is its offset plus one.
package vm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/kevs-vm/kevs/builtins"
	"github.com/kevs-vm/kevs/bytecode"
	"github.com/kevs-vm/kevs/errz"
	"github.com/kevs-vm/kevs/object"
	"github.com/kevs-vm/kevs/op"
)

const (
	// RegisterCount is the size of the register file.
	RegisterCount = 256

	// DefaultContextCheckInterval is the number of instructions between
	// deterministic checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// ErrHalted is returned when an observer stops execution.
var ErrHalted = errors.New("execution halted by observer")

// VirtualMachine executes a Program. Registers keep their final values
// after Run returns, so the result of a run can be inspected.
type VirtualMachine struct {
	ip        int
	halt      *atomic.Bool
	stopChan  chan struct{}
	program   *bytecode.Program
	registers [RegisterCount]object.Object
	constants []object.Object
	syscalls  *builtins.Registry
	stdout    io.Writer
	log       zerolog.Logger
	runID     uuid.UUID
	steps     int64
	running   bool
	runMutex  sync.Mutex

	// contextCheckInterval is the number of instructions between
	// deterministic checks of ctx.Done().
	contextCheckInterval int

	// observer receives a callback before each instruction. If nil, no
	// callbacks are made.
	observer     Observer
	observerCfg  ObserverConfig
	sampleCount  int
	lastLocation bytecode.SourceLocation
}

// New creates a new Virtual Machine for the given program.
func New(program *bytecode.Program, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		program:              program,
		syscalls:             builtins.Default(),
		stdout:               os.Stdout,
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	if vm.observer != nil {
		vm.observerCfg = NormalizeConfig(vm.observer.Config())
	}
	vm.reset()
	return vm
}

func (vm *VirtualMachine) reset() {
	for i := range vm.registers {
		vm.registers[i] = object.Zero
	}
	vm.constants = vm.program.CloneConstants()
	vm.ip = 0
	vm.steps = 0
	vm.sampleCount = 0
	vm.lastLocation = bytecode.SourceLocation{}
}

func (vm *VirtualMachine) start(ctx context.Context) error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return fmt.Errorf("vm is already running")
	}
	vm.running = true
	// Each run owns its halt flag and stop channel, so a context from an
	// earlier run can never halt this one.
	halt, stop := new(atomic.Bool), make(chan struct{})
	vm.halt, vm.stopChan = halt, stop
	if doneChan := ctx.Done(); doneChan != nil {
		go func() {
			select {
			case <-doneChan:
				halt.Store(true)
			case <-stop:
			}
		}()
	}
	return nil
}

func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
	if vm.stopChan != nil {
		close(vm.stopChan)
		vm.stopChan = nil
	}
}

// Run executes the program from the first instruction with a fresh register
// file and constant pool. It may be called again to repeat the run.
func (vm *VirtualMachine) Run(ctx context.Context) (err error) {
	if vm.program == nil {
		return fmt.Errorf("no program available")
	}
	if err := vm.start(ctx); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		vm.stop()
	}()

	vm.reset()
	vm.runID, err = uuid.NewV4()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}
	vm.log.Debug().
		Str("run", vm.runID.String()).
		Str("file", vm.program.Filename()).
		Int("instructions", vm.program.InstructionCount()).
		Msg("Executing...")
	err = vm.eval(ctx)
	event := vm.log.Debug()
	if err != nil {
		event = vm.log.Error().Err(err)
	}
	event.Str("run", vm.runID.String()).Int64("steps", vm.steps).Msg("run finished")
	return err
}

func (vm *VirtualMachine) eval(ctx context.Context) error {
	var instructionCount int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()
	n := vm.program.InstructionCount()

	for vm.ip < n {
		if vm.halt.Load() {
			return haltError(ctx)
		}
		if checkInterval > 0 && doneChan != nil {
			instructionCount++
			if instructionCount >= checkInterval {
				instructionCount = 0
				select {
				case <-doneChan:
					vm.halt.Store(true)
					return haltError(ctx)
				default:
				}
			}
		}
		if vm.ip < 0 {
			return vm.runtimeError(errz.ErrRuntime, errz.E3007, bytecode.Instruction{},
				"jump target %d is before the start of the program", vm.ip)
		}

		ins := vm.program.InstructionAt(vm.ip)
		if vm.observer != nil && !vm.notifyStep(ins) {
			return ErrHalted
		}
		if err := vm.exec(ctx, ins); err != nil {
			return err
		}
		vm.steps++
		vm.ip++
	}
	return nil
}

// haltError is the error a halted run returns. It is never nil.
func haltError(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return context.Canceled
}

func (vm *VirtualMachine) exec(ctx context.Context, ins bytecode.Instruction) error {
	r := &vm.registers
	switch {
	case ins.Op.IsArithmetic():
		result, err := object.Arithmetic(ins.Op, r[ins.B], r[ins.C])
		if err != nil {
			return vm.operationError(ins, err)
		}
		r[ins.A] = result
		return nil
	case ins.Op.IsComparison():
		result, err := object.Comparison(ins.Op, r[ins.B], r[ins.C])
		if err != nil {
			return vm.operationError(ins, err)
		}
		r[ins.A] = result
		return nil
	}

	switch ins.Op {
	case op.LoadLiteral:
		r[ins.A] = object.NewNumber(float64(ins.Imm()))
	case op.CopyRegister:
		r[ins.A] = r[ins.B]
	case op.CopyConstant:
		index, err := vm.index(ins, r[ins.B], "constant index")
		if err != nil {
			return err
		}
		if index < 0 || index >= len(vm.constants) {
			return vm.runtimeError(errz.ErrBounds, errz.E3004, ins,
				"constant %d does not exist (pool size %d)", index, len(vm.constants))
		}
		r[ins.A] = vm.constants[index]
	case op.JumpIfFalseRelative, op.JumpIfTrueRelative:
		test, ok := r[ins.A].(*object.Bool)
		if !ok {
			return vm.runtimeError(errz.ErrType, errz.E3001, ins,
				"jump condition in r%d must be a bool (%s given)", ins.A, r[ins.A].Type())
		}
		if test.Value() == (ins.Op == op.JumpIfTrueRelative) {
			vm.ip += int(ins.Imm())
		}
	case op.ArrayGet:
		arr, err := vm.array(ins, ins.B)
		if err != nil {
			return err
		}
		index, err := vm.index(ins, r[ins.C], "array index")
		if err != nil {
			return err
		}
		value, err := arr.Get(index)
		if err != nil {
			return vm.operationError(ins, err)
		}
		r[ins.A] = value
	case op.ArrayAssignment:
		arr, err := vm.array(ins, ins.A)
		if err != nil {
			return err
		}
		index, err := vm.index(ins, r[ins.B], "array index")
		if err != nil {
			return err
		}
		if err := arr.Set(index, r[ins.C]); err != nil {
			return vm.operationError(ins, err)
		}
	case op.SysCall:
		return vm.syscall(ctx, ins)
	default:
		return vm.runtimeError(errz.ErrRuntime, errz.E3005, ins,
			"invalid opcode %d", uint8(ins.Op))
	}
	return nil
}

func (vm *VirtualMachine) syscall(ctx context.Context, ins bytecode.Instruction) error {
	id := ins.Imm()
	fn, ok := vm.syscalls.Lookup(id)
	if !ok {
		return vm.runtimeError(errz.ErrRuntime, errz.E3003, ins, "unknown syscall %d", id)
	}
	if vm.observer != nil && vm.observerCfg.ObserveSyscalls {
		event := SyscallEvent{
			ID:       id,
			Name:     vm.syscalls.Name(id),
			Window:   ins.A,
			Location: vm.program.LocationAt(vm.ip),
		}
		if !vm.observer.OnSyscall(event) {
			return ErrHalted
		}
	}
	if err := fn(ctx, ins.A, vm); err != nil {
		return vm.operationError(ins, err)
	}
	return nil
}

// array returns the array held in register reg.
func (vm *VirtualMachine) array(ins bytecode.Instruction, reg uint8) (*object.Array, error) {
	arr, ok := vm.registers[reg].(*object.Array)
	if !ok {
		return nil, vm.runtimeError(errz.ErrType, errz.E3001, ins,
			"r%d must hold an array (%s given)", reg, vm.registers[reg].Type())
	}
	return arr, nil
}

// index converts a Number to an integer index.
func (vm *VirtualMachine) index(ins bytecode.Instruction, obj object.Object, what string) (int, error) {
	n, ok := obj.(*object.Number)
	if !ok {
		return 0, vm.runtimeError(errz.ErrType, errz.E3001, ins,
			"%s must be a number (%s given)", what, obj.Type())
	}
	v := n.Value()
	if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, vm.runtimeError(errz.ErrBounds, errz.E3002, ins,
			"%s %s is not a valid index", what, n.Display())
	}
	return int(v), nil
}

// operationError converts an error from the object package or a syscall to
// a runtime error.
func (vm *VirtualMachine) operationError(ins bytecode.Instruction, err error) error {
	var kind errz.ErrorKind
	var code errz.Code
	switch {
	case errors.Is(err, object.ErrTypeMismatch):
		kind, code = errz.ErrType, errz.E3001
	case errors.Is(err, object.ErrIndexOutOfRange):
		kind, code = errz.ErrBounds, errz.E3002
	default:
		kind, code = errz.ErrRuntime, errz.E3006
	}
	return vm.runtimeError(kind, code, ins, "%s", err).WithCause(err)
}

func (vm *VirtualMachine) runtimeError(kind errz.ErrorKind, code errz.Code, ins bytecode.Instruction, format string, args ...any) *errz.Error {
	text := ""
	if ins.Op != op.Invalid {
		text = ins.String()
	}
	err := errz.NewRuntime(kind, code, vm.ip, text, format, args...)
	if loc := vm.program.LocationAt(vm.ip); loc.Line > 0 {
		err = err.WithLocation(errz.SourceLocation{
			Filename: vm.program.Filename(),
			Line:     loc.Line,
			Column:   loc.Column,
			Source:   vm.program.GetSourceLine(loc.Line),
		})
	}
	return err
}

// Register returns the value of register i.
func (vm *VirtualMachine) Register(i uint8) object.Object {
	return vm.registers[i]
}

// SetRegister sets the value of register i.
func (vm *VirtualMachine) SetRegister(i uint8, value object.Object) {
	vm.registers[i] = value
}

// Stdout returns the writer used by the output syscalls.
func (vm *VirtualMachine) Stdout() io.Writer {
	return vm.stdout
}

// Get returns the value of a top-level variable after a run.
func (vm *VirtualMachine) Get(name string) (object.Object, bool) {
	reg, ok := vm.program.Register(name)
	if !ok {
		return nil, false
	}
	return vm.registers[reg], true
}

// Program returns the program the VM executes.
func (vm *VirtualMachine) Program() *bytecode.Program {
	return vm.program
}

// IP returns the instruction pointer. After a failed run it points at the
// failing instruction.
func (vm *VirtualMachine) IP() int {
	return vm.ip
}

// Steps returns the number of instructions executed by the last run.
func (vm *VirtualMachine) Steps() int64 {
	return vm.steps
}

// RunID returns the id of the last run, or an empty string before the first.
func (vm *VirtualMachine) RunID() string {
	if vm.runID == uuid.Nil {
		return ""
	}
	return vm.runID.String()
}

var _ builtins.State = (*VirtualMachine)(nil)
