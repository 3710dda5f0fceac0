package vm

import (
	"github.com/kevs-vm/kevs/bytecode"
)

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every instruction.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	StepNone

	// StepSampled calls OnStep every N instructions.
	StepSampled

	// StepOnLine calls OnStep when the source location changes.
	StepOnLine
)

// ObserverConfig specifies what events an observer wants to receive.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of instructions between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int

	// ObserveSyscalls enables OnSyscall callbacks.
	ObserveSyscalls bool
}

// NewObserverConfig creates a config with safe defaults.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:        mode,
		SampleInterval:  1000,
		ObserveSyscalls: true,
	}
}

// NormalizeConfig validates and clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer is an interface for observing VM execution events. It can be
// used for tracing, profiling or coverage without modifying the VM.
//
// Observer methods are called synchronously during execution, so
// implementations should be fast. Returning false from any method halts
// execution with ErrHalted.
type Observer interface {
	// Config returns the observer's configuration. Called once when the
	// VM is created.
	Config() ObserverConfig

	// OnStep is called before an instruction executes, based on the
	// StepMode in the observer's config.
	OnStep(event StepEvent) bool

	// OnSyscall is called before a native function runs, if
	// ObserveSyscalls is set.
	OnSyscall(event SyscallEvent) bool
}

// StepEvent describes the instruction about to execute.
type StepEvent struct {
	// IP is the index of the instruction.
	IP int

	Instruction bytecode.Instruction

	// Location is the source location of the instruction, if known.
	Location bytecode.SourceLocation
}

// SyscallEvent describes a native function invocation.
type SyscallEvent struct {
	ID   int16
	Name string

	// Window is the first register of the argument window.
	Window uint8

	Location bytecode.SourceLocation
}

// NoOpObserver is an Observer that does nothing. Embed it to provide
// defaults for methods you don't need.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepAll)
}

func (NoOpObserver) OnStep(StepEvent) bool       { return true }
func (NoOpObserver) OnSyscall(SyscallEvent) bool { return true }

var _ Observer = NoOpObserver{}

// notifyStep reports the instruction at vm.ip to the observer according to
// its step mode.
func (vm *VirtualMachine) notifyStep(ins bytecode.Instruction) bool {
	loc := vm.program.LocationAt(vm.ip)
	switch vm.observerCfg.StepMode {
	case StepNone:
		return true
	case StepSampled:
		vm.sampleCount++
		if vm.sampleCount < vm.observerCfg.SampleInterval {
			return true
		}
		vm.sampleCount = 0
	case StepOnLine:
		if loc.Line == 0 || loc.Line == vm.lastLocation.Line {
			return true
		}
		vm.lastLocation = loc
	}
	return vm.observer.OnStep(StepEvent{IP: vm.ip, Instruction: ins, Location: loc})
}
