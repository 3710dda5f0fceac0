package bytecode

import (
	"strings"

	"github.com/kevs-vm/kevs/object"
)

// Program is a compiled kevs program: a flat instruction sequence and the
// constant pool it indexes into. It is immutable after creation and safe for
// concurrent use, provided each run works on CloneConstants.
type Program struct {
	instructions []Instruction
	constants    []object.Object
	source       string
	filename     string

	// Source map: one location per instruction for error reporting
	locations []SourceLocation

	// Variable name per bound register, for debugging and embedding
	registerNames []string
}

// ProgramParams contains parameters for creating a new Program.
type ProgramParams struct {
	Instructions  []Instruction
	Constants     []object.Object
	Source        string
	Filename      string
	Locations     []SourceLocation
	RegisterNames []string
}

// NewProgram creates a new immutable Program from the given parameters.
// Input slices are copied; arrays in the constant pool are deep-copied.
func NewProgram(params ProgramParams) *Program {
	return &Program{
		instructions:  copyInstructions(params.Instructions),
		constants:     cloneConstants(params.Constants),
		source:        params.Source,
		filename:      params.Filename,
		locations:     copyLocations(params.Locations),
		registerNames: copyStrings(params.RegisterNames),
	}
}

// InstructionCount returns the number of instructions.
func (p *Program) InstructionCount() int {
	return len(p.instructions)
}

// InstructionAt returns the instruction at the given index.
func (p *Program) InstructionAt(index int) Instruction {
	return p.instructions[index]
}

// ConstantCount returns the number of constants.
func (p *Program) ConstantCount() int {
	return len(p.constants)
}

// ConstantAt returns the constant at the given index. Arrays returned here
// belong to the program and must not be mutated.
func (p *Program) ConstantAt(index int) object.Object {
	return p.constants[index]
}

// CloneConstants returns a private copy of the constant pool for one run.
// No array in the result is shared with the program or with other clones.
func (p *Program) CloneConstants() []object.Object {
	return cloneConstants(p.constants)
}

// Source returns the source code the program was compiled from.
func (p *Program) Source() string {
	return p.source
}

// Filename returns the source filename.
func (p *Program) Filename() string {
	return p.filename
}

// LocationAt returns the source location for the instruction at the given index.
func (p *Program) LocationAt(ip int) SourceLocation {
	if ip < 0 || ip >= len(p.locations) {
		return SourceLocation{}
	}
	return p.locations[ip]
}

// RegisterCount returns the number of registers bound to variables.
func (p *Program) RegisterCount() int {
	return len(p.registerNames)
}

// RegisterNameAt returns the variable bound to register i, or an empty
// string if the register holds no variable.
func (p *Program) RegisterNameAt(i int) string {
	if i < 0 || i >= len(p.registerNames) {
		return ""
	}
	return p.registerNames[i]
}

// Register returns the register bound to the named top-level variable.
func (p *Program) Register(name string) (uint8, bool) {
	for i, n := range p.registerNames {
		if n == name {
			return uint8(i), true
		}
	}
	return 0, false
}

// GetSourceLine returns the source code line at the given 1-based line number.
func (p *Program) GetSourceLine(lineNum int) string {
	if lineNum < 1 || p.source == "" {
		return ""
	}
	lines := strings.Split(p.source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// Stats returns statistics about this program.
func (p *Program) Stats() Stats {
	return Stats{
		InstructionCount: len(p.instructions),
		ConstantCount:    len(p.constants),
		RegisterCount:    len(p.registerNames),
		SourceBytes:      len(p.source),
	}
}
