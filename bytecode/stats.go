package bytecode

// Stats contains statistics about a compiled program.
// This is useful for auditing scripts before execution.
type Stats struct {
	// InstructionCount is the total number of instructions.
	InstructionCount int

	// ConstantCount is the number of constants in the constant pool.
	ConstantCount int

	// RegisterCount is the number of registers bound to variables.
	RegisterCount int

	// SourceBytes is the size of the original source code in bytes.
	SourceBytes int
}
