// Package bytecode provides immutable representations of compiled kevs
// programs.
//
// This package defines the output of compilation: a flat sequence of
// fixed-width register-machine instructions plus the constant pool those
// instructions index into. A [Program] is created once by the compiler and
// may then be shared by any number of virtual machines.
//
// # Key Types
//
//   - [Instruction]: A 4-byte record holding an opcode and three operand bytes
//   - [Program]: An immutable instruction sequence with its constant pool
//   - [SourceLocation]: Maps an instruction to a source position (value type)
//
// # Instruction Layout
//
// Every instruction is exactly four bytes:
//
//	+--------+--------+--------+--------+
//	| opcode |   A    |   B    |   C    |
//	+--------+--------+--------+--------+
//
// Register operands occupy A, B and C. Instructions carrying a signed 16-bit
// immediate (LoadLiteral, the relative jumps and SysCall) store it big-endian
// in B and C. See [op.Shape] for which layout each opcode uses.
//
// # Immutability Guarantees
//
// A Program has no mutation methods. Its constructor copies input slices and
// index-based accessors are used for all collections:
//
//	program.InstructionAt(0)
//	program.ConstantAt(i)
//
// Arrays in the constant pool are mutable values. A virtual machine must
// deep-copy the pool before executing a program; see [Program.CloneConstants].
//
// # Serialization
//
// [Marshal] and [Unmarshal] convert a Program to and from a CBOR image.
// Encoding uses canonical mode, so compiling the same source twice produces
// byte-identical images.
package bytecode
