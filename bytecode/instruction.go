package bytecode

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/kevs-vm/kevs/op"
)

// InstructionSize is the width of one encoded instruction in bytes.
const InstructionSize = 4

// Instruction is a single fixed-width register-machine instruction.
type Instruction struct {
	Op op.Code
	A  uint8
	B  uint8
	C  uint8
}

// The instruction must stay exactly InstructionSize bytes wide. Either array
// length below goes negative, and fails to compile, if it does not.
var (
	_ [InstructionSize - unsafe.Sizeof(Instruction{})]struct{}
	_ [unsafe.Sizeof(Instruction{}) - InstructionSize]struct{}
)

func abc(code op.Code, a, b, c uint8) Instruction {
	return Instruction{Op: code, A: a, B: b, C: c}
}

func withImm(code op.Code, a uint8, imm int16) Instruction {
	u := uint16(imm)
	return Instruction{Op: code, A: a, B: uint8(u >> 8), C: uint8(u)}
}

// NewBinary returns an arithmetic or comparison instruction computing
// dest = in1 <op> in2.
func NewBinary(code op.Code, dest, in1, in2 uint8) Instruction {
	return abc(code, dest, in1, in2)
}

// LoadLiteral loads the number imm into register dest.
func LoadLiteral(dest uint8, imm int16) Instruction {
	return withImm(op.LoadLiteral, dest, imm)
}

// CopyRegister copies register src into register dest.
func CopyRegister(dest, src uint8) Instruction {
	return abc(op.CopyRegister, dest, src, 0)
}

// CopyConstant loads the constant whose pool index is held in register
// index into register dest.
func CopyConstant(dest, index uint8) Instruction {
	return abc(op.CopyConstant, dest, index, 0)
}

// JumpIfFalse skips offset+1 instructions forward (or back, when negative)
// if register test holds false.
func JumpIfFalse(test uint8, offset int16) Instruction {
	return withImm(op.JumpIfFalseRelative, test, offset)
}

// JumpIfTrue is the counterpart of JumpIfFalse.
func JumpIfTrue(test uint8, offset int16) Instruction {
	return withImm(op.JumpIfTrueRelative, test, offset)
}

// ArrayGet loads element r[index] of the array in register array into dest.
func ArrayGet(dest, array, index uint8) Instruction {
	return abc(op.ArrayGet, dest, array, index)
}

// ArrayAssignment stores register value at element r[index] of the array in
// register array.
func ArrayAssignment(array, index, value uint8) Instruction {
	return abc(op.ArrayAssignment, array, index, value)
}

// SysCall invokes the native function with the given id. Its argument window
// starts at register args.
func SysCall(args uint8, id int16) Instruction {
	return withImm(op.SysCall, args, id)
}

// Imm returns the signed immediate stored big-endian in B and C.
func (i Instruction) Imm() int16 {
	return int16(uint16(i.B)<<8 | uint16(i.C))
}

// Shape returns the operand layout of the instruction's opcode.
func (i Instruction) Shape() op.Shape {
	return op.GetInfo(i.Op).Shape
}

// Operands returns the decoded operands: three registers, two registers, or
// a register and the immediate, depending on the opcode's shape.
func (i Instruction) Operands() []int {
	switch i.Shape() {
	case op.ShapeAB:
		return []int{int(i.A), int(i.B)}
	case op.ShapeAImm:
		return []int{int(i.A), int(i.Imm())}
	default:
		return []int{int(i.A), int(i.B), int(i.C)}
	}
}

// String renders the instruction the way the disassembler lists it, for
// example "ADD r0, r0, r1" or "LOAD_LITERAL r2, 14".
func (i Instruction) String() string {
	name := i.Op.String()
	switch i.Shape() {
	case op.ShapeAB:
		return fmt.Sprintf("%s r%d, r%d", name, i.A, i.B)
	case op.ShapeAImm:
		return fmt.Sprintf("%s r%d, %d", name, i.A, i.Imm())
	default:
		return fmt.Sprintf("%s r%d, r%d, r%d", name, i.A, i.B, i.C)
	}
}

// AppendInstruction appends the encoded form of i to dst.
func AppendInstruction(dst []byte, i Instruction) []byte {
	return append(dst, byte(i.Op), i.A, i.B, i.C)
}

// EncodeInstructions encodes an instruction sequence to its flat byte form.
func EncodeInstructions(instructions []Instruction) []byte {
	buf := make([]byte, 0, len(instructions)*InstructionSize)
	for _, i := range instructions {
		buf = AppendInstruction(buf, i)
	}
	return buf
}

// DecodeInstructions decodes a flat byte form produced by EncodeInstructions.
// Every opcode must belong to the instruction set.
func DecodeInstructions(data []byte) ([]Instruction, error) {
	if len(data)%InstructionSize != 0 {
		return nil, fmt.Errorf("bytecode: instruction stream length %d is not a multiple of %d",
			len(data), InstructionSize)
	}
	instructions := make([]Instruction, 0, len(data)/InstructionSize)
	for off := 0; off < len(data); off += InstructionSize {
		i := Instruction{Op: op.Code(data[off]), A: data[off+1], B: data[off+2], C: data[off+3]}
		if !i.Op.IsValid() {
			return nil, fmt.Errorf("bytecode: invalid opcode %d at instruction %d",
				data[off], off/InstructionSize)
		}
		instructions = append(instructions, i)
	}
	return instructions, nil
}

// Word returns the instruction as a single big-endian 32-bit word.
func (i Instruction) Word() uint32 {
	var buf [InstructionSize]byte
	AppendInstruction(buf[:0], i)
	return binary.BigEndian.Uint32(buf[:])
}
