// Package op defines the opcodes executed by the kevs virtual machine.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint8

const (
	Invalid Code = 0

	// Arithmetic
	Add      Code = 1
	Subtract Code = 2
	Multiply Code = 3
	Divide   Code = 4
	Power    Code = 5

	// Comparison
	Equal            Code = 10
	NotEqual         Code = 11
	GreaterThan      Code = 12
	GreaterThanEqual Code = 13
	LessThan         Code = 14
	LessThanEqual    Code = 15

	// Load
	LoadLiteral  Code = 20
	CopyRegister Code = 21
	CopyConstant Code = 22

	// Jump
	JumpIfFalseRelative Code = 30
	JumpIfTrueRelative  Code = 31

	// Arrays
	ArrayGet        Code = 40
	ArrayAssignment Code = 41

	// Host
	SysCall Code = 50
)

// Shape describes how the three operand bytes of an instruction are used.
type Shape uint8

const (
	// ShapeABC uses all three operand bytes as registers.
	ShapeABC Shape = iota + 1
	// ShapeAB uses the first two operand bytes as registers.
	ShapeAB
	// ShapeAImm uses the first byte as a register and the remaining two as
	// a signed 16-bit immediate.
	ShapeAImm
)

// Info contains information about an opcode.
type Info struct {
	Code  Code
	Name  string
	Shape Shape
}

// IsBinary returns true for opcodes that combine two registers into a
// destination register: arithmetic and comparisons.
func (i Info) IsBinary() bool {
	return i.Code.IsArithmetic() || i.Code.IsComparison()
}

var infos = make([]Info, 256)

func init() {
	ops := []Info{
		{Add, "ADD", ShapeABC},
		{Subtract, "SUBTRACT", ShapeABC},
		{Multiply, "MULTIPLY", ShapeABC},
		{Divide, "DIVIDE", ShapeABC},
		{Power, "POWER", ShapeABC},
		{Equal, "EQUAL", ShapeABC},
		{NotEqual, "NOT_EQUAL", ShapeABC},
		{GreaterThan, "GREATER_THAN", ShapeABC},
		{GreaterThanEqual, "GREATER_THAN_EQUAL", ShapeABC},
		{LessThan, "LESS_THAN", ShapeABC},
		{LessThanEqual, "LESS_THAN_EQUAL", ShapeABC},
		{LoadLiteral, "LOAD_LITERAL", ShapeAImm},
		{CopyRegister, "COPY_REGISTER", ShapeAB},
		{CopyConstant, "COPY_CONSTANT", ShapeAB},
		{JumpIfFalseRelative, "JUMP_IF_FALSE_RELATIVE", ShapeAImm},
		{JumpIfTrueRelative, "JUMP_IF_TRUE_RELATIVE", ShapeAImm},
		{ArrayGet, "ARRAY_GET", ShapeABC},
		{ArrayAssignment, "ARRAY_ASSIGNMENT", ShapeABC},
		{SysCall, "SYSCALL", ShapeAImm},
	}
	for _, o := range ops {
		infos[o.Code] = o
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes
// return an Info with an empty Name.
func GetInfo(code Code) Info {
	return infos[code]
}

// IsValid returns true if the opcode is a member of the instruction set.
func (c Code) IsValid() bool {
	return infos[c].Name != ""
}

// IsArithmetic returns true for Add, Subtract, Multiply, Divide and Power.
func (c Code) IsArithmetic() bool {
	return c >= Add && c <= Power
}

// IsComparison returns true for the six comparison opcodes.
func (c Code) IsComparison() bool {
	return c >= Equal && c <= LessThanEqual
}

// String returns the opcode name, for example "LOAD_LITERAL".
func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "INVALID"
}

// Symbol returns the source operator for arithmetic and comparison opcodes.
// For example "+" for Add and "<=" for LessThanEqual.
func (c Code) Symbol() string {
	switch c {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Power:
		return "^"
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case GreaterThan:
		return ">"
	case GreaterThanEqual:
		return ">="
	case LessThan:
		return "<"
	case LessThanEqual:
		return "<="
	default:
		return ""
	}
}
