// Package dis supports analysis of kevs programs by disassembling them.
// It annotates each instruction with what can be known statically: the
// constant a COPY_CONSTANT loads, the variables bound to registers, the
// target of a jump and the name of a syscall.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"

	"github.com/kevs-vm/kevs/builtins"
	"github.com/kevs-vm/kevs/bytecode"
	"github.com/kevs-vm/kevs/internal/table"
	"github.com/kevs-vm/kevs/op"
)

// Instruction is a single disassembled instruction.
type Instruction struct {
	Offset     int    `json:"offset"`
	Name       string `json:"opcode"`
	Operands   []int  `json:"operands"`
	Annotation string `json:"info,omitempty"`
	Text       string `json:"text"`
	Constant   any    `json:"constant,omitempty"`
	Line       int    `json:"line,omitempty"`

	kind annotationKind
}

type annotationKind int

const (
	annotationNone annotationKind = iota
	annotationConstant
	annotationVariable
	annotationJump
	annotationSyscall
)

// Disassemble returns a parsed representation of the given program. Syscall
// names are resolved against registry, which may be nil.
func Disassemble(program *bytecode.Program, registry *builtins.Registry) ([]Instruction, error) {
	count := program.InstructionCount()
	instructions := make([]Instruction, 0, count)
	// Literal held by each register, as far as straight-line code shows.
	literals := map[uint8]int16{}
	for i := 0; i < count; i++ {
		ins := program.InstructionAt(i)
		info := op.GetInfo(ins.Op)
		if info.Name == "" {
			return nil, fmt.Errorf("invalid opcode %d at offset %d", ins.Op, i)
		}
		result := Instruction{
			Offset:   i,
			Name:     info.Name,
			Operands: ins.Operands(),
			Text:     ins.String(),
			Line:     program.LocationAt(i).Line,
		}
		switch ins.Op {
		case op.LoadLiteral:
			result.Annotation = variableName(program, ins.A)
			result.kind = annotationVariable
		case op.CopyRegister:
			result.Annotation = assignment(program, ins.A, ins.B)
			result.kind = annotationVariable
		case op.CopyConstant:
			index, ok := literals[ins.B]
			if !ok {
				break
			}
			if int(index) < 0 || int(index) >= program.ConstantCount() {
				return nil, fmt.Errorf("constant index out of range: %d", index)
			}
			value := program.ConstantAt(int(index))
			result.Constant = value.Interface()
			result.Annotation = value.Inspect()
			result.kind = annotationConstant
		case op.JumpIfFalseRelative, op.JumpIfTrueRelative:
			result.Annotation = fmt.Sprintf("-> %d", i+int(ins.Imm())+1)
			result.kind = annotationJump
		case op.SysCall:
			if registry != nil {
				result.Annotation = registry.Name(ins.Imm())
			}
			if result.Annotation == "" {
				result.Annotation = fmt.Sprintf("syscall#%d", ins.Imm())
			}
			result.kind = annotationSyscall
		default:
			if info.IsBinary() {
				result.Annotation = variableName(program, ins.A)
				result.kind = annotationVariable
			}
		}
		track(literals, ins)
		instructions = append(instructions, result)
	}
	return instructions, nil
}

// track records which registers hold a known literal after ins.
func track(literals map[uint8]int16, ins bytecode.Instruction) {
	switch ins.Op {
	case op.LoadLiteral:
		literals[ins.A] = ins.Imm()
	case op.CopyRegister:
		if v, ok := literals[ins.B]; ok {
			literals[ins.A] = v
		} else {
			delete(literals, ins.A)
		}
	case op.JumpIfFalseRelative, op.JumpIfTrueRelative, op.SysCall:
		clear(literals)
	case op.ArrayAssignment:
	default:
		delete(literals, ins.A)
	}
}

func variableName(program *bytecode.Program, register uint8) string {
	return program.RegisterNameAt(int(register))
}

func assignment(program *bytecode.Program, dest, src uint8) string {
	d, s := variableName(program, dest), variableName(program, src)
	switch {
	case d != "" && s != "":
		return d + " = " + s
	case d != "":
		return d
	case s != "":
		return s
	}
	return ""
}

// Listing writes one line per instruction: its index, two spaces and the
// instruction text.
func Listing(program *bytecode.Program, w io.Writer) error {
	for i := 0; i < program.InstructionCount(); i++ {
		if _, err := fmt.Fprintf(w, "%d  %s\n", i, program.InstructionAt(i)); err != nil {
			return err
		}
	}
	return nil
}

var (
	bold     = color.New(color.Bold).SprintFunc()
	constant = color.New(color.FgGreen).SprintFunc()
	variable = color.New(color.FgHiCyan).SprintFunc()
	jump     = color.New(color.FgYellow).SprintFunc()
	syscall  = color.New(color.FgMagenta).SprintFunc()
)

// Print a table of the given instructions to the given writer.
func Print(instructions []Instruction, writer io.Writer) error {
	lines := make([][]string, 0, len(instructions))
	for _, instr := range instructions {
		lines = append(lines, []string{
			fmt.Sprintf("%d", instr.Offset),
			bold(instr.Name),
			formatOperands(instr.Operands),
			colorize(instr),
		})
	}
	return table.NewTable(writer).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERANDS", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}

func colorize(instr Instruction) string {
	if instr.Annotation == "" {
		return ""
	}
	switch instr.kind {
	case annotationConstant:
		text := instr.Annotation
		if len(text) > 80 {
			text = text[:77] + "..."
		}
		return constant(text)
	case annotationJump:
		return jump(instr.Annotation)
	case annotationSyscall:
		return syscall(instr.Annotation)
	}
	return variable(instr.Annotation)
}

// PrintJSON writes the instructions as indented JSON, colored when the
// writer is a terminal and color is enabled.
func PrintJSON(instructions []Instruction, writer io.Writer) error {
	formatter := prettyjson.NewFormatter()
	formatter.DisabledColor = color.NoColor
	formatter.Indent = 2
	data, err := formatter.Marshal(instructions)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer, string(data))
	return err
}

func formatOperands(operands []int) string {
	var sb strings.Builder
	for i, operand := range operands {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d", operand)
	}
	return sb.String()
}
