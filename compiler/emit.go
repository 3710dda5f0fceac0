package compiler

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/kevs-vm/kevs/ast"
	"github.com/kevs-vm/kevs/bytecode"
	"github.com/kevs-vm/kevs/errz"
)

// emitted is one instruction together with the source location it was
// compiled from.
type emitted struct {
	ins bytecode.Instruction
	loc bytecode.SourceLocation
}

// sequence is a compiled instruction sequence. Compile functions return
// sequences rather than appending to a shared buffer, so jump offsets are
// simply the lengths of the sequences they skip.
type sequence []emitted

func (c *Compiler) emit(node *ast.Node, ins bytecode.Instruction) emitted {
	return emitted{ins: ins, loc: c.sourceLocation(node)}
}

// Instructions returns the bare instructions of the sequence.
func (s sequence) Instructions() []bytecode.Instruction {
	out := make([]bytecode.Instruction, len(s))
	for i, e := range s {
		out[i] = e.ins
	}
	return out
}

func (s sequence) program(c *Compiler) *bytecode.Program {
	locations := make([]bytecode.SourceLocation, len(s))
	for i, e := range s {
		locations[i] = e.loc
	}
	return bytecode.NewProgram(bytecode.ProgramParams{
		Instructions:  s.Instructions(),
		Constants:     c.data.constants,
		Source:        c.source,
		Filename:      c.filename,
		Locations:     locations,
		RegisterNames: c.data.registerNames,
	})
}

// register converts n to a register operand, failing if it lies outside
// the register file.
func (c *Compiler) register(node *ast.Node, n int) (uint8, error) {
	if n < 0 || n >= RegisterCount {
		return 0, c.errorf(errz.ErrEncoding, errz.E2005, node,
			"expression too complex: register r%d is outside the register file (r0..r%d)", n, RegisterCount-1)
	}
	return uint8(n), nil
}

// offset converts the length of skipped code to a jump offset.
func (c *Compiler) offset(node *ast.Node, n int) (int16, error) {
	if n < math.MinInt16 || n > math.MaxInt16 {
		return 0, c.errorf(errz.ErrEncoding, errz.E2004, node,
			"jump offset %d does not fit in 16 bits", n)
	}
	return int16(n), nil
}

// sourceLine returns the 1-based line of source, or an empty string.
func sourceLine(source string, line int) string {
	if line < 1 || source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func dirOf(filename string) string {
	if filename == "" {
		return "."
	}
	return filepath.Dir(filename)
}
