package bytecode

import (
	"testing"

	"github.com/kevs-vm/kevs/object"
)

func TestNewProgramImmutability(t *testing.T) {
	instructions := []Instruction{LoadLiteral(0, 1)}
	str := object.NewString("ab")
	constants := []object.Object{str}
	names := []string{"x"}

	program := NewProgram(ProgramParams{
		Instructions:  instructions,
		Constants:     constants,
		RegisterNames: names,
	})

	instructions[0] = LoadLiteral(0, 99)
	names[0] = "modified"
	if err := str.Set(0, object.NewCharacter('z')); err != nil {
		t.Fatal(err)
	}

	if program.InstructionAt(0).Imm() != 1 {
		t.Errorf("expected immediate 1, got %d", program.InstructionAt(0).Imm())
	}
	if program.RegisterNameAt(0) != "x" {
		t.Errorf("expected register name 'x', got %q", program.RegisterNameAt(0))
	}
	if program.ConstantAt(0).Display() != "ab" {
		t.Errorf("expected constant 'ab', got %q", program.ConstantAt(0).Display())
	}
}

func TestCloneConstantsIsolation(t *testing.T) {
	program := NewProgram(ProgramParams{
		Constants: []object.Object{object.NewString("ab"), object.NewNumber(7)},
	})
	first := program.CloneConstants()
	if err := first[0].(*object.Array).Set(0, object.NewCharacter('X')); err != nil {
		t.Fatal(err)
	}
	second := program.CloneConstants()
	if second[0].Display() != "ab" {
		t.Errorf("expected clone to be isolated, got %q", second[0].Display())
	}
	if program.ConstantAt(0).Display() != "ab" {
		t.Errorf("expected program pool to be untouched, got %q", program.ConstantAt(0).Display())
	}
}

func TestProgramAccessors(t *testing.T) {
	program := NewProgram(ProgramParams{
		Instructions:  []Instruction{LoadLiteral(0, 1), LoadLiteral(1, 2)},
		Source:        "a = 1;\nb = 2;",
		Filename:      "test.kev",
		Locations:     []SourceLocation{{Line: 1, Column: 1}, {Line: 2, Column: 1}},
		RegisterNames: []string{"a", "b"},
	})
	if program.Filename() != "test.kev" {
		t.Errorf("expected filename 'test.kev', got %q", program.Filename())
	}
	if loc := program.LocationAt(1); loc.Line != 2 {
		t.Errorf("expected line 2, got %d", loc.Line)
	}
	if !program.LocationAt(5).IsZero() {
		t.Error("expected zero location for out of range ip")
	}
	if program.GetSourceLine(2) != "b = 2;" {
		t.Errorf("unexpected source line %q", program.GetSourceLine(2))
	}
	if reg, ok := program.Register("b"); !ok || reg != 1 {
		t.Errorf("expected b in register 1, got %d (%v)", reg, ok)
	}
	if _, ok := program.Register("c"); ok {
		t.Error("expected c to be unbound")
	}
	stats := program.Stats()
	if stats.InstructionCount != 2 || stats.RegisterCount != 2 || stats.SourceBytes != 13 {
		t.Errorf("unexpected stats %+v", stats)
	}
}
