package bytecode

import "github.com/kevs-vm/kevs/object"

// copyStrings returns a copy of the given string slice.
func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

// copyInstructions returns a copy of the given instruction slice.
func copyInstructions(src []Instruction) []Instruction {
	if src == nil {
		return nil
	}
	dst := make([]Instruction, len(src))
	copy(dst, src)
	return dst
}

// copyLocations returns a copy of the given location slice.
func copyLocations(src []SourceLocation) []SourceLocation {
	if src == nil {
		return nil
	}
	dst := make([]SourceLocation, len(src))
	copy(dst, src)
	return dst
}

// cloneConstants returns a copy of the given constants where every array is
// deep-copied, so the result shares no mutable state with src.
func cloneConstants(src []object.Object) []object.Object {
	if src == nil {
		return nil
	}
	dst := make([]object.Object, len(src))
	for i, c := range src {
		if arr, ok := c.(*object.Array); ok {
			dst[i] = arr.Clone()
		} else {
			dst[i] = c
		}
	}
	return dst
}
