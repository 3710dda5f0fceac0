package bytecode

import "fmt"

// SourceLocation represents a position in source code.
// Filename and source text are stored once on the Program.
type SourceLocation struct {
	Line   int `cbor:"l"` // 1-based line number
	Column int `cbor:"c"` // 1-based column number
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}
