package errz

// Code is a stable identifier for an error. Codes are grouped by stage:
//   - E1xxx: Parse errors
//   - E2xxx: Compile errors
//   - E3xxx: Runtime errors
type Code string

const (
	// Parse errors (E1xxx)
	E1001 Code = "E1001" // Unexpected token
	E1002 Code = "E1002" // Unterminated string literal
	E1003 Code = "E1003" // Invalid character
	E1004 Code = "E1004" // Invalid escape sequence

	// Compile errors (E2xxx)
	E2001 Code = "E2001" // Undefined variable
	E2002 Code = "E2002" // Undefined function
	E2003 Code = "E2003" // Literal out of range
	E2004 Code = "E2004" // Jump offset out of range
	E2005 Code = "E2005" // Register file exhausted
	E2006 Code = "E2006" // Recursive function expansion
	E2007 Code = "E2007" // Wrong argument count
	E2008 Code = "E2008" // Sub-program not found
	E2009 Code = "E2009" // Malformed parse tree
	E2010 Code = "E2010" // Too many constants
	E2011 Code = "E2011" // Cyclic load

	// Runtime errors (E3xxx)
	E3001 Code = "E3001" // Type error
	E3002 Code = "E3002" // Index out of bounds
	E3003 Code = "E3003" // Unknown syscall
	E3004 Code = "E3004" // Unknown constant
	E3005 Code = "E3005" // Invalid opcode
	E3006 Code = "E3006" // Output failure
	E3007 Code = "E3007" // Jump target out of range
)

var codeDescriptions = map[Code]string{
	E1001: "unexpected token",
	E1002: "unterminated string literal",
	E1003: "invalid character",
	E1004: "invalid escape sequence",

	E2001: "undefined variable",
	E2002: "undefined function",
	E2003: "literal out of range",
	E2004: "jump offset out of range",
	E2005: "register file exhausted",
	E2006: "recursive function expansion",
	E2007: "wrong argument count",
	E2008: "sub-program not found",
	E2009: "malformed parse tree",
	E2010: "too many constants",
	E2011: "cyclic load",

	E3001: "type error",
	E3002: "index out of bounds",
	E3003: "unknown syscall",
	E3004: "unknown constant",
	E3005: "invalid opcode",
	E3006: "output failure",
	E3007: "jump target out of range",
}

// Description returns the short description for an error code.
func (c Code) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c Code) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c Code) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "parse"
	case '2':
		return "compile"
	case '3':
		return "runtime"
	default:
		return "unknown"
	}
}
