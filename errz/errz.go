// Package errz defines the structured errors reported by the kevs parser,
// compiler and virtual machine.
//
// Every detectable failure in the toolchain is fatal: compilation or
// execution stops at the first error (the parser is the exception, it
// collects every syntax error it finds). Callers distinguish failures by
// ErrorKind, either with errors.As or with the IsKind helper.
package errz

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrSyntax indicates the source text does not match the grammar.
	ErrSyntax ErrorKind = iota
	// ErrBinding indicates an unknown variable, function or sub-program.
	ErrBinding
	// ErrType indicates a value with the wrong tag reached an operation.
	ErrType
	// ErrBounds indicates an array index or register window out of range.
	ErrBounds
	// ErrEncoding indicates a value that does not fit its fixed-width
	// instruction field: literals, jump offsets and registers.
	ErrEncoding
	// ErrImport indicates a sub-program could not be read.
	ErrImport
	// ErrRuntime indicates any other failure during execution.
	ErrRuntime
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax error"
	case ErrBinding:
		return "binding error"
	case ErrType:
		return "type error"
	case ErrBounds:
		return "bounds error"
	case ErrEncoding:
		return "encoding error"
	case ErrImport:
		return "import error"
	case ErrRuntime:
		return "runtime error"
	default:
		return "error"
	}
}

// SourceLocation represents a position in source code.
type SourceLocation struct {
	Filename string
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Source   string // The line of source code
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// Error is the error type returned by every stage of the toolchain.
type Error struct {
	Kind     ErrorKind
	Code     Code
	Message  string
	Location SourceLocation

	// IP is the instruction pointer of a runtime error, or -1.
	IP int
	// Instruction is the text of the failing instruction for runtime errors.
	Instruction string

	Hint  string
	Cause error
}

// New returns an Error located in source code.
func New(kind ErrorKind, code Code, loc SourceLocation, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
		IP:       -1,
	}
}

// NewRuntime returns an Error raised while executing the instruction at ip.
func NewRuntime(kind ErrorKind, code Code, ip int, instruction string, format string, args ...any) *Error {
	return &Error{
		Kind:        kind,
		Code:        code,
		Message:     fmt.Sprintf(format, args...),
		IP:          ip,
		Instruction: instruction,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.IP >= 0:
		return fmt.Sprintf("%s: %s (ip %d: %s)", e.Kind, e.Message, e.IP, e.Instruction)
	case e.Location.IsZero():
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	default:
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Location)
	}
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsFatal reports whether the error is unrecoverable. All kevs errors are.
func (e *Error) IsFatal() bool {
	return true
}

// WithCause wraps the error with a cause.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithLocation sets the source location of the error.
func (e *Error) WithLocation(loc SourceLocation) *Error {
	e.Location = loc
	return e
}

// WithHint attaches a "did you mean" style hint.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// FriendlyErrorMessage returns a human-friendly error message with the
// offending source line and a caret under the column, when known.
func (e *Error) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("%s[%s]: %s\n", e.Kind, e.Code, e.Message))
	if !e.Location.IsZero() {
		msg.WriteString(fmt.Sprintf("  --> %s\n", e.Location))
	}
	if e.IP >= 0 {
		msg.WriteString(fmt.Sprintf("  --> ip %d: %s\n", e.IP, e.Instruction))
	}
	if e.Location.Source != "" {
		msg.WriteString("   | ")
		msg.WriteString(e.Location.Source)
		msg.WriteString("\n")
		if e.Location.Column > 0 {
			msg.WriteString("   | ")
			msg.WriteString(strings.Repeat(" ", e.Location.Column-1))
			msg.WriteString("^\n")
		}
	}
	if e.Hint != "" {
		msg.WriteString("   = hint: ")
		msg.WriteString(e.Hint)
		msg.WriteString("\n")
	}
	return msg.String()
}

// IsKind reports whether err, or any error it wraps, is an *Error of the
// given kind. Aggregated syntax errors are searched too.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) && e.Kind == kind {
		return true
	}
	type multi interface{ WrappedErrors() []error }
	if m, ok := err.(multi); ok {
		for _, inner := range m.WrappedErrors() {
			if IsKind(inner, kind) {
				return true
			}
		}
	}
	return false
}
