package errz

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	err := New(ErrBinding, E2001, SourceLocation{Filename: "a.kev", Line: 2, Column: 5}, "unknown variable %q", "x")
	require.Equal(t, `binding error: unknown variable "x" (a.kev:2:5)`, err.Error())

	err = New(ErrEncoding, E2003, SourceLocation{}, "literal %s out of range", "70000")
	require.Equal(t, "encoding error: literal 70000 out of range", err.Error())

	rt := NewRuntime(ErrType, E3001, 7, "LEN", "expected array, got %s", "number")
	require.Equal(t, "type error: expected array, got number (ip 7: LEN)", rt.Error())
	require.True(t, rt.IsFatal())
}

func TestFriendlyErrorMessage(t *testing.T) {
	err := New(ErrBinding, E2001, SourceLocation{
		Filename: "a.kev",
		Line:     1,
		Column:   5,
		Source:   "x = yy + 1;",
	}, "unknown variable %q", "yy").WithHint("did you mean 'y'?")
	expected := "binding error[E2001]: unknown variable \"yy\"\n" +
		"  --> a.kev:1:5\n" +
		"   | x = yy + 1;\n" +
		"   |     ^\n" +
		"   = hint: did you mean 'y'?\n"
	require.Equal(t, expected, err.FriendlyErrorMessage())
}

func TestUnwrapAndIsKind(t *testing.T) {
	err := New(ErrImport, E2008, SourceLocation{}, "cannot load %q", "lib").WithCause(io.ErrUnexpectedEOF)
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	wrapped := fmt.Errorf("compile: %w", err)
	require.True(t, IsKind(wrapped, ErrImport))
	require.False(t, IsKind(wrapped, ErrType))

	var merr *multierror.Error
	merr = multierror.Append(merr, New(ErrSyntax, E1001, SourceLocation{Line: 1, Column: 1}, "unexpected token"))
	require.True(t, IsKind(merr, ErrSyntax))
	require.False(t, IsKind(merr, ErrBounds))
}

func TestCodes(t *testing.T) {
	require.Equal(t, "parse", E1001.Category())
	require.Equal(t, "compile", E2005.Category())
	require.Equal(t, "runtime", E3002.Category())
	require.Equal(t, "index out of bounds", E3002.Description())
	require.Equal(t, "unknown error", Code("E9999").Description())
}

func TestSuggestSimilar(t *testing.T) {
	require.Equal(t, []string{"Print", "Println"}, SuggestSimilar("Printn", []string{"Print", "Println", "Len"}))
	require.Empty(t, SuggestSimilar("zzzzzz", []string{"Print", "Len"}))
	require.Equal(t, "did you mean 'count'?", FormatSuggestions([]string{"count"}))
	require.Equal(t, "did you mean one of: 'a', 'b'?", FormatSuggestions([]string{"a", "b"}))
	require.Equal(t, "", FormatSuggestions(nil))
}
