package parser

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/kevs-vm/kevs/errz"
	"github.com/kevs-vm/kevs/internal/token"
)

func tokenTypeDescription(t token.Type) string {
	switch t {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return "identifier"
	case token.INT:
		return "number"
	case token.STRING:
		return "string"
	default:
		return string(t)
	}
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of file"
	case token.STRING:
		return fmt.Sprintf("%q", t.Literal)
	default:
		if t.Literal == "" {
			return string(t.Type)
		}
		return t.Literal
	}
}

// lexerErrorCode classifies an error reported by the lexer.
func lexerErrorCode(err error) errz.Code {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "unterminated string"):
		return errz.E1002
	case strings.HasPrefix(msg, "invalid escape"):
		return errz.E1004
	case strings.HasPrefix(msg, "unexpected character"):
		return errz.E1003
	default:
		return errz.E1001
	}
}

// formatErrors renders aggregated syntax errors as the first error followed
// by a count of the rest.
func formatErrors(errs []error) string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", errs[0].Error(), len(errs)-1)
	}
}

// Errors returns the individual syntax errors held by an error returned
// from Parse.
func Errors(err error) []*errz.Error {
	var result []*errz.Error
	if merr, ok := err.(*multierror.Error); ok {
		for _, e := range merr.Errors {
			if ze, ok := e.(*errz.Error); ok {
				result = append(result, ze)
			}
		}
		return result
	}
	if ze, ok := err.(*errz.Error); ok {
		result = append(result, ze)
	}
	return result
}

// FriendlyErrorMessage renders every syntax error held by err.
func FriendlyErrorMessage(err error) string {
	var sb strings.Builder
	for _, e := range Errors(err) {
		sb.WriteString(e.FriendlyErrorMessage())
	}
	if sb.Len() == 0 && err != nil {
		return err.Error()
	}
	return sb.String()
}
