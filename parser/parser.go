// Package parser builds the parse tree of a kevs program.
//
// A parser is created by calling New() with a lexer as input. The parser should
// then be used only once, by calling parser.Parse() to produce the tree.
//
// The parser does not resolve operator precedence: an expression node holds
// its terms and operators in source order, and the compiler climbs them.
package parser

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/kevs-vm/kevs/ast"
	"github.com/kevs-vm/kevs/errz"
	"github.com/kevs-vm/kevs/internal/lexer"
	"github.com/kevs-vm/kevs/internal/token"
)

// Parse the provided input as kevs source code and return the parse tree.
// This is shorthand way to create a Lexer and Parser and then call Parse on
// that.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Node, error) {
	var cfg Parser
	for _, opt := range options {
		opt(&cfg)
	}
	l := lexer.New(input, lexer.WithFile(cfg.filename))
	p := New(l, options...)
	return p.Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name recorded in positions and errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth of blocks and parentheses.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 10

// Parser object
type Parser struct {
	// l is our lexer
	l *lexer.Lexer

	// prevToken holds the previous token, which we already processed.
	prevToken token.Token

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	// parsing errors collected during parsing
	errors []*errz.Error

	// The filename of the input
	filename string

	// Current nesting depth
	depth int

	// Maximum allowed nesting depth
	maxDepth int
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{l: l, maxDepth: DefaultMaxDepth}
	for _, opt := range options {
		opt(p)
	}
	if p.filename != "" {
		l.SetFilename(p.filename)
	}

	// Prime the token pump
	p.nextToken() // makes curToken=<empty>, peekToken=token[0]
	p.nextToken() // makes curToken=token[0], peekToken=token[1]
	return p
}

func (p *Parser) nextToken() {
	var err error
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	if p.curToken.Type == token.EOF {
		// Do not read past the end of the input.
		p.peekToken = p.curToken
		return
	}
	p.peekToken, err = p.l.Next()
	if err == nil {
		return
	}
	// All lexer errors are syntax errors. The offending token is ILLEGAL,
	// which no rule accepts, so the statement holding it fails too.
	p.addError(errz.New(errz.ErrSyntax, lexerErrorCode(err), p.location(p.peekToken), "%s", err.Error()))
}

// Parse the program that is provided via the lexer. Returns the tree and any
// errors encountered. If there are errors, the tree may be partial (holding
// only the statements that parsed successfully). Errors are returned
// together as a *multierror.Error of *errz.Error values.
func (p *Parser) Parse(ctx context.Context) (*ast.Node, error) {
	start := p.curToken.StartPosition
	var statements []*ast.Node
	for !p.curTokenIs(token.EOF) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if p.tooManyErrors() {
			break
		}
		stmt := p.parseStatement()
		if stmt != nil {
			statements = append(statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}
	program := ast.New(ast.Program, ast.Span{Start: start, End: p.curToken.EndPosition}, statements...)
	if len(p.errors) > 0 {
		var result *multierror.Error
		for _, err := range p.errors {
			result = multierror.Append(result, err)
		}
		result.ErrorFormat = formatErrors
		return program, result
	}
	return program, nil
}

func (p *Parser) addError(err *errz.Error) {
	p.errors = append(p.errors, err)
}

// tooManyErrors returns true if error limit has been reached.
func (p *Parser) tooManyErrors() bool {
	return len(p.errors) >= MaxErrors
}

// synchronize skips tokens until a statement boundary is reached.
// This is used for error recovery to continue parsing after an error.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) || p.curTokenIs(token.RBRACE) {
			return
		}
		p.nextToken()
	}
}

func (p *Parser) location(t token.Token) errz.SourceLocation {
	return errz.SourceLocation{
		Filename: p.l.Filename(),
		Line:     t.StartPosition.LineNumber(),
		Column:   t.StartPosition.ColumnNumber(),
		Source:   p.l.GetLineText(t),
	}
}

// setTokenError records a syntax error located at t. It returns nil so
// callers can return its result directly.
func (p *Parser) setTokenError(t token.Token, msg string, args ...any) *ast.Node {
	p.addError(errz.New(errz.ErrSyntax, errz.E1001, p.location(t), msg, args...))
	return nil
}

func (p *Parser) peekError(context string, expected token.Type, got token.Token) {
	if got.Type == token.ILLEGAL {
		// Already reported by the lexer.
		return
	}
	p.setTokenError(got, "unexpected %s while parsing %s (expected %s)",
		tokenDescription(got), context, tokenTypeDescription(expected))
}

// curTokenIs returns true if the current token has the given type.
func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

// peekTokenIs returns true if the next token has the given type.
func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek validates if the next token is of the given type, and advances if
// it is. If it's a different type, then an error is stored.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(context, t, p.peekToken)
	return false
}

// enter increments the nesting depth, recording an error when the limit is
// exceeded.
func (p *Parser) enter() bool {
	p.depth++
	if p.depth > p.maxDepth {
		p.depth--
		p.setTokenError(p.curToken, "maximum nesting depth of %d exceeded", p.maxDepth)
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}

func span(start, end token.Token) ast.Span {
	return ast.Span{Start: start.StartPosition, End: end.EndPosition}
}

func leaf(rule ast.Rule, t token.Token) *ast.Node {
	return ast.Leaf(rule, t.Literal, span(t, t))
}
