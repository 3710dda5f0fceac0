// Package lexer converts kevs source text into a stream of tokens.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kevs-vm/kevs/internal/token"
)

// Lexer holds the state of a scan over one input.
type Lexer struct {
	input     string
	position  int  // offset of the current character
	next      int  // offset of the next character
	ch        rune // current character, 0 at end of input
	line      int
	lineStart int
	file      string
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithFile sets the filename recorded in token positions.
func WithFile(file string) Option {
	return func(l *Lexer) {
		l.file = file
	}
}

// New returns a Lexer for the given input.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{input: input}
	for _, opt := range opts {
		opt(l)
	}
	l.readChar()
	return l
}

// Filename returns the filename recorded in token positions.
func (l *Lexer) Filename() string {
	return l.file
}

// SetFilename sets the filename recorded in token positions.
func (l *Lexer) SetFilename(file string) {
	l.file = file
}

// Position returns the position of the current character.
func (l *Lexer) Position() token.Position {
	return token.Position{
		Char:      l.position,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.position - l.lineStart,
		File:      l.file,
	}
}

// GetLineText returns the full source line the token starts on.
func (l *Lexer) GetLineText(tok token.Token) string {
	start := tok.StartPosition.LineStart
	if start > len(l.input) {
		return ""
	}
	end := strings.IndexByte(l.input[start:], '\n')
	if end < 0 {
		return l.input[start:]
	}
	return l.input[start : start+end]
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.next
	}
	l.position = l.next
	if l.next >= len(l.input) {
		l.ch = 0
		return
	}
	r, width := utf8.DecodeRuneInString(l.input[l.next:])
	l.ch = r
	l.next += width
}

func (l *Lexer) peekChar() rune {
	if l.next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.next:])
	return r
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEOF() {
		switch {
		case unicode.IsSpace(l.ch):
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

// Next returns the next token. At the end of the input it returns an EOF
// token, repeatedly if called again.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespaceAndComments()
	start := l.Position()
	if l.atEOF() {
		return token.Token{Type: token.EOF, StartPosition: start, EndPosition: start}, nil
	}
	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			return l.twoCharToken(token.EQ, start), nil
		}
		return l.oneCharToken(token.ASSIGN, start), nil
	case '!':
		if l.peekChar() == '=' {
			return l.twoCharToken(token.NOT_EQ, start), nil
		}
	case '<':
		if l.peekChar() == '=' {
			return l.twoCharToken(token.LT_EQUALS, start), nil
		}
		return l.oneCharToken(token.LT, start), nil
	case '>':
		if l.peekChar() == '=' {
			return l.twoCharToken(token.GT_EQUALS, start), nil
		}
		return l.oneCharToken(token.GT, start), nil
	case '+':
		return l.oneCharToken(token.PLUS, start), nil
	case '-':
		return l.oneCharToken(token.MINUS, start), nil
	case '*':
		return l.oneCharToken(token.ASTERISK, start), nil
	case '/':
		return l.oneCharToken(token.SLASH, start), nil
	case '^':
		return l.oneCharToken(token.CARET, start), nil
	case ',':
		return l.oneCharToken(token.COMMA, start), nil
	case ';':
		return l.oneCharToken(token.SEMICOLON, start), nil
	case '(':
		return l.oneCharToken(token.LPAREN, start), nil
	case ')':
		return l.oneCharToken(token.RPAREN, start), nil
	case '{':
		return l.oneCharToken(token.LBRACE, start), nil
	case '}':
		return l.oneCharToken(token.RBRACE, start), nil
	case '[':
		return l.oneCharToken(token.LBRACKET, start), nil
	case ']':
		return l.oneCharToken(token.RBRACKET, start), nil
	case '"':
		return l.readString(start)
	}
	switch {
	case isDigit(l.ch):
		return l.readInteger(start)
	case isLetter(l.ch):
		return l.readIdentifier(start)
	}
	ch := l.ch
	l.readChar()
	return l.illegal(start, string(ch)), fmt.Errorf("unexpected character: %q", ch)
}

func (l *Lexer) oneCharToken(t token.Type, start token.Position) token.Token {
	literal := string(l.ch)
	l.readChar()
	return token.Token{Type: t, Literal: literal, StartPosition: start, EndPosition: start}
}

func (l *Lexer) twoCharToken(t token.Type, start token.Position) token.Token {
	literal := string(l.ch) + string(l.peekChar())
	l.readChar()
	l.readChar()
	return token.Token{Type: t, Literal: literal, StartPosition: start, EndPosition: start.Advance(1)}
}

func (l *Lexer) illegal(start token.Position, literal string) token.Token {
	return token.Token{Type: token.ILLEGAL, Literal: literal, StartPosition: start, EndPosition: start}
}

// end returns the position of the last character consumed, which is the
// inclusive end of the token that started at start.
func (l *Lexer) end(start token.Position) token.Position {
	return start.Advance(l.position - start.Char - 1)
}

func (l *Lexer) readIdentifier(start token.Position) (token.Token, error) {
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	literal := l.input[start.Char:l.position]
	return token.Token{
		Type:          token.LookupIdentifier(literal),
		Literal:       literal,
		StartPosition: start,
		EndPosition:   l.end(start),
	}, nil
}

func (l *Lexer) readInteger(start token.Position) (token.Token, error) {
	for isDigit(l.ch) {
		l.readChar()
	}
	if isLetter(l.ch) || l.ch == '.' {
		for isLetter(l.ch) || isDigit(l.ch) || l.ch == '.' {
			l.readChar()
		}
		literal := l.input[start.Char:l.position]
		return l.illegal(start, literal), fmt.Errorf("invalid integer literal: %s", literal)
	}
	literal := l.input[start.Char:l.position]
	return token.Token{
		Type:          token.INT,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   l.end(start),
	}, nil
}

func (l *Lexer) readString(start token.Position) (token.Token, error) {
	var sb strings.Builder
	l.readChar() // opening quote
	for {
		if l.atEOF() || l.ch == '\n' {
			return l.illegal(start, l.input[start.Char:l.position]),
				fmt.Errorf("unterminated string literal")
		}
		if l.ch == '"' {
			break
		}
		if l.ch == '\\' {
			l.readChar()
			r, ok := unescape(l.ch)
			if !ok {
				return l.illegal(start, l.input[start.Char:l.position]),
					fmt.Errorf("invalid escape sequence: \\%c", l.ch)
			}
			sb.WriteRune(r)
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar() // closing quote
	return token.Token{
		Type:          token.STRING,
		Literal:       sb.String(),
		StartPosition: start,
		EndPosition:   l.end(start),
	}, nil
}

func unescape(ch rune) (rune, bool) {
	switch ch {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	}
	return 0, false
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
