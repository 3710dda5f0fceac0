package lexer

import (
	"fmt"
	"testing"

	"github.com/kevs-vm/kevs/internal/token"
	"github.com/stretchr/testify/require"
)

func TestNextToken(t *testing.T) {
	input := `x = 2 + 3 * 4;
while (i <= 10) { Println(s[1]); }
fn add(a, b) { a = a - b / 2 ^ 1; }
if (a != b) {} if (a == b) {} load util;
arr = [1, 2];`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.INT, "2"},
		{token.PLUS, "+"},
		{token.INT, "3"},
		{token.ASTERISK, "*"},
		{token.INT, "4"},
		{token.SEMICOLON, ";"},
		{token.WHILE, "while"},
		{token.LPAREN, "("},
		{token.IDENT, "i"},
		{token.LT_EQUALS, "<="},
		{token.INT, "10"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "Println"},
		{token.LPAREN, "("},
		{token.IDENT, "s"},
		{token.LBRACKET, "["},
		{token.INT, "1"},
		{token.RBRACKET, "]"},
		{token.RPAREN, ")"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.FN, "fn"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.COMMA, ","},
		{token.IDENT, "b"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "a"},
		{token.ASSIGN, "="},
		{token.IDENT, "a"},
		{token.MINUS, "-"},
		{token.IDENT, "b"},
		{token.SLASH, "/"},
		{token.INT, "2"},
		{token.CARET, "^"},
		{token.INT, "1"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.NOT_EQ, "!="},
		{token.IDENT, "b"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.EQ, "=="},
		{token.IDENT, "b"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.LOAD, "load"},
		{token.IDENT, "util"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "arr"},
		{token.ASSIGN, "="},
		{token.LBRACKET, "["},
		{token.INT, "1"},
		{token.COMMA, ","},
		{token.INT, "2"},
		{token.RBRACKET, "]"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}
	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		require.Nil(t, err)
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong, expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - Literal wrong, expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestComparisonOperators(t *testing.T) {
	l := New("< <= > >= == !=")
	expected := []token.Type{token.LT, token.LT_EQUALS, token.GT, token.GT_EQUALS, token.EQ, token.NOT_EQ, token.EOF}
	for _, typ := range expected {
		tok, err := l.Next()
		require.Nil(t, err)
		require.Equal(t, typ, tok.Type)
	}
}

func TestComments(t *testing.T) {
	input := `// leading comment
a = 1; // trailing
// a = 2;
`
	l := New(input)
	var types []token.Type
	for {
		tok, err := l.Next()
		require.Nil(t, err)
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	require.Equal(t, []token.Type{token.IDENT, token.ASSIGN, token.INT, token.SEMICOLON, token.EOF}, types)
}

func TestDivisionIsNotComment(t *testing.T) {
	l := New("a / b")
	_, err := l.Next()
	require.Nil(t, err)
	tok, err := l.Next()
	require.Nil(t, err)
	require.Equal(t, token.SLASH, tok.Type)
}

func TestLineNumbers(t *testing.T) {
	l := New("ab + cd\n foo=111")
	tests := []struct {
		expectedType     token.Type
		expectedLiteral  string
		expectedLine     int
		expectedStartPos int
		expectedEndPos   int
	}{
		{token.IDENT, "ab", 0, 0, 1},
		{token.PLUS, "+", 0, 3, 3},
		{token.IDENT, "cd", 0, 5, 6},
		{token.IDENT, "foo", 1, 1, 3},
		{token.ASSIGN, "=", 1, 4, 4},
		{token.INT, "111", 1, 5, 7},
		{token.EOF, "", 1, 8, 8},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			tok, err := l.Next()
			require.Nil(t, err)
			require.Equal(t, tt.expectedType, tok.Type)
			require.Equal(t, tt.expectedLiteral, tok.Literal)
			require.Equal(t, tt.expectedLine, tok.StartPosition.Line)
			require.Equal(t, tt.expectedStartPos, tok.StartPosition.Column)
			require.Equal(t, tt.expectedEndPos, tok.EndPosition.Column)
		})
	}
}

func TestTokenLengths(t *testing.T) {
	tests := []struct {
		input            string
		expectedType     token.Type
		expectedLiteral  string
		expectedStartPos int
		expectedEndPos   int
	}{
		{"abc", token.IDENT, "abc", 0, 2},
		{"111", token.INT, "111", 0, 2},
		{`"b"`, token.STRING, "b", 0, 2},
		{"while", token.WHILE, "while", 0, 4},
		{">=", token.GT_EQUALS, ">=", 0, 1},
		{" {", token.LBRACE, "{", 1, 1},
		{"  ==", token.EQ, "==", 2, 3},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d-%s", i, tt.input), func(t *testing.T) {
			l := New(tt.input)
			tok, err := l.Next()
			require.Nil(t, err)
			require.Equal(t, tt.expectedType, tok.Type)
			require.Equal(t, tt.expectedLiteral, tok.Literal)
			require.Equal(t, tt.expectedStartPos, tok.StartPosition.Column)
			require.Equal(t, tt.expectedEndPos, tok.EndPosition.Column)
		})
	}
}

func TestEscapeSequences(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		expectedLiteral string
	}{
		{"new line", `"\n"`, "\n"},
		{"horizontal tab", `"\t"`, "\t"},
		{"carriage return", `"\r"`, "\r"},
		{"quote", `"\""`, `"`},
		{"backslash", `"\\"`, `\`},
		{"nul", `"\0"`, "\x00"},
		{"mixed", `"a\tb\n"`, "a\tb\n"},
		{"unicode", `"héllo"`, "héllo"},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d-%s", i, tt.name), func(t *testing.T) {
			l := New(tt.input)
			tok, err := l.Next()
			require.Nil(t, err)
			require.Equal(t, token.STRING, tok.Type)
			require.Equal(t, tt.expectedLiteral, tok.Literal)
		})
	}
}

func TestInvalids(t *testing.T) {
	tests := []struct {
		input string
		err   string
	}{
		{`"foo`, "unterminated string literal"},
		{"\"foo\nbar\"", "unterminated string literal"},
		{`"\q"`, `invalid escape sequence: \q`},
		{"~", "unexpected character: '~'"},
		{"!", "unexpected character: '!'"},
		{"4a", "invalid integer literal: 4a"},
		{"1.5", "invalid integer literal: 1.5"},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d-%s", i, tt.input), func(t *testing.T) {
			l := New(tt.input)
			tok, err := l.Next()
			require.NotNil(t, err)
			require.Equal(t, tt.err, err.Error())
			require.Equal(t, token.ILLEGAL, tok.Type)
		})
	}
}

func TestEmptyInput(t *testing.T) {
	l := New("")
	tok, err := l.Next()
	require.Nil(t, err)
	require.Equal(t, token.EOF, tok.Type)
}

func TestMultipleEOFReads(t *testing.T) {
	l := New("x")
	for _, expected := range []token.Type{token.IDENT, token.EOF, token.EOF, token.EOF} {
		tok, err := l.Next()
		require.Nil(t, err)
		require.Equal(t, expected, tok.Type)
	}
}

func TestTokenLineText(t *testing.T) {
	l := New("a = 1;\n  b = 2;\nc = 3;")
	var tok token.Token
	for i := 0; i < 5; i++ {
		var err error
		tok, err = l.Next()
		require.Nil(t, err)
	}
	require.Equal(t, "b", tok.Literal)
	require.Equal(t, "  b = 2;", l.GetLineText(tok))
}

func TestFilenameOption(t *testing.T) {
	t.Run("WithFile option", func(t *testing.T) {
		l := New("x", WithFile("test.kev"))
		require.Equal(t, "test.kev", l.Filename())

		tok, err := l.Next()
		require.Nil(t, err)
		require.Equal(t, "test.kev", tok.StartPosition.File)
		require.Equal(t, "test.kev", tok.EndPosition.File)
	})

	t.Run("SetFilename method", func(t *testing.T) {
		l := New("x")
		require.Equal(t, "", l.Filename())

		l.SetFilename("updated.kev")
		require.Equal(t, "updated.kev", l.Filename())

		tok, err := l.Next()
		require.Nil(t, err)
		require.Equal(t, "updated.kev", tok.StartPosition.File)
	})

	t.Run("Position method includes file", func(t *testing.T) {
		l := New("x", WithFile("pos.kev"))
		require.Equal(t, "pos.kev", l.Position().File)
	})
}
