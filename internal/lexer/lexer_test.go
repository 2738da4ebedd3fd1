package lexer

import (
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"

	"github.com/IsVohi/ByteCode-Compiler/errz"
	"github.com/IsVohi/ByteCode-Compiler/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `let x = 5;
fn add(a, b) { return a + b; }
print(x);`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.LET, "let"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.INT, "5"},
		{token.SEMICOLON, ";"},
		{token.FUNCTION, "fn"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.COMMA, ","},
		{token.IDENT, "b"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RETURN, "return"},
		{token.IDENT, "a"},
		{token.PLUS, "+"},
		{token.IDENT, "b"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.PRINT, "print"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.RPAREN, ")"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}
	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		assert.Nil(t, err)
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong, expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong, expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := "+ - * / % == != < <= > >= && || ! ="
	expected := []token.Type{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.MOD,
		token.EQ, token.NOT_EQ, token.LT, token.LT_EQ, token.GT, token.GT_EQ,
		token.AND, token.OR, token.BANG, token.ASSIGN, token.EOF,
	}
	l := New(input)
	for i, want := range expected {
		tok, err := l.Next()
		assert.Nil(t, err)
		assert.Equal(t, tok.Type, want, "tests[%d]", i)
	}
}

func TestKeywords(t *testing.T) {
	input := "let fn if else while for break continue return print letter"
	expected := []token.Type{
		token.LET, token.FUNCTION, token.IF, token.ELSE, token.WHILE,
		token.FOR, token.BREAK, token.CONTINUE, token.RETURN, token.PRINT,
		token.IDENT,
	}
	l := New(input)
	for i, want := range expected {
		tok, err := l.Next()
		assert.Nil(t, err)
		assert.Equal(t, tok.Type, want, "tests[%d]", i)
	}
}

func TestStrings(t *testing.T) {
	l := New(`"hello" "a\nb" "tab\there" "quote\"inside" ""`)
	expected := []string{"hello", "a\nb", "tab\there", "quote\"inside", ""}
	for i, want := range expected {
		tok, err := l.Next()
		assert.Nil(t, err)
		assert.Equal(t, tok.Type, token.STRING, "tests[%d]", i)
		assert.Equal(t, tok.Literal, want, "tests[%d]", i)
	}
}

func TestComments(t *testing.T) {
	input := `// leading comment
let x = 1; // trailing comment
// final`
	tokens, err := New(input).Tokenize()
	assert.Nil(t, err)
	expected := []token.Type{
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.SEMICOLON, token.EOF,
	}
	assert.Len(t, tokens, len(expected))
	for i, want := range expected {
		assert.Equal(t, tokens[i].Type, want, "tokens[%d]", i)
	}
}

func TestPositions(t *testing.T) {
	input := "let x = 1;\nprint(x);"
	tokens, err := New(input).Tokenize()
	assert.Nil(t, err)

	// "let" is at line 1, column 1
	assert.Equal(t, tokens[0].Line, 1)
	assert.Equal(t, tokens[0].Column, 1)
	// "x" is at line 1, column 5
	assert.Equal(t, tokens[1].Line, 1)
	assert.Equal(t, tokens[1].Column, 5)
	// "print" is at line 2, column 1
	assert.Equal(t, tokens[5].Line, 2)
	assert.Equal(t, tokens[5].Column, 1)
}

func TestEOFIsSticky(t *testing.T) {
	l := New("x")
	tok, err := l.Next()
	assert.Nil(t, err)
	assert.Equal(t, tok.Type, token.IDENT)
	for i := 0; i < 3; i++ {
		tok, err = l.Next()
		assert.Nil(t, err)
		assert.Equal(t, tok.Type, token.EOF)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`let x = 5 & 3;`, `unexpected character "&"`},
		{`let x = 5 | 3;`, `unexpected character "|"`},
		{`"unterminated`, "unterminated string"},
		{`let s = "bad\q";`, "invalid escape sequence"},
		{`let x = 5 @ 3;`, `unexpected character "@"`},
	}
	for _, tt := range tests {
		_, err := New(tt.input).Tokenize()
		assert.NotNil(t, err, "input: %s", tt.input)
		assert.True(t, errz.IsKind(err, errz.Lexer), "input: %s", tt.input)
		if err != nil {
			assert.True(t, len(err.Error()) > 0)
			if got := err.Error(); !contains(got, tt.want) {
				t.Errorf("input %q: expected error containing %q, got %q", tt.input, tt.want, got)
			}
		}
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
