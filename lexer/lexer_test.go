package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tangramlang/tangram/token"
)

type tokenCase struct {
	Input    string
	Expected []token.Token
}

func TestTokenize(t *testing.T) {
	cases := []tokenCase{
		{
			Input: `print("Hello, World!");`,
			Expected: []token.Token{
				token.New(token.Identifier, "print", 0),
				token.New(token.Operator, "(", 5),
				token.New(token.String, `"Hello, World!"`, 6),
				token.New(token.Operator, ")", 21),
				token.New(token.Operator, ";", 22),
			},
		},
		{
			Input: `x + 1 == y / 2.0 - 3`,
			Expected: []token.Token{
				token.New(token.Identifier, "x", 0),
				token.New(token.Operator, "+", 2),
				token.New(token.Integer, "1", 4),
				token.New(token.Operator, "==", 6),
				token.New(token.Identifier, "y", 9),
				token.New(token.Operator, "/", 11),
				token.New(token.Decimal, "2.0", 13),
				token.New(token.Operator, "-", 17),
				token.New(token.Integer, "3", 19),
			},
		},
		{
			Input: `@self`,
			Expected: []token.Token{
				token.New(token.Identifier, "@self", 0),
			},
		},
		{
			Input: `-1`,
			Expected: []token.Token{
				token.New(token.Integer, "-1", 0),
			},
		},
		{
			Input: `- 1`,
			Expected: []token.Token{
				token.New(token.Operator, "-", 0),
				token.New(token.Integer, "1", 2),
			},
		},
		{
			Input: `!===`,
			Expected: []token.Token{
				token.New(token.Operator, "!=", 0),
				token.New(token.Operator, "==", 2),
			},
		},
	}

	for _, c := range cases {
		toks, err := Tokenize(c.Input)
		assert.NoError(t, err, c.Input)
		assert.Equal(t, c.Expected, toks, c.Input)
	}
}

func TestLexRoundTrip(t *testing.T) {
	src := `VAR x : Integer = 42; FUN main ( ) : Integer DO RETURN x ; END`
	toks, err := Tokenize(src)
	assert.NoError(t, err)
	for _, tk := range toks {
		assert.Equal(t, tk.Literal, src[tk.Offset:tk.Offset+len(tk.Literal)])
	}
}

func TestNumberPolicy(t *testing.T) {
	_, err := Tokenize("007")
	assert.Error(t, err)

	_, err = Tokenize("-0")
	assert.Error(t, err)

	toks, err := Tokenize("1.")
	assert.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.New(token.Integer, "1", 0),
		token.New(token.Operator, ".", 1),
	}, toks)
}

func TestUnterminatedString(t *testing.T) {
	src := `"unterminated`
	_, err := Tokenize(src)
	assert.Error(t, err)
}

func TestRejectedIdentifierStarts(t *testing.T) {
	toks, err := Tokenize("_foo")
	assert.NoError(t, err)
	// '_' is not a valid identifier start; it lexes as an operator byte.
	assert.Equal(t, token.Operator, toks[0].Kind)

	toks, err = Tokenize("1foo")
	assert.NoError(t, err)
	assert.Equal(t, token.Integer, toks[0].Kind)
}
