// Package lexer turns tangram source text into a sequence of tokens.
//
// The driver loop — track a position in the source, repeatedly skip
// whitespace then dispatch on the current byte — follows the shape of the
// teacher interpreter's Lexer.NextToken, adapted to the much smaller token
// rule table spec.md §4.1 defines.
package lexer

import (
	"github.com/tangramlang/tangram/langerr"
	"github.com/tangramlang/tangram/token"
)

// Lexer scans a source string into tokens one at a time.
type Lexer struct {
	src string
	pos int
}

// New creates a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) peekByte() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	return c
}

// skipWhitespace skips runs of space, tab, newline, carriage return, and
// the escape-like leaders \b \n \r \t written literally as a backslash
// followed by one of those letters, per spec.md §4.1.
func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		c := l.peekByte()
		switch c {
		case ' ', '\t', '\n', '\r':
			l.advance()
			continue
		case '\\':
			if n := l.peekByteAt(1); n == 'b' || n == 'n' || n == 'r' || n == 't' {
				l.advance()
				l.advance()
				continue
			}
		}
		return
	}
}

func isIdentStart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '@'
}

func isIdentCont(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' || c == '-'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Next scans and returns the next token. At end of input it returns the
// zero Token with a nil error; callers must check AtEnd first.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()
	if l.atEnd() {
		return token.Token{}, nil
	}

	start := l.pos
	c := l.peekByte()

	switch {
	case isIdentStart(c):
		return l.scanIdentifier(start), nil
	case isDigit(c) || (c == '-' && isDigit(l.peekByteAt(1))):
		return l.scanNumber(start)
	case c == '\'':
		return l.scanCharacter(start)
	case c == '"':
		return l.scanString(start)
	default:
		return l.scanOperator(start)
	}
}

// AtEnd reports whether scanning has consumed the entire source, skipping
// any trailing whitespace first.
func (l *Lexer) AtEnd() bool {
	l.skipWhitespace()
	return l.atEnd()
}

// Offset returns the current scan position.
func (l *Lexer) Offset() int {
	return l.pos
}

func (l *Lexer) scanIdentifier(start int) token.Token {
	l.advance()
	for !l.atEnd() && isIdentCont(l.peekByte()) {
		l.advance()
	}
	return token.New(token.Identifier, l.src[start:l.pos], start)
}

// scanNumber implements the Number policy of spec.md §4.1: optional
// leading '-', then '0' or a 1-9 digit run, optional '.' followed by one
// or more digits. A leading zero is only legal when the whole integer part
// is "0"; a trailing '.' with no following digit is un-consumed and an
// Integer is emitted instead.
func (l *Lexer) scanNumber(start int) (token.Token, error) {
	if l.peekByte() == '-' {
		l.advance()
	}

	digitsStart := l.pos
	for !l.atEnd() && isDigit(l.peekByte()) {
		l.advance()
	}
	intPart := l.src[digitsStart:l.pos]
	if len(intPart) == 0 {
		return token.Token{}, langerr.NewParseError(start, "invalid number")
	}
	if intPart[0] == '0' && len(intPart) > 1 {
		return token.Token{}, langerr.NewParseError(start, "leading zero not allowed in integer literal %q", l.src[start:l.pos])
	}

	hasFraction := l.peekByte() == '.' && isDigit(l.peekByteAt(1))
	if intPart == "0" && l.src[start] == '-' && !hasFraction {
		return token.Token{}, langerr.NewParseError(start, "-0 without a fractional part is not a valid literal")
	}

	kind := token.Integer
	if hasFraction {
		kind = token.Decimal
		l.advance()
		for !l.atEnd() && isDigit(l.peekByte()) {
			l.advance()
		}
	}
	return token.New(kind, l.src[start:l.pos], start), nil
}

var charEscapes = map[byte]byte{
	'b': '\b', 'n': '\n', 'r': '\r', 't': '\t',
	'\'': '\'', '"': '"', '\\': '\\',
}

func (l *Lexer) scanCharacter(start int) (token.Token, error) {
	l.advance() // opening '
	if l.atEnd() || l.peekByte() == '\n' {
		return token.Token{}, langerr.NewParseError(start, "unterminated character literal")
	}
	if l.peekByte() == '\'' {
		return token.Token{}, langerr.NewParseError(start, "empty character literal")
	}

	// The lexer validates escape legality but does not decode it — the
	// token's literal is the raw source span including both quotes, so
	// that the lex round-trip invariant (spec.md §8 property 1) holds for
	// quoted literals exactly as it does for every other token kind.
	// Decoding happens in the parser's literal-decoding step (spec.md
	// §4.2).
	if l.peekByte() == '\\' {
		l.advance()
		if l.atEnd() {
			return token.Token{}, langerr.NewParseError(start, "unterminated character literal")
		}
		if _, ok := charEscapes[l.peekByte()]; !ok {
			return token.Token{}, langerr.NewParseError(l.pos, "invalid escape sequence \\%c", l.peekByte())
		}
		l.advance()
	} else {
		l.advance()
	}

	if l.atEnd() || l.peekByte() == '\n' {
		return token.Token{}, langerr.NewParseError(start, "unterminated character literal")
	}
	if l.peekByte() != '\'' {
		return token.Token{}, langerr.NewParseError(start, "multi-character character literal")
	}
	l.advance() // closing '
	return token.New(token.Character, l.src[start:l.pos], start), nil
}

func (l *Lexer) scanString(start int) (token.Token, error) {
	l.advance() // opening "
	for {
		if l.atEnd() {
			return token.Token{}, langerr.NewParseError(len(l.src), "unterminated string literal")
		}
		if l.peekByte() == '\n' {
			return token.Token{}, langerr.NewParseError(l.pos, "unterminated string literal")
		}
		c := l.peekByte()
		if c == '"' {
			l.advance()
			break
		}
		if c == '\\' {
			l.advance()
			if l.atEnd() {
				return token.Token{}, langerr.NewParseError(len(l.src), "unterminated string literal")
			}
			if _, ok := charEscapes[l.peekByte()]; !ok {
				return token.Token{}, langerr.NewParseError(l.pos, "invalid escape sequence \\%c", l.peekByte())
			}
			l.advance()
			continue
		}
		l.advance()
	}
	return token.New(token.String, l.src[start:l.pos], start), nil
}

var twoCharOperators = map[string]bool{
	"==": true, "!=": true, "<=": true, ">=": true, "&&": true, "||": true,
}

func (l *Lexer) scanOperator(start int) (token.Token, error) {
	c := l.advance()
	if !l.atEnd() {
		two := string(c) + string(l.peekByte())
		if twoCharOperators[two] {
			l.advance()
			return token.New(token.Operator, two, start), nil
		}
	}
	return token.New(token.Operator, string(c), start), nil
}

// Tokenize scans src to completion, returning every token in order or the
// first error encountered.
func Tokenize(src string) ([]token.Token, error) {
	l := New(src)
	var toks []token.Token
	for !l.AtEnd() {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
	return toks, nil
}
