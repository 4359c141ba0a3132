// Package parser implements the hand-written recursive-descent parser
// that turns a tangram token stream into an ast.Source.
//
// The peek/match helper pair and the statement-dispatch-matches-its-own-
// keyword discipline are grounded on the teacher interpreter's parser
// package (parser.go's peek-then-advance style, generalized from the
// teacher's many parseX files into the single small grammar spec.md §4.2
// defines), with the explicit fix spec.md §9 calls for: the statement
// dispatcher only peeks at a keyword, and every parseX function consumes
// its own leading keyword, rather than some callers pre-matching it for
// them.
package parser

import (
	"math/big"

	"github.com/tangramlang/tangram/ast"
	"github.com/tangramlang/tangram/langerr"
	"github.com/tangramlang/tangram/lexer"
	"github.com/tangramlang/tangram/object"
	"github.com/tangramlang/tangram/token"
)

// Parser consumes a pre-scanned token slice (the lexer has already run to
// completion, or failed, before parsing begins).
type Parser struct {
	toks []token.Token
	pos  int
	src  string
}

// New builds a Parser over src, running the lexer to completion first. A
// lex failure is returned immediately as the first error.
func New(src string) (*Parser, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return &Parser{toks: toks, src: src}, nil
}

func (p *Parser) atEnd() bool { return p.pos >= len(p.toks) }

// currentOffset is the offset parse errors report: the current token's
// offset, or at end of input the offset immediately past the last token.
func (p *Parser) currentOffset() int {
	if p.atEnd() {
		if len(p.toks) == 0 {
			return 0
		}
		last := p.toks[len(p.toks)-1]
		return last.Offset + len(last.Literal)
	}
	return p.toks[p.pos].Offset
}

func (p *Parser) peekToken() (token.Token, bool) {
	if p.atEnd() {
		return token.Token{}, false
	}
	return p.toks[p.pos], true
}

// peekKind reports whether the current token has kind k, without
// consuming it.
func (p *Parser) peekKind(k token.Kind) bool {
	tk, ok := p.peekToken()
	return ok && tk.Kind == k
}

// peekLiteral reports whether the current token's literal text is lit,
// without consuming it.
func (p *Parser) peekLiteral(lit string) bool {
	tk, ok := p.peekToken()
	return ok && tk.Literal == lit
}

// matchLiteral consumes and returns the current token if its literal is
// lit.
func (p *Parser) matchLiteral(lit string) (token.Token, bool) {
	if p.peekLiteral(lit) {
		tk := p.toks[p.pos]
		p.pos++
		return tk, true
	}
	return token.Token{}, false
}

func (p *Parser) advance() token.Token {
	tk := p.toks[p.pos]
	p.pos++
	return tk
}

func (p *Parser) expectLiteral(lit string) (token.Token, error) {
	if tk, ok := p.matchLiteral(lit); ok {
		return tk, nil
	}
	return token.Token{}, langerr.NewParseError(p.currentOffset(), "expected %q", lit)
}

func (p *Parser) expectKind(k token.Kind, what string) (token.Token, error) {
	if p.peekKind(k) {
		return p.advance(), nil
	}
	return token.Token{}, langerr.NewParseError(p.currentOffset(), "expected %s", what)
}

func (p *Parser) expectIdentifier() (string, error) {
	tk, err := p.expectKind(token.Identifier, "identifier")
	if err != nil {
		return "", err
	}
	return tk.Literal, nil
}

// Parse parses the full token stream into a Source.
func Parse(src string) (*ast.Source, error) {
	p, err := New(src)
	if err != nil {
		return nil, err
	}
	return p.parseSource()
}

func (p *Parser) parseSource() (*ast.Source, error) {
	src := &ast.Source{}
	for p.peekLiteral("LIST") || p.peekLiteral("VAR") || p.peekLiteral("VAL") {
		g, err := p.parseGlobal()
		if err != nil {
			return nil, err
		}
		src.Globals = append(src.Globals, g)
	}
	for p.peekLiteral("FUN") {
		f, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		src.Functions = append(src.Functions, f)
	}
	if !p.atEnd() {
		return nil, langerr.NewParseError(p.currentOffset(), "unexpected token %q", p.toks[p.pos].Literal)
	}
	return src, nil
}

func (p *Parser) parseGlobal() (*ast.Global, error) {
	kindTok := p.advance() // LIST, VAR, or VAL
	isList := kindTok.Literal == "LIST"
	mutable := kindTok.Literal != "VAL"

	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectLiteral(":"); err != nil {
		return nil, err
	}
	typeName, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	g := &ast.Global{Name: name, TypeName: typeName, Mutable: mutable, IsList: isList}

	if isList {
		// The reference implementation only ever parses LIST with a
		// mandatory bracketed initializer even though the grammar shown
		// elsewhere implies an optional one; per spec.md §9 this
		// ambiguity is resolved by making the initializer mandatory for
		// LIST.
		if _, err := p.expectLiteral("="); err != nil {
			return nil, err
		}
		values, err := p.parseListInitializer()
		if err != nil {
			return nil, err
		}
		g.Value = values
	} else if _, ok := p.matchLiteral("="); ok {
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		g.Value = v
	}

	if _, err := p.expectLiteral(";"); err != nil {
		return nil, err
	}
	return g, nil
}

func (p *Parser) parseListInitializer() (*ast.ListLiteral, error) {
	if _, err := p.expectLiteral("["); err != nil {
		return nil, err
	}
	list := &ast.ListLiteral{}
	if !p.peekLiteral("]") {
		for {
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			list.Values = append(list.Values, e)
			if _, ok := p.matchLiteral(","); !ok {
				break
			}
		}
	}
	if _, err := p.expectLiteral("]"); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parseFunction() (*ast.Function, error) {
	if _, err := p.expectLiteral("FUN"); err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectLiteral("("); err != nil {
		return nil, err
	}
	f := &ast.Function{Name: name}
	if !p.peekLiteral(")") {
		for {
			pname, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectLiteral(":"); err != nil {
				return nil, err
			}
			ptype, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			f.Params = append(f.Params, pname)
			f.ParamTypeNames = append(f.ParamTypeNames, ptype)
			if _, ok := p.matchLiteral(","); !ok {
				break
			}
		}
	}
	if _, err := p.expectLiteral(")"); err != nil {
		return nil, err
	}
	if _, ok := p.matchLiteral(":"); ok {
		rt, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		f.ReturnTypeName = rt
	}
	if _, err := p.expectLiteral("DO"); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	f.Body = block
	if _, err := p.expectLiteral("END"); err != nil {
		return nil, err
	}
	return f, nil
}

// blockTerminators names the literals that end a statement* run, per the
// grammar's "block = statement* (until END/ELSE/CASE/DEFAULT)".
var blockTerminators = map[string]bool{
	"END": true, "ELSE": true, "CASE": true, "DEFAULT": true,
}

func (p *Parser) parseBlock() ([]ast.Statement, error) {
	var stmts []ast.Statement
	for {
		tk, ok := p.peekToken()
		if !ok || (tk.Kind == token.Identifier && blockTerminators[tk.Literal]) {
			break
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch {
	case p.peekLiteral("LET"):
		return p.parseDeclaration()
	case p.peekLiteral("IF"):
		return p.parseIf()
	case p.peekLiteral("SWITCH"):
		return p.parseSwitch()
	case p.peekLiteral("WHILE"):
		return p.parseWhile()
	case p.peekLiteral("RETURN"):
		return p.parseReturn()
	default:
		return p.parseExpressionOrAssignment()
	}
}

func (p *Parser) parseDeclaration() (ast.Statement, error) {
	p.advance() // LET
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	d := &ast.Declaration{Name: name}
	if _, ok := p.matchLiteral(":"); ok {
		tname, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		d.TypeName = tname
	}
	if _, ok := p.matchLiteral("="); ok {
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		d.Value = v
	}
	if _, err := p.expectLiteral(";"); err != nil {
		return nil, err
	}
	return d, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	p.advance() // IF
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectLiteral("DO"); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{Cond: cond, Then: then}
	if _, ok := p.matchLiteral("ELSE"); ok {
		els, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = els
	}
	if _, err := p.expectLiteral("END"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseSwitch() (ast.Statement, error) {
	p.advance() // SWITCH
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt := &ast.Switch{Cond: cond}
	for {
		if _, ok := p.matchLiteral("CASE"); ok {
			val, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectLiteral(":"); err != nil {
				return nil, err
			}
			block, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.Cases = append(stmt.Cases, &ast.Case{Value: val, Block: block})
			continue
		}
		break
	}
	if _, err := p.expectLiteral("DEFAULT"); err != nil {
		return nil, err
	}
	defBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt.Cases = append(stmt.Cases, &ast.Case{Value: nil, Block: defBlock})
	if _, err := p.expectLiteral("END"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	p.advance() // WHILE
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectLiteral("DO"); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectLiteral("END"); err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Block: block}, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	p.advance() // RETURN
	v, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectLiteral(";"); err != nil {
		return nil, err
	}
	return &ast.Return{Value: v}, nil
}

func (p *Parser) parseExpressionOrAssignment() (ast.Statement, error) {
	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	var stmt ast.Statement
	if _, ok := p.matchLiteral("="); ok {
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt = &ast.Assignment{Receiver: e, Value: v}
	} else {
		stmt = &ast.ExpressionStmt{Expr: e}
	}
	if _, err := p.expectLiteral(";"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// ---- Expression grammar (precedence climbing, left-associative) ----

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseLogical()
}

func (p *Parser) parseLogical() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.peekLiteral("&&") || p.peekLiteral("||") {
		opTok := p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: opTok.Literal, Left: left, Right: right, Offset: opTok.Offset}
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.peekLiteral("<") || p.peekLiteral(">") || p.peekLiteral("==") || p.peekLiteral("!=") {
		opTok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: opTok.Literal, Left: left, Right: right, Offset: opTok.Offset}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.peekLiteral("+") || p.peekLiteral("-") {
		opTok := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: opTok.Literal, Left: left, Right: right, Offset: opTok.Offset}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peekLiteral("*") || p.peekLiteral("/") || p.peekLiteral("^") {
		opTok := p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: opTok.Literal, Left: left, Right: right, Offset: opTok.Offset}
	}
	return left, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tk, ok := p.peekToken()
	if !ok {
		return nil, langerr.NewParseError(p.currentOffset(), "unexpected end of input")
	}

	switch {
	case tk.Kind == token.Identifier && tk.Literal == "NIL":
		p.advance()
		return &ast.Literal{Value: object.NilValue{}, Offset: tk.Offset}, nil
	case tk.Kind == token.Identifier && tk.Literal == "TRUE":
		p.advance()
		return &ast.Literal{Value: object.Bool{Value: true}, Offset: tk.Offset}, nil
	case tk.Kind == token.Identifier && tk.Literal == "FALSE":
		p.advance()
		return &ast.Literal{Value: object.Bool{Value: false}, Offset: tk.Offset}, nil
	case tk.Kind == token.Integer:
		p.advance()
		n, ok := new(big.Int).SetString(tk.Literal, 10)
		if !ok {
			return nil, langerr.NewParseError(tk.Offset, "invalid integer literal %q", tk.Literal)
		}
		return &ast.Literal{Value: object.Int{Value: n}, Offset: tk.Offset}, nil
	case tk.Kind == token.Decimal:
		p.advance()
		d, ok := object.ParseDecimal(tk.Literal)
		if !ok {
			return nil, langerr.NewParseError(tk.Offset, "invalid decimal literal %q", tk.Literal)
		}
		return &ast.Literal{Value: d, Offset: tk.Offset}, nil
	case tk.Kind == token.Character:
		p.advance()
		c, err := decodeCharLiteral(tk)
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Value: object.Char{Value: c}, Offset: tk.Offset}, nil
	case tk.Kind == token.String:
		p.advance()
		s, err := decodeStringLiteral(tk)
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Value: object.Text{Value: s}, Offset: tk.Offset}, nil
	case tk.Literal == "(":
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectLiteral(")"); err != nil {
			return nil, err
		}
		return &ast.Group{Inner: inner}, nil
	case tk.Kind == token.Identifier:
		return p.parseIdentifierExpr()
	default:
		return nil, langerr.NewParseError(tk.Offset, "unexpected token %q", tk.Literal)
	}
}

func (p *Parser) parseIdentifierExpr() (ast.Expression, error) {
	nameTok := p.advance()
	if _, ok := p.matchLiteral("("); ok {
		call := &ast.Call{Name: nameTok.Literal, SourcePos: nameTok.Offset}
		if !p.peekLiteral(")") {
			for {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
				if _, ok := p.matchLiteral(","); !ok {
					break
				}
			}
		}
		if _, err := p.expectLiteral(")"); err != nil {
			return nil, err
		}
		return call, nil
	}
	if _, ok := p.matchLiteral("["); ok {
		idx, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectLiteral("]"); err != nil {
			return nil, err
		}
		return &ast.Access{Name: nameTok.Literal, Offset: idx, SourcePos: nameTok.Offset}, nil
	}
	return &ast.Access{Name: nameTok.Literal, SourcePos: nameTok.Offset}, nil
}

// ---- Literal decoding (spec.md §4.2) ----

var escapeByLetter = map[byte]byte{
	'b': '\b', 'n': '\n', 'r': '\r', 't': '\t',
	'\'': '\'', '"': '"', '\\': '\\',
}

func decodeCharLiteral(tk token.Token) (byte, error) {
	inner := tk.Literal[1 : len(tk.Literal)-1] // strip surrounding quotes
	if len(inner) == 1 {
		return inner[0], nil
	}
	if len(inner) == 2 && inner[0] == '\\' {
		if c, ok := escapeByLetter[inner[1]]; ok {
			return c, nil
		}
	}
	return 0, langerr.NewParseError(tk.Offset, "invalid character literal %q", tk.Literal)
}

func decodeStringLiteral(tk token.Token) (string, error) {
	inner := tk.Literal[1 : len(tk.Literal)-1] // strip surrounding quotes
	var out []byte
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		i++
		if i >= len(inner) {
			return "", langerr.NewParseError(tk.Offset, "invalid escape at end of string literal %q", tk.Literal)
		}
		esc, ok := escapeByLetter[inner[i]]
		if !ok {
			return "", langerr.NewParseError(tk.Offset, "invalid escape sequence \\%c", inner[i])
		}
		out = append(out, esc)
	}
	return string(out), nil
}
