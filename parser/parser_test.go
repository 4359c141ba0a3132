package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tangramlang/tangram/ast"
	"github.com/tangramlang/tangram/object"
)

// TestHelloWorld is spec.md's S1 scenario: a single expression-statement
// calling print with one String argument is a valid standalone statement
// via parseStatement, even outside any function (spec.md §8's S3 notes a
// lone LET is also valid at statement-parse granularity).
func TestHelloWorld(t *testing.T) {
	p, err := New(`print("Hello, World!");`)
	assert.NoError(t, err)

	stmt, err := p.parseStatement()
	assert.NoError(t, err)

	exprStmt, ok := stmt.(*ast.ExpressionStmt)
	assert.True(t, ok)

	call, ok := exprStmt.Expr.(*ast.Call)
	assert.True(t, ok)
	assert.Equal(t, "print", call.Name)
	assert.Len(t, call.Args, 1)

	lit, ok := call.Args[0].(*ast.Literal)
	assert.True(t, ok)
	text, ok := lit.Value.(object.Text)
	assert.True(t, ok)
	assert.Equal(t, "Hello, World!", text.Value)
}

// TestLetStatement is S3: a lone LET parses fine as a statement.
func TestLetStatement(t *testing.T) {
	p, err := New(`LET x = 5;`)
	assert.NoError(t, err)

	stmt, err := p.parseStatement()
	assert.NoError(t, err)

	decl, ok := stmt.(*ast.Declaration)
	assert.True(t, ok)
	assert.Equal(t, "x", decl.Name)
}

// TestRunMainSource is S4's program shape.
func TestRunMainSource(t *testing.T) {
	src, err := Parse(`VAR x : Integer = 1; FUN main ( ) : Integer DO RETURN x + 2 ; END`)
	assert.NoError(t, err)
	assert.Len(t, src.Globals, 1)
	assert.Equal(t, "x", src.Globals[0].Name)
	assert.Len(t, src.Functions, 1)
	assert.Equal(t, "main", src.Functions[0].Name)
}

func TestListGlobalRequiresInitializer(t *testing.T) {
	_, err := Parse(`LIST xs : Integer ; FUN main ( ) : Integer DO RETURN 0 ; END`)
	assert.Error(t, err)
}

func TestSwitchDefaultMustBeLast(t *testing.T) {
	src, err := Parse(`FUN main ( ) : Integer DO
		LET c : Integer = 2 ;
		SWITCH c CASE 1 : print ( "one" ) ; CASE 2 : print ( "two" ) ; DEFAULT print ( "other" ) ; END
		RETURN 0 ;
	END`)
	assert.NoError(t, err)
	assert.Len(t, src.Functions, 1)

	sw, ok := src.Functions[0].Body[1].(*ast.Switch)
	assert.True(t, ok)
	assert.Len(t, sw.Cases, 3)
	assert.Nil(t, sw.Cases[2].Value)
}
