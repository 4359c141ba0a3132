package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tangramlang/tangram/analyzer"
	"github.com/tangramlang/tangram/environment"
	"github.com/tangramlang/tangram/object"
	"github.com/tangramlang/tangram/parser"
)

func run(t *testing.T, src string) (object.Value, string) {
	t.Helper()
	parsed, err := parser.Parse(src)
	assert.NoError(t, err)

	var out bytes.Buffer
	env := environment.New(&out)
	assert.NoError(t, analyzer.New(env.Functions).Analyze(parsed))

	result, err := New(env).Run(parsed)
	assert.NoError(t, err)
	return result, out.String()
}

// TestHelloWorld is spec.md's S1: print("Hello, World!") writes the text
// plus a newline; main then returns 0.
func TestHelloWorld(t *testing.T) {
	result, out := run(t, `FUN main ( ) : Integer DO print ( "Hello, World!" ) ; RETURN 0 ; END`)
	assert.Equal(t, "Hello, World!\n", out)
	assert.Equal(t, "0", result.String())
}

// TestRunMain is S4: VAR x:Integer=1, main returns x+2 == 3.
func TestRunMain(t *testing.T) {
	result, _ := run(t, `VAR x : Integer = 1 ; FUN main ( ) : Integer DO RETURN x + 2 ; END`)
	assert.Equal(t, "3", result.String())
}

// TestClosureOverGlobal is S5: f closes over the global y (2), not
// main's local LET y (4), so f(5) = x+y+z = 1+2+5 = 8.
func TestClosureOverGlobal(t *testing.T) {
	result, _ := run(t, `
		VAR x : Integer = 1 ;
		VAR y : Integer = 2 ;
		VAR z : Integer = 3 ;
		FUN f ( z : Integer ) : Integer DO RETURN x + y + z ; END
		FUN main ( ) : Integer DO LET y : Integer = 4 ; RETURN f ( 5 ) ; END
	`)
	assert.Equal(t, "8", result.String())
}

// TestSwitchDefault is S6: switch with c=2 prints "two"; c=9 prints "other".
func TestSwitchDefault(t *testing.T) {
	matched, out := run(t, `
		VAR c : Integer = 2 ;
		FUN main ( ) : Integer DO
			SWITCH c CASE 1 : print ( "one" ) ; CASE 2 : print ( "two" ) ; DEFAULT print ( "other" ) ; END
			RETURN 0 ;
		END
	`)
	assert.Equal(t, "0", matched.String())
	assert.Equal(t, "two\n", out)

	_, out2 := run(t, `
		VAR c : Integer = 9 ;
		FUN main ( ) : Integer DO
			SWITCH c CASE 1 : print ( "one" ) ; CASE 2 : print ( "two" ) ; DEFAULT print ( "other" ) ; END
			RETURN 0 ;
		END
	`)
	assert.Equal(t, "other\n", out2)
}

// TestExponentIdentity is spec.md §8 property 6: a^b equals a multiplied
// by itself b times, for non-negative integers.
func TestExponentIdentity(t *testing.T) {
	result, _ := run(t, `FUN main ( ) : Integer DO RETURN 3 ^ 4 ; END`)
	assert.Equal(t, "81", result.String())

	result, _ = run(t, `FUN main ( ) : Integer DO RETURN 5 ^ 0 ; END`)
	assert.Equal(t, "1", result.String())
}

func TestIntegerDivisionByZeroErrors(t *testing.T) {
	parsed, err := parser.Parse(`FUN main ( ) : Integer DO RETURN 1 / 0 ; END`)
	assert.NoError(t, err)
	var out bytes.Buffer
	env := environment.New(&out)
	assert.NoError(t, analyzer.New(env.Functions).Analyze(parsed))
	_, err = New(env).Run(parsed)
	assert.Error(t, err)
}

func TestDecimalDivisionRounding(t *testing.T) {
	result, out := run(t, `FUN main ( ) : Integer DO
		LET q : Decimal = 1.0 / 3.0 ;
		print ( q ) ;
		RETURN 1 ;
	END`)
	assert.Equal(t, "1", result.String())
	assert.Equal(t, "0.3333333333333333333333333333333333\n", out)
}

func TestListIndexingAndAssignment(t *testing.T) {
	result, _ := run(t, `
		LIST xs : Integer = [ 10 , 20 , 30 ] ;
		FUN main ( ) : Integer DO
			xs [ 1 ] = 99 ;
			RETURN xs [ 1 ] ;
		END
	`)
	assert.Equal(t, "99", result.String())
}

// TestUninitializedDeclarationZeroValue guards against a regression where an
// uninitialized typed global or local held a NilValue at runtime and a
// later arithmetic use of it crashed the interpreter with a Go
// interface-conversion panic instead of type-checking cleanly.
func TestUninitializedDeclarationZeroValue(t *testing.T) {
	result, _ := run(t, `VAR x : Integer ; FUN main ( ) : Integer DO RETURN x + 2 ; END`)
	assert.Equal(t, "2", result.String())

	result, _ = run(t, `FUN main ( ) : Integer DO LET q : Decimal ; RETURN 1 ; END`)
	assert.Equal(t, "1", result.String())
}
