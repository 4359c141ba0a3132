package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tangramlang/tangram/ast"
	"github.com/tangramlang/tangram/environment"
	"github.com/tangramlang/tangram/parser"
	"github.com/tangramlang/tangram/types"
)

func analyze(t *testing.T, src string) (*ast.Source, error) {
	t.Helper()
	parsed, err := parser.Parse(src)
	assert.NoError(t, err)
	env := environment.New(nopWriter{})
	return parsed, New(env.Functions).Analyze(parsed)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// TestRunMainSucceeds mirrors spec.md's S4 scenario at analysis time.
func TestRunMainSucceeds(t *testing.T) {
	src, err := analyze(t, `VAR x : Integer = 1 ; FUN main ( ) : Integer DO RETURN x + 2 ; END`)
	assert.NoError(t, err)
	assert.True(t, ast.TypeIsSet(src.Functions[0].Body[0].(*ast.Return).Value))
}

func TestMissingMainRejected(t *testing.T) {
	_, err := analyze(t, `FUN helper ( ) : Integer DO RETURN 1 ; END`)
	assert.Error(t, err)
}

func TestMainMustReturnInteger(t *testing.T) {
	_, err := analyze(t, `FUN main ( ) : Boolean DO RETURN TRUE ; END`)
	assert.Error(t, err)
}

func TestClosureOverGlobalTypeChecks(t *testing.T) {
	// spec.md's S5 shape: a function parameter shadows a global name, and
	// a sibling function's own LET shadows a different global — both must
	// type-check independently against their own scope.
	src, err := analyze(t, `
		VAR x : Integer = 1 ;
		VAR y : Integer = 2 ;
		VAR z : Integer = 3 ;
		FUN f ( z : Integer ) : Integer DO RETURN x + y + z ; END
		FUN main ( ) : Integer DO LET y : Integer = 4 ; RETURN f ( 5 ) ; END
	`)
	assert.NoError(t, err)
	assert.Len(t, src.Functions, 2)
}

func TestUndefinedVariableRejected(t *testing.T) {
	_, err := analyze(t, `FUN main ( ) : Integer DO RETURN missing ; END`)
	assert.Error(t, err)
}

func TestNilNotComparable(t *testing.T) {
	_, err := analyze(t, `FUN main ( ) : Integer DO IF NIL == NIL DO RETURN 1 ; END RETURN 0 ; END`)
	assert.Error(t, err)
}

func TestBinaryOperatorTyping(t *testing.T) {
	src, err := analyze(t, `FUN main ( ) : Integer DO RETURN 1 + 2 * 3 ; END`)
	assert.NoError(t, err)
	ret := src.Functions[0].Body[0].(*ast.Return)
	assert.Equal(t, types.Integer, ret.Value.Type())
}
