// Package environment wires the built-in function registry that seeds both
// the analyzer's root scope and the interpreter's root scope with the same
// Function records (signatures and real callables). Built-in type names
// are resolved by types.Named, not by this package.
//
// The registration shape — a table of name-to-callback builtins, appended
// to at construction rather than discovered by reflection — is grounded
// on the teacher interpreter's std.Builtins/std.Builtin pattern
// (std/builtins.go, std/math.go), narrowed from the teacher's large
// dynamic-language standard library down to the three built-ins spec.md
// §4.4 names.
package environment

import (
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/tangramlang/tangram/langerr"
	"github.com/tangramlang/tangram/object"
	"github.com/tangramlang/tangram/types"
)

// Environment holds the built-in function table and the writer print/1
// writes to.
type Environment struct {
	Writer    io.Writer
	Functions map[string]*object.Function
}

// New creates an Environment with print/1, logarithm/1, and converter/2
// registered, writing print's output to w.
func New(w io.Writer) *Environment {
	e := &Environment{Writer: w, Functions: make(map[string]*object.Function)}
	e.register("print", []types.Type{types.Any}, types.Nil, e.builtinPrint)
	e.register("logarithm", []types.Type{types.Decimal}, types.Decimal, e.builtinLogarithm)
	e.register("converter", []types.Type{types.Integer, types.Integer}, types.String, e.builtinConverter)
	return e
}

func (e *Environment) register(name string, paramTypes []types.Type, returnType types.Type, body object.Callable) {
	e.Functions[name] = &object.Function{
		Name: name, ParamTypes: paramTypes, ReturnType: returnType, Body: body,
	}
}

// builtinPrint writes the argument's printable form to the environment's
// writer followed by a newline, and returns nil.
func (e *Environment) builtinPrint(args []object.Value) (object.Value, error) {
	fmt.Fprintln(e.Writer, object.FormatBuiltinArg(args[0]))
	return object.NilValue{}, nil
}

// builtinLogarithm computes the natural log of a Decimal.
func (e *Environment) builtinLogarithm(args []object.Value) (object.Value, error) {
	d, ok := args[0].(object.Decimal)
	if !ok {
		return nil, langerr.NewEvalError("logarithm expects a Decimal argument")
	}
	f := new(big.Float).Quo(
		new(big.Float).SetInt(d.Mantissa),
		new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Scale)), nil)),
	)
	v, _ := f.Float64()
	if v <= 0 {
		return nil, langerr.NewEvalError("logarithm of non-positive value")
	}
	result := math.Log(v)
	dec, _ := object.ParseDecimal(fmt.Sprintf("%.*f", object.DivisionScale, result))
	return dec, nil
}

// builtinConverter renders an Integer's digits in the given base (2-36).
func (e *Environment) builtinConverter(args []object.Value) (object.Value, error) {
	n, ok := args[0].(object.Int)
	if !ok {
		return nil, langerr.NewEvalError("converter expects an Integer value")
	}
	baseArg, ok := args[1].(object.Int)
	if !ok {
		return nil, langerr.NewEvalError("converter expects an Integer base")
	}
	base := baseArg.Value.Int64()
	if base < 2 || base > 36 {
		return nil, langerr.NewEvalError("converter base must be between 2 and 36")
	}
	return object.Text{Value: n.Value.Text(int(base))}, nil
}
