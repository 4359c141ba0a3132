// Package object defines the runtime value representation the interpreter
// evaluates against, plus the resolved Variable and Function records the
// analyzer installs into a Scope.
//
// The tagged-wrapper shape (one interface, several concrete structs, a
// Type() method standing in for the teacher's GetType) is grounded on the
// teacher interpreter's objects.GoMixObject family in objects/objects.go,
// narrowed to the seven runtime kinds spec.md §4.4 names instead of the
// teacher's larger dynamic-language object zoo (no array/map/set/struct
// variants here — ListLiteral is the language's only collection).
package object

import (
	"math/big"
	"strings"

	"github.com/tangramlang/tangram/types"
)

// Value is any runtime value the interpreter can produce or consume.
type Value interface {
	Type() types.Type
	String() string
}

// NilValue is the single nil value.
type NilValue struct{}

func (NilValue) Type() types.Type { return types.Nil }
func (NilValue) String() string   { return "nil" }

// Bool wraps a boolean.
type Bool struct{ Value bool }

func (Bool) Type() types.Type { return types.Boolean }
func (b Bool) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// Int wraps an arbitrary-precision integer.
type Int struct{ Value *big.Int }

func NewInt(i int64) Int { return Int{Value: big.NewInt(i)} }

func (Int) Type() types.Type { return types.Integer }
func (i Int) String() string { return i.Value.String() }

// Char wraps a single decoded character.
type Char struct{ Value byte }

func (Char) Type() types.Type { return types.Character }
func (c Char) String() string { return string(c.Value) }

// Text wraps a string.
type Text struct{ Value string }

func (Text) Type() types.Type { return types.String }
func (t Text) String() string { return t.Value }

// List wraps an ordered, mutable sequence of values — the runtime shape of
// a ListLiteral.
type List struct {
	Elements    []Value
	ElementType types.Type
}

// Type reports the list's element type. The eight-member Type lattice has
// no dedicated List member (spec.md §3) — a LIST global's declared type
// names its element type, and a ListLiteral's own annotation is likewise
// its element type, taken from its first element (spec.md §4.3's
// ListLiteral rule). A list value's Type() therefore reports what its
// elements are, not "list-of-X".
func (l List) Type() types.Type { return l.ElementType }
func (l List) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatBuiltinArg renders any value for print/1.
func FormatBuiltinArg(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.String()
}
