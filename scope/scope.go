// Package scope implements the lexical-parent-linked Scope that both the
// static analyzer and the dynamic interpreter resolve names against.
//
// The shape — a mapping owned by the current block, a parent pointer
// walked upward on lookup, shared between the two name-resolving passes —
// is grounded on the teacher interpreter's scope.Scope (LookUp/Bind/Assign
// walking the chain exactly this way), generalized from the teacher's
// single `map[string]GoMixObject` into the two independent namespaces
// spec.md §3 calls for: `name → Variable` and `(name, arity) → Function`.
package scope

import (
	"fmt"

	"github.com/tangramlang/tangram/object"
)

func funcKey(name string, arity int) string {
	return fmt.Sprintf("%s/%d", name, arity)
}

// Scope is a parent-linked mapping from names to Variables and from
// (name, arity) pairs to Functions.
type Scope struct {
	variables map[string]*object.Variable
	functions map[string]*object.Function
	Parent    *Scope
}

// New creates a Scope whose parent is parent (nil for the root scope).
func New(parent *Scope) *Scope {
	return &Scope{
		variables: make(map[string]*object.Variable),
		functions: make(map[string]*object.Function),
		Parent:    parent,
	}
}

// LookupVariable walks this scope and its parents for a variable named
// name, returning the nearest (innermost) binding.
func (s *Scope) LookupVariable(name string) (*object.Variable, bool) {
	if v, ok := s.variables[name]; ok {
		return v, true
	}
	if s.Parent != nil {
		return s.Parent.LookupVariable(name)
	}
	return nil, false
}

// DeclareVariable installs a new Variable in this scope only, shadowing
// any variable of the same name in an enclosing scope. It reports whether
// a variable of that name already existed in THIS scope (a redeclaration).
func (s *Scope) DeclareVariable(v *object.Variable) bool {
	_, existed := s.variables[v.Name]
	s.variables[v.Name] = v
	return existed
}

// LookupFunction walks this scope and its parents for a function named
// name with the given arity.
func (s *Scope) LookupFunction(name string, arity int) (*object.Function, bool) {
	key := funcKey(name, arity)
	if f, ok := s.functions[key]; ok {
		return f, true
	}
	if s.Parent != nil {
		return s.Parent.LookupFunction(name, arity)
	}
	return nil, false
}

// DeclareFunction installs a Function in this scope only, keyed by its
// name and parameter count.
func (s *Scope) DeclareFunction(f *object.Function) bool {
	key := funcKey(f.Name, len(f.ParamTypes))
	_, existed := s.functions[key]
	s.functions[key] = f
	return existed
}

// Child creates a new scope nested inside s — used at every block entry
// (if/while/case bodies, function call frames).
func (s *Scope) Child() *Scope {
	return New(s)
}
