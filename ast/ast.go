// Package ast defines the closed family of AST node types the parser
// produces and the analyzer annotates in place.
//
// Per spec.md §9's design note this picks mutable annotation fields
// directly on the expression nodes over a side table or a separate
// "analyzed AST" type: the interpreter and the emitter both walk the
// exact tree the parser built, and Go interfaces mix pointer and value
// receivers awkwardly enough that a node-identity side table would need
// its own bookkeeping for no benefit here. The node shapes themselves
// follow the teacher interpreter's parser/node.go family (one struct per
// concrete production; no source reconstruction method is kept here)
// narrowed to the statement/expression variants spec.md §3 names — no
// arrays/maps/sets/structs/for-loops/foreach, which this language does
// not have.
package ast

import (
	"github.com/tangramlang/tangram/object"
	"github.com/tangramlang/tangram/types"
)

// Node is implemented by every AST node.
type Node interface {
	node()
}

// Statement is implemented by every statement node.
type Statement interface {
	Node
	statement()
}

// Expression is implemented by every expression node. Type and SetType read
// and write the mutable annotation slot the analyzer fills exactly once.
type Expression interface {
	Node
	expression()
	Type() types.Type
	SetType(types.Type)
}

// exprBase factors the shared annotation slot into every concrete
// expression type via embedding.
type exprBase struct {
	resolvedType types.Type
	typeSet      bool
}

func (e *exprBase) Type() types.Type { return e.resolvedType }
func (e *exprBase) SetType(t types.Type) {
	e.resolvedType = t
	e.typeSet = true
}

// TypeIsSet reports whether the analyzer has annotated this expression —
// used by soundness tests (spec.md §8 property 4).
func TypeIsSet(e Expression) bool {
	switch n := e.(type) {
	case *Literal:
		return n.typeSet
	case *Group:
		return n.typeSet
	case *Binary:
		return n.typeSet
	case *Access:
		return n.typeSet
	case *Call:
		return n.typeSet
	case *ListLiteral:
		return n.typeSet
	default:
		return false
	}
}

// ---- Declarations ----

// Source is the root node: every global followed by every function.
type Source struct {
	Globals   []*Global
	Functions []*Function
}

func (*Source) node() {}

// Global is a top-level LIST/VAR/VAL declaration.
type Global struct {
	Name     string
	TypeName string
	Mutable  bool
	Value    Expression // nil if no initializer
	IsList   bool

	Annotation *object.Variable
}

func (*Global) node() {}

// Function is a top-level FUN declaration.
type Function struct {
	Name           string
	Params         []string
	ParamTypeNames []string
	ReturnTypeName string // empty if absent
	Body           []Statement

	Annotation *object.Function
}

func (*Function) node() {}

// ---- Statements ----

// ExpressionStmt wraps a bare expression-statement.
type ExpressionStmt struct{ Expr Expression }

func (*ExpressionStmt) node()      {}
func (*ExpressionStmt) statement() {}

// Declaration is a LET statement.
type Declaration struct {
	Name     string
	TypeName string // empty if absent
	Value    Expression

	Annotation *object.Variable
}

func (*Declaration) node()      {}
func (*Declaration) statement() {}

// Assignment assigns Value to Receiver, which must analyze to an Access.
type Assignment struct {
	Receiver Expression
	Value    Expression
}

func (*Assignment) node()      {}
func (*Assignment) statement() {}

// If is an IF/ELSE statement; Else is nil when absent.
type If struct {
	Cond Expression
	Then []Statement
	Else []Statement
}

func (*If) node()      {}
func (*If) statement() {}

// Switch is a SWITCH statement; Cases' final element is the default case.
type Switch struct {
	Cond  Expression
	Cases []*Case
}

func (*Switch) node()      {}
func (*Switch) statement() {}

// Case is one CASE or the trailing DEFAULT (Value nil) of a Switch.
type Case struct {
	Value Expression // nil for the default case
	Block []Statement
}

func (*Case) node() {}

// While is a WHILE loop.
type While struct {
	Cond  Expression
	Block []Statement
}

func (*While) node()      {}
func (*While) statement() {}

// Return is a RETURN statement.
type Return struct {
	Value Expression
}

func (*Return) node()      {}
func (*Return) statement() {}

// ---- Expressions ----

// Literal is a NIL/TRUE/FALSE/INTEGER/DECIMAL/CHARACTER/STRING literal,
// already decoded into a runtime value by the parser.
type Literal struct {
	exprBase
	Value  object.Value
	Offset int
}

func (*Literal) node()       {}
func (*Literal) expression() {}

// Group is a parenthesized expression; spec.md §4.3 requires its inner
// expression to be a Binary.
type Group struct {
	exprBase
	Inner Expression
}

func (*Group) node()       {}
func (*Group) expression() {}

// Binary is a left-associative binary operator application.
type Binary struct {
	exprBase
	Op          string
	Left, Right Expression
	Offset      int
}

func (*Binary) node()       {}
func (*Binary) expression() {}

// Access reads a variable, optionally indexed by Offset.
type Access struct {
	exprBase
	Name       string
	Offset     Expression // nil if not indexed
	SourcePos  int
	Annotation *object.Variable
}

func (*Access) node()       {}
func (*Access) expression() {}

// Call invokes a named function with Args.
type Call struct {
	exprBase
	Name       string
	Args       []Expression
	SourcePos  int
	Annotation *object.Function
}

func (*Call) node()       {}
func (*Call) expression() {}

// ListLiteral is a `[e1, e2, …]` literal.
type ListLiteral struct {
	exprBase
	Values []Expression
}

func (*ListLiteral) node()       {}
func (*ListLiteral) expression() {}
