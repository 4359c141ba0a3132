// Package analyzer implements the single top-down semantic analysis walk
// of spec.md §4.3: name resolution against the scope chain, type
// annotation of every expression, assignability validation, and the
// language's structural rules.
//
// The three-pass-per-Source structure (install every function's stub
// signature, then analyze every global initializer, then every function
// body, so forward and self reference type-check) is grounded on the closure-capture discipline in the
// teacher interpreter's eval.Evaluator.RegisterFunction, which likewise
// installs a callable before any call can reach it — generalized here
// into an explicit stub/real split since our Function needs a type
// signature resolved before its body exists, not just a captured scope.
package analyzer

import (
	"github.com/tangramlang/tangram/ast"
	"github.com/tangramlang/tangram/langerr"
	"github.com/tangramlang/tangram/object"
	"github.com/tangramlang/tangram/scope"
	"github.com/tangramlang/tangram/types"
)

// Analyzer performs the semantic analysis pass.
type Analyzer struct {
	root             *scope.Scope
	returnTypeStack  []types.Type
	builtinFunctions map[string]*object.Function
}

// New creates an Analyzer whose root scope already contains the
// environment's built-in functions (print/1, and optionally
// logarithm/1, converter/2).
func New(builtins map[string]*object.Function) *Analyzer {
	a := &Analyzer{root: scope.New(nil), builtinFunctions: builtins}
	for _, f := range builtins {
		a.root.DeclareFunction(f)
	}
	return a
}

// Analyze runs the full analysis pass over src, mutating its annotation
// slots in place. It returns the first structural or type error found.
func (a *Analyzer) Analyze(src *ast.Source) error {
	globalScope := a.root.Child()

	// Pass 1: install every function's stub signature, so a function may
	// call itself or any sibling declared later in the source.
	for _, fn := range src.Functions {
		if err := a.installFunctionStub(globalScope, fn); err != nil {
			return err
		}
	}

	// Pass 2: analyze every global initializer, in source order, so later
	// globals may reference earlier ones.
	for _, g := range src.Globals {
		if err := a.analyzeGlobal(globalScope, g); err != nil {
			return err
		}
	}

	// Pass 3: analyze every function body against the now-complete global
	// scope.
	for _, fn := range src.Functions {
		if err := a.analyzeFunctionBody(globalScope, fn); err != nil {
			return err
		}
	}

	return a.checkMainExists(src)
}

func (a *Analyzer) checkMainExists(src *ast.Source) error {
	for _, fn := range src.Functions {
		if fn.Name == "main" && len(fn.Params) == 0 {
			if fn.Annotation.ReturnType != types.Integer {
				return langerr.NewEvalError("main/0 must return Integer")
			}
			return nil
		}
	}
	return langerr.NewEvalError("no function named main with arity 0 and return type Integer")
}

func (a *Analyzer) resolveTypeName(name string) (types.Type, error) {
	t, ok := types.Named(name)
	if !ok {
		return types.Any, langerr.NewEvalError("unknown type %q", name)
	}
	return t, nil
}

func (a *Analyzer) installFunctionStub(s *scope.Scope, fn *ast.Function) error {
	paramTypes := make([]types.Type, len(fn.ParamTypeNames))
	for i, tn := range fn.ParamTypeNames {
		t, err := a.resolveTypeName(tn)
		if err != nil {
			return err
		}
		paramTypes[i] = t
	}
	returnType := types.Nil
	if fn.ReturnTypeName != "" {
		t, err := a.resolveTypeName(fn.ReturnTypeName)
		if err != nil {
			return err
		}
		returnType = t
	}
	resolved := &object.Function{Name: fn.Name, ParamTypes: paramTypes, ReturnType: returnType}
	fn.Annotation = resolved
	if existed := s.DeclareFunction(resolved); existed {
		return langerr.NewEvalError("function %q/%d redeclared", fn.Name, len(paramTypes))
	}
	return nil
}

func (a *Analyzer) analyzeGlobal(s *scope.Scope, g *ast.Global) error {
	declaredType, err := a.resolveTypeName(g.TypeName)
	if err != nil {
		return err
	}

	if g.Value != nil {
		if err := a.analyzeExpr(s, g.Value); err != nil {
			return err
		}
		if !types.AssignableTo(g.Value.Type(), declaredType) {
			return langerr.NewEvalError("global %q: initializer type %s not assignable to declared type %s", g.Name, g.Value.Type(), declaredType)
		}
	}

	v := &object.Variable{Name: g.Name, Mutable: g.Mutable, Type: declaredType}
	g.Annotation = v
	s.DeclareVariable(v)
	return nil
}

func (a *Analyzer) analyzeFunctionBody(globalScope *scope.Scope, fn *ast.Function) error {
	fnScope := globalScope.Child()
	for i, pname := range fn.Params {
		fnScope.DeclareVariable(&object.Variable{Name: pname, Mutable: true, Type: fn.Annotation.ParamTypes[i]})
	}

	a.returnTypeStack = append(a.returnTypeStack, fn.Annotation.ReturnType)
	defer func() { a.returnTypeStack = a.returnTypeStack[:len(a.returnTypeStack)-1] }()

	return a.analyzeBlock(fnScope, fn.Body)
}

func (a *Analyzer) currentReturnType() types.Type {
	if len(a.returnTypeStack) == 0 {
		return types.Nil
	}
	return a.returnTypeStack[len(a.returnTypeStack)-1]
}

func (a *Analyzer) analyzeBlock(s *scope.Scope, stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := a.analyzeStatement(s, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeStatement(s *scope.Scope, stmt ast.Statement) error {
	switch n := stmt.(type) {
	case *ast.ExpressionStmt:
		return a.analyzeExpr(s, n.Expr)

	case *ast.Declaration:
		return a.analyzeDeclaration(s, n)

	case *ast.Assignment:
		return a.analyzeAssignment(s, n)

	case *ast.If:
		if err := a.analyzeExpr(s, n.Cond); err != nil {
			return err
		}
		if n.Cond.Type() != types.Boolean {
			return langerr.NewEvalError("if condition must be Boolean")
		}
		if len(n.Then) == 0 {
			return langerr.NewEvalError("if then-block must be non-empty")
		}
		if err := a.analyzeBlock(s.Child(), n.Then); err != nil {
			return err
		}
		if n.Else != nil {
			return a.analyzeBlock(s.Child(), n.Else)
		}
		return nil

	case *ast.Switch:
		return a.analyzeSwitch(s, n)

	case *ast.While:
		if err := a.analyzeExpr(s, n.Cond); err != nil {
			return err
		}
		if n.Cond.Type() != types.Boolean {
			return langerr.NewEvalError("while condition must be Boolean")
		}
		return a.analyzeBlock(s.Child(), n.Block)

	case *ast.Return:
		if err := a.analyzeExpr(s, n.Value); err != nil {
			return err
		}
		if !types.AssignableTo(n.Value.Type(), a.currentReturnType()) {
			return langerr.NewEvalError("return type %s not assignable to function return type %s", n.Value.Type(), a.currentReturnType())
		}
		return nil

	default:
		return langerr.NewEvalError("unknown statement node")
	}
}

func (a *Analyzer) analyzeDeclaration(s *scope.Scope, n *ast.Declaration) error {
	if n.TypeName == "" && n.Value == nil {
		return langerr.NewEvalError("declaration %q needs a type or an initializer", n.Name)
	}

	var declaredType types.Type
	haveDeclaredType := n.TypeName != ""
	if haveDeclaredType {
		t, err := a.resolveTypeName(n.TypeName)
		if err != nil {
			return err
		}
		declaredType = t
	}

	if n.Value != nil {
		if err := a.analyzeExpr(s, n.Value); err != nil {
			return err
		}
		if haveDeclaredType {
			if !types.AssignableTo(n.Value.Type(), declaredType) {
				return langerr.NewEvalError("let %q: initializer type %s not assignable to declared type %s", n.Name, n.Value.Type(), declaredType)
			}
		} else {
			declaredType = n.Value.Type()
		}
	}

	v := &object.Variable{Name: n.Name, Mutable: true, Type: declaredType}
	n.Annotation = v
	s.DeclareVariable(v)
	return nil
}

func (a *Analyzer) analyzeAssignment(s *scope.Scope, n *ast.Assignment) error {
	receiver, ok := n.Receiver.(*ast.Access)
	if !ok {
		return langerr.NewEvalError("assignment target must be a variable access")
	}
	if err := a.analyzeExpr(s, n.Receiver); err != nil {
		return err
	}
	if err := a.analyzeExpr(s, n.Value); err != nil {
		return err
	}
	if !receiver.Annotation.Mutable {
		return langerr.NewEvalError("cannot assign to immutable %q", receiver.Name)
	}
	if !types.AssignableTo(n.Value.Type(), receiver.Annotation.Type) {
		return langerr.NewEvalError("assignment to %q: value type %s not assignable to %s", receiver.Name, n.Value.Type(), receiver.Annotation.Type)
	}
	return nil
}

func (a *Analyzer) analyzeSwitch(s *scope.Scope, n *ast.Switch) error {
	if err := a.analyzeExpr(s, n.Cond); err != nil {
		return err
	}
	for i, c := range n.Cases {
		isDefault := c.Value == nil
		if isDefault && i != len(n.Cases)-1 {
			return langerr.NewEvalError("default case must be last")
		}
		if !isDefault {
			if err := a.analyzeExpr(s, c.Value); err != nil {
				return err
			}
			if !types.AssignableTo(c.Value.Type(), n.Cond.Type()) {
				return langerr.NewEvalError("case value type %s not assignable to switch condition type %s", c.Value.Type(), n.Cond.Type())
			}
		}
		if err := a.analyzeBlock(s.Child(), c.Block); err != nil {
			return err
		}
	}
	foundDefault := false
	for _, c := range n.Cases {
		if c.Value == nil {
			foundDefault = true
		}
	}
	if !foundDefault {
		return langerr.NewEvalError("switch must have a default case")
	}
	return nil
}

func (a *Analyzer) analyzeExpr(s *scope.Scope, e ast.Expression) error {
	switch n := e.(type) {
	case *ast.Literal:
		n.SetType(n.Value.Type())
		return nil

	case *ast.Group:
		if _, ok := n.Inner.(*ast.Binary); !ok {
			return langerr.NewEvalError("parenthesized expression must contain a binary operator")
		}
		if err := a.analyzeExpr(s, n.Inner); err != nil {
			return err
		}
		n.SetType(n.Inner.Type())
		return nil

	case *ast.Binary:
		return a.analyzeBinary(s, n)

	case *ast.Access:
		return a.analyzeAccess(s, n)

	case *ast.Call:
		return a.analyzeCall(s, n)

	case *ast.ListLiteral:
		return a.analyzeListLiteral(s, n)

	default:
		return langerr.NewEvalError("unknown expression node")
	}
}

func (a *Analyzer) analyzeBinary(s *scope.Scope, n *ast.Binary) error {
	if err := a.analyzeExpr(s, n.Left); err != nil {
		return err
	}
	if err := a.analyzeExpr(s, n.Right); err != nil {
		return err
	}
	lt, rt := n.Left.Type(), n.Right.Type()

	switch n.Op {
	case "&&", "||":
		if lt != types.Boolean || rt != types.Boolean {
			return langerr.NewEvalError("operator %s requires Boolean operands", n.Op)
		}
		n.SetType(types.Boolean)

	case "<", ">", "==", "!=":
		if !types.AssignableTo(lt, types.Comparable) || !types.AssignableTo(rt, types.Comparable) || lt != rt {
			return langerr.NewEvalError("operator %s requires two Comparable operands of the same type", n.Op)
		}
		n.SetType(types.Boolean)

	case "+":
		if lt == types.String || rt == types.String {
			n.SetType(types.String)
		} else if lt == types.Integer && rt == types.Integer {
			n.SetType(types.Integer)
		} else if lt == types.Decimal && rt == types.Decimal {
			n.SetType(types.Decimal)
		} else {
			return langerr.NewEvalError("operator + requires String, or matching Integer/Decimal operands")
		}

	case "-", "*", "/":
		if lt == types.Integer && rt == types.Integer {
			n.SetType(types.Integer)
		} else if lt == types.Decimal && rt == types.Decimal {
			n.SetType(types.Decimal)
		} else {
			return langerr.NewEvalError("operator %s requires matching Integer or Decimal operands", n.Op)
		}

	case "^":
		if lt != types.Integer || rt != types.Integer {
			return langerr.NewEvalError("operator ^ requires Integer operands")
		}
		n.SetType(types.Integer)

	default:
		return langerr.NewEvalError("unknown operator %q", n.Op)
	}
	return nil
}

func (a *Analyzer) analyzeAccess(s *scope.Scope, n *ast.Access) error {
	v, ok := s.LookupVariable(n.Name)
	if !ok {
		return langerr.NewEvalError("undefined variable %q", n.Name)
	}
	n.Annotation = v

	if n.Offset != nil {
		if err := a.analyzeExpr(s, n.Offset); err != nil {
			return err
		}
		if n.Offset.Type() != types.Integer {
			return langerr.NewEvalError("list index must be Integer")
		}
	}
	n.SetType(v.Type)
	return nil
}

func (a *Analyzer) analyzeCall(s *scope.Scope, n *ast.Call) error {
	for _, arg := range n.Args {
		if err := a.analyzeExpr(s, arg); err != nil {
			return err
		}
	}
	fn, ok := s.LookupFunction(n.Name, len(n.Args))
	if !ok {
		return langerr.NewEvalError("undefined function %q/%d", n.Name, len(n.Args))
	}
	for i, arg := range n.Args {
		if !types.AssignableTo(arg.Type(), fn.ParamTypes[i]) {
			return langerr.NewEvalError("call to %q: argument %d type %s not assignable to parameter type %s", n.Name, i, arg.Type(), fn.ParamTypes[i])
		}
	}
	n.Annotation = fn
	n.SetType(fn.ReturnType)
	return nil
}

func (a *Analyzer) analyzeListLiteral(s *scope.Scope, n *ast.ListLiteral) error {
	if len(n.Values) == 0 {
		n.SetType(types.Any)
		return nil
	}
	for _, v := range n.Values {
		if err := a.analyzeExpr(s, v); err != nil {
			return err
		}
	}
	elemType := n.Values[0].Type()
	for _, v := range n.Values[1:] {
		if !types.AssignableTo(v.Type(), elemType) {
			return langerr.NewEvalError("list element type %s not assignable to element type %s", v.Type(), elemType)
		}
	}
	n.SetType(elemType)
	return nil
}
