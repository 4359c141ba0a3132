// Package interp implements the tree-walking interpreter that evaluates
// an analyzed ast.Source against a runtime scope chain.
//
// The function-invocation frame — enter a child of the scope captured at
// install time (never of the call site), bind parameters, run the body,
// unwrap a non-local return into the call's result — is grounded directly
// on the teacher interpreter's eval.Evaluator.CallFunction and its
// objects.ReturnValue/UnwrapReturnValue pattern (eval/evaluator.go),
// carried over almost unchanged since it is exactly the closure contract
// spec.md §5 and §9 describe.
package interp

import (
	"math/big"

	"github.com/tangramlang/tangram/ast"
	"github.com/tangramlang/tangram/environment"
	"github.com/tangramlang/tangram/langerr"
	"github.com/tangramlang/tangram/object"
	"github.com/tangramlang/tangram/scope"
	"github.com/tangramlang/tangram/types"
)

// Interpreter evaluates an analyzed Source.
type Interpreter struct {
	env  *environment.Environment
	root *scope.Scope
}

// New creates an Interpreter whose root scope holds env's built-in
// functions as real callables.
func New(env *environment.Environment) *Interpreter {
	in := &Interpreter{env: env, root: scope.New(nil)}
	for _, f := range env.Functions {
		in.root.DeclareFunction(f)
	}
	return in
}

// returnSignal carries a non-local return's value up through statement
// evaluation. It is a dedicated control-flow signal, not a panic/recover
// exception channel, per spec.md §9.
type returnSignal struct {
	value object.Value
}

// Run evaluates src per spec.md §4.4's Source rule: evaluate every global,
// install every function as a closure over the scope that now holds those
// globals, then call main/0 and return its value.
func (in *Interpreter) Run(src *ast.Source) (object.Value, error) {
	globalScope := in.root.Child()

	for _, g := range src.Globals {
		v, err := in.evalGlobal(globalScope, g)
		if err != nil {
			return nil, err
		}
		g.Annotation.Value = v
		globalScope.DeclareVariable(g.Annotation)
	}

	for _, fn := range src.Functions {
		in.installFunction(globalScope, fn)
	}

	mainFn, ok := globalScope.LookupFunction("main", 0)
	if !ok {
		return nil, langerr.NewEvalError("no main/0 to run")
	}
	return mainFn.Body(nil)
}

func (in *Interpreter) evalGlobal(s *scope.Scope, g *ast.Global) (object.Value, error) {
	if g.Value == nil {
		return zeroValue(g.Annotation.Type), nil
	}
	return in.evalExpr(s, g.Value)
}

// zeroValue is the runtime value an uninitialized VAR/VAL/LET of the given
// declared type starts as — e.g. Integer zeroes to 0, not to NilValue, so
// later arithmetic on it type-checks against the value it actually holds.
// Abstract types (Any, Nil, Comparable) have no concrete zero and stay Nil;
// no operator that can receive one asserts into a concrete type: < and >
// return an EvalError, == and != compare it as nil, and + with a String
// operand renders it as "nil".
func zeroValue(t types.Type) object.Value {
	switch t {
	case types.Boolean:
		return object.Bool{Value: false}
	case types.Integer:
		return object.Int{Value: big.NewInt(0)}
	case types.Decimal:
		return object.Decimal{Mantissa: big.NewInt(0), Scale: 0}
	case types.Character:
		return object.Char{Value: 0}
	case types.String:
		return object.Text{Value: ""}
	default:
		return object.NilValue{}
	}
}

// installFunction creates fn's real callable body, closing over
// capturedScope — the scope active when the function was installed, never
// the scope at any later call site.
func (in *Interpreter) installFunction(capturedScope *scope.Scope, fn *ast.Function) {
	fn.Annotation.Body = func(args []object.Value) (object.Value, error) {
		frame := capturedScope.Child()
		for i, pname := range fn.Params {
			frame.DeclareVariable(&object.Variable{
				Name: pname, Mutable: true, Type: fn.Annotation.ParamTypes[i], Value: args[i],
			})
		}
		sig, err := in.execBlock(frame, fn.Body)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			return sig.value, nil
		}
		return object.NilValue{}, nil
	}
	capturedScope.DeclareFunction(fn.Annotation)
}

// execBlock runs stmts in order, stopping early if a return signal
// surfaces from any statement.
func (in *Interpreter) execBlock(s *scope.Scope, stmts []ast.Statement) (*returnSignal, error) {
	for _, stmt := range stmts {
		sig, err := in.execStatement(s, stmt)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			return sig, nil
		}
	}
	return nil, nil
}

func (in *Interpreter) execStatement(s *scope.Scope, stmt ast.Statement) (*returnSignal, error) {
	switch n := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := in.evalExpr(s, n.Expr)
		return nil, err

	case *ast.Declaration:
		var v object.Value
		if n.Value != nil {
			var err error
			v, err = in.evalExpr(s, n.Value)
			if err != nil {
				return nil, err
			}
		} else {
			v = zeroValue(n.Annotation.Type)
		}
		n.Annotation.Value = v
		s.DeclareVariable(n.Annotation)
		return nil, nil

	case *ast.Assignment:
		v, err := in.evalExpr(s, n.Value)
		if err != nil {
			return nil, err
		}
		receiver := n.Receiver.(*ast.Access)
		if receiver.Offset != nil {
			return nil, in.assignIndexed(s, receiver, v)
		}
		variableFor(s, receiver).Value = v
		return nil, nil

	case *ast.If:
		cond, err := in.evalExpr(s, n.Cond)
		if err != nil {
			return nil, err
		}
		if cond.(object.Bool).Value {
			return in.execBlock(s.Child(), n.Then)
		}
		if n.Else != nil {
			return in.execBlock(s.Child(), n.Else)
		}
		return nil, nil

	case *ast.Switch:
		return in.execSwitch(s, n)

	case *ast.While:
		for {
			cond, err := in.evalExpr(s, n.Cond)
			if err != nil {
				return nil, err
			}
			if !cond.(object.Bool).Value {
				return nil, nil
			}
			sig, err := in.execBlock(s.Child(), n.Block)
			if err != nil {
				return nil, err
			}
			if sig != nil {
				return sig, nil
			}
		}

	case *ast.Return:
		v, err := in.evalExpr(s, n.Value)
		if err != nil {
			return nil, err
		}
		return &returnSignal{value: v}, nil

	default:
		return nil, langerr.NewEvalError("unknown statement node")
	}
}

func (in *Interpreter) assignIndexed(s *scope.Scope, receiver *ast.Access, v object.Value) error {
	listVal, ok := variableFor(s, receiver).Value.(object.List)
	if !ok {
		return langerr.NewEvalError("%q is not a list", receiver.Name)
	}
	idxVal, err := in.evalExpr(s, receiver.Offset)
	if err != nil {
		return err
	}
	idx := int(idxVal.(object.Int).Value.Int64())
	if idx < 0 || idx >= len(listVal.Elements) {
		return langerr.NewEvalError("list index %d out of range [0, %d)", idx, len(listVal.Elements))
	}
	listVal.Elements[idx] = v
	return nil
}

func (in *Interpreter) execSwitch(s *scope.Scope, n *ast.Switch) (*returnSignal, error) {
	condVal, err := in.evalExpr(s, n.Cond)
	if err != nil {
		return nil, err
	}
	for _, c := range n.Cases {
		if c.Value == nil {
			return in.execBlock(s.Child(), c.Block) // default, guaranteed last
		}
		caseVal, err := in.evalExpr(s, c.Value)
		if err != nil {
			return nil, err
		}
		if valuesEqual(condVal, caseVal) {
			return in.execBlock(s.Child(), c.Block)
		}
	}
	return nil, nil
}

func (in *Interpreter) evalExpr(s *scope.Scope, e ast.Expression) (object.Value, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Value, nil

	case *ast.Group:
		return in.evalExpr(s, n.Inner)

	case *ast.Binary:
		return in.evalBinary(s, n)

	case *ast.Access:
		return in.evalAccess(s, n)

	case *ast.Call:
		return in.evalCall(s, n)

	case *ast.ListLiteral:
		return in.evalListLiteral(s, n)

	default:
		return nil, langerr.NewEvalError("unknown expression node")
	}
}

// variableFor resolves n's variable in the runtime scope chain, so a call
// frame reads and writes the parameter bindings it declared itself.
func variableFor(s *scope.Scope, n *ast.Access) *object.Variable {
	if v, ok := s.LookupVariable(n.Name); ok {
		return v
	}
	return n.Annotation
}

func (in *Interpreter) evalAccess(s *scope.Scope, n *ast.Access) (object.Value, error) {
	v := variableFor(s, n).Value
	if n.Offset == nil {
		return v, nil
	}
	list, ok := v.(object.List)
	if !ok {
		return nil, langerr.NewEvalError("%q is not a list", n.Name)
	}
	idxVal, err := in.evalExpr(s, n.Offset)
	if err != nil {
		return nil, err
	}
	idx := int(idxVal.(object.Int).Value.Int64())
	if idx < 0 || idx >= len(list.Elements) {
		return nil, langerr.NewEvalError("list index %d out of range [0, %d)", idx, len(list.Elements))
	}
	return list.Elements[idx], nil
}

func (in *Interpreter) evalCall(s *scope.Scope, n *ast.Call) (object.Value, error) {
	args := make([]object.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := in.evalExpr(s, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return n.Annotation.Body(args)
}

func (in *Interpreter) evalListLiteral(s *scope.Scope, n *ast.ListLiteral) (object.Value, error) {
	elems := make([]object.Value, len(n.Values))
	for i, v := range n.Values {
		val, err := in.evalExpr(s, v)
		if err != nil {
			return nil, err
		}
		elems[i] = val
	}
	return object.List{Elements: elems, ElementType: n.Type()}, nil
}

// evalBinary implements spec.md §4.4's Binary rule: short-circuit && and
// ||, exact big-integer/big-decimal arithmetic, half-to-even decimal
// division, runtime errors on division by zero and negative/overflowing
// exponents.
func (in *Interpreter) evalBinary(s *scope.Scope, n *ast.Binary) (object.Value, error) {
	if n.Op == "&&" || n.Op == "||" {
		left, err := in.evalExpr(s, n.Left)
		if err != nil {
			return nil, err
		}
		lb := left.(object.Bool).Value
		if n.Op == "&&" && !lb {
			return object.Bool{Value: false}, nil
		}
		if n.Op == "||" && lb {
			return object.Bool{Value: true}, nil
		}
		right, err := in.evalExpr(s, n.Right)
		if err != nil {
			return nil, err
		}
		return right, nil
	}

	left, err := in.evalExpr(s, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evalExpr(s, n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "<", ">", "==", "!=":
		return compareValues(n.Op, left, right)
	case "+":
		return addValues(left, right)
	case "-":
		return arithValues("-", left, right)
	case "*":
		return arithValues("*", left, right)
	case "/":
		return divideValues(left, right)
	case "^":
		return powValues(left, right)
	default:
		return nil, langerr.NewEvalError("unknown operator %q", n.Op)
	}
}

func valuesEqual(a, b object.Value) bool {
	switch av := a.(type) {
	case object.NilValue:
		_, ok := b.(object.NilValue)
		return ok
	case object.Bool:
		bv, ok := b.(object.Bool)
		return ok && av.Value == bv.Value
	case object.Int:
		bv, ok := b.(object.Int)
		return ok && av.Value.Cmp(bv.Value) == 0
	case object.Decimal:
		bv, ok := b.(object.Decimal)
		return ok && object.CmpDecimal(av, bv) == 0
	case object.Char:
		bv, ok := b.(object.Char)
		return ok && av.Value == bv.Value
	case object.Text:
		bv, ok := b.(object.Text)
		return ok && av.Value == bv.Value
	default:
		return false
	}
}

func compareValues(op string, a, b object.Value) (object.Value, error) {
	if op == "==" {
		return object.Bool{Value: valuesEqual(a, b)}, nil
	}
	if op == "!=" {
		return object.Bool{Value: !valuesEqual(a, b)}, nil
	}
	// '<' and '>' only ever type-check over same-typed Comparable operands.
	switch av := a.(type) {
	case object.Int:
		bv := b.(object.Int)
		cmp := av.Value.Cmp(bv.Value)
		return object.Bool{Value: (op == "<" && cmp < 0) || (op == ">" && cmp > 0)}, nil
	case object.Decimal:
		bv := b.(object.Decimal)
		cmp := object.CmpDecimal(av, bv)
		return object.Bool{Value: (op == "<" && cmp < 0) || (op == ">" && cmp > 0)}, nil
	case object.Char:
		bv := b.(object.Char)
		return object.Bool{Value: (op == "<" && av.Value < bv.Value) || (op == ">" && av.Value > bv.Value)}, nil
	case object.Text:
		bv := b.(object.Text)
		return object.Bool{Value: (op == "<" && av.Value < bv.Value) || (op == ">" && av.Value > bv.Value)}, nil
	default:
		return nil, langerr.NewEvalError("operator %s not supported for this type", op)
	}
}

func addValues(a, b object.Value) (object.Value, error) {
	if at, ok := a.(object.Text); ok {
		return object.Text{Value: at.Value + stringOf(b)}, nil
	}
	if bt, ok := b.(object.Text); ok {
		return object.Text{Value: stringOf(a) + bt.Value}, nil
	}
	if ai, ok := a.(object.Int); ok {
		bi := b.(object.Int)
		return object.Int{Value: new(big.Int).Add(ai.Value, bi.Value)}, nil
	}
	ad := a.(object.Decimal)
	bd := b.(object.Decimal)
	return object.AddDecimal(ad, bd), nil
}

func stringOf(v object.Value) string { return v.String() }

func arithValues(op string, a, b object.Value) (object.Value, error) {
	if ai, ok := a.(object.Int); ok {
		bi := b.(object.Int)
		switch op {
		case "-":
			return object.Int{Value: new(big.Int).Sub(ai.Value, bi.Value)}, nil
		case "*":
			return object.Int{Value: new(big.Int).Mul(ai.Value, bi.Value)}, nil
		}
	}
	ad := a.(object.Decimal)
	bd := b.(object.Decimal)
	switch op {
	case "-":
		return object.SubDecimal(ad, bd), nil
	case "*":
		return object.MulDecimal(ad, bd), nil
	}
	return nil, langerr.NewEvalError("unsupported arithmetic operator %q", op)
}

func divideValues(a, b object.Value) (object.Value, error) {
	if ai, ok := a.(object.Int); ok {
		bi := b.(object.Int)
		if bi.Value.Sign() == 0 {
			return nil, langerr.NewEvalError("integer division by zero")
		}
		return object.Int{Value: new(big.Int).Quo(ai.Value, bi.Value)}, nil
	}
	ad := a.(object.Decimal)
	bd := b.(object.Decimal)
	result, ok := object.DivDecimal(ad, bd)
	if !ok {
		return nil, langerr.NewEvalError("decimal division by zero")
	}
	return result, nil
}

// powValues implements integer exponentiation by repeated multiplication,
// satisfying the a^b == a multiplied by itself b times identity (spec.md
// §8 property 6) exactly rather than via a float-based power function.
func powValues(a, b object.Value) (object.Value, error) {
	base := a.(object.Int)
	exp := b.(object.Int)
	if exp.Value.Sign() < 0 {
		return nil, langerr.NewEvalError("exponent must be non-negative")
	}
	if !exp.Value.IsInt64() {
		return nil, langerr.NewEvalError("exponent too large")
	}
	result := big.NewInt(1)
	n := exp.Value.Int64()
	for i := int64(0); i < n; i++ {
		result.Mul(result, base.Value)
	}
	return object.Int{Value: result}, nil
}
