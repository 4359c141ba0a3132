package object

import "github.com/tangramlang/tangram/types"

// Variable is the resolved-Variable record of spec.md §3: owned by a
// Scope, looked up once by name and cached on the Access/Assignment node
// that referenced it.
type Variable struct {
	Name    string
	Mutable bool
	Type    types.Type
	Value   Value
}

// Callable is the shape of a Function's body: invoked with already-
// evaluated argument values, it returns a runtime value or an error.
type Callable func(args []Value) (Value, error)

// Function is the resolved-Function record of spec.md §3. The analyzer
// installs a user function's record with a nil Body (its signature alone
// permits self-reference before the real body exists); the interpreter
// sets Body to the real callable when it installs the function as a
// closure. Built-ins carry their Body from construction.
type Function struct {
	Name       string
	ParamTypes []types.Type
	ReturnType types.Type
	Body       Callable
}
