// Package types defines the tangram type lattice and its assignability
// relation, used by both the analyzer (to type-check) and the emitter (to
// pick a host type).
package types

// Type is one of the eight distinguished types in the language.
type Type int

const (
	Any Type = iota
	Nil
	Boolean
	Integer
	Decimal
	Character
	String
	Comparable
)

var names = map[Type]string{
	Any: "Any", Nil: "Nil", Boolean: "Boolean", Integer: "Integer",
	Decimal: "Decimal", Character: "Character", String: "String", Comparable: "Comparable",
}

func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return "Unknown"
}

// Named looks up a Type by its source-level name, as written at a
// declaration site (`VAR x: Integer`).
func Named(name string) (Type, bool) {
	for t, n := range names {
		if n == name {
			return t, true
		}
	}
	return Any, false
}

// comparableMembers is the set of concrete types assignable to Comparable,
// per spec.md §4.3.
var comparableMembers = map[Type]bool{
	Integer: true, Decimal: true, Character: true, String: true,
}

// AssignableTo reports whether a value of type src may be used where tgt is
// expected — the ≤ relation of spec.md §4.3:
//
//	equal types ≤;
//	any type ≤ Any;
//	{Integer, Decimal, Character, String} ≤ Comparable;
//	otherwise reject.
func AssignableTo(src, tgt Type) bool {
	if src == tgt {
		return true
	}
	if tgt == Any {
		return true
	}
	if tgt == Comparable && comparableMembers[src] {
		return true
	}
	return false
}
