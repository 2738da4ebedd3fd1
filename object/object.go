// Package object defines the runtime values manipulated by the virtual
// machine: void, 32-bit integers, immutable strings, and shared mutable
// arrays. Equality is structural for integers and strings and by
// identity for arrays.
package object

// Type identifies the type of a runtime value.
type Type string

const (
	VOID   Type = "void"
	INT    Type = "int"
	STRING Type = "string"
	ARRAY  Type = "array"
)

// Object is the interface implemented by all runtime values.
type Object interface {
	// Type returns the type of the value.
	Type() Type

	// Inspect returns a representation of the value for diagnostic and
	// shell display. Strings are quoted.
	Inspect() string

	// Equals reports whether the value equals another value. Arrays are
	// compared by identity, everything else structurally.
	Equals(other Object) bool
}

// Render returns the canonical printed form of a value, as produced by
// the print statement: integers in decimal, strings verbatim without
// quotes, arrays as "[e0, e1, ...]" with elements rendered recursively.
func Render(obj Object) string {
	switch obj := obj.(type) {
	case *String:
		return obj.Value()
	case *Array:
		return obj.render()
	default:
		return obj.Inspect()
	}
}
