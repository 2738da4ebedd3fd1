package object

// VoidType is the type of the void value, the neutral result of
// statements. It never appears as an operand to arithmetic or
// comparisons.
type VoidType struct{}

// Void is the singleton void value.
var Void = &VoidType{}

func (v *VoidType) Type() Type {
	return VOID
}

func (v *VoidType) Inspect() string {
	return "void"
}

func (v *VoidType) Equals(other Object) bool {
	_, ok := other.(*VoidType)
	return ok
}
