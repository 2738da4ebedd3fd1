package object

import "strconv"

// String wraps an owned, immutable string.
type String struct {
	value string
}

// NewString returns a String with the given value.
func NewString(value string) *String {
	return &String{value: value}
}

func (s *String) Type() Type {
	return STRING
}

func (s *String) Value() string {
	return s.value
}

func (s *String) Inspect() string {
	return strconv.Quote(s.value)
}

func (s *String) Equals(other Object) bool {
	if other, ok := other.(*String); ok {
		return s.value == other.value
	}
	return false
}
