package object

import "strings"

// Array is a heap-allocated, mutable array of values. Arrays are shared
// by reference: storing to an element mutates all aliases. Equality is
// identity, never structural.
type Array struct {
	items []Object
}

// NewArray returns an Array owning the given items slice.
func NewArray(items []Object) *Array {
	return &Array{items: items}
}

func (a *Array) Type() Type {
	return ARRAY
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.items)
}

// Get returns the element at index i. The bool result is false when the
// index is out of bounds.
func (a *Array) Get(i int) (Object, bool) {
	if i < 0 || i >= len(a.items) {
		return nil, false
	}
	return a.items[i], true
}

// Set stores value at index i in place. The bool result is false when
// the index is out of bounds.
func (a *Array) Set(i int, value Object) bool {
	if i < 0 || i >= len(a.items) {
		return false
	}
	a.items[i] = value
	return true
}

// Items returns the underlying slice. Mutations are visible to all
// holders of the array.
func (a *Array) Items() []Object {
	return a.items
}

func (a *Array) Inspect() string {
	elems := make([]string, 0, len(a.items))
	for _, item := range a.items {
		elems = append(elems, item.Inspect())
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

func (a *Array) render() string {
	elems := make([]string, 0, len(a.items))
	for _, item := range a.items {
		elems = append(elems, Render(item))
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

func (a *Array) Equals(other Object) bool {
	if other, ok := other.(*Array); ok {
		return a == other
	}
	return false
}
