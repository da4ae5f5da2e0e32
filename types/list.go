package types

import "strings"

// ListValue is an ordered array of values
type ListValue struct {
	elements []Value
}

// NewList creates a list that owns a copy of elements
func NewList(elements []Value) ListValue {
	copied := make([]Value, len(elements))
	copy(copied, elements)
	return ListValue{elements: copied}
}

// NewEmptyList creates an empty list
func NewEmptyList() ListValue {
	return ListValue{elements: []Value{}}
}

// Type returns the type code for arrays
func (l ListValue) Type() TypeCode {
	return TYPE_LIST
}

// Len returns the number of elements
func (l ListValue) Len() int {
	return len(l.elements)
}

// Get returns the element at a 1-based index
func (l ListValue) Get(index int) Value {
	return l.elements[index-1]
}

// Elements returns a copy of the elements
func (l ListValue) Elements() []Value {
	out := make([]Value, len(l.elements))
	copy(out, l.elements)
	return out
}

// String returns the bracketed literal representation
func (l ListValue) String() string {
	parts := make([]string, len(l.elements))
	for i, e := range l.elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Equal compares element-wise
func (l ListValue) Equal(other Value) bool {
	o, ok := other.(ListValue)
	if !ok || len(o.elements) != len(l.elements) {
		return false
	}
	for i := range l.elements {
		if !l.elements[i].Equal(o.elements[i]) {
			return false
		}
	}
	return true
}

// Truthy returns true: arrays are truthy even when empty
func (l ListValue) Truthy() bool {
	return true
}

// Native returns a []any of the element natives
func (l ListValue) Native() any {
	out := make([]any, len(l.elements))
	for i, e := range l.elements {
		out[i] = e.Native()
	}
	return out
}
