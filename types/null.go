package types

// NullValue is the value of a missing field or an explicit null
type NullValue struct{}

// Null is the shared null value
var Null = NullValue{}

func (NullValue) Type() TypeCode { return TYPE_NULL }
func (NullValue) String() string { return "null" }
func (NullValue) Truthy() bool   { return false }
func (NullValue) Native() any    { return nil }

func (NullValue) Equal(o Value) bool {
	_, ok := o.(NullValue)
	return ok
}
