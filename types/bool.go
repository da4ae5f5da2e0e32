package types

// BoolValue represents a boolean
type BoolValue struct {
	Val bool
}

// Type returns the type code for booleans
func (b BoolValue) Type() TypeCode {
	return TYPE_BOOL
}

// String returns the literal representation
func (b BoolValue) String() string {
	if b.Val {
		return "true"
	}
	return "false"
}

// Equal checks deep equality
func (b BoolValue) Equal(other Value) bool {
	if other == nil {
		return false
	}
	otherBool, ok := other.(BoolValue)
	if !ok {
		return false
	}
	return b.Val == otherBool.Val
}

// Truthy returns the truthiness
func (b BoolValue) Truthy() bool {
	return b.Val
}

// Native returns the bool
func (b BoolValue) Native() any {
	return b.Val
}

// NewBool creates a new BoolValue
func NewBool(val bool) BoolValue {
	return BoolValue{Val: val}
}
