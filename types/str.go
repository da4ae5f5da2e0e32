package types

import (
	"fmt"
	"strings"
)

// StrValue represents a string
type StrValue struct {
	val string
}

// NewStr creates a new string value
func NewStr(s string) StrValue {
	return StrValue{val: s}
}

// String returns the quoted source representation.
// Non-printable characters (< 32 or > 126) are encoded as ~XX
func (s StrValue) String() string {
	var result strings.Builder
	result.WriteByte('"')
	for i := 0; i < len(s.val); i++ {
		b := s.val[i]
		if b == '"' {
			result.WriteString("\\\"")
		} else if b == '\\' {
			result.WriteString("\\\\")
		} else if b >= 32 && b <= 126 {
			result.WriteByte(b)
		} else {
			result.WriteString(fmt.Sprintf("~%02X", b))
		}
	}
	result.WriteByte('"')
	return result.String()
}

// Type returns the type code for strings
func (s StrValue) Type() TypeCode {
	return TYPE_STR
}

// Truthy returns true: strings are truthy even when empty
func (s StrValue) Truthy() bool {
	return true
}

// Equal compares two values for equality (case-sensitive)
func (s StrValue) Equal(other Value) bool {
	if o, ok := other.(StrValue); ok {
		return s.val == o.val
	}
	return false
}

// Native returns the Go string
func (s StrValue) Native() any {
	return s.val
}

// Value returns the internal string value
func (s StrValue) Value() string {
	return s.val
}
