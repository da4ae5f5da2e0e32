package types

import "testing"

func TestTypeCodes(t *testing.T) {
	tests := []struct {
		code     TypeCode
		expected int
		name     string
		numeric  bool
	}{
		{TYPE_FLOAT, 1, "FLOAT", true},
		{TYPE_STR, 2, "STR", false},
		{TYPE_DOC, 3, "DOC", false},
		{TYPE_LIST, 4, "LIST", false},
		{TYPE_BOOL, 8, "BOOL", false},
		{TYPE_NULL, 10, "NULL", false},
		{TYPE_INT, 18, "INT", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if int(tt.code) != tt.expected {
				t.Errorf("%s = %d, want %d", tt.name, int(tt.code), tt.expected)
			}
			if tt.code.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.code.String(), tt.name)
			}
			if tt.code.IsNumeric() != tt.numeric {
				t.Errorf("IsNumeric() = %v, want %v", tt.code.IsNumeric(), tt.numeric)
			}
		})
	}
}
