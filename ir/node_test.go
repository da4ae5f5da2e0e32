package ir

import (
	"strings"
	"testing"

	"mooagg/types"
)

func TestNodeKinds(t *testing.T) {
	tests := []struct {
		name     string
		node     *Node
		kind     Kind
		label    string
		hasLabel bool
		operator string
	}{
		{"constant", NewConstant(types.NewInt(5)), KindConstant, "", false, ""},
		{"operation", NewOperation("$add", Name("a"), Name("b")), KindOperation, "", false, "$add"},
		{"passthrough", NewPassthrough("a", Name("y")), KindPassthrough, "a", true, ""},
		{"assignment without operator", NewAssignment("x", "", NewConstant(types.NewInt(1))), KindPassthrough, "x", true, ""},
		{"named result", NewAssignment("z", "$add", NewOperation("$add", Name("a"), Name("b"))), KindNamedResult, "z", true, "$add"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.node.Kind() != tt.kind {
				t.Errorf("Kind() = %s, want %s", tt.node.Kind(), tt.kind)
			}
			label, ok := tt.node.Label()
			if label != tt.label || ok != tt.hasLabel {
				t.Errorf("Label() = %q, %v, want %q, %v", label, ok, tt.label, tt.hasLabel)
			}
			if tt.node.Operator() != tt.operator {
				t.Errorf("Operator() = %q, want %q", tt.node.Operator(), tt.operator)
			}
			if tt.node.IsConstant() != (tt.kind == KindConstant) {
				t.Errorf("IsConstant() = %v", tt.node.IsConstant())
			}
		})
	}
}

func TestNodeChildrenAreOwned(t *testing.T) {
	args := []Term{Name("a"), Name("b")}
	n := NewOperation("$add", args...)
	args[0] = Name("mutated")

	if got := n.Child(0); got != Name("a") {
		t.Errorf("node child changed with caller slice: %v", got)
	}

	children := n.Children()
	children[1] = Name("mutated")
	if got := n.Child(1); got != Name("b") {
		t.Errorf("node child changed through Children(): %v", got)
	}

	// Two constants never share a children slice
	c1, c2 := NewConstant(types.NewInt(1)), NewConstant(types.NewInt(2))
	if c1.Len() != 0 || c2.Len() != 0 {
		t.Fatalf("constants have children")
	}
	c1.children = append(c1.children, Name("x"))
	if c2.Len() != 0 {
		t.Errorf("constants share a children slice")
	}
}

func TestNewOperationRequiresOperator(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("NewOperation with empty operator did not panic")
		}
	}()
	NewOperation("")
}

func TestDump(t *testing.T) {
	n := NewAssignment("b", "$sqrt",
		NewOperation("$sqrt", NewOperation("$multiply", Name("b"), Literal{types.NewInt(2)})))
	want := strings.Join([]string{
		"assign b $sqrt",
		"  operation $sqrt",
		"    operation $multiply",
		"      name b",
		"      literal 2",
		"",
	}, "\n")
	if got := Dump(n); got != want {
		t.Errorf("Dump() =\n%s\nwant\n%s", got, want)
	}
}
