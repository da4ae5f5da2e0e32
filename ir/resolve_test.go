package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"mooagg/parser"
	"mooagg/types"
)

func mustExpr(t *testing.T, src string) parser.Expr {
	t.Helper()
	expr, err := parser.NewParser(src).ParseExpression(parser.PREC_LOWEST)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return expr
}

func TestResolveTerms(t *testing.T) {
	r := NewResolver(func(name string) bool { return name == "print" })

	tests := []struct {
		name string
		term Term
		want any
	}{
		{"name", Name("a"), "$a"},
		{"int literal", Literal{types.NewInt(2)}, int64(2)},
		{"float literal", Literal{types.NewFloat(0.5)}, 0.5},
		{"string literal", Literal{types.NewStr("s")}, "s"},
		{"bool literal", Literal{types.NewBool(true)}, true},
		{"constant node", NewConstant(types.NewInt(3)), int64(3)},
		{"node lists children", NewPassthrough("a", Name("y"), Name("z")), []any{"$y", "$z"}},
		{"identifier leaf", Leaf{mustExpr(t, "x")}, "$x"},
		{"paren leaf", Leaf{mustExpr(t, "(x)")}, "$x"},
		{"call leaf", Leaf{mustExpr(t, "sqrt(b, 2)")}, map[string]any{"$sqrt": []any{"$b", int64(2)}}},
		{"zero-arg call leaf", Leaf{mustExpr(t, "now()")}, map[string]any{"$now": []any{}}},
		{"nested call leaf", Leaf{mustExpr(t, "abs(sqrt(x))")}, map[string]any{"$abs": []any{map[string]any{"$sqrt": []any{"$x"}}}}},
		{"suppressed argument dropped", Leaf{mustExpr(t, "f(a, print(1))")}, map[string]any{"$f": []any{"$a"}}},
		{"binary leaf takes left", Leaf{mustExpr(t, "b * y")}, "$b"},
		{"binary leaf falls back right", Leaf{mustExpr(t, "0 * y")}, "$y"},
		{"call arg binary fallback", Leaf{mustExpr(t, "sqrt(b * y)")}, map[string]any{"$sqrt": []any{"$b"}}},
		{"truthy left skips right", Leaf{mustExpr(t, "sqrt(b * -c)")}, map[string]any{"$sqrt": []any{"$b"}}},
		{"falsy left chain", Leaf{mustExpr(t, "0 * \"\" * z")}, "$z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.term)
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveRejectsUnsupportedLeaf(t *testing.T) {
	r := NewResolver(nil)
	for _, src := range []string{"-x", "a ? b | c", "o.p"} {
		if _, err := r.Resolve(Leaf{mustExpr(t, src)}); err == nil {
			t.Errorf("Resolve(%q) should fail", src)
		}
	}

	if _, err := r.Resolve(Leaf{mustExpr(t, "0 * -c")}); err == nil {
		t.Error("Resolve(0 * -c) should fail on the right side")
	}
}

func TestMayResolveFalsy(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"a", false},
		{"0", true},
		{"1", false},
		{"0.0", true},
		{`""`, true},
		{`"s"`, false},
		{"(0)", true},
		{"0 * a", false},
		{"0 * 0", true},
		{"f(0)", false},
		{"-a", true},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := MayResolveFalsy(mustExpr(t, tt.src)); got != tt.want {
				t.Errorf("MayResolveFalsy(%s) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}
