package compiler

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mooagg/emit"
	"mooagg/ir"
)

type D = emit.Doc
type L = []any

func set(field string, value any) D {
	return D{"$set": D{field: value}}
}

func compileOne(t *testing.T, src string) D {
	t.Helper()
	p, err := CompileSource(src)
	if err != nil {
		t.Fatalf("CompileSource(%q) error: %v", src, err)
	}
	if len(p) != 1 {
		t.Fatalf("CompileSource(%q) gave %d stages, want 1", src, len(p))
	}
	return p[0]
}

func TestCompileConstants(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{"x = 5;", int64(5)},
		{"x = -3;", int64(-3)},
		{"x = 0;", int64(0)},
		{"x = 0.25;", 0.25},
		{`x = "hi";`, "hi"},
		{"x = true;", true},
		{"x = false;", false},
		{"x = (7);", int64(7)},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if diff := cmp.Diff(set("x", tt.want), compileOne(t, tt.src)); diff != "" {
				t.Errorf("stage mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompileBinaryOperators(t *testing.T) {
	tests := []struct {
		op  string
		tag string
	}{
		{"+", "$add"},
		{"-", "$subtract"},
		{"*", "$multiply"},
		{"/", "$divide"},
		{"^", "$pow"},
		{"**", "$pow"},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			got := compileOne(t, "z = a "+tt.op+" b;")
			want := set("z", D{tt.tag: L{"$a", "$b"}})
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("stage mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompileExpressions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want D
	}{
		{"power with literal", "b = a ** 2;",
			set("b", D{"$pow": L{"$a", int64(2)}})},
		{"negation", "a = -b;",
			set("a", D{"$subtract": L{"$b"}})},
		{"subtract zero", "a = c - 0;",
			set("a", D{"$subtract": L{"$c", int64(0)}})},
		{"not", "c = !y;",
			set("c", D{"$not": L{"$y"}})},
		{"parenthesized and chain", "c = (y && 0) && 1;",
			set("c", D{"$and": L{D{"$and": L{"$y", int64(0)}}, int64(1)}})},
		{"flat and chain", "c = a && b && d;",
			set("c", D{"$and": L{"$a", "$b", "$d"}})},
		{"or over and", "c = a || b && d;",
			set("c", D{"$or": L{"$a", D{"$and": L{"$b", "$d"}}}})},
		{"or fallback", "b = y || 0;",
			set("b", D{"$or": L{"$y", int64(0)}})},
		{"call", "b = sqrt(b * y);",
			set("b", D{"$sqrt": L{D{"$multiply": L{"$b", "$y"}}}})},
		{"call of names", "m = max(a, b, 3);",
			set("m", D{"$max": L{"$a", "$b", int64(3)}})},
		{"zero-arg call", "n = rand();",
			set("n", D{"$rand": L{}})},
		{"suppressed argument", "r = f(a, print(1));",
			set("r", D{"$f": L{"$a"}})},
		{"nested binary", "t = t - x * (y - a) ^ 2;",
			set("t", D{"$subtract": L{"$t", D{"$multiply": L{"$x", D{"$pow": L{D{"$subtract": L{"$y", "$a"}}, int64(2)}}}}}})},
		{"negated group", "x = -(a + b) * 2;",
			set("x", D{"$multiply": L{D{"$subtract": L{D{"$add": L{"$a", "$b"}}}}, int64(2)}})},
		{"not of comparison-free bool", "x = !(a && b);",
			set("x", D{"$not": L{D{"$and": L{"$a", "$b"}}}})},
		{"call operand", "x = sqrt(a) + 1;",
			set("x", D{"$add": L{D{"$sqrt": L{"$a"}}, int64(1)}})},
		{"call operand with binary argument keeps left", "x = 1 + abs(a * b);",
			set("x", D{"$add": L{int64(1), D{"$abs": L{"$a"}}}})},
		{"call operand never reaches unsupported right side", "z = a + sqrt(b * -c);",
			set("z", D{"$add": L{"$a", D{"$sqrt": L{"$b"}}}})},
		{"unknown operator passes through", "x = frobnicate(a);",
			set("x", D{"$frobnicate": L{"$a"}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, compileOne(t, tt.src)); diff != "" {
				t.Errorf("stage mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompilePassthrough(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want D
	}{
		{"copy", "y = a;", set("y", "$a")},
		{"copy from group", "y = (a);", set("y", "$a")},
		{"fan-out", "y = z = a;", set("a", L{"$y", "$z"})},
		{"operation keeps first target", "y = z = a + 1;", set("y", D{"$add": L{"$a", int64(1)}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, compileOne(t, tt.src)); diff != "" {
				t.Errorf("stage mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

const piBody = `y = a;
a = (a + b) / 2;
b = sqrt(b * y);
t = t - (x * (y - a) ** 2);
x = x * 2;
return (a + b) ^ 2 / (4 * t);`

func TestCompileGaussLegendre(t *testing.T) {
	p, err := CompileSource(piBody)
	if err != nil {
		t.Fatalf("CompileSource error: %v", err)
	}

	want := emit.Pipeline{
		set("y", "$a"),
		set("a", D{"$divide": L{D{"$add": L{"$a", "$b"}}, int64(2)}}),
		set("b", D{"$sqrt": L{D{"$multiply": L{"$b", "$y"}}}}),
		set("t", D{"$subtract": L{"$t", D{"$multiply": L{"$x", D{"$pow": L{D{"$subtract": L{"$y", "$a"}}, int64(2)}}}}}}),
		set("x", D{"$multiply": L{"$x", int64(2)}}),
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("pipeline mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileStatementOrderAndCount(t *testing.T) {
	src := "print(\"start\");\nc = 3;\n;\na = 1;\nb = 2;\nx = print(a);\n"
	p, err := CompileSource(src)
	if err != nil {
		t.Fatal(err)
	}
	want := emit.Pipeline{set("c", int64(3)), set("a", int64(1)), set("b", int64(2))}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("pipeline mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileUnsupported(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		construct string
		line      int
	}{
		{"if", "a = 1;\nif (a) b = 1; endif", "conditional", 2},
		{"while", "while (a) a = a - 1; endwhile", "while loop", 1},
		{"for", "for v in [1..3] s = s + v; endfor", "for loop", 1},
		{"fork", "fork (0) a = 1; endfork", "fork", 1},
		{"try", "try a = 1; except (ANY) a = 0; endtry", "try statement", 1},
		{"break", "break;", "break", 1},
		{"continue", "continue;", "continue", 1},
		{"early return", "return a;\nb = 1;", "return before the end of the body", 1},
		{"comparison", "x = a < b;", "comparison", 1},
		{"equality", "x = a == b;", "comparison", 1},
		{"modulo", "x = a % 2;", "modulo operator", 1},
		{"ternary", "x = a ? b | c;", "conditional expression", 1},
		{"property", "x = o.p;", "property access", 1},
		{"index", "x = l[1];", "index access", 1},
		{"list", "x = {1, 2};", "list literal", 1},
		{"property target", "o.p = 1;", "assignment target", 1},
		{"nested assignment", "x = (y = 1) + 2;", "nested assignment", 1},
		{"call statement", "foo(x);", "call statement without assignment", 1},
		{"bare expression", "a + b;", "expression statement without assignment", 1},
		{"suppressed binary operand", "x = 1 + print(2);", "suppressed call as operand", 1},
		{"suppressed unary operand", "x = -print(2);", "suppressed call as operand", 1},
		{"suppressed bool operand", "x = a && notify(b);", "suppressed call as operand", 1},
		{"comparison inside call operand", "x = 1 + f(a < b);", "comparison", 1},
		{"unary inside call operand", "x = 1 + f(-a);", "unary operator inside a call operand", 1},
		{"unary behind falsy call operand", "x = 1 + f(0 * -a);", "unary operator inside a call operand", 1},
		{"comparison inside call", "x = f(a < b);", "comparison", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := CompileSource(tt.src)
			if err == nil {
				t.Fatalf("expected error, got pipeline %v", p)
			}
			if p != nil {
				t.Errorf("partial pipeline returned: %v", p)
			}
			var uerr *UnsupportedConstructError
			if !errors.As(err, &uerr) {
				t.Fatalf("error %v is %T, want *UnsupportedConstructError", err, err)
			}
			if uerr.Construct != tt.construct {
				t.Errorf("Construct = %q, want %q", uerr.Construct, tt.construct)
			}
			if uerr.Pos.Line != tt.line {
				t.Errorf("Pos.Line = %d, want %d", uerr.Pos.Line, tt.line)
			}
		})
	}
}

func TestCompileParseError(t *testing.T) {
	_, err := CompileSource("x = ;")
	if err == nil || !strings.Contains(err.Error(), "parse error") {
		t.Fatalf("error = %v, want parse error", err)
	}
	var uerr *UnsupportedConstructError
	if errors.As(err, &uerr) {
		t.Errorf("parse error reported as unsupported construct")
	}
}

func TestCompileFunction(t *testing.T) {
	fn := Function{
		Name: "pi_step",
		Args: []string{"a", "b", "t", "x"},
		Code: strings.Split(piBody, "\n"),
	}
	p, err := Compile(fn)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if len(p) != 5 {
		t.Errorf("got %d stages, want 5", len(p))
	}

	empty, err := Compile(Function{Name: "noop"})
	if err != nil || len(empty) != 0 {
		t.Errorf("empty function: %v, %v", empty, err)
	}

	_, err = Compile(Function{Name: "bad", Code: []string{"while (1)", "endwhile"}})
	if err == nil || !strings.Contains(err.Error(), "bad") {
		t.Errorf("error %v should name the function", err)
	}
}

func TestCompileCustomSuppression(t *testing.T) {
	c := New(Options{Suppress: []string{"debug"}})
	p, err := c.CompileSource("debug(a);\nx = f(a, debug(b));\nprint(x);")
	if err != nil {
		t.Fatal(err)
	}
	want := emit.Pipeline{set("x", D{"$f": L{"$a"}})}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("pipeline mismatch (-want +got):\n%s", diff)
	}
}

func TestStatementsKinds(t *testing.T) {
	c := New(Options{})
	stmts := mustParse(t, "y = a;\nx = 5;\nz = a + b;\nw = v = a;")
	nodes, err := c.Statements(stmts)
	if err != nil {
		t.Fatal(err)
	}
	want := []ir.Kind{ir.KindPassthrough, ir.KindPassthrough, ir.KindNamedResult, ir.KindPassthrough}
	if len(nodes) != len(want) {
		t.Fatalf("got %d nodes, want %d", len(nodes), len(want))
	}
	for i, n := range nodes {
		if n.Kind() != want[i] {
			t.Errorf("node %d kind = %s, want %s", i, n.Kind(), want[i])
		}
	}

	// y = a: the source name labels the node, targets are its children
	if label, _ := nodes[0].Label(); label != "a" {
		t.Errorf("passthrough label = %q, want %q", label, "a")
	}
	if got := nodes[0].Child(0); got != ir.Name("y") {
		t.Errorf("passthrough child = %v, want y", got)
	}
	if nodes[3].Len() != 2 {
		t.Errorf("fan-out has %d children, want 2", nodes[3].Len())
	}
}

func TestEmitIsIdempotent(t *testing.T) {
	c := New(Options{})
	nodes, err := c.Statements(mustParse(t, piBody))
	if err != nil {
		t.Fatal(err)
	}
	for i, n := range nodes {
		first, err := c.Emitter().Emit(n)
		if err != nil {
			t.Fatal(err)
		}
		second, err := c.Emitter().Emit(n)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("node %d emitted differently (-first +second):\n%s", i, diff)
		}
	}

	p1, _ := emit.Assemble(c.Emitter(), nodes)
	p2, _ := emit.Assemble(c.Emitter(), nodes)
	f1, err := p1.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	f2, _ := p2.Fingerprint()
	if f1 != f2 {
		t.Errorf("fingerprints differ: %s vs %s", f1, f2)
	}
	b1, _ := p1.Canonical()
	b2, _ := p2.Canonical()
	if string(b1) != string(b2) {
		t.Errorf("canonical encodings differ")
	}
}

func TestRenderStage(t *testing.T) {
	if got := renderStage(set("x", int64(1))); got != `{"$set":{"x":1}}` {
		t.Errorf("renderStage = %s", got)
	}

	got := renderStage(set("x", math.Inf(1)))
	if !strings.Contains(got, "unsupported value") {
		t.Errorf("renderStage of an unencodable stage = %q, want the encode error", got)
	}
}
