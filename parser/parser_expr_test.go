package parser

import (
	"errors"
	"testing"

	"mooagg/types"
)

func parseExpr(t *testing.T, input string) Expr {
	t.Helper()
	p := NewParser(input)
	expr, err := p.ParseExpression(PREC_LOWEST)
	if err != nil {
		t.Fatalf("ParseExpression(%q) error: %v", input, err)
	}
	if p.current.Type != TOKEN_EOF {
		t.Fatalf("ParseExpression(%q) stopped at %s", input, p.current.Type)
	}
	return expr
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  types.Value
	}{
		{"42", types.NewInt(42)},
		{"-5", types.NewInt(-5)},
		{"0", types.NewInt(0)},
		{"9223372036854775807", types.NewInt(9223372036854775807)},
		{"-9223372036854775808", types.NewInt(-9223372036854775808)},
		{"3.5", types.NewFloat(3.5)},
		{"-0.25", types.NewFloat(-0.25)},
		{`"s"`, types.NewStr("s")},
		{"true", types.NewBool(true)},
		{"false", types.NewBool(false)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lit, ok := parseExpr(t, tt.input).(*LiteralExpr)
			if !ok {
				t.Fatalf("expected LiteralExpr")
			}
			if !lit.Value.Equal(tt.want) {
				t.Errorf("got %s, want %s", lit.Value, tt.want)
			}
		})
	}
}

func TestParseBinaryOperators(t *testing.T) {
	tests := []struct {
		input string
		op    TokenType
	}{
		{"a + b", TOKEN_PLUS},
		{"a - b", TOKEN_MINUS},
		{"a * b", TOKEN_STAR},
		{"a / b", TOKEN_SLASH},
		{"a % b", TOKEN_PERCENT},
		{"a ^ b", TOKEN_CARET},
		{"a ** b", TOKEN_CARET},
		{"a && b", TOKEN_AND},
		{"a || b", TOKEN_OR},
		{"a == b", TOKEN_EQ},
		{"a != b", TOKEN_NE},
		{"a < b", TOKEN_LT},
		{"a <= b", TOKEN_LE},
		{"a > b", TOKEN_GT},
		{"a >= b", TOKEN_GE},
		{"a in b", TOKEN_IN},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			binary, ok := parseExpr(t, tt.input).(*BinaryExpr)
			if !ok {
				t.Fatalf("expected BinaryExpr")
			}
			if binary.Operator != tt.op {
				t.Errorf("operator = %s, want %s", binary.Operator, tt.op)
			}
		})
	}
}

// Unparse of a fresh AST makes grouping explicit only where needed, so
// the tests compare against an explicitly parenthesized form.
func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a + b * c", "a + b * c"},
		{"(a + b) * c", "(a + b) * c"},
		{"a - b - c", "a - b - c"},
		{"a - (b - c)", "a - (b - c)"},
		{"a ^ b ^ c", "a ^ b ^ c"},
		{"a ** 2", "a ^ 2"},
		{"-a ^ 2", "-a ^ 2"},
		{"a || b && c", "a || b && c"},
		{"!a && b", "!a && b"},
		{"t - x * (y - a) ^ 2", "t - x * (y - a) ^ 2"},
		{"a < b == c", "a < b == c"},
		{"c ? a | b", "c ? a | b"},
		{"x = y = 1", "x = y = 1"},
		{"sqrt(b * y)", "sqrt(b * y)"},
		{"f()", "f()"},
		{"g(1, -2, \"x\")", "g(1, -2, \"x\")"},
		{"o.p[1]", "o.p[1]"},
		{"{1, 2}", "{1, 2}"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Unparse(parseExpr(t, tt.input)); got != tt.want {
				t.Errorf("Unparse = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseAssociativity(t *testing.T) {
	// a - b - c groups left
	sub := parseExpr(t, "a - b - c").(*BinaryExpr)
	if _, ok := sub.Left.(*BinaryExpr); !ok {
		t.Errorf("a - b - c: left operand is %T, want *BinaryExpr", sub.Left)
	}

	// a ^ b ^ c groups right
	pow := parseExpr(t, "a ^ b ^ c").(*BinaryExpr)
	if _, ok := pow.Right.(*BinaryExpr); !ok {
		t.Errorf("a ^ b ^ c: right operand is %T, want *BinaryExpr", pow.Right)
	}

	// x = y = 1 groups right
	assign := parseExpr(t, "x = y = 1").(*AssignExpr)
	if _, ok := assign.Value.(*AssignExpr); !ok {
		t.Errorf("x = y = 1: value is %T, want *AssignExpr", assign.Value)
	}
}

func TestParseUnary(t *testing.T) {
	tests := []struct {
		input string
		op    TokenType
	}{
		{"-b", TOKEN_MINUS},
		{"!y", TOKEN_NOT},
		{"-(a + b)", TOKEN_MINUS},
		{"!!y", TOKEN_NOT},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			unary, ok := parseExpr(t, tt.input).(*UnaryExpr)
			if !ok {
				t.Fatalf("expected UnaryExpr")
			}
			if unary.Operator != tt.op {
				t.Errorf("operator = %s, want %s", unary.Operator, tt.op)
			}
		})
	}
}

func TestParseCall(t *testing.T) {
	call, ok := parseExpr(t, "sqrt(b * y, 2)").(*BuiltinCallExpr)
	if !ok {
		t.Fatalf("expected BuiltinCallExpr")
	}
	if call.Name != "sqrt" || len(call.Args) != 2 {
		t.Fatalf("got %s with %d args", call.Name, len(call.Args))
	}
	if _, ok := call.Args[0].(*BinaryExpr); !ok {
		t.Errorf("first arg is %T, want *BinaryExpr", call.Args[0])
	}
}

func TestParseParenKeepsGrouping(t *testing.T) {
	binary := parseExpr(t, "(y && 0) && 1").(*BinaryExpr)
	if _, ok := binary.Left.(*ParenExpr); !ok {
		t.Errorf("left operand is %T, want *ParenExpr", binary.Left)
	}
}

func TestParseExpressionErrors(t *testing.T) {
	tests := []string{
		"a +",
		"(a + b",
		"f(a,",
		"1 = 2",
		"(a) = 2",
		"c ? a",
		"o.",
		"a & b",
		`"open`,
		"1e+",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := NewParser(input).ParseExpression(PREC_LOWEST)
			if err == nil {
				t.Fatalf("expected error for %q", input)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Errorf("error %v is %T, want *ParseError", err, err)
			}
		})
	}
}
