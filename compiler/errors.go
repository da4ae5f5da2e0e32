package compiler

import (
	"fmt"

	"mooagg/parser"
)

// UnsupportedConstructError reports source outside the compilable subset:
// control flow, comparisons, non-assignment statements and the like.
// Compilation stops at the first one.
type UnsupportedConstructError struct {
	Pos       parser.Position
	Construct string
	Source    string
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("line %d, column %d: unsupported %s: %s",
		e.Pos.Line, e.Pos.Column, e.Construct, e.Source)
}

func unsupportedExpr(expr parser.Expr, construct string) error {
	return &UnsupportedConstructError{
		Pos:       expr.Position(),
		Construct: construct,
		Source:    parser.Unparse(expr),
	}
}

func unsupportedStmt(stmt parser.Stmt, construct string) error {
	return &UnsupportedConstructError{
		Pos:       stmt.Position(),
		Construct: construct,
		Source:    firstLine(parser.UnparseStmt(stmt)),
	}
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i] + " ..."
		}
	}
	return s
}

// operatorConstruct names an operator the compiler has no tag for
func operatorConstruct(op parser.TokenType) string {
	switch op {
	case parser.TOKEN_EQ, parser.TOKEN_NE, parser.TOKEN_LT, parser.TOKEN_LE,
		parser.TOKEN_GT, parser.TOKEN_GE, parser.TOKEN_IN:
		return "comparison"
	case parser.TOKEN_PERCENT:
		return "modulo operator"
	default:
		return "operator " + op.String()
	}
}
