package parser

import (
	"fmt"
	"strconv"
	"strings"

	"mooagg/types"
)

// Unparse renders an expression back to source
func Unparse(expr Expr) string {
	if expr == nil {
		return ""
	}
	return unparseExpr(expr, PREC_LOWEST)
}

// UnparseStmt renders one statement back to source, nested bodies included
func UnparseStmt(stmt Stmt) string {
	return unparseStmt(stmt, 0)
}

// UnparseProgram converts AST statements back to source code lines
func UnparseProgram(stmts []Stmt) []string {
	lines := []string{}
	for _, stmt := range stmts {
		lines = append(lines, unparseStmt(stmt, 0))
	}
	return lines
}

// unparseStmt converts a statement to source code
func unparseStmt(stmt Stmt, indent int) string {
	indentStr := strings.Repeat("  ", indent)

	switch s := stmt.(type) {
	case *ExprStmt:
		if s.Expr == nil {
			return indentStr + ";"
		}
		return indentStr + Unparse(s.Expr) + ";"

	case *ReturnStmt:
		if s.Value == nil {
			return indentStr + "return;"
		}
		return indentStr + "return " + Unparse(s.Value) + ";"

	case *IfStmt:
		var sb strings.Builder
		sb.WriteString(indentStr + "if (" + Unparse(s.Condition) + ")\n")
		writeBody(&sb, s.Body, indent+1)
		for _, elseif := range s.ElseIfs {
			sb.WriteString(indentStr + "elseif (" + Unparse(elseif.Condition) + ")\n")
			writeBody(&sb, elseif.Body, indent+1)
		}
		if len(s.Else) > 0 {
			sb.WriteString(indentStr + "else\n")
			writeBody(&sb, s.Else, indent+1)
		}
		sb.WriteString(indentStr + "endif")
		return sb.String()

	case *WhileStmt:
		var sb strings.Builder
		sb.WriteString(indentStr + "while ")
		if s.Label != "" {
			sb.WriteString(s.Label + " ")
		}
		sb.WriteString("(" + Unparse(s.Condition) + ")\n")
		writeBody(&sb, s.Body, indent+1)
		sb.WriteString(indentStr + "endwhile")
		return sb.String()

	case *ForStmt:
		var sb strings.Builder
		sb.WriteString(indentStr + "for " + s.Value)
		if s.Index != "" {
			sb.WriteString(", " + s.Index)
		}
		if s.Container != nil {
			sb.WriteString(" in (" + Unparse(s.Container) + ")\n")
		} else {
			sb.WriteString(" in [" + Unparse(s.RangeStart) + ".." + Unparse(s.RangeEnd) + "]\n")
		}
		writeBody(&sb, s.Body, indent+1)
		sb.WriteString(indentStr + "endfor")
		return sb.String()

	case *ForkStmt:
		var sb strings.Builder
		sb.WriteString(indentStr + "fork ")
		if s.VarName != "" {
			sb.WriteString(s.VarName + " ")
		}
		sb.WriteString("(" + Unparse(s.Delay) + ")\n")
		writeBody(&sb, s.Body, indent+1)
		sb.WriteString(indentStr + "endfork")
		return sb.String()

	case *TryStmt:
		var sb strings.Builder
		sb.WriteString(indentStr + "try\n")
		writeBody(&sb, s.Body, indent+1)
		for _, except := range s.Excepts {
			sb.WriteString(indentStr + "except ")
			if except.Variable != "" {
				sb.WriteString(except.Variable + " ")
			}
			if len(except.Codes) == 0 {
				sb.WriteString("(ANY)\n")
			} else {
				sb.WriteString("(" + strings.Join(except.Codes, ", ") + ")\n")
			}
			writeBody(&sb, except.Body, indent+1)
		}
		if s.Finally != nil {
			sb.WriteString(indentStr + "finally\n")
			writeBody(&sb, s.Finally, indent+1)
		}
		sb.WriteString(indentStr + "endtry")
		return sb.String()

	case *BreakStmt:
		if s.Label != "" {
			return indentStr + "break " + s.Label + ";"
		}
		return indentStr + "break;"

	case *ContinueStmt:
		if s.Label != "" {
			return indentStr + "continue " + s.Label + ";"
		}
		return indentStr + "continue;"

	default:
		return fmt.Sprintf("%s<unknown stmt: %T>", indentStr, stmt)
	}
}

func writeBody(sb *strings.Builder, body []Stmt, indent int) {
	for _, stmt := range body {
		sb.WriteString(unparseStmt(stmt, indent) + "\n")
	}
}

// unparseExpr converts an expression to source, parenthesizing it when it
// binds looser than its context
func unparseExpr(expr Expr, parentPrecedence int) string {
	switch e := expr.(type) {
	case *LiteralExpr:
		return unparseLiteral(e.Value)

	case *IdentifierExpr:
		return e.Name

	case *UnaryExpr:
		return unparseUnaryOp(e.Operator) + unparseExpr(e.Operand, PREC_UNARY)

	case *BinaryExpr:
		prec := infixPrecedence(e.Operator)
		left := unparseExpr(e.Left, prec)
		right := unparseExpr(e.Right, prec+1)
		if e.Operator == TOKEN_CARET {
			left = unparseExpr(e.Left, prec+1)
			right = unparseExpr(e.Right, prec)
		}
		return wrap(left+" "+unparseBinaryOp(e.Operator)+" "+right, prec, parentPrecedence)

	case *TernaryExpr:
		result := unparseExpr(e.Condition, PREC_TERNARY+1) + " ? " +
			unparseExpr(e.ThenExpr, PREC_LOWEST) + " | " +
			unparseExpr(e.ElseExpr, PREC_TERNARY)
		return wrap(result, PREC_TERNARY, parentPrecedence)

	case *ParenExpr:
		return "(" + unparseExpr(e.Expr, PREC_LOWEST) + ")"

	case *IndexExpr:
		return unparseExpr(e.Expr, PREC_POSTFIX) + "[" + unparseExpr(e.Index, PREC_LOWEST) + "]"

	case *PropertyExpr:
		return unparseExpr(e.Expr, PREC_POSTFIX) + "." + e.Property

	case *BuiltinCallExpr:
		return e.Name + "(" + unparseArgs(e.Args) + ")"

	case *AssignExpr:
		result := unparseExpr(e.Target, PREC_ASSIGN+1) + " = " + unparseExpr(e.Value, PREC_ASSIGN)
		return wrap(result, PREC_ASSIGN, parentPrecedence)

	case *ListExpr:
		return "{" + unparseArgs(e.Elements) + "}"

	default:
		return fmt.Sprintf("<unknown expr: %T>", expr)
	}
}

func wrap(s string, prec, parentPrecedence int) string {
	if prec < parentPrecedence {
		return "(" + s + ")"
	}
	return s
}

// unparseBinaryOp converts a token type to its string representation
func unparseBinaryOp(op TokenType) string {
	switch op {
	case TOKEN_PLUS:
		return "+"
	case TOKEN_MINUS:
		return "-"
	case TOKEN_STAR:
		return "*"
	case TOKEN_SLASH:
		return "/"
	case TOKEN_PERCENT:
		return "%"
	case TOKEN_CARET:
		return "^"
	case TOKEN_EQ:
		return "=="
	case TOKEN_NE:
		return "!="
	case TOKEN_LT:
		return "<"
	case TOKEN_GT:
		return ">"
	case TOKEN_LE:
		return "<="
	case TOKEN_GE:
		return ">="
	case TOKEN_AND:
		return "&&"
	case TOKEN_OR:
		return "||"
	case TOKEN_IN:
		return "in"
	default:
		return "<unknown op>"
	}
}

// unparseUnaryOp converts a unary operator to its string representation
func unparseUnaryOp(op TokenType) string {
	switch op {
	case TOKEN_MINUS:
		return "-"
	case TOKEN_NOT:
		return "!"
	default:
		return "<unknown unary op>"
	}
}

// unparseLiteral converts a Value to its source representation
func unparseLiteral(v types.Value) string {
	switch val := v.(type) {
	case types.IntValue:
		return strconv.FormatInt(val.Val, 10)
	case types.StrValue:
		return strconv.Quote(val.Value())
	default:
		return v.String()
	}
}

// unparseArgs converts argument expressions to a comma-separated string
func unparseArgs(args []Expr) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = unparseExpr(arg, PREC_LOWEST)
	}
	return strings.Join(parts, ", ")
}
