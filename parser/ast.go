package parser

import "mooagg/types"

// Node is the base interface for all AST nodes
type Node interface {
	Position() Position
}

// Expr represents an expression node
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node
type Stmt interface {
	Node
	stmtNode()
}

// LiteralExpr wraps a constant value
type LiteralExpr struct {
	Pos   Position
	Value types.Value
}

func (e *LiteralExpr) Position() Position { return e.Pos }
func (e *LiteralExpr) exprNode()          {}

// IdentifierExpr represents a variable reference
type IdentifierExpr struct {
	Pos  Position
	Name string
}

func (e *IdentifierExpr) Position() Position { return e.Pos }
func (e *IdentifierExpr) exprNode()          {}

// UnaryExpr represents a unary operation
type UnaryExpr struct {
	Pos      Position
	Operator TokenType // TOKEN_MINUS, TOKEN_NOT
	Operand  Expr
}

func (e *UnaryExpr) Position() Position { return e.Pos }
func (e *UnaryExpr) exprNode()          {}

// BinaryExpr represents a binary operation
type BinaryExpr struct {
	Pos      Position
	Left     Expr
	Operator TokenType
	Right    Expr
}

func (e *BinaryExpr) Position() Position { return e.Pos }
func (e *BinaryExpr) exprNode()          {}

// TernaryExpr represents conditional expression: cond ? then | else
type TernaryExpr struct {
	Pos       Position
	Condition Expr
	ThenExpr  Expr
	ElseExpr  Expr
}

func (e *TernaryExpr) Position() Position { return e.Pos }
func (e *TernaryExpr) exprNode()          {}

// ParenExpr represents a parenthesized expression
type ParenExpr struct {
	Pos  Position
	Expr Expr
}

func (e *ParenExpr) Position() Position { return e.Pos }
func (e *ParenExpr) exprNode()          {}

// IndexExpr represents indexing: expr[index]
type IndexExpr struct {
	Pos   Position
	Expr  Expr
	Index Expr
}

func (e *IndexExpr) Position() Position { return e.Pos }
func (e *IndexExpr) exprNode()          {}

// PropertyExpr represents property access: expr.property
type PropertyExpr struct {
	Pos      Position
	Expr     Expr
	Property string
}

func (e *PropertyExpr) Position() Position { return e.Pos }
func (e *PropertyExpr) exprNode()          {}

// BuiltinCallExpr represents builtin function call: func(args)
type BuiltinCallExpr struct {
	Pos  Position
	Name string
	Args []Expr
}

func (e *BuiltinCallExpr) Position() Position { return e.Pos }
func (e *BuiltinCallExpr) exprNode()          {}

// AssignExpr represents assignment: lvalue = expr
type AssignExpr struct {
	Pos    Position
	Target Expr // IdentifierExpr, IndexExpr, or PropertyExpr
	Value  Expr
}

func (e *AssignExpr) Position() Position { return e.Pos }
func (e *AssignExpr) exprNode()          {}

// ListExpr represents a list expression: {expr, expr, ...}
type ListExpr struct {
	Pos      Position
	Elements []Expr
}

func (e *ListExpr) Position() Position { return e.Pos }
func (e *ListExpr) exprNode()          {}

// Statement AST nodes

// ExprStmt represents an expression used as a statement.
// Expr is nil for the empty statement ";".
type ExprStmt struct {
	Pos  Position
	Expr Expr
}

func (s *ExprStmt) Position() Position { return s.Pos }
func (s *ExprStmt) stmtNode()          {}

// IfStmt represents if/elseif/else/endif
type IfStmt struct {
	Pos       Position
	Condition Expr
	Body      []Stmt
	ElseIfs   []*ElseIfClause
	Else      []Stmt // Can be nil
}

type ElseIfClause struct {
	Pos       Position
	Condition Expr
	Body      []Stmt
}

func (s *IfStmt) Position() Position { return s.Pos }
func (s *IfStmt) stmtNode()          {}

// WhileStmt represents while loops
type WhileStmt struct {
	Pos       Position
	Label     string // Optional loop label for break/continue
	Condition Expr
	Body      []Stmt
}

func (s *WhileStmt) Position() Position { return s.Pos }
func (s *WhileStmt) stmtNode()          {}

// ForStmt represents for loops over a container or a range
type ForStmt struct {
	Pos        Position
	Value      string // Variable name for value
	Index      string // Variable name for index (optional)
	Container  Expr   // List expression or nil for range
	RangeStart Expr   // For range loops: start expression
	RangeEnd   Expr   // For range loops: end expression
	Body       []Stmt
}

func (s *ForStmt) Position() Position { return s.Pos }
func (s *ForStmt) stmtNode()          {}

// ForkStmt represents fork (delay) ... endfork
type ForkStmt struct {
	Pos     Position
	VarName string
	Delay   Expr
	Body    []Stmt
}

func (s *ForkStmt) Position() Position { return s.Pos }
func (s *ForkStmt) stmtNode()          {}

// BreakStmt represents break statement
type BreakStmt struct {
	Pos   Position
	Label string
}

func (s *BreakStmt) Position() Position { return s.Pos }
func (s *BreakStmt) stmtNode()          {}

// ContinueStmt represents continue statement
type ContinueStmt struct {
	Pos   Position
	Label string
}

func (s *ContinueStmt) Position() Position { return s.Pos }
func (s *ContinueStmt) stmtNode()          {}

// ReturnStmt represents return statement
type ReturnStmt struct {
	Pos   Position
	Value Expr // Can be nil
}

func (s *ReturnStmt) Position() Position { return s.Pos }
func (s *ReturnStmt) stmtNode()          {}

// TryStmt represents try/except/finally/endtry in any of its three forms
type TryStmt struct {
	Pos     Position
	Body    []Stmt
	Excepts []*ExceptClause
	Finally []Stmt // nil when there is no finally clause
}

type ExceptClause struct {
	Pos      Position
	Variable string   // Optional: binds the caught error
	Codes    []string // Error code names (empty means ANY)
	Body     []Stmt
}

func (s *TryStmt) Position() Position { return s.Pos }
func (s *TryStmt) stmtNode()          {}
