package compiler

import (
	"mooagg/ir"
	"mooagg/parser"
)

// Builder classifies expression syntax into operation tree terms
type Builder struct {
	ops        *OperatorTable
	suppressed map[string]bool
}

// NewBuilder returns a builder using ops and eliding the named calls
func NewBuilder(ops *OperatorTable, suppressed map[string]bool) *Builder {
	return &Builder{ops: ops, suppressed: suppressed}
}

// IsSuppressed reports whether calls to name are elided
func (b *Builder) IsSuppressed(name string) bool {
	return b.suppressed[name]
}

// Build classifies expr. The result is a *ir.Node, an ir.Name for a bare
// variable reference, or nil for a suppressed call.
func (b *Builder) Build(expr parser.Expr) (ir.Term, error) {
	switch e := expr.(type) {
	case *parser.LiteralExpr:
		return ir.NewConstant(e.Value), nil

	case *parser.IdentifierExpr:
		return ir.Name(e.Name), nil

	case *parser.ParenExpr:
		return b.Build(e.Expr)

	case *parser.BinaryExpr:
		if tag, ok := b.ops.Bool(e.Operator); ok {
			return b.buildBool(e, tag)
		}
		if tag, ok := b.ops.Binary(e.Operator); ok {
			return b.buildBinary(e, tag)
		}
		return nil, unsupportedExpr(e, operatorConstruct(e.Operator))

	case *parser.UnaryExpr:
		return b.buildUnary(e)

	case *parser.BuiltinCallExpr:
		return b.buildCall(e)

	case *parser.AssignExpr:
		return nil, unsupportedExpr(e, "nested assignment")
	case *parser.TernaryExpr:
		return nil, unsupportedExpr(e, "conditional expression")
	case *parser.IndexExpr:
		return nil, unsupportedExpr(e, "index access")
	case *parser.PropertyExpr:
		return nil, unsupportedExpr(e, "property access")
	case *parser.ListExpr:
		return nil, unsupportedExpr(e, "list literal")
	default:
		return nil, unsupportedExpr(expr, "expression")
	}
}

// buildBool turns a chain of one connective into a single N-ary node.
// A parenthesized sub-chain stays a nested child.
func (b *Builder) buildBool(e *parser.BinaryExpr, tag string) (ir.Term, error) {
	operands := flattenChain(e, e.Operator)
	children := make([]ir.Term, 0, len(operands))
	for _, operand := range operands {
		child, err := b.required(operand)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return ir.NewOperation(tag, children...), nil
}

func flattenChain(expr parser.Expr, op parser.TokenType) []parser.Expr {
	if bin, ok := expr.(*parser.BinaryExpr); ok && bin.Operator == op {
		return append(flattenChain(bin.Left, op), flattenChain(bin.Right, op)...)
	}
	return []parser.Expr{expr}
}

func (b *Builder) buildUnary(e *parser.UnaryExpr) (ir.Term, error) {
	tag, ok := b.ops.Unary(e.Operator)
	if !ok {
		return nil, unsupportedExpr(e, operatorConstruct(e.Operator))
	}
	child, err := b.required(e.Operand)
	if err != nil {
		return nil, err
	}
	return ir.NewOperation(tag, child), nil
}

// buildCall maps name(args...) to the $name operator. Suppressed calls
// produce nothing and are dropped from argument lists.
func (b *Builder) buildCall(e *parser.BuiltinCallExpr) (ir.Term, error) {
	if b.IsSuppressed(e.Name) {
		return nil, nil
	}
	children := make([]ir.Term, 0, len(e.Args))
	for _, arg := range e.Args {
		child, err := b.Build(arg)
		if err != nil {
			return nil, err
		}
		if child == nil {
			continue
		}
		children = append(children, child)
	}
	return ir.NewOperation(ir.OperatorSigil+e.Name, children...), nil
}

// buildBinary keeps operands that are not operator trees raw: names and
// literals become Name and Literal terms, calls stay Leaf syntax for the
// resolver.
func (b *Builder) buildBinary(e *parser.BinaryExpr, tag string) (ir.Term, error) {
	left, err := b.operand(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := b.operand(e.Right)
	if err != nil {
		return nil, err
	}
	return ir.NewOperation(tag, left, right), nil
}

func (b *Builder) operand(expr parser.Expr) (ir.Term, error) {
	switch e := expr.(type) {
	case *parser.ParenExpr:
		return b.operand(e.Expr)
	case *parser.IdentifierExpr:
		return ir.Name(e.Name), nil
	case *parser.LiteralExpr:
		return ir.Literal{Value: e.Value}, nil
	case *parser.BuiltinCallExpr:
		if b.IsSuppressed(e.Name) {
			return nil, unsupportedExpr(e, "suppressed call as operand")
		}
		if err := b.checkLeaf(e); err != nil {
			return nil, err
		}
		return ir.Leaf{Expr: e}, nil
	default:
		return b.required(expr)
	}
}

// required builds an operand that must produce a term
func (b *Builder) required(expr parser.Expr) (ir.Term, error) {
	term, err := b.Build(expr)
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, unsupportedExpr(expr, "suppressed call as operand")
	}
	return term, nil
}

// checkLeaf rejects call arguments the resolver cannot turn into a
// fragment, so emission never fails on builder output.
func (b *Builder) checkLeaf(expr parser.Expr) error {
	switch e := expr.(type) {
	case *parser.IdentifierExpr, *parser.LiteralExpr:
		return nil
	case *parser.ParenExpr:
		return b.checkLeaf(e.Expr)
	case *parser.BinaryExpr:
		if _, ok := b.ops.Binary(e.Operator); !ok {
			if _, ok := b.ops.Bool(e.Operator); !ok {
				return unsupportedExpr(e, operatorConstruct(e.Operator))
			}
		}
		if err := b.checkLeaf(e.Left); err != nil {
			return err
		}
		if !ir.MayResolveFalsy(e.Left) {
			return nil
		}
		return b.checkLeaf(e.Right)
	case *parser.BuiltinCallExpr:
		for _, arg := range e.Args {
			if call, ok := arg.(*parser.BuiltinCallExpr); ok && b.IsSuppressed(call.Name) {
				continue
			}
			if err := b.checkLeaf(arg); err != nil {
				return err
			}
		}
		return nil
	case *parser.UnaryExpr:
		return unsupportedExpr(e, "unary operator inside a call operand")
	default:
		_, err := b.Build(expr)
		if err == nil {
			err = unsupportedExpr(expr, "expression inside a call operand")
		}
		return err
	}
}
