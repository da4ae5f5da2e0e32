package ir

import (
	"fmt"

	"github.com/tliron/commonlog"

	"mooagg/parser"
)

// Resolver turns operands into field references, literals or nested
// fragments.
type Resolver struct {
	// Suppressed reports call names whose calls are dropped from argument lists
	Suppressed func(name string) bool
	Log        commonlog.Logger
}

// NewResolver returns a resolver logging to the mooagg.ir logger
func NewResolver(suppressed func(string) bool) *Resolver {
	return &Resolver{Suppressed: suppressed, Log: commonlog.GetLogger("mooagg.ir")}
}

// Resolve returns the emitted form of a single term. A node resolves to
// the list of its resolved children.
func (r *Resolver) Resolve(t Term) (any, error) {
	switch v := t.(type) {
	case Name:
		return FieldSigil + string(v), nil
	case Literal:
		return v.Value.Native(), nil
	case *Node:
		if v.IsConstant() {
			return v.value.Native(), nil
		}
		out := make([]any, 0, len(v.children))
		for _, c := range v.children {
			rc, err := r.Resolve(c)
			if err != nil {
				return nil, err
			}
			out = append(out, rc)
		}
		return out, nil
	case Leaf:
		return r.resolveExpr(v.Expr)
	default:
		return nil, fmt.Errorf("ir: cannot resolve term %T", t)
	}
}

func (r *Resolver) resolveExpr(expr parser.Expr) (any, error) {
	switch e := expr.(type) {
	case *parser.IdentifierExpr:
		return FieldSigil + e.Name, nil

	case *parser.LiteralExpr:
		return e.Value.Native(), nil

	case *parser.ParenExpr:
		return r.resolveExpr(e.Expr)

	case *parser.BinaryExpr:
		// Left-biased: the right operand is only consulted when the left
		// one resolves to a falsy value.
		left, err := r.resolveExpr(e.Left)
		if err != nil {
			return nil, err
		}
		if !falsy(left) {
			r.warnf("ambiguous operand %q resolved to its left side %v", parser.Unparse(e), left)
			return left, nil
		}
		right, err := r.resolveExpr(e.Right)
		if err != nil {
			return nil, err
		}
		r.warnf("ambiguous operand %q resolved to its right side %v", parser.Unparse(e), right)
		return right, nil

	case *parser.BuiltinCallExpr:
		args := make([]any, 0, len(e.Args))
		for _, arg := range e.Args {
			if call, ok := arg.(*parser.BuiltinCallExpr); ok && r.suppressed(call.Name) {
				continue
			}
			a, err := r.resolveExpr(arg)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		return map[string]any{OperatorSigil + e.Name: args}, nil

	default:
		return nil, fmt.Errorf("ir: cannot resolve %s", parser.Unparse(expr))
	}
}

func (r *Resolver) suppressed(name string) bool {
	return r.Suppressed != nil && r.Suppressed(name)
}

func (r *Resolver) warnf(format string, args ...any) {
	if r.Log != nil {
		r.Log.Warningf(format, args...)
	}
}

// MayResolveFalsy reports whether expr can resolve to a falsy fragment,
// which is when a binary operand falls through to its right side.
// Names and calls never do.
func MayResolveFalsy(expr parser.Expr) bool {
	switch e := expr.(type) {
	case *parser.IdentifierExpr, *parser.BuiltinCallExpr:
		return false
	case *parser.LiteralExpr:
		return falsy(e.Value.Native())
	case *parser.ParenExpr:
		return MayResolveFalsy(e.Expr)
	case *parser.BinaryExpr:
		return MayResolveFalsy(e.Left) && MayResolveFalsy(e.Right)
	default:
		return true
	}
}

func falsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case int64:
		return x == 0
	case float64:
		return x == 0
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	default:
		return false
	}
}
