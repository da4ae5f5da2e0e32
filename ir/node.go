// Package ir defines the operation tree the compiler builds from source
// statements and the emitter turns into pipeline stages.
package ir

import (
	"mooagg/parser"
	"mooagg/types"
)

const (
	// FieldSigil prefixes a field reference ("$a" reads field a)
	FieldSigil = "$"
	// OperatorSigil prefixes an operator tag ("$add")
	OperatorSigil = "$"
	// SetDirective is the update directive a statement stage uses
	SetDirective = "$set"
)

// Kind is one of the four node classes. A node's kind is fixed by the
// constructor that made it.
type Kind int

const (
	KindConstant Kind = iota
	KindPassthrough
	KindOperation
	KindNamedResult
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindPassthrough:
		return "passthrough"
	case KindOperation:
		return "operation"
	case KindNamedResult:
		return "named-result"
	default:
		return "unknown"
	}
}

// Term is a child of a Node: *Node, Name, Literal or Leaf
type Term interface {
	term()
}

// Name is a bare variable name
type Name string

// Literal is a constant operand kept raw
type Literal struct {
	Value types.Value
}

// Leaf is operand syntax left for the Resolver to turn into a fragment
type Leaf struct {
	Expr parser.Expr
}

func (Name) term()    {}
func (Literal) term() {}
func (Leaf) term()    {}
func (*Node) term()   {}

// Node is one operation tree node
type Node struct {
	kind     Kind
	label    string
	value    types.Value
	operator string
	children []Term
}

// NewConstant returns a node that serializes to v
func NewConstant(v types.Value) *Node {
	return &Node{kind: KindConstant, value: v, children: []Term{}}
}

// NewOperation returns an unlabelled node applying operator to children
func NewOperation(operator string, children ...Term) *Node {
	if operator == "" {
		panic("ir: operation node without operator")
	}
	return &Node{kind: KindOperation, operator: operator, children: copyTerms(children)}
}

// NewPassthrough returns a labelled node without an operator: a field copy
// when it has one child, a fan-out when it has several.
func NewPassthrough(label string, children ...Term) *Node {
	return &Node{kind: KindPassthrough, label: label, children: copyTerms(children)}
}

// NewAssignment wraps child as the value assigned to label. An empty
// operator yields a passthrough, anything else a named result.
func NewAssignment(label, operator string, child Term) *Node {
	if operator == "" {
		return NewPassthrough(label, child)
	}
	return &Node{kind: KindNamedResult, label: label, operator: operator, children: []Term{child}}
}

func copyTerms(terms []Term) []Term {
	out := make([]Term, len(terms))
	copy(out, terms)
	return out
}

func (n *Node) Kind() Kind { return n.kind }

// Label returns the node's name and whether it has one
func (n *Node) Label() (string, bool) {
	return n.label, n.kind == KindPassthrough || n.kind == KindNamedResult
}

// Value returns the literal of a constant node, nil otherwise
func (n *Node) Value() types.Value { return n.value }

func (n *Node) Operator() string { return n.operator }

// IsConstant reports whether n always serializes to its literal
func (n *Node) IsConstant() bool { return n.kind == KindConstant }

// Children returns a copy of the node's children
func (n *Node) Children() []Term {
	return copyTerms(n.children)
}

// Len returns the number of children
func (n *Node) Len() int { return len(n.children) }

// Child returns the i-th child
func (n *Node) Child(i int) Term { return n.children[i] }
