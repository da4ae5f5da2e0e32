// Package emit serializes operation trees into pipeline stage documents.
package emit

import (
	"fmt"

	"mooagg/ir"
)

// Doc is a stage or an operator fragment
type Doc = map[string]any

// Emitter serializes nodes. It holds no state between calls, so emitting
// the same node twice gives equal documents.
type Emitter struct {
	resolver *ir.Resolver
}

// NewEmitter returns an emitter resolving leaf operands through r
func NewEmitter(r *ir.Resolver) *Emitter {
	return &Emitter{resolver: r}
}

// Emit serializes n and everything under it
func (e *Emitter) Emit(n *ir.Node) (any, error) {
	switch n.Kind() {
	case ir.KindConstant:
		return n.Value().Native(), nil
	case ir.KindPassthrough:
		return e.emitPassthrough(n)
	case ir.KindOperation:
		args := make([]any, 0, n.Len())
		for _, c := range n.Children() {
			a, err := e.emitTerm(c)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		return Doc{n.Operator(): args}, nil
	case ir.KindNamedResult:
		label, _ := n.Label()
		var value any
		switch c := n.Child(0).(type) {
		case ir.Name:
			value = string(c)
		default:
			v, err := e.emitTerm(c)
			if err != nil {
				return nil, err
			}
			value = v
		}
		return set(label, value), nil
	}
	return nil, fmt.Errorf("emit: node of unknown kind %d", n.Kind())
}

// emitPassthrough handles the three passthrough shapes. A single name
// child is the destination and the label the source (y = a gives
// {$set: {y: "$a"}}); several children fan out under the label.
func (e *Emitter) emitPassthrough(n *ir.Node) (any, error) {
	label, _ := n.Label()
	if n.Len() == 1 {
		switch c := n.Child(0).(type) {
		case *ir.Node:
			v, err := e.Emit(c)
			if err != nil {
				return nil, err
			}
			return set(label, v), nil
		case ir.Name:
			return set(string(c), ir.FieldSigil+label), nil
		default:
			return nil, fmt.Errorf("emit: passthrough %q has a %T destination", label, c)
		}
	}

	values := make([]any, 0, n.Len())
	for _, c := range n.Children() {
		v, err := e.resolver.Resolve(c)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return set(label, values), nil
}

func (e *Emitter) emitTerm(t ir.Term) (any, error) {
	if n, ok := t.(*ir.Node); ok {
		return e.Emit(n)
	}
	return e.resolver.Resolve(t)
}

func set(field string, value any) Doc {
	return Doc{ir.SetDirective: Doc{field: value}}
}
