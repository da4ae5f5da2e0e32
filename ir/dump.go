package ir

import (
	"fmt"
	"strings"

	"mooagg/parser"
)

// Dump renders a node as an indented tree, one term per line
func Dump(n *Node) string {
	var sb strings.Builder
	dumpTerm(&sb, n, 0)
	return sb.String()
}

func dumpTerm(sb *strings.Builder, t Term, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := t.(type) {
	case *Node:
		switch v.kind {
		case KindConstant:
			fmt.Fprintf(sb, "%sconstant %s\n", indent, v.value)
			return
		case KindOperation:
			fmt.Fprintf(sb, "%soperation %s\n", indent, v.operator)
		case KindPassthrough:
			fmt.Fprintf(sb, "%spassthrough %s\n", indent, v.label)
		case KindNamedResult:
			fmt.Fprintf(sb, "%sassign %s %s\n", indent, v.label, v.operator)
		}
		for _, c := range v.children {
			dumpTerm(sb, c, depth+1)
		}
	case Name:
		fmt.Fprintf(sb, "%sname %s\n", indent, string(v))
	case Literal:
		fmt.Fprintf(sb, "%sliteral %s\n", indent, v.Value)
	case Leaf:
		fmt.Fprintf(sb, "%sleaf %s\n", indent, parser.Unparse(v.Expr))
	}
}
