package compiler

import (
	"sort"

	"mooagg/ir"
	"mooagg/parser"
)

// OperatorTable maps source operators to target operator tags. It is
// read-only once built.
type OperatorTable struct {
	binary  map[parser.TokenType]string
	boolean map[parser.TokenType]string
	unary   map[parser.TokenType]string
}

var defaultOperators = &OperatorTable{
	binary: map[parser.TokenType]string{
		parser.TOKEN_PLUS:  ir.OperatorSigil + "add",
		parser.TOKEN_MINUS: ir.OperatorSigil + "subtract",
		parser.TOKEN_STAR:  ir.OperatorSigil + "multiply",
		parser.TOKEN_SLASH: ir.OperatorSigil + "divide",
		parser.TOKEN_CARET: ir.OperatorSigil + "pow",
	},
	boolean: map[parser.TokenType]string{
		parser.TOKEN_AND: ir.OperatorSigil + "and",
		parser.TOKEN_OR:  ir.OperatorSigil + "or",
	},
	unary: map[parser.TokenType]string{
		// Negation shares the subtraction tag; only the child count differs
		parser.TOKEN_MINUS: ir.OperatorSigil + "subtract",
		parser.TOKEN_NOT:   ir.OperatorSigil + "not",
	},
}

// DefaultOperators returns the standard operator table
func DefaultOperators() *OperatorTable {
	return defaultOperators
}

// Binary returns the tag of an arithmetic operator
func (t *OperatorTable) Binary(op parser.TokenType) (string, bool) {
	tag, ok := t.binary[op]
	return tag, ok
}

// Bool returns the tag of a boolean connective
func (t *OperatorTable) Bool(op parser.TokenType) (string, bool) {
	tag, ok := t.boolean[op]
	return tag, ok
}

// Unary returns the tag of a prefix operator
func (t *OperatorTable) Unary(op parser.TokenType) (string, bool) {
	tag, ok := t.unary[op]
	return tag, ok
}

// Tags lists every tag the table can produce, sorted
func (t *OperatorTable) Tags() []string {
	seen := map[string]bool{}
	for _, m := range []map[parser.TokenType]string{t.binary, t.boolean, t.unary} {
		for _, tag := range m {
			seen[tag] = true
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
