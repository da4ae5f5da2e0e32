// Package compiler turns straight-line MOO assignment bodies into update
// pipelines.
package compiler

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tliron/commonlog"

	"mooagg/emit"
	"mooagg/ir"
	"mooagg/parser"
	"mooagg/trace"
)

// Compiler runs the builder, the statement compiler and the assembler.
// It keeps no state between compilations.
type Compiler struct {
	builder *Builder
	emitter *emit.Emitter
	log     commonlog.Logger
	tracer  *trace.Tracer
}

// New creates a compiler
func New(opts Options) *Compiler {
	builder := NewBuilder(opts.operators(), opts.suppressed())
	resolver := ir.NewResolver(builder.IsSuppressed)
	return &Compiler{
		builder: builder,
		emitter: emit.NewEmitter(resolver),
		log:     opts.logger(),
		tracer:  opts.Tracer,
	}
}

// Builder returns the compiler's builder
func (c *Compiler) Builder() *Builder { return c.builder }

// Emitter returns the compiler's emitter
func (c *Compiler) Emitter() *emit.Emitter { return c.emitter }

// Compile parses and compiles a function's body
func (c *Compiler) Compile(fn Function) (emit.Pipeline, error) {
	stmts, err := fn.Parse()
	if err != nil {
		return nil, err
	}
	p, err := c.CompileProgram(stmts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.displayName(), err)
	}
	return p, nil
}

// CompileSource parses and compiles a body given as one string
func (c *Compiler) CompileSource(src string) (emit.Pipeline, error) {
	stmts, err := parser.ParseProgram(src)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return c.CompileProgram(stmts)
}

// CompileProgram compiles parsed statements into a pipeline. Any
// unsupported construct aborts the whole compilation.
func (c *Compiler) CompileProgram(stmts []parser.Stmt) (emit.Pipeline, error) {
	nodes, err := c.Statements(stmts)
	if err != nil {
		return nil, err
	}
	p, err := emit.Assemble(c.emitter, nodes)
	if err != nil {
		return nil, err
	}
	if c.tracer.IsEnabled() {
		for i, n := range nodes {
			target, _ := n.Label()
			c.tracer.Stage(i+1, target, renderStage(p[i]))
		}
	}
	return p, nil
}

// renderStage is the traced form of a stage; an encode failure is traced
// in its place
func renderStage(stage emit.Doc) string {
	rendered, err := json.Marshal(stage)
	if err != nil {
		return err.Error()
	}
	return string(rendered)
}

// Statements compiles each statement to its top-level node, in order.
// Statements that produce no stage are left out.
func (c *Compiler) Statements(stmts []parser.Stmt) ([]*ir.Node, error) {
	nodes := make([]*ir.Node, 0, len(stmts))
	for i, stmt := range stmts {
		node, err := c.statement(stmt, i == len(stmts)-1)
		if err != nil {
			return nil, err
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

// statement compiles one statement. A nil node with a nil error means the
// statement has no effect on the document.
func (c *Compiler) statement(stmt parser.Stmt, last bool) (*ir.Node, error) {
	line := stmt.Position().Line

	switch s := stmt.(type) {
	case *parser.ExprStmt:
		switch e := s.Expr.(type) {
		case nil:
			return nil, nil
		case *parser.AssignExpr:
			return c.assignment(line, e)
		case *parser.BuiltinCallExpr:
			if c.builder.IsSuppressed(e.Name) {
				c.tracer.Skip(line, parser.UnparseStmt(s), "suppressed call")
				return nil, nil
			}
			return nil, unsupportedStmt(s, "call statement without assignment")
		default:
			return nil, unsupportedStmt(s, "expression statement without assignment")
		}

	case *parser.ReturnStmt:
		if !last {
			return nil, unsupportedStmt(s, "return before the end of the body")
		}
		// The document itself is the result; the returned value is not stored
		c.tracer.Skip(line, parser.UnparseStmt(s), "final return")
		return nil, nil

	case *parser.IfStmt:
		return nil, unsupportedStmt(s, "conditional")
	case *parser.WhileStmt:
		return nil, unsupportedStmt(s, "while loop")
	case *parser.ForStmt:
		return nil, unsupportedStmt(s, "for loop")
	case *parser.ForkStmt:
		return nil, unsupportedStmt(s, "fork")
	case *parser.TryStmt:
		return nil, unsupportedStmt(s, "try statement")
	case *parser.BreakStmt:
		return nil, unsupportedStmt(s, "break")
	case *parser.ContinueStmt:
		return nil, unsupportedStmt(s, "continue")
	default:
		return nil, unsupportedStmt(stmt, "statement")
	}
}

// assignment compiles "t1 = t2 = ... = expr". An operation value is
// assigned to the first target; a bare name value becomes a passthrough
// labelled with the source name over all targets.
func (c *Compiler) assignment(line int, e *parser.AssignExpr) (*ir.Node, error) {
	var targets []*parser.IdentifierExpr
	var value parser.Expr = e
	for {
		assign, ok := value.(*parser.AssignExpr)
		if !ok {
			break
		}
		ident, ok := assign.Target.(*parser.IdentifierExpr)
		if !ok {
			return nil, unsupportedExpr(assign.Target, "assignment target")
		}
		targets = append(targets, ident)
		value = assign.Value
	}

	built, err := c.builder.Build(value)
	if err != nil {
		return nil, err
	}
	source := parser.Unparse(e) + ";"

	switch v := built.(type) {
	case nil:
		c.tracer.Skip(line, source, "suppressed call")
		return nil, nil

	case *ir.Node:
		if len(targets) > 1 {
			names := make([]string, len(targets)-1)
			for i, t := range targets[1:] {
				names[i] = t.Name
			}
			c.log.Warningf("line %d: only %q receives the value; dropped targets %s",
				line, targets[0].Name, strings.Join(names, ", "))
		}
		node := ir.NewAssignment(targets[0].Name, v.Operator(), v)
		c.tracer.Statement(line, targets[0].Name, node.Kind().String(), source)
		return node, nil

	case ir.Name:
		children := make([]ir.Term, 0, len(targets))
		for _, t := range targets {
			child, err := c.builder.Build(t)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		node := ir.NewPassthrough(string(v), children...)
		c.tracer.Statement(line, targets[0].Name, node.Kind().String(), source)
		return node, nil

	default:
		return nil, fmt.Errorf("compiler: builder returned %T", built)
	}
}
