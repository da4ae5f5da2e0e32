package compiler

import (
	"fmt"
	"strings"

	"mooagg/emit"
	"mooagg/parser"
)

// Function is a verb-like body to compile: a name, the document fields it
// reads as arguments, and its source lines.
type Function struct {
	Name string
	Args []string
	Code []string
}

// Parse joins the code lines and parses them
func (f Function) Parse() ([]parser.Stmt, error) {
	if len(f.Code) == 0 {
		return []parser.Stmt{}, nil
	}

	source := strings.Join(f.Code, "\n")
	stmts, err := parser.NewParser(source).ParseProgram()
	if err != nil {
		return nil, fmt.Errorf("%s: parse error: %w", f.displayName(), err)
	}
	return stmts, nil
}

func (f Function) displayName() string {
	if f.Name == "" {
		return "<anonymous>"
	}
	return f.Name
}

// Compile compiles fn with default options
func Compile(fn Function) (emit.Pipeline, error) {
	return New(Options{}).Compile(fn)
}

// CompileSource compiles src with default options
func CompileSource(src string) (emit.Pipeline, error) {
	return New(Options{}).CompileSource(src)
}
