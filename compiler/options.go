package compiler

import (
	"github.com/tliron/commonlog"

	"mooagg/trace"
)

// DefaultSuppressed are calls that only annotate source during development.
// They never reach the compiled pipeline.
var DefaultSuppressed = []string{"print", "notify", "server_log", "breakpoint"}

// Options configures a Compiler. The zero value is usable.
type Options struct {
	// Operators defaults to DefaultOperators()
	Operators *OperatorTable
	// Suppress adds call names to DefaultSuppressed
	Suppress []string
	// Log defaults to the mooagg.compiler logger
	Log    commonlog.Logger
	Tracer *trace.Tracer
}

func (o Options) operators() *OperatorTable {
	if o.Operators != nil {
		return o.Operators
	}
	return DefaultOperators()
}

func (o Options) suppressed() map[string]bool {
	set := make(map[string]bool, len(DefaultSuppressed)+len(o.Suppress))
	for _, name := range DefaultSuppressed {
		set[name] = true
	}
	for _, name := range o.Suppress {
		set[name] = true
	}
	return set
}

func (o Options) logger() commonlog.Logger {
	if o.Log != nil {
		return o.Log
	}
	return commonlog.GetLogger("mooagg.compiler")
}
