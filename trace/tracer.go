package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Tracer writes [TRACE] lines for compilation and pipeline runs. A nil
// *Tracer is valid and traces nothing.
type Tracer struct {
	enabled bool
	filters []string
	writer  io.Writer
	mu      sync.Mutex
}

// New creates a tracer. Filters are filepath.Match globs over assignment
// targets; no filters means trace everything.
func New(enabled bool, filters []string, writer io.Writer) *Tracer {
	if writer == nil {
		writer = os.Stderr
	}
	return &Tracer{
		enabled: enabled,
		filters: filters,
		writer:  writer,
	}
}

// IsEnabled returns whether tracing is enabled
func (t *Tracer) IsEnabled() bool {
	return t != nil && t.enabled
}

// matchesFilter checks if a target name matches any of the filter patterns
func (t *Tracer) matchesFilter(target string) bool {
	if len(t.filters) == 0 {
		return true // No filters = trace everything
	}

	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, target); matched {
			return true
		}
	}
	return false
}

func (t *Tracer) printf(target, format string, args ...any) {
	if !t.IsEnabled() || !t.matchesFilter(target) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] "+format+"\n", args...)
}

// Statement logs how a source statement was classified
func (t *Tracer) Statement(line int, target, kind, source string) {
	t.printf(target, "STMT %d %s %s: %s", line, target, kind, source)
}

// Skip logs a statement that produced no stage
func (t *Tracer) Skip(line int, source, reason string) {
	t.printf("", "SKIP %d %s: %s", line, reason, source)
}

// Stage logs an emitted stage
func (t *Tracer) Stage(index int, target, rendered string) {
	t.printf(target, "STAGE %d %s => %s", index, target, rendered)
}

// Iteration logs one application of a pipeline to a document
func (t *Tracer) Iteration(docID string, n, total int) {
	if !t.IsEnabled() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] ITER %s %d/%d\n", docID, n, total)
}
