package conformance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/go-cmp/cmp"

	"mooagg/codec"
	"mooagg/compiler"
	"mooagg/driver"
	"mooagg/emit"
	"mooagg/engine"
	"mooagg/store"
	"mooagg/types"
)

// TestResult represents the outcome of running a single test
type TestResult struct {
	Test       LoadedTest
	Passed     bool
	Skipped    bool
	SkipReason string
	Error      error
}

// Runner executes conformance tests
type Runner struct {
	ctx context.Context
}

// NewRunner creates a new test runner
func NewRunner() *Runner {
	return &Runner{ctx: context.Background()}
}

func fail(test LoadedTest, format string, args ...any) TestResult {
	return TestResult{Test: test, Error: fmt.Errorf(format, args...)}
}

func (r *Runner) compile(test LoadedTest) (emit.Pipeline, error) {
	suppress := append([]string{}, test.Test.Suppress...)
	if test.Suite.Setup != nil {
		suppress = append(suppress, test.Suite.Setup.Suppress...)
	}
	c := compiler.New(compiler.Options{Suppress: suppress})

	if fn := test.Test.Function; fn != nil {
		return c.Compile(compiler.Function{Name: fn.Name, Args: fn.Args, Code: fn.Code})
	}
	return c.CompileSource(test.Test.Source)
}

// Run executes a single test case
func (r *Runner) Run(test LoadedTest) TestResult {
	if skipped, reason := test.Test.IsSkipped(); skipped {
		return TestResult{Test: test, Skipped: true, SkipReason: reason}
	}
	if test.Test.Source == "" && test.Test.Function == nil {
		return TestResult{Test: test, Skipped: true, SkipReason: "no source/function"}
	}

	expect := test.Test.Expect
	pipeline, err := r.compile(test)
	if err := checkCompileError(expect, err); err != nil {
		return fail(test, "%v", err)
	}
	if err != nil {
		// An expected compile error ends the test
		return TestResult{Test: test, Passed: true}
	}

	if expect.Stages != nil && len(pipeline) != *expect.Stages {
		return fail(test, "expected %d stages, got %d", *expect.Stages, len(pipeline))
	}
	if expect.Pipeline != nil {
		if err := comparePipeline(expect.Pipeline, pipeline); err != nil {
			return fail(test, "%v", err)
		}
	}

	if test.Test.Runs() {
		doc, err := r.execute(test, pipeline)
		if err := checkExecution(expect, doc, err); err != nil {
			return fail(test, "%v", err)
		}
	}

	return TestResult{Test: test, Passed: true}
}

// checkCompileError matches the compile outcome against the expectation
func checkCompileError(expect Expectation, err error) error {
	var uerr *compiler.UnsupportedConstructError
	isUnsupported := errors.As(err, &uerr)

	switch {
	case expect.Unsupported != "":
		if !isUnsupported {
			return fmt.Errorf("expected unsupported %s, got %v", expect.Unsupported, err)
		}
		if uerr.Construct != expect.Unsupported {
			return fmt.Errorf("expected unsupported %s, got %s", expect.Unsupported, uerr.Construct)
		}
		if expect.Line != 0 && uerr.Pos.Line != expect.Line {
			return fmt.Errorf("expected error on line %d, got line %d", expect.Line, uerr.Pos.Line)
		}
		return nil
	case expect.ParseError:
		if err == nil || isUnsupported {
			return fmt.Errorf("expected a parse error, got %v", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("compile error: %w", err)
	default:
		return nil
	}
}

func comparePipeline(want []map[string]any, got emit.Pipeline) error {
	w, err := codec.Normalize(toAny(want))
	if err != nil {
		return fmt.Errorf("bad expected pipeline: %w", err)
	}
	g, err := codec.Normalize(got.Stages())
	if err != nil {
		return fmt.Errorf("bad compiled pipeline: %w", err)
	}
	if diff := cmp.Diff(w, g); diff != "" {
		return fmt.Errorf("pipeline mismatch (-want +got):\n%s", diff)
	}
	return nil
}

func toAny(stages []map[string]any) []any {
	out := make([]any, len(stages))
	for i, s := range stages {
		out[i] = s
	}
	return out
}

// execute seeds a memory collection and drives the pipeline over it
func (r *Runner) execute(test LoadedTest, pipeline emit.Pipeline) (map[string]any, error) {
	seed := map[string]any{}
	if test.Suite.Setup != nil && test.Suite.Setup.Doc != nil {
		seed = test.Suite.Setup.Doc
	}
	if test.Test.Doc != nil {
		seed = test.Test.Doc
	}
	normalized, err := codec.Normalize(seed)
	if err != nil {
		return nil, fmt.Errorf("bad seed document: %w", err)
	}

	coll := store.NewMemory()
	defer coll.Close()
	id, err := coll.InsertOne(r.ctx, normalized.(map[string]any))
	if err != nil {
		return nil, err
	}

	n := test.Test.Iterations
	if n == 0 {
		n = 1
	}
	d := driver.New(coll, nil)
	res, err := d.Iterate(r.ctx, id, pipeline, n)
	if err != nil {
		return nil, err
	}
	if test.Test.Finalize == "" {
		return res.Doc, nil
	}

	readout, err := compiler.CompileSource(test.Test.Finalize)
	if err != nil {
		return nil, fmt.Errorf("finalize: %w", err)
	}
	return d.Finalize(r.ctx, id, driver.AddFields(readout))
}

func checkExecution(expect Expectation, doc map[string]any, err error) error {
	if expect.Error != "" {
		code, ok := types.ErrorFromString(strings.ToUpper(expect.Error))
		if !ok {
			return fmt.Errorf("unknown error code: %s", expect.Error)
		}
		var execErr *engine.ExecError
		if !errors.As(err, &execErr) {
			return fmt.Errorf("expected error %s, got %v", expect.Error, err)
		}
		if execErr.Code != code {
			return fmt.Errorf("expected error %s, got %s", code, execErr.Code)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}

	for field, want := range expect.Doc {
		w, err := codec.Normalize(want)
		if err != nil {
			return fmt.Errorf("bad expected value for %s: %w", field, err)
		}
		if diff := cmp.Diff(w, doc[field]); diff != "" {
			return fmt.Errorf("field %s mismatch (-want +got):\n%s", field, diff)
		}
	}

	for field, want := range expect.Truthy {
		v, err := types.FromNative(doc[field])
		if err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		if v.Truthy() != want {
			return fmt.Errorf("field %s = %s, want truthy %v", field, v, want)
		}
	}

	for field, bounds := range expect.Range {
		if len(bounds) != 2 {
			return fmt.Errorf("range for %s needs [min, max]", field)
		}
		f, ok := asFloat(doc[field])
		if !ok {
			return fmt.Errorf("field %s = %v, want a number", field, doc[field])
		}
		if f < bounds[0] || f > bounds[1] || math.IsNaN(f) {
			return fmt.Errorf("field %s = %.17g, want within [%v, %v]", field, f, bounds[0], bounds[1])
		}
	}

	return nil
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// RunAll executes all loaded tests
func (r *Runner) RunAll(tests []LoadedTest) []TestResult {
	results := make([]TestResult, len(tests))
	for i, test := range tests {
		results[i] = r.Run(test)
	}
	return results
}

// SummaryStats computes statistics from test results
type SummaryStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// ComputeStats generates statistics from test results
func ComputeStats(results []TestResult) SummaryStats {
	stats := SummaryStats{Total: len(results)}
	for _, r := range results {
		if r.Skipped {
			stats.Skipped++
		} else if r.Passed {
			stats.Passed++
		} else {
			stats.Failed++
		}
	}
	return stats
}

// FormatStats returns a human-readable summary
func FormatStats(stats SummaryStats) string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped (%d total)",
		stats.Passed, stats.Failed, stats.Skipped, stats.Total)
}
