// Package driver runs a compiled pipeline repeatedly against one stored
// document until it reaches a fixed point or an iteration budget.
package driver

import (
	"context"
	"fmt"
	"math"

	"github.com/tliron/commonlog"

	"mooagg/store"
	"mooagg/trace"
)

// Driver applies pipelines through a collection
type Driver struct {
	coll   store.Collection
	tracer *trace.Tracer
	log    commonlog.Logger
}

// New creates a driver. tracer may be nil.
func New(coll store.Collection, tracer *trace.Tracer) *Driver {
	return &Driver{
		coll:   coll,
		tracer: tracer,
		log:    commonlog.GetLogger("mooagg.driver"),
	}
}

// Result reports how far an Iterate call got
type Result struct {
	Iterations int
	Doc        map[string]any
}

// Iterate applies pipeline to the document n times, one UpdateOne per
// iteration. On cancellation or an execution error it returns the
// iterations completed so far along with the error.
func (d *Driver) Iterate(ctx context.Context, id string, pipeline []map[string]any, n int) (Result, error) {
	var res Result
	if n < 0 {
		return res, fmt.Errorf("iteration count must not be negative, got %d", n)
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("stopped after %d of %d iterations: %w", i, n, err)
		}
		doc, err := d.coll.UpdateOne(ctx, id, pipeline)
		if err != nil {
			return res, fmt.Errorf("iteration %d of %d: %w", i+1, n, err)
		}
		res.Iterations = i + 1
		res.Doc = doc
		d.tracer.Iteration(id, i+1, n)
		d.log.Debugf("%s: iteration %d of %d", id, i+1, n)
	}

	if res.Doc == nil {
		doc, err := d.coll.FindOne(ctx, id)
		if err != nil {
			return res, err
		}
		res.Doc = doc
	}
	return res, nil
}

// Finalize applies a one-off pipeline, typically a read-out stage
func (d *Driver) Finalize(ctx context.Context, id string, pipeline []map[string]any) (map[string]any, error) {
	doc, err := d.coll.UpdateOne(ctx, id, pipeline)
	if err != nil {
		return nil, fmt.Errorf("finalize: %w", err)
	}
	return doc, nil
}

// Iterations returns how many Gauss-Legendre rounds give the requested
// number of correct digits. Each round doubles them.
func Iterations(digits int) int {
	if digits < 2 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(digits))))
}
