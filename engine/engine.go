// Package engine applies emitted update pipelines to documents in
// memory. It covers the stage and operator subset the compiler emits and
// is the reference the stores use to execute updates.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tliron/commonlog"

	"mooagg/types"
)

// Stage directives accepted by Apply
const (
	StageSet       = "$set"
	StageAddFields = "$addFields"
)

// Engine evaluates pipeline stages
type Engine struct {
	log commonlog.Logger
}

// New creates an engine
func New() *Engine {
	return &Engine{log: commonlog.GetLogger("mooagg.engine")}
}

// Apply runs stages against doc and returns the updated document. Each
// stage reads the document as it was before that stage; doc itself is
// not modified.
func (e *Engine) Apply(doc map[string]any, stages []map[string]any) (map[string]any, error) {
	current := make(map[string]any, len(doc))
	for k, v := range doc {
		current[k] = v
	}

	for i, stage := range stages {
		next, err := e.applyStage(current, stage)
		if err != nil {
			if execErr, ok := err.(*ExecError); ok && execErr.Stage == 0 {
				execErr.Stage = i + 1
			}
			return nil, err
		}
		current = next
	}
	return current, nil
}

func (e *Engine) applyStage(doc map[string]any, stage map[string]any) (map[string]any, error) {
	if len(stage) != 1 {
		return nil, execErr(types.E_INVARG, "stage", "a pipeline stage must have exactly one field, got %d", len(stage))
	}

	var directive string
	var body any
	for k, v := range stage {
		directive, body = k, v
	}
	if directive != StageSet && directive != StageAddFields {
		return nil, execErr(types.E_INVARG, directive, "unrecognized pipeline stage")
	}

	fields, ok := body.(map[string]any)
	if !ok {
		return nil, execErr(types.E_TYPE, directive, "stage argument must be an object, got %T", body)
	}

	// Fields are written in sorted order so that duplicate writes through
	// the same stage settle deterministically.
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]any, len(fields))
	for _, name := range names {
		if name == "" || strings.HasPrefix(name, "$") {
			return nil, execErr(types.E_INVARG, directive, "invalid field name %q", name)
		}
		v, err := e.Eval(fields[name], doc)
		if err != nil {
			return nil, err
		}
		results[name] = v.Native()
		e.log.Debugf("%s %s = %s", directive, name, v)
	}

	next := make(map[string]any, len(doc)+len(results))
	for k, v := range doc {
		next[k] = v
	}
	for k, v := range results {
		next[k] = v
	}
	return next, nil
}

// Eval evaluates one aggregation expression against doc
func (e *Engine) Eval(expr any, doc map[string]any) (types.Value, error) {
	switch x := expr.(type) {
	case string:
		if strings.HasPrefix(x, "$$") {
			return nil, execErr(types.E_INVARG, x, "variables are not supported")
		}
		if strings.HasPrefix(x, "$") {
			return lookupField(doc, x[1:])
		}
		return types.NewStr(x), nil

	case []any:
		elems := make([]types.Value, len(x))
		for i, el := range x {
			v, err := e.Eval(el, doc)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return types.NewList(elems), nil

	case map[string]any:
		if op, arg, ok := operatorOf(x); ok {
			return e.evalOperator(op, arg, doc)
		}
		fields := make(map[string]types.Value, len(x))
		for k, el := range x {
			if strings.HasPrefix(k, "$") {
				return nil, execErr(types.E_INVARG, k, "operator must be the only field of an expression")
			}
			v, err := e.Eval(el, doc)
			if err != nil {
				return nil, err
			}
			fields[k] = v
		}
		return types.NewDoc(fields), nil

	default:
		v, err := types.FromNative(x)
		if err != nil {
			return nil, execErr(types.E_TYPE, "literal", "%v", err)
		}
		return v, nil
	}
}

// operatorOf recognises a single-field document keyed by an operator
func operatorOf(doc map[string]any) (string, any, bool) {
	if len(doc) != 1 {
		return "", nil, false
	}
	for k, v := range doc {
		if strings.HasPrefix(k, "$") {
			return k, v, true
		}
	}
	return "", nil, false
}

func (e *Engine) evalOperator(op string, arg any, doc map[string]any) (types.Value, error) {
	fn, ok := operators[op]
	if !ok {
		return nil, execErr(types.E_OPNF, op, "unrecognized expression operator")
	}

	// A bare operand stands for a one-element argument list
	rawArgs, isList := arg.([]any)
	if !isList {
		rawArgs = []any{arg}
	}

	args := make([]types.Value, len(rawArgs))
	for i, raw := range rawArgs {
		v, err := e.Eval(raw, doc)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fn(op, args)
}

// lookupField resolves a possibly dotted path. Missing fields are null.
func lookupField(doc map[string]any, path string) (types.Value, error) {
	if path == "" {
		return nil, execErr(types.E_INVARG, "$", "empty field path")
	}
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return types.Null, nil
		}
		if cur, ok = m[part]; !ok {
			return types.Null, nil
		}
	}
	v, err := types.FromNative(cur)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", path, err)
	}
	return v, nil
}
