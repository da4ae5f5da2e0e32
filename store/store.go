// Package store holds documents that compiled pipelines update.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"mooagg/engine"
	"mooagg/types"
)

// IDField is the primary key of every document
const IDField = "_id"

// ErrNotFound is returned when no document has the requested id
var ErrNotFound = errors.New("document not found")

// Collection is a set of documents addressed by id
type Collection interface {
	// InsertOne stores doc, assigning an id when it has none
	InsertOne(ctx context.Context, doc map[string]any) (string, error)
	FindOne(ctx context.Context, id string) (map[string]any, error)
	// UpdateOne applies the pipeline to one document atomically and
	// returns the result
	UpdateOne(ctx context.Context, id string, pipeline []map[string]any) (map[string]any, error)
	Drop(ctx context.Context) error
	Close() error
}

// Driver names
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Options selects and configures a backend
type Options struct {
	Driver     string
	Path       string
	Collection string
}

// Open creates the collection described by opts
func Open(ctx context.Context, opts Options) (Collection, error) {
	switch opts.Driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverSQLite:
		s, err := OpenSQLite(ctx, opts.Path, opts.Collection)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q (want %s or %s)", opts.Driver, DriverMemory, DriverSQLite)
	}
}

var log = commonlog.GetLogger("mooagg.store")

// documentID returns the id of doc, minting one when absent
func documentID(doc map[string]any) (string, map[string]any, error) {
	out := cloneDoc(doc)
	raw, ok := out[IDField]
	if !ok || raw == nil {
		id := uuid.New().String()
		out[IDField] = id
		return id, out, nil
	}
	id, ok := raw.(string)
	if !ok || id == "" {
		return "", nil, fmt.Errorf("%s must be a non-empty string, got %v", IDField, raw)
	}
	return id, out, nil
}

// applyUpdate runs pipeline over doc, refusing to change the id
func applyUpdate(eng *engine.Engine, doc map[string]any, pipeline []map[string]any) (map[string]any, error) {
	out, err := eng.Apply(doc, pipeline)
	if err != nil {
		return nil, err
	}
	if out[IDField] != doc[IDField] {
		return nil, &engine.ExecError{
			Code: types.E_INVARG,
			Op:   IDField,
			Msg:  "performing an update on the path '_id' would modify the immutable field",
		}
	}
	return out, nil
}

func cloneDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneDoc(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
