package types

import (
	"fmt"
	"sort"
	"strings"
)

// DocValue is an embedded document. Arithmetic never looks inside it; it
// only travels through field copies.
type DocValue struct {
	fields map[string]Value
}

// NewDoc creates a document value from already converted fields
func NewDoc(fields map[string]Value) DocValue {
	copied := make(map[string]Value, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return DocValue{fields: copied}
}

func (d DocValue) Type() TypeCode {
	return TYPE_DOC
}

// Get returns the named field and whether it was present
func (d DocValue) Get(name string) (Value, bool) {
	v, ok := d.fields[name]
	return v, ok
}

func (d DocValue) keys() []string {
	keys := make([]string, 0, len(d.fields))
	for k := range d.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the fields in key order
func (d DocValue) String() string {
	parts := make([]string, 0, len(d.fields))
	for _, k := range d.keys() {
		parts = append(parts, fmt.Sprintf("%q: %s", k, d.fields[k].String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (d DocValue) Equal(other Value) bool {
	o, ok := other.(DocValue)
	if !ok || len(o.fields) != len(d.fields) {
		return false
	}
	for k, v := range d.fields {
		ov, ok := o.fields[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

func (d DocValue) Truthy() bool {
	return true
}

func (d DocValue) Native() any {
	out := make(map[string]any, len(d.fields))
	for k, v := range d.fields {
		out[k] = v.Native()
	}
	return out
}
