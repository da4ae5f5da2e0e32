package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestTracerFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters []string
		target  string
		traced  bool
	}{
		{"no filters", nil, "a", true},
		{"exact", []string{"a"}, "a", true},
		{"glob", []string{"t*"}, "tmp", true},
		{"miss", []string{"t*"}, "a", false},
		{"second pattern", []string{"x", "a?"}, "ab", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tr := New(true, tt.filters, &buf)
			tr.Statement(1, tt.target, "operation", tt.target+" = 1;")
			if got := buf.Len() > 0; got != tt.traced {
				t.Errorf("traced = %v, want %v (output %q)", got, tt.traced, buf.String())
			}
		})
	}
}

func TestTracerOutput(t *testing.T) {
	var buf bytes.Buffer
	tr := New(true, nil, &buf)
	tr.Statement(2, "b", "named-result", "b = sqrt(b * y);")
	tr.Stage(1, "b", `{"$set":{"b":1}}`)
	tr.Iteration("doc1", 3, 6)

	want := []string{
		"[TRACE] STMT 2 b named-result: b = sqrt(b * y);",
		`[TRACE] STAGE 1 b => {"$set":{"b":1}}`,
		"[TRACE] ITER doc1 3/6",
	}
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTracerDisabled(t *testing.T) {
	var buf bytes.Buffer
	New(false, nil, &buf).Statement(1, "a", "constant", "a = 1;")

	var nilTracer *Tracer
	nilTracer.Stage(1, "a", "{}")
	nilTracer.Iteration("d", 1, 1)

	if buf.Len() != 0 {
		t.Errorf("disabled tracer wrote %q", buf.String())
	}
	if nilTracer.IsEnabled() {
		t.Errorf("nil tracer reports enabled")
	}
}
