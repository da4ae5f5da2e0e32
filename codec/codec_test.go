package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func samplePipeline() []map[string]any {
	return []map[string]any{
		{"$set": map[string]any{"y": "$a"}},
		{"$set": map[string]any{"a": map[string]any{"$divide": []any{map[string]any{"$add": []any{"$a", "$b"}}, int64(2)}}}},
		{"$set": map[string]any{"t": 0.25, "ok": true, "none": nil}},
	}
}

func TestPipelineRoundTrip(t *testing.T) {
	want, err := Normalize(samplePipeline())
	if err != nil {
		t.Fatal(err)
	}

	for _, format := range []Format{JSON, YAML, CBOR} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Marshal(format, samplePipeline(), "")
			if err != nil {
				t.Fatalf("Marshal error: %v", err)
			}
			got, err := Decode(format, data)
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}

			stages, err := DecodePipeline(format, data)
			if err != nil {
				t.Fatalf("DecodePipeline error: %v", err)
			}
			if len(stages) != 3 {
				t.Errorf("DecodePipeline gave %d stages, want 3", len(stages))
			}
		})
	}
}

func TestDecodeDocumentNumbers(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{JSON, `{"a": 1, "b": 0.5, "c": -3, "d": 1.0}`},
		{YAML, "a: 1\nb: 0.5\nc: -3\nd: 1.0\n"},
	}

	want := map[string]any{"a": int64(1), "b": 0.5, "c": int64(-3), "d": 1.0}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			doc, err := DecodeDocument(tt.format, []byte(tt.input))
			if err != nil {
				t.Fatalf("DecodeDocument error: %v", err)
			}
			if diff := cmp.Diff(want, doc); diff != "" {
				t.Errorf("document mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := DecodeDocument(JSON, []byte(`[1, 2]`)); err == nil {
		t.Errorf("list decoded as document")
	}
	if _, err := DecodePipeline(JSON, []byte(`{"a": 1}`)); err == nil {
		t.Errorf("document decoded as pipeline")
	}
	if _, err := DecodePipeline(JSON, []byte(`[1]`)); err == nil {
		t.Errorf("number decoded as stage")
	}
	if _, err := Decode(JSON, []byte(`{`)); err == nil {
		t.Errorf("truncated json decoded")
	}
	if _, err := Normalize(map[any]any{1: "x"}); err == nil {
		t.Errorf("non-string key normalized")
	}
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, JSON, map[string]any{"$set": map[string]any{"x": int64(5)}}, ""); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != `{"$set":{"x":5}}`+"\n" {
		t.Errorf("Encode = %q", got)
	}

	buf.Reset()
	if err := Encode(&buf, JSON, map[string]any{"b": 1, "a": 2}, "  "); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); !strings.HasPrefix(got, "{\n  \"a\": 2,") {
		t.Errorf("indented Encode = %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", JSON},
		{"", JSON},
		{"YAML", YAML},
		{"yml", YAML},
		{"cbor", CBOR},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Errorf("ParseFormat(xml) should fail")
	}
}
