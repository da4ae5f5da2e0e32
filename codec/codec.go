// Package codec reads and writes documents and pipelines as JSON, YAML
// or CBOR.
package codec

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format names an encoding
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	CBOR Format = "cbor"
)

// ParseFormat accepts json, yaml/yml and cbor in any case
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json", "":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "cbor":
		return CBOR, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json, yaml or cbor)", s)
	}
}

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("codec: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("codec: failed to create CBOR dec mode: %v", err))
	}
	cborDecMode = dm
}

// Marshal encodes v. Indent only applies to JSON; empty means compact.
func Marshal(format Format, v any, indent string) ([]byte, error) {
	switch format {
	case JSON:
		if indent != "" {
			return json.MarshalIndent(v, "", indent)
		}
		return json.Marshal(v)
	case YAML:
		return yaml.Marshal(v)
	case CBOR:
		return cborEncMode.Marshal(v)
	default:
		return nil, fmt.Errorf("codec: unsupported format %q", format)
	}
}

// Encode writes v to w, ending text formats with a newline
func Encode(w io.Writer, format Format, v any, indent string) error {
	data, err := Marshal(format, v, indent)
	if err != nil {
		return err
	}
	if format == JSON {
		data = append(data, '\n')
	}
	_, err = w.Write(data)
	return err
}

// Decode parses data and normalizes the result
func Decode(format Format, data []byte) (any, error) {
	var v any
	switch format {
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("codec: decode json: %w", err)
		}
	case YAML:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("codec: decode yaml: %w", err)
		}
	case CBOR:
		if err := cborDecMode.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("codec: decode cbor: %w", err)
		}
	default:
		return nil, fmt.Errorf("codec: unsupported format %q", format)
	}
	return Normalize(v)
}

// DecodeDocument decodes a single document
func DecodeDocument(format Format, data []byte) (map[string]any, error) {
	v, err := Decode(format, data)
	if err != nil {
		return nil, err
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("codec: expected a document, got %T", v)
	}
	return doc, nil
}

// DecodePipeline decodes a list of stage documents
func DecodePipeline(format Format, data []byte) ([]map[string]any, error) {
	v, err := Decode(format, data)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("codec: expected a list of stages, got %T", v)
	}
	stages := make([]map[string]any, len(list))
	for i, s := range list {
		stage, ok := s.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("codec: stage %d is %T, not a document", i+1, s)
		}
		stages[i] = stage
	}
	return stages, nil
}

// Normalize converts decoded values into the value space the engine and
// store use: int64, float64, string, bool, nil, []any and map[string]any.
func Normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, int64, float64:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint:
		return normalizeUnsigned(uint64(x)), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		return normalizeUnsigned(x), nil
	case float32:
		return float64(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("codec: bad number %q", x)
		}
		return f, nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			n, err := Normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			n, err := Normalize(e)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("codec: non-string key %v (%T)", k, k)
			}
			n, err := Normalize(e)
			if err != nil {
				return nil, err
			}
			out[ks] = n
		}
		return out, nil
	case []map[string]any:
		out := make([]any, len(x))
		for i, e := range x {
			n, err := Normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("codec: unsupported value %v (%T)", v, v)
	}
}

func normalizeUnsigned(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}
