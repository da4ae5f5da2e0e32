package types

import (
	"fmt"
	"math"
)

// FromNative converts a decoded document value into a Value.
// Decoders disagree on numeric widths (JSON yields float64, YAML int,
// CBOR uint64), so every integer width collapses to IntValue.
func FromNative(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null, nil
	case Value:
		return x, nil
	case bool:
		return NewBool(x), nil
	case int:
		return NewInt(int64(x)), nil
	case int8:
		return NewInt(int64(x)), nil
	case int16:
		return NewInt(int64(x)), nil
	case int32:
		return NewInt(int64(x)), nil
	case int64:
		return NewInt(x), nil
	case uint:
		return fromUnsigned(uint64(x))
	case uint8:
		return NewInt(int64(x)), nil
	case uint16:
		return NewInt(int64(x)), nil
	case uint32:
		return NewInt(int64(x)), nil
	case uint64:
		return fromUnsigned(x)
	case float32:
		return NewFloat(float64(x)), nil
	case float64:
		return NewFloat(x), nil
	case string:
		return NewStr(x), nil
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			ev, err := FromNative(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = ev
		}
		return NewList(elems), nil
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, e := range x {
			ev, err := FromNative(e)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			fields[k] = ev
		}
		return NewDoc(fields), nil
	case map[any]any:
		fields := make(map[string]Value, len(x))
		for k, e := range x {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string document key %v (%T)", k, k)
			}
			ev, err := FromNative(e)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", ks, err)
			}
			fields[ks] = ev
		}
		return NewDoc(fields), nil
	default:
		return nil, fmt.Errorf("unsupported document value %v (%T)", v, v)
	}
}

func fromUnsigned(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return NewFloat(float64(u)), nil
	}
	return NewInt(int64(u)), nil
}
