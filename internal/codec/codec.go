// Package codec converts between plain record values and the attribute-tagged
// wire format the reminder store persists. The wire shape mirrors the DynamoDB
// attribute value layout so records move between backends without translation.
package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value is a single attribute-tagged wire value. Exactly one field is set.
type Value struct {
	S    *string          `json:"S,omitempty"`
	N    *string          `json:"N,omitempty"`
	BOOL *bool            `json:"BOOL,omitempty"`
	NULL *bool            `json:"NULL,omitempty"`
	M    map[string]Value `json:"M,omitempty"`
	L    []Value          `json:"L,omitempty"`
}

// Marshal converts a plain value into its wire representation.
func Marshal(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		null := true
		return Value{NULL: &null}, nil
	case string:
		return Value{S: &t}, nil
	case bool:
		return Value{BOOL: &t}, nil
	case int:
		n := strconv.FormatInt(int64(t), 10)
		return Value{N: &n}, nil
	case int64:
		n := strconv.FormatInt(t, 10)
		return Value{N: &n}, nil
	case float64:
		n := strconv.FormatFloat(t, 'f', -1, 64)
		return Value{N: &n}, nil
	case json.Number:
		n := t.String()
		return Value{N: &n}, nil
	case map[string]any:
		m, err := MarshalMap(t)
		if err != nil {
			return Value{}, err
		}
		return Value{M: m}, nil
	case []any:
		l := make([]Value, 0, len(t))
		for i, el := range t {
			av, err := Marshal(el)
			if err != nil {
				return Value{}, fmt.Errorf("list index %d: %w", i, err)
			}
			l = append(l, av)
		}
		return Value{L: l}, nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// MarshalMap converts a plain record into wire attributes.
func MarshalMap(record map[string]any) (map[string]Value, error) {
	attrs := make(map[string]Value, len(record))
	for k, v := range record {
		av, err := Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		attrs[k] = av
	}
	return attrs, nil
}

// Unmarshal converts a wire value back into a plain value. Numbers decode to
// int64 when integral and float64 otherwise.
func Unmarshal(av Value) (any, error) {
	switch {
	case av.NULL != nil && *av.NULL:
		return nil, nil
	case av.S != nil:
		return *av.S, nil
	case av.BOOL != nil:
		return *av.BOOL, nil
	case av.N != nil:
		if !strings.ContainsAny(*av.N, ".eE") {
			if i, err := strconv.ParseInt(*av.N, 10, 64); err == nil {
				return i, nil
			}
		}
		f, err := strconv.ParseFloat(*av.N, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", *av.N, err)
		}
		return f, nil
	case av.M != nil:
		return UnmarshalMap(av.M)
	case av.L != nil:
		l := make([]any, 0, len(av.L))
		for i, el := range av.L {
			v, err := Unmarshal(el)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			l = append(l, v)
		}
		return l, nil
	default:
		return nil, fmt.Errorf("attribute value has no variant set")
	}
}

// UnmarshalMap converts wire attributes back into a plain record.
func UnmarshalMap(attrs map[string]Value) (map[string]any, error) {
	record := make(map[string]any, len(attrs))
	for k, av := range attrs {
		v, err := Unmarshal(av)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		record[k] = v
	}
	return record, nil
}

// Str returns the S variant or an empty string. Convenience for key columns.
// Not named String: that would make Value a Stringer and turn %v of any
// non-string variant into an empty string.
func (av Value) Str() string {
	if av.S != nil {
		return *av.S
	}
	return ""
}

// Int returns the N variant parsed as int64, or zero when absent or malformed.
func (av Value) Int() int64 {
	if av.N == nil {
		return 0
	}
	i, err := strconv.ParseInt(*av.N, 10, 64)
	if err != nil {
		return 0
	}
	return i
}
