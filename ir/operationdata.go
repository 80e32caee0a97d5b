package ir

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// OperationData is an insertion-ordered map from parameter name to resolved
// value. Values are JSON-compatible: float64, string, bool, nil, []any,
// nested *OperationData, or a runtime accessor expression string.
type OperationData struct {
	keys   []string
	values map[string]any
}

// NewOperationData returns an empty ordered parameter map.
func NewOperationData() *OperationData {
	return &OperationData{values: make(map[string]any)}
}

// Set binds key to value, appending the key on first use. Re-binding an
// existing key keeps its original position.
func (d *OperationData) Set(key string, value any) *OperationData {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
	return d
}

// Get returns the value bound to key.
func (d *OperationData) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.values[key]
	return v, ok
}

// Keys returns the parameter names in insertion order.
func (d *OperationData) Keys() []string {
	if d == nil {
		return nil
	}
	return d.keys
}

// Len returns the number of bound parameters.
func (d *OperationData) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Clone deep-copies the parameter map.
func (d *OperationData) Clone() *OperationData {
	if d == nil {
		return nil
	}
	out := NewOperationData()
	for _, k := range d.keys {
		out.Set(k, cloneValue(d.values[k]))
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case *OperationData:
		return x.Clone()
	case []any:
		c := make([]any, len(x))
		for i, e := range x {
			c[i] = cloneValue(e)
		}
		return c
	default:
		return v
	}
}

// MarshalJSON encodes the map as a JSON object preserving insertion order.
func (d *OperationData) MarshalJSON() ([]byte, error) {
	if d == nil || len(d.keys) == 0 {
		return []byte("{}"), nil
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		vb, err := json.Marshal(d.values[k])
		if err != nil {
			return nil, err
		}
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
