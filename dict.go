package marzipan

import (
	"bytes"

	j "github.com/goccy/go-json"
)

// Dict is an insertion-ordered string-keyed mapping. Dump results preserve
// declared field order through it; MarshalJSON emits keys in that order.
type Dict struct {
	keys   []string
	values map[string]any
}

// NewDict returns an empty ordered mapping.
func NewDict() *Dict {
	return &Dict{values: map[string]any{}}
}

// Set stores a value. Overwriting an existing key keeps its original slot.
func (d *Dict) Set(key string, v any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Get returns the value stored under key.
func (d *Dict) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Value returns the value stored under key, or nil.
func (d *Dict) Value(key string) any { return d.values[key] }

// Has reports whether key is present.
func (d *Dict) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Delete removes a key, preserving the order of the remaining keys.
func (d *Dict) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string { return append([]string(nil), d.keys...) }

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.keys) }

// Map returns a plain (unordered) shallow copy.
func (d *Dict) Map() map[string]any {
	out := make(map[string]any, len(d.values))
	for k, v := range d.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes entries in insertion order. Values are encoded with
// goccy/go-json, so nested Dict values keep their order as well.
func (d *Dict) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := j.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := j.Marshal(d.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
