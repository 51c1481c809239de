package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Field is a single name/value pair used to build a Document in order.
type Field struct {
	Name  string
	Value any
}

// F is shorthand for Field.
func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// Document is an ordered mapping from field names to dynamically typed values.
// It is the payload exchanged with entity stores for writes, filters and reads.
// Iteration order is insertion order; decoding from JSON keeps source order.
type Document struct {
	keys   []string
	values map[string]any
}

// NewDocument creates a Document from fields, in the order given.
// A repeated name keeps its first position and its last value.
func NewDocument(fields ...Field) *Document {
	d := &Document{values: make(map[string]any, len(fields))}
	for _, f := range fields {
		d.Set(f.Name, f.Value)
	}
	return d
}

// ParseDocument decodes a JSON object into a Document.
// Any other JSON shape is reported as an InvalidInputError.
func ParseDocument(data []byte) (*Document, error) {
	d := &Document{}
	if err := d.UnmarshalJSON(data); err != nil {
		return nil, &InvalidInputError{Reason: err.Error()}
	}
	return d, nil
}

// Set stores value under name. New names are appended to the iteration order.
func (d *Document) Set(name string, value any) {
	if d.values == nil {
		d.values = make(map[string]any)
	}
	if _, ok := d.values[name]; !ok {
		d.keys = append(d.keys, name)
	}
	d.values[name] = value
}

// Get returns the value stored under name.
func (d *Document) Get(name string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.values[name]
	return v, ok
}

// Has reports whether name is present.
func (d *Document) Has(name string) bool {
	_, ok := d.Get(name)
	return ok
}

// Delete removes name from the document.
func (d *Document) Delete(name string) {
	if d == nil {
		return
	}
	if _, ok := d.values[name]; !ok {
		return
	}
	delete(d.values, name)
	for i, k := range d.keys {
		if k == name {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of fields.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the field names in iteration order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Fields returns the name/value pairs in iteration order.
func (d *Document) Fields() []Field {
	if d == nil {
		return nil
	}
	out := make([]Field, 0, len(d.keys))
	for _, k := range d.keys {
		out = append(out, Field{Name: k, Value: d.values[k]})
	}
	return out
}

// Map returns a shallow copy of the document as a plain map.
func (d *Document) Map() map[string]any {
	out := make(map[string]any, d.Len())
	if d == nil {
		return out
	}
	for k, v := range d.values {
		out[k] = v
	}
	return out
}

// Clone returns a shallow copy that can be modified independently.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return NewDocument(d.Fields()...)
}

// CheckFlat returns an InvalidInputError naming the first field whose value
// is a nested object or array. Byte slices and byte arrays, such as UUIDs,
// are scalar.
func (d *Document) CheckFlat() error {
	for _, f := range d.Fields() {
		if isNested(f.Value) {
			return &InvalidInputError{Field: f.Name, Reason: "nested values are not allowed"}
		}
	}
	return nil
}

func isNested(v any) bool {
	switch v.(type) {
	case nil, []byte:
		return false
	case *Document, Document:
		return true
	}
	t := reflect.TypeOf(v)
	switch t.Kind() {
	case reflect.Map:
		return true
	case reflect.Slice, reflect.Array:
		return t.Elem().Kind() != reflect.Uint8
	}
	return false
}

// MarshalJSON encodes the document as a JSON object in iteration order.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(d.values[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the source key order.
// Numbers are kept as json.Number so that no precision is lost.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("document must be a JSON object")
	}

	d.keys = nil
	d.values = make(map[string]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("document: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("document: unexpected token %v", tok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("document field %q: %w", key, err)
		}
		d.Set(key, value)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("document: trailing data after object")
	}
	return nil
}
