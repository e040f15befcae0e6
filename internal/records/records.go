// Package records defines the row representation shared by the parser,
// transformers, and writers.
//
// A Record is an ordered list of (field, value) pairs rather than a map so
// that column order from the source header survives all the way into the JSON
// output. Go map iteration order is randomized; for a conversion tool whose
// output is diffed between runs, that randomness is not acceptable.
//
// All values are strings. Numeric cleanup (price, mileage, ...) rewrites the
// string in place; nothing in this package interprets values.
package records

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is a single (key, value) pair within a Record.
type Field struct {
	Key   string
	Value string
}

// Record is one row of source data, in source-column order.
//
// Duplicate keys are allowed: if two raw headers normalize to the same field
// name, both columns are retained. Get returns the first occurrence.
type Record []Field

// Dataset is the ordered collection of Records for one run.
type Dataset []Record

// Get returns the value for the first field named key and whether it exists.
func (r Record) Get(key string) (string, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Has reports whether the record contains a field named key.
func (r Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Set replaces the value of the first field named key, or appends a new field
// when the key is absent. It returns the (possibly grown) record.
func (r Record) Set(key, value string) Record {
	for i, f := range r {
		if f.Key == key {
			r[i].Value = value
			return r
		}
	}
	return append(r, Field{Key: key, Value: value})
}

// Keys returns the field names in record order, duplicates included.
func (r Record) Keys() []string {
	out := make([]string, len(r))
	for i, f := range r {
		out[i] = f.Key
	}
	return out
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	copy(out, r)
	return out
}

// MarshalJSON encodes the record as a JSON object with fields in record
// order. Duplicate keys, when present, are emitted as-is; JSON permits them
// and last-wins decoding matches the original converter's behavior.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the record, preserving the key
// order of the document. Non-string values (numbers, booleans, null) are
// stored using their literal JSON text so older snapshots written with
// numeric fields still load.
func (r *Record) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("records: expected object, got %v", tok)
	}

	out := (*r)[:0]
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("records: expected string key, got %v", kt)
		}
		vt, err := dec.Token()
		if err != nil {
			return err
		}
		var val string
		switch v := vt.(type) {
		case string:
			val = v
		case json.Number:
			val = v.String()
		case bool:
			if v {
				val = "true"
			} else {
				val = "false"
			}
		case nil:
			val = ""
		default:
			return fmt.Errorf("records: unsupported value for %q", key)
		}
		out = append(out, Field{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil { // consume closing '}'
		return err
	}
	*r = out
	return nil
}

// FieldNames returns the union of field names across the dataset in
// first-seen order (record order within each record, records in source order).
func (d Dataset) FieldNames() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range d {
		for _, f := range r {
			if _, ok := seen[f.Key]; ok {
				continue
			}
			seen[f.Key] = struct{}{}
			out = append(out, f.Key)
		}
	}
	return out
}
