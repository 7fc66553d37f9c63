// internal/types/records.go
package types

/*
 * Record shapes produced by the flattener, detector and sequence extractor.
 *
 * Key types:
 *   - KeyPath: ordered field-name segments, rendered dot-joined
 *   - Record: one flat row, key path -> scalar Value, insertion ordered
 *   - RecordSet: ordered rows; empty means "no extractable data"
 *   - FieldCount: (field name, list length) emitted by the detector
 *   - SaturationReport: outcome of comparing field counts to a query limit
 *   - SequenceRecord: identifier + residue string
 *
 * All of these are created per call and discarded once consumed.
 */

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"strings"
)

// KeyPath is an ordered sequence of field names. Segments are never
// re-ordered or deduplicated.
type KeyPath []string

// Child returns a new path extended by name; p is left untouched.
func (p KeyPath) Child(name string) KeyPath {
	out := make(KeyPath, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// String dot-joins the segments.
func (p KeyPath) String() string {
	return strings.Join(p, ".")
}

// Record is a flat row mapping dotted key paths to scalar values. Keys are
// unique; setting an existing key overwrites its value in place.
type Record struct {
	keys   []string
	values map[string]Value
}

// NewRecord returns an empty record.
func NewRecord() Record {
	return Record{values: map[string]Value{}}
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.keys) }

// Keys returns the key paths in insertion order.
func (r Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Get returns the value stored at key.
func (r Record) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Fields iterates key/value pairs in insertion order.
func (r Record) Fields() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range r.keys {
			if !yield(k, r.values[k]) {
				return
			}
		}
	}
}

// Clone returns an independent copy of r.
func (r Record) Clone() Record {
	out := Record{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]Value, len(r.values)),
	}
	copy(out.keys, r.keys)
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

// Set stores v at key, overwriting an existing value for that key.
func (r *Record) Set(key string, v Value) {
	if r.values == nil {
		r.values = map[string]Value{}
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// With returns a copy of r with key set to v.
func (r Record) With(key string, v Value) Record {
	out := r.Clone()
	out.Set(key, v)
	return out
}

// Equal reports whether both records hold the same keys, in the same order,
// with equal values.
func (r Record) Equal(o Record) bool {
	if len(r.keys) != len(o.keys) {
		return false
	}
	for i, k := range r.keys {
		if o.keys[i] != k || !r.values[k].Equal(o.values[k]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the record as an object in key order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RecordSet is an ordered list of flat records, one per combination of list
// elements traversed.
type RecordSet []Record

// Empty reports the "no extractable data" condition. It is distinct from a
// set holding a single record with zero fields.
func (rs RecordSet) Empty() bool { return len(rs) == 0 }

// FieldCount is one (field name, list length) pair. Field is the name at its
// own nesting level, not the fully qualified path.
type FieldCount struct {
	Field string
	Count int
}

// SaturationReport is the outcome of checking field counts against a limit.
type SaturationReport struct {
	Limit     int
	Fields    []string // distinct field names whose count equals Limit, sorted
	Matches   int      // emitted (field, count) pairs equal to Limit
	Saturated bool     // more than one distinct field at the limit
}

// Message renders the report for humans.
func (r SaturationReport) Message() string {
	if !r.Saturated {
		return "No fields in the returned JSON data exceed the upper limit"
	}
	return fmt.Sprintf("%d fields including %s have the same number of results as the query limit of %d. "+
		"This may result in missing data. You may want to consider increasing the upper limit to a higher value",
		r.Matches, strings.Join(r.Fields, ", "), r.Limit)
}

// SequenceRecord is an identifier and a residue/nucleotide string.
type SequenceRecord struct {
	ID       string
	Sequence string
}
