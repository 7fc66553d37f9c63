// Package types provides the data shapes shared across gbapi components.
//
// Value is a closed sum type over JSON (null, bool, number, string, mapping,
// sequence). Mappings keep document insertion order, so every transform built on
// top of them produces reproducible output ordering. Values are immutable once
// constructed: constructors copy their inputs and accessors never expose
// internal slices.
//
// Parsing from JSON text lives in parse.go (gjson) and ID utilities in ids.go
// (uuid); the rest of the package has no third-party dependencies.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"strconv"
)

// Kind discriminates the variants of Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindMapping
	KindSequence
)

var kindNames = [...]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindNumber:   "number",
	KindString:   "string",
	KindMapping:  "mapping",
	KindSequence: "sequence",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Member is one entry of a mapping.
type Member struct {
	Key   string
	Value Value
}

// Entry is shorthand for constructing a Member.
func Entry(key string, v Value) Member {
	return Member{Key: key, Value: v}
}

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind    Kind
	boolean bool
	text    string // number literal or string contents
	members []Member
	index   map[string]int // key -> position in members
	items   []Value
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Number returns a number from its JSON literal. The literal is kept verbatim
// so large integers survive without float rounding.
func Number(literal string) Value { return Value{kind: KindNumber, text: literal} }

// Int returns a number value for n.
func Int(n int64) Value { return Number(strconv.FormatInt(n, 10)) }

// Float returns a number value for f.
func Float(f float64) Value { return Number(strconv.FormatFloat(f, 'g', -1, 64)) }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Mapping returns a mapping of members in the given order. A repeated key keeps
// the position of its first occurrence and the value of its last.
func Mapping(members ...Member) Value {
	v := Value{
		kind:    KindMapping,
		members: make([]Member, 0, len(members)),
		index:   make(map[string]int, len(members)),
	}
	for _, m := range members {
		if pos, ok := v.index[m.Key]; ok {
			v.members[pos].Value = m.Value
			continue
		}
		v.index[m.Key] = len(v.members)
		v.members = append(v.members, m)
	}
	return v
}

// Sequence returns a sequence of the given items.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: append([]Value(nil), items...)}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsScalar reports whether v is neither a mapping nor a sequence.
func (v Value) IsScalar() bool {
	return v.kind != KindMapping && v.kind != KindSequence
}

// Len returns the number of members of a mapping or items of a sequence, and
// zero for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindMapping:
		return len(v.members)
	case KindSequence:
		return len(v.items)
	default:
		return 0
	}
}

// Entries iterates a mapping's members in insertion order. Yields nothing for
// other kinds.
func (v Value) Entries() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if v.kind != KindMapping {
			return
		}
		for _, m := range v.members {
			if !yield(m.Key, m.Value) {
				return
			}
		}
	}
}

// Items iterates a sequence's elements in order. Yields nothing for other kinds.
func (v Value) Items() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		if v.kind != KindSequence {
			return
		}
		for _, item := range v.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Lookup returns the member value for key when v is a mapping.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	pos, ok := v.index[key]
	if !ok {
		return Value{}, false
	}
	return v.members[pos].Value, true
}

// Index returns the i-th item of a sequence.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindSequence || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Bool returns the boolean held by v; false for other kinds.
func (v Value) Bool() bool { return v.kind == KindBool && v.boolean }

// Text renders a scalar for human-facing output: strings verbatim, numbers by
// literal, booleans as true/false and null as the empty string. Structured
// values render as their JSON literal.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindNumber, KindString:
		return v.text
	default:
		return v.Literal()
	}
}

// Literal returns the JSON encoding of v.
func (v Value) Literal() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

// Float64 parses a number value.
func (v Value) Float64() (float64, error) {
	if v.kind != KindNumber {
		return 0, fmt.Errorf("%w: %s is not a number", ErrInvalidInputKind, v.kind)
	}
	return strconv.ParseFloat(v.text, 64)
}

// Interface converts v into plain Go values: map[string]any, []any, string,
// float64, bool or nil. Mapping order is lost.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.boolean
	case KindNumber:
		f, err := strconv.ParseFloat(v.text, 64)
		if err != nil {
			return v.text
		}
		return f
	case KindString:
		return v.text
	case KindMapping:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler, keeping mapping order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.boolean))
	case KindNumber:
		buf.WriteString(v.text)
	case KindString:
		b, err := json.Marshal(v.text)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindMapping:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("unknown value kind %d", int(v.kind))
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler via Parse, so mapping order is
// preserved.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Equal reports deep equality. Mapping member order is significant.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolean == o.boolean
	case KindNumber, KindString:
		return v.text == o.text
	case KindMapping:
		if len(v.members) != len(o.members) {
			return false
		}
		for i := range v.members {
			if v.members[i].Key != o.members[i].Key || !v.members[i].Value.Equal(o.members[i].Value) {
				return false
			}
		}
		return true
	case KindSequence:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String implements fmt.Stringer with the JSON literal.
func (v Value) String() string { return v.Literal() }
