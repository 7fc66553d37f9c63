package types

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Parse decodes JSON text into a Value. gjson walks objects in document
// order, which is what keeps mapping insertion order intact. Returns
// ErrInvalidJSON for malformed or empty input.
func Parse(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Value{}, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

// ParseString is Parse for string input.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

// MustParse is Parse for literals in tests and fixtures; panics on error.
func MustParse(s string) Value {
	v, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Number(strings.TrimSpace(r.Raw))
	case gjson.String:
		return String(r.Str)
	case gjson.JSON:
		if r.IsObject() {
			var members []Member
			r.ForEach(func(key, val gjson.Result) bool {
				members = append(members, Member{Key: key.Str, Value: fromResult(val)})
				return true
			})
			return Mapping(members...)
		}
		var items []Value
		r.ForEach(func(_, val gjson.Result) bool {
			items = append(items, fromResult(val))
			return true
		})
		return Sequence(items...)
	default:
		return Null()
	}
}
