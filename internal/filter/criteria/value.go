// Package criteria defines the user-built filter criterion and its value.
package criteria

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which shape a Value holds.
type Kind int

const (
	KindEmpty Kind = iota
	KindScalar
	KindList
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindRange:
		return "range"
	default:
		return "unknown"
	}
}

// Range is the {from, to} value of a between criterion.
type Range struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Value is a criterion value: a string, a list of strings or a range.
// The zero Value is empty (the blank operators carry no value).
//
// Nothing ties the shape to the operator; the editor keeps them consistent
// and consumers accept whatever shape arrives.
type Value struct {
	kind   Kind
	scalar string
	list   []string
	rng    Range
}

// Scalar returns a single-string value.
func Scalar(s string) Value { return Value{kind: KindScalar, scalar: s} }

// List returns a list value. List() is the empty list, not the empty value.
func List(items ...string) Value {
	l := make([]string, len(items))
	copy(l, items)
	return Value{kind: KindList, list: l}
}

// Between returns a range value.
func Between(from, to string) Value {
	return Value{kind: KindRange, rng: Range{From: from, To: to}}
}

// Kind returns the shape of v.
func (v Value) Kind() Kind { return v.kind }

// String returns the scalar, or "" for other shapes.
func (v Value) String() string { return v.scalar }

// Strings returns a copy of the list, or nil for other shapes.
func (v Value) Strings() []string {
	if v.kind != KindList {
		return nil
	}
	out := make([]string, len(v.list))
	copy(out, v.list)
	return out
}

// Range returns the range and whether v holds one.
func (v Value) Range() (Range, bool) {
	return v.rng, v.kind == KindRange
}

// First returns the scalar, the first list element, or "".
func (v Value) First() string {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindList:
		if len(v.list) > 0 {
			return v.list[0]
		}
	case KindRange:
		return v.rng.From
	}
	return ""
}

// IsZero reports whether v carries nothing a filter could use.
func (v Value) IsZero() bool {
	switch v.kind {
	case KindScalar:
		return v.scalar == ""
	case KindList:
		return len(v.list) == 0
	case KindRange:
		return v.rng.From == "" && v.rng.To == ""
	default:
		return true
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	if v.kind == KindList {
		return List(v.list...)
	}
	return v
}

// Equal reports whether two values have the same shape and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return v.scalar == o.scalar
	case KindRange:
		return v.rng == o.rng
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
	}
	return true
}

// MarshalJSON encodes v as a string, an array, a {from,to} object or null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindScalar:
		return json.Marshal(v.scalar)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case KindRange:
		return json.Marshal(v.rng)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts any of the shapes a client may send. Numbers and
// booleans are kept as their literal text; list elements and range bounds
// are coerced the same way.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}

	switch data[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("criterion value list: %w", err)
		}
		items := make([]string, 0, len(raw))
		for _, r := range raw {
			s, err := literal(r)
			if err != nil {
				return fmt.Errorf("criterion value list item: %w", err)
			}
			items = append(items, s)
		}
		*v = Value{kind: KindList, list: items}
		return nil

	case '{':
		var raw struct {
			From json.RawMessage `json:"from"`
			To   json.RawMessage `json:"to"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("criterion value range: %w", err)
		}
		from, err := literal(raw.From)
		if err != nil {
			return fmt.Errorf("criterion value range from: %w", err)
		}
		to, err := literal(raw.To)
		if err != nil {
			return fmt.Errorf("criterion value range to: %w", err)
		}
		*v = Between(from, to)
		return nil

	default:
		s, err := literal(data)
		if err != nil {
			return fmt.Errorf("criterion value: %w", err)
		}
		*v = Scalar(s)
		return nil
	}
}

// literal renders a JSON scalar as text.
func literal(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}
