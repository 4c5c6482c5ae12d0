// Package translate turns a generic criteria list into a domain's flat
// query-filter object.
package translate

import (
	"encoding/json"
	"sort"
	"strconv"
)

// KeyKind is the type a domain parameter carries on the wire.
type KeyKind string

const (
	KeyString KeyKind = "string"
	KeyList   KeyKind = "list"
	KeyBool   KeyKind = "bool"
	KeyNumber KeyKind = "number"
)

// Param is one filter parameter: unset, a string, or a list of strings.
// The zero Param is unset.
type Param struct {
	set   bool
	list  bool
	value string
	items []string
}

// Unset is an explicitly cleared parameter.
func Unset() Param { return Param{} }

// String returns a scalar parameter.
func String(s string) Param { return Param{set: true, value: s} }

// Int returns a numeric parameter.
func Int(n int) Param { return String(strconv.Itoa(n)) }

// Bool returns a boolean parameter.
func Bool(b bool) Param { return String(strconv.FormatBool(b)) }

// Strings returns a list parameter; it is never nil.
func Strings(items ...string) Param {
	l := make([]string, len(items))
	copy(l, items)
	return Param{set: true, list: true, items: l}
}

// IsSet reports whether p carries a value.
func (p Param) IsSet() bool { return p.set }

// IsList reports whether p is a list.
func (p Param) IsList() bool { return p.list }

// Value returns the scalar, or the first list element.
func (p Param) Value() string {
	if p.list {
		if len(p.items) > 0 {
			return p.items[0]
		}
		return ""
	}
	return p.value
}

// Values returns the list, or the scalar as a one-element list.
func (p Param) Values() []string {
	switch {
	case !p.set:
		return nil
	case p.list:
		return append([]string(nil), p.items...)
	default:
		return []string{p.value}
	}
}

// Falsy reports whether p would be omitted from a URL: unset, empty
// string, empty list, and false or 0 for bool and number keys.
func (p Param) Falsy(kind KeyKind) bool {
	if !p.set {
		return true
	}
	if p.list {
		return len(p.items) == 0
	}
	switch p.value {
	case "":
		return true
	case "false":
		return kind == KeyBool
	}
	if kind == KeyNumber {
		if f, err := strconv.ParseFloat(p.value, 64); err == nil && f == 0 {
			return true
		}
	}
	return false
}

// Equal compares two params by shape and content.
func (p Param) Equal(o Param) bool {
	if p.set != o.set || p.list != o.list || p.value != o.value || len(p.items) != len(o.items) {
		return false
	}
	for i := range p.items {
		if p.items[i] != o.items[i] {
			return false
		}
	}
	return true
}

// MarshalJSON writes null, a string or an array.
func (p Param) MarshalJSON() ([]byte, error) {
	switch {
	case !p.set:
		return []byte("null"), nil
	case p.list:
		return json.Marshal(p.Values())
	default:
		return json.Marshal(p.value)
	}
}

// UnmarshalJSON accepts null, a string, a number, a bool or an array.
func (p *Param) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*p = Unset()
	case string:
		*p = String(v)
	case bool:
		*p = Bool(v)
	case float64:
		*p = String(strconv.FormatFloat(v, 'f', -1, 64))
	case []any:
		items := make([]string, 0, len(v))
		for _, it := range v {
			switch s := it.(type) {
			case string:
				items = append(items, s)
			case nil:
			default:
				b, _ := json.Marshal(s)
				items = append(items, string(b))
			}
		}
		*p = Strings(items...)
	default:
		b, _ := json.Marshal(v)
		*p = String(string(b))
	}
	return nil
}

// Filters is a domain query-filter object. A key present with an unset
// Param was explicitly cleared; an absent key was never mentioned.
type Filters map[string]Param

// Pagination keys are always present on translated filters.
const (
	KeyPage  = "page"
	KeyLimit = "limit"

	DefaultLimit = 20
)

// Get returns the param for key, unset when absent.
func (f Filters) Get(key string) Param { return f[key] }

// Clone copies f.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		if v.list {
			v = Strings(v.items...)
		}
		out[k] = v
	}
	return out
}

// Keys returns the keys in sorted order.
func (f Filters) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map renders the set params as plain values: strings and []string.
// Unset params are omitted.
func (f Filters) Map() map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		if !v.set {
			continue
		}
		if v.list {
			out[k] = v.Values()
		} else {
			out[k] = v.value
		}
	}
	return out
}

// Equal reports whether both objects hold the same keys with equal params.
func (f Filters) Equal(o Filters) bool {
	if len(f) != len(o) {
		return false
	}
	for k, v := range f {
		w, ok := o[k]
		if !ok || !v.Equal(w) {
			return false
		}
	}
	return true
}
