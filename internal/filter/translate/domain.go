package translate

import (
	"github.com/matthewbaird/fleetfilter/internal/filter/criteria"
	"github.com/matthewbaird/fleetfilter/internal/filter/schema"
)

// Adapter selects how a criterion value is written to its target keys.
type Adapter int

const (
	// AdaptValue writes the value to Target, narrowing lists to their first
	// element when Target is not a list key.
	AdaptValue Adapter = iota
	// AdaptDateRange writes between ranges to From/To and collapses any
	// other operator to a single-day range.
	AdaptDateRange
	// AdaptBounds maps numeric comparisons onto From (lower) and To (upper).
	AdaptBounds
)

// Mapping routes one field id to the domain's parameters.
type Mapping struct {
	Target  string
	Adapter Adapter
	From    string
	To      string
}

// Remap is the common field rename.
func Remap(target string) Mapping { return Mapping{Target: target} }

// DateRange maps a date field to startDate/endDate.
func DateRange() Mapping { return Dates("startDate", "endDate") }

// Dates maps a date field to a custom pair of range keys.
func Dates(from, to string) Mapping {
	return Mapping{Adapter: AdaptDateRange, From: from, To: to}
}

// Bounds maps a number field to a lower and an upper bound key.
func Bounds(from, to string) Mapping {
	return Mapping{Adapter: AdaptBounds, From: from, To: to}
}

// Domain is one list page's filter contract.
type Domain struct {
	Name string
	// Keys declares every parameter the domain API understands.
	Keys map[string]KeyKind
	// Sticky keys are owned by page controls outside the sidebar and are
	// carried forward from the base filters.
	Sticky []string
	// Sidebar keys are reset to unset on every translation.
	Sidebar []string
	// Mappings routes field ids to parameters.
	Mappings map[string]Mapping
	// URL is the allow-list written to the query string.
	URL []string
	// Strict drops criteria whose field has no mapping instead of passing
	// them through under their own id.
	Strict bool
	// Limit is the page size used when the base filters carry none.
	Limit int
}

// Kind returns the declared kind of key, or KeyString.
func (d *Domain) Kind(key string) KeyKind {
	if k, ok := d.Keys[key]; ok {
		return k
	}
	return KeyString
}

// Base returns the filters a page starts from: pagination only, plus any
// sticky defaults passed in.
func (d *Domain) Base(sticky Filters) Filters {
	out := Filters{
		KeyPage:  Int(1),
		KeyLimit: Int(d.limit()),
	}
	for _, k := range d.Sticky {
		if p, ok := sticky[k]; ok {
			out[k] = p
		}
	}
	return out
}

func (d *Domain) limit() int {
	if d.Limit > 0 {
		return d.Limit
	}
	return DefaultLimit
}

// Translate builds the domain filter object from criteria on top of base.
// Sticky keys are copied from base, every sidebar key starts unset, and the
// page is reset to 1. Criteria with an empty value contribute nothing. The
// second result lists the field ids that had no mapping.
func (d *Domain) Translate(list []criteria.Criterion, base Filters) (Filters, []string) {
	out := Filters{
		KeyPage:  Int(1),
		KeyLimit: Int(d.limit()),
	}
	if l, ok := base[KeyLimit]; ok && l.IsSet() && l.Value() != "" {
		out[KeyLimit] = l
	}
	for _, k := range d.Sticky {
		if p, ok := base[k]; ok {
			out[k] = p
		}
	}
	for _, k := range d.Sidebar {
		out[k] = Unset()
	}

	var unknown []string
	for _, c := range list {
		m, ok := d.Mappings[c.Field]
		if !ok {
			unknown = append(unknown, c.Field)
			if d.Strict {
				continue
			}
			m = Remap(c.Field)
		}
		if c.Value.IsZero() {
			continue
		}
		d.apply(out, m, c)
	}
	return out, unknown
}

func (d *Domain) apply(out Filters, m Mapping, c criteria.Criterion) {
	switch m.Adapter {
	case AdaptDateRange:
		if r, ok := c.Value.Range(); ok && c.Operator == schema.OpBetween {
			setIf(out, m.From, r.From)
			setIf(out, m.To, r.To)
			return
		}
		day := c.Value.First()
		out[m.From] = String(day)
		out[m.To] = String(day)

	case AdaptBounds:
		if r, ok := c.Value.Range(); ok {
			setIf(out, m.From, r.From)
			setIf(out, m.To, r.To)
			return
		}
		v := c.Value.First()
		switch c.Operator {
		case schema.OpGT, schema.OpGTE:
			out[m.From] = String(v)
		case schema.OpLT, schema.OpLTE:
			out[m.To] = String(v)
		default:
			out[m.From] = String(v)
			out[m.To] = String(v)
		}

	default:
		out[m.Target] = d.value(m.Target, c.Value)
	}
}

// value converts a criterion value for key. Lists going to a scalar key
// are narrowed to their first element on purpose: the domain APIs accept a
// single value there even when the sidebar offers a multiselect.
func (d *Domain) value(key string, v criteria.Value) Param {
	if d.Kind(key) == KeyList {
		switch v.Kind() {
		case criteria.KindList:
			return Strings(v.Strings()...)
		case criteria.KindRange:
			r, _ := v.Range()
			return Strings(r.From, r.To)
		default:
			return Strings(v.String())
		}
	}
	if _, declared := d.Keys[key]; !declared {
		switch v.Kind() {
		case criteria.KindList:
			return Strings(v.Strings()...)
		case criteria.KindRange:
			r, _ := v.Range()
			return Strings(r.From, r.To)
		}
	}
	return String(v.First())
}

func setIf(out Filters, key, v string) {
	if v != "" {
		out[key] = String(v)
	}
}
