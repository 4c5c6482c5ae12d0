// Package schema provides the filterable-field registries for each domain page.
//
// Registries are declared in fields.cue, loaded once at start-up into a
// Catalog, and consumed by the sidebar (field picker), the option populator
// and the translators.
package schema

// FieldType classifies how the sidebar edits a field and which operator it
// defaults to.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldEnum        FieldType = "enum"
	FieldDate        FieldType = "date"
	FieldNumber      FieldType = "number"
	FieldBoolean     FieldType = "boolean"
	FieldMultiselect FieldType = "multiselect"
)

// Valid reports whether ft is one of the known field types.
func (ft FieldType) Valid() bool {
	switch ft {
	case FieldText, FieldEnum, FieldDate, FieldNumber, FieldBoolean, FieldMultiselect:
		return true
	default:
		return false
	}
}

// ListValued returns true if a fresh criterion on this type starts with an
// empty list rather than an empty string.
func (ft FieldType) ListValued() bool {
	return ft == FieldEnum || ft == FieldMultiselect
}

// Option is one selectable value of an enum or multiselect field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes a single filterable attribute of a domain entity.
// Fields are treated as immutable; Options is replaced wholesale by
// options.Populate, never edited in place.
type Field struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Category string    `json:"category"` // free-form, used only for grouping
	Options  []Option  `json:"options,omitempty"`
	Unit     string    `json:"unit,omitempty"`
}

// WithOptions returns a copy of f carrying opts.
func (f *Field) WithOptions(opts []Option) *Field {
	cp := *f
	cp.Options = opts
	return &cp
}

// Registry is the ordered list of filterable fields of one domain page.
// It is built once and safe for concurrent read access.
type Registry struct {
	domain  string
	title   string
	fields  []*Field
	byID    map[string]*Field
	popular []string
}

// NewRegistry creates a registry for a domain from fields in display order.
func NewRegistry(domain, title string, fields []*Field) *Registry {
	r := &Registry{
		domain: domain,
		title:  title,
		fields: fields,
		byID:   make(map[string]*Field, len(fields)),
	}
	for _, f := range fields {
		r.byID[f.ID] = f
	}
	return r
}

// Domain returns the domain name, e.g. "issues".
func (r *Registry) Domain() string { return r.domain }

// Title returns the human-readable page title.
func (r *Registry) Title() string { return r.title }

// Field returns the descriptor for id, or nil if the domain has no such field.
func (r *Registry) Field(id string) *Field {
	return r.byID[id]
}

// Fields returns the descriptors in registry order. The slice is a copy; the
// descriptors are shared.
func (r *Registry) Fields() []*Field {
	out := make([]*Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of registered fields.
func (r *Registry) Len() int { return len(r.fields) }

// SetPopular records the field ids offered as one-click shortcuts when the
// sidebar is empty.
func (r *Registry) SetPopular(ids []string) {
	r.popular = append([]string(nil), ids...)
}

// PopularIDs returns the configured popular field ids.
func (r *Registry) PopularIDs() []string {
	return append([]string(nil), r.popular...)
}

// Popular returns the popular-filter shortcuts that exist in the registry.
func (r *Registry) Popular() []*Field {
	var out []*Field
	for _, id := range r.popular {
		if f := r.byID[id]; f != nil {
			out = append(out, f)
		}
	}
	return out
}
