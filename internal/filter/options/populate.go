// Package options fills registry fields whose choices come from externally
// loaded lookups (groups, vehicles, contacts, vendors, inspection forms).
package options

import (
	"sync"

	"github.com/matthewbaird/fleetfilter/internal/filter/schema"
)

// Resolver produces the option list of one field from lookups that have
// already been loaded.
type Resolver func() []schema.Option

// Populate returns a new field slice in which every field with a resolver
// carries freshly resolved options. Fields without a resolver are passed
// through as the same descriptor, so callers can compare by identity to
// skip re-rendering. Options are replaced wholesale, never merged.
func Populate(fields []*schema.Field, resolvers map[string]Resolver) []*schema.Field {
	out := make([]*schema.Field, len(fields))
	for i, f := range fields {
		r, ok := resolvers[f.ID]
		if !ok || r == nil {
			out[i] = f
			continue
		}
		out[i] = f.WithOptions(cloneOptions(r()))
	}
	return out
}

func cloneOptions(opts []schema.Option) []schema.Option {
	if opts == nil {
		return []schema.Option{}
	}
	out := make([]schema.Option, len(opts))
	copy(out, opts)
	return out
}

// Progressive holds a page's field set while lookups resolve one by one.
// Each Resolve replaces a single field's options at whatever moment its
// lookup completes; pending fields never block or reset the others.
type Progressive struct {
	mu      sync.RWMutex
	fields  []*schema.Field
	version uint64
}

// NewProgressive starts from the registry's static fields.
func NewProgressive(fields []*schema.Field) *Progressive {
	cp := make([]*schema.Field, len(fields))
	copy(cp, fields)
	return &Progressive{fields: cp}
}

// Resolve replaces the options of fieldID. Unknown ids are ignored and
// leave the version unchanged.
func (p *Progressive) Resolve(fieldID string, opts []schema.Option) {
	p.Apply(map[string]Resolver{fieldID: func() []schema.Option { return opts }})
}

// Apply runs Populate against the current field set.
func (p *Progressive) Apply(resolvers map[string]Resolver) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := Populate(p.fields, resolvers)
	changed := false
	for i := range next {
		if next[i] != p.fields[i] {
			changed = true
			break
		}
	}
	if !changed {
		return
	}
	p.fields = next
	p.version++
}

// Fields returns the current snapshot and its version.
func (p *Progressive) Fields() ([]*schema.Field, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*schema.Field, len(p.fields))
	copy(out, p.fields)
	return out, p.version
}

// Field returns the current descriptor for id, or nil.
func (p *Progressive) Field(id string) *schema.Field {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, f := range p.fields {
		if f.ID == id {
			return f
		}
	}
	return nil
}
