package translate

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/matthewbaird/fleetfilter/internal/filter/criteria"
	"github.com/matthewbaird/fleetfilter/internal/filter/schema"
)

// Translator holds the domain definitions a service serves and reports
// criteria that fell outside a domain's mapping table.
type Translator struct {
	domains   map[string]*Domain
	log       zerolog.Logger
	onUnknown func(domain, field string)
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger logs unmapped fields at warn level.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Translator) { t.log = l }
}

// WithUnknownHook is called once per unmapped criterion.
func WithUnknownHook(fn func(domain, field string)) Option {
	return func(t *Translator) { t.onUnknown = fn }
}

// WithStrict makes every domain drop unmapped fields.
func WithStrict(strict bool) Option {
	return func(t *Translator) {
		for _, d := range t.domains {
			d.Strict = strict
		}
	}
}

// New returns a translator over the builtin domains.
func New(opts ...Option) *Translator {
	t := &Translator{domains: Builtin(), log: zerolog.Nop()}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Domain returns the definition for name.
func (t *Translator) Domain(name string) (*Domain, error) {
	d, ok := t.domains[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", schema.ErrUnknownDomain, name)
	}
	return d, nil
}

// Translate runs the domain's translation and reports unmapped fields.
func (t *Translator) Translate(domain string, list []criteria.Criterion, base Filters) (Filters, error) {
	d, err := t.Domain(domain)
	if err != nil {
		return nil, err
	}
	out, unknown := d.Translate(list, base)
	for _, field := range unknown {
		t.log.Warn().
			Str("domain", domain).
			Str("field", field).
			Bool("dropped", d.Strict).
			Msg("criterion field has no mapping")
		if t.onUnknown != nil {
			t.onUnknown(domain, field)
		}
	}
	return out, nil
}
