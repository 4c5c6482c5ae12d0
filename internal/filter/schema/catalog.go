package schema

import (
	_ "embed"
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed fields.cue
var builtinFields []byte

var (
	// ErrUnknownDomain is returned when a domain has no registry.
	ErrUnknownDomain = errors.New("unknown domain")
	// ErrDuplicateField is returned when a domain declares the same field id twice.
	ErrDuplicateField = errors.New("duplicate field id")
)

// Catalog holds the field registry of every domain page.
type Catalog struct {
	registries map[string]*Registry
	order      []string // declaration order
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{registries: make(map[string]*Registry)}
}

// Register adds a registry, replacing any previous registry of the same domain.
func (c *Catalog) Register(r *Registry) {
	if _, ok := c.registries[r.Domain()]; !ok {
		c.order = append(c.order, r.Domain())
	}
	c.registries[r.Domain()] = r
}

// Registry returns the registry for domain.
func (c *Catalog) Registry(domain string) (*Registry, error) {
	r, ok := c.registries[domain]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, domain)
	}
	return r, nil
}

// Domains returns the registered domain names in declaration order.
func (c *Catalog) Domains() []string {
	return append([]string(nil), c.order...)
}

// domainDecl mirrors #Domain in fields.cue.
type domainDecl struct {
	Title   string   `json:"title"`
	Fields  []*Field `json:"fields"`
	Popular []string `json:"popular"`
}

// LoadBuiltin builds the catalog from the embedded fields.cue.
func LoadBuiltin() (*Catalog, error) {
	return Load(builtinFields, "fields.cue")
}

// Load compiles a CUE document declaring `domains: [name]: #Domain` and
// builds one registry per domain. CUE enforces field types and id syntax;
// duplicate ids are rejected here since list elements cannot express it.
func Load(src []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()
	val := ctx.CompileBytes(src, cue.Filename(filename))
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("compiling %s: %w", filename, err)
	}
	if err := val.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validating %s: %w", filename, err)
	}

	domains := val.LookupPath(cue.ParsePath("domains"))
	if !domains.Exists() {
		return nil, fmt.Errorf("%s: no domains declared", filename)
	}

	iter, err := domains.Fields()
	if err != nil {
		return nil, fmt.Errorf("iterating domains: %w", err)
	}

	cat := NewCatalog()
	for iter.Next() {
		name := iter.Selector().Unquoted()

		var decl domainDecl
		if err := iter.Value().Decode(&decl); err != nil {
			return nil, fmt.Errorf("decoding domain %q: %w", name, err)
		}

		seen := make(map[string]bool, len(decl.Fields))
		for _, f := range decl.Fields {
			if seen[f.ID] {
				return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateField, name, f.ID)
			}
			seen[f.ID] = true
		}

		reg := NewRegistry(name, decl.Title, decl.Fields)
		reg.SetPopular(decl.Popular)
		cat.Register(reg)
	}
	return cat, nil
}

// MustLoadBuiltin is LoadBuiltin for package-level initialisation and tests.
func MustLoadBuiltin() *Catalog {
	cat, err := LoadBuiltin()
	if err != nil {
		panic(err)
	}
	return cat
}
