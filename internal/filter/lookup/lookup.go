// Package lookup fetches the entity lists that feed dynamic field options:
// groups, vehicles, contacts, vendors and inspection forms.
package lookup

import (
	"context"
	"errors"
	"strings"

	"github.com/matthewbaird/fleetfilter/internal/filter/options"
	"github.com/matthewbaird/fleetfilter/internal/filter/schema"
)

// Kind names one lookup list.
type Kind string

const (
	Groups   Kind = "groups"
	Vehicles Kind = "vehicles"
	Contacts Kind = "contacts"
	Vendors  Kind = "vendors"
	Forms    Kind = "forms"
)

// Kinds lists every lookup kind.
var Kinds = []Kind{Groups, Vehicles, Contacts, Vendors, Forms}

// ErrUnknownKind is returned by sources asked for a kind they do not serve.
var ErrUnknownKind = errors.New("unknown lookup kind")

// Entity is the slice of an upstream record the option lists need.
type Entity struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
}

// Label is the option label: the name, or "first last" for contacts.
func (e Entity) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Source is an external collaborator that loads one lookup list.
type Source interface {
	Fetch(ctx context.Context, kind Kind) ([]Entity, error)
}

// fieldKinds maps registry field ids to the lookup that fills them. The ids
// are shared by every domain declaring such a field.
var fieldKinds = map[string]Kind{
	"group":      Groups,
	"vehicle":    Vehicles,
	"assignedTo": Contacts,
	"vendor":     Vendors,
	"form":       Forms,
}

// KindFor returns the lookup kind feeding fieldID, if any.
func KindFor(fieldID string) (Kind, bool) {
	k, ok := fieldKinds[fieldID]
	return k, ok
}

// KindsFor returns the distinct lookup kinds needed by fields, in field order.
func KindsFor(fields []*schema.Field) []Kind {
	seen := make(map[Kind]bool)
	var out []Kind
	for _, f := range fields {
		if k, ok := fieldKinds[f.ID]; ok && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// ToOptions converts entities to {value,label} options in input order.
func ToOptions(entities []Entity) []schema.Option {
	out := make([]schema.Option, 0, len(entities))
	for _, e := range entities {
		out = append(out, schema.Option{Value: e.ID, Label: e.Label()})
	}
	return out
}

// Resolvers builds option resolvers for every field in fields fed by kind.
func Resolvers(fields []*schema.Field, kind Kind, entities []Entity) map[string]options.Resolver {
	opts := ToOptions(entities)
	res := make(map[string]options.Resolver)
	for _, f := range fields {
		if k, ok := fieldKinds[f.ID]; ok && k == kind {
			res[f.ID] = func() []schema.Option { return opts }
		}
	}
	return res
}
