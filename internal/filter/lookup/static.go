package lookup

import (
	"context"
	"fmt"
)

// StaticSource serves fixed lists, for development and tests.
type StaticSource map[Kind][]Entity

// Fetch returns a copy of the list for kind.
func (s StaticSource) Fetch(ctx context.Context, kind Kind) ([]Entity, error) {
	list, ok := s[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	out := make([]Entity, len(list))
	copy(out, list)
	return out, nil
}

// DemoSource returns a small fleet used when no upstream is configured.
func DemoSource() StaticSource {
	return StaticSource{
		Groups: {
			{ID: "g-north", Name: "North Depot"},
			{ID: "g-south", Name: "South Depot"},
		},
		Vehicles: {
			{ID: "v-ac101", Name: "AC101"},
			{ID: "v-am101", Name: "AM101"},
			{ID: "v-bs102", Name: "BS102"},
		},
		Contacts: {
			{ID: "c-1", FirstName: "Hery", LastName: "Rakoto"},
			{ID: "c-2", FirstName: "Mialy", LastName: "Rasoa"},
		},
		Vendors: {
			{ID: "vd-1", Name: "Garage Central"},
			{ID: "vd-2", Name: "Tana Pneus"},
		},
		Forms: {
			{ID: "f-daily", Name: "Daily Pre-Trip"},
			{ID: "f-annual", Name: "Annual Safety"},
		},
	}
}
