package sidebar

import (
	"strings"

	"github.com/matthewbaird/fleetfilter/internal/filter/criteria"
	"github.com/matthewbaird/fleetfilter/internal/filter/schema"
)

// Group is one category section of the field picker.
type Group struct {
	Category string          `json:"category"`
	Fields   []*schema.Field `json:"fields"`
}

// TogglePicker opens or closes the field picker.
func (s *Store) TogglePicker() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Open {
		return ErrClosed
	}
	s.pickerOpen = !s.pickerOpen
	return nil
}

// SetSearch sets the picker's search text.
func (s *Store) SetSearch(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Open {
		return ErrClosed
	}
	s.search = text
	return nil
}

// ClickOutside closes the picker only; the sidebar stays open.
func (s *Store) ClickOutside() {
	s.mu.Lock()
	s.pickerOpen = false
	s.mu.Unlock()
}

// PickerOpen reports whether the picker is showing.
func (s *Store) PickerOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pickerOpen
}

// Search returns the picker's search text.
func (s *Store) Search() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search
}

// Select adds a criterion for the picked field.
func (s *Store) Select(fieldID string) (criteria.Criterion, error) {
	return s.Add(fieldID)
}

// Results returns the fields matching the current search text.
func (s *Store) Results() []Group {
	s.mu.Lock()
	q := s.search
	s.mu.Unlock()
	return Match(s.fields(), q)
}

// Popular returns the popular-field shortcuts that the sidebar offers, in
// the configured order.
func (s *Store) Popular() []*schema.Field {
	fields := s.fields()
	var out []*schema.Field
	for _, id := range s.popular {
		for _, f := range fields {
			if f.ID == id {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// Match filters fields by a case-insensitive substring of label or category
// and groups the survivors by category. Whitespace in q is significant. Groups appear in the order their
// category first occurs in fields; fields keep registry order.
func Match(fields []*schema.Field, q string) []Group {
	q = strings.ToLower(q)
	groups := []Group{}
	index := make(map[string]int)
	for _, f := range fields {
		if q != "" &&
			!strings.Contains(strings.ToLower(f.Label), q) &&
			!strings.Contains(strings.ToLower(f.Category), q) {
			continue
		}
		i, ok := index[f.Category]
		if !ok {
			i = len(groups)
			index[f.Category] = i
			groups = append(groups, Group{Category: f.Category})
		}
		groups[i].Fields = append(groups[i].Fields, f)
	}
	return groups
}

// Snapshot is a point-in-time view of the sidebar for rendering.
type Snapshot struct {
	State      State                `json:"state"`
	Criteria   []criteria.Criterion `json:"criteria"`
	PickerOpen bool                 `json:"pickerOpen"`
	Search     string               `json:"search"`
	Results    []Group              `json:"results"`
	Popular    []*schema.Field      `json:"popular"`
}

// Snapshot captures the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		State:      s.state,
		Criteria:   criteria.CloneList(s.list),
		PickerOpen: s.pickerOpen,
		Search:     s.search,
	}
	s.mu.Unlock()
	snap.Results = Match(s.fields(), snap.Search)
	snap.Popular = s.Popular()
	return snap
}
