// Package sidebar implements the filter sidebar state machine: a sandboxed,
// editable copy of the page's criteria plus the field picker used to add
// new ones. Nothing reaches the page until Apply.
package sidebar

import (
	"errors"
	"fmt"
	"sync"

	"github.com/matthewbaird/fleetfilter/internal/filter/criteria"
	"github.com/matthewbaird/fleetfilter/internal/filter/schema"
)

var (
	// ErrClosed is returned by editing operations while the sidebar is closed.
	ErrClosed = errors.New("sidebar is closed")
	// ErrUnknownField is returned when adding a criterion for a field the
	// sidebar does not offer.
	ErrUnknownField = errors.New("unknown filter field")
)

// State is the sidebar's lifecycle state. Applied and cancelled are
// transitions back to Closed rather than resting states.
type State string

const (
	Closed State = "closed"
	Open   State = "open"
)

// FieldsFunc returns the fields currently offered, options included.
type FieldsFunc func() []*schema.Field

// StaticFields serves a fixed field slice.
func StaticFields(fields []*schema.Field) FieldsFunc {
	return func() []*schema.Field { return fields }
}

// ApplyFunc receives a copy of the edited list when the user applies.
type ApplyFunc func([]criteria.Criterion)

// Store is the sidebar. It is safe for concurrent use.
type Store struct {
	mu sync.Mutex

	fields  FieldsFunc
	popular []string
	newID   criteria.IDFunc
	onApply ApplyFunc

	state      State
	list       []criteria.Criterion
	pickerOpen bool
	search     string
}

// Option configures a Store.
type Option func(*Store)

// WithIDFunc overrides criterion id generation.
func WithIDFunc(fn criteria.IDFunc) Option {
	return func(s *Store) { s.newID = fn }
}

// WithPopular sets the popular-field shortcuts by field id.
func WithPopular(ids []string) Option {
	return func(s *Store) { s.popular = append([]string(nil), ids...) }
}

// WithOnApply sets the apply callback.
func WithOnApply(fn ApplyFunc) Option {
	return func(s *Store) { s.onApply = fn }
}

// NewStore returns a closed sidebar offering fields.
func NewStore(fields FieldsFunc, opts ...Option) *Store {
	s := &Store{
		fields: fields,
		newID:  criteria.NewID,
		state:  Closed,
		list:   []criteria.Criterion{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// OnApply replaces the apply callback.
func (s *Store) OnApply(fn ApplyFunc) {
	s.mu.Lock()
	s.onApply = fn
	s.mu.Unlock()
}

// Open starts an editing session seeded with a deep copy of initial and
// resets the picker.
func (s *Store) Open(initial []criteria.Criterion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Open
	s.list = criteria.CloneList(initial)
	s.pickerOpen = false
	s.search = ""
}

// State returns the lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Criteria returns a copy of the list being edited.
func (s *Store) Criteria() []criteria.Criterion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return criteria.CloneList(s.list)
}

// Add appends a fresh criterion for fieldID with its default operator and
// an empty value, then closes the picker and clears its search.
func (s *Store) Add(fieldID string) (criteria.Criterion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Open {
		return criteria.Criterion{}, ErrClosed
	}
	f := s.lookup(fieldID)
	if f == nil {
		return criteria.Criterion{}, fmt.Errorf("%w: %s", ErrUnknownField, fieldID)
	}
	c := criteria.New(s.newID(), f)
	s.list = append(s.list, c)
	s.pickerOpen = false
	s.search = ""
	return c.Clone(), nil
}

// Update shallow-merges patch into the criterion with id. An unknown id is
// a no-op.
func (s *Store) Update(id string, patch criteria.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Open {
		return ErrClosed
	}
	for i := range s.list {
		if s.list[i].ID == id {
			s.list[i] = s.list[i].Merge(patch)
			return nil
		}
	}
	return nil
}

// SetOperator switches a criterion's operator and resets its value the way
// the editor does. An unknown id is a no-op.
func (s *Store) SetOperator(id string, op schema.Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Open {
		return ErrClosed
	}
	for i := range s.list {
		if s.list[i].ID == id {
			s.list[i] = s.list[i].WithOperator(op)
			return nil
		}
	}
	return nil
}

// Remove drops the criterion with id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Open {
		return ErrClosed
	}
	out := s.list[:0:0]
	for _, c := range s.list {
		if c.ID != id {
			out = append(out, c)
		}
	}
	s.list = out
	return nil
}

// ClearAll empties the list; the sidebar stays open.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Open {
		return ErrClosed
	}
	s.list = []criteria.Criterion{}
	return nil
}

// Apply hands a copy of the list to the apply callback and closes. The
// callback runs after the store's lock is released.
func (s *Store) Apply() ([]criteria.Criterion, error) {
	s.mu.Lock()
	if s.state != Open {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	applied := criteria.CloneList(s.list)
	fn := s.onApply
	s.reset()
	s.mu.Unlock()

	if fn != nil {
		fn(criteria.CloneList(applied))
	}
	return applied, nil
}

// Cancel discards the edits and closes without calling the apply callback.
func (s *Store) Cancel() {
	s.mu.Lock()
	s.reset()
	s.mu.Unlock()
}

// Close is Cancel; the sidebar has no other way to dismiss.
func (s *Store) Close() { s.Cancel() }

func (s *Store) reset() {
	s.state = Closed
	s.list = []criteria.Criterion{}
	s.pickerOpen = false
	s.search = ""
}

func (s *Store) lookup(id string) *schema.Field {
	for _, f := range s.fields() {
		if f.ID == id {
			return f
		}
	}
	return nil
}
