// Package views persists saved views: named filter objects a user can
// return to. A view stores the page's URL query, never the sidebar's
// criteria list.
package views

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	// ErrViewNotFound is returned when no view has the requested name.
	ErrViewNotFound = errors.New("view not found")
	// ErrInvalidView is returned for views without a domain or a name.
	ErrInvalidView = errors.New("view needs a domain and a name")
)

// View is one saved filter object.
type View struct {
	Domain    string    `json:"domain"`
	Name      string    `json:"name"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate trims the identifying fields and checks they are present.
func (v *View) Validate() error {
	v.Domain = strings.TrimSpace(v.Domain)
	v.Name = strings.TrimSpace(v.Name)
	if v.Domain == "" || v.Name == "" {
		return ErrInvalidView
	}
	return nil
}

// Store persists views per domain. Saving an existing name replaces it.
type Store interface {
	Save(ctx context.Context, v View) error
	Get(ctx context.Context, domain, name string) (View, error)
	List(ctx context.Context, domain string) ([]View, error)
	Delete(ctx context.Context, domain, name string) error
}

// MemoryStore keeps views in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	views map[string]map[string]View
	now   func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{views: make(map[string]map[string]View), now: time.Now}
}

// Save stores v, stamping CreatedAt when unset.
func (s *MemoryStore) Save(_ context.Context, v View) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	byName, ok := s.views[v.Domain]
	if !ok {
		byName = make(map[string]View)
		s.views[v.Domain] = byName
	}
	byName[v.Name] = v
	return nil
}

// Get returns the named view.
func (s *MemoryStore) Get(_ context.Context, domain, name string) (View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.views[domain][name]
	if !ok {
		return View{}, ErrViewNotFound
	}
	return v, nil
}

// List returns a domain's views sorted by name.
func (s *MemoryStore) List(_ context.Context, domain string) ([]View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]View, 0, len(s.views[domain]))
	for _, v := range s.views[domain] {
		out = append(out, v)
	}
	sortByName(out)
	return out, nil
}

// Delete removes the named view.
func (s *MemoryStore) Delete(_ context.Context, domain, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.views[domain][name]; !ok {
		return ErrViewNotFound
	}
	delete(s.views[domain], name)
	return nil
}

func sortByName(vs []View) {
	sort.Slice(vs, func(i, j int) bool { return vs[i].Name < vs[j].Name })
}
