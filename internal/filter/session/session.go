// Package session manages sidebar session lifecycle: one session per
// connected page, each holding that page's controller.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matthewbaird/fleetfilter/internal/filter/page"
)

// Session holds per-connection page state.
type Session struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`

	mu           sync.Mutex
	page         *page.Controller
	history      []string
	lastActiveAt time.Time
	cancel       context.CancelFunc
}

// NewSession creates a session for domain.
func NewSession(domain string) *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.New().String(),
		Domain:       domain,
		CreatedAt:    now,
		lastActiveAt: now,
	}
}

// Attach binds the page controller and the function that stops its
// background work.
func (s *Session) Attach(p *page.Controller, cancel context.CancelFunc) {
	s.mu.Lock()
	s.page = p
	s.cancel = cancel
	s.mu.Unlock()
}

// Page returns the session's controller, or nil before Attach.
func (s *Session) Page() *page.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Touch updates the last activity timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActiveAt = time.Now()
	s.mu.Unlock()
}

// LastActiveAt returns the last activity timestamp.
func (s *Session) LastActiveAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActiveAt
}

// AddHistory records an applied URL query.
func (s *Session) AddHistory(query string) {
	s.mu.Lock()
	s.history = append(s.history, query)
	s.lastActiveAt = time.Now()
	s.mu.Unlock()
}

// History returns the applied URL queries, oldest first.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// IsExpired returns true if the session has exceeded the given max age.
func (s *Session) IsExpired(maxAge time.Duration) bool {
	return time.Since(s.CreatedAt) > maxAge
}

// IsIdle returns true if the session has been idle longer than the timeout.
func (s *Session) IsIdle(timeout time.Duration) bool {
	return time.Since(s.LastActiveAt()) > timeout
}

func (s *Session) stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Manager handles session creation, lookup, and cleanup.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxAge      time.Duration
	idleTimeout time.Duration
	onCount     func(int)
}

// NewManager creates a session manager with the given timeouts.
func NewManager(maxAge, idleTimeout time.Duration) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		maxAge:      maxAge,
		idleTimeout: idleTimeout,
	}
}

// OnCount registers a callback receiving the session count after every
// change.
func (m *Manager) OnCount(fn func(int)) {
	m.mu.Lock()
	m.onCount = fn
	m.mu.Unlock()
}

// Create creates a new session and returns it.
func (m *Manager) Create(domain string) *Session {
	s := NewSession(domain)
	m.mu.Lock()
	m.sessions[s.ID] = s
	n, fn := len(m.sessions), m.onCount
	m.mu.Unlock()
	if fn != nil {
		fn(n)
	}
	return s
}

// Get retrieves a session by ID. Returns nil if not found or expired.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	if s.IsExpired(m.maxAge) || s.IsIdle(m.idleTimeout) {
		m.Remove(id)
		return nil
	}
	return s
}

// Remove deletes a session and stops its page.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	n, fn := len(m.sessions), m.onCount
	m.mu.Unlock()
	if !ok {
		return
	}
	s.stop()
	if fn != nil {
		fn(n)
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Cleanup removes all expired and idle sessions and returns how many
// were removed.
func (m *Manager) Cleanup() int {
	var stale []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.IsExpired(m.maxAge) || s.IsIdle(m.idleTimeout) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	n, fn := len(m.sessions), m.onCount
	m.mu.Unlock()

	for _, s := range stale {
		s.stop()
	}
	if len(stale) > 0 && fn != nil {
		fn(n)
	}
	return len(stale)
}

// Run calls Cleanup every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Cleanup()
		}
	}
}
