// Package page owns one list page's filter state: the applied criteria,
// the quick filters outside the sidebar, the debounced search box, and the
// hand-off to data fetching and the URL.
package page

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/matthewbaird/fleetfilter/internal/filter/criteria"
	"github.com/matthewbaird/fleetfilter/internal/filter/schema"
	"github.com/matthewbaird/fleetfilter/internal/filter/sidebar"
	"github.com/matthewbaird/fleetfilter/internal/filter/translate"
	"github.com/matthewbaird/fleetfilter/internal/filter/urlsync"
)

// DefaultDebounce is the search box's quiet window.
const DefaultDebounce = 300 * time.Millisecond

// KeySearch is the quick search parameter.
const KeySearch = "search"

// Fetcher loads a page of domain data for a filter object.
type Fetcher interface {
	Fetch(ctx context.Context, domain string, f translate.Filters) error
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, domain string, f translate.Filters) error

// Fetch calls f.
func (fn FetcherFunc) Fetch(ctx context.Context, domain string, f translate.Filters) error {
	return fn(ctx, domain, f)
}

// State splits the page's filters by owner. Sticky keys belong to page
// controls (status tabs, quick toggles, pagination); Derived keys are the
// last sidebar translation plus the search box, which shares the sidebar's
// search key.
type State struct {
	Sticky  translate.Filters `json:"sticky"`
	Derived translate.Filters `json:"derived"`
}

// Merge overlays Derived on Sticky. A derived key that is unset only
// clears the merged value when no page control holds it.
func (s State) Merge() translate.Filters {
	out := s.Sticky.Clone()
	for k, v := range s.Derived {
		if _, held := out[k]; v.IsSet() || !held {
			out[k] = v
		}
	}
	return out
}

// Reason names what caused a filter change.
type Reason string

const (
	ReasonApply       Reason = "apply"
	ReasonQuickFilter Reason = "quick_filter"
	ReasonSearch      Reason = "search"
	ReasonPage        Reason = "page"
)

// Change reports one submitted filter object.
type Change struct {
	Reason  Reason            `json:"reason"`
	Filters translate.Filters `json:"filters"`
	Query   string            `json:"query"`
	Err     error             `json:"-"`
}

// Config wires a Controller.
type Config struct {
	Domain     *translate.Domain
	Translator *translate.Translator
	Fields     sidebar.FieldsFunc
	Popular    []string
	Fetcher    Fetcher
	Navigator  urlsync.Navigator
	// Path is the page route handed to the navigator.
	Path     string
	Debounce time.Duration
	IDFunc   criteria.IDFunc
	Logger   zerolog.Logger
	// OnChange observes every submitted filter object.
	OnChange func(Change)
}

// Controller is one mounted list page.
type Controller struct {
	cfg   Config
	ctx   context.Context
	store *sidebar.Store

	mu     sync.Mutex
	active []criteria.Criterion
	state  State
	gen    uint64
	search string
	last   Change
}

// New mounts a page. Parameters from query hydrate the initial filters:
// sticky keys go to page controls, the rest to the derived set. The applied criteria list always starts empty. ctx bounds
// every fetch and navigation the page performs.
func New(ctx context.Context, cfg Config, query url.Values) *Controller {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Fetcher == nil {
		cfg.Fetcher = FetcherFunc(func(context.Context, string, translate.Filters) error { return nil })
	}
	if cfg.Navigator == nil {
		cfg.Navigator = urlsync.NavigatorFunc(func(context.Context, string, url.Values) error { return nil })
	}
	if cfg.Translator == nil {
		cfg.Translator = translate.New()
	}

	c := &Controller{cfg: cfg, ctx: ctx, active: []criteria.Criterion{}}

	opts := []sidebar.Option{
		sidebar.WithPopular(cfg.Popular),
		sidebar.WithOnApply(c.applied),
	}
	if cfg.IDFunc != nil {
		opts = append(opts, sidebar.WithIDFunc(cfg.IDFunc))
	}
	c.store = sidebar.NewStore(cfg.Fields, opts...)

	sticky := cfg.Domain.Base(nil)
	derived := translate.Filters{}
	for k, v := range urlsync.Hydrate(cfg.Domain, query) {
		if c.isPageControl(k) {
			sticky[k] = v
		} else {
			derived[k] = v
		}
	}
	c.state = State{Sticky: sticky, Derived: derived}
	c.search = c.state.Merge().Get(KeySearch).Value()
	return c
}

func (c *Controller) isPageControl(key string) bool {
	for _, k := range c.cfg.Domain.Sticky {
		if k == key {
			return true
		}
	}
	return false
}

// Domain returns the page's domain name.
func (c *Controller) Domain() string { return c.cfg.Domain.Name }

// Sidebar returns the page's single sidebar.
func (c *Controller) Sidebar() *sidebar.Store { return c.store }

// OpenSidebar opens the sidebar on a copy of the applied criteria.
func (c *Controller) OpenSidebar() {
	c.mu.Lock()
	snapshot := criteria.CloneList(c.active)
	c.mu.Unlock()
	c.store.Open(snapshot)
}

// Apply applies the sidebar's list. The page's response runs through the
// sidebar's apply callback.
func (c *Controller) Apply() (Change, error) {
	if _, err := c.store.Apply(); err != nil {
		return Change{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, nil
}

// applied is the sidebar's apply callback. It supersedes any pending
// search keystroke.
func (c *Controller) applied(list []criteria.Criterion) {
	c.mu.Lock()
	c.gen++
	c.active = criteria.CloneList(list)
	derived, err := c.cfg.Translator.Translate(c.cfg.Domain.Name, list, c.state.Merge())
	if err != nil {
		c.mu.Unlock()
		c.cfg.Logger.Error().Err(err).Msg("translate failed")
		return
	}
	c.state.Sticky[translate.KeyPage] = translate.Int(1)
	if l, ok := derived[translate.KeyLimit]; ok {
		c.state.Sticky[translate.KeyLimit] = l
	}
	delete(derived, translate.KeyPage)
	delete(derived, translate.KeyLimit)
	for _, k := range c.cfg.Domain.Sticky {
		delete(derived, k)
	}
	c.state.Derived = derived
	f := c.state.Merge()
	c.search = f.Get(KeySearch).Value()
	c.mu.Unlock()

	c.cfg.Logger.Debug().
		Str("domain", c.cfg.Domain.Name).
		Int("criteria", len(list)).
		Msg("filters applied")
	c.submit(ReasonApply, f)
}

// SetQuickFilter changes a page control (a status tab, an overdue toggle)
// and submits immediately. An unset p removes the key.
func (c *Controller) SetQuickFilter(key string, p translate.Param) Change {
	c.mu.Lock()
	if p.IsSet() {
		c.state.Sticky[key] = p
	} else {
		delete(c.state.Sticky, key)
	}
	c.state.Sticky[translate.KeyPage] = translate.Int(1)
	f := c.state.Merge()
	c.mu.Unlock()
	return c.submit(ReasonQuickFilter, f)
}

// SetPage moves to page n and submits.
func (c *Controller) SetPage(n int) Change {
	if n < 1 {
		n = 1
	}
	c.mu.Lock()
	c.state.Sticky[translate.KeyPage] = translate.Int(n)
	f := c.state.Merge()
	c.mu.Unlock()
	return c.submit(ReasonPage, f)
}

// Search records a keystroke in the search box. The value is submitted
// once the debounce window passes without a newer keystroke; superseded
// values are dropped when their timer fires. The box and the sidebar
// write the same key, so the latest of the two wins.
func (c *Controller) Search(text string) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.search = text
	c.mu.Unlock()

	time.AfterFunc(c.cfg.Debounce, func() {
		c.mu.Lock()
		if gen != c.gen || c.ctx.Err() != nil {
			c.mu.Unlock()
			return
		}
		owner := c.state.Derived
		if c.isPageControl(KeySearch) {
			owner = c.state.Sticky
		}
		if text == "" {
			delete(owner, KeySearch)
		} else {
			owner[KeySearch] = translate.String(text)
		}
		c.state.Sticky[translate.KeyPage] = translate.Int(1)
		f := c.state.Merge()
		c.mu.Unlock()
		c.submit(ReasonSearch, f)
	})
}

// SearchText returns the search box's current text, submitted or not.
func (c *Controller) SearchText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// Filters returns the merged filter object the page last built.
func (c *Controller) Filters() translate.Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Merge()
}

// State returns a copy of the split state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Sticky: c.state.Sticky.Clone(), Derived: c.state.Derived.Clone()}
}

// Active returns a copy of the applied criteria.
func (c *Controller) Active() []criteria.Criterion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return criteria.CloneList(c.active)
}

// Fields returns the fields the sidebar offers.
func (c *Controller) Fields() []*schema.Field { return c.cfg.Fields() }

// Query returns the URL query for the current filters.
func (c *Controller) Query() string {
	return urlsync.Query(c.cfg.Domain, c.Filters())
}

func (c *Controller) submit(reason Reason, f translate.Filters) Change {
	ch := Change{Reason: reason, Filters: f, Query: urlsync.Query(c.cfg.Domain, f)}
	if err := c.cfg.Fetcher.Fetch(c.ctx, c.cfg.Domain.Name, f); err != nil {
		c.cfg.Logger.Warn().Err(err).Str("domain", c.cfg.Domain.Name).Msg("fetch failed")
		ch.Err = err
	} else if err := urlsync.Write(c.ctx, c.cfg.Navigator, c.cfg.Path, c.cfg.Domain, f); err != nil {
		c.cfg.Logger.Warn().Err(err).Str("domain", c.cfg.Domain.Name).Msg("url write failed")
		ch.Err = err
	}
	c.mu.Lock()
	c.last = ch
	c.mu.Unlock()
	if c.cfg.OnChange != nil {
		c.cfg.OnChange(ch)
	}
	return ch
}
