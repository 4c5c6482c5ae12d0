package handler

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/matthewbaird/fleetfilter/internal/filter/criteria"
	"github.com/matthewbaird/fleetfilter/internal/filter/lookup"
	"github.com/matthewbaird/fleetfilter/internal/filter/options"
	"github.com/matthewbaird/fleetfilter/internal/filter/page"
	"github.com/matthewbaird/fleetfilter/internal/filter/schema"
	"github.com/matthewbaird/fleetfilter/internal/filter/session"
	"github.com/matthewbaird/fleetfilter/internal/filter/sidebar"
	"github.com/matthewbaird/fleetfilter/internal/filter/translate"
	"github.com/matthewbaird/fleetfilter/internal/filter/urlsync"
	"github.com/matthewbaird/fleetfilter/internal/filter/views"
	"github.com/matthewbaird/fleetfilter/internal/filter/wire"
	"github.com/matthewbaird/fleetfilter/internal/metrics"
)

// Deps are the collaborators of the filter routes. Loader, Metrics and
// Fetcher are optional.
type Deps struct {
	Catalog    *schema.Catalog
	Translator *translate.Translator
	Loader     *lookup.Loader
	Views      views.Store
	Sessions   *session.Manager
	Metrics    *metrics.Metrics
	Fetcher    page.Fetcher
	Debounce   time.Duration
	Origins    []string
	Logger     zerolog.Logger
}

// FilterHandler serves the field registry, translation, URL sync, saved
// views and the websocket sidebar.
type FilterHandler struct {
	deps Deps
	log  zerolog.Logger
}

// NewFilterHandler creates a FilterHandler.
func NewFilterHandler(deps Deps) *FilterHandler {
	if deps.Translator == nil {
		deps.Translator = translate.New(translate.WithLogger(deps.Logger))
	}
	if deps.Views == nil {
		deps.Views = views.NewMemoryStore()
	}
	if deps.Fetcher == nil {
		deps.Fetcher = LogFetcher(deps.Logger)
	}
	return &FilterHandler{deps: deps, log: deps.Logger}
}

// RegisterRoutes registers REST and WebSocket routes on r.
func (h *FilterHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/domains", h.ListDomains)
		r.Route("/domains/{domain}", func(r chi.Router) {
			r.Get("/fields", h.GetFields)
			r.Get("/fields/search", h.SearchFields)
			r.Post("/translate", h.Translate)
			r.Get("/hydrate", h.Hydrate)
			r.Get("/views", h.ListViews)
			r.Post("/views", h.SaveView)
			r.Get("/views/{name}", h.GetView)
			r.Delete("/views/{name}", h.DeleteView)
		})
		if h.deps.Sessions != nil {
			ws := wire.NewHandler(h.deps.Sessions, h.MountPage, h.deps.Origins, h.log)
			r.Get("/sidebar/ws", ws.ServeHTTP)
		}
	})
}

// LogFetcher stands in for the data-fetch collaborator by logging each
// submitted filter object.
func LogFetcher(log zerolog.Logger) page.Fetcher {
	return page.FetcherFunc(func(_ context.Context, domain string, f translate.Filters) error {
		log.Debug().Str("domain", domain).Interface("filters", f).Msg("fetch")
		return nil
	})
}

type domainInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// ListDomains returns the registered domains in declaration order.
func (h *FilterHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	out := []domainInfo{}
	for _, name := range h.deps.Catalog.Domains() {
		reg, err := h.deps.Catalog.Registry(name)
		if err != nil {
			continue
		}
		out = append(out, domainInfo{Name: name, Title: reg.Title()})
	}
	writeJSON(w, http.StatusOK, out)
}

type fieldsResponse struct {
	Domain  string          `json:"domain"`
	Title   string          `json:"title"`
	Fields  []*schema.Field `json:"fields"`
	Popular []string        `json:"popular"`
	Version uint64          `json:"version"`
}

// GetFields returns the registry with lookup options filled in. Failed
// lookups leave their fields without options.
func (h *FilterHandler) GetFields(w http.ResponseWriter, r *http.Request) {
	reg, err := h.deps.Catalog.Registry(chi.URLParam(r, "domain"))
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	fields, version := h.populate(r.Context(), reg)
	writeJSON(w, http.StatusOK, fieldsResponse{
		Domain:  reg.Domain(),
		Title:   reg.Title(),
		Fields:  fields,
		Popular: reg.PopularIDs(),
		Version: version,
	})
}

// SearchFields returns picker results for q, grouped by category.
func (h *FilterHandler) SearchFields(w http.ResponseWriter, r *http.Request) {
	reg, err := h.deps.Catalog.Registry(chi.URLParam(r, "domain"))
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sidebar.Match(reg.Fields(), r.URL.Query().Get("q")))
}

type translateRequest struct {
	Criteria []criteria.Criterion `json:"criteria"`
	Base     translate.Filters    `json:"base"`
}

type filtersResponse struct {
	Filters translate.Filters `json:"filters"`
	Query   string            `json:"query"`
}

// Translate turns a criteria list into the domain filter object.
func (h *FilterHandler) Translate(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	d, err := h.deps.Translator.Domain(domain)
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	var req translateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body: "+err.Error())
		return
	}
	f, err := h.deps.Translator.Translate(domain, req.Criteria, req.Base)
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	if h.deps.Metrics != nil {
		h.deps.Metrics.IncrementTranslations(domain)
	}
	writeJSON(w, http.StatusOK, filtersResponse{Filters: f, Query: urlsync.Query(d, f)})
}

// Hydrate reads the domain filter object back from a URL query.
func (h *FilterHandler) Hydrate(w http.ResponseWriter, r *http.Request) {
	d, err := h.deps.Translator.Domain(chi.URLParam(r, "domain"))
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	f := urlsync.Hydrate(d, r.URL.Query())
	writeJSON(w, http.StatusOK, filtersResponse{Filters: f, Query: urlsync.Query(d, f)})
}

func (h *FilterHandler) populate(ctx context.Context, reg *schema.Registry) ([]*schema.Field, uint64) {
	prog := options.NewProgressive(reg.Fields())
	if h.deps.Loader != nil {
		if err := h.deps.Loader.Populate(ctx, prog); err != nil {
			h.log.Warn().Err(err).Str("domain", reg.Domain()).Msg("partial field options")
		}
	}
	return prog.Fields()
}

// MountPage builds the page controller behind a websocket session. Field
// options arrive progressively through hooks.OnFields.
func (h *FilterHandler) MountPage(ctx context.Context, domain string, query url.Values, hooks wire.Hooks) (*page.Controller, error) {
	reg, err := h.deps.Catalog.Registry(domain)
	if err != nil {
		return nil, err
	}
	d, err := h.deps.Translator.Domain(domain)
	if err != nil {
		return nil, err
	}

	prog := options.NewProgressive(reg.Fields())
	if h.deps.Loader != nil {
		go func() {
			err := h.deps.Loader.PopulateNotify(ctx, prog, func(lookup.Kind) {
				if hooks.OnFields != nil {
					hooks.OnFields(prog.Fields())
				}
			})
			if err != nil && ctx.Err() == nil {
				h.log.Warn().Err(err).Str("domain", domain).Msg("partial field options")
			}
		}()
	}

	log := h.log.With().Str("domain", domain).Logger()
	return page.New(ctx, page.Config{
		Domain:     d,
		Translator: h.deps.Translator,
		Fields: func() []*schema.Field {
			fields, _ := prog.Fields()
			return fields
		},
		Popular:  reg.PopularIDs(),
		Fetcher:  h.deps.Fetcher,
		Path:     "/" + domain,
		Debounce: h.deps.Debounce,
		Logger:   log,
		OnChange: func(ch page.Change) {
			if h.deps.Metrics != nil {
				h.deps.Metrics.IncrementApplies(domain, string(ch.Reason))
				if ch.Reason == page.ReasonApply {
					h.deps.Metrics.IncrementTranslations(domain)
				}
			}
			log.Info().Str("reason", string(ch.Reason)).Str("query", ch.Query).Msg("filters applied")
			if hooks.OnChange != nil {
				hooks.OnChange(ch)
			}
		},
	}, query), nil
}
