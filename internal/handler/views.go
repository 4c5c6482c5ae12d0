package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matthewbaird/fleetfilter/internal/filter/translate"
	"github.com/matthewbaird/fleetfilter/internal/filter/urlsync"
	"github.com/matthewbaird/fleetfilter/internal/filter/views"
)

// saveViewRequest carries either a URL query or a filter object. Filters
// win when both are present.
type saveViewRequest struct {
	Name    string            `json:"name"`
	Query   string            `json:"query"`
	Filters translate.Filters `json:"filters"`
}

// ListViews returns the saved views of a domain, sorted by name.
func (h *FilterHandler) ListViews(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	if _, err := h.deps.Translator.Domain(domain); err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	list, err := h.deps.Views.List(r.Context(), domain)
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// SaveView stores a view, replacing any view of the same name. Only
// allow-listed keys are persisted.
func (h *FilterHandler) SaveView(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	d, err := h.deps.Translator.Domain(domain)
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	var req saveViewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body: "+err.Error())
		return
	}

	f := req.Filters
	if f == nil {
		q, err := parseQuery(req.Query)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
			return
		}
		f = urlsync.Hydrate(d, q)
	}
	v := views.View{
		Domain:    domain,
		Name:      req.Name,
		Query:     urlsync.Query(d, f),
		CreatedAt: time.Now().UTC(),
	}
	if err := v.Validate(); err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	if err := h.deps.Views.Save(r.Context(), v); err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// GetView returns one saved view.
func (h *FilterHandler) GetView(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Views.Get(r.Context(), chi.URLParam(r, "domain"), chi.URLParam(r, "name"))
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// DeleteView removes a saved view.
func (h *FilterHandler) DeleteView(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Views.Delete(r.Context(), chi.URLParam(r, "domain"), chi.URLParam(r, "name")); err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseQuery(raw string) (url.Values, error) {
	return url.ParseQuery(strings.TrimPrefix(raw, "?"))
}
