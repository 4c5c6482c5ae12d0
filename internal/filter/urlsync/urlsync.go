// Package urlsync keeps a list page's URL in step with its materialized
// filter object. Only allow-listed keys are written, and only the filter
// object round-trips: the sidebar's criteria never reach the URL.
package urlsync

import (
	"context"
	"net/url"
	"strings"

	"github.com/matthewbaird/fleetfilter/internal/filter/translate"
)

// Navigator performs a replace-style history write: the current entry is
// overwritten, no new back-stack entry is created.
type Navigator interface {
	Replace(ctx context.Context, path string, query url.Values) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path string, query url.Values) error

// Replace calls f.
func (f NavigatorFunc) Replace(ctx context.Context, path string, query url.Values) error {
	return f(ctx, path, query)
}

// Encode writes the domain's allow-listed keys of f. Falsy values are
// omitted and lists are joined with commas.
func Encode(d *translate.Domain, f translate.Filters) url.Values {
	q := url.Values{}
	for _, key := range d.URL {
		p := f.Get(key)
		kind := d.Kind(key)
		if p.Falsy(kind) {
			continue
		}
		if p.IsList() {
			q.Set(key, strings.Join(p.Values(), ","))
			continue
		}
		q.Set(key, p.Value())
	}
	return q
}

// Hydrate reads the domain's known parameters from q. Unknown parameters
// are ignored, as are empty ones. List keys are split on commas.
func Hydrate(d *translate.Domain, q url.Values) translate.Filters {
	out := translate.Filters{}
	for _, key := range d.URL {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		if d.Kind(key) == translate.KeyList {
			out[key] = translate.Strings(splitList(raw)...)
			continue
		}
		out[key] = translate.String(raw)
	}
	return out
}

// Query is Encode rendered as a query string.
func Query(d *translate.Domain, f translate.Filters) string {
	return Encode(d, f).Encode()
}

// Write encodes f and hands it to nav for path.
func Write(ctx context.Context, nav Navigator, path string, d *translate.Domain, f translate.Filters) error {
	return nav.Replace(ctx, path, Encode(d, f))
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
