package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// endpoint describes where a kind lives on the fleet API and which key of
// the response envelope carries the list.
type endpoint struct {
	path string
	key  string
}

var endpoints = map[Kind]endpoint{
	Groups:   {path: "/api/groups", key: "groups"},
	Vehicles: {path: "/api/vehicles", key: "vehicles"},
	Contacts: {path: "/api/contacts", key: "contacts"},
	Vendors:  {path: "/api/vendors", key: "vendors"},
	Forms:    {path: "/api/inspection-templates", key: "templates"},
}

// HTTPSource loads lookups from the fleet REST API.
type HTTPSource struct {
	BaseURL    string
	HTTPClient *http.Client
	token      string
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithToken sends a bearer token with every request.
func WithToken(token string) HTTPOption {
	return func(s *HTTPSource) { s.token = token }
}

// NewHTTPSource builds a source backed by a retrying client.
func NewHTTPSource(baseURL string, retryMax int, opts ...HTTPOption) *HTTPSource {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryMax
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{Timeout: 30 * time.Second}

	s := &HTTPSource{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: retryClient.StandardClient(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Fetch requests the list for kind. Lists are requested unpaginated.
func (s *HTTPSource) Fetch(ctx context.Context, kind Kind) ([]Entity, error) {
	ep, ok := endpoints[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+ep.path+"?limit=1000", nil)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", kind, err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", kind, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", kind, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", kind, resp.StatusCode)
	}

	list, err := decodeEnvelope(body, ep.key)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", kind, err)
	}
	return list, nil
}

// decodeEnvelope finds the entity array in the shapes the API returns:
// {data: [...]}, {data: {key: [...]}}, {key: [...]} or a bare array.
func decodeEnvelope(body []byte, key string) ([]Entity, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var list []Entity
		err := json.Unmarshal(body, &list)
		return list, err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, err
	}
	if data, ok := top["data"]; ok {
		data = bytes.TrimSpace(data)
		if len(data) > 0 && data[0] == '[' {
			var list []Entity
			err := json.Unmarshal(data, &list)
			return list, err
		}
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, err
		}
		if raw, ok := inner[key]; ok {
			var list []Entity
			err := json.Unmarshal(raw, &list)
			return list, err
		}
	}
	if raw, ok := top[key]; ok {
		var list []Entity
		err := json.Unmarshal(raw, &list)
		return list, err
	}
	return nil, fmt.Errorf("no %q list in response", key)
}
