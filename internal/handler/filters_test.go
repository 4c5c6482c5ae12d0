package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/fleetfilter/internal/filter/lookup"
	"github.com/matthewbaird/fleetfilter/internal/filter/schema"
	"github.com/matthewbaird/fleetfilter/internal/filter/session"
	"github.com/matthewbaird/fleetfilter/internal/filter/sidebar"
	"github.com/matthewbaird/fleetfilter/internal/filter/translate"
	"github.com/matthewbaird/fleetfilter/internal/filter/views"
	"github.com/matthewbaird/fleetfilter/internal/metrics"
)

type fixture struct {
	srv      *httptest.Server
	metrics  *metrics.Metrics
	sessions *session.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog, err := schema.LoadBuiltin()
	require.NoError(t, err)

	m := metrics.New(prometheus.NewRegistry())
	sessions := session.NewManager(time.Hour, time.Hour)
	sessions.OnCount(m.SetOpenSessions)

	h := NewFilterHandler(Deps{
		Catalog: catalog,
		Translator: translate.New(
			translate.WithUnknownHook(m.IncrementUnknownFields),
		),
		Loader:   lookup.NewLoader(lookup.DemoSource()),
		Views:    views.NewMemoryStore(),
		Sessions: sessions,
		Metrics:  m,
		Debounce: 10 * time.Millisecond,
		Logger:   zerolog.Nop(),
	})
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, metrics: m, sessions: sessions}
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestListDomains(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodGet, "/api/domains", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []domainInfo
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out)
	names := make([]string, len(out))
	for i, d := range out {
		names[i] = d.Name
	}
	assert.Contains(t, names, translate.Issues)
	assert.Contains(t, names, translate.Contacts)
}

func TestGetFields_PopulatesLookups(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodGet, "/api/domains/issues/fields", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out fieldsResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Issues", out.Title)
	assert.Equal(t, []string{"priority", "assignedTo"}, out.Popular)

	byID := map[string]*schema.Field{}
	for _, fd := range out.Fields {
		byID[fd.ID] = fd
	}
	require.Contains(t, byID, "assignedTo")
	assert.Equal(t, []schema.Option{
		{Value: "c-1", Label: "Hery Rakoto"},
		{Value: "c-2", Label: "Mialy Rasoa"},
	}, byID["assignedTo"].Options)
	require.Contains(t, byID, "vehicle")
	assert.Len(t, byID["vehicle"].Options, 3)
}

func TestGetFields_UnknownDomain(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodGet, "/api/domains/fuel/fields", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "UNKNOWN_DOMAIN")
}

func TestSearchFields(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodGet, "/api/domains/issues/fields/search?q=vehicle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var groups []sidebar.Group
	require.NoError(t, json.Unmarshal(body, &groups))
	require.NotEmpty(t, groups)
	assert.Equal(t, "VEHICLE", groups[0].Category)
}

func TestTranslate(t *testing.T) {
	f := newFixture(t)
	req := map[string]any{
		"criteria": []map[string]any{
			{"id": "1", "field": "summary", "operator": "contains", "value": "brake"},
			{"id": "2", "field": "reportedDate", "operator": "between", "value": map[string]string{"from": "2024-01-01", "to": "2024-01-31"}},
		},
		"base": map[string]any{"status": "OPEN"},
	}
	resp, body := f.do(t, http.MethodPost, "/api/domains/issues/translate", req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out filtersResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "brake", out.Filters.Get("search").Value())
	assert.Equal(t, "OPEN", out.Filters.Get("status").Value())
	assert.Equal(t, "1", out.Filters.Get(translate.KeyPage).Value())
	assert.Equal(t, "endDate=2024-01-31&search=brake&startDate=2024-01-01&status=OPEN", out.Query)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Translations.WithLabelValues("issues")))
}

func TestTranslate_UnknownFieldCounted(t *testing.T) {
	f := newFixture(t)
	req := map[string]any{
		"criteria": []map[string]any{
			{"id": "1", "field": "make", "operator": "is", "value": "Toyota"},
		},
	}
	resp, _ := f.do(t, http.MethodPost, "/api/domains/contacts/translate", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.UnknownFields.WithLabelValues("contacts", "make")))
}

func TestTranslate_BadBody(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Post(f.srv.URL+"/api/domains/issues/translate", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHydrate_IgnoresUnknownParams(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodGet, "/api/domains/issues/hydrate?status=OPEN&labels=BODY,SAFETY&bogus=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out filtersResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "OPEN", out.Filters.Get("status").Value())
	assert.Equal(t, []string{"BODY", "SAFETY"}, out.Filters.Get("labels").Values())
	_, present := out.Filters["bogus"]
	assert.False(t, present)
}

func TestViews_CRUD(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPost, "/api/domains/issues/views", map[string]any{
		"name":  "Open brakes",
		"query": "?status=OPEN&search=brake&bogus=x",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var saved views.View
	require.NoError(t, json.Unmarshal(body, &saved))
	assert.Equal(t, "search=brake&status=OPEN", saved.Query)

	resp, _ = f.do(t, http.MethodPost, "/api/domains/issues/views", map[string]any{
		"name":    "Body damage",
		"filters": map[string]any{"labels": []string{"BODY"}, "page": "3"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = f.do(t, http.MethodGet, "/api/domains/issues/views", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []views.View
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Body damage", list[0].Name)
	assert.Equal(t, "labels=BODY", list[0].Query)

	resp, body = f.do(t, http.MethodGet, "/api/domains/issues/views/Open%20brakes", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "search=brake")

	resp, _ = f.do(t, http.MethodDelete, "/api/domains/issues/views/Open%20brakes", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = f.do(t, http.MethodGet, "/api/domains/issues/views/Open%20brakes", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "NOT_FOUND")
}

func TestViews_Invalid(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodPost, "/api/domains/issues/views", map[string]any{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION_ERROR")

	resp, _ = f.do(t, http.MethodGet, "/api/domains/fuel/views", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

type serverMsg struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

func readUntil(ctx context.Context, t *testing.T, conn *websocket.Conn, typ string) serverMsg {
	t.Helper()
	for {
		var msg serverMsg
		require.NoError(t, wsjson.Read(ctx, conn, &msg))
		if msg.Type == typ {
			return msg
		}
		require.NotEqual(t, "error", msg.Type, string(msg.Data))
	}
}

func TestSidebarWebSocket_OpenAddApply(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/api/sidebar/ws?domain=issues&status=OPEN"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	msg := readUntil(ctx, t, conn, "session")
	var sess struct {
		SessionID string            `json:"session_id"`
		Filters   translate.Filters `json:"filters"`
		Query     string            `json:"query"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &sess))
	assert.NotEmpty(t, sess.SessionID)
	assert.Equal(t, "OPEN", sess.Filters.Get("status").Value())
	assert.Equal(t, 1, f.sessions.Count())

	send := func(typ, id string, data any) {
		raw, err := json.Marshal(data)
		require.NoError(t, err)
		require.NoError(t, wsjson.Write(ctx, conn, map[string]any{"type": typ, "id": id, "data": json.RawMessage(raw)}))
	}

	send("open", "1", nil)
	msg = readUntil(ctx, t, conn, "state")
	assert.Equal(t, "1", msg.RequestID)

	send("add", "2", map[string]string{"field": "summary"})
	msg = readUntil(ctx, t, conn, "state")
	var snap sidebar.Snapshot
	require.NoError(t, json.Unmarshal(msg.Data, &snap))
	require.Len(t, snap.Criteria, 1)
	assert.Equal(t, sidebar.Open, snap.State)
	id := snap.Criteria[0].ID

	send("update", "3", map[string]any{"criterionId": id, "value": "brake"})
	readUntil(ctx, t, conn, "state")

	send("apply", "4", nil)
	msg = readUntil(ctx, t, conn, "applied")
	var applied struct {
		Reason  string            `json:"reason"`
		Filters translate.Filters `json:"filters"`
		Query   string            `json:"query"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &applied))
	assert.Equal(t, "apply", applied.Reason)
	assert.Equal(t, "brake", applied.Filters.Get("search").Value())
	assert.Equal(t, "OPEN", applied.Filters.Get("status").Value())
	assert.Equal(t, "search=brake&status=OPEN", applied.Query)

	msg = readUntil(ctx, t, conn, "state")
	require.NoError(t, json.Unmarshal(msg.Data, &snap))
	assert.Equal(t, sidebar.Closed, snap.State)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Applies.WithLabelValues("issues", "apply")))

	send("add", "5", map[string]string{"field": "priority"})
	msg = readUntil(ctx, t, conn, "error")
	assert.Equal(t, "5", msg.RequestID)
	assert.Contains(t, string(msg.Data), "sidebar_closed")

	conn.Close(websocket.StatusNormalClosure, "")
	require.Eventually(t, func() bool { return f.sessions.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSidebarWebSocket_UnknownDomain(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/api/sidebar/ws?domain=fuel"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	var msg serverMsg
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, string(msg.Data), "unknown_domain")
}
