package wire

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/matthewbaird/fleetfilter/internal/filter/criteria"
	"github.com/matthewbaird/fleetfilter/internal/filter/page"
	"github.com/matthewbaird/fleetfilter/internal/filter/schema"
	"github.com/matthewbaird/fleetfilter/internal/filter/session"
	"github.com/matthewbaird/fleetfilter/internal/filter/sidebar"
)

// Hooks lets a mounted page push to its connection.
type Hooks struct {
	OnChange func(page.Change)
	OnFields func(fields []*schema.Field, version uint64)
}

// PageFactory mounts a page for domain, hydrated from query. Background
// work it starts must stop when ctx is done.
type PageFactory func(ctx context.Context, domain string, query url.Values, hooks Hooks) (*page.Controller, error)

// Handler manages WebSocket connections for sidebar sessions.
type Handler struct {
	sessions *session.Manager
	mount    PageFactory
	origins  []string
	log      zerolog.Logger
}

// NewHandler creates a WebSocket handler. origins are the accepted
// Origin patterns; empty allows any.
func NewHandler(sessions *session.Manager, mount PageFactory, origins []string, log zerolog.Logger) *Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Handler{sessions: sessions, mount: mount, origins: origins, log: log}
}

// ServeHTTP upgrades to WebSocket and runs the message loop. The domain
// comes from the "domain" parameter; the remaining parameters hydrate the
// page's filters.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	domain := query.Get("domain")
	query.Del("domain")

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess := h.sessions.Create(domain)
	defer h.sessions.Remove(sess.ID)
	log := h.log.With().Str("session", sess.ID).Str("domain", domain).Logger()

	ctrl, err := h.mount(ctx, domain, query, Hooks{
		OnChange: func(ch page.Change) {
			sess.AddHistory(ch.Query)
			data := AppliedData{Reason: string(ch.Reason), Filters: ch.Filters, Query: ch.Query}
			if ch.Err != nil {
				data.Error = ch.Err.Error()
			}
			h.send(ctx, conn, ServerMessage{Type: TypeApplied, Data: data})
		},
		OnFields: func(fields []*schema.Field, version uint64) {
			h.send(ctx, conn, ServerMessage{Type: TypeFields, Data: FieldsData{Fields: fields, Version: version}})
		},
	})
	if err != nil {
		h.sendError(ctx, conn, "", "unknown_domain", err.Error())
		conn.Close(websocket.StatusPolicyViolation, "unknown domain")
		return
	}
	sess.Attach(ctrl, cancel)
	log.Info().Msg("sidebar session opened")

	h.send(ctx, conn, ServerMessage{
		Type: TypeSession,
		Data: SessionData{
			SessionID: sess.ID,
			Domain:    domain,
			Fields:    ctrl.Fields(),
			Filters:   ctrl.Filters(),
			Query:     ctrl.Query(),
		},
	})

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Info().Int("status", int(websocket.CloseStatus(err))).Msg("sidebar session closed")
			}
			return
		}
		sess.Touch()
		h.dispatch(ctx, conn, ctrl, msg)
	}
}

func (h *Handler) dispatch(ctx context.Context, conn *websocket.Conn, ctrl *page.Controller, msg ClientMessage) {
	store := ctrl.Sidebar()
	var err error

	switch msg.Type {
	case TypePing:
		h.send(ctx, conn, ServerMessage{Type: TypePong, RequestID: msg.ID})
		return

	case TypeOpen:
		ctrl.OpenSidebar()

	case TypeClose, TypeCancel:
		store.Cancel()

	case TypeAdd, TypePickerSelect:
		var data FieldData
		if !h.decode(ctx, conn, msg, &data) {
			return
		}
		_, err = store.Add(data.Field)

	case TypeUpdate:
		var data UpdateData
		if !h.decode(ctx, conn, msg, &data) {
			return
		}
		if data.Operator != nil {
			err = store.SetOperator(data.CriterionID, *data.Operator)
		}
		if err == nil {
			err = store.Update(data.CriterionID, criteria.Patch{Label: data.Label, Value: data.Value})
		}

	case TypeRemove:
		var data RemoveData
		if !h.decode(ctx, conn, msg, &data) {
			return
		}
		err = store.Remove(data.CriterionID)

	case TypeClear:
		err = store.ClearAll()

	case TypeApply:
		// The page reports the result through its change hook.
		_, err = ctrl.Apply()

	case TypePickerToggle:
		err = store.TogglePicker()

	case TypePickerSearch:
		var data TextData
		if !h.decode(ctx, conn, msg, &data) {
			return
		}
		err = store.SetSearch(data.Text)

	case TypeClickOutside:
		store.ClickOutside()

	case TypeQuickFilter:
		var data QuickFilterData
		if !h.decode(ctx, conn, msg, &data) {
			return
		}
		if data.Key == "" {
			h.sendError(ctx, conn, msg.ID, "invalid_data", "quick_filter needs a key")
			return
		}
		ctrl.SetQuickFilter(data.Key, data.Value)
		return

	case TypeSearch:
		var data TextData
		if !h.decode(ctx, conn, msg, &data) {
			return
		}
		ctrl.Search(data.Text)
		return

	case TypePage:
		var data PageData
		if !h.decode(ctx, conn, msg, &data) {
			return
		}
		ctrl.SetPage(data.Page)
		return

	default:
		h.sendError(ctx, conn, msg.ID, "unknown_type", fmt.Sprintf("unknown message type: %s", msg.Type))
		return
	}

	if err != nil {
		h.sendError(ctx, conn, msg.ID, errorCode(err), err.Error())
		return
	}
	h.send(ctx, conn, ServerMessage{
		Type:      TypeState,
		RequestID: msg.ID,
		Data:      StateData{Snapshot: store.Snapshot()},
	})
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, sidebar.ErrClosed):
		return "sidebar_closed"
	case errors.Is(err, sidebar.ErrUnknownField):
		return "unknown_field"
	default:
		return "internal"
	}
}

func (h *Handler) decode(ctx context.Context, conn *websocket.Conn, msg ClientMessage, v any) bool {
	if err := json.Unmarshal(msg.Data, v); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", fmt.Sprintf("invalid %s data", msg.Type))
		return false
	}
	return true
}

func (h *Handler) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil && ctx.Err() == nil {
		h.log.Warn().Err(err).Str("type", msg.Type).Msg("websocket write")
	}
}

func (h *Handler) sendError(ctx context.Context, conn *websocket.Conn, requestID, code, message string) {
	h.send(ctx, conn, ServerMessage{
		Type:      TypeError,
		RequestID: requestID,
		Data: ErrorData{
			Code:    code,
			Message: message,
		},
	})
}
