// Package wire defines the WebSocket protocol that drives a sidebar
// session.
package wire

import (
	"encoding/json"

	"github.com/matthewbaird/fleetfilter/internal/filter/criteria"
	"github.com/matthewbaird/fleetfilter/internal/filter/schema"
	"github.com/matthewbaird/fleetfilter/internal/filter/sidebar"
	"github.com/matthewbaird/fleetfilter/internal/filter/translate"
)

// ── Client → Server messages ────────────────────────────────────────────────

// Client message types.
const (
	TypeOpen         = "open"
	TypeClose        = "close"
	TypeCancel       = "cancel"
	TypeAdd          = "add"
	TypeUpdate       = "update"
	TypeRemove       = "remove"
	TypeClear        = "clear"
	TypeApply        = "apply"
	TypePickerToggle = "picker_toggle"
	TypePickerSearch = "picker_search"
	TypePickerSelect = "picker_select"
	TypeClickOutside = "click_outside"
	TypeQuickFilter  = "quick_filter"
	TypeSearch       = "search"
	TypePage         = "page"
	TypePing         = "ping"
)

// ClientMessage is the envelope for all client-to-server WebSocket messages.
type ClientMessage struct {
	Type string          `json:"type"`
	ID   string          `json:"id"` // Client-assigned request ID
	Data json.RawMessage `json:"data,omitempty"`
}

// FieldData names a field, for "add" and "picker_select".
type FieldData struct {
	Field string `json:"field"`
}

// UpdateData is the payload for "update". An operator change resets the
// value before any value in the same message is applied.
type UpdateData struct {
	CriterionID string           `json:"criterionId"`
	Label       *string          `json:"label,omitempty"`
	Operator    *schema.Operator `json:"operator,omitempty"`
	Value       *criteria.Value  `json:"value,omitempty"`
}

// RemoveData is the payload for "remove".
type RemoveData struct {
	CriterionID string `json:"criterionId"`
}

// TextData carries free text, for "picker_search" and "search".
type TextData struct {
	Text string `json:"text"`
}

// QuickFilterData is the payload for "quick_filter". A null value clears
// the key.
type QuickFilterData struct {
	Key   string          `json:"key"`
	Value translate.Param `json:"value"`
}

// PageData is the payload for "page".
type PageData struct {
	Page int `json:"page"`
}

// ── Server → Client messages ────────────────────────────────────────────────

// Server message types.
const (
	TypeSession = "session"
	TypeState   = "state"
	TypeFields  = "fields"
	TypeApplied = "applied"
	TypeError   = "error"
	TypePong    = "pong"
)

// ServerMessage is the envelope for all server-to-client WebSocket messages.
type ServerMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"` // Echoes client ID
	Data      any    `json:"data,omitempty"`
}

// SessionData is sent once the page is mounted.
type SessionData struct {
	SessionID string            `json:"session_id"`
	Domain    string            `json:"domain"`
	Fields    []*schema.Field   `json:"fields"`
	Filters   translate.Filters `json:"filters"`
	Query     string            `json:"query"`
}

// StateData mirrors the sidebar after every sidebar message.
type StateData struct {
	sidebar.Snapshot
}

// FieldsData is sent whenever lookups fill in more options.
type FieldsData struct {
	Fields  []*schema.Field `json:"fields"`
	Version uint64          `json:"version"`
}

// AppliedData reports a submitted filter object.
type AppliedData struct {
	Reason  string            `json:"reason"`
	Filters translate.Filters `json:"filters"`
	Query   string            `json:"query"`
	Error   string            `json:"error,omitempty"`
}

// ErrorData carries an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
