package websocket

import "github.com/stemsi/rosterdocs/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventSnapshot       Event = "snapshot"
	EventRemarkQueued   Event = "remark_queued"
	EventRemarkProgress Event = "remark_progress"
	EventRemarksDone    Event = "remarks_done"
	EventRemarksFailed  Event = "remarks_failed"
	EventError          Event = "error"
	EventPong           Event = "pong"
)

// RemarkEvent is published on an import's progress channel and forwarded
// to subscribers as is.
type RemarkEvent struct {
	Event      Event  `json:"event"`
	ImportID   string `json:"import_id"`
	GroupIndex int    `json:"group_index"`
	StudentID  int    `json:"student_id,omitempty"`
	Remark     string `json:"remark,omitempty"`
	Done       int    `json:"done"`
	Total      int    `json:"total"`
	Error      string `json:"error,omitempty"`
}

// SnapshotResponse is the first message on a new connection.
type SnapshotResponse struct {
	Event        Event              `json:"event"`
	RemarkStatus model.RemarkStatus `json:"remark_status"`
	GroupIndex   int                `json:"group_index"`
	Remarks      map[int]string     `json:"remarks"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
