package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/rosterdocs/internal/model"
	ws "github.com/stemsi/rosterdocs/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

type importGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Import, error)
}

// RemarkFeed delivers the raw remark events published for an import. The
// subscription is active once Subscribe returns.
type RemarkFeed interface {
	Subscribe(ctx context.Context, importID string) (<-chan []byte, func() error, error)
}

// WSHandler streams remark progress to the browser.
type WSHandler struct {
	imports  importGetter
	feed     RemarkFeed
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(imports importGetter, feed RemarkFeed, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		imports:  imports,
		feed:     feed,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// RemarkStream godoc
// WS /ws/v1/imports/:id/remarks
// Sends a snapshot of the active group's remarks, then forwards every
// remark event until the client disconnects.
func (h *WSHandler) RemarkStream(c *gin.Context) {
	id, ok := importID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Subscribe before loading the snapshot so no event falls in between.
	events, unsubscribe, err := h.feed.Subscribe(ctx, id.String())
	if err != nil {
		failService(c, h.log, err)
		return
	}
	defer unsubscribe()

	imp, err := h.imports.Get(ctx, id)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("import_id", id.String()).Logger()
	wsLog.Info().Msg("Client connected")

	if err := ws.WriteTyped(conn, snapshotOf(imp)); err != nil {
		return
	}

	replies := make(chan interface{}, 4)
	go h.readLoop(conn, wsLog, cancel, replies)

	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Connection closed")
			return
		case reply := <-replies:
			if err := ws.WriteTyped(conn, reply); err != nil {
				return
			}
		case payload, ok := <-events:
			if !ok {
				ws.WriteError(conn, "progress feed closed")
				return
			}
			// Forward raw JSON directly, no deserialization needed.
			if err := ws.WriteRaw(conn, payload); err != nil {
				return
			}
		}
	}
}

// readLoop answers client actions; all writes go through replies so the
// connection keeps a single writer.
func (h *WSHandler) readLoop(conn *websocket.Conn, wsLog zerolog.Logger, cancel context.CancelFunc, replies chan<- interface{}) {
	defer cancel()
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		var reply interface{}
		switch msg.Action {
		case ws.ActionPing:
			reply = ws.PongResponse{Event: ws.EventPong}
		default:
			reply = ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)}
		}
		select {
		case replies <- reply:
		default:
		}
	}
}

func snapshotOf(imp *model.Import) ws.SnapshotResponse {
	snap := ws.SnapshotResponse{
		Event:        ws.EventSnapshot,
		RemarkStatus: imp.RemarkStatus,
		GroupIndex:   imp.CurrentGroupIndex,
		Remarks:      map[int]string{},
	}
	if g := imp.ActiveGroup(); g != nil && g.Remarks != nil {
		snap.Remarks = g.Remarks
	}
	return snap
}
