package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/rosterdocs/internal/model"
	"github.com/stemsi/rosterdocs/internal/service"
	ws "github.com/stemsi/rosterdocs/internal/websocket"
)

type fakeFeed struct {
	events     chan []byte
	subscribed chan string
	err        error
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{events: make(chan []byte, 4), subscribed: make(chan string, 1)}
}

func (f *fakeFeed) Subscribe(_ context.Context, importID string) (<-chan []byte, func() error, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	f.subscribed <- importID
	return f.events, func() error { return nil }, nil
}

// orderedImports records whether the feed was already subscribed when the
// snapshot was loaded.
type orderedImports struct {
	fakeImports
	feed            *fakeFeed
	subscribedFirst atomic.Bool
}

func (o *orderedImports) Get(ctx context.Context, id uuid.UUID) (*model.Import, error) {
	o.subscribedFirst.Store(len(o.feed.subscribed) == 1)
	return o.fakeImports.Get(ctx, id)
}

func wsServer(t *testing.T, imports importGetter, feed RemarkFeed) *httptest.Server {
	t.Helper()
	h := NewWSHandler(imports, feed, zerolog.Nop(), nil)
	r := gin.New()
	r.GET("/ws/v1/imports/:id/remarks", h.RemarkStream)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/v1/imports/" + id + "/remarks"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestWSHandler_SnapshotThenEvents(t *testing.T) {
	imp := testImport()
	feed := newFakeFeed()
	srv := wsServer(t, &fakeImports{imp: imp}, feed)
	conn := dial(t, srv, imp.ID.String())

	var snap ws.SnapshotResponse
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("Read snapshot: %v", err)
	}
	if snap.Event != ws.EventSnapshot || snap.Remarks[1] != "عمل جيد" {
		t.Errorf("Unexpected snapshot: %+v", snap)
	}
	if got := <-feed.subscribed; got != imp.ID.String() {
		t.Errorf("Subscribed to %q", got)
	}

	event, _ := json.Marshal(ws.RemarkEvent{Event: ws.EventRemarkProgress, ImportID: imp.ID.String(), StudentID: 1, Done: 1, Total: 1})
	feed.events <- event

	var got ws.RemarkEvent
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("Read event: %v", err)
	}
	if got.Event != ws.EventRemarkProgress || got.StudentID != 1 {
		t.Errorf("Unexpected event: %+v", got)
	}
}

func TestWSHandler_Ping(t *testing.T) {
	imp := testImport()
	srv := wsServer(t, &fakeImports{imp: imp}, newFakeFeed())
	conn := dial(t, srv, imp.ID.String())

	var snap ws.SnapshotResponse
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("Read snapshot: %v", err)
	}

	if err := conn.WriteJSON(ws.RequestEnvelope{Action: ws.ActionPing}); err != nil {
		t.Fatal(err)
	}
	var pong ws.PongResponse
	if err := conn.ReadJSON(&pong); err != nil {
		t.Fatalf("Read pong: %v", err)
	}
	if pong.Event != ws.EventPong {
		t.Errorf("Event = %q, want pong", pong.Event)
	}

	if err := conn.WriteJSON(ws.RequestEnvelope{Action: "dance"}); err != nil {
		t.Fatal(err)
	}
	var errResp ws.ErrorResponse
	if err := conn.ReadJSON(&errResp); err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if errResp.Event != ws.EventError {
		t.Errorf("Event = %q, want error", errResp.Event)
	}
}

func TestWSHandler_SubscribesBeforeSnapshot(t *testing.T) {
	imp := testImport()
	feed := newFakeFeed()
	imports := &orderedImports{fakeImports: fakeImports{imp: imp}, feed: feed}
	srv := wsServer(t, imports, feed)
	conn := dial(t, srv, imp.ID.String())

	var snap ws.SnapshotResponse
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("Read snapshot: %v", err)
	}
	if !imports.subscribedFirst.Load() {
		t.Error("Snapshot was loaded before the event subscription")
	}
}

func TestWSHandler_SubscribeFails(t *testing.T) {
	feed := newFakeFeed()
	feed.err = errors.New("redis down")
	srv := wsServer(t, &fakeImports{imp: testImport()}, feed)

	resp, err := http.Get(srv.URL + "/ws/v1/imports/" + uuid.NewString() + "/remarks")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500 before upgrade", resp.StatusCode)
	}
}

func TestWSHandler_UnknownImport(t *testing.T) {
	srv := wsServer(t, &fakeImports{err: service.ErrImportNotFound}, newFakeFeed())

	resp, err := http.Get(srv.URL + "/ws/v1/imports/" + uuid.NewString() + "/remarks")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Status = %d, want 404 before upgrade", resp.StatusCode)
	}
}

func TestBuildUpgrader_CheckOrigin(t *testing.T) {
	up := buildUpgrader([]string{"https://school.example"})
	tests := []struct {
		origin string
		want   bool
	}{
		{"https://school.example", true},
		{"HTTPS://SCHOOL.EXAMPLE", true},
		{"https://evil.example", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", tt.origin)
		if got := up.CheckOrigin(req); got != tt.want {
			t.Errorf("CheckOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}
