package live

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentscaffold/dashboard/internal/model/message"
	"github.com/agentscaffold/dashboard/internal/service/hub"
)

func setupServer(t *testing.T) (*hub.Hub, *httptest.Server) {
	t.Helper()
	h := hub.New(zerolog.Nop())
	handler := New(h, zerolog.Nop())

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return h, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/dashboard"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, h *hub.Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for h.Count() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d subscribers, got %d", want, h.Count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWebSocketReceivesBroadcast(t *testing.T) {
	h, srv := setupServer(t)
	conn := dial(t, srv)

	waitForSubscribers(t, h, 1)

	h.Broadcast(message.Event{
		Type:      message.EventMessageAdded,
		Message:   &message.Message{ID: "msg-1", Kind: message.KindInformational, Title: "hello"},
		Timestamp: time.Now().UTC(),
	})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var evt message.Event
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("ReadJSON err: %v", err)
	}
	if evt.Type != message.EventMessageAdded {
		t.Fatalf("expected message-added, got %s", evt.Type)
	}
	if evt.Message == nil || evt.Message.ID != "msg-1" {
		t.Fatalf("unexpected message payload: %+v", evt.Message)
	}
}

func TestWebSocketDisconnectUnsubscribes(t *testing.T) {
	h, srv := setupServer(t)
	conn := dial(t, srv)

	waitForSubscribers(t, h, 1)
	conn.Close()
	waitForSubscribers(t, h, 0)
}

func TestWebSocketMultipleViewers(t *testing.T) {
	h, srv := setupServer(t)
	first := dial(t, srv)
	second := dial(t, srv)

	waitForSubscribers(t, h, 2)

	h.Broadcast(message.Event{
		Type:      message.EventHeartbeat,
		Timestamp: time.Now().UTC(),
	})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		var evt message.Event
		if err := conn.ReadJSON(&evt); err != nil {
			t.Fatalf("ReadJSON err: %v", err)
		}
		if evt.Type != message.EventHeartbeat {
			t.Fatalf("expected heartbeat, got %s", evt.Type)
		}
	}
}
