package burstfeed

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTestServer(t *testing.T) (*Server, *websocket.Conn) {
	t.Helper()
	s := NewServer("")
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return s, conn
}

func waitEvent(t *testing.T, s *Server) Event {
	t.Helper()
	select {
	case ev := <-s.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestServerDeliversEvents(t *testing.T) {
	s, conn := dialTestServer(t)

	if err := conn.WriteJSON(Event{X: 120, Y: 80, Intensity: 15}); err != nil {
		t.Fatalf("write: %v", err)
	}

	ev := waitEvent(t, s)
	if ev.X != 120 || ev.Y != 80 || ev.Intensity != 15 {
		t.Errorf("got %+v, want {120 80 15}", ev)
	}
}

func TestServerSkipsMalformedAndInvalidEvents(t *testing.T) {
	s, conn := dialTestServer(t)

	// Malformed JSON, an event with no intensity, then a valid one.
	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteJSON(Event{X: 1, Y: 1, Intensity: 0}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteJSON(Event{X: 5, Y: 6, Intensity: 3}); err != nil {
		t.Fatalf("write: %v", err)
	}

	ev := waitEvent(t, s)
	if ev.X != 5 || ev.Y != 6 || ev.Intensity != 3 {
		t.Errorf("got %+v, want the valid event {5 6 3}", ev)
	}

	select {
	case extra := <-s.Events():
		t.Errorf("unexpected extra event %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestServerHandlesMultipleEvents(t *testing.T) {
	s, conn := dialTestServer(t)

	for i := 1; i <= 5; i++ {
		if err := conn.WriteJSON(Event{X: float64(i), Y: 0, Intensity: i}); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	for i := 1; i <= 5; i++ {
		ev := waitEvent(t, s)
		if ev.Intensity != i {
			t.Errorf("event %d: intensity %d, want %d", i, ev.Intensity, i)
		}
	}
}
