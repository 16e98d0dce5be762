package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AaronLay10/SentientCutscene/internal/events"
	"github.com/AaronLay10/SentientCutscene/internal/orchestrator"
)

// waitFor polls a condition until it returns true or timeout expires.
func waitFor(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("timeout waiting for: %s", msg)
}

func dial(t *testing.T, handler http.HandlerFunc) (*websocket.Conn, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		server.Close()
		t.Fatalf("failed to connect: %v", err)
	}
	return conn, func() {
		conn.Close()
		server.Close()
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) events.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	var e events.Event
	if err := json.Unmarshal(msg, &e); err != nil {
		t.Fatalf("failed to unmarshal event: %v", err)
	}
	return e
}

func TestWebSocketReceivesRecentEvents(t *testing.T) {
	events.Clear()
	for i := 0; i < 5; i++ {
		events.Emit("info", "beat.started", "", map[string]interface{}{"index": i})
	}

	conn, closeAll := dial(t, wsEventsHandler)
	defer closeAll()

	for i := 0; i < 5; i++ {
		if e := readEvent(t, conn); e.Name != "beat.started" {
			t.Errorf("expected 'beat.started', got '%s'", e.Name)
		}
	}
}

func TestWebSocketReceivesNewEvents(t *testing.T) {
	events.Clear()
	conn, closeAll := dial(t, wsEventsHandler)
	defer closeAll()

	go func() {
		time.Sleep(50 * time.Millisecond)
		events.Emit("info", "signal.raised", "", map[string]interface{}{"key": "door_open"})
	}()

	e := readEvent(t, conn)
	if e.Name != "signal.raised" {
		t.Errorf("expected 'signal.raised', got '%s'", e.Name)
	}
	if e.Fields["key"] != "door_open" {
		t.Errorf("expected key 'door_open', got '%v'", e.Fields["key"])
	}
}

func TestWebSocketDisconnectCleansUp(t *testing.T) {
	events.Clear()
	events.CloseAllSubscribers()

	conn, closeAll := dial(t, wsEventsHandler)
	defer closeAll()

	go func() {
		time.Sleep(20 * time.Millisecond)
		events.Emit("info", "input.advance", "", nil)
	}()
	if e := readEvent(t, conn); e.Name != "input.advance" {
		t.Errorf("expected 'input.advance', got '%s'", e.Name)
	}

	conn.Close()
	waitFor(t, 5*time.Second, func() bool {
		return events.SubscriberCount() == 0
	}, "subscriber count to return to 0 after close")
}

func TestWebSocketMultipleClients(t *testing.T) {
	events.Clear()
	conn1, close1 := dial(t, wsEventsHandler)
	defer close1()
	conn2, close2 := dial(t, wsEventsHandler)
	defer close2()

	go func() {
		time.Sleep(50 * time.Millisecond)
		events.Emit("info", "cutscene.finished", "", map[string]interface{}{"cutscene_id": "intro"})
	}()

	for i, conn := range []*websocket.Conn{conn1, conn2} {
		if e := readEvent(t, conn); e.Name != "cutscene.finished" {
			t.Errorf("client%d: expected 'cutscene.finished', got '%s'", i+1, e.Name)
		}
	}
}

func TestWebSocketState(t *testing.T) {
	fc := &fakeController{state: orchestrator.Snapshot{CutsceneID: "intro", BeatID: "greeting", Ticks: 1}}
	withController(t, fc)

	conn, closeAll := dial(t, wsStateHandler)
	defer closeAll()

	read := func() orchestrator.Snapshot {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var s orchestrator.Snapshot
		if err := conn.ReadJSON(&s); err != nil {
			t.Fatalf("failed to read state: %v", err)
		}
		return s
	}

	if s := read(); s.BeatID != "greeting" {
		t.Errorf("expected greeting, got %s", s.BeatID)
	}

	fc.mu.Lock()
	fc.state.BeatID = "reply"
	fc.state.BeatIndex = 2
	fc.state.Ticks = 2
	fc.mu.Unlock()

	if s := read(); s.BeatID != "reply" || s.BeatIndex != 2 {
		t.Errorf("expected reply at index 2, got %s at %d", s.BeatID, s.BeatIndex)
	}
}

func TestSnapshotChanged(t *testing.T) {
	a := orchestrator.Snapshot{Ticks: 4}
	if changed(a, a) {
		t.Error("identical snapshots must not count as changed")
	}
	b := a
	b.Dialogue.Revealed = 3
	if !changed(a, b) {
		t.Error("reveal progress must count as a change")
	}
}
