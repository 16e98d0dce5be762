package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AaronLay10/SentientCutscene/internal/events"
	"github.com/AaronLay10/SentientCutscene/internal/orchestrator"
)

const (
	// Number of recent events to send on connection
	recentEventsCount = 50

	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// How often /ws/state looks for a new snapshot
	statePollInterval = 16 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Renderers and the operator UI may be served from anywhere on the LAN.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func writeFrame(conn *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// readPump discards client frames and keeps the read deadline fresh. The
// returned channel closes when the peer goes away.
func readPump(conn *websocket.Conn) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return done
}

func ping(conn *websocket.Conn) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.PingMessage, nil)
}

// wsEventsHandler streams the recent event backlog and then every new event.
func wsEventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sub := events.Subscribe()
	defer events.Unsubscribe(sub)

	for _, e := range events.RecentEvents(recentEventsCount) {
		if err := writeFrame(conn, e); err != nil {
			log.Printf("ws write recent event failed: %v", err)
			return
		}
	}

	done := readPump(conn)
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case e, ok := <-sub:
			if !ok {
				return
			}
			if err := writeFrame(conn, e); err != nil {
				log.Printf("ws write event failed: %v", err)
				return
			}
		case <-ticker.C:
			if err := ping(conn); err != nil {
				return
			}
		}
	}
}

// wsStateHandler pushes the player snapshot to renderers whenever it changes.
func wsStateHandler(w http.ResponseWriter, r *http.Request) {
	ctrl := controller
	if ctrl == nil {
		writeJSON(w, http.StatusServiceUnavailable, CommandResponse{Error: "player not ready"})
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	done := readPump(conn)
	poll := time.NewTicker(statePollInterval)
	defer poll.Stop()
	pinger := time.NewTicker(pingPeriod)
	defer pinger.Stop()

	var last orchestrator.Snapshot
	first := true
	for {
		select {
		case <-done:
			return
		case <-poll.C:
			s := ctrl.State()
			if !first && !changed(last, s) {
				continue
			}
			first = false
			last = s
			if err := writeFrame(conn, s); err != nil {
				log.Printf("ws write state failed: %v", err)
				return
			}
		case <-pinger.C:
			if err := ping(conn); err != nil {
				return
			}
		}
	}
}

// changed reports whether a renderer would draw b differently from a.
// Every tick bumps Ticks, so a session that is running always counts.
func changed(a, b orchestrator.Snapshot) bool {
	return a.Ticks != b.Ticks || a.Lifecycle != b.Lifecycle || a.CutsceneID != b.CutsceneID ||
		a.BeatIndex != b.BeatIndex || a.Phase != b.Phase ||
		a.Dialogue.Revealed != b.Dialogue.Revealed || a.Choice.Active != b.Choice.Active
}
