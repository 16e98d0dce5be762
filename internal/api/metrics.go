package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/AaronLay10/SentientCutscene/internal/events"
	"github.com/AaronLay10/SentientCutscene/internal/orchestrator"
	"github.com/AaronLay10/SentientCutscene/internal/version"
)

var metricsState = &MetricsState{}

// MetricsState holds process-level values for the /metrics endpoint.
type MetricsState struct {
	mu        sync.RWMutex
	startTime time.Time
	roomName  string
}

// InitMetrics initializes the metrics system. Must be called at startup.
func InitMetrics() {
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.startTime = time.Now()
}

// SetRoomName sets the room name for metrics labels.
func SetRoomName(name string) {
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.roomName = name
}

// GetRoomName returns the current room name.
func GetRoomName() string {
	metricsState.mu.RLock()
	defer metricsState.mu.RUnlock()
	return metricsState.roomName
}

func boolGauge(b bool) int {
	if b {
		return 1
	}
	return 0
}

// metricsHandler returns Prometheus-compatible metrics in text format.
func metricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	metricsState.mu.RLock()
	startTime := metricsState.startTime
	roomName := metricsState.roomName
	metricsState.mu.RUnlock()

	readiness.mu.RLock()
	deps := readiness.dependencies
	readiness.mu.RUnlock()

	var snap orchestrator.Snapshot
	if controller != nil {
		snap = controller.State()
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	labels := fmt.Sprintf(`room="%s",instance="%s",version="%s"`, roomName, hostname, version.Version)

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	m := metricWriter{w: w, labels: labels}

	m.write("sentient_uptime_seconds", "gauge",
		"Number of seconds since the player started", time.Since(startTime).Seconds())
	m.write("sentient_events_total", "counter",
		"Total number of events emitted since startup", events.TotalCount())
	m.write("sentient_events_dropped_total", "counter",
		"Events lost to slow WebSocket clients", events.DroppedCount())
	m.write("sentient_store_dropped_total", "counter",
		"Events never persisted because the store queue was full", events.StoreDroppedCount())
	m.write("sentient_ws_clients", "gauge",
		"Number of active WebSocket client connections", events.SubscriberCount())
	m.write("sentient_mqtt_connected", "gauge",
		"Whether the MQTT broker is connected (1) or not (0)", boolGauge(deps.mqttConnected))
	m.write("sentient_store_connected", "gauge",
		"Whether the event store is reachable (1) or not (0)", boolGauge(deps.storeConnected))
	m.write("sentient_cutscene_running", "gauge",
		"Whether a cutscene is playing (1) or not (0)", boolGauge(snap.Lifecycle == orchestrator.LifecycleRunning))
	m.write("sentient_cutscene_beat_index", "gauge",
		"Index of the current beat", snap.BeatIndex)
	m.write("sentient_cutscene_ticks_total", "counter",
		"Orchestrator updates in the current session", snap.Ticks)
}

type metricWriter struct {
	w      io.Writer
	labels string
}

func (m metricWriter) write(name, mtype, help string, value interface{}) {
	fmt.Fprintf(m.w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(m.w, "# TYPE %s %s\n", name, mtype)
	fmt.Fprintf(m.w, "%s{%s} %v\n", name, m.labels, value)
}
