package api

import (
	"net/http"
	"sync"
)

// readiness tracks the dependencies /ready reports on. Optional
// dependencies may be down without failing the check.
var readiness = &readinessState{}

type readinessState struct {
	mu sync.RWMutex
	dependencies
}

type dependencies struct {
	playerReady    bool
	mqttConnected  bool
	mqttOptional   bool
	storeConnected bool
	storeOptional  bool
}

// SetPlayerReady marks whether a cutscene is loaded and ticking.
func SetPlayerReady(ready bool) {
	readiness.mu.Lock()
	readiness.playerReady = ready
	readiness.mu.Unlock()
}

// SetMQTTState records broker connectivity.
func SetMQTTState(connected, optional bool) {
	readiness.mu.Lock()
	readiness.mqttConnected = connected
	readiness.mqttOptional = optional
	readiness.mu.Unlock()
}

// SetStoreState records event store connectivity.
func SetStoreState(connected, optional bool) {
	readiness.mu.Lock()
	readiness.storeConnected = connected
	readiness.storeOptional = optional
	readiness.mu.Unlock()
}

type Check struct {
	Status   string `json:"status"`
	Optional bool   `json:"optional,omitempty"`
}

type ReadinessResponse struct {
	Ready   bool             `json:"ready"`
	Checks  map[string]Check `json:"checks"`
	Message string           `json:"message,omitempty"`
}

func dependencyCheck(up, optional bool) (Check, bool) {
	switch {
	case up:
		return Check{Status: "ok", Optional: optional}, true
	case optional:
		return Check{Status: "unavailable", Optional: true}, true
	}
	return Check{Status: "not_connected"}, false
}

func readyHandler(w http.ResponseWriter, r *http.Request) {
	readiness.mu.RLock()
	s := readiness.dependencies
	readiness.mu.RUnlock()

	resp := ReadinessResponse{Ready: true, Checks: make(map[string]Check, 3)}

	if s.playerReady {
		resp.Checks["player"] = Check{Status: "ok"}
	} else {
		resp.Checks["player"] = Check{Status: "not_ready"}
		resp.Ready = false
		resp.Message = "player has no cutscene loaded"
	}

	var ok bool
	if resp.Checks["mqtt"], ok = dependencyCheck(s.mqttConnected, s.mqttOptional); !ok {
		resp.Ready = false
		resp.Message = "required dependency unavailable"
	}
	if resp.Checks["store"], ok = dependencyCheck(s.storeConnected, s.storeOptional); !ok {
		resp.Ready = false
		resp.Message = "required dependency unavailable"
	}

	status := http.StatusOK
	if !resp.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
