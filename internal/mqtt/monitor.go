package mqtt

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AaronLay10/SentientCutscene/internal/events"
)

// DefaultHeartbeatSec is assumed when a heartbeat does not state its interval.
const DefaultHeartbeatSec = 5

// Heartbeat is the payload devices publish on their heartbeat topic.
type Heartbeat struct {
	Role         string `json:"role"` // e.g. "renderer", "audio"
	HeartbeatSec int    `json:"heartbeat_sec"`
}

// DeviceState tracks an output device's presence.
type DeviceState struct {
	DeviceID     string
	Role         string
	LastSeen     time.Time
	HeartbeatSec int
	Connected    bool
}

// Monitor tracks renderer and audio devices by their heartbeats.
type Monitor struct {
	mu        sync.RWMutex
	devices   map[string]*DeviceState
	tolerance float64 // multiplier for heartbeat interval (e.g., 2.0 = 2x heartbeat)
	now       func() time.Time
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewMonitor creates a new device monitor.
// tolerance is the multiplier for heartbeat interval before considering disconnected.
func NewMonitor(tolerance float64) *Monitor {
	if tolerance <= 1.0 {
		tolerance = 2.0 // default: miss 1 heartbeat
	}
	return &Monitor{
		devices:   make(map[string]*DeviceState),
		tolerance: tolerance,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// HandleHeartbeat records a heartbeat and emits device.connected when the
// device is new or comes back after a timeout.
func (m *Monitor) HandleHeartbeat(deviceID string, payload []byte) error {
	var hb Heartbeat
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &hb); err != nil {
			return fmt.Errorf("heartbeat from %s: %w", deviceID, err)
		}
	}
	if hb.HeartbeatSec <= 0 {
		hb.HeartbeatSec = DefaultHeartbeatSec
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, known := m.devices[deviceID]
	wasConnected := known && existing.Connected

	m.devices[deviceID] = &DeviceState{
		DeviceID:     deviceID,
		Role:         hb.Role,
		LastSeen:     m.now(),
		HeartbeatSec: hb.HeartbeatSec,
		Connected:    true,
	}

	if !wasConnected {
		events.Emit("info", "device.connected", "", map[string]interface{}{
			"device_id": deviceID,
			"role":      hb.Role,
			"reconnect": known,
		})
	}
	return nil
}

// Start begins the background health check loop.
func (m *Monitor) Start(checkInterval time.Duration) {
	m.wg.Add(1)
	go m.healthCheckLoop(checkInterval)
}

// Stop stops the background health check loop.
func (m *Monitor) Stop() {
	close(m.stopCh)
	m.wg.Wait()
}

func (m *Monitor) healthCheckLoop(interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.checkHealth()
		}
	}
}

func (m *Monitor) checkHealth() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, state := range m.devices {
		if !state.Connected {
			continue
		}

		timeout := time.Duration(float64(state.HeartbeatSec)*m.tolerance) * time.Second
		if now.Sub(state.LastSeen) > timeout {
			state.Connected = false
			events.Emit("warn", "device.disconnected", "heartbeat timeout", map[string]interface{}{
				"device_id":   id,
				"role":        state.Role,
				"last_seen":   state.LastSeen.Format(time.RFC3339),
				"timeout_sec": timeout.Seconds(),
			})
		}
	}
}

// GetDeviceState returns a copy of a device's state, or nil.
func (m *Monitor) GetDeviceState(deviceID string) *DeviceState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if state, ok := m.devices[deviceID]; ok {
		cpy := *state
		return &cpy
	}
	return nil
}

// ConnectedDevices returns the ids of connected devices, sorted.
func (m *Monitor) ConnectedDevices() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, state := range m.devices {
		if state.Connected {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
