package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var buffer = NewRingBuffer(256)

// Store persists emitted events. Both storage backends implement it.
type Store interface {
	Append(ts time.Time, level, event, msg string, fields map[string]interface{}, sessionID string) error
}

var (
	persist      *writer
	storeMu      sync.RWMutex
	sessionID    string
	totalEmitted atomic.Uint64
)

// SetStore sets the store used for event persistence. Nil disables it.
// Events still queued for the previous store are written before SetStore
// returns, so SetStore(nil) doubles as a flush on shutdown.
func SetStore(s Store) {
	storeMu.Lock()
	old := persist
	persist = nil
	if s != nil {
		persist = newWriter(s)
	}
	if old != nil {
		close(old.queue)
	}
	storeMu.Unlock()

	if old != nil {
		<-old.done
	}
}

// GetStore returns the current store (for API queries).
func GetStore() Store {
	storeMu.RLock()
	defer storeMu.RUnlock()
	if persist == nil {
		return nil
	}
	return persist.store
}

// StartSession stamps subsequent events with a fresh playback session id
// and returns it.
func StartSession() string {
	id := uuid.NewString()
	SetSessionID(id)
	return id
}

// SetSessionID sets the session id stamped on persisted events.
func SetSessionID(id string) {
	storeMu.Lock()
	sessionID = id
	storeMu.Unlock()
}

// SessionID returns the current playback session id.
func SessionID() string {
	storeMu.RLock()
	defer storeMu.RUnlock()
	return sessionID
}

type Event struct {
	Timestamp string                 `json:"ts"`
	Level     string                 `json:"level"`
	Name      string                 `json:"event"`
	Message   string                 `json:"msg,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func Emit(level, name, msg string, fields map[string]interface{}) ([]byte, error) {
	if err := Validate(name); err != nil {
		return nil, err
	}

	ts := time.Now().UTC()
	e := Event{
		Timestamp: ts.Format(time.RFC3339Nano),
		Level:     level,
		Name:      name,
		Message:   msg,
		Fields:    fields,
	}

	buffer.Add(e)
	totalEmitted.Add(1)
	broadcast(e)

	storeMu.RLock()
	if persist != nil {
		persist.enqueue(record{ts: ts, level: level, name: name, msg: msg, fields: fields, session: sessionID})
	}
	storeMu.RUnlock()

	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	return b, nil
}

func Snapshot() []Event {
	return buffer.Snapshot()
}

// TotalCount returns how many events were emitted since startup.
func TotalCount() uint64 {
	return totalEmitted.Load()
}

// Clear resets the event buffer. Used for testing.
func Clear() {
	buffer.Clear()
}
