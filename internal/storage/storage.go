// Package storage defines the event log shared by the storage backends.
package storage

import "time"

// EventRow is one persisted orchestrator event.
type EventRow struct {
	EventID   int64                  `json:"event_id"`
	Timestamp time.Time              `json:"ts"`
	Level     string                 `json:"level"`
	Event     string                 `json:"event"`
	Message   *string                `json:"msg,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	RoomID    string                 `json:"room_id"`
	SessionID *string                `json:"session_id,omitempty"`
}

// Store is an append-only event log scoped to one room.
type Store interface {
	Append(ts time.Time, level, event, msg string, fields map[string]interface{}, sessionID string) error
	// Query returns the newest events first.
	Query(limit int) ([]EventRow, error)
	Close() error
}

// ClampLimit bounds a query limit to (0, 10000], defaulting to 200.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return 200
	}
	if limit > 10000 {
		return 10000
	}
	return limit
}

// Chronological reverses rows returned by Query into oldest-first order.
func Chronological(rows []EventRow) []EventRow {
	out := make([]EventRow, len(rows))
	for i, r := range rows {
		out[len(rows)-1-i] = r
	}
	return out
}
