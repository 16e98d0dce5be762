// Package sqlite stores cutscene events in a local SQLite file, for game
// clients that run without a database server.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/AaronLay10/SentientCutscene/internal/storage"
)

const timeFormat = time.RFC3339Nano

// Store is a SQLite-backed event log.
type Store struct {
	sqlDB  *sql.DB
	roomID string
}

var _ storage.Store = (*Store)(nil)

// Open opens or creates the event log at path.
func Open(path, roomID string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &Store{sqlDB: sqlDB, roomID: roomID}
	if err := s.migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create cutscene_events table: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.sqlDB.Exec(`
		CREATE TABLE IF NOT EXISTS cutscene_events (
			event_id   INTEGER PRIMARY KEY AUTOINCREMENT,
			ts         TEXT NOT NULL,
			level      TEXT NOT NULL,
			event      TEXT NOT NULL,
			msg        TEXT,
			fields     TEXT,
			room_id    TEXT NOT NULL,
			session_id TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_cutscene_events_room ON cutscene_events(room_id, event_id);
	`)
	return err
}

// Append inserts an event.
func (s *Store) Append(ts time.Time, level, event, msg string, fields map[string]interface{}, sessionID string) error {
	var fieldsJSON sql.NullString
	if fields != nil {
		b, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("marshal fields: %w", err)
		}
		fieldsJSON = sql.NullString{String: string(b), Valid: true}
	}

	_, err := s.sqlDB.Exec(
		`INSERT INTO cutscene_events (ts, level, event, msg, fields, room_id, session_id) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ts.UTC().Format(timeFormat), level, event, nullString(msg), fieldsJSON, s.roomID, nullString(sessionID),
	)
	return err
}

// Query returns the last limit events of the room, newest first. Insertion
// order breaks timestamp ties.
func (s *Store) Query(limit int) ([]storage.EventRow, error) {
	rows, err := s.sqlDB.Query(`
		SELECT event_id, ts, level, event, msg, fields, room_id, session_id
		FROM cutscene_events
		WHERE room_id = ?
		ORDER BY event_id DESC
		LIMIT ?
	`, s.roomID, storage.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []storage.EventRow
	for rows.Next() {
		var (
			e                      storage.EventRow
			ts                     string
			msg, fields, sessionID sql.NullString
		)
		if err := rows.Scan(&e.EventID, &ts, &e.Level, &e.Event, &msg, &fields, &e.RoomID, &sessionID); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Timestamp, err = time.Parse(timeFormat, ts)
		if err != nil {
			return nil, fmt.Errorf("parse event time: %w", err)
		}
		if msg.Valid {
			e.Message = &msg.String
		}
		if sessionID.Valid {
			e.SessionID = &sessionID.String
		}
		if fields.Valid && fields.String != "" {
			if err := json.Unmarshal([]byte(fields.String), &e.Fields); err != nil {
				return nil, fmt.Errorf("unmarshal fields: %w", err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
