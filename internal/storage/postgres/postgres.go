package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/lib/pq"

	"github.com/AaronLay10/SentientCutscene/internal/storage"
)

// Config holds connection settings, read from the standard PG* variables.
type Config struct {
	Host     string `env:"PGHOST" envDefault:"127.0.0.1"`
	Port     int    `env:"PGPORT" envDefault:"5432"`
	User     string `env:"PGUSER" envDefault:"sentient"`
	Database string `env:"PGDATABASE" envDefault:"sentient"`
	SSLMode  string `env:"PGSSLMODE" envDefault:"disable"`
	Password string
}

// ConfigFromEnv reads Config from the environment. The password is passed
// separately so callers can resolve it through a *_FILE secret.
func ConfigFromEnv(password string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse postgres env: %w", err)
	}
	cfg.Password = password
	return cfg, nil
}

// DSN renders the lib/pq connection string.
func (c Config) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s", c.Host, c.Port, c.User, c.Database, c.SSLMode)
	if c.Password != "" {
		dsn += " password=" + c.Password
	}
	return dsn
}

// Client stores cutscene events in Postgres.
type Client struct {
	db     *sql.DB
	roomID string
}

var _ storage.Store = (*Client)(nil)

// New connects to Postgres and creates the events table if needed.
func New(cfg Config, roomID string) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	client := &Client{
		db:     db,
		roomID: roomID,
	}

	if err := client.createTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cutscene_events table: %w", err)
	}

	return client, nil
}

func (c *Client) createTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS cutscene_events (
			event_id   BIGSERIAL PRIMARY KEY,
			ts         TIMESTAMPTZ NOT NULL,
			level      TEXT NOT NULL,
			event      TEXT NOT NULL,
			msg        TEXT,
			fields     JSONB,
			room_id    TEXT NOT NULL,
			session_id TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_cutscene_events_ts ON cutscene_events(ts DESC);
		CREATE INDEX IF NOT EXISTS idx_cutscene_events_session ON cutscene_events(room_id, session_id);
	`
	_, err := c.db.Exec(query)
	return err
}

// Append inserts an event.
func (c *Client) Append(ts time.Time, level, event, msg string, fields map[string]interface{}, sessionID string) error {
	var fieldsJSON []byte
	if fields != nil {
		var err error
		fieldsJSON, err = json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("failed to marshal fields: %w", err)
		}
	}

	_, err := c.db.Exec(`
		INSERT INTO cutscene_events (ts, level, event, msg, fields, room_id, session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, ts, level, event, nullable(msg), fieldsJSON, c.roomID, nullable(sessionID))
	return err
}

// Query returns the last limit events of the room, newest first.
func (c *Client) Query(limit int) ([]storage.EventRow, error) {
	rows, err := c.db.Query(`
		SELECT event_id, ts, level, event, msg, fields, room_id, session_id
		FROM cutscene_events
		WHERE room_id = $1
		ORDER BY ts DESC, event_id DESC
		LIMIT $2
	`, c.roomID, storage.ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.EventRow
	for rows.Next() {
		var e storage.EventRow
		var fieldsJSON []byte
		var msg, sessionID sql.NullString

		if err := rows.Scan(&e.EventID, &e.Timestamp, &e.Level, &e.Event, &msg, &fieldsJSON, &e.RoomID, &sessionID); err != nil {
			return nil, err
		}
		if msg.Valid {
			e.Message = &msg.String
		}
		if sessionID.Valid {
			e.SessionID = &sessionID.String
		}
		if len(fieldsJSON) > 0 {
			if err := json.Unmarshal(fieldsJSON, &e.Fields); err != nil {
				return nil, fmt.Errorf("failed to unmarshal fields: %w", err)
			}
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

// Close closes the database connection.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
