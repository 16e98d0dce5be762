package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/AaronLay10/SentientCutscene/internal/storage"
)

func openTestStore(t *testing.T, room string) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "events.db"), room)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  ", "room"); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestAppendAndQuery(t *testing.T) {
	s := openTestStore(t, "lab")
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := s.Append(base, "info", "cutscene.loaded", "", map[string]interface{}{"cutscene_id": "intro"}, "sess-1"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := s.Append(base, "info", "beat.started", "", map[string]interface{}{"beat_id": "opening", "index": 0}, "sess-1"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := s.Append(base.Add(time.Second), "error", "system.error", "boom", nil, ""); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	rows, err := s.Query(10)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Event != "system.error" || rows[0].Message == nil || *rows[0].Message != "boom" {
		t.Errorf("expected newest row first, got %+v", rows[0])
	}
	if rows[0].SessionID != nil || rows[0].Fields != nil {
		t.Errorf("empty session and fields should stay null, got %+v", rows[0])
	}
	if rows[1].Event != "beat.started" || rows[1].Fields["beat_id"] != "opening" {
		t.Errorf("unexpected second row %+v", rows[1])
	}
	if rows[2].SessionID == nil || *rows[2].SessionID != "sess-1" || !rows[2].Timestamp.Equal(base) {
		t.Errorf("unexpected oldest row %+v", rows[2])
	}

	ordered := storage.Chronological(rows)
	if ordered[0].Event != "cutscene.loaded" {
		t.Errorf("expected chronological order, got %s first", ordered[0].Event)
	}
}

func TestQueryIsScopedToRoom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shared.db")

	a, err := Open(path, "a")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer a.Close()
	if err := a.Append(time.Now(), "info", "beat.started", "", nil, ""); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	b, err := Open(path, "b")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer b.Close()
	rows, err := b.Query(0)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows for room b, got %d", len(rows))
	}
}
