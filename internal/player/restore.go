package player

import (
	"fmt"

	"github.com/AaronLay10/SentientCutscene/internal/events"
	"github.com/AaronLay10/SentientCutscene/internal/orchestrator"
	"github.com/AaronLay10/SentientCutscene/internal/storage"
)

// DefaultRestoreLimit is the default number of events to load for restore.
const DefaultRestoreLimit = 1000

// Resumption is where an interrupted playback session left off.
type Resumption struct {
	SessionID  string
	CutsceneID string
	BeatID     string
}

// RestoreFromEvents replays the persisted event log and returns the beat
// an unfinished session was on. It returns nil when the last session ended
// or nothing was recorded, along with the number of rows read.
func RestoreFromEvents(store storage.Store, limit int) (*Resumption, int, error) {
	if store == nil {
		return nil, 0, nil
	}
	if limit <= 0 {
		limit = DefaultRestoreLimit
	}

	rows, err := store.Query(limit)
	if err != nil {
		return nil, 0, err
	}

	var r *Resumption
	for _, row := range storage.Chronological(rows) {
		switch row.Event {
		case "cutscene.loaded":
			id, _ := row.Fields["cutscene_id"].(string)
			r = &Resumption{CutsceneID: id}
			if row.SessionID != nil {
				r.SessionID = *row.SessionID
			}

		case "beat.started":
			if r != nil {
				r.BeatID, _ = row.Fields["beat_id"].(string)
			}

		case "cutscene.finished", "cutscene.stopped":
			r = nil
		}
	}

	if r == nil || r.CutsceneID == "" || r.BeatID == "" {
		return nil, len(rows), nil
	}
	return r, len(rows), nil
}

// Resume moves a freshly loaded player to the beat r points at. When r
// names a different cutscene it is fetched from resolver first. The
// session id is carried over so the log reads as one session.
func (p *Player) Resume(r *Resumption, resolver orchestrator.CutsceneResolver) error {
	if r == nil {
		return nil
	}

	if p.orch.State().CutsceneID != r.CutsceneID {
		if resolver == nil {
			return fmt.Errorf("cannot resume cutscene %s: no library configured", r.CutsceneID)
		}
		script, err := resolver.Resolve(r.CutsceneID)
		if err != nil {
			return fmt.Errorf("cannot resume cutscene %s: %w", r.CutsceneID, err)
		}
		if err := p.LoadScript(script); err != nil {
			return err
		}
	}
	if r.SessionID != "" {
		events.SetSessionID(r.SessionID)
	}

	if err := p.orch.GotoBeat(r.BeatID); err != nil {
		return err
	}
	p.publish()
	return nil
}
