package cutscene

import (
	"bytes"
	"encoding/json"
)

// SchemaVersion is the only document schema version the engine accepts.
const SchemaVersion = 1

// EndBeatID is the pseudo beat that goto and choice targets may name to
// finish the cutscene.
const EndBeatID = "end"

// CurrentCutscene is the cutscene id that goto and choice targets use to
// refer to the cutscene they are declared in.
const CurrentCutscene = "current"

// Document is the top-level container loaded from JSON or YAML.
// It is treated as immutable once loaded.
type Document struct {
	SchemaVersion int          `json:"schemaVersion"`
	Characters    []Character  `json:"characters"`
	Backgrounds   []Background `json:"backgrounds"`
	Sounds        []Sound      `json:"sounds"`
	Cutscene      Cutscene     `json:"cutscene"`
}

// Character is a speaker that can appear on screen in one of its poses.
type Character struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Poses map[string]string `json:"poses"` // pose name -> image ref
}

// Background is a full-screen image.
type Background struct {
	ID    string `json:"id"`
	Image string `json:"image"`
}

// Sound is an audio clip playable on a bus.
type Sound struct {
	ID   string `json:"id"`
	File string `json:"file"`
}

// Cutscene is the ordered list of beats played by the orchestrator.
type Cutscene struct {
	ID        string                 `json:"id"`
	Variables map[string]interface{} `json:"variables,omitempty"`
	Beats     []Beat                 `json:"beats"`
}

// Beat is one step of a cutscene: a list of actions plus the advance
// policy gating progression to the next beat.
type Beat struct {
	ID      string      `json:"id"`
	Advance Fields      `json:"advance"`
	Actions []RawAction `json:"actions"`
}

// RawAction is an authored action before compilation. Type selects the
// ActionKind; every other key of the authored object lands in Fields.
type RawAction struct {
	Type   string
	Fields Fields
}

// Children returns the nested actions of a parallel group. ok is false
// when the actions key is missing or is not a list of objects.
func (a RawAction) Children() ([]RawAction, bool) {
	items, ok := a.Fields.List("actions")
	if !ok {
		return nil, false
	}
	out := make([]RawAction, 0, len(items))
	for _, item := range items {
		m, ok := AsFields(item)
		if !ok {
			return nil, false
		}
		out = append(out, ParseRawAction(m))
	}
	return out, true
}

// UnmarshalJSON keeps numbers as json.Number so integer and range checks
// see exactly what was authored.
func (a *RawAction) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*a = ParseRawAction(m)
	return nil
}

// MarshalJSON writes the action back in its authored shape.
func (a RawAction) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(a.Fields)+1)
	for k, v := range a.Fields {
		m[k] = v
	}
	if a.Type != "" {
		m["type"] = a.Type
	}
	return json.Marshal(m)
}

// ParseRawAction splits an authored object into its type and fields.
func ParseRawAction(m Fields) RawAction {
	fields := make(Fields, len(m))
	var typ string
	for k, v := range m {
		if k == "type" {
			if s, ok := v.(string); ok {
				typ = s
				continue
			}
		}
		fields[k] = v
	}
	return RawAction{Type: typ, Fields: fields}
}

// NewRawAction builds a raw action from a type string and its fields.
func NewRawAction(typ string, fields Fields) RawAction {
	if fields == nil {
		fields = Fields{}
	}
	return RawAction{Type: typ, Fields: fields}
}

// FindBeat returns the index of the beat with the given id, or -1.
func (c *Cutscene) FindBeat(id string) int {
	for i := range c.Beats {
		if c.Beats[i].ID == id {
			return i
		}
	}
	return -1
}

// FindCharacter returns the declared character with the given id.
func (d *Document) FindCharacter(id string) *Character {
	for i := range d.Characters {
		if d.Characters[i].ID == id {
			return &d.Characters[i]
		}
	}
	return nil
}

// FindBackground returns the declared background with the given id.
func (d *Document) FindBackground(id string) *Background {
	for i := range d.Backgrounds {
		if d.Backgrounds[i].ID == id {
			return &d.Backgrounds[i]
		}
	}
	return nil
}

// FindSound returns the declared sound with the given id.
func (d *Document) FindSound(id string) *Sound {
	for i := range d.Sounds {
		if d.Sounds[i].ID == id {
			return &d.Sounds[i]
		}
	}
	return nil
}
