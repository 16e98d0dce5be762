package orchestrator

import "github.com/AaronLay10/SentientCutscene/internal/cutscene"

// DialogueView is the dialogue box as a renderer should draw it.
type DialogueView struct {
	Visible      bool     `json:"visible"`
	Speaker      string   `json:"speaker,omitempty"`
	CharacterIDs []string `json:"character_ids,omitempty"`
	Text         string   `json:"text,omitempty"`
	Revealed     int      `json:"revealed"`
	Length       int      `json:"length"`
	Complete     bool     `json:"complete"`
}

// VisibleText returns the revealed prefix of the line.
func (d DialogueView) VisibleText() string {
	runes := []rune(d.Text)
	if d.Revealed >= len(runes) {
		return d.Text
	}
	return string(runes[:d.Revealed])
}

// BackgroundView is the background layer with its cross-fade state.
type BackgroundView struct {
	BackgroundID    string              `json:"background_id,omitempty"`
	Image           string              `json:"image,omitempty"`
	Opacity         float64             `json:"opacity"`
	PreviousImage   string              `json:"previous_image,omitempty"`
	PreviousOpacity float64             `json:"previous_opacity"`
	Transition      cutscene.Transition `json:"transition,omitempty"`
}

// CharacterView is one character slot on screen.
type CharacterView struct {
	CharacterID string            `json:"character_id"`
	Pose        string            `json:"pose,omitempty"`
	Image       string            `json:"image,omitempty"`
	Position    cutscene.Position `json:"position,omitempty"`
	OnScreen    bool              `json:"on_screen"`
	Opacity     float64           `json:"opacity"`
	XOffset     float64           `json:"x_offset"`
}

// BusView is the state of one audio bus.
type BusView struct {
	Bus     cutscene.Bus `json:"bus"`
	SoundID string       `json:"sound_id,omitempty"`
	File    string       `json:"file,omitempty"`
	Volume  float64      `json:"volume"`
	Loop    bool         `json:"loop"`
	Playing bool         `json:"playing"`
}

// ChoiceOptionView is one selectable option.
type ChoiceOptionView struct {
	ID   string `json:"id"`
	Line string `json:"line"`
}

// ChoiceView is the choice prompt, if one is waiting for the player.
type ChoiceView struct {
	Active  bool               `json:"active"`
	Prompt  string             `json:"prompt,omitempty"`
	Options []ChoiceOptionView `json:"options,omitempty"`
}

// Snapshot is a value copy of everything a renderer or operator needs.
// Holding it never gives access to orchestrator internals.
type Snapshot struct {
	CutsceneID    string          `json:"cutscene_id,omitempty"`
	Lifecycle     Lifecycle       `json:"lifecycle"`
	BeatIndex     int             `json:"beat_index"`
	BeatID        string          `json:"beat_id,omitempty"`
	Phase         BeatPhase       `json:"phase"`
	ActiveActions int             `json:"active_actions"`
	Blocking      bool            `json:"blocking"`
	Ticks         uint64          `json:"ticks"`
	ElapsedMs     int64           `json:"elapsed_ms"`
	Dialogue      DialogueView    `json:"dialogue"`
	Background    BackgroundView  `json:"background"`
	Characters    []CharacterView `json:"characters"`
	Buses         []BusView       `json:"buses"`
	Choice        ChoiceView      `json:"choice"`
}

// scene holds the render-facing sub-states mutated by action states.
type scene struct {
	dialogue   DialogueView
	background BackgroundView
	characters []*CharacterView
	buses      map[cutscene.Bus]*BusView
	choice     ChoiceView

	// owners counts claims per sub-state, see claim.
	owners map[string]int
}

func newScene() *scene {
	return &scene{
		buses: map[cutscene.Bus]*BusView{
			cutscene.BusMusic: {Bus: cutscene.BusMusic, Volume: 1},
			cutscene.BusSFX:   {Bus: cutscene.BusSFX, Volume: 1},
		},
		owners: make(map[string]int),
	}
}

// claim is a write lease on one sub-state. A newer claim on the same
// sub-state revokes the older one, so an effect still running from an
// earlier beat stops writing once a later action takes over.
type claim struct {
	sc  *scene
	key string
	gen int
}

func (s *scene) claim(key string) claim {
	s.owners[key]++
	return claim{sc: s, key: key, gen: s.owners[key]}
}

func (c claim) held() bool { return c.sc.owners[c.key] == c.gen }

const (
	dialogueSlot   = "dialogue"
	backgroundSlot = "background"
)

func characterSlot(id string) string { return "character:" + id }
func busSlot(b cutscene.Bus) string  { return "bus:" + string(b) }

// character returns the slot for id, creating it in first-entry order.
func (s *scene) character(id string) *CharacterView {
	for _, c := range s.characters {
		if c.CharacterID == id {
			return c
		}
	}
	c := &CharacterView{CharacterID: id}
	s.characters = append(s.characters, c)
	return c
}

func (s *scene) bus(b cutscene.Bus) *BusView {
	v, ok := s.buses[b]
	if !ok {
		v = &BusView{Bus: b, Volume: 1}
		s.buses[b] = v
	}
	return v
}

func (s *scene) snapshot(out *Snapshot) {
	out.Dialogue = s.dialogue
	out.Dialogue.CharacterIDs = append([]string(nil), s.dialogue.CharacterIDs...)
	out.Background = s.background

	out.Characters = make([]CharacterView, 0, len(s.characters))
	for _, c := range s.characters {
		out.Characters = append(out.Characters, *c)
	}

	out.Buses = make([]BusView, 0, len(s.buses))
	for _, b := range []cutscene.Bus{cutscene.BusMusic, cutscene.BusSFX} {
		if v, ok := s.buses[b]; ok {
			out.Buses = append(out.Buses, *v)
		}
	}

	out.Choice = s.choice
	out.Choice.Options = append([]ChoiceOptionView(nil), s.choice.Options...)
}
