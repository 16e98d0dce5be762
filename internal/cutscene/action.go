package cutscene

// Action is a compiled, typed action. The set of implementations is closed:
// only this package can add one.
type Action interface {
	Kind() ActionKind
	isAction()
}

// DialogueShow reveals a line spoken by one character.
type DialogueShow struct {
	CharacterID string
	Speaker     string
	Text        string
	Await       bool
}

// DialogueChorus reveals a line spoken by several characters at once.
type DialogueChorus struct {
	CharacterIDs []string
	Speakers     []string
	Text         string
	Await        bool
}

// DialogueHide hides the dialogue box.
type DialogueHide struct {
	Await bool
}

// BackgroundSet swaps the background image.
type BackgroundSet struct {
	BackgroundID string
	Image        string
	Transition   Transition
	DurationMs   int
	Await        bool
}

// CharacterEnter brings a character on screen in a pose.
type CharacterEnter struct {
	CharacterID string
	Pose        string
	Image       string
	Position    Position
	Transition  Transition
	DurationMs  int
	Await       bool
}

// CharacterExit removes a character from the screen.
type CharacterExit struct {
	CharacterID string
	Transition  Transition
	DurationMs  int
	Await       bool
}

// AudioPlay starts a sound on a bus. Pitch and Pan are nil when not authored.
type AudioPlay struct {
	Bus     Bus
	SoundID string
	File    string
	Volume  float64
	Pitch   *float64
	Pan     *float64
	Loop    bool
	Await   bool
}

// AudioSet changes the volume of a bus.
type AudioSet struct {
	Bus    Bus
	Volume float64
}

// AudioStop fades out and stops a bus.
type AudioStop struct {
	Bus    Bus
	FadeMs int
	Await  bool
}

// ChoiceOption is one selectable answer of a Choice.
type ChoiceOption struct {
	ID          string
	Line        string
	CutsceneID  string
	EntryBeatID string
}

// Choice presents options and redirects to the chosen option's beat.
type Choice struct {
	Prompt  string
	Options []ChoiceOption
}

// Goto jumps to another beat once the current beat completes.
type Goto struct {
	CutsceneID string
	BeatID     string
}

// Parallel runs its children side by side.
type Parallel struct {
	Actions []Action
	Await   bool
}

func (DialogueShow) Kind() ActionKind   { return KindDialogueShow }
func (DialogueChorus) Kind() ActionKind { return KindDialogueChorus }
func (DialogueHide) Kind() ActionKind   { return KindDialogueHide }
func (BackgroundSet) Kind() ActionKind  { return KindBackgroundSet }
func (CharacterEnter) Kind() ActionKind { return KindCharacterEnter }
func (CharacterExit) Kind() ActionKind  { return KindCharacterExit }
func (AudioPlay) Kind() ActionKind      { return KindAudioPlay }
func (AudioSet) Kind() ActionKind       { return KindAudioSet }
func (AudioStop) Kind() ActionKind      { return KindAudioStop }
func (Choice) Kind() ActionKind         { return KindChoice }
func (Goto) Kind() ActionKind           { return KindGoto }
func (Parallel) Kind() ActionKind       { return KindParallel }

func (DialogueShow) isAction()   {}
func (DialogueChorus) isAction() {}
func (DialogueHide) isAction()   {}
func (BackgroundSet) isAction()  {}
func (CharacterEnter) isAction() {}
func (CharacterExit) isAction()  {}
func (AudioPlay) isAction()      {}
func (AudioSet) isAction()       {}
func (AudioStop) isAction()      {}
func (Choice) isAction()         {}
func (Goto) isAction()           {}
func (Parallel) isAction()       {}

// AdvancePolicy is the compiled advance rule of a beat.
type AdvancePolicy struct {
	Mode      AdvanceMode
	DelayMs   int
	SignalKey string
}

// CompiledBeat is a beat ready for the orchestrator.
type CompiledBeat struct {
	ID      string
	Advance AdvancePolicy
	Actions []Action
}

// Script is a compiled cutscene.
type Script struct {
	CutsceneID string
	Variables  map[string]interface{}
	Beats      []CompiledBeat
}

// BeatIndex returns the index of the beat with the given id, or -1.
func (s *Script) BeatIndex(id string) int {
	for i := range s.Beats {
		if s.Beats[i].ID == id {
			return i
		}
	}
	return -1
}
