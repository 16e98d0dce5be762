package cutscene

import "fmt"

// ActionKind is the closed set of authored action types.
type ActionKind int

const (
	KindDialogueShow ActionKind = iota + 1
	KindDialogueChorus
	KindDialogueHide
	KindBackgroundSet
	KindCharacterEnter
	KindCharacterExit
	KindAudioPlay
	KindAudioSet
	KindAudioStop
	KindChoice
	KindGoto
	KindParallel
)

var kindNames = map[ActionKind]string{
	KindDialogueShow:   "dialogue.show",
	KindDialogueChorus: "dialogue.chorus",
	KindDialogueHide:   "dialogue.hide",
	KindBackgroundSet:  "background.set",
	KindCharacterEnter: "character.enter",
	KindCharacterExit:  "character.exit",
	KindAudioPlay:      "audio.play",
	KindAudioSet:       "audio.set",
	KindAudioStop:      "audio.stop",
	KindChoice:         "choice",
	KindGoto:           "goto",
	KindParallel:       "parallel",
}

var kindsByName = func() map[string]ActionKind {
	m := make(map[string]ActionKind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

// Kinds lists every action kind in declaration order.
func Kinds() []ActionKind {
	out := make([]ActionKind, 0, len(kindNames))
	for k := KindDialogueShow; k <= KindParallel; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind maps an authored type string to its kind.
func ParseKind(s string) (ActionKind, bool) {
	k, ok := kindsByName[s]
	return k, ok
}

func (k ActionKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// Transition is how a visual element changes on screen.
type Transition string

const (
	TransitionFade    Transition = "fade"
	TransitionSlide   Transition = "slide"
	TransitionPop     Transition = "pop"
	TransitionReplace Transition = "replace"
)

// ParseTransition validates an authored transition name.
func ParseTransition(s string) (Transition, bool) {
	switch t := Transition(s); t {
	case TransitionFade, TransitionSlide, TransitionPop, TransitionReplace:
		return t, true
	}
	return "", false
}

// Position is the side of the screen a character stands on.
type Position string

const (
	PositionLeft  Position = "left"
	PositionRight Position = "right"
)

// ParsePosition validates an authored position name.
func ParsePosition(s string) (Position, bool) {
	switch p := Position(s); p {
	case PositionLeft, PositionRight:
		return p, true
	}
	return "", false
}

// Bus is an audio channel.
type Bus string

const (
	BusSFX   Bus = "sfx"
	BusMusic Bus = "music"
)

// ParseBus validates an authored bus name.
func ParseBus(s string) (Bus, bool) {
	switch b := Bus(s); b {
	case BusSFX, BusMusic:
		return b, true
	}
	return "", false
}

// AdvanceMode selects the policy that lets a beat complete.
type AdvanceMode string

const (
	AdvanceInput     AdvanceMode = "input"
	AdvanceAuto      AdvanceMode = "auto"
	AdvanceAutoDelay AdvanceMode = "auto_delay"
	AdvanceSignal    AdvanceMode = "signal"
)

// ParseAdvanceMode validates an authored advance mode.
func ParseAdvanceMode(s string) (AdvanceMode, bool) {
	switch m := AdvanceMode(s); m {
	case AdvanceInput, AdvanceAuto, AdvanceAutoDelay, AdvanceSignal:
		return m, true
	}
	return "", false
}
