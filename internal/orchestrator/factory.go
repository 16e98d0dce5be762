package orchestrator

import (
	"fmt"

	"github.com/AaronLay10/SentientCutscene/internal/cutscene"
)

// newActionState instantiates the runtime state for one compiled action.
func (o *Orchestrator) newActionState(a cutscene.Action) ActionState {
	switch a := a.(type) {
	case cutscene.DialogueShow:
		return newDialogueShow(o.scene, o.timing, a)
	case cutscene.DialogueChorus:
		return newDialogueChorus(o.scene, o.timing, a)
	case cutscene.DialogueHide:
		return newDialogueHide(o.scene, a)
	case cutscene.BackgroundSet:
		return newBackgroundSet(o.scene, a)
	case cutscene.CharacterEnter:
		return newCharacterEnter(o.scene, a)
	case cutscene.CharacterExit:
		return newCharacterExit(o.scene, a)
	case cutscene.AudioPlay:
		return newAudioPlay(o.scene, o.sink, a)
	case cutscene.AudioSet:
		return newAudioSet(o.scene, o.sink, a)
	case cutscene.AudioStop:
		return newAudioStop(o.scene, o.sink, a)
	case cutscene.Choice:
		o.emit("choice.presented", map[string]interface{}{"prompt": a.Prompt, "options": len(a.Options)})
		return newChoice(o.scene, a)
	case cutscene.Goto:
		return newGoto(o.recordJump, a)
	case cutscene.Parallel:
		kids := make([]ActionState, 0, len(a.Actions))
		for _, child := range a.Actions {
			kids = append(kids, o.newActionState(child))
		}
		return newParallel(kids, a)
	default:
		// Action is sealed, so this only fires when a kind is added without
		// a runtime state.
		panic(fmt.Sprintf("orchestrator: no action state for %T", a))
	}
}
