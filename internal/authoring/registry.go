package authoring

import (
	"fmt"

	"github.com/AaronLay10/SentientCutscene/internal/cutscene"
)

// ActionValidator checks one authored action of a known kind. reg is the
// registry performing the dispatch, so composite actions can recurse.
type ActionValidator func(reg *Registry, ctx *ValidationCtx, action cutscene.RawAction, path string) []AuthoringError

// Registry maps every action kind to its validator.
type Registry struct {
	validators map[cutscene.ActionKind]ActionValidator
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{validators: make(map[cutscene.ActionKind]ActionValidator)}
}

// DefaultRegistry returns a registry with a validator for every kind.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(cutscene.KindDialogueShow, validateDialogueShow)
	r.Register(cutscene.KindDialogueChorus, validateDialogueChorus)
	r.Register(cutscene.KindDialogueHide, validateDialogueHide)
	r.Register(cutscene.KindBackgroundSet, validateBackgroundSet)
	r.Register(cutscene.KindCharacterEnter, validateCharacterEnter)
	r.Register(cutscene.KindCharacterExit, validateCharacterExit)
	r.Register(cutscene.KindAudioPlay, validateAudioPlay)
	r.Register(cutscene.KindAudioSet, validateAudioSet)
	r.Register(cutscene.KindAudioStop, validateAudioStop)
	r.Register(cutscene.KindChoice, validateChoice)
	r.Register(cutscene.KindGoto, validateGoto)
	r.Register(cutscene.KindParallel, validateParallel)
	return r
}

// Register sets the validator for kind, replacing any previous one.
func (r *Registry) Register(kind cutscene.ActionKind, v ActionValidator) {
	r.validators[kind] = v
}

// Has reports whether kind has a validator.
func (r *Registry) Has(kind cutscene.ActionKind) bool {
	_, ok := r.validators[kind]
	return ok
}

// ValidateAction dispatches action to the validator of its kind.
func (r *Registry) ValidateAction(ctx *ValidationCtx, action cutscene.RawAction, path string) []AuthoringError {
	if action.Type == "" {
		if action.Fields["type"] != nil {
			return []AuthoringError{newError(CodeActionTypeInvalid, path+".type", "type must be a string")}
		}
		return []AuthoringError{newError(CodeActionTypeNull, path+".type", "action type is required")}
	}

	kind, ok := cutscene.ParseKind(action.Type)
	if !ok {
		return []AuthoringError{newError(CodeActionTypeInvalid, path+".type", "unknown action type %q", action.Type)}
	}

	v, ok := r.validators[kind]
	if !ok {
		return []AuthoringError{newError(CodeActionTypeInvalid, path+".type", "no validator registered for %s", kind)}
	}
	return v(r, ctx, action, path)
}

func actionPath(parent string, i int) string {
	return fmt.Sprintf("%s.actions[%d]", parent, i)
}
