package authoring

import (
	"fmt"

	"github.com/AaronLay10/SentientCutscene/internal/cutscene"
)

func validateDialogueShow(_ *Registry, ctx *ValidationCtx, a cutscene.RawAction, path string) []AuthoringError {
	c := newChecker(a.Fields, path)
	c.character(ctx, "characterId")
	c.str("text", false)
	c.boolean("await")
	return c.errs
}

func validateDialogueChorus(_ *Registry, ctx *ValidationCtx, a cutscene.RawAction, path string) []AuthoringError {
	c := newChecker(a.Fields, path)

	switch {
	case !a.Fields.Has("characterIds") || a.Fields["characterIds"] == nil:
		c.add(CodeFieldMissing, c.at("characterIds"), "characterIds is required")
	default:
		items, ok := a.Fields.List("characterIds")
		if !ok {
			c.add(CodeFieldNotList, c.at("characterIds"), "characterIds must be a list")
			break
		}
		if len(items) == 0 {
			c.add(CodeFieldEmpty, c.at("characterIds"), "characterIds must not be empty")
			break
		}
		for i, item := range items {
			p := fmt.Sprintf("%s[%d]", c.at("characterIds"), i)
			id, ok := item.(string)
			if !ok {
				c.add(CodeFieldNotString, p, "character id must be a string")
				continue
			}
			if !ctx.HasCharacter(id) {
				c.add(CodeUnknownCharacter, p, "character %q is not declared", id)
			}
		}
	}

	c.str("text", false)
	c.boolean("await")
	return c.errs
}

func validateDialogueHide(_ *Registry, _ *ValidationCtx, a cutscene.RawAction, path string) []AuthoringError {
	c := newChecker(a.Fields, path)
	c.boolean("await")
	return c.errs
}

func validateBackgroundSet(_ *Registry, ctx *ValidationCtx, a cutscene.RawAction, path string) []AuthoringError {
	c := newChecker(a.Fields, path)
	if id, ok := c.str("backgroundId", true); ok && !ctx.HasBackground(id) {
		c.add(CodeUnknownBackground, c.at("backgroundId"), "background %q is not declared", id)
	}
	c.transition()
	c.nonNegativeInt("duration")
	c.boolean("await")
	return c.errs
}

func validateCharacterEnter(_ *Registry, ctx *ValidationCtx, a cutscene.RawAction, path string) []AuthoringError {
	c := newChecker(a.Fields, path)
	id, known := c.character(ctx, "characterId")
	if pose, ok := c.str("pose", true); ok && known && !ctx.HasPose(id, pose) {
		c.add(CodeUnknownPose, c.at("pose"), "character %q has no pose %q", id, pose)
	}
	c.position()
	c.transition()
	c.nonNegativeInt("duration")
	c.boolean("await")
	return c.errs
}

func validateCharacterExit(_ *Registry, ctx *ValidationCtx, a cutscene.RawAction, path string) []AuthoringError {
	c := newChecker(a.Fields, path)
	c.character(ctx, "characterId")
	c.transition()
	c.nonNegativeInt("duration")
	c.boolean("await")
	return c.errs
}

func validateAudioPlay(_ *Registry, ctx *ValidationCtx, a cutscene.RawAction, path string) []AuthoringError {
	c := newChecker(a.Fields, path)
	c.bus()
	if id, ok := c.str("soundId", true); ok && !ctx.HasSound(id) {
		c.add(CodeUnknownSound, c.at("soundId"), "sound %q is not declared", id)
	}
	c.number("volume", 0, 1)
	c.optionalPositiveNumber("pitch")
	c.optionalNumber("pan", -1, 1)
	c.optionalBoolean("loop")
	c.boolean("await")
	return c.errs
}

func validateAudioSet(_ *Registry, _ *ValidationCtx, a cutscene.RawAction, path string) []AuthoringError {
	c := newChecker(a.Fields, path)
	c.bus(cutscene.BusMusic)
	c.number("volume", 0, 1)
	return c.errs
}

func validateAudioStop(_ *Registry, _ *ValidationCtx, a cutscene.RawAction, path string) []AuthoringError {
	c := newChecker(a.Fields, path)
	c.bus(cutscene.BusMusic)
	c.nonNegativeInt("fadeMs")
	c.boolean("await")
	return c.errs
}

func validateChoice(_ *Registry, ctx *ValidationCtx, a cutscene.RawAction, path string) []AuthoringError {
	c := newChecker(a.Fields, path)
	c.str("prompt", false)

	if !a.Fields.Has("choices") || a.Fields["choices"] == nil {
		c.add(CodeFieldMissing, c.at("choices"), "choices is required")
		return c.errs
	}
	items, ok := a.Fields.List("choices")
	if !ok {
		c.add(CodeFieldNotList, c.at("choices"), "choices must be a list")
		return c.errs
	}
	if len(items) == 0 {
		c.add(CodeFieldEmpty, c.at("choices"), "choices must not be empty")
		return c.errs
	}

	seen := map[string]struct{}{}
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", c.at("choices"), i)
		obj, ok := cutscene.AsFields(item)
		if !ok {
			c.add(CodeChoiceMalformed, p, "choice must be an object")
			continue
		}
		oc := newChecker(obj, p)

		if oc.fields.Has("id") {
			if id, ok := oc.str("id", true); ok {
				if _, dup := seen[id]; dup {
					oc.add(CodeChoiceIDTaken, oc.at("id"), "choice id %q is used twice", id)
				}
				seen[id] = struct{}{}
			}
		}
		oc.str("line", true)

		cutsceneID := cutscene.CurrentCutscene
		if oc.fields.Has("cutsceneId") {
			if s, ok := oc.str("cutsceneId", true); ok {
				cutsceneID = s
			}
		}
		if beat, ok := oc.str("entryBeatId", true); ok && cutsceneID == cutscene.CurrentCutscene && !ctx.HasBeat(beat) {
			oc.add(CodeUnknownBeat, oc.at("entryBeatId"), "beat %q does not exist", beat)
		}

		c.errs = append(c.errs, oc.errs...)
	}
	return c.errs
}

func validateGoto(_ *Registry, ctx *ValidationCtx, a cutscene.RawAction, path string) []AuthoringError {
	target := cutscene.GotoTarget(a.Fields)
	p := path
	if a.Fields.Has("goto") {
		p = path + ".goto"
	}
	c := newChecker(target, p)

	cutsceneID, okCutscene := c.str("cutsceneId", true)
	beat, okBeat := c.str("beatId", true)
	if okCutscene && okBeat && cutsceneID == cutscene.CurrentCutscene && !ctx.HasBeat(beat) {
		c.add(CodeUnknownBeat, c.at("beatId"), "beat %q does not exist", beat)
	}
	return c.errs
}

func validateParallel(reg *Registry, ctx *ValidationCtx, a cutscene.RawAction, path string) []AuthoringError {
	c := newChecker(a.Fields, path)
	c.boolean("await")

	if !a.Fields.Has("actions") || a.Fields["actions"] == nil {
		c.add(CodeFieldMissing, c.at("actions"), "actions is required")
		return c.errs
	}
	items, ok := a.Fields.List("actions")
	if !ok {
		c.add(CodeFieldNotList, c.at("actions"), "actions must be a list")
		return c.errs
	}
	if len(items) == 0 {
		c.add(CodeFieldEmpty, c.at("actions"), "actions must not be empty")
		return c.errs
	}

	for j, item := range items {
		childPath := actionPath(path, j)
		obj, ok := cutscene.AsFields(item)
		if !ok {
			c.add(CodeActionMalformed, childPath, "action must be an object")
			continue
		}
		c.errs = append(c.errs, reg.ValidateAction(ctx, cutscene.ParseRawAction(obj), childPath)...)
	}
	return c.errs
}
