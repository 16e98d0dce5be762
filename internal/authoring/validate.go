package authoring

import (
	"fmt"
	"sort"

	"github.com/AaronLay10/SentientCutscene/internal/cutscene"
)

const rootPath = "doc"

var defaultRegistry = DefaultRegistry()

// Validate checks doc with the default registry. It never panics and
// returns every problem found; an empty result means the document is
// safe to compile and load.
func Validate(doc *cutscene.Document) []AuthoringError {
	return defaultRegistry.Validate(doc)
}

// Validate checks doc against this registry. The result depends only on
// doc, so repeated calls return equal lists.
func (r *Registry) Validate(doc *cutscene.Document) []AuthoringError {
	if doc == nil {
		return []AuthoringError{newError(CodeDocNull, rootPath, "document is null")}
	}
	if doc.SchemaVersion != cutscene.SchemaVersion {
		return []AuthoringError{newError(CodeInvalidSchema, rootPath+".schemaVersion",
			"unsupported schema version %d, expected %d", doc.SchemaVersion, cutscene.SchemaVersion)}
	}

	var errs []AuthoringError
	errs = append(errs, validateCharacters(doc)...)
	errs = append(errs, validateBackgrounds(doc)...)
	errs = append(errs, validateSounds(doc)...)

	ctx := NewValidationCtx(doc)
	errs = append(errs, r.validateCutscene(ctx, &doc.Cutscene)...)

	return errs
}

func validateCharacters(doc *cutscene.Document) []AuthoringError {
	var errs []AuthoringError
	seen := map[string]struct{}{}

	for i, c := range doc.Characters {
		path := fmt.Sprintf("%s.characters[%d]", rootPath, i)
		if c.ID == "" {
			errs = append(errs, newError(CodeCharacterIDNull, path+".id", "character id is required"))
		} else {
			if _, dup := seen[c.ID]; dup {
				errs = append(errs, newError(CodeCharacterIDTaken, path+".id", "character id %q is declared twice", c.ID))
			}
			seen[c.ID] = struct{}{}
		}
		if c.Name == "" {
			errs = append(errs, newError(CodeCharacterNameNull, path+".name", "character name is required"))
		}
		if len(c.Poses) == 0 {
			errs = append(errs, newError(CodeCharacterPosesEmpty, path+".poses", "character needs at least one pose"))
			continue
		}
		for _, pose := range sortedKeys(c.Poses) {
			if pose == "" || c.Poses[pose] == "" {
				errs = append(errs, newError(CodeCharacterPoseEmpty, path+".poses."+pose, "pose needs a name and an image"))
			}
		}
	}
	return errs
}

func validateBackgrounds(doc *cutscene.Document) []AuthoringError {
	var errs []AuthoringError
	seen := map[string]struct{}{}

	for i, b := range doc.Backgrounds {
		path := fmt.Sprintf("%s.backgrounds[%d]", rootPath, i)
		if b.ID == "" {
			errs = append(errs, newError(CodeBackgroundIDNull, path+".id", "background id is required"))
		} else {
			if _, dup := seen[b.ID]; dup {
				errs = append(errs, newError(CodeBackgroundIDTaken, path+".id", "background id %q is declared twice", b.ID))
			}
			seen[b.ID] = struct{}{}
		}
		if b.Image == "" {
			errs = append(errs, newError(CodeBackgroundImageNull, path+".image", "background image is required"))
		}
	}
	return errs
}

func validateSounds(doc *cutscene.Document) []AuthoringError {
	var errs []AuthoringError
	seen := map[string]struct{}{}

	for i, s := range doc.Sounds {
		path := fmt.Sprintf("%s.sounds[%d]", rootPath, i)
		if s.ID == "" {
			errs = append(errs, newError(CodeSoundIDNull, path+".id", "sound id is required"))
		} else {
			if _, dup := seen[s.ID]; dup {
				errs = append(errs, newError(CodeSoundIDTaken, path+".id", "sound id %q is declared twice", s.ID))
			}
			seen[s.ID] = struct{}{}
		}
		if s.File == "" {
			errs = append(errs, newError(CodeSoundFileNull, path+".file", "sound file is required"))
		}
	}
	return errs
}

func (r *Registry) validateCutscene(ctx *ValidationCtx, c *cutscene.Cutscene) []AuthoringError {
	var errs []AuthoringError
	base := rootPath + ".cutscene"

	if c.ID == "" {
		errs = append(errs, newError(CodeCutsceneIDNull, base+".id", "cutscene id is required"))
	}
	if len(c.Beats) == 0 {
		errs = append(errs, newError(CodeCutsceneBeatsEmpty, base+".beats", "cutscene needs at least one beat"))
		return errs
	}

	seen := map[string]struct{}{}
	for i, beat := range c.Beats {
		path := beatPath(beat.ID, i)
		switch {
		case beat.ID == "":
			errs = append(errs, newError(CodeBeatIDNull, path+".id", "beat id is required"))
		case beat.ID == cutscene.EndBeatID:
			errs = append(errs, newError(CodeBeatIDTaken, path+".id", "beat id %q is reserved", beat.ID))
		default:
			if _, dup := seen[beat.ID]; dup {
				errs = append(errs, newError(CodeBeatIDTaken, path+".id", "beat id %q is declared twice", beat.ID))
			}
			seen[beat.ID] = struct{}{}
		}

		errs = append(errs, validateAdvance(beat.Advance, path+".advance")...)

		if len(beat.Actions) == 0 {
			errs = append(errs, newError(CodeBeatActionsEmpty, path+".actions", "beat needs at least one action"))
			continue
		}
		for j, action := range beat.Actions {
			errs = append(errs, r.ValidateAction(ctx, action, actionPath(path, j))...)
		}
	}
	return errs
}

func validateAdvance(f cutscene.Fields, path string) []AuthoringError {
	if f == nil {
		return []AuthoringError{newError(CodeBeatAdvanceNull, path, "advance policy is required")}
	}

	s, _ := f.String("mode")
	mode, ok := cutscene.ParseAdvanceMode(s)
	if !ok {
		return []AuthoringError{newError(CodeBeatAdvanceModeInvalid, path+".mode", "unknown advance mode %q", s)}
	}

	var errs []AuthoringError
	allowed := map[string]bool{"mode": true}

	switch mode {
	case cutscene.AdvanceAutoDelay:
		allowed["delayMs"] = true
		if d, ok := f.Int("delayMs"); !ok || d < 0 {
			errs = append(errs, newError(CodeBeatAdvanceDelayInvalid, path+".delayMs", "auto_delay needs a non-negative integer delayMs"))
		}
	case cutscene.AdvanceSignal:
		allowed["signalKey"] = true
		if k, ok := f.String("signalKey"); !ok || k == "" {
			errs = append(errs, newError(CodeBeatAdvanceSignalInvalid, path+".signalKey", "signal needs a non-empty signalKey"))
		}
	}

	for _, key := range sortedKeys(f) {
		if !allowed[key] {
			errs = append(errs, newError(CodeBeatAdvanceUnexpected, path+"."+key, "%s is not used by %s advance", key, mode))
		}
	}
	return errs
}

func beatPath(id string, i int) string {
	if id == "" {
		return fmt.Sprintf("%s.cutscene.beats[%d]", rootPath, i)
	}
	return fmt.Sprintf("%s.cutscene.beats.%s", rootPath, id)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
