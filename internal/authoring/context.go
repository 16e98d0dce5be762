package authoring

import "github.com/AaronLay10/SentientCutscene/internal/cutscene"

type set map[string]struct{}

func (s set) has(id string) bool {
	_, ok := s[id]
	return ok
}

// ValidationCtx is the set of identifiers a document declares. It is built
// once per validation pass and never mutated afterwards.
type ValidationCtx struct {
	characterIDs   set
	backgroundIDs  set
	soundIDs       set
	beatIDs        set
	characterPoses map[string]set
}

// NewValidationCtx collects the declared identifiers of doc. The pseudo
// beat "end" is always a known beat.
func NewValidationCtx(doc *cutscene.Document) *ValidationCtx {
	ctx := &ValidationCtx{
		characterIDs:   set{},
		backgroundIDs:  set{},
		soundIDs:       set{},
		beatIDs:        set{cutscene.EndBeatID: {}},
		characterPoses: map[string]set{},
	}
	if doc == nil {
		return ctx
	}

	for _, c := range doc.Characters {
		if c.ID == "" {
			continue
		}
		ctx.characterIDs[c.ID] = struct{}{}
		poses, ok := ctx.characterPoses[c.ID]
		if !ok {
			poses = set{}
			ctx.characterPoses[c.ID] = poses
		}
		for pose := range c.Poses {
			poses[pose] = struct{}{}
		}
	}
	for _, b := range doc.Backgrounds {
		if b.ID != "" {
			ctx.backgroundIDs[b.ID] = struct{}{}
		}
	}
	for _, s := range doc.Sounds {
		if s.ID != "" {
			ctx.soundIDs[s.ID] = struct{}{}
		}
	}
	for _, beat := range doc.Cutscene.Beats {
		if beat.ID != "" {
			ctx.beatIDs[beat.ID] = struct{}{}
		}
	}

	return ctx
}

func (c *ValidationCtx) HasCharacter(id string) bool  { return c.characterIDs.has(id) }
func (c *ValidationCtx) HasBackground(id string) bool { return c.backgroundIDs.has(id) }
func (c *ValidationCtx) HasSound(id string) bool      { return c.soundIDs.has(id) }
func (c *ValidationCtx) HasBeat(id string) bool       { return c.beatIDs.has(id) }

// HasPose reports whether the character declares the pose.
func (c *ValidationCtx) HasPose(characterID, pose string) bool {
	return c.characterPoses[characterID].has(pose)
}
