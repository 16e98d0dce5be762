package cutscene

import (
	"fmt"
	"strings"
)

// Compile turns a document into a typed script. It assumes the document
// already passed authoring validation and only fails on shapes it cannot
// represent at all, such as an unknown action type.
func Compile(doc *Document) (*Script, error) {
	if doc == nil {
		return nil, fmt.Errorf("compile: nil document")
	}

	script := &Script{
		CutsceneID: doc.Cutscene.ID,
		Variables:  doc.Cutscene.Variables,
		Beats:      make([]CompiledBeat, 0, len(doc.Cutscene.Beats)),
	}

	for _, beat := range doc.Cutscene.Beats {
		cb := CompiledBeat{
			ID:      beat.ID,
			Advance: compileAdvance(beat.Advance),
			Actions: make([]Action, 0, len(beat.Actions)),
		}
		for i, raw := range beat.Actions {
			action, err := compileAction(doc, raw)
			if err != nil {
				return nil, fmt.Errorf("compile beat %s action %d: %w", beat.ID, i, err)
			}
			cb.Actions = append(cb.Actions, action)
		}
		script.Beats = append(script.Beats, cb)
	}

	return script, nil
}

func compileAdvance(f Fields) AdvancePolicy {
	mode, _ := f.String("mode")
	policy := AdvancePolicy{Mode: AdvanceMode(mode)}
	if _, ok := ParseAdvanceMode(mode); !ok {
		policy.Mode = AdvanceInput
	}
	if d, ok := f.Int("delayMs"); ok {
		policy.DelayMs = int(d)
	}
	policy.SignalKey, _ = f.String("signalKey")
	return policy
}

func compileAction(doc *Document, raw RawAction) (Action, error) {
	kind, ok := ParseKind(raw.Type)
	if !ok {
		return nil, fmt.Errorf("unknown action type %q", raw.Type)
	}

	f := raw.Fields
	await, _ := f.Bool("await")

	switch kind {
	case KindDialogueShow:
		id, _ := f.String("characterId")
		text, _ := f.String("text")
		return DialogueShow{CharacterID: id, Speaker: characterName(doc, id), Text: text, Await: await}, nil

	case KindDialogueChorus:
		ids, _ := f.StringList("characterIds")
		text, _ := f.String("text")
		speakers := make([]string, 0, len(ids))
		for _, id := range ids {
			speakers = append(speakers, characterName(doc, id))
		}
		return DialogueChorus{CharacterIDs: ids, Speakers: speakers, Text: text, Await: await}, nil

	case KindDialogueHide:
		return DialogueHide{Await: await}, nil

	case KindBackgroundSet:
		id, _ := f.String("backgroundId")
		a := BackgroundSet{
			BackgroundID: id,
			Transition:   transition(f),
			DurationMs:   intField(f, "duration"),
			Await:        await,
		}
		if bg := doc.FindBackground(id); bg != nil {
			a.Image = bg.Image
		}
		return a, nil

	case KindCharacterEnter:
		id, _ := f.String("characterId")
		pose, _ := f.String("pose")
		pos, _ := f.String("position")
		a := CharacterEnter{
			CharacterID: id,
			Pose:        pose,
			Position:    Position(pos),
			Transition:  transition(f),
			DurationMs:  intField(f, "duration"),
			Await:       await,
		}
		if c := doc.FindCharacter(id); c != nil {
			a.Image = c.Poses[pose]
		}
		return a, nil

	case KindCharacterExit:
		id, _ := f.String("characterId")
		return CharacterExit{
			CharacterID: id,
			Transition:  transition(f),
			DurationMs:  intField(f, "duration"),
			Await:       await,
		}, nil

	case KindAudioPlay:
		bus, _ := f.String("bus")
		id, _ := f.String("soundId")
		a := AudioPlay{Bus: Bus(bus), SoundID: id, Volume: 1, Await: await}
		if v, ok := f.Float("volume"); ok {
			a.Volume = v
		}
		if v, ok := f.Float("pitch"); ok {
			a.Pitch = &v
		}
		if v, ok := f.Float("pan"); ok {
			a.Pan = &v
		}
		a.Loop, _ = f.Bool("loop")
		if s := doc.FindSound(id); s != nil {
			a.File = s.File
		}
		return a, nil

	case KindAudioSet:
		bus, _ := f.String("bus")
		vol, _ := f.Float("volume")
		return AudioSet{Bus: Bus(bus), Volume: vol}, nil

	case KindAudioStop:
		bus, _ := f.String("bus")
		return AudioStop{Bus: Bus(bus), FadeMs: intField(f, "fadeMs"), Await: await}, nil

	case KindChoice:
		prompt, _ := f.String("prompt")
		c := Choice{Prompt: prompt}
		items, _ := f.List("choices")
		for i, item := range items {
			of, ok := AsFields(item)
			if !ok {
				continue
			}
			opt := ChoiceOption{}
			opt.ID, _ = of.String("id")
			if opt.ID == "" {
				opt.ID = fmt.Sprintf("%d", i)
			}
			opt.Line, _ = of.String("line")
			opt.CutsceneID, _ = of.String("cutsceneId")
			if opt.CutsceneID == "" {
				opt.CutsceneID = CurrentCutscene
			}
			opt.EntryBeatID, _ = of.String("entryBeatId")
			c.Options = append(c.Options, opt)
		}
		return c, nil

	case KindGoto:
		g := Goto{}
		f = GotoTarget(f)
		g.CutsceneID, _ = f.String("cutsceneId")
		if g.CutsceneID == "" {
			g.CutsceneID = CurrentCutscene
		}
		g.BeatID, _ = f.String("beatId")
		return g, nil

	case KindParallel:
		children, _ := raw.Children()
		p := Parallel{Await: await, Actions: make([]Action, 0, len(children))}
		for j, child := range children {
			a, err := compileAction(doc, child)
			if err != nil {
				return nil, fmt.Errorf("parallel child %d: %w", j, err)
			}
			p.Actions = append(p.Actions, a)
		}
		return p, nil
	}

	return nil, fmt.Errorf("unhandled action kind %s", kind)
}

func characterName(doc *Document, id string) string {
	if c := doc.FindCharacter(id); c != nil && c.Name != "" {
		return c.Name
	}
	return id
}

func transition(f Fields) Transition {
	s, _ := f.String("transition")
	if t, ok := ParseTransition(strings.ToLower(s)); ok {
		return t
	}
	return TransitionReplace
}

func intField(f Fields, key string) int {
	n, _ := f.Int(key)
	if n < 0 {
		return 0
	}
	return int(n)
}
