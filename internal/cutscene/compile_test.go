package cutscene

import "testing"

func TestCompileIntro(t *testing.T) {
	doc, err := LoadDocument(introJSON)
	if err != nil {
		t.Fatalf("failed to load document: %v", err)
	}

	script, err := Compile(doc)
	if err != nil {
		t.Fatalf("failed to compile: %v", err)
	}

	if script.CutsceneID != "intro" {
		t.Errorf("expected cutscene intro, got %s", script.CutsceneID)
	}
	if len(script.Beats) != 6 {
		t.Fatalf("expected 6 beats, got %d", len(script.Beats))
	}

	bg, ok := script.Beats[0].Actions[0].(BackgroundSet)
	if !ok {
		t.Fatalf("expected BackgroundSet, got %T", script.Beats[0].Actions[0])
	}
	if bg.Image != "images/backgrounds/lab.png" {
		t.Errorf("expected resolved image, got %s", bg.Image)
	}
	if bg.Transition != TransitionFade || bg.DurationMs != 500 || !bg.Await {
		t.Errorf("unexpected background action: %+v", bg)
	}

	music, ok := script.Beats[0].Actions[1].(AudioPlay)
	if !ok {
		t.Fatalf("expected AudioPlay, got %T", script.Beats[0].Actions[1])
	}
	if music.Bus != BusMusic || !music.Loop || music.Volume != 0.6 || music.Pitch != nil {
		t.Errorf("unexpected audio action: %+v", music)
	}

	show, ok := script.Beats[1].Actions[1].(DialogueShow)
	if !ok {
		t.Fatalf("expected DialogueShow, got %T", script.Beats[1].Actions[1])
	}
	if show.Speaker != "Ava" {
		t.Errorf("expected speaker Ava, got %s", show.Speaker)
	}

	if script.Beats[2].Advance.Mode != AdvanceAutoDelay || script.Beats[2].Advance.DelayMs != 500 {
		t.Errorf("unexpected advance policy: %+v", script.Beats[2].Advance)
	}

	par, ok := script.Beats[2].Actions[0].(Parallel)
	if !ok {
		t.Fatalf("expected Parallel, got %T", script.Beats[2].Actions[0])
	}
	if len(par.Actions) != 2 || par.Actions[0].Kind() != KindCharacterEnter {
		t.Errorf("unexpected parallel children: %+v", par.Actions)
	}

	choice, ok := script.Beats[3].Actions[0].(Choice)
	if !ok {
		t.Fatalf("expected Choice, got %T", script.Beats[3].Actions[0])
	}
	if len(choice.Options) != 2 || choice.Options[1].EntryBeatID != "leave" {
		t.Errorf("unexpected choice options: %+v", choice.Options)
	}

	if script.Beats[4].Advance.Mode != AdvanceSignal || script.Beats[4].Advance.SignalKey != "door_open" {
		t.Errorf("unexpected signal policy: %+v", script.Beats[4].Advance)
	}

	g, ok := script.Beats[4].Actions[1].(Goto)
	if !ok {
		t.Fatalf("expected Goto, got %T", script.Beats[4].Actions[1])
	}
	if g.BeatID != EndBeatID || g.CutsceneID != CurrentCutscene {
		t.Errorf("unexpected goto: %+v", g)
	}
}

func TestCompileNestedGotoTarget(t *testing.T) {
	doc := &Document{
		SchemaVersion: 1,
		Cutscene: Cutscene{
			ID: "c",
			Beats: []Beat{{
				ID:      "a",
				Advance: Fields{"mode": "auto"},
				Actions: []RawAction{
					NewRawAction("goto", Fields{"goto": map[string]interface{}{"cutsceneId": "current", "beatId": "a"}}),
				},
			}},
		},
	}

	script, err := Compile(doc)
	if err != nil {
		t.Fatalf("failed to compile: %v", err)
	}
	g := script.Beats[0].Actions[0].(Goto)
	if g.BeatID != "a" {
		t.Errorf("expected nested beat id a, got %s", g.BeatID)
	}
}

func TestCompileUnknownType(t *testing.T) {
	doc := &Document{
		Cutscene: Cutscene{
			ID: "c",
			Beats: []Beat{{
				ID:      "a",
				Advance: Fields{"mode": "auto"},
				Actions: []RawAction{NewRawAction("camera.shake", nil)},
			}},
		},
	}

	if _, err := Compile(doc); err == nil {
		t.Error("expected error for unknown action type")
	}
	if _, err := Compile(nil); err == nil {
		t.Error("expected error for nil document")
	}
}

func TestParseKindCoversEveryKind(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("kind %s did not round trip", k)
		}
	}
	if _, ok := ParseKind("dialogue.whisper"); ok {
		t.Error("expected unknown kind to fail")
	}
}

func TestFieldsNumbers(t *testing.T) {
	f := Fields{"i": 3, "f": 0.5, "whole": 2.0, "s": "x"}

	if v, ok := f.Int("i"); !ok || v != 3 {
		t.Errorf("expected int 3, got %d (ok=%v)", v, ok)
	}
	if _, ok := f.Int("f"); ok {
		t.Error("0.5 should not be an integer")
	}
	if v, ok := f.Int("whole"); !ok || v != 2 {
		t.Errorf("expected 2.0 to count as integer, got %d (ok=%v)", v, ok)
	}
	if v, ok := f.Float("i"); !ok || v != 3 {
		t.Errorf("expected float 3, got %v (ok=%v)", v, ok)
	}
	if _, ok := f.Float("s"); ok {
		t.Error("string should not be a number")
	}
}
