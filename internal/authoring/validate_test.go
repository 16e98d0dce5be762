package authoring

import (
	"reflect"
	"strings"
	"testing"

	"github.com/AaronLay10/SentientCutscene/internal/cutscene"
)

// validDoc returns a small document with no authoring errors.
func validDoc() *cutscene.Document {
	return &cutscene.Document{
		SchemaVersion: 1,
		Characters: []cutscene.Character{
			{ID: "villain", Name: "Vex", Poses: map[string]string{"smirk": "vex/smirk.png"}},
		},
		Backgrounds: []cutscene.Background{{ID: "lair", Image: "lair.png"}},
		Sounds:      []cutscene.Sound{{ID: "thunder", File: "thunder.ogg"}},
		Cutscene: cutscene.Cutscene{
			ID: "confrontation",
			Beats: []cutscene.Beat{
				{
					ID:      "b1",
					Advance: cutscene.Fields{"mode": "input"},
					Actions: []cutscene.RawAction{
						cutscene.NewRawAction("dialogue.show", cutscene.Fields{"characterId": "villain", "text": "So, you came.", "await": true}),
					},
				},
			},
		},
	}
}

func withActions(actions ...cutscene.RawAction) *cutscene.Document {
	doc := validDoc()
	doc.Cutscene.Beats[0].Actions = actions
	return doc
}

func codes(errs []AuthoringError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidateIntroDocumentIsClean(t *testing.T) {
	doc, err := cutscene.LoadDocument("../../design/cutscenes/examples/intro.v1.json")
	if err != nil {
		t.Fatalf("failed to load document: %v", err)
	}

	if errs := Validate(doc); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateValidDoc(t *testing.T) {
	if errs := Validate(validDoc()); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateUnknownCharacter(t *testing.T) {
	doc := withActions(
		cutscene.NewRawAction("dialogue.show", cutscene.Fields{"characterId": "hero", "text": "Hi.", "await": true}),
	)

	errs := Validate(doc)
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Code != CodeUnknownCharacter {
		t.Errorf("expected %s, got %s", CodeUnknownCharacter, errs[0].Code)
	}
	if !strings.HasPrefix(errs[0].Path, "doc.cutscene.beats.b1.actions[0]") {
		t.Errorf("expected path to name beat b1 action 0, got %s", errs[0].Path)
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	doc := withActions(
		cutscene.NewRawAction("dialogue.show", cutscene.Fields{"characterId": "hero", "text": 3, "await": "yes"}),
		cutscene.NewRawAction("audio.play", cutscene.Fields{"bus": "voice", "soundId": "rain", "volume": 2.0, "await": true}),
		cutscene.NewRawAction("goto", cutscene.Fields{"cutsceneId": "current", "beatId": "nowhere"}),
	)

	first := Validate(doc)
	second := Validate(doc)

	if len(first) == 0 {
		t.Fatal("expected errors")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("validation is not idempotent:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestValidateNilAndSchema(t *testing.T) {
	errs := Validate(nil)
	if len(errs) != 1 || errs[0].Code != CodeDocNull {
		t.Errorf("expected DOC_NULL, got %v", errs)
	}

	doc := validDoc()
	doc.SchemaVersion = 2
	errs = Validate(doc)
	if len(errs) != 1 || errs[0].Code != CodeInvalidSchema {
		t.Errorf("expected INVALID_SCHEMA, got %v", errs)
	}
}

func TestValidateParallelRecursesWithSameRegistry(t *testing.T) {
	doc := withActions(
		cutscene.NewRawAction("parallel", cutscene.Fields{
			"actions": []interface{}{
				map[string]interface{}{"type": "dialogue.hide", "await": false},
				map[string]interface{}{"type": "audio.play", "bus": "sfx", "soundId": "rain", "volume": 0.5, "await": false},
				"not an action",
			},
		}),
	)

	errs := Validate(doc)
	want := map[string]string{
		"doc.cutscene.beats.b1.actions[0].await":              CodeFieldMissing,
		"doc.cutscene.beats.b1.actions[0].actions[1].soundId": CodeUnknownSound,
		"doc.cutscene.beats.b1.actions[0].actions[2]":         CodeActionMalformed,
	}
	if len(errs) != len(want) {
		t.Fatalf("expected %d errors, got %d: %v", len(want), len(errs), errs)
	}
	for _, e := range errs {
		if want[e.Path] != e.Code {
			t.Errorf("unexpected error %s at %s", e.Code, e.Path)
		}
	}
}

func TestValidateNumericRanges(t *testing.T) {
	doc := withActions(
		cutscene.NewRawAction("audio.play", cutscene.Fields{
			"bus": "sfx", "soundId": "thunder", "volume": 1.5, "pitch": 0, "pan": -2, "await": true,
		}),
		cutscene.NewRawAction("background.set", cutscene.Fields{
			"backgroundId": "lair", "transition": "fade", "duration": -1, "await": true,
		}),
		cutscene.NewRawAction("audio.set", cutscene.Fields{"bus": "music", "volume": 0.25}),
	)

	errs := Validate(doc)
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(errs), errs)
	}
	for _, e := range errs {
		if e.Code != CodeNumberOutOfRange {
			t.Errorf("expected NUMBER_OUT_OF_RANGE, got %s at %s", e.Code, e.Path)
		}
	}
}

func TestValidateStructuralTypes(t *testing.T) {
	doc := withActions(
		cutscene.NewRawAction("character.enter", cutscene.Fields{
			"characterId": "villain", "pose": "smirk", "position": "center",
			"transition": "spin", "duration": 1.5, "await": "true",
		}),
		cutscene.NewRawAction("audio.stop", cutscene.Fields{"bus": "sfx", "fadeMs": 100, "await": true}),
	)

	got := codes(Validate(doc))
	want := []string{CodeInvalidPosition, CodeInvalidTransition, CodeFieldNotInteger, CodeFieldNotBoolean, CodeInvalidBus}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestValidateUnknownPose(t *testing.T) {
	doc := withActions(
		cutscene.NewRawAction("character.enter", cutscene.Fields{
			"characterId": "villain", "pose": "laugh", "position": "left",
			"transition": "pop", "duration": 0, "await": false,
		}),
	)

	errs := Validate(doc)
	if len(errs) != 1 || errs[0].Code != CodeUnknownPose {
		t.Fatalf("expected UNKNOWN_POSE, got %v", errs)
	}
	if errs[0].Path != "doc.cutscene.beats.b1.actions[0].pose" {
		t.Errorf("unexpected path %s", errs[0].Path)
	}
}

func TestValidateChoiceTargets(t *testing.T) {
	doc := withActions(
		cutscene.NewRawAction("choice", cutscene.Fields{
			"prompt": "Fight?",
			"choices": []interface{}{
				map[string]interface{}{"id": "a", "line": "Yes", "cutsceneId": "current", "entryBeatId": "b1"},
				map[string]interface{}{"id": "a", "line": "No", "entryBeatId": "missing"},
				map[string]interface{}{"id": "c", "line": "Later", "cutsceneId": "epilogue", "entryBeatId": "elsewhere"},
				map[string]interface{}{"id": "d", "line": "Leave", "entryBeatId": "end"},
				42,
			},
		}),
	)

	got := codes(Validate(doc))
	want := []string{CodeChoiceIDTaken, CodeUnknownBeat, CodeChoiceMalformed}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestValidateGotoTargets(t *testing.T) {
	tests := []struct {
		name   string
		fields cutscene.Fields
		want   []string
	}{
		{"end beat", cutscene.Fields{"cutsceneId": "current", "beatId": "end"}, []string{}},
		{"known beat", cutscene.Fields{"cutsceneId": "current", "beatId": "b1"}, []string{}},
		{"unknown beat", cutscene.Fields{"cutsceneId": "current", "beatId": "nowhere"}, []string{CodeUnknownBeat}},
		{"other cutscene", cutscene.Fields{"cutsceneId": "epilogue", "beatId": "nowhere"}, []string{}},
		{"nested target", cutscene.Fields{"goto": map[string]interface{}{"cutsceneId": "current", "beatId": "nowhere"}}, []string{CodeUnknownBeat}},
		{"missing beat", cutscene.Fields{"cutsceneId": "current"}, []string{CodeFieldMissing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := withActions(
				cutscene.NewRawAction("dialogue.hide", cutscene.Fields{"await": false}),
				cutscene.NewRawAction("goto", tt.fields),
			)
			got := codes(Validate(doc))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestValidateAdvancePolicies(t *testing.T) {
	tests := []struct {
		name    string
		advance cutscene.Fields
		want    []string
	}{
		{"input", cutscene.Fields{"mode": "input"}, []string{}},
		{"auto", cutscene.Fields{"mode": "auto"}, []string{}},
		{"auto delay", cutscene.Fields{"mode": "auto_delay", "delayMs": 250}, []string{}},
		{"signal", cutscene.Fields{"mode": "signal", "signalKey": "lever"}, []string{}},
		{"missing", nil, []string{CodeBeatAdvanceNull}},
		{"bad mode", cutscene.Fields{"mode": "later"}, []string{CodeBeatAdvanceModeInvalid}},
		{"delay missing", cutscene.Fields{"mode": "auto_delay"}, []string{CodeBeatAdvanceDelayInvalid}},
		{"delay negative", cutscene.Fields{"mode": "auto_delay", "delayMs": -5}, []string{CodeBeatAdvanceDelayInvalid}},
		{"signal empty", cutscene.Fields{"mode": "signal", "signalKey": ""}, []string{CodeBeatAdvanceSignalInvalid}},
		{"unexpected", cutscene.Fields{"mode": "input", "delayMs": 5, "signalKey": "x"}, []string{CodeBeatAdvanceUnexpected, CodeBeatAdvanceUnexpected}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			doc.Cutscene.Beats[0].Advance = tt.advance
			got := codes(Validate(doc))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestValidateDeclarations(t *testing.T) {
	doc := validDoc()
	doc.Characters = append(doc.Characters,
		cutscene.Character{ID: "villain", Name: "", Poses: nil},
	)
	doc.Backgrounds = append(doc.Backgrounds, cutscene.Background{ID: "", Image: ""})
	doc.Sounds = append(doc.Sounds, cutscene.Sound{ID: "thunder", File: "again.ogg"})
	doc.Cutscene.Beats = append(doc.Cutscene.Beats, cutscene.Beat{
		ID:      "b1",
		Advance: cutscene.Fields{"mode": "auto"},
	})

	got := codes(Validate(doc))
	want := []string{
		CodeCharacterIDTaken, CodeCharacterNameNull, CodeCharacterPosesEmpty,
		CodeBackgroundIDNull, CodeBackgroundImageNull,
		CodeSoundIDTaken,
		CodeBeatIDTaken, CodeBeatActionsEmpty,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestValidateActionTypes(t *testing.T) {
	doc := withActions(
		cutscene.NewRawAction("", nil),
		cutscene.NewRawAction("camera.shake", nil),
		cutscene.RawAction{Fields: cutscene.Fields{"type": 7}},
	)

	got := codes(Validate(doc))
	want := []string{CodeActionTypeNull, CodeActionTypeInvalid, CodeActionTypeInvalid}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestValidateAccumulatesAcrossBeats(t *testing.T) {
	doc := validDoc()
	doc.Cutscene.Beats = append(doc.Cutscene.Beats,
		cutscene.Beat{
			ID:      "b2",
			Advance: cutscene.Fields{"mode": "auto"},
			Actions: []cutscene.RawAction{
				cutscene.NewRawAction("background.set", cutscene.Fields{"backgroundId": "sky", "transition": "fade", "duration": 10, "await": true}),
			},
		},
		cutscene.Beat{
			ID:      "b3",
			Advance: cutscene.Fields{"mode": "auto"},
			Actions: []cutscene.RawAction{
				cutscene.NewRawAction("dialogue.chorus", cutscene.Fields{"characterIds": []interface{}{"villain", "hero", 5}, "text": "", "await": true}),
			},
		},
	)

	errs := Validate(doc)
	got := codes(errs)
	want := []string{CodeUnknownBackground, CodeUnknownCharacter, CodeFieldNotString}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if errs[1].Path != "doc.cutscene.beats.b3.actions[0].characterIds[1]" {
		t.Errorf("unexpected path %s", errs[1].Path)
	}
}

func TestDefaultRegistryIsTotal(t *testing.T) {
	reg := DefaultRegistry()
	for _, k := range cutscene.Kinds() {
		if !reg.Has(k) {
			t.Errorf("no validator registered for %s", k)
		}
	}
}

func TestValidationCtx(t *testing.T) {
	ctx := NewValidationCtx(validDoc())

	if !ctx.HasCharacter("villain") || ctx.HasCharacter("hero") {
		t.Error("unexpected character set")
	}
	if !ctx.HasPose("villain", "smirk") || ctx.HasPose("villain", "laugh") || ctx.HasPose("hero", "smirk") {
		t.Error("unexpected pose set")
	}
	if !ctx.HasBeat("b1") || !ctx.HasBeat("end") || ctx.HasBeat("b2") {
		t.Error("unexpected beat set")
	}
	if !ctx.HasBackground("lair") || !ctx.HasSound("thunder") {
		t.Error("unexpected asset sets")
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Errors: []AuthoringError{
		{Code: CodeUnknownBeat, Path: "doc.x", Message: "beat \"y\" does not exist"},
	}}
	if !strings.Contains(err.Error(), "UNKNOWN_BEAT at doc.x") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
