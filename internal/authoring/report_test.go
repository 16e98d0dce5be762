package authoring

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func sampleReports() []Report {
	return []Report{
		NewReport("intro.json", nil),
		NewReport("broken.yaml", []AuthoringError{
			{Code: CodeUnknownCharacter, Path: "doc.cutscene.beats.a.actions[0].characterId", Message: `character "hero" is not declared`},
			{Code: CodeUnknownCharacter, Path: "doc.cutscene.beats.b.actions[1].characterId", Message: `character "hero" is not declared`},
			{Code: CodeUnknownSound, Path: "doc.cutscene.beats.b.actions[2].soundId", Message: `sound "x" is not declared`},
		}),
	}
}

func TestNewReport(t *testing.T) {
	r := NewReport("x", nil)
	if !r.Valid {
		t.Error("expected report without errors to be valid")
	}
	if r.Errors == nil {
		t.Error("expected empty, non-nil error list")
	}

	counts := sampleReports()[1].CountByCode()
	if counts[CodeUnknownCharacter] != 2 || counts[CodeUnknownSound] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleReports()); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "intro.json: ok\n") {
		t.Errorf("expected ok line, got:\n%s", out)
	}
	if !strings.Contains(out, "broken.yaml: UNKNOWN_SOUND doc.cutscene.beats.b.actions[2].soundId") {
		t.Errorf("expected error line, got:\n%s", out)
	}
	if !strings.Contains(out, "broken.yaml: 2 x UNKNOWN_CHARACTER\n") {
		t.Errorf("expected summary line, got:\n%s", out)
	}
}

func TestWriteJSONAndYAML(t *testing.T) {
	var jbuf bytes.Buffer
	if err := WriteJSON(&jbuf, sampleReports()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	var fromJSON []Report
	if err := json.Unmarshal(jbuf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(fromJSON) != 2 || fromJSON[1].Valid || len(fromJSON[1].Errors) != 3 {
		t.Errorf("unexpected JSON reports %+v", fromJSON)
	}

	var ybuf bytes.Buffer
	if err := WriteYAML(&ybuf, sampleReports()); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}
	var fromYAML []Report
	if err := yaml.Unmarshal(ybuf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("invalid YAML output: %v", err)
	}
	if len(fromYAML) != 2 || fromYAML[1].Errors[2].Code != CodeUnknownSound {
		t.Errorf("unexpected YAML reports %+v", fromYAML)
	}
}
