package player

import (
	"github.com/AaronLay10/SentientCutscene/internal/authoring"
	"github.com/AaronLay10/SentientCutscene/internal/cutscene"
	"github.com/AaronLay10/SentientCutscene/internal/events"
)

// Prepare loads, validates and compiles the document at path. Documents
// with authoring errors are refused with an *authoring.Error after every
// error has been reported as an authoring.rejected event.
func Prepare(path string) (*cutscene.Script, error) {
	doc, err := cutscene.LoadDocument(path)
	if err != nil {
		return nil, err
	}

	if errs := authoring.Validate(doc); len(errs) > 0 {
		for _, ae := range errs {
			events.Emit("error", "authoring.rejected", ae.Message, map[string]interface{}{
				"source": path,
				"code":   ae.Code,
				"path":   ae.Path,
			})
		}
		return nil, &authoring.Error{Errors: errs}
	}

	events.Emit("info", "authoring.validated", "", map[string]interface{}{
		"source":      path,
		"cutscene_id": doc.Cutscene.ID,
		"beats":       len(doc.Cutscene.Beats),
	})
	return cutscene.Compile(doc)
}
