package authoring

import (
	"fmt"
	"strings"
)

// Referential codes.
const (
	CodeUnknownCharacter  = "UNKNOWN_CHARACTER"
	CodeUnknownBackground = "UNKNOWN_BACKGROUND"
	CodeUnknownSound      = "UNKNOWN_SOUND"
	CodeUnknownBeat       = "UNKNOWN_BEAT"
	CodeUnknownPose       = "UNKNOWN_POSE"
)

// Field-level structural codes.
const (
	CodeFieldMissing      = "FIELD_MISSING"
	CodeFieldNotString    = "FIELD_NOT_STRING"
	CodeFieldNotBoolean   = "FIELD_NOT_BOOLEAN"
	CodeFieldNotInteger   = "FIELD_NOT_INTEGER"
	CodeFieldNotNumber    = "FIELD_NOT_NUMBER"
	CodeFieldNotList      = "FIELD_NOT_LIST"
	CodeFieldEmpty        = "FIELD_EMPTY"
	CodeNumberOutOfRange  = "NUMBER_OUT_OF_RANGE"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInvalidPosition   = "INVALID_POSITION"
	CodeInvalidBus        = "INVALID_BUS"
	CodeChoiceMalformed   = "CHOICE_MALFORMED"
	CodeChoiceIDTaken     = "CHOICE_ID_TAKEN"
	CodeActionMalformed   = "ACTION_MALFORMED"
	CodeActionTypeNull    = "ACTION_TYPE_NULL"
	CodeActionTypeInvalid = "ACTION_TYPE_INVALID"
)

// Document-level codes.
const (
	CodeDocNull                  = "DOC_NULL"
	CodeInvalidSchema            = "INVALID_SCHEMA"
	CodeCharacterIDNull          = "CHARACTER_ID_NULL"
	CodeCharacterNameNull        = "CHARACTER_NAME_NULL"
	CodeCharacterPosesEmpty      = "CHARACTER_POSES_EMPTY"
	CodeCharacterPoseEmpty       = "CHARACTER_POSE_EMPTY"
	CodeCharacterIDTaken         = "CHARACTER_ID_TAKEN"
	CodeBackgroundIDNull         = "BACKGROUND_ID_NULL"
	CodeBackgroundImageNull      = "BACKGROUND_IMAGE_NULL"
	CodeBackgroundIDTaken        = "BACKGROUND_ID_TAKEN"
	CodeSoundIDNull              = "SOUND_ID_NULL"
	CodeSoundFileNull            = "SOUND_FILE_NULL"
	CodeSoundIDTaken             = "SOUND_ID_TAKEN"
	CodeCutsceneIDNull           = "CUTSCENE_ID_NULL"
	CodeCutsceneBeatsEmpty       = "CUTSCENE_BEATS_EMPTY"
	CodeBeatIDNull               = "BEAT_ID_NULL"
	CodeBeatIDTaken              = "BEAT_ID_TAKEN"
	CodeBeatAdvanceNull          = "BEAT_ADVANCE_NULL"
	CodeBeatAdvanceModeInvalid   = "BEAT_ADVANCE_MODE_INVALID"
	CodeBeatAdvanceUnexpected    = "BEAT_ADVANCE_UNEXPECTED_FIELD"
	CodeBeatAdvanceDelayInvalid  = "BEAT_ADVANCE_DELAY_INVALID"
	CodeBeatAdvanceSignalInvalid = "BEAT_ADVANCE_SIGNAL_KEY_INVALID"
	CodeBeatActionsEmpty         = "BEAT_ACTIONS_EMPTY"
)

// AuthoringError is a structured, non-fatal diagnostic about a document.
type AuthoringError struct {
	Code    string `json:"code" yaml:"code"`
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
}

func (e AuthoringError) String() string {
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Path, e.Message)
}

// Error carries a non-empty list of authoring errors for callers that need
// an error value, such as a loader refusing an invalid document.
type Error struct {
	Errors []AuthoringError
}

func (e *Error) Error() string {
	if len(e.Errors) == 1 {
		return "authoring error: " + e.Errors[0].String()
	}
	parts := make([]string, 0, len(e.Errors))
	for _, ae := range e.Errors {
		parts = append(parts, ae.String())
	}
	return fmt.Sprintf("%d authoring errors: %s", len(e.Errors), strings.Join(parts, "; "))
}

func newError(code, path, format string, args ...interface{}) AuthoringError {
	return AuthoringError{Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}
