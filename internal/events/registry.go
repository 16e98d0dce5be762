package events

import "fmt"

var allowedEvents = map[string]struct{}{
	// cutscene
	"cutscene.loaded":     {},
	"cutscene.finished":   {},
	"cutscene.stopped":    {},
	"cutscene.paused":     {},
	"cutscene.resumed":    {},
	"cutscene.unresolved": {},

	// beat
	"beat.started":   {},
	"beat.completed": {},
	"beat.skipped":   {},

	// flow
	"choice.presented": {},
	"choice.made":      {},
	"goto.jumped":      {},

	// input
	"input.advance":  {},
	"signal.raised":  {},
	"audio.finished": {},

	// authoring
	"authoring.validated": {},
	"authoring.rejected":  {},

	// operator
	"operator.command":  {},
	"operator.rejected": {},

	// device
	"device.connected":    {},
	"device.disconnected": {},

	// system
	"system.startup":  {},
	"system.shutdown": {},
	"system.error":    {},
}

// Validate reports whether event is a known event name.
func Validate(event string) error {
	if _, ok := allowedEvents[event]; !ok {
		return fmt.Errorf("unknown event: %s", event)
	}
	return nil
}
