package player

import (
	"errors"
	"fmt"
)

// CommandKind names an operator or device request.
type CommandKind string

const (
	CmdAdvance       CommandKind = "advance"
	CmdSignal        CommandKind = "signal"
	CmdChoose        CommandKind = "choose"
	CmdGoto          CommandKind = "goto"
	CmdSkip          CommandKind = "skip"
	CmdPause         CommandKind = "pause"
	CmdResume        CommandKind = "resume"
	CmdStop          CommandKind = "stop"
	CmdSoundFinished CommandKind = "sound_finished"
	CmdLoad          CommandKind = "load"
)

var (
	ErrQueueFull      = errors.New("player: command queue is full")
	ErrUnknownCommand = errors.New("player: unknown command")
	ErrMissingKey     = errors.New("player: command needs a key")
)

// Command is one request applied by the player goroutine at the start of
// the next tick. Key carries the signal key, choice id, beat id, bus or
// document path depending on Kind.
type Command struct {
	Kind   CommandKind `json:"kind"`
	Key    string      `json:"key,omitempty"`
	Source string      `json:"source,omitempty"`

	reply chan error
}

// Check rejects commands that can never be applied.
func (c Command) Check() error {
	switch c.Kind {
	case CmdAdvance, CmdSkip, CmdPause, CmdResume, CmdStop:
		return nil
	case CmdSignal, CmdChoose, CmdGoto, CmdSoundFinished, CmdLoad:
		if c.Key == "" {
			return fmt.Errorf("%w: %s", ErrMissingKey, c.Kind)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownCommand, c.Kind)
}
