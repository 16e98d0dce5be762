package mqtt

import (
	"encoding/json"
	"strings"

	"github.com/AaronLay10/SentientCutscene/internal/cutscene"
	"github.com/AaronLay10/SentientCutscene/internal/player"
)

// Topics lays out the player's topic tree under a prefix:
//
//	<prefix>/input/{advance,skip,choose,goto}   commands in
//	<prefix>/signal/<key>                       external signals in
//	<prefix>/control/{pause,resume,stop}        lifecycle in
//	<prefix>/audio/<bus>/finished               sound completion in
//	<prefix>/audio/<bus>/{play,volume,stop}     audio cues out
//	<prefix>/device/<id>/heartbeat              device presence in
type Topics struct {
	Prefix string
}

func (t Topics) join(parts ...string) string {
	return t.Prefix + "/" + strings.Join(parts, "/")
}

// Subscriptions returns every filter the bridge listens on.
func (t Topics) Subscriptions() []string {
	return []string{
		t.join("input", "+"),
		t.join("signal", "+"),
		t.join("control", "+"),
		t.join("audio", "+", "finished"),
		t.join("device", "+", "heartbeat"),
	}
}

// Audio is the topic an audio cue for bus is published on.
func (t Topics) Audio(bus cutscene.Bus, verb string) string {
	return t.join("audio", string(bus), verb)
}

// Heartbeat is the presence topic of one device.
func (t Topics) Heartbeat(deviceID string) string {
	return t.join("device", deviceID, "heartbeat")
}

// HeartbeatDevice returns the device id if topic is a heartbeat topic.
func (t Topics) HeartbeatDevice(topic string) (string, bool) {
	parts, ok := t.split(topic)
	if !ok || len(parts) != 3 || parts[0] != "device" || parts[2] != "heartbeat" {
		return "", false
	}
	return parts[1], true
}

func (t Topics) split(topic string) ([]string, bool) {
	rest, ok := strings.CutPrefix(topic, t.Prefix+"/")
	if !ok || rest == "" {
		return nil, false
	}
	return strings.Split(rest, "/"), true
}

// Command maps an inbound message to a player command.
func (t Topics) Command(topic string, payload []byte) (player.Command, bool) {
	parts, ok := t.split(topic)
	if !ok {
		return player.Command{}, false
	}
	cmd := player.Command{Source: "mqtt"}

	switch {
	case len(parts) == 2 && parts[0] == "input":
		switch parts[1] {
		case "advance":
			cmd.Kind = player.CmdAdvance
		case "skip":
			cmd.Kind = player.CmdSkip
		case "choose":
			cmd.Kind, cmd.Key = player.CmdChoose, payloadKey(payload, "choice_id")
		case "goto":
			cmd.Kind, cmd.Key = player.CmdGoto, payloadKey(payload, "beat_id")
		default:
			return player.Command{}, false
		}
	case len(parts) == 2 && parts[0] == "signal":
		cmd.Kind, cmd.Key = player.CmdSignal, parts[1]
	case len(parts) == 2 && parts[0] == "control":
		switch parts[1] {
		case "pause":
			cmd.Kind = player.CmdPause
		case "resume":
			cmd.Kind = player.CmdResume
		case "stop":
			cmd.Kind = player.CmdStop
		default:
			return player.Command{}, false
		}
	case len(parts) == 3 && parts[0] == "audio" && parts[2] == "finished":
		cmd.Kind, cmd.Key = player.CmdSoundFinished, parts[1]
	default:
		return player.Command{}, false
	}
	return cmd, true
}

// payloadKey reads field from a JSON object payload, or takes the whole
// payload as a plain string.
func payloadKey(payload []byte, field string) string {
	var obj map[string]interface{}
	if err := json.Unmarshal(payload, &obj); err == nil {
		s, _ := obj[field].(string)
		return s
	}
	return strings.TrimSpace(string(payload))
}
