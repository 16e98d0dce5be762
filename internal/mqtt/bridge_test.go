package mqtt

import (
	"testing"

	"github.com/AaronLay10/SentientCutscene/internal/player"
)

var testTopics = Topics{Prefix: "room1/cutscene"}

func TestTopicsCommand(t *testing.T) {
	tests := []struct {
		topic   string
		payload string
		kind    player.CommandKind
		key     string
		ok      bool
	}{
		{"room1/cutscene/input/advance", "", player.CmdAdvance, "", true},
		{"room1/cutscene/input/skip", "", player.CmdSkip, "", true},
		{"room1/cutscene/input/choose", `{"choice_id":"yes"}`, player.CmdChoose, "yes", true},
		{"room1/cutscene/input/choose", " no \n", player.CmdChoose, "no", true},
		{"room1/cutscene/input/goto", `{"beat_id":"leave"}`, player.CmdGoto, "leave", true},
		{"room1/cutscene/signal/door_open", "", player.CmdSignal, "door_open", true},
		{"room1/cutscene/control/pause", "", player.CmdPause, "", true},
		{"room1/cutscene/control/resume", "", player.CmdResume, "", true},
		{"room1/cutscene/control/stop", "", player.CmdStop, "", true},
		{"room1/cutscene/audio/music/finished", "", player.CmdSoundFinished, "music", true},
		{"room1/cutscene/input/jump", "", "", "", false},
		{"room1/cutscene/control/rewind", "", "", "", false},
		{"room1/cutscene/audio/music/play", "", "", "", false},
		{"room2/cutscene/input/advance", "", "", "", false},
		{"room1/cutscene", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			cmd, ok := testTopics.Command(tt.topic, []byte(tt.payload))
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if cmd.Kind != tt.kind || cmd.Key != tt.key || cmd.Source != "mqtt" {
				t.Errorf("got %+v, want kind %s key %q", cmd, tt.kind, tt.key)
			}
		})
	}
}

func TestHeartbeatDevice(t *testing.T) {
	if id, ok := testTopics.HeartbeatDevice(testTopics.Heartbeat("screen-1")); !ok || id != "screen-1" {
		t.Errorf("expected screen-1, got %q %v", id, ok)
	}
	if _, ok := testTopics.HeartbeatDevice("room1/cutscene/device/screen-1/status"); ok {
		t.Error("expected non-heartbeat topic to be ignored")
	}
}

func TestBridgeSubscribeAllIsIdempotent(t *testing.T) {
	mock := NewMockMQTTClient()
	b := NewBridge(mock, testTopics, &recordingSubmitter{}, nil)

	b.SubscribeAll()
	b.SubscribeAll()

	want := len(testTopics.Subscriptions())
	if got := len(b.SubscribedTopics()); got != want {
		t.Errorf("expected %d subscribed topics, got %d", want, got)
	}
	if mock.SubscriptionCount() != want {
		t.Errorf("expected %d broker subscriptions, got %d", want, mock.SubscriptionCount())
	}
}

func TestBridgeSubscribeFailureIsRetried(t *testing.T) {
	mock := NewMockMQTTClient()
	mock.failTopic = "room1/cutscene/signal/+"
	b := NewBridge(mock, testTopics, &recordingSubmitter{}, nil)

	b.SubscribeAll()
	if b.IsSubscribed(mock.failTopic) {
		t.Fatal("failed topic must not be tracked")
	}
	if len(b.SubscribedTopics()) != len(testTopics.Subscriptions())-1 {
		t.Errorf("expected the other topics to subscribe, got %v", b.SubscribedTopics())
	}

	mock.failTopic = ""
	b.Resubscribe()
	if !b.IsSubscribed("room1/cutscene/signal/+") {
		t.Error("expected resubscribe to pick up the failed topic")
	}
}

func TestBridgeRoutesMessages(t *testing.T) {
	mock := NewMockMQTTClient()
	sub := &recordingSubmitter{}
	mon := NewMonitor(2)
	b := NewBridge(mock, testTopics, sub, mon)
	b.SubscribeAll()

	if !mock.SimulateMessage("room1/cutscene/signal/door_open", nil) {
		t.Fatal("expected signal topic to be subscribed")
	}
	cmd, ok := sub.last()
	if !ok || cmd.Kind != player.CmdSignal || cmd.Key != "door_open" {
		t.Errorf("unexpected command %+v", cmd)
	}

	mock.SimulateMessage("room1/cutscene/device/speaker-1/heartbeat", []byte(`{"role":"audio","heartbeat_sec":2}`))
	if st := mon.GetDeviceState("speaker-1"); st == nil || st.Role != "audio" || !st.Connected {
		t.Errorf("expected heartbeat to reach the monitor, got %+v", st)
	}
	if len(sub.cmds) != 1 {
		t.Errorf("heartbeats must not become commands, got %d commands", len(sub.cmds))
	}
}

func TestBridgeRejectsUnknownInput(t *testing.T) {
	mock := NewMockMQTTClient()
	sub := &recordingSubmitter{err: player.ErrQueueFull}
	b := NewBridge(mock, testTopics, sub, nil)
	b.SubscribeAll()

	// Neither call may panic; both end as operator.rejected events.
	mock.SimulateMessage("room1/cutscene/input/rewind", nil)
	mock.SimulateMessage("room1/cutscene/input/advance", nil)
	mock.SimulateMessage("room1/cutscene/device/x/heartbeat", []byte("{"))

	if len(sub.cmds) != 0 {
		t.Errorf("expected nothing submitted, got %v", sub.cmds)
	}
}
