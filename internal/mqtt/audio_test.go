package mqtt

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/AaronLay10/SentientCutscene/internal/cutscene"
	"github.com/AaronLay10/SentientCutscene/internal/orchestrator"
)

func TestAudioSinkPublishesCues(t *testing.T) {
	pub := &recordingPublisher{}
	sink := NewAudioSink(pub, testTopics)

	sink.Play(orchestrator.AudioCue{Bus: cutscene.BusMusic, SoundID: "hum", File: "hum.ogg", Volume: 0.6, Loop: true})
	sink.SetVolume(cutscene.BusSFX, 0.25)
	sink.Stop(cutscene.BusMusic, 1000)

	wantTopics := []string{
		"room1/cutscene/audio/music/play",
		"room1/cutscene/audio/sfx/volume",
		"room1/cutscene/audio/music/stop",
	}
	if len(pub.topics) != len(wantTopics) {
		t.Fatalf("expected %d publishes, got %v", len(wantTopics), pub.topics)
	}
	for i, want := range wantTopics {
		if pub.topics[i] != want {
			t.Errorf("publish %d went to %s, want %s", i, pub.topics[i], want)
		}
	}

	var cue orchestrator.AudioCue
	if err := json.Unmarshal(pub.payloads[0], &cue); err != nil {
		t.Fatalf("play payload is not JSON: %v", err)
	}
	if cue.SoundID != "hum" || !cue.Loop || cue.Volume != 0.6 {
		t.Errorf("unexpected cue %+v", cue)
	}

	var stop map[string]interface{}
	if err := json.Unmarshal(pub.payloads[2], &stop); err != nil {
		t.Fatal(err)
	}
	if stop["fade_ms"] != float64(1000) || stop["bus"] != "music" {
		t.Errorf("unexpected stop payload %v", stop)
	}
}

func TestAudioSinkSurvivesPublishErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("offline")}
	sink := NewAudioSink(pub, testTopics)
	sink.Play(orchestrator.AudioCue{Bus: cutscene.BusSFX, SoundID: "beep"})
	if len(pub.topics) != 0 {
		t.Errorf("expected nothing recorded, got %v", pub.topics)
	}
}

func TestClientPublish(t *testing.T) {
	conn := newMockConn(false)
	c := &Client{conn: conn, url: DefaultBrokerURL}

	err := c.Publish("room1/cutscene/audio/sfx/play", []byte("{}"))
	var nc *NotConnectedError
	if !errors.As(err, &nc) {
		t.Fatalf("expected NotConnectedError, got %v", err)
	}

	if !c.Start() {
		t.Fatal("expected Start to connect")
	}
	if err := c.Publish("room1/cutscene/audio/sfx/play", []byte("{}")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	conn.mu.Lock()
	_, ok := conn.published["room1/cutscene/audio/sfx/play"]
	conn.mu.Unlock()
	if !ok {
		t.Error("expected payload to reach the connection")
	}

	c.Disconnect()
	if c.IsConnected() {
		t.Error("expected disconnect")
	}
}

func TestClientRunsConnectHooks(t *testing.T) {
	conn := newMockConn(true)
	c := &Client{conn: conn, url: DefaultBrokerURL}
	b := NewBridge(c, testTopics, &recordingSubmitter{}, nil)
	c.OnConnect(b.Resubscribe)

	c.connected()
	c.connected()

	conn.mu.Lock()
	n := len(conn.subs)
	conn.mu.Unlock()
	if want := 2 * len(testTopics.Subscriptions()); n != want {
		t.Errorf("expected %d subscribe calls across two connects, got %d", want, n)
	}
}
