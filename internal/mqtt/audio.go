package mqtt

import (
	"encoding/json"
	"log"

	"github.com/AaronLay10/SentientCutscene/internal/cutscene"
	"github.com/AaronLay10/SentientCutscene/internal/orchestrator"
)

type publisher interface {
	Publish(topic string, payload []byte) error
}

// AudioSink publishes audio cues for an external audio backend, which
// reports the end of non-looping sounds on <prefix>/audio/<bus>/finished.
type AudioSink struct {
	pub    publisher
	topics Topics
}

var _ orchestrator.AudioSink = (*AudioSink)(nil)

// NewAudioSink returns a sink publishing through pub.
func NewAudioSink(pub publisher, topics Topics) *AudioSink {
	return &AudioSink{pub: pub, topics: topics}
}

type volumeMsg struct {
	Bus    cutscene.Bus `json:"bus"`
	Volume float64      `json:"volume"`
}

type stopMsg struct {
	Bus    cutscene.Bus `json:"bus"`
	FadeMs int          `json:"fade_ms"`
}

func (s *AudioSink) Play(cue orchestrator.AudioCue) {
	s.send(s.topics.Audio(cue.Bus, "play"), cue)
}

func (s *AudioSink) SetVolume(bus cutscene.Bus, volume float64) {
	s.send(s.topics.Audio(bus, "volume"), volumeMsg{Bus: bus, Volume: volume})
}

func (s *AudioSink) Stop(bus cutscene.Bus, fadeMs int) {
	s.send(s.topics.Audio(bus, "stop"), stopMsg{Bus: bus, FadeMs: fadeMs})
}

func (s *AudioSink) send(topic string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("mqtt: encode %s: %v", topic, err)
		return
	}
	if err := s.pub.Publish(topic, b); err != nil {
		log.Printf("mqtt: %v", err)
	}
}
