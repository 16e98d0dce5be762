package orchestrator

import "github.com/AaronLay10/SentientCutscene/internal/cutscene"

// AudioCue is a request to start a sound on a bus.
type AudioCue struct {
	Bus     cutscene.Bus `json:"bus"`
	SoundID string       `json:"sound_id"`
	File    string       `json:"file"`
	Volume  float64      `json:"volume"`
	Pitch   *float64     `json:"pitch,omitempty"`
	Pan     *float64     `json:"pan,omitempty"`
	Loop    bool         `json:"loop"`
}

// AudioSink plays sounds on behalf of the orchestrator. Implementations
// must not block; a sink that plays a non-looping cue reports its end
// through Orchestrator.SoundFinished.
type AudioSink interface {
	Play(cue AudioCue)
	SetVolume(bus cutscene.Bus, volume float64)
	Stop(bus cutscene.Bus, fadeMs int)
}

// soundWaiter is implemented by states that wait for a sound to end.
type soundWaiter interface {
	soundFinished(bus cutscene.Bus)
}

type audioPlay struct {
	view  *BusView
	lease claim
	wait  bool
	done  bool
}

func newAudioPlay(sc *scene, sink AudioSink, a cutscene.AudioPlay) *audioPlay {
	v := sc.bus(a.Bus)
	*v = BusView{
		Bus:     a.Bus,
		SoundID: a.SoundID,
		File:    a.File,
		Volume:  a.Volume,
		Loop:    a.Loop,
		Playing: true,
	}
	if sink != nil {
		sink.Play(AudioCue{
			Bus:     a.Bus,
			SoundID: a.SoundID,
			File:    a.File,
			Volume:  a.Volume,
			Pitch:   a.Pitch,
			Pan:     a.Pan,
			Loop:    a.Loop,
		})
	}
	return &audioPlay{
		view:  v,
		lease: sc.claim(busSlot(a.Bus)),
		wait:  a.Await && !a.Loop && sink != nil,
	}
}

func (p *audioPlay) Tick(int) {
	if !p.wait || !p.lease.held() {
		p.done = true
	}
}

func (p *audioPlay) Skip() { p.done = true }

func (p *audioPlay) soundFinished(bus cutscene.Bus) {
	if bus != p.view.Bus || p.done {
		return
	}
	if p.lease.held() {
		p.view.Playing = false
	}
	p.done = true
}

func (p *audioPlay) Blocking() bool { return p.wait && !p.done }
func (p *audioPlay) Done() bool     { return p.done }

type audioSet struct {
	done bool
}

func newAudioSet(sc *scene, sink AudioSink, a cutscene.AudioSet) *audioSet {
	sc.bus(a.Bus).Volume = a.Volume
	if sink != nil {
		sink.SetVolume(a.Bus, a.Volume)
	}
	return &audioSet{}
}

func (s *audioSet) Tick(int)       { s.done = true }
func (s *audioSet) Skip()          { s.done = true }
func (s *audioSet) Blocking() bool { return false }
func (s *audioSet) Done() bool     { return s.done }

// audioStop fades a bus volume to zero and marks it silent.
type audioStop struct {
	view  *BusView
	lease claim
	from  float64
	await bool
	fade  fade
}

func newAudioStop(sc *scene, sink AudioSink, a cutscene.AudioStop) *audioStop {
	v := sc.bus(a.Bus)
	if sink != nil {
		sink.Stop(a.Bus, a.FadeMs)
	}
	s := &audioStop{
		view:  v,
		lease: sc.claim(busSlot(a.Bus)),
		from:  v.Volume,
		await: a.Await,
		fade:  newFade(a.FadeMs),
	}
	return s
}

func (s *audioStop) apply(p float64) {
	if !s.lease.held() {
		s.fade.finish()
		return
	}
	if s.fade.done {
		s.view.Volume = 0
		s.view.Playing = false
		return
	}
	s.view.Volume = s.from * (1 - p)
}

func (s *audioStop) Tick(dtMs int) {
	if s.fade.done {
		return
	}
	s.apply(s.fade.tick(dtMs))
}

func (s *audioStop) Skip() {
	s.fade.finish()
	s.apply(1)
}

func (s *audioStop) Blocking() bool { return s.await && !s.fade.done }
func (s *audioStop) Done() bool     { return s.fade.done }
