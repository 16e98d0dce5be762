package orchestrator

import "github.com/AaronLay10/SentientCutscene/internal/cutscene"

// Advance policies are action states appended after a beat's content. They
// ignore Skip so that skipping a beat's content never skips the wait.

type inputPolicy struct {
	pressed bool
	done    bool
}

func (p *inputPolicy) Advance() { p.pressed = true }

func (p *inputPolicy) Tick(int) {
	if p.pressed {
		p.done = true
	}
}

func (p *inputPolicy) Skip()          {}
func (p *inputPolicy) Blocking() bool { return !p.done }
func (p *inputPolicy) Done() bool     { return p.done }

type autoPolicy struct {
	done bool
}

func (p *autoPolicy) Tick(int)       { p.done = true }
func (p *autoPolicy) Skip()          {}
func (p *autoPolicy) Blocking() bool { return !p.done }
func (p *autoPolicy) Done() bool     { return p.done }

type autoDelayPolicy struct {
	delayMs   int
	elapsedMs int
}

func (p *autoDelayPolicy) Tick(dtMs int) {
	if !p.Done() {
		p.elapsedMs += dtMs
	}
}

func (p *autoDelayPolicy) Skip()          {}
func (p *autoDelayPolicy) Blocking() bool { return !p.Done() }
func (p *autoDelayPolicy) Done() bool     { return p.elapsedMs >= p.delayMs }

type signalPolicy struct {
	key  string
	done bool
}

func (p *signalPolicy) Signal(key string) {
	if key == p.key {
		p.done = true
	}
}

func (p *signalPolicy) Tick(int)       {}
func (p *signalPolicy) Skip()          {}
func (p *signalPolicy) Blocking() bool { return !p.done }
func (p *signalPolicy) Done() bool     { return p.done }

func newAdvanceState(policy cutscene.AdvancePolicy) ActionState {
	switch policy.Mode {
	case cutscene.AdvanceAuto:
		return &autoPolicy{}
	case cutscene.AdvanceAutoDelay:
		return &autoDelayPolicy{delayMs: policy.DelayMs}
	case cutscene.AdvanceSignal:
		return &signalPolicy{key: policy.SignalKey}
	default:
		return &inputPolicy{}
	}
}
