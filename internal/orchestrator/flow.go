package orchestrator

import "github.com/AaronLay10/SentientCutscene/internal/cutscene"

// jumpTarget is where the cursor goes once the current beat completes.
type jumpTarget struct {
	CutsceneID string
	BeatID     string
}

// gotoAction records a jump on its first tick. The jump itself happens at
// beat completion.
type gotoAction struct {
	target jumpTarget
	record func(jumpTarget)
	done   bool
}

func newGoto(record func(jumpTarget), a cutscene.Goto) *gotoAction {
	return &gotoAction{
		target: jumpTarget{CutsceneID: a.CutsceneID, BeatID: a.BeatID},
		record: record,
	}
}

func (g *gotoAction) Tick(int) { g.Skip() }

func (g *gotoAction) Skip() {
	if g.done {
		return
	}
	g.record(g.target)
	g.done = true
}

func (g *gotoAction) Blocking() bool { return !g.done }
func (g *gotoAction) Done() bool     { return g.done }

// parallel runs child states side by side in authored order.
type parallel struct {
	kids  []ActionState
	await bool
}

func newParallel(kids []ActionState, a cutscene.Parallel) *parallel {
	return &parallel{kids: kids, await: a.Await}
}

func (p *parallel) children() []ActionState { return p.kids }

func (p *parallel) Tick(dtMs int) {
	for _, k := range p.kids {
		if !k.Done() {
			k.Tick(dtMs)
		}
	}
}

func (p *parallel) Skip() {
	for _, k := range p.kids {
		k.Skip()
	}
}

func (p *parallel) Blocking() bool {
	if !p.await {
		return false
	}
	for _, k := range p.kids {
		if !k.Done() && k.Blocking() {
			return true
		}
	}
	return false
}

func (p *parallel) Done() bool {
	for _, k := range p.kids {
		if !k.Done() {
			return false
		}
	}
	return true
}
