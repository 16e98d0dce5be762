package orchestrator

import "github.com/AaronLay10/SentientCutscene/internal/cutscene"

// backgroundSet cross-fades from the current background to a new one.
// Only the fade transition interpolates opacity; the others swap at once
// but still hold the beat for the authored duration.
type backgroundSet struct {
	view       *BackgroundView
	lease      claim
	transition cutscene.Transition
	await      bool
	fade       fade
}

func newBackgroundSet(sc *scene, a cutscene.BackgroundSet) *backgroundSet {
	b := &backgroundSet{
		view:       &sc.background,
		lease:      sc.claim(backgroundSlot),
		transition: a.Transition,
		await:      a.Await,
		fade:       newFade(a.DurationMs),
	}
	prev := sc.background.Image
	sc.background = BackgroundView{
		BackgroundID:  a.BackgroundID,
		Image:         a.Image,
		PreviousImage: prev,
		Transition:    a.Transition,
	}
	b.apply(0)
	return b
}

func (b *backgroundSet) apply(p float64) {
	if !b.lease.held() {
		b.fade.finish()
		return
	}
	if b.fade.done {
		b.view.Opacity = 1
		b.view.PreviousImage = ""
		b.view.PreviousOpacity = 0
		return
	}
	if b.transition != cutscene.TransitionFade {
		p = 1
	}
	b.view.Opacity = p
	if b.view.PreviousImage != "" {
		b.view.PreviousOpacity = 1 - p
	}
}

func (b *backgroundSet) Tick(dtMs int) {
	if b.fade.done {
		return
	}
	b.apply(b.fade.tick(dtMs))
}

func (b *backgroundSet) Skip() {
	b.fade.finish()
	b.apply(1)
}

func (b *backgroundSet) Blocking() bool { return b.await && !b.fade.done }
func (b *backgroundSet) Done() bool     { return b.fade.done }
