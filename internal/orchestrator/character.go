package orchestrator

import "github.com/AaronLay10/SentientCutscene/internal/cutscene"

// characterEnter brings a character on screen, or changes the pose of one
// already there. A slide starts one screen width off its side, a fade
// starts transparent. A character already on screen just swaps pose.
type characterEnter struct {
	view    *CharacterView
	lease   claim
	sliding bool
	fading  bool
	await   bool
	fade    fade
}

func newCharacterEnter(sc *scene, a cutscene.CharacterEnter) *characterEnter {
	v := sc.character(a.CharacterID)
	c := &characterEnter{
		view:    v,
		lease:   sc.claim(characterSlot(a.CharacterID)),
		sliding: a.Transition == cutscene.TransitionSlide && !v.OnScreen,
		fading:  a.Transition == cutscene.TransitionFade && !v.OnScreen,
		await:   a.Await,
		fade:    newFade(a.DurationMs),
	}
	v.Pose = a.Pose
	v.Image = a.Image
	v.Position = a.Position
	v.OnScreen = true
	c.apply(0)
	return c
}

func (c *characterEnter) apply(p float64) {
	if !c.lease.held() {
		c.fade.finish()
		return
	}
	if c.fade.done {
		p = 1
	}
	switch {
	case c.sliding:
		c.view.Opacity = 1
		c.view.XOffset = p - 1
	case c.fading:
		c.view.Opacity = p
		c.view.XOffset = 0
	default:
		c.view.Opacity = 1
		c.view.XOffset = 0
	}
}

func (c *characterEnter) Tick(dtMs int) {
	if c.fade.done {
		return
	}
	c.apply(c.fade.tick(dtMs))
}

func (c *characterEnter) Skip() {
	c.fade.finish()
	c.apply(1)
}

func (c *characterEnter) Blocking() bool { return c.await && !c.fade.done }
func (c *characterEnter) Done() bool     { return c.fade.done }

// characterExit takes a character off screen.
type characterExit struct {
	view       *CharacterView
	lease      claim
	transition cutscene.Transition
	await      bool
	fade       fade
}

func newCharacterExit(sc *scene, a cutscene.CharacterExit) *characterExit {
	c := &characterExit{
		view:       sc.character(a.CharacterID),
		lease:      sc.claim(characterSlot(a.CharacterID)),
		transition: a.Transition,
		await:      a.Await,
		fade:       newFade(a.DurationMs),
	}
	if !c.view.OnScreen {
		c.fade.finish()
	}
	c.apply(0)
	return c
}

func (c *characterExit) apply(p float64) {
	if !c.lease.held() {
		c.fade.finish()
		return
	}
	if c.fade.done {
		c.view.OnScreen = false
		c.view.Opacity = 0
		c.view.XOffset = 0
		return
	}
	switch c.transition {
	case cutscene.TransitionFade:
		c.view.Opacity = 1 - p
	case cutscene.TransitionSlide:
		c.view.XOffset = -p
	}
}

func (c *characterExit) Tick(dtMs int) {
	if c.fade.done {
		return
	}
	c.apply(c.fade.tick(dtMs))
}

func (c *characterExit) Skip() {
	c.fade.finish()
	c.apply(1)
}

func (c *characterExit) Blocking() bool { return c.await && !c.fade.done }
func (c *characterExit) Done() bool     { return c.fade.done }
