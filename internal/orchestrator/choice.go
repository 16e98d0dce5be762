package orchestrator

import "github.com/AaronLay10/SentientCutscene/internal/cutscene"

// choiceAction waits for the player to pick one of its options. It is not
// skippable; only Orchestrator.Choose releases it.
type choiceAction struct {
	sc      *scene
	options []cutscene.ChoiceOption
	chosen  *cutscene.ChoiceOption
}

func newChoice(sc *scene, a cutscene.Choice) *choiceAction {
	c := &choiceAction{sc: sc, options: a.Options}
	view := ChoiceView{Active: true, Prompt: a.Prompt}
	for _, opt := range a.Options {
		view.Options = append(view.Options, ChoiceOptionView{ID: opt.ID, Line: opt.Line})
	}
	sc.choice = view
	return c
}

// option looks up an option without resolving the choice.
func (c *choiceAction) option(id string) (cutscene.ChoiceOption, bool) {
	if c.chosen != nil {
		return cutscene.ChoiceOption{}, false
	}
	for _, opt := range c.options {
		if opt.ID == id {
			return opt, true
		}
	}
	return cutscene.ChoiceOption{}, false
}

// choose resolves the choice and hides the prompt.
func (c *choiceAction) choose(opt cutscene.ChoiceOption) {
	c.chosen = &opt
	c.sc.choice = ChoiceView{}
}

func (c *choiceAction) Tick(int)       {}
func (c *choiceAction) Skip()          {}
func (c *choiceAction) Blocking() bool { return c.chosen == nil }
func (c *choiceAction) Done() bool     { return c.chosen != nil }
