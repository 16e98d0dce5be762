package orchestrator

import (
	"strings"

	"github.com/AaronLay10/SentientCutscene/internal/cutscene"
)

// RevealTimings controls the typewriter effect of dialogue lines. Each
// character waits DefaultMs before the next one appears, unless it is a
// punctuation mark listed in Pauses.
type RevealTimings struct {
	DefaultMs int
	Pauses    map[rune]int
}

// DefaultRevealTimings returns the stock typewriter pacing.
func DefaultRevealTimings() RevealTimings {
	return RevealTimings{
		DefaultMs: 32,
		Pauses: map[rune]int{
			',': 150,
			'.': 360,
			'-': 200,
			':': 240,
			'!': 340,
			'?': 380,
		},
	}
}

// delayAfter returns the wait after revealing text[i]. Ellipses and "?!"
// are paced as a single mark.
func (t RevealTimings) delayAfter(text []rune, i int) int {
	r := text[i]
	var next, prev rune
	if i+1 < len(text) {
		next = text[i+1]
	}
	if i > 0 {
		prev = text[i-1]
	}

	switch {
	case r == '.' && next == '.':
		return 50
	case r == '?' && next == '!':
		return 10
	case r == '!' && prev == '?':
		return 500
	}
	if d, ok := t.Pauses[r]; ok {
		return d
	}
	return t.DefaultMs
}

// dialogueReveal shows a line one character at a time. A later line or a
// hide supersedes it, after which it stops touching the dialogue box.
type dialogueReveal struct {
	sc     *scene
	lease  claim
	text   []rune
	timing RevealTimings
	await  bool
	waitMs int
	done   bool
}

func newDialogueShow(sc *scene, timing RevealTimings, a cutscene.DialogueShow) *dialogueReveal {
	return newDialogueReveal(sc, timing, a.Speaker, []string{a.CharacterID}, a.Text, a.Await)
}

func newDialogueChorus(sc *scene, timing RevealTimings, a cutscene.DialogueChorus) *dialogueReveal {
	return newDialogueReveal(sc, timing, strings.Join(a.Speakers, " & "), a.CharacterIDs, a.Text, a.Await)
}

func newDialogueReveal(sc *scene, timing RevealTimings, speaker string, ids []string, text string, await bool) *dialogueReveal {
	d := &dialogueReveal{
		sc:     sc,
		lease:  sc.claim(dialogueSlot),
		text:   []rune(text),
		timing: timing,
		await:  await,
	}
	sc.dialogue = DialogueView{
		Visible:      true,
		Speaker:      speaker,
		CharacterIDs: append([]string(nil), ids...),
		Text:         text,
		Length:       len(d.text),
	}
	if !await {
		d.Skip()
	}
	return d
}

func (d *dialogueReveal) superseded() bool {
	return !d.lease.held()
}

func (d *dialogueReveal) Tick(dtMs int) {
	if d.done {
		return
	}
	if d.superseded() {
		d.done = true
		return
	}
	view := &d.sc.dialogue
	d.waitMs -= dtMs
	for d.waitMs <= 0 && view.Revealed < len(d.text) {
		d.waitMs += d.timing.delayAfter(d.text, view.Revealed)
		view.Revealed++
	}
	if view.Revealed >= len(d.text) {
		d.finish()
	}
}

func (d *dialogueReveal) Skip() {
	if d.done {
		return
	}
	if !d.superseded() {
		d.sc.dialogue.Revealed = len(d.text)
	}
	d.finish()
}

func (d *dialogueReveal) finish() {
	if !d.superseded() {
		d.sc.dialogue.Complete = true
	}
	d.done = true
}

func (d *dialogueReveal) Blocking() bool { return d.await && !d.done }
func (d *dialogueReveal) Done() bool     { return d.done }

// dialogueHide clears the dialogue box.
type dialogueHide struct {
	sc    *scene
	await bool
	done  bool
}

func newDialogueHide(sc *scene, a cutscene.DialogueHide) *dialogueHide {
	return &dialogueHide{sc: sc, await: a.Await}
}

func (h *dialogueHide) Tick(int) { h.Skip() }

func (h *dialogueHide) Skip() {
	if h.done {
		return
	}
	h.sc.claim(dialogueSlot)
	h.sc.dialogue = DialogueView{}
	h.done = true
}

func (h *dialogueHide) Blocking() bool { return h.await && !h.done }
func (h *dialogueHide) Done() bool     { return h.done }
