package orchestrator

import (
	"errors"
	"fmt"
	"time"

	"github.com/AaronLay10/SentientCutscene/internal/cutscene"
	"github.com/AaronLay10/SentientCutscene/internal/events"
)

var (
	ErrNilScript      = errors.New("orchestrator: nil script")
	ErrEmptyScript    = errors.New("orchestrator: script has no beats")
	ErrNotRunning     = errors.New("orchestrator: no cutscene is running")
	ErrNoActiveChoice = errors.New("orchestrator: no choice is waiting")
	ErrUnknownChoice  = errors.New("orchestrator: unknown choice")
	ErrUnknownBeat    = errors.New("orchestrator: unknown beat")
)

// CutsceneResolver loads the script a cross-cutscene goto or choice points at.
type CutsceneResolver interface {
	Resolve(cutsceneID string) (*cutscene.Script, error)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithAudioSink routes audio actions to sink.
func WithAudioSink(sink AudioSink) Option {
	return func(o *Orchestrator) { o.sink = sink }
}

// WithRevealTimings overrides the dialogue typewriter pacing.
func WithRevealTimings(t RevealTimings) Option {
	return func(o *Orchestrator) { o.timing = t }
}

// WithResolver enables jumps into other cutscenes.
func WithResolver(r CutsceneResolver) Option {
	return func(o *Orchestrator) { o.resolver = r }
}

// Orchestrator plays a compiled cutscene one beat at a time. It is driven
// entirely by Update and the input methods; it is not safe for concurrent
// use and never reads the wall clock.
type Orchestrator struct {
	script    *cutscene.Script
	lifecycle Lifecycle
	cursor    int
	phase     BeatPhase
	active    []ActionState
	pending   *jumpTarget

	// lingering holds non-blocking effects still running after their beat
	// completed.
	lingering []ActionState

	scene    *scene
	sink     AudioSink
	timing   RevealTimings
	resolver CutsceneResolver

	ticks     uint64
	elapsedMs int64
}

// New creates an orchestrator with nothing loaded.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		lifecycle: LifecycleUnloaded,
		phase:     BeatNotStarted,
		scene:     newScene(),
		timing:    DefaultRevealTimings(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Load resets all session state and starts script from its first beat.
func (o *Orchestrator) Load(script *cutscene.Script) error {
	if script == nil {
		return ErrNilScript
	}
	if len(script.Beats) == 0 {
		return ErrEmptyScript
	}

	o.script = script
	o.lifecycle = LifecycleRunning
	o.cursor = 0
	o.phase = BeatNotStarted
	o.active = nil
	o.lingering = nil
	o.pending = nil
	o.scene = newScene()
	o.ticks = 0
	o.elapsedMs = 0

	o.emit("cutscene.loaded", map[string]interface{}{
		"cutscene_id": script.CutsceneID,
		"beats":       len(script.Beats),
	})
	return nil
}

// Update advances the session by dt.
func (o *Orchestrator) Update(dt time.Duration) {
	if o.lifecycle != LifecycleRunning {
		return
	}
	dtMs := int(dt / time.Millisecond)
	o.ticks++
	o.elapsedMs += int64(dtMs)

	for _, s := range o.lingering {
		s.Tick(dtMs)
	}
	o.lingering = prune(o.lingering)

	if o.phase == BeatNotStarted {
		o.startBeat()
	}

	for _, s := range o.active {
		s.Tick(dtMs)
	}
	o.active = prune(o.active)

	if !anyBlocking(o.active) {
		o.completeBeat()
	}
}

func (o *Orchestrator) startBeat() {
	beat := o.script.Beats[o.cursor]
	o.active = make([]ActionState, 0, len(beat.Actions)+1)
	for _, a := range beat.Actions {
		o.active = append(o.active, o.newActionState(a))
	}
	o.active = append(o.active, newAdvanceState(beat.Advance))
	o.phase = BeatActive

	o.emit("beat.started", map[string]interface{}{
		"beat_id": beat.ID,
		"index":   o.cursor,
		"advance": string(beat.Advance.Mode),
	})
}

func (o *Orchestrator) completeBeat() {
	o.leaveBeat("beat.completed", false)

	if target := o.pending; target != nil {
		o.pending = nil
		o.jump(*target)
		return
	}
	if o.cursor+1 >= len(o.script.Beats) {
		o.finish()
		return
	}
	o.cursor++
	o.phase = BeatNotStarted
}

// leaveBeat ends the current beat. Non-blocking effects still running keep
// going in the background, unless skip is set, which fast-forwards them and
// drops whatever was still waiting.
func (o *Orchestrator) leaveBeat(event string, skip bool) {
	if o.phase == BeatActive {
		o.emit(event, map[string]interface{}{"beat_id": o.script.Beats[o.cursor].ID, "index": o.cursor})
	}
	for _, s := range o.active {
		if skip {
			s.Skip()
			continue
		}
		if !s.Done() {
			o.lingering = append(o.lingering, s)
		}
	}
	o.active = nil
	o.phase = BeatFinished
}

func (o *Orchestrator) recordJump(t jumpTarget) {
	o.pending = &t
}

// jump moves the cursor to target. Targets that cannot be resolved abort
// the session rather than leave the cursor somewhere undefined. A script
// from another cutscene is installed only together with a valid cursor.
func (o *Orchestrator) jump(t jumpTarget) {
	script := o.script
	if t.CutsceneID != "" && t.CutsceneID != cutscene.CurrentCutscene && t.CutsceneID != o.script.CutsceneID {
		next, ok := o.resolve(t.CutsceneID)
		if !ok {
			return
		}
		script = next
	}
	if t.BeatID == cutscene.EndBeatID {
		if script != o.script {
			o.install(script, 0)
		}
		o.finish()
		return
	}
	idx := 0
	if t.BeatID != "" {
		idx = script.BeatIndex(t.BeatID)
	}
	if idx < 0 {
		o.fail(fmt.Errorf("%w: %s/%s", ErrUnknownBeat, script.CutsceneID, t.BeatID))
		return
	}
	o.install(script, idx)
	o.phase = BeatNotStarted
	o.emit("goto.jumped", map[string]interface{}{
		"cutscene_id": o.script.CutsceneID,
		"beat_id":     t.BeatID,
		"index":       idx,
	})
}

// install moves the cursor to idx of script, replacing the running script
// when it differs. The scene is kept.
func (o *Orchestrator) install(script *cutscene.Script, idx int) {
	o.cursor = idx
	if script == o.script {
		return
	}
	o.script = script
	o.emit("cutscene.loaded", map[string]interface{}{
		"cutscene_id": script.CutsceneID,
		"beats":       len(script.Beats),
	})
}

// resolve looks up another cutscene for a jump. It reports whether playback
// can continue.
func (o *Orchestrator) resolve(id string) (*cutscene.Script, bool) {
	if o.resolver == nil {
		o.emitLevel("warn", "cutscene.unresolved", "no resolver for cross-cutscene jump", map[string]interface{}{"cutscene_id": id})
		o.finish()
		return nil, false
	}
	next, err := o.resolver.Resolve(id)
	if err == nil && (next == nil || len(next.Beats) == 0) {
		err = ErrEmptyScript
	}
	if err != nil {
		o.fail(fmt.Errorf("resolve cutscene %s: %w", id, err))
		return nil, false
	}
	return next, true
}

func (o *Orchestrator) finish() {
	o.lifecycle = LifecycleFinished
	o.phase = BeatFinished
	o.emit("cutscene.finished", map[string]interface{}{
		"cutscene_id": o.script.CutsceneID,
		"ticks":       o.ticks,
		"elapsed_ms":  o.elapsedMs,
	})
}

func (o *Orchestrator) fail(err error) {
	o.lifecycle = LifecycleStopped
	o.active = nil
	o.emitLevel("error", "system.error", err.Error(), map[string]interface{}{"cutscene_id": o.script.CutsceneID})
}

// Advance forwards a player input to every state waiting for one. It is
// ignored while paused and while the beat's content still blocks.
func (o *Orchestrator) Advance() {
	if o.lifecycle != LifecycleRunning {
		return
	}
	if o.contentBlocking() {
		o.emitLevel("debug", "input.advance", "content still playing", map[string]interface{}{"ignored": true})
		return
	}
	o.emit("input.advance", nil)
	walk(o.active, func(s ActionState) {
		if a, ok := s.(Advancer); ok {
			a.Advance()
		}
	})
}

// contentBlocking reports whether authored content of the current beat is
// still holding it. Presses made then are dropped, not latched.
func (o *Orchestrator) contentBlocking() bool {
	for _, s := range o.active {
		if _, policy := s.(Advancer); !policy && s.Blocking() {
			return true
		}
	}
	return false
}

// Signal raises an external signal. Signals are delivered while paused.
func (o *Orchestrator) Signal(key string) {
	if !o.live() {
		return
	}
	o.emit("signal.raised", map[string]interface{}{"key": key})
	walk(o.active, func(s ActionState) {
		if sg, ok := s.(Signaler); ok {
			sg.Signal(key)
		}
	})
}

// SoundFinished tells waiting audio actions that the sound on bus ended.
func (o *Orchestrator) SoundFinished(bus cutscene.Bus) {
	if !o.live() {
		return
	}
	o.emit("audio.finished", map[string]interface{}{"bus": string(bus)})
	notify := func(s ActionState) {
		if w, ok := s.(soundWaiter); ok {
			w.soundFinished(bus)
		}
	}
	walk(o.active, notify)
	walk(o.lingering, notify)
}

// Choose resolves the waiting choice and jumps to the option's beat. The
// rest of the current beat is fast-forwarded.
func (o *Orchestrator) Choose(id string) error {
	if !o.live() {
		return ErrNotRunning
	}
	var choice *choiceAction
	walk(o.active, func(s ActionState) {
		if c, ok := s.(*choiceAction); ok && choice == nil && !c.Done() {
			choice = c
		}
	})
	if choice == nil {
		return ErrNoActiveChoice
	}
	opt, ok := choice.option(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChoice, id)
	}
	if err := o.checkTarget(opt.CutsceneID, opt.EntryBeatID); err != nil {
		return err
	}

	choice.choose(opt)
	o.emit("choice.made", map[string]interface{}{
		"choice_id":   opt.ID,
		"cutscene_id": opt.CutsceneID,
		"beat_id":     opt.EntryBeatID,
	})
	o.leaveBeat("beat.skipped", true)
	o.pending = nil
	o.jump(jumpTarget{CutsceneID: opt.CutsceneID, BeatID: opt.EntryBeatID})
	return nil
}

// GotoBeat relocates the cursor to the beat with the given id. On error the
// session is left untouched.
func (o *Orchestrator) GotoBeat(id string) error {
	if !o.live() {
		return ErrNotRunning
	}
	if err := o.checkTarget(cutscene.CurrentCutscene, id); err != nil {
		return err
	}
	o.leaveBeat("beat.skipped", true)
	o.pending = nil
	o.jump(jumpTarget{CutsceneID: cutscene.CurrentCutscene, BeatID: id})
	return nil
}

func (o *Orchestrator) checkTarget(cutsceneID, beatID string) error {
	current := cutsceneID == "" || cutsceneID == cutscene.CurrentCutscene || cutsceneID == o.script.CutsceneID
	if !current || beatID == cutscene.EndBeatID {
		return nil
	}
	if o.script.BeatIndex(beatID) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownBeat, beatID)
	}
	return nil
}

// SkipBeat fast-forwards every content action of the current beat at once.
// Advance policies and choices ignore Skip, so the beat still waits for them.
func (o *Orchestrator) SkipBeat() {
	if !o.live() || o.phase != BeatActive {
		return
	}
	for _, s := range o.active {
		s.Skip()
	}
	for _, s := range o.lingering {
		s.Skip()
	}
	o.emit("beat.skipped", map[string]interface{}{"beat_id": o.script.Beats[o.cursor].ID, "index": o.cursor})
}

// SetPause suspends or resumes Update.
func (o *Orchestrator) SetPause(paused bool) {
	switch {
	case paused && o.lifecycle == LifecycleRunning:
		o.lifecycle = LifecyclePaused
		o.emit("cutscene.paused", nil)
	case !paused && o.lifecycle == LifecyclePaused:
		o.lifecycle = LifecycleRunning
		o.emit("cutscene.resumed", nil)
	}
}

// Stop ends the session. Only a new Load restarts playback.
func (o *Orchestrator) Stop() {
	if !o.live() {
		return
	}
	o.lifecycle = LifecycleStopped
	o.active = nil
	o.lingering = nil
	o.pending = nil
	o.emit("cutscene.stopped", map[string]interface{}{"cutscene_id": o.script.CutsceneID})
}

func (o *Orchestrator) live() bool {
	return o.lifecycle == LifecycleRunning || o.lifecycle == LifecyclePaused
}

func (o *Orchestrator) Running() bool        { return o.lifecycle == LifecycleRunning }
func (o *Orchestrator) Paused() bool         { return o.lifecycle == LifecyclePaused }
func (o *Orchestrator) Lifecycle() Lifecycle { return o.lifecycle }

// CurrentBeat returns the cursor position and the id of the beat under it.
func (o *Orchestrator) CurrentBeat() (int, string) {
	if o.script == nil {
		return 0, ""
	}
	return o.cursor, o.script.Beats[o.cursor].ID
}

// State returns a copy of the session state for renderers.
func (o *Orchestrator) State() Snapshot {
	snap := Snapshot{
		Lifecycle:     o.lifecycle,
		BeatIndex:     o.cursor,
		Phase:         o.phase,
		ActiveActions: len(o.active),
		Blocking:      anyBlocking(o.active),
		Ticks:         o.ticks,
		ElapsedMs:     o.elapsedMs,
	}
	if o.script != nil {
		snap.CutsceneID = o.script.CutsceneID
		snap.BeatID = o.script.Beats[o.cursor].ID
	}
	o.scene.snapshot(&snap)
	return snap
}

func (o *Orchestrator) emit(name string, fields map[string]interface{}) {
	o.emitLevel("info", name, "", fields)
}

func (o *Orchestrator) emitLevel(level, name, msg string, fields map[string]interface{}) {
	events.Emit(level, name, msg, fields)
}

func prune(states []ActionState) []ActionState {
	kept := states[:0]
	for _, s := range states {
		if !s.Done() {
			kept = append(kept, s)
		}
	}
	return kept
}

func anyBlocking(states []ActionState) bool {
	for _, s := range states {
		if s.Blocking() {
			return true
		}
	}
	return false
}
